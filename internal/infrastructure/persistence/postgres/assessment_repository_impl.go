package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/repository"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	_ "github.com/lib/pq"
)

const assessmentColumns = `
	id, equipment_id, master_fault_index, health_score, health_grade,
	critical_failures, recommendations,
	mtbf_hours, mttr_hours, availability, risk_level,
	predicted_failure_mode, time_to_failure_days, confidence_level, maintenance_urgency,
	assessed_at
`

// PostgresAssessmentRepository реализует repository.AssessmentRepository для PostgreSQL
type PostgresAssessmentRepository struct {
	db *sql.DB
}

// NewPostgresAssessmentRepository создает новый PostgreSQL repository
func NewPostgresAssessmentRepository(db *sql.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{
		db: db,
	}
}

// Save сохраняет оценку вместе с анализами одной транзакцией
func (r *PostgresAssessmentRepository) Save(ctx context.Context, record repository.AssessmentRecord) error {
	model, err := ToAssessmentDBModel(record.Assessment)
	if err != nil {
		return fmt.Errorf("failed to convert to DB model: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assessments (`+assessmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		model.ID,
		model.EquipmentID,
		model.MasterFaultIndex,
		model.HealthScore,
		model.HealthGrade,
		model.CriticalFailures,
		model.Recommendations,
		model.MTBFHours,
		model.MTTRHours,
		model.Availability,
		model.RiskLevel,
		model.PredictedFailureMode,
		model.TimeToFailureDays,
		model.ConfidenceLevel,
		model.MaintenanceUrgency,
		model.AssessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO failure_analyses
			(assessment_id, position, failure_type, severity, combined_index,
			 threshold_good, threshold_moderate, description, progress)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, analysis := range ToAnalysisDBModels(model.ID, record.Analyses) {
		_, err = stmt.ExecContext(ctx,
			analysis.AssessmentID,
			analysis.Position,
			analysis.FailureType,
			analysis.Severity,
			analysis.CombinedIndex,
			analysis.ThresholdGood,
			analysis.ThresholdModerate,
			analysis.Description,
			analysis.Progress,
		)
		if err != nil {
			return fmt.Errorf("failed to insert analysis: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID находит оценку по идентификатору
func (r *PostgresAssessmentRepository) FindByID(ctx context.Context, id string) (*entity.MasterHealthAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	model, err := ScanAssessmentRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assessment not found: %s", id)
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	return ToAssessmentEntity(model)
}

// FindLatestByEquipment находит последнюю оценку агрегата
func (r *PostgresAssessmentRepository) FindLatestByEquipment(
	ctx context.Context,
	equipmentID string,
) (*entity.MasterHealthAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE equipment_id = $1
		ORDER BY assessed_at DESC
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, equipmentID)
	model, err := ScanAssessmentRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assessment not found for equipment: %s", equipmentID)
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	return ToAssessmentEntity(model)
}

// FindByEquipment находит оценки агрегата с ограничением количества
func (r *PostgresAssessmentRepository) FindByEquipment(
	ctx context.Context,
	equipmentID string,
	limit int,
) ([]*entity.MasterHealthAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE equipment_id = $1
		ORDER BY assessed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, equipmentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	return r.scanAssessments(rows)
}

// FindByTimeRange находит оценки агрегата во временном диапазоне
func (r *PostgresAssessmentRepository) FindByTimeRange(
	ctx context.Context,
	equipmentID string,
	timeRange valueobject.TimeRange,
) ([]*entity.MasterHealthAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE equipment_id = $1 AND assessed_at BETWEEN $2 AND $3
		ORDER BY assessed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query,
		equipmentID,
		timeRange.Start(),
		timeRange.End(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	return r.scanAssessments(rows)
}

// ListEquipmentIDs возвращает идентификаторы агрегатов с оценками
func (r *PostgresAssessmentRepository) ListEquipmentIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT equipment_id
		FROM assessments
		ORDER BY equipment_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan equipment id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

// DeleteOlderThan удаляет оценки старше указанного диапазона.
// Анализы удаляются каскадно по внешнему ключу.
func (r *PostgresAssessmentRepository) DeleteOlderThan(ctx context.Context, timeRange valueobject.TimeRange) error {
	query := `
		DELETE FROM assessments
		WHERE assessed_at < $1
	`

	if _, err := r.db.ExecContext(ctx, query, timeRange.Start()); err != nil {
		return fmt.Errorf("failed to delete old assessments: %w", err)
	}

	return nil
}

// Count возвращает количество оценок агрегата
func (r *PostgresAssessmentRepository) Count(ctx context.Context, equipmentID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM assessments
		WHERE equipment_id = $1
	`

	var count int64
	err := r.db.QueryRowContext(ctx, query, equipmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	return count, nil
}

// scanAssessments сканирует несколько строк в слайс оценок
func (r *PostgresAssessmentRepository) scanAssessments(rows *sql.Rows) ([]*entity.MasterHealthAssessment, error) {
	var assessments []*entity.MasterHealthAssessment

	for rows.Next() {
		model, err := ScanAssessmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}

		assessment, err := ToAssessmentEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to convert to entity: %w", err)
		}

		assessments = append(assessments, assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return assessments, nil
}
