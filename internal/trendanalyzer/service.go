package trendanalyzer

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const latestAssessmentsQuery = `
	SELECT DISTINCT ON (equipment_id)
		equipment_id, health_grade, health_score, master_fault_index,
		time_to_failure_days, assessed_at
	FROM assessments
	ORDER BY equipment_id, assessed_at DESC
`

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) EvaluateLatest(ctx context.Context) (*CycleSummary, error) {
	rows, err := s.db.QueryContext(ctx, latestAssessmentsQuery)
	if err != nil {
		return nil, fmt.Errorf("query latest assessments: %w", err)
	}
	defer rows.Close()

	summary := &CycleSummary{
		GeneratedAt: time.Now(),
		Trends:      make([]EquipmentTrend, 0, 8),
	}

	scoreSum := 0.0

	for rows.Next() {
		var trend EquipmentTrend
		if err := rows.Scan(
			&trend.EquipmentID,
			&trend.HealthGrade,
			&trend.HealthScore,
			&trend.MasterFaultIndex,
			&trend.TimeToFailureDays,
			&trend.AssessedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assessment row: %w", err)
		}

		trend.Severity = severityFor(trend.HealthGrade, trend.HealthScore, trend.TimeToFailureDays)
		summary.Trends = append(summary.Trends, trend)

		summary.EquipmentTotal++
		scoreSum += trend.HealthScore
		switch trend.Severity {
		case SeverityCritical:
			summary.CriticalCount++
		case SeverityWarning:
			summary.WarningCount++
		}

		assessmentAge := time.Since(trend.AssessedAt)
		if assessmentAge > summary.OldestAssessment {
			summary.OldestAssessment = assessmentAge
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessment rows: %w", err)
	}

	if summary.EquipmentTotal > 0 {
		summary.AverageScore = scoreSum / float64(summary.EquipmentTotal)
	}

	return summary, nil
}

func severityFor(grade string, score float64, timeToFailureDays int) Severity {
	switch grade {
	case "E", "F":
		return SeverityCritical
	case "C", "D":
		if timeToFailureDays > 0 && timeToFailureDays < 7 {
			return SeverityCritical
		}
		return SeverityWarning
	default:
		if score < 70.0 {
			return SeverityWarning
		}
		if timeToFailureDays > 0 && timeToFailureDays < 30 {
			return SeverityWarning
		}
		return SeverityOK
	}
}
