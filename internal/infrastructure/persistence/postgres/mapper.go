package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// AssessmentDBModel представляет оценку здоровья в БД
type AssessmentDBModel struct {
	ID                   string
	EquipmentID          string
	MasterFaultIndex     float64
	HealthScore          float64
	HealthGrade          string
	CriticalFailures     []byte // JSON
	Recommendations      []byte // JSON
	MTBFHours            float64
	MTTRHours            float64
	Availability         float64
	RiskLevel            string
	PredictedFailureMode string
	TimeToFailureDays    int
	ConfidenceLevel      float64
	MaintenanceUrgency   string
	AssessedAt           time.Time
}

// AnalysisDBModel представляет результат анализатора в БД
type AnalysisDBModel struct {
	AssessmentID      string
	Position          int
	FailureType       string
	Severity          string
	CombinedIndex     float64
	ThresholdGood     float64
	ThresholdModerate float64
	Description       string
	Progress          int
}

// ToAssessmentDBModel конвертирует Domain Entity в DB Model
func ToAssessmentDBModel(assessment *entity.MasterHealthAssessment) (*AssessmentDBModel, error) {
	critical := assessment.CriticalFailures()
	names := make([]string, len(critical))
	for i, ft := range critical {
		names[i] = ft.String()
	}

	criticalBytes, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}
	recommendationsBytes, err := json.Marshal(assessment.Recommendations())
	if err != nil {
		return nil, err
	}

	reliability := assessment.Reliability()
	insights := assessment.Insights()

	return &AssessmentDBModel{
		ID:                   assessment.ID(),
		EquipmentID:          assessment.EquipmentID(),
		MasterFaultIndex:     assessment.MasterFaultIndex(),
		HealthScore:          assessment.HealthScore(),
		HealthGrade:          string(assessment.HealthGrade()),
		CriticalFailures:     criticalBytes,
		Recommendations:      recommendationsBytes,
		MTBFHours:            reliability.MTBFHours,
		MTTRHours:            reliability.MTTRHours,
		Availability:         reliability.Availability,
		RiskLevel:            string(reliability.RiskLevel),
		PredictedFailureMode: insights.PredictedFailureMode,
		TimeToFailureDays:    insights.TimeToFailureDays,
		ConfidenceLevel:      insights.ConfidenceLevel,
		MaintenanceUrgency:   string(insights.MaintenanceUrgency),
		AssessedAt:           assessment.AssessedAt(),
	}, nil
}

// ToAnalysisDBModels конвертирует анализы оценки в DB Models.
// Позиция сохраняет порядок сортировки по серьезности.
func ToAnalysisDBModels(assessmentID string, analyses []*entity.FailureAnalysis) []*AnalysisDBModel {
	models := make([]*AnalysisDBModel, len(analyses))
	for i, analysis := range analyses {
		threshold := analysis.Threshold()
		models[i] = &AnalysisDBModel{
			AssessmentID:      assessmentID,
			Position:          i,
			FailureType:       analysis.Type().String(),
			Severity:          analysis.Severity().String(),
			CombinedIndex:     analysis.Index(),
			ThresholdGood:     threshold.Good(),
			ThresholdModerate: threshold.Moderate(),
			Description:       analysis.Description(),
			Progress:          analysis.Progress(),
		}
	}
	return models
}

// ToAssessmentEntity конвертирует DB Model в Domain Entity
func ToAssessmentEntity(model *AssessmentDBModel) (*entity.MasterHealthAssessment, error) {
	var names []string
	if len(model.CriticalFailures) > 0 {
		if err := json.Unmarshal(model.CriticalFailures, &names); err != nil {
			return nil, err
		}
	}
	critical := make([]valueobject.FailureType, len(names))
	for i, name := range names {
		critical[i] = valueobject.FailureType(name)
	}

	var recommendations []string
	if len(model.Recommendations) > 0 {
		if err := json.Unmarshal(model.Recommendations, &recommendations); err != nil {
			return nil, err
		}
	}

	assessment := entity.ReconstructAssessment(
		model.ID,
		model.EquipmentID,
		model.MasterFaultIndex,
		model.HealthScore,
		valueobject.HealthGrade(model.HealthGrade),
		critical,
		recommendations,
		entity.ReliabilityMetrics{
			MTBFHours:    model.MTBFHours,
			MTTRHours:    model.MTTRHours,
			Availability: model.Availability,
			RiskLevel:    valueobject.RiskLevel(model.RiskLevel),
		},
		entity.PredictiveInsights{
			PredictedFailureMode: model.PredictedFailureMode,
			TimeToFailureDays:    model.TimeToFailureDays,
			ConfidenceLevel:      model.ConfidenceLevel,
			MaintenanceUrgency:   valueobject.MaintenanceUrgency(model.MaintenanceUrgency),
		},
		model.AssessedAt,
	)

	return assessment, nil
}

// ScanAssessmentRow сканирует строку БД в AssessmentDBModel
func ScanAssessmentRow(row interface {
	Scan(dest ...interface{}) error
}) (*AssessmentDBModel, error) {
	var model AssessmentDBModel
	var critical, recommendations sql.NullString

	err := row.Scan(
		&model.ID,
		&model.EquipmentID,
		&model.MasterFaultIndex,
		&model.HealthScore,
		&model.HealthGrade,
		&critical,
		&recommendations,
		&model.MTBFHours,
		&model.MTTRHours,
		&model.Availability,
		&model.RiskLevel,
		&model.PredictedFailureMode,
		&model.TimeToFailureDays,
		&model.ConfidenceLevel,
		&model.MaintenanceUrgency,
		&model.AssessedAt,
	)

	if err != nil {
		return nil, err
	}

	if critical.Valid {
		model.CriticalFailures = []byte(critical.String)
	}
	if recommendations.Valid {
		model.Recommendations = []byte(recommendations.String)
	}

	return &model, nil
}
