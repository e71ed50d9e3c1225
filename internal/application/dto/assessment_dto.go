package dto

import (
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
)

// ReliabilityDTO представляет показатели надежности
type ReliabilityDTO struct {
	MTBFHours    float64 `json:"mtbf_hours"`
	MTTRHours    float64 `json:"mttr_hours"`
	Availability float64 `json:"availability"`
	RiskLevel    string  `json:"risk_level"`
}

// InsightsDTO представляет эвристический прогноз
type InsightsDTO struct {
	PredictedFailureMode string  `json:"predicted_failure_mode"`
	TimeToFailureDays    int     `json:"time_to_failure_days"`
	ConfidenceLevel      float64 `json:"confidence_level"`
	MaintenanceUrgency   string  `json:"maintenance_urgency"`
}

// OmissionDTO представляет исключенный из агрегации анализатор
type OmissionDTO struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// AssessmentDTO представляет итоговую оценку здоровья для передачи между слоями
type AssessmentDTO struct {
	ID               string                `json:"id"`
	EquipmentID      string                `json:"equipment_id"`
	MasterFaultIndex float64               `json:"master_fault_index"`
	HealthScore      float64               `json:"health_score"`
	HealthGrade      string                `json:"health_grade"`
	CriticalFailures []string              `json:"critical_failures"`
	Recommendations  []string              `json:"recommendations"`
	Reliability      ReliabilityDTO        `json:"reliability"`
	Insights         InsightsDTO           `json:"insights"`
	Analyses         []*FailureAnalysisDTO `json:"analyses,omitempty"`
	Omissions        []OmissionDTO         `json:"omissions,omitempty"`
	AssessedAt       time.Time             `json:"assessed_at"`
	// Computed fields
	IsDegraded bool `json:"is_degraded"`
}

// FromAssessment конвертирует Domain Entity в DTO
func FromAssessment(assessment *entity.MasterHealthAssessment) *AssessmentDTO {
	critical := assessment.CriticalFailures()
	names := make([]string, len(critical))
	for i, ft := range critical {
		names[i] = ft.String()
	}

	omissions := assessment.Omissions()
	omissionDTOs := make([]OmissionDTO, len(omissions))
	for i, o := range omissions {
		omissionDTOs[i] = OmissionDTO{Type: o.Type.String(), Reason: o.Reason}
	}

	reliability := assessment.Reliability()
	insights := assessment.Insights()

	return &AssessmentDTO{
		ID:               assessment.ID(),
		EquipmentID:      assessment.EquipmentID(),
		MasterFaultIndex: assessment.MasterFaultIndex(),
		HealthScore:      assessment.HealthScore(),
		HealthGrade:      string(assessment.HealthGrade()),
		CriticalFailures: names,
		Recommendations:  assessment.Recommendations(),
		Reliability: ReliabilityDTO{
			MTBFHours:    reliability.MTBFHours,
			MTTRHours:    reliability.MTTRHours,
			Availability: reliability.Availability,
			RiskLevel:    string(reliability.RiskLevel),
		},
		Insights: InsightsDTO{
			PredictedFailureMode: insights.PredictedFailureMode,
			TimeToFailureDays:    insights.TimeToFailureDays,
			ConfidenceLevel:      insights.ConfidenceLevel,
			MaintenanceUrgency:   string(insights.MaintenanceUrgency),
		},
		Omissions:  omissionDTOs,
		AssessedAt: assessment.AssessedAt(),
		IsDegraded: assessment.IsDegraded(),
	}
}

// FromAssessmentWithAnalyses конвертирует оценку вместе с анализами
func FromAssessmentWithAnalyses(
	assessment *entity.MasterHealthAssessment,
	analyses []*entity.FailureAnalysis,
) *AssessmentDTO {
	result := FromAssessment(assessment)
	result.Analyses = ToAnalysisDTOs(analyses)
	return result
}

// DiagnosticSnapshotDTO представляет snapshot диагностики одного агрегата
// Используется для передачи через WebSocket
type DiagnosticSnapshotDTO struct {
	Timestamp   time.Time        `json:"timestamp"`
	EquipmentID string           `json:"equipment_id"`
	Assessment  *AssessmentDTO   `json:"assessment"`
	Summary     *SummaryDTO      `json:"summary"`
}

// SummaryDTO содержит сводную информацию по анализам
type SummaryDTO struct {
	TotalAnalyses  int    `json:"total_analyses"`
	SevereCount    int    `json:"severe_count"`
	ModerateCount  int    `json:"moderate_count"`
	OmittedCount   int    `json:"omitted_count"`
	HasSevere      bool   `json:"has_severe"`
	OverallStatus  string `json:"overall_status"` // "healthy", "degrading", "critical"
}

// NewDiagnosticSnapshotDTO создает snapshot из оценки и анализов
func NewDiagnosticSnapshotDTO(
	assessment *entity.MasterHealthAssessment,
	analyses []*entity.FailureAnalysis,
) *DiagnosticSnapshotDTO {
	snapshot := &DiagnosticSnapshotDTO{
		Timestamp:   time.Now(),
		EquipmentID: assessment.EquipmentID(),
		Assessment:  FromAssessmentWithAnalyses(assessment, analyses),
		Summary:     &SummaryDTO{},
	}

	for _, a := range snapshot.Assessment.Analyses {
		snapshot.Summary.TotalAnalyses++
		switch a.Severity {
		case "Severe":
			snapshot.Summary.SevereCount++
		case "Moderate":
			snapshot.Summary.ModerateCount++
		}
	}
	snapshot.Summary.OmittedCount = len(snapshot.Assessment.Omissions)
	snapshot.Summary.HasSevere = snapshot.Summary.SevereCount > 0

	switch {
	case snapshot.Summary.SevereCount > 0:
		snapshot.Summary.OverallStatus = "critical"
	case snapshot.Summary.ModerateCount > 0:
		snapshot.Summary.OverallStatus = "degrading"
	default:
		snapshot.Summary.OverallStatus = "healthy"
	}

	return snapshot
}

// AlertDTO представляет alert для отправки клиентам
type AlertDTO struct {
	Timestamp   time.Time           `json:"timestamp"`
	Level       string              `json:"level"` // "warning", "critical"
	EquipmentID string              `json:"equipment_id"`
	Analysis    *FailureAnalysisDTO `json:"analysis"`
	Message     string              `json:"message"`
}

// NewAlertDTO создает новый alert из анализа
func NewAlertDTO(equipmentID string, analysis *entity.FailureAnalysis, message string) *AlertDTO {
	level := "warning"
	if analysis.Severity().Rank() == 0 {
		level = "critical"
	}

	return &AlertDTO{
		Timestamp:   time.Now(),
		Level:       level,
		EquipmentID: equipmentID,
		Analysis:    FromAnalysis(analysis),
		Message:     message,
	}
}

// AssessmentHistoryDTO представляет исторические оценки с агрегатами
type AssessmentHistoryDTO struct {
	EquipmentID    string           `json:"equipment_id"`
	Assessments    []*AssessmentDTO `json:"assessments"`
	AverageScore   float64          `json:"average_score"`
	MinScore       float64          `json:"min_score"`
	MaxScore       float64          `json:"max_score"`
	DegradedCount  int              `json:"degraded_count"`
	CriticalCount  int              `json:"critical_count"`
}

// ToAssessmentDTOs конвертирует слайс Entity в слайс DTO
func ToAssessmentDTOs(assessments []*entity.MasterHealthAssessment) []*AssessmentDTO {
	dtos := make([]*AssessmentDTO, len(assessments))
	for i, a := range assessments {
		dtos[i] = FromAssessment(a)
	}
	return dtos
}
