package entity

import (
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
	"github.com/google/uuid"
)

// ReliabilityMetrics содержит показатели надежности, производные от MFI
type ReliabilityMetrics struct {
	MTBFHours    float64
	MTTRHours    float64
	Availability float64
	RiskLevel    valueobject.RiskLevel
}

// PredictiveInsights содержит эвристический прогноз по агрегату
type PredictiveInsights struct {
	PredictedFailureMode string
	TimeToFailureDays    int
	ConfidenceLevel      float64
	MaintenanceUrgency   valueobject.MaintenanceUrgency
}

// AnalyzerOmission фиксирует анализатор, исключенный из агрегации
type AnalyzerOmission struct {
	Type   valueobject.FailureType
	Reason string
}

// MasterHealthAssessment представляет итоговую оценку здоровья агрегата (Aggregate Root)
// Создается один раз на измерение и не изменяется.
type MasterHealthAssessment struct {
	id               string
	equipmentID      string
	masterFaultIndex float64
	healthScore      float64
	healthGrade      valueobject.HealthGrade
	criticalFailures []valueobject.FailureType
	recommendations  []string
	reliability      ReliabilityMetrics
	insights         PredictiveInsights
	omissions        []AnalyzerOmission
	assessedAt       time.Time
}

// NewMasterHealthAssessment создает итоговую оценку
func NewMasterHealthAssessment(
	equipmentID string,
	masterFaultIndex, healthScore float64,
	healthGrade valueobject.HealthGrade,
	criticalFailures []valueobject.FailureType,
	recommendations []string,
	reliability ReliabilityMetrics,
	insights PredictiveInsights,
	omissions []AnalyzerOmission,
) *MasterHealthAssessment {
	return &MasterHealthAssessment{
		id:               uuid.New().String(),
		equipmentID:      equipmentID,
		masterFaultIndex: masterFaultIndex,
		healthScore:      healthScore,
		healthGrade:      healthGrade,
		criticalFailures: criticalFailures,
		recommendations:  recommendations,
		reliability:      reliability,
		insights:         insights,
		omissions:        omissions,
		assessedAt:       time.Now(),
	}
}

// ReconstructAssessment восстанавливает оценку из хранилища (для Repository)
func ReconstructAssessment(
	id, equipmentID string,
	masterFaultIndex, healthScore float64,
	healthGrade valueobject.HealthGrade,
	criticalFailures []valueobject.FailureType,
	recommendations []string,
	reliability ReliabilityMetrics,
	insights PredictiveInsights,
	assessedAt time.Time,
) *MasterHealthAssessment {
	return &MasterHealthAssessment{
		id:               id,
		equipmentID:      equipmentID,
		masterFaultIndex: masterFaultIndex,
		healthScore:      healthScore,
		healthGrade:      healthGrade,
		criticalFailures: criticalFailures,
		recommendations:  recommendations,
		reliability:      reliability,
		insights:         insights,
		assessedAt:       assessedAt,
	}
}

// ID возвращает идентификатор оценки
func (m *MasterHealthAssessment) ID() string {
	return m.id
}

// EquipmentID возвращает идентификатор оборудования
func (m *MasterHealthAssessment) EquipmentID() string {
	return m.equipmentID
}

// MasterFaultIndex возвращает взвешенный композитный индекс отказов
func (m *MasterHealthAssessment) MasterFaultIndex() float64 {
	return m.masterFaultIndex
}

// HealthScore возвращает Overall Machine Health Score (0-100)
func (m *MasterHealthAssessment) HealthScore() float64 {
	return m.healthScore
}

// HealthGrade возвращает буквенную оценку здоровья
func (m *MasterHealthAssessment) HealthGrade() valueobject.HealthGrade {
	return m.healthGrade
}

// CriticalFailures возвращает типы отказов с severity Severe и выше
func (m *MasterHealthAssessment) CriticalFailures() []valueobject.FailureType {
	return append([]valueobject.FailureType(nil), m.criticalFailures...)
}

// Recommendations возвращает упорядоченный список рекомендаций
func (m *MasterHealthAssessment) Recommendations() []string {
	return append([]string(nil), m.recommendations...)
}

// Reliability возвращает показатели надежности
func (m *MasterHealthAssessment) Reliability() ReliabilityMetrics {
	return m.reliability
}

// Insights возвращает эвристический прогноз
func (m *MasterHealthAssessment) Insights() PredictiveInsights {
	return m.insights
}

// Omissions возвращает диагностику исключенных анализаторов
func (m *MasterHealthAssessment) Omissions() []AnalyzerOmission {
	return append([]AnalyzerOmission(nil), m.omissions...)
}

// AssessedAt возвращает время оценки
func (m *MasterHealthAssessment) AssessedAt() time.Time {
	return m.assessedAt
}

// Domain Methods (бизнес-логика)

// IsDegraded возвращает true, если часть анализаторов была исключена
func (m *MasterHealthAssessment) IsDegraded() bool {
	return len(m.omissions) > 0
}

// HasCriticalFailures возвращает true при наличии серьезных отказов
func (m *MasterHealthAssessment) HasCriticalFailures() bool {
	return len(m.criticalFailures) > 0
}
