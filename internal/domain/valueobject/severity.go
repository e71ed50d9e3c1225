package valueobject

import "errors"

// Severity представляет серьезность одного режима отказа (Value Object)
// Анализаторы возвращают только три значения: Good, Moderate, Severe.
// Уровень Critical существует только в оценках уровня агрегата
// (RiskLevel, MaintenanceUrgency) и намеренно не входит в этот тип.
type Severity string

const (
	SeverityGood     Severity = "Good"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// severityRanks задает порядок сортировки: наиболее серьезные первыми.
// Ранг 1 зарезервирован за уровнем Critical, который анализаторы
// сейчас не возвращают.
var severityRanks = map[Severity]int{
	SeveritySevere:   0,
	SeverityModerate: 2,
	SeverityGood:     3,
}

// Validate проверяет валидность severity
func (s Severity) Validate() error {
	if _, ok := severityRanks[s]; !ok {
		return errors.New("invalid severity")
	}
	return nil
}

// Rank возвращает ранг для сортировки (меньше = серьезнее)
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return 4
}

// IsActionable возвращает true, если severity требует вмешательства
func (s Severity) IsActionable() bool {
	return s == SeverityModerate || s == SeveritySevere
}

// String возвращает строковое представление severity
func (s Severity) String() string {
	return string(s)
}

// RiskLevel представляет уровень риска на уровне агрегата
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// MaintenanceUrgency представляет срочность обслуживания
type MaintenanceUrgency string

const (
	UrgencyLow      MaintenanceUrgency = "Low"
	UrgencyMedium   MaintenanceUrgency = "Medium"
	UrgencyHigh     MaintenanceUrgency = "High"
	UrgencyCritical MaintenanceUrgency = "Critical"
)

// HealthGrade представляет буквенную оценку здоровья оборудования
type HealthGrade string

const (
	GradeA HealthGrade = "A"
	GradeB HealthGrade = "B"
	GradeC HealthGrade = "C"
	GradeD HealthGrade = "D"
	GradeF HealthGrade = "F"
)

// GradeForScore возвращает оценку для значения OMHS (0-100)
func GradeForScore(score float64) HealthGrade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}
