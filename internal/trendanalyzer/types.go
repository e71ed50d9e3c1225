package trendanalyzer

import "time"

type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type EquipmentTrend struct {
	EquipmentID       string
	HealthGrade       string
	HealthScore       float64
	MasterFaultIndex  float64
	TimeToFailureDays int
	AssessedAt        time.Time
	Severity          Severity
}

type CycleSummary struct {
	GeneratedAt      time.Time
	EquipmentTotal   int
	CriticalCount    int
	WarningCount     int
	AverageScore     float64
	OldestAssessment time.Duration
	Trends           []EquipmentTrend
}

type Snapshot struct {
	StartedAt   time.Time
	Interval    time.Duration
	LastRunAt   time.Time
	LastError   string
	LastSummary *CycleSummary
}
