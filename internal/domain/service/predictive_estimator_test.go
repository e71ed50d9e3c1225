package service

import (
	"testing"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

func TestPredictiveEstimator_WorstByIndexNotRank(t *testing.T) {
	estimator := NewPredictiveInsightEstimator()

	// Looseness carries the largest index even though Bearing outranks
	// it by severity: the predicted mode follows the index
	analyses := []*entity.FailureAnalysis{
		mustAnalysis(t, valueobject.BearingDefects, valueobject.SeveritySevere, 65),
		mustAnalysis(t, valueobject.Looseness, valueobject.SeverityModerate, 90),
	}

	insights := estimator.Estimate(20, 50, analyses)
	if insights.PredictedFailureMode != "Mechanical Looseness" {
		t.Fatalf("predicted mode = %q, want Mechanical Looseness", insights.PredictedFailureMode)
	}
}

func TestPredictiveEstimator_NoAnalyses(t *testing.T) {
	estimator := NewPredictiveInsightEstimator()

	insights := estimator.Estimate(0, 100, nil)

	if insights.PredictedFailureMode != "Normal Wear" {
		t.Fatalf("predicted mode = %q, want Normal Wear", insights.PredictedFailureMode)
	}
	if insights.TimeToFailureDays != 365 {
		t.Fatalf("TTF = %v, want 365", insights.TimeToFailureDays)
	}
	if insights.ConfidenceLevel != 95 {
		t.Fatalf("confidence = %v, want clamp at 95", insights.ConfidenceLevel)
	}
	if insights.MaintenanceUrgency != valueobject.UrgencyLow {
		t.Fatalf("urgency = %v, want Low", insights.MaintenanceUrgency)
	}
}

func TestPredictiveEstimator_TimeToFailureLadder(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{59.99, 30},
		{60, 90},
		{69.99, 90},
		{70, 180},
		{79.99, 180},
		{80, 270},
		{89.99, 270},
		{90, 365},
	}

	for _, tt := range tests {
		if got := timeToFailureDays(tt.score); got != tt.want {
			t.Fatalf("timeToFailureDays(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestPredictiveEstimator_ConfidenceClamp(t *testing.T) {
	estimator := NewPredictiveInsightEstimator()

	tests := []struct {
		mfi  float64
		want float64
	}{
		{0, 95},    // 100 clamped down
		{10, 80},   // inside the band
		{30, 60},   // 40 clamped up
		{100, 60},  // deep negative clamped up
	}

	for _, tt := range tests {
		insights := estimator.Estimate(tt.mfi, 100, nil)
		if insights.ConfidenceLevel != tt.want {
			t.Fatalf("confidence(MFI=%v) = %v, want %v", tt.mfi, insights.ConfidenceLevel, tt.want)
		}
	}
}

func TestPredictiveEstimator_UrgencyLadder(t *testing.T) {
	tests := []struct {
		score float64
		want  valueobject.MaintenanceUrgency
	}{
		{59.99, valueobject.UrgencyCritical},
		{60, valueobject.UrgencyHigh},
		{69.99, valueobject.UrgencyHigh},
		{70, valueobject.UrgencyMedium},
		{84.99, valueobject.UrgencyMedium},
		{85, valueobject.UrgencyLow},
	}

	for _, tt := range tests {
		if got := urgencyForScore(tt.score); got != tt.want {
			t.Fatalf("urgencyForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
