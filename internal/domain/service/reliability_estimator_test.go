package service

import (
	"math"
	"testing"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

func TestReliabilityEstimator_HealthyMachine(t *testing.T) {
	estimator := NewReliabilityEstimator()

	metrics := estimator.Estimate(0, nil)

	if metrics.MTBFHours != 8760 {
		t.Fatalf("MTBF = %v, want 8760", metrics.MTBFHours)
	}
	if metrics.MTTRHours != 4 {
		t.Fatalf("MTTR = %v, want 4", metrics.MTTRHours)
	}
	if metrics.RiskLevel != valueobject.RiskLow {
		t.Fatalf("risk = %v, want Low", metrics.RiskLevel)
	}
}

func TestReliabilityEstimator_MTBFFloor(t *testing.T) {
	estimator := NewReliabilityEstimator()

	// At MFI 75 the exponential term drops below the 720h floor
	metrics := estimator.Estimate(75, nil)
	if metrics.MTBFHours != 720 {
		t.Fatalf("MTBF = %v, want floor 720", metrics.MTBFHours)
	}
}

func TestReliabilityEstimator_ComplexRepairsExtendMTTR(t *testing.T) {
	estimator := NewReliabilityEstimator()

	analyses := []*entity.FailureAnalysis{
		mustAnalysis(t, valueobject.BearingDefects, valueobject.SeveritySevere, 70),
		mustAnalysis(t, valueobject.Misalignment, valueobject.SeverityModerate, 2.0),
		mustAnalysis(t, valueobject.Cavitation, valueobject.SeverityGood, 1.0),
		mustAnalysis(t, valueobject.Looseness, valueobject.SeveritySevere, 30),
	}

	// Bearing (Severe) and Misalignment (Moderate) count as complex;
	// Cavitation is Good and Looseness is not a complex-repair type
	metrics := estimator.Estimate(10, analyses)
	if metrics.MTTRHours != 20 {
		t.Fatalf("MTTR = %v, want 4+8*2=20", metrics.MTTRHours)
	}
}

func TestReliabilityEstimator_MTTRCap(t *testing.T) {
	estimator := NewReliabilityEstimator()

	// All three complex types severe: 4+24=28, still under the cap;
	// the cap only binds with hypothetical extra complex repairs, so
	// verify the formula directly against min()
	analyses := []*entity.FailureAnalysis{
		mustAnalysis(t, valueobject.BearingDefects, valueobject.SeveritySevere, 70),
		mustAnalysis(t, valueobject.Misalignment, valueobject.SeveritySevere, 5),
		mustAnalysis(t, valueobject.Cavitation, valueobject.SeveritySevere, 10),
	}

	metrics := estimator.Estimate(10, analyses)
	if metrics.MTTRHours != 28 {
		t.Fatalf("MTTR = %v, want 28", metrics.MTTRHours)
	}
	if metrics.MTTRHours > 72 {
		t.Fatalf("MTTR = %v exceeds cap", metrics.MTTRHours)
	}
}

func TestReliabilityEstimator_AvailabilityRounding(t *testing.T) {
	estimator := NewReliabilityEstimator()

	analyses := []*entity.FailureAnalysis{
		mustAnalysis(t, valueobject.BearingDefects, valueobject.SeveritySevere, 75),
	}

	// MTBF floors at 720, MTTR = 12: availability = 100*720/732 = 98.36
	metrics := estimator.Estimate(75, analyses)
	if math.Abs(metrics.Availability-98.36) > 1e-9 {
		t.Fatalf("availability = %v, want 98.36", metrics.Availability)
	}
	if metrics.RiskLevel != valueobject.RiskLow {
		t.Fatalf("risk = %v, want Low", metrics.RiskLevel)
	}
}

func TestRiskForAvailability(t *testing.T) {
	tests := []struct {
		availability float64
		want         valueobject.RiskLevel
	}{
		{84.99, valueobject.RiskCritical},
		{85, valueobject.RiskHigh},
		{91.99, valueobject.RiskHigh},
		{92, valueobject.RiskMedium},
		{96.99, valueobject.RiskMedium},
		{97, valueobject.RiskLow},
		{100, valueobject.RiskLow},
	}

	for _, tt := range tests {
		if got := riskForAvailability(tt.availability); got != tt.want {
			t.Fatalf("riskForAvailability(%v) = %v, want %v", tt.availability, got, tt.want)
		}
	}
}
