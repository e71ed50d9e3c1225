package service

import (
	"math"
	"strings"
	"testing"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

func mustAnalysis(t *testing.T, ft valueobject.FailureType, severity valueobject.Severity, index float64) *entity.FailureAnalysis {
	t.Helper()
	analysis, err := entity.NewFailureAnalysis(
		ft, severity, index, ThresholdFor(ft), "test analysis", 50, ReferenceFor(ft),
	)
	if err != nil {
		t.Fatalf("NewFailureAnalysis() error = %v", err)
	}
	return analysis
}

func TestHealthAssessor_SingleSevereBearing(t *testing.T) {
	assessor := NewHealthAssessor()
	result := AggregationResult{
		Analyses: []*entity.FailureAnalysis{
			mustAnalysis(t, valueobject.BearingDefects, valueobject.SeveritySevere, 75),
		},
	}

	assessment := assessor.Assess("pump-001", result)

	// A single analysis contributes its own index as MFI regardless of weight
	if math.Abs(assessment.MasterFaultIndex()-75) > 1e-9 {
		t.Fatalf("MFI = %v, want 75", assessment.MasterFaultIndex())
	}

	wantScore := 100 * (1 - math.Tanh(75.0/30))
	if math.Abs(assessment.HealthScore()-wantScore) > 1e-9 {
		t.Fatalf("OMHS = %v, want %v", assessment.HealthScore(), wantScore)
	}
	if assessment.HealthGrade() != valueobject.GradeF {
		t.Fatalf("grade = %v, want F", assessment.HealthGrade())
	}

	critical := assessment.CriticalFailures()
	if len(critical) != 1 || critical[0] != valueobject.BearingDefects {
		t.Fatalf("criticalFailures = %v, want [Bearing Defects]", critical)
	}
	if !assessment.HasCriticalFailures() {
		t.Fatal("expected HasCriticalFailures")
	}

	recs := assessment.Recommendations()
	if len(recs) == 0 || !strings.HasPrefix(recs[0], "URGENT") {
		t.Fatalf("first recommendation = %v, want URGENT line", recs)
	}
	if !strings.Contains(recs[0], "Bearing Defects") {
		t.Fatalf("urgent line must name the failure: %q", recs[0])
	}
}

func TestHealthAssessor_EmptyAnalyses(t *testing.T) {
	assessor := NewHealthAssessor()

	assessment := assessor.Assess("pump-001", AggregationResult{})

	if assessment.MasterFaultIndex() != 0 {
		t.Fatalf("MFI = %v, want 0", assessment.MasterFaultIndex())
	}
	if assessment.HealthScore() != 100 {
		t.Fatalf("OMHS = %v, want 100", assessment.HealthScore())
	}
	if assessment.HealthGrade() != valueobject.GradeA {
		t.Fatalf("grade = %v, want A", assessment.HealthGrade())
	}
	if assessment.HasCriticalFailures() {
		t.Fatal("expected no critical failures")
	}

	recs := assessment.Recommendations()
	if len(recs) != 1 || !strings.Contains(recs[0], "No analysis data") {
		t.Fatalf("recommendations = %v, want single no-data line", recs)
	}
	if assessment.Insights().PredictedFailureMode != "Normal Wear" {
		t.Fatalf("predicted mode = %q, want Normal Wear", assessment.Insights().PredictedFailureMode)
	}
}

func TestHealthAssessor_ScoreMonotonicInMFI(t *testing.T) {
	assessor := NewHealthAssessor()

	prev := math.Inf(1)
	for mfi := 0.0; mfi <= 120; mfi += 5 {
		score := assessor.healthScore(mfi)
		if score < 0 || score > 100 {
			t.Fatalf("OMHS(%v) = %v out of [0,100]", mfi, score)
		}
		if score > prev {
			t.Fatalf("OMHS must be non-increasing: OMHS(%v)=%v > %v", mfi, score, prev)
		}
		prev = score
	}
}

func TestHealthAssessor_FullPipeline(t *testing.T) {
	aggregator := NewAnalysisAggregator()
	assessor := NewHealthAssessor()

	result := aggregator.PerformComprehensiveAnalysis(referenceSample(t))
	assessment := assessor.Assess("pump-001", result)

	if math.Abs(assessment.MasterFaultIndex()-3.5705) > 1e-3 {
		t.Fatalf("MFI = %v, want ~3.5705", assessment.MasterFaultIndex())
	}
	if assessment.HealthGrade() != valueobject.GradeB {
		t.Fatalf("grade = %v, want B", assessment.HealthGrade())
	}

	critical := assessment.CriticalFailures()
	if len(critical) != 2 {
		t.Fatalf("criticalFailures = %v, want Misalignment and Soft Foot", critical)
	}

	// Urgent line, OMHS tier line, priority focus plus two immediate actions
	recs := assessment.Recommendations()
	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d: %v", len(recs), recs)
	}
	if !strings.Contains(recs[2], "Priority focus: Misalignment") {
		t.Fatalf("priority line = %q", recs[2])
	}

	if assessment.IsDegraded() {
		t.Fatal("full analysis set must not be degraded")
	}
}

func TestHealthAssessor_OmissionsCarriedIntoAssessment(t *testing.T) {
	assessor := NewHealthAssessor()
	result := AggregationResult{
		Analyses: []*entity.FailureAnalysis{
			mustAnalysis(t, valueobject.Unbalance, valueobject.SeverityGood, 1.0),
		},
		Omissions: []entity.AnalyzerOmission{
			{Type: valueobject.Resonance, Reason: "combined index is not finite"},
		},
	}

	assessment := assessor.Assess("pump-001", result)

	if !assessment.IsDegraded() {
		t.Fatal("expected degraded assessment")
	}
	omissions := assessment.Omissions()
	if len(omissions) != 1 || omissions[0].Type != valueobject.Resonance {
		t.Fatalf("omissions = %v", omissions)
	}
}
