package service

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

func mustSample(t *testing.T, vh, vv, va, ah, av, aa, f, rpm float64) *entity.VibrationSample {
	t.Helper()
	sample, err := entity.NewVibrationSample("pump-001", vh, vv, va, ah, av, aa, f, rpm)
	if err != nil {
		t.Fatalf("NewVibrationSample() error = %v", err)
	}
	return sample
}

// referenceSample: VH=3, VV=2, VA=5 mm/s; AH=4, AV=3, AA=6 m/s2; 30 Hz, 1500 RPM
func referenceSample(t *testing.T) *entity.VibrationSample {
	t.Helper()
	return mustSample(t, 3, 2, 5, 4, 3, 6, 30, 1500)
}

func TestAnalyzers_ReferenceSample(t *testing.T) {
	sample := referenceSample(t)

	tests := []struct {
		analyzer     FailureAnalyzer
		wantIndex    float64
		wantSeverity valueobject.Severity
		wantProgress int
	}{
		{NewUnbalanceAnalyzer(), 0.8290, valueobject.SeverityGood, 20},
		{NewMisalignmentAnalyzer(), 5.7587, valueobject.SeveritySevere, 85},
		{NewSoftFootAnalyzer(), 0.7291, valueobject.SeveritySevere, 80},
		{NewBearingDefectAnalyzer(), 8.7926, valueobject.SeverityGood, 30},
		{NewLoosenessAnalyzer(), 4.7202, valueobject.SeverityGood, 20},
		{NewCavitationAnalyzer(), 0.7059, valueobject.SeverityGood, 25},
		{NewElectricalFaultAnalyzer(), 0.7165, valueobject.SeverityGood, 20},
		{NewFlowTurbulenceAnalyzer(), 0.0034, valueobject.SeverityGood, 15},
		{NewResonanceAnalyzer(), 1.1364, valueobject.SeverityGood, 25},
	}

	for _, tt := range tests {
		t.Run(string(tt.analyzer.Type()), func(t *testing.T) {
			analysis, err := tt.analyzer.Analyze(sample)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if analysis.Type() != tt.analyzer.Type() {
				t.Fatalf("Type() = %v, want %v", analysis.Type(), tt.analyzer.Type())
			}
			if math.Abs(analysis.Index()-tt.wantIndex) > 1e-3 {
				t.Fatalf("Index() = %v, want %v", analysis.Index(), tt.wantIndex)
			}
			if analysis.Severity() != tt.wantSeverity {
				t.Fatalf("Severity() = %v, want %v", analysis.Severity(), tt.wantSeverity)
			}
			if analysis.Progress() != tt.wantProgress {
				t.Fatalf("Progress() = %v, want %v", analysis.Progress(), tt.wantProgress)
			}
			if !strings.Contains(analysis.Description(), string(tt.wantSeverity)) {
				t.Fatalf("Description() = %q, want severity %q mentioned", analysis.Description(), tt.wantSeverity)
			}
			if len(analysis.RootCauses()) == 0 || len(analysis.ImmediateActions()) == 0 {
				t.Fatal("expected reference content to be attached")
			}
		})
	}
}

func TestAnalyzers_DegenerateChannelsDoNotProduceNaN(t *testing.T) {
	// Equal H/V channels zero out differences that appear in
	// denominators (unbalance DUF divides by |AH-AV|)
	sample := mustSample(t, 2, 2, 2, 3, 3, 3, 50, 3000)

	for _, analyzer := range AllAnalyzers() {
		analysis, err := analyzer.Analyze(sample)
		if err != nil {
			t.Fatalf("%s: Analyze() error = %v", analyzer.Type(), err)
		}
		if math.IsNaN(analysis.Index()) || math.IsInf(analysis.Index(), 0) {
			t.Fatalf("%s: index is not finite: %v", analyzer.Type(), analysis.Index())
		}
	}
}

func TestAnalyzers_ZeroChannels(t *testing.T) {
	// A machine at rest still yields a classifiable (Good) result
	sample := mustSample(t, 0, 0, 0, 0, 0, 0, 50, 3000)

	for _, analyzer := range AllAnalyzers() {
		analysis, err := analyzer.Analyze(sample)
		if err != nil {
			t.Fatalf("%s: Analyze() error = %v", analyzer.Type(), err)
		}
		if analysis.Severity() != valueobject.SeverityGood {
			t.Fatalf("%s: severity = %v, want Good", analyzer.Type(), analysis.Severity())
		}
	}
}

func TestAllAnalyzers_CanonicalOrder(t *testing.T) {
	analyzers := AllAnalyzers()
	types := valueobject.AllFailureTypes()

	if len(analyzers) != len(types) {
		t.Fatalf("expected %d analyzers, got %d", len(types), len(analyzers))
	}
	for i, analyzer := range analyzers {
		if analyzer.Type() != types[i] {
			t.Fatalf("analyzer %d type = %v, want %v", i, analyzer.Type(), types[i])
		}
	}
}

func TestThresholdFor_CoversAllTypes(t *testing.T) {
	for _, ft := range valueobject.AllFailureTypes() {
		threshold := ThresholdFor(ft)
		if threshold.Good() >= threshold.Moderate() {
			t.Fatalf("%s: threshold zones must be increasing", ft)
		}
	}
}

func TestSafeDiv(t *testing.T) {
	if got := safeDiv(10, 2, -1); got != 5 {
		t.Fatalf("safeDiv(10, 2, -1) = %v, want 5", got)
	}
	if got := safeDiv(10, 0, -1); got != -1 {
		t.Fatalf("safeDiv(10, 0, -1) = %v, want -1", got)
	}
}

func TestErrIndeterminateIndex_Wrapped(t *testing.T) {
	_, err := finalizeAnalysis(valueobject.Unbalance, math.NaN(), "AUI=NaN")
	if !errors.Is(err, ErrIndeterminateIndex) {
		t.Fatalf("expected ErrIndeterminateIndex, got %v", err)
	}
}
