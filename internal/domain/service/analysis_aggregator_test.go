package service

import (
	"errors"
	"testing"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

type failingAnalyzer struct {
	failureType valueobject.FailureType
	err         error
}

func (f *failingAnalyzer) Type() valueobject.FailureType { return f.failureType }

func (f *failingAnalyzer) Analyze(_ *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	return nil, f.err
}

func TestAnalysisAggregator_SortsBySeverityRank(t *testing.T) {
	aggregator := NewAnalysisAggregator()
	result := aggregator.PerformComprehensiveAnalysis(referenceSample(t))

	if len(result.Analyses) != 9 {
		t.Fatalf("expected 9 analyses, got %d", len(result.Analyses))
	}
	if len(result.Omissions) != 0 {
		t.Fatalf("expected no omissions, got %d", len(result.Omissions))
	}

	for i := 1; i < len(result.Analyses); i++ {
		prev, cur := result.Analyses[i-1], result.Analyses[i]
		if prev.Severity().Rank() > cur.Severity().Rank() {
			t.Fatalf("rank order violated at %d: %s(%s) after %s(%s)",
				i, cur.Type(), cur.Severity(), prev.Type(), prev.Severity())
		}
	}

	// Stable sort keeps invocation order for equal ranks: Misalignment
	// is invoked before Soft Foot and both are Severe on this sample
	if result.Analyses[0].Type() != valueobject.Misalignment {
		t.Fatalf("first analysis = %s, want Misalignment", result.Analyses[0].Type())
	}
	if result.Analyses[1].Type() != valueobject.SoftFoot {
		t.Fatalf("second analysis = %s, want Soft Foot", result.Analyses[1].Type())
	}
}

func TestAnalysisAggregator_ContinuesOnAnalyzerFailure(t *testing.T) {
	failing := &failingAnalyzer{
		failureType: valueobject.BearingDefects,
		err:         errors.New("sensor channel dropout"),
	}
	aggregator := NewAnalysisAggregatorWith(failing, NewUnbalanceAnalyzer(), NewResonanceAnalyzer())

	result := aggregator.PerformComprehensiveAnalysis(referenceSample(t))

	if len(result.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(result.Analyses))
	}
	if len(result.Omissions) != 1 {
		t.Fatalf("expected 1 omission, got %d", len(result.Omissions))
	}
	if result.Omissions[0].Type != valueobject.BearingDefects {
		t.Fatalf("omission type = %s, want Bearing Defects", result.Omissions[0].Type)
	}
	if result.Omissions[0].Reason != "sensor channel dropout" {
		t.Fatalf("omission reason = %q", result.Omissions[0].Reason)
	}
}

func TestAnalysisAggregator_WorstByIndex(t *testing.T) {
	aggregator := NewAnalysisAggregator()
	result := aggregator.PerformComprehensiveAnalysis(referenceSample(t))

	worst := aggregator.WorstByIndex(result.Analyses)
	if worst == nil {
		t.Fatal("expected a worst analysis")
	}
	// Bearing Defects carries the largest combined index on this
	// sample even though Misalignment outranks it by severity
	if worst.Type() != valueobject.BearingDefects {
		t.Fatalf("worst by index = %s, want Bearing Defects", worst.Type())
	}

	if aggregator.WorstByIndex(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestAnalysisAggregator_FindActionable(t *testing.T) {
	aggregator := NewAnalysisAggregator()
	result := aggregator.PerformComprehensiveAnalysis(referenceSample(t))

	actionable := aggregator.FindActionable(result.Analyses)
	if len(actionable) != 2 {
		t.Fatalf("expected 2 actionable analyses, got %d", len(actionable))
	}
	for _, fa := range actionable {
		if fa.Severity() == valueobject.SeverityGood {
			t.Fatalf("%s: Good severity is not actionable", fa.Type())
		}
	}
}
