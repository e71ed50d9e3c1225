package valueobject

import "testing"

func TestSeverity_Rank(t *testing.T) {
	// Severe sorts first; rank 1 is reserved and unused
	if SeveritySevere.Rank() >= SeverityModerate.Rank() {
		t.Fatal("severe must rank before moderate")
	}
	if SeverityModerate.Rank() >= SeverityGood.Rank() {
		t.Fatal("moderate must rank before good")
	}
	if Severity("bogus").Rank() <= SeverityGood.Rank() {
		t.Fatal("unknown severity must rank after all known ones")
	}
}

func TestSeverity_IsActionable(t *testing.T) {
	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityGood, false},
		{SeverityModerate, true},
		{SeveritySevere, true},
	}

	for _, tt := range tests {
		if got := tt.severity.IsActionable(); got != tt.want {
			t.Fatalf("%s.IsActionable() = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  HealthGrade
	}{
		{100, GradeA},
		{90, GradeA},
		{89.99, GradeB},
		{80, GradeB},
		{79.99, GradeC},
		{70, GradeC},
		{69.99, GradeD},
		{60, GradeD},
		{59.99, GradeF},
		{0, GradeF},
	}

	for _, tt := range tests {
		if got := GradeForScore(tt.score); got != tt.want {
			t.Fatalf("GradeForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestFailureType_Weight(t *testing.T) {
	var sum float64
	for _, ft := range AllFailureTypes() {
		sum += ft.Weight()
	}
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("weights of all failure types must sum to 1.0, got %v", sum)
	}

	if got := FailureType("unknown").Weight(); got != 0.05 {
		t.Fatalf("unknown type weight = %v, want 0.05", got)
	}
}

func TestFailureType_Validate(t *testing.T) {
	for _, ft := range AllFailureTypes() {
		if err := ft.Validate(); err != nil {
			t.Fatalf("Validate(%s) error = %v", ft, err)
		}
	}
	if err := FailureType("Gremlins").Validate(); err == nil {
		t.Fatal("expected error for unknown failure type")
	}
}
