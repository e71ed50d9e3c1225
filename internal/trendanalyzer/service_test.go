package trendanalyzer

import "testing"

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		name              string
		grade             string
		score             float64
		timeToFailureDays int
		want              Severity
	}{
		{"healthy equipment", "A", 95.0, 365, SeverityOK},
		{"good grade without failure horizon", "B", 82.0, 0, SeverityOK},
		{"grade B with low score", "B", 65.0, 180, SeverityWarning},
		{"grade B with near failure", "B", 88.0, 14, SeverityWarning},
		{"grade C is a warning", "C", 55.0, 90, SeverityWarning},
		{"grade D is a warning", "D", 45.0, 60, SeverityWarning},
		{"grade C with imminent failure", "C", 55.0, 3, SeverityCritical},
		{"grade E is critical", "E", 25.0, 10, SeverityCritical},
		{"grade F is critical", "F", 5.0, 1, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := severityFor(tt.grade, tt.score, tt.timeToFailureDays)
			if got != tt.want {
				t.Errorf("severityFor(%q, %.1f, %d) = %q, want %q",
					tt.grade, tt.score, tt.timeToFailureDays, got, tt.want)
			}
		})
	}
}
