package dto

import (
	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
)

// ThresholdDTO представляет классификационные отсечки анализатора
type ThresholdDTO struct {
	Good     float64 `json:"good"`
	Moderate float64 `json:"moderate"`
	Severe   float64 `json:"severe"`
}

// FailureAnalysisDTO представляет результат анализатора для передачи между слоями
type FailureAnalysisDTO struct {
	Type        string       `json:"type"`
	Severity    string       `json:"severity"`
	Index       float64      `json:"index"`
	Threshold   ThresholdDTO `json:"threshold"`
	Description string       `json:"description"`
	Progress    int          `json:"progress"`

	RootCauses         []string `json:"root_causes"`
	ImmediateActions   []string `json:"immediate_actions"`
	CorrectiveMeasures []string `json:"corrective_measures"`
	PreventiveMeasures []string `json:"preventive_measures"`

	// Computed fields
	IsActionable bool `json:"is_actionable"`
}

// FromAnalysis конвертирует Domain Entity в DTO
func FromAnalysis(analysis *entity.FailureAnalysis) *FailureAnalysisDTO {
	threshold := analysis.Threshold()

	return &FailureAnalysisDTO{
		Type:     analysis.Type().String(),
		Severity: analysis.Severity().String(),
		Index:    analysis.Index(),
		Threshold: ThresholdDTO{
			Good:     threshold.Good(),
			Moderate: threshold.Moderate(),
			Severe:   threshold.Severe(),
		},
		Description:        analysis.Description(),
		Progress:           analysis.Progress(),
		RootCauses:         analysis.RootCauses(),
		ImmediateActions:   analysis.ImmediateActions(),
		CorrectiveMeasures: analysis.CorrectiveMeasures(),
		PreventiveMeasures: analysis.PreventiveMeasures(),
		IsActionable:       analysis.IsActionable(),
	}
}

// ToAnalysisDTOs конвертирует слайс Entity в слайс DTO
func ToAnalysisDTOs(analyses []*entity.FailureAnalysis) []*FailureAnalysisDTO {
	dtos := make([]*FailureAnalysisDTO, len(analyses))
	for i, a := range analyses {
		dtos[i] = FromAnalysis(a)
	}
	return dtos
}
