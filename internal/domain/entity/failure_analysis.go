package entity

import (
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// FailureAnalysis представляет результат одного анализатора режима отказа
// Иммутабельный объект: создается один раз на измерение и не изменяется.
type FailureAnalysis struct {
	failureType        valueobject.FailureType
	severity           valueobject.Severity
	index              float64
	threshold          valueobject.Threshold
	description        string
	progress           int
	rootCauses         []string
	immediateActions   []string
	correctiveMeasures []string
	preventiveMeasures []string
}

// NewFailureAnalysis создает результат анализа
func NewFailureAnalysis(
	failureType valueobject.FailureType,
	severity valueobject.Severity,
	index float64,
	threshold valueobject.Threshold,
	description string,
	progress int,
	reference ReferenceContent,
) (*FailureAnalysis, error) {
	if err := failureType.Validate(); err != nil {
		return nil, err
	}
	if err := severity.Validate(); err != nil {
		return nil, err
	}

	return &FailureAnalysis{
		failureType:        failureType,
		severity:           severity,
		index:              index,
		threshold:          threshold,
		description:        description,
		progress:           progress,
		rootCauses:         reference.RootCauses,
		immediateActions:   reference.ImmediateActions,
		correctiveMeasures: reference.CorrectiveMeasures,
		preventiveMeasures: reference.PreventiveMeasures,
	}, nil
}

// ReferenceContent содержит статический справочный текст для типа отказа
type ReferenceContent struct {
	RootCauses         []string
	ImmediateActions   []string
	CorrectiveMeasures []string
	PreventiveMeasures []string
}

// Type возвращает тип отказа
func (a *FailureAnalysis) Type() valueobject.FailureType {
	return a.failureType
}

// Severity возвращает серьезность
func (a *FailureAnalysis) Severity() valueobject.Severity {
	return a.severity
}

// Index возвращает комбинированный индекс анализатора
func (a *FailureAnalysis) Index() float64 {
	return a.index
}

// Threshold возвращает классификационные пороги
func (a *FailureAnalysis) Threshold() valueobject.Threshold {
	return a.threshold
}

// Description возвращает текстовое описание с подиндексами
func (a *FailureAnalysis) Description() string {
	return a.description
}

// Progress возвращает фиксированный процент развития отказа (0-100)
func (a *FailureAnalysis) Progress() int {
	return a.progress
}

// RootCauses возвращает справочные первопричины
func (a *FailureAnalysis) RootCauses() []string {
	return append([]string(nil), a.rootCauses...)
}

// ImmediateActions возвращает немедленные действия
func (a *FailureAnalysis) ImmediateActions() []string {
	return append([]string(nil), a.immediateActions...)
}

// CorrectiveMeasures возвращает корректирующие меры
func (a *FailureAnalysis) CorrectiveMeasures() []string {
	return append([]string(nil), a.correctiveMeasures...)
}

// PreventiveMeasures возвращает профилактические меры
func (a *FailureAnalysis) PreventiveMeasures() []string {
	return append([]string(nil), a.preventiveMeasures...)
}

// IsActionable возвращает true, если анализ требует вмешательства
func (a *FailureAnalysis) IsActionable() bool {
	return a.severity.IsActionable()
}
