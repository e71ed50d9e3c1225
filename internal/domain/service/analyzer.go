package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// FailureAnalyzer определяет интерфейс анализатора одного режима отказа
// Каждый анализатор - чистая функция: измерение -> результат анализа.
type FailureAnalyzer interface {
	// Type возвращает тип отказа, который диагностирует анализатор
	Type() valueobject.FailureType

	// Analyze вычисляет комбинированный индекс и классифицирует его
	Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error)
}

// ErrIndeterminateIndex возвращается, когда комбинированный индекс
// нефинитен и не может быть классифицирован. Нефинитный индекс
// проваливает строгие сравнения порогов и молча давал бы Good,
// скрывая сингулярное состояние как здоровое.
var ErrIndeterminateIndex = errors.New("combined index is not finite")

// thresholds задает классификационные отсечки всех девяти анализаторов
var thresholds = map[valueobject.FailureType]valueobject.Threshold{
	valueobject.Unbalance:       valueobject.MustThreshold(2.0, 4.0, 6.0),
	valueobject.Misalignment:    valueobject.MustThreshold(1.5, 3.0, 4.5),
	valueobject.SoftFoot:        valueobject.MustThreshold(0.25, 0.5, 0.75),
	valueobject.BearingDefects:  valueobject.MustThreshold(30, 60, 90),
	valueobject.Looseness:       valueobject.MustThreshold(8, 15, 25),
	valueobject.Cavitation:      valueobject.MustThreshold(4.0, 8.0, 12.0),
	valueobject.ElectricalFault: valueobject.MustThreshold(2.5, 5.0, 7.5),
	valueobject.FlowTurbulence:  valueobject.MustThreshold(0.4, 0.8, 1.2),
	valueobject.Resonance:       valueobject.MustThreshold(1.5, 3.0, 4.5),
}

// progressByType задает фиксированный процент развития отказа
// для каждой комбинации тип/severity
var progressByType = map[valueobject.FailureType]map[valueobject.Severity]int{
	valueobject.Unbalance:       {valueobject.SeverityGood: 20, valueobject.SeverityModerate: 55, valueobject.SeveritySevere: 90},
	valueobject.Misalignment:    {valueobject.SeverityGood: 25, valueobject.SeverityModerate: 60, valueobject.SeveritySevere: 85},
	valueobject.SoftFoot:        {valueobject.SeverityGood: 15, valueobject.SeverityModerate: 50, valueobject.SeveritySevere: 80},
	valueobject.BearingDefects:  {valueobject.SeverityGood: 30, valueobject.SeverityModerate: 65, valueobject.SeveritySevere: 95},
	valueobject.Looseness:       {valueobject.SeverityGood: 20, valueobject.SeverityModerate: 55, valueobject.SeveritySevere: 85},
	valueobject.Cavitation:      {valueobject.SeverityGood: 25, valueobject.SeverityModerate: 60, valueobject.SeveritySevere: 90},
	valueobject.ElectricalFault: {valueobject.SeverityGood: 20, valueobject.SeverityModerate: 50, valueobject.SeveritySevere: 85},
	valueobject.FlowTurbulence:  {valueobject.SeverityGood: 15, valueobject.SeverityModerate: 50, valueobject.SeveritySevere: 80},
	valueobject.Resonance:       {valueobject.SeverityGood: 25, valueobject.SeverityModerate: 55, valueobject.SeveritySevere: 85},
}

// ThresholdFor возвращает отсечки анализатора указанного типа
func ThresholdFor(ft valueobject.FailureType) valueobject.Threshold {
	return thresholds[ft]
}

// finalizeAnalysis классифицирует индекс и собирает результат анализа.
// Общий хвост всех девяти анализаторов: санитизация нефинитного индекса,
// классификация, фиксированный progress и справочный текст.
func finalizeAnalysis(
	ft valueobject.FailureType,
	index float64,
	detail string,
) (*entity.FailureAnalysis, error) {
	if math.IsNaN(index) || math.IsInf(index, 0) {
		return nil, fmt.Errorf("%s: %w", ft, ErrIndeterminateIndex)
	}

	threshold := thresholds[ft]
	severity, err := threshold.Classify(index)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ft, err)
	}

	description := fmt.Sprintf("%s screening: %s, combined=%.4f (%s)",
		ft, detail, index, severity)

	return entity.NewFailureAnalysis(
		ft,
		severity,
		index,
		threshold,
		description,
		progressByType[ft][severity],
		ReferenceFor(ft),
	)
}

// safeDiv делит num на den, возвращая def при нулевом знаменателе.
// Единая точка защиты от сингулярностей во всех девяти анализаторах.
func safeDiv(num, den, def float64) float64 {
	if den == 0 {
		return def
	}
	return num / den
}

// rss возвращает корень из суммы квадратов
func rss(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// maxOf возвращает максимум из значений
func maxOf(values ...float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// minOf возвращает минимум из значений
func minOf(values ...float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// meanOf возвращает среднее арифметическое
func meanOf(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddevOf возвращает стандартное отклонение (по генеральной совокупности)
func stddevOf(values ...float64) float64 {
	mean := meanOf(values...)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// AllAnalyzers возвращает все девять анализаторов в каноническом порядке
func AllAnalyzers() []FailureAnalyzer {
	return []FailureAnalyzer{
		NewUnbalanceAnalyzer(),
		NewMisalignmentAnalyzer(),
		NewSoftFootAnalyzer(),
		NewBearingDefectAnalyzer(),
		NewLoosenessAnalyzer(),
		NewCavitationAnalyzer(),
		NewElectricalFaultAnalyzer(),
		NewFlowTurbulenceAnalyzer(),
		NewResonanceAnalyzer(),
	}
}
