package valueobject

import (
	"errors"
	"math"
)

// Threshold представляет три классификационных отсечки анализатора (Value Object)
// Поля хранят верхние границы зон: good — конец зоны Good (отсечка в
// Moderate), moderate — конец зоны Moderate (отсечка в Severe), severe —
// верх шкалы, зарезервированный за уровнем Critical, который анализаторы
// не возвращают.
// Иммутабельный объект
type Threshold struct {
	good     float64
	moderate float64
	severe   float64
}

// NewThreshold создает новый Threshold с валидацией
func NewThreshold(good, moderate, severe float64) (Threshold, error) {
	if good >= moderate || moderate >= severe {
		return Threshold{}, errors.New("thresholds must be strictly increasing")
	}
	return Threshold{good: good, moderate: moderate, severe: severe}, nil
}

// MustThreshold создает Threshold и паникует при невалидных порогах.
// Используется только для статических таблиц порогов.
func MustThreshold(good, moderate, severe float64) Threshold {
	t, err := NewThreshold(good, moderate, severe)
	if err != nil {
		panic(err)
	}
	return t
}

// Good возвращает верхнюю границу зоны Good
func (t Threshold) Good() float64 {
	return t.good
}

// Moderate возвращает верхнюю границу зоны Moderate
func (t Threshold) Moderate() float64 {
	return t.moderate
}

// Severe возвращает верх шкалы severity
func (t Threshold) Severe() float64 {
	return t.severe
}

// Classify возвращает severity для индекса.
// Сравнения строгие: index == good еще дает Good,
// index == moderate еще дает Moderate.
func (t Threshold) Classify(index float64) (Severity, error) {
	if math.IsNaN(index) || math.IsInf(index, 0) {
		// NaN проваливает оба сравнения и молча дал бы Good,
		// поэтому нефинитный индекс отклоняется явно.
		return "", errors.New("non-finite index cannot be classified")
	}

	switch {
	case index > t.moderate:
		return SeveritySevere, nil
	case index > t.good:
		return SeverityModerate, nil
	default:
		return SeverityGood, nil
	}
}
