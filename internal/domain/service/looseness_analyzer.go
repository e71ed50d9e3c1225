package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// LoosenessAnalyzer диагностирует механические ослабления
type LoosenessAnalyzer struct{}

// NewLoosenessAnalyzer создает новый анализатор ослаблений
func NewLoosenessAnalyzer() *LoosenessAnalyzer {
	return &LoosenessAnalyzer{}
}

// Type возвращает тип отказа
func (a *LoosenessAnalyzer) Type() valueobject.FailureType {
	return valueobject.Looseness
}

// Analyze вычисляет индекс ослаблений.
// CLI - перекрестная энергия пар скорость/ускорение относительно
// геометрического среднего всех каналов. SLF - размах каналов
// (отношение максимума к минимуму), вклад с весом 1/10.
func (a *LoosenessAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	vh, vv, va := sample.VH(), sample.VV(), sample.VA()
	ah, av, aa := sample.AH(), sample.AV(), sample.AA()

	// CLI определен как 0 при неположительном знаменателе
	var cli float64
	if denom := vh * vv * va * ah * av * aa; denom > 0 {
		cli = rss(vh*ah, vv*av, va*aa) / math.Pow(denom, 1.0/6.0)
	}

	// SLF определен как 0 при неположительном минимуме
	var slf float64
	if min := minOf(vh, vv, va, ah, av, aa); min > 0 {
		slf = maxOf(vh, vv, va, ah, av, aa) / min
	}

	combined := (cli + slf/10) / 2

	return finalizeAnalysis(
		valueobject.Looseness,
		combined,
		fmt.Sprintf("CLI=%.4f, SLF=%.4f", cli, slf),
	)
}
