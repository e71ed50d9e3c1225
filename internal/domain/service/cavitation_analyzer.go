package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// CavitationAnalyzer диагностирует кавитацию в проточной части насоса
type CavitationAnalyzer struct{}

// NewCavitationAnalyzer создает новый анализатор кавитации
func NewCavitationAnalyzer() *CavitationAnalyzer {
	return &CavitationAnalyzer{}
}

// Type возвращает тип отказа
func (a *CavitationAnalyzer) Type() valueobject.FailureType {
	return valueobject.Cavitation
}

// Analyze вычисляет индекс кавитации.
// CI - отношение энергии ускорений к энергии скоростей, взвешенное
// квадратом отношения частоты к оборотам. CSF - пиковый фактор,
// масштабированный log10(N/100).
func (a *CavitationAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	vh, vv, va := sample.VH(), sample.VV(), sample.VA()
	ah, av, aa := sample.AH(), sample.AV(), sample.AA()
	ratio := sample.Frequency() / sample.RPM()

	ci := safeDiv(rss(ah, av, aa), rss(vh, vv, va), 0) * ratio * ratio

	csf := safeDiv(maxOf(ah, av, aa), maxOf(vh, vv, va), 0) *
		math.Log10(sample.RPM()/100)

	combined := (ci + csf) / 2

	return finalizeAnalysis(
		valueobject.Cavitation,
		combined,
		fmt.Sprintf("CI=%.4f, CSF=%.4f", ci, csf),
	)
}
