package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// SoftFootAnalyzer диагностирует "мягкую лапу" (неплотное прилегание опоры)
type SoftFootAnalyzer struct{}

// NewSoftFootAnalyzer создает новый анализатор мягкой лапы
func NewSoftFootAnalyzer() *SoftFootAnalyzer {
	return &SoftFootAnalyzer{}
}

// Type возвращает тип отказа
func (a *SoftFootAnalyzer) Type() valueobject.FailureType {
	return valueobject.SoftFoot
}

// Analyze вычисляет индекс мягкой лапы.
// SFI - статическая асимметрия V/H каналов. TSFI - частотно-взвешенное
// отношение скорость/ускорение (знак log10 дает |TSFI|). FSR -
// податливость опоры, нормированная делением на 100.
func (a *SoftFootAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	vh, vv := sample.VH(), sample.VV()
	ah, av := sample.AH(), sample.AV()
	f := sample.Frequency()

	sfi := safeDiv(math.Abs(vv-vh), maxOf(vv, vh), 0) *
		safeDiv(rss(av, ah), maxOf(av, ah), 0)

	tsfi := safeDiv(
		safeDiv(vv, av, 0),
		safeDiv(vh, ah, 0),
		0,
	) * math.Log10(f/10)

	fsr := safeDiv(vh+vv, ah+av, 0) * 2 * math.Pi * f

	combined := (sfi + math.Abs(tsfi) + fsr/100) / 3

	return finalizeAnalysis(
		valueobject.SoftFoot,
		combined,
		fmt.Sprintf("SFI=%.4f, TSFI=%.4f, FSR=%.4f", sfi, tsfi, fsr),
	)
}
