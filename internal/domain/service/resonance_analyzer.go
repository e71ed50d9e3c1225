package service

import (
	"fmt"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// ResonanceAnalyzer диагностирует резонанс конструкции
type ResonanceAnalyzer struct{}

// NewResonanceAnalyzer создает новый анализатор резонанса
func NewResonanceAnalyzer() *ResonanceAnalyzer {
	return &ResonanceAnalyzer{}
}

// Type возвращает тип отказа
func (a *ResonanceAnalyzer) Type() valueobject.FailureType {
	return valueobject.Resonance
}

// Analyze вычисляет индекс резонанса.
// RPI - отношение энергии скоростей к энергии ускорений, взвешенное
// квадратом отношения частоты к опорным 25 Гц: усиление смещения
// при низкой жесткости указывает на близость собственной частоты.
func (a *ResonanceAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	velocityEnergy := rss(sample.VH(), sample.VV(), sample.VA())
	accelEnergy := rss(sample.AH(), sample.AV(), sample.AA())
	ratio := sample.Frequency() / 25

	rpi := safeDiv(velocityEnergy, accelEnergy, 0) * ratio * ratio

	return finalizeAnalysis(
		valueobject.Resonance,
		rpi,
		fmt.Sprintf("RPI=%.4f", rpi),
	)
}
