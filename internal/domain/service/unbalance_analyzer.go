package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// UnbalanceAnalyzer диагностирует дисбаланс ротора
type UnbalanceAnalyzer struct{}

// NewUnbalanceAnalyzer создает новый анализатор дисбаланса
func NewUnbalanceAnalyzer() *UnbalanceAnalyzer {
	return &UnbalanceAnalyzer{}
}

// Type возвращает тип отказа
func (a *UnbalanceAnalyzer) Type() valueobject.FailureType {
	return valueobject.Unbalance
}

// Analyze вычисляет индекс дисбаланса.
// AUI - амплитудный индекс дисбаланса: радиальная энергия относительно
// осевой. DUF - направленный фактор: асимметрия H/V каналов,
// нормированная на частоту вращения (1800 об/мин = опорная).
func (a *UnbalanceAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	radialVelocity := rss(sample.VH(), sample.VV())
	radialAccel := rss(sample.AH(), sample.AV())

	aui := safeDiv(
		0.7*radialVelocity+0.3*radialAccel,
		0.6*sample.VA()+0.4*sample.AA(),
		0,
	)

	duf := safeDiv(
		math.Abs(sample.VH()-sample.VV()),
		math.Abs(sample.AH()-sample.AV()),
		0,
	) * math.Sqrt(sample.RPM()/1800)

	combined := (aui + duf) / 2

	return finalizeAnalysis(
		valueobject.Unbalance,
		combined,
		fmt.Sprintf("AUI=%.4f, DUF=%.4f", aui, duf),
	)
}
