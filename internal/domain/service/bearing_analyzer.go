package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// BearingDefectAnalyzer диагностирует дефекты подшипников качения
type BearingDefectAnalyzer struct{}

// NewBearingDefectAnalyzer создает новый анализатор подшипников
func NewBearingDefectAnalyzer() *BearingDefectAnalyzer {
	return &BearingDefectAnalyzer{}
}

// Type возвращает тип отказа
func (a *BearingDefectAnalyzer) Type() valueobject.FailureType {
	return valueobject.BearingDefects
}

// Analyze вычисляет индекс дефектов подшипников.
// CBI - комбинированная энергия каналов. HFBD - высокочастотная
// составляющая: отношение энергии ускорений к энергии скоростей,
// масштабированное частотой вращения. BEP - пиковость ускорения
// относительно RMS скорости.
func (a *BearingDefectAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	vh, vv, va := sample.VH(), sample.VV(), sample.VA()
	ah, av, aa := sample.AH(), sample.AV(), sample.AA()

	cbi := 0.3*rss(vh, vv) + 0.4*rss(ah, av) + 0.3*maxOf(ah, av, aa)

	hfbd := safeDiv(rss(ah, av, aa), rss(vh, vv, va), 0) * (sample.RPM() / 1000)

	rmsVelocity := math.Sqrt((vh*vh + vv*vv + va*va) / 3)
	bep := safeDiv(maxOf(ah, av, aa), rmsVelocity, 0) * math.Log10(sample.Frequency())

	combined := (cbi + hfbd*10 + bep) / 3

	return finalizeAnalysis(
		valueobject.BearingDefects,
		combined,
		fmt.Sprintf("CBI=%.4f, HFBD=%.4f, BEP=%.4f", cbi, hfbd, bep),
	)
}
