package service

import (
	"fmt"
	"math"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// MisalignmentAnalyzer диагностирует расцентровку валов
type MisalignmentAnalyzer struct{}

// NewMisalignmentAnalyzer создает новый анализатор расцентровки
func NewMisalignmentAnalyzer() *MisalignmentAnalyzer {
	return &MisalignmentAnalyzer{}
}

// Type возвращает тип отказа
func (a *MisalignmentAnalyzer) Type() valueobject.FailureType {
	return valueobject.Misalignment
}

// Analyze вычисляет индекс расцентровки.
// CMI - комбинированный индекс: осевые составляющие относительно
// радиальных плюс асимметрия H/V. CMS - перекрестная составляющая
// через геометрическое среднее всех радиальных каналов.
func (a *MisalignmentAnalyzer) Analyze(sample *entity.VibrationSample) (*entity.FailureAnalysis, error) {
	vh, vv, va := sample.VH(), sample.VV(), sample.VA()
	ah, av, aa := sample.AH(), sample.AV(), sample.AA()

	cmi := 0.4*safeDiv(va, rss(vh, vv), 0) +
		0.3*safeDiv(aa, rss(ah, av), 0) +
		0.3*safeDiv(math.Abs(vh-vv), maxOf(vh, vv), 0)

	// CMS определен как 0 при неположительном знаменателе
	var cms float64
	if denom := vh * vv * ah * av; denom > 0 {
		cms = rss(va*aa, vh*ah-vv*av) / math.Pow(denom, 0.25)
	}

	combined := (cmi + cms) / 2

	return finalizeAnalysis(
		valueobject.Misalignment,
		combined,
		fmt.Sprintf("CMI=%.4f, CMS=%.4f", cmi, cms),
	)
}
