package service

import (
	"sort"
	"sync"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
)

// AnalysisAggregator запускает все анализаторы и упорядочивает
// результаты по серьезности (Domain Service)
// Содержит бизнес-логику, которая не принадлежит одному анализатору
type AnalysisAggregator struct {
	analyzers []FailureAnalyzer
}

// AggregationResult содержит упорядоченные анализы и диагностику
// исключенных анализаторов. Отказ одного анализатора не прерывает
// остальные: деградированный набор всегда предпочтительнее пустого.
type AggregationResult struct {
	Analyses  []*entity.FailureAnalysis
	Omissions []entity.AnalyzerOmission
}

// NewAnalysisAggregator создает агрегатор с полным набором анализаторов
func NewAnalysisAggregator() *AnalysisAggregator {
	return &AnalysisAggregator{analyzers: AllAnalyzers()}
}

// NewAnalysisAggregatorWith создает агрегатор с указанными анализаторами
func NewAnalysisAggregatorWith(analyzers ...FailureAnalyzer) *AnalysisAggregator {
	return &AnalysisAggregator{analyzers: analyzers}
}

// PerformComprehensiveAnalysis запускает все анализаторы параллельно,
// собирает результаты в порядке вызова и сортирует по рангу серьезности.
// Сортировка стабильная: при равном ранге сохраняется порядок вызова.
func (a *AnalysisAggregator) PerformComprehensiveAnalysis(sample *entity.VibrationSample) AggregationResult {
	type slot struct {
		analysis *entity.FailureAnalysis
		err      error
	}

	slots := make([]slot, len(a.analyzers))

	// Запускаем все анализаторы параллельно: данных-зависимостей
	// между ними нет, fan-in по фиксированным слотам сохраняет
	// порядок вызова
	var wg sync.WaitGroup
	wg.Add(len(a.analyzers))
	for i, analyzer := range a.analyzers {
		go func(i int, analyzer FailureAnalyzer) {
			defer wg.Done()
			analysis, err := analyzer.Analyze(sample)
			slots[i] = slot{analysis: analysis, err: err}
		}(i, analyzer)
	}
	wg.Wait()

	result := AggregationResult{
		Analyses: make([]*entity.FailureAnalysis, 0, len(a.analyzers)),
	}
	for i, s := range slots {
		if s.err != nil {
			result.Omissions = append(result.Omissions, entity.AnalyzerOmission{
				Type:   a.analyzers[i].Type(),
				Reason: s.err.Error(),
			})
			continue
		}
		result.Analyses = append(result.Analyses, s.analysis)
	}

	sort.SliceStable(result.Analyses, func(i, j int) bool {
		return result.Analyses[i].Severity().Rank() < result.Analyses[j].Severity().Rank()
	})

	return result
}

// FindActionable находит анализы, требующие вмешательства
func (a *AnalysisAggregator) FindActionable(analyses []*entity.FailureAnalysis) []*entity.FailureAnalysis {
	var actionable []*entity.FailureAnalysis
	for _, fa := range analyses {
		if fa.IsActionable() {
			actionable = append(actionable, fa)
		}
	}
	return actionable
}

// WorstByIndex находит анализ с максимальным комбинированным индексом
func (a *AnalysisAggregator) WorstByIndex(analyses []*entity.FailureAnalysis) *entity.FailureAnalysis {
	if len(analyses) == 0 {
		return nil
	}

	worst := analyses[0]
	for _, fa := range analyses[1:] {
		if fa.Index() > worst.Index() {
			worst = fa
		}
	}
	return worst
}
