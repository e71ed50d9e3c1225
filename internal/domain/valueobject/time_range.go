package valueobject

import (
	"errors"
	"time"
)

// TimeRange представляет окно наблюдения за оборудованием (Value Object).
// Используется для выборки истории оценок и для очистки устаревших записей.
// Иммутабельный объект.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange создает новый TimeRange с валидацией границ
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.After(end) {
		return TimeRange{}, errors.New("start time must be before end time")
	}

	if start.IsZero() || end.IsZero() {
		return TimeRange{}, errors.New("start and end times cannot be zero")
	}

	return TimeRange{
		start: start,
		end:   end,
	}, nil
}

// NewTimeRangeFromDuration создает окно от указанной длительности назад
// до текущего момента. Так задаются окна истории ("последние 24 часа")
// и порог retention-очистки.
func NewTimeRangeFromDuration(duration time.Duration) (TimeRange, error) {
	if duration <= 0 {
		return TimeRange{}, errors.New("duration must be positive")
	}

	now := time.Now()
	start := now.Add(-duration)

	return TimeRange{
		start: start,
		end:   now,
	}, nil
}

// Start возвращает начало окна
func (tr TimeRange) Start() time.Time {
	return tr.start
}

// End возвращает конец окна
func (tr TimeRange) End() time.Time {
	return tr.end
}

// Duration возвращает длительность окна
func (tr TimeRange) Duration() time.Duration {
	return tr.end.Sub(tr.start)
}

// Contains проверяет, попадает ли момент измерения в окно
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.start) && !t.After(tr.end)
}

// Overlaps проверяет, пересекаются ли два окна
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.start.Before(other.end) && other.start.Before(tr.end)
}
