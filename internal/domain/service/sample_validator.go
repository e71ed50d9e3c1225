package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
)

// SampleValidator предоставляет сервисы для валидации измерений (Domain Service)
type SampleValidator struct{}

// NewSampleValidator создает новый SampleValidator
func NewSampleValidator() *SampleValidator {
	return &SampleValidator{}
}

// Validate выполняет полную валидацию измерения
func (v *SampleValidator) Validate(sample *entity.VibrationSample) error {
	if sample == nil {
		return errors.New("sample cannot be nil")
	}

	// Все шесть каналов должны быть финитными и неотрицательными
	for i, ch := range sample.Channels() {
		if math.IsNaN(ch) || math.IsInf(ch, 0) {
			return fmt.Errorf("channel %d is not finite", i)
		}
		if ch < 0 {
			return entity.ErrNegativeMagnitude
		}
	}

	if sample.Frequency() <= 0 {
		return entity.ErrNonPositiveFrequency
	}
	if sample.RPM() <= 0 {
		return entity.ErrNonPositiveRPM
	}

	// Проверка времени измерения
	if sample.MeasuredAt().IsZero() {
		return errors.New("measured_at cannot be zero")
	}
	if sample.MeasuredAt().After(time.Now()) {
		return errors.New("measured_at cannot be in the future")
	}

	return nil
}

// IsReasonable проверяет, находятся ли значения в физически разумных
// пределах для промышленных насосов и двигателей
func (v *SampleValidator) IsReasonable(sample *entity.VibrationSample) bool {
	// Скорости вибрации выше 100 мм/с означают разрушение агрегата
	// или неисправный датчик
	for _, vel := range sample.Velocities() {
		if vel > 100 {
			return false
		}
	}

	// Ускорения выше 500 м/с2 вне диапазона типовых акселерометров
	for _, acc := range sample.Accelerations() {
		if acc > 500 {
			return false
		}
	}

	if sample.Frequency() > 10000 {
		return false
	}
	if sample.RPM() > 60000 {
		return false
	}

	return true
}

// ValidateBatch валидирует группу измерений
func (v *SampleValidator) ValidateBatch(samples []*entity.VibrationSample) []error {
	var errs []error

	for i, sample := range samples {
		if err := v.Validate(sample); err != nil {
			errs = append(errs, fmt.Errorf("sample %d: %w", i, err))
		}
	}

	return errs
}
