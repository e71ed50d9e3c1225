package sensor

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/dreschagin/vibration-diagnostics/internal/application/port"
)

// Соотношения амплитуд по направлениям измерения относительно горизонтали
const (
	verticalVelocityRatio   = 0.75
	axialVelocityRatio      = 0.55
	verticalAccelRatio      = 0.80
	axialAccelRatio         = 0.65
	temperatureNoiseCelsius = 1.5
)

// EquipmentProfile описывает базовый вибрационный портрет одного агрегата
type EquipmentProfile struct {
	EquipmentID string

	// Номинальный режим работы
	RPM       float64 // об/мин
	Frequency float64 // Гц, обычно RPM/60

	// Базовые амплитуды в горизонтальном направлении
	BaseVelocity     float64 // мм/с
	BaseAcceleration float64 // м/с²

	// Относительная амплитуда шума (0.05 = ±5%)
	NoiseFraction float64

	// Относительный рост амплитуд в час, моделирует деградацию
	DegradationPerHour float64

	// Базовая температура подшипникового узла, °C
	Temperature float64
}

// SimulatedSensor генерирует правдоподобные измерения вибрации
// Реализует интерфейс port.SampleSource и используется в окружениях
// без подключенных датчиков
type SimulatedSensor struct {
	profiles  map[string]EquipmentProfile
	order     []string
	startedAt time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedSensor создает симулятор для указанных агрегатов
// Seed фиксирует генератор для воспроизводимых прогонов
func NewSimulatedSensor(profiles []EquipmentProfile, seed int64) (*SimulatedSensor, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("at least one equipment profile is required")
	}

	byID := make(map[string]EquipmentProfile, len(profiles))
	order := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		if profile.EquipmentID == "" {
			return nil, fmt.Errorf("equipment id is required")
		}
		if _, exists := byID[profile.EquipmentID]; exists {
			return nil, fmt.Errorf("duplicate equipment id: %s", profile.EquipmentID)
		}
		if profile.BaseVelocity <= 0 || profile.BaseAcceleration <= 0 {
			return nil, fmt.Errorf("equipment %s: base amplitudes must be positive", profile.EquipmentID)
		}
		if profile.RPM <= 0 {
			return nil, fmt.Errorf("equipment %s: rpm must be positive", profile.EquipmentID)
		}
		if profile.Frequency <= 0 {
			profile.Frequency = profile.RPM / 60
		}
		if profile.NoiseFraction <= 0 {
			profile.NoiseFraction = 0.05
		}
		byID[profile.EquipmentID] = profile
		order = append(order, profile.EquipmentID)
	}

	return &SimulatedSensor{
		profiles:  byID,
		order:     order,
		startedAt: time.Now().UTC(),
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// AcquireAll снимает по одному измерению с каждого агрегата
func (s *SimulatedSensor) AcquireAll(ctx context.Context) ([]port.RawSample, error) {
	samples := make([]port.RawSample, 0, len(s.order))
	for _, equipmentID := range s.order {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sample, err := s.Acquire(ctx, equipmentID)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// Acquire снимает измерение с указанного агрегата
func (s *SimulatedSensor) Acquire(_ context.Context, equipmentID string) (port.RawSample, error) {
	profile, ok := s.profiles[equipmentID]
	if !ok {
		return port.RawSample{}, fmt.Errorf("unknown equipment: %s", equipmentID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Амплитуды растут со временем работы, моделируя износ
	hours := time.Since(s.startedAt).Hours()
	wear := 1 + profile.DegradationPerHour*hours

	velocity := profile.BaseVelocity * wear
	acceleration := profile.BaseAcceleration * wear

	sample := port.RawSample{
		EquipmentID: equipmentID,
		VH:          s.jitter(velocity, profile.NoiseFraction),
		VV:          s.jitter(velocity*verticalVelocityRatio, profile.NoiseFraction),
		VA:          s.jitter(velocity*axialVelocityRatio, profile.NoiseFraction),
		AH:          s.jitter(acceleration, profile.NoiseFraction),
		AV:          s.jitter(acceleration*verticalAccelRatio, profile.NoiseFraction),
		AA:          s.jitter(acceleration*axialAccelRatio, profile.NoiseFraction),
		Frequency:   profile.Frequency,
		RPM:         s.jitter(profile.RPM, profile.NoiseFraction/10),
		Temperature: profile.Temperature + s.rng.NormFloat64()*temperatureNoiseCelsius,
		Metadata: map[string]interface{}{
			"source": "simulated",
		},
		MeasuredAt: time.Now().UTC(),
	}

	return sample, nil
}

// EquipmentIDs возвращает список обслуживаемых агрегатов
func (s *SimulatedSensor) EquipmentIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// jitter добавляет мультипликативный гауссов шум и не дает значению уйти ниже нуля
func (s *SimulatedSensor) jitter(base, fraction float64) float64 {
	value := base * (1 + s.rng.NormFloat64()*fraction)
	return math.Max(value, 0)
}
