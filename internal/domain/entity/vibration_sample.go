package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VibrationSample представляет одно мгновенное измерение вибрации (Aggregate Root)
// Шесть скалярных RMS-величин: скорости (мм/с) и ускорения (м/с²)
// по горизонтальной, вертикальной и осевой осям.
type VibrationSample struct {
	id          string
	equipmentID string
	vh, vv, va  float64 // скорости, мм/с
	ah, av, aa  float64 // ускорения, м/с²
	frequency   float64 // рабочая частота, Гц
	rpm         float64 // частота вращения, об/мин
	temperature float64 // опционально, °C (0 = не измерялась)
	metadata    map[string]interface{}
	measuredAt  time.Time
	createdAt   time.Time
}

var (
	// ErrNegativeMagnitude возвращается при отрицательной амплитуде канала
	ErrNegativeMagnitude = errors.New("vibration magnitudes cannot be negative")

	// ErrNonPositiveFrequency возвращается при частоте <= 0
	ErrNonPositiveFrequency = errors.New("operating frequency must be positive")

	// ErrNonPositiveRPM возвращается при частоте вращения <= 0
	ErrNonPositiveRPM = errors.New("rotational speed must be positive")
)

// NewVibrationSample создает новое измерение (Factory Method)
func NewVibrationSample(
	equipmentID string,
	vh, vv, va, ah, av, aa float64,
	frequency, rpm float64,
) (*VibrationSample, error) {
	if vh < 0 || vv < 0 || va < 0 || ah < 0 || av < 0 || aa < 0 {
		return nil, ErrNegativeMagnitude
	}
	if frequency <= 0 {
		return nil, ErrNonPositiveFrequency
	}
	if rpm <= 0 {
		return nil, ErrNonPositiveRPM
	}

	now := time.Now()

	return &VibrationSample{
		id:          uuid.New().String(),
		equipmentID: equipmentID,
		vh:          vh,
		vv:          vv,
		va:          va,
		ah:          ah,
		av:          av,
		aa:          aa,
		frequency:   frequency,
		rpm:         rpm,
		metadata:    make(map[string]interface{}),
		measuredAt:  now,
		createdAt:   now,
	}, nil
}

// ReconstructSample восстанавливает измерение из хранилища (для Repository)
func ReconstructSample(
	id, equipmentID string,
	vh, vv, va, ah, av, aa float64,
	frequency, rpm, temperature float64,
	metadata map[string]interface{},
	measuredAt, createdAt time.Time,
) *VibrationSample {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &VibrationSample{
		id:          id,
		equipmentID: equipmentID,
		vh:          vh,
		vv:          vv,
		va:          va,
		ah:          ah,
		av:          av,
		aa:          aa,
		frequency:   frequency,
		rpm:         rpm,
		temperature: temperature,
		metadata:    metadata,
		measuredAt:  measuredAt,
		createdAt:   createdAt,
	}
}

// ID возвращает идентификатор измерения
func (s *VibrationSample) ID() string {
	return s.id
}

// EquipmentID возвращает идентификатор оборудования
func (s *VibrationSample) EquipmentID() string {
	return s.equipmentID
}

// VH возвращает горизонтальную скорость, мм/с
func (s *VibrationSample) VH() float64 { return s.vh }

// VV возвращает вертикальную скорость, мм/с
func (s *VibrationSample) VV() float64 { return s.vv }

// VA возвращает осевую скорость, мм/с
func (s *VibrationSample) VA() float64 { return s.va }

// AH возвращает горизонтальное ускорение, м/с²
func (s *VibrationSample) AH() float64 { return s.ah }

// AV возвращает вертикальное ускорение, м/с²
func (s *VibrationSample) AV() float64 { return s.av }

// AA возвращает осевое ускорение, м/с²
func (s *VibrationSample) AA() float64 { return s.aa }

// Frequency возвращает рабочую частоту, Гц
func (s *VibrationSample) Frequency() float64 { return s.frequency }

// RPM возвращает частоту вращения, об/мин
func (s *VibrationSample) RPM() float64 { return s.rpm }

// Temperature возвращает температуру, °C (0 = не измерялась)
func (s *VibrationSample) Temperature() float64 { return s.temperature }

// SetTemperature устанавливает опциональную температуру
func (s *VibrationSample) SetTemperature(t float64) {
	s.temperature = t
}

// Metadata возвращает копию метаданных
func (s *VibrationSample) Metadata() map[string]interface{} {
	result := make(map[string]interface{}, len(s.metadata))
	for k, v := range s.metadata {
		result[k] = v
	}
	return result
}

// SetMetadata устанавливает метаданные
func (s *VibrationSample) SetMetadata(key string, value interface{}) {
	s.metadata[key] = value
}

// MeasuredAt возвращает время измерения
func (s *VibrationSample) MeasuredAt() time.Time {
	return s.measuredAt
}

// CreatedAt возвращает время создания записи
func (s *VibrationSample) CreatedAt() time.Time {
	return s.createdAt
}

// Domain Methods (бизнес-логика)

// Velocities возвращает три канала скорости
func (s *VibrationSample) Velocities() [3]float64 {
	return [3]float64{s.vh, s.vv, s.va}
}

// Accelerations возвращает три канала ускорения
func (s *VibrationSample) Accelerations() [3]float64 {
	return [3]float64{s.ah, s.av, s.aa}
}

// Channels возвращает все шесть каналов в фиксированном порядке
func (s *VibrationSample) Channels() [6]float64 {
	return [6]float64{s.vh, s.vv, s.va, s.ah, s.av, s.aa}
}

// IsStale проверяет, устарело ли измерение
func (s *VibrationSample) IsStale(threshold time.Duration) bool {
	return time.Since(s.measuredAt) > threshold
}
