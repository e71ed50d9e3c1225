package port

import (
	"context"
	"time"
)

// RawSample представляет сырое измерение вибрации от источника
// Используется для передачи данных между Infrastructure и Application слоями
type RawSample struct {
	EquipmentID string
	VH, VV, VA  float64 // скорости, мм/с
	AH, AV, AA  float64 // ускорения, м/с²
	Frequency   float64 // Гц
	RPM         float64 // об/мин
	Temperature float64 // °C, 0 если не измерялась
	Metadata    map[string]interface{}
	MeasuredAt  time.Time
}

// SampleSource определяет интерфейс для получения измерений (Port)
// Реализация будет в Infrastructure слое
type SampleSource interface {
	// AcquireAll снимает по одному измерению с каждого агрегата
	AcquireAll(ctx context.Context) ([]RawSample, error)

	// Acquire снимает измерение с указанного агрегата
	Acquire(ctx context.Context, equipmentID string) (RawSample, error)

	// EquipmentIDs возвращает список обслуживаемых агрегатов
	EquipmentIDs() []string
}
