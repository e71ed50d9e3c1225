package valueobject

import "errors"

// FailureType представляет режим отказа вращающегося оборудования (Value Object)
type FailureType string

const (
	Unbalance       FailureType = "Unbalance"
	Misalignment    FailureType = "Misalignment"
	SoftFoot        FailureType = "Soft Foot"
	BearingDefects  FailureType = "Bearing Defects"
	Looseness       FailureType = "Mechanical Looseness"
	Cavitation      FailureType = "Cavitation"
	ElectricalFault FailureType = "Electrical Faults"
	FlowTurbulence  FailureType = "Flow Turbulence"
	Resonance       FailureType = "Resonance"
)

// defaultWeight используется для неизвестных типов при расчете MFI
const defaultWeight = 0.05

// weights задает вклад каждого режима отказа в Master Fault Index
var weights = map[FailureType]float64{
	Unbalance:       0.15,
	Misalignment:    0.15,
	BearingDefects:  0.20,
	Looseness:       0.12,
	Cavitation:      0.10,
	SoftFoot:        0.08,
	ElectricalFault: 0.10,
	FlowTurbulence:  0.05,
	Resonance:       0.05,
}

// Validate проверяет валидность типа отказа
func (ft FailureType) Validate() error {
	if _, ok := weights[ft]; !ok {
		return errors.New("invalid failure type")
	}
	return nil
}

// Weight возвращает вес типа отказа для взвешенной композиции
func (ft FailureType) Weight() float64 {
	if w, ok := weights[ft]; ok {
		return w
	}
	return defaultWeight
}

// String возвращает строковое представление типа отказа
func (ft FailureType) String() string {
	return string(ft)
}

// AllFailureTypes возвращает список всех типов отказов в каноническом порядке
func AllFailureTypes() []FailureType {
	return []FailureType{
		Unbalance,
		Misalignment,
		SoftFoot,
		BearingDefects,
		Looseness,
		Cavitation,
		ElectricalFault,
		FlowTurbulence,
		Resonance,
	}
}
