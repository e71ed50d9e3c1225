package service

import (
	"github.com/dreschagin/vibration-diagnostics/internal/domain/entity"
	"github.com/dreschagin/vibration-diagnostics/internal/domain/valueobject"
)

// referenceTable содержит статический справочный текст по каждому типу
// отказа: первопричины, немедленные действия, корректирующие и
// профилактические меры. Текст не вычисляется - загружается один раз
// в read-only состояние процесса.
var referenceTable = map[valueobject.FailureType]entity.ReferenceContent{
	valueobject.Unbalance: {
		RootCauses: []string{
			"Uneven mass distribution on the rotor or impeller",
			"Material buildup or erosion on rotating parts",
			"Missing, loose or incorrectly weighted balance weights",
			"Thermal bow of the shaft after uneven heating",
		},
		ImmediateActions: []string{
			"Reduce operating speed if vibration trend is rising",
			"Inspect rotor and impeller for deposits and damage",
			"Verify balance weights are present and secure",
		},
		CorrectiveMeasures: []string{
			"Perform single-plane or two-plane field balancing",
			"Clean deposits from impeller and rotor surfaces",
			"Replace eroded or damaged rotating components",
		},
		PreventiveMeasures: []string{
			"Balance rotors to ISO 21940 grade after any overhaul",
			"Schedule periodic cleaning of fouling-prone impellers",
			"Trend 1x running-speed vibration between outages",
		},
	},
	valueobject.Misalignment: {
		RootCauses: []string{
			"Improper shaft alignment during installation",
			"Foundation settling or baseplate distortion",
			"Thermal growth not compensated in cold alignment",
			"Coupling wear or incorrect coupling assembly",
		},
		ImmediateActions: []string{
			"Check coupling condition and hold-down bolt torque",
			"Inspect for visible foundation cracks or movement",
			"Record axial vibration trend at both bearings",
		},
		CorrectiveMeasures: []string{
			"Realign shafts with laser alignment within tolerance",
			"Compensate for thermal growth in final alignment targets",
			"Replace worn coupling elements",
		},
		PreventiveMeasures: []string{
			"Verify alignment after every coupling disassembly",
			"Include hot-alignment checks for high-temperature services",
			"Monitor axial-to-radial vibration ratio monthly",
		},
	},
	valueobject.SoftFoot: {
		RootCauses: []string{
			"Machine foot not contacting the baseplate evenly",
			"Corroded, dirty or burred mounting surfaces",
			"Distorted machine frame from pipe strain",
			"Improper or excessive shimming under feet",
		},
		ImmediateActions: []string{
			"Check each hold-down bolt with a dial indicator lift test",
			"Inspect shim packs for corrosion and fretting",
			"Relieve obvious pipe strain at machine nozzles",
		},
		CorrectiveMeasures: []string{
			"Machine or re-grout the mounting surfaces flat",
			"Replace rusted shims with clean stainless packs",
			"Correct pipe strain with proper pipe supports",
		},
		PreventiveMeasures: []string{
			"Perform soft-foot check at every alignment job",
			"Use a maximum of three shims per foot",
			"Protect mounting surfaces from corrosion",
		},
	},
	valueobject.BearingDefects: {
		RootCauses: []string{
			"Fatigue spalling of raceways or rolling elements",
			"Inadequate, degraded or contaminated lubrication",
			"Bearing currents from variable frequency drives",
			"Improper mounting, fits or excessive preload",
		},
		ImmediateActions: []string{
			"Check bearing temperature against baseline",
			"Take a lubricant sample for contamination analysis",
			"Increase monitoring interval on the affected bearing",
		},
		CorrectiveMeasures: []string{
			"Replace bearing at the next planned opportunity",
			"Flush housing and restore correct lubricant fill",
			"Install shaft grounding if VFD currents are confirmed",
		},
		PreventiveMeasures: []string{
			"Apply precision mounting tools and heating practices",
			"Establish a time- or condition-based relubrication program",
			"Store spare bearings horizontally in sealed packaging",
		},
	},
	valueobject.Looseness: {
		RootCauses: []string{
			"Loose hold-down bolts or baseplate grouting failure",
			"Excessive bearing clearance from wear",
			"Cracked structural welds or frame members",
			"Loose rotor components on the shaft",
		},
		ImmediateActions: []string{
			"Torque-check all structural and hold-down fasteners",
			"Inspect grout and foundation interface for cracks",
			"Listen for impacting at reduced load",
		},
		CorrectiveMeasures: []string{
			"Re-torque fasteners to specification with thread locker",
			"Repair or re-pour degraded grout",
			"Restore bearing fits or replace worn housings",
		},
		PreventiveMeasures: []string{
			"Include fastener torque checks in preventive routes",
			"Trend sub-harmonic vibration components",
			"Use locking hardware in high-vibration locations",
		},
	},
	valueobject.Cavitation: {
		RootCauses: []string{
			"Insufficient NPSH margin at the pump suction",
			"Operation far left of the best efficiency point",
			"Clogged suction strainer or collapsed suction hose",
			"Entrained air or vapor in the pumped liquid",
		},
		ImmediateActions: []string{
			"Verify suction pressure and liquid temperature",
			"Open suction valves fully and check strainer dP",
			"Move the operating point toward BEP if possible",
		},
		CorrectiveMeasures: []string{
			"Raise NPSH available: suction level, cooler liquid, larger line",
			"Trim or replace impeller to match actual duty",
			"Eliminate air ingress at seals and suction flanges",
		},
		PreventiveMeasures: []string{
			"Review NPSH margin at every duty-point change",
			"Install suction pressure monitoring with alarms",
			"Train operators on minimum-flow constraints",
		},
	},
	valueobject.ElectricalFault: {
		RootCauses: []string{
			"Broken or cracked rotor bars in induction motors",
			"Stator winding asymmetry or shorted turns",
			"Air-gap eccentricity between rotor and stator",
			"Unbalanced supply voltage between phases",
		},
		ImmediateActions: []string{
			"Compare phase currents for imbalance",
			"Check motor surface temperature distribution",
			"Observe whether vibration disappears at power cutoff",
		},
		CorrectiveMeasures: []string{
			"Perform motor current signature analysis",
			"Re-bar or replace the rotor if bars are broken",
			"Correct supply voltage imbalance at the source",
		},
		PreventiveMeasures: []string{
			"Schedule periodic MCSA surveys on critical motors",
			"Trend phase current imbalance in the CMMS",
			"Verify air gap at every motor overhaul",
		},
	},
	valueobject.FlowTurbulence: {
		RootCauses: []string{
			"Poor suction piping layout with elbows near the inlet",
			"Operation away from the pump best efficiency point",
			"Partially closed or throttling valves near the machine",
			"Vortex formation in the suction vessel",
		},
		ImmediateActions: []string{
			"Check valve positions along the suction line",
			"Compare current flow against the design point",
			"Look for fluctuating discharge pressure",
		},
		CorrectiveMeasures: []string{
			"Rework suction piping to provide straight run at inlet",
			"Install flow straighteners where layout is constrained",
			"Re-trim control valves causing localized turbulence",
		},
		PreventiveMeasures: []string{
			"Follow Hydraulic Institute suction piping guidelines",
			"Keep operation within the allowable operating region",
			"Review piping changes for hydraulic impact",
		},
	},
	valueobject.Resonance: {
		RootCauses: []string{
			"Natural frequency close to running speed or blade-pass",
			"Loss of structural stiffness from cracked welds",
			"Foundation degradation changing support stiffness",
			"Speed change moving excitation onto a critical",
		},
		ImmediateActions: []string{
			"Change operating speed away from the amplified band",
			"Perform a bump test to locate natural frequencies",
			"Inspect the support structure for cracks",
		},
		CorrectiveMeasures: []string{
			"Stiffen or add mass to the structure to shift the natural frequency",
			"Repair cracked welds and degraded grout",
			"Install tuned dampers where detuning is impractical",
		},
		PreventiveMeasures: []string{
			"Run a structural resonance survey at commissioning",
			"Re-check natural frequencies after structural repairs",
			"Define exclusion bands for variable-speed operation",
		},
	},
}

// ReferenceFor возвращает справочный текст для типа отказа
func ReferenceFor(ft valueobject.FailureType) entity.ReferenceContent {
	return referenceTable[ft]
}
