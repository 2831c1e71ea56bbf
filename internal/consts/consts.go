package consts

// Effective resistances (ohm). These are approximations of the lab's parts,
// not physical constants, and can be overridden through device.Params.
const (
	MIN_RESISTOR   = 0.001 // Resistor floor, avoids zero conductance blow-up
	MIN_RHEOSTAT   = 0.1   // Rheostat floor, slider at the end stop
	BULB           = 10.0  // Lamp modeled as fixed linear resistance
	AMMETER        = 0.01  // Near-ideal ammeter
	SWITCH_CONTACT = 0.001 // Closed switch contact resistance
)

const (
	SHORT_THRESHOLD = 15.0 // Current magnitude (A) reported as a short circuit
	PIVOT_EPSILON   = 1e-9 // Smallest usable pivot in dense elimination

	MAX_SWEEP_POINTS = 10000 // Upper bound on DC sweep steps
)
