package compressor

// OperatingPoint is the configuration a solver settled on.
type OperatingPoint struct {
	Speed          float64 // rpm, zero for single-speed trains
	Recirculation  float64 // kg/h
	OutletPressure float64 // bara achieved
	Power          float64 // shaft power, W
}

// Solution is the terminal result of a speed or recirculation search.
// Success=false means the requested operating point lies outside the
// equipment envelope; Point then carries the best attempted configuration
// for diagnostics. Callers flag the affected timestep invalid rather than
// aborting the run.
type Solution struct {
	Success bool
	Point   OperatingPoint
}
