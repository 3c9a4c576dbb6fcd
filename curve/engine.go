package curve

import "math"

// MaxUnitsPerStep bounds a single Step result so every injector backend can
// carry it in a 16-bit relative delta. Distance beyond it stays in the remainder.
const MaxUnitsPerStep = math.MaxInt16

// Engine is the per-axis accumulator. It is not safe for concurrent use; the
// polling loop owns it.
type Engine struct {
	cfg       Config
	remainder float64
}

// New validates cfg and returns an engine with an empty remainder.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the curve the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Step feeds one sample and returns the whole units moved since the last call.
// Samples inside the deadzone, and samples for which the curve yields no usable
// distance-per-unit, return 0 without touching the remainder.
func (e *Engine) Step(sample float64) int {
	if math.IsNaN(sample) || math.IsInf(sample, 0) {
		return 0
	}
	if math.Abs(sample) < e.cfg.Deadzone {
		return 0
	}
	d := e.cfg.DistancePerUnit(sample)
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}

	e.remainder += sample * e.cfg.Sensitivity
	units := math.Trunc(e.remainder / d)
	units = math.Max(math.Min(units, MaxUnitsPerStep), -MaxUnitsPerStep)
	e.remainder -= units * d
	return int(units)
}
