package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(d, sensitivity, deadzone float64) Config {
	return Config{Mode: ModeConstant, Distance: d, Sensitivity: sensitivity, Deadzone: deadzone}
}

func TestEngineConstantExample(t *testing.T) {
	e, err := New(constant(4, 1, 0))
	require.NoError(t, err)

	var got []int
	for range 4 {
		got = append(got, e.Step(1.0))
	}
	assert.Equal(t, []int{0, 0, 0, 1}, got)
	assert.Equal(t, 0.0, e.remainder)
}

func TestEngineConstantIsLossless(t *testing.T) {
	tests := []struct {
		name   string
		d      float64
		sample float64
		steps  int
	}{
		{name: "sub-unit steps", d: 4, sample: 0.3, steps: 1000},
		{name: "multi-unit steps", d: 0.25, sample: 0.9, steps: 333},
		{name: "negative", d: 3, sample: -0.7, steps: 500},
		{name: "single step", d: 2, sample: 1, steps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(constant(tt.d, 10, 0))
			require.NoError(t, err)

			total := 0
			for range tt.steps {
				total += e.Step(tt.sample)
			}
			raw := tt.sample * 10 * float64(tt.steps)
			want := math.Trunc(raw / tt.d)
			assert.InDelta(t, want, float64(total), 1)
			// The carried remainder accounts for everything not yet emitted.
			assert.InDelta(t, raw, float64(total)*tt.d+e.remainder, 1e-6)
			assert.Less(t, math.Abs(e.remainder), tt.d)
		})
	}
}

func TestEngineDeadzoneLeavesRemainder(t *testing.T) {
	e, err := New(constant(1, 1, 0.2))
	require.NoError(t, err)

	assert.Equal(t, 0, e.Step(0.9))
	before := e.remainder
	require.InDelta(t, 0.9, before, 1e-12)

	assert.Equal(t, 0, e.Step(0.19))
	assert.Equal(t, 0, e.Step(-0.19))
	assert.Equal(t, before, e.remainder)

	// Exactly at the threshold is outside the gate.
	assert.Equal(t, 1, e.Step(0.2))
}

func TestEngineZeroDistanceKeepsRemainder(t *testing.T) {
	e, err := New(Config{Mode: ModeLinear, Slope: 2, Bias: 0, Sensitivity: 1})
	require.NoError(t, err)

	assert.Equal(t, 0, e.Step(0.5)) // d = 1, remainder 0.5
	assert.InDelta(t, 0.5, e.remainder, 1e-12)

	// Full deflection gives d = 0.
	assert.Equal(t, 0, e.Step(1))
	assert.InDelta(t, 0.5, e.remainder, 1e-12)
}

func TestEngineIgnoresNonFiniteSamples(t *testing.T) {
	e, err := New(constant(1, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, e.Step(math.NaN()))
	assert.Equal(t, 0, e.Step(math.Inf(1)))
	assert.Equal(t, 0.0, e.remainder)
}

func TestEngineClampsAndCarries(t *testing.T) {
	e, err := New(constant(1, 100000, 0))
	require.NoError(t, err)

	assert.Equal(t, MaxUnitsPerStep, e.Step(1))
	assert.InDelta(t, 100000-MaxUnitsPerStep, e.remainder, 1e-6)

	// With no deadzone the carried distance drains on the following ticks.
	total := MaxUnitsPerStep
	for range 3 {
		total += e.Step(0)
	}
	assert.Equal(t, 100000, total)
	assert.Equal(t, 0, e.Step(0))
}

func TestEngineLinearAccelerates(t *testing.T) {
	cfg := Config{Mode: ModeLinear, Slope: 10, Bias: 1, Sensitivity: 10}
	slow, err := New(cfg)
	require.NoError(t, err)
	fast, err := New(cfg)
	require.NoError(t, err)

	slowTotal, fastTotal := 0, 0
	for range 100 {
		slowTotal += slow.Step(0.3)
		fastTotal += fast.Step(0.9)
	}
	assert.Greater(t, fastTotal, 3*slowTotal)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Mode: "cubic"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
