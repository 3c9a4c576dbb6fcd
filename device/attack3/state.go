package attack3

import "github.com/attack3/joymap/input"

// Calibration is the raw X/Y reading treated as the stick's zero point.
// It is captured once from the first report of a run and never recomputed,
// so a stick held off-center at startup stays de-centered for that run.
type Calibration struct {
	X, Y uint8
}

// CalibrationFrom captures the zero point from a report.
func CalibrationFrom(r Report) Calibration {
	return Calibration{X: r.X, Y: r.Y}
}

// Normalize converts a raw report into a logical state relative to c.
//
//	x =  2(raw_x - ref_x) / 255
//	y = -2(raw_y - ref_y) / 255
//	z = -2(raw_z - 128)   / 255
//
// Results are not clamped.
func Normalize(r Report, c Calibration) input.State {
	return input.State{
		Buttons: r.Buttons,
		X:       2 * (float64(r.X) - float64(c.X)) / 255,
		Y:       -2 * (float64(r.Y) - float64(c.Y)) / 255,
		Z:       -2 * (float64(r.Z) - axisCenter) / 255,
	}
}
