// Package profile loads mapping profiles: which key each button presses and
// how each axis is dispatched.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/attack3/joymap/curve"
	"github.com/attack3/joymap/dispatch"
	"github.com/attack3/joymap/input"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

var ErrInvalidProfile = errors.New("invalid profile")

// Duration is a time.Duration written as a Go duration string ("5ms").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("%w: interval: %w", ErrInvalidProfile, err)
	}
	*d = Duration(v)
	return nil
}

type AxisProfile struct {
	Mode     dispatch.AxisMode `json:"mode" yaml:"mode"`
	Positive input.Key         `json:"positive,omitempty" yaml:"positive,omitempty"`
	Negative input.Key         `json:"negative,omitempty" yaml:"negative,omitempty"`
	Deadzone float64           `json:"deadzone,omitempty" yaml:"deadzone,omitempty"`
	Curve    *curve.Config     `json:"curve,omitempty" yaml:"curve,omitempty"`
}

// Profile is the on-disk form of dispatch.Bindings. Buttons are keyed by
// their 1-based number.
type Profile struct {
	Interval Duration             `json:"interval,omitempty" yaml:"interval,omitempty"`
	Buttons  map[string]input.Key `json:"buttons,omitempty" yaml:"buttons,omitempty"`
	X        *AxisProfile         `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *AxisProfile         `json:"y,omitempty" yaml:"y,omitempty"`
	Z        *AxisProfile         `json:"z,omitempty" yaml:"z,omitempty"`
}

// Default is the stock WASD layout.
func Default() *Profile {
	return &Profile{
		Interval: Duration(5 * time.Millisecond),
		Buttons: map[string]input.Key{
			"1":  input.KeyCtrl,
			"2":  input.KeyShift,
			"3":  input.KeyE,
			"4":  input.KeyQ,
			"5":  input.KeyR,
			"6":  input.KeyF,
			"7":  input.Key1,
			"8":  input.Key2,
			"9":  input.Key3,
			"10": input.KeyEscape,
			"11": input.KeyEnter,
		},
		X: &AxisProfile{Mode: dispatch.AxisKeys, Positive: input.KeyD, Negative: input.KeyA, Deadzone: 0.5},
		Y: &AxisProfile{Mode: dispatch.AxisKeys, Positive: input.KeyW, Negative: input.KeyS, Deadzone: 0.5},
		Z: &AxisProfile{Mode: dispatch.AxisNone},
	}
}

// Load reads a profile, choosing the decoder by file extension. Unknown
// fields are rejected in every format.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// Parse decodes data in format "json", "yaml" or "toml".
func Parse(data []byte, format string) (*Profile, error) {
	p := &Profile{}
	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil {
			return nil, wrapInvalid(err)
		}
	case "toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, wrapInvalid(err)
		}
		// TOML goes through the JSON decoder so key names and unknown-field
		// handling match the other formats.
		js, err := json.Marshal(tree.ToMap())
		if err != nil {
			return nil, wrapInvalid(err)
		}
		if err := decodeJSON(js, p); err != nil {
			return nil, err
		}
	case "json", "":
		if err := decodeJSON(data, p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidProfile, format)
	}
	return p, nil
}

func decodeJSON(data []byte, p *Profile) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return wrapInvalid(err)
	}
	return nil
}

func wrapInvalid(err error) error {
	if errors.Is(err, ErrInvalidProfile) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
}

// Marshal encodes the profile in format "json", "yaml" or "toml".
func (p *Profile) Marshal(format string) ([]byte, error) {
	switch format {
	case "json", "":
		return json.MarshalIndent(p, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(p)
	case "toml":
		js, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(js, &m); err != nil {
			return nil, err
		}
		return toml.Marshal(m)
	}
	return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidProfile, format)
}

// PollInterval returns the configured interval, or fallback when unset.
func (p *Profile) PollInterval(fallback time.Duration) time.Duration {
	if p.Interval <= 0 {
		return fallback
	}
	return time.Duration(p.Interval)
}

// Bindings resolves the profile into dispatch bindings. Unbound buttons and
// missing axes map to KeyNone and AxisNone.
func (p *Profile) Bindings() (dispatch.Bindings, error) {
	var b dispatch.Bindings

	names := make([]string, 0, len(p.Buttons))
	for name := range p.Buttons {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n, err := strconv.Atoi(strings.TrimSpace(name))
		if err != nil || n < 1 || n > input.ButtonCount {
			return b, fmt.Errorf("%w: button %q: must be 1..%d", ErrInvalidProfile, name, input.ButtonCount)
		}
		b.Buttons[n-1] = p.Buttons[name]
	}

	b.X = p.X.binding()
	b.Y = p.Y.binding()
	b.Z = p.Z.binding()
	return b, nil
}

func (a *AxisProfile) binding() dispatch.AxisBinding {
	if a == nil {
		return dispatch.AxisBinding{Mode: dispatch.AxisNone}
	}
	ab := dispatch.AxisBinding{
		Mode:     a.Mode,
		Positive: a.Positive,
		Negative: a.Negative,
		Deadzone: a.Deadzone,
	}
	if ab.Mode == "" {
		ab.Mode = dispatch.AxisNone
	}
	if a.Curve != nil {
		ab.Curve = *a.Curve
	}
	return ab
}
