package input_test

import (
	"encoding/json"
	"testing"

	"github.com/attack3/joymap/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    input.Key
		wantErr bool
	}{
		{name: "letter", in: "w", want: input.KeyW},
		{name: "upper case", in: "W", want: input.KeyW},
		{name: "digit", in: "7", want: input.Key7},
		{name: "digit with k prefix", in: "K0", want: input.Key0},
		{name: "function key", in: "F9", want: input.KeyF9},
		{name: "alias esc", in: "esc", want: input.KeyEscape},
		{name: "alias return", in: "Return", want: input.KeyEnter},
		{name: "arrow alias", in: "Left_Arrow", want: input.KeyLeft},
		{name: "empty is unbound", in: "", want: input.KeyNone},
		{name: "none", in: "none", want: input.KeyNone},
		{name: "unknown", in: "space", wantErr: true},
		{name: "f10 is not bindable", in: "f10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := input.ParseKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, input.ErrUnknownKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyNamesRoundTrip(t *testing.T) {
	for _, k := range input.Keys() {
		parsed, err := input.ParseKey(k.String())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, parsed)
	}
	assert.Len(t, input.Keys(), 26+5+4+9+10)
}

func TestKeyTextInJSON(t *testing.T) {
	var got struct {
		Keys []input.Key `json:"keys"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"keys":["ctrl","Up","3"]}`), &got))
	assert.Equal(t, []input.Key{input.KeyCtrl, input.KeyUp, input.Key3}, got.Keys)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":["ctrl","up","3"]}`, string(out))

	_, err = input.Key(200).MarshalText()
	assert.ErrorIs(t, err, input.ErrUnknownKey)
}

func TestStateString(t *testing.T) {
	var s input.State
	s.Buttons[0] = true
	s.Buttons[9] = true
	s.X = 0.5
	s.Y = -1
	assert.Equal(t, []int{1, 10}, s.Pressed())
	assert.Equal(t, "buttons=[1 10] x=+0.500 y=-1.000 z=+0.000", s.String())
	assert.Equal(t, -1.0, s.Axis(input.AxisY))
	assert.Equal(t, "z", input.AxisZ.String())
}
