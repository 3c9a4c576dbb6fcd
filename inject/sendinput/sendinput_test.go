package sendinput

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"testing"

	"github.com/attack3/joymap/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSize(t *testing.T) {
	assert.Equal(t, 40, InputSize(8))
	assert.Equal(t, 28, InputSize(4))
}

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		name    string
		ptrSize int
		in      Input
		want    map[int]uint32 // offset -> little-endian u32 (u16 pairs folded)
	}{
		{
			name:    "key 64-bit",
			ptrSize: 8,
			in:      keyInput(0x41, 0x1E, KeyEventKeyUp),
			want:    map[int]uint32{0: inputKeyboard, 8: 0x001E0041, 12: KeyEventKeyUp},
		},
		{
			name:    "key 32-bit",
			ptrSize: 4,
			in:      keyInput(0x41, 0x1E, KeyEventKeyUp),
			want:    map[int]uint32{0: inputKeyboard, 4: 0x001E0041, 8: KeyEventKeyUp},
		},
		{
			name:    "move 64-bit",
			ptrSize: 8,
			in:      moveInput(-3, 7),
			want:    map[int]uint32{0: inputMouse, 8: 0xFFFFFFFD, 12: 7, 16: 0, 20: MouseEventMove},
		},
		{
			name:    "move 32-bit",
			ptrSize: 4,
			in:      moveInput(-3, 7),
			want:    map[int]uint32{0: inputMouse, 4: 0xFFFFFFFD, 8: 7, 12: 0, 16: MouseEventMove},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Encode([]Input{tt.in}, tt.ptrSize)
			require.Len(t, buf, InputSize(tt.ptrSize))
			for off, v := range tt.want {
				assert.Equal(t, v, binary.LittleEndian.Uint32(buf[off:]), "offset %d", off)
			}
			// time and dwExtraInfo stay zero
			for i := InputSize(tt.ptrSize) - tt.ptrSize; i < len(buf); i++ {
				assert.Zero(t, buf[i])
			}
		})
	}
}

func TestEncodeArray(t *testing.T) {
	buf := Encode([]Input{keyInput(1, 0, 0), keyInput(2, 0, 0)}, 8)
	require.Len(t, buf, 80)
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(buf[8:]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(buf[48:]))
}

type captured struct {
	inputs [][]byte
	fail   bool
}

func (c *captured) send(buf []byte, n int) error {
	c.inputs = append(c.inputs, buf)
	if c.fail {
		return errors.New("blocked by UIPI")
	}
	return nil
}

func newTestInjector(mode Mode, c *captured, logs *bytes.Buffer) *Injector {
	return newInjector(mode, 8, c.send, slog.New(slog.NewTextHandler(logs, nil)))
}

func TestInjectorModes(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		key       input.Key
		up        bool
		wantVK    uint16
		wantScan  uint16
		wantFlags uint32
	}{
		{name: "normal letter", mode: ModeNormal, key: input.KeyW, wantVK: 0x57},
		{name: "normal release", mode: ModeNormal, key: input.KeyCtrl, up: true, wantVK: 0x11, wantFlags: KeyEventKeyUp},
		{name: "normal digit", mode: ModeNormal, key: input.Key0, wantVK: 0x30},
		{name: "normal function", mode: ModeNormal, key: input.KeyF3, wantVK: 0x72},
		{name: "directx letter", mode: ModeDirectX, key: input.KeyW, wantScan: 0x11, wantFlags: KeyEventScanCode},
		{name: "directx digit", mode: ModeDirectX, key: input.Key1, wantScan: 0x02, wantFlags: KeyEventScanCode},
		{name: "directx extended", mode: ModeDirectX, key: input.KeyUp, up: true, wantScan: 0x48, wantFlags: KeyEventScanCode | KeyEventExtendedKey | KeyEventKeyUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &captured{}
			inj := newTestInjector(tt.mode, c, &bytes.Buffer{})
			if tt.up {
				inj.KeyUp(tt.key)
			} else {
				inj.KeyDown(tt.key)
			}
			require.Len(t, c.inputs, 1)
			rec := c.inputs[0]
			assert.Equal(t, uint32(inputKeyboard), binary.LittleEndian.Uint32(rec[0:]))
			assert.Equal(t, tt.wantVK, binary.LittleEndian.Uint16(rec[8:]))
			assert.Equal(t, tt.wantScan, binary.LittleEndian.Uint16(rec[10:]))
			assert.Equal(t, tt.wantFlags, binary.LittleEndian.Uint32(rec[12:]))
		})
	}
}

func TestInjectorMovesAndFailures(t *testing.T) {
	c := &captured{}
	var logs bytes.Buffer
	inj := newTestInjector(ModeNormal, c, &logs)

	inj.MoveY(5)
	inj.KeyDown(input.KeyNone)
	require.Len(t, c.inputs, 1)
	assert.Equal(t, uint32(0xFFFFFFFB), binary.LittleEndian.Uint32(c.inputs[0][12:]))
	assert.Contains(t, logs.String(), "Key has no code")

	c.fail = true
	inj.MoveX(1)
	assert.Contains(t, logs.String(), "blocked by UIPI")
}

func TestKeyTablesComplete(t *testing.T) {
	vks := map[uint16]bool{}
	scans := map[uint16]bool{}
	for _, k := range input.Keys() {
		vk, ok := virtualKeys[k]
		require.True(t, ok, "no virtual key for %s", k)
		require.False(t, vks[vk], "duplicate virtual key %#x", vk)
		vks[vk] = true

		sc, ok := scanCodes[k]
		require.True(t, ok, "no scan code for %s", k)
		require.False(t, scans[sc], "duplicate scan code %#x", sc)
		scans[sc] = true
	}
}

func TestModeUnmarshal(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("DirectX")))
	assert.Equal(t, ModeDirectX, m)
	require.NoError(t, m.UnmarshalText(nil))
	assert.Equal(t, ModeNormal, m)
	assert.Error(t, m.UnmarshalText([]byte("turbo")))
}
