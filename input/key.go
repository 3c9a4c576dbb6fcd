package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned when a key name does not resolve to a Key.
var ErrUnknownKey = errors.New("unknown key")

// Key is a logical keyboard key. Injector backends translate it to their
// platform code (HID usage, linux KEY_*, Windows VK or DirectInput scan code).
type Key uint8

// KeyNone marks an unbound slot.
const KeyNone Key = 0

const (
	KeyA Key = iota + 1
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyAlt
	KeyShift
	KeyCtrl
	KeyEnter
	KeyEscape

	KeyLeft
	KeyRight
	KeyUp
	KeyDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone: "none",
	KeyA:    "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e", KeyF: "f", KeyG: "g",
	KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k", KeyL: "l", KeyM: "m", KeyN: "n",
	KeyO: "o", KeyP: "p", KeyQ: "q", KeyR: "r", KeyS: "s", KeyT: "t", KeyU: "u",
	KeyV: "v", KeyW: "w", KeyX: "x", KeyY: "y", KeyZ: "z",

	KeyAlt:    "alt",
	KeyShift:  "shift",
	KeyCtrl:   "ctrl",
	KeyEnter:  "enter",
	KeyEscape: "escape",

	KeyLeft:  "left",
	KeyRight: "right",
	KeyUp:    "up",
	KeyDown:  "down",

	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5",
	KeyF6: "f6", KeyF7: "f7", KeyF8: "f8", KeyF9: "f9",

	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
}

var keyAliases = map[string]Key{
	"":           KeyNone,
	"unbound":    KeyNone,
	"esc":        KeyEscape,
	"return":     KeyEnter,
	"control":    KeyCtrl,
	"leftarrow":  KeyLeft,
	"rightarrow": KeyRight,
	"uparrow":    KeyUp,
	"downarrow":  KeyDown,
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+len(keyAliases)+10)
	for k, name := range keyNames {
		m[name] = Key(k)
	}
	for alias, k := range keyAliases {
		m[alias] = k
	}
	for k := Key0; k <= Key9; k++ {
		m["k"+keyNames[k]] = k
	}
	return m
}()

// Keys returns every bindable key in declaration order.
func Keys() []Key {
	out := make([]Key, 0, keyCount-1)
	for k := KeyA; k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKey resolves a key name case-insensitively.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	if k, ok := keysByName[name]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Valid reports whether k is KeyNone or a known key.
func (k Key) Valid() bool { return k < keyCount }

func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("key(%d)", uint8(k))
	}
	return keyNames[k]
}

func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKey, uint8(k))
	}
	return []byte(keyNames[k]), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
