package input

import "strings"

// Key identifies a physical key independent of the window backend.
// Backends translate their native key codes into Key values.
type Key int

const (
	KeyUnknown Key = iota

	KeyA
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

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeySpace
	KeyLeftShift
	KeyRightShift
	KeyLeftCtrl
	KeyRightCtrl
	KeyLeftAlt
	KeyRightAlt
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "unknown",

	KeyA: "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e", KeyF: "f",
	KeyG: "g", KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k", KeyL: "l",
	KeyM: "m", KeyN: "n", KeyO: "o", KeyP: "p", KeyQ: "q", KeyR: "r",
	KeyS: "s", KeyT: "t", KeyU: "u", KeyV: "v", KeyW: "w", KeyX: "x",
	KeyY: "y", KeyZ: "z",

	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",

	KeyEscape:     "escape",
	KeyEnter:      "enter",
	KeyTab:        "tab",
	KeyBackspace:  "backspace",
	KeySpace:      "space",
	KeyLeftShift:  "lshift",
	KeyRightShift: "rshift",
	KeyLeftCtrl:   "lctrl",
	KeyRightCtrl:  "rctrl",
	KeyLeftAlt:    "lalt",
	KeyRightAlt:   "ralt",
	KeyUp:         "up",
	KeyDown:       "down",
	KeyLeft:       "left",
	KeyRight:      "right",

	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4",
	KeyF5: "f5", KeyF6: "f6", KeyF7: "f7", KeyF8: "f8",
	KeyF9: "f9", KeyF10: "f10", KeyF11: "f11", KeyF12: "f12",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, keyCount)
	for k, name := range keyNames {
		if name != "" {
			m[name] = Key(k)
		}
	}
	m["esc"] = KeyEscape
	m["return"] = KeyEnter
	return m
}()

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey looks up a key by its case-insensitive name.
func ParseKey(name string) (Key, bool) {
	k, ok := keysByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}
