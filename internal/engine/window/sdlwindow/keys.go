package sdlwindow

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/mappingtool/internal/engine/input"
)

var keyTable = map[sdl.Keycode]input.Key{
	sdl.K_ESCAPE:    input.KeyEscape,
	sdl.K_RETURN:    input.KeyEnter,
	sdl.K_KP_ENTER:  input.KeyEnter,
	sdl.K_TAB:       input.KeyTab,
	sdl.K_BACKSPACE: input.KeyBackspace,
	sdl.K_SPACE:     input.KeySpace,
	sdl.K_LSHIFT:    input.KeyLeftShift,
	sdl.K_RSHIFT:    input.KeyRightShift,
	sdl.K_LCTRL:     input.KeyLeftCtrl,
	sdl.K_RCTRL:     input.KeyRightCtrl,
	sdl.K_LALT:      input.KeyLeftAlt,
	sdl.K_RALT:      input.KeyRightAlt,
	sdl.K_UP:        input.KeyUp,
	sdl.K_DOWN:      input.KeyDown,
	sdl.K_LEFT:      input.KeyLeft,
	sdl.K_RIGHT:     input.KeyRight,
	sdl.K_F1:        input.KeyF1,
	sdl.K_F2:        input.KeyF2,
	sdl.K_F3:        input.KeyF3,
	sdl.K_F4:        input.KeyF4,
	sdl.K_F5:        input.KeyF5,
	sdl.K_F6:        input.KeyF6,
	sdl.K_F7:        input.KeyF7,
	sdl.K_F8:        input.KeyF8,
	sdl.K_F9:        input.KeyF9,
	sdl.K_F10:       input.KeyF10,
	sdl.K_F11:       input.KeyF11,
	sdl.K_F12:       input.KeyF12,
}

// translateKey maps an SDL keycode to a backend-independent key. Letter
// and digit keycodes are their ASCII values.
func translateKey(sym sdl.Keycode) input.Key {
	switch {
	case sym >= sdl.K_a && sym <= sdl.K_z:
		return input.KeyA + input.Key(sym-sdl.K_a)
	case sym >= sdl.K_0 && sym <= sdl.K_9:
		return input.Key0 + input.Key(sym-sdl.K_0)
	}
	if k, ok := keyTable[sym]; ok {
		return k
	}
	return input.KeyUnknown
}
