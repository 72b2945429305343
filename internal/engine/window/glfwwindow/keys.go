package glfwwindow

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Faultbox/mappingtool/internal/engine/input"
)

var keyTable = map[glfw.Key]input.Key{
	glfw.KeyEscape:       input.KeyEscape,
	glfw.KeyEnter:        input.KeyEnter,
	glfw.KeyKPEnter:      input.KeyEnter,
	glfw.KeyTab:          input.KeyTab,
	glfw.KeyBackspace:    input.KeyBackspace,
	glfw.KeySpace:        input.KeySpace,
	glfw.KeyLeftShift:    input.KeyLeftShift,
	glfw.KeyRightShift:   input.KeyRightShift,
	glfw.KeyLeftControl:  input.KeyLeftCtrl,
	glfw.KeyRightControl: input.KeyRightCtrl,
	glfw.KeyLeftAlt:      input.KeyLeftAlt,
	glfw.KeyRightAlt:     input.KeyRightAlt,
	glfw.KeyUp:           input.KeyUp,
	glfw.KeyDown:         input.KeyDown,
	glfw.KeyLeft:         input.KeyLeft,
	glfw.KeyRight:        input.KeyRight,
}

// translateKey maps a GLFW key to a backend-independent key. GLFW numbers
// letters, digits and function keys contiguously.
func translateKey(key glfw.Key) input.Key {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return input.KeyA + input.Key(key-glfw.KeyA)
	case key >= glfw.Key0 && key <= glfw.Key9:
		return input.Key0 + input.Key(key-glfw.Key0)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return input.KeyF1 + input.Key(key-glfw.KeyF1)
	}
	if k, ok := keyTable[key]; ok {
		return k
	}
	return input.KeyUnknown
}
