// Package glfwwindow implements window.Platform on GLFW 3.3.
package glfwwindow

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/engine/input"
	"github.com/Faultbox/mappingtool/internal/engine/window"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Window wraps a GLFW window and its OpenGL context.
type Window struct {
	config window.Config
	win    *glfw.Window

	// target receives events from callbacks during Poll.
	target *input.Input
}

var _ window.Platform = (*Window)(nil)

// New creates a window with an OpenGL 4.1 core context. It must be called
// from the thread that will issue every GL call.
func New(cfg window.Config) (*Window, error) {
	logger.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwInit failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.Samples)

	var monitor *glfw.Monitor
	width, height := cfg.Width, cfg.Height
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwCreateWindow failed: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{config: cfg, win: win}
	win.SetKeyCallback(w.onKey)
	win.SetCursorPosCallback(w.onCursor)
	win.SetFramebufferSizeCallback(w.onResize)
	win.SetFocusCallback(w.onFocus)

	logger.Info("window created",
		zap.String("backend", "glfw"),
		zap.String("title", cfg.Title),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)
	return w, nil
}

// Poll processes pending GLFW events into in.
func (w *Window) Poll(in *input.Input) {
	w.target = in
	glfw.PollEvents()
	w.target = nil

	if w.win.ShouldClose() {
		in.Push(input.Event{Type: input.EventQuit})
	}
}

func (w *Window) push(e input.Event) {
	if w.target != nil {
		w.target.Push(e)
	}
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k := translateKey(key)
	if k == input.KeyUnknown {
		return
	}
	var a input.Action
	switch action {
	case glfw.Press:
		a = input.ActionPress
	case glfw.Repeat:
		a = input.ActionRepeat
	default:
		a = input.ActionRelease
	}
	w.push(input.Event{Type: input.EventKey, Key: k, Action: a})
}

func (w *Window) onCursor(_ *glfw.Window, x, y float64) {
	w.push(input.Event{Type: input.EventMouseMove, MouseX: int(x), MouseY: int(y)})
}

func (w *Window) onResize(_ *glfw.Window, width, height int) {
	w.push(input.Event{Type: input.EventWindowResize, Width: width, Height: height})
}

func (w *Window) onFocus(_ *glfw.Window, focused bool) {
	if !focused && w.target != nil {
		w.target.ReleaseAll()
	}
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// Size returns the current window size.
func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

func (w *Window) Position() (int, int) {
	x, y := w.win.GetCursorPos()
	return int(x), int(y)
}

func (w *Window) Warp(x, y int) {
	w.win.SetCursorPos(float64(x), float64(y))
}

func (w *Window) SetVisible(visible bool) {
	mode := glfw.CursorHidden
	if visible {
		mode = glfw.CursorNormal
	}
	w.win.SetInputMode(glfw.CursorMode, mode)
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	logger.Info("closing window")
	w.win.Destroy()
	glfw.Terminate()
}
