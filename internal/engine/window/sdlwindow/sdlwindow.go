// Package sdlwindow implements window.Platform on SDL2.
package sdlwindow

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/engine/input"
	"github.com/Faultbox/mappingtool/internal/engine/window"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Window wraps an SDL2 window and its OpenGL context.
type Window struct {
	config    window.Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext

	// Last pointer position seen in a motion event or set by Warp.
	mouseX, mouseY int
}

var _ window.Platform = (*Window)(nil)

// New creates a window with an OpenGL 4.1 core context. It must be called
// from the thread that will issue every GL call.
func New(cfg window.Config) (*Window, error) {
	w := &Window{config: cfg}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window is created.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if cfg.Samples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.Samples)
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	logger.Info("window created",
		zap.String("backend", "sdl"),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)
	return w, nil
}

// Poll drains the SDL event queue into in.
func (w *Window) Poll(in *input.Input) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				fw, fh := w.FramebufferSize()
				in.Push(input.Event{Type: input.EventWindowResize, Width: fw, Height: fh})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				in.ReleaseAll()
			}

		case *sdl.MouseMotionEvent:
			w.mouseX, w.mouseY = int(e.X), int(e.Y)
			in.Push(input.Event{Type: input.EventMouseMove, MouseX: w.mouseX, MouseY: w.mouseY})

		case *sdl.KeyboardEvent:
			key := translateKey(e.Keysym.Sym)
			if key == input.KeyUnknown {
				continue
			}
			action := input.ActionRelease
			if e.State == sdl.PRESSED {
				action = input.ActionPress
				if e.Repeat != 0 {
					action = input.ActionRepeat
				}
			}
			in.Push(input.Event{Type: input.EventKey, Key: key, Action: action})
		}
	}
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the current window size.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// FramebufferSize returns the drawable size in pixels, which differs from
// Size on high-DPI displays.
func (w *Window) FramebufferSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

func (w *Window) Position() (int, int) {
	return w.mouseX, w.mouseY
}

func (w *Window) Warp(x, y int) {
	w.sdlWindow.WarpMouseInWindow(int32(x), int32(y))
	w.mouseX, w.mouseY = x, y
}

func (w *Window) SetVisible(visible bool) {
	toggle := sdl.DISABLE
	if visible {
		toggle = sdl.ENABLE
	}
	if _, err := sdl.ShowCursor(toggle); err != nil {
		logger.Warn("failed to change cursor visibility", zap.Error(err))
	}
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}
