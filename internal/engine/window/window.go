// Package window defines the platform surface the editor draws into.
//
// Backends live in the sdlwindow and glfwwindow subpackages. Both create
// an OpenGL 4.1 core context on the calling thread, which must stay
// locked to its OS thread for the lifetime of the window.
package window

import (
	"github.com/Faultbox/mappingtool/internal/config"
	"github.com/Faultbox/mappingtool/internal/engine/input"
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// Samples is the MSAA sample count; 0 disables multisampling.
	Samples int
}

// FromGraphics derives the window settings from the graphics config.
func FromGraphics(g config.GraphicsConfig) Config {
	return Config{
		Title:      g.Title,
		Width:      g.Width,
		Height:     g.Height,
		Fullscreen: g.Fullscreen,
		VSync:      g.VSync,
		Samples:    g.Samples,
	}
}

// Cursor controls the mouse pointer inside the window.
type Cursor interface {
	// Position returns the pointer position in window coordinates.
	Position() (x, y int)
	// Warp moves the pointer to a window position.
	Warp(x, y int)
	SetVisible(visible bool)
}

// Platform is an open window with a current GL context.
type Platform interface {
	Cursor

	// Poll drains pending window events into in.
	Poll(in *input.Input)
	SwapBuffers()
	// Size returns the window size in screen coordinates.
	Size() (width, height int)
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (width, height int)
	SetTitle(title string)
	Close()
}

// Center returns the middle of a width x height window.
func Center(width, height int) (x, y int) {
	return width / 2, height / 2
}
