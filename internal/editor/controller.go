package editor

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/engine/camera"
	"github.com/Faultbox/mappingtool/internal/engine/input"
	"github.com/Faultbox/mappingtool/internal/engine/window"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Surface is the part of the window the camera controller drives.
type Surface interface {
	window.Cursor
	Size() (width, height int)
}

// Controller applies commands and mouse movement to the camera and keeps
// the cursor in step with the camera mode.
type Controller struct {
	cam      *camera.FreeCamera
	surface  Surface
	cooldown time.Duration

	lastToggle time.Time
	toggled    bool
}

// NewController creates a controller. Toggle requests closer together
// than cooldown are dropped.
func NewController(cam *camera.FreeCamera, surface Surface, cooldown time.Duration) *Controller {
	return &Controller{cam: cam, surface: surface, cooldown: cooldown}
}

// Toggle switches between locked and free-look mode unless the previous
// switch happened less than the cooldown ago. It reports whether the mode
// changed.
func (c *Controller) Toggle(now time.Time) bool {
	if c.toggled && now.Sub(c.lastToggle) < c.cooldown {
		logger.Dbg.Debug("free-look toggle ignored", zap.Duration("since_last", now.Sub(c.lastToggle)))
		return false
	}
	c.toggled = true
	c.lastToggle = now

	if c.cam.Mode() == camera.FreeLook {
		c.cam.SetMode(camera.Locked)
		c.surface.SetVisible(true)
	} else {
		c.cam.SetMode(camera.FreeLook)
		c.surface.Warp(window.Center(c.surface.Size()))
		c.surface.SetVisible(false)
	}
	logger.Dbg.Debug("camera mode", zap.Stringer("mode", c.cam.Mode()))
	return true
}

// Move forwards a movement command to the camera.
func (c *Controller) Move(cmd input.Command, dt float32) {
	switch cmd {
	case input.CommandMoveForward:
		c.cam.Move(camera.Forward, dt)
	case input.CommandMoveBack:
		c.cam.Move(camera.Back, dt)
	case input.CommandStrafeLeft:
		c.cam.Move(camera.Left, dt)
	case input.CommandStrafeRight:
		c.cam.Move(camera.Right, dt)
	}
}

// Look turns the camera by how far the cursor drifted from the window
// centre since the last frame, then recentres the cursor.
func (c *Controller) Look() {
	if c.cam.Mode() != camera.FreeLook {
		return
	}
	cx, cy := window.Center(c.surface.Size())
	x, y := c.surface.Position()
	if x == cx && y == cy {
		return
	}
	c.cam.Look(float32(cx-x), float32(cy-y))
	c.surface.Warp(cx, cy)
}
