// Package camera provides the free-fly editor camera.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the camera's input mode.
type Mode int

const (
	// Locked ignores movement and look input; the cursor is free.
	Locked Mode = iota
	// FreeLook applies movement and mouse look; the cursor is captured.
	FreeLook
)

func (m Mode) String() string {
	if m == FreeLook {
		return "free-look"
	}
	return "locked"
}

// Movement is a camera translation direction.
type Movement int

const (
	Forward Movement = iota
	Back
	Left
	Right
)

// Settings holds projection and sensitivity parameters.
type Settings struct {
	FOV        float32 // vertical field of view, degrees
	Near       float32
	Far        float32
	MoveSpeed  float32 // world units per second
	MouseSpeed float32 // radians per pixel
}

// DefaultSettings returns the editor's stock camera settings.
func DefaultSettings() Settings {
	return Settings{
		FOV:        45,
		Near:       0.1,
		Far:        100,
		MoveSpeed:  3,
		MouseSpeed: 0.005,
	}
}

// maxVertical bounds the vertical angle so the camera never flips over.
const maxVertical = math32.Pi / 2

// FreeCamera is a first-person camera driven by accumulated input.
//
// View and VP are memoized: Update recomputes them only when position,
// angles or projection changed since the last computation.
type FreeCamera struct {
	Settings Settings

	mode       Mode
	position   mgl32.Vec3
	horizontal float32
	vertical   float32

	direction mgl32.Vec3
	right     mgl32.Vec3
	up        mgl32.Vec3

	projection mgl32.Mat4
	view       mgl32.Mat4
	vp         mgl32.Mat4

	// Snapshot of the inputs used for the last computation
	lastPosition   mgl32.Vec3
	lastHorizontal float32
	lastVertical   float32
	projDirty      bool
	computed       bool

	recomputes uint64
}

// New creates a camera at position looking along the given angles.
// The viewport size determines the initial aspect ratio.
func New(s Settings, position mgl32.Vec3, horizontal, vertical float32, width, height int) *FreeCamera {
	c := &FreeCamera{
		Settings:   s,
		mode:       Locked,
		position:   position,
		horizontal: horizontal,
		vertical:   clampVertical(vertical),
	}
	c.SetViewport(width, height)
	c.Update()
	return c
}

// Mode returns the current input mode.
func (c *FreeCamera) Mode() Mode {
	return c.mode
}

// SetMode switches the input mode. Cursor side effects are the caller's job.
func (c *FreeCamera) SetMode(m Mode) {
	c.mode = m
}

// Position returns the camera position in world space.
func (c *FreeCamera) Position() mgl32.Vec3 {
	return c.position
}

// SetPosition moves the camera regardless of mode.
func (c *FreeCamera) SetPosition(p mgl32.Vec3) {
	c.position = p
}

// Angles returns the horizontal and vertical angles in radians.
func (c *FreeCamera) Angles() (horizontal, vertical float32) {
	return c.horizontal, c.vertical
}

// SetAngles sets the look angles regardless of mode. The vertical angle is clamped.
func (c *FreeCamera) SetAngles(horizontal, vertical float32) {
	c.horizontal = horizontal
	c.vertical = clampVertical(vertical)
}

// AimAt points the camera at target. It is a no-op when target equals
// the camera position.
func (c *FreeCamera) AimAt(target mgl32.Vec3) {
	d := target.Sub(c.position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.SetAngles(math32.Atan2(d.X(), d.Z()), math32.Asin(d.Y()))
}

// Move translates the camera. It does nothing unless the camera is in
// FreeLook mode. Negative dt is treated as zero.
func (c *FreeCamera) Move(m Movement, dt float32) {
	if c.mode != FreeLook {
		return
	}
	if dt < 0 {
		dt = 0
	}
	step := dt * c.Settings.MoveSpeed
	dir, right := c.basis()

	switch m {
	case Forward:
		c.position = c.position.Add(dir.Mul(step))
	case Back:
		c.position = c.position.Sub(dir.Mul(step))
	case Right:
		c.position = c.position.Add(right.Mul(step))
	case Left:
		c.position = c.position.Sub(right.Mul(step))
	}
}

// Look rotates the camera by a cursor delta in pixels. It does nothing
// unless the camera is in FreeLook mode.
func (c *FreeCamera) Look(dx, dy float32) {
	if c.mode != FreeLook {
		return
	}
	c.horizontal += c.Settings.MouseSpeed * dx
	c.vertical = clampVertical(c.vertical + c.Settings.MouseSpeed*dy)
}

// SetViewport rebuilds the projection for a new framebuffer size.
func (c *FreeCamera) SetViewport(width, height int) {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Settings.FOV), aspect, c.Settings.Near, c.Settings.Far)
	c.projDirty = true
}

// Update recomputes the derived vectors and matrices if anything they
// depend on changed. It reports whether a recomputation happened.
func (c *FreeCamera) Update() bool {
	if c.computed && !c.projDirty &&
		c.position == c.lastPosition &&
		c.horizontal == c.lastHorizontal &&
		c.vertical == c.lastVertical {
		return false
	}

	c.direction, c.right = c.basis()
	c.up = c.right.Cross(c.direction)
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.direction), c.up)
	c.vp = c.projection.Mul4(c.view)

	c.lastPosition = c.position
	c.lastHorizontal = c.horizontal
	c.lastVertical = c.vertical
	c.projDirty = false
	c.computed = true
	c.recomputes++
	return true
}

// basis returns the view direction and the right vector for the current angles.
func (c *FreeCamera) basis() (dir, right mgl32.Vec3) {
	sinH, cosH := math32.Sincos(c.horizontal)
	sinV, cosV := math32.Sincos(c.vertical)
	dir = mgl32.Vec3{cosV * sinH, sinV, cosV * cosH}

	sinR, cosR := math32.Sincos(c.horizontal - math32.Pi/2)
	right = mgl32.Vec3{sinR, 0, cosR}
	return dir, right
}

// Recomputes returns how many times the matrices have been computed.
func (c *FreeCamera) Recomputes() uint64 {
	return c.recomputes
}

// Direction returns the view direction as of the last Update.
func (c *FreeCamera) Direction() mgl32.Vec3 { return c.direction }

// Right returns the right vector as of the last Update.
func (c *FreeCamera) Right() mgl32.Vec3 { return c.right }

// Up returns the up vector as of the last Update.
func (c *FreeCamera) Up() mgl32.Vec3 { return c.up }

// Projection returns the projection matrix.
func (c *FreeCamera) Projection() mgl32.Mat4 { return c.projection }

// View returns the view matrix as of the last Update.
func (c *FreeCamera) View() mgl32.Mat4 { return c.view }

// ViewProjection returns Projection * View as of the last Update.
func (c *FreeCamera) ViewProjection() mgl32.Mat4 { return c.vp }

func clampVertical(v float32) float32 {
	return math32.Max(-maxVertical, math32.Min(maxVertical, v))
}
