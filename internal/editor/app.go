// Package editor runs the mapping tool: it owns the world, the camera and
// the render queue, and drives them once per frame from the window's
// input.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/mappingtool/internal/config"
	"github.com/Faultbox/mappingtool/internal/engine/camera"
	"github.com/Faultbox/mappingtool/internal/engine/debug"
	"github.com/Faultbox/mappingtool/internal/engine/input"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/engine/shader"
	"github.com/Faultbox/mappingtool/internal/engine/window"
	"github.com/Faultbox/mappingtool/internal/logger"
	"github.com/Faultbox/mappingtool/internal/scene"
)

// ErrNoModelSelected is returned by a Picker when the user cancels.
var ErrNoModelSelected = errors.New("no model selected")

// Picker asks the user for a model file.
type Picker func() (string, error)

// Deps are the platform services the editor runs on.
type Deps struct {
	Platform window.Platform
	Device   renderer.Device
	Importer scene.Importer
	Textures scene.TextureLoader
	// Picker is used by the open-model command; nil disables it.
	Picker Picker
	// Now defaults to time.Now.
	Now func() time.Time
}

// App is the editor application context. All of its methods must be
// called from the thread that owns the GL context.
type App struct {
	cfg      *config.Config
	platform window.Platform
	dev      renderer.Device
	picker   Picker

	world   *scene.World
	loader  *scene.Loader
	camera  *camera.FreeCamera
	ctrl    *Controller
	mapper  *input.Mapper
	input   *input.Input
	queue   *renderer.Queue
	program *shader.Program
	shots   *debug.Screenshots

	shaderSrc [2]string
	watcher   *shader.Watcher
	limiter   *rate.Limiter
	clock     *Clock
	stats     FrameStats

	width, height  int
	shouldClose    bool
	wantScreenshot bool
}

// New sets up the editor: shader program, camera, key bindings and the
// models listed in the scene config. Models that fail to load are logged
// and left out of the picture; a program that fails to build is fatal.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	a := &App{
		cfg:       cfg,
		platform:  deps.Platform,
		dev:       deps.Device,
		picker:    deps.Picker,
		world:     scene.NewWorld(),
		mapper:    input.NewDefaultMapper(),
		input:     input.New(),
		queue:     renderer.NewQueue(64),
		shots:     debug.NewScreenshots(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		shaderSrc: [2]string{cfg.Shaders.Vertex, cfg.Shaders.Fragment},
		limiter:   NewLimiter(cfg.Graphics.FPSLimit),
		clock:     NewClock(deps.Now),
	}
	a.shots.Now = deps.Now

	if err := a.mapper.ParseBindings(cfg.Input.Bindings); err != nil {
		return nil, fmt.Errorf("parsing key bindings: %w", err)
	}

	src, err := shader.Load(a.shaderSrc[0], a.shaderSrc[1])
	if err != nil {
		return nil, err
	}
	a.program, err = shader.Build(a.dev, src)
	if err != nil {
		return nil, err
	}
	if cfg.Shaders.HotReload {
		a.watcher, err = shader.NewWatcher(a.shaderSrc[0], a.shaderSrc[1])
		if err != nil {
			logger.Warn("shader hot reload disabled", zap.Error(err))
		}
	}

	a.width, a.height = a.platform.FramebufferSize()
	a.dev.Viewport(a.width, a.height)

	cc := cfg.Camera
	a.camera = camera.New(camera.Settings{
		FOV:        cc.FOV,
		Near:       cc.Near,
		Far:        cc.Far,
		MoveSpeed:  cc.MoveSpeed,
		MouseSpeed: cc.MouseSpeed,
	}, mgl32.Vec3(cc.Position), cc.Horizontal, cc.Vertical, a.width, a.height)
	if cc.LookAt != nil {
		a.camera.AimAt(mgl32.Vec3(*cc.LookAt))
	}
	a.ctrl = NewController(a.camera, a.platform, cfg.Input.ToggleCooldown)

	a.loader = &scene.Loader{
		World:    a.world,
		Device:   a.dev,
		Importer: deps.Importer,
		Textures: deps.Textures,
	}
	for _, m := range cfg.Scene.Models {
		// Failures are logged by the loader; the entity stays empty.
		a.loader.SpawnModel(m.Path, m.Position)
	}

	logger.Info("editor ready",
		zap.Int("entities", a.world.Len()),
		zap.Int("bindings", a.mapper.Len()),
		zap.Int("fps_limit", cfg.Graphics.FPSLimit),
	)
	return a, nil
}

// NewLimiter returns a frame pacing limiter for fps frames per second, or
// nil when fps <= 0 disables pacing.
func NewLimiter(fps int) *rate.Limiter {
	if fps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1)
}

// World returns the editor's world.
func (a *App) World() *scene.World { return a.world }

// Camera returns the editor camera.
func (a *App) Camera() *camera.FreeCamera { return a.camera }

// ShouldClose reports whether an exit was requested.
func (a *App) ShouldClose() bool { return a.shouldClose }

// Frames returns the number of completed frames.
func (a *App) Frames() uint64 { return a.stats.Frames }

// SpawnModel loads a model into a new entity at pos.
func (a *App) SpawnModel(path string, pos [3]float32) (*scene.Entity, error) {
	return a.loader.SpawnModel(path, pos)
}

// Run drives frames until an exit is requested or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	// Startup work such as model loading must not count as frame time.
	a.clock.Reset()
	for !a.shouldClose {
		if err := ctx.Err(); err != nil {
			logger.Info("shutdown requested", zap.Error(err))
			return nil
		}
		if err := a.Frame(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	logger.Info("editor closed", zap.Uint64("frames", a.stats.Frames))
	return nil
}

// Close releases GPU resources and the shader watcher. The platform is
// owned by the caller.
func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("closing shader watcher", zap.Error(err))
		}
	}
	a.world.Release(a.dev)
	a.program.Release(a.dev)
	logger.Flush()
}
