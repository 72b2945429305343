package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/engine/input"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/engine/shader"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Frame runs one iteration of the main loop. Events polled at the end of
// a frame are handled at the start of the next one.
func (a *App) Frame(ctx context.Context) error {
	a.dev.Clear(a.cfg.Graphics.ClearColor)
	dt := a.clock.Tick()

	a.reloadShaders()
	a.handleEvents(float32(dt.Seconds()))
	a.ctrl.Look()

	a.camera.Update()
	vp := a.camera.ViewProjection()
	a.program.Use(a.dev, &vp)

	if n := a.queue.Len(); n != 0 {
		logger.Error("render queue not empty at frame start", zap.Int("drawables", n))
		a.queue.Reset()
	}
	a.world.RenderPoll(a.queue)
	renderer.Flush(a.dev, a.queue, a.program.Model)

	if a.wantScreenshot {
		a.wantScreenshot = false
		a.screenshot()
	}

	a.platform.SwapBuffers()
	a.input.Begin()
	a.platform.Poll(a.input)

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("frame pacing: %w", err)
		}
	}

	if avg, ok := a.stats.Add(a.clock.Now(), dt); ok {
		logger.Info("frame stats",
			zap.Uint64("frames", a.stats.Frames),
			zap.Duration("avg_frame_time", avg),
		)
		if avg > 0 {
			a.platform.SetTitle(fmt.Sprintf("%s - %.0f FPS", a.cfg.Graphics.Title, 1/avg.Seconds()))
		}
	}
	logger.Flush()
	return nil
}

func (a *App) handleEvents(dt float32) {
	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventQuit:
			a.shouldClose = true
		case input.EventWindowResize:
			a.resize(e.Width, e.Height)
		case input.EventKey:
			a.dispatch(a.mapper.Resolve(e.Key, e.Action), dt)
		}
	}
	for _, k := range a.input.Held() {
		a.dispatch(a.mapper.Resolve(k, input.ActionHold), dt)
	}
}

func (a *App) dispatch(cmd input.Command, dt float32) {
	switch {
	case cmd == input.CommandNone:
	case cmd.IsMovement():
		a.ctrl.Move(cmd, dt)
	case cmd == input.CommandExit:
		a.shouldClose = true
	case cmd == input.CommandToggleFreeLook:
		a.ctrl.Toggle(a.clock.Now())
	case cmd == input.CommandPrintPosition:
		pos := a.camera.Position()
		h, v := a.camera.Angles()
		logger.Dbg.Debug("camera",
			zap.Float32("x", pos[0]),
			zap.Float32("y", pos[1]),
			zap.Float32("z", pos[2]),
			zap.Float32("horizontal", h),
			zap.Float32("vertical", v),
		)
	case cmd == input.CommandOpenModel:
		a.openModel()
	case cmd == input.CommandScreenshot:
		a.wantScreenshot = true
	}
}

func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.dev.Viewport(width, height)
	a.camera.SetViewport(width, height)
	logger.Dbg.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

func (a *App) openModel() {
	if a.picker == nil {
		logger.Warn("open model: no file picker available")
		return
	}
	path, err := a.picker()
	// The dialog swallows key releases.
	a.input.ReleaseAll()
	if errors.Is(err, ErrNoModelSelected) {
		return
	}
	if err != nil {
		logger.Error("open model dialog failed", zap.Error(err))
		return
	}
	e, err := a.loader.SpawnModel(path, [3]float32{})
	if err != nil {
		return
	}
	logger.Info("model opened", zap.String("path", path), zap.Uint32("entity", uint32(e.ID)))
}

func (a *App) screenshot() {
	name, err := a.shots.Capture(a.dev, a.width, a.height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", name))
}

func (a *App) reloadShaders() {
	if a.watcher == nil {
		return
	}
	select {
	case <-a.watcher.Changed():
	default:
		return
	}
	src, err := shader.Load(a.shaderSrc[0], a.shaderSrc[1])
	if err == nil {
		err = a.program.Rebuild(a.dev, src)
	}
	if err != nil {
		logger.Error("shader reload failed, keeping previous program", zap.Error(err))
		return
	}
	logger.Info("shaders reloaded")
}
