// Package main is the entry point for the mapping tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/assets"
	_ "github.com/Faultbox/mappingtool/internal/assets/obj" // OBJ importer registration
	"github.com/Faultbox/mappingtool/internal/config"
	"github.com/Faultbox/mappingtool/internal/editor"
	"github.com/Faultbox/mappingtool/internal/engine/renderer/opengl"
	"github.com/Faultbox/mappingtool/internal/engine/texture"
	"github.com/Faultbox/mappingtool/internal/engine/window"
	"github.com/Faultbox/mappingtool/internal/engine/window/glfwwindow"
	"github.com/Faultbox/mappingtool/internal/engine/window/sdlwindow"
	"github.com/Faultbox/mappingtool/internal/logger"
)

func init() {
	// The window, the GL context and every GL call stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.SetDebug(cfg.Logging.Debug)

	logger.Info("=== " + cfg.Graphics.Title + " ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("mapping tool failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	platform, err := openWindow(cfg)
	if err != nil {
		return err
	}
	defer platform.Close()

	dev, err := opengl.New(cfg.Graphics.Samples)
	if err != nil {
		return err
	}

	app, err := editor.New(cfg, editor.Deps{
		Platform: platform,
		Device:   dev,
		Importer: assets.Default,
		Textures: texture.NewLoader(dev),
		Picker:   pickModel,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

func openWindow(cfg *config.Config) (window.Platform, error) {
	wcfg := window.FromGraphics(cfg.Graphics)
	switch cfg.Graphics.Backend {
	case "glfw":
		return glfwwindow.New(wcfg)
	default:
		return sdlwindow.New(wcfg)
	}
}
