package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"

	"screenapp/internal/app"
	"screenapp/internal/assets"
	"screenapp/internal/config"
	"screenapp/internal/debug"
	"screenapp/internal/env"
	"screenapp/internal/fonts"
	"screenapp/internal/graphics"
	"screenapp/internal/logger"
	"screenapp/internal/render"
	"screenapp/internal/screens"
	"screenapp/internal/ui"
)

const preloadTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var overrides config.Config
	fset := flag.NewFlagSet("screenapp", flag.ContinueOnError)
	configPath := fset.String("config", config.ConfigPath, "path to the YAML config file")
	saveConfig := fset.Bool("save-config", false, "write the effective config back to -config and exit")
	fset.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fset.IntVar(&overrides.TargetFPS, "fps", 0, "target frames per second")
	fset.StringVar(&overrides.AssetsDir, "assets", "", "assets directory")
	fset.StringVar(&overrides.Theme, "theme", "", "CSS file overriding the built-in theme")
	fset.BoolVar(&overrides.Debug, "debug", false, "show the debug panel at start")
	if err := fset.Parse(args); err != nil {
		return err
	}

	fs := afero.NewOsFs()
	if err := env.Load(fs, env.DefaultPath); err != nil {
		return fmt.Errorf("load %s: %w", env.DefaultPath, err)
	}
	cfg, cfgErr := config.Load(fs, *configPath)
	envErr := config.ApplyEnv(&cfg, os.Getenv)
	if err := config.Merge(&cfg, overrides); err != nil {
		return err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return err
	}
	if *saveConfig {
		return config.Save(fs, *configPath, cfg)
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Fs: fs, Path: cfg.LogFile})
	if err != nil {
		return err
	}
	defer log.Close()
	if cfgErr != nil {
		log.Warn("config ignored, using defaults", "err", cfgErr)
	}
	if envErr != nil {
		log.Warn("environment override ignored", "err", envErr)
	}

	sheet := ui.DefaultStylesheet()
	if cfg.Theme != "" {
		if s, err := ui.LoadCSS(fs, cfg.Theme); err != nil {
			log.Warn("theme not loaded", "path", cfg.Theme, "err", err)
		} else {
			sheet = s
		}
	}

	loader, err := assets.NewLoader(fs, cfg.AssetsDir, cfg.TextureCache, cfg.PreloadWorkers, log.With("component", "assets"))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
	if err := loader.Preload(ctx, screens.Images()); err != nil {
		log.Warn("preload failed", "err", err)
	}
	cancel()

	textures := render.NewTextureStore(loader, log.With("component", "render"))
	renderer := render.New(textures)
	builder := ui.NewBuilder(nil, sheet)

	a := app.New(app.Options{
		FrameArena:  cfg.FrameArena,
		ScrollSpeed: cfg.ScrollSpeed,
		Zoom:        cfg.Zoom,
		Log:         log.Logger,
	}, builder, textures)
	a.AddOverlay(debug.New(debug.Options{
		Visible: cfg.Debug,
		Lines:   log.Lines,
		Log:     log.With("component", "debug"),
	}))
	a.Screens().SetNext(screens.NewMain())

	clearColor, ok := ui.ParseHexColor(cfg.ClearColor)
	if !ok {
		log.Warn("invalid clear color", "value", cfg.ClearColor)
	}

	var cmds []ui.Command
	return graphics.Run(graphics.Options{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		TargetFPS:  cfg.TargetFPS,
		ClearColor: clearColor,
	}, graphics.Hooks{
		Setup: func() error {
			setupFont(fs, cfg, renderer, log.Logger)
			builder.SetMeasurer(renderer.Measurer())
			log.Info("window ready", "width", cfg.Width, "height", cfg.Height, "fps", cfg.TargetFPS)
			return nil
		},
		Update: func(now time.Time, in app.Input) {
			cmds = a.Update(now, in)
		},
		Draw: func() {
			renderer.Draw(cmds, a.Zoom())
		},
		Present: a.Settle,
		Close: func() {
			if leaks := a.Shutdown(); leaks > 0 {
				log.Warn("textures leaked at shutdown", "count", leaks)
			}
			st := a.Stats()
			log.Info("shutdown", "ticks", st.Ticks, "updates", st.Updates, "transitions", st.Transitions,
				"images_decoded", loader.Stats().Decoded)
			if n := textures.Len(); n > 0 {
				log.Warn("gpu textures still loaded", "count", n)
			}
			renderer.Close()
		},
	})
}

// setupFont loads the configured font; on failure raylib's default font stays active.
func setupFont(fs afero.Fs, cfg config.Config, r *render.Renderer, log *slog.Logger) {
	if cfg.Font == "" {
		return
	}
	_, path, err := fonts.FindFont(fs, cfg.AssetsDir, cfg.Font)
	if err != nil {
		log.Info("font not found, using default", "font", cfg.Font)
		return
	}
	if err := r.LoadFont(path, 64); err != nil {
		log.Warn("font not loaded", "path", path, "err", err)
		return
	}
	log.Debug("font loaded", "path", path)
}
