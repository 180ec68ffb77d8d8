// Package config loads the application settings from config/app.yaml, the
// environment and the command line, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ConfigPath is the path to the config file, relative to the process working directory.
const ConfigPath = "config/app.yaml"

// Config holds window, rendering, asset and logging settings. Persisted across runs.
type Config struct {
	Title          string  `yaml:"title"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	TargetFPS      int     `yaml:"target_fps"`
	Zoom           float32 `yaml:"zoom"`
	ScrollSpeed    float32 `yaml:"scroll_speed"`
	FrameArena     int     `yaml:"frame_arena_bytes"`
	ClearColor     string  `yaml:"clear_color"`
	AssetsDir      string  `yaml:"assets_dir"`
	Font           string  `yaml:"font"`
	Theme          string  `yaml:"theme,omitempty"`
	TextureCache   int     `yaml:"texture_cache"`
	PreloadWorkers int     `yaml:"preload_workers"`
	LogLevel       string  `yaml:"log_level"`
	LogFile        string  `yaml:"log_file"`
	Debug          bool    `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Title:          "screenapp",
		Width:          1280,
		Height:         720,
		TargetFPS:      60,
		Zoom:           1.0,
		ScrollSpeed:    3.1,
		FrameArena:     1 << 20,
		ClearColor:     "#000032",
		AssetsDir:      "assets",
		Font:           "Roboto",
		TextureCache:   32,
		PreloadWorkers: 4,
		LogLevel:       "info",
		LogFile:        "logs/app.txt",
	}
}

// Load reads settings from path on fsys on top of Default. A missing file is not
// an error. An invalid file returns Default() together with the error.
func Load(fsys afero.Fs, path string) (Config, error) {
	c := Default()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	c.normalize()
	return c, nil
}

// Save writes c to path on fsys as YAML, creating the directory if needed.
func Save(fsys afero.Fs, path string, c Config) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}

func (c *Config) normalize() {
	d := Default()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.TargetFPS < 0 {
		c.TargetFPS = 0
	}
	if c.Zoom <= 0 {
		c.Zoom = d.Zoom
	}
	if c.FrameArena <= 0 {
		c.FrameArena = d.FrameArena
	}
	if c.TextureCache <= 0 {
		c.TextureCache = d.TextureCache
	}
	if c.PreloadWorkers <= 0 {
		c.PreloadWorkers = d.PreloadWorkers
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel  = "APP_LOG_LEVEL"
	EnvTargetFPS = "APP_TARGET_FPS"
	EnvZoom      = "APP_ZOOM"
	EnvDebug     = "APP_DEBUG"
)

// ApplyEnv overrides c from the environment. getenv is usually os.Getenv.
// Unset or empty variables are ignored.
func ApplyEnv(c *Config, getenv func(string) string) error {
	var errs []error
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvTargetFPS)); v != "" {
		if n, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTargetFPS, err))
		} else {
			c.TargetFPS = n
		}
	}
	if v := strings.TrimSpace(getenv(EnvZoom)); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvZoom, err))
		} else {
			c.Zoom = float32(f)
		}
	}
	if v := strings.TrimSpace(getenv(EnvDebug)); v != "" {
		if b, err := strconv.ParseBool(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvDebug, err))
		} else {
			c.Debug = b
		}
	}
	c.normalize()
	return errors.Join(errs...)
}

// Merge copies the non-zero fields of overrides onto c. Booleans can only be
// switched on this way.
func Merge(c *Config, overrides Config) error {
	if err := copier.CopyWithOption(c, &overrides, copier.Option{IgnoreEmpty: true}); err != nil {
		return fmt.Errorf("merge config: %w", err)
	}
	c.normalize()
	return nil
}

// ExpandPaths resolves a leading ~ in the path settings.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.AssetsDir, &c.LogFile, &c.Theme} {
		if *p == "" {
			continue
		}
		v, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = v
	}
	return nil
}
