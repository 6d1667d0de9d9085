// Package config resolves runtime settings from LOGO_* environment variables
// and command-line flags. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"

	"modular-3d-computers/internal/animation"
	"modular-3d-computers/internal/scene"
	"modular-3d-computers/internal/utils"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Asset          string `env:"LOGO_ASSET" envDefault:"assets/co-designs-logo.png"`
	Variant        string `env:"LOGO_VARIANT" envDefault:"classic"`
	Width          int    `env:"LOGO_WIDTH" envDefault:"1280"`
	Height         int    `env:"LOGO_HEIGHT" envDefault:"720"`
	FPS            int    `env:"LOGO_FPS" envDefault:"60"`
	LogLevel       string `env:"LOGO_LOG_LEVEL" envDefault:"warn"`
	Background     string `env:"LOGO_BACKGROUND" envDefault:"#0b0d12"`
	GlobalPointer  bool   `env:"LOGO_GLOBAL_POINTER"`
	ShowRaylibInfo bool   `env:"LOGO_RAYLIB_INFO"`
	DebugUI        bool   `env:"LOGO_DEBUG_UI"`
	NoColor        bool   `env:"LOGO_NO_COLOR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, then applies args (without the program name).
func Load(name string, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Asset, "asset", cfg.Asset, "Logo image (.png, .jpg, .tex, or scene.pkg:entry)")
	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, fmt.Sprintf("Animation variant %v", animation.Names()))
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Initial window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Initial window height")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target frame rate")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "Background colour as #rrggbb")
	fs.BoolVar(&cfg.GlobalPointer, "global-pointer", cfg.GlobalPointer, "Track the X11 root pointer instead of the window pointer")
	fs.BoolVar(&cfg.ShowRaylibInfo, "raylib-info", cfg.ShowRaylibInfo, "Show raylib info logs")
	fs.BoolVar(&cfg.DebugUI, "debug-ui", cfg.DebugUI, "Start with the debug overlay visible (toggle with F8)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable coloured log output")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Asset == "" {
		errs = append(errs, errors.New("asset path is empty"))
	}
	if _, err := animation.Lookup(c.Variant); err != nil {
		errs = append(errs, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.FPS))
	}
	if _, err := utils.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := scene.ParseHexColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
