package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"modular-3d-computers/internal/animation"
	"modular-3d-computers/internal/config"
	"modular-3d-computers/internal/scene"
	"modular-3d-computers/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Values were checked by config.Validate.
	utils.CurrentLevel, _ = utils.ParseLevel(cfg.LogLevel)
	utils.ShowRaylibInfo = cfg.ShowRaylibInfo
	utils.ShowDebugUI = cfg.DebugUI
	utils.NoColor = cfg.NoColor
	variant, _ := animation.Lookup(cfg.Variant)
	background, _ := scene.ParseHexColor(cfg.Background)

	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "Modular 3D Computers")
	defer rl.CloseWindow()

	utils.Info("Starting with variant %s at %dx%d", variant.Name, cfg.Width, cfg.Height)

	sc := scene.New(scene.Options{
		Width:      rl.GetScreenWidth(),
		Height:     rl.GetScreenHeight(),
		Background: background,
	})

	window := NewWindow(sc, variant, cfg.Asset, cfg.GlobalPointer, cfg.FPS)
	defer window.Close()

	window.Run()
}
