package main

import (
	"math"

	"modular-3d-computers/internal/animation"
	"modular-3d-computers/internal/asset"
	"modular-3d-computers/internal/debug"
	"modular-3d-computers/internal/render"
	"modular-3d-computers/internal/scene"
	"modular-3d-computers/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Window struct {
	scene        *scene.Scene
	updater      *animation.Updater
	renderer     *render.Renderer
	debugOverlay *debug.Overlay

	pending       <-chan asset.Result
	globalPointer bool
	pointerX      float64
	pointerY      float64
	fps           int32
}

func NewWindow(sc *scene.Scene, variant animation.Variant, assetPath string, globalPointer bool, fps int) *Window {
	path := asset.Resolve(assetPath)
	utils.Info("Loading logo from %s", path)

	return &Window{
		scene:         sc,
		updater:       animation.NewUpdater(variant),
		renderer:      render.NewRenderer(sc),
		debugOverlay:  debug.NewOverlay(path),
		pending:       asset.LoadAsync(path),
		globalPointer: globalPointer,
		pointerX:      math.NaN(),
		pointerY:      math.NaN(),
		fps:           int32(fps),
	}
}

func (window *Window) Run() {
	rl.SetTargetFPS(window.fps)

	for !rl.WindowShouldClose() {
		window.Update()

		rl.BeginDrawing()
		window.Draw()
		rl.EndDrawing()
	}
}

func (window *Window) Update() {
	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		if window.scene.Resize(w, h) {
			utils.Debug("Viewport resized to %dx%d (aspect %.3f)", w, h, window.scene.Camera.Aspect)
		}
	}

	window.updatePointer()
	window.pollAsset()
	window.updater.Tick(window.scene.Rig)

	if rl.IsKeyPressed(rl.KeyF8) {
		utils.ShowDebugUI = !utils.ShowDebugUI
		if utils.ShowDebugUI {
			window.debugOverlay.Reset()
		}
	}
	if utils.ShowDebugUI {
		window.debugOverlay.Update()
	}
}

func (window *Window) pointerPosition() (float64, float64) {
	if window.globalPointer {
		gx, gy, err := utils.GetGlobalMousePosition()
		if err == nil {
			origin := rl.GetWindowPosition()
			w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
			x := math.Max(0, math.Min(w, float64(gx)-float64(origin.X)))
			y := math.Max(0, math.Min(h, float64(gy)-float64(origin.Y)))
			return x, y
		}
		utils.Warn("Global pointer unavailable, using window pointer: %v", err)
		window.globalPointer = false
	}
	pos := rl.GetMousePosition()
	return float64(pos.X), float64(pos.Y)
}

// updatePointer forwards a pointer event only when the position changed.
// The first sample is a baseline, so targets stay centred until the pointer moves.
func (window *Window) updatePointer() {
	x, y := window.pointerPosition()
	if math.IsNaN(window.pointerX) {
		window.pointerX, window.pointerY = x, y
		return
	}
	if x == window.pointerX && y == window.pointerY {
		return
	}
	window.pointerX, window.pointerY = x, y
	window.updater.PointerMoved(x, y, float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
}

// pollAsset attaches the logo once its background load completes. A failed
// load leaves the scene without a logo for the rest of the run.
func (window *Window) pollAsset() {
	if window.pending == nil {
		return
	}

	var res asset.Result
	select {
	case r, ok := <-window.pending:
		if !ok {
			window.pending = nil
			return
		}
		res = r
	default:
		return
	}
	window.pending = nil
	window.debugOverlay.AssetLoaded(res.Duration, res.Err)

	if res.Err != nil {
		utils.Error("Logo failed to load: %v", res.Err)
		return
	}

	b := res.Image.Bounds()
	rig, err := scene.NewLogoRig(b.Dx(), b.Dy())
	if err != nil {
		utils.Error("Logo failed to load: %v", err)
		return
	}
	window.renderer.LoadLogo(res.Image, rig)
	if err := window.scene.Attach(rig); err != nil {
		utils.Error("Attach logo: %v", err)
		return
	}
	utils.Info("Logo ready: %dx%d in %s", b.Dx(), b.Dy(), res.Duration)
}

func (window *Window) Draw() {
	window.renderer.Render()

	if utils.ShowDebugUI {
		window.debugOverlay.Draw(window.scene, window.updater)
	}
}

func (window *Window) Close() {
	window.debugOverlay.Close()
	window.renderer.Close()
	utils.CloseX11()
}
