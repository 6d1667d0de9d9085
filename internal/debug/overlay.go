// Package debug draws the F8 diagnostics panel over the logo.
package debug

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"modular-3d-computers/internal/animation"
	"modular-3d-computers/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var fontPaths = []string{
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

type Overlay struct {
	fontHeight int
	lineHeight int
	panelWidth int
	font       rl.Font

	monitorWidth  int
	monitorHeight int

	lastSample time.Time
	frameCount int
	fps        float64
	memStats   runtime.MemStats

	assetPath string
	loadTime  time.Duration
	loadErr   error
}

func NewOverlay(assetPath string) *Overlay {
	monitor := rl.GetCurrentMonitor()
	o := &Overlay{
		monitorWidth:  rl.GetMonitorWidth(monitor),
		monitorHeight: rl.GetMonitorHeight(monitor),
		lastSample:    time.Now(),
		assetPath:     assetPath,
	}
	o.updateLayout()

	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			o.font = rl.LoadFontEx(path, 64, nil, 0)
			rl.SetTextureFilter(o.font.Texture, rl.FilterBilinear)
			break
		}
	}
	runtime.ReadMemStats(&o.memStats)
	return o
}

func (o *Overlay) updateLayout() {
	scale := math.Max(1.0, float64(o.monitorHeight)/1080.0)
	o.fontHeight = int(16 * scale)
	o.lineHeight = int(22 * scale)
	o.panelWidth = int(360 * scale)
}

// AssetLoaded records the outcome of the logo load for display.
func (o *Overlay) AssetLoaded(d time.Duration, err error) {
	o.loadTime = d
	o.loadErr = err
}

// Reset restarts the frame rate sample. Frames skipped while the panel was
// hidden are not counted.
func (o *Overlay) Reset() {
	o.frameCount = 0
	o.lastSample = time.Now()
}

// Update samples the frame rate and memory once a second.
func (o *Overlay) Update() {
	o.frameCount++
	now := time.Now()
	if elapsed := now.Sub(o.lastSample); elapsed >= time.Second {
		o.fps = float64(o.frameCount) / elapsed.Seconds()
		o.frameCount = 0
		o.lastSample = now
		runtime.ReadMemStats(&o.memStats)
	}
}

func (o *Overlay) Draw(sc *scene.Scene, u *animation.Updater) {
	h := rl.GetScreenHeight()
	rl.DrawRectangle(0, 0, int32(o.panelWidth), int32(h), rl.NewColor(0, 0, 0, 170))

	ui := NewUIContext(10, 10, o.lineHeight, o.fontHeight, o.font)
	ui.Label("Debug (F8 to hide)")
	ui.Separator()

	ui.Header("Timing:")
	ui.IndentLabel(fmt.Sprintf("FPS: %.1f (raylib %d)", o.fps, rl.GetFPS()), 10)
	ui.IndentLabel(fmt.Sprintf("Frame Time: %.2f ms", rl.GetFrameTime()*1000), 10)
	ui.Separator()

	st := u.State()
	ui.Header("Animation:")
	ui.IndentLabel(fmt.Sprintf("Variant: %s", u.Variant().Name), 10)
	ui.IndentLabel(fmt.Sprintf("Elapsed: %.2f", st.Elapsed), 10)
	ui.IndentLabel(fmt.Sprintf("Target: %+.3f, %+.3f", st.TargetX, st.TargetY), 10)
	ui.IndentLabel(fmt.Sprintf("Smoothed: %+.3f, %+.3f", st.SmoothedX, st.SmoothedY), 10)
	ui.IndentLabel(fmt.Sprintf("Spin: %.3f rad", st.Spin), 10)
	ui.Separator()

	ui.Header("Scene:")
	ui.IndentLabel(fmt.Sprintf("Asset: %s", o.assetPath), 10)
	switch {
	case o.loadErr != nil:
		ui.IndentLabel("Logo: failed", 10)
	case sc.Loaded():
		ui.IndentLabel(fmt.Sprintf("Logo: %d layers, loaded in %s", len(sc.Rig.Layers), o.loadTime.Round(time.Millisecond)), 10)
	default:
		ui.IndentLabel("Logo: loading", 10)
	}
	ui.IndentLabel(fmt.Sprintf("Aspect: %.3f", sc.Camera.Aspect), 10)
	ui.IndentLabel(fmt.Sprintf("Window: %dx%d", rl.GetScreenWidth(), h), 10)
	ui.IndentLabel(fmt.Sprintf("Monitor: %dx%d", o.monitorWidth, o.monitorHeight), 10)
	ui.Separator()

	ui.Header("Memory Usage:")
	ui.IndentLabel(fmt.Sprintf("Heap Alloc: %.2f MB", float64(o.memStats.HeapAlloc)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("Process Total: %.2f MB", float64(o.memStats.Sys)/1024/1024), 10)
	ui.IndentLabel(fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()), 10)
}

func (o *Overlay) Close() {
	if o.font.BaseSize > 0 {
		rl.UnloadFont(o.font)
	}
}
