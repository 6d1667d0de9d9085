// Package animation computes the per-frame pose of the floating logo.
package animation

import (
	"math"

	"modular-3d-computers/internal/scene"
)

// TickStep is how far the animation clock advances per display refresh.
const TickStep = 0.01

// State is the scalar animation state owned by one Updater.
type State struct {
	Elapsed   float64
	TargetX   float64
	TargetY   float64
	SmoothedX float64
	SmoothedY float64
	Spin      float64
}

type Updater struct {
	variant Variant
	state   State
}

func NewUpdater(v Variant) *Updater {
	return &Updater{variant: v}
}

func (u *Updater) Variant() Variant { return u.variant }
func (u *Updater) State() State     { return u.state }

// PointerMoved records the latest pointer position in window pixels. The
// target is centred on the viewport and scaled by the variant's range, so
// the corners map to ±range/2.
func (u *Updater) PointerMoved(x, y, width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	u.state.TargetX = (x/width - 0.5) * u.variant.PointerRangeX
	u.state.TargetY = (y/height - 0.5) * u.variant.PointerRangeY
}

// Tick advances the clock and writes the new pose into rig. A nil rig (logo
// not loaded yet) makes the tick a no-op; it reports whether anything was
// written.
func (u *Updater) Tick(rig *scene.LogoRig) bool {
	if rig == nil {
		return false
	}

	v := u.variant
	st := &u.state

	st.Elapsed += TickStep
	st.SmoothedX = Smooth(st.SmoothedX, st.TargetX, v.Smoothing)
	st.SmoothedY = Smooth(st.SmoothedY, st.TargetY, v.Smoothing)
	st.Spin = math.Mod(st.Spin+v.SpinRate, 2*math.Pi)

	t := st.Elapsed
	rig.Position[1] = v.FloatOffset(t)
	rig.Rotation = scene.Vec3{
		v.Tilt.At(t) + st.SmoothedY,
		st.Spin + v.Yaw.At(t) + st.SmoothedX,
		v.Roll.At(t),
	}
	rig.Scale = v.ScaleAt(t)

	for i := range rig.Layers {
		rig.Layers[i].EmissiveIntensity = v.EmissiveAt(t, i)
		rig.Layers[i].Jitter = v.JitterAt(t, i)
	}
	return true
}

// Smooth moves current a fraction k of the way towards target.
func Smooth(current, target, k float64) float64 {
	return current + (target-current)*k
}

// TicksToConverge is the number of Smooth steps with factor k needed to bring
// an initial distance within eps of a fixed target.
func TicksToConverge(distance, eps, k float64) int {
	distance = math.Abs(distance)
	if distance <= eps {
		return 0
	}
	if k <= 0 || eps <= 0 {
		return -1
	}
	if k >= 1 {
		return 1
	}
	return int(math.Ceil(math.Log(eps/distance) / math.Log(1-k)))
}
