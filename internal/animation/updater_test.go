package animation

import (
	"errors"
	"math"
	"testing"

	"modular-3d-computers/internal/scene"
)

func newRig(t *testing.T) *scene.LogoRig {
	t.Helper()
	rig, err := scene.NewLogoRig(512, 256)
	if err != nil {
		t.Fatalf("new rig: %v", err)
	}
	return rig
}

func TestFloatOffsetBounded(t *testing.T) {
	tests := []struct {
		variant Variant
		bound   float64
	}{
		{Classic, 0.40},
		{Calm, 0.35},
	}
	for _, tt := range tests {
		if got := tt.variant.Float.Bound(); math.Abs(got-tt.bound) > 1e-12 {
			t.Fatalf("%s: Bound = %v, want %v", tt.variant.Name, got, tt.bound)
		}

		u := NewUpdater(tt.variant)
		rig := newRig(t)
		for i := 0; i < 50000; i++ {
			u.Tick(rig)
			if math.Abs(rig.Position.Y()) > tt.bound+1e-12 {
				t.Fatalf("%s: tick %d offset %v exceeds %v", tt.variant.Name, i, rig.Position.Y(), tt.bound)
			}
		}
	}
}

func TestScaleStaysWithinBreathAmplitude(t *testing.T) {
	for _, v := range []Variant{Classic, Calm} {
		a := v.Breath.Amplitude
		if a < 0.03 || a > 0.035 {
			t.Fatalf("%s: breath amplitude %v outside [0.03, 0.035]", v.Name, a)
		}

		u := NewUpdater(v)
		rig := newRig(t)
		for i := 0; i < 20000; i++ {
			u.Tick(rig)
			if rig.Scale < 1-a-1e-12 || rig.Scale > 1+a+1e-12 {
				t.Fatalf("%s: tick %d scale %v outside [%v, %v]", v.Name, i, rig.Scale, 1-a, 1+a)
			}
		}
	}
}

func TestSmoothIsContraction(t *testing.T) {
	for _, k := range []float64{0.06, 0.07, 0.08} {
		target := 0.25
		current := -0.4
		for i := 0; i < 500; i++ {
			next := Smooth(current, target, k)
			if math.Abs(next-target) > math.Abs(current-target) {
				t.Fatalf("k=%v tick %d: distance grew from %v to %v", k, i, current-target, next-target)
			}
			if next > target {
				t.Fatalf("k=%v tick %d: overshot target (%v > %v)", k, i, next, target)
			}
			current = next
		}
	}
}

func TestTicksToConverge(t *testing.T) {
	tests := []struct {
		distance, eps, k float64
		want             int
	}{
		{0.25, 1e-3, 0.08, 67},
		{0.25, 1e-3, 0.06, 90},
		{0.0005, 1e-3, 0.08, 0},
	}
	for _, tt := range tests {
		got := TicksToConverge(tt.distance, tt.eps, tt.k)
		if got != tt.want {
			t.Fatalf("TicksToConverge(%v, %v, %v) = %d, want %d", tt.distance, tt.eps, tt.k, got, tt.want)
		}

		// Simulate and confirm the count is tight.
		current := 0.0
		target := tt.distance
		for i := 0; i < got; i++ {
			if i == got-1 && math.Abs(target-current) <= tt.eps {
				t.Fatalf("k=%v: already within eps after %d ticks", tt.k, i)
			}
			current = Smooth(current, target, tt.k)
		}
		if math.Abs(target-current) > tt.eps {
			t.Fatalf("k=%v: distance %v after %d ticks, want <= %v", tt.k, target-current, got, tt.eps)
		}
	}
}

func TestPointerCornerScenario(t *testing.T) {
	const w, h = 1600.0, 900.0

	u := NewUpdater(Classic)
	rig := newRig(t)

	u.PointerMoved(0, 0, w, h)
	st := u.State()
	if math.Abs(st.TargetX+0.25) > 1e-12 || math.Abs(st.TargetY+0.175) > 1e-12 {
		t.Fatalf("top-left targets = (%v, %v), want (-0.25, -0.175)", st.TargetX, st.TargetY)
	}

	u.PointerMoved(w, h, w, h)
	st = u.State()
	if math.Abs(st.TargetX-0.25) > 1e-12 || math.Abs(st.TargetY-0.175) > 1e-12 {
		t.Fatalf("bottom-right targets = (%v, %v), want (0.25, 0.175)", st.TargetX, st.TargetY)
	}

	prevX, prevY := st.SmoothedX, st.SmoothedY
	for i := 0; i < 400; i++ {
		u.Tick(rig)
		st = u.State()
		if st.SmoothedX < prevX || st.SmoothedY < prevY {
			t.Fatalf("tick %d: smoothed moved away from target", i)
		}
		if st.SmoothedX > st.TargetX || st.SmoothedY > st.TargetY {
			t.Fatalf("tick %d: smoothed (%v, %v) overshot target", i, st.SmoothedX, st.SmoothedY)
		}
		prevX, prevY = st.SmoothedX, st.SmoothedY
	}
	if math.Abs(st.SmoothedX-st.TargetX) > 1e-6 || math.Abs(st.SmoothedY-st.TargetY) > 1e-6 {
		t.Fatalf("smoothed (%v, %v) did not approach target", st.SmoothedX, st.SmoothedY)
	}
}

func TestPointerMovedIgnoresEmptyViewport(t *testing.T) {
	u := NewUpdater(Calm)
	u.PointerMoved(100, 100, 200, 200)
	before := u.State()
	u.PointerMoved(10, 10, 0, 0)
	if u.State() != before {
		t.Fatalf("zero viewport changed state: %+v -> %+v", before, u.State())
	}
}

func TestTickWithoutRigIsNoop(t *testing.T) {
	u := NewUpdater(Classic)
	u.PointerMoved(10, 10, 100, 100)
	before := u.State()

	for i := 0; i < 1000; i++ {
		if u.Tick(nil) {
			t.Fatal("Tick(nil) reported a write")
		}
	}
	if u.State() != before {
		t.Fatalf("state changed without a rig: %+v -> %+v", before, u.State())
	}
}

func TestTickWritesPose(t *testing.T) {
	u := NewUpdater(Classic)
	rig := newRig(t)

	if !u.Tick(rig) {
		t.Fatal("Tick reported no write")
	}
	tm := TickStep
	if want := math.Sin(tm*1.2)*0.35 + math.Sin(tm*0.3)*0.05; math.Abs(rig.Position.Y()-want) > 1e-12 {
		t.Fatalf("offset = %v, want %v", rig.Position.Y(), want)
	}
	if want := 1 + math.Sin(tm*1.7)*0.035; math.Abs(rig.Scale-want) > 1e-12 {
		t.Fatalf("scale = %v, want %v", rig.Scale, want)
	}
	if math.Abs(rig.Rotation.Y()-Classic.SpinRate) > 1e-12 {
		t.Fatalf("yaw = %v, want one spin step %v", rig.Rotation.Y(), Classic.SpinRate)
	}
	for i, l := range rig.Layers {
		want := 0.3 + math.Sin(tm*2+float64(i))*0.1
		if math.Abs(l.EmissiveIntensity-want) > 1e-12 {
			t.Fatalf("layer %d emissive = %v, want %v", i, l.EmissiveIntensity, want)
		}
	}
	if rig.Layers[0].EmissiveIntensity == rig.Layers[1].EmissiveIntensity {
		t.Fatal("layers should pulse out of phase")
	}
}

func TestSmoothedPointerDrivesRotation(t *testing.T) {
	for _, v := range []Variant{Classic, Calm} {
		u := NewUpdater(v)
		rig := newRig(t)
		u.PointerMoved(1600, 0, 1600, 900)

		for i := 0; i < 25; i++ {
			u.Tick(rig)
		}
		st := u.State()
		if st.SmoothedX <= 0 || st.SmoothedY >= 0 {
			t.Fatalf("%s: smoothed (%v, %v) did not follow the pointer", v.Name, st.SmoothedX, st.SmoothedY)
		}

		tm := st.Elapsed
		yaw := rig.Rotation.Y() - st.Spin - v.Yaw.At(tm)
		if math.Abs(yaw-st.SmoothedX) > 1e-12 {
			t.Fatalf("%s: yaw pointer term = %v, want smoothed x %v", v.Name, yaw, st.SmoothedX)
		}
		tilt := rig.Rotation.X() - v.Tilt.At(tm)
		if math.Abs(tilt-st.SmoothedY) > 1e-12 {
			t.Fatalf("%s: tilt pointer term = %v, want smoothed y %v", v.Name, tilt, st.SmoothedY)
		}
		if want := v.Roll.At(tm); math.Abs(rig.Rotation.Z()-want) > 1e-12 {
			t.Fatalf("%s: roll = %v, want %v", v.Name, rig.Rotation.Z(), want)
		}
	}
}

func TestCalmJittersLayerDepth(t *testing.T) {
	u := NewUpdater(Calm)
	rig := newRig(t)
	for i := 0; i < 37; i++ {
		u.Tick(rig)
	}

	for i, l := range rig.Layers {
		if math.Abs(l.Jitter) > Calm.DepthJitter.Amplitude+1e-12 {
			t.Fatalf("layer %d jitter %v exceeds amplitude", i, l.Jitter)
		}
	}
	if rig.Layers[2].Jitter == rig.Layers[3].Jitter {
		t.Fatal("layer jitter should be phase-offset by index")
	}
	if rig.Rotation.Y() == 0 {
		t.Fatal("calm variant should drift in yaw")
	}
}

func TestLookup(t *testing.T) {
	v, err := Lookup(" Calm ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if v.Name != "calm" {
		t.Fatalf("Lookup name = %q", v.Name)
	}
	if _, err := Lookup("wobbly"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("Lookup(wobbly) err = %v, want ErrUnknownVariant", err)
	}
}
