package animation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var ErrUnknownVariant = errors.New("unknown animation variant")

// Wave is one sine term: Amplitude * sin(t*Frequency + Phase).
type Wave struct {
	Amplitude float64
	Frequency float64
	Phase     float64
}

func (w Wave) At(t float64) float64 {
	return w.Amplitude * math.Sin(t*w.Frequency+w.Phase)
}

// Shifted returns w with phase added to its phase.
func (w Wave) Shifted(phase float64) Wave {
	w.Phase += phase
	return w
}

// Waves is a weighted sum of sine terms.
type Waves []Wave

func (ws Waves) At(t float64) float64 {
	var sum float64
	for _, w := range ws {
		sum += w.At(t)
	}
	return sum
}

// Bound is the largest magnitude the sum can reach.
func (ws Waves) Bound() float64 {
	var sum float64
	for _, w := range ws {
		sum += math.Abs(w.Amplitude)
	}
	return sum
}

// Variant is the set of constants for one flavour of the floating logo.
type Variant struct {
	Name string

	Float Waves
	// SpinRate is added to the yaw every tick, in radians.
	SpinRate float64
	Yaw      Waves
	Tilt     Waves
	Roll     Waves

	Breath Wave

	EmissiveBase float64
	// Emissive and DepthJitter are phase-shifted by the layer index so the
	// layers drift out of sync.
	Emissive    Wave
	DepthJitter Wave

	Smoothing     float64
	PointerRangeX float64
	PointerRangeY float64
}

var Classic = Variant{
	Name: "classic",
	Float: Waves{
		{Amplitude: 0.35, Frequency: 1.2},
		{Amplitude: 0.05, Frequency: 0.3},
	},
	SpinRate: 0.015,
	Tilt: Waves{
		{Amplitude: 0.15, Frequency: 0.8},
		{Amplitude: 0.05, Frequency: 0.4},
	},
	Roll:          Waves{{Amplitude: 0.03, Frequency: 0.2}},
	Breath:        Wave{Amplitude: 0.035, Frequency: 1.7},
	EmissiveBase:  0.3,
	Emissive:      Wave{Amplitude: 0.1, Frequency: 2},
	Smoothing:     0.08,
	PointerRangeX: 0.5,
	PointerRangeY: 0.35,
}

var Calm = Variant{
	Name: "calm",
	Float: Waves{
		{Amplitude: 0.30, Frequency: 1.0},
		{Amplitude: 0.05, Frequency: 0.5},
	},
	Yaw:           Waves{{Amplitude: 0.10, Frequency: 0.5}},
	Tilt:          Waves{{Amplitude: 0.05, Frequency: 0.7}},
	Breath:        Wave{Amplitude: 0.03, Frequency: 1.4},
	EmissiveBase:  0.35,
	Emissive:      Wave{Amplitude: 0.08, Frequency: 1.3},
	DepthJitter:   Wave{Amplitude: 0.004, Frequency: 1.5},
	Smoothing:     0.06,
	PointerRangeX: 0.5,
	PointerRangeY: 0.35,
}

var variants = map[string]Variant{
	Classic.Name: Classic,
	Calm.Name:    Calm,
}

func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Lookup(name string) (Variant, error) {
	v, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("%w %q (have %s)", ErrUnknownVariant, name, strings.Join(Names(), ", "))
	}
	return v, nil
}

// FloatOffset is the vertical offset of the rig at time t.
func (v Variant) FloatOffset(t float64) float64 {
	return v.Float.At(t)
}

// ScaleAt is the uniform "breathing" scale at time t.
func (v Variant) ScaleAt(t float64) float64 {
	return 1 + v.Breath.At(t)
}

func (v Variant) EmissiveAt(t float64, layer int) float64 {
	return v.EmissiveBase + v.Emissive.Shifted(float64(layer)).At(t)
}

func (v Variant) JitterAt(t float64, layer int) float64 {
	return v.DepthJitter.Shifted(float64(layer)).At(t)
}
