package scene

import (
	"errors"
	"fmt"
	"slices"
)

const (
	LayerCount   = 7
	LayerSpacing = 0.06
	PlaneWidth   = 3.0
)

var ErrInvalidTexture = errors.New("invalid texture size")

// Material is shared by every layer of the rig.
type Material struct {
	Emissive          Color
	EmissiveIntensity float64
	Roughness         float64
	Metalness         float64
	Transparent       bool
}

func DefaultMaterial() Material {
	return Material{
		Emissive:          Color{R: 0x00, G: 0xea, B: 0xff, A: 255},
		EmissiveIntensity: 0.5,
		Roughness:         0.2,
		Metalness:         0.6,
		Transparent:       true,
	}
}

type Layer struct {
	Index int
	// Depth is the resting offset along the group's local Z axis.
	Depth             float64
	Jitter            float64
	EmissiveIntensity float64
}

// Z returns the layer's current local depth including jitter.
func (l Layer) Z() float64 {
	return l.Depth + l.Jitter
}

// LogoRig is the group of stacked logo planes sharing one transform.
type LogoRig struct {
	Width    float64
	Height   float64
	Material Material
	Layers   []Layer
	Transform
}

// NewLogoRig sizes the planes from the texture aspect ratio. The layer count
// does not depend on the texture.
func NewLogoRig(textureWidth, textureHeight int) (*LogoRig, error) {
	if textureWidth <= 0 || textureHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTexture, textureWidth, textureHeight)
	}

	aspect := float64(textureWidth) / float64(textureHeight)
	material := DefaultMaterial()

	rig := &LogoRig{
		Width:     PlaneWidth,
		Height:    PlaneWidth / aspect,
		Material:  material,
		Layers:    make([]Layer, LayerCount),
		Transform: Transform{Scale: 1},
	}
	for i := range rig.Layers {
		rig.Layers[i] = Layer{
			Index:             i,
			Depth:             -LayerSpacing * float64(i),
			EmissiveIntensity: material.EmissiveIntensity,
		}
	}
	return rig, nil
}

// LayerCenter returns the world position of a layer's centre.
func (r *LogoRig) LayerCenter(i int) Vec3 {
	return r.Apply(Vec3{0, 0, r.Layers[i].Z()})
}

// LayerCorners returns a layer's world-space corners, counter-clockwise from
// bottom-left as seen from +Z.
func (r *LogoRig) LayerCorners(i int) [4]Vec3 {
	hw, hh := r.Width/2, r.Height/2
	z := r.Layers[i].Z()
	local := [4]Vec3{
		{-hw, -hh, z},
		{hw, -hh, z},
		{hw, hh, z},
		{-hw, hh, z},
	}
	var out [4]Vec3
	for k, p := range local {
		out[k] = r.Apply(p)
	}
	return out
}

// DrawOrder returns layer indices sorted back to front as seen from eye.
func DrawOrder(rig *LogoRig, eye Vec3) []int {
	if rig == nil {
		return nil
	}

	order := make([]int, len(rig.Layers))
	dist := make([]float64, len(rig.Layers))
	for i := range rig.Layers {
		order[i] = i
		dist[i] = rig.LayerCenter(i).Sub(eye).Len()
	}

	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case dist[a] > dist[b]:
			return -1
		case dist[a] < dist[b]:
			return 1
		}
		return 0
	})
	return order
}
