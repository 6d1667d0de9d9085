package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a float64 point or direction in world units.
type Vec3 = mgl64.Vec3

// normalize returns a unit vector, or the zero vector unchanged.
func normalize(v Vec3) Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

// Transform is a group transform: uniform scale, Euler rotation applied
// Z first, then Y, then X, then translation.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    float64
}

// Rotation3D returns the rotation part of t as one matrix.
func (t Transform) Rotation3D() mgl64.Mat3 {
	return mgl64.Rotate3DX(t.Rotation.X()).
		Mul3(mgl64.Rotate3DY(t.Rotation.Y())).
		Mul3(mgl64.Rotate3DZ(t.Rotation.Z()))
}

func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation3D().Mul3x1(p.Mul(t.Scale)).Add(t.Position)
}

type Color struct {
	R, G, B, A uint8
}

// Floats returns the colour as normalized RGBA components.
func (c Color) Floats() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// ParseHexColor accepts "#rrggbb", "0xrrggbb" or "rrggbb". Alpha is opaque.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "#")
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("parse color %q: want 6 hex digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
