package scene

var White = Color{R: 255, G: 255, B: 255, A: 255}

type AmbientLight struct {
	Color     Color
	Intensity float64
}

type DirectionalLight struct {
	Color      Color
	Intensity  float64
	Position   Vec3
	Target     Vec3
	CastShadow bool
}

// Direction is the unit vector the light travels along.
func (l DirectionalLight) Direction() Vec3 {
	return normalize(l.Target.Sub(l.Position))
}

// Ground is a horizontal shadow catcher. Only shadows are drawn on it.
type Ground struct {
	Size    float64
	Y       float64
	Opacity float64
}

// ShadowQuad projects the corners of one rig layer onto the ground along the
// light direction. It reports false when the light does not point downwards.
func ShadowQuad(rig *LogoRig, layer int, light DirectionalLight, groundY float64) ([4]Vec3, bool) {
	var quad [4]Vec3
	if rig == nil || layer < 0 || layer >= len(rig.Layers) {
		return quad, false
	}

	dir := light.Direction()
	if dir.Y() >= 0 {
		return quad, false
	}

	for i, p := range rig.LayerCorners(layer) {
		t := (groundY - p.Y()) / dir.Y()
		if t < 0 {
			// Corner already below the ground plane.
			t = 0
		}
		q := p.Add(dir.Mul(t))
		q[1] = groundY
		quad[i] = q
	}
	return quad, true
}
