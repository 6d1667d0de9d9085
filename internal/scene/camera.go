package scene

// Camera is a perspective projection looking at Target from Position.
type Camera struct {
	Fovy     float64 // degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position Vec3
	Target   Vec3
	Up       Vec3
}

func NewCamera(width, height int) Camera {
	cam := Camera{
		Fovy:     45,
		Aspect:   1,
		Near:     0.1,
		Far:      100,
		Position: Vec3{0, 0, 5},
		Up:       Vec3{0, 1, 0},
	}
	cam.Resize(width, height)
	return cam
}

// Resize sets Aspect to width/height. Non-positive sizes (a minimized
// window) are ignored and reported as false.
func (c *Camera) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float64(width) / float64(height)
	return true
}
