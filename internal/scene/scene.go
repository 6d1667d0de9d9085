// Package scene holds the renderer-independent description of the logo
// scene: camera, lights, shadow ground and the logo rig once it has loaded.
package scene

import (
	"errors"
)

var ErrRigAttached = errors.New("logo rig already attached")

type Options struct {
	Width      int
	Height     int
	Background Color
}

// Scene is the single owned context shared by the frame updater, the input
// handlers and the renderer. Rig stays nil until the logo texture has loaded.
type Scene struct {
	Background Color
	Camera     Camera
	Ambient    AmbientLight
	Sun        DirectionalLight
	Ground     Ground
	Rig        *LogoRig
}

func New(opts Options) *Scene {
	bg := opts.Background
	if bg == (Color{}) {
		bg = Color{R: 0x0b, G: 0x0d, B: 0x12, A: 255}
	}

	return &Scene{
		Background: bg,
		Camera:     NewCamera(opts.Width, opts.Height),
		Ambient:    AmbientLight{Color: White, Intensity: 0.4},
		Sun: DirectionalLight{
			Color:      White,
			Intensity:  0.8,
			Position:   Vec3{5, 10, 5},
			CastShadow: true,
		},
		Ground: Ground{Size: 10, Y: -1.5, Opacity: 0.15},
	}
}

func (s *Scene) Loaded() bool {
	return s.Rig != nil
}

// Attach installs the rig. It succeeds once; the rig is never replaced.
func (s *Scene) Attach(rig *LogoRig) error {
	if rig == nil {
		return errors.New("attach nil logo rig")
	}
	if s.Rig != nil {
		return ErrRigAttached
	}
	s.Rig = rig
	return nil
}

// Resize updates the camera for a new viewport. Logo state is untouched.
func (s *Scene) Resize(width, height int) bool {
	return s.Camera.Resize(width, height)
}
