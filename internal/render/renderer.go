// Package render draws a scene.Scene with raylib. It must be used from the
// goroutine that opened the window.
package render

import (
	"image"
	"math"

	"modular-3d-computers/internal/scene"
	"modular-3d-computers/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// shadowLift keeps ground shadows above the ground plane; each further
// layer sits a little lower so overlapping shadows fail the depth test
// instead of darkening twice.
const (
	shadowLift = 0.002
	shadowStep = 0.0001
)

type Renderer struct {
	scene  *scene.Scene
	shader *layerShader

	logo       rl.Texture2D
	layerModel rl.Model
	hasLogo    bool
}

func NewRenderer(sc *scene.Scene) *Renderer {
	return &Renderer{
		scene:  sc,
		shader: loadLayerShader(),
	}
}

// LoadLogo uploads the decoded logo and builds the plane shared by every
// layer of rig. Only the first call has an effect.
func (r *Renderer) LoadLogo(img image.Image, rig *scene.LogoRig) {
	if r.hasLogo {
		utils.Warn("Logo already uploaded, ignoring second texture")
		return
	}

	rlImage := rl.NewImageFromImage(img)
	r.logo = rl.LoadTextureFromImage(rlImage)
	rl.UnloadImage(rlImage)
	rl.GenTextureMipmaps(&r.logo)
	rl.SetTextureFilter(r.logo, rl.FilterTrilinear)

	mesh := rl.GenMeshPlane(float32(rig.Width), float32(rig.Height), 1, 1)
	r.layerModel = rl.LoadModelFromMesh(mesh)
	r.layerModel.Materials.Shader = r.shader.shader
	rl.SetMaterialTexture(r.layerModel.Materials, rl.MapDiffuse, r.logo)

	r.hasLogo = true
	utils.Info("Logo uploaded: %dx%d texture, %d layers of %.2fx%.2f", r.logo.Width, r.logo.Height, len(rig.Layers), rig.Width, rig.Height)
}

func toVector3(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func toColor(c scene.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func (r *Renderer) camera() rl.Camera3D {
	cam := r.scene.Camera
	return rl.Camera3D{
		Position:   toVector3(cam.Position),
		Target:     toVector3(cam.Target),
		Up:         toVector3(cam.Up),
		Fovy:       float32(cam.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// layerTransform places layer i of rig: the XZ plane mesh is stood up to face
// +Z, pushed back to the layer depth, then the group transform is applied.
func layerTransform(rig *scene.LogoRig, i int) rl.Matrix {
	s := float32(rig.Scale)
	m := rl.MatrixRotateX(math.Pi / 2)
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(0, 0, float32(rig.Layers[i].Z())))
	m = rl.MatrixMultiply(m, rl.MatrixScale(s, s, s))
	m = rl.MatrixMultiply(m, rl.MatrixRotateZ(float32(rig.Rotation.Z())))
	m = rl.MatrixMultiply(m, rl.MatrixRotateY(float32(rig.Rotation.Y())))
	m = rl.MatrixMultiply(m, rl.MatrixRotateX(float32(rig.Rotation.X())))
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(float32(rig.Position.X()), float32(rig.Position.Y()), float32(rig.Position.Z())))
	return m
}

// Render draws one frame. Without a rig only the background is drawn.
func (r *Renderer) Render() {
	sc := r.scene
	rl.ClearBackground(toColor(sc.Background))

	if sc.Rig == nil || !r.hasLogo {
		return
	}

	rl.BeginMode3D(r.camera())
	rl.DisableBackfaceCulling()

	if sc.Sun.CastShadow {
		r.drawShadows(sc)
	}
	r.drawLayers(sc)

	rl.EnableBackfaceCulling()
	rl.EndMode3D()
}

func (r *Renderer) drawShadows(sc *scene.Scene) {
	alpha := uint8(math.Round(sc.Ground.Opacity * 255))
	shade := rl.NewColor(0, 0, 0, alpha)
	half := sc.Ground.Size / 2

	for i := range sc.Rig.Layers {
		quad, ok := scene.ShadowQuad(sc.Rig, i, sc.Sun, sc.Ground.Y)
		if !ok {
			continue
		}
		y := float32(sc.Ground.Y + shadowLift - shadowStep*float64(i))
		var v [4]rl.Vector3
		for k, p := range quad {
			// Shadows are only received inside the ground plane.
			x := math.Max(-half, math.Min(half, p.X()))
			z := math.Max(-half, math.Min(half, p.Z()))
			v[k] = rl.NewVector3(float32(x), y, float32(z))
		}
		rl.DrawTriangle3D(v[0], v[1], v[2], shade)
		rl.DrawTriangle3D(v[0], v[2], v[3], shade)
	}
	rl.DrawRenderBatchActive()
}

func (r *Renderer) drawLayers(sc *scene.Scene) {
	r.shader.setScene(sc)
	r.shader.setMaterial(sc.Rig.Material)

	for _, i := range scene.DrawOrder(sc.Rig, sc.Camera.Position) {
		r.shader.setEmissiveIntensity(sc.Rig.Layers[i].EmissiveIntensity)
		r.layerModel.Transform = layerTransform(sc.Rig, i)
		rl.DrawModel(r.layerModel, rl.NewVector3(0, 0, 0), 1, rl.White)
	}
}

func (r *Renderer) Close() {
	if r.hasLogo {
		rl.UnloadModel(r.layerModel)
		rl.UnloadTexture(r.logo)
	}
	r.shader.unload()
}
