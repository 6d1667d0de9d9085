package render

import (
	"modular-3d-computers/internal/scene"
	"modular-3d-computers/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const layerVertexShader = `
#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;

uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;

out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;

void main() {
    fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
    fragTexCoord = vertexTexCoord;
    fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 1.0)));
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

// Lambert diffuse plus a Blinn-Phong highlight whose sharpness follows
// roughness. Emissive is added on top and keeps the texture alpha.
const layerFragmentShader = `
#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;

uniform sampler2D texture0;
uniform vec4 colDiffuse;

uniform vec3 ambientColor;
uniform vec3 lightColor;
uniform vec3 lightDir;
uniform vec3 viewPos;
uniform vec3 emissiveColor;
uniform float emissiveIntensity;
uniform float roughness;
uniform float metalness;

out vec4 finalColor;

void main() {
    vec4 texel = texture(texture0, fragTexCoord) * colDiffuse;
    if (texel.a < 0.01) discard;

    vec3 n = normalize(fragNormal);
    if (!gl_FrontFacing) n = -n;
    vec3 l = normalize(-lightDir);
    vec3 v = normalize(viewPos - fragPosition);
    vec3 h = normalize(l + v);

    float diff = max(dot(n, l), 0.0);
    float spec = pow(max(dot(n, h), 0.0), mix(256.0, 4.0, roughness));
    vec3 specColor = mix(vec3(0.04), texel.rgb, metalness);
    vec3 base = texel.rgb * (1.0 - 0.5 * metalness);

    vec3 lit = base * (ambientColor + lightColor * diff) + specColor * lightColor * spec;
    finalColor = vec4(lit + emissiveColor * emissiveIntensity, texel.a);
}
`

// layerShader is the lit, emissive material shared by every logo layer.
type layerShader struct {
	shader rl.Shader

	ambientColor      int32
	lightColor        int32
	lightDir          int32
	viewPos           int32
	emissiveColor     int32
	emissiveIntensity int32
	roughness         int32
	metalness         int32
}

func loadLayerShader() *layerShader {
	sh := rl.LoadShaderFromMemory(layerVertexShader, layerFragmentShader)
	utils.Debug("Layer shader loaded (id %d)", sh.ID)
	sh.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocation(sh, "matModel"))
	sh.UpdateLocation(rl.ShaderLocMatrixNormal, rl.GetShaderLocation(sh, "matNormal"))

	return &layerShader{
		shader:            sh,
		ambientColor:      rl.GetShaderLocation(sh, "ambientColor"),
		lightColor:        rl.GetShaderLocation(sh, "lightColor"),
		lightDir:          rl.GetShaderLocation(sh, "lightDir"),
		viewPos:           rl.GetShaderLocation(sh, "viewPos"),
		emissiveColor:     rl.GetShaderLocation(sh, "emissiveColor"),
		emissiveIntensity: rl.GetShaderLocation(sh, "emissiveIntensity"),
		roughness:         rl.GetShaderLocation(sh, "roughness"),
		metalness:         rl.GetShaderLocation(sh, "metalness"),
	}
}

func scaledRGB(c scene.Color, intensity float64) []float32 {
	f := c.Floats()
	k := float32(intensity)
	return []float32{f[0] * k, f[1] * k, f[2] * k}
}

func vec3f(v scene.Vec3) []float32 {
	return []float32{float32(v.X()), float32(v.Y()), float32(v.Z())}
}

// setScene uploads the per-frame lighting uniforms.
func (s *layerShader) setScene(sc *scene.Scene) {
	rl.SetShaderValue(s.shader, s.ambientColor, scaledRGB(sc.Ambient.Color, sc.Ambient.Intensity), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.lightColor, scaledRGB(sc.Sun.Color, sc.Sun.Intensity), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.lightDir, vec3f(sc.Sun.Direction()), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.viewPos, vec3f(sc.Camera.Position), rl.ShaderUniformVec3)
}

func (s *layerShader) setMaterial(m scene.Material) {
	rl.SetShaderValue(s.shader, s.emissiveColor, scaledRGB(m.Emissive, 1), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.roughness, []float32{float32(m.Roughness)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.metalness, []float32{float32(m.Metalness)}, rl.ShaderUniformFloat)
}

func (s *layerShader) setEmissiveIntensity(v float64) {
	rl.SetShaderValue(s.shader, s.emissiveIntensity, []float32{float32(v)}, rl.ShaderUniformFloat)
}

func (s *layerShader) unload() {
	rl.UnloadShader(s.shader)
}
