package ember

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const gradientShaderSrc = `//kage:unit pixels
package main

var Time float
var Size vec2
var Scale float
var Flow float
var Color0 vec4
var Color1 vec4
var Color2 vec4
var Color3 vec4

func hash(p vec2) float {
	return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453)
}

func noise(p vec2) float {
	i := floor(p)
	f := fract(p)
	u := f * f * (3.0 - 2.0*f)
	a := hash(i)
	b := hash(i + vec2(1, 0))
	c := hash(i + vec2(0, 1))
	d := hash(i + vec2(1, 1))
	return mix(mix(a, b, u.x), mix(c, d, u.x), u.y)
}

func fbm(p vec2) float {
	v := 0.0
	amp := 0.5
	q := p
	for i := 0; i < 4; i++ {
		v += amp * noise(q)
		q *= 2.0
		amp *= 0.5
	}
	return v
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := dst.xy / Size * Scale

	// Four time-advected samples of the same fractal field.
	w0 := fbm(uv + vec2(Time*Flow, 0))
	w1 := fbm(uv + vec2(-Time*Flow*0.7, Time*Flow*0.4) + vec2(5.2, 1.3))
	w2 := fbm(uv + vec2(Time*Flow*0.3, -Time*Flow*0.6) + vec2(9.7, 4.1))
	w3 := fbm(uv + vec2(-Time*Flow*0.5, -Time*Flow*0.2) + vec2(2.8, 8.6))

	sum := w0 + w1 + w2 + w3
	if sum <= 0.0 {
		sum = 1.0
	}
	c := (Color0*w0 + Color1*w1 + Color2*w2 + Color3*w3) / sum

	// Small secondary modulation so the blend never looks static.
	c.rgb *= 0.92 + 0.08*sin(Time*0.5+uv.x*3.0)

	return vec4(c.rgb*c.a, c.a)
}
`

// GradientConfig controls the procedural gradient effect.
type GradientConfig struct {
	// Colors are blended by the four noise samples. Up to four are used;
	// fewer than four are padded by repeating the last supplied color.
	// Empty selects a default dusk palette.
	Colors []Color
	// NoiseScale is the spatial frequency of the noise field. Default 3.
	NoiseScale float64
	// FlowSpeed is the advection speed of the noise offsets. Default 0.1.
	FlowSpeed float64
}

func (c *GradientConfig) normalize() {
	if len(c.Colors) == 0 {
		c.Colors = []Color{
			{0.10, 0.05, 0.25, 1},
			{0.45, 0.15, 0.40, 1},
			{0.90, 0.45, 0.30, 1},
			{0.98, 0.80, 0.55, 1},
		}
	}
	// Pad short palettes by repeating the last color rather than erroring.
	for len(c.Colors) < 4 {
		c.Colors = append(c.Colors, c.Colors[len(c.Colors)-1])
	}
	c.Colors = c.Colors[:4]
	if c.NoiseScale == 0 {
		c.NoiseScale = 3
	}
	if c.FlowSpeed == 0 {
		c.FlowSpeed = 0.1
	}
}

// GradientMesh is a full-surface procedural gradient: a 4-octave fractal
// noise field sampled at four time-advected offsets blends four colors,
// with the weights normalized to sum to 1. Like WaveEffect it is
// recompile-free across frames; only uniforms change.
type GradientMesh struct {
	cfg    GradientConfig
	shader *ebiten.Shader
	time   float64

	uniforms map[string]any
	sizeBuf  [2]float32
	colBufs  [4][4]float32
	op       ebiten.DrawRectShaderOptions
}

// NewGradientMesh creates a gradient effect with defaults filled in. The
// configuration is immutable after construction.
func NewGradientMesh(cfg GradientConfig) *GradientMesh {
	cfg.normalize()
	return &GradientMesh{cfg: cfg}
}

// Init compiles the gradient shader and binds the persistent uniform buffers.
func (g *GradientMesh) Init(s *Surface) error {
	sh, err := s.shaders.compile("gradient", gradientShaderSrc)
	if err != nil {
		return err
	}
	g.shader = sh

	for i, c := range g.cfg.Colors {
		g.colBufs[i] = colorVec4(c)
	}
	g.uniforms = map[string]any{
		"Time":   float32(0),
		"Size":   g.sizeBuf[:],
		"Scale":  float32(g.cfg.NoiseScale),
		"Flow":   float32(g.cfg.FlowSpeed),
		"Color0": g.colBufs[0][:],
		"Color1": g.colBufs[1][:],
		"Color2": g.colBufs[2][:],
		"Color3": g.colBufs[3][:],
	}
	return nil
}

// Update records the elapsed time; the animation lives in the shader.
func (g *GradientMesh) Update(t, dt float64) {
	g.time = t
}

// Render refreshes the per-frame uniforms and draws the full-surface quad.
func (g *GradientMesh) Render(s *Surface) {
	if g.shader == nil {
		return
	}
	dw, dh := s.DeviceSize()
	g.sizeBuf[0] = float32(dw)
	g.sizeBuf[1] = float32(dh)
	g.uniforms["Time"] = float32(g.time)
	drawFullscreen(s, g.shader, g.uniforms, &g.op)
}

// Resize is a no-op: the surface size is read fresh on every Render.
func (g *GradientMesh) Resize(width, height float64) {}

// Destroy drops the shader reference; the compiled program belongs to the
// surface's shader cache.
func (g *GradientMesh) Destroy() {
	g.shader = nil
	g.uniforms = nil
}
