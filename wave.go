package ember

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// All shaders use //kage:unit pixels as required by Ebitengine. No source
// image is bound; the fragment derives everything from the destination
// position and uniforms, so only uniform values change between frames.

const waveShaderSrc = `//kage:unit pixels
package main

var Time float
var Size vec2
var Frequency float
var Speed float
var Amplitude float
var ColorA vec4
var ColorB vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := dst.xy / Size

	// Two phase-shifted displacements of the sampling coordinate.
	wy := sin(uv.x*Frequency+Time*Speed) * Amplitude
	wx := cos(uv.y*Frequency*0.8-Time*Speed*1.3) * Amplitude
	p := uv + vec2(wx, wy)

	t := clamp((p.x+p.y)*0.5, 0.0, 1.0)
	c := mix(ColorA, ColorB, t)

	// Secondary sinusoidal glow along the opposite diagonal.
	glow := 0.5 + 0.5*sin((p.x-p.y)*Frequency*2.0+Time*Speed*0.7)
	c.rgb += c.rgb * glow * 0.15

	return vec4(c.rgb*c.a, c.a)
}
`

// WaveConfig controls the wave distortion effect. Zero values select the
// defaults.
type WaveConfig struct {
	// Frequency is the wave spatial frequency across the surface. Default 10.
	Frequency float64
	// Speed is the wave phase speed in cycles per second. Default 1.
	Speed float64
	// Amplitude is the displacement amplitude as a fraction of the
	// surface size. Default 0.05.
	Amplitude float64
	// ColorA and ColorB are the gradient endpoints. Defaults are a deep
	// and a light blue.
	ColorA Color
	ColorB Color
}

func (c *WaveConfig) normalize() {
	if c.Frequency == 0 {
		c.Frequency = 10
	}
	if c.Speed == 0 {
		c.Speed = 1
	}
	if c.Amplitude == 0 {
		c.Amplitude = 0.05
	}
	if c.ColorA == (Color{}) {
		c.ColorA = Color{0.05, 0.1, 0.3, 1}
	}
	if c.ColorB == (Color{}) {
		c.ColorB = Color{0.3, 0.6, 0.9, 1}
	}
}

// WaveEffect is a full-surface shader-driven distortion: animation is a
// pure function of elapsed time evaluated inside the shader, so Update
// only records the clock and Render refreshes uniforms.
type WaveEffect struct {
	cfg    WaveConfig
	shader *ebiten.Shader
	time   float64

	uniforms map[string]any
	sizeBuf  [2]float32
	colABuf  [4]float32
	colBBuf  [4]float32
	op       ebiten.DrawRectShaderOptions
}

// NewWaveEffect creates a wave effect with defaults filled in. The
// configuration is immutable after construction.
func NewWaveEffect(cfg WaveConfig) *WaveEffect {
	cfg.normalize()
	return &WaveEffect{cfg: cfg}
}

// Init compiles the wave shader and binds the persistent uniform buffers.
func (w *WaveEffect) Init(s *Surface) error {
	sh, err := s.shaders.compile("wave", waveShaderSrc)
	if err != nil {
		return err
	}
	w.shader = sh

	w.colABuf = colorVec4(w.cfg.ColorA)
	w.colBBuf = colorVec4(w.cfg.ColorB)
	w.uniforms = map[string]any{
		"Time":      float32(0),
		"Size":      w.sizeBuf[:],
		"Frequency": float32(w.cfg.Frequency),
		"Speed":     float32(w.cfg.Speed),
		"Amplitude": float32(w.cfg.Amplitude),
		"ColorA":    w.colABuf[:],
		"ColorB":    w.colBBuf[:],
	}
	return nil
}

// Update records the elapsed time. The simulation itself lives in the
// shader, so there is nothing else to advance.
func (w *WaveEffect) Update(t, dt float64) {
	w.time = t
}

// Render refreshes the per-frame uniforms and draws the full-surface quad.
func (w *WaveEffect) Render(s *Surface) {
	if w.shader == nil {
		return
	}
	dw, dh := s.DeviceSize()
	w.sizeBuf[0] = float32(dw)
	w.sizeBuf[1] = float32(dh)
	w.uniforms["Time"] = float32(w.time)
	drawFullscreen(s, w.shader, w.uniforms, &w.op)
}

// Resize is a no-op: the surface size is read fresh on every Render.
func (w *WaveEffect) Resize(width, height float64) {}

// Destroy drops the shader reference. The compiled program itself belongs
// to the surface's shader cache and is disposed with it.
func (w *WaveEffect) Destroy() {
	w.shader = nil
	w.uniforms = nil
}

// colorVec4 packs a Color into the float32 vec4 layout Kage expects.
func colorVec4(c Color) [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}
