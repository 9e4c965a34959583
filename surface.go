package ember

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// dotSpriteSize is the pixel resolution of the shared radial-falloff sprite.
// Particles scale it down, so it only needs to be as large as the biggest
// expected render size.
const dotSpriteSize = 64

// Surface is the engine's drawing target: a logical size in layout pixels,
// a device scale factor relating it to backing pixels, and the per-frame
// ebiten image everything renders into. Exactly one Surface exists per
// Engine and it is owned by the Engine for its lifetime.
//
// All effect coordinates are logical pixels with the origin at the top-left
// and Y increasing downward. The logical-to-device mapping is derived from
// the current size on every use; nothing caches it across a resize.
type Surface struct {
	width  float64 // logical pixels
	height float64
	scale  float64 // device pixel ratio

	// target is valid only inside a frame callback. Set by the Engine at
	// the top of Draw, cleared afterwards.
	target *ebiten.Image

	clearColor Color
	antialias  bool

	shaders *shaderCache
	dot     *ebiten.Image
}

func newSurface(width, height, scale float64, clearColor Color, antialias bool) *Surface {
	return &Surface{
		width:      width,
		height:     height,
		scale:      scale,
		clearColor: clearColor,
		antialias:  antialias,
		shaders:    newShaderCache(),
	}
}

// Width returns the logical width in layout pixels.
func (s *Surface) Width() float64 { return s.width }

// Height returns the logical height in layout pixels.
func (s *Surface) Height() float64 { return s.height }

// Size returns the logical dimensions in layout pixels.
func (s *Surface) Size() (w, h float64) { return s.width, s.height }

// Scale returns the device pixel ratio relating logical to backing pixels.
func (s *Surface) Scale() float64 { return s.scale }

// DeviceSize returns the backing pixel dimensions (logical size times scale).
func (s *Surface) DeviceSize() (w, h int) {
	return int(math.Round(s.width * s.scale)), int(math.Round(s.height * s.scale))
}

// Target returns the ebiten image currently being rendered into. It is nil
// outside a frame callback; effects must only call it from Render.
func (s *Surface) Target() *ebiten.Image { return s.target }

// toDevice maps a logical coordinate to backing pixels using the current
// scale. Recomputed on every call so a resize is picked up immediately.
func (s *Surface) toDevice(x, y float64) (float64, float64) {
	return x * s.scale, y * s.scale
}

func (s *Surface) setSize(width, height float64) {
	s.width = width
	s.height = height
}

func (s *Surface) clear() {
	if s.target == nil {
		return
	}
	s.target.Fill(s.clearColor.toRGBA())
}

// dotSprite returns the shared circular sprite with radial alpha falloff,
// building it on first use. White so per-draw ColorScale supplies the tint.
func (s *Surface) dotSprite() *ebiten.Image {
	if s.dot != nil {
		return s.dot
	}
	const n = dotSpriteSize
	pix := make([]byte, n*n*4)
	c := float64(n-1) / 2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx := (float64(x) - c) / c
			dy := (float64(y) - c) / c
			d := math.Sqrt(dx*dx + dy*dy)
			a := 1 - Smoothstep(0.5, 1.0, d)
			v := byte(a * 255)
			i := (y*n + x) * 4
			// Premultiplied white.
			pix[i+0] = v
			pix[i+1] = v
			pix[i+2] = v
			pix[i+3] = v
		}
	}
	s.dot = ebiten.NewImage(n, n)
	s.dot.WritePixels(pix)
	return s.dot
}

func (s *Surface) dispose() {
	if s.dot != nil {
		s.dot.Deallocate()
		s.dot = nil
	}
	if s.shaders != nil {
		s.shaders.dispose()
		s.shaders = nil
	}
}
