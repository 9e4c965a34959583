package ember

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default effect color (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// ParseHexColor parses "#rgb", "#rrggbb", "rgb" or "rrggbb" into a Color
// with alpha 1.
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	hexNibble := func(b byte) (int, bool) {
		switch {
		case b >= '0' && b <= '9':
			return int(b - '0'), true
		case b >= 'a' && b <= 'f':
			return int(b-'a') + 10, true
		case b >= 'A' && b <= 'F':
			return int(b-'A') + 10, true
		}
		return 0, false
	}
	switch len(s) {
	case 3:
		var c [3]float64
		for i := 0; i < 3; i++ {
			n, ok := hexNibble(s[i])
			if !ok {
				return Color{}, fmt.Errorf("ember: invalid hex color %q", s)
			}
			c[i] = float64(n*16+n) / 255
		}
		return Color{c[0], c[1], c[2], 1}, nil
	case 6:
		var c [3]float64
		for i := 0; i < 3; i++ {
			hi, ok1 := hexNibble(s[i*2])
			lo, ok2 := hexNibble(s[i*2+1])
			if !ok1 || !ok2 {
				return Color{}, fmt.Errorf("ember: invalid hex color %q", s)
			}
			c[i] = float64(hi*16+lo) / 255
		}
		return Color{c[0], c[1], c[2], 1}, nil
	}
	return Color{}, fmt.Errorf("ember: invalid hex color length %q", s)
}

// toRGBA converts a Color to a color.RGBA-compatible value (premultiplied).
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(Clamp(c.R*c.A, 0, 1) * 255),
		G: uint8(Clamp(c.G*c.A, 0, 1) * 255),
		B: uint8(Clamp(c.B*c.A, 0, 1) * 255),
		A: uint8(Clamp(c.A, 0, 1) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// Vec2 is a 2D vector used for positions, velocities, sizes, and directions
// throughout the API. The coordinate system has its origin at the top-left
// of the surface, with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose min/max range, used for randomized effect
// parameters.
type Range struct {
	Min, Max float64
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendScreen                  // screen (1 - (1-src)*(1-dst); only brightens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}
