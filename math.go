package ember

import (
	"math"
	"math/rand/v2"
)

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerp32 linearly interpolates between a and b by t (float32).
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Remap maps v from the range [inMin, inMax] to [outMin, outMax].
// v outside the input range extrapolates linearly.
func Remap(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (v-inMin)/(inMax-inMin)*(outMax-outMin)
}

// Smoothstep performs Hermite interpolation between 0 and 1 as v moves
// across [edge0, edge1].
func Smoothstep(edge0, edge1, v float64) float64 {
	t := Clamp((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}
