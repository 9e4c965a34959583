package ember

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ParamTween animates up to 4 float64 values simultaneously, typically
// effect parameters such as an emitter position or a color component.
// Register it with Engine.Animate to have it ticked each frame, or call
// Update yourself. OnUpdate, when set, runs after each write so values
// that live behind a setter (e.g. ParticleSystem.SetEmitterPosition) can
// be pushed through.
type ParamTween struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64

	// OnUpdate is called after the tweened values are written each tick.
	OnUpdate func()
	Done     bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. Returns true once every tween has finished.
func (g *ParamTween) Update(dt float64) bool {
	if g.Done {
		return true
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.OnUpdate != nil {
		g.OnUpdate()
	}
	return g.Done
}

// TweenFloat animates a single float64 to the target value over the given
// duration in seconds using the easing function.
func TweenFloat(f *float64, to float64, duration float64, fn ease.TweenFunc) *ParamTween {
	g := &ParamTween{count: 1}
	g.tweens[0] = gween.New(float32(*f), float32(to), float32(duration), fn)
	g.fields[0] = f
	return g
}

// TweenVec2 animates both components of a Vec2 to the target values.
func TweenVec2(v *Vec2, to Vec2, duration float64, fn ease.TweenFunc) *ParamTween {
	g := &ParamTween{count: 2}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), float32(duration), fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), float32(duration), fn)
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	return g
}

// TweenColor animates all four components of a Color to the target color.
func TweenColor(c *Color, to Color, duration float64, fn ease.TweenFunc) *ParamTween {
	g := &ParamTween{count: 4}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), float32(duration), fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), float32(duration), fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), float32(duration), fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), float32(duration), fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}
