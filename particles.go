package ember

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// particle holds per-particle simulation state. Unexported; managed by
// ParticleSystem. Positions are logical pixels, velocities logical px/s.
type particle struct {
	x, y    float64
	vx, vy  float64
	life    float64 // remaining lifetime in seconds
	maxLife float64 // initial lifetime (for fade-out)
	size    float64 // render diameter in logical pixels
}

// ParticleConfig controls emission and physics. The zero value of most
// fields means "use the default"; the two boolean fields are inverted so
// that the zero value selects the default behavior.
type ParticleConfig struct {
	// Count is the number of live particles. Default 1000. The count only
	// changes through SetCount; it never drifts during simulation.
	Count int
	// Color is the particle tint. Default white.
	Color Color
	// Size is the base render diameter in logical pixels; each particle
	// samples its own size uniformly from [0.5*Size, 1.5*Size]. Default 3.
	Size float64
	// Speed is the base emission speed in px/s; each particle samples its
	// magnitude uniformly from [0.5*Speed, 1.5*Speed]. Default 100.
	Speed float64
	// Lifetime is the particle lifetime in seconds. Default 3.
	Lifetime float64
	// Gravity is the constant acceleration in logical px/s² (Y down, so a
	// negative Y drifts particles upward). Default (0, -50) unless
	// DisableGravity is set.
	Gravity Vec2
	// DisableGravity keeps a zero Gravity at zero instead of the default.
	DisableGravity bool
	// EmitterPosition is the emission center in logical pixels. A particle
	// system still at the origin is recentered to the surface center on
	// the first Resize.
	EmitterPosition Vec2
	// EmitterRadius is the emission disc radius in logical pixels. Default 50.
	EmitterRadius float64
	// NoFade disables the life-proportional alpha fade (default fades out).
	NoFade bool
	// BlendMode is the compositing operation. Default BlendNormal;
	// BlendAdd suits glowing ember-style systems.
	BlendMode BlendMode
}

func (c *ParticleConfig) normalize() {
	if c.Count == 0 {
		c.Count = 1000
	}
	if c.Count < 0 {
		c.Count = 0
	}
	if c.Color == (Color{}) {
		c.Color = ColorWhite
	}
	if c.Size == 0 {
		c.Size = 3
	}
	if c.Speed == 0 {
		c.Speed = 100
	}
	if c.Lifetime == 0 {
		c.Lifetime = 3
	}
	if c.Gravity == (Vec2{}) && !c.DisableGravity {
		c.Gravity = Vec2{0, -50}
	}
	if c.EmitterRadius == 0 {
		c.EmitterRadius = 50
	}
}

// ParticleSystem is a fixed-count emitter with gravity integration and
// in-place recycling: a particle whose life reaches zero is replaced by a
// fresh emission in the same slot, never removed or reallocated.
type ParticleSystem struct {
	cfg       ParticleConfig
	particles []particle

	emitter Vec2
	color   Color
	fadeOut bool

	inited    bool
	resized   bool
	destroyed bool

	drawOp ebiten.DrawImageOptions
}

// NewParticleSystem creates a particle system with defaults filled in.
// The configuration is fixed at construction except for the emitter
// position, color, and count mutators.
func NewParticleSystem(cfg ParticleConfig) *ParticleSystem {
	cfg.normalize()
	return &ParticleSystem{
		cfg:     cfg,
		emitter: cfg.EmitterPosition,
		color:   cfg.Color,
		fadeOut: !cfg.NoFade,
	}
}

// Init allocates the particle pool and emits the initial population.
func (ps *ParticleSystem) Init(s *Surface) error {
	ps.particles = make([]particle, ps.cfg.Count)
	for i := range ps.particles {
		ps.emitInto(&ps.particles[i])
	}
	ps.inited = true
	ps.destroyed = false
	return nil
}

// Update advances every particle by dt seconds. Dead particles are
// recycled in the same tick their life crosses zero, so life is never
// negative across consecutive ticks.
func (ps *ParticleSystem) Update(t, dt float64) {
	gx := ps.cfg.Gravity.X * dt
	gy := ps.cfg.Gravity.Y * dt
	for i := range ps.particles {
		p := &ps.particles[i]
		p.life -= dt
		if p.life <= 0 {
			ps.emitInto(p)
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt
	}
}

// Render draws each particle as a scaled radial-falloff dot sprite.
func (ps *ParticleSystem) Render(s *Surface) {
	dst := s.Target()
	if dst == nil || len(ps.particles) == 0 {
		return
	}
	sprite := s.dotSprite()
	op := &ps.drawOp
	op.Blend = ps.cfg.BlendMode.EbitenBlend()

	cr := float32(ps.color.R)
	cg := float32(ps.color.G)
	cb := float32(ps.color.B)
	base := float32(ps.color.A)

	for i := range ps.particles {
		p := &ps.particles[i]

		a := base
		if ps.fadeOut && p.maxLife > 0 {
			a *= float32(p.life / p.maxLife)
		}
		if a <= 0 {
			continue
		}

		// Scale the shared sprite to the particle's device-pixel diameter,
		// centered on the particle position.
		k := p.size * s.scale / dotSpriteSize
		dx, dy := s.toDevice(p.x, p.y)

		op.GeoM.Reset()
		op.GeoM.Translate(-dotSpriteSize/2, -dotSpriteSize/2)
		op.GeoM.Scale(k, k)
		op.GeoM.Translate(dx, dy)

		op.ColorScale.Reset()
		op.ColorScale.Scale(cr*a, cg*a, cb*a, a)

		dst.DrawImage(sprite, op)
	}
}

// Resize recenters an untouched emitter to the surface center on the first
// call. Particle state is otherwise independent of the surface size.
func (ps *ParticleSystem) Resize(width, height float64) {
	first := !ps.resized
	ps.resized = true
	if first && ps.emitter == (Vec2{}) {
		ps.emitter = Vec2{width / 2, height / 2}
		// Nothing has rendered yet; restart the population around the
		// recentered emitter instead of leaving a burst at the origin.
		for i := range ps.particles {
			ps.emitInto(&ps.particles[i])
		}
	}
}

// Destroy releases the pool. Safe to call repeatedly or before Init.
func (ps *ParticleSystem) Destroy() {
	ps.particles = nil
	ps.inited = false
	ps.destroyed = true
}

// SetEmitterPosition moves the emission center (logical pixels).
func (ps *ParticleSystem) SetEmitterPosition(x, y float64) {
	ps.emitter = Vec2{x, y}
}

// SetColor sets the particle tint from a hex string ("#rrggbb" or "#rgb").
func (ps *ParticleSystem) SetColor(hex string) error {
	c, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	ps.color = c
	return nil
}

// SetCount grows or shrinks the particle pool to n. Growing emits fresh
// particles; shrinking truncates the tail. O(|n - Count|).
func (ps *ParticleSystem) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	ps.cfg.Count = n
	if !ps.inited {
		return
	}
	if n <= len(ps.particles) {
		ps.particles = ps.particles[:n]
		return
	}
	for len(ps.particles) < n {
		var p particle
		ps.emitInto(&p)
		ps.particles = append(ps.particles, p)
	}
}

// Count returns the current particle count.
func (ps *ParticleSystem) Count() int {
	if ps.inited {
		return len(ps.particles)
	}
	return ps.cfg.Count
}

// emitInto overwrites p with a fresh emission: a uniformly random angle
// and disc radius around the emitter, velocity along the emission angle.
func (ps *ParticleSystem) emitInto(p *particle) {
	angle := rand.Float64() * 2 * math.Pi
	radius := rand.Float64() * ps.cfg.EmitterRadius
	sin, cos := math.Sincos(angle)

	p.x = ps.emitter.X + cos*radius
	p.y = ps.emitter.Y + sin*radius

	speed := ps.cfg.Speed * (0.5 + rand.Float64())
	p.vx = cos * speed
	p.vy = sin * speed

	p.life = ps.cfg.Lifetime
	p.maxLife = ps.cfg.Lifetime
	p.size = ps.cfg.Size * (0.5 + rand.Float64())
}
