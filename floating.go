package ember

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// floatingParticle is an ambient particle with no lifetime. It wraps at
// the surface edges instead of expiring.
type floatingParticle struct {
	x, y   float64
	vx, vy float64
	size   float64
}

// ConnectionEdge is one edge of the transient proximity graph: a pair of
// particle indices within the connection distance, weighted by closeness.
// The edge set is rebuilt every frame and never persisted.
type ConnectionEdge struct {
	I, J  int
	Alpha float64 // 1 - distance/connectionDistance
}

// FloatingConfig controls the ambient particle field. Zero values select
// the defaults; HideConnections is inverted so the zero value renders the
// connection graph.
type FloatingConfig struct {
	// Count is the number of particles, fixed at Init. Default 100.
	Count int
	// Color is the particle and line tint. Default white.
	Color Color
	// Size is the particle render diameter in logical pixels. Default 2.
	Size float64
	// Speed bounds the per-axis initial velocity: each axis samples
	// uniformly from [-Speed, Speed] px/s. Default 20.
	Speed float64
	// ConnectionDistance is the proximity threshold in logical pixels.
	// Default 150.
	ConnectionDistance float64
	// HideConnections disables the connection graph rendering.
	HideConnections bool
	// LineWidth is the connection stroke width in logical pixels. Default 1.
	LineWidth float64
	// Turbulence adds Perlin-noise steering to the particle velocities.
	// 0 (the default) disables it and leaves motion purely linear. The
	// value scales the steering rate in radians per second.
	Turbulence float64
}

func (c *FloatingConfig) normalize() {
	if c.Count == 0 {
		c.Count = 100
	}
	if c.Count < 0 {
		c.Count = 0
	}
	if c.Color == (Color{}) {
		c.Color = ColorWhite
	}
	if c.Size == 0 {
		c.Size = 2
	}
	if c.Speed == 0 {
		c.Speed = 20
	}
	if c.ConnectionDistance == 0 {
		c.ConnectionDistance = 150
	}
	if c.LineWidth == 0 {
		c.LineWidth = 1
	}
}

// FloatingParticles is an ambient connected-particle field: particles
// drift with constant velocity on a toroidal surface, and every frame the
// pairwise proximity graph is rebuilt and rendered as alpha-blended line
// segments beneath the particle dots.
//
// The graph rebuild is O(n²) over all unordered pairs by design; at the
// intended scale (n up to ~150) that is cheaper than maintaining any
// spatial index across wrapping positions.
type FloatingParticles struct {
	cfg       FloatingConfig
	particles []floatingParticle
	edges     []ConnectionEdge

	width  float64 // logical size at last Init/Resize; 0 until known
	height float64

	noise     *perlin.Perlin
	destroyed bool

	drawOp ebiten.DrawImageOptions
}

// NewFloatingParticles creates a floating particle field with defaults
// filled in. The configuration is immutable after construction.
func NewFloatingParticles(cfg FloatingConfig) *FloatingParticles {
	cfg.normalize()
	return &FloatingParticles{cfg: cfg}
}

// Init spawns the particle population across the current surface.
func (fp *FloatingParticles) Init(s *Surface) error {
	fp.width, fp.height = s.Size()
	fp.spawn()
	if fp.cfg.Turbulence > 0 && fp.noise == nil {
		fp.noise = perlin.NewPerlin(2, 2, 3, rand.Int64())
	}
	fp.destroyed = false
	return nil
}

func (fp *FloatingParticles) spawn() {
	fp.particles = make([]floatingParticle, fp.cfg.Count)
	for i := range fp.particles {
		p := &fp.particles[i]
		p.x = rand.Float64() * fp.width
		p.y = rand.Float64() * fp.height
		p.vx = (rand.Float64()*2 - 1) * fp.cfg.Speed
		p.vy = (rand.Float64()*2 - 1) * fp.cfg.Speed
		p.size = fp.cfg.Size
	}
}

// Update integrates positions, wraps at the surface edges, and rebuilds
// the proximity graph.
func (fp *FloatingParticles) Update(t, dt float64) {
	for i := range fp.particles {
		p := &fp.particles[i]

		if fp.noise != nil && fp.cfg.Turbulence > 0 {
			// Steer by rotating the velocity; the speed magnitude is
			// preserved so the field never runs down or blows up.
			n := fp.noise.Noise2D(p.x*0.004, p.y*0.004+t*0.05)
			steer := n * fp.cfg.Turbulence * dt
			sin, cos := math.Sincos(steer)
			vx := p.vx*cos - p.vy*sin
			p.vy = p.vx*sin + p.vy*cos
			p.vx = vx
		}

		p.x += p.vx * dt
		p.y += p.vy * dt

		// Toroidal wrap: exit one edge, reappear at the opposite one with
		// the perpendicular coordinate and velocity unchanged.
		if fp.width > 0 {
			if p.x < 0 {
				p.x += fp.width
			} else if p.x > fp.width {
				p.x -= fp.width
			}
		}
		if fp.height > 0 {
			if p.y < 0 {
				p.y += fp.height
			} else if p.y > fp.height {
				p.y -= fp.height
			}
		}
	}
	fp.rebuildEdges()
}

// rebuildEdges recomputes the proximity graph into the reused edge buffer.
func (fp *FloatingParticles) rebuildEdges() {
	fp.edges = fp.edges[:0]
	cd := fp.cfg.ConnectionDistance
	for i := 0; i < len(fp.particles); i++ {
		for j := i + 1; j < len(fp.particles); j++ {
			dx := fp.particles[i].x - fp.particles[j].x
			dy := fp.particles[i].y - fp.particles[j].y
			d := math.Sqrt(dx*dx + dy*dy)
			if d < cd {
				fp.edges = append(fp.edges, ConnectionEdge{I: i, J: j, Alpha: 1 - d/cd})
			}
		}
	}
}

// Render draws connection lines first, then the particle dots on top.
func (fp *FloatingParticles) Render(s *Surface) {
	dst := s.Target()
	if dst == nil || len(fp.particles) == 0 {
		return
	}

	if !fp.cfg.HideConnections {
		lw := float32(fp.cfg.LineWidth * s.scale)
		for _, e := range fp.edges {
			a, b := &fp.particles[e.I], &fp.particles[e.J]
			x0, y0 := s.toDevice(a.x, a.y)
			x1, y1 := s.toDevice(b.x, b.y)
			c := fp.cfg.Color
			c.A *= e.Alpha
			vector.StrokeLine(dst,
				float32(x0), float32(y0), float32(x1), float32(y1),
				lw, c.toRGBA(), s.antialias)
		}
	}

	sprite := s.dotSprite()
	op := &fp.drawOp
	cr := float32(fp.cfg.Color.R)
	cg := float32(fp.cfg.Color.G)
	cb := float32(fp.cfg.Color.B)
	ca := float32(fp.cfg.Color.A)
	for i := range fp.particles {
		p := &fp.particles[i]
		k := p.size * s.scale / dotSpriteSize
		dx, dy := s.toDevice(p.x, p.y)
		op.GeoM.Reset()
		op.GeoM.Translate(-dotSpriteSize/2, -dotSpriteSize/2)
		op.GeoM.Scale(k, k)
		op.GeoM.Translate(dx, dy)
		op.ColorScale.Reset()
		op.ColorScale.Scale(cr*ca, cg*ca, cb*ca, ca)
		dst.DrawImage(sprite, op)
	}
}

// Resize rescales particle positions proportionally so the field keeps its
// relative layout. If no prior size is known, the population respawns.
func (fp *FloatingParticles) Resize(width, height float64) {
	if fp.width > 0 && fp.height > 0 {
		sx := width / fp.width
		sy := height / fp.height
		for i := range fp.particles {
			fp.particles[i].x *= sx
			fp.particles[i].y *= sy
		}
	} else {
		fp.width, fp.height = width, height
		fp.spawn()
	}
	fp.width, fp.height = width, height
}

// Destroy releases simulation state. Safe to call repeatedly or before Init.
func (fp *FloatingParticles) Destroy() {
	fp.particles = nil
	fp.edges = nil
	fp.noise = nil
	fp.destroyed = true
}

// Connections returns the proximity graph computed by the last Update.
// The returned slice is reused across frames and must not be retained.
func (fp *FloatingParticles) Connections() []ConnectionEdge {
	return fp.edges
}
