package ember

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Config configures an Engine. Width and Height are required; everything
// else has a usable zero value.
type Config struct {
	// Width and Height are the logical surface dimensions in layout
	// pixels. Both must be positive.
	Width  float64
	Height float64
	// Scale is the device pixel ratio. 0 uses the host monitor's scale
	// factor.
	Scale float64
	// ClearColor fills the surface at the top of every frame.
	ClearColor Color
	// NoAntialias disables antialiased line strokes (default on).
	NoAntialias bool
	// Transparent makes the screen transparent where nothing is drawn,
	// letting the host background show through. Only honored by Run.
	Transparent bool
	// TPS overrides the simulation tick rate when the engine is run via
	// Run. 0 keeps the ebiten default.
	TPS int
}

// Engine owns the rendering surface, the registered effect list, the
// frame clock, and the interaction manager. It implements ebiten.Game:
// hand it to ebiten.RunGame (or use Run) and every frame it clears the
// surface and, for each effect in registration order, calls Update then
// immediately Render before moving to the next effect. That interleaving
// lets an effect's render reflect its own just-computed state; effects
// have no ordering guarantee beyond registration order.
//
// All methods must be called from the game goroutine; the Engine is
// single-threaded by design and never spawns goroutines.
type Engine struct {
	surface     *Surface
	interaction *Interaction
	effects     []Effect
	tweens      []*ParamTween

	running   bool
	startTime time.Time
	lastTime  time.Time
	hasLast   bool
	destroyed bool

	tps         int
	transparent bool

	// now is the frame clock; replaced in tests.
	now func() time.Time
}

// New creates an Engine with its surface and interaction manager. It
// fails fast on an unusable configuration and leaves no partial state
// behind.
func New(cfg Config) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("ember: invalid surface size %gx%g", cfg.Width, cfg.Height)
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = ebiten.Monitor().DeviceScaleFactor()
	}
	if scale <= 0 {
		scale = 1
	}
	return &Engine{
		surface:     newSurface(cfg.Width, cfg.Height, scale, cfg.ClearColor, !cfg.NoAntialias),
		interaction: newInteraction(),
		tps:         cfg.TPS,
		transparent: cfg.Transparent,
		now:         time.Now,
	}, nil
}

// AddEffect initializes the effect against the surface, sizes it to the
// current logical dimensions, and appends it to the effect list. Adding
// the same instance twice is a no-op, as is adding after Destroy. An
// effect whose Init fails is dropped; use AddEffectE to observe the
// error. Returns the engine for chaining.
func (e *Engine) AddEffect(eff Effect) *Engine {
	_ = e.AddEffectE(eff)
	return e
}

// AddEffectE is AddEffect returning the effect's Init error.
func (e *Engine) AddEffectE(eff Effect) error {
	if e.destroyed || eff == nil {
		return nil
	}
	for _, existing := range e.effects {
		if existing == eff {
			return nil
		}
	}
	if err := eff.Init(e.surface); err != nil {
		return err
	}
	eff.Resize(e.surface.Size())
	e.effects = append(e.effects, eff)
	return nil
}

// RemoveEffect destroys the effect and removes it from the list; no-op if
// it is not registered. Returns the engine for chaining.
func (e *Engine) RemoveEffect(eff Effect) *Engine {
	for i, existing := range e.effects {
		if existing == eff {
			existing.Destroy()
			e.effects = append(e.effects[:i], e.effects[i+1:]...)
			return e
		}
	}
	return e
}

// Start records the start timestamp and enables the frame loop.
// Idempotent: starting a running engine does nothing.
func (e *Engine) Start() *Engine {
	if e.running || e.destroyed {
		return e
	}
	e.running = true
	e.startTime = e.now()
	e.hasLast = false
	return e
}

// Stop disables the frame loop synchronously: once Stop returns, no
// further effect callbacks fire. Idempotent.
func (e *Engine) Stop() *Engine {
	e.running = false
	return e
}

// Running reports whether the frame loop is active.
func (e *Engine) Running() bool { return e.running }

// Resize updates the logical surface size and broadcasts the new logical
// (unscaled) dimensions to every registered effect. Identical dimensions
// still broadcast, and effects are required to tolerate that. Returns the
// engine for chaining.
func (e *Engine) Resize(width, height float64) *Engine {
	if e.destroyed || width <= 0 || height <= 0 {
		return e
	}
	e.surface.setSize(width, height)
	for _, eff := range e.effects {
		eff.Resize(width, height)
	}
	return e
}

// Destroy stops the loop, destroys every registered effect, releases the
// interaction manager, and disposes the surface's GPU resources. A second
// call is a no-op.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.Stop()
	for _, eff := range e.effects {
		eff.Destroy()
	}
	e.effects = nil
	e.tweens = nil
	e.interaction.release()
	e.surface.dispose()
	e.destroyed = true
}

// Animate registers a parameter tween to be ticked each frame while the
// engine runs. Finished tweens are removed automatically. Returns the
// engine for chaining.
func (e *Engine) Animate(t *ParamTween) *Engine {
	if e.destroyed || t == nil {
		return e
	}
	e.tweens = append(e.tweens, t)
	return e
}

// Interaction returns the engine's interaction manager.
func (e *Engine) Interaction() *Interaction { return e.interaction }

// Surface returns the engine's rendering surface.
func (e *Engine) Surface() *Surface { return e.surface }

// Update implements ebiten.Game. It only polls input; all effect work
// happens in Draw so each effect renders its own just-updated state.
func (e *Engine) Update() error {
	if e.destroyed {
		return nil
	}
	e.interaction.poll(e.surface, e.now())
	return nil
}

// Draw implements ebiten.Game: the host's per-frame notification. The
// surface target is only valid for the duration of this call.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.destroyed {
		return
	}
	e.surface.target = screen
	e.surface.clear()
	if e.running {
		e.tick(e.now())
	}
	e.surface.target = nil
}

// tick advances the clock, tweens, and effects for one frame.
func (e *Engine) tick(now time.Time) {
	t := now.Sub(e.startTime).Seconds()
	var dt float64
	if e.hasLast {
		dt = now.Sub(e.lastTime).Seconds()
	}
	e.lastTime = now
	e.hasLast = true

	if len(e.tweens) > 0 {
		kept := e.tweens[:0]
		for _, tw := range e.tweens {
			if !tw.Update(dt) {
				kept = append(kept, tw)
			}
		}
		for i := len(kept); i < len(e.tweens); i++ {
			e.tweens[i] = nil
		}
		e.tweens = kept
	}

	for _, eff := range e.effects {
		eff.Update(t, dt)
		eff.Render(e.surface)
	}
}

// Layout implements ebiten.Game. It doubles as the resize observer: when
// the host size differs from the current logical size, the change is
// broadcast through Resize. This replaces a global resize listener with a
// subscription that ends when the engine stops being the running game, so
// sequentially created engines cannot leak handlers.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !e.destroyed && outsideWidth > 0 && outsideHeight > 0 {
		w, h := float64(outsideWidth), float64(outsideHeight)
		if w != e.surface.width || h != e.surface.height {
			e.Resize(w, h)
		}
	}
	dw, dh := e.surface.DeviceSize()
	return dw, dh
}

// RunConfig configures the Run convenience wrapper.
type RunConfig struct {
	Title   string
	ShowFPS bool
}

// Run opens a window sized to the engine's surface, starts the engine,
// and blocks in ebiten.RunGame until the window closes.
func Run(e *Engine, cfg RunConfig) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(int(e.surface.width), int(e.surface.height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if e.tps > 0 {
		ebiten.SetTPS(e.tps)
	}
	e.Start()
	return ebiten.RunGameWithOptions(
		&runGame{engine: e, showFPS: cfg.ShowFPS},
		&ebiten.RunGameOptions{ScreenTransparent: e.transparent},
	)
}

// runGame wraps an Engine to optionally draw an FPS overlay on top.
type runGame struct {
	engine  *Engine
	showFPS bool
}

func (g *runGame) Update() error { return g.engine.Update() }

func (g *runGame) Draw(screen *ebiten.Image) {
	g.engine.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *runGame) Layout(ow, oh int) (int, int) { return g.engine.Layout(ow, oh) }
