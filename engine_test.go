package ember

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// stubEffect records lifecycle calls for engine tests.
type stubEffect struct {
	name    string
	log     *[]string
	initErr error

	inits, destroys, updates, renders, resizes int

	lastT, lastDT float64
	lastResize    Vec2
}

func (s *stubEffect) Init(*Surface) error { s.inits++; return s.initErr }

func (s *stubEffect) Update(t, dt float64) {
	s.updates++
	s.lastT, s.lastDT = t, dt
	if s.log != nil {
		*s.log = append(*s.log, s.name+".update")
	}
}

func (s *stubEffect) Render(*Surface) {
	s.renders++
	if s.log != nil {
		*s.log = append(*s.log, s.name+".render")
	}
}

func (s *stubEffect) Resize(w, h float64) {
	s.resizes++
	s.lastResize = Vec2{w, h}
}

func (s *stubEffect) Destroy() { s.destroys++ }

// fakeClock drives the engine's frame clock deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	e, err := New(Config{Width: 800, Height: 600, Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	e.now = clock.now
	return e, clock
}

func TestNewInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := New(Config{Width: -10, Height: 100, Scale: 1}); err == nil {
		t.Error("expected error for negative width")
	}
	if _, err := New(Config{Width: 100, Height: 0, Scale: 1}); err == nil {
		t.Error("expected error for zero height")
	}
}

func TestAddEffectInitializesAndSizes(t *testing.T) {
	e, _ := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff)

	if eff.inits != 1 {
		t.Errorf("inits = %d, want 1", eff.inits)
	}
	if eff.resizes != 1 || eff.lastResize != (Vec2{800, 600}) {
		t.Errorf("effect not sized to surface: %v", eff.lastResize)
	}
	if len(e.effects) != 1 {
		t.Errorf("effect list = %d, want 1", len(e.effects))
	}
}

func TestAddEffectDuplicateIsNoop(t *testing.T) {
	e, _ := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff).AddEffect(eff)

	if eff.inits != 1 {
		t.Errorf("inits = %d, want 1 for duplicate add", eff.inits)
	}
	if len(e.effects) != 1 {
		t.Errorf("effect list = %d, want 1", len(e.effects))
	}
}

func TestAddEffectInitError(t *testing.T) {
	e, _ := testEngine(t)
	boom := errors.New("boom")
	eff := &stubEffect{initErr: boom}

	if err := e.AddEffectE(eff); !errors.Is(err, boom) {
		t.Errorf("AddEffectE error = %v, want boom", err)
	}
	if len(e.effects) != 0 {
		t.Error("failed effect must not be registered")
	}

	// The chaining variant swallows the error but still drops the effect.
	e.AddEffect(eff)
	if len(e.effects) != 0 {
		t.Error("failed effect must not be registered via AddEffect either")
	}
}

func TestRemoveEffect(t *testing.T) {
	e, clock := testEngine(t)
	a := &stubEffect{name: "a"}
	b := &stubEffect{name: "b"}
	e.AddEffect(a).AddEffect(b)

	e.RemoveEffect(a)
	if a.destroys != 1 {
		t.Errorf("destroys = %d, want 1", a.destroys)
	}
	if len(e.effects) != 1 || e.effects[0] != b {
		t.Error("remaining list should hold only b")
	}

	// Removing again (or an unregistered effect) is a no-op.
	e.RemoveEffect(a)
	if a.destroys != 1 {
		t.Errorf("destroys = %d after second remove, want 1", a.destroys)
	}

	e.Start()
	e.tick(clock.t)
	if a.updates != 0 {
		t.Error("removed effect must not receive callbacks")
	}
	if b.updates != 1 {
		t.Error("remaining effect should receive callbacks")
	}
}

func TestStartIdempotent(t *testing.T) {
	e, clock := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff)

	e.Start()
	clock.advance(5 * time.Second)
	e.Start() // must not reset the start timestamp

	e.tick(clock.t)
	assertNear(t, "elapsed", eff.lastT, 5)
}

func TestStopStartStopStop(t *testing.T) {
	e, _ := testEngine(t)
	e.Stop()
	e.Start()
	e.Stop()
	e.Stop()
	if e.Running() {
		t.Error("engine should be stopped")
	}
	e.Start()
	if !e.Running() {
		t.Error("engine should be running")
	}
}

func TestDrawRespectsStop(t *testing.T) {
	e, clock := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff)
	screen := ebiten.NewImage(800, 600)

	e.Draw(screen)
	if eff.updates != 0 {
		t.Error("no callbacks before Start")
	}

	e.Start()
	clock.advance(16 * time.Millisecond)
	e.Draw(screen)
	if eff.updates != 1 || eff.renders != 1 {
		t.Errorf("updates = %d, renders = %d, want 1/1", eff.updates, eff.renders)
	}

	// Stop is synchronous: no callbacks on subsequent frames.
	e.Stop()
	clock.advance(16 * time.Millisecond)
	e.Draw(screen)
	if eff.updates != 1 {
		t.Error("callbacks fired after Stop")
	}
}

func TestTickInterleavesUpdateAndRender(t *testing.T) {
	e, clock := testEngine(t)
	var log []string
	a := &stubEffect{name: "a", log: &log}
	b := &stubEffect{name: "b", log: &log}
	e.AddEffect(a).AddEffect(b)

	e.Start()
	e.tick(clock.t)

	want := []string{"a.update", "a.render", "b.update", "b.render"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestFirstFrameHasZeroDelta(t *testing.T) {
	e, clock := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff)
	e.Start()

	e.tick(clock.t)
	assertNear(t, "first dt", eff.lastDT, 0)

	clock.advance(16 * time.Millisecond)
	e.tick(clock.t)
	assertNear(t, "second dt", eff.lastDT, 0.016)
}

func TestResizeBroadcastsLogicalSize(t *testing.T) {
	e, _ := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff)

	e.Resize(1024, 768)
	if eff.lastResize != (Vec2{1024, 768}) {
		t.Errorf("lastResize = %v, want 1024x768", eff.lastResize)
	}
	w, h := e.Surface().Size()
	assertNear(t, "surface width", w, 1024)
	assertNear(t, "surface height", h, 768)

	// Invalid dimensions are ignored.
	e.Resize(0, 100)
	w, _ = e.Surface().Size()
	assertNear(t, "width unchanged", w, 1024)
}

func TestDestroy(t *testing.T) {
	e, clock := testEngine(t)
	eff := &stubEffect{}
	e.AddEffect(eff)
	e.Start()

	e.Destroy()
	if eff.destroys != 1 {
		t.Errorf("destroys = %d, want 1", eff.destroys)
	}
	if e.Running() {
		t.Error("destroy must stop the engine")
	}

	// Second destroy is a no-op: effects are not destroyed twice.
	e.Destroy()
	if eff.destroys != 1 {
		t.Errorf("destroys = %d after double destroy, want 1", eff.destroys)
	}

	// Everything after destroy is a safe no-op.
	e.AddEffect(&stubEffect{}).Start().Resize(10, 10)
	if e.Running() || len(e.effects) != 0 {
		t.Error("engine must stay inert after Destroy")
	}
	_ = clock
}

func TestAnimateRemovesFinishedTweens(t *testing.T) {
	e, clock := testEngine(t)
	v := 0.0
	e.Animate(TweenFloat(&v, 10, 0.1, ease.Linear))
	e.Start()

	e.tick(clock.t) // first frame: dt 0
	clock.advance(50 * time.Millisecond)
	e.tick(clock.t)
	assertNear(t, "halfway", v, 5)
	if len(e.tweens) != 1 {
		t.Fatalf("tweens = %d, want 1", len(e.tweens))
	}

	clock.advance(100 * time.Millisecond)
	e.tick(clock.t)
	assertNear(t, "done", v, 10)
	if len(e.tweens) != 0 {
		t.Errorf("tweens = %d, want 0 after completion", len(e.tweens))
	}
}

func TestLayoutScalesAndPropagatesResize(t *testing.T) {
	e, err := New(Config{Width: 400, Height: 300, Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	eff := &stubEffect{}
	e.AddEffect(eff)

	dw, dh := e.Layout(400, 300)
	if dw != 800 || dh != 600 {
		t.Errorf("Layout = %dx%d, want 800x600 device pixels", dw, dh)
	}

	// A changed host size is broadcast as a logical resize.
	e.Layout(500, 400)
	if eff.lastResize != (Vec2{500, 400}) {
		t.Errorf("lastResize = %v, want 500x400", eff.lastResize)
	}
}

func TestEngineChaining(t *testing.T) {
	e, _ := testEngine(t)
	eff := &stubEffect{}
	if e.AddEffect(eff).Start().Resize(100, 100).Stop().RemoveEffect(eff) != e {
		t.Error("mutating methods must return the engine")
	}
}
