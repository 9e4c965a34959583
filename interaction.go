package ember

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// minPointerInterval floors the elapsed time used for velocity so a burst
// of samples in the same millisecond cannot blow the value up.
const minPointerInterval = time.Millisecond

// PointerState is the normalized view of pointer/touch input shared by all
// effects. Position and Velocity are in logical pixels (origin top-left,
// Y down). Normalized maps the position into [-1, 1] per axis with Y
// flipped to increase upward; this asymmetry is deliberate and matches
// what shader-style effects expect.
type PointerState struct {
	Position   Vec2 // logical pixels
	Normalized Vec2 // [-1, 1], Y up
	Velocity   Vec2 // logical pixels per second
	Pressed    bool
}

// Interaction tracks a single pointer across mouse and touch input. The
// Engine polls it once per frame; effects read the resulting state through
// Pointer. It holds exactly one PointerState for its lifetime.
type Interaction struct {
	state    PointerState
	lastTime time.Time
	hasLast  bool
	inside   bool

	touchIDs []ebiten.TouchID
	released bool
}

func newInteraction() *Interaction {
	return &Interaction{}
}

// Pointer returns a copy of the current pointer state.
func (in *Interaction) Pointer() PointerState {
	return in.state
}

// poll samples ebiten input state. An active touch takes priority over the
// mouse cursor; the first reported touch ID wins.
func (in *Interaction) poll(s *Surface, now time.Time) {
	if in.released {
		return
	}

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(in.touchIDs[0])
		x, y := float64(tx)/s.scale, float64(ty)/s.scale
		in.applyMove(Vec2{x, y}, s.width, s.height, now)
		in.setPressed(true)
		return
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/s.scale, float64(cy)/s.scale
	if x < 0 || y < 0 || x > s.width || y > s.height {
		in.leave()
	} else {
		in.applyMove(Vec2{x, y}, s.width, s.height, now)
	}
	in.setPressed(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// applyMove records a pointer sample at pos (logical pixels) against a
// surface of the given logical size, updating position, the normalized
// projection, and velocity.
func (in *Interaction) applyMove(pos Vec2, width, height float64, now time.Time) {
	if in.hasLast && in.inside {
		elapsed := now.Sub(in.lastTime)
		if elapsed < minPointerInterval {
			elapsed = minPointerInterval
		}
		secs := elapsed.Seconds()
		in.state.Velocity = Vec2{
			X: (pos.X - in.state.Position.X) / secs,
			Y: (pos.Y - in.state.Position.Y) / secs,
		}
	}
	in.state.Position = pos
	if width > 0 && height > 0 {
		in.state.Normalized = Vec2{
			X: pos.X/width*2 - 1,
			Y: -(pos.Y/height*2 - 1),
		}
	}
	in.lastTime = now
	in.hasLast = true
	in.inside = true
}

// setPressed updates the pressed flag; velocity is zeroed on release.
func (in *Interaction) setPressed(pressed bool) {
	if in.state.Pressed && !pressed {
		in.state.Velocity = Vec2{}
	}
	in.state.Pressed = pressed
}

// leave marks the pointer as outside the surface. Position keeps its last
// value; velocity is zeroed so effects do not see a stale fling.
func (in *Interaction) leave() {
	in.inside = false
	in.state.Velocity = Vec2{}
}

// release detaches the interaction from input polling. Called by the
// Engine during Destroy; safe to call more than once.
func (in *Interaction) release() {
	in.released = true
	in.state = PointerState{}
}
