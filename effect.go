package ember

// Effect is the contract every effect satisfies. The Engine drives the
// lifecycle: Init once when the effect is registered, then any
// interleaving of Update, Render, and Resize while registered, then
// Destroy exactly once. After Destroy no further calls are made.
//
// Implementations must tolerate Render on the very first frame (zero
// elapsed time) and repeated Resize calls with identical dimensions.
// Each effect owns its configuration and GPU resources independently;
// there is no shared base state.
type Effect interface {
	// Init compiles shaders and allocates simulation state against the
	// surface. A returned error keeps the effect unregistered.
	Init(s *Surface) error

	// Update advances the simulation. t is seconds since Engine.Start,
	// dt is seconds since the previous frame.
	Update(t, dt float64)

	// Render draws the effect's current state to the surface target.
	Render(s *Surface)

	// Resize informs the effect of the new logical surface dimensions.
	Resize(width, height float64)

	// Destroy releases GPU resources. Must be safe to call even if Init
	// never completed, and must leave the effect inert so a second call
	// cannot double-free.
	Destroy()
}
