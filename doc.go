// Package ember is a small real-time visual-effects engine for [Ebitengine].
//
// Ember owns a rendering surface, runs a per-frame update/render loop, and
// hosts pluggable effects that share pointer-interaction state. It ships
// four effects: [ParticleSystem] (emitter with gravity and in-place
// recycling), [FloatingParticles] (ambient field with a pairwise proximity
// graph rendered as connecting lines), [WaveEffect] and [GradientMesh]
// (full-surface Kage shader effects).
//
// # Quick start
//
//	engine, err := ember.New(ember.Config{Width: 800, Height: 600})
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.AddEffect(ember.NewGradientMesh(ember.GradientConfig{})).
//		AddEffect(ember.NewFloatingParticles(ember.FloatingConfig{Count: 120}))
//	if err := ember.Run(engine, ember.RunConfig{Title: "Ember"}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, implement [ebiten.Game] yourself: Engine already
// satisfies it, so it can be embedded in or delegated to from your own
// game type. Call [Engine.Start] before the first frame you want rendered;
// [Engine.Stop] halts effect callbacks synchronously.
//
// # Coordinates
//
// Everything exchanged with callers — emitter positions, pointer
// positions, surface sizes — is in logical pixels with the origin at the
// top-left and Y increasing downward, independent of the device pixel
// ratio. The one exception is [PointerState].Normalized, which maps into
// [-1, 1] with Y increasing upward; shader-style effects expect that
// orientation and existing call sites rely on it.
//
// # Effects
//
// An effect implements the five-method [Effect] interface and owns its
// configuration and GPU resources independently. Configuration structs
// are immutable after construction apart from the explicitly named
// mutators ([ParticleSystem.SetEmitterPosition],
// [ParticleSystem.SetColor], [ParticleSystem.SetCount]). Parameters can
// be animated over time with [ParamTween] (via [gween]) registered
// through [Engine.Animate].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package ember
