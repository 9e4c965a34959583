package ember

import "testing"

func TestWaveConfigDefaults(t *testing.T) {
	w := NewWaveEffect(WaveConfig{})
	assertNear(t, "Frequency", w.cfg.Frequency, 10)
	assertNear(t, "Speed", w.cfg.Speed, 1)
	assertNear(t, "Amplitude", w.cfg.Amplitude, 0.05)
	if w.cfg.ColorA == (Color{}) || w.cfg.ColorB == (Color{}) {
		t.Error("default colors should be filled in")
	}
}

func TestWaveInitCompilesOnce(t *testing.T) {
	s := testSurface(800, 600)
	a := NewWaveEffect(WaveConfig{})
	b := NewWaveEffect(WaveConfig{Frequency: 4})

	if err := a.Init(s); err != nil {
		t.Fatal(err)
	}
	if err := b.Init(s); err != nil {
		t.Fatal(err)
	}
	if a.shader != b.shader {
		t.Error("both effects should share the cached program")
	}
	if len(s.shaders.programs) != 1 {
		t.Errorf("cache size = %d, want 1", len(s.shaders.programs))
	}
}

func TestWaveUpdateRecordsTime(t *testing.T) {
	w := NewWaveEffect(WaveConfig{})
	w.Update(2.5, 0.016)
	assertNear(t, "time", w.time, 2.5)
	// Resize is a no-op and must tolerate repeats.
	w.Resize(100, 100)
	w.Resize(100, 100)
}

func TestWaveRenderBeforeInit(t *testing.T) {
	w := NewWaveEffect(WaveConfig{})
	w.Render(testSurface(800, 600)) // no shader yet: silently skips
}

func TestWaveDestroy(t *testing.T) {
	s := testSurface(800, 600)
	w := NewWaveEffect(WaveConfig{})
	if err := w.Init(s); err != nil {
		t.Fatal(err)
	}
	w.Destroy()
	w.Destroy()
	if w.shader != nil || w.uniforms != nil {
		t.Error("destroy should drop references")
	}
	// The cached program survives for the next effect instance.
	if len(s.shaders.programs) != 1 {
		t.Error("cache should retain the program until surface disposal")
	}
}
