package ember

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// shaderCache compiles Kage sources once and reuses the compiled programs
// for the lifetime of the Surface. Keyed by name so an effect type that is
// added, removed, and added again does not recompile its shader.
type shaderCache struct {
	programs map[string]*ebiten.Shader
}

func newShaderCache() *shaderCache {
	return &shaderCache{programs: make(map[string]*ebiten.Shader)}
}

// compile returns the cached program for name, compiling src on first use.
func (c *shaderCache) compile(name, src string) (*ebiten.Shader, error) {
	if sh, ok := c.programs[name]; ok {
		return sh, nil
	}
	sh, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("ember: compile shader %q: %w", name, err)
	}
	c.programs[name] = sh
	return sh, nil
}

func (c *shaderCache) dispose() {
	for name, sh := range c.programs {
		sh.Dispose()
		delete(c.programs, name)
	}
}

// drawFullscreen draws shader across the whole surface. Uniform maps are
// owned by the caller and reused frame to frame; only their values change.
func drawFullscreen(s *Surface, shader *ebiten.Shader, uniforms map[string]any, op *ebiten.DrawRectShaderOptions) {
	if s.target == nil || shader == nil {
		return
	}
	w, h := s.DeviceSize()
	op.GeoM.Reset()
	op.Uniforms = uniforms
	s.target.DrawRectShader(w, h, shader, op)
}
