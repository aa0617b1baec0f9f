package lights

import (
	"fmt"

	"github.com/gekko3d/lights/render/core"
)

// RenderContext is the consumer side of light compilation: it holds the
// scene-wide redraw flag, the last descriptor published by each light set and
// the program cache those descriptors are resolved against.
type RenderContext struct {
	needsRedraw bool
	descriptors map[string]core.Descriptor
	programs    *core.ProgramCache
	logger      Logger
}

func NewRenderContext(programs *core.ProgramCache, logger Logger) *RenderContext {
	return &RenderContext{
		descriptors: make(map[string]core.Descriptor),
		programs:    programs,
		logger:      orNop(logger),
	}
}

func (rc *RenderContext) MarkRedraw()       { rc.needsRedraw = true }
func (rc *RenderContext) NeedsRedraw() bool { return rc.needsRedraw }
func (rc *RenderContext) ClearRedraw()      { rc.needsRedraw = false }

// SetLights stores d as the current lighting of owner.
func (rc *RenderContext) SetLights(owner string, d core.Descriptor) {
	if prev, ok := rc.descriptors[owner]; ok && prev.Hash != d.Hash {
		rc.logger.Debugf("lights %s: variant %q -> %q", owner, prev.Hash, d.Hash)
	}
	rc.descriptors[owner] = d
}

func (rc *RenderContext) Lights(owner string) (core.Descriptor, bool) {
	d, ok := rc.descriptors[owner]
	return d, ok
}

// Forget drops the descriptor published by owner.
func (rc *RenderContext) Forget(owner string) {
	delete(rc.descriptors, owner)
}

// Program returns the shader program for owner's current descriptor.
func (rc *RenderContext) Program(owner string) (core.Program, error) {
	d, ok := rc.descriptors[owner]
	if !ok {
		return nil, fmt.Errorf("no lights published for %s", owner)
	}
	if rc.programs == nil {
		return nil, fmt.Errorf("render context has no program cache")
	}
	return rc.programs.Get(d)
}

func (rc *RenderContext) Programs() *core.ProgramCache {
	return rc.programs
}
