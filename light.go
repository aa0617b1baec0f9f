package lights

import (
	"github.com/gekko3d/lights/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// LightSource is implemented by AmbientLight, DirLight and PointLight.
// Every setter refreshes the cached core record, marks the render context for
// redraw and fires EventDirty before returning.
type LightSource interface {
	Component
	Mode() Mode
	// Core returns the renderer-facing record of the light's current state.
	Core() core.Light
	Diffuse() (mgl32.Vec3, bool)
	Specular() (mgl32.Vec3, bool)
	Space() Space
	// Config returns the light's current state in constructor form.
	Config() LightConfig
}

// IsLight reports whether c belongs to the light family.
func IsLight(c Component) (LightSource, bool) {
	if c == nil || c.Kind() != KindLight {
		return nil, false
	}
	l, ok := c.(LightSource)
	return l, ok
}

type lightBase struct {
	Base
	mode        Mode
	diffuse     mgl32.Vec3
	specular    mgl32.Vec3
	hasDiffuse  bool
	hasSpecular bool
	space       Space

	rc   *RenderContext
	core core.Light
	fill func(c *core.Light)
}

func (l *lightBase) setup(self LightSource, rc *RenderContext, mode Mode, cfg LightConfig, fill func(c *core.Light)) {
	l.init(self, cfg.ID, KindLight)
	l.mode = mode
	l.rc = rc
	l.fill = fill
	l.diffuse, l.hasDiffuse = optionalColor(cfg.Diffuse)
	l.specular, l.hasSpecular = optionalColor(cfg.Specular)
	l.space = normalizeSpace(cfg.Space)
}

func (l *lightBase) rebuild() {
	c := core.Light{
		Mode:        l.mode,
		Diffuse:     l.diffuse,
		Specular:    l.specular,
		HasDiffuse:  l.hasDiffuse,
		HasSpecular: l.hasSpecular,
		Space:       l.space,
	}
	if l.fill != nil {
		l.fill(&c)
	}
	l.core = c
}

func (l *lightBase) changed() {
	l.rebuild()
	if l.rc != nil {
		l.rc.MarkRedraw()
	}
	l.events.Fire(EventDirty, nil)
}

func (l *lightBase) Mode() Mode                   { return l.mode }
func (l *lightBase) Core() core.Light             { return l.core }
func (l *lightBase) Diffuse() (mgl32.Vec3, bool)  { return l.diffuse, l.hasDiffuse }
func (l *lightBase) Specular() (mgl32.Vec3, bool) { return l.specular, l.hasSpecular }
func (l *lightBase) Space() Space                 { return l.space }

func (l *lightBase) SetDiffuse(c mgl32.Vec3) {
	l.diffuse, l.hasDiffuse = c, true
	l.changed()
}

func (l *lightBase) ClearDiffuse() {
	l.diffuse, l.hasDiffuse = mgl32.Vec3{}, false
	l.changed()
}

func (l *lightBase) SetSpecular(c mgl32.Vec3) {
	l.specular, l.hasSpecular = c, true
	l.changed()
}

func (l *lightBase) ClearSpecular() {
	l.specular, l.hasSpecular = mgl32.Vec3{}, false
	l.changed()
}

// SetSpace switches coordinate space; anything but SpaceWorld means SpaceView.
func (l *lightBase) SetSpace(s Space) {
	l.space = normalizeSpace(s)
	l.changed()
}

func (l *lightBase) baseConfig() LightConfig {
	cfg := LightConfig{
		ID:    l.id,
		Mode:  l.mode,
		Space: l.space,
	}
	if l.hasDiffuse {
		cfg.Diffuse = ColorOf(l.diffuse)
	}
	if l.hasSpecular {
		cfg.Specular = ColorOf(l.specular)
	}
	return cfg
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	lightBase
	ambient mgl32.Vec3
}

func NewAmbientLight(rc *RenderContext, cfg LightConfig) *AmbientLight {
	l := &AmbientLight{}
	l.setup(l, rc, ModeAmbient, cfg, l.fillCore)
	if c, ok := optionalColor(cfg.Ambient); ok {
		l.ambient = c
	} else {
		l.ambient = DefaultAmbient
	}
	l.rebuild()
	return l
}

func (l *AmbientLight) fillCore(c *core.Light) {
	c.Color = l.ambient
}

func (l *AmbientLight) Ambient() mgl32.Vec3 { return l.ambient }

func (l *AmbientLight) SetAmbient(c mgl32.Vec3) {
	l.ambient = c
	l.changed()
}

func (l *AmbientLight) Config() LightConfig {
	cfg := l.baseConfig()
	cfg.Ambient = ColorOf(l.ambient)
	return cfg
}

// DirLight shines along a fixed direction with no attenuation.
type DirLight struct {
	lightBase
	dir mgl32.Vec3
}

func NewDirLight(rc *RenderContext, cfg LightConfig) *DirLight {
	l := &DirLight{}
	l.setup(l, rc, ModeDir, cfg, l.fillCore)
	l.dir = tripleOr(cfg.Dir, DefaultDir)
	l.rebuild()
	return l
}

func (l *DirLight) fillCore(c *core.Light) {
	c.Dir = l.dir
}

func (l *DirLight) Dir() mgl32.Vec3 { return l.dir }

func (l *DirLight) SetDir(d mgl32.Vec3) {
	l.dir = d
	l.changed()
}

func (l *DirLight) Config() LightConfig {
	cfg := l.baseConfig()
	cfg.Dir = TripleOf(l.dir)
	return cfg
}

// PointLight radiates from a position, attenuated by distance.
type PointLight struct {
	lightBase
	pos         mgl32.Vec3
	attenuation [3]float32
}

func NewPointLight(rc *RenderContext, cfg LightConfig) *PointLight {
	l := &PointLight{}
	l.setup(l, rc, ModePoint, cfg, l.fillCore)
	l.pos = tripleOr(cfg.Pos, DefaultPos)
	l.attenuation = [3]float32{
		floatOr(cfg.ConstantAttenuation, DefaultAttenuation[0]),
		floatOr(cfg.LinearAttenuation, DefaultAttenuation[1]),
		floatOr(cfg.QuadraticAttenuation, DefaultAttenuation[2]),
	}
	l.rebuild()
	return l
}

func (l *PointLight) fillCore(c *core.Light) {
	c.Pos = l.pos
	c.Attenuation = l.attenuation
}

func (l *PointLight) Pos() mgl32.Vec3 { return l.pos }

func (l *PointLight) SetPos(p mgl32.Vec3) {
	l.pos = p
	l.changed()
}

// Attenuation returns the constant, linear and quadratic factors.
func (l *PointLight) Attenuation() (constant, linear, quadratic float32) {
	return l.attenuation[0], l.attenuation[1], l.attenuation[2]
}

func (l *PointLight) SetAttenuation(constant, linear, quadratic float32) {
	l.attenuation = [3]float32{constant, linear, quadratic}
	l.changed()
}

func (l *PointLight) Config() LightConfig {
	cfg := l.baseConfig()
	cfg.Pos = TripleOf(l.pos)
	cfg.ConstantAttenuation = Float(l.attenuation[0])
	cfg.LinearAttenuation = Float(l.attenuation[1])
	cfg.QuadraticAttenuation = Float(l.attenuation[2])
	return cfg
}

// NewLight builds the light variant named by cfg.Mode. An empty or unknown
// mode builds an ambient light.
func NewLight(rc *RenderContext, cfg LightConfig) LightSource {
	switch normalizeMode(cfg.Mode) {
	case ModeDir:
		return NewDirLight(rc, cfg)
	case ModePoint:
		return NewPointLight(rc, cfg)
	}
	return NewAmbientLight(rc, cfg)
}
