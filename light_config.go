package lights

import (
	"fmt"
	"strings"

	"github.com/gekko3d/lights/render/core"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

type Mode = core.Mode

const (
	ModeAmbient = core.ModeAmbient
	ModeDir     = core.ModeDir
	ModePoint   = core.ModePoint
)

type Space = core.Space

const (
	SpaceView  = core.SpaceView
	SpaceWorld = core.SpaceWorld
)

var (
	DefaultAmbient     = mgl32.Vec3{0.7, 0.7, 0.8}
	DefaultDir         = mgl32.Vec3{0, 0, -1}
	DefaultPos         = mgl32.Vec3{0, 0, 0}
	DefaultAttenuation = [3]float32{1, 0, 0} // constant, linear, quadratic
)

// Triple is a 3-component value read from YAML as a sequence.
// Short sequences leave the missing components at zero; extra ones are ignored.
type Triple [3]float32

func (t *Triple) UnmarshalYAML(value *yaml.Node) error {
	var vals []float32
	if err := value.Decode(&vals); err != nil {
		return err
	}
	*t = Triple{}
	copy(t[:], vals)
	return nil
}

func (t Triple) MarshalYAML() (any, error) {
	return []float32{t[0], t[1], t[2]}, nil
}

func (t Triple) Vec3() mgl32.Vec3 { return mgl32.Vec3(t) }

// Color is a Triple that may also be written as a color name ("white", "skyblue").
type Color Triple

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		rgb, err := NamedColor(value.Value)
		if err != nil {
			return err
		}
		*c = Color(rgb)
		return nil
	}
	return (*Triple)(c).UnmarshalYAML(value)
}

func (c Color) MarshalYAML() (any, error) { return Triple(c).MarshalYAML() }

func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3(c) }

// NamedColor looks up an SVG 1.1 color name and returns it as normalized RGB.
func NamedColor(name string) (mgl32.Vec3, error) {
	nc, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("unknown color name %q", name)
	}
	return mgl32.Vec3{float32(nc.R) / 255, float32(nc.G) / 255, float32(nc.B) / 255}, nil
}

// LightConfig describes a light to construct. Omitted fields take the
// documented defaults; nothing in it is ever rejected.
type LightConfig struct {
	ID       string `yaml:"id,omitempty"`
	Mode     Mode   `yaml:"mode"`
	Ambient  *Color `yaml:"ambient,omitempty"`
	Diffuse  *Color `yaml:"diffuse,omitempty"`
	Specular *Color `yaml:"specular,omitempty"`
	Space    Space  `yaml:"space,omitempty"`

	Dir *Triple `yaml:"dir,omitempty"`
	Pos *Triple `yaml:"pos,omitempty"`

	ConstantAttenuation  *float32 `yaml:"constantAttenuation,omitempty"`
	LinearAttenuation    *float32 `yaml:"linearAttenuation,omitempty"`
	QuadraticAttenuation *float32 `yaml:"quadraticAttenuation,omitempty"`
}

func ColorOf(v mgl32.Vec3) *Color { c := Color(v); return &c }

func TripleOf(v mgl32.Vec3) *Triple { t := Triple(v); return &t }

func Float(v float32) *float32 { return &v }

func normalizeMode(m Mode) Mode {
	switch m {
	case ModeAmbient, ModeDir, ModePoint:
		return m
	}
	return ModeAmbient
}

func normalizeSpace(s Space) Space {
	if s == SpaceWorld {
		return SpaceWorld
	}
	return SpaceView
}

func optionalColor(c *Color) (mgl32.Vec3, bool) {
	if c == nil {
		return mgl32.Vec3{}, false
	}
	return c.Vec3(), true
}

func tripleOr(t *Triple, def mgl32.Vec3) mgl32.Vec3 {
	if t == nil {
		return def
	}
	return t.Vec3()
}

func floatOr(f *float32, def float32) float32 {
	if f == nil {
		return def
	}
	return *f
}
