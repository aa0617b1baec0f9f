package core

type Mode string

const (
	ModeAmbient Mode = "ambient"
	ModeDir     Mode = "dir"
	ModePoint   Mode = "point"
)

type Space string

const (
	SpaceView  Space = "view"
	SpaceWorld Space = "world"
)

// Light is the renderer-facing record of a single light source.
// Optional colors are carried with a presence flag; the flag, not the value,
// is what the variant hash looks at.
type Light struct {
	Mode        Mode
	Color       [3]float32 // ambient only
	Diffuse     [3]float32
	Specular    [3]float32
	HasDiffuse  bool
	HasSpecular bool
	Dir         [3]float32 // dir only
	Pos         [3]float32 // point only
	Attenuation [3]float32 // constant, linear, quadratic
	Space       Space
}

// GPULight is the packed uniform layout of a light
type GPULight struct {
	Position  [4]float32 // xyz, w=1 for point lights
	Direction [4]float32 // xyz, pad
	Color     [4]float32 // ambient or diffuse rgb, w=1 when the light is in world space
	Params    [4]float32 // attenuation constant, linear, quadratic, mode
}

func (m Mode) index() float32 {
	switch m {
	case ModeDir:
		return 1
	case ModePoint:
		return 2
	}
	return 0
}

// Pack converts the record into the fixed-size layout used for uniform arrays.
func (l Light) Pack() GPULight {
	var g GPULight

	switch l.Mode {
	case ModeAmbient:
		g.Color = [4]float32{l.Color[0], l.Color[1], l.Color[2], 0}
	case ModeDir:
		g.Direction = [4]float32{l.Dir[0], l.Dir[1], l.Dir[2], 0}
	case ModePoint:
		g.Position = [4]float32{l.Pos[0], l.Pos[1], l.Pos[2], 1}
	}

	if l.Mode != ModeAmbient && l.HasDiffuse {
		g.Color = [4]float32{l.Diffuse[0], l.Diffuse[1], l.Diffuse[2], 0}
	}
	if l.Space == SpaceWorld {
		g.Color[3] = 1
	}

	g.Params = [4]float32{l.Attenuation[0], l.Attenuation[1], l.Attenuation[2], l.Mode.index()}
	return g
}

// PackAll packs lights in order.
func PackAll(lights []Light) []GPULight {
	res := make([]GPULight, 0, len(lights))
	for _, l := range lights {
		res = append(res, l.Pack())
	}
	return res
}
