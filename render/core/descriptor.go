package core

import (
	"strings"
)

// DescriptorType is the type tag carried by every light descriptor.
const DescriptorType = "lights"

// Descriptor is the compiled, ordered projection of a light set handed to the
// shading stage. Hash keys the shader program; the light values travel as uniforms.
type Descriptor struct {
	Type   string
	Lights []Light
	Hash   string
}

// NewDescriptor copies lights and computes their variant hash.
func NewDescriptor(lights []Light) Descriptor {
	cp := make([]Light, len(lights))
	copy(cp, lights)
	return Descriptor{
		Type:   DescriptorType,
		Lights: cp,
		Hash:   VariantHash(cp),
	}
}

// Empty reports whether the descriptor carries no lights.
func (d Descriptor) Empty() bool {
	return len(d.Lights) == 0
}

// VariantHash builds the shader variant key for an ordered list of lights.
//
// Each light contributes its mode, "s" when it has a specular color, "d" when
// it has a diffuse color, and "w" or "v" for world or view space. Numeric
// values never contribute. An empty list hashes to "".
func VariantHash(lights []Light) string {
	if len(lights) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, l := range lights {
		sb.WriteString(string(l.Mode))
		if l.HasSpecular {
			sb.WriteByte('s')
		}
		if l.HasDiffuse {
			sb.WriteByte('d')
		}
		if l.Space == SpaceWorld {
			sb.WriteByte('w')
		} else {
			sb.WriteByte('v')
		}
	}
	return sb.String()
}
