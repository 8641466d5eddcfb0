// Package paletteregistry wraps internal/palette's three fixed tables
// behind a named, UID-keyed lookup, so a palette variant can be found by
// a stable string identifier rather than switching on an integer
// everywhere a palette is needed.
package paletteregistry

import "github.com/justinbass/makocode/internal/palette"

// Scheme is one color_channels palette, addressable by name or UID.
type Scheme interface {
	// Encode looks up the RGB for palette index idx.
	Encode(idx int) (palette.RGB, error)
	// Decode returns the palette index for an exact RGB match.
	Decode(rgb palette.RGB) (int, error)
	// ColorChannels is the c value (1, 2, or 3) this scheme implements.
	ColorChannels() int
	// UID returns the scheme's stable identifier.
	UID() string
	// Name returns a short human-readable name.
	Name() string
}

type paletteScheme struct {
	channels int
	name     string
	uid      string
}

func (s paletteScheme) Encode(idx int) (palette.RGB, error) {
	return palette.Encode(s.channels, idx)
}

func (s paletteScheme) Decode(rgb palette.RGB) (int, error) {
	return palette.Decode(s.channels, rgb)
}

func (s paletteScheme) ColorChannels() int { return s.channels }
func (s paletteScheme) UID() string        { return s.uid }
func (s paletteScheme) Name() string       { return s.name }

func init() {
	Register(paletteScheme{channels: 1, name: "gray2", uid: "makocode.palette.c1"})
	Register(paletteScheme{channels: 2, name: "cmyw4", uid: "makocode.palette.c2"})
	Register(paletteScheme{channels: 3, name: "color8", uid: "makocode.palette.c3"})
}
