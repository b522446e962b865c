package mrml

import (
	"fmt"
	"strings"
)

// GlyphType is the marker shape drawn for each point
type GlyphType int

const (
	Vertex2D GlyphType = iota + 1
	Dash2D
	Cross2D
	ThickCross2D
	Triangle2D
	Square2D
	Circle2D
	Diamond2D
	Arrow2D
	ThickArrow2D
	HookedArrow2D
	StarBurst2D
	Sphere3D
	Diamond3D
)

var glyphNames = map[GlyphType]string{
	Vertex2D:      "Vertex2D",
	Dash2D:        "Dash2D",
	Cross2D:       "Cross2D",
	ThickCross2D:  "ThickCross2D",
	Triangle2D:    "Triangle2D",
	Square2D:      "Square2D",
	Circle2D:      "Circle2D",
	Diamond2D:     "Diamond2D",
	Arrow2D:       "Arrow2D",
	ThickArrow2D:  "ThickArrow2D",
	HookedArrow2D: "HookedArrow2D",
	StarBurst2D:   "StarBurst2D",
	Sphere3D:      "Sphere3D",
	Diamond3D:     "Diamond3D",
}

func (g GlyphType) String() string {
	if name, ok := glyphNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GlyphType(%d)", int(g))
}

// Is3D reports whether the glyph is a 3D shape
func (g GlyphType) Is3D() bool {
	return g >= Sphere3D
}

// ParseGlyphType parses a glyph name, case-insensitively
func ParseGlyphType(s string) (GlyphType, error) {
	for g, name := range glyphNames {
		if strings.EqualFold(name, s) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown glyph type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (g GlyphType) MarshalText() ([]byte, error) {
	if _, ok := glyphNames[g]; !ok {
		return nil, fmt.Errorf("unknown glyph type %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *GlyphType) UnmarshalText(text []byte) error {
	parsed, err := ParseGlyphType(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Color is an RGB triple in [0, 1]
type Color [3]float64

// Style is the display description shared by every point of the point-sets
// that reference a display node.
type Style struct {
	Glyph         GlyphType `yaml:"glyph"`
	GlyphScale    float64   `yaml:"glyph_scale"`
	TextScale     float64   `yaml:"text_scale"`
	Color         Color     `yaml:"color,flow"`
	SelectedColor Color     `yaml:"selected_color,flow"`
	Opacity       float64   `yaml:"opacity"`
	Ambient       float64   `yaml:"ambient"`
	Diffuse       float64   `yaml:"diffuse"`
	Specular      float64   `yaml:"specular"`
	Visibility    bool      `yaml:"visibility"`
}

// DefaultStyle returns the markups display defaults
func DefaultStyle() Style {
	return Style{
		Glyph:         StarBurst2D,
		GlyphScale:    3.0,
		TextScale:     3.0,
		Color:         Color{0.4, 1.0, 1.0},
		SelectedColor: Color{1.0, 0.5, 0.5},
		Opacity:       1.0,
		Ambient:       0,
		Diffuse:       1.0,
		Specular:      0,
		Visibility:    true,
	}
}

// Validate checks value ranges
func (s Style) Validate() error {
	if _, ok := glyphNames[s.Glyph]; !ok {
		return fmt.Errorf("glyph: unknown type %d", int(s.Glyph))
	}
	if s.GlyphScale <= 0 {
		return fmt.Errorf("glyph_scale must be positive, got %v", s.GlyphScale)
	}
	if s.TextScale < 0 {
		return fmt.Errorf("text_scale must not be negative, got %v", s.TextScale)
	}
	for name, v := range map[string]float64{
		"opacity": s.Opacity, "ambient": s.Ambient, "diffuse": s.Diffuse, "specular": s.Specular,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, v)
		}
	}
	for _, c := range []Color{s.Color, s.SelectedColor} {
		for _, v := range c {
			if v < 0 || v > 1 {
				return fmt.Errorf("color component must be within [0, 1], got %v", v)
			}
		}
	}
	return nil
}

// DisplayNode holds a Style. One display node may be referenced by several
// fiducial nodes.
type DisplayNode struct {
	id    NodeID
	scene *Scene
	style Style
}

// NewDisplayNode creates a display node with the given style
func NewDisplayNode(style Style) *DisplayNode {
	return &DisplayNode{style: style}
}

// ID returns the scene-assigned ID, empty until the node is added to a scene
func (d *DisplayNode) ID() NodeID { return d.id }

// Style returns a copy of the current style
func (d *DisplayNode) Style() Style { return d.style }

// SetStyle replaces the style and notifies observers when it changed
func (d *DisplayNode) SetStyle(s Style) {
	if d.style == s {
		return
	}
	d.style = s
	d.modified()
}

// SetVisibility toggles the node-level master visibility
func (d *DisplayNode) SetVisibility(visible bool) {
	s := d.style
	s.Visibility = visible
	d.SetStyle(s)
}

// SetGlyph changes the glyph type
func (d *DisplayNode) SetGlyph(g GlyphType) {
	s := d.style
	s.Glyph = g
	d.SetStyle(s)
}

// SetColor changes the unselected color
func (d *DisplayNode) SetColor(c Color) {
	s := d.style
	s.Color = c
	d.SetStyle(s)
}

// SetSelectedColor changes the selected color
func (d *DisplayNode) SetSelectedColor(c Color) {
	s := d.style
	s.SelectedColor = c
	d.SetStyle(s)
}

func (d *DisplayNode) modified() {
	if d.scene != nil {
		d.scene.emit(Event{Kind: DisplayModified, Node: d.id})
	}
}
