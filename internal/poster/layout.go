package poster

import "strings"

type ElementKey string

const (
	ElementProductName ElementKey = "productName"
	ElementPrice       ElementKey = "price"
	ElementDescription ElementKey = "description"
	ElementPriceBg     ElementKey = "priceBg"
	ElementLogo        ElementKey = "logo"
)

func ElementKeys() []ElementKey {
	return []ElementKey{ElementProductName, ElementPrice, ElementDescription, ElementPriceBg, ElementLogo}
}

func (k ElementKey) IsValid() bool {
	switch k {
	case ElementProductName, ElementPrice, ElementDescription, ElementPriceBg, ElementLogo:
		return true
	default:
		return false
	}
}

// ElementLayout is the stored offset/scale of one poster element. X and Y are
// design pixels relative to the element's natural position.
type ElementLayout struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	Color   string  `json:"color,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

func DefaultElementLayout() ElementLayout {
	return ElementLayout{X: 0, Y: 0, Scale: 1}
}

func (l ElementLayout) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// LayoutConfig maps elements to their layout. Missing keys use the default.
type LayoutConfig map[ElementKey]ElementLayout

// DefaultLayout is what an editor starts from for a fresh poster or template.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		ElementProductName: DefaultElementLayout(),
		ElementPrice:       DefaultElementLayout(),
		ElementDescription: DefaultElementLayout(),
	}
}

func (c LayoutConfig) Get(key ElementKey) (ElementLayout, bool) {
	if c == nil {
		return ElementLayout{}, false
	}
	l, ok := c[key]
	return l, ok
}

func (c LayoutConfig) Transform(key ElementKey) Transform {
	if l, ok := c.Get(key); ok {
		return Resolve(&l)
	}
	return Resolve(nil)
}

// ColorFor returns the colour override for key, or fallback when none is set.
func (c LayoutConfig) ColorFor(key ElementKey, fallback string) string {
	if l, ok := c.Get(key); ok && strings.TrimSpace(l.Color) != "" {
		return l.Color
	}
	return fallback
}

func (c LayoutConfig) Visible(key ElementKey) bool {
	if l, ok := c.Get(key); ok {
		return l.IsVisible()
	}
	return true
}

// Clone copies the layout so that saved posters do not share state with the
// template they were created from.
func (c LayoutConfig) Clone() LayoutConfig {
	if c == nil {
		return nil
	}
	out := make(LayoutConfig, len(c))
	for k, v := range c {
		if v.Visible != nil {
			visible := *v.Visible
			v.Visible = &visible
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of c with each element in overrides replacing the
// element of the same key. Elements overrides does not name are kept.
func (c LayoutConfig) Merge(overrides LayoutConfig) LayoutConfig {
	if len(overrides) == 0 {
		return c.Clone()
	}
	out := c.Clone()
	if out == nil {
		out = make(LayoutConfig, len(overrides))
	}
	for k, v := range overrides.Clone() {
		out[k] = v
	}
	return out
}

type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

func Identity() Transform {
	return Transform{TranslateX: 0, TranslateY: 0, Scale: 1}
}

// Resolve turns a stored layout into a placement. The scale is applied as
// stored; editors bound it, the renderer does not.
func Resolve(layout *ElementLayout) Transform {
	if layout == nil {
		return Identity()
	}
	return Transform{
		TranslateX: layout.X,
		TranslateY: layout.Y,
		Scale:      layout.Scale,
	}
}

func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// CSS renders the transform for a centered transform-origin.
func (t Transform) CSS() string {
	if t.IsIdentity() {
		return "none"
	}
	return "translate(" + formatNumber(t.TranslateX) + "px, " + formatNumber(t.TranslateY) + "px) scale(" + formatNumber(t.Scale) + ")"
}
