package songbook

import "fmt"

// BaseFontSize is the size every default style is derived from, in points.
const BaseFontSize = 10.0

// Alignment of the lines of a unit inside its frame.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Font names one of the PDF core fonts. Style is "", "B", "I" or "BI".
type Font struct {
	Family string
	Style  string
}

// StyleAttributes are the fully resolved attributes of a style.
type StyleAttributes struct {
	Name        string
	Parent      string
	Font        Font
	Size        float64
	Leading     float64
	Color       RGB
	Align       Alignment
	SpaceBefore float64
	SpaceAfter  float64
	// Monospace styles keep the line structure of their text.
	Monospace bool
}

// StyleDef declares a style as a parent plus overrides.
type StyleDef struct {
	Name   string
	Parent string
	Set    func(*StyleAttributes)
}

// StyleRegistry maps style names to resolved attributes. It is read-only
// once built and safe for concurrent use.
type StyleRegistry struct {
	styles map[string]StyleAttributes
	order  []string
}

// NewStyleRegistry resolves defs in order. A parent must be declared before
// its children.
func NewStyleRegistry(defs ...StyleDef) (*StyleRegistry, error) {
	r := &StyleRegistry{styles: make(map[string]StyleAttributes, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("style without a name")
		}
		if _, dup := r.styles[def.Name]; dup {
			return nil, fmt.Errorf("style %q declared twice", def.Name)
		}
		var attr StyleAttributes
		if def.Parent != "" {
			parent, ok := r.styles[def.Parent]
			if !ok {
				return nil, fmt.Errorf("style %q: %w", def.Name, &UnknownStyleError{Name: def.Parent})
			}
			attr = parent
		}
		attr.Name = def.Name
		attr.Parent = def.Parent
		if def.Set != nil {
			def.Set(&attr)
		}
		r.styles[def.Name] = attr
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

// Resolve returns the attributes of the named style.
func (r *StyleRegistry) Resolve(name string) (StyleAttributes, error) {
	attr, ok := r.styles[name]
	if !ok {
		return StyleAttributes{}, &UnknownStyleError{Name: name}
	}
	return attr, nil
}

// Names lists the registered styles in declaration order.
func (r *StyleRegistry) Names() []string {
	res := make([]string, len(r.order))
	copy(res, r.order)
	return res
}

// Style names used by the compiler.
const (
	StyleNormal        = "normal"
	StyleCoverTitle    = "cover-title"
	StyleCoverSubtitle = "cover-subtitle"
	StyleTOCEntry      = "toc-entry"
	StyleSongTitle     = "song-title"
	StyleTone          = "tone"
	StyleVerse         = "verse"
	StyleTablature     = "tablature"
	StyleChorus        = "chorus"
	StyleComment       = "comment"
)

// DefaultStyleDefs is the style table of the chordbook.
func DefaultStyleDefs() []StyleDef {
	const fs = BaseFontSize
	return []StyleDef{
		{Name: StyleNormal, Set: func(a *StyleAttributes) {
			a.Font = Font{Family: "Times"}
			a.Size = fs
			a.Leading = float64(int(1.3 * fs))
			a.Color = Black
		}},
		{Name: StyleCoverTitle, Parent: StyleNormal, Set: func(a *StyleAttributes) {
			a.Size = 3 * fs
			a.Align = AlignCenter
			a.Leading = float64(int(3.6 * fs))
		}},
		{Name: StyleCoverSubtitle, Parent: StyleNormal, Set: func(a *StyleAttributes) {
			a.Size = 1.8 * fs
			a.Color = Gray(0.3)
			a.Align = AlignCenter
			a.Leading = float64(int(3.6 * fs))
		}},
		{Name: StyleTOCEntry, Parent: StyleNormal, Set: func(a *StyleAttributes) {
			a.Size = 1.5 * fs
			a.Color = Gray(0.3)
			a.Leading = float64(int(1.8 * fs))
		}},
		{Name: StyleSongTitle, Parent: StyleNormal, Set: func(a *StyleAttributes) {
			a.Size = 2 * fs
			a.Leading = float64(int(2.6 * fs))
		}},
		{Name: StyleTone, Parent: StyleNormal, Set: func(a *StyleAttributes) {
			a.Font = Font{Family: "Times", Style: "I"}
			a.Leading = float64(int(1.7 * fs))
		}},
		{Name: StyleVerse, Parent: StyleNormal, Set: func(a *StyleAttributes) {
			a.Font = Font{Family: "Courier"}
			a.Monospace = true
		}},
		{Name: StyleTablature, Parent: StyleVerse, Set: func(a *StyleAttributes) {
			a.Font = Font{Family: "Courier", Style: "B"}
			a.Color = Fraction(0, 0.67, 0)
			a.SpaceBefore = fs
			a.SpaceAfter = fs
		}},
		{Name: StyleChorus, Parent: StyleVerse, Set: func(a *StyleAttributes) {
			a.Font = Font{Family: "Courier", Style: "B"}
			a.Color = Fraction(0.67, 0, 0)
			a.SpaceBefore = fs
			a.SpaceAfter = fs
		}},
		{Name: StyleComment, Parent: StyleVerse, Set: func(a *StyleAttributes) {
			a.Font = Font{Family: "Courier", Style: "I"}
			a.Color = Gray(0.67)
		}},
	}
}

// DefaultStyles builds the registry from DefaultStyleDefs.
func DefaultStyles() *StyleRegistry {
	r, err := NewStyleRegistry(DefaultStyleDefs()...)
	if err != nil {
		panic(err)
	}
	return r
}
