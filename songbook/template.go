package songbook

// Lengths are in PDF points.
const (
	Inch = 72.0
	CM   = Inch / 2.54
)

// TemplateID tags a page with the decoration it receives.
type TemplateID string

const (
	TemplateCover     TemplateID = "cover"
	TemplateTOC       TemplateID = "toc"
	TemplateSongFirst TemplateID = "song-first"
	TemplateSongNext  TemplateID = "song-next"
)

// Scheme returns the numbering scheme of pages using the template.
func (t TemplateID) Scheme() Scheme {
	switch t {
	case TemplateCover, TemplateTOC:
		return SchemeRoman
	default:
		return SchemeArabic
	}
}

// PageGeometry describes the paper and its margins.
type PageGeometry struct {
	PageWidth    float64
	PageHeight   float64
	LeftMargin   float64
	RightMargin  float64
	TopMargin    float64
	BottomMargin float64
}

// A4 with 1.5 cm side and bottom margins and a one inch top margin.
var DefaultGeometry = PageGeometry{
	PageWidth:    595.2756,
	PageHeight:   841.8898,
	LeftMargin:   1.5 * CM,
	RightMargin:  1.5 * CM,
	TopMargin:    Inch,
	BottomMargin: 1.5 * CM,
}

// Width returns the width between the margins.
func (g PageGeometry) Width() float64 {
	return g.PageWidth - g.LeftMargin - g.RightMargin
}

// Height returns the height between the margins.
func (g PageGeometry) Height() float64 {
	return g.PageHeight - g.TopMargin - g.BottomMargin
}

const (
	// ColumnGutter separates the two frames of a two-column song.
	ColumnGutter = 0.5 * CM
	// ColumnHeaderOffset is how much shorter the second column is, leaving
	// room for the artwork in the top right corner.
	ColumnHeaderOffset = 2 * CM

	framePadding = 6.0
)

// CoverFrames returns the single frame of the cover page.
func (g PageGeometry) CoverFrames() []Frame {
	return []Frame{{
		ID:      "cover",
		X:       g.LeftMargin,
		Y:       g.TopMargin,
		Width:   g.Width(),
		Height:  g.Height(),
		Padding: Padding{Top: 3 * CM, Right: 10, Bottom: 5 * CM},
	}}
}

// NormalFrames returns the full-width frame used by the TOC and by
// single-column songs.
func (g PageGeometry) NormalFrames() []Frame {
	return []Frame{{
		ID:      "normal",
		X:       g.LeftMargin,
		Y:       g.TopMargin,
		Width:   g.Width(),
		Height:  g.Height(),
		Padding: Padding{Top: framePadding, Bottom: framePadding},
	}}
}

// ColumnFrames returns the two frames of a two-column song. Both share the
// bottom edge; the second one starts ColumnHeaderOffset lower.
func (g PageGeometry) ColumnFrames() []Frame {
	width := (g.Width() - ColumnGutter) / 2
	pad := Padding{Top: framePadding, Bottom: framePadding}
	return []Frame{
		{
			ID:      "column-1",
			X:       g.LeftMargin,
			Y:       g.TopMargin,
			Width:   width,
			Height:  g.Height(),
			Padding: pad,
		},
		{
			ID:      "column-2",
			X:       g.LeftMargin + width + ColumnGutter,
			Y:       g.TopMargin + ColumnHeaderOffset,
			Width:   width,
			Height:  g.Height() - ColumnHeaderOffset,
			Padding: pad,
		},
	}
}

// SongFrames selects the frames of a song by its column flag.
func (g PageGeometry) SongFrames(twoColumns bool) []Frame {
	if twoColumns {
		return g.ColumnFrames()
	}
	return g.NormalFrames()
}

// Section is a run of units that starts on a fresh page. First decorates
// its first page, Next the continuation pages.
type Section struct {
	First  TemplateID
	Next   TemplateID
	Frames []Frame
	Units  []LayoutUnit
	Song   *Song
}

// Template returns the template of the i-th page of the section.
func (s Section) Template(i int) TemplateID {
	if i == 0 || s.Next == "" {
		return s.First
	}
	return s.Next
}

// Selector picks templates and frames for the parts of a document.
type Selector struct {
	Geometry PageGeometry
}

// Cover returns the cover section for units.
func (s Selector) Cover(units []LayoutUnit) Section {
	return Section{
		First:  TemplateCover,
		Frames: s.Geometry.CoverFrames(),
		Units:  units,
	}
}

// TOC returns the table of contents section for units.
func (s Selector) TOC(units []LayoutUnit) Section {
	return Section{
		First:  TemplateTOC,
		Frames: s.Geometry.NormalFrames(),
		Units:  units,
	}
}

// Song returns the section of one song.
func (s Selector) Song(song *Song, units []LayoutUnit) Section {
	return Section{
		First:  TemplateSongFirst,
		Next:   TemplateSongNext,
		Frames: s.Geometry.SongFrames(song.TwoColumns),
		Units:  units,
		Song:   song,
	}
}
