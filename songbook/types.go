package songbook

import (
	"fmt"
	"time"
)

// BlockKind identifies the semantic role of a Block
type BlockKind int

const (
	Title BlockKind = iota
	Tone
	Verse
	Chorus
	Tablature
	Comment
	Spacer

	// front matter
	CoverTitle
	CoverSubtitle
	TOCLine
)

var kindNames = map[BlockKind]string{
	Title:         "title",
	Tone:          "tone",
	Verse:         "verse",
	Chorus:        "chorus",
	Tablature:     "tablature",
	Comment:       "comment",
	Spacer:        "spacer",
	CoverTitle:    "cover-title",
	CoverSubtitle: "cover-subtitle",
	TOCLine:       "toc-line",
}

func (k BlockKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// Block is one semantic unit of song content.
type Block struct {
	Kind BlockKind
	Text string
	// Style overrides the default style of Kind when set.
	Style string
	// Size is the height of a Spacer, in points.
	Size float64
}

// Run is a piece of text sharing one font variant.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Line is a sequence of runs drawn on one baseline.
type Line []Run

// Text returns the plain text of the line.
func (l Line) Text() string {
	s := ""
	for _, r := range l {
		s += r.Text
	}
	return s
}

// LayoutUnit is a Block after style resolution and measurement. Units are
// atomic: pagination never splits one across frames.
type LayoutUnit struct {
	Kind   BlockKind
	Style  string
	Lines  []Line
	Width  float64
	Height float64

	// Anchor is the bookmark key of a song title.
	Anchor string
	// Target is the bookmark key a TOC row links to, Trailer the page
	// number shown at its right edge.
	Target  string
	Trailer string
}

// PlainText joins the unit's lines with newlines.
func (u LayoutUnit) PlainText() string {
	s := ""
	for i, l := range u.Lines {
		if i > 0 {
			s += "\n"
		}
		s += l.Text()
	}
	return s
}

// Padding is the inset between a Frame's edge and its usable area.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Frame is a rectangular placement region. Coordinates are in points with
// the origin at the top left corner of the page.
type Frame struct {
	ID      string
	X, Y    float64
	Width   float64
	Height  float64
	Padding Padding
}

// Usable returns the height available for units.
func (f Frame) Usable() float64 {
	return f.Height - f.Padding.Top - f.Padding.Bottom
}

// InnerWidth returns the width available for units.
func (f Frame) InnerWidth() float64 {
	return f.Width - f.Padding.Left - f.Padding.Right
}

// Top returns the y coordinate of the first unit placed in the frame.
func (f Frame) Top() float64 {
	return f.Y + f.Padding.Top
}

// Bottom returns the y coordinate the placed units must not cross.
func (f Frame) Bottom() float64 {
	return f.Y + f.Height - f.Padding.Bottom
}

// Placement records where a unit was put.
type Placement struct {
	Unit  LayoutUnit
	Frame int
	Y     float64
}

// Page is one finished page. Template selects its decoration.
type Page struct {
	Number   int
	Template TemplateID
	Scheme   Scheme
	Frames   []Frame
	Placed   []Placement
	Song     *Song
}

// Label returns the page number as shown on the page.
func (p Page) Label() (string, error) {
	return p.Scheme.Format(p.Number)
}

// RGB is a colour with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Gray returns the gray level v (0 black, 1 white).
func Gray(v float64) RGB {
	c := uint8(v*255 + 0.5)
	return RGB{c, c, c}
}

// Fraction returns the colour with each channel scaled to [0, 1].
func Fraction(r, g, b float64) RGB {
	return RGB{uint8(r*255 + 0.5), uint8(g*255 + 0.5), uint8(b*255 + 0.5)}
}

// DecodeColor unpacks a 0xRRGGBB integer.
func DecodeColor(packed uint32) RGB {
	return RGB{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
	}
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// Performer is the artist a song page is decorated for.
type Performer struct {
	Name  string
	Color RGB
	Image string
}

// Song is the layout input for one song.
type Song struct {
	Slug       string
	Title      string
	Tone       string
	Modified   time.Time
	TwoColumns bool
	Performer  Performer
	Blocks     []Block
}

// Group is a named list of songs inside a catalogue.
type Group struct {
	Slug  string
	Name  string
	Songs []Song
}

// Meta is the document information dictionary.
type Meta struct {
	Author  string
	Title   string
	Subject string
	Creator string
}

// TOCEntry is one row of the table of contents. Page is zero until
// resolved.
type TOCEntry struct {
	Title string
	Key   string
	Page  int
}

// StaleEntry reports a TOC row whose recorded page differs from the page the
// title ended up on after the final pass.
type StaleEntry struct {
	TOCEntry
	Actual int
}

// Document is an ordered sequence of pages plus metadata.
type Document struct {
	Meta  Meta
	Pages []Page
	TOC   []TOCEntry
	Stale []StaleEntry
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Units returns every placed unit in page order.
func (d *Document) Units() []Placement {
	var res []Placement
	for _, p := range d.Pages {
		res = append(res, p.Placed...)
	}
	return res
}
