package songbook

import (
	"fmt"
	"time"
)

// Op is the kind of a DrawCommand.
type Op int

const (
	OpRect Op = iota
	OpRoundRect
	OpCircle
	OpLine
	OpText
	OpLeader
	OpImage
	OpLink
	OpAnchor
)

// DrawCommand is one drawing instruction in top-left page coordinates.
//
// Text commands start at the baseline origin X, Y; Align moves the origin to
// the centre or the right end of the text. Rotate turns the text counter
// clockwise around its origin. Leaders fill the space between the runs
// starting at X and the trailer ending at X2 with dots.
type DrawCommand struct {
	Op        Op
	X, Y      float64
	X2, Y2    float64
	W, H      float64
	R         float64
	Style     string // "F", "D" or "FD" for shapes
	Fill      RGB
	Stroke    RGB
	LineWidth float64
	Alpha     float64
	Font      Font
	Size      float64
	Runs      []Run
	Trailer   string
	Align     Alignment
	Rotate    float64
	Image     string
	Key       string
}

// Labels are the fixed strings printed by the engine.
type Labels struct {
	TOCHeading     string
	Tone           string
	Compiled       string
	TOCPlaceholder string
}

// DefaultLabels are the English labels.
var DefaultLabels = Labels{
	TOCHeading:     "Contents",
	Tone:           "Tone",
	Compiled:       "Compiled",
	TOCPlaceholder: "Placeholder for table of contents",
}

// Artwork is an image ready to be placed on a page.
type Artwork struct {
	Key    string
	Width  int
	Height int
}

// ArtworkSource returns the artwork for an image path. It must always
// succeed, falling back to a placeholder.
type ArtworkSource interface {
	Artwork(path string) Artwork
}

// RenderContext carries everything a decoration needs. It is passed by
// value; nothing draws into shared state.
type RenderContext struct {
	Geometry   PageGeometry
	SiteURL    string
	Labels     Labels
	FormatDate func(time.Time) string
	Artwork    ArtworkSource
}

// Decorator draws the template specific parts of a page.
type Decorator func(p Page, rc RenderContext) ([]DrawCommand, error)

var decorators = map[TemplateID]Decorator{
	TemplateCover:     decorateCover,
	TemplateTOC:       decorateTOC,
	TemplateSongFirst: decorateSongFirst,
	TemplateSongNext:  decorateSongNext,
}

// Decorate returns the decoration of p.
func Decorate(p Page, rc RenderContext) ([]DrawCommand, error) {
	d, ok := decorators[p.Template]
	if !ok {
		return nil, fmt.Errorf("no decoration for template %q", p.Template)
	}
	return d(p, rc)
}

const (
	bannerFontSize   = 20.0
	footerFontSize   = 9.0
	artworkHeight    = 100.0
	artworkPadding   = 0.5 * CM
	artworkBorder    = 4.0
	dividerPadding   = 1.5 * CM
	coverURLFontSize = 20.0
)

func decorateCover(p Page, rc RenderContext) ([]DrawCommand, error) {
	g := rc.Geometry
	x := g.PageWidth - g.LeftMargin
	return []DrawCommand{
		{Op: OpRect, X: x, Y: 0, W: g.PageWidth - x, H: g.PageHeight, Style: "F", Fill: Black},
		{
			Op:     OpText,
			X:      x + coverURLFontSize + 2,
			Y:      g.PageHeight - g.BottomMargin,
			Font:   Font{Family: "Times", Style: "B"},
			Size:   coverURLFontSize,
			Fill:   Gray(0.75),
			Runs:   []Run{{Text: rc.SiteURL}},
			Rotate: 90,
		},
	}, nil
}

// banner draws the strip above the top margin with a heading in it.
func banner(g PageGeometry, color RGB, font Font, text string) []DrawCommand {
	height := g.TopMargin - 0.2*CM
	return []DrawCommand{
		{Op: OpRect, X: 0, Y: 0, W: g.PageWidth, H: height, Style: "F", Fill: color},
		{
			Op:   OpText,
			X:    g.LeftMargin,
			Y:    height - 0.4*CM,
			Font: font,
			Size: bannerFontSize,
			Fill: White,
			Runs: []Run{{Text: text}},
		},
	}
}

// pageBadge draws the page number of p in the bottom right corner.
func pageBadge(g PageGeometry, p Page, color RGB) ([]DrawCommand, error) {
	label, err := p.Label()
	if err != nil {
		return nil, err
	}
	x := g.Width() + g.RightMargin + 0.2*CM
	y := g.PageHeight - g.BottomMargin + 0.1*CM
	b := NewBadge(p.Scheme, label, x, y, BadgeFontSize)
	return []DrawCommand{
		{Op: OpCircle, X: b.CX, Y: b.CY, R: b.R, Style: "F", Fill: color},
		{
			Op:   OpText,
			X:    x,
			Y:    y,
			Font: Font{Family: "Helvetica", Style: "B"},
			Size: BadgeFontSize,
			Fill: White,
			Runs: []Run{{Text: label}},
		},
	}, nil
}

func decorateTOC(p Page, rc RenderContext) ([]DrawCommand, error) {
	cmds := banner(rc.Geometry, Black, Font{Family: "Helvetica", Style: "B"}, rc.Labels.TOCHeading)
	badge, err := pageBadge(rc.Geometry, p, Black)
	if err != nil {
		return nil, err
	}
	return append(cmds, badge...), nil
}

func decorateSongFirst(p Page, rc RenderContext) ([]DrawCommand, error) {
	if p.Song == nil {
		return nil, fmt.Errorf("song page %d without a song", p.Number)
	}
	g := rc.Geometry
	perf := p.Song.Performer
	cmds := banner(g, perf.Color, Font{Family: "Times"}, perf.Name)

	if rc.Artwork != nil {
		art := rc.Artwork.Artwork(perf.Image)
		width := artworkHeight
		if art.Height > 0 {
			width = artworkHeight / float64(art.Height) * float64(art.Width)
		}
		x := g.PageWidth - width - artworkPadding
		y := artworkPadding
		cmds = append(cmds,
			DrawCommand{
				Op:        OpRoundRect,
				X:         x - artworkBorder,
				Y:         y - artworkBorder,
				W:         width + 2*artworkBorder,
				H:         artworkHeight + 2*artworkBorder,
				R:         artworkBorder / 2,
				Style:     "FD",
				Fill:      White,
				Stroke:    Gray(0.8),
				LineWidth: 1,
			},
			DrawCommand{Op: OpImage, X: x, Y: y, W: width, H: artworkHeight, Image: art.Key},
		)
	}

	if rc.FormatDate != nil && !p.Song.Modified.IsZero() {
		cmds = append(cmds, DrawCommand{
			Op:   OpText,
			X:    g.LeftMargin,
			Y:    g.PageHeight - g.BottomMargin + 0.1*CM,
			Font: Font{Family: "Times", Style: "I"},
			Size: footerFontSize,
			Fill: Fraction(0, 0.4, 0),
			Runs: []Run{{Text: rc.FormatDate(p.Song.Modified)}},
		})
	}

	footer, err := songFooter(p, rc)
	if err != nil {
		return nil, err
	}
	return append(cmds, footer...), nil
}

func decorateSongNext(p Page, rc RenderContext) ([]DrawCommand, error) {
	if p.Song == nil {
		return nil, fmt.Errorf("song page %d without a song", p.Number)
	}
	return songFooter(p, rc)
}

// songFooter is the running footer of every song page: the column divider
// of two-column songs, the song title and the page badge.
func songFooter(p Page, rc RenderContext) ([]DrawCommand, error) {
	g := rc.Geometry
	song := p.Song
	var cmds []DrawCommand
	if song.TwoColumns {
		cmds = append(cmds, DrawCommand{
			Op:        OpLine,
			X:         g.PageWidth / 2,
			Y:         g.PageHeight - g.BottomMargin - dividerPadding,
			X2:        g.PageWidth / 2,
			Y2:        artworkPadding + artworkHeight + artworkBorder + dividerPadding,
			Stroke:    song.Performer.Color,
			LineWidth: 0.1 * CM,
			Alpha:     0.5,
		})
	}
	cmds = append(cmds, DrawCommand{
		Op:   OpText,
		X:    g.LeftMargin + g.Width()/2,
		Y:    g.PageHeight - g.BottomMargin + 0.1*CM,
		Font: Font{Family: "Times"},
		Size: footerFontSize,
		Fill: Gray(0.2),
		Runs: []Run{{Text: song.Title}},
	})
	badge, err := pageBadge(g, p, song.Performer.Color)
	if err != nil {
		return nil, err
	}
	return append(cmds, badge...), nil
}

// UnitCommands returns the commands drawing a placed unit.
func UnitCommands(pl Placement, frame Frame, style StyleAttributes) []DrawCommand {
	u := pl.Unit
	if u.Kind == Spacer {
		return nil
	}

	var x float64
	switch style.Align {
	case AlignCenter:
		x = frame.X + frame.Padding.Left + frame.InnerWidth()/2
	case AlignRight:
		x = frame.X + frame.Width - frame.Padding.Right
	default:
		x = frame.X + frame.Padding.Left
	}

	var cmds []DrawCommand
	if u.Anchor != "" {
		cmds = append(cmds, DrawCommand{Op: OpAnchor, Y: pl.Y, Key: u.Anchor, Runs: []Run{{Text: u.PlainText()}}})
	}
	top := pl.Y + style.SpaceBefore
	for i, line := range u.Lines {
		if len(line) == 0 {
			continue
		}
		baseline := top + float64(i)*style.Leading + style.Size
		cmds = append(cmds, DrawCommand{
			Op:    OpText,
			X:     x,
			Y:     baseline,
			Font:  style.Font,
			Size:  style.Size,
			Fill:  style.Color,
			Runs:  line,
			Align: style.Align,
		})
	}

	if u.Target != "" {
		last := len(u.Lines) - 1
		var runs []Run
		if last >= 0 {
			runs = u.Lines[last]
		}
		right := frame.X + frame.Width - frame.Padding.Right
		cmds = append(cmds,
			DrawCommand{
				Op:      OpLeader,
				X:       frame.X + frame.Padding.Left,
				Y:       top + float64(last)*style.Leading + style.Size,
				X2:      right,
				Font:    style.Font,
				Size:    style.Size,
				Fill:    style.Color,
				Runs:    runs,
				Trailer: u.Trailer,
			},
			DrawCommand{
				Op:  OpLink,
				X:   frame.X + frame.Padding.Left,
				Y:   pl.Y,
				W:   frame.InnerWidth(),
				H:   u.Height,
				Key: u.Target,
			},
		)
	}
	return cmds
}
