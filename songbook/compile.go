package songbook

import (
	"strings"
	"unicode/utf8"
)

// ColumnMode selects the frame layout of a song.
type ColumnMode int

const (
	SingleColumn ColumnMode = iota
	DoubleColumn
)

// ColumnWidths are the wrap widths, in characters of the base font size,
// of a single and a double column frame. They were measured on rendered
// pages, not derived from font metrics.
type ColumnWidths struct {
	Single int
	Double int
}

// DefaultColumnWidths fit the A4 song frames.
var DefaultColumnWidths = ColumnWidths{Single: 85, Double: 41}

// Budget returns the number of characters of style that fit on one line.
func (w ColumnWidths) Budget(mode ColumnMode, style StyleAttributes) int {
	base := w.Single
	if mode == DoubleColumn {
		base = w.Double
	}
	size := style.Size
	if size <= 0 {
		size = BaseFontSize
	}
	n := int(float64(base) * BaseFontSize / size)
	if n < 1 {
		n = 1
	}
	return n
}

var defaultKindStyles = map[BlockKind]string{
	Title:         StyleSongTitle,
	Tone:          StyleTone,
	Verse:         StyleVerse,
	Chorus:        StyleChorus,
	Tablature:     StyleTablature,
	Comment:       StyleComment,
	CoverTitle:    StyleCoverTitle,
	CoverSubtitle: StyleCoverSubtitle,
	TOCLine:       StyleTOCEntry,
}

// Compiler converts blocks into measured layout units. It holds no mutable
// state and may be shared.
type Compiler struct {
	Styles *StyleRegistry
	Widths ColumnWidths
}

// NewCompiler returns a compiler using the default column widths.
func NewCompiler(styles *StyleRegistry) *Compiler {
	return &Compiler{Styles: styles, Widths: DefaultColumnWidths}
}

// Compile converts blocks, in order, for a frame of the given mode.
func (c *Compiler) Compile(blocks []Block, mode ColumnMode) ([]LayoutUnit, error) {
	units := make([]LayoutUnit, 0, len(blocks))
	for i, b := range blocks {
		u, err := c.Unit(b, mode)
		if err != nil {
			if ub, ok := err.(*UnrenderableBlockError); ok {
				ub.Index = i
			}
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// Unit converts a single block.
func (c *Compiler) Unit(b Block, mode ColumnMode) (LayoutUnit, error) {
	if b.Kind == Spacer {
		return LayoutUnit{Kind: Spacer, Height: b.Size}, nil
	}

	name := b.Style
	if name == "" {
		var ok bool
		name, ok = defaultKindStyles[b.Kind]
		if !ok {
			return LayoutUnit{}, &UnrenderableBlockError{Kind: b.Kind}
		}
	}
	style, err := c.Styles.Resolve(name)
	if err != nil {
		return LayoutUnit{}, &UnrenderableBlockError{Kind: b.Kind, Err: err}
	}

	budget := c.Widths.Budget(mode, style)
	var lines []Line
	if style.Monospace {
		lines = wrapPreformatted(b.Text, budget)
	} else {
		parsed, err := parseMarkup(b.Text)
		if err != nil {
			return LayoutUnit{}, &UnrenderableBlockError{Kind: b.Kind, Err: err}
		}
		for _, l := range parsed {
			lines = append(lines, wrapRuns(l, budget)...)
		}
	}
	if len(lines) == 0 {
		lines = []Line{nil}
	}

	return LayoutUnit{
		Kind:   b.Kind,
		Style:  style.Name,
		Lines:  lines,
		Width:  measureWidth(lines, style),
		Height: style.SpaceBefore + float64(len(lines))*style.Leading + style.SpaceAfter,
	}, nil
}

// measureWidth estimates the width of the widest line. Courier advances 0.6
// em per glyph, the proportional faces are taken at 0.5 em on average.
func measureWidth(lines []Line, style StyleAttributes) float64 {
	em := 0.5
	if style.Monospace {
		em = 0.6
	}
	widest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l.Text()); n > widest {
			widest = n
		}
	}
	return float64(widest) * em * style.Size
}

// wrapPreformatted keeps the line structure of text and breaks lines longer
// than budget at the last space that fits.
func wrapPreformatted(text string, budget int) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	text = strings.TrimRight(text, " \n")
	if text == "" {
		return nil
	}

	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, " ")
		for _, piece := range splitLine(raw, budget) {
			lines = append(lines, Line{{Text: piece}})
		}
	}
	return lines
}

func splitLine(s string, budget int) []string {
	var res []string
	for utf8.RuneCountInString(s) > budget {
		runes := []rune(s)
		cut := -1
		for i := budget; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		if cut <= 0 {
			res = append(res, string(runes[:budget]))
			s = string(runes[budget:])
			continue
		}
		res = append(res, strings.TrimRight(string(runes[:cut]), " "))
		s = strings.TrimLeft(string(runes[cut:]), " ")
	}
	return append(res, s)
}

type word struct {
	text   string
	bold   bool
	italic bool
	// glued words follow the previous word without a space
	glued bool
}

// wrapRuns breaks a line of runs into lines of at most budget characters,
// breaking only between words.
func wrapRuns(l Line, budget int) []Line {
	var words []word
	for _, r := range l {
		fields := strings.Fields(r.Text)
		glue := len(words) > 0 && r.Text != "" && !isSpace(r.Text[0])
		for i, f := range fields {
			words = append(words, word{text: f, bold: r.Bold, italic: r.Italic, glued: i == 0 && glue})
		}
	}
	if len(words) == 0 {
		return []Line{nil}
	}

	var lines []Line
	var cur Line
	length := 0
	for _, w := range words {
		n := utf8.RuneCountInString(w.text)
		sep := 1
		if w.glued {
			sep = 0
		}
		if length > 0 && length+sep+n > budget {
			lines = append(lines, cur)
			cur = nil
			length = 0
		}
		text := w.text
		if length > 0 && !w.glued {
			text = " " + text
		}
		if k := len(cur) - 1; k >= 0 && cur[k].Bold == w.bold && cur[k].Italic == w.italic {
			cur[k].Text += text
		} else {
			cur = append(cur, Run{Text: text, Bold: w.bold, Italic: w.italic})
		}
		length += utf8.RuneCountInString(text)
	}
	return append(lines, cur)
}
