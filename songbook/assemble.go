package songbook

import (
	"fmt"
	"html"
	"log/slog"
	"strconv"
)

// Cover holds the texts of a cover page. Compiled is the already formatted
// compilation date.
type Cover struct {
	Title    string
	Subtitle string
	Compiled string
	URL      string
}

// Assembler turns songs into paginated documents.
type Assembler struct {
	Styles   *StyleRegistry
	Geometry PageGeometry
	Widths   ColumnWidths
	Labels   Labels
	Logger   *slog.Logger
}

// NewAssembler returns an assembler for A4 pages with the default column
// widths and labels.
func NewAssembler(styles *StyleRegistry, logger *slog.Logger) *Assembler {
	return &Assembler{
		Styles:   styles,
		Geometry: DefaultGeometry,
		Widths:   DefaultColumnWidths,
		Labels:   DefaultLabels,
		Logger:   logger,
	}
}

func (a *Assembler) log() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *Assembler) compiler() *Compiler {
	return &Compiler{Styles: a.Styles, Widths: a.Widths}
}

func (a *Assembler) selector() Selector {
	return Selector{Geometry: a.Geometry}
}

// Song lays out a standalone song, numbered from 1 with no front matter.
func (a *Assembler) Song(song Song, meta Meta) (*Document, error) {
	sec, err := a.songSection(&song)
	if err != nil {
		return nil, err
	}
	resolver := NewTOCResolver()
	pages := Paginate([]Section{sec}, 1, anchorTitles(resolver))
	resolver.Resolve()
	resolver.Finish()
	return &Document{Meta: meta, Pages: pages}, nil
}

// Chordbook lays out a cover, a table of contents and songs in order.
func (a *Assembler) Chordbook(cover Cover, songs []Song, meta Meta) (*Document, error) {
	if len(songs) == 0 {
		return nil, ErrEmptyDocument
	}
	own := make([]Song, len(songs))
	copy(own, songs)

	body := make([]Section, 0, len(own))
	for i := range own {
		sec, err := a.songSection(&own[i])
		if err != nil {
			return nil, fmt.Errorf("song %q: %w", own[i].Slug, err)
		}
		body = append(body, sec)
	}
	return a.book(cover, body, meta)
}

// Catalogue lays out the songs of every group after a shared cover and
// table of contents. Groups without songs are left out.
func (a *Assembler) Catalogue(cover Cover, groups []Group, meta Meta) (*Document, error) {
	var songs []Song
	for _, g := range groups {
		if len(g.Songs) == 0 {
			a.log().Info("skipping empty group", "slug", g.Slug, "name", g.Name)
			continue
		}
		songs = append(songs, g.Songs...)
	}
	return a.Chordbook(cover, songs, meta)
}

// book runs both layout passes. The first one uses a one line placeholder
// table of contents to find the pages of the song titles; the second one
// prints those pages and reports any title that moved.
func (a *Assembler) book(cover Cover, body []Section, meta Meta) (*Document, error) {
	sel := a.selector()
	coverUnits, err := a.coverUnits(cover)
	if err != nil {
		return nil, fmt.Errorf("cover: %w", err)
	}
	placeholder, err := a.compiler().Compile([]Block{{Kind: TOCLine, Text: html.EscapeString(a.Labels.TOCPlaceholder)}}, SingleColumn)
	if err != nil {
		return nil, fmt.Errorf("table of contents: %w", err)
	}

	sections := func(toc []LayoutUnit) []Section {
		res := make([]Section, 0, len(body)+2)
		res = append(res, sel.Cover(coverUnits), sel.TOC(toc))
		return append(res, body...)
	}

	resolver := NewTOCResolver()
	Paginate(sections(placeholder), 1, anchorTitles(resolver))

	rows, err := a.tocRows(resolver.Resolve())
	if err != nil {
		return nil, fmt.Errorf("table of contents: %w", err)
	}
	pages := Paginate(sections(rows), 1, anchorTitles(resolver))
	stale := resolver.Finish()
	for _, s := range stale {
		a.log().Warn("table of contents entry is stale",
			"title", s.Title, "listed", s.Page, "actual", s.Actual)
	}
	entries, err := resolver.Entries()
	if err != nil {
		return nil, err
	}

	for _, p := range pages {
		if _, err := p.Label(); err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Number, err)
		}
	}
	return &Document{Meta: meta, Pages: pages, TOC: entries, Stale: stale}, nil
}

// anchorTitles records every placed song title with the resolver.
func anchorTitles(r *TOCResolver) PlaceFunc {
	return func(u LayoutUnit, page int) LayoutUnit {
		if u.Kind == Title {
			u.Anchor = r.Record(u.PlainText(), page)
		}
		return u
	}
}

func (a *Assembler) coverUnits(c Cover) ([]LayoutUnit, error) {
	blocks := []Block{
		{
			Kind: CoverTitle,
			Text: fmt.Sprintf("<i>%s</i><br/><b>%s</b>", html.EscapeString(c.Title), html.EscapeString(c.Subtitle)),
		},
		{Kind: Spacer, Size: 3 * CM},
		{
			Kind: CoverSubtitle,
			Text: fmt.Sprintf("%s <b>%s</b><br/>%s", html.EscapeString(a.Labels.Compiled),
				html.EscapeString(c.Compiled), html.EscapeString(c.URL)),
		},
	}
	return a.compiler().Compile(blocks, SingleColumn)
}

func (a *Assembler) tocRows(entries []TOCEntry) ([]LayoutUnit, error) {
	rows := make([]LayoutUnit, 0, len(entries))
	c := a.compiler()
	for _, e := range entries {
		u, err := c.Unit(Block{Kind: TOCLine, Text: html.EscapeString(e.Title)}, SingleColumn)
		if err != nil {
			return nil, err
		}
		u.Target = e.Key
		u.Trailer = strconv.Itoa(e.Page)
		rows = append(rows, u)
	}
	return rows, nil
}

// songUnits compiles the title, the tone line, a spacer and the song body.
func (a *Assembler) songUnits(song *Song) ([]LayoutUnit, error) {
	blocks := make([]Block, 0, len(song.Blocks)+3)
	blocks = append(blocks, Block{Kind: Title, Text: html.EscapeString(song.Title)})
	if song.Tone != "" {
		blocks = append(blocks, Block{Kind: Tone, Text: html.EscapeString(a.Labels.Tone + ": " + song.Tone)})
	}
	blocks = append(blocks, Block{Kind: Spacer, Size: BaseFontSize})
	blocks = append(blocks, song.Blocks...)

	mode := SingleColumn
	if song.TwoColumns {
		mode = DoubleColumn
	}
	return a.compiler().Compile(blocks, mode)
}

func (a *Assembler) songSection(song *Song) (Section, error) {
	units, err := a.songUnits(song)
	if err != nil {
		return Section{}, err
	}
	return a.selector().Song(song, units), nil
}
