package songbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func quietAssembler() *Assembler {
	return NewAssembler(DefaultStyles(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func verse(lines int) Block {
	return Block{Kind: Verse, Text: strings.TrimSuffix(strings.Repeat("la la la\n", lines), "\n")}
}

func testSong(slug string, twoColumns bool, blocks ...Block) Song {
	return Song{
		Slug:       slug,
		Title:      strings.ToUpper(slug[:1]) + slug[1:],
		Tone:       "G",
		TwoColumns: twoColumns,
		Performer:  Performer{Name: "The Band", Color: DecodeColor(0x336699)},
		Blocks:     blocks,
	}
}

// titlePages maps every placed title to the page it ended up on.
func titlePages(doc *Document) map[string]int {
	res := map[string]int{}
	for _, p := range doc.Pages {
		for _, pl := range p.Placed {
			if pl.Unit.Kind == Title {
				res[pl.Unit.PlainText()] = p.Number
			}
		}
	}
	return res
}

var testCover = Cover{Title: "Artist", Subtitle: "The Band", Compiled: "16/10/2026", URL: "http://example.com/band.pdf"}

func TestChordbookEndToEnd(t *testing.T) {
	songs := []Song{
		testSong("alpha", false, verse(4), Block{Kind: Chorus, Text: "oh\noh"}),
		// title, tone and spacer take 53 pt: five 130 pt verses fit on
		// the first page, the other three move to the next one
		testSong("bravo", false, verse(10), verse(10), verse(10), verse(10), verse(10), verse(10), verse(10), verse(10)),
		testSong("charlie", true, verse(6), Block{Kind: Tablature, Text: "e|---0---|"}),
	}
	doc, err := quietAssembler().Chordbook(testCover, songs, Meta{Title: "Songs"})
	if err != nil {
		t.Fatal(err)
	}

	if got := doc.PageCount(); got != 6 {
		t.Fatalf("page count = %d, want cover + toc + 1 + 2 + 1", got)
	}
	want := []TOCEntry{
		{Title: "Alpha", Key: "song-title-1", Page: 3},
		{Title: "Bravo", Key: "song-title-2", Page: 4},
		{Title: "Charlie", Key: "song-title-3", Page: 6},
	}
	if diff := cmp.Diff(want, doc.TOC); diff != "" {
		t.Errorf("toc (-want +got):\n%s", diff)
	}
	if len(doc.Stale) != 0 {
		t.Errorf("unexpected stale entries: %+v", doc.Stale)
	}

	templates := make([]TemplateID, len(doc.Pages))
	for i, p := range doc.Pages {
		templates[i] = p.Template
	}
	wantTemplates := []TemplateID{TemplateCover, TemplateTOC, TemplateSongFirst, TemplateSongFirst, TemplateSongNext, TemplateSongFirst}
	if diff := cmp.Diff(wantTemplates, templates); diff != "" {
		t.Errorf("templates (-want +got):\n%s", diff)
	}
	if len(doc.Pages[5].Frames) != 2 {
		t.Errorf("two column song has %d frames", len(doc.Pages[5].Frames))
	}
}

func TestTOCMatchesTitlePages(t *testing.T) {
	var songs []Song
	for i := 0; i < 12; i++ {
		songs = append(songs, testSong(fmt.Sprintf("song%02d", i), i%3 == 0, verse(5+i*7)))
	}
	doc, err := quietAssembler().Chordbook(testCover, songs, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	actual := titlePages(doc)
	if len(doc.TOC) != len(songs) {
		t.Fatalf("toc has %d entries, want %d", len(doc.TOC), len(songs))
	}
	for i, e := range doc.TOC {
		if e.Title != songs[i].Title {
			t.Errorf("entry %d is %q, want %q", i, e.Title, songs[i].Title)
		}
		if actual[e.Title] != e.Page {
			t.Errorf("%s listed on page %d, printed on %d", e.Title, e.Page, actual[e.Title])
		}
	}
}

func TestLongTOCReportsDrift(t *testing.T) {
	// 60 rows of 18 pt need two TOC pages, the placeholder only one
	var songs []Song
	for i := 0; i < 60; i++ {
		songs = append(songs, testSong(fmt.Sprintf("s%02d", i), false, verse(2)))
	}
	var logs bytes.Buffer
	a := NewAssembler(DefaultStyles(), slog.New(slog.NewTextHandler(&logs, nil)))
	doc, err := a.Chordbook(testCover, songs, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Stale) != len(songs) {
		t.Fatalf("got %d stale entries, want %d", len(doc.Stale), len(songs))
	}
	for i, s := range doc.Stale {
		if s.Page != i+3 || s.Actual != i+4 {
			t.Errorf("stale %d: listed %d actual %d", i, s.Page, s.Actual)
		}
	}
	if n := strings.Count(logs.String(), "table of contents entry is stale"); n != len(songs) {
		t.Errorf("logged %d stale warnings", n)
	}
}

func TestPageNumbering(t *testing.T) {
	songs := []Song{testSong("one", false, verse(80)), testSong("two", true, verse(3))}
	doc, err := quietAssembler().Chordbook(testCover, songs, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d numbered %d", i, p.Number)
		}
		want := SchemeArabic
		if i < 2 {
			want = SchemeRoman
		}
		if p.Scheme != want {
			t.Errorf("page %d scheme %v, want %v", p.Number, p.Scheme, want)
		}
	}
	labels := []string{}
	for _, p := range doc.Pages[:3] {
		l, _ := p.Label()
		labels = append(labels, l)
	}
	if diff := cmp.Diff([]string{"i", "ii", "3"}, labels); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestCatalogueSkipsEmptyGroups(t *testing.T) {
	var logs bytes.Buffer
	a := NewAssembler(DefaultStyles(), slog.New(slog.NewTextHandler(&logs, nil)))
	groups := []Group{
		{Slug: "full", Name: "Full", Songs: []Song{testSong("one", false, verse(2))}},
		{Slug: "empty", Name: "Empty"},
		{Slug: "more", Name: "More", Songs: []Song{testSong("two", false, verse(2))}},
	}
	doc, err := a.Catalogue(testCover, groups, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.TOC) != 2 {
		t.Errorf("toc has %d entries", len(doc.TOC))
	}
	out := logs.String()
	if n := strings.Count(out, "skipping empty group"); n != 1 {
		t.Errorf("logged %d skip notices, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "slug=empty") {
		t.Errorf("skip notice does not name the group:\n%s", out)
	}

	_, err = a.Catalogue(testCover, []Group{{Slug: "none"}}, Meta{})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("all-empty catalogue error = %v", err)
	}
}

func TestSingleSong(t *testing.T) {
	doc, err := quietAssembler().Song(testSong("solo", false, verse(3)), Meta{Title: "Solo"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.PageCount() != 1 || doc.Pages[0].Number != 1 || doc.Pages[0].Template != TemplateSongFirst {
		t.Fatalf("unexpected pages: %+v", doc.Pages)
	}
	units := doc.Units()
	if units[0].Unit.Anchor != "song-title-1" {
		t.Errorf("title anchor = %q", units[0].Unit.Anchor)
	}
	if got := units[1].Unit.PlainText(); got != "Tone: G" {
		t.Errorf("tone line = %q", got)
	}
	if units[2].Unit.Kind != Spacer || units[2].Unit.Height != BaseFontSize {
		t.Errorf("missing spacer after the tone line")
	}
}

func TestSongFailureNamesSong(t *testing.T) {
	bad := testSong("broken", false, Block{Kind: Verse, Text: "x", Style: "nope"})
	_, err := quietAssembler().Chordbook(testCover, []Song{testSong("fine", false), bad}, Meta{})
	if !errors.Is(err, ErrUnknownStyle) || !strings.Contains(err.Error(), "broken") {
		t.Errorf("error = %v", err)
	}
}
