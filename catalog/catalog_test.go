package catalog

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opd-ai/chordbook/songbook"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

var fixture = map[string]string{
	"chords/artists/band.yml":      "name: The Band\ncolor: 0x336699\nimage: img/band.jpg\n",
	"chords/artists/writer.yaml":   "name: Writer\nslug: the-writer\ncolor: '#ff0000'\n",
	"chords/artists/nameless.yml":  "color: 0x000000\n",
	"chords/songs/alpha.yml":       "title: Alpha\ntone: G\nperformer-slug: band\ncomposer-slug: the-writer\nmodified: 2020-03-04\nsong: |\n  ```\n  G   C\n  la la\n  ```\n",
	"chords/songs/bravo.yml":       "title: Bravo\ntone: D\nperformer-slug: band\ncomposer-slug: band\ntwo-columns: true\nsong: text\n",
	"chords/songs/charlie.yml":     "title: Charlie\ntone: A\nperformer-slug: ghost\nsong: text\n",
	"chords/songs/draft/wip.yml":   "title: WIP\ntone: C\nsong: text\n",
	"chords/songs/notes.txt":       "ignored",
	"chords/collections/best.yml":  "title: Best\nsong-slugs: [bravo, missing, alpha]\n",
	"chords/collections/empty.yml": "title: Empty\nsong-slugs: []\n",
}

func loadFixture(t *testing.T) (*Catalog, []error) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, fixture)
	repo := NewRepository(root, quiet())
	repo.Layout.Songs.Excludes = []string{filepath.Join("chords", "songs", "draft")}
	cat, problems, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	return cat, problems
}

func TestLoad(t *testing.T) {
	cat, problems := loadFixture(t)

	var slugs []string
	for _, a := range cat.Artists {
		slugs = append(slugs, a.Slug)
	}
	if diff := cmp.Diff([]string{"band", "the-writer"}, slugs); diff != "" {
		t.Errorf("artists (-want +got):\n%s", diff)
	}
	band, _ := cat.Artist("band")
	if band.Color != 0x336699 || band.Image != "img/band.jpg" {
		t.Errorf("band = %+v", band)
	}
	writer, _ := cat.Artist("the-writer")
	if writer.Color != 0xff0000 {
		t.Errorf("writer colour = %#x", writer.Color)
	}

	if len(cat.Songs) != 3 {
		t.Fatalf("loaded %d songs, want 3 (draft excluded)", len(cat.Songs))
	}
	alpha, _ := cat.Song("alpha")
	if want := time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC); !alpha.Modified.Equal(want) {
		t.Errorf("alpha modified = %v", alpha.Modified)
	}

	var validation, unresolved int
	for _, p := range problems {
		switch {
		case errors.Is(p, ErrValidation):
			validation++
		case errors.Is(p, ErrUnresolvedReference):
			unresolved++
		}
	}
	if validation != 1 || unresolved != 2 {
		t.Errorf("got %d validation and %d unresolved problems: %v", validation, unresolved, problems)
	}
}

func TestLinking(t *testing.T) {
	cat, _ := loadFixture(t)
	band, _ := cat.Artist("band")
	writer, _ := cat.Artist("the-writer")
	alpha, _ := cat.Song("alpha")
	charlie, _ := cat.Song("charlie")

	var titles []string
	for _, s := range band.Songs {
		titles = append(titles, s.Title)
	}
	// bravo names the band twice but is listed once
	if diff := cmp.Diff([]string{"Alpha", "Bravo"}, titles); diff != "" {
		t.Errorf("band songs (-want +got):\n%s", diff)
	}
	if len(writer.Songs) != 1 || writer.Songs[0] != alpha {
		t.Errorf("writer songs = %v", writer.Songs)
	}
	if alpha.Performer != band || alpha.Composer != writer {
		t.Errorf("alpha links = %v, %v", alpha.Performer, alpha.Composer)
	}
	if charlie.Performer != nil {
		t.Errorf("unresolved performer linked")
	}

	best, _ := cat.Collection("best")
	var order []string
	for _, s := range best.Songs {
		order = append(order, s.Slug)
	}
	if diff := cmp.Diff([]string{"bravo", "alpha"}, order); diff != "" {
		t.Errorf("collection songs (-want +got):\n%s", diff)
	}
}

func TestUnresolvedReferenceError(t *testing.T) {
	songs := []*Song{{Slug: "s", Source: "songs/s.yml", PerformerSlug: "nobody"}}
	_, problems := Link(nil, songs, nil, quiet())
	if len(problems) != 1 {
		t.Fatalf("problems = %v", problems)
	}
	var uerr *UnresolvedReferenceError
	if !errors.As(problems[0], &uerr) {
		t.Fatalf("problem %v is not an UnresolvedReferenceError", problems[0])
	}
	want := UnresolvedReferenceError{Source: "songs/s.yml", Field: "performer-slug", Slug: "nobody"}
	if *uerr != want {
		t.Errorf("error = %+v", *uerr)
	}
}

func TestValidationError(t *testing.T) {
	err := decode(KindSong, "songs/x.yml", []byte("title: X\n"), &Song{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v", err)
	}
	if diff := cmp.Diff([]string{"tone", "song"}, verr.Missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "songs/x.yml") {
		t.Errorf("message %q does not name the file", err)
	}

	if err := decode(KindArtist, "a.yml", []byte("name: [unterminated"), &Artist{}); !errors.Is(err, ErrValidation) {
		t.Errorf("syntax error = %v", err)
	}
	if err := decode(KindArtist, "a.yml", []byte("name: A\ncolor: purple\n"), &Artist{}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad colour error = %v", err)
	}
}

func TestSort(t *testing.T) {
	cat := &Catalog{
		Artists: []*Artist{{Name: "b"}, {Name: "A"}},
		Songs:   []*Song{{Title: "zeta"}, {Title: "Alpha"}},
	}
	cat.Sort(func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) })
	if cat.Artists[0].Name != "A" || cat.Songs[0].Title != "Alpha" {
		t.Errorf("sorted = %v %v", cat.Artists[0].Name, cat.Songs[0].Title)
	}
}

func TestBooksAndGroups(t *testing.T) {
	cat, _ := loadFixture(t)
	alpha, _ := cat.Song("alpha")
	book := alpha.Book()
	if book.Performer.Name != "The Band" || book.Performer.Color != (songbook.RGB{R: 0x33, G: 0x66, B: 0x99}) {
		t.Errorf("performer = %+v", book.Performer)
	}
	if len(book.Blocks) != 1 || book.Blocks[0].Kind != songbook.Verse {
		t.Errorf("blocks = %+v", book.Blocks)
	}

	charlie, _ := cat.Song("charlie")
	if p := charlie.Book().Performer; p.Name != "" || p.Color != songbook.Black {
		t.Errorf("unlinked performer = %+v", p)
	}

	var names []string
	for _, g := range cat.Groups() {
		names = append(names, g.Slug+":"+strconv.Itoa(len(g.Songs)))
	}
	// the writer only composes, charlie has no performer
	if diff := cmp.Diff([]string{"band:2", "the-writer:0", "unattributed:1"}, names); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}
}
