package songbook

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileVerseKeepsLines(t *testing.T) {
	c := NewCompiler(DefaultStyles())
	u, err := c.Unit(Block{Kind: Verse, Text: "C    G\nla la la\n\n  Am\n"}, SingleColumn)
	if err != nil {
		t.Fatal(err)
	}
	want := []Line{{{Text: "C    G"}}, {{Text: "la la la"}}, {{Text: ""}}, {{Text: "  Am"}}}
	if diff := cmp.Diff(want, u.Lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	if u.Height != 4*13 {
		t.Errorf("height = %v, want %v", u.Height, 4*13)
	}
}

func TestCompileWrapsDoubleColumn(t *testing.T) {
	c := NewCompiler(DefaultStyles())
	long := strings.Repeat("word ", 20)
	u, err := c.Unit(Block{Kind: Verse, Text: long}, DoubleColumn)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range u.Lines {
		if n := len(l.Text()); n > 41 {
			t.Errorf("line %q has %d characters", l.Text(), n)
		}
	}
	single, err := c.Unit(Block{Kind: Verse, Text: long}, SingleColumn)
	if err != nil {
		t.Fatal(err)
	}
	if len(single.Lines) >= len(u.Lines) {
		t.Errorf("single column wraps into %d lines, double into %d", len(single.Lines), len(u.Lines))
	}
}

func TestCompileSpacing(t *testing.T) {
	c := NewCompiler(DefaultStyles())
	u, err := c.Unit(Block{Kind: Chorus, Text: "a\nb"}, SingleColumn)
	if err != nil {
		t.Fatal(err)
	}
	if u.Height != 10+2*13+10 {
		t.Errorf("chorus height = %v", u.Height)
	}
	s, err := c.Unit(Block{Kind: Spacer, Size: 42}, SingleColumn)
	if err != nil {
		t.Fatal(err)
	}
	if s.Height != 42 {
		t.Errorf("spacer height = %v", s.Height)
	}
}

func TestCompileMarkup(t *testing.T) {
	c := NewCompiler(DefaultStyles())
	u, err := c.Unit(Block{Kind: Title, Text: "<b>Bold</b> and <i>it</i><br/>second"}, SingleColumn)
	if err != nil {
		t.Fatal(err)
	}
	want := []Line{
		{{Text: "Bold", Bold: true}, {Text: " and"}, {Text: " it", Italic: true}},
		{{Text: "second"}},
	}
	if diff := cmp.Diff(want, u.Lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
	if u.Style != StyleSongTitle || u.Height != 2*26 {
		t.Errorf("got style %q height %v", u.Style, u.Height)
	}
}

func TestBudgetScalesWithSize(t *testing.T) {
	styles := DefaultStyles()
	title, _ := styles.Resolve(StyleSongTitle)
	verse, _ := styles.Resolve(StyleVerse)
	w := DefaultColumnWidths
	if got := w.Budget(SingleColumn, verse); got != 85 {
		t.Errorf("verse budget = %d", got)
	}
	if got := w.Budget(DoubleColumn, verse); got != 41 {
		t.Errorf("double verse budget = %d", got)
	}
	if got := w.Budget(SingleColumn, title); got != 42 {
		t.Errorf("title budget = %d", got)
	}
}

func TestCompileUnrenderable(t *testing.T) {
	c := NewCompiler(DefaultStyles())
	_, err := c.Compile([]Block{
		{Kind: Verse, Text: "ok"},
		{Kind: Verse, Text: "bad", Style: "no-such-style"},
	}, SingleColumn)
	var uerr *UnrenderableBlockError
	if !errors.As(err, &uerr) {
		t.Fatalf("error = %v, want UnrenderableBlockError", err)
	}
	if uerr.Index != 1 {
		t.Errorf("index = %d, want 1", uerr.Index)
	}
	if !errors.Is(err, ErrUnrenderable) || !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("error %v does not match both sentinels", err)
	}

	if _, err := c.Unit(Block{Kind: BlockKind(99), Text: "x"}, SingleColumn); !errors.Is(err, ErrUnrenderable) {
		t.Errorf("unknown kind error = %v", err)
	}
}
