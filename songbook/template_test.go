package songbook

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestColumnFrames(t *testing.T) {
	g := DefaultGeometry
	frames := g.SongFrames(true)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	left, right := frames[0], frames[1]

	approx := cmpopts.EquateApprox(0, 1e-9)
	width := (g.Width() - ColumnGutter) / 2
	if !cmp.Equal(left.Width, width, approx) || !cmp.Equal(right.Width, width, approx) {
		t.Errorf("column widths %.4f and %.4f, want %.4f", left.Width, right.Width, width)
	}
	if !cmp.Equal(left.Height, g.Height(), approx) {
		t.Errorf("first column height %.4f, want %.4f", left.Height, g.Height())
	}
	if !cmp.Equal(right.Height, g.Height()-ColumnHeaderOffset, approx) {
		t.Errorf("second column height %.4f, want %.4f", right.Height, g.Height()-ColumnHeaderOffset)
	}
	if !cmp.Equal(right.X-(left.X+left.Width), ColumnGutter, approx) {
		t.Errorf("gutter %.4f, want %.4f", right.X-(left.X+left.Width), ColumnGutter)
	}
	// both columns end on the bottom margin
	if math.Abs(left.Y+left.Height-(right.Y+right.Height)) > 1e-9 {
		t.Errorf("column bottoms differ: %.4f and %.4f", left.Y+left.Height, right.Y+right.Height)
	}
}

func TestSingleColumnFrame(t *testing.T) {
	g := DefaultGeometry
	frames := g.SongFrames(false)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	want := Frame{
		ID:      "normal",
		X:       g.LeftMargin,
		Y:       g.TopMargin,
		Width:   g.Width(),
		Height:  g.Height(),
		Padding: Padding{Top: framePadding, Bottom: framePadding},
	}
	if diff := cmp.Diff(want, frames[0]); diff != "" {
		t.Errorf("single column frame (-want +got):\n%s", diff)
	}
}
