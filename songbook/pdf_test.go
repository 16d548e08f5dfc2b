package songbook

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestWriterProducesPDF(t *testing.T) {
	a := quietAssembler()
	songs := []Song{
		testSong("alpha", false, verse(4), Block{Kind: Comment, Text: "slowly"}),
		testSong("bravo", true, verse(30), Block{Kind: Chorus, Text: "oh oh"}, verse(30)),
	}
	doc, err := a.Chordbook(testCover, songs, Meta{Author: "Ed", Title: "Songs", Subject: "Lyrics and chords", Creator: "chordbook"})
	if err != nil {
		t.Fatal(err)
	}

	rc := RenderContext{
		Geometry:   DefaultGeometry,
		SiteURL:    "http://example.com",
		Labels:     DefaultLabels,
		FormatDate: func(t time.Time) string { return t.Format("2006-01-02") },
	}
	images := NewArtworkResolver(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	w := NewWriter(rc, DefaultStyles(), images)
	out, err := w.Bytes(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Errorf("output has no trailer")
	}
}

func TestWriterRejectsEmptyDocument(t *testing.T) {
	w := NewWriter(RenderContext{Geometry: DefaultGeometry}, DefaultStyles(), nil)
	if _, err := w.Bytes(&Document{}); err != ErrEmptyDocument {
		t.Errorf("error = %v", err)
	}
}
