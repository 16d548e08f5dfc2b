package songbook

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, enc func(io.Writer, image.Image) error, w, h int) {
	t.Helper()
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	m.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := enc(f, m); err != nil {
		t.Fatal(err)
	}
}

func TestArtworkResolver(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "band.png"), png.Encode, 40, 20)
	writeImage(t, filepath.Join(dir, "band.bmp"), bmp.Encode, 30, 10)
	r := NewArtworkResolver(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	art := r.Artwork("band.png")
	if art.Width != 40 || art.Height != 20 || art.Key != "file:band.png" {
		t.Errorf("png artwork = %+v", art)
	}
	img, ok := r.Image(art.Key)
	if !ok || img.Type != "PNG" {
		t.Errorf("png image = %v, %v", img.Type, ok)
	}

	bart := r.Artwork("band.bmp")
	bimg, ok := r.Image(bart.Key)
	if !ok || bimg.Type != "PNG" || bart.Width != 30 {
		t.Errorf("bmp was not converted: %+v %v", bart, bimg.Type)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(bimg.Data)); err != nil {
		t.Errorf("converted data is not a PNG: %v", err)
	}
}

func TestArtworkPlaceholder(t *testing.T) {
	r := NewArtworkResolver(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, path := range []string{"", "missing.jpg"} {
		if art := r.Artwork(path); art.Key != PlaceholderKey || art.Width != placeholderSize {
			t.Errorf("Artwork(%q) = %+v, want placeholder", path, art)
		}
	}
	_, err := r.Load("missing.jpg")
	var merr *MissingAssetError
	if !errors.As(err, &merr) || merr.Path != "missing.jpg" || !errors.Is(err, ErrMissingAsset) {
		t.Errorf("Load error = %v", err)
	}
}
