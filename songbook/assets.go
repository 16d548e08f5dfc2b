package songbook

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PlaceholderKey is the key of the image drawn when artwork is missing.
const PlaceholderKey = "placeholder"

const placeholderSize = 100

// Image is artwork in a form the PDF writer can embed. Type is the gofpdf
// image type: "PNG", "JPG" or "GIF".
type Image struct {
	Artwork
	Type string
	Data []byte
}

// ArtworkResolver loads performer artwork once and shares it between
// documents. It is safe for concurrent use.
type ArtworkResolver struct {
	// Root is the directory relative image paths are resolved against.
	Root   string
	cache  *cache.Cache
	logger *slog.Logger
}

// NewArtworkResolver returns a resolver reading images below root.
func NewArtworkResolver(root string, logger *slog.Logger) *ArtworkResolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &ArtworkResolver{
		Root:   root,
		cache:  cache.New(cache.NoExpiration, 0),
		logger: logger,
	}
	r.cache.Set(PlaceholderKey, placeholder(), cache.NoExpiration)
	return r
}

func fileKey(path string) string {
	return "file:" + path
}

// Artwork returns the artwork of path, or the placeholder when path is
// empty or cannot be loaded.
func (r *ArtworkResolver) Artwork(path string) Artwork {
	return r.resolve(path).Artwork
}

// Image returns the image stored under key.
func (r *ArtworkResolver) Image(key string) (Image, bool) {
	v, ok := r.cache.Get(key)
	if !ok {
		return Image{}, false
	}
	return v.(Image), true
}

func (r *ArtworkResolver) resolve(path string) Image {
	if path == "" {
		img, _ := r.Image(PlaceholderKey)
		return img
	}
	if img, ok := r.Image(fileKey(path)); ok {
		return img
	}
	img, err := r.Load(path)
	if err != nil {
		r.logger.Warn("using placeholder artwork", "path", path, "error", err)
		img, _ = r.Image(PlaceholderKey)
	}
	r.cache.Set(fileKey(path), img, cache.NoExpiration)
	return img
}

// Load reads and decodes the image at path. JPEG, PNG and GIF files are
// embedded as they are; BMP, TIFF and WebP are converted to PNG.
func (r *ArtworkResolver) Load(path string) (Image, error) {
	full := path
	if !filepath.IsAbs(full) && r.Root != "" {
		full = filepath.Join(r.Root, full)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return Image{}, &MissingAssetError{Path: path, Err: err}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, &MissingAssetError{Path: path, Err: err}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Image{}, &MissingAssetError{Path: path, Err: errors.New("empty image")}
	}

	img := Image{
		Artwork: Artwork{Key: fileKey(path), Width: cfg.Width, Height: cfg.Height},
		Data:    data,
	}
	switch format {
	case "jpeg":
		img.Type = "JPG"
	case "png":
		img.Type = "PNG"
	case "gif":
		img.Type = "GIF"
	default:
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return Image{}, &MissingAssetError{Path: path, Err: err}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded); err != nil {
			return Image{}, &MissingAssetError{Path: path, Err: err}
		}
		img.Type = "PNG"
		img.Data = buf.Bytes()
	}
	r.logger.Debug("loaded artwork", "path", path, "format", format,
		"size", humanize.Bytes(uint64(len(img.Data))))
	return img, nil
}

// placeholder is a plain light gray square.
func placeholder() Image {
	m := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(m, m.Bounds(), &image.Uniform{C: color.Gray{Y: 0xdd}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	// encoding an in-memory RGBA image cannot fail
	_ = png.Encode(&buf, m)
	return Image{
		Artwork: Artwork{Key: PlaceholderKey, Width: placeholderSize, Height: placeholderSize},
		Type:    "PNG",
		Data:    buf.Bytes(),
	}
}
