package songbook

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ImageSource hands out artwork by key.
type ImageSource interface {
	Image(key string) (Image, bool)
}

// Writer renders documents to PDF with gofpdf.
type Writer struct {
	Context RenderContext
	Styles  *StyleRegistry
	Images  ImageSource
}

// NewWriter returns a writer drawing pages with rc. Artwork comes from
// images; a nil images prints pages without artwork.
func NewWriter(rc RenderContext, styles *StyleRegistry, images *ArtworkResolver) *Writer {
	w := &Writer{Context: rc, Styles: styles}
	if images != nil {
		w.Images = images
		w.Context.Artwork = images
	}
	return w
}

// pdfPage carries the per-document gofpdf state.
type pdfPage struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	links      map[string]int
	registered map[string]bool
	images     ImageSource
}

// Write renders doc to out.
func (w *Writer) Write(doc *Document, out io.Writer) error {
	if doc == nil || len(doc.Pages) == 0 {
		return ErrEmptyDocument
	}
	g := w.Context.Geometry
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetAuthor(doc.Meta.Author, true)
	pdf.SetTitle(doc.Meta.Title, true)
	pdf.SetSubject(doc.Meta.Subject, true)
	pdf.SetCreator(doc.Meta.Creator, true)

	st := &pdfPage{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		links:      make(map[string]int),
		registered: make(map[string]bool),
		images:     w.Images,
	}
	// links must exist before the table of contents refers to them
	for _, pl := range doc.Units() {
		if pl.Unit.Anchor != "" {
			st.links[pl.Unit.Anchor] = pdf.AddLink()
		}
	}

	for _, p := range doc.Pages {
		pdf.AddPage()
		cmds, err := Decorate(p, w.Context)
		if err != nil {
			return fmt.Errorf("page %d: %w", p.Number, err)
		}
		for _, pl := range p.Placed {
			if pl.Unit.Kind == Spacer {
				continue
			}
			style, err := w.Styles.Resolve(pl.Unit.Style)
			if err != nil {
				return fmt.Errorf("page %d: %w", p.Number, err)
			}
			cmds = append(cmds, UnitCommands(pl, p.Frames[pl.Frame], style)...)
		}
		for _, c := range cmds {
			st.draw(c)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("page %d: %w", p.Number, err)
		}
	}
	return pdf.Output(out)
}

// Bytes renders doc into memory.
func (w *Writer) Bytes(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *pdfPage) draw(c DrawCommand) {
	pdf := s.pdf
	switch c.Op {
	case OpRect:
		s.shapeColors(c)
		pdf.Rect(c.X, c.Y, c.W, c.H, c.Style)
	case OpRoundRect:
		s.shapeColors(c)
		pdf.RoundedRect(c.X, c.Y, c.W, c.H, c.R, "1234", c.Style)
	case OpCircle:
		s.shapeColors(c)
		pdf.Circle(c.X, c.Y, c.R, c.Style)
	case OpLine:
		pdf.SetDrawColor(int(c.Stroke.R), int(c.Stroke.G), int(c.Stroke.B))
		pdf.SetLineWidth(c.LineWidth)
		pdf.SetLineCapStyle("round")
		if c.Alpha > 0 {
			pdf.SetAlpha(c.Alpha, "Normal")
		}
		pdf.Line(c.X, c.Y, c.X2, c.Y2)
		if c.Alpha > 0 {
			pdf.SetAlpha(1, "Normal")
		}
		pdf.SetLineCapStyle("butt")
	case OpText:
		if c.Rotate != 0 {
			pdf.TransformBegin()
			pdf.TransformRotate(c.Rotate, c.X, c.Y)
			s.text(c)
			pdf.TransformEnd()
		} else {
			s.text(c)
		}
	case OpLeader:
		s.leader(c)
	case OpImage:
		s.image(c)
	case OpLink:
		if id, ok := s.links[c.Key]; ok {
			pdf.Link(c.X, c.Y, c.W, c.H, id)
		}
	case OpAnchor:
		if id, ok := s.links[c.Key]; ok {
			pdf.SetLink(id, c.Y, -1)
		}
		title := ""
		if len(c.Runs) > 0 {
			title = strings.ReplaceAll(Line(c.Runs).Text(), "\n", " ")
		}
		pdf.Bookmark(s.tr(title), 0, c.Y)
	}
}

func (s *pdfPage) shapeColors(c DrawCommand) {
	s.pdf.SetFillColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
	s.pdf.SetDrawColor(int(c.Stroke.R), int(c.Stroke.G), int(c.Stroke.B))
	if c.LineWidth > 0 {
		s.pdf.SetLineWidth(c.LineWidth)
	}
}

// runStyle merges the inline variant of a run into the font style.
func runStyle(f Font, r Run) string {
	bold := r.Bold || strings.Contains(f.Style, "B")
	italic := r.Italic || strings.Contains(f.Style, "I")
	switch {
	case bold && italic:
		return "BI"
	case bold:
		return "B"
	case italic:
		return "I"
	}
	return ""
}

func (s *pdfPage) runsWidth(c DrawCommand, runs []Run) float64 {
	width := 0.0
	for _, r := range runs {
		s.pdf.SetFont(c.Font.Family, runStyle(c.Font, r), c.Size)
		width += s.pdf.GetStringWidth(s.tr(r.Text))
	}
	return width
}

func (s *pdfPage) text(c DrawCommand) {
	x := c.X
	switch c.Align {
	case AlignCenter:
		x -= s.runsWidth(c, c.Runs) / 2
	case AlignRight:
		x -= s.runsWidth(c, c.Runs)
	}
	s.pdf.SetTextColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
	for _, r := range c.Runs {
		txt := s.tr(r.Text)
		s.pdf.SetFont(c.Font.Family, runStyle(c.Font, r), c.Size)
		s.pdf.Text(x, c.Y, txt)
		x += s.pdf.GetStringWidth(txt)
	}
}

// leader draws the dots after the runs and the trailer flush right.
func (s *pdfPage) leader(c DrawCommand) {
	pdf := s.pdf
	start := c.X + s.runsWidth(c, c.Runs)
	pdf.SetFont(c.Font.Family, c.Font.Style, c.Size)
	trailer := s.tr(c.Trailer)
	tw := pdf.GetStringWidth(trailer)
	pdf.SetTextColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
	pdf.Text(c.X2-tw, c.Y, trailer)

	gap := pdf.GetStringWidth(" ")
	dot := pdf.GetStringWidth(" .")
	end := c.X2 - tw - gap
	if n := int((end - start - gap) / dot); n > 0 {
		dots := strings.Repeat(" .", n)
		pdf.Text(end-float64(n)*dot, c.Y, dots)
	}
}

func (s *pdfPage) image(c DrawCommand) {
	if s.images == nil {
		return
	}
	img, ok := s.images.Image(c.Image)
	if !ok {
		if img, ok = s.images.Image(PlaceholderKey); !ok {
			return
		}
	}
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	if !s.registered[img.Key] {
		s.pdf.RegisterImageOptionsReader(img.Key, opts, bytes.NewReader(img.Data))
		s.registered[img.Key] = true
	}
	s.pdf.ImageOptions(img.Key, c.X, c.Y, c.W, c.H, false, opts, 0, "")
}
