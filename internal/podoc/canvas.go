package podoc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Canvas is the drawing surface the layout is written against.
type Canvas interface {
	SetFont(f Font)
	// Text draws s with its baseline at y, starting at x.
	Text(x, y float64, s string)
	// TextRight draws s with its baseline at y, ending at x.
	TextRight(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	// Image draws a with its bottom-left corner at (x, y), w wide, keeping
	// the aspect ratio.
	Image(a *Asset, x, y, w float64) error
	// SetAlpha sets the opacity of subsequent drawing. 1 is opaque.
	SetAlpha(alpha float64)
}

// Metadata is written into the PDF information dictionary.
type Metadata struct {
	Title   string
	Subject string
	Author  string
	// Date pins the creation and modification dates.
	Date time.Time
}

// PDFCanvas draws onto a one-page fpdf document.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPDFCanvas starts a US-Letter portrait document measured in inches.
func NewPDFCanvas(meta Metadata) *PDFCanvas {
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.SetCreator("po-generator", true)
	pdf.SetTitle(meta.Title, true)
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if !meta.Date.IsZero() {
		pdf.SetCreationDate(meta.Date)
		pdf.SetModificationDate(meta.Date)
	}
	pdf.AddPage()

	return &PDFCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *PDFCanvas) SetFont(f Font) {
	c.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (c *PDFCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

func (c *PDFCanvas) TextRight(x, y float64, s string) {
	t := c.tr(s)
	c.pdf.Text(x-c.pdf.GetStringWidth(t), y, t)
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) Image(a *Asset, x, y, w float64) error {
	opt := fpdf.ImageOptions{ImageType: a.Type}
	if c.pdf.GetImageInfo(a.Name) == nil {
		c.pdf.RegisterImageOptionsReader(a.Name, opt, bytes.NewReader(a.Data))
		if c.pdf.Err() {
			// fpdf keeps the first error forever; clear it so an unusable
			// image does not poison the rest of the page.
			err := c.pdf.Error()
			c.pdf.ClearError()
			return fmt.Errorf("embed image %s: %w", a.Name, err)
		}
	}
	h := a.HeightFor(w)
	c.pdf.ImageOptions(a.Name, x, y-h, w, h, false, opt, 0, "")
	return nil
}

func (c *PDFCanvas) SetAlpha(alpha float64) {
	c.pdf.SetAlpha(alpha, "Normal")
}

// Bytes closes the document and returns the encoded PDF.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
