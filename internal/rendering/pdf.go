package rendering

import (
	"bytes"
	"io"

	"github.com/go-pdf/fpdf"
)

// pdfCreator is written to the PDF creator metadata.
const pdfCreator = "profile_agent"

// WritePDF draws the document onto A4 pages and writes the PDF to w.
func (d *Document) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(d.Title, true)
	pdf.SetAuthor(d.Author, true)
	pdf.SetCreator(pdfCreator, true)
	if !d.CreatedAt.IsZero() {
		pdf.SetCreationDate(d.CreatedAt)
		pdf.SetModificationDate(d.CreatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range d.Pages {
		pdf.AddPage()
		for _, p := range page.Primitives {
			switch p.Kind {
			case KindRect:
				pdf.SetFillColor(p.Color.R, p.Color.G, p.Color.B)
				pdf.Rect(p.X, p.Y, p.W, p.H, "F")
			case KindText:
				pdf.SetFont(fontFamily, string(p.Style), p.Size)
				pdf.SetTextColor(p.Color.R, p.Color.G, p.Color.B)
				pdf.Text(p.X, p.Y, tr(p.Text))
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return &RenderError{Message: "failed to draw document", Cause: err}
	}
	if err := pdf.Output(w); err != nil {
		return &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return nil
}

// PDF returns the document encoded as PDF.
func (d *Document) PDF() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WritePDF(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
