package rendering

import (
	"slices"
	"time"
)

// Section identifies a block of the business profile document.
type Section string

// Sections in the order they are laid out.
const (
	SectionHeader          Section = "header"
	SectionTitle           Section = "title"
	SectionOverview        Section = "overview"
	SectionDescription     Section = "description"
	SectionFounder         Section = "founder"
	SectionFinancial       Section = "financial"
	SectionCharacteristics Section = "characteristics"
	SectionInnovation      Section = "innovation"
	SectionContact         Section = "contact"
	SectionFundingRounds   Section = "funding_rounds"
	SectionFooter          Section = "footer"
)

// FontStyle is a core font style: regular, bold or italic.
type FontStyle string

// Font styles understood by the PDF writer.
const (
	Regular FontStyle = ""
	Bold    FontStyle = "B"
	Italic  FontStyle = "I"
)

// Color is an RGB color with 0-255 components.
type Color struct {
	R, G, B int
}

// PrimitiveKind distinguishes drawn primitives.
type PrimitiveKind int

const (
	// KindText is a single line of text with its baseline at Y.
	KindText PrimitiveKind = iota
	// KindRect is a filled rectangle.
	KindRect
)

// Primitive is one positioned drawing operation. Coordinates are millimetres
// from the top-left corner of the page.
type Primitive struct {
	Kind    PrimitiveKind
	Section Section
	X, Y    float64
	W, H    float64 // rectangles only
	Text    string  // text only
	Style   FontStyle
	Size    float64 // font size in points
	Color   Color   // text color or fill color
}

// Page holds the primitives drawn on one page, in drawing order.
type Page struct {
	Primitives []Primitive
}

// Document is the laid-out business profile. It is produced by Engine.Layout
// and is not modified afterwards.
type Document struct {
	Title     string
	Author    string
	CreatedAt time.Time
	Pages     []Page
	// Sections lists the sections that were drawn, in order.
	Sections []Section
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// HasSection reports whether the section was drawn.
func (d *Document) HasSection(s Section) bool {
	return slices.Contains(d.Sections, s)
}

// Texts returns every text line in the document, in drawing order.
func (d *Document) Texts() []string {
	var out []string
	for _, page := range d.Pages {
		for _, p := range page.Primitives {
			if p.Kind == KindText {
				out = append(out, p.Text)
			}
		}
	}
	return out
}

// SectionTexts returns the text lines drawn by one section, in drawing order.
func (d *Document) SectionTexts(s Section) []string {
	var out []string
	for _, page := range d.Pages {
		for _, p := range page.Primitives {
			if p.Kind == KindText && p.Section == s {
				out = append(out, p.Text)
			}
		}
	}
	return out
}

// SectionPage returns the 1-based page on which a section starts, or 0 when
// the section was not drawn.
func (d *Document) SectionPage(s Section) int {
	for i, page := range d.Pages {
		for _, p := range page.Primitives {
			if p.Section == s {
				return i + 1
			}
		}
	}
	return 0
}

// page returns the current (last) page, creating the first one if needed.
func (d *Document) page() *Page {
	if len(d.Pages) == 0 {
		d.Pages = append(d.Pages, Page{})
	}
	return &d.Pages[len(d.Pages)-1]
}

func (d *Document) addPage() {
	d.Pages = append(d.Pages, Page{})
}

func (d *Document) draw(p Primitive) {
	page := d.page()
	page.Primitives = append(page.Primitives, p)
}
