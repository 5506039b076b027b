// Package rendering lays out business profiles as paginated documents and writes them as PDF.
package rendering

import (
	"time"

	"github.com/jonathan/venture-profile/internal/types"
)

// Page geometry in millimetres (A4 portrait).
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	TopMargin  = 20.0

	leftColumn   = 20.0
	rightColumn  = PageWidth/2 + 10
	contentWidth = PageWidth - 40
	panelX       = 15.0
	panelWidth   = PageWidth - 30

	// lineHeightFactor converts a font size in points to a line advance in mm.
	lineHeightFactor = 0.4

	// MaxFundingRounds is the number of rounds shown in the table.
	MaxFundingRounds = 5
)

// Font sizes in points.
const (
	sizeBanner  = 24.0
	sizeName    = 20.0
	sizeHeading = 16.0
	sizeTagline = 12.0
	sizeBody    = 10.0
	sizeFooter  = 8.0
)

var (
	colorBrand   = Color{59, 130, 246}
	colorPanel   = Color{248, 250, 252}
	colorHeading = Color{51, 65, 85}
	colorText    = Color{0, 0, 0}
	colorInverse = Color{255, 255, 255}
)

// breakThresholds is the space, measured up from the bottom edge, that must
// be left before a section starts; otherwise a new page is started. These
// are fixed guesses, not measured content heights, so an unusually tall
// section can still overflow its page.
var breakThresholds = map[Section]float64{
	SectionFounder:         60,
	SectionCharacteristics: 80,
	SectionContact:         80,
	SectionFundingRounds:   100,
}

// panelHeights are the fixed heights of the shaded section backgrounds.
// Content is not measured against them.
var panelHeights = map[Section]float64{
	SectionOverview:  80,
	SectionFounder:   50,
	SectionFinancial: 60,
	SectionContact:   50,
}

// LayoutContext is the layout cursor: the vertical offset of the next block
// on the current page.
type LayoutContext struct {
	Y float64
}

// block is one section of the document. applies reports whether it is drawn
// for the input; a nil applies means always. When breakAlways is set the page
// break check runs even if the block is skipped, so the blocks after it see
// the same cursor either way.
type block struct {
	section     Section
	applies     func(*input) bool
	breakAlways bool
	draw        func(*layout, LayoutContext) LayoutContext
}

// blocks is the fixed section order of the document.
var blocks = []block{
	{section: SectionHeader, draw: (*layout).drawHeader},
	{section: SectionTitle, draw: (*layout).drawTitle},
	{section: SectionOverview, draw: (*layout).drawOverview},
	{section: SectionDescription, applies: hasDescription, draw: (*layout).drawDescription},
	{section: SectionFounder, applies: hasFounder, breakAlways: true, draw: (*layout).drawFounder},
	{section: SectionFinancial, draw: (*layout).drawFinancial},
	{section: SectionCharacteristics, draw: (*layout).drawCharacteristics},
	{section: SectionInnovation, applies: hasInnovationNote, draw: (*layout).drawInnovation},
	{section: SectionContact, draw: (*layout).drawContact},
	{section: SectionFundingRounds, applies: hasRounds, draw: (*layout).drawFundingRounds},
	{section: SectionFooter, draw: (*layout).drawFooter},
}

// input is what one layout pass draws from.
type input struct {
	profile *types.CompanyProfile
	rounds  []types.FundingRound
	now     time.Time
}

func hasDescription(in *input) bool    { return in.profile.Description != "" }
func hasFounder(in *input) bool        { return in.profile.FounderName != "" }
func hasInnovationNote(in *input) bool { return in.profile.HasInnovationNote() }
func hasRounds(in *input) bool         { return len(in.rounds) > 0 }

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for generation stamps and business age.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(e *Engine) { e.author = author }
}

// Engine lays out business profiles. It holds only configuration and is safe
// for concurrent use; every Layout call owns its own cursor and document.
type Engine struct {
	now    func() time.Time
	author string
}

// NewEngine creates a layout engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout produces the document for a profile and its funding rounds. Absent
// fields are rendered with placeholder text; layout itself cannot fail.
func (e *Engine) Layout(profile *types.CompanyProfile, rounds []types.FundingRound) *Document {
	if profile == nil {
		profile = &types.CompanyProfile{}
	}
	now := e.now()

	l := &layout{
		doc: &Document{
			Title:     titleName(profile) + " Business Profile",
			Author:    e.author,
			CreatedAt: now,
		},
		in:      &input{profile: profile, rounds: rounds, now: now},
		measure: newTextMeasurer(),
	}
	l.doc.addPage()

	lc := LayoutContext{Y: TopMargin}
	for _, b := range blocks {
		ok := b.applies == nil || b.applies(l.in)
		if threshold, has := breakThresholds[b.section]; has && (ok || b.breakAlways) {
			lc = l.breakIfNeeded(lc, threshold)
		}
		if !ok {
			continue
		}
		l.section = b.section
		lc = b.draw(l, lc)
		l.doc.Sections = append(l.doc.Sections, b.section)
	}

	return l.doc
}

func titleName(p *types.CompanyProfile) string {
	if p.Name == "" {
		return "Company Name"
	}
	return p.Name
}

// layout is the state of a single layout pass.
type layout struct {
	doc     *Document
	in      *input
	measure *textMeasurer
	section Section
}

// breakIfNeeded starts a new page when the cursor is within threshold of the
// bottom edge.
func (l *layout) breakIfNeeded(lc LayoutContext, threshold float64) LayoutContext {
	if lc.Y > PageHeight-threshold {
		l.doc.addPage()
		return LayoutContext{Y: TopMargin}
	}
	return lc
}

func (l *layout) text(x, y float64, s string, style FontStyle, size float64, c Color) {
	l.doc.draw(Primitive{
		Kind:    KindText,
		Section: l.section,
		X:       x,
		Y:       y,
		Text:    s,
		Style:   style,
		Size:    size,
		Color:   c,
	})
}

func (l *layout) rect(x, y, w, h float64, c Color) {
	l.doc.draw(Primitive{
		Kind:    KindRect,
		Section: l.section,
		X:       x,
		Y:       y,
		W:       w,
		H:       h,
		Color:   c,
	})
}

// wrapped draws text wrapped to maxWidth and returns the y below the last line.
func (l *layout) wrapped(x, y, maxWidth float64, s string, style FontStyle, size float64, c Color) float64 {
	lines := l.measure.split(s, style, size, maxWidth)
	step := size * lineHeightFactor
	for i, line := range lines {
		l.text(x, y+float64(i)*step, line, style, size, c)
	}
	return y + float64(len(lines))*step
}

// field draws a bold label followed by a regular value at x+offset.
func (l *layout) field(x, y, offset float64, label, value string) {
	l.text(x, y, label, Bold, sizeBody, colorText)
	l.text(x+offset, y, value, Regular, sizeBody, colorText)
}

func (l *layout) heading(x, y float64, title string) {
	l.text(x, y, title, Bold, sizeHeading, colorHeading)
}
