// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/venture-profile/internal/export"
	"github.com/jonathan/venture-profile/internal/format"
	"github.com/jonathan/venture-profile/internal/rendering"
	"github.com/jonathan/venture-profile/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// PrintProfile outputs a human-readable summary of a business profile and
// its funding rounds.
func (p *Printer) PrintProfile(profile *types.CompanyProfile, rounds []types.FundingRound) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", format.OrNotSpecified(profile.Name)))
	sb.WriteString(fmt.Sprintf("Sector:   %s\n", format.OrNotSpecified(profile.Sector)))
	sb.WriteString(fmt.Sprintf("Stage:    %s\n", format.OrNotSpecified(profile.Stage)))
	sb.WriteString(fmt.Sprintf("Founded:  %s\n", format.Date(profile.FoundedAt)))
	sb.WriteString(fmt.Sprintf("Raised:   %s\n", format.Currency(profile.AmountRaised)))
	sb.WriteString(fmt.Sprintf("Needed:   %s\n", format.Currency(profile.FundingNeeded)))

	if traits := profile.Characteristics(); len(traits) > 0 {
		sb.WriteString("\nCharacteristics:\n")
		for _, t := range traits {
			sb.WriteString(fmt.Sprintf("  • %s\n", t))
		}
	}

	if len(rounds) > 0 {
		sb.WriteString(fmt.Sprintf("\nFunding rounds: %d\n", len(rounds)))
		count := min(len(rounds), maxItemsToShow)
		for i := 0; i < count; i++ {
			r := rounds[i]
			sb.WriteString(fmt.Sprintf("  • %s  %s  %s\n",
				format.OrNotAvailable(r.RoundType), format.Currency(r.Amount), format.Date(r.Date)))
		}
		if len(rounds) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more (not shown in PDF)\n", len(rounds)-maxItemsToShow))
		}
	}

	p.printBox("BUSINESS PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs page and section statistics for a laid-out document.
func (p *Printer) PrintDocument(doc *rendering.Document, size int) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", doc.Title))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", doc.PageCount()))
	if size > 0 {
		sb.WriteString(fmt.Sprintf("Size:     %.1f KB\n", float64(size)/1024))
	}
	sb.WriteString("\nSections:\n")
	for _, s := range doc.Sections {
		sb.WriteString(fmt.Sprintf("  p%d  %s\n", doc.SectionPage(s), s))
	}

	p.printBox("RENDERED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchResults outputs the outcome of a batch export.
func (p *Printer) PrintBatchResults(results []export.Result) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	sb.WriteString(fmt.Sprintf("Exported: %d   Failed: %d\n\n", len(results)-failed, failed))

	for _, r := range results {
		if r.Err != nil {
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", filepath.Base(r.Source), r.Err))
		} else {
			sb.WriteString(fmt.Sprintf("✓ %s\n", filepath.Base(r.Source)))
		}
	}

	p.printBox("BATCH EXPORT", strings.TrimSuffix(sb.String(), "\n"))
}
