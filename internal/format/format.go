// Package format renders profile values the way they appear in exported documents.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// NotAvailable is shown for absent amounts, dates and ages.
	NotAvailable = "N/A"
	// NotSpecified is shown for absent free-form text fields.
	NotSpecified = "Not specified"
)

// dateLayouts are tried in order when parsing stored date strings.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// OrNotSpecified returns s, or NotSpecified when s is empty.
func OrNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

// OrNotAvailable returns s, or NotAvailable when s is empty.
func OrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// YesNo renders a boolean flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Currency formats an amount as US dollars with no fractional digits,
// e.g. 1500000 -> "$1,500,000". Amounts of any magnitude keep every digit.
// Nil, zero and non-finite amounts render as NotAvailable.
func Currency(amount *float64) string {
	if amount == nil || *amount == 0 || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return NotAvailable
	}

	// Printers are not safe for concurrent use.
	p := message.NewPrinter(language.AmericanEnglish)
	v := math.Round(math.Abs(*amount))
	s := p.Sprintf("$%v", number.Decimal(v, number.MaxFractionDigits(0)))
	if *amount < 0 {
		return "-" + s
	}
	return s
}

// ParseDate parses a stored date string. It returns false for empty or
// unrecognised input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date formats a stored date string as a US short date ("3/15/2021").
func Date(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return NotAvailable
	}
	return ShortDate(t)
}

// ShortDate formats t as a US short date.
func ShortDate(t time.Time) string {
	return t.Format("1/2/2006")
}

// DateTime formats t as a US short date and time ("3/15/2021, 2:04:05 PM").
func DateTime(t time.Time) string {
	return t.Format("1/2/2006, 3:04:05 PM")
}

// BusinessAge returns the whole number of years between the founding date
// and now, e.g. "3 years". A year is only counted once its anniversary has
// been reached.
func BusinessAge(founded string, now time.Time) string {
	f, ok := ParseDate(founded)
	if !ok {
		return NotAvailable
	}

	years := now.Year() - f.Year()
	if now.Month() < f.Month() || (now.Month() == f.Month() && now.Day() < f.Day()) {
		years--
	}

	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}
