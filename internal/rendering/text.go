package rendering

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

// fontFamily is the core font used for all text.
const fontFamily = "Helvetica"

// textMeasurer wraps text using the metrics of the core font. It holds an
// fpdf instance that is never written out, so each layout gets its own.
type textMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newTextMeasurer() *textMeasurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &textMeasurer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// width returns the rendered width of s in millimetres.
func (m *textMeasurer) width(s string, style FontStyle, size float64) float64 {
	m.pdf.SetFont(fontFamily, string(style), size)
	return m.pdf.GetStringWidth(m.tr(s))
}

// split breaks text into lines no wider than maxWidth. Explicit newlines
// start a new line; words wider than maxWidth are broken between runes.
func (m *textMeasurer) split(text string, style FontStyle, size, maxWidth float64) []string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			for m.width(word, style, size) > maxWidth {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				head, tail := m.breakWord(word, style, size, maxWidth)
				lines = append(lines, head)
				word = tail
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.width(candidate, style, size) <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// breakWord returns the longest prefix of word that fits, keeping at least one rune.
func (m *textMeasurer) breakWord(word string, style FontStyle, size, maxWidth float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.width(string(runes[:n+1]), style, size) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
