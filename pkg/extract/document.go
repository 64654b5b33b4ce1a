package extract

import (
	"strconv"
	"strings"
)

// Document is the normalized input shared by every extractor
type Document struct {
	// Text is the full text with line endings and non-breaking spaces folded
	Text string
	// Lines are the non-empty lines of Text, trimmed and space-collapsed
	Lines []string
}

// NewDocument normalizes text into a Document
func NewDocument(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\u00a0", " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = normalizeSpaces(line); line != "" {
			lines = append(lines, line)
		}
	}
	return &Document{Text: text, Lines: lines}
}

// line returns line i or "" when out of range
func (d *Document) line(i int) string {
	if i < 0 || i >= len(d.Lines) {
		return ""
	}
	return d.Lines[i]
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
