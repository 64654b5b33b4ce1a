// Package layout rebuilds reading-order lines from positioned text fragments.
package layout

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/pdf"
)

// DefaultBucketSize absorbs sub-pixel baseline jitter between fragments of one line
const DefaultBucketSize = 4.0

// TextOrganizer organizes text fragments into lines
type TextOrganizer struct {
	bucketSize float64 // Vertical bucket used to group fragments into lines
}

// NewTextOrganizer creates a new text organizer with the default bucket size
func NewTextOrganizer() *TextOrganizer {
	return &TextOrganizer{
		bucketSize: DefaultBucketSize,
	}
}

// SetBucketSize sets the vertical bucket size. Non-positive values are ignored.
func (to *TextOrganizer) SetBucketSize(size float64) {
	if size > 0 {
		to.bucketSize = size
	}
}

// BucketSize returns the vertical bucket size in use
func (to *TextOrganizer) BucketSize() float64 {
	return to.bucketSize
}

// Line represents one reconstructed line of text
type Line struct {
	Page      int
	Y         float64
	Text      string
	Fragments []pdf.TextFragment
}

// OrganizeText organizes all pages into newline-joined text
func (to *TextOrganizer) OrganizeText(pages []pdf.PageFragments) string {
	lines := to.ExtractLines(pages)
	if len(lines) == 0 {
		return ""
	}

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(line.Text)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// ExtractLines returns the lines of every page, pages in ascending page number,
// lines top to bottom within each page
func (to *TextOrganizer) ExtractLines(pages []pdf.PageFragments) []Line {
	ordered := make([]pdf.PageFragments, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageNumber < ordered[j].PageNumber
	})

	var lines []Line
	for _, page := range ordered {
		lines = append(lines, to.pageLines(page)...)
	}
	return lines
}

// pageLines groups one page's fragments by vertical bucket
func (to *TextOrganizer) pageLines(page pdf.PageFragments) []Line {
	buckets := make(map[float64][]pdf.TextFragment)
	for _, frag := range page.Fragments {
		text := cleanFragmentText(frag.Text)
		if text == "" {
			continue
		}
		key := to.bucket(frag.Y)
		buckets[key] = append(buckets[key], pdf.TextFragment{Text: text, X: frag.X, Y: frag.Y})
	}
	if len(buckets) == 0 {
		return nil
	}

	keys := make([]float64, 0, len(buckets))
	for y := range buckets {
		keys = append(keys, y)
	}
	// PDF coordinates: Y increases upward, so the top of the page comes first
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	lines := make([]Line, 0, len(keys))
	for _, y := range keys {
		frags := buckets[y]
		sort.SliceStable(frags, func(i, j int) bool {
			return frags[i].X < frags[j].X
		})

		texts := make([]string, len(frags))
		for i, f := range frags {
			texts[i] = f.Text
		}

		lines = append(lines, Line{
			Page:      page.PageNumber,
			Y:         y,
			Text:      strings.Join(texts, " "),
			Fragments: frags,
		})
	}

	return lines
}

func (to *TextOrganizer) bucket(y float64) float64 {
	return math.Round(y/to.bucketSize) * to.bucketSize
}

// cleanFragmentText applies compatibility normalization (folds NBSP and
// full-width forms) and collapses whitespace runs
func cleanFragmentText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
