package pdf

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Backend names a PDF decoding library used to produce text fragments
type Backend string

const (
	BackendAuto       Backend = "auto"
	BackendLedongthuc Backend = "ledongthuc"
	BackendDslipak    Backend = "dslipak"
)

// ParseBackend converts a configuration string into a Backend
func ParseBackend(s string) (Backend, bool) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendAuto:
		return BackendAuto, true
	case BackendLedongthuc:
		return BackendLedongthuc, true
	case BackendDslipak:
		return BackendDslipak, true
	}
	return "", false
}

// TextFragment is one run of glyphs placed on a page.
// Coordinates follow PDF user space: Y grows upward.
type TextFragment struct {
	Text string  `json:"text" yaml:"text"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// PageFragments holds the fragments of a single page (1-based page number)
// in the order the decoder produced them
type PageFragments struct {
	PageNumber int            `json:"page" yaml:"page"`
	Fragments  []TextFragment `json:"fragments" yaml:"fragments"`
}

// glyph is the common shape of the text items reported by the decoding libraries
type glyph struct {
	S        string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

const (
	// baselines closer than this belong to the same run
	sameBaselineTolerance = 1.0
	// a gap wider than this many glyph widths starts a new fragment (table cell boundary)
	runBreakFactor = 3.0
	// a gap wider than this many glyph widths is rendered as a space inside a run
	wordGapFactor = 0.3
)

// mergeGlyphs joins per-character text items into glyph runs.
// Decoders tend to emit one item per character; downstream line
// reconstruction expects one fragment per run of adjacent glyphs.
func mergeGlyphs(glyphs []glyph) []TextFragment {
	var (
		out          []TextFragment
		cur          strings.Builder
		curX, curY   float64
		lastEnd      float64
		open         bool
		pendingSpace bool
	)

	flush := func() {
		if !open {
			return
		}
		if text := strings.TrimSpace(cur.String()); text != "" {
			out = append(out, TextFragment{Text: text, X: curX, Y: curY})
		}
		cur.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			pendingSpace = true
			continue
		}

		charWidth := glyphWidth(g)
		if open {
			gap := g.X - lastEnd
			sameLine := math.Abs(g.Y-curY) <= sameBaselineTolerance
			switch {
			case !sameLine, gap > charWidth*runBreakFactor, gap < -charWidth:
				flush()
			case pendingSpace, gap > charWidth*wordGapFactor:
				cur.WriteByte(' ')
			}
		}
		if !open {
			curX, curY = g.X, g.Y
			open = true
		}
		cur.WriteString(g.S)
		lastEnd = g.X + g.W
		pendingSpace = false
	}
	flush()

	return out
}

func glyphWidth(g glyph) float64 {
	n := utf8.RuneCountInString(g.S)
	if n > 0 && g.W > 0 {
		return g.W / float64(n)
	}
	if g.FontSize > 0 {
		return g.FontSize * 0.5
	}
	return 1
}
