package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/pdf"
)

func TestOrganizeTextReadingOrder(t *testing.T) {
	pages := []pdf.PageFragments{{
		PageNumber: 1,
		Fragments: []pdf.TextFragment{
			{Text: "12297/PUNE DURONTO", X: 120, Y: 680.4},
			{Text: "PNR", X: 20, Y: 700},
			{Text: "1234567890", X: 20, Y: 679.1},
			{Text: "Train", X: 120, Y: 701.2},
		},
	}}

	to := NewTextOrganizer()
	assert.Equal(t, "PNR Train\n1234567890 12297/PUNE DURONTO", to.OrganizeText(pages))
}

func TestOrganizeTextPageOrder(t *testing.T) {
	pages := []pdf.PageFragments{
		{PageNumber: 2, Fragments: []pdf.TextFragment{{Text: "second", X: 0, Y: 500}}},
		{PageNumber: 1, Fragments: []pdf.TextFragment{
			{Text: "bottom", X: 0, Y: 100},
			{Text: "top", X: 0, Y: 800},
		}},
	}

	lines := NewTextOrganizer().ExtractLines(pages)
	require.Len(t, lines, 3)
	assert.Equal(t, "top", lines[0].Text)
	assert.Equal(t, "bottom", lines[1].Text)
	assert.Equal(t, "second", lines[2].Text)
	assert.Equal(t, 2, lines[2].Page)

	// input slice is left untouched
	assert.Equal(t, 2, pages[0].PageNumber)
}

func TestOrganizeTextNormalizesFragments(t *testing.T) {
	pages := []pdf.PageFragments{{
		PageNumber: 1,
		Fragments: []pdf.TextFragment{
			{Text: "AHMEDABAD JN", X: 10, Y: 300},
			{Text: "   ", X: 5, Y: 300},
			{Text: "(ＡＤＩ)", X: 90, Y: 300},
			{Text: "", X: 0, Y: 200},
		},
	}}

	assert.Equal(t, "AHMEDABAD JN (ADI)", NewTextOrganizer().OrganizeText(pages))
}

func TestOrganizeTextEqualXIsStable(t *testing.T) {
	pages := []pdf.PageFragments{{
		PageNumber: 1,
		Fragments: []pdf.TextFragment{
			{Text: "first", X: 10, Y: 50},
			{Text: "second", X: 10, Y: 50},
		},
	}}

	assert.Equal(t, "first second", NewTextOrganizer().OrganizeText(pages))
}

func TestOrganizeTextEmpty(t *testing.T) {
	to := NewTextOrganizer()
	assert.Equal(t, "", to.OrganizeText(nil))
	assert.Empty(t, to.ExtractLines([]pdf.PageFragments{{PageNumber: 1}}))
}

func TestSetBucketSize(t *testing.T) {
	to := NewTextOrganizer()
	assert.Equal(t, DefaultBucketSize, to.BucketSize())

	to.SetBucketSize(-1)
	assert.Equal(t, DefaultBucketSize, to.BucketSize())

	pages := []pdf.PageFragments{{
		PageNumber: 1,
		Fragments: []pdf.TextFragment{
			{Text: "a", X: 0, Y: 100},
			{Text: "b", X: 10, Y: 106},
		},
	}}
	assert.Equal(t, "b\na", to.OrganizeText(pages))

	to.SetBucketSize(20)
	assert.Equal(t, "a b", to.OrganizeText(pages))
}
