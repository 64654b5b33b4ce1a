package pdf

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocument returns one fragment per page, with later pages finishing first
type fakeDocument struct {
	pages   int
	failOn  int
	calls   atomic.Int32
	maxLive atomic.Int32
	live    atomic.Int32
}

func (d *fakeDocument) Backend() Backend { return BackendAuto }
func (d *fakeDocument) PageCount() int   { return d.pages }
func (d *fakeDocument) Close() error     { return nil }

func (d *fakeDocument) PageFragments(pageNumber int) (PageFragments, error) {
	d.calls.Add(1)
	n := d.live.Add(1)
	defer d.live.Add(-1)
	for {
		m := d.maxLive.Load()
		if n <= m || d.maxLive.CompareAndSwap(m, n) {
			break
		}
	}

	time.Sleep(time.Duration(d.pages-pageNumber) * time.Millisecond)
	if pageNumber == d.failOn {
		return PageFragments{}, errors.New("broken page")
	}
	return PageFragments{Fragments: []TextFragment{{Text: fmt.Sprintf("page %d", pageNumber), X: 1, Y: 1}}}, nil
}

func TestExtractPagesKeepsPageOrder(t *testing.T) {
	doc := &fakeDocument{pages: 8}

	pages, err := ExtractPages(context.Background(), doc, 4)
	require.NoError(t, err)
	require.Len(t, pages, 8)

	for i, p := range pages {
		assert.Equal(t, i+1, p.PageNumber)
		require.Len(t, p.Fragments, 1)
		assert.Equal(t, fmt.Sprintf("page %d", i+1), p.Fragments[0].Text)
	}
	assert.LessOrEqual(t, doc.maxLive.Load(), int32(4))
}

func TestExtractPagesSingleWorker(t *testing.T) {
	doc := &fakeDocument{pages: 3}

	pages, err := ExtractPages(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.Len(t, pages, 3)
	assert.Equal(t, int32(1), doc.maxLive.Load())
}

func TestExtractPagesReportsFailingPage(t *testing.T) {
	doc := &fakeDocument{pages: 4, failOn: 3}

	pages, err := ExtractPages(context.Background(), doc, 2)
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "page 3")
}

func TestExtractPagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &fakeDocument{pages: 5}
	_, err := ExtractPages(ctx, doc, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, doc.calls.Load())
}

func TestExtractPagesEmptyDocument(t *testing.T) {
	pages, err := ExtractPages(context.Background(), &fakeDocument{}, 2)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestMergeGlyphs(t *testing.T) {
	glyphs := []glyph{
		{S: "P", X: 10, Y: 700, W: 5},
		{S: "N", X: 15, Y: 700, W: 5},
		{S: "R", X: 20, Y: 700, W: 5},
		{S: " ", X: 25, Y: 700, W: 3},
		{S: ":", X: 28, Y: 700, W: 2},
		// next table cell
		{S: "1", X: 100, Y: 700, W: 5},
		{S: "2", X: 105, Y: 700, W: 5},
		// next line
		{S: "T", X: 10, Y: 680, W: 5},
		{S: "o", X: 15.5, Y: 680.4, W: 5},
	}

	got := mergeGlyphs(glyphs)
	assert.Equal(t, []TextFragment{
		{Text: "PNR :", X: 10, Y: 700},
		{Text: "12", X: 100, Y: 700},
		{Text: "To", X: 10, Y: 680},
	}, got)
}

func TestMergeGlyphsWordGap(t *testing.T) {
	glyphs := []glyph{
		{S: "AB", X: 0, Y: 10, W: 10},
		{S: "CD", X: 14, Y: 10, W: 10},
	}
	assert.Equal(t, []TextFragment{{Text: "AB CD", X: 0, Y: 10}}, mergeGlyphs(glyphs))
}

func TestMergeGlyphsWhitespaceOnly(t *testing.T) {
	assert.Empty(t, mergeGlyphs([]glyph{{S: " "}, {S: "\t"}}))
	assert.Empty(t, mergeGlyphs(nil))
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{
		"":           BackendAuto,
		"auto":       BackendAuto,
		"Ledongthuc": BackendLedongthuc,
		" dslipak ":  BackendDslipak,
	} {
		got, ok := ParseBackend(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseBackend("pdfium")
	assert.False(t, ok)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("ticket.pdf", Backend("pdfium"))
	assert.ErrorContains(t, err, "unknown PDF backend")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("testdata/does-not-exist.pdf", BackendAuto)
	assert.Error(t, err)

	_, err = Validate("testdata/does-not-exist.pdf")
	assert.Error(t, err)
}
