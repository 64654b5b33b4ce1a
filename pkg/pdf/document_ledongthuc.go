package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucDocument implements the Document interface using ledongthuc/pdf library
type LedongthucDocument struct {
	file      *os.File
	size      int64
	pageCount int
	filepath  string
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (Document, error) {
	f, r, err := lpdf.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", filepath, err)
	}

	return &LedongthucDocument{
		file:      f,
		size:      info.Size(),
		pageCount: r.NumPage(),
		filepath:  filepath,
	}, nil
}

// Backend returns BackendLedongthuc
func (d *LedongthucDocument) Backend() Backend {
	return BackendLedongthuc
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	return d.pageCount
}

// PageFragments decodes a single page. The library's Reader keeps decoding
// state, so every call builds its own Reader over the shared file.
func (d *LedongthucDocument) PageFragments(pageNumber int) (frags PageFragments, err error) {
	if pageNumber < 1 || pageNumber > d.pageCount {
		return PageFragments{}, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ledongthuc: decode page %d: %v", pageNumber, r)
		}
	}()

	reader, err := lpdf.NewReader(d.file, d.size)
	if err != nil {
		return PageFragments{}, fmt.Errorf("failed to read PDF with ledongthuc: %w", err)
	}

	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return PageFragments{PageNumber: pageNumber}, nil
	}

	content := page.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, text := range content.Text {
		glyphs = append(glyphs, glyph{
			S:        text.S,
			X:        text.X,
			Y:        text.Y,
			W:        text.W,
			FontSize: text.FontSize,
		})
	}

	return PageFragments{
		PageNumber: pageNumber,
		Fragments:  mergeGlyphs(glyphs),
	}, nil
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
