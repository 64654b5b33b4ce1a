package pdf

import (
	"fmt"
	"os"

	gopdf "github.com/dslipak/pdf"
)

// DsliPakDocument implements the Document interface using dslipak/pdf library
type DsliPakDocument struct {
	file      *os.File
	size      int64
	pageCount int
	filepath  string
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(filepath string) (Document, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", filepath, err)
	}

	r, err := gopdf.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	return &DsliPakDocument{
		file:      f,
		size:      info.Size(),
		pageCount: r.NumPage(),
		filepath:  filepath,
	}, nil
}

// Backend returns BackendDslipak
func (d *DsliPakDocument) Backend() Backend {
	return BackendDslipak
}

// PageCount returns the total number of pages
func (d *DsliPakDocument) PageCount() int {
	return d.pageCount
}

// PageFragments decodes a single page with a Reader of its own
func (d *DsliPakDocument) PageFragments(pageNumber int) (frags PageFragments, err error) {
	if pageNumber < 1 || pageNumber > d.pageCount {
		return PageFragments{}, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dslipak: decode page %d: %v", pageNumber, r)
		}
	}()

	reader, err := gopdf.NewReader(d.file, d.size)
	if err != nil {
		return PageFragments{}, fmt.Errorf("failed to read PDF with dslipak: %w", err)
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
func (d *DsliPakDocument) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
