package pdf

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Open opens a PDF file with the requested backend.
// BackendAuto tries ledongthuc first and falls back to dslipak.
func Open(filepath string, backend Backend) (Document, error) {
	switch backend {
	case BackendLedongthuc:
		return OpenWithLedongthuc(filepath)
	case BackendDslipak:
		return OpenWithDslipak(filepath)
	case BackendAuto, "":
	default:
		return nil, fmt.Errorf("unknown PDF backend: %q", backend)
	}

	doc, err := OpenWithLedongthuc(filepath)
	if err == nil {
		return doc, nil
	}

	doc, err2 := OpenWithDslipak(filepath)
	if err2 == nil {
		return doc, nil
	}

	return nil, errors.Join(err, err2)
}

// ExtractPages decodes every page of doc using up to workers goroutines.
// The result is indexed by page number, never by completion order.
func ExtractPages(ctx context.Context, doc Document, workers int) ([]PageFragments, error) {
	count := doc.PageCount()
	pages := make([]PageFragments, count)
	if count == 0 {
		return pages, nil
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < count; i++ {
		pageNumber := i + 1
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frags, err := doc.PageFragments(pageNumber)
			if err != nil {
				return fmt.Errorf("page %d: %w", pageNumber, err)
			}
			frags.PageNumber = pageNumber
			pages[pageNumber-1] = frags
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}
