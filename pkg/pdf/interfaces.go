package pdf

// Document is an opened PDF that can produce positioned text fragments page by page
type Document interface {
	// Backend reports which decoding library serves this document
	Backend() Backend

	// PageCount returns the total number of pages
	PageCount() int

	// PageFragments decodes one page (1-based) into text fragments.
	// Implementations must be safe for concurrent calls on different pages.
	PageFragments(pageNumber int) (PageFragments, error)

	// Close releases resources associated with the document
	Close() error
}
