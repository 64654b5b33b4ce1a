package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validate checks the PDF structure with pdfcpu and returns its page count.
// Corrupt or truncated files fail here before any text decoding is attempted.
func Validate(filepath string) (int, error) {
	ctx, err := api.ReadContextFile(filepath)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}

	return ctx.PageCount, nil
}
