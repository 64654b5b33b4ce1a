// Package ticketplumber reconstructs structured travel ticket records from PDF
// text, in the spirit of pdfplumber: positioned fragments are rebuilt into
// reading-order lines and each ticket field is recovered by layered heuristics.
package ticketplumber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/extract"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/layout"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/pdf"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/ticket"
)

// Re-export types for the public API
type (
	Record        = ticket.Record
	Passenger     = ticket.Passenger
	Meta          = ticket.Meta
	Status        = ticket.Status
	Config        = extract.Config
	TextFragment  = pdf.TextFragment
	PageFragments = pdf.PageFragments
	Backend       = pdf.Backend
	Line          = layout.Line
	Sink          = diag.Sink
)

// Re-export constructors and sentinels
var (
	DefaultConfig = extract.DefaultConfig
	ErrNoText     = ticket.ErrNoText
	ErrCorruptPDF = ticket.ErrCorruptPDF
	IsInputError  = ticket.IsInputError
)

type settings struct {
	cfg        extract.Config
	parserOpts []extract.Option
	backend    pdf.Backend
	workers    int
	validate   bool
	bucketSize float64
}

// Option configures ParseText, ParsePages, ParseFile and Lines
type Option func(*settings)

// WithConfig replaces the extraction vocabulary and tuning
func WithConfig(cfg Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithSink sends parse trace events to sink
func WithSink(sink Sink) Option {
	return func(s *settings) { s.parserOpts = append(s.parserOpts, extract.WithSink(sink)) }
}

// WithParallel runs the field extractors concurrently
func WithParallel(parallel bool) Option {
	return func(s *settings) { s.parserOpts = append(s.parserOpts, extract.WithParallel(parallel)) }
}

// WithClock overrides the clock used for Meta.ExtractedAt
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.parserOpts = append(s.parserOpts, extract.WithClock(now)) }
}

// WithBackend selects the PDF decoding library
func WithBackend(backend Backend) Option {
	return func(s *settings) { s.backend = backend }
}

// WithWorkers bounds the number of pages decoded concurrently
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithValidation toggles the structural PDF check run before decoding
func WithValidation(validate bool) Option {
	return func(s *settings) { s.validate = validate }
}

// WithBucketSize sets the vertical tolerance used to group fragments into lines
func WithBucketSize(size float64) Option {
	return func(s *settings) { s.bucketSize = size }
}

func newSettings(opts []Option) *settings {
	s := &settings{
		cfg:        extract.DefaultConfig(),
		backend:    pdf.BackendAuto,
		workers:    4,
		validate:   true,
		bucketSize: layout.DefaultBucketSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) parser() *extract.Parser {
	return extract.NewParser(s.cfg, s.parserOpts...)
}

func (s *settings) organizer() *layout.TextOrganizer {
	to := layout.NewTextOrganizer()
	to.SetBucketSize(s.bucketSize)
	return to
}

// ParseText extracts a record from already reconstructed ticket text
func ParseText(text string, opts ...Option) *Record {
	return newSettings(opts).parser().Parse(text, ticket.Meta{})
}

// ParsePages rebuilds the reading-order text of pages and extracts a record.
// It fails with ErrNoText when the pages carry no text.
func ParsePages(pages []PageFragments, opts ...Option) (*Record, error) {
	s := newSettings(opts)
	text := s.organizer().OrganizeText(pages)
	if strings.TrimSpace(text) == "" {
		return nil, ticket.InputError("parse pages", ticket.ErrNoText)
	}
	return s.parser().Parse(text, ticket.Meta{Pages: len(pages)}), nil
}

// ParseFile decodes the PDF at path and extracts a record. Input faults are
// returned as ticket errors of kind input; no partial record is returned.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Record, error) {
	s := newSettings(opts)

	text, meta, err := s.readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.parser().Parse(text, meta), nil
}

// Lines returns the reconstructed lines of the PDF at path
func Lines(ctx context.Context, path string, opts ...Option) ([]Line, error) {
	s := newSettings(opts)

	pages, _, err := s.decode(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.organizer().ExtractLines(pages), nil
}

func (s *settings) readFile(ctx context.Context, path string) (string, ticket.Meta, error) {
	pages, meta, err := s.decode(ctx, path)
	if err != nil {
		return "", meta, err
	}

	text := s.organizer().OrganizeText(pages)
	if strings.TrimSpace(text) == "" {
		return "", meta, ticket.InputError(path, ticket.ErrNoText)
	}
	return text, meta, nil
}

func (s *settings) decode(ctx context.Context, path string) ([]pdf.PageFragments, ticket.Meta, error) {
	meta := ticket.Meta{FileName: filepath.Base(path)}

	info, err := os.Stat(path)
	if err != nil {
		return nil, meta, ticket.InputError("stat "+path, err)
	}
	meta.Size = info.Size()

	if s.validate {
		if _, err := pdf.Validate(path); err != nil {
			return nil, meta, ticket.InputError("validate "+path, fmt.Errorf("%w: %w", ticket.ErrCorruptPDF, err))
		}
	}

	doc, err := pdf.Open(path, s.backend)
	if err != nil {
		return nil, meta, ticket.InputError("open "+path, fmt.Errorf("%w: %w", ticket.ErrCorruptPDF, err))
	}
	defer doc.Close()

	pages, err := pdf.ExtractPages(ctx, doc, s.workers)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, meta, err
		}
		return nil, meta, ticket.InputError("decode "+path, fmt.Errorf("%w: %w", ticket.ErrCorruptPDF, err))
	}

	meta.Pages = len(pages)
	meta.Backend = string(doc.Backend())
	return pages, meta, nil
}
