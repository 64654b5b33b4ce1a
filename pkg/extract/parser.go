// Package extract reconstructs a ticket.Record from normalized ticket text.
//
// Every field is located by a Cascade: an ordered list of strategies, the
// first validated result wins. Fields are independent; a field that cannot be
// found stays empty and a failing extractor never affects the others.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/ticket"
)

// Parser turns ticket text into a Record. It is safe for concurrent use.
type Parser struct {
	v        *vocab
	sink     diag.Sink
	parallel bool
	now      func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithSink sends trace events to sink
func WithSink(sink diag.Sink) Option {
	return func(p *Parser) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithParallel runs the field extractors concurrently
func WithParallel(parallel bool) Option {
	return func(p *Parser) {
		p.parallel = parallel
	}
}

// WithClock overrides the clock used to stamp Meta.ExtractedAt
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// NewParser compiles cfg into a Parser
func NewParser(cfg Config, opts ...Option) *Parser {
	p := &Parser{
		v:    newVocab(cfg),
		sink: diag.Nop,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the effective configuration, defaults applied
func (p *Parser) Config() Config {
	return p.v.cfg
}

// RefineStation cleans a raw station candidate. It reports false for prose,
// labels and bare name suffixes.
func (p *Parser) RefineStation(raw string) (string, bool) {
	return p.v.refineStation(raw)
}

// field is one independent extractor writing to its own Record fields
type field struct {
	name string
	run  func(doc *Document, rec *ticket.Record) (value, via string, ok bool)
}

// Parse extracts a Record from text. It never fails: missing fields are left
// empty and extractor faults are reported to the sink.
func (p *Parser) Parse(text string, meta ticket.Meta) *ticket.Record {
	doc := NewDocument(text)
	rec := &ticket.Record{Passengers: []ticket.Passenger{}}

	fields := p.fields()
	if p.parallel {
		var g errgroup.Group
		for _, f := range fields {
			g.Go(func() error {
				p.runField(f, doc, rec)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, f := range fields {
			p.runField(f, doc, rec)
		}
	}

	if len(rec.Passengers) > 0 {
		rec.Status = rec.Passengers[0].Status
	}

	rec.Meta = meta
	if rec.Meta.ID == "" {
		rec.Meta.ID = RecordID(rec.PNR, text)
	}
	if rec.Meta.ExtractedAt.IsZero() {
		rec.Meta.ExtractedAt = p.now().UTC()
	}

	p.sink.Record(diag.LevelOK, "Parsed: "+rec.Meta.ID)
	return rec
}

// RecordID is the PNR when known, otherwise a stable id derived from text
func RecordID(pnr, text string) string {
	if pnr != "" {
		return pnr
	}
	return "tmp-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String()
}

func (p *Parser) runField(f field, doc *Document, rec *ticket.Record) {
	defer func() {
		if r := recover(); r != nil {
			err := ticket.ExtractionError(f.name, fmt.Errorf("%v", r))
			p.sink.Record(diag.LevelError, "Parser error: "+err.Error())
		}
	}()

	value, via, ok := f.run(doc, rec)
	if !ok {
		p.sink.Record(diag.LevelWarn, f.name+": not found")
		return
	}
	p.sink.Record(diag.LevelInfo, fmt.Sprintf("%s: %s (via %s)", f.name, value, via))
}

// stringField binds a string cascade to one Record field
func (p *Parser) stringField(c Cascade[string], set func(*ticket.Record, string)) field {
	return field{
		name: c.Field,
		run: func(doc *Document, rec *ticket.Record) (string, string, bool) {
			cand, via, ok := c.Run(doc, p.sink)
			if !ok {
				return "", "", false
			}
			set(rec, cand.Value)
			return cand.Value, via, true
		},
	}
}

func (p *Parser) fields() []field {
	v := p.v
	return []field{
		p.stringField(v.pnrCascade(), func(r *ticket.Record, s string) { r.PNR = s }),
		{name: "train", run: p.runTrain},
		p.stringField(v.classCascade(), func(r *ticket.Record, s string) { r.Class = s }),
		p.stringField(v.quotaCascade(), func(r *ticket.Record, s string) { r.Quota = s }),
		{name: "stations", run: p.runStations},
		p.stringField(v.journeyDateCascade(), func(r *ticket.Record, s string) { r.DateOfJourney = s }),
		p.stringField(v.departureCascade(), func(r *ticket.Record, s string) { r.DepartureTime = s }),
		p.stringField(v.arrivalCascade(), func(r *ticket.Record, s string) { r.Arrival = s }),
		p.stringField(v.distanceCascade(), func(r *ticket.Record, s string) { r.Distance = s }),
		p.stringField(v.fareCascade(), func(r *ticket.Record, s string) { r.Fare = s }),
		p.stringField(v.bookingDateCascade(), func(r *ticket.Record, s string) { r.BookingDate = s }),
		p.stringField(v.transactionCascade(), func(r *ticket.Record, s string) { r.TransactionID = s }),
		{name: "passengers", run: p.runPassengers},
	}
}

func (p *Parser) runTrain(doc *Document, rec *ticket.Record) (string, string, bool) {
	cand, via, ok := p.v.trainCascade().Run(doc, p.sink)
	if !ok {
		return "", "", false
	}
	rec.TrainNo = cand.Value.No
	rec.TrainName = cand.Value.Name
	return rec.Train(), via, true
}

func (p *Parser) runStations(doc *Document, rec *ticket.Record) (string, string, bool) {
	cand, via, ok := p.v.stationCascade().Run(doc, p.sink)
	if !ok {
		return "", "", false
	}
	rec.From, rec.To = cand.Value.From, cand.Value.To
	rec.FromCode, rec.ToCode = StationCode(rec.From), StationCode(rec.To)
	return rec.Route(), via, true
}

func (p *Parser) runPassengers(doc *Document, rec *ticket.Record) (string, string, bool) {
	rows, via := p.v.parsePassengers(doc)
	if len(rows) == 0 {
		return "", "", false
	}
	rec.Passengers = rows

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return fmt.Sprintf("%d [%s]", len(rows), strings.Join(names, ", ")), via, true
}
