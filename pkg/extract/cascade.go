package extract

import (
	"fmt"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/diag"
)

// Candidate is a value produced by one strategy
type Candidate[T any] struct {
	Value T
	// Tier is the 1-based position of the strategy that produced Value
	Tier int
	// Line is the index of the line Value was read from, -1 when not line-bound
	Line int
}

// Strategy is one way of locating a field
type Strategy[T any] interface {
	Name() string
	Attempt(doc *Document) (Candidate[T], bool)
}

// StrategyFunc adapts a named function to Strategy
type StrategyFunc[T any] struct {
	Label string
	Fn    func(doc *Document) (Candidate[T], bool)
}

func (s StrategyFunc[T]) Name() string { return s.Label }

func (s StrategyFunc[T]) Attempt(doc *Document) (Candidate[T], bool) {
	return s.Fn(doc)
}

// Cascade runs strategies in order and keeps the first validated result
type Cascade[T any] struct {
	Field      string
	Strategies []Strategy[T]
	// Validate rejects implausible values; nil accepts everything
	Validate func(T) bool
}

// Run returns the first candidate that passes Validate together with the
// name of the strategy that found it. A strategy that panics is reported to
// sink and skipped.
func (c Cascade[T]) Run(doc *Document, sink diag.Sink) (Candidate[T], string, bool) {
	if sink == nil {
		sink = diag.Nop
	}

	for i, s := range c.Strategies {
		cand, ok, err := attempt(s, doc)
		if err != nil {
			sink.Record(diag.LevelError, fmt.Sprintf("%s: strategy %q failed: %v", c.Field, s.Name(), err))
			continue
		}
		if !ok {
			continue
		}
		if c.Validate != nil && !c.Validate(cand.Value) {
			continue
		}
		cand.Tier = i + 1
		return cand, s.Name(), true
	}

	var zero Candidate[T]
	return zero, "", false
}

func attempt[T any](s Strategy[T], doc *Document) (cand Candidate[T], ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			ok = false
		}
	}()
	cand, ok = s.Attempt(doc)
	return cand, ok, nil
}

func hit[T any](value T, line int) (Candidate[T], bool) {
	return Candidate[T]{Value: value, Line: line}, true
}

func miss[T any]() (Candidate[T], bool) {
	var zero Candidate[T]
	return zero, false
}

func nonEmpty(s string) bool { return s != "" }
