package ticket

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to callers
type ErrorKind string

const (
	// KindInput means no text could be obtained from the document
	KindInput ErrorKind = "input"
	// KindExtraction is a fault inside an extractor; it is reported, never returned
	KindExtraction ErrorKind = "extraction"
)

var (
	ErrCorruptPDF = errors.New("corrupt or unreadable PDF")
	ErrNoText     = errors.New("document contains no text")
)

// Error carries a kind, a message and the underlying cause
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InputError builds a KindInput error
func InputError(message string, err error) *Error {
	return &Error{Kind: KindInput, Message: message, Err: err}
}

// ExtractionError builds a KindExtraction error
func ExtractionError(message string, err error) *Error {
	return &Error{Kind: KindExtraction, Message: message, Err: err}
}

// IsInputError reports whether err is an input fault
func IsInputError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInput
}
