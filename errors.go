package utf8csv

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQuoting is returned when a quote appears where the grammar forbids it,
	// or when a closing quote is followed by anything but a quote, delimiter or newline.
	ErrMalformedQuoting = errors.New("utf8csv: malformed quoting")
	// ErrInvalidEncoding is returned when the bytes of a field are not valid UTF-8.
	ErrInvalidEncoding = errors.New("utf8csv: field is not valid UTF-8")
	// ErrUnterminatedQuote is returned by Finish in strict mode when the input ends inside a quoted field.
	ErrUnterminatedQuote = errors.New("utf8csv: unterminated quoted field")
	// ErrSourceClosed is returned by a ChunkSource read after Close.
	ErrSourceClosed = errors.New("utf8csv: chunk source is closed")

	// ErrFieldConversion is returned when a non-empty field cannot be converted to the requested type.
	ErrFieldConversion = errors.New("utf8csv: field conversion failed")
	// ErrMissingValue is returned by required decodes when the field is empty.
	ErrMissingValue = errors.New("utf8csv: missing value")
	// ErrCursorExhausted is returned when more fields are requested than the row holds.
	ErrCursorExhausted = errors.New("utf8csv: no more fields in row")
)

// ParseError carries the position of a parse failure and the fields of the
// row that was being assembled when it happened.
type ParseError struct {
	Line   int
	Column int
	// Fields holds the fields materialized so far for the discarded row, or
	// the emitted row when the row callback failed.
	Fields []string
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("utf8csv: parse error on line %d, column %d (fields %q): %v", e.Line, e.Column, e.Fields, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DecodeError reports a failed decode of a single field.
type DecodeError struct {
	// Index is the zero-based position of the field that failed.
	Index int
	// Row is the complete row being decoded.
	Row []string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("utf8csv: failed to decode field %d of %q: %v", e.Index, e.Row, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
