package utf8csv

import (
	"bufio"
	"errors"
	"io"
)

// ErrEmptyRow is returned when writing a row without fields. Every line reads
// back as at least one field, so such a row has no encoding.
var ErrEmptyRow = errors.New("utf8csv: row has no fields")

var (
	errNilWriter      = errors.New("utf8csv: writer is nil")
	errWriterNoTarget = errors.New("utf8csv: writer destination cannot be nil")
)

// Writer encodes rows in the dialect read by Parser: a single-byte delimiter,
// '"' quoting with doubled inner quotes, and '\n' after every row.
type Writer struct {
	dst *bufio.Writer

	// Delimiter is the field delimiter. Default is ';'.
	Delimiter byte
	// AlwaysQuote forces quoting for all fields when enabled.
	AlwaysQuote bool

	err error
}

// NewWriter creates a Writer buffering output to w.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:       bufio.NewWriterSize(w, defaultBufferIncrement),
		Delimiter: defaultDelimiter,
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferIncrement)
	} else {
		w.dst.Reset(dst)
	}
	w.err = nil
}

// Write emits a single row terminated by '\n'. A row holding one empty field
// is written as "" so it does not read back as an empty line. A row without
// fields is rejected with ErrEmptyRow.
func (w *Writer) Write(row []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if len(row) == 0 {
		return ErrEmptyRow
	}

	delimiter := w.Delimiter
	if delimiter == 0 {
		delimiter = defaultDelimiter
	}

	for i := range row {
		if i > 0 {
			if err := w.dst.WriteByte(delimiter); err != nil {
				w.err = err
				return err
			}
		}
		force := w.AlwaysQuote || (len(row) == 1 && row[0] == "")
		if err := w.writeField(row[i], delimiter, force); err != nil {
			w.err = err
			return err
		}
	}

	if err := w.dst.WriteByte(terminatorByte); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteAll writes multiple rows, stopping at the first error.
func (w *Writer) WriteAll(rows [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) writeField(field string, delimiter byte, force bool) error {
	if !force && !fieldNeedsQuote(field, delimiter) {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte(quoteByte); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] != quoteByte {
			continue
		}
		if _, err := w.dst.WriteString(field[start : i+1]); err != nil {
			return err
		}
		if err := w.dst.WriteByte(quoteByte); err != nil {
			return err
		}
		start = i + 1
	}
	if _, err := w.dst.WriteString(field[start:]); err != nil {
		return err
	}
	return w.dst.WriteByte(quoteByte)
}

func fieldNeedsQuote(field string, delimiter byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quoteByte, delimiter, terminatorByte:
			return true
		}
	}
	return false
}
