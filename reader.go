package utf8csv

import (
	"errors"
	"io"
)

// Reader reads rows one at a time from an io.Reader, in the manner of
// encoding/csv, on top of a Parser.
type Reader struct {
	src    ChunkSource
	parser *Parser

	queue [][]string
	head  int
	done  bool
	err   error
}

// NewReader returns a Reader parsing r with opts. Rows returned by Read are
// owned by the caller. It panics if r is nil.
func NewReader(r io.Reader, opts ...Option) *Reader {
	if r == nil {
		panic("utf8csv: reader source cannot be nil")
	}
	return NewSourceReader(NewReaderSource(r, DefaultChunkSize), opts...)
}

// NewSourceReader returns a Reader parsing the chunks of src.
func NewSourceReader(src ChunkSource, opts ...Option) *Reader {
	opts = append(opts[:len(opts):len(opts)], WithReuseRow(false))
	return &Reader{src: src, parser: NewParser(opts...)}
}

// Read returns the next row. io.EOF signals that no rows remain. Rows that
// precede a parse failure are returned before the failure itself.
func (r *Reader) Read() ([]string, error) {
	for r.head >= len(r.queue) {
		if r.err != nil {
			return nil, r.err
		}
		if r.done {
			return nil, io.EOF
		}
		r.queue, r.head = r.queue[:0], 0
		r.fill()
	}
	row := r.queue[r.head]
	r.queue[r.head] = nil
	r.head++
	return row, nil
}

// ReadAll reads the remaining rows. A clean end of input is not an error. On
// failure the rows read so far are returned with the error.
func (r *Reader) ReadAll() (rows [][]string, err error) {
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// Close releases the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}

func (r *Reader) fill() {
	chunk, err := r.src.Next()
	switch {
	case errors.Is(err, io.EOF):
		r.done = true
		r.err = r.parser.Finish(r.push)
	case err != nil:
		r.err = err
	default:
		r.err = r.parser.Feed(chunk, r.push)
	}
}

func (r *Reader) push(row []string) error {
	r.queue = append(r.queue, row)
	return nil
}
