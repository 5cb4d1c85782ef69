package utf8csv

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the block size used by sources when none is given.
const DefaultChunkSize = 100 << 10 // 102400 bytes

// ChunkSource produces an ordered, finite sequence of byte chunks. Next
// returns io.EOF once the stream is exhausted; a chunk is only valid until the
// following call to Next. Next must not be called after Close.
type ChunkSource interface {
	Next() ([]byte, error)
	Close() error
}

// ReaderSource reads fixed-size chunks from an io.Reader.
type ReaderSource struct {
	r      io.Reader
	buf    []byte
	eof    bool
	closed bool
}

// NewReaderSource returns a source reading chunkSize bytes at a time from r.
// A non-positive chunkSize selects DefaultChunkSize. It panics if r is nil.
func NewReaderSource(r io.Reader, chunkSize int) *ReaderSource {
	if r == nil {
		panic("utf8csv: reader source cannot be nil")
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ReaderSource{r: r, buf: make([]byte, chunkSize)}
}

// OpenFile opens the named file as a chunk source. Close releases the file.
func OpenFile(name string, chunkSize int) (*ReaderSource, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("utf8csv: failed to open %s: %w", name, err)
	}
	return NewReaderSource(f, chunkSize), nil
}

// Next fills the internal buffer and returns the bytes read. Only the last
// chunk of a stream may be shorter than the chunk size.
func (s *ReaderSource) Next() ([]byte, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.eof {
		return nil, io.EOF
	}
	n, err := io.ReadFull(s.r, s.buf)
	switch {
	case err == nil:
		return s.buf[:n], nil
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
		if n == 0 {
			return nil, io.EOF
		}
		return s.buf[:n], nil
	default:
		return nil, err
	}
}

// Close closes the underlying reader if it implements io.Closer.
func (s *ReaderSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SliceSource serves chunks that are already in memory.
type SliceSource struct {
	chunks [][]byte
	next   int
	closed bool
}

// NewSliceSource returns a source yielding chunks in order.
func NewSliceSource(chunks ...[]byte) *SliceSource {
	return &SliceSource{chunks: chunks}
}

// Split partitions data into chunks of size bytes; the last chunk may be
// shorter. A non-positive size yields data as a single chunk.
func Split(data []byte, size int) *SliceSource {
	if size <= 0 || size >= len(data) {
		return NewSliceSource(data)
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		chunks = append(chunks, data[start:min(start+size, len(data))])
	}
	return NewSliceSource(chunks...)
}

// Next returns the next chunk, or io.EOF after the last one.
func (s *SliceSource) Next() ([]byte, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.next >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, nil
}

// Close marks the source closed; later calls to Next fail.
func (s *SliceSource) Close() error {
	s.closed = true
	return nil
}
