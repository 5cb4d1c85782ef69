package utf8csv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"unicode/utf8"

	"github.com/chaserCN/utf8csv/internal/log"
)

const (
	defaultDelimiter       = ';'
	defaultBufferIncrement = 1 << 10 // 1024 bytes
)

// RowFunc receives every row recognized by the parser. Returning an error
// stops the parse; the error is reported by the Parser as a *ParseError.
type RowFunc func(row []string) error

// Option configures a Parser.
type Option func(*Parser)

// WithDelimiter sets the field delimiter. Default is ';'. The delimiter must
// be an ASCII byte other than '"' and '\n'.
func WithDelimiter(delimiter byte) Option {
	return func(p *Parser) {
		p.delimiter = delimiter
	}
}

// WithReuseRow makes the parser hand its internal row slice to the RowFunc
// instead of a copy. The slice is only valid until the RowFunc returns.
func WithReuseRow(reuse bool) Option {
	return func(p *Parser) {
		p.reuseRow = reuse
	}
}

// WithBufferIncrement sets how many bytes the field buffer grows by when full.
func WithBufferIncrement(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.increment = n
		}
	}
}

// WithStrictQuotes makes Finish reject input that ends inside a quoted field
// or right after a stray quote, instead of emitting the partial row.
func WithStrictQuotes(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// Parser is an incremental CSV parser. Bytes are fed in chunks of any size;
// fields, quoted sections and multi-byte characters may span chunks. A Parser
// is not safe for concurrent use.
type Parser struct {
	delimiter byte
	reuseRow  bool
	strict    bool
	increment int

	state         State
	keepAppending int
	err           error

	pending []byte
	row     []string

	line   int
	column int
}

// NewParser returns a Parser configured by opts. It panics if the delimiter
// collides with the quote or newline byte or is not ASCII.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter: defaultDelimiter,
		increment: defaultBufferIncrement,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.delimiter == quoteByte || p.delimiter == terminatorByte || p.delimiter >= utf8.RuneSelf {
		panic(fmt.Sprintf("utf8csv: invalid delimiter %q", p.delimiter))
	}
	p.pending = make([]byte, 0, p.increment)
	p.row = make([]string, 0, 16)
	p.line = 1
	return p
}

// State reports the current state of the parser.
func (p *Parser) State() State {
	return p.state
}

// Err returns the error that moved the parser into the Failed state, if any.
func (p *Parser) Err() error {
	return p.err
}

// Reset discards all progress, including a stored error, so the parser can
// take a new stream.
func (p *Parser) Reset() {
	p.state = StartOfValue
	p.keepAppending = 0
	p.err = nil
	p.pending = p.pending[:0]
	p.row = p.row[:0]
	p.line = 1
	p.column = 0
}

// Feed parses chunk, calling fn for every row completed by a newline. Once the
// parser has failed, the remaining bytes of chunk and of all later chunks are
// ignored and the stored error is returned.
func (p *Parser) Feed(chunk []byte, fn RowFunc) error {
	for i := 0; i < len(chunk); {
		if p.state == Failed {
			return p.err
		}

		// Continuation bytes of a multi-byte character are never classified.
		if p.keepAppending > 0 {
			n := min(p.keepAppending, len(chunk)-i)
			p.appendPending(chunk[i : i+n])
			p.keepAppending -= n
			p.column += n
			i += n
			continue
		}

		if p.state == Parsing || p.state == ParsingQuotes {
			if n := p.scanRun(chunk[i:]); n > 0 {
				i += n
				continue
			}
		}

		b := chunk[i]
		i++
		p.column++

		// Bytes outside ASCII are data in every state. Stray continuation
		// bytes and invalid leads are kept too and fail validation later.
		if b >= utf8.RuneSelf {
			p.pending = p.grow(1)
			p.pending = append(p.pending, b)
			p.keepAppending = continuationBytes(b)
			continue
		}

		act, next := transition(p.state, p.classify(b))
		p.state = next
		switch act {
		case appendByte:
			p.pending = p.grow(1)
			p.pending = append(p.pending, b)
		case skipByte:
		case finishValue:
			p.finishValue()
		case finishLine:
			if p.finishValue() {
				p.emit(fn)
			}
		case fail:
			p.fail(ErrMalformedQuoting)
		}

		if b == terminatorByte {
			p.line++
			p.column = 0
		}
	}
	return p.err
}

// Finish flushes a trailing row that was not terminated by a newline. It must
// be called once after the last chunk. Nothing is emitted when the input
// ended exactly at a row boundary. After Finish the parser is ready for a new
// stream unless it failed.
func (p *Parser) Finish(fn RowFunc) error {
	if p.state == Failed {
		return p.err
	}
	if p.strict {
		switch p.state {
		case ParsingQuotes:
			p.fail(ErrUnterminatedQuote)
			return p.err
		case InnerQuoteWhileParsing:
			p.fail(ErrMalformedQuoting)
			return p.err
		}
	}
	if len(p.pending) > 0 || len(p.row) > 0 {
		if p.finishValue() {
			p.emit(fn)
		}
		if p.state == Failed {
			return p.err
		}
	}
	p.state = StartOfValue
	p.keepAppending = 0
	p.line = 1
	p.column = 0
	return nil
}

func (p *Parser) classify(b byte) class {
	switch b {
	case quoteByte:
		return classQuote
	case p.delimiter:
		return classDelimiter
	case terminatorByte:
		return classTerminator
	}
	return classOther
}

// scanRun appends the longest prefix of data that cannot change the state of
// an open field and returns its length. Inside quotes newlines are data, so
// line positions are advanced here as well.
func (p *Parser) scanRun(data []byte) int {
	quoted := p.state == ParsingQuotes
	cont := 0
	lastLF := -1
	n := 0
scan:
	for ; n < len(data); n++ {
		b := data[n]
		switch {
		case cont > 0:
			cont--
		case b >= utf8.RuneSelf:
			cont = continuationBytes(b)
		case b == quoteByte:
			break scan
		case b == terminatorByte:
			if !quoted {
				break scan
			}
			p.line++
			lastLF = n
		case b == p.delimiter && !quoted:
			break scan
		}
	}
	if n == 0 {
		return 0
	}
	if lastLF >= 0 {
		p.column = n - lastLF - 1
	} else {
		p.column += n
	}
	p.appendPending(data[:n])
	p.keepAppending = cont
	return n
}

// grow makes room for n more bytes, extending the buffer by whole increments.
func (p *Parser) grow(n int) []byte {
	need := len(p.pending) + n
	if need <= cap(p.pending) {
		return p.pending
	}
	size := cap(p.pending) + p.increment
	for size < need {
		size += p.increment
	}
	buf := make([]byte, len(p.pending), size)
	copy(buf, p.pending)
	return buf
}

func (p *Parser) appendPending(data []byte) {
	p.pending = p.grow(len(data))
	p.pending = append(p.pending, data...)
}

// finishValue materializes the pending bytes as the next field of the row.
func (p *Parser) finishValue() bool {
	if !utf8.Valid(p.pending) {
		p.fail(ErrInvalidEncoding)
		return false
	}
	p.row = append(p.row, string(p.pending))
	p.pending = p.pending[:0]
	return true
}

func (p *Parser) emit(fn RowFunc) {
	if fn != nil {
		row := p.row
		if !p.reuseRow {
			row = slices.Clone(p.row)
		}
		if err := fn(row); err != nil {
			p.fail(err)
			return
		}
	}
	p.row = p.row[:0]
}

// fail discards the row in progress and stores err; the parser ignores all
// further input.
func (p *Parser) fail(err error) {
	fields := slices.Clone(p.row)
	if len(p.pending) > 0 {
		fields = append(fields, string(p.pending))
	}
	p.err = &ParseError{Line: p.line, Column: p.column, Fields: fields, Err: err}
	p.state = Failed
	p.keepAppending = 0
	p.pending = p.pending[:0]
	p.row = p.row[:0]
}

// Parse feeds every chunk of src to the parser and finishes the stream. It
// stops at the first parse failure, source error or context cancellation;
// the context is only checked between chunks. src is not closed.
func (p *Parser) Parse(ctx context.Context, src ChunkSource, fn RowFunc) error {
	var rows, chunks, size int
	count := func(row []string) error {
		rows++
		if fn == nil {
			return nil
		}
		return fn(row)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("utf8csv: failed to read chunk %d: %w", chunks, err)
		}
		chunks++
		size += len(chunk)
		if err := p.Feed(chunk, count); err != nil {
			log.Debugw(ctx, "csv parse stopped", "rows", rows, "chunks", chunks, "error", err)
			return err
		}
	}
	if err := p.Finish(count); err != nil {
		log.Debugw(ctx, "csv parse stopped", "rows", rows, "chunks", chunks, "error", err)
		return err
	}
	log.Debugw(ctx, "csv parsed", "rows", rows, "chunks", chunks, "bytes", size)
	return nil
}

// Rows iterates over the rows of src. A failure is yielded once as a nil row
// with a non-nil error, after every row emitted before it. Each yielded row
// is owned by the caller.
func (p *Parser) Rows(ctx context.Context, src ChunkSource) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		var ready [][]string
		collect := func(row []string) error {
			if p.reuseRow {
				row = slices.Clone(row)
			}
			ready = append(ready, row)
			return nil
		}
		flush := func() bool {
			for _, row := range ready {
				if !yield(row, nil) {
					return false
				}
			}
			ready = ready[:0]
			return true
		}

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			chunk, err := src.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				yield(nil, fmt.Errorf("utf8csv: failed to read chunk: %w", err))
				return
			}
			ferr := p.Feed(chunk, collect)
			if !flush() {
				return
			}
			if ferr != nil {
				yield(nil, ferr)
				return
			}
		}
		ferr := p.Finish(collect)
		if !flush() {
			return
		}
		if ferr != nil {
			yield(nil, ferr)
		}
	}
}

// ReadAll parses src with a new Parser and returns every row. On failure it
// returns the rows emitted before the failure together with the error.
func ReadAll(ctx context.Context, src ChunkSource, opts ...Option) ([][]string, error) {
	var records [][]string
	p := NewParser(append(slices.Clone(opts), WithReuseRow(false))...)
	err := p.Parse(ctx, src, func(row []string) error {
		records = append(records, row)
		return nil
	})
	return records, err
}
