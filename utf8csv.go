// Package utf8csv is an incremental CSV parser for byte streams that arrive in
// chunks of arbitrary size, paired with a typed field decoder.
//
// # Parsing
//
// A Parser consumes chunks with Feed and reports each completed row to a
// RowFunc as soon as its terminating '\n' is seen. Chunk boundaries carry no
// meaning: a field, a quoted section or a multi-byte UTF-8 character may be
// split anywhere. Finish flushes a trailing row that has no newline.
//
//	p := utf8csv.NewParser(utf8csv.WithDelimiter(';'))
//	for chunk := range chunks {
//		if err := p.Feed(chunk, handle); err != nil {
//			return err
//		}
//	}
//	return p.Finish(handle)
//
// Parse, Rows, ReadAll and Reader drive a Parser from a ChunkSource or an
// io.Reader.
//
// The dialect is fixed apart from the delimiter: fields may be quoted with
// '"', a doubled quote inside a quoted field is a literal quote, and a single
// '\n' ends a row. '\r' is ordinary data. A quote inside an unquoted field
// must be doubled; any other stray quote fails the parse with
// ErrMalformedQuoting. Fields that are not valid UTF-8 fail with
// ErrInvalidEncoding. Rows emitted before a failure stay valid.
//
// # Decoding
//
// A Decoder walks the fields of one row in order. Every typed method comes in
// a required form and an optional Opt form; empty fields are absent values.
// Optional and Required accept any Converter, and FromString, FromInt and Text
// adapt caller-defined types.
package utf8csv
