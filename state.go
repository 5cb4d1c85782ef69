package utf8csv

// State is the position of the parser inside the CSV grammar.
type State uint8

const (
	// StartOfValue is the state at the beginning of every field.
	StartOfValue State = iota
	// Parsing is inside an unquoted field.
	Parsing
	// InnerQuoteWhileParsing follows a quote seen inside an unquoted field.
	InnerQuoteWhileParsing
	// ParsingQuotes is inside an open quoted field, where delimiters and newlines are data.
	ParsingQuotes
	// InnerQuoteWhileParsingQuotes follows a quote inside a quoted field; the next
	// byte decides whether it was an escaped quote or the closing one.
	InnerQuoteWhileParsingQuotes
	// Failed is terminal.
	Failed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StartOfValue:
		return "StartOfValue"
	case Parsing:
		return "Parsing"
	case InnerQuoteWhileParsing:
		return "InnerQuoteWhileParsing"
	case ParsingQuotes:
		return "ParsingQuotes"
	case InnerQuoteWhileParsingQuotes:
		return "InnerQuoteWhileParsingQuotes"
	case Failed:
		return "Failed"
	}
	return "State(?)"
}

type action uint8

const (
	appendByte action = iota
	skipByte
	finishValue
	finishLine
	fail
)

type class uint8

const (
	classOther class = iota
	classQuote
	classDelimiter
	classTerminator
)

const (
	quoteByte      = '"'
	terminatorByte = '\n'
)

// transition is the whole grammar: given the current state and the class of
// the next byte it returns what to do with the byte and the state to move to.
func transition(s State, c class) (action, State) {
	switch s {
	case StartOfValue:
		switch c {
		case classQuote:
			return skipByte, ParsingQuotes
		case classDelimiter:
			return finishValue, StartOfValue
		case classTerminator:
			return finishLine, StartOfValue
		}
		return appendByte, Parsing
	case Parsing:
		switch c {
		case classQuote:
			return skipByte, InnerQuoteWhileParsing
		case classDelimiter:
			return finishValue, StartOfValue
		case classTerminator:
			return finishLine, StartOfValue
		}
		return appendByte, Parsing
	case InnerQuoteWhileParsing:
		if c == classQuote {
			return appendByte, Parsing
		}
		return fail, Failed
	case ParsingQuotes:
		if c == classQuote {
			return skipByte, InnerQuoteWhileParsingQuotes
		}
		return appendByte, ParsingQuotes
	case InnerQuoteWhileParsingQuotes:
		switch c {
		case classQuote:
			return appendByte, ParsingQuotes
		case classDelimiter:
			return finishValue, StartOfValue
		case classTerminator:
			return finishLine, StartOfValue
		}
		return fail, Failed
	}
	return fail, Failed
}

// continuationBytes reports how many bytes follow b when b leads a multi-byte
// UTF-8 sequence. ASCII, stray continuation bytes and invalid leads report 0.
func continuationBytes(b byte) int {
	switch {
	case b&0b1000_0000 == 0:
		return 0
	case b&0b1110_0000 == 0b1100_0000:
		return 1
	case b&0b1111_0000 == 0b1110_0000:
		return 2
	case b&0b1111_1000 == 0b1111_0000:
		return 3
	}
	return 0
}
