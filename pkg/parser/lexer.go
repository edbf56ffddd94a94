package parser

import (
	"fmt"
	"strings"
)

// LexError reports a quoting failure. The lexer forwards no tokens when
// this occurs; the caller converts it to exit status 2.
type LexError struct {
	Msg string
	Pos int
}

func (e *LexError) Error() string { return e.Msg }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Lex tokenizes a single input line. It recognizes && || << >> before the
// single-character operators | < >, and tracks quote state across single
// and double quotes so that a WORD's segments each carry the quote mode
// they were scanned under.
func Lex(line string) ([]Token, error) {
	tokens := make([]Token, 0, 16)
	i := 0
	n := len(line)

	for i < n {
		c := line[i]
		switch {
		case isSpace(c):
			i++
			continue
		case c == '&' && i+1 < n && line[i+1] == '&':
			tokens = append(tokens, Token{Kind: And, Pos: i})
			i += 2
			continue
		case c == '|' && i+1 < n && line[i+1] == '|':
			tokens = append(tokens, Token{Kind: Or, Pos: i})
			i += 2
			continue
		case c == '<' && i+1 < n && line[i+1] == '<':
			tokens = append(tokens, Token{Kind: Heredoc, Pos: i})
			i += 2
			continue
		case c == '>' && i+1 < n && line[i+1] == '>':
			tokens = append(tokens, Token{Kind: RedirAppend, Pos: i})
			i += 2
			continue
		case c == '|':
			tokens = append(tokens, Token{Kind: Pipe, Pos: i})
			i++
			continue
		case c == '<':
			tokens = append(tokens, Token{Kind: RedirIn, Pos: i})
			i++
			continue
		case c == '>':
			tokens = append(tokens, Token{Kind: RedirOut, Pos: i})
			i++
			continue
		}

		tok, next, err := scanWord(line, i)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		i = next
	}

	tokens = append(tokens, Token{Kind: EOF, Pos: n})
	return tokens, nil
}

// scanWord consumes one WORD token starting at i, aggregating adjacent
// quoted and unquoted segments until whitespace or an operator boundary
// is reached outside of any quote.
func scanWord(line string, i int) (Token, int, error) {
	start := i
	n := len(line)
	mode := QuoteNone
	var buf strings.Builder
	var segs []Segment

	flushNone := func() {
		if buf.Len() > 0 {
			segs = append(segs, Segment{Text: buf.String(), Quote: QuoteNone})
			buf.Reset()
		}
	}

	pos := i
	for pos < n {
		c := line[pos]
		switch mode {
		case QuoteNone:
			switch {
			case c == '\'':
				flushNone()
				mode = QuoteSingle
				pos++
			case c == '"':
				flushNone()
				mode = QuoteDouble
				pos++
			case isSpace(c) || isOperatorBoundary(line, pos):
				flushNone()
				return Token{Kind: Word, Segments: segs, Pos: start}, pos, nil
			default:
				buf.WriteByte(c)
				pos++
			}
		case QuoteSingle:
			if c == '\'' {
				segs = append(segs, Segment{Text: buf.String(), Quote: QuoteSingle})
				buf.Reset()
				mode = QuoteNone
				pos++
				continue
			}
			buf.WriteByte(c)
			pos++
		case QuoteDouble:
			if c == '"' {
				segs = append(segs, Segment{Text: buf.String(), Quote: QuoteDouble})
				buf.Reset()
				mode = QuoteNone
				pos++
				continue
			}
			buf.WriteByte(c)
			pos++
		}
	}

	if mode != QuoteNone {
		return Token{}, pos, &LexError{
			Msg: fmt.Sprintf("unterminated %s quote", mode),
			Pos: start,
		}
	}
	flushNone()
	return Token{Kind: Word, Segments: segs, Pos: start}, pos, nil
}

// isOperatorBoundary reports whether the unquoted character at pos starts
// an operator that must terminate the current WORD. A lone '&' is not an
// operator in this grammar (no job control); only '&&' is.
func isOperatorBoundary(line string, pos int) bool {
	c := line[pos]
	switch c {
	case '|', '<', '>':
		return true
	case '&':
		return pos+1 < len(line) && line[pos+1] == '&'
	default:
		return false
	}
}
