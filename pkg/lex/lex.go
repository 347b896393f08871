// Package lex implements the single-pass byte-stream lexer described in
// spec.md §4.B: one source file in, a lazy stream of token.Token out, never
// halting on unrecognized input.
package lex

import (
	"strings"

	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
)

// operatorChars are the glyphs that glom together into a single token.Oper
// run. '<' and '>' are deliberately excluded: the parser is the one that
// decides whether they open a generic bracket or start an operator, by
// gluing them back onto an adjacent Oper token when they're contiguous
// (see pkg/parse's takeOperator).
const operatorChars = "+-*/%!&|^~?="

// Lexer scans one source file into tokens. It carries no lookahead of its
// own — pkg/parse.State is the one that buffers a single token of lookahead
// — so Next always advances past whatever it returns.
type Lexer struct {
	mgr  *source.Manager
	file source.FileID
	src  []byte
	pos  int
}

// New returns a Lexer positioned at the start of file.
func New(mgr *source.Manager, file source.FileID) *Lexer {
	return &Lexer{mgr: mgr, file: file, src: mgr.Text(file), pos: 0}
}

// Pos returns the current byte offset, used by pkg/parse to clone lexer
// state cheaply for speculative backtracking.
func (l *Lexer) Pos() int { return l.pos }

// Seek resets the lexer to a previously observed offset.
func (l *Lexer) Seek(pos int) { l.pos = pos }

func (l *Lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) rangeFrom(start int) source.Range {
	return source.Range{File: l.file, Start: start, End: l.pos}
}

// Next scans and returns the next token, skipping whitespace and comments.
// At end of input it returns a token.None token whose range is empty and
// positioned at len(src). Unknown bytes produce a token.Error token one
// byte wide; scanning always continues past them.
func (l *Lexer) Next() token.Token {
	l.skipTrivia()

	start := l.pos
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.None, Range: source.Range{File: l.file, Start: start, End: start}}
	}

	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		return l.scanIdent(start)
	case isDigit(c):
		return l.scanNumber(start)
	case c == '"':
		return l.scanString(start)
	}

	switch c {
	case '(':
		l.pos++
		return l.tok(token.LParen, start)
	case ')':
		l.pos++
		return l.tok(token.RParen, start)
	case '{':
		l.pos++
		return l.tok(token.LBrace, start)
	case '}':
		l.pos++
		return l.tok(token.RBrace, start)
	case '[':
		l.pos++
		return l.tok(token.LBrack, start)
	case ']':
		l.pos++
		return l.tok(token.RBrack, start)
	case ',':
		l.pos++
		return l.tok(token.Comma, start)
	case ';':
		l.pos++
		return l.tok(token.Semi, start)
	case '.':
		l.pos++
		return l.tok(token.Dot, start)
	case '<':
		l.pos++
		return l.tok(token.LAngle, start)
	case '>':
		l.pos++
		return l.tok(token.RAngle, start)
	case ':':
		l.pos++
		if l.peekByte(0) == ':' {
			l.pos++
		}
		if l.pos-start == 2 {
			return l.tok(token.TwoColons, start)
		}
		return l.tok(token.Colon, start)
	}

	if c == '-' && l.peekByte(1) == '>' {
		l.pos += 2
		return l.tok(token.Arrow, start)
	}

	if strings.IndexByte(operatorChars, c) >= 0 {
		for l.pos < len(l.src) && strings.IndexByte(operatorChars, l.src[l.pos]) >= 0 {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		if text == "=" {
			return l.tok(token.Assign, start)
		}
		return token.Token{Kind: token.Oper, Range: l.rangeFrom(start), Text: text}
	}

	// Unknown byte: emit an error token but keep lexing.
	l.pos++
	return l.tok(token.Error, start)
}

func (l *Lexer) tok(kind token.Kind, start int) token.Token {
	r := l.rangeFrom(start)
	return token.Token{Kind: kind, Range: r, Text: string(l.src[start:l.pos])}
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.peekByte(1) == '/':
			l.pos += 2
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekByte(1) == '*':
			l.pos += 2
			for l.pos < len(l.src) && !(l.src[l.pos] == '*' && l.peekByte(1) == '/') {
				l.pos++
			}
			if l.pos < len(l.src) {
				l.pos += 2 // consume the closing "*/"
			}
			// an unterminated block comment just runs to EOF; no error token
			// is produced for trivia, matching spec.md's "never halt lexing".
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *Lexer) scanIdent(start int) token.Token {
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	if text == "_" {
		return token.Token{Kind: token.Under, Range: l.rangeFrom(start), Text: text}
	}
	if kind, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kind, Range: l.rangeFrom(start), Text: text}
	}
	if text == "true" || text == "false" {
		return token.Token{Kind: token.Bool, Range: l.rangeFrom(start), Text: text}
	}
	return token.Token{Kind: token.Ident, Range: l.rangeFrom(start), Text: text}
}

// scanNumber scans decimal integer/float literals and radix-annotated
// integer literals (0x.../0o.../0b...).
func (l *Lexer) scanNumber(start int) token.Token {
	if l.src[l.pos] == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.pos += 2
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
		return l.tok(token.Int, start)
	}
	if l.src[l.pos] == '0' && (l.peekByte(1) == 'o' || l.peekByte(1) == 'O') {
		l.pos += 2
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '7' {
			l.pos++
		}
		return l.tok(token.Int, start)
	}
	if l.src[l.pos] == '0' && (l.peekByte(1) == 'b' || l.peekByte(1) == 'B') {
		l.pos += 2
		for l.pos < len(l.src) && (l.src[l.pos] == '0' || l.src[l.pos] == '1') {
			l.pos++
		}
		return l.tok(token.Int, start)
	}

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	isFloat := false
	if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
		isFloat = true
		l.pos++ // consume '.'
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		save := l.pos
		l.pos++
		if c := l.peekByte(0); c == '+' || c == '-' {
			l.pos++
		}
		if isDigit(l.peekByte(0)) {
			isFloat = true
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save // not actually an exponent, back off
		}
	}

	if isFloat {
		return l.tok(token.Float, start)
	}
	return l.tok(token.Int, start)
}

// scanString scans a double-quoted literal with C-style backslash escapes.
// An unterminated string produces an Error token spanning to end of input.
func (l *Lexer) scanString(start int) token.Token {
	l.pos++ // consume opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos++
			if l.pos < len(l.src) {
				l.pos++ // consume the escaped byte, whatever it is
			}
		case '"':
			l.pos++
			return l.tok(token.String, start)
		default:
			l.pos++
		}
	}
	return l.tok(token.Error, start) // ran off the end: unterminated string
}
