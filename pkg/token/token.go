// Package token defines the lexical token kinds produced by pkg/lex and
// consumed by pkg/parse.
package token

import "github.com/sarvex/hylo/pkg/source"

// Kind tags the category of a Token.
type Kind int

const (
	// None marks end of input.
	None Kind = iota
	// Error marks an unrecognized byte sequence; lexing continues past it.
	Error

	// Ident is a plain identifier, not a reserved keyword.
	Ident
	// Oper is a run of operator characters (generic infix/prefix/postfix).
	Oper

	// Literals.
	Int
	Float
	Bool
	String

	// Keywords.
	KwVal
	KwVar
	KwFun
	KwNew
	KwDel
	KwType
	KwView
	KwExtn
	KwIf
	KwMatch
	KwCase
	KwWhere
	KwRet
	KwBreak
	KwContinue
	KwAsync
	KwAwait
	KwFor
	KwWhile
	KwPub
	KwMod
	KwMut
	KwInfix
	KwPrefix
	KwPostfix
	KwVolatile
	KwStatic
	KwMoveonly
	KwCast

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	LBrack
	RBrack
	LAngle
	RAngle
	Comma
	Semi
	Colon
	TwoColons
	Dot
	Arrow
	Assign
	Under
)

var names = map[Kind]string{
	None: "eof", Error: "error",
	Ident: "identifier", Oper: "operator",
	Int: "int", Float: "float", Bool: "bool", String: "string",
	KwVal: "val", KwVar: "var", KwFun: "fun", KwNew: "new", KwDel: "del",
	KwType: "type", KwView: "view", KwExtn: "extn", KwIf: "if", KwMatch: "match",
	KwCase: "case", KwWhere: "where", KwRet: "ret", KwBreak: "break", KwContinue: "continue",
	KwAsync: "async", KwAwait: "await", KwFor: "for", KwWhile: "while", KwPub: "pub",
	KwMod: "mod", KwMut: "mut", KwInfix: "infix", KwPrefix: "prefix", KwPostfix: "postfix",
	KwVolatile: "volatile", KwStatic: "static", KwMoveonly: "moveonly", KwCast: "cast",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBrack: "[", RBrack: "]",
	LAngle: "<", RAngle: ">", Comma: ",", Semi: ";", Colon: ":", TwoColons: "::",
	Dot: ".", Arrow: "->", Assign: "=", Under: "_",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords maps the exact spelling of every reserved word to its Kind.
var Keywords = map[string]Kind{
	"val": KwVal, "var": KwVar, "fun": KwFun, "new": KwNew, "del": KwDel,
	"type": KwType, "view": KwView, "extn": KwExtn, "if": KwIf, "match": KwMatch,
	"case": KwCase, "where": KwWhere, "ret": KwRet, "break": KwBreak, "continue": KwContinue,
	"async": KwAsync, "await": KwAwait, "for": KwFor, "while": KwWhile, "pub": KwPub,
	"mod": KwMod, "mut": KwMut, "infix": KwInfix, "prefix": KwPrefix, "postfix": KwPostfix,
	"volatile": KwVolatile, "static": KwStatic, "moveonly": KwMoveonly, "cast": KwCast,
}

// Token is an immutable (kind, range) pair plus the literal text it spells
// out of the source buffer (needed for identifiers, literals and operators;
// redundant but convenient for fixed punctuation).
type Token struct {
	Kind  Kind
	Range source.Range
	Text  string
}

// IsKeyword reports whether the token's kind is one of the reserved words.
func (t Token) IsKeyword() bool { return t.Kind >= KwVal && t.Kind <= KwCast }

// IsEOF reports whether this token represents end of input.
func (t Token) IsEOF() bool { return t.Kind == None }
