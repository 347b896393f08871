package token_test

import (
	"testing"

	"github.com/sarvex/hylo/pkg/token"
)

func TestKeywordsRoundTrip(t *testing.T) {
	for spelling, kind := range token.Keywords {
		tok := token.Token{Kind: kind, Text: spelling}
		if !tok.IsKeyword() {
			t.Errorf("%q (%s) should report IsKeyword()", spelling, kind)
		}
		if got := kind.String(); got != spelling {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, spelling)
		}
	}
}

func TestNonKeywordKindsDontClaimToBeKeywords(t *testing.T) {
	for _, k := range []token.Kind{token.None, token.Error, token.Ident, token.Oper, token.Int, token.LBrace, token.Arrow} {
		if (token.Token{Kind: k}).IsKeyword() {
			t.Errorf("%s should not report IsKeyword()", k)
		}
	}
}

func TestIsEOF(t *testing.T) {
	if !(token.Token{Kind: token.None}).IsEOF() {
		t.Error("None token should report IsEOF()")
	}
	if (token.Token{Kind: token.Ident}).IsEOF() {
		t.Error("Ident token should not report IsEOF()")
	}
}
