package lex_test

import (
	"testing"

	"github.com/sarvex/hylo/pkg/lex"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
)

func scanAll(t *testing.T, text string) []token.Token {
	t.Helper()
	mgr := source.NewManager()
	file, err := mgr.LoadVirtual("test", []byte(text))
	if err != nil {
		t.Fatalf("LoadVirtual: %v", err)
	}
	l := lex.New(mgr, file)

	var toks []token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.None {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "fun main x_1 val")
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.KwFun, "fun"}, {token.Ident, "main"}, {token.Ident, "x_1"}, {token.KwVal, "val"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d = %+v, want {%s %q}", i, toks[i], w.kind, w.text)
		}
	}
}

func TestLexNumbers(t *testing.T) {
	test := func(text string, kind token.Kind) {
		toks := scanAll(t, text)
		if len(toks) != 1 || toks[0].Kind != kind || toks[0].Text != text {
			t.Errorf("scan(%q) = %+v, want single %s token", text, toks, kind)
		}
	}
	test("123", token.Int)
	test("0x1F", token.Int)
	test("0o17", token.Int)
	test("0b101", token.Int)
	test("3.14", token.Float)
	test("2e10", token.Float)
}

func TestLexInvalidExponentBacksOff(t *testing.T) {
	// "2e" has no digit after 'e', so it isn't a valid exponent: scanNumber
	// backs off to just "2" and the trailing 'e' is scanned as its own ident.
	toks := scanAll(t, "2e")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2 (Int \"2\", Ident \"e\"): %+v", len(toks), toks)
	}
	if toks[0].Kind != token.Int || toks[0].Text != "2" {
		t.Errorf("token 0 = %+v, want Int \"2\"", toks[0])
	}
	if toks[1].Kind != token.Ident || toks[1].Text != "e" {
		t.Errorf("token 1 = %+v, want Ident \"e\"", toks[1])
	}
}

func TestLexString(t *testing.T) {
	toks := scanAll(t, `"hello \"world\""`)
	if len(toks) != 1 || toks[0].Kind != token.String {
		t.Fatalf("got %+v, want single string token", toks)
	}

	unterminated := scanAll(t, `"never closed`)
	if len(unterminated) != 1 || unterminated[0].Kind != token.Error {
		t.Fatalf("got %+v, want single error token for unterminated string", unterminated)
	}
}

func TestLexOperatorsAndPunctuation(t *testing.T) {
	toks := scanAll(t, "a + b -> c :: d")
	kinds := []token.Kind{token.Ident, token.Oper, token.Ident, token.Arrow, token.Ident, token.TwoColons, token.Ident}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(kinds), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexSkipsComments(t *testing.T) {
	toks := scanAll(t, "a // line comment\nb /* block\ncomment */ c")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %+v", len(toks), toks)
	}
	for i, want := range []string{"a", "b", "c"} {
		if toks[i].Text != want {
			t.Errorf("token %d = %q, want %q", i, toks[i].Text, want)
		}
	}
}

func TestLexUnknownByteDoesNotHaltScanning(t *testing.T) {
	toks := scanAll(t, "a # b")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3 (ident, error, ident): %+v", len(toks), toks)
	}
	if toks[1].Kind != token.Error {
		t.Errorf("middle token = %+v, want an Error token", toks[1])
	}
}

func TestLexerSeekRoundTrips(t *testing.T) {
	mgr := source.NewManager()
	file, err := mgr.LoadVirtual("test", []byte("a b c"))
	if err != nil {
		t.Fatalf("LoadVirtual: %v", err)
	}
	l := lex.New(mgr, file)

	first := l.Next()
	mark := l.Pos()
	second := l.Next()
	if second.Text != "b" {
		t.Fatalf("expected to read 'b' second, got %q", second.Text)
	}

	l.Seek(mark)
	replayed := l.Next()
	if replayed != second {
		t.Errorf("after Seek, replayed token = %+v, want %+v", replayed, second)
	}
	_ = first
}
