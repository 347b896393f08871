package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
)

// isDeclStart reports whether k can begin a declaration: a modifier keyword
// or one of the eight decl-introducing keywords (spec.md §4.D).
func isDeclStart(k token.Kind) bool {
	switch k {
	case token.KwPub, token.KwMod, token.KwMut, token.KwInfix, token.KwPrefix, token.KwPostfix,
		token.KwVolatile, token.KwStatic, token.KwMoveonly,
		token.KwVal, token.KwVar, token.KwFun, token.KwNew, token.KwDel, token.KwType, token.KwView, token.KwExtn:
		return true
	default:
		return false
	}
}

// Parse parses an entire source file into a SourceUnit: a flat top-level
// decl loop that skips stray ';' and, on either an unrecognized token or a
// failed decl, reports a diagnostic and skips to the next plausible decl
// start (spec.md §4.D "top-level decl loop with skip-to-recovery").
func Parse(mgr *source.Manager, file source.FileID, sink diag.Sink) (*ast.SourceUnit, error) {
	arena := ast.NewArena()
	s := NewState(mgr, file, arena, sink)

	var decls []ast.Decl
	for s.Peek().Kind != token.None {
		if _, ok := s.TakeKind(token.Semi); ok {
			continue
		}

		if !isDeclStart(s.Peek().Kind) {
			rng := s.ErrorRange()
			s.Report(diag.Error, rng, "expected a declaration, found %s", s.Peek().Kind)
			s.Skip(func(t token.Token) bool { return !isDeclStart(t.Kind) && t.Kind != token.Semi })
			continue
		}

		decl, err := s.parseDecl()
		if err != nil {
			s.Report(diag.Error, s.ErrorRange(), "%s", err.Error())
			s.Skip(func(t token.Token) bool { return !isDeclStart(t.Kind) && t.Kind != token.Semi })
			continue
		}
		decls = append(decls, decl)
	}

	return &ast.SourceUnit{File: file, Arena: arena, Decls: decls, HasError: s.HasError()}, nil
}
