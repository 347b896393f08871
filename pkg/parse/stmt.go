package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/token"
)

// parseBraceStmt parses `{ stmt* }`, opening a fresh declaration space for
// the block's own local decls (spec.md §4.D, §8).
func (s *State) parseBraceStmt() (*ast.BraceStmt, error) {
	open, ok := s.TakeKind(token.LBrace)
	if !ok {
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected '{', found %s", s.Peek().Kind)
		return &ast.BraceStmt{Node: ast.Node{Rng: rng}}, nil
	}

	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)

	var stmts []ast.Stmt
	for s.Peek().Kind != token.RBrace && s.Peek().Kind != token.None {
		if _, ok := s.TakeKind(token.Semi); ok {
			continue
		}
		stmt, err := s.parseStmt()
		if err != nil {
			s.ExitSpace()
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	s.ExitSpace()

	close, ok := s.TakeKind(token.RBrace)
	rng := open.Range
	if ok {
		rng = rng.Join(close.Range)
	} else {
		s.Report(diag.Error, s.ErrorRange(), "expected '}' to close block")
		s.Skip(func(t token.Token) bool { return t.Kind != token.RBrace && t.Kind != token.Semi })
		if end, ok := s.TakeKind(token.RBrace); ok {
			rng = rng.Join(end.Range)
		}
	}

	return &ast.BraceStmt{Node: ast.Node{Rng: rng}, Space: space, Stmts: stmts}, nil
}

// parseStmt dispatches a single statement. break/continue are the only
// loop-control keywords spec.md §3 actually lists in the Statement family,
// so they get real (field-less) AST nodes below. for/while/del-as-statement
// are named in spec.md §9 as carrying a fatalError("not implemented") in the
// original parser and are deliberately NOT given any grammar here: they fall
// through to the default case, are rejected as the start of an expression,
// and surface as an ordinary parse diagnostic rather than invented syntax.
func (s *State) parseStmt() (ast.Stmt, error) {
	switch s.Peek().Kind {
	case token.KwRet:
		kw := s.Take()
		var value ast.Expr
		rng := kw.Range
		if s.Peek().Kind != token.Semi && s.Peek().Kind != token.RBrace && s.Peek().Kind != token.None {
			v, err := s.ParseExpr()
			if err != nil {
				return nil, err
			}
			value = v
			rng = rng.Join(v.Range())
		}
		return &ast.ReturnStmt{Node: ast.Node{Rng: rng}, Value: value}, nil

	case token.KwBreak:
		kw := s.Take()
		return &ast.BreakStmt{Node: ast.Node{Rng: kw.Range}}, nil

	case token.KwContinue:
		kw := s.Take()
		return &ast.ContinueStmt{Node: ast.Node{Rng: kw.Range}}, nil

	case token.KwVal, token.KwVar, token.KwFun, token.KwNew, token.KwType,
		token.KwView, token.KwExtn:
		decl, err := s.parseDecl()
		if err != nil {
			return nil, err
		}
		return &ast.DeclStmt{Node: ast.Node{Rng: decl.Range()}, Decl: decl}, nil

	default:
		expr, err := s.ParseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Node: ast.Node{Rng: expr.Range()}, Expr: expr}, nil
	}
}
