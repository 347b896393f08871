package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/token"
)

// ParsePattern parses named/binding/tuple/wildcard patterns (spec.md §3/§4.D)
// and returns every VariableDecl it introduces so the caller (a
// PatternBindingDecl) can set each one's PatternBindingDecl back-pointer
// once it exists, satisfying the invariant in spec.md §8.
func (s *State) ParsePattern() (ast.Pattern, []*ast.VariableDecl, error) {
	switch s.Peek().Kind {
	case token.Under:
		tok := s.Take()
		return &ast.WildcardPattern{Node: ast.Node{Rng: tok.Range}}, nil, nil

	case token.KwVal, token.KwVar:
		kw := s.Take()
		isVar := kw.Kind == token.KwVar
		sub, vars, err := s.ParsePattern()
		if err != nil {
			return nil, nil, err
		}
		rng := kw.Range.Join(sub.Range())
		var sign ast.Sign
		if _, ok := s.TakeKind(token.Colon); ok {
			sign, err = s.ParseSign()
			if err != nil {
				return nil, nil, err
			}
			rng = rng.Join(sign.Range())
		}
		return &ast.BindingPattern{Node: ast.Node{Rng: rng}, IsVar: isVar, Sub: sub, Sign: sign}, vars, nil

	case token.LParen:
		return s.parseTuplePattern()

	case token.Ident:
		tok := s.Take()
		v := &ast.VariableDecl{Node: ast.Node{Rng: tok.Range}, Name: tok.Text}
		return &ast.NamedPattern{Node: ast.Node{Rng: tok.Range}, Var: v}, []*ast.VariableDecl{v}, nil

	default:
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected a pattern, found %s", s.Peek().Kind)
		return &ast.WildcardPattern{Node: ast.Node{Rng: rng}}, nil, nil
	}
}

func (s *State) parseTuplePattern() (ast.Pattern, []*ast.VariableDecl, error) {
	open, _ := s.TakeKind(token.LParen)
	var elements []ast.TuplePatternElement
	var vars []*ast.VariableDecl

	for s.Peek().Kind != token.RParen && s.Peek().Kind != token.None {
		label := ""
		if save := s.Save(); true {
			if name, ok := s.TakeKind(token.Ident); ok {
				if _, isColon := s.TakeKind(token.Colon); isColon {
					label = name.Text
				} else {
					s.Restore(save)
				}
			}
		}
		value, sub, err := s.ParsePattern()
		if err != nil {
			return nil, nil, err
		}
		vars = append(vars, sub...)
		elements = append(elements, ast.TuplePatternElement{Label: label, Value: value})
		if _, ok := s.TakeKind(token.Comma); !ok {
			break
		}
	}

	close, ok := s.TakeKind(token.RParen)
	rng := open.Range
	if ok {
		rng = rng.Join(close.Range)
	} else {
		s.Report(diag.Error, s.ErrorRange(), "expected ')' to close tuple pattern")
		s.Skip(func(t token.Token) bool { return t.Kind != token.RParen && t.Kind != token.RBrace && t.Kind != token.Semi })
		if end, ok := s.TakeKind(token.RParen); ok {
			rng = rng.Join(end.Range)
		}
	}
	return &ast.TuplePattern{Node: ast.Node{Rng: rng}, Elements: elements}, vars, nil
}
