package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/token"
)

// ParseSign parses a type signature:
// `sign ::= ('mut'|'volatile')* async-sign ('->' sign)?`
// (spec.md §4.D). Function signatures are right-recursive; `volatile` is
// only legal on a function signature; `mut` wraps the result as InoutSign.
func (s *State) ParseSign() (ast.Sign, error) {
	start := s.Peek().Range

	var mut, volatile bool
	for {
		if _, ok := s.TakeKind(token.KwMut); ok {
			mut = true
			continue
		}
		if _, ok := s.TakeKind(token.KwVolatile); ok {
			volatile = true
			continue
		}
		break
	}

	base, err := s.parseAsyncSign()
	if err != nil {
		return nil, err
	}

	if _, ok := s.TakeKind(token.Arrow); ok {
		ret, err := s.ParseSign()
		if err != nil {
			return nil, err
		}
		params := unwrapTupleParams(base)
		rng := start.Join(ret.Range())
		fn := &ast.FunctionSign{Node: ast.Node{Rng: rng}, Params: params, Return: ret, Volatile: volatile}
		if mut {
			return &ast.InoutSign{Node: ast.Node{Rng: rng}, Base: fn}, nil
		}
		return fn, nil
	}

	if volatile {
		s.Report(diag.Error, base.Range(), "'volatile' is only permitted on function signatures")
	}

	if mut {
		return &ast.InoutSign{Node: ast.Node{Rng: start.Join(base.Range())}, Base: base}, nil
	}
	return base, nil
}

// unwrapTupleParams turns a parenthesized tuple signature into a parameter
// list; any other signature is treated as the sole parameter (an unusual
// but harmless fallback for an un-parenthesized single-argument spelling).
func unwrapTupleParams(sign ast.Sign) []ast.Sign {
	if tup, ok := sign.(*ast.TupleSign); ok {
		params := make([]ast.Sign, len(tup.Elements))
		for i, e := range tup.Elements {
			params[i] = e.Value
		}
		return params
	}
	return []ast.Sign{sign}
}

// parseAsyncSign prepends an optional `async` to a maxterm.
func (s *State) parseAsyncSign() (ast.Sign, error) {
	start := s.Peek().Range
	if _, ok := s.TakeKind(token.KwAsync); ok {
		base, err := s.parseMaxterm()
		if err != nil {
			return nil, err
		}
		return &ast.AsyncSign{Node: ast.Node{Rng: start.Join(base.Range())}, Base: base}, nil
	}
	return s.parseMaxterm()
}

// parseMaxterm is the `|`-disjunction (union) level.
func (s *State) parseMaxterm() (ast.Sign, error) {
	first, err := s.parseMinterm()
	if err != nil {
		return nil, err
	}

	members := []ast.Sign{first}
	for s.isBareOperator("|") {
		s.Take()
		next, err := s.parseMinterm()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	rng := members[0].Range().Join(members[len(members)-1].Range())
	return &ast.UnionSign{Node: ast.Node{Rng: rng}, Members: members}, nil
}

// parseMinterm is the `&`-conjunction (view composition) level.
func (s *State) parseMinterm() (ast.Sign, error) {
	first, err := s.parsePrimarySign()
	if err != nil {
		return nil, err
	}

	members := []ast.Sign{first}
	for s.isBareOperator("&") {
		s.Take()
		next, err := s.parsePrimarySign()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	rng := members[0].Range().Join(members[len(members)-1].Range())
	return &ast.ViewCompositionSign{Node: ast.Node{Rng: rng}, Members: members}, nil
}

// isBareOperator reports whether the lookahead is exactly the one-glyph
// Oper token text (i.e. not already glued into a longer run by the lexer).
func (s *State) isBareOperator(text string) bool {
	t := s.Peek()
	return t.Kind == token.Oper && t.Text == text
}

func (s *State) parsePrimarySign() (ast.Sign, error) {
	switch s.Peek().Kind {
	case token.Ident:
		return s.parseCompoundIdentSign()
	case token.LParen:
		return s.parseTupleSign()
	default:
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected a type signature, found %s", s.Peek().Kind)
		return &ast.ErrorSign{Node: ast.Node{Rng: rng}}, nil
	}
}

func (s *State) parseCompoundIdentSign() (ast.Sign, error) {
	first, err := s.parseIdentComponent()
	if err != nil {
		return nil, err
	}

	components := []ast.Sign{first}
	for {
		if _, ok := s.TakeKind(token.TwoColons); !ok {
			break
		}
		next, err := s.parseIdentComponent()
		if err != nil {
			return nil, err
		}
		components = append(components, next)
	}

	if len(components) == 1 {
		return first, nil
	}
	rng := components[0].Range().Join(components[len(components)-1].Range())
	return &ast.CompoundIdentSign{Node: ast.Node{Rng: rng}, Components: components}, nil
}

func (s *State) parseIdentComponent() (ast.Sign, error) {
	name, ok := s.TakeKind(token.Ident)
	if !ok {
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected an identifier in type signature, found %s", s.Peek().Kind)
		return &ast.ErrorSign{Node: ast.Node{Rng: rng}}, nil
	}

	if _, ok := s.TakeKind(token.LAngle); ok {
		var args []ast.Sign
		for {
			arg, err := s.ParseSign()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := s.TakeKind(token.Comma); ok {
				continue
			}
			break
		}
		end, ok := s.TakeKind(token.RAngle)
		rng := name.Range
		if ok {
			rng = rng.Join(end.Range)
		} else {
			s.Report(diag.Error, s.ErrorRange(), "expected '>' to close generic argument list")
		}
		return &ast.SpecializedIdentSign{Node: ast.Node{Rng: rng}, Name: name.Text, Args: args}, nil
	}

	return &ast.BareIdentSign{Node: ast.Node{Rng: name.Range}, Name: name.Text}, nil
}

func (s *State) parseTupleSign() (ast.Sign, error) {
	open, _ := s.TakeKind(token.LParen)
	var elements []ast.TupleSignElement

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
		value, err := s.ParseSign()
		if err != nil {
			return nil, err
		}
		elements = append(elements, ast.TupleSignElement{Label: label, Value: value})
		if _, ok := s.TakeKind(token.Comma); !ok {
			break
		}
	}

	close, ok := s.TakeKind(token.RParen)
	rng := open.Range
	if ok {
		rng = rng.Join(close.Range)
	} else {
		s.Report(diag.Error, s.ErrorRange(), "expected ')' to close tuple signature")
		s.Skip(func(t token.Token) bool { return t.Kind != token.RParen && t.Kind != token.RBrace && t.Kind != token.Semi })
		if end, ok := s.TakeKind(token.RParen); ok {
			rng = rng.Join(end.Range)
		}
	}
	return &ast.TupleSign{Node: ast.Node{Rng: rng}, Elements: elements}, nil
}
