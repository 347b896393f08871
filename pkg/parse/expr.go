package parse

import (
	"strconv"

	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
)

// ParseExpr parses a full expression: a prefix expression with its compound
// suffixes, then zero or more binary suffixes assembled by an InfixTree
// (spec.md §4.D step 3, §9).
func (s *State) ParseExpr() (ast.Expr, error) {
	lhs, err := s.parsePrefixExpr()
	if err != nil {
		return nil, err
	}

	tree := NewInfixTree(lhs)
	last := lhs

	for {
		if _, ok := s.TakeKind(token.KwCast); ok {
			op := "as"
			if t := s.Peek(); t.Kind == token.Oper && (t.Text == "?" || t.Text == "!") {
				op = "as" + t.Text
				s.Take()
			}
			target, err := s.ParseSign()
			if err != nil {
				return nil, err
			}
			tree.AppendCast(op, target.Range(), target)
			// casting never becomes the left operand of a further
			// identifier-as-infix application; loop back to try another
			// suffix starting from the original chain.
			last = lhs
			continue
		}

		if save := s.Save(); true {
			if opText, opRange, ok := s.TakeOperator(true); ok {
				rhs, err := s.parseOperand()
				if err != nil {
					return nil, err
				}
				tree.Append(opText, opRange, groupFor(opText), rhs)
				last = rhs
				continue
			}
			s.Restore(save)
		}

		if s.Peek().Kind == token.Ident && s.sameLine(last.Range(), s.Peek().Range) {
			idTok := s.Take()
			rhs, err := s.parseOperand()
			if err != nil {
				return nil, err
			}
			tree.Append(idTok.Text, idTok.Range, groupFor("identifier"), rhs)
			last = rhs
			continue
		}

		break
	}

	return tree.Flatten(), nil
}

// parseOperand parses one right-hand operand of a binary suffix: a prefix
// expression plus its own compound suffixes.
func (s *State) parseOperand() (ast.Expr, error) {
	return s.parsePrefixExpr()
}

// parsePrefixExpr parses an optional prefix operator (never "=" or a cast)
// immediately adjacent to its operand, then the compound suffix chain.
// `&x` lowers to AddrOfExpr; any other prefix operator lowers to
// PrefixCallExpr, the call-over-an-unresolved-member node spec.md names for
// this shape (spec.md §3/§4.D step 1).
func (s *State) parsePrefixExpr() (ast.Expr, error) {
	save := s.Save()
	if opText, opRange, ok := s.TakeOperator(false); ok {
		if s.Peek().Range.Start == opRange.End && s.Peek().Kind != token.None {
			operand, err := s.parsePrefixExpr()
			if err != nil {
				return nil, err
			}
			rng := opRange.Join(operand.Range())
			if opText == "&" {
				return &ast.AddrOfExpr{Node: ast.Node{Rng: rng}, Operand: operand}, nil
			}
			return &ast.PrefixCallExpr{Node: ast.Node{Rng: rng}, Op: opText, OpRange: opRange, Operand: operand}, nil
		}
		s.Restore(save)
	}

	primary, err := s.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return s.parseCompoundSuffixes(primary)
}

// parseCompoundSuffixes consumes call-args (same line only), subscripts,
// `.member`/`.0` access and directly-attached postfix operators (spec.md
// §4.D step 2).
func (s *State) parseCompoundSuffixes(lhs ast.Expr) (ast.Expr, error) {
	for {
		switch {
		case s.Peek().Kind == token.LParen && s.sameLine(lhs.Range(), s.Peek().Range):
			args, rng, err := s.parseArgList(token.LParen, token.RParen)
			if err != nil {
				return nil, err
			}
			lhs = &ast.CallExpr{Node: ast.Node{Rng: lhs.Range().Join(rng)}, Callee: lhs, Args: args}

		case s.Peek().Kind == token.LBrack:
			args, rng, err := s.parseArgList(token.LBrack, token.RBrack)
			if err != nil {
				return nil, err
			}
			callee := &ast.MemberExpr{Node: ast.Node{Rng: lhs.Range()}, Base: lhs, Name: "[]"}
			lhs = &ast.CallExpr{Node: ast.Node{Rng: lhs.Range().Join(rng)}, Callee: callee, Args: args}

		case s.Peek().Kind == token.Dot:
			dot := s.Take()
			switch {
			case s.Peek().Kind == token.Ident:
				name := s.Take()
				lhs = &ast.MemberExpr{Node: ast.Node{Rng: lhs.Range().Join(name.Range)}, Base: lhs, Name: name.Text}
			case s.Peek().Kind == token.Int:
				idxTok := s.Take()
				idx, _ := strconv.Atoi(idxTok.Text)
				lhs = &ast.TupleMemberExpr{Node: ast.Node{Rng: lhs.Range().Join(idxTok.Range)}, Base: lhs, Index: idx}
			default:
				if opText, opRange, ok := s.TakeOperator(false); ok {
					lhs = &ast.MemberExpr{Node: ast.Node{Rng: lhs.Range().Join(opRange)}, Base: lhs, Name: opText}
				} else {
					s.Report(diag.Error, s.ErrorRange(), "expected a member name after '.', found %s", s.Peek().Kind)
					return lhs, nil
				}
			}
			_ = dot

		case s.canTakePostfixOperator(lhs):
			save := s.Save()
			opText, opRange, _ := s.TakeOperator(false)
			if opRange.Start == lhs.Range().End && s.followedByBoundary(opRange.End) {
				lhs = &ast.PostfixCallExpr{Node: ast.Node{Rng: lhs.Range().Join(opRange)}, Op: opText, OpRange: opRange, Operand: lhs}
			} else {
				s.Restore(save)
				return lhs, nil
			}

		default:
			return lhs, nil
		}
	}
}

// canTakePostfixOperator is a cheap pre-check avoiding the Save/Restore dance
// for every non-operator token.
func (s *State) canTakePostfixOperator(lhs ast.Expr) bool {
	t := s.Peek()
	if !isGlueableOperatorKind(t.Kind) {
		return false
	}
	return t.Range.Start == lhs.Range().End
}

// parseArgList parses `(label: expr, ...)` / `[label: expr, ...]` argument
// lists shared by calls and subscripts.
func (s *State) parseArgList(left, right token.Kind) ([]ast.Argument, source.Range, error) {
	return parseDelimitedList(s, left, right, func() (ast.Argument, bool, error) {
		if s.Peek().Kind == right {
			return ast.Argument{}, false, nil
		}
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
		value, err := s.ParseExpr()
		if err != nil {
			return ast.Argument{}, false, err
		}
		return ast.Argument{Label: label, Value: value}, true, nil
	})
}

// parsePrimaryExpr parses a single atomic expression term.
func (s *State) parsePrimaryExpr() (ast.Expr, error) {
	tok := s.Peek()
	switch tok.Kind {
	case token.Int:
		s.Take()
		return &ast.IntLiteralExpr{Node: ast.Node{Rng: tok.Range}, Text: tok.Text}, nil
	case token.Float:
		s.Take()
		return &ast.FloatLiteralExpr{Node: ast.Node{Rng: tok.Range}, Text: tok.Text}, nil
	case token.Bool:
		s.Take()
		return &ast.BoolLiteralExpr{Node: ast.Node{Rng: tok.Range}, Value: tok.Text == "true"}, nil
	case token.String:
		s.Take()
		return &ast.StringLiteralExpr{Node: ast.Node{Rng: tok.Range}, Text: tok.Text}, nil
	case token.Under:
		s.Take()
		return &ast.WildcardExpr{Node: ast.Node{Rng: tok.Range}}, nil
	case token.LParen:
		return s.parseTupleExpr()
	case token.KwAsync:
		s.Take()
		operand, err := s.ParseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AsyncExpr{Node: ast.Node{Rng: tok.Range.Join(operand.Range())}, Operand: operand}, nil
	case token.KwAwait:
		s.Take()
		operand, err := s.parsePrefixExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AwaitExpr{Node: ast.Node{Rng: tok.Range.Join(operand.Range())}, Operand: operand}, nil
	case token.KwMatch:
		return s.parseMatchExpr()
	case token.Ident:
		return s.parseDeclRefExpr()
	default:
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected an expression, found %s", tok.Kind)
		s.Take()
		return &ast.ErrorExpr{Node: ast.Node{Rng: rng}}, nil
	}
}

// parseTupleExpr parses `(label: expr, ...)`.
func (s *State) parseTupleExpr() (ast.Expr, error) {
	start := s.Peek().Range
	elements, rng, err := parseDelimitedList(s, token.LParen, token.RParen, func() (ast.TupleElement, bool, error) {
		if s.Peek().Kind == token.RParen {
			return ast.TupleElement{}, false, nil
		}
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
		value, err := s.ParseExpr()
		if err != nil {
			return ast.TupleElement{}, false, err
		}
		return ast.TupleElement{Label: label, Value: value}, true, nil
	})
	if err != nil {
		return nil, err
	}
	_ = start
	return &ast.TupleExpr{Node: ast.Node{Rng: rng}, Elements: elements}, nil
}

// parseDeclRefExpr implements the speculative `::`-path resolution from
// spec.md §4.D: diagnostics raised while probing for further `::` components
// are buffered and only committed once the path actually contains one,
// otherwise they are discarded along with the (successful) backtrack to a
// bare identifier.
func (s *State) parseDeclRefExpr() (ast.Expr, error) {
	first, ok := s.TakeKind(token.Ident)
	if !ok {
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected an identifier, found %s", s.Peek().Kind)
		return &ast.ErrorExpr{Node: ast.Node{Rng: rng}}, nil
	}

	if first.Text == "this" {
		return &ast.ReceiverExpr{Node: ast.Node{Rng: first.Range}, Kind: ast.This}, nil
	}
	if first.Text == "self" {
		return &ast.ReceiverExpr{Node: ast.Node{Rng: first.Range}, Kind: ast.SelfKw}, nil
	}

	afterHead := s.Save()
	buffered := &diag.BufferSink{}
	prevSink := s.SwapSink(buffered)

	var components []token.Token
	for {
		if _, ok := s.TakeKind(token.TwoColons); !ok {
			break
		}
		next, ok := s.TakeKind(token.Ident)
		if !ok {
			s.Report(diag.Error, s.ErrorRange(), "expected an identifier after '::'")
			break
		}
		components = append(components, next)
	}

	s.SwapSink(prevSink)

	if len(components) == 0 {
		buffered.Discard()
		s.Restore(afterHead)
		return &ast.UnresolvedDeclRefExpr{Node: ast.Node{Rng: first.Range}, Name: first.Text}, nil
	}

	buffered.Commit(prevSink)

	var qualifier ast.Sign = &ast.BareIdentSign{Node: ast.Node{Rng: first.Range}, Name: first.Text}
	rng := first.Range
	for i := 0; i < len(components)-1; i++ {
		c := components[i]
		qualifier = &ast.CompoundIdentSign{
			Node:       ast.Node{Rng: qualifier.Range().Join(c.Range)},
			Components: []ast.Sign{qualifier, &ast.BareIdentSign{Node: ast.Node{Rng: c.Range}, Name: c.Text}},
		}
		rng = rng.Join(c.Range)
	}
	last := components[len(components)-1]
	rng = rng.Join(last.Range)

	return &ast.UnresolvedDeclRefExpr{Node: ast.Node{Rng: rng}, Qualifier: qualifier, Name: last.Text}, nil
}

// parseMatchExpr parses `match subject { ('case' pattern ('where' expr)? brace-stmt)* }`.
func (s *State) parseMatchExpr() (ast.Expr, error) {
	kw := s.Take()
	subject, err := s.ParseExpr()
	if err != nil {
		return nil, err
	}

	if _, ok := s.TakeKind(token.LBrace); !ok {
		s.Report(diag.Error, s.ErrorRange(), "expected '{' to start match body")
	}

	var cases []ast.MatchCase
	for s.Peek().Kind == token.KwCase {
		caseKw := s.Take()
		caseSpace := s.arena.NewChild(s.Space, nil)
		s.EnterSpace(caseSpace)

		pat, vars, err := s.ParsePattern()
		if err != nil {
			s.ExitSpace()
			return nil, err
		}
		for _, v := range vars {
			s.arena.Append(caseSpace, v)
		}

		var guard ast.Expr
		if _, ok := s.TakeKind(token.KwWhere); ok {
			guard, err = s.ParseExpr()
			if err != nil {
				s.ExitSpace()
				return nil, err
			}
		}

		body, err := s.parseBraceStmt()
		s.ExitSpace()
		if err != nil {
			return nil, err
		}

		rng := caseKw.Range.Join(body.Range())
		cases = append(cases, ast.MatchCase{Node: ast.Node{Rng: rng}, Space: caseSpace, Pattern: pat, Guard: guard, Body: body})
	}

	closeTok, ok := s.TakeKind(token.RBrace)
	rng := kw.Range.Join(subject.Range())
	if ok {
		rng = rng.Join(closeTok.Range)
	} else {
		s.Report(diag.Error, s.ErrorRange(), "expected '}' to close match body")
		s.Skip(func(t token.Token) bool { return t.Kind != token.RBrace && t.Kind != token.Semi })
		if end, ok := s.TakeKind(token.RBrace); ok {
			rng = rng.Join(end.Range)
		}
	}

	return &ast.MatchExpr{Node: ast.Node{Rng: rng}, Subject: subject, Cases: cases}, nil
}
