package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
)

// parseModifiers consumes the leading modifier keywords of a declaration,
// reporting an error if two modifiers from the same exclusivity set (pub/mod
// visibility, infix/prefix/postfix fixity) both appear (spec.md §4.D
// "modifier parsing with exclusivity sets").
func (s *State) parseModifiers() ast.Modifiers {
	var m ast.Modifiers
	for {
		switch s.Peek().Kind {
		case token.KwPub:
			tok := s.Take()
			if m.Pub || m.Mod {
				s.Report(diag.Error, tok.Range, "'pub' conflicts with an earlier visibility modifier")
			}
			m.Pub = true
		case token.KwMod:
			tok := s.Take()
			if m.Pub || m.Mod {
				s.Report(diag.Error, tok.Range, "'mod' conflicts with an earlier visibility modifier")
			}
			m.Mod = true
		case token.KwMut:
			s.Take()
			m.Mut = true
		case token.KwInfix:
			tok := s.Take()
			if m.Infix || m.Prefix || m.Postfix {
				s.Report(diag.Error, tok.Range, "'infix' conflicts with an earlier fixity modifier")
			}
			m.Infix = true
		case token.KwPrefix:
			tok := s.Take()
			if m.Infix || m.Prefix || m.Postfix {
				s.Report(diag.Error, tok.Range, "'prefix' conflicts with an earlier fixity modifier")
			}
			m.Prefix = true
		case token.KwPostfix:
			tok := s.Take()
			if m.Infix || m.Prefix || m.Postfix {
				s.Report(diag.Error, tok.Range, "'postfix' conflicts with an earlier fixity modifier")
			}
			m.Postfix = true
		case token.KwVolatile:
			s.Take()
			m.Volatile = true
		case token.KwStatic:
			s.Take()
			m.Static = true
		case token.KwMoveonly:
			s.Take()
			m.Moveonly = true
		default:
			return m
		}
	}
}

func fixityOf(m ast.Modifiers) ast.Fixity {
	switch {
	case m.Infix:
		return ast.Infix
	case m.Prefix:
		return ast.Prefix
	case m.Postfix:
		return ast.Postfix
	default:
		return ast.NotOperator
	}
}

// parseDecl parses one declaration. Callers (the top-level loop, a brace
// block, a type/view/extension member list) are expected to have already
// confirmed the lookahead starts a declaration; the default case below only
// guards against a modifier run followed by something unrecognized.
func (s *State) parseDecl() (ast.Decl, error) {
	start := s.Peek().Range
	mods := s.parseModifiers()

	switch s.Peek().Kind {
	case token.KwVal, token.KwVar:
		return s.parsePatternBindingDecl(mods, start)
	case token.KwFun:
		return s.parseFuncDecl(mods, start)
	case token.KwNew:
		return s.parseCtorDecl(mods, start)
	case token.KwDel:
		return s.parseDtorDecl(mods, start)
	case token.KwType:
		return s.parseTypeDecl(mods, start)
	case token.KwView:
		return s.parseViewTypeDecl(mods, start)
	case token.KwExtn:
		return s.parseExtensionDecl(mods, start)
	default:
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected a declaration, found %s", s.Peek().Kind)
		pat := &ast.WildcardPattern{Node: ast.Node{Rng: rng}}
		return &ast.PatternBindingDecl{Node: ast.Node{Rng: start.Join(rng)}, Space: s.Space, Modifiers: mods, Pattern: pat}, nil
	}
}

func (s *State) parsePatternBindingDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	kw := s.Take()
	isVar := kw.Kind == token.KwVar

	pattern, vars, err := s.ParsePattern()
	if err != nil {
		return nil, err
	}
	rng := start.Join(pattern.Range())

	var sign ast.Sign
	if _, ok := s.TakeKind(token.Colon); ok {
		sign, err = s.ParseSign()
		if err != nil {
			return nil, err
		}
		rng = rng.Join(sign.Range())
	}

	var init ast.Expr
	if _, ok := s.TakeKind(token.Assign); ok {
		init, err = s.ParseExpr()
		if err != nil {
			return nil, err
		}
		rng = rng.Join(init.Range())
	}

	decl := &ast.PatternBindingDecl{
		Node: ast.Node{Rng: rng}, Space: s.Space, Modifiers: mods,
		IsVar: isVar, Pattern: pattern, Sign: sign, Init: init,
	}
	for _, v := range vars {
		v.PatternBindingDecl = decl
		s.arena.Append(s.Space, v)
	}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

// parseParamList parses `(label? name ':' sign, ...)`. A lone leading
// identifier is both label and name; two identifiers before the colon make
// the first the external label and the second the internal name; a leading
// '_' means no external label at all.
func (s *State) parseParamList() ([]ast.Param, source.Range, error) {
	return parseDelimitedList(s, token.LParen, token.RParen, func() (ast.Param, bool, error) {
		if s.Peek().Kind == token.RParen {
			return ast.Param{}, false, nil
		}
		start := s.Peek().Range
		label, name := "", ""
		if _, ok := s.TakeKind(token.Under); ok {
			nameTok, ok := s.TakeKind(token.Ident)
			if !ok {
				s.Report(diag.Error, s.ErrorRange(), "expected a parameter name, found %s", s.Peek().Kind)
				return ast.Param{}, false, nil
			}
			name = nameTok.Text
		} else {
			first, ok := s.TakeKind(token.Ident)
			if !ok {
				s.Report(diag.Error, s.ErrorRange(), "expected a parameter, found %s", s.Peek().Kind)
				return ast.Param{}, false, nil
			}
			if second, ok := s.TakeKind(token.Ident); ok {
				label, name = first.Text, second.Text
			} else {
				label, name = first.Text, first.Text
			}
		}

		if _, ok := s.TakeKind(token.Colon); !ok {
			s.Report(diag.Error, s.ErrorRange(), "expected ':' before a parameter's type signature")
		}
		sign, err := s.ParseSign()
		if err != nil {
			return ast.Param{}, false, err
		}

		v := &ast.VariableDecl{Node: ast.Node{Rng: start.Join(sign.Range())}, Name: name}
		return ast.Param{Node: ast.Node{Rng: start.Join(sign.Range())}, Label: label, Name: name, Sign: sign, ParamVar: v}, true, nil
	})
}

// maybeParseGenericClause parses an optional `'<' param (',' param)* '>'
// ('where' requirement (',' requirement)*)?` clause.
func (s *State) maybeParseGenericClause() (*ast.GenericClause, error) {
	if s.Peek().Kind != token.LAngle {
		return nil, nil
	}
	open := s.Take()

	var params []*ast.GenericParameterDecl
	for {
		name, ok := s.TakeKind(token.Ident)
		if !ok {
			s.Report(diag.Error, s.ErrorRange(), "expected a generic parameter name, found %s", s.Peek().Kind)
			break
		}
		params = append(params, &ast.GenericParameterDecl{Node: ast.Node{Rng: name.Range}, Name: name.Text})
		if _, ok := s.TakeKind(token.Comma); ok {
			continue
		}
		break
	}

	close, ok := s.TakeKind(token.RAngle)
	rng := open.Range
	if ok {
		rng = rng.Join(close.Range)
	} else {
		s.Report(diag.Error, s.ErrorRange(), "expected '>' to close generic parameter list")
		s.Skip(func(t token.Token) bool { return t.Kind != token.RAngle && t.Kind != token.LBrace && t.Kind != token.Semi })
		if end, ok := s.TakeKind(token.RAngle); ok {
			rng = rng.Join(end.Range)
		}
	}

	var reqs []ast.TypeRequirement
	if _, ok := s.TakeKind(token.KwWhere); ok {
		for {
			req, err := s.parseTypeRequirement()
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, req)
			if _, ok := s.TakeKind(token.Comma); ok {
				continue
			}
			break
		}
	}

	return &ast.GenericClause{Node: ast.Node{Rng: rng}, Params: params, Requirements: reqs}, nil
}

// parseTypeRequirement parses `sign '==' sign` (equality) or `sign ':' sign`
// (conformance), used in a generic clause's `where` list.
func (s *State) parseTypeRequirement() (ast.TypeRequirement, error) {
	subject, err := s.ParseSign()
	if err != nil {
		return ast.TypeRequirement{}, err
	}

	if _, ok := s.TakeKind(token.Colon); ok {
		constraint, err := s.ParseSign()
		if err != nil {
			return ast.TypeRequirement{}, err
		}
		return ast.TypeRequirement{Node: ast.Node{Rng: subject.Range().Join(constraint.Range())}, Subject: subject, Equality: false, Constraint: constraint}, nil
	}
	if text, _, ok := s.TakeOperator(false); ok && text == "==" {
		constraint, err := s.ParseSign()
		if err != nil {
			return ast.TypeRequirement{}, err
		}
		return ast.TypeRequirement{Node: ast.Node{Rng: subject.Range().Join(constraint.Range())}, Subject: subject, Equality: true, Constraint: constraint}, nil
	}

	s.Report(diag.Error, s.ErrorRange(), "expected '==' or ':' in a type requirement")
	return ast.TypeRequirement{Node: ast.Node{Rng: subject.Range()}, Subject: subject}, nil
}

func (s *State) parseFuncDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	s.Take() // 'fun'
	name, ok := s.TakeKind(token.Ident)
	if !ok {
		if text, _, ok2 := s.TakeOperator(false); ok2 {
			name = token.Token{Kind: token.Ident, Text: text}
		} else {
			s.Report(diag.Error, s.ErrorRange(), "expected a function name, found %s", s.Peek().Kind)
		}
	}

	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)

	generics, err := s.maybeParseGenericClause()
	if err != nil {
		s.ExitSpace()
		return nil, err
	}

	params, _, err := s.parseParamList()
	if err != nil {
		s.ExitSpace()
		return nil, err
	}
	for _, p := range params {
		s.arena.Append(space, p.ParamVar)
	}

	var ret ast.Sign
	if _, ok := s.TakeKind(token.Arrow); ok {
		ret, err = s.ParseSign()
		if err != nil {
			s.ExitSpace()
			return nil, err
		}
	}

	var body *ast.BraceStmt
	savedFlag := s.Flags.ParsingFunBody
	s.Flags.ParsingFunBody = true
	if s.Peek().Kind == token.LBrace {
		body, err = s.parseBraceStmt()
	}
	s.Flags.ParsingFunBody = savedFlag
	s.ExitSpace()
	if err != nil {
		return nil, err
	}

	rng := start
	if body != nil {
		rng = rng.Join(body.Range())
	} else if ret != nil {
		rng = rng.Join(ret.Range())
	}

	decl := &ast.FuncDecl{
		Node: ast.Node{Rng: rng}, Space: s.Space, BodySpace: space, Modifiers: mods,
		Name: name.Text, Fixity: fixityOf(mods), Generics: generics, Params: params, Return: ret, Body: body,
	}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

func (s *State) parseCtorDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	s.Take() // 'new'
	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)

	params, _, err := s.parseParamList()
	if err != nil {
		s.ExitSpace()
		return nil, err
	}
	for _, p := range params {
		s.arena.Append(space, p.ParamVar)
	}

	body, err := s.parseBraceStmt()
	s.ExitSpace()
	if err != nil {
		return nil, err
	}

	decl := &ast.CtorDecl{Node: ast.Node{Rng: start.Join(body.Range())}, Space: s.Space, BodySpace: space, Modifiers: mods, Params: params, Body: body}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

func (s *State) parseDtorDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	s.Take() // 'del'
	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)

	body, err := s.parseBraceStmt()
	s.ExitSpace()
	if err != nil {
		return nil, err
	}

	decl := &ast.DtorDecl{Node: ast.Node{Rng: start.Join(body.Range())}, Space: s.Space, BodySpace: space, Modifiers: mods, Body: body}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

// parseTypeDecl parses both forms the 'type' keyword introduces: a type
// alias (`type Name = sign`) and a product type (`type Name (':' sign,...)?
// '{' member* '}'`). When used as a member of a view's body with neither a
// '=' nor a '{' following, the inherited-signature list is instead
// reinterpreted as a set of associated-type requirements on Name itself,
// producing an AbstractTypeDecl — this reuse (rather than a separate
// grammar production) is a design choice recorded in DESIGN.md.
func (s *State) parseTypeDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	s.Take() // 'type'
	name, ok := s.TakeKind(token.Ident)
	if !ok {
		s.Report(diag.Error, s.ErrorRange(), "expected a type name, found %s", s.Peek().Kind)
	}

	generics, err := s.maybeParseGenericClause()
	if err != nil {
		return nil, err
	}

	if _, ok := s.TakeKind(token.Assign); ok {
		aliased, err := s.ParseSign()
		if err != nil {
			return nil, err
		}
		decl := &ast.AliasTypeDecl{Node: ast.Node{Rng: start.Join(aliased.Range())}, Space: s.Space, Name: name.Text, Generics: generics, Aliased: aliased}
		s.arena.Append(s.Space, decl)
		return decl, nil
	}

	var inherits []ast.Sign
	if _, ok := s.TakeKind(token.Colon); ok {
		for {
			sign, err := s.ParseSign()
			if err != nil {
				return nil, err
			}
			inherits = append(inherits, sign)
			if _, ok := s.TakeKind(token.Comma); ok {
				continue
			}
			break
		}
	}

	if s.Peek().Kind != token.LBrace {
		var reqs []ast.TypeRequirement
		subject := &ast.BareIdentSign{Node: ast.Node{Rng: name.Range}, Name: name.Text}
		rng := start.Join(name.Range)
		for _, sign := range inherits {
			reqs = append(reqs, ast.TypeRequirement{Node: ast.Node{Rng: sign.Range()}, Subject: subject, Equality: false, Constraint: sign})
			rng = rng.Join(sign.Range())
		}
		if !s.Flags.ParsingViewBody {
			s.Report(diag.Error, rng, "an abstract type is only legal inside a view body")
		}
		decl := &ast.AbstractTypeDecl{Node: ast.Node{Rng: rng}, Space: s.Space, Name: name.Text, Requirements: reqs}
		s.arena.Append(s.Space, decl)
		return decl, nil
	}

	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)
	savedFlag := s.Flags.ParsingProdBody
	s.Flags.ParsingProdBody = true
	members, rng, err := s.parseMemberList()
	s.Flags.ParsingProdBody = savedFlag
	s.ExitSpace()
	if err != nil {
		return nil, err
	}

	decl := &ast.ProductTypeDecl{
		Node: ast.Node{Rng: start.Join(rng)}, Space: s.Space, BodySpace: space, Modifiers: mods,
		Name: name.Text, Generics: generics, Inherits: inherits, Members: members,
	}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

func (s *State) parseViewTypeDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	s.Take() // 'view'
	name, ok := s.TakeKind(token.Ident)
	if !ok {
		s.Report(diag.Error, s.ErrorRange(), "expected a view name, found %s", s.Peek().Kind)
	}

	var inherits []ast.Sign
	if _, ok := s.TakeKind(token.Colon); ok {
		for {
			sign, err := s.ParseSign()
			if err != nil {
				return nil, err
			}
			inherits = append(inherits, sign)
			if _, ok := s.TakeKind(token.Comma); ok {
				continue
			}
			break
		}
	}

	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)
	savedFlag := s.Flags.ParsingViewBody
	s.Flags.ParsingViewBody = true
	members, rng, err := s.parseMemberList()
	s.Flags.ParsingViewBody = savedFlag
	s.ExitSpace()
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		switch m.(type) {
		case *ast.ProductTypeDecl, *ast.AliasTypeDecl:
			s.Report(diag.Error, m.Range(), "a view body may only declare abstract types")
		}
	}

	decl := &ast.ViewTypeDecl{
		Node: ast.Node{Rng: start.Join(rng)}, Space: s.Space, BodySpace: space, Modifiers: mods,
		Name: name.Text, Inherits: inherits, Members: members,
	}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

func (s *State) parseExtensionDecl(mods ast.Modifiers, start source.Range) (ast.Decl, error) {
	kw := s.Take() // 'extn'
	if s.Space != ast.Root {
		s.Report(diag.Error, kw.Range, "an extension must appear at top level")
	}
	subject, err := s.ParseSign()
	if err != nil {
		return nil, err
	}

	space := s.arena.NewChild(s.Space, nil)
	s.EnterSpace(space)
	savedFlag := s.Flags.ParsingExtnBody
	s.Flags.ParsingExtnBody = true
	members, rng, err := s.parseMemberList()
	s.Flags.ParsingExtnBody = savedFlag
	s.ExitSpace()
	if err != nil {
		return nil, err
	}

	decl := &ast.ExtensionDecl{Node: ast.Node{Rng: start.Join(rng)}, Space: s.Space, BodySpace: space, Subject: subject, Members: members}
	s.arena.Append(s.Space, decl)
	return decl, nil
}

// parseMemberList parses `'{' (decl ';'?)* '}'`, shared by product types,
// views and extensions.
func (s *State) parseMemberList() ([]ast.Decl, source.Range, error) {
	open, ok := s.TakeKind(token.LBrace)
	if !ok {
		rng := s.ErrorRange()
		s.Report(diag.Error, rng, "expected '{' to start a member list, found %s", s.Peek().Kind)
		return nil, rng, nil
	}

	var members []ast.Decl
	for s.Peek().Kind != token.RBrace && s.Peek().Kind != token.None {
		if _, ok := s.TakeKind(token.Semi); ok {
			continue
		}
		if !isDeclStart(s.Peek().Kind) {
			s.Report(diag.Error, s.ErrorRange(), "expected a declaration, found %s", s.Peek().Kind)
			s.Take()
			continue
		}
		member, err := s.parseDecl()
		if err != nil {
			return members, open.Range, err
		}
		members = append(members, member)
	}

	close, ok := s.TakeKind(token.RBrace)
	rng := open.Range
	if ok {
		rng = rng.Join(close.Range)
	} else {
		s.Report(diag.Error, s.ErrorRange(), "expected '}' to close member list")
		s.Skip(func(t token.Token) bool { return t.Kind != token.RBrace && t.Kind != token.Semi })
		if end, ok := s.TakeKind(token.RBrace); ok {
			rng = rng.Join(end.Range)
		}
	}
	return members, rng, nil
}
