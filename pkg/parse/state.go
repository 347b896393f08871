// Package parse implements the recursive-descent parser described in
// spec.md §4.D: one token of lookahead, unbounded save/restore via cheap
// lexer-position cloning, local error recovery, and a Pratt-style
// InfixTree for operator precedence.
package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/lex"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/token"
	"github.com/sarvex/hylo/pkg/utils"
)

// Flags is the per-State context flag set named in spec.md §4.D.
type Flags struct {
	ParsingTopLevel bool
	ParsingProdBody bool
	ParsingViewBody bool
	ParsingExtnBody bool
	ParsingFunBody  bool
	ParsingLoopBody bool
}

// parseError is the internal control-flow error used exclusively for local
// backtracking within one production (spec.md §7). It never escapes the
// parser: every call site that can receive one either recovers locally or
// propagates it to its own caller within the same production tree (the
// list[] helper passes it on as well), until the top-level decl loop catches
// it and switches to recovery mode.
type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

func errf(format string, args ...any) *parseError {
	return &parseError{msg: sprintf(format, args...)}
}

// State carries everything one parse needs: the lexer, its one-token
// lookahead, the current declaration-space parent, the active flag set and
// a sticky hasError bit. It is cheap to Save/Restore because the lexer
// itself holds no lookahead — State is the only place that does.
type State struct {
	mgr   *source.Manager
	file  source.FileID
	lx    *lex.Lexer
	arena *ast.Arena

	lookahead  token.Token
	Space      ast.DeclSpaceID
	spaceStack utils.Stack[ast.DeclSpaceID]
	Flags      Flags
	hasError   bool

	sink diag.Sink
}

// NewState creates parser state over file, with decls rooted at arena.Root
// and diagnostics reported to sink.
func NewState(mgr *source.Manager, file source.FileID, arena *ast.Arena, sink diag.Sink) *State {
	s := &State{
		mgr:   mgr,
		file:  file,
		lx:    lex.New(mgr, file),
		arena: arena,
		Space: ast.Root,
		Flags: Flags{ParsingTopLevel: true},
		sink:  sink,
	}
	s.lookahead = s.lx.Next()
	return s
}

// HasError reports whether any diagnostic has been raised so far.
func (s *State) HasError() bool { return s.hasError }

// Peek returns the current lookahead token without consuming it.
func (s *State) Peek() token.Token { return s.lookahead }

// Take unconditionally consumes and returns the lookahead token.
func (s *State) Take() token.Token {
	cur := s.lookahead
	s.lookahead = s.lx.Next()
	return cur
}

// TakeKind consumes the lookahead iff it has kind k.
func (s *State) TakeKind(k token.Kind) (token.Token, bool) {
	if s.lookahead.Kind == k {
		return s.Take(), true
	}
	return token.Token{}, false
}

// TakePred consumes the lookahead iff pred matches it.
func (s *State) TakePred(pred func(token.Token) bool) (token.Token, bool) {
	if pred(s.lookahead) {
		return s.Take(), true
	}
	return token.Token{}, false
}

// Skip consumes tokens while pred matches, stopping at EOF regardless.
func (s *State) Skip(pred func(token.Token) bool) {
	for s.lookahead.Kind != token.None && pred(s.lookahead) {
		s.Take()
	}
}

// ErrorRange is the range to anchor a diagnostic about the current
// lookahead: the lookahead's own range, or the EOF range if exhausted.
func (s *State) ErrorRange() source.Range { return s.lookahead.Range }

// Snapshot is a cheap clone of parser position for arbitrary-distance
// backtracking (spec.md §9 "Lexer save/restore").
type Snapshot struct {
	lexPos    int
	lookahead token.Token
}

// Save captures the current position.
func (s *State) Save() Snapshot {
	return Snapshot{lexPos: s.lx.Pos(), lookahead: s.lookahead}
}

// Restore rewinds to a previously captured position. hasError is
// deliberately left untouched: it is sticky for the whole parse, not
// subject to backtracking.
func (s *State) Restore(snap Snapshot) {
	s.lx.Seek(snap.lexPos)
	s.lookahead = snap.lookahead
}

// Report raises a diagnostic through the active sink and sets hasError.
func (s *State) Report(level diag.Level, rng source.Range, format string, args ...any) {
	s.hasError = true
	s.sink.Report(diag.Diagnostic{Level: level, Message: sprintf(format, args...), Anchor: rng})
}

// EnterSpace pushes the current declaration space and makes child the
// active one; every production that opens a nested scope (a function body,
// a brace statement, a match case) calls this and then calls ExitSpace
// explicitly on each of its exit paths, including the early error returns,
// to restore its caller's space.
func (s *State) EnterSpace(child ast.DeclSpaceID) {
	s.spaceStack.Push(s.Space)
	s.Space = child
}

// ExitSpace restores the declaration space EnterSpace saved.
func (s *State) ExitSpace() {
	prev, err := s.spaceStack.Pop()
	if err != nil {
		return
	}
	s.Space = prev
}

// SwapSink installs a new diagnostic sink (used to buffer diagnostics
// produced during speculative parsing, spec.md §4.D decl-ref resolution)
// and returns the previous one so it can be restored later.
func (s *State) SwapSink(next diag.Sink) diag.Sink {
	prev := s.sink
	s.sink = next
	return prev
}

func isGlueableOperatorKind(k token.Kind) bool {
	return k == token.Oper || k == token.LAngle || k == token.RAngle
}

// TakeOperator implements spec.md §4.D's takeOperator contract: a leading
// lAngle/rAngle may start an operator and is concatenated with adjacent
// operator tokens iff they are textually contiguous, so that `>>`, `<=`
// etc. are lexed without ambiguity against generic brackets.
func (s *State) TakeOperator(includingAssign bool) (text string, rng source.Range, ok bool) {
	cur := s.lookahead
	switch cur.Kind {
	case token.Oper, token.LAngle, token.RAngle:
		// proceed below
	case token.Assign:
		if !includingAssign {
			return "", source.Range{}, false
		}
		s.Take()
		return "=", cur.Range, true
	default:
		return "", source.Range{}, false
	}

	text, rng = cur.Text, cur.Range
	s.Take()
	for isGlueableOperatorKind(s.lookahead.Kind) && s.lookahead.Range.Start == rng.End {
		text += s.lookahead.Text
		rng = rng.Join(s.lookahead.Range)
		s.Take()
	}
	return text, rng, true
}

// followedByBoundary reports whether the byte at pos (the end of a just-
// consumed operator run) is whitespace or EOF, used to decide whether an
// operator attached directly to an operand is being used postfix (spec.md
// §4.D step 2) rather than as the start of a binary suffix.
func (s *State) followedByBoundary(pos int) bool {
	text := s.mgr.Text(s.file)
	if pos >= len(text) {
		return true
	}
	c := text[pos]
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// sameLine reports whether b starts on the same source line a ends on,
// used by the call-args / identifier-as-infix "same line as callee" rule
// (spec.md §4.D step 2 and 3).
func (s *State) sameLine(a, b source.Range) bool {
	_, _ = a, b
	aText := s.mgr.Slice(source.Range{File: a.File, Start: a.End, End: b.Start})
	for _, c := range aText {
		if c == '\n' {
			return false
		}
	}
	return true
}
