// Package ast defines the typed node families produced by pkg/parse:
// declarations, statements, expressions, patterns and type signatures, as
// described in spec.md §3/§4.C.
//
// Every node carries a source range and a type slot that starts out
// unresolved; a later, external semantic pass (not part of this repo, see
// spec.md §1) mutates only that slot plus a handful of semantic annotations.
// Node families are modeled as small marker interfaces ("sum types" in the
// sense of spec.md §9) over concrete struct variants, the same way the
// teacher models Statement/Expression as empty interfaces in pkg/jack/jack.go
// — the difference here is that spec.md requires every node to expose its
// Range, so the marker methods live on a richer embedded Node.
package ast

import "github.com/sarvex/hylo/pkg/source"

// DeclSpaceID indexes a declaration space owned by an Arena. The zero value
// is Root; NoSpace (-1) means "no parent" — used only by the root source unit.
type DeclSpaceID int

// NoSpace is the sentinel parent of the root declaration space.
const NoSpace DeclSpaceID = -1

// TypeSlot holds the (initially unresolved) type annotation carried by every
// node. The semantic type-checker is an external collaborator (spec.md §1);
// this repo only reserves the field it eventually writes into.
type TypeSlot struct {
	Resolved bool
	Value    any // filled in by the external type-checker; opaque here
}

// Node is embedded by every concrete AST node and supplies its source range
// and type slot.
type Node struct {
	Rng  source.Range
	Type TypeSlot
}

// Range returns the node's source range.
func (n Node) Range() source.Range { return n.Rng }

// Ranged is implemented by every AST node.
type Ranged interface {
	Range() source.Range
}

// ----------------------------------------------------------------------------
// Declaration space arena

// DeclSpace is one scope that can contain declarations. Parents form a tree
// rooted at a source unit; this is the arena-index encoding spec.md §9 asks
// for in place of raw parent pointers.
type DeclSpace struct {
	ID     DeclSpaceID
	Parent DeclSpaceID
	Owner  Decl // the decl passed to NewChild, if any; nil for the root, and pkg/parse passes nil for every space it creates
	Decls  []Decl
}

// Arena owns every declaration space created while parsing one source unit.
type Arena struct {
	spaces []DeclSpace
}

// NewArena returns an Arena containing only the root declaration space.
func NewArena() *Arena {
	a := &Arena{}
	a.spaces = append(a.spaces, DeclSpace{ID: 0, Parent: NoSpace})
	return a
}

// Root is the DeclSpaceID of the top-level source unit scope.
const Root DeclSpaceID = 0

// NewChild creates a new declaration space owned by owner, nested under parent.
func (a *Arena) NewChild(parent DeclSpaceID, owner Decl) DeclSpaceID {
	id := DeclSpaceID(len(a.spaces))
	a.spaces = append(a.spaces, DeclSpace{ID: id, Parent: parent, Owner: owner})
	return id
}

// Space returns the declaration space for id.
func (a *Arena) Space(id DeclSpaceID) *DeclSpace { return &a.spaces[id] }

// Append records decl as a direct child of space.
func (a *Arena) Append(space DeclSpaceID, decl Decl) {
	a.spaces[space].Decls = append(a.spaces[space].Decls, decl)
}

// ----------------------------------------------------------------------------
// Declarations

// Decl is the marker interface for every declaration node.
type Decl interface {
	Ranged
	isDecl()
}

// Modifiers is the set of legal leading modifiers on a declaration
// (spec.md §4.D "parse zero or more modifiers").
type Modifiers struct {
	Pub, Mod              bool
	Mut                   bool
	Infix, Prefix, Postfix bool
	Volatile              bool
	Static                bool
	Moveonly              bool
}

// Fixity distinguishes operator-function declarations.
type Fixity int

const (
	NotOperator Fixity = iota
	Infix
	Prefix
	Postfix
)

// PatternBindingDecl is `val`/`var` with an optional type signature and
// initializer. Every VariableDecl reachable through Pattern points back here
// via PatternBindingDecl (spec.md §8 invariant).
type PatternBindingDecl struct {
	Node
	Space     DeclSpaceID
	Modifiers Modifiers
	IsVar     bool
	Pattern   Pattern
	Sign      Sign // nil if elided
	Init      Expr // nil if elided
}

func (*PatternBindingDecl) isDecl() {}

// Param is one function/subroutine parameter:
// `(label | '_')? NAME ':' sign`.
type Param struct {
	Node
	Label    string // external label; equals Name for a lone identifier, "" for an anonymous ('_') parameter
	Name     string // internal name
	Sign     Sign
	ParamVar *VariableDecl // the synthesized variable the body refers to
}

// GenericParameterDecl declares one name in a generic clause.
type GenericParameterDecl struct {
	Node
	Name string
}

func (*GenericParameterDecl) isDecl() {}

// TypeRequirement is `compound-ident-sign ('==' | ':') sign`, either a type
// equality or a conformance requirement in a `where` clause.
type TypeRequirement struct {
	Node
	Subject    Sign
	Equality   bool // true for '==', false for ':' (conformance)
	Constraint Sign
}

// GenericClause is the `<...>` parameter list plus optional `where` clause.
type GenericClause struct {
	Node
	Params       []*GenericParameterDecl
	Requirements []TypeRequirement
}

// FuncDecl covers `fun` declarations, including operator functions. Body is
// nil for a view's abstract requirement.
type FuncDecl struct {
	Node
	Space     DeclSpaceID
	BodySpace DeclSpaceID
	Modifiers Modifiers
	Name      string
	Fixity    Fixity
	Generics  *GenericClause
	Params    []Param
	Return    Sign // nil means inferred/void
	Body      *BraceStmt
}

func (*FuncDecl) isDecl() {}

// CtorDecl is `new(...) { ... }`.
type CtorDecl struct {
	Node
	Space     DeclSpaceID
	BodySpace DeclSpaceID
	Modifiers Modifiers
	Params    []Param
	Body      *BraceStmt
}

func (*CtorDecl) isDecl() {}

// DtorDecl is `del { ... }`.
type DtorDecl struct {
	Node
	Space     DeclSpaceID
	BodySpace DeclSpaceID
	Modifiers Modifiers
	Body      *BraceStmt
}

func (*DtorDecl) isDecl() {}

// ProductTypeDecl is a `type Name<...>: Inherits { members }` declaration.
type ProductTypeDecl struct {
	Node
	Space     DeclSpaceID
	BodySpace DeclSpaceID
	Modifiers Modifiers
	Name      string
	Generics  *GenericClause
	Inherits  []Sign
	Members   []Decl
}

func (*ProductTypeDecl) isDecl() {}

// ViewTypeDecl is a `view Name: Inherits { abstract-requirements }`
// declaration. Views forbid generic clauses (spec.md §4.D) and forbid
// nested non-abstract types.
type ViewTypeDecl struct {
	Node
	Space     DeclSpaceID
	BodySpace DeclSpaceID
	Modifiers Modifiers
	Name      string
	Inherits  []Sign
	Members   []Decl // *AbstractTypeDecl or *FuncDecl (body == nil)
}

func (*ViewTypeDecl) isDecl() {}

// AbstractTypeDecl is an associated-type requirement, legal only inside a
// ViewTypeDecl body.
type AbstractTypeDecl struct {
	Node
	Space        DeclSpaceID
	Name         string
	Requirements []TypeRequirement
}

func (*AbstractTypeDecl) isDecl() {}

// AliasTypeDecl is `type Name<...> = sign`.
type AliasTypeDecl struct {
	Node
	Space    DeclSpaceID
	Name     string
	Generics *GenericClause
	Aliased  Sign
}

func (*AliasTypeDecl) isDecl() {}

// ExtensionDecl is `extn sign { members }`. Extensions must appear at top
// level (spec.md §4.D diagnoses otherwise but still parses).
type ExtensionDecl struct {
	Node
	Space     DeclSpaceID
	BodySpace DeclSpaceID
	Subject   Sign
	Members   []Decl
}

func (*ExtensionDecl) isDecl() {}

// VariableDecl is one name bound inside a pattern. It is owned by the
// enclosing PatternBindingDecl, not by its own declaration space.
type VariableDecl struct {
	Node
	Name               string
	PatternBindingDecl *PatternBindingDecl
}

func (*VariableDecl) isDecl() {}

// ----------------------------------------------------------------------------
// Statements

// Stmt is the marker interface for statement nodes. Declarations and
// expressions are also embeddable as statements via DeclStmt/ExprStmt.
type Stmt interface {
	Ranged
	isStmt()
}

// BraceStmt is `{ stmt* }`.
type BraceStmt struct {
	Node
	Space DeclSpaceID
	Stmts []Stmt
}

func (*BraceStmt) isStmt() {}

// DeclStmt embeds a declaration where a statement is expected.
type DeclStmt struct {
	Node
	Decl Decl
}

func (*DeclStmt) isStmt() {}

// ExprStmt embeds an expression (including a top-level MatchExpr) where a
// statement is expected.
type ExprStmt struct {
	Node
	Expr Expr
}

func (*ExprStmt) isStmt() {}

// ReturnStmt is `ret expr?`.
type ReturnStmt struct {
	Node
	Value Expr // nil if elided
}

func (*ReturnStmt) isStmt() {}

// BreakStmt is an explicit stub: spec.md §9 records this as
// fatalError("not implemented") in the original parser. Do not guess
// grammar for it.
type BreakStmt struct{ Node }

func (*BreakStmt) isStmt() {}

// ContinueStmt is the `continue` stub, same rationale as BreakStmt.
type ContinueStmt struct{ Node }

func (*ContinueStmt) isStmt() {}

// ----------------------------------------------------------------------------
// Expressions

// Expr is the marker interface for expression nodes.
type Expr interface {
	Ranged
	isExpr()
}

type BoolLiteralExpr struct {
	Node
	Value bool
}

func (*BoolLiteralExpr) isExpr() {}

type IntLiteralExpr struct {
	Node
	Text string // raw spelling; radix prefix preserved
}

func (*IntLiteralExpr) isExpr() {}

type FloatLiteralExpr struct {
	Node
	Text string
}

func (*FloatLiteralExpr) isExpr() {}

type StringLiteralExpr struct {
	Node
	Text string // raw spelling, including escapes, excluding quotes
}

func (*StringLiteralExpr) isExpr() {}

// UnresolvedDeclRefExpr is a bare or namespace-qualified reference to a
// declaration not yet resolved by the (external) semantic pass.
type UnresolvedDeclRefExpr struct {
	Node
	Qualifier Sign // nil for an unqualified reference
	Name      string
}

func (*UnresolvedDeclRefExpr) isExpr() {}

type TupleElement struct {
	Label string // "" if positional
	Value Expr
}

type TupleExpr struct {
	Node
	Elements []TupleElement
}

func (*TupleExpr) isExpr() {}

// TupleMemberExpr is `base.N` tuple-index access.
type TupleMemberExpr struct {
	Node
	Base  Expr
	Index int
}

func (*TupleMemberExpr) isExpr() {}

type Argument struct {
	Label string // "" if positional
	Value Expr
}

// CallExpr is `callee(args)`.
type CallExpr struct {
	Node
	Callee Expr
	Args   []Argument
}

func (*CallExpr) isExpr() {}

// InfixCallExpr is a binary operator application, produced by flattening an
// InfixTree (spec.md §4.D/§9).
type InfixCallExpr struct {
	Node
	Op       string
	OpRange  source.Range
	Lhs, Rhs Expr
}

func (*InfixCallExpr) isExpr() {}

// PrefixCallExpr is a unary prefix operator application (`&x` is its own
// AddrOfExpr node instead, per spec.md §4.D step 1).
type PrefixCallExpr struct {
	Node
	Op      string
	OpRange source.Range
	Operand Expr
}

func (*PrefixCallExpr) isExpr() {}

// PostfixCallExpr is a unary postfix operator application.
type PostfixCallExpr struct {
	Node
	Op      string
	OpRange source.Range
	Operand Expr
}

func (*PostfixCallExpr) isExpr() {}

// MemberExpr is unresolved member access `base.name`.
type MemberExpr struct {
	Node
	Base Expr
	Name string
}

func (*MemberExpr) isExpr() {}

// ReceiverKind distinguishes `this` from `self`.
type ReceiverKind int

const (
	This ReceiverKind = iota
	SelfKw
)

type ReceiverExpr struct {
	Node
	Kind ReceiverKind
}

func (*ReceiverExpr) isExpr() {}

type AsyncExpr struct {
	Node
	Operand Expr
}

func (*AsyncExpr) isExpr() {}

type AwaitExpr struct {
	Node
	Operand Expr
}

func (*AwaitExpr) isExpr() {}

// MatchCase is `case pattern ('where' expr)? brace-stmt`.
type MatchCase struct {
	Node
	Space   DeclSpaceID
	Pattern Pattern
	Guard   Expr // nil if elided
	Body    *BraceStmt
}

// MatchExpr is `match expr { case* }`. Used as an ExprStmt when it appears
// directly inside a BraceStmt (spec.md §4.D).
type MatchExpr struct {
	Node
	Subject Expr
	Cases   []MatchCase
}

func (*MatchExpr) isExpr() {}

type AssignExpr struct {
	Node
	Lhs, Rhs Expr
}

func (*AssignExpr) isExpr() {}

type AddrOfExpr struct {
	Node
	Operand Expr
}

func (*AddrOfExpr) isExpr() {}

// DynCastExpr is `lhs as? Sign`.
type DynCastExpr struct {
	Node
	Operand Expr
	Target  Sign
}

func (*DynCastExpr) isExpr() {}

// UnsafeCastExpr is `lhs as! Sign`.
type UnsafeCastExpr struct {
	Node
	Operand Expr
	Target  Sign
}

func (*UnsafeCastExpr) isExpr() {}

type WildcardExpr struct{ Node }

func (*WildcardExpr) isExpr() {}

// ErrorExpr is produced in place of an expression the parser could not
// make sense of, keeping the tree well-formed after a parse error.
type ErrorExpr struct{ Node }

func (*ErrorExpr) isExpr() {}

// ----------------------------------------------------------------------------
// Patterns

// Pattern is the marker interface for pattern nodes.
type Pattern interface {
	Ranged
	isPattern()
}

// NamedPattern binds a single VariableDecl.
type NamedPattern struct {
	Node
	Var *VariableDecl
}

func (*NamedPattern) isPattern() {}

// BindingPattern is `(val|var) subpattern (':' sign)?`.
type BindingPattern struct {
	Node
	IsVar bool
	Sub   Pattern
	Sign  Sign // nil if elided
}

func (*BindingPattern) isPattern() {}

type TuplePatternElement struct {
	Label string
	Value Pattern
}

type TuplePattern struct {
	Node
	Elements []TuplePatternElement
}

func (*TuplePattern) isPattern() {}

type WildcardPattern struct{ Node }

func (*WildcardPattern) isPattern() {}

// ----------------------------------------------------------------------------
// Type signatures

// Sign is the marker interface for type-signature nodes.
type Sign interface {
	Ranged
	isSign()
}

type BareIdentSign struct {
	Node
	Name string
}

func (*BareIdentSign) isSign() {}

type SpecializedIdentSign struct {
	Node
	Name string
	Args []Sign
}

func (*SpecializedIdentSign) isSign() {}

// CompoundIdentSign is a `::`-separated path of identifiers, each possibly
// specialized with generic arguments.
type CompoundIdentSign struct {
	Node
	Components []Sign // each a BareIdentSign or SpecializedIdentSign
}

func (*CompoundIdentSign) isSign() {}

type TupleSignElement struct {
	Label string
	Value Sign
}

type TupleSign struct {
	Node
	Elements []TupleSignElement
}

func (*TupleSign) isSign() {}

// FunctionSign is `(params) -> return`, right-recursive in Return.
type FunctionSign struct {
	Node
	Params   []Sign
	Return   Sign
	Volatile bool
}

func (*FunctionSign) isSign() {}

// InoutSign is a `mut`-qualified signature.
type InoutSign struct {
	Node
	Base Sign
}

func (*InoutSign) isSign() {}

// AsyncSign is an `async`-qualified signature.
type AsyncSign struct {
	Node
	Base Sign
}

func (*AsyncSign) isSign() {}

// UnionSign is a `|`-disjunction ("maxterm" in spec.md §4.D).
type UnionSign struct {
	Node
	Members []Sign
}

func (*UnionSign) isSign() {}

// ViewCompositionSign is a `&`-conjunction ("minterm" in spec.md §4.D).
type ViewCompositionSign struct {
	Node
	Members []Sign
}

func (*ViewCompositionSign) isSign() {}

// ErrorSign is produced in place of a type signature the parser could not
// make sense of.
type ErrorSign struct{ Node }

func (*ErrorSign) isSign() {}

// ----------------------------------------------------------------------------
// Source unit

// SourceUnit is the parser's output for one file: its declarations, the
// arena that owns their declaration spaces, and whether any diagnostic was
// raised while producing them.
type SourceUnit struct {
	File     source.FileID
	Arena    *Arena
	Decls    []Decl
	HasError bool
}
