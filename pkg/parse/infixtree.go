package parse

import (
	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/source"
)

// opGroup is a precedence "group" as described in spec.md §9: a weight plus
// an associativity flag. Higher weight binds tighter.
type opGroup struct {
	weight     int
	rightAssoc bool
}

// Precedence groups. "=" sits lowest and is right-associative, matching
// spec.md §9 exactly. "identifier" (identifier used as an infix operator)
// and "casting" (`as?`/`as!`) are the two special groups spec.md calls out
// by name; their exact numeric weight is an implementation choice recorded
// in DESIGN.md, chosen so user-defined identifier-infix sits looser than
// arithmetic but tighter than assignment, and casting binds tighter than
// comparisons (so `x as? T == y` parses as `(x as? T) == y`).
var groups = map[string]opGroup{
	"=": {weight: 0, rightAssoc: true},

	"identifier": {weight: 10, rightAssoc: false},

	"||": {weight: 20, rightAssoc: false},
	"&&": {weight: 30, rightAssoc: false},

	"==": {weight: 40, rightAssoc: false},
	"!=": {weight: 40, rightAssoc: false},
	"<":  {weight: 40, rightAssoc: false},
	">":  {weight: 40, rightAssoc: false},
	"<=": {weight: 40, rightAssoc: false},
	">=": {weight: 40, rightAssoc: false},

	"+": {weight: 50, rightAssoc: false},
	"-": {weight: 50, rightAssoc: false},

	"*": {weight: 60, rightAssoc: false},
	"/": {weight: 60, rightAssoc: false},
	"%": {weight: 60, rightAssoc: false},

	"casting": {weight: 70, rightAssoc: false},
}

// defaultGroup is used for any operator spelling not in the table above
// (generic user-defined `infix` operators): it sits just above comparisons,
// below arithmetic, which is a reasonable default absent any `infix`
// declaration telling the parser otherwise. A real implementation would
// consult the infix operator's own declared precedence group; that lookup
// is an external (semantic) concern out of scope here (see DESIGN.md).
var defaultGroup = opGroup{weight: 45, rightAssoc: false}

func groupFor(op string) opGroup {
	if g, ok := groups[op]; ok {
		return g
	}
	return defaultGroup
}

// infixNode is either a leaf (an already-parsed operand) or a branch
// (pending operator application) of the tree spec.md §9 describes as
// `Leaf(operand) | Node(op, group, left, right)`.
type infixNode interface{ isInfixNode() }

type infixLeaf struct {
	expr ast.Expr
	// sign holds the right operand of a pending `casting` application
	// instead of expr: the grammar's cast right-hand-side is a type
	// signature, not an expression, but it still has to occupy a leaf
	// position in the same tree so casting composes by precedence like
	// any other operator (spec.md §4.D step 3).
	sign ast.Sign
}

func (infixLeaf) isInfixNode() {}

type infixBranch struct {
	op      string
	opRange source.Range
	group   opGroup
	left    infixNode
	right   infixNode
}

func (infixBranch) isInfixNode() {}

// InfixTree assembles a chain of binary suffixes into a precedence tree,
// then flattens it into AST call/assign/cast nodes.
type InfixTree struct{ root infixNode }

// NewInfixTree seeds the tree with the first operand.
func NewInfixTree(first ast.Expr) *InfixTree {
	return &InfixTree{root: infixLeaf{expr: first}}
}

// Append inserts (op, group, rhs) following spec.md §9: descend right while
// the pending operator has strictly higher weight, or equal weight with
// right-associativity; otherwise rotate up.
func (t *InfixTree) Append(op string, opRange source.Range, g opGroup, rhs ast.Expr) {
	t.root = appendExpr(t.root, op, opRange, g, rhs)
}

// AppendCast inserts a `casting` application whose right operand is a type
// signature rather than an expression.
func (t *InfixTree) AppendCast(op string, opRange source.Range, target ast.Sign) {
	t.root = appendNode(t.root, op, opRange, groupFor("casting"), infixLeaf{sign: target})
}

func appendExpr(node infixNode, op string, opRange source.Range, g opGroup, rhs ast.Expr) infixNode {
	return appendNode(node, op, opRange, g, infixLeaf{expr: rhs})
}

func appendNode(node infixNode, op string, opRange source.Range, g opGroup, rhsLeaf infixLeaf) infixNode {
	branch, ok := node.(infixBranch)
	if !ok {
		return infixBranch{op: op, opRange: opRange, group: g, left: node, right: rhsLeaf}
	}

	if g.weight > branch.group.weight || (g.weight == branch.group.weight && g.rightAssoc) {
		branch.right = appendNode(branch.right, op, opRange, g, rhsLeaf)
		return branch
	}

	return infixBranch{op: op, opRange: opRange, group: g, left: branch, right: rhsLeaf}
}

// Flatten walks the tree and produces the final AST, per spec.md §4.D:
// `=` -> Assign, `as?` -> DynCast, `as!` -> UnsafeCast, anything else ->
// CallExpr-infix over an unresolved member (modeled here as InfixCallExpr,
// spec.md's named node for that shape).
func (t *InfixTree) Flatten() ast.Expr { return flattenNode(t.root) }

func flattenNode(node infixNode) ast.Expr {
	leaf, isLeaf := node.(infixLeaf)
	if isLeaf {
		return leaf.expr
	}

	branch := node.(infixBranch)
	lhs := flattenNode(branch.left)

	if branch.op == "as?" || branch.op == "as!" {
		rightLeaf := branch.right.(infixLeaf)
		rng := lhs.Range().Join(rightLeaf.sign.Range())
		if branch.op == "as?" {
			return &ast.DynCastExpr{Node: ast.Node{Rng: rng}, Operand: lhs, Target: rightLeaf.sign}
		}
		return &ast.UnsafeCastExpr{Node: ast.Node{Rng: rng}, Operand: lhs, Target: rightLeaf.sign}
	}

	rhs := flattenNode(branch.right)
	rng := lhs.Range().Join(rhs.Range())

	if branch.op == "=" {
		return &ast.AssignExpr{Node: ast.Node{Rng: rng}, Lhs: lhs, Rhs: rhs}
	}

	return &ast.InfixCallExpr{Node: ast.Node{Rng: rng}, Op: branch.op, OpRange: branch.opRange, Lhs: lhs, Rhs: rhs}
}
