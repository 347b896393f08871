// Package typesys declares the external collaborator contracts spec.md §6
// names but explicitly puts out of scope: the semantic type-checker. Only
// the shape of its outputs matters to pkg/mono — how a Type is represented,
// how specialization/canonicalization/conformance lookup are invoked — never
// how those operations are actually implemented. A real compiler plugs its
// own type-checker in behind the World interface; this package exists so
// pkg/mono has something concrete to compile and test against.
package typesys

import (
	"sort"
	"strings"
)

// Scope identifies where a specialization, canonicalization or conformance
// lookup is performed from (spec.md §6 "exposedTo: scope" / "in: scope").
// It is deliberately independent of pkg/ast's DeclSpaceID: callers convert
// at the boundary, keeping this package a standalone contract.
type Scope int

// Type is an opaque handle to a semantic type. Its Name is only a display
// aid; true identity and structure belong to the external type-checker this
// package stands in for.
type Type struct {
	Name string
}

func (t Type) String() string { return t.Name }

// GenericParamID identifies one generic parameter of a declaration (stable
// across the lifetime of that declaration's AST).
type GenericParamID string

// Specialization maps generic-parameter identity to a concrete type
// argument (spec.md §3 "a mapping from generic-parameter identity to
// concrete type/value arguments").
type Specialization map[GenericParamID]Type

// Key produces a stable, order-independent string encoding of a
// specialization, suitable for use in pkg/mono's memoization table
// alongside a base Function.ID (spec.md §9 "Monomorphization memoization").
func (s Specialization) Key() string {
	if len(s) == 0 {
		return "<>"
	}
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteByte('<')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(s[GenericParamID(id)].Name)
	}
	b.WriteByte('>')
	return b.String()
}

// RequirementID identifies one abstract requirement declared inside a view
// (trait), e.g. a FuncDecl with a nil Body.
type RequirementID string

// FunctionID mirrors an ir.Function.ID without importing pkg/ir, so this
// package stays free of any dependency on the IR model it feeds.
type FunctionID string

// Conformance is evidence that a concrete type satisfies a trait: an
// implementation map from requirement to concrete function (spec.md §6).
type Conformance struct {
	Implementations map[RequirementID]FunctionID
}

// World is the full external-collaborator surface pkg/mono depends on
// (spec.md §6 "External collaborator contracts used by the monomorphizer").
// None of its methods are implemented here — callers supply a concrete
// World from their own semantic layer.
type World interface {
	// Specialize substitutes generic parameters of t using spec, evaluated
	// from scope.
	Specialize(t Type, spec Specialization, scope Scope) Type
	// Canonical produces t's canonical representative as seen from scope.
	Canonical(t Type, scope Scope) Type
	// Conformance locates the implementation table for a trait, or reports
	// ok=false if model does not conform to trait from scope.
	Conformance(model Type, trait Type, scope Scope) (Conformance, bool)
}
