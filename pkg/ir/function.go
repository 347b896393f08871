// Package ir implements the lowered intermediate representation described
// in spec.md §3/§4.E: functions as ordered basic-block CFGs over a small
// tagged-variant instruction set, with stable block/instruction handles so
// pkg/mono can rewrite a function's body in place while building another.
package ir

import (
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/typesys"
)

// ParameterType and LoweredType are spec.md §3's names for the type
// positions a Function carries; both are just typesys.Type, semantic type
// structure being entirely the external type-checker's concern.
type ParameterType = typesys.Type
type LoweredType = typesys.Type

// Linkage controls whether a function is visible outside its own module.
// spec.md does not enumerate linkage kinds explicitly; this three-way split
// (external/internal/hidden) is the conventional one and is recorded here
// as an implementation choice.
type Linkage int

const (
	External Linkage = iota
	Internal
	Hidden
)

// IDKind distinguishes the function-identity shapes: four derived from a
// declaration, a synthesized requirement, and a monomorphized copy.
type IDKind int

const (
	Lowered IDKind = iota
	Constructor
	Accessor
	Initializer
	Synthesized
	Monomorphized
)

// FunctionID identifies a Function. Decl is the originating declaration's
// qualified name for the first five kinds; For holds the target type's name
// for Synthesized, or a specialization key for Monomorphized; Base points at
// the generic function a Monomorphized copy specializes.
type FunctionID struct {
	Kind IDKind
	Decl string
	For  string
	Base *FunctionID
}

// String renders a FunctionID per spec.md §6's serialized form for the four
// AST-derived kinds and the Synthesized kind. Monomorphized is not one of
// the five forms spec.md §6 lists (that section covers identities derived
// directly from a declaration); its rendering here is only a debugging
// convenience layered on top of the base id plus the memoization key.
func (id FunctionID) String() string {
	switch id.Kind {
	case Lowered:
		return id.Decl + ".lowered"
	case Constructor:
		return id.Decl + ".constructor"
	case Accessor:
		return id.Decl + ".accessor"
	case Initializer:
		return id.Decl + ".initializer"
	case Synthesized:
		return "synthesized " + id.Decl + " for " + id.For
	case Monomorphized:
		base := "<unknown>"
		if id.Base != nil {
			base = id.Base.String()
		}
		return base + id.For
	default:
		return "<invalid function id>"
	}
}

// Function is one IR function: its signature, its ordered blocks, and (if
// non-empty) its still-unspecialized generic parameters. A monomorphized
// copy has none.
type Function struct {
	id       FunctionID
	Name     string
	Anchor   source.Range
	Linkage  Linkage
	Inputs   []ParameterType
	Output   LoweredType
	Generics []typesys.GenericParamID

	blocks list[*Block]
}

// NewFunction allocates a function with no blocks yet; callers append them
// with AppendBlock.
func NewFunction(id FunctionID, name string, anchor source.Range, linkage Linkage, inputs []ParameterType, output LoweredType, generics []typesys.GenericParamID) *Function {
	return &Function{id: id, Name: name, Anchor: anchor, Linkage: linkage, Inputs: inputs, Output: output, Generics: generics}
}

// ID returns the function's stable identity.
func (f *Function) ID() FunctionID { return f.id }

// IsGeneric reports whether f still has unspecialized generic parameters.
func (f *Function) IsGeneric() bool { return len(f.Generics) > 0 }

// AppendBlock adds a new block taking the given input types to the end of
// f's block list and returns it (spec.md §4.E "appendBlock(taking:)").
func (f *Function) AppendBlock(inputs []LoweredType) *Block {
	b := &Block{fn: f, Inputs: inputs}
	b.self = f.blocks.pushBack(b)
	return b
}

// RemoveBlock detaches b from f. Other blocks' addresses are unaffected.
func (f *Function) RemoveBlock(b *Block) {
	f.blocks.remove(b.self)
}

// Blocks returns f's blocks in order; entry() is Blocks()[0].
func (f *Function) Blocks() []*Block { return f.blocks.values() }

// Entry returns f's entry block, or nil if f has none yet.
func (f *Function) Entry() *Block {
	n := f.blocks.first()
	if n == nil {
		return nil
	}
	return n.value
}
