package ir

import "github.com/sarvex/hylo/pkg/typesys"

// Operand is one of: a constant, a block parameter, or another
// instruction's result (spec.md §3).
type Operand interface{ isOperand() }

// ConstantOperand wraps an immediate value embedded directly in an
// instruction (spec.md §4.F "constants are mapped (function references are
// themselves monomorphized; metatypes are specialized)").
type ConstantOperand struct{ Value ConstantValue }

func (ConstantOperand) isOperand() {}

// ConstantValue is the payload of a ConstantOperand.
type ConstantValue interface{ isConstantValue() }

type IntConstant struct{ Value int64 }

func (IntConstant) isConstantValue() {}

type FloatConstant struct{ Value float64 }

func (FloatConstant) isConstantValue() {}

type BoolConstant struct{ Value bool }

func (BoolConstant) isConstantValue() {}

// FunctionRefConstant is the callee constant a Call/CallFFI operand carries;
// monomorphizing a Call rewrites this to the specialized callee's ID.
type FunctionRefConstant struct{ Target FunctionID }

func (FunctionRefConstant) isConstantValue() {}

// MetatypeConstant carries a type as a runtime-visible value (e.g. a
// generic's witness argument); monomorphization specializes it like any
// other generic-parameter-dependent value.
type MetatypeConstant struct{ Type typesys.Type }

func (MetatypeConstant) isConstantValue() {}

// TraitRequirementConstant is the callee constant a Call carries when it
// invokes a trait requirement rather than a concrete function directly; it
// names the requirement, the (possibly still-generic) receiver type, and the
// trait being conformed to. Monomorphization resolves this to the concrete
// witness via typesys.World.Conformance and rewrites the Call's callee to a
// FunctionRefConstant pointing at it (spec.md §4.F step 7).
type TraitRequirementConstant struct {
	Requirement typesys.RequirementID
	Model       typesys.Type
	Trait       typesys.Type
}

func (TraitRequirementConstant) isConstantValue() {}

// BlockParamOperand references the index-th input of a block.
type BlockParamOperand struct {
	Block BlockID
	Index int
}

func (BlockParamOperand) isOperand() {}

// InstructionResultOperand references the value produced by another
// instruction.
type InstructionResultOperand struct{ Instr InstructionID }

func (InstructionResultOperand) isOperand() {}

// Instruction is the marker interface for every instruction kind in
// spec.md §3. Field shapes beyond the operands needed for monomorphization
// and CFG construction are an implementation choice: the spec names the
// tagged variants but not their exact payload, so each struct below carries
// the minimum a rewriter or CFG builder needs to do its job.
type Instruction interface{ isInstruction() }

// ---- memory ops ----

type AllocStack struct{ Type typesys.Type }

func (*AllocStack) isInstruction() {}

type DeallocStack struct{ Location Operand }

func (*DeallocStack) isInstruction() {}

type Load struct {
	Type   typesys.Type
	Source Operand
}

func (*Load) isInstruction() {}

type Store struct {
	Value       Operand
	Destination Operand
}

func (*Store) isInstruction() {}

// MarkState records an object's initialization state transition (e.g.
// initialized/uninitialized) without moving any bytes.
type MarkState struct {
	Target Operand
	Initialized bool
}

func (*MarkState) isInstruction() {}

type AddressToPointer struct{ Address Operand }

func (*AddressToPointer) isInstruction() {}

type PointerToAddress struct {
	Pointer Operand
	Type    typesys.Type
}

func (*PointerToAddress) isInstruction() {}

type AdvancedByBytes struct {
	Base   Operand
	Offset Operand
}

func (*AdvancedByBytes) isInstruction() {}

type AdvancedByStrides struct {
	Base    Operand
	Strides int
}

func (*AdvancedByStrides) isInstruction() {}

// SubfieldView projects a field out of an aggregate address by a path of
// field indices.
type SubfieldView struct {
	Base   Operand
	Fields []int
	Type   typesys.Type
}

func (*SubfieldView) isInstruction() {}

// ---- control flow (terminators) ----

type Branch struct {
	Target BlockID
	Args   []Operand
}

func (*Branch) isInstruction() {}

type CondBranch struct {
	Condition  Operand
	IfTrue     BlockID
	IfFalse    BlockID
	TrueArgs   []Operand
	FalseArgs  []Operand
}

func (*CondBranch) isInstruction() {}

type SwitchCase struct {
	Discriminator int
	Target        BlockID
}

type Switch struct {
	Subject Operand
	Cases   []SwitchCase
	Default BlockID
}

func (*Switch) isInstruction() {}

type Return struct{ Value Operand }

func (*Return) isInstruction() {}

type Unreachable struct{}

func (*Unreachable) isInstruction() {}

// ---- capability / access ----

type Access struct {
	Source Operand
	Mutable bool
}

func (*Access) isInstruction() {}

type EndAccess struct{ Access Operand }

func (*EndAccess) isInstruction() {}

type CaptureIn struct {
	Value Operand
	Into  Operand
}

func (*CaptureIn) isInstruction() {}

type OpenCapture struct{ Capture Operand }

func (*OpenCapture) isInstruction() {}

type CloseCapture struct{ Capture Operand }

func (*CloseCapture) isInstruction() {}

type ReleaseCaptures struct{ Captures []Operand }

func (*ReleaseCaptures) isInstruction() {}

// ---- union handling ----

type OpenUnion struct {
	Union       Operand
	Discriminator int
	Type        typesys.Type
}

func (*OpenUnion) isInstruction() {}

type CloseUnion struct{ Opened Operand }

func (*CloseUnion) isInstruction() {}

type UnionDiscriminator struct{ Union Operand }

func (*UnionDiscriminator) isInstruction() {}

// ---- calls ----

// Call invokes Callee with Args. Specialization is nil unless Callee
// resolves (directly, or via a TraitRequirementConstant) to a still-generic
// function; when set, it is the specialization this call site applies to
// that callee, expressed in terms of the callee's own generic parameters
// (its free variables, if any, range over the generic parameters of the
// function Call lives in, and get composed with that function's own
// specialization during monomorphization — spec.md §4.F step 6).
type Call struct {
	Callee         Operand
	Args           []Operand
	Output         typesys.Type
	Specialization typesys.Specialization
}

func (*Call) isInstruction() {}

type CallFFI struct {
	Symbol string
	Args   []Operand
	Output typesys.Type
}

func (*CallFFI) isInstruction() {}

// LLVMInstruction escapes to a raw backend instruction by mnemonic; its
// internals are explicitly out of scope (spec.md §1, LLVM/backend emission
// is plumbing).
type LLVMInstruction struct {
	Mnemonic string
	Args     []Operand
}

func (*LLVMInstruction) isInstruction() {}

// ---- projections ----

// Project opens an access to the value a (possibly generic) subscript
// declaration produces. Specialization mirrors Call.Specialization: set only
// when Subscript still refers to a generic accessor.
type Project struct {
	Subscript      Operand
	Args           []Operand
	Type           typesys.Type
	Specialization typesys.Specialization
}

func (*Project) isInstruction() {}

type EndProject struct{ Projection Operand }

func (*EndProject) isInstruction() {}

// ---- literals ----

type ConstantString struct{ Value string }

func (*ConstantString) isInstruction() {}

type GlobalAddr struct {
	Symbol string
	Type   typesys.Type
}

func (*GlobalAddr) isInstruction() {}

// ---- coroutines ----

type Yield struct{ Value Operand }

func (*Yield) isInstruction() {}

// IsTerminator reports whether instr is one of the five kinds spec.md §3
// allows only as the last instruction of a block.
func IsTerminator(instr Instruction) bool {
	switch instr.(type) {
	case *Branch, *CondBranch, *Switch, *Return, *Unreachable:
		return true
	default:
		return false
	}
}
