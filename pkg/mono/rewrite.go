package mono

import (
	"fmt"

	"github.com/sarvex/hylo/pkg/ir"
	"github.com/sarvex/hylo/pkg/typesys"
)

// rewriteInstruction produces the rewritten form of instr under spec/scope.
// This switch is total over every instruction kind pkg/ir defines (spec.md
// §4.F "the rewriter is total"): an unrecognized kind is a bug in pkg/ir or
// pkg/mono falling out of sync, not a condition to recover from, so it
// panics rather than silently dropping the instruction.
func (m *Monomorphizer) rewriteInstruction(instr ir.Instruction, spec typesys.Specialization, scope typesys.Scope, blockMap map[*ir.Block]*ir.Block, instrMap map[ir.InstructionID]ir.InstructionID) ir.Instruction {
	op := func(o ir.Operand) ir.Operand { return m.rewriteOperand(o, spec, scope, blockMap, instrMap) }
	ops := func(os []ir.Operand) []ir.Operand {
		out := make([]ir.Operand, len(os))
		for i, o := range os {
			out[i] = op(o)
		}
		return out
	}
	blk := func(id ir.BlockID) ir.BlockID { return blockMap[id.Addr].ID() }
	typ := func(t typesys.Type) typesys.Type { return m.specialize(t, spec, scope) }

	switch v := instr.(type) {
	case *ir.AllocStack:
		return &ir.AllocStack{Type: typ(v.Type)}
	case *ir.DeallocStack:
		return &ir.DeallocStack{Location: op(v.Location)}
	case *ir.Load:
		return &ir.Load{Type: typ(v.Type), Source: op(v.Source)}
	case *ir.Store:
		return &ir.Store{Value: op(v.Value), Destination: op(v.Destination)}
	case *ir.MarkState:
		return &ir.MarkState{Target: op(v.Target), Initialized: v.Initialized}
	case *ir.AddressToPointer:
		return &ir.AddressToPointer{Address: op(v.Address)}
	case *ir.PointerToAddress:
		return &ir.PointerToAddress{Pointer: op(v.Pointer), Type: typ(v.Type)}
	case *ir.AdvancedByBytes:
		return &ir.AdvancedByBytes{Base: op(v.Base), Offset: op(v.Offset)}
	case *ir.AdvancedByStrides:
		return &ir.AdvancedByStrides{Base: op(v.Base), Strides: v.Strides}
	case *ir.SubfieldView:
		return &ir.SubfieldView{Base: op(v.Base), Fields: v.Fields, Type: typ(v.Type)}

	case *ir.Branch:
		return &ir.Branch{Target: blk(v.Target), Args: ops(v.Args)}
	case *ir.CondBranch:
		return &ir.CondBranch{
			Condition: op(v.Condition),
			IfTrue:    blk(v.IfTrue), IfFalse: blk(v.IfFalse),
			TrueArgs: ops(v.TrueArgs), FalseArgs: ops(v.FalseArgs),
		}
	case *ir.Switch:
		cases := make([]ir.SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = ir.SwitchCase{Discriminator: c.Discriminator, Target: blk(c.Target)}
		}
		return &ir.Switch{Subject: op(v.Subject), Cases: cases, Default: blk(v.Default)}
	case *ir.Return:
		return &ir.Return{Value: op(v.Value)}
	case *ir.Unreachable:
		return &ir.Unreachable{}

	case *ir.Access:
		return &ir.Access{Source: op(v.Source), Mutable: v.Mutable}
	case *ir.EndAccess:
		return &ir.EndAccess{Access: op(v.Access)}
	case *ir.CaptureIn:
		return &ir.CaptureIn{Value: op(v.Value), Into: op(v.Into)}
	case *ir.OpenCapture:
		return &ir.OpenCapture{Capture: op(v.Capture)}
	case *ir.CloseCapture:
		return &ir.CloseCapture{Capture: op(v.Capture)}
	case *ir.ReleaseCaptures:
		return &ir.ReleaseCaptures{Captures: ops(v.Captures)}

	case *ir.OpenUnion:
		return &ir.OpenUnion{Union: op(v.Union), Discriminator: v.Discriminator, Type: typ(v.Type)}
	case *ir.CloseUnion:
		return &ir.CloseUnion{Opened: op(v.Opened)}
	case *ir.UnionDiscriminator:
		return &ir.UnionDiscriminator{Union: op(v.Union)}

	case *ir.Call:
		callee := m.resolveCallee(op(v.Callee), v.Specialization, spec, scope)
		return &ir.Call{Callee: callee, Args: ops(v.Args), Output: typ(v.Output)}
	case *ir.CallFFI:
		return &ir.CallFFI{Symbol: v.Symbol, Args: ops(v.Args), Output: typ(v.Output)}
	case *ir.LLVMInstruction:
		return &ir.LLVMInstruction{Mnemonic: v.Mnemonic, Args: ops(v.Args)}

	case *ir.Project:
		sub := m.resolveCallee(op(v.Subscript), v.Specialization, spec, scope)
		return &ir.Project{Subscript: sub, Args: ops(v.Args), Type: typ(v.Type)}
	case *ir.EndProject:
		return &ir.EndProject{Projection: op(v.Projection)}

	case *ir.ConstantString:
		return &ir.ConstantString{Value: v.Value}
	case *ir.GlobalAddr:
		return &ir.GlobalAddr{Symbol: v.Symbol, Type: typ(v.Type)}

	case *ir.Yield:
		return &ir.Yield{Value: op(v.Value)}

	default:
		panic(fmt.Sprintf("mono: rewriteInstruction: unrecognized instruction kind %T", instr))
	}
}

// rewriteOperand maps one operand under spec/scope (spec.md §4.F step 5).
func (m *Monomorphizer) rewriteOperand(o ir.Operand, spec typesys.Specialization, scope typesys.Scope, blockMap map[*ir.Block]*ir.Block, instrMap map[ir.InstructionID]ir.InstructionID) ir.Operand {
	switch v := o.(type) {
	case ir.ConstantOperand:
		return ir.ConstantOperand{Value: m.rewriteConstant(v.Value, spec, scope)}
	case ir.BlockParamOperand:
		tb, ok := blockMap[v.Block.Addr]
		if !ok {
			panic("mono: operand references a block not present in this function's source-to-target map")
		}
		return ir.BlockParamOperand{Block: tb.ID(), Index: v.Index}
	case ir.InstructionResultOperand:
		newID, ok := instrMap[v.Instr]
		if !ok {
			panic("mono: operand references an instruction not yet rewritten (dominance violated)")
		}
		return ir.InstructionResultOperand{Instr: newID}
	default:
		panic(fmt.Sprintf("mono: rewriteOperand: unrecognized operand kind %T", o))
	}
}

// rewriteConstant maps one constant payload under spec/scope. Function
// references standing alone (not behind a Call/Project's own Specialization
// field) are left as-is: this pass has no call-site information to decide
// what they should specialize to, so it treats them as already resolved.
func (m *Monomorphizer) rewriteConstant(c ir.ConstantValue, spec typesys.Specialization, scope typesys.Scope) ir.ConstantValue {
	switch v := c.(type) {
	case ir.MetatypeConstant:
		return ir.MetatypeConstant{Type: m.specialize(v.Type, spec, scope)}
	case ir.FunctionRefConstant, ir.IntConstant, ir.FloatConstant, ir.BoolConstant, ir.TraitRequirementConstant:
		return v
	default:
		panic(fmt.Sprintf("mono: rewriteConstant: unrecognized constant kind %T", c))
	}
}

// resolveCallee implements spec.md §4.F steps 6 and 7 for a Call or Project's
// callee/subscript operand: a plain reference to a generic function is
// monomorphized under the composed specialization; a trait requirement is
// first resolved to its concrete witness via World.Conformance, which is
// itself monomorphized if that witness happens to be generic too. Callers
// pass the operand already mapped by rewriteOperand, so anything else (a
// non-generic callee, or an indirect callee held in a variable) is returned
// as that mapping left it.
func (m *Monomorphizer) resolveCallee(callee ir.Operand, siteSpec typesys.Specialization, spec typesys.Specialization, scope typesys.Scope) ir.Operand {
	constOp, ok := callee.(ir.ConstantOperand)
	if !ok {
		// An indirect callee (e.g. held in a captured variable) cannot be
		// resolved further here; whatever produced that value is responsible
		// for it already being concrete.
		return callee
	}

	switch cv := constOp.Value.(type) {
	case ir.FunctionRefConstant:
		target, ok := m.Module.Lookup(cv.Target)
		if !ok || !target.IsGeneric() {
			return constOp
		}
		composed := m.composeSpecialization(siteSpec, spec, scope)
		specialized := m.Monomorphize(target, composed, scope)
		return ir.ConstantOperand{Value: ir.FunctionRefConstant{Target: specialized.ID()}}

	case ir.TraitRequirementConstant:
		model := m.specialize(cv.Model, spec, scope)
		conformance, ok := m.World.Conformance(model, cv.Trait, scope)
		if !ok {
			panic(fmt.Sprintf("mono: %s does not conform to %s", model, cv.Trait))
		}
		witnessID, ok := conformance.Implementations[cv.Requirement]
		if !ok {
			panic(fmt.Sprintf("mono: conformance of %s to %s has no witness for %s", model, cv.Trait, cv.Requirement))
		}
		witness, ok := m.Module.LookupByString(string(witnessID))
		if !ok {
			panic(fmt.Sprintf("mono: conformance witness %s is not in the module", witnessID))
		}
		if !witness.IsGeneric() {
			return ir.ConstantOperand{Value: ir.FunctionRefConstant{Target: witness.ID()}}
		}
		composed := m.composeSpecialization(siteSpec, spec, scope)
		specialized := m.Monomorphize(witness, composed, scope)
		return ir.ConstantOperand{Value: ir.FunctionRefConstant{Target: specialized.ID()}}

	default:
		return constOp
	}
}
