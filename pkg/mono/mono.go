// Package mono implements monomorphization and depolymorphization over the
// lowered IR (spec.md §4.F/§9): replacing every call through a generic
// function or subscript with a call to a specialized copy, generated lazily
// and memoized by (base function, specialization).
package mono

import (
	"github.com/sarvex/hylo/pkg/ir"
	"github.com/sarvex/hylo/pkg/typesys"
)

// World is the external type-system collaborator a monomorphization pass
// consults; it is exactly typesys.World, named locally so pkg/mono's own
// public surface doesn't force every caller to import pkg/typesys just to
// spell the type out.
type World = typesys.World

// Monomorphizer holds the memoization table and the external type-system
// collaborator a single depolymorphization pass needs.
type Monomorphizer struct {
	World  World
	Module *ir.Module

	memo map[string]*ir.Function
}

// New returns a Monomorphizer over module, consulting world for
// specialization, canonicalization and conformance lookups.
func New(world World, module *ir.Module) *Monomorphizer {
	return &Monomorphizer{World: world, Module: module, memo: make(map[string]*ir.Function)}
}

// Depolymorphize is the module-level entry point spec.md §4.F describes:
// every function with a body is either rewritten in place (if it is not
// itself generic, its calls into generic callees are redirected at concrete
// specialized copies) or, if it is generic and externally visible, passed to
// Existentialize, which returns it unchanged; no wrapper is added to the
// module.
func (m *Monomorphizer) Depolymorphize() {
	for _, fn := range m.Module.Functions() {
		if fn.Entry() == nil {
			continue
		}
		if fn.IsGeneric() {
			if fn.Linkage == ir.External {
				m.Existentialize(fn)
			}
			continue
		}
		m.rewriteInPlace(fn)
	}
}

// rewriteInPlace resolves every Call/Project in fn's own blocks that still
// targets a generic callee, replacing it with a reference to a specialized
// copy. fn is not itself generic, so there is no outer specialization to
// compose with each call site's own.
func (m *Monomorphizer) rewriteInPlace(fn *ir.Function) {
	blockMap := identityBlockMap(fn)
	instrMap := make(map[ir.InstructionID]ir.InstructionID)
	for _, b := range fn.Blocks() {
		for _, entry := range b.Entries() {
			instrMap[entry.ID] = entry.ID
		}
	}
	var zeroScope typesys.Scope
	for _, b := range fn.Blocks() {
		for _, entry := range b.Entries() {
			rewritten := m.rewriteInstruction(entry.Instr, nil, zeroScope, blockMap, instrMap)
			b.Replace(entry.ID, rewritten)
		}
	}
}

// identityBlockMap maps every block of fn to itself. rewriteInPlace edits a
// function's own blocks, so block identity never changes; only Monomorphize
// (which builds a brand new function) needs a map from source block to
// freshly allocated target block, and builds its own.
func identityBlockMap(fn *ir.Function) map[*ir.Block]*ir.Block {
	out := make(map[*ir.Block]*ir.Block, len(fn.Blocks()))
	for _, b := range fn.Blocks() {
		out[b] = b
	}
	return out
}

// Monomorphize returns the specialized copy of base under spec, viewed from
// scope, generating and memoizing it on first request (spec.md §4.F, the
// seven-step algorithm):
//
//  1. The result's identity is stable and computed before the body is
//     walked, and the memo entry is inserted before recursing into the body,
//     so a generic function that calls itself (directly or through another
//     generic function) terminates instead of looping forever.
//  2. A new, empty function is declared with the specialized input/output
//     types.
//  3. One target block is allocated per source block, up front, each with
//     its own specialized input types, before any instruction is rewritten.
//  4. Instructions are visited in dominator BFS order, so every operand a
//     rewritten instruction references has itself already been rewritten.
//  5. Every operand is rewritten: constants are mapped (metatypes are
//     specialized; a function reference is monomorphized only as a
//     Call/Project callee, per step 6, and left as-is elsewhere), block
//     parameters and instruction results are redirected through the
//     source-to-target maps built in steps 3 and 4.
//  6. A Call/Project's own specialization is composed with spec before the
//     callee is monomorphized, so nested generics resolve transitively.
//  7. A Call through a trait requirement is redirected at the concrete
//     witness m.World.Conformance names, monomorphizing it too if needed.
func (m *Monomorphizer) Monomorphize(base *ir.Function, spec typesys.Specialization, scope typesys.Scope) *ir.Function {
	key := base.ID().String() + "#" + spec.Key()
	if existing, ok := m.memo[key]; ok {
		return existing
	}

	id := ir.FunctionID{Kind: ir.Monomorphized, Base: baseID(base), For: spec.Key()}
	inputs := make([]typesys.Type, len(base.Inputs))
	for i, t := range base.Inputs {
		inputs[i] = m.specialize(t, spec, scope)
	}
	output := m.specialize(base.Output, spec, scope)

	target := ir.NewFunction(id, base.Name, base.Anchor, base.Linkage, inputs, output, nil)
	m.memo[key] = target
	m.Module.Insert(target)

	blockMap := make(map[*ir.Block]*ir.Block, len(base.Blocks()))
	for _, b := range base.Blocks() {
		specInputs := make([]typesys.Type, len(b.Inputs))
		for i, t := range b.Inputs {
			specInputs[i] = m.specialize(t, spec, scope)
		}
		blockMap[b] = target.AppendBlock(specInputs)
	}

	instrMap := make(map[ir.InstructionID]ir.InstructionID)
	cfg := ir.BuildCFG(base)
	dom := ir.BuildDominatorTree(cfg)
	for _, b := range dom.BFSOrder() {
		tb := blockMap[b]
		for _, entry := range b.Entries() {
			rewritten := m.rewriteInstruction(entry.Instr, spec, scope, blockMap, instrMap)
			instrMap[entry.ID] = tb.Append(rewritten)
		}
	}

	return target
}

// baseID copies base's identity by value so the Monomorphized FunctionID
// this produces doesn't alias the original function's id storage.
func baseID(base *ir.Function) *ir.FunctionID {
	id := base.ID()
	return &id
}

// specialize is the step-5/6 Specialize-then-Canonical composition every
// type position in a rewritten instruction goes through.
func (m *Monomorphizer) specialize(t typesys.Type, spec typesys.Specialization, scope typesys.Scope) typesys.Type {
	if len(spec) == 0 {
		return m.World.Canonical(t, scope)
	}
	return m.World.Canonical(m.World.Specialize(t, spec, scope), scope)
}

// composeSpecialization folds a call site's own specialization (expressed in
// terms of the callee's generic parameters, whose type arguments may in turn
// reference the enclosing function's own generic parameters) through the
// enclosing function's specialization, producing the specialization the
// callee must actually be monomorphized under (spec.md §4.F step 6).
func (m *Monomorphizer) composeSpecialization(site typesys.Specialization, outer typesys.Specialization, scope typesys.Scope) typesys.Specialization {
	if len(site) == 0 {
		return nil
	}
	composed := make(typesys.Specialization, len(site))
	for id, t := range site {
		composed[id] = m.specialize(t, outer, scope)
	}
	return composed
}
