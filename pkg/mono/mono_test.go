package mono_test

import (
	"testing"

	"github.com/sarvex/hylo/pkg/ir"
	"github.com/sarvex/hylo/pkg/mono"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/typesys"
)

// FakeWorld is the smallest typesys.World that can drive pkg/mono's tests:
// specialization looks a generic parameter's name up directly, there is no
// separate canonical form, and conformance is backed by a fixed table
// supplied per test.
type FakeWorld struct {
	conformances map[string]typesys.Conformance
}

func (FakeWorld) Specialize(t typesys.Type, spec typesys.Specialization, _ typesys.Scope) typesys.Type {
	if concrete, ok := spec[typesys.GenericParamID(t.Name)]; ok {
		return concrete
	}
	return t
}

func (FakeWorld) Canonical(t typesys.Type, _ typesys.Scope) typesys.Type { return t }

func (w FakeWorld) Conformance(model typesys.Type, trait typesys.Type, _ typesys.Scope) (typesys.Conformance, bool) {
	c, ok := w.conformances[model.Name+"/"+trait.Name]
	return c, ok
}

func idFunc() (*ir.Function, ir.FunctionID) {
	id := ir.FunctionID{Kind: ir.Lowered, Decl: "id"}
	fn := ir.NewFunction(id, "id", source.Range{}, ir.External,
		[]typesys.Type{{Name: "T"}}, typesys.Type{Name: "T"}, []typesys.GenericParamID{"T"})
	b := fn.AppendBlock([]typesys.Type{{Name: "T"}})
	b.Append(&ir.Return{Value: ir.BlockParamOperand{Block: b.ID(), Index: 0}})
	return fn, id
}

func TestMonomorphizeSpecializesSignatureAndBody(t *testing.T) {
	fn, _ := idFunc()
	module := ir.NewModule()
	module.Insert(fn)

	m := mono.New(FakeWorld{}, module)
	spec := typesys.Specialization{"T": {Name: "Int"}}
	specialized := m.Monomorphize(fn, spec, 0)

	if specialized.ID().Kind != ir.Monomorphized {
		t.Fatalf("specialized.ID().Kind = %v, want Monomorphized", specialized.ID().Kind)
	}
	if len(specialized.Inputs) != 1 || specialized.Inputs[0].Name != "Int" {
		t.Fatalf("specialized.Inputs = %v, want [Int]", specialized.Inputs)
	}
	if specialized.Output.Name != "Int" {
		t.Fatalf("specialized.Output = %v, want Int", specialized.Output)
	}

	entry := specialized.Entry()
	if entry == nil || len(entry.Inputs) != 1 || entry.Inputs[0].Name != "Int" {
		t.Fatalf("specialized entry block inputs = %v, want [Int]", entry.Inputs)
	}
	ret, ok := entry.Terminator().(*ir.Return)
	if !ok {
		t.Fatalf("terminator is %T, want *ir.Return", entry.Terminator())
	}
	param, ok := ret.Value.(ir.BlockParamOperand)
	if !ok || param.Block != entry.ID() {
		t.Fatalf("ret.Value = %+v, want a BlockParamOperand referencing the new entry block", ret.Value)
	}
}

func TestMonomorphizeMemoizesIdenticalRequests(t *testing.T) {
	fn, _ := idFunc()
	module := ir.NewModule()
	module.Insert(fn)

	m := mono.New(FakeWorld{}, module)
	spec := typesys.Specialization{"T": {Name: "Int"}}

	first := m.Monomorphize(fn, spec, 0)
	second := m.Monomorphize(fn, spec, 0)
	if first != second {
		t.Error("two Monomorphize calls with the same base and specialization produced distinct functions")
	}

	another := m.Monomorphize(fn, typesys.Specialization{"T": {Name: "Bool"}}, 0)
	if another == first {
		t.Error("different specializations should produce distinct functions")
	}
}

func TestDepolymorphizeRewritesCallToSpecializedCopy(t *testing.T) {
	idFn, idID := idFunc()
	module := ir.NewModule()
	module.Insert(idFn)

	mainID := ir.FunctionID{Kind: ir.Lowered, Decl: "main"}
	mainFn := ir.NewFunction(mainID, "main", source.Range{}, ir.External, nil, typesys.Type{Name: "Int"}, nil)
	mainBlock := mainFn.AppendBlock(nil)
	callID := mainBlock.Append(&ir.Call{
		Callee: ir.ConstantOperand{Value: ir.FunctionRefConstant{Target: idID}},
		Args:   []ir.Operand{ir.ConstantOperand{Value: ir.IntConstant{Value: 3}}},
		Output: typesys.Type{Name: "Int"},
		Specialization: typesys.Specialization{
			"T": {Name: "Int"},
		},
	})
	mainBlock.Append(&ir.Return{Value: ir.InstructionResultOperand{Instr: callID}})
	module.Insert(mainFn)

	m := mono.New(FakeWorld{}, module)
	m.Depolymorphize()

	funcs := module.Functions()
	if len(funcs) != 3 {
		t.Fatalf("got %d functions after Depolymorphize, want 3 (id, main, id<T=Int>)", len(funcs))
	}

	rewrittenMain, ok := module.Lookup(mainID)
	if !ok {
		t.Fatal("main not found after Depolymorphize")
	}
	call, ok := rewrittenMain.Entry().Instructions()[0].(*ir.Call)
	if !ok {
		t.Fatalf("first instruction is %T, want *ir.Call", rewrittenMain.Entry().Instructions()[0])
	}
	ref, ok := call.Callee.(ir.ConstantOperand).Value.(ir.FunctionRefConstant)
	if !ok {
		t.Fatalf("call.Callee = %+v, want a FunctionRefConstant", call.Callee)
	}
	if ref.Target.Kind != ir.Monomorphized {
		t.Errorf("rewritten callee kind = %v, want Monomorphized", ref.Target.Kind)
	}
	if call.Specialization != nil {
		t.Error("a rewritten direct call to a now-concrete function should carry no further specialization")
	}
}

func TestDepolymorphizeResolvesTraitRequirementCall(t *testing.T) {
	// witness is the concrete function Int's conformance to Describable
	// dispatches "describe" to.
	witnessID := ir.FunctionID{Kind: ir.Lowered, Decl: "Int.describe"}
	witness := ir.NewFunction(witnessID, "Int.describe", source.Range{}, ir.External, nil, typesys.Type{Name: "String"}, nil)
	wb := witness.AppendBlock(nil)
	wb.Append(&ir.Return{Value: ir.ConstantOperand{Value: ir.IntConstant{Value: 0}}})

	module := ir.NewModule()
	module.Insert(witness)

	callerID := ir.FunctionID{Kind: ir.Lowered, Decl: "caller"}
	caller := ir.NewFunction(callerID, "caller", source.Range{}, ir.External, nil, typesys.Type{Name: "String"}, nil)
	cb := caller.AppendBlock(nil)
	callID := cb.Append(&ir.Call{
		Callee: ir.ConstantOperand{Value: ir.TraitRequirementConstant{
			Requirement: "describe",
			Model:       typesys.Type{Name: "Int"},
			Trait:       typesys.Type{Name: "Describable"},
		}},
		Output: typesys.Type{Name: "String"},
	})
	cb.Append(&ir.Return{Value: ir.InstructionResultOperand{Instr: callID}})
	module.Insert(caller)

	world := FakeWorld{conformances: map[string]typesys.Conformance{
		"Int/Describable": {Implementations: map[typesys.RequirementID]typesys.FunctionID{
			"describe": typesys.FunctionID(witnessID.String()),
		}},
	}}

	m := mono.New(world, module)
	m.Depolymorphize()

	rewrittenCaller, _ := module.Lookup(callerID)
	call := rewrittenCaller.Entry().Instructions()[0].(*ir.Call)
	ref, ok := call.Callee.(ir.ConstantOperand).Value.(ir.FunctionRefConstant)
	if !ok {
		t.Fatalf("call.Callee = %+v, want it resolved to a FunctionRefConstant", call.Callee)
	}
	if ref.Target != witnessID {
		t.Errorf("resolved callee = %+v, want the witness %+v", ref.Target, witnessID)
	}
}
