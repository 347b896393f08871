package ir

import (
	"testing"

	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/typesys"
)

func newTestFunc(id FunctionID) *Function {
	return NewFunction(id, id.Decl, source.Range{}, External, nil, typesys.Type{Name: "Int"}, nil)
}

func TestBlockAddressStableAcrossUnrelatedRemoval(t *testing.T) {
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "f"})
	entry := fn.AppendBlock(nil)

	first := entry.Append(&AllocStack{Type: typesys.Type{Name: "Int"}})
	second := entry.Append(&AllocStack{Type: typesys.Type{Name: "Bool"}})
	third := entry.Append(&AllocStack{Type: typesys.Type{Name: "Float"}})

	entry.Remove(second)

	remaining := entry.Instructions()
	if len(remaining) != 2 {
		t.Fatalf("got %d instructions after removal, want 2", len(remaining))
	}

	// first and third's addresses must still resolve to their original
	// instructions; removing the middle entry must not shift anything.
	if entry.Terminator() != remaining[len(remaining)-1] {
		t.Fatalf("Terminator() did not return the last remaining instruction")
	}
	if first.Addr.value != remaining[0] || third.Addr.value != remaining[1] {
		t.Fatalf("first/third addresses no longer resolve to their original instructions")
	}
}

func TestBlockReplacePreservesAddress(t *testing.T) {
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "f"})
	entry := fn.AppendBlock(nil)
	id := entry.Append(&AllocStack{Type: typesys.Type{Name: "Int"}})

	entry.Replace(id, &Unreachable{})

	instrs := entry.Instructions()
	if len(instrs) != 1 {
		t.Fatalf("got %d instructions, want 1", len(instrs))
	}
	if _, ok := instrs[0].(*Unreachable); !ok {
		t.Fatalf("instruction is %T after Replace, want *Unreachable", instrs[0])
	}
}

func TestBlockEntriesPairsIDsWithInstructions(t *testing.T) {
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "f"})
	entry := fn.AppendBlock(nil)
	id := entry.Append(&Unreachable{})

	entries := entry.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ID != id {
		t.Errorf("entries[0].ID = %+v, want %+v", entries[0].ID, id)
	}
}

func TestFunctionAppendBlockOrderAndEntry(t *testing.T) {
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "f"})
	b0 := fn.AppendBlock(nil)
	b1 := fn.AppendBlock(nil)

	blocks := fn.Blocks()
	if len(blocks) != 2 || blocks[0] != b0 || blocks[1] != b1 {
		t.Fatalf("Blocks() = %v, want [b0 b1] in append order", blocks)
	}
	if fn.Entry() != b0 {
		t.Errorf("Entry() = %v, want the first appended block", fn.Entry())
	}
}

func TestFunctionRemoveBlockLeavesOthersAddressable(t *testing.T) {
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "f"})
	b0 := fn.AppendBlock(nil)
	b1 := fn.AppendBlock(nil)
	b2 := fn.AppendBlock(nil)

	fn.RemoveBlock(b1)

	blocks := fn.Blocks()
	if len(blocks) != 2 || blocks[0] != b0 || blocks[1] != b2 {
		t.Fatalf("Blocks() after removal = %v, want [b0 b2]", blocks)
	}
}

func TestFunctionIDStringRendering(t *testing.T) {
	tests := []struct {
		id   FunctionID
		want string
	}{
		{FunctionID{Kind: Lowered, Decl: "f"}, "f.lowered"},
		{FunctionID{Kind: Constructor, Decl: "Pair"}, "Pair.constructor"},
		{FunctionID{Kind: Synthesized, Decl: "deinit", For: "Pair"}, "synthesized deinit for Pair"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.id, got, tt.want)
		}
	}

	base := FunctionID{Kind: Lowered, Decl: "id"}
	mono := FunctionID{Kind: Monomorphized, Base: &base, For: "<T=Int>"}
	if got, want := mono.String(), "id.lowered<T=Int>"; got != want {
		t.Errorf("Monomorphized String() = %q, want %q", got, want)
	}
}

func TestModuleInsertLookupAndOrder(t *testing.T) {
	m := NewModule()
	f1 := newTestFunc(FunctionID{Kind: Lowered, Decl: "a"})
	f2 := newTestFunc(FunctionID{Kind: Lowered, Decl: "b"})
	m.Insert(f1)
	m.Insert(f2)

	if got, ok := m.Lookup(f1.ID()); !ok || got != f1 {
		t.Errorf("Lookup(f1.ID()) = %v, %v, want f1, true", got, ok)
	}
	if got, ok := m.LookupByString(f2.ID().String()); !ok || got != f2 {
		t.Errorf("LookupByString(f2) = %v, %v, want f2, true", got, ok)
	}

	funcs := m.Functions()
	if len(funcs) != 2 || funcs[0] != f1 || funcs[1] != f2 {
		t.Fatalf("Functions() = %v, want [f1 f2] in insertion order", funcs)
	}
}

func TestModuleInsertOverwritesSameIdentity(t *testing.T) {
	m := NewModule()
	id := FunctionID{Kind: Lowered, Decl: "a"}
	first := newTestFunc(id)
	second := newTestFunc(id)
	m.Insert(first)
	m.Insert(second)

	if len(m.Functions()) != 1 {
		t.Fatalf("got %d functions after overwrite, want 1", len(m.Functions()))
	}
	got, _ := m.Lookup(id)
	if got != second {
		t.Error("Lookup after overwrite should return the second insert")
	}
}

// buildDiamond builds entry -> (left, right) -> join, a classic diamond CFG,
// to exercise BuildCFG/BuildDominatorTree/BFSOrder together.
func buildDiamond(t *testing.T) (*Function, *Block, *Block, *Block, *Block) {
	t.Helper()
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "diamond"})
	entry := fn.AppendBlock(nil)
	left := fn.AppendBlock(nil)
	right := fn.AppendBlock(nil)
	join := fn.AppendBlock(nil)

	entry.Append(&CondBranch{
		Condition: ConstantOperand{Value: BoolConstant{Value: true}},
		IfTrue:    left.ID(), IfFalse: right.ID(),
	})
	left.Append(&Branch{Target: join.ID()})
	right.Append(&Branch{Target: join.ID()})
	join.Append(&Return{Value: ConstantOperand{Value: IntConstant{Value: 0}}})

	return fn, entry, left, right, join
}

func TestBuildCFGDiamond(t *testing.T) {
	fn, entry, left, right, join := buildDiamond(t)
	cfg := BuildCFG(fn)

	if cfg.Entry != entry {
		t.Fatalf("cfg.Entry = %v, want entry", cfg.Entry)
	}
	succs := cfg.Succs[entry]
	if len(succs) != 2 || succs[0] != left || succs[1] != right {
		t.Fatalf("cfg.Succs[entry] = %v, want [left right]", succs)
	}
	if len(cfg.Preds[join]) != 2 {
		t.Fatalf("got %d preds of join, want 2", len(cfg.Preds[join]))
	}
}

func TestDominatorTreeDiamond(t *testing.T) {
	fn, entry, _, _, join := buildDiamond(t)
	cfg := BuildCFG(fn)
	tree := BuildDominatorTree(cfg)

	order := tree.BFSOrder()
	if len(order) != 4 {
		t.Fatalf("got %d blocks in BFS order, want 4", len(order))
	}
	if order[0] != entry {
		t.Fatalf("BFS order[0] = %v, want entry", order[0])
	}
	// join is dominated by entry directly (neither left nor right dominates
	// it alone, since control can reach join through either arm), so it must
	// appear as one of entry's direct children, not nested under left/right.
	// Siblings follow block order (left, right, join), so join comes last.
	last := order[len(order)-1]
	if last != join {
		t.Fatalf("BFS order = %v, want join last (entry's children in block order: left, right, join)", order)
	}
}

func TestDominatorTreeUnreachableBlockIsOmitted(t *testing.T) {
	fn := newTestFunc(FunctionID{Kind: Lowered, Decl: "f"})
	entry := fn.AppendBlock(nil)
	entry.Append(&Return{Value: ConstantOperand{Value: IntConstant{Value: 0}}})
	fn.AppendBlock(nil) // never branched to

	cfg := BuildCFG(fn)
	tree := BuildDominatorTree(cfg)
	order := tree.BFSOrder()
	if len(order) != 1 || order[0] != entry {
		t.Fatalf("BFSOrder() = %v, want only [entry]", order)
	}
}
