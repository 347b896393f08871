package ir

// CFG is the predecessor/successor graph over one function's blocks, built
// by walking each block's terminator (spec.md §4.E "cfg() — builds
// predecessor/successor graph by walking terminators").
type CFG struct {
	Entry  *Block
	blocks []*Block
	Preds  map[*Block][]*Block
	Succs  map[*Block][]*Block
}

// BuildCFG walks every block of f and records the edges its terminator
// implies. A block with no instructions yet (mid-construction) contributes
// no edges.
func BuildCFG(f *Function) *CFG {
	blocks := f.Blocks()
	cfg := &CFG{blocks: blocks, Preds: make(map[*Block][]*Block), Succs: make(map[*Block][]*Block)}
	if len(blocks) > 0 {
		cfg.Entry = blocks[0]
	}

	for _, b := range blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		for _, target := range terminatorTargets(term) {
			to := target.Addr
			cfg.Succs[b] = append(cfg.Succs[b], to)
			cfg.Preds[to] = append(cfg.Preds[to], b)
		}
	}
	return cfg
}

// terminatorTargets lists the blocks a terminator instruction can transfer
// control to. Return/Unreachable/Yield have none.
func terminatorTargets(instr Instruction) []BlockID {
	switch v := instr.(type) {
	case *Branch:
		return []BlockID{v.Target}
	case *CondBranch:
		return []BlockID{v.IfTrue, v.IfFalse}
	case *Switch:
		targets := make([]BlockID, 0, len(v.Cases)+1)
		for _, c := range v.Cases {
			targets = append(targets, c.Target)
		}
		return append(targets, v.Default)
	default:
		return nil
	}
}
