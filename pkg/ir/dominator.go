package ir

// DomTree is an immediate-dominator tree over one CFG, used to compute the
// dominator BFS order spec.md §4.E/§4.F requires: "visit definitions before
// uses" during monomorphization.
type DomTree struct {
	entry    *Block
	idom     map[*Block]*Block
	children map[*Block][]*Block
}

// BuildDominatorTree computes immediate dominators with the Cooper/Harvey/
// Kennedy iterative algorithm: repeatedly intersect each block's processed
// predecessors' dominator chains, walking in reverse postorder for fast
// convergence, until nothing changes. Blocks unreachable from the entry
// (never visited by the postorder walk) are simply absent from the tree.
func BuildDominatorTree(cfg *CFG) *DomTree {
	tree := &DomTree{entry: cfg.Entry, idom: map[*Block]*Block{}, children: map[*Block][]*Block{}}
	if cfg.Entry == nil {
		return tree
	}

	post := postorder(cfg)
	postNum := make(map[*Block]int, len(post))
	for i, b := range post {
		postNum[b] = i
	}

	rpo := make([]*Block, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}

	tree.idom[cfg.Entry] = cfg.Entry
	for changed := true; changed; {
		changed = false
		for _, b := range rpo {
			if b == cfg.Entry {
				continue
			}
			var newIdom *Block
			for _, p := range cfg.Preds[b] {
				if _, ok := tree.idom[p]; !ok {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, tree.idom, postNum)
			}
			if newIdom != nil && tree.idom[b] != newIdom {
				tree.idom[b] = newIdom
				changed = true
			}
		}
	}

	for _, b := range cfg.blocks {
		d, ok := tree.idom[b]
		if !ok || b == cfg.Entry {
			continue
		}
		tree.children[d] = append(tree.children[d], b)
	}
	return tree
}

func intersect(a, b *Block, idom map[*Block]*Block, postNum map[*Block]int) *Block {
	for a != b {
		for postNum[a] < postNum[b] {
			a = idom[a]
		}
		for postNum[b] < postNum[a] {
			b = idom[b]
		}
	}
	return a
}

// postorder DFS-walks the CFG from its entry via successor edges, appending
// each block when its subtree is fully visited.
func postorder(cfg *CFG) []*Block {
	visited := make(map[*Block]bool)
	var order []*Block
	var visit func(b *Block)
	visit = func(b *Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range cfg.Succs[b] {
			visit(s)
		}
		order = append(order, b)
	}
	visit(cfg.Entry)
	return order
}

// BFSOrder returns every block dominator-reachable from the tree's entry,
// breadth-first: a parent always precedes its children, which is exactly
// the order pkg/mono needs to rewrite operand definitions before uses.
// Siblings appear in the function's block order.
func (t *DomTree) BFSOrder() []*Block {
	if t.entry == nil {
		return nil
	}
	order := make([]*Block, 0)
	queue := []*Block{t.entry}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		order = append(order, b)
		queue = append(queue, t.children[b]...)
	}
	return order
}
