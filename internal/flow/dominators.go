package flow

import "unflutter/internal/bitset"

// domInfo is one procedure's dominator/post-dominator state, numbered
// locally to the procedure's own reachable block set (design note: "size
// bitsets to the procedure's block count, not the global block count").
//
// This lives off to the side rather than solely on Block because segments
// may share a single exit sentinel across procedures (see block.go); two
// procedures can each legitimately reach the same physical block with
// differently-sized local numberings. Block.Dominators/PostDominators are
// still populated as a best-effort convenience mirror for the common case
// of a block owned by exactly one procedure.
type domInfo struct {
	blocks  []BlockID
	index   map[BlockID]int
	dom     []*bitset.Set
	postdom []*bitset.Set
}

// ComputeDominators is L4: the classical iterative bitset fixed point for
// dominators and post-dominators, run independently per procedure over its
// own forward-reachable block set.
func ComputeDominators(bl *BlockList) error {
	if bl.doms == nil {
		bl.doms = make(map[ProcID]*domInfo)
	}
	for pid := range bl.Procs {
		p := &bl.Procs[pid]
		blocks := reachableBlocks(bl, p.EntryBlock)
		index := make(map[BlockID]int, len(blocks))
		for i, b := range blocks {
			index[b] = i
		}

		dom := fixedPoint(len(blocks), 0, func(i int) []int {
			return localIDs(predsWithin(bl, blocks[i], index), index)
		})
		var postdom []*bitset.Set
		if exitIdx, ok := index[p.ExitBlock]; ok {
			postdom = fixedPoint(len(blocks), exitIdx, func(i int) []int {
				return localIDs(succsWithin(bl, blocks[i], index), index)
			})
		} else {
			postdom = make([]*bitset.Set, len(blocks))
			for i := range postdom {
				postdom[i] = bitset.New(len(blocks))
				postdom[i].Set(i)
			}
		}

		bl.doms[ProcID(pid)] = &domInfo{blocks: blocks, index: index, dom: dom, postdom: postdom}
		for i, b := range blocks {
			bb := bl.Block(b)
			bb.Dominators = dom[i]
			bb.PostDominators = postdom[i]
		}
	}
	return nil
}

// fixedPoint runs the iterative dominator fixed point over n locally-
// numbered nodes rooted at root, where predecessors(i) gives the local ids
// that flow into node i (the direction — forward for dominators, backward
// for post-dominators — is baked into the caller's predecessors func).
func fixedPoint(n int, root int, predecessors func(i int) []int) []*bitset.Set {
	sets := make([]*bitset.Set, n)
	for i := range sets {
		sets[i] = bitset.New(n)
		sets[i].SetAll()
	}
	sets[root].ClearAll()
	sets[root].Set(root)

	for changed := true; changed; {
		changed = false
		for i := 0; i < n; i++ {
			if i == root {
				continue
			}
			preds := predecessors(i)
			if len(preds) == 0 {
				continue
			}
			next := bitset.New(n)
			next.SetAll()
			for _, p := range preds {
				next.IntersectWith(sets[p])
			}
			next.Set(i)
			if !next.Equal(sets[i]) {
				sets[i] = next
				changed = true
			}
		}
	}
	return sets
}

func reachableBlocks(bl *BlockList, start BlockID) []BlockID {
	var order []BlockID
	DepthFirstBlocks(bl, start, true, func(id BlockID) bool {
		order = append(order, id)
		return true
	})
	return order
}

func predsWithin(bl *BlockList, b BlockID, index map[BlockID]int) []BlockID {
	return filterWithin(bl.Block(b).Pred, index)
}

func succsWithin(bl *BlockList, b BlockID, index map[BlockID]int) []BlockID {
	return filterWithin(bl.Block(b).Succ, index)
}

func filterWithin(ids []BlockID, index map[BlockID]int) []BlockID {
	var out []BlockID
	for _, id := range ids {
		if _, ok := index[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func localIDs(ids []BlockID, index map[BlockID]int) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = index[id]
	}
	return out
}

// Dominates reports whether x dominates b within proc's local numbering.
func (bl *BlockList) Dominates(proc ProcID, x, b BlockID) bool {
	info := bl.doms[proc]
	if info == nil {
		return false
	}
	bi, ok := info.index[b]
	if !ok {
		return false
	}
	xi, ok := info.index[x]
	if !ok {
		return false
	}
	return info.dom[bi].Test(xi)
}

// PostDominates reports whether x post-dominates b within proc.
func (bl *BlockList) PostDominates(proc ProcID, x, b BlockID) bool {
	info := bl.doms[proc]
	if info == nil {
		return false
	}
	bi, ok := info.index[b]
	if !ok {
		return false
	}
	xi, ok := info.index[x]
	if !ok {
		return false
	}
	return info.postdom[bi].Test(xi)
}

// ImmediatePostDominator returns ipostdom(b): the strict post-dominator of
// b closest to it, i.e. the one with the largest post-dominator set among
// b's proper post-dominators (post-dominator sets nest along the unique
// chain from b to the procedure's exit).
func (bl *BlockList) ImmediatePostDominator(proc ProcID, b BlockID) (BlockID, bool) {
	info := bl.doms[proc]
	if info == nil {
		return NoBlock, false
	}
	bi, ok := info.index[b]
	if !ok {
		return NoBlock, false
	}
	best, bestCount := -1, -1
	for i := range info.blocks {
		if i == bi || !info.postdom[bi].Test(i) {
			continue
		}
		if c := info.postdom[i].Count(); c > bestCount {
			best, bestCount = i, c
		}
	}
	if best < 0 {
		return NoBlock, false
	}
	return info.blocks[best], true
}
