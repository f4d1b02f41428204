package flow

import "sort"

// Loop is one natural loop: head dominates tail, and the CFG has a
// back-edge tail -> head. Body is every block that can reach tail without
// passing through head (plus head itself), sorted ascending for
// determinism.
type Loop struct {
	Head, Tail BlockID
	Body       []BlockID
}

func (l Loop) hasBlock(b BlockID) bool {
	for _, x := range l.Body {
		if x == b {
			return true
		}
	}
	return false
}

// FindNaturalLoops is L5's discovery step: every back-edge tail -> head
// (where head dominates tail) within proc's reachable block set defines one
// loop. Order is discovery order (tails in depth-first order from the
// procedure entry, then each tail's heads in Succ order); use
// SortNaturalLoops to get the nesting-aware order structuring needs.
func FindNaturalLoops(bl *BlockList, proc ProcID) []Loop {
	info := bl.doms[proc]
	if info == nil {
		return nil
	}
	var loops []Loop
	for _, t := range info.blocks {
		for _, h := range bl.Block(t).Succ {
			if _, ok := info.index[h]; !ok {
				continue
			}
			if !bl.Dominates(proc, h, t) {
				continue
			}
			loops = append(loops, Loop{Head: h, Tail: t, Body: loopBody(bl, info, h, t)})
		}
	}
	return loops
}

// loopBody computes {head} union every predecessor of tail reachable in the
// reverse CFG without crossing head.
func loopBody(bl *BlockList, info *domInfo, head, tail BlockID) []BlockID {
	body := map[BlockID]bool{head: true}
	var worklist []BlockID
	if tail != head {
		body[tail] = true
		worklist = append(worklist, tail)
	}
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, p := range predsWithin(bl, n, info.index) {
			if !body[p] {
				body[p] = true
				worklist = append(worklist, p)
			}
		}
	}
	out := make([]BlockID, 0, len(body))
	for b := range body {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortNaturalLoops orders loops inner-first: a loop nested inside another
// (its body a subset of the other's) sorts before it; ties break toward the
// smaller body. This is the order structure_dowhile must fold loops in, so
// that an outer loop sees its inner loops already collapsed to one node.
func SortNaturalLoops(loops []Loop) []Loop {
	sorted := append([]Loop(nil), loops...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if nestedIn(a, b) {
			return true
		}
		if nestedIn(b, a) {
			return false
		}
		return len(a.Body) < len(b.Body)
	})
	return sorted
}

// nestedIn reports whether a's body is a proper subset of b's.
func nestedIn(a, b Loop) bool {
	if len(a.Body) >= len(b.Body) {
		return false
	}
	for _, x := range a.Body {
		if !b.hasBlock(x) {
			return false
		}
	}
	return true
}
