package flow

import "unflutter/internal/script"

// LinkEdges is L2: it fills predecessor/successor links between blocks
// within each segment, following the table in spec.md §4.2. Cross-procedure
// call/spawn edges are deferred to LinkCallsAndSpawns.
func LinkEdges(bl *BlockList) error {
	for bi := bl.NonDummyBlocks.Begin; bi < bl.NonDummyBlocks.End; bi++ {
		if err := linkBlock(bl, bi); err != nil {
			return err
		}
	}
	return nil
}

func linkBlock(bl *BlockList, bi BlockID) error {
	b := bl.Block(bi)
	last, ok := bl.lastItem(bi)
	if !ok {
		return nil
	}

	fallthroughRef := b.End()
	fallthroughTo := func() (BlockID, bool) {
		return bl.BlockAt(fallthroughRef)
	}

	if last.Kind != script.CommandItem {
		if id, ok := fallthroughTo(); ok {
			addEdge(bl, bi, id)
		}
		return nil
	}

	cmd := last.Command
	op := cmd.ID
	commands := bl.commands

	switch {
	case commands.IsReturn(op) || commands.IsTerminator(op):
		addEdge(bl, bi, bl.segmentExitFor(b.Begin))

	case commands.IsCall(op) || commands.IsScriptSpawn(op):
		if id, ok := fallthroughTo(); ok {
			addEdge(bl, bi, id)
		}

	case commands.IsBranch(op):
		target, ok := commands.LabelOperand(cmd)
		if !ok {
			return newError(UnresolvedLabel, b.Begin, last.Offset, "branch has no label operand")
		}
		ref, ok := bl.resolveLabel(b.Begin, target)
		if ok && ref.Kind == b.Begin.Kind && ref.Index == b.Begin.Index {
			if id, ok := bl.BlockAt(ref); ok {
				addEdge(bl, bi, id)
			}
		}
		if commands.IsConditionalBranch(op) {
			if id, ok := fallthroughTo(); ok {
				addEdge(bl, bi, id)
			}
		}

	default:
		if id, ok := fallthroughTo(); ok {
			addEdge(bl, bi, id)
		}
	}
	return nil
}

// addEdge links from -> to symmetrically, skipping a duplicate if the exact
// pair is already present.
func addEdge(bl *BlockList, from, to BlockID) {
	fb := bl.Block(from)
	for _, s := range fb.Succ {
		if s == to {
			return
		}
	}
	fb.Succ = append(fb.Succ, to)
	tb := bl.Block(to)
	tb.Pred = append(tb.Pred, from)
}
