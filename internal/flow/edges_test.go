package flow

import (
	"testing"

	"unflutter/internal/script"
)

func buildAndLink(t *testing.T, f *script.Fixture) *BlockList {
	t.Helper()
	bl := buildMain(t, f)
	if err := LinkEdges(bl); err != nil {
		t.Fatalf("LinkEdges: %v", err)
	}
	return bl
}

func TestLinkEdgesStraightLineFallsThroughToExit(t *testing.T) {
	// TERMINATE_THIS links directly to the segment's exit sentinel.
	bl := buildAndLink(t, straightLine())
	b0 := bl.Block(bl.NonDummyBlocks.Begin)
	if len(b0.Succ) != 1 || b0.Succ[0] != bl.segmentExit[0] {
		t.Fatalf("block 0 succ = %v, want [exit sentinel %d]", b0.Succ, bl.segmentExit[0])
	}
	exit := bl.Block(bl.segmentExit[0])
	if len(exit.Pred) != 1 || exit.Pred[0] != bl.NonDummyBlocks.Begin {
		t.Errorf("exit pred = %v, want [block 0]", exit.Pred)
	}
}

func TestLinkEdgesConditionalBranchOrdersTargetThenFallthrough(t *testing.T) {
	// 0: GOTO_IF_FALSE 2  -> Succ[0] must be the branch target, Succ[1] the
	//    fallthrough, matching the [target, fallthrough] convention L6's
	//    while/if folding relies on.
	// 1: NOP
	// 2: <label>
	// 3: TERMINATE_THIS
	f := script.NewFixture()
	f.Cmd(script.OpGotoIfFalse, script.Int32(2))
	f.Cmd(script.OpNop)
	f.Label()
	f.Cmd(script.OpTerminateThis)
	bl := buildAndLink(t, f)

	head := bl.Block(bl.NonDummyBlocks.Begin)
	if len(head.Succ) != 2 {
		t.Fatalf("head succ count = %d, want 2", len(head.Succ))
	}
	targetBlock, _ := bl.BlockAt(bl.Block(bl.NonDummyBlocks.Begin).Begin.Add(2))
	if head.Succ[0] != targetBlock {
		t.Errorf("head.Succ[0] = %d, want target block %d", head.Succ[0], targetBlock)
	}
}

func TestLinkEdgesUnconditionalBranchHasNoFallthrough(t *testing.T) {
	f := script.NewFixture()
	f.Cmd(script.OpGoto, script.Int32(2))
	f.Cmd(script.OpNop) // dead code: no block branches or falls through to it
	f.Label()
	f.Cmd(script.OpTerminateThis)
	bl := buildAndLink(t, f)

	head := bl.Block(bl.NonDummyBlocks.Begin)
	if len(head.Succ) != 1 {
		t.Fatalf("head succ count = %d, want 1 (unconditional branch)", len(head.Succ))
	}
}

func TestLinkEdgesCallFallsThroughOnly(t *testing.T) {
	// GOSUB doesn't cut an intra-procedure edge to its target; only the
	// fallthrough is linked here. L3 links the call-graph edge separately.
	f := script.NewFixture()
	f.Cmd(script.OpGosub, script.Int32(2))
	f.Cmd(script.OpTerminateThis)
	f.Label()
	f.Cmd(script.OpReturn)
	bl := buildAndLink(t, f)

	head := bl.Block(bl.NonDummyBlocks.Begin)
	if len(head.Succ) != 1 {
		t.Fatalf("call site succ count = %d, want 1 (fallthrough only)", len(head.Succ))
	}
}
