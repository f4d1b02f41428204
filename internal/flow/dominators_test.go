package flow

import (
	"testing"

	"unflutter/internal/script"
)

func buildFull(t *testing.T, main *script.Fixture) *BlockList {
	t.Helper()
	bl := buildLinkedAndCalled(t, main)
	if err := VerifyExitReachability(bl); err != nil {
		t.Fatalf("VerifyExitReachability: %v", err)
	}
	if err := ComputeDominators(bl); err != nil {
		t.Fatalf("ComputeDominators: %v", err)
	}
	return bl
}

// ifThenFixture builds:
//
//	0: GOTO_IF_FALSE 2   (head)
//	1: NOP               (then-body)
//	2: <label>            (merge)
//	3: TERMINATE_THIS
func ifThenFixture() *script.Fixture {
	f := script.NewFixture()
	f.Cmd(script.OpGotoIfFalse, script.Int32(2))
	f.Cmd(script.OpNop)
	f.Label()
	f.Cmd(script.OpTerminateThis)
	return f
}

func TestComputeDominatorsEntryDominatesEverything(t *testing.T) {
	bl := buildFull(t, ifThenFixture())
	entry := bl.Proc(0).EntryBlock
	for i := bl.NonDummyBlocks.Begin; i < bl.NonDummyBlocks.End; i++ {
		if !bl.Dominates(0, entry, i) {
			t.Errorf("entry should dominate block %d", i)
		}
	}
}

func TestImmediatePostDominatorIsTheMergeBlock(t *testing.T) {
	bl := buildFull(t, ifThenFixture())
	head := bl.Proc(0).EntryBlock
	merge, ok := bl.ImmediatePostDominator(0, head)
	if !ok {
		t.Fatal("ImmediatePostDominator: not found")
	}
	mergeRef := bl.Block(head).Begin.Add(2)
	want, _ := bl.BlockAt(mergeRef)
	if merge != want {
		t.Errorf("ipostdom(head) = %d, want %d (the merge block)", merge, want)
	}
}

func TestExitSentinelPostDominatesEveryBlockInItsProcedure(t *testing.T) {
	bl := buildFull(t, ifThenFixture())
	p := bl.Proc(0)
	for i := bl.NonDummyBlocks.Begin; i < bl.NonDummyBlocks.End; i++ {
		if !bl.PostDominates(0, p.ExitBlock, i) {
			t.Errorf("exit sentinel should post-dominate block %d", i)
		}
	}
}
