package flow

import (
	"testing"

	"unflutter/internal/script"
)

func straightLine() *script.Fixture {
	f := script.NewFixture()
	f.Cmd(script.OpNop)
	f.Cmd(script.OpNop)
	f.Cmd(script.OpTerminateThis)
	return f
}

func buildMain(t *testing.T, f *script.Fixture) *BlockList {
	t.Helper()
	bl, err := FindBasicBlocks(script.DefaultOpcodeTable(), f, nil, nil)
	if err != nil {
		t.Fatalf("FindBasicBlocks: %v", err)
	}
	return bl
}

func TestFindBasicBlocksStraightLine(t *testing.T) {
	// NOP, NOP, TERMINATE_THIS -> no branch targets, one block.
	bl := buildMain(t, straightLine())
	if bl.NonDummyBlocks.Len() != 1 {
		t.Fatalf("non-dummy blocks = %d, want 1", bl.NonDummyBlocks.Len())
	}
	b := bl.Block(bl.NonDummyBlocks.Begin)
	if b.Length != 3 {
		t.Errorf("block length = %d, want 3", b.Length)
	}
	// One segment (Main) -> exactly one exit sentinel appended after it.
	if len(bl.Blocks) != 2 {
		t.Errorf("total blocks = %d, want 2 (1 real + 1 sentinel)", len(bl.Blocks))
	}
}

func TestFindBasicBlocksIfThen(t *testing.T) {
	// 0: GOTO_IF_FALSE 2   (skip the then-body)
	// 1: NOP               (then-body)
	// 2: <label>           (merge point)
	// 3: TERMINATE_THIS
	f := script.NewFixture()
	f.Cmd(script.OpGotoIfFalse, script.Int32(2))
	f.Cmd(script.OpNop)
	f.Label()
	f.Cmd(script.OpTerminateThis)

	bl := buildMain(t, f)
	if bl.NonDummyBlocks.Len() != 3 {
		t.Fatalf("non-dummy blocks = %d, want 3 ([0,1), [1,2), [2,4))", bl.NonDummyBlocks.Len())
	}

	b0 := bl.Block(bl.NonDummyBlocks.Begin)
	if b0.Length != 1 {
		t.Errorf("block 0 length = %d, want 1", b0.Length)
	}
}

func TestFindBasicBlocksUnresolvedBranchFails(t *testing.T) {
	f := script.NewFixture()
	f.Cmd(script.OpGoto, script.Int32(999)) // offset never defined
	if _, err := FindBasicBlocks(script.DefaultOpcodeTable(), f, nil, nil); err == nil {
		t.Fatal("expected an unresolved-label error")
	} else if fe, ok := err.(*Error); !ok || fe.Kind != UnresolvedLabel {
		t.Errorf("err = %v, want UnresolvedLabel", err)
	}
}

func TestBlockAtBinarySearch(t *testing.T) {
	bl := buildMain(t, straightLine())
	id, ok := bl.BlockAt(bl.Block(bl.NonDummyBlocks.Begin).Begin)
	if !ok || id != bl.NonDummyBlocks.Begin {
		t.Errorf("BlockAt(begin) = (%d, %v), want (%d, true)", id, ok, bl.NonDummyBlocks.Begin)
	}
}

func TestNonDummyBlocksPartitionIsContiguousAndSorted(t *testing.T) {
	// Partition invariant: non-dummy blocks are a gapless, ascending cover of
	// their segment's instruction indices.
	f := script.NewFixture()
	f.Cmd(script.OpGotoIfFalse, script.Int32(3))
	f.Cmd(script.OpNop)
	f.Cmd(script.OpGoto, script.Int32(0))
	f.Label()
	f.Cmd(script.OpTerminateThis)
	bl := buildMain(t, f)

	want := int32(0)
	for i := bl.NonDummyBlocks.Begin; i < bl.NonDummyBlocks.End; i++ {
		b := bl.Block(i)
		if int32(b.Begin.Data) != want {
			t.Fatalf("block %d begins at %d, want %d", i, b.Begin.Data, want)
		}
		want += int32(b.Length)
	}
}
