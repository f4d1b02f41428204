package flow

import (
	"testing"

	"unflutter/internal/script"
)

// whileFixture builds:
//
//	0: GOTO_IF_FALSE 3   (head)
//	1: NOP               (body)
//	2: GOTO 0             (tail, back-edge)
//	3: <label>            (exit)
//	4: TERMINATE_THIS
func whileFixture() *script.Fixture {
	f := script.NewFixture()
	f.Cmd(script.OpGotoIfFalse, script.Int32(3))
	f.Cmd(script.OpNop)
	f.Cmd(script.OpGoto, script.Int32(0))
	f.Label()
	f.Cmd(script.OpTerminateThis)
	return f
}

func TestFindNaturalLoopsDetectsBackEdge(t *testing.T) {
	bl := buildFull(t, whileFixture())
	loops := FindNaturalLoops(bl, 0)
	if len(loops) != 1 {
		t.Fatalf("loops = %d, want 1", len(loops))
	}
	head := bl.Proc(0).EntryBlock
	if loops[0].Head != head {
		t.Errorf("loop head = %d, want entry block %d", loops[0].Head, head)
	}
	if len(loops[0].Body) != 2 {
		t.Errorf("loop body = %v, want 2 blocks (head, tail)", loops[0].Body)
	}
}

func TestSortNaturalLoopsInnerFirst(t *testing.T) {
	outer := Loop{Head: 0, Tail: 3, Body: []BlockID{0, 1, 2, 3}}
	inner := Loop{Head: 1, Tail: 2, Body: []BlockID{1, 2}}
	sorted := SortNaturalLoops([]Loop{outer, inner})
	if sorted[0].Head != inner.Head || sorted[1].Head != outer.Head {
		t.Errorf("sorted = %+v, want inner loop before outer", sorted)
	}
}

func TestNestedInRequiresProperSubset(t *testing.T) {
	a := Loop{Body: []BlockID{1, 2}}
	b := Loop{Body: []BlockID{1, 2}}
	if nestedIn(a, b) {
		t.Error("equal bodies should not count as nested (not a proper subset)")
	}
	c := Loop{Body: []BlockID{1, 2, 3}}
	if !nestedIn(a, c) {
		t.Error("a's body is a proper subset of c's, should be nested")
	}
}
