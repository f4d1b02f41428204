package script

import "testing"

func TestFixtureAssignsSequentialOffsets(t *testing.T) {
	f := NewFixture()
	f.Cmd(OpNop)
	lbl := f.Label()
	f.Cmd(OpReturn)

	data := f.Data()
	if len(data) != 3 {
		t.Fatalf("len(Data()) = %d, want 3", len(data))
	}
	if data[1].Kind != LabelDef || data[1].Offset != lbl {
		t.Errorf("item 1 = %+v, want label at offset %d", data[1], lbl)
	}
	idx, ok := f.DataIndex(lbl)
	if !ok || idx != 1 {
		t.Errorf("DataIndex(%d) = (%d, %v), want (1, true)", lbl, idx, ok)
	}
}

func TestDataIndexUnknownOffset(t *testing.T) {
	f := NewFixture()
	f.Cmd(OpNop)
	if _, ok := f.DataIndex(99); ok {
		t.Error("DataIndex(99) should fail for an offset never appended")
	}
}

func TestArgInt32Widening(t *testing.T) {
	cases := []struct {
		arg  Arg
		want int32
		ok   bool
	}{
		{Int8(-5), -5, true},
		{Int16(300), 300, true},
		{Int32(70000), 70000, true},
		{Str("hi"), 0, false},
		{EOAL(), 0, false},
	}
	for _, c := range cases {
		got, ok := c.arg.Int32()
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("%+v.Int32() = (%d, %v), want (%d, %v)", c.arg, got, ok, c.want, c.ok)
		}
	}
}

func TestArgStr(t *testing.T) {
	if s, ok := Str("MISSION1").Str(); !ok || s != "MISSION1" {
		t.Errorf("Str round-trip failed: %q, %v", s, ok)
	}
	if _, ok := Int32(1).Str(); ok {
		t.Error("Int32(1).Str() should fail")
	}
}

func TestDefaultOpcodeTablePredicates(t *testing.T) {
	oc := DefaultOpcodeTable()

	if !oc.IsBranch(OpGoto) || oc.IsConditionalBranch(OpGoto) {
		t.Error("OpGoto should be an unconditional branch")
	}
	if !oc.IsBranch(OpGotoIfFalse) || !oc.IsConditionalBranch(OpGotoIfFalse) {
		t.Error("OpGotoIfFalse should be a conditional branch")
	}
	if !oc.IsCall(OpGosub) || !oc.IsCall(OpGosubFile) {
		t.Error("GOSUB/GOSUB_FILE should be calls")
	}
	if !oc.IsScriptSpawn(OpStartNewScript) || oc.IsMissionSpawn(OpStartNewScript) {
		t.Error("START_NEW_SCRIPT should be a script spawn but not a mission spawn")
	}
	if !oc.IsScriptSpawn(OpLaunchMission) || !oc.IsMissionSpawn(OpLaunchMission) {
		t.Error("LAUNCH_MISSION should be both a script spawn and a mission spawn")
	}
	if !oc.IsReturn(OpReturn) {
		t.Error("RETURN should be a return")
	}
	if !oc.IsTerminator(OpTerminateThis) || !oc.IsTerminator(OpTerminateCustom) {
		t.Error("terminators should be flagged")
	}
	if !oc.IsScriptName(OpScriptName) {
		t.Error("SCRIPT_NAME should be flagged")
	}
}

func TestLabelOperandDefaultsToFirstArg(t *testing.T) {
	oc := DefaultOpcodeTable()
	cmd := Command{ID: OpGoto, Args: []Arg{Int32(42)}}
	target, ok := oc.LabelOperand(cmd)
	if !ok || target != 42 {
		t.Errorf("LabelOperand = (%d, %v), want (42, true)", target, ok)
	}
}
