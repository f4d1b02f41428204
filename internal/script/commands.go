package script

// Disassembler is the upstream collaborator that produced a decompiled
// pseudo-instruction stream for one code segment.
type Disassembler interface {
	// Data returns the full decompiled instruction vector for this segment.
	Data() []Item
	// DataIndex resolves a label's local offset to an index into Data().
	DataIndex(localOffset int32) (int, bool)
}

// MissionResolver resolves a mission id operand to the Disassembler of that
// mission's code segment, and its segment index.
type MissionResolver interface {
	MissionSegment(missionID int32) (d Disassembler, segIndex uint16, ok bool)
}

// Commands is the command-metadata oracle: for a given opcode id, it answers
// the predicates block discovery and call/spawn linking need.
type Commands interface {
	IsBranch(op uint16) bool
	IsConditionalBranch(op uint16) bool
	IsCall(op uint16) bool          // GOSUB / GOSUB_FILE
	IsScriptSpawn(op uint16) bool   // START_NEW_SCRIPT / LAUNCH_MISSION / LOAD_AND_LAUNCH_MISSION
	IsMissionSpawn(op uint16) bool  // LAUNCH_MISSION / LOAD_AND_LAUNCH_MISSION specifically (resolves via mission id, not label)
	IsReturn(op uint16) bool        // RETURN / RETURN_IF_*
	IsTerminator(op uint16) bool    // TERMINATE_THIS_SCRIPT / TERMINATE_THIS_CUSTOM_SCRIPT
	IsScriptName(op uint16) bool    // SCRIPT_NAME / thread-naming opcode

	// LabelOperand extracts the label target operand of c, if any.
	LabelOperand(c Command) (int32, bool)
	// MissionOperand extracts the mission id operand of c, if any.
	MissionOperand(c Command) (int32, bool)
}
