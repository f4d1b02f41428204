package script

// Well-known opcode ids for the demo scripts and test fixtures in this
// module. Real opcode tables are supplied by the host toolchain; these exist
// only so internal/flow's tests and cmd/flowc have something concrete to
// analyze without depending on a real game's opcode set.
const (
	OpNop = 0x0000

	OpGoto           = 0x0002
	OpGotoIfFalse    = 0x004D
	OpGotoIfTrue     = 0x004E
	OpGosub          = 0x0050
	OpReturn         = 0x0051
	OpGosubFile      = 0x0417
	OpTerminateThis  = 0x004C
	OpTerminateCustom = 0x0566
	OpStartNewScript = 0x0004
	OpLaunchMission  = 0x0573
	OpLoadAndLaunch  = 0x0419
	OpScriptName     = 0x03A4
)

// OpcodeTable is a table-driven Commands oracle: each predicate is a set
// membership test over opcode ids registered at construction time.
type OpcodeTable struct {
	branch        map[uint16]bool
	condBranch    map[uint16]bool
	call          map[uint16]bool
	scriptSpawn   map[uint16]bool
	missionSpawn  map[uint16]bool
	ret           map[uint16]bool
	terminator    map[uint16]bool
	scriptName    map[uint16]bool
	labelArgIndex map[uint16]int // which Args[i] holds the label/mission operand; default 0
}

// NewOpcodeTable returns an empty table; register opcodes with the With*
// methods, which return the receiver for chaining.
func NewOpcodeTable() *OpcodeTable {
	return &OpcodeTable{
		branch:        map[uint16]bool{},
		condBranch:    map[uint16]bool{},
		call:          map[uint16]bool{},
		scriptSpawn:   map[uint16]bool{},
		missionSpawn:  map[uint16]bool{},
		ret:           map[uint16]bool{},
		terminator:    map[uint16]bool{},
		scriptName:    map[uint16]bool{},
		labelArgIndex: map[uint16]int{},
	}
}

func (t *OpcodeTable) WithBranch(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.branch[op] = true
	}
	return t
}

func (t *OpcodeTable) WithConditionalBranch(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.branch[op] = true
		t.condBranch[op] = true
	}
	return t
}

func (t *OpcodeTable) WithCall(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.call[op] = true
	}
	return t
}

func (t *OpcodeTable) WithScriptSpawn(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.scriptSpawn[op] = true
	}
	return t
}

func (t *OpcodeTable) WithMissionSpawn(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.scriptSpawn[op] = true
		t.missionSpawn[op] = true
	}
	return t
}

func (t *OpcodeTable) WithReturn(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.ret[op] = true
	}
	return t
}

func (t *OpcodeTable) WithTerminator(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.terminator[op] = true
	}
	return t
}

func (t *OpcodeTable) WithScriptName(ops ...uint16) *OpcodeTable {
	for _, op := range ops {
		t.scriptName[op] = true
	}
	return t
}

// WithLabelArgIndex overrides which argument position holds the label or
// mission-id operand for op; the default is Args[0].
func (t *OpcodeTable) WithLabelArgIndex(op uint16, index int) *OpcodeTable {
	t.labelArgIndex[op] = index
	return t
}

func (t *OpcodeTable) IsBranch(op uint16) bool            { return t.branch[op] }
func (t *OpcodeTable) IsConditionalBranch(op uint16) bool { return t.condBranch[op] }
func (t *OpcodeTable) IsCall(op uint16) bool              { return t.call[op] }
func (t *OpcodeTable) IsScriptSpawn(op uint16) bool        { return t.scriptSpawn[op] }
func (t *OpcodeTable) IsMissionSpawn(op uint16) bool       { return t.missionSpawn[op] }
func (t *OpcodeTable) IsReturn(op uint16) bool             { return t.ret[op] }
func (t *OpcodeTable) IsTerminator(op uint16) bool         { return t.terminator[op] }
func (t *OpcodeTable) IsScriptName(op uint16) bool         { return t.scriptName[op] }

func (t *OpcodeTable) argAt(c Command) (Arg, bool) {
	idx := t.labelArgIndex[c.ID] // zero value 0 is the common case
	if idx < 0 || idx >= len(c.Args) {
		return Arg{}, false
	}
	return c.Args[idx], true
}

func (t *OpcodeTable) LabelOperand(c Command) (int32, bool) {
	arg, ok := t.argAt(c)
	if !ok {
		return 0, false
	}
	return arg.Int32()
}

func (t *OpcodeTable) MissionOperand(c Command) (int32, bool) {
	arg, ok := t.argAt(c)
	if !ok {
		return 0, false
	}
	return arg.Int32()
}

// DefaultOpcodeTable returns an OpcodeTable pre-registered with the well-known
// opcodes declared above, suitable for tests and the cmd/flowc demo.
func DefaultOpcodeTable() *OpcodeTable {
	return NewOpcodeTable().
		WithBranch(OpGoto, OpGotoIfFalse, OpGotoIfTrue).
		WithConditionalBranch(OpGotoIfFalse, OpGotoIfTrue).
		WithCall(OpGosub, OpGosubFile).
		WithScriptSpawn(OpStartNewScript).
		WithMissionSpawn(OpLaunchMission, OpLoadAndLaunch).
		WithReturn(OpReturn).
		WithTerminator(OpTerminateThis, OpTerminateCustom).
		WithScriptName(OpScriptName)
}
