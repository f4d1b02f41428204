// Package flow implements the control-flow analysis core: block discovery,
// edge linking, call/spawn graph linking, dominator computation, natural
// loop discovery, and statement-tree structuring, layered L1 through L6
// over the segment-addressed instruction streams handed to it by an
// upstream script.Disassembler.
package flow

import (
	"unflutter/internal/bitset"
	"unflutter/internal/script"
	"unflutter/internal/segref"
)

// BlockID indexes BlockList.Blocks. It is stable for the lifetime of the
// BlockList; blocks are never compacted or renumbered.
type BlockID int

// NoBlock is the sentinel meaning "no block" (e.g. BlockAt finding no block
// that contains a reference).
const NoBlock BlockID = -1

// ProcID indexes BlockList.Procs.
type ProcID int

// NoProc is the sentinel meaning "no procedure".
const NoProc ProcID = -1

// ProcKind is a bitmask: a procedure may be entered more than one way.
type ProcKind uint8

const (
	KindMain ProcKind = 1 << iota
	KindGosub
	KindScript
	KindSubscript
	KindMission
)

func (k ProcKind) Has(bit ProcKind) bool { return k&bit != 0 }

func (k ProcKind) String() string {
	if k == 0 {
		return "none"
	}
	s := ""
	add := func(bit ProcKind, name string) {
		if k.Has(bit) {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add(KindMain, "Main")
	add(KindGosub, "Gosub")
	add(KindScript, "Script")
	add(KindSubscript, "Subscript")
	add(KindMission, "Mission")
	return s
}

// Block is one basic block: a maximal straight-line instruction run with a
// single entry and a single exit, addressed by the segment its instructions
// live in.
type Block struct {
	Begin  segref.Ref
	Length int

	Pred []BlockID
	Succ []BlockID

	Dominators     *bitset.Set // populated by L4, sized to the owning procedure's block count
	PostDominators *bitset.Set
}

// End returns the segment reference one past the block's last instruction.
func (b Block) End() segref.Ref { return b.Begin.Add(uint32(b.Length)) }

// XRef is one cross-procedure reference: the caller/spawner block and the
// peer procedure on the other end of the edge.
type XRef struct {
	FromBlock BlockID
	Proc      ProcID
}

// ProcEntry is one discovered procedure.
type ProcEntry struct {
	Kind       ProcKind
	EntryBlock BlockID
	ExitBlock  BlockID // the entry segment's shared exit sentinel, set when the procedure is created

	CallsInto   []XRef
	CalledFrom  []XRef
	SpawnsScript []XRef
	SpawnedFrom []XRef
}

// BlockRange is a half-open range [Begin, End) of block ids.
type BlockRange struct {
	Begin, End BlockID
}

// Len reports the number of blocks in the range.
func (r BlockRange) Len() int { return int(r.End - r.Begin) }

// segInput is one segment fed to block discovery: its kind, its mission
// index (for mission segments), and its Disassembler. The mission ids live
// in BlockList.missionIDs.
type segInput struct {
	kind segref.Kind
	idx  uint16
	dis  script.Disassembler
}

// BlockList is the single-writer analysis state shared by every pass. It is
// built once by FindBasicBlocks and then enriched in place, pass by pass;
// no pass re-reads or mutates an earlier pass's invariants.
type BlockList struct {
	Blocks []Block
	Procs  []ProcEntry

	NonDummyBlocks BlockRange
	MainBlocks     BlockRange
	MissionBlocks  []BlockRange

	commands script.Commands
	segments []segInput // index 0 is Main; rest are Mission segments in order

	// segmentExit[0] is Main's shared exit sentinel block; segmentExit[1+i]
	// is mission segment i's.
	segmentExit []BlockID

	// missionIDs[i] is the mission id that resolves to segments[i+1] (the
	// i-th mission segment), for LAUNCH_MISSION/LOAD_AND_LAUNCH_MISSION
	// resolution in L3.
	missionIDs []int32

	// doms holds L4's per-procedure dominator/post-dominator bitsets, local
	// to each procedure's own reachable block set (see dominators.go for
	// why this can't simply live on Block when segments share an exit
	// sentinel across procedures).
	doms map[ProcID]*domInfo
}

// Segment returns the Disassembler backing a segment reference's Main or
// Mission portion, or false if seg addresses an exit sentinel or an unknown
// segment index.
func (bl *BlockList) Segment(seg segref.Ref) (script.Disassembler, bool) {
	switch seg.Kind {
	case segref.Main:
		return bl.segments[0].dis, true
	case segref.Mission:
		for _, s := range bl.segments[1:] {
			if s.kind == segref.Mission && s.idx == seg.Index {
				return s.dis, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// Block dereferences id, panicking (in the same way a misused slice index
// would) if id is out of range. BlockID values only ever come from this
// package's own passes, so an out-of-range id is a bug in the caller.
func (bl *BlockList) Block(id BlockID) *Block { return &bl.Blocks[id] }

// Proc dereferences id.
func (bl *BlockList) Proc(id ProcID) *ProcEntry { return &bl.Procs[id] }
