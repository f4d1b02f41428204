package flow

import (
	"sort"

	"unflutter/internal/script"
	"unflutter/internal/segref"
)

// FindBasicBlocks is L1: it cuts the main segment and every mission segment
// into basic blocks and seeds the Main and Mission procedure entries.
// missionIDs[i] is the mission id that resolves to missions[i], used later
// by L3 to link LAUNCH_MISSION/LOAD_AND_LAUNCH_MISSION spawn edges; the two
// slices must be the same length.
func FindBasicBlocks(commands script.Commands, main script.Disassembler, missions []script.Disassembler, missionIDs []int32) (*BlockList, error) {
	assertf(len(missions) == len(missionIDs), "FindBasicBlocks: %d missions but %d mission ids", len(missions), len(missionIDs))

	bl := &BlockList{commands: commands}
	bl.segments = append(bl.segments, segInput{kind: segref.Main, dis: main})
	for i, m := range missions {
		bl.segments = append(bl.segments, segInput{kind: segref.Mission, idx: uint16(i), dis: m})
	}
	n := len(missions)
	if len(missionIDs) < n {
		n = len(missionIDs)
	}
	bl.missionIDs = append([]int32(nil), missionIDs[:n]...)

	for segIdx, seg := range bl.segments {
		var index uint16
		if seg.kind == segref.Mission {
			index = seg.idx
		}
		blocks, err := cutSegment(bl, commands, seg.kind, index, seg.dis)
		if err != nil {
			return nil, err
		}
		start := BlockID(len(bl.Blocks))
		bl.Blocks = append(bl.Blocks, blocks...)
		end := BlockID(len(bl.Blocks))
		if segIdx == 0 {
			bl.MainBlocks = BlockRange{start, end}
		} else {
			bl.MissionBlocks = append(bl.MissionBlocks, BlockRange{start, end})
		}
	}
	bl.NonDummyBlocks = BlockRange{0, BlockID(len(bl.Blocks))}

	// One shared exit sentinel per segment, appended after every segment's
	// non-dummy blocks so NonDummyBlocks stays a single contiguous prefix.
	// Every procedure rooted in a segment (the seeded Main/Mission procedure
	// plus any Gosub/Script/Subscript procedure L3 later discovers there)
	// points at the same sentinel; spec.md explicitly allows sharing
	// sentinels within a segment.
	bl.segmentExit = make([]BlockID, len(bl.segments))
	for i := range bl.segments {
		bl.segmentExit[i] = BlockID(len(bl.Blocks))
		bl.Blocks = append(bl.Blocks, Block{Begin: segref.Exit})
	}

	bl.newProc(KindMain, bl.MainBlocks.Begin)
	for _, r := range bl.MissionBlocks {
		bl.newProc(KindMission, r.Begin)
	}
	return bl, nil
}

// segmentExitFor returns the shared exit sentinel for the segment ref
// addresses.
func (bl *BlockList) segmentExitFor(ref segref.Ref) BlockID {
	switch ref.Kind {
	case segref.Main:
		return bl.segmentExit[0]
	case segref.Mission:
		return bl.segmentExit[1+int(ref.Index)]
	default:
		return NoBlock
	}
}

// cutSegment runs the classical three-pass leader algorithm over one
// segment's instruction stream: collect leaders, partition at them, and
// return the resulting blocks (relative to this segment only; the caller
// appends them to the shared list).
func cutSegment(bl *BlockList, commands script.Commands, kind segref.Kind, index uint16, dis script.Disassembler) ([]Block, error) {
	data := dis.Data()
	if len(data) == 0 {
		return nil, nil
	}

	leaders := map[int]bool{0: true}
	for i, it := range data {
		if it.Kind != script.CommandItem {
			continue
		}
		cmd := it.Command
		op := cmd.ID

		cutsAfter := commands.IsBranch(op) || commands.IsReturn(op) ||
			commands.IsTerminator(op) || commands.IsCall(op) || commands.IsScriptSpawn(op)
		if cutsAfter && i+1 < len(data) {
			leaders[i+1] = true
		}

		// A branch target, a GOSUB target, or a label-resolved script spawn
		// target (START_NEW_SCRIPT) must start its own block: branches are
		// cut here directly, while call/spawn targets are what become
		// Gosub/Script procedure entries in L3. LAUNCH_MISSION-style spawns
		// resolve via a mission id, not a label, so they don't cut anything
		// here — their target lives in a different segment entirely.
		labelResolvable := commands.IsBranch(op) || commands.IsCall(op) ||
			(commands.IsScriptSpawn(op) && !commands.IsMissionSpawn(op))
		if !labelResolvable {
			continue
		}
		target, ok := commands.LabelOperand(cmd)
		if !ok {
			if commands.IsBranch(op) {
				return nil, newError(UnresolvedLabel, segref.Ref{Kind: kind, Index: index, Data: uint32(i)}, it.Offset, "branch has no label operand")
			}
			continue
		}
		ref, ok := bl.resolveLabel(segref.Ref{Kind: kind, Index: index}, target)
		if !ok {
			if commands.IsBranch(op) {
				return nil, newError(UnresolvedLabel, segref.Ref{Kind: kind, Index: index, Data: uint32(i)}, it.Offset, "branch target does not resolve")
			}
			continue
		}
		if ref.Kind == kind && ref.Index == index {
			leaders[int(ref.Data)] = true
		}
		// A target outside this segment does not cut it here; L3 resolves
		// the target again when it links cross-procedure edges.
	}

	sorted := make([]int, 0, len(leaders))
	for idx := range leaders {
		sorted = append(sorted, idx)
	}
	sort.Ints(sorted)

	blocks := make([]Block, len(sorted))
	for i, start := range sorted {
		end := len(data)
		if i+1 < len(sorted) {
			end = sorted[i+1]
		}
		blocks[i] = Block{
			Begin:  segref.Ref{Kind: kind, Index: index, Data: uint32(start)},
			Length: end - start,
		}
	}
	return blocks, nil
}

// resolveLabel resolves a label operand extracted from an instruction in
// fromSeg to a segment reference. A non-negative target is a local offset
// within fromSeg itself; a negative target is an offset into the main
// segment (-target), matching the disassembler's convention for
// subroutines shared across mission segments.
func (bl *BlockList) resolveLabel(fromSeg segref.Ref, target int32) (segref.Ref, bool) {
	if target >= 0 {
		dis, ok := bl.Segment(fromSeg)
		if !ok {
			return segref.Ref{}, false
		}
		idx, ok := dis.DataIndex(target)
		if !ok {
			return segref.Ref{}, false
		}
		return segref.Ref{Kind: fromSeg.Kind, Index: fromSeg.Index, Data: uint32(idx)}, true
	}
	mainDis := bl.segments[0].dis
	idx, ok := mainDis.DataIndex(-target)
	if !ok {
		return segref.Ref{}, false
	}
	return segref.Ref{Kind: segref.Main, Data: uint32(idx)}, true
}

// resolveMissionSegment resolves a LAUNCH_MISSION/LOAD_AND_LAUNCH_MISSION
// mission id to the entry reference of the mission segment it denotes.
func (bl *BlockList) resolveMissionSegment(missionID int32) (segref.Ref, bool) {
	for i, id := range bl.missionIDs {
		if id == missionID {
			return segref.Ref{Kind: segref.Mission, Index: uint16(i), Data: 0}, true
		}
	}
	return segref.Ref{}, false
}

func (bl *BlockList) blockRangeFor(kind segref.Kind, index uint16) (BlockRange, bool) {
	switch kind {
	case segref.Main:
		return bl.MainBlocks, true
	case segref.Mission:
		if int(index) < len(bl.MissionBlocks) {
			return bl.MissionBlocks[index], true
		}
		return BlockRange{}, false
	default:
		return BlockRange{}, false
	}
}

// BlockAt finds the block whose instruction range contains ref. Blocks
// within a segment's range are sorted by begin, so this is a binary search.
func (bl *BlockList) BlockAt(ref segref.Ref) (BlockID, bool) {
	r, ok := bl.blockRangeFor(ref.Kind, ref.Index)
	if !ok {
		return NoBlock, false
	}
	lo, hi := int(r.Begin), int(r.End)
	for lo < hi {
		mid := (lo + hi) / 2
		b := &bl.Blocks[mid]
		switch {
		case ref.Data < b.Begin.Data:
			hi = mid
		case ref.Data >= b.Begin.Data+uint32(b.Length):
			lo = mid + 1
		default:
			return BlockID(mid), true
		}
	}
	return NoBlock, false
}

// newProc appends a fresh procedure entry rooted at entry, pointed at the
// shared exit sentinel of entry's segment, and returns its id.
func (bl *BlockList) newProc(kind ProcKind, entry BlockID) ProcID {
	id := ProcID(len(bl.Procs))
	bl.Procs = append(bl.Procs, ProcEntry{
		Kind:       kind,
		EntryBlock: entry,
		ExitBlock:  bl.segmentExitFor(bl.Block(entry).Begin),
	})
	return id
}

// lastItem returns the final decompiled item of block bi, if the block is
// non-empty and its segment resolves.
func (bl *BlockList) lastItem(bi BlockID) (script.Item, bool) {
	b := bl.Block(bi)
	if b.Length == 0 {
		return script.Item{}, false
	}
	dis, ok := bl.Segment(b.Begin)
	if !ok {
		return script.Item{}, false
	}
	data := dis.Data()
	idx := int(b.Begin.Data) + b.Length - 1
	if idx < 0 || idx >= len(data) {
		return script.Item{}, false
	}
	return data[idx], true
}

// procByEntry returns the procedure whose EntryBlock is entry, if any.
func (bl *BlockList) procByEntry(entry BlockID) (ProcID, bool) {
	for i, p := range bl.Procs {
		if p.EntryBlock == entry {
			return ProcID(i), true
		}
	}
	return NoProc, false
}
