package flow

import "unflutter/internal/script"

// site is one call or spawn instruction found while scanning the block
// list, recorded during the discovery pass and resolved to cross-references
// once every procedure's entry is known.
type site struct {
	block  BlockID
	target BlockID
	spawn  bool // false = call (GOSUB), true = script/mission spawn
}

// LinkCallsAndSpawns is L3: it discovers Gosub/Script/Mission procedures
// from call and spawn instructions and records call-graph and spawn-graph
// cross-references in both directions. Must run after LinkEdges.
func LinkCallsAndSpawns(bl *BlockList) error {
	var sites []site

	for bi := bl.NonDummyBlocks.Begin; bi < bl.NonDummyBlocks.End; bi++ {
		last, ok := bl.lastItem(bi)
		if !ok || last.Kind != script.CommandItem {
			continue
		}
		cmd := last.Command
		op := cmd.ID
		commands := bl.commands

		switch {
		case commands.IsCall(op):
			target, ok := commands.LabelOperand(cmd)
			if !ok {
				return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "call has no label operand")
			}
			ref, ok := bl.resolveLabel(bl.Block(bi).Begin, target)
			if !ok {
				return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "call target does not resolve")
			}
			targetBlock, ok := bl.BlockAt(ref)
			if !ok {
				return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "call target is not a known block")
			}
			bl.ensureProc(targetBlock, KindGosub)
			sites = append(sites, site{block: bi, target: targetBlock, spawn: false})

		case commands.IsScriptSpawn(op):
			var targetBlock BlockID
			var kind ProcKind
			if commands.IsMissionSpawn(op) {
				missionID, ok := commands.MissionOperand(cmd)
				if !ok {
					return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "mission spawn has no mission id operand")
				}
				ref, ok := bl.resolveMissionSegment(missionID)
				if !ok {
					return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "mission id does not resolve to a known segment")
				}
				targetBlock, ok = bl.BlockAt(ref)
				if !ok {
					return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "mission segment has no entry block")
				}
				kind = KindMission
			} else {
				target, ok := commands.LabelOperand(cmd)
				if !ok {
					return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "script spawn has no label operand")
				}
				ref, ok := bl.resolveLabel(bl.Block(bi).Begin, target)
				if !ok {
					return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "script spawn target does not resolve")
				}
				targetBlock, ok = bl.BlockAt(ref)
				if !ok {
					return newError(UnresolvedLabel, bl.Block(bi).Begin, last.Offset, "script spawn target is not a known block")
				}
				kind = KindScript
			}
			bl.ensureProc(targetBlock, kind)
			sites = append(sites, site{block: bi, target: targetBlock, spawn: true})
		}
	}

	owner := bl.ownerOfEachBlock()

	for _, s := range sites {
		callerProc, ok := owner[s.block]
		if !ok {
			continue // dead code unreachable from any known procedure entry
		}
		calleeProc, ok := bl.procByEntry(s.target)
		if !ok {
			continue
		}
		caller := bl.Proc(callerProc)
		callee := bl.Proc(calleeProc)
		if s.spawn {
			caller.SpawnsScript = append(caller.SpawnsScript, XRef{FromBlock: s.block, Proc: calleeProc})
			callee.SpawnedFrom = append(callee.SpawnedFrom, XRef{FromBlock: s.block, Proc: callerProc})
		} else {
			caller.CallsInto = append(caller.CallsInto, XRef{FromBlock: s.block, Proc: calleeProc})
			callee.CalledFrom = append(callee.CalledFrom, XRef{FromBlock: s.block, Proc: callerProc})
		}
	}
	return nil
}

// VerifyExitReachability checks, for every procedure, that its exit
// sentinel is reachable from its entry block via intra-procedure Succ
// edges — the MalformedProcedure check from spec.md §7. It must run after
// LinkCallsAndSpawns, since that pass is what discovers Gosub/Script/
// Mission procedures in the first place.
func VerifyExitReachability(bl *BlockList) error {
	for pid := range bl.Procs {
		p := &bl.Procs[pid]
		reached := false
		DepthFirstBlocks(bl, p.EntryBlock, true, func(b BlockID) bool {
			if b == p.ExitBlock {
				reached = true
				return false
			}
			return true
		})
		if !reached {
			return newError(MalformedProcedure, bl.Block(p.EntryBlock).Begin, 0, "no reachable exit sentinel")
		}
	}
	return nil
}

// ensureProc finds the procedure entered at entry, creating one if none
// exists yet, and ORs kind into its Kind bitmask either way — a block may be
// entered more than one way.
func (bl *BlockList) ensureProc(entry BlockID, kind ProcKind) ProcID {
	if id, ok := bl.procByEntry(entry); ok {
		bl.Proc(id).Kind |= kind
		return id
	}
	return bl.newProc(kind, entry)
}

// ownerOfEachBlock assigns every block reachable from some procedure's
// entry (via intra-procedure Succ edges only — calls and spawns are
// deliberately excluded from Succ, so this partitions cleanly) to that
// procedure. Ties among overlapping reachable sets resolve to whichever
// procedure was discovered first (ProcID ascending: Main, then Missions,
// then Gosub/Script/Mission procedures in scan order).
func (bl *BlockList) ownerOfEachBlock() map[BlockID]ProcID {
	owner := make(map[BlockID]ProcID)
	for pid := range bl.Procs {
		id := ProcID(pid)
		entry := bl.Procs[pid].EntryBlock
		DepthFirstBlocks(bl, entry, true, func(b BlockID) bool {
			if _, seen := owner[b]; !seen {
				owner[b] = id
			}
			return true
		})
	}
	return owner
}
