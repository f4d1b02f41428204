package flow

// DepthFirstBlocks walks the block CFG from start, following Succ when
// forward is true and Pred otherwise. Each block is visited at most once;
// if visit returns false the walk stops early.
func DepthFirstBlocks(bl *BlockList, start BlockID, forward bool, visit func(BlockID) bool) {
	visited := make(map[BlockID]bool)
	var walk func(BlockID) bool
	walk = func(id BlockID) bool {
		if visited[id] {
			return true
		}
		visited[id] = true
		if !visit(id) {
			return false
		}
		next := bl.Block(id).Succ
		if !forward {
			next = bl.Block(id).Pred
		}
		for _, n := range next {
			if !walk(n) {
				return false
			}
		}
		return true
	}
	walk(start)
}

// DepthFirstCalls walks the call graph from start, following CallsInto when
// forward is true and CalledFrom otherwise.
func DepthFirstCalls(bl *BlockList, start ProcID, forward bool, visit func(ProcID) bool) {
	depthFirstProcGraph(bl, start, forward, visit, func(p *ProcEntry, fwd bool) []XRef {
		if fwd {
			return p.CallsInto
		}
		return p.CalledFrom
	})
}

// DepthFirstSpawns walks the spawn graph from start, following SpawnsScript
// when forward is true and SpawnedFrom otherwise.
func DepthFirstSpawns(bl *BlockList, start ProcID, forward bool, visit func(ProcID) bool) {
	depthFirstProcGraph(bl, start, forward, visit, func(p *ProcEntry, fwd bool) []XRef {
		if fwd {
			return p.SpawnsScript
		}
		return p.SpawnedFrom
	})
}

func depthFirstProcGraph(bl *BlockList, start ProcID, forward bool, visit func(ProcID) bool, edges func(*ProcEntry, bool) []XRef) {
	visited := make(map[ProcID]bool)
	var walk func(ProcID) bool
	walk = func(id ProcID) bool {
		if visited[id] {
			return true
		}
		visited[id] = true
		if !visit(id) {
			return false
		}
		for _, x := range edges(bl.Proc(id), forward) {
			if !walk(x.Proc) {
				return false
			}
		}
		return true
	}
	walk(start)
}

// DepthFirstStatements walks a statement tree forward (Succ) only, from
// start. Each node is visited at most once.
func DepthFirstStatements(t *StmtTree, start StmtID, visit func(StmtID) bool) {
	visited := make(map[StmtID]bool)
	var walk func(StmtID) bool
	walk = func(id StmtID) bool {
		if id < 0 || visited[id] {
			return true
		}
		visited[id] = true
		if !visit(id) {
			return false
		}
		for _, n := range t.Nodes[id].Succ {
			if !walk(n) {
				return false
			}
		}
		return true
	}
	walk(start)
}
