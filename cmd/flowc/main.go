// Command flowc is a demo CLI wiring a script.Fixture through the whole
// control-flow analysis pipeline (L1-L6) and dumping the result as text or
// Graphviz DOT, the same manual os.Args-dispatch shape as the teacher's own
// command-line entry point.
package main

import (
	"fmt"
	"os"

	"unflutter/internal/flow"
	"unflutter/internal/render"
	"unflutter/internal/script"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "flowc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	mode := "text"
	if len(args) > 0 {
		mode = args[0]
	}

	bl, err := buildDemo()
	if err != nil {
		return fmt.Errorf("build demo script: %w", err)
	}

	switch mode {
	case "text":
		return dumpText(bl)
	case "dot-cfg":
		proc := flow.ProcID(0)
		fmt.Print(render.CFGDOT(bl, proc, render.NASA))
		return nil
	case "dot-callgraph":
		fmt.Print(render.CallGraphDOT(bl, render.NASA))
		return nil
	case "dot-spawngraph":
		fmt.Print(render.SpawnGraphDOT(bl, render.NASA))
		return nil
	default:
		return fmt.Errorf("unknown mode %q (want text, dot-cfg, dot-callgraph, or dot-spawngraph)", mode)
	}
}

// buildDemo assembles a small mission-like script exercising every L1-L6
// feature: a GOSUB subroutine, an if-then, a while loop, a spawned child
// script, and a launched mission.
//
//	MAIN:
//	 0: SCRIPT_NAME "demo"
//	 1: GOSUB 12               -> greet
//	 2: GOTO_IF_FALSE 4        (if-then head)
//	 3: NOP                    (then-body)
//	 4: <label merge>          (merge)
//	 5: GOTO_IF_FALSE 8        (while head)
//	 6: NOP                    (loop body)
//	 7: GOTO 5                 (back-edge)
//	 8: <label loopExit>
//	 9: START_NEW_SCRIPT 14    -> child
//	10: LAUNCH_MISSION 1
//	11: TERMINATE_THIS_SCRIPT
//	12: <label greet>
//	13: RETURN
//	14: <label child>
//	15: TERMINATE_THIS_SCRIPT
func buildDemo() (*flow.BlockList, error) {
	f := script.NewFixture()
	f.Cmd(script.OpScriptName, script.Str("demo"))
	f.Cmd(script.OpGosub, script.Int32(12)) // -> greet
	f.Cmd(script.OpGotoIfFalse, script.Int32(4))
	f.Cmd(script.OpNop) // then-body
	merge := f.Label()
	f.Cmd(script.OpGotoIfFalse, script.Int32(8)) // while head
	f.Cmd(script.OpNop)                          // loop body
	f.Cmd(script.OpGoto, script.Int32(int32(merge)+1))
	loopExit := f.Label()
	f.Cmd(script.OpStartNewScript, script.Int32(int32(loopExit)+6)) // -> child
	f.Cmd(script.OpLaunchMission, script.Int32(1))
	f.Cmd(script.OpTerminateThis)
	greet := f.Label()
	f.Cmd(script.OpReturn)
	child := f.Label()
	f.Cmd(script.OpTerminateThis)

	_ = greet
	_ = child

	mission := script.NewFixture()
	mission.Cmd(script.OpTerminateThis)

	commands := script.DefaultOpcodeTable()
	bl, err := flow.FindBasicBlocks(commands, f, []script.Disassembler{mission}, []int32{1})
	if err != nil {
		return nil, fmt.Errorf("FindBasicBlocks: %w", err)
	}
	if err := flow.LinkEdges(bl); err != nil {
		return nil, fmt.Errorf("LinkEdges: %w", err)
	}
	if err := flow.LinkCallsAndSpawns(bl); err != nil {
		return nil, fmt.Errorf("LinkCallsAndSpawns: %w", err)
	}
	if err := flow.VerifyExitReachability(bl); err != nil {
		return nil, fmt.Errorf("VerifyExitReachability: %w", err)
	}
	if err := flow.ComputeDominators(bl); err != nil {
		return nil, fmt.Errorf("ComputeDominators: %w", err)
	}
	return bl, nil
}

func dumpText(bl *flow.BlockList) error {
	fmt.Printf("%d blocks, %d procedures\n\n", len(bl.Blocks), len(bl.Procs))
	for pid := range bl.Procs {
		p := bl.Proc(flow.ProcID(pid))
		name, _ := flow.FindScriptName(bl, flow.ProcID(pid))
		fmt.Printf("proc %d %s kind=%s entry=%d name=%q\n", pid, p.Kind, p.Kind, p.EntryBlock, name)

		tree, err := flow.BuildStatements(bl, flow.ProcID(pid))
		if err != nil {
			return fmt.Errorf("BuildStatements(proc %d): %w", pid, err)
		}
		dumpStmt(tree, tree.Entry, 1, map[flow.StmtID]bool{})
	}
	return nil
}

// dumpStmt prints id and what hangs off it; onPath holds the nodes being
// printed above it, so a loop tail's Succ edge back to its head is not
// followed again.
func dumpStmt(tree *flow.StmtTree, id flow.StmtID, depth int, onPath map[flow.StmtID]bool) {
	if id == flow.NoStmt || onPath[id] {
		return
	}
	onPath[id] = true
	defer delete(onPath, id)
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	n := tree.Nodes[id]
	switch n.Kind {
	case flow.BlockStmt:
		fmt.Printf("%sblock %d [%d,%d)\n", indent, n.Block, n.BlockFrom, n.BlockUntil)
	case flow.WhileStmt:
		fmt.Printf("%swhile:\n", indent)
		dumpStmt(tree, n.LoopHead, depth+1, onPath)
	case flow.IfStmt:
		fmt.Printf("%sif:\n", indent)
		dumpStmt(tree, n.Cond, depth+1, onPath)
		fmt.Printf("%sthen:\n", indent)
		dumpStmt(tree, n.Then, depth+1, onPath)
	case flow.IfElseStmt:
		fmt.Printf("%sif:\n", indent)
		dumpStmt(tree, n.Cond, depth+1, onPath)
		fmt.Printf("%sthen:\n", indent)
		dumpStmt(tree, n.Then, depth+1, onPath)
		fmt.Printf("%selse:\n", indent)
		dumpStmt(tree, n.Else, depth+1, onPath)
	case flow.BreakStmt:
		fmt.Printf("%sbreak\n", indent)
	}
	for _, s := range n.Succ {
		dumpStmt(tree, s, depth, onPath)
	}
}
