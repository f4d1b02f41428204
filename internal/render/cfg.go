package render

import (
	"fmt"
	"strings"

	"unflutter/internal/flow"
	"unflutter/internal/script"
	"unflutter/internal/segref"
)

// CFGDOT renders one procedure's basic-block graph as DOT. Each block is a
// node listing its instructions; conditional-branch edges are colored by
// which arm they are (the [target, fallthrough] convention L2 produces).
func CFGDOT(bl *flow.BlockList, proc flow.ProcID, t Theme) string {
	p := bl.Proc(proc)

	var order []flow.BlockID
	flow.DepthFirstBlocks(bl, p.EntryBlock, true, func(id flow.BlockID) bool {
		order = append(order, id)
		return true
	})
	if len(order) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph proc%d {\n", proc)
	b.WriteString("  rankdir=TB;\n  nodesep=0.3;\n  ranksep=0.4;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=rect, style=filled, fillcolor=%q, color=%q, penwidth=0.5, fontname=\"Courier,monospace\", fontsize=8, fontcolor=%q, margin=\"0.08,0.04\"];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	b.WriteString("  edge [penwidth=0.7, arrowsize=0.5, arrowhead=vee];\n\n")

	nodeID := func(id flow.BlockID) string { return fmt.Sprintf("bb%d", id) }

	for _, id := range order {
		blk := bl.Block(id)
		label := blockLabel(bl, id)
		attrs := ""
		if id == p.EntryBlock {
			attrs = fmt.Sprintf(", penwidth=1.5, color=%q", t.EntryBorder)
		}
		if id == p.ExitBlock {
			attrs += fmt.Sprintf(", fillcolor=%q", t.ExitFill)
		}
		fmt.Fprintf(&b, "  %s [label=<%s>%s];\n", nodeID(id), label, attrs)
		_ = blk
	}
	b.WriteByte('\n')

	for _, id := range order {
		blk := bl.Block(id)
		conditional := len(blk.Succ) == 2
		for i, s := range blk.Succ {
			switch {
			case conditional && i == 0:
				fmt.Fprintf(&b, "  %s -> %s [color=%q, label=<<font point-size=\"7\" color=\"%s\">T</font>>];\n",
					nodeID(id), nodeID(s), t.EdgeBranch, t.EdgeBranch)
			case conditional && i == 1:
				fmt.Fprintf(&b, "  %s -> %s [color=%q, label=<<font point-size=\"7\" color=\"%s\">F</font>>];\n",
					nodeID(id), nodeID(s), t.EdgeFallthrough, t.EdgeFallthrough)
			default:
				fmt.Fprintf(&b, "  %s -> %s [color=%q];\n", nodeID(id), nodeID(s), t.EdgeFallthrough)
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// blockLabel renders a block's instructions as a DOT HTML label, one line
// per instruction, truncated the same way the teacher's CFGDOT truncates
// long basic blocks.
func blockLabel(bl *flow.BlockList, id flow.BlockID) string {
	blk := bl.Block(id)
	if blk.Begin.Kind == segref.ExitNode {
		return fmt.Sprintf("%s [exit]", blk.Begin)
	}
	dis, ok := bl.Segment(blk.Begin)
	if !ok || blk.Length == 0 {
		return dotEscape(blk.Begin.String())
	}
	data := dis.Data()
	start := int(blk.Begin.Data)
	end := start + blk.Length
	if end > len(data) {
		end = len(data)
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, dotEscape(truncLabel(itemText(data[i]), 60)))
	}
	if len(lines) > 12 {
		kept := append(append([]string{}, lines[:5]...), fmt.Sprintf("... (%d more)", len(lines)-10))
		lines = append(kept, lines[len(lines)-5:]...)
	}
	return strings.Join(lines, "<br align=\"left\"/>") + "<br align=\"left\"/>"
}

func itemText(it script.Item) string {
	switch it.Kind {
	case script.LabelDef:
		return fmt.Sprintf("%d: label", it.Offset)
	case script.HexItem:
		return fmt.Sprintf("%d: <%d raw bytes>", it.Offset, len(it.Hex))
	default:
		args := make([]string, len(it.Command.Args))
		for i, a := range it.Command.Args {
			args[i] = argText(a)
		}
		not := ""
		if it.Command.Not {
			not = "!"
		}
		return fmt.Sprintf("%d: %sop(0x%04x) %s", it.Offset, not, it.Command.ID, strings.Join(args, ", "))
	}
}

func argText(a script.Arg) string {
	if s, ok := a.Str(); ok {
		return fmt.Sprintf("%q", s)
	}
	if v, ok := a.Int32(); ok {
		return fmt.Sprintf("%d", v)
	}
	return "?"
}
