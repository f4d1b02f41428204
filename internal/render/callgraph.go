package render

import (
	"fmt"
	"strings"

	"github.com/zboralski/lattice"

	"unflutter/internal/flow"
)

// buildProcGraph walks every procedure's cross-references in the given
// direction (call graph or spawn graph) into a lattice.Graph, the same
// intermediate shape the teacher's callgraph package builds before handing
// off to a DOT renderer.
func buildProcGraph(bl *flow.BlockList, n int, edgesOf func(*flow.ProcEntry) []flow.XRef) *lattice.Graph {
	g := &lattice.Graph{}
	for pid := 0; pid < n; pid++ {
		g.Nodes = append(g.Nodes, procNodeName(flow.ProcID(pid), bl))
		for _, x := range edgesOf(bl.Proc(flow.ProcID(pid))) {
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: procNodeName(flow.ProcID(pid), bl),
				Callee: procNodeName(x.Proc, bl),
			})
		}
	}
	g.Dedup()
	return g
}

func procNodeName(id flow.ProcID, bl *flow.BlockList) string {
	if name, ok := flow.FindScriptName(bl, id); ok {
		return fmt.Sprintf("proc%d(%s)", id, name)
	}
	return fmt.Sprintf("proc%d[%s]", id, bl.Proc(id).Kind)
}

func graphDOT(name string, g *lattice.Graph, edgeColor string, t Theme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", name)
	b.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=box, style=filled, fillcolor=%q, color=%q, fontname=\"Courier,monospace\", fontsize=9, fontcolor=%q];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	fmt.Fprintf(&b, "  edge [color=%q, arrowsize=0.6];\n\n", edgeColor)

	ids := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		id := fmt.Sprintf("n%d", i)
		ids[n] = id
		fmt.Fprintf(&b, "  %s [label=%q];\n", id, dotEscape(n))
	}
	b.WriteByte('\n')
	for _, e := range g.Edges {
		from, ok1 := ids[e.Caller]
		to, ok2 := ids[e.Callee]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s;\n", from, to)
	}
	b.WriteString("}\n")
	return b.String()
}

// CallGraphDOT renders the whole module's call graph (GOSUB edges) as DOT.
func CallGraphDOT(bl *flow.BlockList, t Theme) string {
	g := buildProcGraph(bl, len(bl.Procs), func(p *flow.ProcEntry) []flow.XRef { return p.CallsInto })
	return graphDOT("callgraph", g, t.EdgeCall, t)
}

// SpawnGraphDOT renders the whole module's spawn graph (START_NEW_SCRIPT /
// LAUNCH_MISSION edges) as DOT.
func SpawnGraphDOT(bl *flow.BlockList, t Theme) string {
	g := buildProcGraph(bl, len(bl.Procs), func(p *flow.ProcEntry) []flow.XRef { return p.SpawnsScript })
	return graphDOT("spawngraph", g, t.EdgeSpawn, t)
}
