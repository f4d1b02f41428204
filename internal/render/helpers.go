// Package render produces Graphviz DOT output from a flow.BlockList, built
// on github.com/zboralski/lattice the same way the teacher's callgraph
// package converts disassembled functions into lattice graphs before
// rendering.
package render

import "strings"

// dotEscape escapes a string for use in a DOT HTML label.
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// truncLabel shortens a label to maxLen, appending "..." if truncated.
func truncLabel(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
