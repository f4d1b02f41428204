package render

// Theme holds the colors used by every DOT renderer in this package.
type Theme struct {
	Background string
	NodeFill   string
	NodeBorder string
	TextColor  string

	EdgeBranch      string // conditional-branch T edge
	EdgeFallthrough string // conditional-branch F edge / unconditional edge
	EdgeCall        string // call-graph edge
	EdgeSpawn       string // spawn-graph edge

	EntryBorder string // highlights a procedure's entry block
	ExitFill    string // highlights the shared exit sentinel
}

// NASA is the NASA/Bauhaus theme: geometric, monochrome, sparse color.
var NASA = Theme{
	Background: "#F5F5F5",
	NodeFill:   "white",
	NodeBorder: "#1A1A1A",
	TextColor:  "#1A1A1A",

	EdgeBranch:      "#0B3D91", // NASA blue
	EdgeFallthrough: "#424242", // dark gray
	EdgeCall:        "#00695C", // teal
	EdgeSpawn:       "#E65100", // deep orange

	EntryBorder: "#0B3D91",
	ExitFill:    "#ECEFF1",
}
