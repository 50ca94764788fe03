/*
Package pseudocode turns a classified fragment into human-readable
pseudocode lines and a one-line algorithm summary.

Each pattern label maps to a textual template whose placeholders are
filled from the fragment's structural representation. Unclassified
fragments fall back to a step-numbered line-by-line paraphrase that makes
no algorithm-name claim. Output is deterministic for identical inputs.
*/
package pseudocode

import (
	"fmt"
	"strings"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/structure"
)

// Explanation is the renderer's output: ordered pseudocode lines plus a
// one-line summary for the editor's explanation panel.
type Explanation struct {
	Label   structure.Label `json:"label"`
	Lines   []string        `json:"lines"`
	Summary string          `json:"summary"`
}

// Renderer fills pattern templates using one catalog snapshot for
// function descriptions.
type Renderer struct {
	snap *catalog.Snapshot
}

// NewRenderer binds the renderer to a catalog snapshot. A nil snapshot
// degrades to pattern-based call descriptions only.
func NewRenderer(snap *catalog.Snapshot) *Renderer {
	if snap == nil {
		snap = catalog.EmptySnapshot()
	}
	return &Renderer{snap: snap}
}

// templates maps each label to its pseudocode skeleton. Placeholders are
// {target}, {accumulator} and {condition}; every one of them is replaced
// before the lines leave Render.
var templates = map[structure.Label][]string{
	structure.LabelLinearScan: {
		"For each {target} in the collection:",
		"    process the current {target}",
		"Continue until every element has been visited once",
	},
	structure.LabelAccumulatorLoop: {
		"Initialize the running total '{accumulator}'",
		"For each {target} in the collection:",
		"    update the running total '{accumulator}' with the current element",
		"After the loop, '{accumulator}' holds the combined result",
	},
	structure.LabelNestedIteration: {
		"For each {target} in the outer collection:",
		"    for each element of the inner collection:",
		"        process the current pair",
		"Every combination of outer and inner elements is visited",
	},
	structure.LabelDivideAndConquer: {
		"If the input is small enough, solve it directly ({condition})",
		"Otherwise, split the input into parts",
		"Recursively solve each part",
		"Combine the partial results into the final answer",
	},
	structure.LabelFilterScan: {
		"For each {target} in the collection:",
		"    if {condition}:",
		"        keep (or act on) the current {target}",
		"    otherwise skip it",
	},
}

// summaries maps each label to its one-line description lead.
var summaries = map[structure.Label]string{
	structure.LabelLinearScan:       "Linear scan: visits every element of a collection exactly once",
	structure.LabelAccumulatorLoop:  "Accumulator loop: folds each element into a single running total",
	structure.LabelNestedIteration:  "Nested iteration: examines combinations of elements across two loops",
	structure.LabelDivideAndConquer: "Divide and conquer: splits the input, solves parts recursively, then combines",
	structure.LabelFilterScan:       "Filter scan: selects the elements that satisfy a condition",
}

// Render produces the explanation for a classified fragment.
func (r *Renderer) Render(frag structure.Fragment, cls structure.Classification) Explanation {
	if cls.Label == structure.LabelUnclassified {
		return r.renderGeneric(frag)
	}

	rep := strings.NewReplacer(
		"{target}", firstDetail(frag.Nodes, structure.NodeLoop, "element"),
		"{accumulator}", firstAccumulator(frag.Nodes, "total"),
		"{condition}", firstDetail(frag.Nodes, structure.NodeBranch, "the condition holds"),
	)

	lines := make([]string, 0, len(templates[cls.Label])+4)
	for _, tpl := range templates[cls.Label] {
		lines = append(lines, rep.Replace(tpl))
	}

	// Append what the fragment actually calls, with catalog-backed
	// descriptions where available.
	for _, name := range frag.CalledNames() {
		lines = append(lines, fmt.Sprintf("Uses %s: %s", name, r.describeCall(name)))
	}

	return Explanation{
		Label:   cls.Label,
		Lines:   lines,
		Summary: fmt.Sprintf("%s; %s.", summaries[cls.Label], complexityOf(frag)),
	}
}

// renderGeneric is the unclassified fallback: a step-numbered paraphrase
// of the structural tree with no algorithm-name claim.
func (r *Renderer) renderGeneric(frag structure.Fragment) Explanation {
	g := &genericWalker{renderer: r}
	g.visit(frag.Nodes, 0)

	lines := g.lines
	if len(lines) == 0 {
		lines = []string{"Step 1: No recognizable operations in the selection"}
	}

	return Explanation{
		Label:   structure.LabelUnclassified,
		Lines:   lines,
		Summary: fmt.Sprintf("Sequential operations without a recognized algorithmic pattern; %s.", complexityOf(frag)),
	}
}

type genericWalker struct {
	renderer *Renderer
	lines    []string
	step     int
}

func (g *genericWalker) emit(indent int, text string) {
	g.step++
	g.lines = append(g.lines, fmt.Sprintf("%sStep %d: %s",
		strings.Repeat("    ", indent), g.step, text))
}

func (g *genericWalker) visit(nodes []structure.Node, indent int) {
	for _, n := range nodes {
		switch n.Kind {
		case structure.NodeLoop:
			target := n.Detail
			if target == "" {
				target = "item"
			}
			g.emit(indent, fmt.Sprintf("For each %s in the collection:", target))
			g.visit(n.Children, indent+1)
			continue
		case structure.NodeBranch:
			cond := n.Detail
			if cond == "" {
				cond = "the condition is met"
			}
			g.emit(indent, fmt.Sprintf("If %s:", cond))
		case structure.NodeCall:
			g.emit(indent, g.renderer.describeCall(n.Detail))
		case structure.NodeAssign:
			name := n.Detail
			if name == "" {
				name = "result"
			}
			if n.Accumulates {
				g.emit(indent, fmt.Sprintf("Update the running total '%s'", name))
			} else {
				g.emit(indent, fmt.Sprintf("Store the result in '%s'", name))
			}
		case structure.NodeReturn:
			g.emit(indent, "Return the result")
		default:
			// Blocks and unknown kinds only contribute their children.
		}
		g.visit(n.Children, indent+1)
	}
}

// describeCall resolves a called name against the catalog and uses the
// first sentence of its description; unmatched names get a pattern-based
// paraphrase.
func (r *Renderer) describeCall(name string) string {
	if name == "" {
		return "Call a function"
	}
	if entry, ok := r.snap.Resolve(name); ok && entry.Description != "" {
		return firstSentence(entry.Description)
	}
	return fallbackDescription(name)
}

// fallbackDescription maps well-known name fragments to plain phrases.
func fallbackDescription(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "listdir"):
		return "Get the list of files and directories at a path"
	case strings.Contains(lower, "getcwd"):
		return "Get the current working directory path"
	case strings.Contains(lower, "path.join"):
		return "Combine path components into one path"
	case strings.Contains(lower, "exists"):
		return "Check whether a path exists"
	case strings.Contains(lower, "mkdir"):
		return "Create a directory"
	case strings.Contains(lower, "remove"), strings.Contains(lower, "delete"):
		return "Delete a file or entry"
	case strings.Contains(lower, "walk"):
		return "Traverse a directory tree"
	case strings.Contains(lower, "open"):
		return "Open a file"
	case strings.Contains(lower, "read"):
		return "Read content from a source"
	case strings.Contains(lower, "write"):
		return "Write data to a destination"
	case strings.Contains(lower, "close"):
		return "Close the handle"
	case strings.Contains(lower, "print"):
		return "Display output"
	default:
		return fmt.Sprintf("Call function %s", name)
	}
}

func firstSentence(s string) string {
	if i := strings.IndexByte(s, '.'); i > 0 {
		return s[:i]
	}
	return s
}

// firstDetail finds the first node of a kind carrying a detail string.
func firstDetail(nodes []structure.Node, kind structure.NodeKind, fallback string) string {
	var found string
	var visit func([]structure.Node) bool
	visit = func(ns []structure.Node) bool {
		for _, n := range ns {
			if n.Kind == kind && n.Detail != "" {
				found = n.Detail
				return true
			}
			if visit(n.Children) {
				return true
			}
		}
		return false
	}
	if visit(nodes) {
		return found
	}
	return fallback
}

// firstAccumulator finds the first accumulating assignment's variable.
func firstAccumulator(nodes []structure.Node, fallback string) string {
	var found string
	var visit func([]structure.Node) bool
	visit = func(ns []structure.Node) bool {
		for _, n := range ns {
			if n.Kind == structure.NodeAssign && n.Accumulates && n.Detail != "" {
				found = n.Detail
				return true
			}
			if visit(n.Children) {
				return true
			}
		}
		return false
	}
	if visit(nodes) {
		return found
	}
	return fallback
}

// complexityOf gives the loop-based complexity estimate used in the
// summary line.
func complexityOf(frag structure.Fragment) string {
	loops := 0
	var visit func([]structure.Node)
	visit = func(ns []structure.Node) {
		for _, n := range ns {
			if n.Kind == structure.NodeLoop {
				loops++
			}
			visit(n.Children)
		}
	}
	visit(frag.Nodes)

	if loops > 0 {
		return fmt.Sprintf("roughly O(n) or higher with %d loop(s)", loops)
	}
	return "O(1) with straight-line operations"
}
