/*
Package structure classifies a code fragment's control/data-flow shape
into a labeled algorithmic pattern.

The classifier is deliberately rule-based: each pattern label carries a
feature signature, signatures are scored independently against the
fragment's extracted features, and the best score wins subject to a
minimum confidence threshold. The labels and thresholds are the
explanation; there is no learned component.
*/
package structure

// NodeKind identifies one structural element supplied by the external
// parser.
type NodeKind string

const (
	NodeLoop   NodeKind = "loop"
	NodeBranch NodeKind = "branch"
	NodeCall   NodeKind = "call"
	NodeAssign NodeKind = "assign"
	NodeReturn NodeKind = "return"
	NodeBlock  NodeKind = "block"
)

// Node is one element of the fragment's structural tree.
type Node struct {
	Kind NodeKind `json:"kind"`

	// Detail carries the human-readable piece the renderer needs: loop
	// target, branch condition, called name, or assigned variable.
	Detail string `json:"detail,omitempty"`

	// Accumulates marks an assignment that folds into a running value
	// (sum += x and friends).
	Accumulates bool `json:"accumulates,omitempty"`

	// Recursive marks a call back into the enclosing function.
	Recursive bool `json:"recursive,omitempty"`

	// Partition marks logic that splits the input into parts (slice
	// halving, pivoting).
	Partition bool `json:"partition,omitempty"`

	Children []Node `json:"children,omitempty"`
}

// Fragment is the selected source text plus its parsed structural shape.
type Fragment struct {
	Source string `json:"source"`
	Nodes  []Node `json:"nodes"`
}

// features is the flattened shape the signatures score against.
type features struct {
	loopCount      int
	maxLoopDepth   int
	branchCount    int
	branchInLoop   bool
	callCount      int
	assignCount    int
	hasAccumulator bool
	hasRecursion   bool
	hasPartition   bool
}

// extract walks the fragment tree once and accumulates features.
// Unrecognized node kinds contribute nothing, so unsupported structure
// degrades instead of failing.
func extract(frag Fragment) features {
	var f features
	walk(frag.Nodes, 0, false, &f)
	return f
}

func walk(nodes []Node, loopDepth int, inLoop bool, f *features) {
	for _, n := range nodes {
		if n.Partition {
			f.hasPartition = true
		}
		switch n.Kind {
		case NodeLoop:
			f.loopCount++
			depth := loopDepth + 1
			if depth > f.maxLoopDepth {
				f.maxLoopDepth = depth
			}
			walk(n.Children, depth, true, f)
			continue
		case NodeBranch:
			f.branchCount++
			if inLoop {
				f.branchInLoop = true
			}
		case NodeCall:
			f.callCount++
			if n.Recursive {
				f.hasRecursion = true
			}
		case NodeAssign:
			f.assignCount++
			if n.Accumulates {
				f.hasAccumulator = true
			}
		}
		walk(n.Children, loopDepth, inLoop, f)
	}
}

// CalledNames lists every called function name in source order, used by
// the renderer to pull catalog descriptions.
func (frag Fragment) CalledNames() []string {
	var names []string
	var visit func(nodes []Node)
	visit = func(nodes []Node) {
		for _, n := range nodes {
			if n.Kind == NodeCall && n.Detail != "" {
				names = append(names, n.Detail)
			}
			visit(n.Children)
		}
	}
	visit(frag.Nodes)
	return names
}
