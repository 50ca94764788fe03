package structure

// Label is one of the closed set of algorithmic pattern categories.
type Label string

const (
	LabelLinearScan       Label = "linear-scan"
	LabelAccumulatorLoop  Label = "accumulator-loop"
	LabelNestedIteration  Label = "nested-iteration"
	LabelDivideAndConquer Label = "divide-and-conquer"
	LabelFilterScan       Label = "filter-scan"
	LabelUnclassified     Label = "unclassified"
)

// DefaultMinConfidence is the score below which a fragment stays
// unclassified.
const DefaultMinConfidence = 0.55

// Classification is the classifier's total result: exactly one label,
// possibly unclassified, never an error.
type Classification struct {
	Label      Label
	Confidence float64
}

// check is one independently scored expectation within a signature.
type check struct {
	weight float64
	match  func(f features) bool
}

// signature pairs a label with its feature expectations. The signature
// score is the matched weight fraction, in [0,1].
type signature struct {
	label  Label
	checks []check
}

func (sig signature) score(f features) float64 {
	var total, matched float64
	for _, c := range sig.checks {
		total += c.weight
		if c.match(f) {
			matched += c.weight
		}
	}
	if total == 0 {
		return 0
	}
	return matched / total
}

// registry holds every known signature. Order matters only for breaking
// exact score ties, where the earlier signature wins.
var registry = []signature{
	{
		label: LabelAccumulatorLoop,
		checks: []check{
			{1.0, func(f features) bool { return f.loopCount >= 1 }},
			{1.5, func(f features) bool { return f.hasAccumulator }},
			{0.5, func(f features) bool { return f.maxLoopDepth == 1 }},
			{0.5, func(f features) bool { return !f.hasRecursion }},
			{0.5, func(f features) bool { return !f.hasPartition }},
		},
	},
	{
		label: LabelDivideAndConquer,
		checks: []check{
			{1.5, func(f features) bool { return f.hasRecursion }},
			{1.5, func(f features) bool { return f.hasPartition }},
			{0.5, func(f features) bool { return f.branchCount >= 1 }},
			{0.5, func(f features) bool { return !f.hasAccumulator }},
		},
	},
	{
		label: LabelNestedIteration,
		checks: []check{
			{1.5, func(f features) bool { return f.maxLoopDepth >= 2 }},
			{1.0, func(f features) bool { return f.loopCount >= 2 }},
			{0.5, func(f features) bool { return !f.hasRecursion }},
			{0.5, func(f features) bool { return !f.hasPartition }},
		},
	},
	{
		label: LabelFilterScan,
		checks: []check{
			{1.0, func(f features) bool { return f.loopCount >= 1 }},
			{1.5, func(f features) bool { return f.branchInLoop }},
			{0.75, func(f features) bool { return !f.hasAccumulator }},
			{0.5, func(f features) bool { return f.maxLoopDepth == 1 }},
			{0.5, func(f features) bool { return !f.hasRecursion }},
		},
	},
	{
		label: LabelLinearScan,
		checks: []check{
			{1.5, func(f features) bool { return f.loopCount == 1 }},
			{1.0, func(f features) bool { return f.maxLoopDepth == 1 }},
			{0.75, func(f features) bool { return !f.hasAccumulator }},
			{0.75, func(f features) bool { return !f.branchInLoop }},
			{0.5, func(f features) bool { return !f.hasRecursion }},
			{0.5, func(f features) bool { return !f.hasPartition }},
		},
	},
}

// Labels returns the closed label set, unclassified last.
func Labels() []Label {
	out := make([]Label, 0, len(registry)+1)
	for _, sig := range registry {
		out = append(out, sig.label)
	}
	return append(out, LabelUnclassified)
}

// Classifier scores fragments against the signature registry.
type Classifier struct {
	minConfidence float64
}

// NewClassifier builds a classifier with the given confidence threshold.
func NewClassifier(minConfidence float64) *Classifier {
	return &Classifier{minConfidence: minConfidence}
}

// Classify assigns the best-matching label, or unclassified when no
// signature clears the threshold. Total and idempotent: any fragment,
// including an empty one, yields exactly one result.
func (c *Classifier) Classify(frag Fragment) Classification {
	f := extract(frag)

	// A fragment with no structure at all has nothing to match.
	if f.loopCount == 0 && f.branchCount == 0 && f.callCount == 0 && f.assignCount == 0 {
		return Classification{Label: LabelUnclassified, Confidence: 0}
	}

	best := Classification{Label: LabelUnclassified, Confidence: 0}
	for _, sig := range registry {
		if s := sig.score(f); s > best.Confidence {
			best = Classification{Label: sig.label, Confidence: s}
		}
	}

	if best.Confidence < c.minConfidence {
		return Classification{Label: LabelUnclassified, Confidence: best.Confidence}
	}
	return best
}
