/*
Package markov implements the token-sequence model behind suggestion
ranking.

The model is a discrete Markov chain over token categories. States are
tuples of the last k categories; transition probabilities come from
counting observed transitions in a training corpus with add-one
smoothing. An unseen state backs off to the next lower order, down to the
unconditional unigram distribution, so prediction never returns an empty
result.
*/
package markov

import (
	"fmt"
	"sort"
	"strings"
)

// Category tags an atomic lexical unit.
type Category string

const (
	CategoryIdentifier Category = "identifier"
	CategoryKeyword    Category = "keyword"
	CategoryOperator   Category = "operator"
	CategoryLiteral    Category = "literal"
	CategoryCall       Category = "function-call"
)

// UnknownToken is the reserved symbol carrying the smoothed probability
// mass for tokens never seen in training.
const UnknownToken = "<unknown>"

// stateSep joins category tuples into map keys. Unit separator cannot
// appear in a category name.
const stateSep = "\x1f"

// Token is an atomic lexical unit produced by the external tokenizer.
// For function-call tokens, Text holds the called name.
type Token struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Window is the bounded token history preceding the cursor, oldest first.
type Window []Token

// Prediction pairs a candidate token with its probability.
type Prediction struct {
	Token       string
	Probability float64
}

// layer holds transition counts for one conditioning order.
type layer struct {
	order       int
	transitions map[string]map[string]int
	totals      map[string]int
}

func newLayer(order int) *layer {
	return &layer{
		order:       order,
		transitions: make(map[string]map[string]int),
		totals:      make(map[string]int),
	}
}

func (l *layer) observe(state, next string) {
	m, ok := l.transitions[state]
	if !ok {
		m = make(map[string]int)
		l.transitions[state] = m
	}
	m[next]++
	l.totals[state]++
}

// distribution returns the add-one smoothed distribution for a state over
// the given alphabet, plus the unknown bucket. Returns false when the
// state was never observed at this order.
func (l *layer) distribution(state string, alphabet []string) ([]Prediction, bool) {
	total, seen := l.totals[state]
	if !seen || total == 0 {
		return nil, false
	}
	counts := l.transitions[state]

	// Denominator: every alphabet symbol gets +1, and one extra unit of
	// mass is reserved for the unknown bucket. The result sums to 1.
	denom := float64(total + len(alphabet) + 1)

	preds := make([]Prediction, 0, len(alphabet)+1)
	for _, sym := range alphabet {
		preds = append(preds, Prediction{
			Token:       sym,
			Probability: float64(counts[sym]+1) / denom,
		})
	}
	preds = append(preds, Prediction{Token: UnknownToken, Probability: 1 / denom})

	sortPredictions(preds)
	return preds, true
}

// Model is the frozen-after-training token-sequence model. The backoff
// chain is materialized as an ordered list of layers, highest order
// first, ending at the unigram layer (order 0).
type Model struct {
	order    int
	layers   []*layer
	names    map[string]map[string]int
	nameTot  map[string]int
	alphabet map[string]struct{}
	frozen   bool
}

// NewModel creates an untrained model of the given top order (1-4).
func NewModel(order int) (*Model, error) {
	if order < 1 || order > 4 {
		return nil, fmt.Errorf("markov: order %d out of range [1,4]", order)
	}
	layers := make([]*layer, 0, order+1)
	for o := order; o >= 0; o-- {
		layers = append(layers, newLayer(o))
	}
	return &Model{
		order:    order,
		layers:   layers,
		names:    make(map[string]map[string]int),
		nameTot:  make(map[string]int),
		alphabet: make(map[string]struct{}),
	}, nil
}

// Order returns the top conditioning order.
func (m *Model) Order() int {
	return m.order
}

// Observe feeds one training sequence into every layer. Function-call
// tokens additionally record their name against the current state, which
// feeds the per-function predictions used by the ranker.
func (m *Model) Observe(seq []Token) error {
	if m.frozen {
		return fmt.Errorf("markov: model is frozen")
	}

	cats := make([]string, len(seq))
	for i, t := range seq {
		cats[i] = string(t.Category)
		m.alphabet[string(t.Category)] = struct{}{}
	}

	for i := range seq {
		for _, l := range m.layers {
			if i < l.order {
				continue
			}
			state := strings.Join(cats[i-l.order:i], stateSep)
			l.observe(state, cats[i])
		}
		if seq[i].Category == CategoryCall && seq[i].Text != "" {
			state := m.stateKey(cats[:i])
			nm, ok := m.names[state]
			if !ok {
				nm = make(map[string]int)
				m.names[state] = nm
			}
			nm[seq[i].Text]++
			m.nameTot[state]++
		}
	}
	return nil
}

// Freeze marks training complete. Further Observe calls fail.
func (m *Model) Freeze() {
	m.frozen = true
}

// Frozen reports whether the model accepts more training data.
func (m *Model) Frozen() bool {
	return m.frozen
}

// stateKey builds the top-order state key from a category sequence,
// truncating to the last Order() items.
func (m *Model) stateKey(cats []string) string {
	if len(cats) > m.order {
		cats = cats[len(cats)-m.order:]
	}
	return strings.Join(cats, stateSep)
}

// Predict returns the next-token-category distribution for the window.
// The backoff chain is queried in order until a layer knows the state;
// the unigram layer answers whenever any training data exists. A model
// with no training data at all yields the unknown bucket alone, never an
// empty result.
func (m *Model) Predict(w Window) []Prediction {
	cats := make([]string, 0, len(w))
	for _, t := range w {
		cats = append(cats, string(t.Category))
	}

	alphabet := m.sortedAlphabet()

	for _, l := range m.layers {
		var state string
		if l.order > 0 {
			if len(cats) < l.order {
				continue
			}
			state = strings.Join(cats[len(cats)-l.order:], stateSep)
		}
		if preds, ok := l.distribution(state, alphabet); ok {
			return preds
		}
	}

	return []Prediction{{Token: UnknownToken, Probability: 1}}
}

// PredictNames returns the probability of specific function names
// historically observed in the window's state. Backoff here walks
// progressively shorter suffixes of the state; an empty result means no
// name was ever seen nearby and the ranker relies on similarity alone.
func (m *Model) PredictNames(w Window) []Prediction {
	cats := make([]string, 0, len(w))
	for _, t := range w {
		cats = append(cats, string(t.Category))
	}
	if len(cats) > m.order {
		cats = cats[len(cats)-m.order:]
	}

	for lo := 0; lo <= len(cats); lo++ {
		state := strings.Join(cats[lo:], stateSep)
		total := m.nameTot[state]
		if total == 0 {
			continue
		}
		counts := m.names[state]
		denom := float64(total + len(counts) + 1)
		preds := make([]Prediction, 0, len(counts))
		for name, c := range counts {
			preds = append(preds, Prediction{
				Token:       name,
				Probability: float64(c+1) / denom,
			})
		}
		sortPredictions(preds)
		return preds
	}
	return nil
}

func (m *Model) sortedAlphabet() []string {
	out := make([]string, 0, len(m.alphabet))
	for sym := range m.alphabet {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// sortPredictions orders by probability descending, token ascending for
// equal probabilities, so output is deterministic.
func sortPredictions(preds []Prediction) {
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].Probability != preds[j].Probability {
			return preds[i].Probability > preds[j].Probability
		}
		return preds[i].Token < preds[j].Token
	})
}
