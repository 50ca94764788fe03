/*
Package ranker fuses the token-sequence and similarity signals into one
ranked suggestion list.

Combined score = alpha*sequence + (1-alpha)*similarity, both components
normalized to [0,1] first. The candidate set is the union of the top-N
similarity hits and every sequence-predicted function name present in the
catalog, so neither signal can hide a strong candidate from the other.
*/
package ranker

import (
	"sort"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/embedding"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
)

// minSequenceProbability is the floor below which a sequence prediction
// is not worth pulling into the candidate union on its own.
const minSequenceProbability = 0.05

// Config carries the fusion parameters, validated at config-load time.
type Config struct {
	// Alpha is the weight on the sequence signal; 1-Alpha goes to
	// similarity.
	Alpha float64

	// TopN bounds the similarity candidates considered.
	TopN int
}

// DefaultConfig favors the probabilistic signal.
var DefaultConfig = Config{
	Alpha: 0.6,
	TopN:  10,
}

// Suggestion is one ranked candidate. Immutable once produced; the entry
// reference is valid for the catalog snapshot the request ran against.
type Suggestion struct {
	Entry           catalog.Entry
	CombinedScore   float64
	SequenceScore   float64
	SimilarityScore float64

	catalogIndex int
	rawCosine    float64
}

// Rank produces the ordered suggestion list for one request.
//
// queryVec may be nil when the editor supplied no context embedding; the
// similarity component is then absent and scoring leans entirely on the
// sequence signal. Both signals empty yields an empty list, which is not
// an error.
func Rank(ix *embedding.Index, model *markov.Model, window markov.Window, queryVec []float32, cfg Config) ([]Suggestion, error) {
	snap := ix.Snapshot()

	type candidate struct {
		index  int
		seq    float64
		cosine float64
		hasSim bool
	}
	candidates := make(map[int]*candidate)

	if queryVec != nil {
		hits, err := ix.Nearest(queryVec, cfg.TopN)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			candidates[hit.Index] = &candidate{
				index:  hit.Index,
				cosine: hit.Similarity,
				hasSim: true,
			}
		}
	}

	for _, pred := range model.PredictNames(window) {
		idx, ok := snap.IndexOf(pred.Token)
		if !ok {
			continue
		}
		if c, exists := candidates[idx]; exists {
			c.seq = pred.Probability
			continue
		}
		if pred.Probability < minSequenceProbability {
			continue
		}
		c := &candidate{index: idx, seq: pred.Probability}
		if queryVec != nil {
			if cos, ok := ix.Similarity(queryVec, pred.Token); ok {
				c.cosine = cos
				c.hasSim = true
			}
		}
		candidates[idx] = c
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		sim := 0.0
		if c.hasSim {
			// Rescale cosine from [-1,1] to [0,1] before fusion.
			sim = (c.cosine + 1) / 2
		}
		suggestions = append(suggestions, Suggestion{
			Entry:           snap.At(c.index),
			CombinedScore:   cfg.Alpha*c.seq + (1-cfg.Alpha)*sim,
			SequenceScore:   c.seq,
			SimilarityScore: sim,
			catalogIndex:    c.index,
			rawCosine:       c.cosine,
		})
	}

	// Strictly descending by combined score; ties by similarity, then by
	// catalog insertion order. Deterministic for identical inputs.
	sort.Slice(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		if a.SimilarityScore != b.SimilarityScore {
			return a.SimilarityScore > b.SimilarityScore
		}
		return a.catalogIndex < b.catalogIndex
	})

	return suggestions, nil
}
