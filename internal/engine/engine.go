/*
Package engine orchestrates suggestion and explanation requests.

Every request reads one immutable view (catalog snapshot plus the
embedding and keyword indexes built from it). Reload constructs a fresh
view and publishes it with a single atomic pointer swap; in-flight
requests keep the view they started with and never observe a partially
updated catalog.
*/
package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/config"
	"github.com/Nika3406/MarkovSuggestor/internal/embedding"
	"github.com/Nika3406/MarkovSuggestor/internal/lexical"
	"github.com/Nika3406/MarkovSuggestor/internal/logger"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
	"github.com/Nika3406/MarkovSuggestor/internal/pseudocode"
	"github.com/Nika3406/MarkovSuggestor/internal/ranker"
	"github.com/Nika3406/MarkovSuggestor/internal/structure"
	"github.com/charmbracelet/log"
)

// ErrMalformedInput marks a structurally invalid request. Callers should
// report the wrapped reason and drop the single request; nothing else is
// affected.
var ErrMalformedInput = errors.New("malformed input")

// SuggestRequest is one completion request from the editor integration.
type SuggestRequest struct {
	// Window is the ordered token history preceding the cursor.
	Window markov.Window `json:"window"`

	// ContextEmbedding is the editor-supplied embedding of the current
	// context. Nil disables the similarity signal for this request.
	ContextEmbedding []float32 `json:"contextEmbedding,omitempty"`

	// Prefix is the partial identifier under the cursor, used for the
	// catalog prefix fallback.
	Prefix string `json:"prefix,omitempty"`

	// Limit bounds the returned suggestions; 0 means the ranker's TopN.
	Limit int `json:"limit,omitempty"`
}

// Suggestion is one entry of the ordered output list.
type Suggestion struct {
	DisplayName     string  `json:"displayName"`
	Description     string  `json:"description"`
	Library         string  `json:"library,omitempty"`
	Score           float64 `json:"score"`
	SequenceScore   float64 `json:"sequenceScore"`
	SimilarityScore float64 `json:"similarityScore"`
}

// ExplainRequest carries the selected fragment for the explanation panel.
type ExplainRequest struct {
	Fragment structure.Fragment `json:"fragment"`
}

// view bundles everything derived from one catalog snapshot.
type view struct {
	snap       *catalog.Snapshot
	embeddings *embedding.Index
	keywords   *lexical.Index
}

// Engine serves suggestion, explanation, and lookup requests.
type Engine struct {
	cfg        *config.Config
	model      *markov.Model
	classifier *structure.Classifier
	current    atomic.Pointer[view]
	log        *log.Logger
}

// New builds an engine over the given frozen model and initial snapshot.
func New(cfg *config.Config, model *markov.Model, snap *catalog.Snapshot) (*Engine, error) {
	e := &Engine{
		cfg:        cfg,
		model:      model,
		classifier: structure.NewClassifier(cfg.Classifier.MinConfidence),
		log:        logger.New("engine"),
	}
	if err := e.Reload(snap); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload builds the indexes for a new snapshot and publishes the view
// atomically. The old view stays valid for requests already running.
func (e *Engine) Reload(snap *catalog.Snapshot) error {
	if snap == nil {
		snap = catalog.EmptySnapshot()
	}

	keywords, err := lexical.NewIndex(snap)
	if err != nil {
		return fmt.Errorf("engine: build keyword index: %w", err)
	}

	v := &view{
		snap:       snap,
		embeddings: embedding.NewIndex(snap),
		keywords:   keywords,
	}

	old := e.current.Swap(v)
	if old != nil {
		if err := old.keywords.Close(); err != nil {
			e.log.Warn("failed to close previous keyword index", "err", err)
		}
	}

	e.log.Debug("catalog snapshot published", "entries", snap.Len(), "dimension", snap.Dimension())
	return nil
}

// Snapshot returns the catalog snapshot requests currently run against.
func (e *Engine) Snapshot() *catalog.Snapshot {
	return e.current.Load().snap
}

// Suggest produces the ordered suggestion list for one request. An empty
// catalog or an empty context degrades to an empty list; only
// structurally invalid input is an error.
func (e *Engine) Suggest(req SuggestRequest) ([]Suggestion, error) {
	for i, t := range req.Window {
		if t.Category == "" {
			return nil, fmt.Errorf("%w: window token %d has no category", ErrMalformedInput, i)
		}
	}

	v := e.current.Load()

	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.Ranker.TopN
	}

	ranked, err := ranker.Rank(v.embeddings, e.model, req.Window, req.ContextEmbedding, ranker.Config{
		Alpha: e.cfg.Ranker.Alpha,
		TopN:  e.cfg.Ranker.TopN,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	out := make([]Suggestion, 0, limit)
	seen := make(map[string]bool, limit)
	for _, s := range ranked {
		if len(out) >= limit {
			break
		}
		out = append(out, Suggestion{
			DisplayName:     s.Entry.Name,
			Description:     s.Entry.Description,
			Library:         s.Entry.Library,
			Score:           s.CombinedScore,
			SequenceScore:   s.SequenceScore,
			SimilarityScore: s.SimilarityScore,
		})
		seen[s.Entry.Name] = true
	}

	// Prefix fallback: when ranking leaves room, offer catalog names
	// matching the partial identifier, the way the editor plugin did
	// before any model signal existed.
	if req.Prefix != "" && len(out) < limit {
		for _, entry := range v.snap.PrefixMatches(req.Prefix, limit-len(out)+len(seen)) {
			if len(out) >= limit {
				break
			}
			if seen[entry.Name] {
				continue
			}
			out = append(out, Suggestion{
				DisplayName: entry.Name,
				Description: entry.Description,
				Library:     entry.Library,
			})
			seen[entry.Name] = true
		}
	}

	return out, nil
}

// Explain classifies the fragment and renders its pseudocode against the
// current snapshot.
func (e *Engine) Explain(req ExplainRequest) (pseudocode.Explanation, error) {
	if req.Fragment.Source == "" && len(req.Fragment.Nodes) == 0 {
		return pseudocode.Explanation{}, fmt.Errorf("%w: empty fragment", ErrMalformedInput)
	}

	v := e.current.Load()
	cls := e.classifier.Classify(req.Fragment)
	renderer := pseudocode.NewRenderer(v.snap)
	return renderer.Render(req.Fragment, cls), nil
}

// Describe resolves a bare identifier to its catalog entry for hover
// panels.
func (e *Engine) Describe(word string) (catalog.Entry, bool) {
	return e.current.Load().snap.Resolve(word)
}

// SearchCatalog runs a keyword query over names and descriptions.
func (e *Engine) SearchCatalog(query string, limit int) ([]lexical.Match, error) {
	return e.current.Load().keywords.Search(query, limit)
}
