package ranker

import (
	"testing"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/embedding"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
)

// buildIndex builds an embedding index over a small catalog.
func buildIndex(t *testing.T, entries []catalog.Entry) *embedding.Index {
	t.Helper()
	snap, err := catalog.NewSnapshot(entries)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return embedding.NewIndex(snap)
}

// trainedModel returns a frozen model where the lead context strongly
// predicts os.listdir and weakly predicts os.getcwd.
func trainedModel(t *testing.T) (*markov.Model, markov.Window) {
	t.Helper()
	model, err := markov.NewModel(2)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	lead := []markov.Token{
		{Text: "for", Category: markov.CategoryKeyword},
		{Text: "f", Category: markov.CategoryIdentifier},
	}
	for i := 0; i < 9; i++ {
		s := append(append([]markov.Token{}, lead...),
			markov.Token{Text: "os.listdir", Category: markov.CategoryCall})
		if err := model.Observe(s); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	s := append(append([]markov.Token{}, lead...),
		markov.Token{Text: "os.getcwd", Category: markov.CategoryCall})
	if err := model.Observe(s); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	model.Freeze()
	return model, markov.Window(lead)
}

func testCatalog() []catalog.Entry {
	return []catalog.Entry{
		{Name: "os.listdir", Description: "List directory entries.", Library: "os", Embedding: []float32{0, 1}},
		{Name: "os.getcwd", Description: "Current directory.", Library: "os", Embedding: []float32{1, 0}},
		{Name: "json.load", Description: "Deserialize JSON.", Library: "json", Embedding: []float32{0.9, 0.1}},
	}
}

func TestRankAlphaOneFollowsSequence(t *testing.T) {
	ix := buildIndex(t, testCatalog())
	model, window := trainedModel(t)

	// Query vector favors os.getcwd, but alpha 1 ignores similarity.
	got, err := Rank(ix, model, window, []float32{1, 0}, Config{Alpha: 1, TopN: 10})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("empty ranking")
	}
	if got[0].Entry.Name != "os.listdir" {
		t.Errorf("top suggestion = %q, want os.listdir", got[0].Entry.Name)
	}
	if got[0].CombinedScore != got[0].SequenceScore {
		t.Errorf("alpha 1 combined = %v, want sequence score %v",
			got[0].CombinedScore, got[0].SequenceScore)
	}
}

func TestRankAlphaZeroFollowsSimilarity(t *testing.T) {
	ix := buildIndex(t, testCatalog())
	model, window := trainedModel(t)

	got, err := Rank(ix, model, window, []float32{1, 0}, Config{Alpha: 0, TopN: 10})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("empty ranking")
	}
	if got[0].Entry.Name != "os.getcwd" {
		t.Errorf("top suggestion = %q, want os.getcwd", got[0].Entry.Name)
	}
	for i := 1; i < len(got); i++ {
		if got[i].SimilarityScore > got[i-1].SimilarityScore {
			t.Errorf("alpha 0 not ordered by similarity at %d", i)
		}
	}
}

func TestRankSimilarityRescaledToUnitInterval(t *testing.T) {
	// The opposite vector has cosine -1, which must map to 0, not go
	// negative.
	ix := buildIndex(t, []catalog.Entry{
		{Name: "opposite", Embedding: []float32{-1, 0}},
	})
	model, _ := markov.NewModel(2)
	model.Freeze()

	got, err := Rank(ix, model, nil, []float32{1, 0}, Config{Alpha: 0.5, TopN: 5})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(got))
	}
	if got[0].SimilarityScore != 0 {
		t.Errorf("cosine -1 rescaled to %v, want 0", got[0].SimilarityScore)
	}
	if got[0].CombinedScore < 0 {
		t.Errorf("combined score went negative: %v", got[0].CombinedScore)
	}
}

func TestRankUnionPullsSequenceCandidates(t *testing.T) {
	// TopN 1 keeps only os.getcwd from similarity; the sequence signal
	// must still pull os.listdir into the candidate set.
	ix := buildIndex(t, testCatalog())
	model, window := trainedModel(t)

	got, err := Rank(ix, model, window, []float32{1, 0}, Config{Alpha: 0.6, TopN: 1})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	names := make(map[string]bool)
	for _, s := range got {
		names[s.Entry.Name] = true
	}
	if !names["os.listdir"] {
		t.Error("sequence-predicted os.listdir missing from candidates")
	}
	if !names["os.getcwd"] {
		t.Error("similarity hit os.getcwd missing from candidates")
	}
}

func TestRankNoSignalsEmpty(t *testing.T) {
	ix := buildIndex(t, testCatalog())
	model, _ := markov.NewModel(2)
	model.Freeze()

	// No query vector, no trained names: empty result, no error.
	got, err := Rank(ix, model, nil, nil, DefaultConfig)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d suggestions with no signals, want 0", len(got))
	}
}

func TestRankEmptyCatalog(t *testing.T) {
	ix := embedding.NewIndex(catalog.EmptySnapshot())
	model, window := trainedModel(t)

	got, err := Rank(ix, model, window, nil, DefaultConfig)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty catalog yielded %d suggestions", len(got))
	}
}

func TestRankDimensionMismatchRejected(t *testing.T) {
	ix := buildIndex(t, testCatalog())
	model, window := trainedModel(t)

	if _, err := Rank(ix, model, window, []float32{1, 0, 0}, DefaultConfig); err == nil {
		t.Error("mismatched query dimension expected error, got nil")
	}
}

func TestRankDeterministic(t *testing.T) {
	ix := buildIndex(t, testCatalog())
	model, window := trainedModel(t)

	first, err := Rank(ix, model, window, []float32{0.5, 0.5}, DefaultConfig)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := Rank(ix, model, window, []float32{0.5, 0.5}, DefaultConfig)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d suggestions, want %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i].Entry.Name != first[i].Entry.Name ||
				again[i].CombinedScore != first[i].CombinedScore {
				t.Errorf("run %d suggestion %d differs: %q vs %q",
					run, i, again[i].Entry.Name, first[i].Entry.Name)
			}
		}
	}

	for i := 1; i < len(first); i++ {
		if first[i].CombinedScore > first[i-1].CombinedScore {
			t.Errorf("combined scores not descending at %d", i)
		}
	}
}
