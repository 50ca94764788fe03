package markov

import (
	"math"
	"testing"
)

// seq builds a category-only token sequence.
func seq(cats ...Category) []Token {
	out := make([]Token, len(cats))
	for i, c := range cats {
		out[i] = Token{Category: c}
	}
	return out
}

func TestNewModelOrderRange(t *testing.T) {
	for _, order := range []int{1, 2, 3, 4} {
		if _, err := NewModel(order); err != nil {
			t.Errorf("NewModel(%d) returned error: %v", order, err)
		}
	}
	for _, order := range []int{0, -1, 5} {
		if _, err := NewModel(order); err == nil {
			t.Errorf("NewModel(%d) expected error, got nil", order)
		}
	}
}

func TestPredictNeverEmpty(t *testing.T) {
	model, err := NewModel(2)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	// Untrained model must still answer.
	preds := model.Predict(Window(seq(CategoryIdentifier)))
	if len(preds) == 0 {
		t.Fatal("untrained model returned empty prediction")
	}
	if preds[0].Token != UnknownToken {
		t.Errorf("untrained model predicted %q, want %q", preds[0].Token, UnknownToken)
	}
	if preds[0].Probability != 1 {
		t.Errorf("untrained model probability = %v, want 1", preds[0].Probability)
	}
}

func TestDistributionSumsToOne(t *testing.T) {
	model, _ := NewModel(2)
	if err := model.Observe(seq(
		CategoryIdentifier, CategoryOperator, CategoryLiteral,
		CategoryIdentifier, CategoryOperator, CategoryIdentifier,
	)); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	model.Freeze()

	windows := []Window{
		Window(seq(CategoryIdentifier, CategoryOperator)),
		Window(seq(CategoryOperator)),
		Window(nil),
	}
	for _, w := range windows {
		preds := model.Predict(w)
		if len(preds) == 0 {
			t.Fatal("empty prediction")
		}
		var sum float64
		for _, p := range preds {
			if p.Probability <= 0 {
				t.Errorf("nonpositive probability %v for %q", p.Probability, p.Token)
			}
			sum += p.Probability
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("distribution sums to %v, want 1", sum)
		}
	}
}

func TestSmoothingGivesUnseenNonzeroMass(t *testing.T) {
	model, _ := NewModel(1)
	// Only identifier->operator observed; literal is in the alphabet but
	// never follows identifier.
	if err := model.Observe(seq(CategoryIdentifier, CategoryOperator, CategoryLiteral)); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	model.Freeze()

	preds := model.Predict(Window(seq(CategoryIdentifier)))
	byToken := make(map[string]float64)
	for _, p := range preds {
		byToken[p.Token] = p.Probability
	}

	if byToken[string(CategoryLiteral)] <= 0 {
		t.Errorf("unseen transition got probability %v, want > 0", byToken[string(CategoryLiteral)])
	}
	if byToken[UnknownToken] <= 0 {
		t.Errorf("unknown bucket got probability %v, want > 0", byToken[UnknownToken])
	}
	if byToken[string(CategoryOperator)] <= byToken[string(CategoryLiteral)] {
		t.Errorf("observed transition (%v) not favored over unseen (%v)",
			byToken[string(CategoryOperator)], byToken[string(CategoryLiteral)])
	}
}

func TestBackoffToLowerOrder(t *testing.T) {
	model, _ := NewModel(3)
	if err := model.Observe(seq(CategoryKeyword, CategoryIdentifier, CategoryOperator, CategoryLiteral)); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	model.Freeze()

	// This exact 3-tuple was never observed; the model must back off
	// rather than return nothing.
	preds := model.Predict(Window(seq(CategoryLiteral, CategoryLiteral, CategoryLiteral)))
	if len(preds) == 0 {
		t.Fatal("backoff returned empty prediction")
	}
	var sum float64
	for _, p := range preds {
		sum += p.Probability
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("backoff distribution sums to %v, want 1", sum)
	}
}

func TestPredictDeterministicOrder(t *testing.T) {
	model, _ := NewModel(2)
	model.Observe(seq(CategoryIdentifier, CategoryOperator, CategoryIdentifier, CategoryLiteral))
	model.Freeze()

	w := Window(seq(CategoryIdentifier, CategoryOperator))
	first := model.Predict(w)
	for run := 0; run < 5; run++ {
		again := model.Predict(w)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d predictions, want %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i] != first[i] {
				t.Errorf("run %d: prediction %d = %+v, want %+v", run, i, again[i], first[i])
			}
		}
	}

	for i := 1; i < len(first); i++ {
		if first[i].Probability > first[i-1].Probability {
			t.Errorf("predictions not descending at %d: %v after %v",
				i, first[i].Probability, first[i-1].Probability)
		}
		if first[i].Probability == first[i-1].Probability && first[i].Token < first[i-1].Token {
			t.Errorf("equal-probability tie not in token order at %d", i)
		}
	}
}

func TestObserveAfterFreezeFails(t *testing.T) {
	model, _ := NewModel(1)
	model.Freeze()
	if !model.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	if err := model.Observe(seq(CategoryIdentifier)); err == nil {
		t.Error("Observe after Freeze expected error, got nil")
	}
}

func TestPredictNamesFavorsFrequentCall(t *testing.T) {
	model, _ := NewModel(2)

	lead := []Token{
		{Text: "for", Category: CategoryKeyword},
		{Text: "f", Category: CategoryIdentifier},
	}
	// os.listdir dominates this context.
	for i := 0; i < 20; i++ {
		s := append(append([]Token{}, lead...), Token{Text: "os.listdir", Category: CategoryCall})
		if err := model.Observe(s); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	s := append(append([]Token{}, lead...), Token{Text: "os.getcwd", Category: CategoryCall})
	model.Observe(s)
	model.Freeze()

	preds := model.PredictNames(Window(lead))
	if len(preds) == 0 {
		t.Fatal("PredictNames returned nothing for a trained state")
	}
	if preds[0].Token != "os.listdir" {
		t.Fatalf("top name = %q, want os.listdir", preds[0].Token)
	}
	if preds[0].Probability <= 0.5 {
		t.Errorf("dominant call probability = %v, want > 0.5", preds[0].Probability)
	}
}

func TestPredictNamesUnknownStateEmpty(t *testing.T) {
	model, _ := NewModel(2)
	model.Observe([]Token{
		{Text: "x", Category: CategoryIdentifier},
		{Text: "os.listdir", Category: CategoryCall},
	})
	model.Freeze()

	preds := model.PredictNames(Window(seq(CategoryLiteral, CategoryLiteral)))
	if len(preds) != 0 {
		t.Errorf("unknown state yielded %d names, want 0", len(preds))
	}
}

func TestExportRoundTrip(t *testing.T) {
	model, _ := NewModel(2)
	model.Observe([]Token{
		{Text: "for", Category: CategoryKeyword},
		{Text: "f", Category: CategoryIdentifier},
		{Text: "os.listdir", Category: CategoryCall},
	})
	model.Observe(seq(CategoryIdentifier, CategoryOperator, CategoryLiteral))
	model.Freeze()

	rebuilt, err := NewModelFromTransitions(2, model.Export())
	if err != nil {
		t.Fatalf("NewModelFromTransitions: %v", err)
	}
	if !rebuilt.Frozen() {
		t.Error("rebuilt model is not frozen")
	}

	w := Window(seq(CategoryKeyword, CategoryIdentifier))
	origPreds := model.Predict(w)
	newPreds := rebuilt.Predict(w)
	if len(origPreds) != len(newPreds) {
		t.Fatalf("rebuilt predicts %d tokens, want %d", len(newPreds), len(origPreds))
	}
	for i := range origPreds {
		if origPreds[i].Token != newPreds[i].Token ||
			math.Abs(origPreds[i].Probability-newPreds[i].Probability) > 1e-12 {
			t.Errorf("prediction %d differs after round trip: %+v vs %+v",
				i, newPreds[i], origPreds[i])
		}
	}

	origNames := model.PredictNames(w)
	newNames := rebuilt.PredictNames(w)
	if len(origNames) != len(newNames) {
		t.Fatalf("rebuilt predicts %d names, want %d", len(newNames), len(origNames))
	}
	for i := range origNames {
		if origNames[i] != newNames[i] {
			t.Errorf("name prediction %d differs: %+v vs %+v", i, newNames[i], origNames[i])
		}
	}
}
