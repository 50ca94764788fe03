package lexical

import (
	"testing"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	snap, err := catalog.NewSnapshot([]catalog.Entry{
		{Name: "os.listdir", Description: "Return the names of the entries in a directory.", Library: "os", Embedding: []float32{1, 0}},
		{Name: "json.load", Description: "Deserialize a JSON document from a file.", Library: "json", Embedding: []float32{0, 1}},
		{Name: "shutil.copy", Description: "Copy a file to a destination.", Library: "shutil", Embedding: []float32{1, 1}},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	ix, err := NewIndex(snap)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestSearchByDescription(t *testing.T) {
	ix := testIndex(t)

	matches, err := ix.Search("directory", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no matches for a word in a description")
	}
	if matches[0].Name != "os.listdir" {
		t.Errorf("top match = %q, want os.listdir", matches[0].Name)
	}
	if matches[0].Score <= 0 {
		t.Errorf("match score = %v, want > 0", matches[0].Score)
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	ix := testIndex(t)

	matches, err := ix.Search("file", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) > 1 {
		t.Errorf("limit 1 returned %d matches", len(matches))
	}
}

func TestSearchNoMatches(t *testing.T) {
	ix := testIndex(t)

	matches, err := ix.Search("xylophone", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches for an absent term", len(matches))
	}
}

func TestCountMatchesCatalog(t *testing.T) {
	ix := testIndex(t)

	count, err := ix.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestEmptyCatalogIndex(t *testing.T) {
	ix, err := NewIndex(catalog.EmptySnapshot())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer ix.Close()

	matches, err := ix.Search("anything", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("empty index returned %d matches", len(matches))
	}
}
