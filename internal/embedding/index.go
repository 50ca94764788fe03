/*
Package embedding provides exact nearest-neighbor search over the
catalog's embedding vectors.

Similarity is cosine (dot product of L2-normalized vectors). Search is a
linear scan maintaining the top N in a bounded heap, which is exact; the
catalog sizes this system sees do not justify approximate indexing.
*/
package embedding

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
)

// Result is one nearest-neighbor hit. Index is the catalog insertion
// index, which breaks similarity ties deterministically.
type Result struct {
	Entry      catalog.Entry
	Index      int
	Similarity float64
}

// Index holds the normalized vectors for one catalog snapshot. Immutable
// after construction; a catalog reload builds a new Index.
type Index struct {
	snap       *catalog.Snapshot
	normalized [][]float32
}

// NewIndex normalizes every catalog embedding up front so queries cost
// one dot product per entry.
func NewIndex(snap *catalog.Snapshot) *Index {
	ix := &Index{
		snap:       snap,
		normalized: make([][]float32, snap.Len()),
	}
	for i := 0; i < snap.Len(); i++ {
		ix.normalized[i] = normalize(snap.At(i).Embedding)
	}
	return ix
}

// Snapshot returns the catalog snapshot this index was built from.
func (ix *Index) Snapshot() *catalog.Snapshot {
	return ix.snap
}

// Nearest returns up to n entries by descending cosine similarity to the
// query vector. Ties break by catalog insertion order. An empty catalog
// yields an empty list; a query whose dimension does not match the
// catalog is malformed input and is rejected.
func (ix *Index) Nearest(query []float32, n int) ([]Result, error) {
	if ix.snap.Len() == 0 {
		return nil, nil
	}
	if len(query) != ix.snap.Dimension() {
		return nil, fmt.Errorf("embedding: query dimension %d does not match catalog dimension %d",
			len(query), ix.snap.Dimension())
	}
	if n <= 0 {
		return nil, nil
	}

	q := normalize(query)

	h := &resultHeap{}
	heap.Init(h)
	for i, vec := range ix.normalized {
		r := Result{
			Entry:      ix.snap.At(i),
			Index:      i,
			Similarity: dot(q, vec),
		}
		if h.Len() < n {
			heap.Push(h, r)
		} else if better(r, (*h)[0]) {
			(*h)[0] = r
			heap.Fix(h, 0)
		}
	}

	out := make([]Result, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Result)
	}
	return out, nil
}

// Similarity computes the cosine similarity between the query and one
// named catalog entry, used when the ranker pulls in sequence-predicted
// candidates that the top-N scan missed.
func (ix *Index) Similarity(query []float32, name string) (float64, bool) {
	i, ok := ix.snap.IndexOf(name)
	if !ok || len(query) != ix.snap.Dimension() {
		return 0, false
	}
	return dot(normalize(query), ix.normalized[i]), true
}

// better reports whether a outranks b: higher similarity first, then
// earlier catalog insertion.
func better(a, b Result) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.Index < b.Index
}

// resultHeap is a min-heap: the root is the weakest held result, so it
// is the one displaced when a stronger candidate arrives.
type resultHeap []Result

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return better(h[j], h[i]) }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
