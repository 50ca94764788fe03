/*
Package catalog holds the immutable snapshot of known functions.

A snapshot is built once from a scanner-produced database and never
mutated. Reloading constructs a fresh snapshot and publishes it with an
atomic pointer swap, so in-flight requests keep reading the snapshot they
started with and the read path needs no locks.
*/
package catalog

import (
	"fmt"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is a single known function. Immutable after snapshot construction.
type Entry struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Library     string    `json:"library"`
	Embedding   []float32 `json:"embedding"`
}

// Snapshot is a point-in-time view of the whole catalog. Entry order is
// the catalog insertion order, which ranking uses for deterministic
// tie-breaks.
type Snapshot struct {
	entries []Entry
	byName  map[string]int
	trie    *patricia.Trie
	dim     int
}

// NewSnapshot validates the entries and builds the lookup structures.
// All embeddings must share one dimension; a mismatch is malformed input.
func NewSnapshot(entries []Entry) (*Snapshot, error) {
	s := &Snapshot{
		entries: entries,
		byName:  make(map[string]int, len(entries)),
		trie:    patricia.NewTrie(),
	}

	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: empty name", i)
		}
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("catalog entry %q: missing embedding", e.Name)
		}
		if s.dim == 0 {
			s.dim = len(e.Embedding)
		} else if len(e.Embedding) != s.dim {
			return nil, fmt.Errorf("catalog entry %q: embedding dimension %d, want %d",
				e.Name, len(e.Embedding), s.dim)
		}
		if _, dup := s.byName[e.Name]; !dup {
			s.byName[e.Name] = i
			s.trie.Insert(patricia.Prefix(e.Name), i)
		}
	}

	return s, nil
}

// EmptySnapshot returns a snapshot with no entries. Queries against it
// degrade to empty results rather than errors.
func EmptySnapshot() *Snapshot {
	s, _ := NewSnapshot(nil)
	return s
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Dimension returns the embedding dimension, 0 for an empty catalog.
func (s *Snapshot) Dimension() int {
	return s.dim
}

// At returns the entry at insertion index i.
func (s *Snapshot) At(i int) Entry {
	return s.entries[i]
}

// Entries returns the backing slice. Callers must not mutate it.
func (s *Snapshot) Entries() []Entry {
	return s.entries
}

// Lookup finds an entry by exact name.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	if i, ok := s.byName[name]; ok {
		return s.entries[i], true
	}
	return Entry{}, false
}

// IndexOf returns the insertion index for an exact name.
func (s *Snapshot) IndexOf(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// PrefixMatches walks the name trie and returns up to limit entries whose
// name starts with prefix, in insertion order.
func (s *Snapshot) PrefixMatches(prefix string, limit int) []Entry {
	if prefix == "" || limit <= 0 {
		return nil
	}

	var indexes []int
	s.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		indexes = append(indexes, item.(int))
		return nil
	})

	// Trie visit order is lexicographic; re-sort into insertion order
	// so results are stable against catalog layout.
	for i := 1; i < len(indexes); i++ {
		for j := i; j > 0 && indexes[j] < indexes[j-1]; j-- {
			indexes[j], indexes[j-1] = indexes[j-1], indexes[j]
		}
	}

	if len(indexes) > limit {
		indexes = indexes[:limit]
	}
	out := make([]Entry, len(indexes))
	for i, idx := range indexes {
		out[i] = s.entries[idx]
	}
	return out
}

// Resolve finds the best entry for a bare word: exact name first, then a
// dotted suffix match ("listdir" resolves to "os.listdir"), then the
// first substring match in insertion order.
func (s *Snapshot) Resolve(word string) (Entry, bool) {
	if word == "" {
		return Entry{}, false
	}
	if e, ok := s.Lookup(word); ok {
		return e, true
	}
	for _, e := range s.entries {
		if strings.HasSuffix(e.Name, "."+word) {
			return e, true
		}
	}
	for _, e := range s.entries {
		if strings.Contains(e.Name, word) {
			return e, true
		}
	}
	return Entry{}, false
}
