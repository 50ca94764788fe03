/*
Package lexical provides BM25 keyword search over catalog names and
descriptions.

It backs the `catalog search` command and describe lookups; the
suggestion ranker itself works on the embedding and sequence signals.
The index is in-memory and rebuilt from each catalog snapshot, so it
shares the snapshot's immutability: a reload builds a new index.
*/
package lexical

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
)

// Match is one keyword hit with its BM25 relevance score.
type Match struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Library     string  `json:"library"`
	Score       float64 `json:"score"`
}

// Index wraps an in-memory bleve index over one catalog snapshot.
type Index struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewIndex builds the keyword index for a snapshot.
func NewIndex(snap *catalog.Snapshot) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for i := 0; i < snap.Len(); i++ {
		e := snap.At(i)
		doc := map[string]interface{}{
			"name":        e.Name,
			"description": e.Description,
			"library":     e.Library,
		}
		if err := batch.Index(e.Name, doc); err != nil {
			return nil, fmt.Errorf("failed to index entry %q: %w", e.Name, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to batch index catalog: %w", err)
	}

	return &Index{bleveIndex: index}, nil
}

// buildIndexMapping creates the bleve mapping for catalog documents.
func buildIndexMapping() mapping.IndexMapping {
	entryMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	entryMapping.AddFieldMappingsAt("name", nameFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	entryMapping.AddFieldMappingsAt("description", descFieldMapping)

	libraryFieldMapping := bleve.NewTextFieldMapping()
	entryMapping.AddFieldMappingsAt("library", libraryFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", entryMapping)
	return indexMapping
}

// Search runs a BM25 match query over names and descriptions.
func (ix *Index) Search(query string, limit int) ([]Match, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchQuery := bleve.NewMatchQuery(query)
	request := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	request.Fields = []string{"name", "description", "library"}

	results, err := ix.bleveIndex.Search(request)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	matches := make([]Match, 0, len(results.Hits))
	for _, hit := range results.Hits {
		name, _ := hit.Fields["name"].(string)
		description, _ := hit.Fields["description"].(string)
		library, _ := hit.Fields["library"].(string)
		matches = append(matches, Match{
			Name:        name,
			Description: description,
			Library:     library,
			Score:       hit.Score,
		})
	}
	return matches, nil
}

// Count returns the number of indexed entries.
func (ix *Index) Count() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.bleveIndex.DocCount()
}

// Close releases index resources.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.bleveIndex != nil {
		return ix.bleveIndex.Close()
	}
	return nil
}
