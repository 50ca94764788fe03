package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// LoadFile reads a scanner-produced catalog database from disk.
//
// Two layouts are accepted:
//
//	{"functions": [{"name", "signature", "description"}, ...],
//	 "embeddings": [[...], ...]}
//
//	{"entries": [{"name", "description", "library", "embedding"}, ...]}
//
// A missing file is treated as an empty catalog, matching the
// load-on-demand contract with the external scanner.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a snapshot from raw catalog JSON.
func Parse(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse catalog: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	if funcs := root.Get("functions"); funcs.Exists() {
		return parsePaired(funcs, root.Get("embeddings"))
	}
	if entries := root.Get("entries"); entries.Exists() {
		return parseEntries(entries)
	}
	return nil, fmt.Errorf("parse catalog: no \"functions\" or \"entries\" key")
}

// parsePaired handles the original scanner layout where function records
// and embedding rows are parallel arrays.
func parsePaired(funcs, embeddings gjson.Result) (*Snapshot, error) {
	funcList := funcs.Array()
	embList := embeddings.Array()
	if len(funcList) != len(embList) {
		return nil, fmt.Errorf("parse catalog: %d functions but %d embeddings",
			len(funcList), len(embList))
	}

	entries := make([]Entry, 0, len(funcList))
	for i, f := range funcList {
		name := f.Get("name").String()
		entries = append(entries, Entry{
			Name:        name,
			Description: f.Get("description").String(),
			Library:     libraryOf(name, f.Get("library").String()),
			Embedding:   toVector(embList[i]),
		})
	}
	return NewSnapshot(entries)
}

func parseEntries(list gjson.Result) (*Snapshot, error) {
	arr := list.Array()
	entries := make([]Entry, 0, len(arr))
	for _, e := range arr {
		name := e.Get("name").String()
		entries = append(entries, Entry{
			Name:        name,
			Description: e.Get("description").String(),
			Library:     libraryOf(name, e.Get("library").String()),
			Embedding:   toVector(e.Get("embedding")),
		})
	}
	return NewSnapshot(entries)
}

// libraryOf falls back to the dotted name prefix when the record carries
// no explicit library ("os.listdir" belongs to "os").
func libraryOf(name, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}

func toVector(row gjson.Result) []float32 {
	values := row.Array()
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v.Float())
	}
	return vec
}
