/*
Package server implements msgpack IPC for the editor integration.

Requests arrive on stdin and responses leave on stdout as a stream of
msgpack-encoded messages; logs go to stderr. Each request carries an ID
echoed in the response and an op selecting the operation:

	{"id": "req_001", "op": "suggest", "prefix": "os.li", "limit": 10}
	{"id": "req_002", "op": "explain", "fragment": {...}}
	{"id": "req_003", "op": "describe", "word": "listdir"}
	{"id": "req_004", "op": "reload", "path": "catalog.json"}
	{"id": "req_005", "op": "health"}

Requests are processed synchronously in arrival order. Malformed input
is answered with an error message scoped to that request; the loop keeps
running.
*/
package server

import (
	"github.com/Nika3406/MarkovSuggestor/internal/engine"
	"github.com/Nika3406/MarkovSuggestor/internal/markov"
	"github.com/Nika3406/MarkovSuggestor/internal/structure"
)

// Request is one incoming message.
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`

	// suggest fields
	Window           []markov.Token `msgpack:"window,omitempty"`
	ContextEmbedding []float32      `msgpack:"contextEmbedding,omitempty"`
	Prefix           string         `msgpack:"prefix,omitempty"`
	Limit            int            `msgpack:"limit,omitempty"`

	// explain fields
	Fragment *structure.Fragment `msgpack:"fragment,omitempty"`

	// describe fields
	Word string `msgpack:"word,omitempty"`

	// reload fields
	Path string `msgpack:"path,omitempty"`
}

// SuggestResponse answers a suggest op.
type SuggestResponse struct {
	ID          string              `msgpack:"id"`
	Suggestions []engine.Suggestion `msgpack:"suggestions"`
	Count       int                 `msgpack:"count"`
	TimeTaken   int64               `msgpack:"timeMs"`
}

// ExplainResponse answers an explain op.
type ExplainResponse struct {
	ID      string   `msgpack:"id"`
	Label   string   `msgpack:"label"`
	Lines   []string `msgpack:"lines"`
	Summary string   `msgpack:"summary"`
}

// DescribeResponse answers a describe op.
type DescribeResponse struct {
	ID          string `msgpack:"id"`
	Found       bool   `msgpack:"found"`
	Name        string `msgpack:"name,omitempty"`
	Description string `msgpack:"description,omitempty"`
	Library     string `msgpack:"library,omitempty"`
}

// StatusResponse answers health and reload ops, and signals readiness
// at startup.
type StatusResponse struct {
	ID      string `msgpack:"id,omitempty"`
	Status  string `msgpack:"status"`
	Entries int    `msgpack:"entries,omitempty"`
}

// ErrorResponse reports a request-scoped failure.
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"error"`
	Code  int    `msgpack:"code"`
}
