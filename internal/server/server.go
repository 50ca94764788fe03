package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Nika3406/MarkovSuggestor/internal/catalog"
	"github.com/Nika3406/MarkovSuggestor/internal/engine"
	"github.com/Nika3406/MarkovSuggestor/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server runs the request/response loop against one engine.
type Server struct {
	eng     *engine.Engine
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	log     *log.Logger
}

// New creates a server reading requests from r and writing responses
// to w.
func New(eng *engine.Engine, r io.Reader, w io.Writer) *Server {
	return &Server{
		eng:     eng,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
		log:     logger.New("server"),
	}
}

// Start signals readiness and processes requests until EOF.
func (s *Server) Start() error {
	s.send(StatusResponse{Status: "ready", Entries: s.eng.Snapshot().Len()})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Error("decoding request", "err", err)
			s.send(ErrorResponse{Error: "invalid msgpack request", Code: 400})
			return err
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	switch req.Op {
	case "suggest":
		s.handleSuggest(req)
	case "explain":
		s.handleExplain(req)
	case "describe":
		s.handleDescribe(req)
	case "reload":
		s.handleReload(req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok", Entries: s.eng.Snapshot().Len()})
	default:
		s.send(ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown op: %s", req.Op), Code: 400})
	}
}

func (s *Server) handleSuggest(req Request) {
	start := time.Now()
	suggestions, err := s.eng.Suggest(engine.SuggestRequest{
		Window:           req.Window,
		ContextEmbedding: req.ContextEmbedding,
		Prefix:           req.Prefix,
		Limit:            req.Limit,
	})
	if err != nil {
		s.send(ErrorResponse{ID: req.ID, Error: err.Error(), Code: 400})
		return
	}

	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleExplain(req Request) {
	if req.Fragment == nil {
		s.send(ErrorResponse{ID: req.ID, Error: "missing fragment", Code: 400})
		return
	}

	explanation, err := s.eng.Explain(engine.ExplainRequest{Fragment: *req.Fragment})
	if err != nil {
		s.send(ErrorResponse{ID: req.ID, Error: err.Error(), Code: 400})
		return
	}

	s.send(ExplainResponse{
		ID:      req.ID,
		Label:   string(explanation.Label),
		Lines:   explanation.Lines,
		Summary: explanation.Summary,
	})
}

func (s *Server) handleDescribe(req Request) {
	entry, found := s.eng.Describe(req.Word)
	resp := DescribeResponse{ID: req.ID, Found: found}
	if found {
		resp.Name = entry.Name
		resp.Description = entry.Description
		resp.Library = entry.Library
	}
	s.send(resp)
}

// handleReload loads a catalog file and swaps it in atomically.
// Requests already running keep their snapshot.
func (s *Server) handleReload(req Request) {
	if req.Path == "" {
		s.send(ErrorResponse{ID: req.ID, Error: "missing path", Code: 400})
		return
	}

	snap, err := catalog.LoadFile(req.Path)
	if err != nil {
		s.send(ErrorResponse{ID: req.ID, Error: err.Error(), Code: 400})
		return
	}
	if err := s.eng.Reload(snap); err != nil {
		s.send(ErrorResponse{ID: req.ID, Error: err.Error(), Code: 500})
		return
	}

	s.send(StatusResponse{ID: req.ID, Status: "reloaded", Entries: snap.Len()})
}

func (s *Server) send(resp interface{}) {
	if err := s.encoder.Encode(resp); err != nil {
		s.log.Error("encoding response", "err", err)
	}
}
