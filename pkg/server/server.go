package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/symserve/internal/logger"
	"github.com/bastiangx/symserve/pkg/config"
	"github.com/bastiangx/symserve/pkg/spell"
)

// slog keeps server diagnostics on stderr, away from the msgpack stream.
var slog = logger.New("ipc")

// Server handles the IPC for spelling queries.
type Server struct {
	engine  *spell.Engine
	cfg     config.ServerConfig
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a spelling server using stdin/stdout for IPC.
func NewServer(engine *spell.Engine, cfg config.ServerConfig) *Server {
	return &Server{
		engine:  engine,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(os.Stdin),
		encoder: msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins the request loop. It returns nil when the client closes the
// stream.
func (s *Server) Start() error {
	slog.Debug("Starting server.")
	s.send(StatusResponse{Status: "ready", Words: s.engine.WordCount()})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			slog.Errorf("Decoding request: %v", err)
			return err
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	if req.Command != "health" && req.Query == "" {
		s.sendError(req.ID, "missing 'q' parameter", 400)
		return
	}
	if s.cfg.MaxInput > 0 && len(req.Query) > s.cfg.MaxInput {
		s.sendError(req.ID, fmt.Sprintf("input exceeds maximum length of %d", s.cfg.MaxInput), 400)
		return
	}

	switch req.Command {
	case "lookup":
		s.handleLookup(req)
	case "prefix":
		s.handlePrefix(req)
	case "correct":
		s.handleCorrect(req)
	case "compound":
		s.handleCompound(req)
	case "segment":
		s.handleSegment(req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok", Words: s.engine.WordCount()})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown command: %s", req.Command), 400)
	}
}

func (s *Server) handleLookup(req Request) {
	verbosity := spell.VerbosityTop
	switch req.Verbosity {
	case "", "top":
	case "closest":
		verbosity = spell.VerbosityClosest
	case "all":
		verbosity = spell.VerbosityAll
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown verbosity: %s", req.Verbosity), 400)
		return
	}
	opts := spell.LookupOptions{
		Verbosity:       verbosity,
		MaxEditDistance: -1,
		IncludeUnknown:  req.IncludeUnknown,
		TransferCasing:  req.TransferCasing,
		PreviousWord:    req.PreviousWord,
	}
	if req.MaxDistance != nil {
		opts.MaxEditDistance = *req.MaxDistance
	}
	start := time.Now()
	items := s.engine.Lookup(req.Query, opts)
	s.sendSuggestions(req, items, time.Since(start))
}

func (s *Server) handlePrefix(req Request) {
	limit := s.clampLimit(req.Limit)
	start := time.Now()
	items := s.engine.PrefixLookup(req.Query, limit)
	s.sendSuggestions(req, items, time.Since(start))
}

func (s *Server) handleCorrect(req Request) {
	start := time.Now()
	correction, ok := s.engine.AutoCorrection(req.Query)
	resp := CorrectResponse{
		ID:        req.ID,
		Apply:     ok,
		TimeTaken: time.Since(start).Microseconds(),
	}
	if ok {
		resp.Word = correction.Term
		resp.Confidence = correction.Confidence
	}
	s.send(resp)
}

func (s *Server) handleCompound(req Request) {
	opts := spell.CompoundOptions{MaxEditDistance: -1, TransferCasing: req.TransferCasing}
	if req.MaxDistance != nil {
		opts.MaxEditDistance = *req.MaxDistance
	}
	start := time.Now()
	item := s.engine.LookupCompound(req.Query, opts)
	s.sendSuggestions(req, []spell.SuggestItem{item}, time.Since(start))
}

func (s *Server) handleSegment(req Request) {
	opts := spell.DefaultSegmentOptions()
	if req.MaxDistance != nil {
		opts.MaxEditDistance = *req.MaxDistance
	}
	start := time.Now()
	composition := s.engine.Segment(req.Query, opts)
	s.send(SegmentResponse{
		ID:        req.ID,
		Segmented: composition.Segmented,
		Corrected: composition.Corrected,
		Distance:  composition.Distance,
		LogProb:   composition.LogProb,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) sendSuggestions(req Request, items []spell.SuggestItem, elapsed time.Duration) {
	limit := s.clampLimit(req.Limit)
	if len(items) > limit {
		items = items[:limit]
	}
	suggestions := make([]Suggestion, len(items))
	for i, item := range items {
		suggestions[i] = Suggestion{Word: item.Term, Distance: item.Distance, Freq: item.Count}
	}
	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) clampLimit(limit int) int {
	if limit < 1 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	if limit < 1 {
		limit = 10
	}
	return limit
}

func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		slog.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
