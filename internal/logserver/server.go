// Package logserver exposes a log file over HTTP.
package logserver

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pointclaim/internal/model"
	"github.com/ppiankov/pointclaim/internal/store"
)

// Server serves the contents of a single log file at GET /logs
type Server struct {
	path  string
	cache *store.MemoryCache // nil when caching is disabled
	log   logrus.FieldLogger
}

// New creates a log server for cfg.LogFile
func New(cfg model.LogServerConfig, log logrus.FieldLogger) *Server {
	s := &Server{path: cfg.LogFile, log: log}
	if cfg.CacheTTL > 0 {
		s.cache = store.NewMemoryCache(cfg.CacheTTL, time.Minute)
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/logs", s.handleLogs).Methods(http.MethodGet)
	return r
}

type logsResponse struct {
	Logs []string `json:"logs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	lines, err := s.lines()
	if err != nil {
		s.log.WithError(err).Warn("failed to read log file")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logsResponse{Logs: lines})
}

// lines returns the file split into lines, each keeping its terminator
func (s *Server) lines() ([]string, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(s.path); ok {
			var cached []string
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	lines, err := ReadLines(s.path)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(lines); err == nil {
			s.cache.Set(s.path, raw)
		}
	}
	return lines, nil
}

// ReadLines reads path and returns its lines with their "\n" terminators
// kept. The last line has no terminator if the file does not end with one.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	lines := []string{}
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
