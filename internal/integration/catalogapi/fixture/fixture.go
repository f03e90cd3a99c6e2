// Package fixture serves a static game catalog over the same HTTP contract
// as the real backend. It backs `tracklog dev-server` and the catalog tests.
package fixture

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/tracklog/internal/core/catalog"
)

// Cover is the nested cover object of a game.
type Cover struct {
	URL string `json:"url"`
}

// Game is a fixture catalog entry. Platforms are served by the platforms
// endpoint and omitted from search results.
type Game struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Cover     *Cover   `json:"cover,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
}

// Load reads a JSON array of games from path.
func Load(path string) ([]Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return games, nil
}

// Option customizes the fixture handler.
type Option func(*server)

// WithEnvelope wraps search results as configured.
func WithEnvelope(env catalog.Envelope) Option {
	return func(s *server) { s.envelope = env }
}

// WithLatency delays each search response by the duration returned for its
// query. The delay is abandoned when the client goes away.
func WithLatency(fn func(query string) time.Duration) Option {
	return func(s *server) { s.latency = fn }
}

// WithRequestLog logs every request through the global zerolog logger.
func WithRequestLog() Option {
	return func(s *server) { s.requestLog = true }
}

type server struct {
	games      []Game
	envelope   catalog.Envelope
	latency    func(string) time.Duration
	requestLog bool
}

// NewHandler returns an http.Handler exposing GET /search and GET /platforms.
func NewHandler(games []Game, opts ...Option) http.Handler {
	s := &server{games: games, envelope: catalog.EnvelopeArray}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.requestLog {
		r.Use(requestLogger)
	}
	r.Get("/search", s.handleSearch)
	r.Get("/platforms", s.handlePlatforms)
	return r
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	if s.latency != nil {
		select {
		case <-time.After(s.latency(query)):
		case <-r.Context().Done():
			return
		}
	}

	matches := make([]Game, 0)
	if query != "" {
		for _, g := range s.games {
			if strings.Contains(strings.ToLower(g.Name), query) {
				g.Platforms = nil
				matches = append(matches, g)
			}
		}
	}

	if s.envelope == catalog.EnvelopeResults {
		writeJSON(w, map[string][]Game{"results": matches})
		return
	}
	writeJSON(w, matches)
}

func (s *server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	for _, g := range s.games {
		if fmt.Sprint(g.ID) == id {
			platforms := g.Platforms
			if platforms == nil {
				platforms = []string{}
			}
			writeJSON(w, platforms)
			return
		}
	}
	http.Error(w, "game not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("fixture: encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("fixture request")
	})
}
