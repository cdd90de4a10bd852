// Package server exposes the analysis pipeline over HTTP: a JSON analyze
// endpoint, a health check, permissive CORS on every route, and optional
// static asset serving for a bundled frontend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"siteinsight/internal/analyze"
)

const shutdownTimeout = 10 * time.Second

// Server wires the analyzer into an http.Server.
type Server struct {
	Analyzer *analyze.Analyzer
	// StaticDir, when it names an existing directory, is served at /.
	StaticDir string
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds the full route table with CORS and request logging
// applied to every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/health", s.handleHealth)

	if s.StaticDir != "" {
		if info, err := os.Stat(s.StaticDir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(s.StaticDir)))
		} else {
			log.Debug().Str("dir", s.StaticDir).Msg("static directory missing; not serving assets")
		}
	}

	return logRequests(cors(mux))
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", port).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	// Anything unexpected in the pipeline becomes the generic 500; client
	// input problems are reported individually below.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("analyze handler panicked")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to analyze website. Please try again."})
		}
	}()

	var req analyzeRequest
	// A malformed body carries no URL; both cases get the same answer.
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := s.Analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, analyze.ErrMissingURL),
			errors.Is(err, analyze.ErrInvalidURL),
			errors.Is(err, analyze.ErrFetchFailed):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			log.Error().Err(err).Msg("analysis failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to analyze website. Please try again."})
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "SiteInsight analyzer is running",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// cors adds permissive cross-origin headers to all routes and short-circuits
// preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
