// Package proxy is the optional local HTTP server that mirrors the
// product's same-origin surface: show API passthrough plus audio file
// streaming from the audio service. It exists for tools and browsers on
// the same machine; the TUI itself talks to the services directly.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

// LatestSource answers the latest-show route from the datastore. Nil
// when no datastore is configured; the route then returns null, the
// way the product behaves without credentials.
type LatestSource interface {
	LatestShow(ctx context.Context) (*show.Show, error)
}

// Server proxies show and audio requests.
type Server struct {
	apiBase  string
	audioURL string
	latest   LatestSource
	http     *http.Client
	srv      *http.Server
}

// NewServer creates a proxy for the given upstreams. latest may be nil.
func NewServer(apiBase, audioURL string, latest LatestSource) *Server {
	return &Server{
		apiBase:  apiBase,
		audioURL: audioURL,
		latest:   latest,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/shows", s.handleShows).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/shows/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/shows/{id}", s.handleShow).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/latest-show", s.handleLatest).Methods(http.MethodGet)
	r.HandleFunc("/audio/{filename}", s.handleAudio).Methods(http.MethodGet)
	return r
}

// ListenAndServe runs the proxy until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	logging.Info("proxy listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("proxy server failed: %w", err)
		}
		return nil
	}
}

func (s *Server) handleShows(w http.ResponseWriter, r *http.Request) {
	limit := r.URL.Query().Get("limit")
	if limit == "" {
		limit = "10"
	}
	offset := r.URL.Query().Get("offset")
	if offset == "" {
		offset = "0"
	}
	s.passthrough(w, r, fmt.Sprintf("%s/api/v1/shows?limit=%s&offset=%s",
		s.apiBase, url.QueryEscape(limit), url.QueryEscape(offset)))
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.passthrough(w, r, fmt.Sprintf("%s/api/v1/shows/%s", s.apiBase, url.PathEscape(id)))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		s.apiBase+"/api/v1/shows/generate", r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		logging.Warn("generate passthrough failed", "error", err)
		writeError(w, http.StatusBadGateway, "Show API unavailable")
		return
	}
	defer resp.Body.Close()
	copyResponse(w, resp)
}

// handleLatest serves the newest record with a script from the
// datastore. No datastore and no record both answer with a JSON null.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.latest == nil {
		fmt.Fprint(w, "null")
		return
	}

	latest, err := s.latest.LatestShow(r.Context())
	if err != nil {
		if errors.Is(err, source.ErrNotFound) || errors.Is(err, source.ErrNotConfigured) {
			fmt.Fprint(w, "null")
			return
		}
		logging.Warn("latest show lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load latest show")
		return
	}

	if err := json.NewEncoder(w).Encode(latest); err != nil {
		logging.Debug("latest show encode failed", "error", err)
	}
}

// handleAudio streams a generated audio file from the audio service.
// Missing files answer with the JSON 404 clients expect.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet,
		fmt.Sprintf("%s/temp-files/%s", s.audioURL, url.PathEscape(filename)), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build request")
		return
	}

	resp, err := s.http.Do(req)
	if err != nil {
		logging.Warn("audio fetch failed", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch audio")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeError(w, http.StatusNotFound, "Audio file not found")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, resp.Body); err != nil {
		logging.Debug("audio stream interrupted", "filename", filename, "error", err)
	}
}

func (s *Server) passthrough(w http.ResponseWriter, r *http.Request, target string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build request")
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		logging.Warn("api passthrough failed", "target", target, "error", err)
		writeError(w, http.StatusBadGateway, "Show API unavailable")
		return
	}
	defer resp.Body.Close()
	copyResponse(w, resp)
}

func copyResponse(w http.ResponseWriter, resp *http.Response) {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logging.Debug("response copy interrupted", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}
