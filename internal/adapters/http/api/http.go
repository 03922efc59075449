// Package api serves the portal's HTML fragments and health endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	service "github.com/okian/devportal/internal/app"
	"github.com/okian/devportal/internal/sidebar"
	"github.com/okian/devportal/pkg/logger"
	"github.com/okian/devportal/pkg/metrics"
)

const (
	maxActivityLimit = 50
	maxChatBodyBytes = 64 << 10
)

// Views is the view service the handlers render from.
type Views interface {
	Dashboard(ctx context.Context) (service.StatsView, bool)
	Overview(ctx context.Context) (service.OverviewView, bool)
	Projects(ctx context.Context, status string) ([]service.ProjectView, bool)
	Activity(ctx context.Context, eventType string, limit int) ([]service.ActivityView, bool)
	Codebase(ctx context.Context, query string) ([]service.RepoView, bool)
	Chat(ctx context.Context, message string) (service.ChatView, bool)
}

// Server wires HTTP routes for the portal fragments.
type Server struct {
	views   Views
	sidebar *sidebar.Renderer
	health  *HealthHandler
	logger  logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithSidebar sets the sidebar renderer.
func WithSidebar(r *sidebar.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.sidebar = r
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new portal server over views.
func NewServer(views Views, opts ...Option) *Server {
	s := &Server{
		views:   views,
		sidebar: sidebar.New(),
		health:  NewHealthHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.New(os.Stderr).Named("api")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	mux.HandleFunc("GET /partials/sidebar", MetricsMiddleware(s.HandleSidebar, "sidebar"))
	mux.HandleFunc("GET /partials/stats", MetricsMiddleware(s.HandleStats, fragmentStats))
	mux.HandleFunc("GET /partials/overview", MetricsMiddleware(s.HandleOverview, fragmentOverview))
	mux.HandleFunc("GET /partials/projects", MetricsMiddleware(s.HandleProjects, fragmentProjects))
	mux.HandleFunc("GET /partials/activity", MetricsMiddleware(s.HandleActivity, fragmentActivity))
	mux.HandleFunc("GET /partials/codebase", MetricsMiddleware(s.HandleCodebase, fragmentCodebase))
	mux.HandleFunc("POST /partials/chat", MetricsMiddleware(s.HandleChat, fragmentChat))
}

// HandleSidebar handles GET /partials/sidebar?page=.
func (s *Server) HandleSidebar(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.sidebar.RenderTo(&buf, r.URL.Query().Get("page")); err != nil {
		s.renderFailed(w, r, "sidebar", err)
		return
	}
	writeHTML(w, buf.Bytes())
	metrics.RecordFragmentRendered("sidebar")
}

// HandleStats handles GET /partials/stats.
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	view, ok := s.views.Dashboard(r.Context())
	s.render(w, r, fragmentStats, view, ok && len(view.Cards) > 0)
}

// HandleOverview handles GET /partials/overview.
func (s *Server) HandleOverview(w http.ResponseWriter, r *http.Request) {
	view, ok := s.views.Overview(r.Context())
	s.render(w, r, fragmentOverview, view, ok)
}

// HandleProjects handles GET /partials/projects?status=.
func (s *Server) HandleProjects(w http.ResponseWriter, r *http.Request) {
	views, ok := s.views.Projects(r.Context(), r.URL.Query().Get("status"))
	s.render(w, r, fragmentProjects, views, ok && len(views) > 0)
}

// HandleActivity handles GET /partials/activity?type=&limit=.
func (s *Server) HandleActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.activity"
	q := r.URL.Query()
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	views, ok := s.views.Activity(r.Context(), q.Get("type"), limit)
	s.render(w, r, fragmentActivity, views, ok && len(views) > 0)
}

// HandleCodebase handles GET /partials/codebase?q=.
func (s *Server) HandleCodebase(w http.ResponseWriter, r *http.Request) {
	views, ok := s.views.Codebase(r.Context(), r.URL.Query().Get("q"))
	s.render(w, r, fragmentCodebase, views, ok && len(views) > 0)
}

// chatRequest mirrors the OpenAPI schema for POST /partials/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat handles POST /partials/chat.
func (s *Server) HandleChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.chat"
	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing message", op, ErrBadRequest))
		return
	}
	view, ok := s.views.Chat(r.Context(), req.Message)
	s.render(w, r, fragmentChat, view, ok)
}

// render executes the named fragment, or the empty state when the view has
// nothing to show.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any, ok bool) {
	tmpl, payload := name, data
	if !ok {
		s.logger.Debug(r.Context(), "rendering empty state",
			logger.String("fragment", name),
			logger.Error(ErrUpstream),
		)
		tmpl, payload = fragmentEmpty, emptyMessages[name]
	}
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, tmpl, payload); err != nil {
		s.renderFailed(w, r, name, err)
		return
	}
	writeHTML(w, buf.Bytes())
	metrics.RecordFragmentRendered(tmpl)
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	err = fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	s.logger.Error(r.Context(), "fragment render failed", logger.String("fragment", name), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "render_failed", err)
}

// parseLimit accepts an empty value or an integer in [1, maxActivityLimit].
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxActivityLimit {
		return 0, fmt.Errorf("%w: limit must be an integer between 1 and %d", ErrBadRequest, maxActivityLimit)
	}
	return n, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
