// Package site serves the portal page shells and their assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/okian/devportal/internal/sidebar"
	"github.com/okian/devportal/pkg/metrics"
)

// Error constants
var (
	ErrUnknownPage = errors.New("unknown page")
	ErrRender      = errors.New("page render failed")
)

// indexPath is the landing page.
const indexPath = "/static/index.html"

// Handler renders page shells.
type Handler struct {
	sidebar *sidebar.Renderer
}

// NewHandler creates a page handler using r for the navigation. A nil r uses
// the default renderer.
func NewHandler(r *sidebar.Renderer) *Handler {
	if r == nil {
		r = sidebar.New()
	}
	return &Handler{sidebar: r}
}

// Register attaches the page routes to mux.
func Register(_ context.Context, mux *http.ServeMux, r *sidebar.Renderer) {
	if mux == nil {
		panic("mux is nil")
	}
	h := NewHandler(r)

	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("GET /static/{page}", h.HandlePage)
	mux.Handle("GET /static/assets/", http.StripPrefix("/static/assets/", http.FileServer(FS())))
}

// HandleRoot redirects to the dashboard page.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, indexPath, http.StatusFound)
}

// HandlePage handles GET /static/{page}.html.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	body, err := h.Page(r.URL.Path)
	switch {
	case errors.Is(err, ErrUnknownPage):
		http.NotFound(w, r)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
	metrics.RecordFragmentRendered("page")
}

// Page renders the shell for the page linked at path.
func (h *Handler) Page(path string) ([]byte, error) {
	page, ok := sidebar.PageForHref(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, path)
	}
	nav := h.sidebar.Render(string(page))

	var buf bytes.Buffer
	data := shellData{
		layout:  layouts[page],
		Sidebar: template.HTML(nav), //nolint:gosec // produced by html/template
	}
	if err := shell.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, page, err)
	}
	return buf.Bytes(), nil
}
