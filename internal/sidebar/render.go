// Package sidebar renders the portal navigation panel. Output goes through
// html/template, so every interpolated value is escaped.
package sidebar

import (
	"bytes"
	"html/template"
	"io"
	"maps"
	"slices"
)

const sidebarTemplate = `<div class="sidebar" id="sidebar">
    <div class="sidebar-logo">
        <div class="logo-icon">⚡</div>
        <div>
            <div class="logo-text">IDP Platform</div>
            <div class="logo-sub">Developer Portal</div>
        </div>
    </div>
    <nav class="sidebar-nav">
{{- range .Sections}}
        <div class="nav-section-title">{{.Title}}</div>
{{- range .Items}}
        <a href="{{.Href}}" class="nav-item{{if .Active}} active{{end}}">
            <span class="nav-icon">{{.Icon}}</span> {{.Label}}
{{- if .Badge}}
            <span class="nav-badge{{with .BadgeKind}} {{.}}{{end}}">{{.Badge}}</span>
{{- end}}
        </a>
{{- end}}
{{- end}}
    </nav>
    <div class="sidebar-footer">
        <div class="user-info">
            <div class="user-avatar">{{.User.Initials}}</div>
            <div>
                <div class="user-name">{{.User.Name}}</div>
                <div class="user-role">{{.User.Role}}</div>
            </div>
        </div>
    </div>
</div>`

var compiled = template.Must(template.New("sidebar").Parse(sidebarTemplate))

type item struct {
	Entry
	Active bool
}

type section struct {
	Title string
	Items []item
}

type view struct {
	Sections []section
	User     User
}

// Renderer renders the sidebar with a configurable footer and badges.
// It is immutable after New and safe for concurrent use.
type Renderer struct {
	user   User
	badges map[Page]string
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithUser sets the footer identity. Empty fields keep their defaults.
func WithUser(u User) Option {
	return func(r *Renderer) {
		if u.Initials != "" {
			r.user.Initials = u.Initials
		}
		if u.Name != "" {
			r.user.Name = u.Name
		}
		if u.Role != "" {
			r.user.Role = u.Role
		}
	}
}

// WithBadge overrides the badge text of one page. An empty text hides it.
func WithBadge(page Page, text string) Option {
	return func(r *Renderer) {
		r.badges[page] = text
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{user: DefaultUser, badges: map[Page]string{}}
	for _, opt := range opts {
		opt(r)
	}
	r.badges = maps.Clone(r.badges)
	return r
}

var defaultRenderer = New()

// Render renders the default sidebar with active marked. An unknown page
// marks no entry.
func Render(active string) string {
	return defaultRenderer.Render(active)
}

// Render renders the sidebar with active marked.
func (r *Renderer) Render(active string) string {
	var buf bytes.Buffer
	// The template is static and every field is a string, so execution
	// cannot fail once parsing succeeded.
	_ = r.RenderTo(&buf, active)
	return buf.String()
}

// RenderTo renders the sidebar into w.
func (r *Renderer) RenderTo(w io.Writer, active string) error {
	return compiled.Execute(w, r.view(Page(active)))
}

func (r *Renderer) view(active Page) view {
	v := view{User: r.user}
	for _, e := range Entries {
		if text, ok := r.badges[e.Page]; ok {
			e.Badge = text
		}
		i := slices.IndexFunc(v.Sections, func(s section) bool { return s.Title == e.Section })
		if i < 0 {
			v.Sections = append(v.Sections, section{Title: e.Section})
			i = len(v.Sections) - 1
		}
		v.Sections[i].Items = append(v.Sections[i].Items, item{Entry: e, Active: e.Page == active})
	}
	return v
}
