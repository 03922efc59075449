package site

import (
	"html/template"

	"github.com/okian/devportal/internal/sidebar"
)

// panel is one content container filled from a partial on load.
type panel struct {
	Title   string
	Partial string
}

// layout describes the content area of one page.
type layout struct {
	Title  string
	Panels []panel
	Chat   bool
	Upload bool
}

var layouts = map[sidebar.Page]layout{
	sidebar.PageHome: {Title: "Dashboard", Panels: []panel{
		{Title: "Platform", Partial: "/partials/overview"},
	}},
	sidebar.PageChatbot: {Title: "AI Chatbot", Chat: true},
	sidebar.PageCodebase: {Title: "Codebase", Panels: []panel{
		{Title: "Repositories", Partial: "/partials/codebase"},
	}},
	sidebar.PageProjects: {Title: "Projects", Panels: []panel{
		{Title: "All projects", Partial: "/partials/projects"},
	}},
	sidebar.PageActivity: {Title: "Activity", Panels: []panel{
		{Title: "Feed", Partial: "/partials/activity"},
	}},
	sidebar.PageUpload: {Title: "Upload Codebase", Upload: true},
}

type shellData struct {
	layout
	Sidebar template.HTML
}

const shellTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}} · IDP Platform</title>
  <link rel="stylesheet" href="/static/assets/portal.css">
</head>
<body>
{{.Sidebar}}
<main class="main">
  <h1>{{.Title}}</h1>
{{- range .Panels}}
  <section class="panel">
    <h2>{{.Title}}</h2>
    <div data-partial="{{.Partial}}"><div class="empty-state">Loading…</div></div>
  </section>
{{- end}}
{{- if .Chat}}
  <form class="chat-form">
    <textarea name="message" placeholder="Describe the service you want to build"></textarea>
    <button type="submit">Send</button>
  </form>
  <div id="chat-output"></div>
{{- end}}
{{- if .Upload}}
  <div class="empty-state">Codebase upload is not available yet.</div>
{{- end}}
</main>
<script src="/static/assets/portal.js"></script>
</body>
</html>`

var shell = template.Must(template.New("shell").Parse(shellTemplate))
