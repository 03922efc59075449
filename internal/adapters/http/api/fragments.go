package api

import (
	"html/template"
)

// Fragment names, also used as the fragments_rendered_total label.
const (
	fragmentStats    = "stats"
	fragmentOverview = "overview"
	fragmentProjects = "projects"
	fragmentActivity = "activity"
	fragmentCodebase = "codebase"
	fragmentChat     = "chat"
	fragmentEmpty    = "empty"
)

const fragmentTemplates = `
{{define "stats"}}<div class="stats-grid">
{{- range .Cards}}
  <div class="stat-card" data-key="{{.Key}}">
    <div class="stat-value">{{.Value}}</div>
    <div class="stat-label">{{.Label}}</div>
  </div>
{{- end}}
</div>{{end}}

{{define "overview"}}<div class="overview">
  {{- if .HasStats}}{{template "stats" .Stats}}{{else}}{{template "empty" "Platform stats are unavailable right now."}}{{end}}
  <h2>Recent activity</h2>
  {{- if .Recent}}{{template "activity" .Recent}}{{else}}{{template "empty" "No recent activity."}}{{end}}
</div>{{end}}

{{define "projects"}}<div class="project-grid">
{{- range .}}
  <div class="project-card" id="{{.ID}}">
    <div class="project-header">
      <h3>{{.Name}}</h3>
      {{.Badge}}
    </div>
    <p class="project-desc">{{.Description}}</p>
    <div class="tech-stack">
    {{- range .Stack}}
      <span class="tech-tag" style="border-color: {{.Color}}">{{.Name}}</span>
    {{- end}}
    </div>
    <div class="project-meta">
      <span>👤 {{.TeamLead}} · {{.TeamSize}} people</span>
      <span>🚀 {{.LastDeploy}}</span>
      <span>{{.Deploys}} deploys</span>
      <span class="health health-{{.Health}}">{{.Health}}</span>
    </div>
  </div>
{{- end}}
</div>{{end}}

{{define "activity"}}<ul class="activity-feed">
{{- range .}}
  <li class="activity-item type-{{.Type}}" id="{{.ID}}">
    <span class="activity-icon">{{.Icon}}</span>
    <div class="activity-body">
      <div class="activity-title">{{.Title}}</div>
      <div class="activity-desc">{{.Description}}</div>
      <div class="activity-meta">{{.Author}} · {{.Project}} · {{.When}}</div>
    </div>
  </li>
{{- end}}
</ul>{{end}}

{{define "codebase"}}<div class="repo-grid">
{{- range .}}
  <div class="repo-card" data-repo="{{.Name}}">
    <h3>{{.Name}}</h3>
    <p class="repo-desc">{{.Description}}</p>
    <div class="repo-meta">
      <span class="lang"><span class="lang-dot" style="background: {{.Color}}"></span>{{.Language}}</span>
      <span>{{.Framework}}</span>
      <span>{{.Lines}} lines</span>
      <span>{{.Coverage}} coverage</span>
      <span>{{.OpenPRs}} open PRs</span>
      <span>{{.LastCommit}}</span>
    </div>
  </div>
{{- end}}
</div>{{end}}

{{define "chat"}}<div class="chat-reply">
  <div class="chat-explanation">{{.Explanation}}</div>
  {{- with .FolderStructure}}
  <pre class="folder-structure">{{.}}</pre>
  {{- end}}
  {{- range .Files}}
  <details class="generated-file">
    <summary>{{.Path}}</summary>
    <pre><code>{{.Content}}</code></pre>
  </details>
  {{- end}}
</div>{{end}}

{{define "empty"}}<div class="empty-state">{{.}}</div>{{end}}
`

var fragments = template.Must(template.New("fragments").Parse(fragmentTemplates))

// Empty-state messages per fragment.
var emptyMessages = map[string]string{
	fragmentStats:    "Platform stats are unavailable right now.",
	fragmentOverview: "The platform API is unreachable right now.",
	fragmentProjects: "No projects found.",
	fragmentActivity: "No recent activity.",
	fragmentCodebase: "No repositories match your search.",
	fragmentChat:     "The assistant is unavailable right now. Please try again.",
}
