package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/devportal/pkg/logger"
)

// Endpoint paths of the platform API.
const (
	PathStats    = "/api/stats"
	PathProjects = "/api/projects"
	PathActivity = "/api/activity"
	PathCodebase = "/api/codebase"
	PathChat     = "/chat"

	// routeRepo labels repository detail requests without the name segment.
	routeRepo = PathCodebase + "/{name}"
)

// StatsPath returns the path of the platform stats endpoint.
func StatsPath() string { return PathStats }

// ProjectsPath returns the projects path, filtered by status when set.
func ProjectsPath(status string) string {
	if status == "" {
		return PathProjects
	}
	return PathProjects + "?status=" + encodeComponent(status)
}

// ActivityPath returns the activity path. event_type precedes limit; each is
// included only when set, and a limit of zero or less counts as unset.
func ActivityPath(eventType string, limit int) string {
	params := make([]string, 0, 2)
	if eventType != "" {
		params = append(params, "event_type="+encodeComponent(eventType))
	}
	if limit > 0 {
		params = append(params, "limit="+strconv.Itoa(limit))
	}
	if len(params) == 0 {
		return PathActivity
	}
	return PathActivity + "?" + strings.Join(params, "&")
}

// CodebasePath returns the codebase search path with q percent-encoded.
func CodebasePath(query string) string {
	if query == "" {
		return PathCodebase
	}
	return PathCodebase + "?q=" + encodeComponent(query)
}

// RepoPath returns the detail path of one repository.
func RepoPath(name string) string {
	return PathCodebase + "/" + url.PathEscape(name)
}

// ChatPath returns the path of the chat endpoint.
func ChatPath() string { return PathChat }

// encodeComponent percent-encodes s for use as a query value, with spaces
// as %20 rather than '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Stats fetches the platform stats payload.
func (c *Client) Stats(ctx context.Context) any {
	return c.Get(ctx, StatsPath())
}

// Projects fetches the project list, optionally filtered by status.
func (c *Client) Projects(ctx context.Context, status string) any {
	return c.Get(ctx, ProjectsPath(status))
}

// Activity fetches the activity feed, optionally filtered by event type and
// capped by limit.
func (c *Client) Activity(ctx context.Context, eventType string, limit int) any {
	return c.Get(ctx, ActivityPath(eventType, limit))
}

// Codebase searches repositories by free text.
func (c *Client) Codebase(ctx context.Context, query string) any {
	return c.Get(ctx, CodebasePath(query))
}

// Repo fetches the detail payload of one repository.
func (c *Client) Repo(ctx context.Context, name string) any {
	var payload any
	if !c.call(ctx, http.MethodGet, RepoPath(name), routeRepo, nil, &payload) {
		return nil
	}
	return payload
}

// Chat posts a message to the assistant.
func (c *Client) Chat(ctx context.Context, message string) any {
	return c.Post(ctx, ChatPath(), ChatRequest{Message: message})
}

// StatsInfo is the typed form of Stats.
func (c *Client) StatsInfo(ctx context.Context) (*PlatformStats, bool) {
	var stats PlatformStats
	if !c.GetInto(ctx, StatsPath(), &stats) {
		return nil, false
	}
	return &stats, true
}

// ProjectList is the typed form of Projects.
func (c *Client) ProjectList(ctx context.Context, status string) ([]Project, bool) {
	var projects []Project
	if !c.GetInto(ctx, ProjectsPath(status), &projects) {
		return nil, false
	}
	return projects, true
}

// ActivityFeed is the typed form of Activity.
func (c *Client) ActivityFeed(ctx context.Context, eventType string, limit int) ([]ActivityEvent, bool) {
	var events []ActivityEvent
	if !c.GetInto(ctx, ActivityPath(eventType, limit), &events) {
		return nil, false
	}
	return events, true
}

// Repositories is the typed form of Codebase.
func (c *Client) Repositories(ctx context.Context, query string) ([]Repository, bool) {
	var repos []Repository
	if !c.GetInto(ctx, CodebasePath(query), &repos) {
		return nil, false
	}
	return repos, true
}

// Repository is the typed form of Repo. The server answers an unknown name
// with 200 and an error body; that is reported as a miss.
func (c *Client) Repository(ctx context.Context, name string) (*Repository, bool) {
	var repo Repository
	if !c.call(ctx, http.MethodGet, RepoPath(name), routeRepo, nil, &repo) {
		return nil, false
	}
	if repo.Error != "" {
		c.logger.Debug(ctx, "repository not found",
			logger.String("endpoint", RepoPath(name)),
			logger.String("reason", repo.Error),
		)
		return nil, false
	}
	return &repo, true
}

// ChatReply is the typed form of Chat.
func (c *Client) ChatReply(ctx context.Context, message string) (*ChatResponse, bool) {
	var reply ChatResponse
	if !c.PostInto(ctx, ChatPath(), ChatRequest{Message: message}, &reply) {
		return nil, false
	}
	return &reply, true
}
