// Package service turns platform API payloads into display-ready views for
// the portal pages. It owns no state beyond its dependencies. Views are
// upstream requests followed by pure formatting.
package service

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/sync/errgroup"

	"github.com/okian/devportal/internal/client"
	"github.com/okian/devportal/internal/present"
	"github.com/okian/devportal/pkg/logger"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 50
)

// Source is the subset of the request client the views need.
type Source interface {
	StatsInfo(ctx context.Context) (*client.PlatformStats, bool)
	ProjectList(ctx context.Context, status string) ([]client.Project, bool)
	ActivityFeed(ctx context.Context, eventType string, limit int) ([]client.ActivityEvent, bool)
	Repositories(ctx context.Context, query string) ([]client.Repository, bool)
	ChatReply(ctx context.Context, message string) (*client.ChatResponse, bool)
}

// emptySource answers every call with no data.
type emptySource struct{}

func (emptySource) StatsInfo(context.Context) (*client.PlatformStats, bool) { return nil, false }
func (emptySource) ProjectList(context.Context, string) ([]client.Project, bool) {
	return nil, false
}
func (emptySource) ActivityFeed(context.Context, string, int) ([]client.ActivityEvent, bool) {
	return nil, false
}
func (emptySource) Repositories(context.Context, string) ([]client.Repository, bool) {
	return nil, false
}
func (emptySource) ChatReply(context.Context, string) (*client.ChatResponse, bool) { return nil, false }

// Service builds page views from a Source.
type Service struct {
	source        Source
	clock         func() time.Time
	colors        present.Lookup
	activityLimit int
	logger        logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClient sets the upstream source.
func WithClient(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithClock sets the time source used for relative timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLanguageColors merges overrides into the language color table.
func WithLanguageColors(overrides map[string]string) Option {
	return func(s *Service) {
		if len(overrides) > 0 {
			s.colors = s.colors.With(overrides)
		}
	}
}

// WithActivityLimit sets the feed size used when a caller passes no limit.
func WithActivityLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.activityLimit = min(limit, maxActivityLimit)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithClient every view reports no data.
func New(opts ...Option) *Service {
	s := &Service{
		source:        emptySource{},
		clock:         time.Now,
		colors:        present.LanguageColors,
		activityLimit: defaultActivityLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.New(os.Stderr).Named("views")
	}
	return s
}

// StatCard is one tile of the dashboard header.
type StatCard struct {
	Key   string
	Label string
	Value string
}

// StatsView is the dashboard header.
type StatsView struct {
	Cards []StatCard
}

// Dashboard builds the stat tiles. ok is false when no data is available.
func (s *Service) Dashboard(ctx context.Context) (StatsView, bool) {
	stats, ok := s.source.StatsInfo(ctx)
	if !ok {
		return StatsView{}, false
	}
	n := func(v int) string { return present.FormatNumber(int64(v)) }
	return StatsView{Cards: []StatCard{
		{Key: "total_services", Label: "Services", Value: n(stats.TotalServices)},
		{Key: "active_developers", Label: "Developers", Value: n(stats.ActiveDevelopers)},
		{Key: "uptime_percent", Label: "Uptime", Value: fmt.Sprintf("%.2f%%", stats.UptimePercent)},
		{Key: "deployments_today", Label: "Deploys Today", Value: n(stats.DeploymentsToday)},
		{Key: "total_repos", Label: "Repositories", Value: n(stats.TotalRepos)},
		{Key: "open_incidents", Label: "Open Incidents", Value: n(stats.OpenIncidents)},
		{Key: "avg_build_time_sec", Label: "Avg Build", Value: formatSeconds(stats.AvgBuildTimeSec)},
		{Key: "code_reviews_pending", Label: "Reviews Pending", Value: n(stats.CodeReviewsPending)},
	}}, true
}

// OverviewView is the dashboard landing content.
type OverviewView struct {
	Stats    StatsView
	HasStats bool
	Recent   []ActivityView
}

// overviewRecent is the number of events shown on the landing page.
const overviewRecent = 5

// Overview fetches the stat tiles and the latest events concurrently. ok is
// false only when both are unavailable.
func (s *Service) Overview(ctx context.Context) (OverviewView, bool) {
	var (
		view      OverviewView
		hasRecent bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Stats, view.HasStats = s.Dashboard(gctx)
		return nil
	})
	g.Go(func() error {
		view.Recent, hasRecent = s.Activity(gctx, "", overviewRecent)
		return nil
	})
	_ = g.Wait()
	return view, view.HasStats || hasRecent
}

// Chip is a colored tag.
type Chip struct {
	Name  string
	Color string
}

// ProjectView is one project card.
type ProjectView struct {
	ID          string
	Name        string
	Description string
	Badge       template.HTML
	Health      string
	TeamLead    string
	TeamSize    int
	LastDeploy  string
	Deploys     string
	Stack       []Chip
	Repo        string
}

// Projects builds the project cards, filtered by status when set.
func (s *Service) Projects(ctx context.Context, status string) ([]ProjectView, bool) {
	projects, ok := s.source.ProjectList(ctx, status)
	if !ok {
		return nil, false
	}
	now := s.clock()
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		stack := make([]Chip, 0, len(p.TechStack))
		for _, tech := range p.TechStack {
			stack = append(stack, Chip{Name: tech, Color: s.colors.Get(tech)})
		}
		views = append(views, ProjectView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			// StatusBadge escapes its input.
			Badge:      template.HTML(present.StatusBadge(p.Status)), //nolint:gosec // escaped above
			Health:     p.Health,
			TeamLead:   p.TeamLead,
			TeamSize:   p.TeamSize,
			LastDeploy: present.TimeAgoString(p.LastDeploy, now),
			Deploys:    present.FormatNumber(int64(p.DeployCount)),
			Stack:      stack,
			Repo:       p.Repo,
		})
	}
	return views, true
}

// ActivityView is one feed row.
type ActivityView struct {
	ID          string
	Icon        string
	Type        string
	Title       string
	Description string
	Author      string
	Project     string
	Status      string
	When        string
}

// Activity builds the feed. A limit of zero uses the configured default.
func (s *Service) Activity(ctx context.Context, eventType string, limit int) ([]ActivityView, bool) {
	if limit <= 0 {
		limit = s.activityLimit
	}
	events, ok := s.source.ActivityFeed(ctx, eventType, limit)
	if !ok {
		return nil, false
	}
	now := s.clock()
	views := make([]ActivityView, 0, len(events))
	for _, e := range events {
		views = append(views, ActivityView{
			ID:          e.ID,
			Icon:        present.ActivityIcon(e.Type),
			Type:        e.Type,
			Title:       e.Title,
			Description: e.Description,
			Author:      e.Author,
			Project:     e.Project,
			Status:      e.Status,
			When:        present.TimeAgoString(e.Timestamp, now),
		})
	}
	return views, true
}

// RepoView is one codebase card.
type RepoView struct {
	Name         string
	Language     string
	Color        string
	Framework    string
	Lines        string
	Contributors int
	OpenPRs      int
	Branches     int
	Coverage     string
	LastCommit   string
	Description  string
}

// Codebase builds the repository cards matching query.
func (s *Service) Codebase(ctx context.Context, query string) ([]RepoView, bool) {
	repos, ok := s.source.Repositories(ctx, query)
	if !ok {
		return nil, false
	}
	now := s.clock()
	views := make([]RepoView, 0, len(repos))
	for _, r := range repos {
		views = append(views, RepoView{
			Name:         r.Name,
			Language:     r.Language,
			Color:        s.colors.Get(r.Language),
			Framework:    r.Framework,
			Lines:        present.FormatNumber(int64(r.LinesOfCode)),
			Contributors: r.Contributors,
			OpenPRs:      r.OpenPRs,
			Branches:     r.BranchCount,
			Coverage:     fmt.Sprintf("%.1f%%", r.TestCoverage),
			LastCommit:   present.TimeAgoString(r.LastCommit, now),
			Description:  r.Description,
		})
	}
	return views, true
}

// FileView is one generated file of a chat reply.
type FileView struct {
	Path    string
	Content string
}

// ChatView is the rendered assistant reply.
type ChatView struct {
	Explanation     template.HTML
	FolderStructure string
	Files           []FileView
}

// Chat sends message to the assistant and renders its reply.
func (s *Service) Chat(ctx context.Context, message string) (ChatView, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatView{}, false
	}
	reply, ok := s.source.ChatReply(ctx, message)
	if !ok {
		return ChatView{}, false
	}
	paths := make([]string, 0, len(reply.Files))
	for p := range reply.Files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	files := make([]FileView, 0, len(paths))
	for _, p := range paths {
		files = append(files, FileView{Path: p, Content: reply.Files[p]})
	}
	s.logger.Debug(ctx, "chat reply rendered", logger.Int("files", len(files)))
	return ChatView{
		Explanation:     RenderMarkdown(reply.Explanation),
		FolderStructure: reply.FolderStructure,
		Files:           files,
	}, true
}

// RenderMarkdown converts assistant Markdown into HTML. Raw HTML in the
// source is dropped and links are restricted to safe protocols.
func RenderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.SkipHTML | mdhtml.Safelink | mdhtml.HrefTargetBlank | mdhtml.NofollowLinks,
	})
	return template.HTML(markdown.ToHTML([]byte(src), p, r)) //nolint:gosec // sanitized by SkipHTML
}

func formatSeconds(sec int) string {
	d := time.Duration(sec) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", sec)
	}
	return fmt.Sprintf("%dm %ds", sec/60, sec%60)
}
