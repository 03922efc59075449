// Package cli implements portalctl, a terminal front for the platform API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/devportal/internal/client"
	"github.com/okian/devportal/internal/config"
	"github.com/okian/devportal/pkg/logger"
)

// ErrNoData reports that the API returned nothing usable.
var ErrNoData = errors.New("no data")

// Run executes portalctl with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNoData):
		fmt.Fprintln(stdout, "no data")
		return ExitNoData
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return ExitUsage
	}
}

// NewRootCmd builds the portalctl command tree. Flag defaults come from the
// portal configuration so DEVPORTAL_* variables apply here too.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	defaults := config.New()
	var cfg Config

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Query the internal developer platform API from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			// Explicit flags win over configuration.
			if !cmd.Flags().Changed("url") {
				cfg.BaseURL = loaded.APIBaseURL
			}
			if !cmd.Flags().Changed("timeout") {
				cfg.Timeout = time.Duration(loaded.RequestTimeoutMS) * time.Millisecond
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.BaseURL, "url", defaults.APIBaseURL, "Base URL of the platform API")
	flags.DurationVar(&cfg.Timeout, "timeout", time.Duration(defaults.RequestTimeoutMS)*time.Millisecond, "HTTP request timeout")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Log debug diagnostics")

	newClient := func() *client.Client {
		level := slog.LevelError
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		return client.New(cfg.BaseURL,
			client.WithTimeout(cfg.Timeout),
			client.WithLogger(logger.NewWithLevel(stderr, level).Named("portalctl")),
			client.WithUserAgent("portalctl"),
		)
	}

	root.AddCommand(
		newStatsCmd(newClient),
		newProjectsCmd(newClient),
		newActivityCmd(newClient),
		newCodebaseCmd(newClient),
		newRepoCmd(newClient),
		newChatCmd(newClient),
	)
	return root
}

type clientFactory func() *client.Client

func newStatsCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Platform summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, ok := newClient().StatsInfo(cmd.Context())
			if !ok {
				return ErrNoData
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func newProjectsCmd(newClient clientFactory) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Projects, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, ok := newClient().ProjectList(cmd.Context(), status)
			if !ok {
				return ErrNoData
			}
			printProjects(cmd.OutOrStdout(), projects, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by project status")
	return cmd
}

func newActivityCmd(newClient clientFactory) *cobra.Command {
	var eventType string
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Recent activity events",
		Long: `Recent activity events, newest first.

Example: portalctl activity --type deploy --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, ok := newClient().ActivityFeed(cmd.Context(), eventType, limit)
			if !ok {
				return ErrNoData
			}
			printActivity(cmd.OutOrStdout(), events, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "Filter by event type: deploy|pr_merged|incident|code_review")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events (server default when unset)")
	return cmd
}

func newCodebaseCmd(newClient clientFactory) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "codebase",
		Short: "Repositories matching a search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repos, ok := newClient().Repositories(cmd.Context(), query)
			if !ok {
				return ErrNoData
			}
			printRepos(cmd.OutOrStdout(), repos, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search by name, language or framework")
	return cmd
}

func newRepoCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "repo [name]",
		Short: "One repository with its sample files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, ok := newClient().Repository(cmd.Context(), args[0])
			if !ok {
				return ErrNoData
			}
			printRepo(cmd.OutOrStdout(), repo, time.Now())
			return nil
		},
	}
}

func newChatCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message...]",
		Short: "Ask the assistant to scaffold a service",
		Long: `Send a message to the assistant and print its explanation, folder
structure and generated files.

Example: portalctl chat build a payments service in Go`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return errors.New("chat needs a non-empty message")
			}
			reply, ok := newClient().ChatReply(cmd.Context(), message)
			if !ok {
				return ErrNoData
			}
			printChat(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
