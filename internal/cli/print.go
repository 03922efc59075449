package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/okian/devportal/internal/client"
	"github.com/okian/devportal/internal/present"
)

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printStats(out io.Writer, s *client.PlatformStats) {
	n := func(v int) string { return present.FormatNumber(int64(v)) }
	tw := table(out)
	fmt.Fprintf(tw, "Services\t%s\n", n(s.TotalServices))
	fmt.Fprintf(tw, "Developers\t%s\n", n(s.ActiveDevelopers))
	fmt.Fprintf(tw, "Uptime\t%.2f%%\n", s.UptimePercent)
	fmt.Fprintf(tw, "Deploys today\t%s\n", n(s.DeploymentsToday))
	fmt.Fprintf(tw, "Repositories\t%s\n", n(s.TotalRepos))
	fmt.Fprintf(tw, "Open incidents\t%s\n", n(s.OpenIncidents))
	fmt.Fprintf(tw, "Avg build\t%ds\n", s.AvgBuildTimeSec)
	fmt.Fprintf(tw, "Reviews pending\t%s\n", n(s.CodeReviewsPending))
	_ = tw.Flush()
}

func printProjects(out io.Writer, projects []client.Project, now time.Time) {
	tw := table(out)
	fmt.Fprintln(tw, "NAME\tSTATUS\tHEALTH\tLAST DEPLOY\tDEPLOYS\tSTACK")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Status, p.Health,
			present.TimeAgoString(p.LastDeploy, now),
			present.FormatNumber(int64(p.DeployCount)),
			strings.Join(p.TechStack, ", "),
		)
	}
	_ = tw.Flush()
}

func printActivity(out io.Writer, events []client.ActivityEvent, now time.Time) {
	for _, e := range events {
		fmt.Fprintf(out, "%s %s (%s, %s, %s)\n",
			present.ActivityIcon(e.Type), e.Title, e.Author, e.Project,
			present.TimeAgoString(e.Timestamp, now),
		)
	}
}

func printRepos(out io.Writer, repos []client.Repository, now time.Time) {
	tw := table(out)
	fmt.Fprintln(tw, "NAME\tLANGUAGE\tLINES\tCOVERAGE\tLAST COMMIT")
	for _, r := range repos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f%%\t%s\n",
			r.Name, r.Language,
			present.FormatNumber(int64(r.LinesOfCode)),
			r.TestCoverage,
			present.TimeAgoString(r.LastCommit, now),
		)
	}
	_ = tw.Flush()
}

func printRepo(out io.Writer, r *client.Repository, now time.Time) {
	tw := table(out)
	fmt.Fprintf(tw, "Name\t%s\n", r.Name)
	fmt.Fprintf(tw, "Language\t%s (%s)\n", r.Language, r.Framework)
	fmt.Fprintf(tw, "Lines\t%s\n", present.FormatNumber(int64(r.LinesOfCode)))
	fmt.Fprintf(tw, "Contributors\t%d\n", r.Contributors)
	fmt.Fprintf(tw, "Open PRs\t%d\n", r.OpenPRs)
	fmt.Fprintf(tw, "Coverage\t%.1f%%\n", r.TestCoverage)
	fmt.Fprintf(tw, "Last commit\t%s\n", present.TimeAgoString(r.LastCommit, now))
	_ = tw.Flush()
	if r.Description != "" {
		fmt.Fprintf(out, "\n%s\n", r.Description)
	}
	for _, path := range slices.Sorted(maps.Keys(r.SampleFiles)) {
		fmt.Fprintf(out, "\n--- %s\n%s\n", path, r.SampleFiles[path])
	}
}

func printChat(out io.Writer, reply *client.ChatResponse) {
	fmt.Fprintln(out, strings.TrimSpace(reply.Explanation))
	if reply.FolderStructure != "" {
		fmt.Fprintf(out, "\n%s\n", strings.TrimRight(reply.FolderStructure, "\n"))
	}
	for _, path := range slices.Sorted(maps.Keys(reply.Files)) {
		fmt.Fprintf(out, "\n--- %s\n%s\n", path, reply.Files[path])
	}
}
