package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"copydesk/internal/api"
	"copydesk/internal/content"
)

func newWorkflowCommand(ctx *commandContext) *cobra.Command {
	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Workflow statistics and maintenance",
	}

	workflowCmd.AddCommand(newWorkflowStatsCommand(ctx))
	workflowCmd.AddCommand(newWorkflowVerifyCommand(ctx))
	workflowCmd.AddCommand(newWorkflowPublishScheduledCommand(ctx))

	return workflowCmd
}

func newWorkflowStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show article counts and transition activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.WorkflowService) error {
				stats, err := svc.GetWorkflowStats(cmd.Context())
				if err != nil {
					return err
				}
				return emit(ctx, cmd, stats, func() error {
					fmt.Fprint(cmd.OutOrStdout(), statusStatsTable(stats))
					if len(stats.ByActor) > 0 {
						fmt.Fprint(cmd.OutOrStdout(), actorStatsTable(stats.ByActor))
					}
					return nil
				})
			})
		},
	}
}

func newWorkflowVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Replay every article's ledger and report mismatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.WorkflowService) error {
				report, err := svc.VerifyLedger(cmd.Context())
				if err != nil {
					return err
				}
				if err := emit(ctx, cmd, report, func() error {
					out := cmd.OutOrStdout()
					if len(report.Issues) == 0 {
						fmt.Fprintf(out, "Ledger consistent for %d %s\n", report.Checked, plural(report.Checked, "article", "articles"))
						return nil
					}
					rows := make([][]string, 0, len(report.Issues))
					for _, issue := range report.Issues {
						rows = append(rows, []string{issue.ArticleID, issue.Stored, dash(issue.Replayed), issue.Detail})
					}
					fmt.Fprint(out, tableSpec{
						headers: []string{"Article", "Stored", "Replayed", "Detail"},
						rows:    rows,
					}.render())
					return nil
				}); err != nil {
					return err
				}
				if len(report.Issues) > 0 {
					return fmt.Errorf("ledger verification found %d %s", len(report.Issues), plural(len(report.Issues), "issue", "issues"))
				}
				return nil
			})
		},
	}
}

func newWorkflowPublishScheduledCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish-scheduled",
		Short: "Publish scheduled articles whose time has come",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.WorkflowService) error {
				report, err := svc.ProcessScheduledPublications(cmd.Context())
				if err != nil {
					return err
				}
				return emit(ctx, cmd, report, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Published %d, skipped %d, failed %d\n", len(report.Published), len(report.Skipped), len(report.Errors))
					for _, id := range report.Published {
						fmt.Fprintf(out, "  published %s\n", id)
					}
					for _, failure := range report.Errors {
						fmt.Fprintf(out, "  failed %s: %s\n", failure.ArticleID, failure.Message)
					}
					return nil
				})
			})
		},
	}
}

func statusStatsTable(stats api.Stats) string {
	rows := make([][]string, 0, len(stats.ByStatus))
	for _, status := range content.AllStatuses() {
		key := string(status)
		rows = append(rows, []string{
			status.Label(),
			strconv.Itoa(stats.ByStatus[key]),
			strconv.Itoa(stats.TransitionsTo[key]),
		})
	}
	return tableSpec{
		headers: []string{"Status", "Articles", "Transitions in"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
		rows:    rows,
		footer:  fmt.Sprintf("%d articles, %d transitions", stats.TotalItems, stats.TotalTransitions),
	}.render()
}

func actorStatsTable(entries []api.ActorStats) string {
	sorted := append([]api.ActorStats(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	rows := make([][]string, 0, len(sorted))
	for _, entry := range sorted {
		rows = append(rows, []string{dash(entry.ActorName), entry.ActorID, dash(entry.ActorRole), strconv.Itoa(entry.Count)})
	}
	return tableSpec{
		headers: []string{"Actor", "ID", "Role", "Transitions"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		rows:    rows,
	}.render()
}
