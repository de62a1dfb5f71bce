package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"copydesk/internal/api"
)

func newArticleCommand(ctx *commandContext) *cobra.Command {
	articleCmd := &cobra.Command{
		Use:     "article",
		Aliases: []string{"articles"},
		Short:   "Create, inspect, and move articles through the workflow",
	}

	articleCmd.AddCommand(newArticleCreateCommand(ctx))
	articleCmd.AddCommand(newArticleShowCommand(ctx))
	articleCmd.AddCommand(newArticleListCommand(ctx))
	articleCmd.AddCommand(newArticleTransitionCommand(ctx))
	articleCmd.AddCommand(newArticleAssignCommand(ctx))
	articleCmd.AddCommand(newArticleHistoryCommand(ctx))
	articleCmd.AddCommand(newArticleAvailableCommand(ctx))

	return articleCmd
}

func newArticleCreateCommand(ctx *commandContext) *cobra.Command {
	var authorID string
	var assignee string
	var ingest bool

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a draft article",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			req := api.CreateArticleRequest{
				Title:      strings.Join(args, " "),
				AuthorID:   authorID,
				AssignedTo: assignee,
				Actor:      actor,
			}
			if ingest {
				req.Status = "ingestion_pending"
			}
			return ctx.withService(func(svc *api.WorkflowService) error {
				article, resp := svc.CreateArticle(cmd.Context(), req)
				if !resp.Success {
					return responseError(resp)
				}
				return emit(ctx, cmd, article, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Created article %s (%s)\n", article.ID, article.StatusLabel)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&authorID, "author", "", "Author ID (defaults to the acting user)")
	cmd.Flags().StringVar(&assignee, "assign", "", "Initial assignee ID")
	cmd.Flags().BoolVar(&ingest, "ingest", false, "Create in ingestion_pending instead of draft")
	return cmd
}

func newArticleShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.WorkflowService) error {
				article, err := svc.GetArticle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return emit(ctx, cmd, article, func() error {
					fmt.Fprint(cmd.OutOrStdout(), renderArticleDetail(article, shouldColorize(cmd.OutOrStdout())))
					return nil
				})
			})
		},
	}
}

func newArticleListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var opts api.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.WorkflowService) error {
				list, err := svc.GetArticlesByStatus(cmd.Context(), statuses, opts)
				if err != nil {
					return err
				}
				return emit(ctx, cmd, list, func() error {
					out := cmd.OutOrStdout()
					if list.Total == 0 {
						fmt.Fprintln(out, "No articles found")
						return nil
					}
					fmt.Fprint(out, articleTable(list))
					return nil
				})
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (repeatable or comma separated)")
	cmd.Flags().StringVar(&opts.UserID, "author", "", "Filter by author ID")
	cmd.Flags().StringVar(&opts.AssignedTo, "assigned-to", "", "Filter by assignee ID")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Items per page (max 100)")
	return cmd
}

func newArticleTransitionCommand(ctx *commandContext) *cobra.Command {
	var reason string
	var feedback string
	var scheduledFor string
	var publishedAt string

	cmd := &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Move an article to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			req := api.TransitionRequest{
				ArticleID: args[0],
				ToStatus:  args[1],
				Actor:     actor,
				Reason:    reason,
				Feedback:  feedback,
			}
			if req.ScheduledFor, err = parseTimeFlag("at", scheduledFor); err != nil {
				return err
			}
			if req.PublishedAt, err = parseTimeFlag("published-at", publishedAt); err != nil {
				return err
			}
			return ctx.withService(func(svc *api.WorkflowService) error {
				resp := svc.TransitionStatus(cmd.Context(), req)
				if err := emit(ctx, cmd, resp, func() error {
					if resp.Success {
						fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
					}
					return nil
				}); err != nil {
					return err
				}
				if !resp.Success {
					return responseError(api.Response{Message: resp.Message, Kind: resp.Kind})
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the ledger")
	cmd.Flags().StringVar(&feedback, "feedback", "", "Reviewer feedback (required for changes_requested)")
	cmd.Flags().StringVar(&scheduledFor, "at", "", "Publication time for scheduled (RFC3339)")
	cmd.Flags().StringVar(&publishedAt, "published-at", "", "Backdated publication time (RFC3339)")
	return cmd
}

func newArticleAssignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <assignee>",
		Short: "Change an article's assignee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.WorkflowService) error {
				resp := svc.AssignArticle(cmd.Context(), api.AssignRequest{
					ArticleID:  args[0],
					AssigneeID: args[1],
					Actor:      actor,
				})
				if !resp.Success {
					return responseError(resp)
				}
				return emit(ctx, cmd, resp, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
					return nil
				})
			})
		},
	}
}

func newArticleHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show an article's workflow history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.WorkflowService) error {
				records, err := svc.GetWorkflowHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return emit(ctx, cmd, records, func() error {
					out := cmd.OutOrStdout()
					if len(records) == 0 {
						fmt.Fprintln(out, "No transitions recorded")
						return nil
					}
					fmt.Fprint(out, historyTable(records))
					return nil
				})
			})
		},
	}
}

func newArticleAvailableCommand(ctx *commandContext) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "available [id]",
		Short: "List the statuses the acting role may move an article to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (strings.TrimSpace(from) == "") {
				return errors.New("provide either an article id or --from")
			}
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *api.WorkflowService) error {
				current := from
				if len(args) == 1 {
					article, err := svc.GetArticle(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					current = article.Status
				}
				targets := svc.GetAvailableTransitions(current, actor.Role)
				return emit(ctx, cmd, targets, func() error {
					out := cmd.OutOrStdout()
					if len(targets) == 0 {
						fmt.Fprintf(out, "No transitions available from %s for role %s\n", current, actor.Role)
						return nil
					}
					for _, target := range targets {
						fmt.Fprintln(out, target)
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Current status, instead of looking up an article")
	return cmd
}

func articleTable(list api.ArticleList) string {
	rows := make([][]string, 0, len(list.Items))
	for _, a := range list.Items {
		rows = append(rows, []string{
			a.ID,
			truncate(a.Title, 40),
			a.StatusLabel,
			dash(a.AuthorID),
			dash(a.AssignedTo),
			dash(shortTime(a.UpdatedAt)),
		})
	}
	return tableSpec{
		headers: []string{"ID", "Title", "Status", "Author", "Assigned", "Updated"},
		rows:    rows,
		footer: fmt.Sprintf("Page %d of %d, %d %s",
			list.Pagination.Page, max(list.Pagination.TotalPages, 1), list.Total, plural(list.Total, "article", "articles")),
	}.render()
}

func historyTable(records []api.TransitionRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		actor := r.ActorID
		if r.ActorName != "" {
			actor = r.ActorName
		}
		note := r.Reason
		if r.Feedback != "" {
			note = "feedback: " + r.Feedback
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.Seq, 10),
			shortTime(r.CreatedAt),
			r.FromStatus + " -> " + r.ToStatus,
			actor + " (" + r.ActorRole + ")",
			dash(truncate(note, 50)),
		})
	}
	return tableSpec{
		headers: []string{"#", "When", "Transition", "Actor", "Note"},
		aligns:  []columnAlignment{alignRight},
		rows:    rows,
	}.render()
}

func renderArticleDetail(a api.Article, colorize bool) string {
	var b strings.Builder
	fields := []struct{ label, value string }{
		{"ID", a.ID},
		{"Title", a.Title},
		{"Status", paint(a.StatusLabel, articleStatusKind(a.Status), colorize)},
		{"Author", a.AuthorID},
		{"Editor", a.EditorID},
		{"Assigned to", a.AssignedTo},
		{"Scheduled for", a.ScheduledFor},
		{"Published at", a.PublishedAt},
		{"Created", a.CreatedAt},
		{"Updated", a.UpdatedAt},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%-14s %s\n", f.label+":", f.value)
	}
	return b.String()
}

func responseError(resp api.Response) error {
	if resp.Kind == "" {
		return errors.New(resp.Message)
	}
	return fmt.Errorf("%s [%s]", resp.Message, resp.Kind)
}

func parseTimeFlag(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("--%s: expected RFC3339 time such as 2026-03-01T09:00:00Z: %w", name, err)
	}
	return &t, nil
}
