package api_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"copydesk/internal/api"
	"copydesk/internal/content"
	"copydesk/internal/store"
	"copydesk/internal/testsupport"
	"copydesk/internal/workflow"
)

var (
	authorActor   = api.Actor{ID: "u-author", Name: "Ann Author", Role: "author"}
	reviewerActor = api.Actor{ID: "u-reviewer", Name: "Rita Reviewer", Role: "reviewer"}
	chiefActor    = api.Actor{ID: "u-chief", Name: "Cleo Chief", Role: "Chief-Editor"}
)

var epoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*api.WorkflowService, *store.Store, *testsupport.ManualClock) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	clock := testsupport.NewManualClock(epoch)
	engine := workflow.NewEngine(st, &testsupport.RecordingNotifier{}, nil, workflow.WithClock(clock))
	t.Cleanup(engine.Wait)
	return api.NewWorkflowService(engine, nil), st, clock
}

func createArticle(t *testing.T, svc *api.WorkflowService, title string) *api.Article {
	t.Helper()
	article, resp := svc.CreateArticle(context.Background(), api.CreateArticleRequest{Title: title, Actor: authorActor})
	if !resp.Success || article == nil {
		t.Fatalf("CreateArticle failed: %+v", resp)
	}
	return article
}

func TestTransitionStatusSuccess(t *testing.T) {
	svc, _, _ := newService(t)
	article := createArticle(t, svc, "Budget vote")

	resp := svc.TransitionStatus(context.Background(), api.TransitionRequest{
		ArticleID: article.ID,
		ToStatus:  "review",
		Actor:     authorActor,
		Reason:    "ready",
	})
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.Item == nil || resp.Item.Status != "review" || resp.Item.StatusLabel != "Review" {
		t.Fatalf("unexpected item: %+v", resp.Item)
	}
	if resp.Message != "Article moved to Review" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	history, err := svc.GetWorkflowHistory(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("GetWorkflowHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one record, got %d", len(history))
	}
	rec := history[0]
	if rec.FromStatus != "draft" || rec.ToStatus != "review" || rec.Seq != 1 || rec.Reason != "ready" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt != "2026-03-01T10:00:00.000Z" {
		t.Fatalf("unexpected timestamp %q", rec.CreatedAt)
	}
}

func TestTransitionStatusReportsKind(t *testing.T) {
	svc, _, _ := newService(t)
	article := createArticle(t, svc, "Budget vote")

	cases := []struct {
		name string
		req  api.TransitionRequest
		kind string
	}{
		{"illegal", api.TransitionRequest{ArticleID: article.ID, ToStatus: "published", Actor: chiefActor}, string(workflow.KindIllegalTransition)},
		{"forbidden", api.TransitionRequest{ArticleID: article.ID, ToStatus: "review", Actor: reviewerActor}, string(workflow.KindForbidden)},
		{"unknown status", api.TransitionRequest{ArticleID: article.ID, ToStatus: "live", Actor: authorActor}, string(workflow.KindInvalidArgument)},
		{"missing", api.TransitionRequest{ArticleID: "nope", ToStatus: "review", Actor: authorActor}, string(workflow.KindNotFound)},
		{"unknown role", api.TransitionRequest{ArticleID: article.ID, ToStatus: "review", Actor: api.Actor{ID: "x", Role: "intern"}}, string(workflow.KindForbidden)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := svc.TransitionStatus(context.Background(), tc.req)
			if resp.Success {
				t.Fatalf("expected failure")
			}
			if resp.Kind != tc.kind {
				t.Fatalf("kind = %q, want %q (message %q)", resp.Kind, tc.kind, resp.Message)
			}
			if resp.Message == "" || resp.Item != nil {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestTransitionStatusInternalErrorIsGeneric(t *testing.T) {
	svc, st, _ := newService(t)
	article := createArticle(t, svc, "Budget vote")
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	resp := svc.TransitionStatus(context.Background(), api.TransitionRequest{ArticleID: article.ID, ToStatus: "review", Actor: authorActor})
	if resp.Success || resp.Kind != api.KindInternal {
		t.Fatalf("expected internal failure, got %+v", resp)
	}
	if resp.Message != "internal error; check logs for details" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestScheduleAndPublishThroughService(t *testing.T) {
	svc, _, clock := newService(t)
	ctx := context.Background()
	article := createArticle(t, svc, "Election night")

	steps := []api.TransitionRequest{
		{ArticleID: article.ID, ToStatus: "review", Actor: authorActor},
		{ArticleID: article.ID, ToStatus: "approved", Actor: reviewerActor},
	}
	for _, step := range steps {
		if resp := svc.TransitionStatus(ctx, step); !resp.Success {
			t.Fatalf("step to %s failed: %+v", step.ToStatus, resp)
		}
	}
	when := epoch.Add(time.Hour)
	resp := svc.TransitionStatus(ctx, api.TransitionRequest{ArticleID: article.ID, ToStatus: "scheduled", Actor: chiefActor, ScheduledFor: &when})
	if !resp.Success || resp.Item.ScheduledFor != "2026-03-01T11:00:00.000Z" {
		t.Fatalf("schedule failed: %+v", resp)
	}

	clock.Advance(2 * time.Hour)
	report, err := svc.ProcessScheduledPublications(ctx)
	if err != nil {
		t.Fatalf("ProcessScheduledPublications: %v", err)
	}
	if !reflect.DeepEqual(report.Published, []string{article.ID}) || len(report.Errors) != 0 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	list, err := svc.GetArticlesByStatus(ctx, []string{"published"}, api.ListOptions{})
	if err != nil {
		t.Fatalf("GetArticlesByStatus: %v", err)
	}
	if list.Total != 1 || list.Items[0].ID != article.ID || list.Items[0].PublishedAt == "" || list.Items[0].ScheduledFor != "" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestCallersCannotClaimSchedulerRole(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	article := createArticle(t, svc, "Embargoed budget")
	steps := []api.TransitionRequest{
		{ArticleID: article.ID, ToStatus: "review", Actor: authorActor},
		{ArticleID: article.ID, ToStatus: "approved", Actor: reviewerActor},
	}
	for _, step := range steps {
		if resp := svc.TransitionStatus(ctx, step); !resp.Success {
			t.Fatalf("step to %s failed: %+v", step.ToStatus, resp)
		}
	}
	when := epoch.Add(48 * time.Hour)
	if resp := svc.TransitionStatus(ctx, api.TransitionRequest{ArticleID: article.ID, ToStatus: "scheduled", Actor: chiefActor, ScheduledFor: &when}); !resp.Success {
		t.Fatalf("schedule failed: %+v", resp)
	}

	for _, role := range []string{"system-scheduler", "System-Scheduler", "scheduler", "system_scheduler"} {
		caller := api.Actor{ID: "mallory", Name: "Mallory", Role: role}
		resp := svc.TransitionStatus(ctx, api.TransitionRequest{ArticleID: article.ID, ToStatus: "published", Actor: caller})
		if resp.Success || resp.Kind != string(workflow.KindForbidden) {
			t.Fatalf("role %q: expected forbidden, got %+v", role, resp)
		}
		assign := svc.AssignArticle(ctx, api.AssignRequest{ArticleID: article.ID, AssigneeID: "mallory", Actor: caller})
		if assign.Success || assign.Kind != string(workflow.KindForbidden) {
			t.Fatalf("role %q: expected forbidden assignment, got %+v", role, assign)
		}
		if got := svc.GetAvailableTransitions("scheduled", role); len(got) != 0 {
			t.Fatalf("role %q: expected no transitions offered, got %v", role, got)
		}
	}

	stored, err := st.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != content.StatusScheduled || stored.PublishedAt != nil || stored.AssignedTo != "" {
		t.Fatalf("expected article untouched, got %#v", stored)
	}
}

func TestAssignArticle(t *testing.T) {
	svc, _, _ := newService(t)
	article := createArticle(t, svc, "Budget vote")

	resp := svc.AssignArticle(context.Background(), api.AssignRequest{ArticleID: article.ID, AssigneeID: "u-editor", Actor: chiefActor})
	if !resp.Success || resp.Message != "Article assigned to u-editor" {
		t.Fatalf("unexpected response %+v", resp)
	}
	resp = svc.AssignArticle(context.Background(), api.AssignRequest{ArticleID: article.ID, AssigneeID: "u-editor", Actor: authorActor})
	if resp.Success || resp.Kind != string(workflow.KindForbidden) {
		t.Fatalf("expected forbidden, got %+v", resp)
	}

	list, err := svc.GetArticlesByStatus(context.Background(), nil, api.ListOptions{AssignedTo: "u-editor"})
	if err != nil {
		t.Fatalf("GetArticlesByStatus: %v", err)
	}
	if list.Total != 1 || list.Items[0].AssignedTo != "u-editor" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestGetArticlesByStatusPagination(t *testing.T) {
	svc, st, _ := newService(t)
	for i := 0; i < 5; i++ {
		testsupport.NewArticle(t, st, "Draft", content.StatusDraft, testsupport.WithUpdatedAt(epoch.Add(time.Duration(i)*time.Minute)))
	}
	testsupport.NewArticle(t, st, "Other", content.StatusReview)

	list, err := svc.GetArticlesByStatus(context.Background(), []string{"draft"}, api.ListOptions{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("GetArticlesByStatus: %v", err)
	}
	want := api.Pagination{Page: 2, Limit: 2, TotalPages: 3, HasNext: true, HasPrev: true}
	if list.Pagination != want || list.Total != 5 || len(list.Items) != 2 {
		t.Fatalf("unexpected page %+v", list)
	}

	if _, err := svc.GetArticlesByStatus(context.Background(), []string{"bogus"}, api.ListOptions{}); !errors.Is(err, workflow.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGetAvailableTransitions(t *testing.T) {
	svc, _, _ := newService(t)

	if got := svc.GetAvailableTransitions("approved", "chief-editor"); !reflect.DeepEqual(got, []string{"published", "scheduled"}) {
		t.Fatalf("chief editor from approved: %v", got)
	}
	if got := svc.GetAvailableTransitions("scheduled", "admin"); !reflect.DeepEqual(got, []string{"archived"}) {
		t.Fatalf("admin from scheduled: %v", got)
	}
	if got := svc.GetAvailableTransitions("draft", "intern"); len(got) != 0 {
		t.Fatalf("unknown role should get nothing, got %v", got)
	}
	if got := svc.GetAvailableTransitions("nowhere", "admin"); len(got) != 0 {
		t.Fatalf("unknown status should get nothing, got %v", got)
	}
}

func TestGetWorkflowStats(t *testing.T) {
	svc, _, _ := newService(t)
	article := createArticle(t, svc, "Budget vote")
	createArticle(t, svc, "Transit plan")
	if resp := svc.TransitionStatus(context.Background(), api.TransitionRequest{ArticleID: article.ID, ToStatus: "review", Actor: authorActor}); !resp.Success {
		t.Fatalf("transition failed: %+v", resp)
	}

	stats, err := svc.GetWorkflowStats(context.Background())
	if err != nil {
		t.Fatalf("GetWorkflowStats: %v", err)
	}
	if stats.TotalItems != 2 || stats.TotalTransitions != 1 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.ByStatus["draft"] != 1 || stats.ByStatus["review"] != 1 || stats.ByStatus["archived"] != 0 {
		t.Fatalf("unexpected by-status %v", stats.ByStatus)
	}
	if _, ok := stats.ByStatus["archived"]; !ok {
		t.Fatalf("every status should be present")
	}
	if stats.TransitionsTo["review"] != 1 {
		t.Fatalf("unexpected transitions %v", stats.TransitionsTo)
	}
	if len(stats.ByActor) != 1 || stats.ByActor[0].ActorID != "u-author" || stats.ByActor[0].Count != 1 {
		t.Fatalf("unexpected by-actor %+v", stats.ByActor)
	}
}

func TestGetWorkflowHistoryNotFound(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.GetWorkflowHistory(context.Background(), "missing"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVerifyLedgerThroughService(t *testing.T) {
	svc, st, _ := newService(t)
	createArticle(t, svc, "Clean")
	// Seeded mid-lifecycle with no history: nothing to replay.
	testsupport.NewArticle(t, st, "Seeded", content.StatusApproved)

	report, err := svc.VerifyLedger(context.Background())
	if err != nil {
		t.Fatalf("VerifyLedger: %v", err)
	}
	if report.Checked != 2 || len(report.Issues) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestCreateArticleValidation(t *testing.T) {
	svc, _, _ := newService(t)

	_, resp := svc.CreateArticle(context.Background(), api.CreateArticleRequest{Title: " ", Actor: authorActor})
	if resp.Success || resp.Kind != string(workflow.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %+v", resp)
	}
	_, resp = svc.CreateArticle(context.Background(), api.CreateArticleRequest{Title: "Wire copy", Status: "review", Actor: authorActor})
	if resp.Success || resp.Kind != string(workflow.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for review start, got %+v", resp)
	}
	article, resp := svc.CreateArticle(context.Background(), api.CreateArticleRequest{Title: "Wire copy", Status: "ingestion-pending", Actor: authorActor})
	if !resp.Success || article.Status != "ingestion_pending" || article.AuthorID != "u-author" {
		t.Fatalf("unexpected create result %+v %+v", article, resp)
	}
}

func TestGetArticle(t *testing.T) {
	svc, _, _ := newService(t)
	created := createArticle(t, svc, "Budget vote")

	got, err := svc.GetArticle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if got.ID != created.ID || got.Title != "Budget vote" || got.Status != "draft" {
		t.Fatalf("unexpected article %+v", got)
	}
	if _, err := svc.GetArticle(context.Background(), "missing"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetArticle(context.Background(), ""); !errors.Is(err, workflow.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
