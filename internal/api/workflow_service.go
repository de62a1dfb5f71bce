package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"copydesk/internal/access"
	"copydesk/internal/content"
	"copydesk/internal/logging"
	"copydesk/internal/services"
	"copydesk/internal/workflow"
)

const internalMessage = "internal error; check logs for details"

// WorkflowService adapts the workflow engine to transport types.
type WorkflowService struct {
	engine *workflow.Engine
	logger *slog.Logger
}

// NewWorkflowService wraps engine. A nil logger discards output.
func NewWorkflowService(engine *workflow.Engine, logger *slog.Logger) *WorkflowService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WorkflowService{engine: engine, logger: logging.NewComponentLogger(logger, "api")}
}

// TransitionStatus moves an article to req.ToStatus.
func (s *WorkflowService) TransitionStatus(ctx context.Context, req TransitionRequest) TransitionResponse {
	ctx = s.requestContext(ctx, "transition_status", req.ArticleID)
	actor, ok := callerActor(req.Actor)
	if !ok {
		resp := s.reservedRole(ctx, req.Actor)
		return TransitionResponse{Success: false, Message: resp.Message, Kind: resp.Kind}
	}
	to := parseStatus(req.ToStatus)
	item, err := s.engine.Transition(ctx, req.ArticleID, to, actor, workflow.Options{
		Reason:       req.Reason,
		Feedback:     req.Feedback,
		PublishedAt:  req.PublishedAt,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		resp := s.failure(ctx, "transition failed", err)
		return TransitionResponse{Success: false, Message: resp.Message, Kind: resp.Kind}
	}
	article := FromItem(item)
	return TransitionResponse{
		Success: true,
		Message: fmt.Sprintf("Article moved to %s", item.Status.Label()),
		Item:    &article,
	}
}

// AssignArticle changes the article's assignee.
func (s *WorkflowService) AssignArticle(ctx context.Context, req AssignRequest) Response {
	ctx = s.requestContext(ctx, "assign_article", req.ArticleID)
	actor, ok := callerActor(req.Actor)
	if !ok {
		return s.reservedRole(ctx, req.Actor)
	}
	if _, err := s.engine.Assign(ctx, req.ArticleID, req.AssigneeID, actor); err != nil {
		return s.failure(ctx, "assignment failed", err)
	}
	return Response{Success: true, Message: fmt.Sprintf("Article assigned to %s", req.AssigneeID)}
}

// CreateArticle inserts a new article in draft or ingestion_pending.
func (s *WorkflowService) CreateArticle(ctx context.Context, req CreateArticleRequest) (*Article, Response) {
	ctx = s.requestContext(ctx, "create_article", "")
	actor, ok := callerActor(req.Actor)
	if !ok {
		return nil, s.reservedRole(ctx, req.Actor)
	}
	item, err := s.engine.Create(ctx, workflow.NewArticle{
		Title:      req.Title,
		AuthorID:   req.AuthorID,
		AssignedTo: req.AssignedTo,
		Status:     parseStatus(req.Status),
	}, actor)
	if err != nil {
		return nil, s.failure(ctx, "create failed", err)
	}
	article := FromItem(item)
	return &article, Response{Success: true, Message: fmt.Sprintf("Article %s created", item.ID)}
}

// GetArticle returns a single article.
func (s *WorkflowService) GetArticle(ctx context.Context, articleID string) (Article, error) {
	ctx = s.requestContext(ctx, "get_article", articleID)
	item, err := s.engine.Article(ctx, articleID)
	if err != nil {
		return Article{}, s.queryError(ctx, "load article", err)
	}
	return FromItem(item), nil
}

// GetArticlesByStatus lists articles in any of statuses. An empty slice
// lists every status.
func (s *WorkflowService) GetArticlesByStatus(ctx context.Context, statuses []string, opts ListOptions) (ArticleList, error) {
	ctx = s.requestContext(ctx, "get_articles_by_status", "")
	query := workflow.ListQuery{
		AuthorID:   opts.UserID,
		AssignedTo: opts.AssignedTo,
		Page:       opts.Page,
		Limit:      opts.Limit,
	}
	for _, raw := range statuses {
		query.Statuses = append(query.Statuses, parseStatus(raw))
	}
	page, err := s.engine.Articles(ctx, query)
	if err != nil {
		return ArticleList{}, s.queryError(ctx, "list articles", err)
	}
	return FromPage(page), nil
}

// GetWorkflowHistory returns an article's ledger oldest first.
func (s *WorkflowService) GetWorkflowHistory(ctx context.Context, articleID string) ([]TransitionRecord, error) {
	ctx = s.requestContext(ctx, "get_workflow_history", articleID)
	records, err := s.engine.History(ctx, articleID)
	if err != nil {
		return nil, s.queryError(ctx, "load history", err)
	}
	return FromRecords(records), nil
}

// GetAvailableTransitions lists the statuses role may move an article in
// current to. Unknown inputs yield an empty list.
func (s *WorkflowService) GetAvailableTransitions(current, role string) []string {
	parsed := parseRole(role)
	if parsed == access.RoleSystemScheduler {
		return []string{}
	}
	return StatusStrings(s.engine.AvailableTransitions(parseStatus(current), parsed))
}

// GetWorkflowStats returns the dashboard summary.
func (s *WorkflowService) GetWorkflowStats(ctx context.Context) (Stats, error) {
	ctx = s.requestContext(ctx, "get_workflow_stats", "")
	stats, err := s.engine.Stats(ctx)
	if err != nil {
		return Stats{}, s.queryError(ctx, "compute stats", err)
	}
	return FromStats(stats), nil
}

// ProcessScheduledPublications runs one reconciler sweep.
func (s *WorkflowService) ProcessScheduledPublications(ctx context.Context) (ReconcileReport, error) {
	ctx = s.requestContext(ctx, "process_scheduled_publications", "")
	report, err := s.engine.ProcessScheduled(ctx)
	if err != nil {
		return FromReconcileReport(report), s.queryError(ctx, "process scheduled publications", err)
	}
	return FromReconcileReport(report), nil
}

// VerifyLedger replays every article's history against its stored status.
func (s *WorkflowService) VerifyLedger(ctx context.Context) (LedgerReport, error) {
	ctx = s.requestContext(ctx, "verify_ledger", "")
	report, err := s.engine.VerifyLedger(ctx)
	if err != nil {
		return LedgerReport{}, s.queryError(ctx, "verify ledger", err)
	}
	return FromLedgerReport(report), nil
}

func (s *WorkflowService) requestContext(ctx context.Context, op, articleID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithOperation(ctx, op)
	return services.WithItemID(ctx, articleID)
}

// failure maps err to a response. Workflow errors carry their own message;
// anything else is logged and reported generically.
func (s *WorkflowService) failure(ctx context.Context, msg string, err error) Response {
	kind := workflow.KindOf(err)
	if kind == "" {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), msg, "api_internal_error",
			logging.Error(err),
		)
		return Response{Success: false, Message: internalMessage, Kind: KindInternal}
	}
	if kind == workflow.KindLedgerWriteFailed {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), msg, "api_ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, string(kind)),
		)
	}
	return Response{Success: false, Message: workflow.UserMessage(err), Kind: string(kind)}
}

// queryError passes workflow errors through and logs the rest.
func (s *WorkflowService) queryError(ctx context.Context, msg string, err error) error {
	if workflow.KindOf(err) == "" {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), msg+" failed", "api_internal_error",
			logging.Error(err),
		)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// callerActor converts a transport actor. It reports false when the caller
// claims the system scheduler role, which only the in-process reconciler holds.
func callerActor(in Actor) (workflow.Actor, bool) {
	actor := workflow.Actor{ID: in.ID, Name: in.Name, Role: parseRole(in.Role)}
	return actor, actor.Role != access.RoleSystemScheduler
}

func (s *WorkflowService) reservedRole(ctx context.Context, in Actor) Response {
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "caller claimed the system scheduler role", "reserved_role_rejected",
		logging.String(logging.FieldActorID, in.ID),
		logging.String(logging.FieldErrorKind, string(workflow.KindForbidden)),
		logging.String(logging.FieldErrorHint, "scheduled publication runs in the daemon; use a human role"),
		logging.String(logging.FieldImpact, "request rejected"),
	)
	return Response{
		Success: false,
		Message: "the system scheduler role is reserved for scheduled publication",
		Kind:    string(workflow.KindForbidden),
	}
}

// parseRole normalizes known aliases and keeps unknown roles verbatim so the
// resolver can reject them.
func parseRole(raw string) access.Role {
	role, err := access.ParseRole(raw)
	if err != nil {
		return access.Role(raw)
	}
	return role
}

func parseStatus(raw string) content.Status {
	status, ok := content.ParseStatus(raw)
	if !ok {
		return content.Status(raw)
	}
	return status
}
