package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"copydesk/internal/access"
	"copydesk/internal/content"
	"copydesk/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListQuery selects a page of articles.
type ListQuery struct {
	Statuses   []content.Status
	AuthorID   string
	AssignedTo string
	Page       int
	Limit      int
}

// ArticlePage is one page of a listing.
type ArticlePage struct {
	Items      []*content.Item
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Stats summarizes the workflow for dashboards.
type Stats struct {
	ByStatus         map[content.Status]int
	TransitionsTo    map[content.Status]int
	ByActor          []store.ActorCount
	TotalItems       int
	TotalTransitions int
	GeneratedAt      time.Time
}

// AvailableTransitions lists the statuses role may move an article in
// current to.
func (e *Engine) AvailableTransitions(current content.Status, role access.Role) []content.Status {
	return e.resolver.AvailableTransitions(current, role)
}

// Article loads a single article.
func (e *Engine) Article(ctx context.Context, itemID string) (*content.Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, newError(KindInvalidArgument, nil, "article id is required")
	}
	return e.load(ctx, itemID)
}

// History returns an article's ledger oldest first.
func (e *Engine) History(ctx context.Context, itemID string) ([]content.TransitionRecord, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, newError(KindInvalidArgument, nil, "article id is required")
	}
	if _, err := e.load(ctx, itemID); err != nil {
		return nil, err
	}
	records, err := e.repo.History(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

// Articles returns a page of articles. Page defaults to 1 and Limit to 20,
// capped at 100.
func (e *Engine) Articles(ctx context.Context, q ListQuery) (ArticlePage, error) {
	for _, status := range q.Statuses {
		if !status.Valid() {
			return ArticlePage{}, newError(KindInvalidArgument, nil, "unknown status %q", status)
		}
	}
	page, limit := normalizePage(q.Page, q.Limit)
	items, total, err := e.repo.ListItems(ctx, store.ListFilter{
		Statuses:   q.Statuses,
		AuthorID:   strings.TrimSpace(q.AuthorID),
		AssignedTo: strings.TrimSpace(q.AssignedTo),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return ArticlePage{}, fmt.Errorf("list articles: %w", err)
	}
	if items == nil {
		items = []*content.Item{}
	}
	return ArticlePage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	return page, limit
}

// Stats returns workflow statistics, served from the stats cache while fresh.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	return e.stats.Get(ctx, e.computeStats)
}

func (e *Engine) computeStats(ctx context.Context) (Stats, error) {
	byStatus, err := e.repo.CountsByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	byTarget, err := e.repo.CountsByTarget(ctx)
	if err != nil {
		return Stats{}, err
	}
	byActor, err := e.repo.CountsByActor(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ByStatus:      make(map[content.Status]int, len(content.AllStatuses())),
		TransitionsTo: byTarget,
		ByActor:       byActor,
		GeneratedAt:   e.Now(),
	}
	for _, status := range content.AllStatuses() {
		stats.ByStatus[status] = byStatus[status]
		stats.TotalItems += byStatus[status]
	}
	for _, count := range byTarget {
		stats.TotalTransitions += count
	}
	return stats, nil
}

// LedgerIssue is an article whose stored status disagrees with its history.
type LedgerIssue struct {
	ArticleID string
	Stored    content.Status
	Replayed  content.Status
	Detail    string
}

// LedgerReport is the result of VerifyLedger.
type LedgerReport struct {
	Checked int
	Issues  []LedgerIssue
}

// VerifyLedger replays every article's history and reports articles whose
// current status is not the last recorded destination, or whose records do
// not form a path through the graph.
func (e *Engine) VerifyLedger(ctx context.Context) (LedgerReport, error) {
	ids, err := e.repo.ItemIDs(ctx)
	if err != nil {
		return LedgerReport{}, fmt.Errorf("list articles: %w", err)
	}
	var report LedgerReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		item, err := e.repo.GetByID(ctx, id)
		if err != nil {
			return report, fmt.Errorf("load article %s: %w", id, err)
		}
		if item == nil {
			continue
		}
		records, err := e.repo.History(ctx, id)
		if err != nil {
			return report, fmt.Errorf("load history %s: %w", id, err)
		}
		report.Checked++
		if len(records) == 0 {
			continue
		}
		replayed, err := content.Replay("", records)
		if err != nil {
			report.Issues = append(report.Issues, LedgerIssue{
				ArticleID: id,
				Stored:    item.Status,
				Detail:    err.Error(),
			})
			continue
		}
		if replayed != item.Status {
			report.Issues = append(report.Issues, LedgerIssue{
				ArticleID: id,
				Stored:    item.Status,
				Replayed:  replayed,
				Detail:    fmt.Sprintf("stored status %s, ledger ends at %s", item.Status, replayed),
			})
		}
	}
	return report, nil
}
