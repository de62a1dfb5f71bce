package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"copydesk/internal/content"
)

// CreateItem inserts a new item. An empty ID is replaced with a UUID and zero
// timestamps default to now.
func (s *Store) CreateItem(ctx context.Context, item *content.Item) error {
	if item == nil {
		return errors.New("create item: nil item")
	}
	if !item.Status.Valid() {
		return fmt.Errorf("create item: invalid status %q", item.Status)
	}
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	insert := s.sb.Insert("content_items").
		Columns(itemColumns...).
		Values(
			item.ID,
			item.Title,
			string(item.Status),
			nullableString(item.AuthorID),
			nullableString(item.EditorID),
			nullableString(item.AssignedTo),
			nullableTime(item.PublishedAt),
			nullableTime(item.ScheduledFor),
			formatTime(item.CreatedAt),
			formatTime(item.UpdatedAt),
		)
	if _, err := s.execWithRetry(ctx, insert); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID fetches an item. It returns nil, nil when the item does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*content.Item, error) {
	query, args, err := s.sb.Select(itemColumns...).From("content_items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}
	var item *content.Item
	err = retryOnBusy(ensureContext(ctx), func() error {
		var scanErr error
		item, scanErr = scanItem(s.db.QueryRowContext(ensureContext(ctx), query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

// ListItems returns a page of items matching filter together with the total
// number of matches. Items are ordered by most recent update first.
func (s *Store) ListItems(ctx context.Context, filter ListFilter) ([]*content.Item, int, error) {
	where := sq.And{}
	if len(filter.Statuses) > 0 {
		where = append(where, sq.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.AuthorID != "" {
		where = append(where, sq.Eq{"author_id": filter.AuthorID})
	}
	if filter.AssignedTo != "" {
		where = append(where, sq.Eq{"assigned_to": filter.AssignedTo})
	}

	countQuery := s.sb.Select("COUNT(1)").From("content_items")
	listQuery := s.sb.Select(itemColumns...).From("content_items").OrderBy("updated_at DESC", "id")
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
		listQuery = listQuery.Where(where)
	}
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		listQuery = listQuery.Offset(uint64(filter.Offset))
	}

	var total int
	rows, err := s.queryWithRetry(ctx, countQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan item count: %w", err)
		}
	}
	rows.Close()

	items, err := s.collectItems(ctx, listQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// DueScheduled returns scheduled items whose scheduled time is at or before
// now, oldest first.
func (s *Store) DueScheduled(ctx context.Context, now time.Time) ([]*content.Item, error) {
	query := s.sb.Select(itemColumns...).
		From("content_items").
		Where(sq.Eq{"status": string(content.StatusScheduled)}).
		Where(sq.NotEq{"scheduled_for": nil}).
		Where(sq.LtOrEq{"scheduled_for": formatTime(now)}).
		OrderBy("scheduled_for", "id")
	items, err := s.collectItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("due scheduled items: %w", err)
	}
	return items, nil
}

// ItemIDs returns every stored item ID sorted lexically.
func (s *Store) ItemIDs(ctx context.Context) ([]string, error) {
	rows, err := s.queryWithRetry(ctx, s.sb.Select("id").From("content_items").OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("list item ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateAssignment sets the assignee without touching status. It returns
// ErrNotFound when the item does not exist.
func (s *Store) UpdateAssignment(ctx context.Context, id, assignee string, updatedAt time.Time) error {
	update := s.sb.Update("content_items").
		Set("assigned_to", nullableString(assignee)).
		Set("updated_at", formatTime(updatedAt)).
		Where(sq.Eq{"id": id})
	res, err := s.execWithRetry(ctx, update)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) collectItems(ctx context.Context, query sq.Sqlizer) ([]*content.Item, error) {
	rows, err := s.queryWithRetry(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
