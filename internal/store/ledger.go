package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"copydesk/internal/content"
)

// History returns an item's transition records oldest first.
func (s *Store) History(ctx context.Context, articleID string) ([]content.TransitionRecord, error) {
	query := s.sb.Select(recordColumns...).
		From("transition_records").
		Where(sq.Eq{"article_id": articleID}).
		OrderBy("seq")
	rows, err := s.queryWithRetry(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", articleID, err)
	}
	defer rows.Close()

	records := make([]content.TransitionRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CountsByTarget counts ledger records per destination status.
func (s *Store) CountsByTarget(ctx context.Context) (map[content.Status]int, error) {
	rows, err := s.queryWithRetry(ctx, s.sb.Select("to_status", "COUNT(1)").From("transition_records").GroupBy("to_status"))
	if err != nil {
		return nil, fmt.Errorf("ledger counts by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[content.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[content.Status(status)] = count
	}
	return counts, rows.Err()
}

// CountsByActor counts ledger records per actor, busiest first. Name and role
// are taken from the actor's snapshots; they only differ across records when
// the actor was renamed or changed role.
func (s *Store) CountsByActor(ctx context.Context) ([]ActorCount, error) {
	query := s.sb.Select("actor_id", "MAX(actor_name)", "MAX(actor_role)", "COUNT(1) AS total").
		From("transition_records").
		GroupBy("actor_id").
		OrderBy("total DESC", "actor_id")
	rows, err := s.queryWithRetry(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger counts by actor: %w", err)
	}
	defer rows.Close()

	var counts []ActorCount
	for rows.Next() {
		var entry ActorCount
		if err := rows.Scan(&entry.ActorID, &entry.ActorName, &entry.ActorRole, &entry.Count); err != nil {
			return nil, err
		}
		counts = append(counts, entry)
	}
	return counts, rows.Err()
}
