package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// CommitTransition writes the item's new status fields and appends the ledger
// record in one transaction. The update only applies while the stored status
// still equals commit.From; otherwise nothing is written and
// ErrStatusConflict is returned. On success the record's ID and Seq are set.
func (s *Store) CommitTransition(ctx context.Context, commit TransitionCommit) error {
	if commit.Item == nil || commit.Record == nil {
		return errors.New("commit transition: item and record are required")
	}
	if commit.Record.ArticleID != commit.Item.ID {
		return fmt.Errorf("commit transition: record article %q does not match item %q", commit.Record.ArticleID, commit.Item.ID)
	}
	if strings.TrimSpace(commit.Record.ID) == "" {
		commit.Record.ID = uuid.NewString()
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		return s.commitTransitionTx(ctx, commit)
	})
}

func (s *Store) commitTransitionTx(ctx context.Context, commit TransitionCommit) error {
	item, record := commit.Item, commit.Record

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	update, args, err := s.sb.Update("content_items").
		Set("status", string(item.Status)).
		Set("published_at", nullableTime(item.PublishedAt)).
		Set("scheduled_for", nullableTime(item.ScheduledFor)).
		Set("updated_at", formatTime(item.UpdatedAt)).
		Where(sq.Eq{"id": item.ID, "status": string(commit.From)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}
	res, err := tx.ExecContext(ctx, update, args...)
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item status rows: %w", err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	seqQuery, seqArgs, err := s.sb.Select("COALESCE(MAX(seq), 0) + 1").
		From("transition_records").
		Where(sq.Eq{"article_id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build seq query: %w", err)
	}
	var seq int64
	if err := tx.QueryRowContext(ctx, seqQuery, seqArgs...).Scan(&seq); err != nil {
		return fmt.Errorf("%w: next seq: %w", ErrLedgerAppend, err)
	}

	insert, insertArgs, err := s.sb.Insert("transition_records").
		Columns(recordColumns...).
		Values(
			record.ID,
			record.ArticleID,
			seq,
			string(record.FromStatus),
			string(record.ToStatus),
			record.ActorID,
			record.ActorName,
			record.ActorRole,
			nullableString(record.Reason),
			nullableString(record.Feedback),
			formatTime(record.CreatedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ledger insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, insertArgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerAppend, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	record.Seq = seq
	return nil
}
