package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"copydesk/internal/content"
)

// CountsByStatus returns the number of items currently in each status.
func (s *Store) CountsByStatus(ctx context.Context) (map[content.Status]int, error) {
	rows, err := s.queryWithRetry(ctx, s.sb.Select("status", "COUNT(1)").From("content_items").GroupBy("status"))
	if err != nil {
		return nil, fmt.Errorf("item stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[content.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[content.Status(status)] = count
	}
	return stats, rows.Err()
}

// CheckHealth returns diagnostic information about the database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{
		Driver:          s.dialect.name,
		Location:        s.location,
		ExpectedVersion: schemaVersion,
	}
	if s.db == nil {
		return health, errors.New("database connection unavailable")
	}

	if s.dialect.name == sqliteDialect.name {
		info, err := os.Stat(s.location)
		if err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("stat database: %w", err)
		}
		if info.IsDir() {
			return health, fmt.Errorf("database path %q is a directory", s.location)
		}
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping database: %w", err)
	}
	health.Reachable = true

	version, err := s.SchemaVersion(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.SchemaVersion = version

	for table, dest := range map[string]*int{
		"content_items":      &health.ItemCount,
		"transition_records": &health.RecordCount,
	} {
		rows, err := s.queryWithRetry(connCtx, s.sb.Select("COUNT(1)").From(table))
		if err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count %s: %w", table, err)
		}
		if rows.Next() {
			err = rows.Scan(dest)
		}
		rows.Close()
		if err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return health, nil
}
