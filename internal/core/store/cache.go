package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/core"
)

// GetCachedSummary returns the cached summary for a key if it is still
// within the TTL. Expired entries are deleted as a side effect and reported
// as absent. An unreadable row is likewise deleted and treated as absent,
// matching the limiter's fail-open posture.
func (s *Store) GetCachedSummary(ctx context.Context, key string, ttl time.Duration, now time.Time) (*core.CachedSummary, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("cache key is required")
	}

	var (
		pageURL   string
		summary   string
		createdAt int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT url, summary, created_at
		FROM summary_cache
		WHERE url_key = ?
	`, key)

	if err := row.Scan(&pageURL, &summary, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		// Corrupt row: remove it so the next lookup starts clean.
		_ = s.DeleteCachedSummary(ctx, key)
		return nil, fmt.Errorf("fetch cached summary: %w", err)
	}

	created := time.Unix(createdAt, 0).UTC()
	if ttl > 0 && now.Sub(created) > ttl {
		if err := s.DeleteCachedSummary(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &core.CachedSummary{
		Key:       key,
		URL:       pageURL,
		Summary:   summary,
		CreatedAt: created,
	}, nil
}

// SetCachedSummary stores a summary, overwriting any existing entry for the
// key with a fresh created_at.
func (s *Store) SetCachedSummary(ctx context.Context, key, pageURL, summary string, now time.Time) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO summary_cache (url_key, url, summary, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url_key) DO UPDATE SET
			url = excluded.url,
			summary = excluded.summary,
			created_at = excluded.created_at
	`, key, pageURL, summary, now.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store cached summary: %w", err)
	}

	return nil
}

// DeleteCachedSummary removes a cache entry by key.
func (s *Store) DeleteCachedSummary(ctx context.Context, key string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM summary_cache WHERE url_key = ?`, key); err != nil {
		return fmt.Errorf("delete cached summary: %w", err)
	}
	return nil
}

// ListCachedSummaries returns all cache rows ordered by age, newest first.
func (s *Store) ListCachedSummaries(ctx context.Context) ([]core.CachedSummary, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT url_key, url, summary, created_at
		FROM summary_cache
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list cached summaries: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	entries := []core.CachedSummary{}
	for rows.Next() {
		var (
			entry     core.CachedSummary
			createdAt int64
		)
		if err := rows.Scan(&entry.Key, &entry.URL, &entry.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cached summaries: %w", err)
		}
		entry.CreatedAt = time.Unix(createdAt, 0).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cached summaries: %w", err)
	}

	return entries, nil
}

// PurgeExpiredSummaries deletes every entry older than the TTL and returns
// the number removed.
func (s *Store) PurgeExpiredSummaries(ctx context.Context, ttl time.Duration, now time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cutoff := now.UTC().Add(-ttl).Unix()
	result, err := s.DB.ExecContext(ctx, `DELETE FROM summary_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge cached summaries: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge cached summaries: %w", err)
	}
	return affected, nil
}
