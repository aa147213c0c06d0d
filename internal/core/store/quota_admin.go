package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/core"
)

// QuotaEntry pairs a client identifier with its persisted record.
type QuotaEntry struct {
	ClientID string
	Record   core.ClientRecord
}

// QuotaQuery selects client quota rows for admin operations.
type QuotaQuery struct {
	All      bool
	ClientID string
	Prefix   string
}

func (q QuotaQuery) Validate() error {
	if q.All {
		return nil
	}
	if strings.TrimSpace(q.ClientID) != "" {
		return nil
	}
	if strings.TrimSpace(q.Prefix) != "" {
		return nil
	}
	return errors.New("must specify --all, --client, or --prefix")
}

func (q QuotaQuery) whereClause() (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	if q.All {
		return "", nil, nil
	}
	if clientID := strings.TrimSpace(q.ClientID); clientID != "" {
		return "WHERE client_id = ?", []any{clientID}, nil
	}
	prefix := strings.TrimSpace(q.Prefix)
	if prefix == "" {
		return "", nil, errors.New("prefix is required")
	}
	return "WHERE client_id LIKE ?", []any{prefix + "%"}, nil
}

// ListClientQuotas returns persisted quota records matching the query.
func (s *Store) ListClientQuotas(ctx context.Context, q QuotaQuery) ([]QuotaEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT client_id, requests, last_request
		FROM client_quotas
		%s
		ORDER BY client_id
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list client quotas: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	entries := []QuotaEntry{}
	for rows.Next() {
		var (
			clientID     string
			requestsJSON string
			lastRequest  int64
		)
		if err := rows.Scan(&clientID, &requestsJSON, &lastRequest); err != nil {
			return nil, fmt.Errorf("scan client quotas: %w", err)
		}

		record := core.ClientRecord{LastRequest: lastRequest}
		if err := decodeRequests(requestsJSON, &record.Requests); err != nil {
			// Malformed history rows are listed with an empty history
			// rather than aborting the whole listing.
			record.Requests = nil
		}

		entries = append(entries, QuotaEntry{ClientID: clientID, Record: record})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list client quotas: %w", err)
	}

	return entries, nil
}

// CountClientQuotas returns the number of quota rows matching the query.
func (s *Store) CountClientQuotas(ctx context.Context, q QuotaQuery) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*)
		FROM client_quotas
		%s
	`, where), args...)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count client quotas: %w", err)
	}
	return count, nil
}

// ResetClientQuotas deletes quota rows matching the query and returns how
// many were removed.
func (s *Store) ResetClientQuotas(ctx context.Context, q QuotaQuery) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	where, args, err := q.whereClause()
	if err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM client_quotas
		%s
	`, where), args...)
	if err != nil {
		return 0, fmt.Errorf("reset client quotas: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset client quotas: %w", err)
	}
	return affected, nil
}

// PruneIdleClients deletes records for clients whose most recent request is
// older than the retention window. Quota records are otherwise never
// deleted by the request path, so this bounds long-term growth.
func (s *Store) PruneIdleClients(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cutoff := now.UTC().Add(-retention).Unix()
	result, err := s.DB.ExecContext(ctx, `DELETE FROM client_quotas WHERE last_request < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune idle clients: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune idle clients: %w", err)
	}
	return affected, nil
}

func decodeRequests(raw string, out *[]int64) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}
