package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/core"
)

// GetClientQuota returns the persisted quota record for a client, or nil if
// the client has never been recorded. A malformed request history is
// reported as an error; callers are expected to fail open to an empty
// record.
func (s *Store) GetClientQuota(ctx context.Context, clientID string) (*core.ClientRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("client id is required")
	}

	var (
		requestsJSON string
		lastRequest  int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT requests, last_request
		FROM client_quotas
		WHERE client_id = ?
	`, clientID)

	if err := row.Scan(&requestsJSON, &lastRequest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch client quota: %w", err)
	}

	var requests []int64
	if requestsJSON != "" {
		if err := json.Unmarshal([]byte(requestsJSON), &requests); err != nil {
			return nil, fmt.Errorf("decode client quota: %w", err)
		}
	}

	return &core.ClientRecord{
		Requests:    requests,
		LastRequest: lastRequest,
	}, nil
}

// PutClientQuota persists a quota record for a client, overwriting any
// previous record.
func (s *Store) PutClientQuota(ctx context.Context, clientID string, record *core.ClientRecord, now int64) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return errors.New("client id is required")
	}
	if record == nil {
		return errors.New("client record is required")
	}

	requests := record.Requests
	if requests == nil {
		requests = []int64{}
	}
	requestsJSON, err := json.Marshal(requests)
	if err != nil {
		return fmt.Errorf("encode client quota: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO client_quotas (client_id, requests, last_request, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			requests = excluded.requests,
			last_request = excluded.last_request,
			updated_at = excluded.updated_at
	`, clientID, string(requestsJSON), record.LastRequest, now)
	if err != nil {
		return fmt.Errorf("store client quota: %w", err)
	}

	return nil
}
