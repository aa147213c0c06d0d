//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	s, err := Open(ctx, config.StoreConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestClientQuotaRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	record, err := s.GetClientQuota(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.Nil(t, record)

	now := int64(1_700_000_000)
	stored := &core.ClientRecord{
		Requests:    []int64{now - 120, now - 60, now},
		LastRequest: now,
	}
	require.NoError(t, s.PutClientQuota(ctx, "203.0.113.7", stored, now))

	record, err = s.GetClientQuota(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, stored.Requests, record.Requests)
	require.Equal(t, now, record.LastRequest)
}

func TestClientQuotaOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutClientQuota(ctx, "cli", &core.ClientRecord{Requests: []int64{1}, LastRequest: 1}, 1))
	require.NoError(t, s.PutClientQuota(ctx, "cli", &core.ClientRecord{Requests: []int64{1, 2}, LastRequest: 2}, 2))

	record, err := s.GetClientQuota(ctx, "cli")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, record.Requests)
	require.Equal(t, int64(2), record.LastRequest)
}

func TestClientQuotaCorruptHistoryFailsRead(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO client_quotas (client_id, requests, last_request, updated_at)
		VALUES ('broken', 'not-json', 42, 42)
	`)
	require.NoError(t, err)

	_, err = s.GetClientQuota(ctx, "broken")
	require.Error(t, err)
}

func TestQuotaAdminQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutClientQuota(ctx, "10.0.0.1", &core.ClientRecord{Requests: []int64{5}, LastRequest: 5}, 5))
	require.NoError(t, s.PutClientQuota(ctx, "10.0.0.2", &core.ClientRecord{Requests: []int64{9}, LastRequest: 9}, 9))
	require.NoError(t, s.PutClientQuota(ctx, "192.168.1.1", &core.ClientRecord{Requests: []int64{7}, LastRequest: 7}, 7))

	entries, err := s.ListClientQuotas(ctx, QuotaQuery{Prefix: "10.0."})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "10.0.0.1", entries[0].ClientID)

	count, err := s.CountClientQuotas(ctx, QuotaQuery{All: true})
	require.NoError(t, err)
	require.Equal(t, 3, count)

	removed, err := s.ResetClientQuotas(ctx, QuotaQuery{ClientID: "192.168.1.1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	count, err = s.CountClientQuotas(ctx, QuotaQuery{All: true})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestPruneIdleClients(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	stale := now.Add(-48 * time.Hour).Unix()
	fresh := now.Add(-time.Hour).Unix()
	require.NoError(t, s.PutClientQuota(ctx, "stale", &core.ClientRecord{Requests: []int64{stale}, LastRequest: stale}, stale))
	require.NoError(t, s.PutClientQuota(ctx, "fresh", &core.ClientRecord{Requests: []int64{fresh}, LastRequest: fresh}, fresh))

	removed, err := s.PruneIdleClients(ctx, 24*time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	record, err := s.GetClientQuota(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, record)

	record, err = s.GetClientQuota(ctx, "stale")
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	ttl := 24 * time.Hour

	entry, err := s.GetCachedSummary(ctx, "k1", ttl, now)
	require.NoError(t, err)
	require.Nil(t, entry)

	require.NoError(t, s.SetCachedSummary(ctx, "k1", "https://example.com", "**summary**", now))

	entry, err = s.GetCachedSummary(ctx, "k1", ttl, now)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "**summary**", entry.Summary)
	require.Equal(t, "https://example.com", entry.URL)
}

func TestSummaryCacheExpiryDeletesEntry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ttl := 24 * time.Hour
	created := time.Unix(1_700_000_000, 0).UTC()

	require.NoError(t, s.SetCachedSummary(ctx, "k1", "https://example.com", "old", created))

	// One second past the TTL: absent, and deleted as a side effect.
	later := created.Add(ttl + time.Second)
	entry, err := s.GetCachedSummary(ctx, "k1", ttl, later)
	require.NoError(t, err)
	require.Nil(t, entry)

	var count int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM summary_cache`).Scan(&count))
	require.Equal(t, 0, count)
}

func TestPurgeExpiredSummaries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ttl := time.Hour
	now := time.Unix(1_700_000_000, 0).UTC()

	require.NoError(t, s.SetCachedSummary(ctx, "old", "https://a.example", "a", now.Add(-2*time.Hour)))
	require.NoError(t, s.SetCachedSummary(ctx, "new", "https://b.example", "b", now))

	removed, err := s.PurgeExpiredSummaries(ctx, ttl, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	entries, err := s.ListCachedSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "new", entries[0].Key)
}
