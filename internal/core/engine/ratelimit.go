package engine

import (
	"context"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/core"
)

const (
	// retentionWindow bounds how far back request history is kept. The
	// daily limit is evaluated over this same sliding window, not a
	// calendar day.
	retentionWindow = 24 * time.Hour

	hourlyWindow = time.Hour
)

// Limits is the per-client quota configuration, fixed at construction.
type Limits struct {
	Hourly   int
	Daily    int
	Cooldown time.Duration
}

// DefaultLimits matches the documented defaults.
var DefaultLimits = Limits{
	Hourly:   10,
	Daily:    25,
	Cooldown: 60 * time.Second,
}

// QuotaStore persists per-client request histories.
type QuotaStore interface {
	GetClientQuota(ctx context.Context, clientID string) (*core.ClientRecord, error)
	PutClientQuota(ctx context.Context, clientID string, record *core.ClientRecord, now int64) error
}

// Limiter makes admit-or-deny decisions per client against a durable quota
// store. Decisions are classified in strict priority order: cooldown, then
// hourly, then daily.
//
// Storage failures degrade rather than deny: an unreadable record reads as
// an empty history (fail-open), and a failed write is logged and swallowed,
// leaving the current decision intact but not durable.
type Limiter struct {
	Store  QuotaStore
	Limits Limits
	Clock  func() time.Time
	Logger *logging.Logger

	// locks serializes read-modify-write per client id so concurrent
	// requests from the same client cannot race the store.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Check evaluates the client's quota without consuming a slot.
func (l *Limiter) Check(ctx context.Context, clientID string) core.RateLimitResult {
	unlock := l.lock(clientID)
	defer unlock()
	return l.check(ctx, clientID)
}

// Record consumes one quota slot for the client. It must be called only
// after an allow decision, and once per permitted action; redundant calls
// inflate the client's usage.
func (l *Limiter) Record(ctx context.Context, clientID string) {
	unlock := l.lock(clientID)
	defer unlock()
	l.record(ctx, clientID)
}

// Reserve performs check-and-record under a single per-client critical
// section. The returned result reflects usage before the slot is consumed,
// so callers can report pre-request stats. When the check denies, nothing
// is recorded.
func (l *Limiter) Reserve(ctx context.Context, clientID string) core.RateLimitResult {
	unlock := l.lock(clientID)
	defer unlock()

	result := l.check(ctx, clientID)
	if result.Allowed {
		l.record(ctx, clientID)
	}
	return result
}

func (l *Limiter) check(ctx context.Context, clientID string) core.RateLimitResult {
	now := l.now().Unix()
	record := l.load(ctx, clientID)
	record.Requests = cleanupOldRequests(record.Requests, now)

	result := core.RateLimitResult{
		Allowed: true,
		Kind:    core.LimitNone,
		Stats:   l.usageStats(record.Requests, now),
	}

	cooldown := int64(l.Limits.Cooldown / time.Second)
	if record.LastRequest > 0 && now-record.LastRequest < cooldown {
		result.Allowed = false
		result.Kind = core.LimitCooldown
		result.RemainingCooldown = int(cooldown - (now - record.LastRequest))
		return result
	}

	hourly := requestsSince(record.Requests, now-int64(hourlyWindow/time.Second))
	if l.Limits.Hourly > 0 && len(hourly) >= l.Limits.Hourly {
		result.Allowed = false
		result.Kind = core.LimitHourly
		result.NextReset = int((hourly[0] + int64(hourlyWindow/time.Second) - now) / 60)
		return result
	}

	if l.Limits.Daily > 0 && len(record.Requests) >= l.Limits.Daily {
		result.Allowed = false
		result.Kind = core.LimitDaily
		result.NextReset = int((record.Requests[0] + int64(retentionWindow/time.Second) - now) / 3600)
		return result
	}

	return result
}

func (l *Limiter) record(ctx context.Context, clientID string) {
	now := l.now().Unix()
	record := l.load(ctx, clientID)

	record.Requests = append(record.Requests, now)
	record.LastRequest = now
	record.Requests = cleanupOldRequests(record.Requests, now)

	if err := l.Store.PutClientQuota(ctx, clientID, record, now); err != nil {
		// The in-memory decision stands; the slot is simply not durable.
		if l.Logger != nil {
			l.Logger.Warn("Failed to persist client quota",
				zap.String("client_id", clientID),
				zap.Error(err))
		}
	}
}

// load reads the client's record, failing open to an empty history when the
// record is missing or unreadable.
func (l *Limiter) load(ctx context.Context, clientID string) *core.ClientRecord {
	record, err := l.Store.GetClientQuota(ctx, clientID)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("Failed to read client quota, treating as empty",
				zap.String("client_id", clientID),
				zap.Error(err))
		}
		return &core.ClientRecord{}
	}
	if record == nil {
		return &core.ClientRecord{}
	}
	return record
}

func (l *Limiter) usageStats(requests []int64, now int64) core.UsageStats {
	hourlyUsed := len(requestsSince(requests, now-int64(hourlyWindow/time.Second)))
	dailyUsed := len(requests)

	return core.UsageStats{
		HourlyUsed:      hourlyUsed,
		HourlyLimit:     l.Limits.Hourly,
		HourlyRemaining: max(0, l.Limits.Hourly-hourlyUsed),
		DailyUsed:       dailyUsed,
		DailyLimit:      l.Limits.Daily,
		DailyRemaining:  max(0, l.Limits.Daily-dailyUsed),
	}
}

// cleanupOldRequests drops entries at or past the retention horizon. It is
// idempotent: cleaning an already-clean history returns the same set.
func cleanupOldRequests(requests []int64, now int64) []int64 {
	cutoff := now - int64(retentionWindow/time.Second)
	kept := make([]int64, 0, len(requests))
	for _, ts := range requests {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	return kept
}

// requestsSince returns the entries strictly newer than the cutoff.
// Histories are chronological, so the first element is the oldest counted
// request.
func requestsSince(requests []int64, cutoff int64) []int64 {
	for i, ts := range requests {
		if ts > cutoff {
			return requests[i:]
		}
	}
	return nil
}

func (l *Limiter) lock(clientID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[clientID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[clientID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (l *Limiter) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock()
	}
	return time.Now().UTC()
}
