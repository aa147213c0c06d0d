package core

import "time"

// LimitKind identifies why a request was refused by the rate limiter.
type LimitKind string

const (
	LimitNone     LimitKind = "none"
	LimitCooldown LimitKind = "cooldown"
	LimitHourly   LimitKind = "hourly_limit"
	LimitDaily    LimitKind = "daily_limit"
)

// ClientRecord is the persisted quota history for one client identifier.
//
// Requests holds unix-second timestamps in chronological order. After a
// retention cleanup it never contains entries older than 24 hours.
// LastRequest is 0 until the client has made a request.
type ClientRecord struct {
	Requests    []int64 `json:"requests"`
	LastRequest int64   `json:"last_request"`
}

// UsageStats is a point-in-time usage snapshot for one client.
type UsageStats struct {
	HourlyUsed      int `json:"hourly_used"`
	HourlyLimit     int `json:"hourly_limit"`
	HourlyRemaining int `json:"hourly_remaining"`
	DailyUsed       int `json:"daily_used"`
	DailyLimit      int `json:"daily_limit"`
	DailyRemaining  int `json:"daily_remaining"`
}

// RateLimitResult reports an admit-or-deny decision with classification.
// It is derived from a ClientRecord and the current time, never persisted.
type RateLimitResult struct {
	Allowed bool      `json:"allowed"`
	Kind    LimitKind `json:"kind"`

	// RemainingCooldown is the whole seconds left before the cooldown
	// clears. Only set for cooldown denials.
	RemainingCooldown int `json:"remaining_cooldown,omitempty"`

	// NextReset estimates when the breached window frees a slot:
	// minutes for hourly denials, hours for daily denials.
	NextReset int `json:"next_reset,omitempty"`

	Stats UsageStats `json:"stats"`
}

// CachedSummary is one persisted summary cache entry.
type CachedSummary struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is the readable content extracted from a fetched webpage.
type Page struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Links []string `json:"links,omitempty"`
}

// SummaryStatus classifies the outcome of a summarize request.
type SummaryStatus string

const (
	StatusCached  SummaryStatus = "cached"
	StatusSuccess SummaryStatus = "success"
	StatusDenied  SummaryStatus = "denied"
	StatusError   SummaryStatus = "error"
)

// SummaryResult is the fully resolved outcome of one summarize request.
// Every request resolves to one of these; callers can render Message
// directly or build their own presentation from the structured fields.
type SummaryResult struct {
	Status  SummaryStatus `json:"status"`
	URL     string        `json:"url"`
	Summary string        `json:"summary,omitempty"`
	Message string        `json:"message"`

	// RateLimit carries the limiter decision for denied outcomes and the
	// pre-record stats snapshot for success outcomes.
	RateLimit *RateLimitResult `json:"rate_limit,omitempty"`
}
