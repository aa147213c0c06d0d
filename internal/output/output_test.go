package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/core"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" markdown ", FormatMarkdown, false},
		{"yaml", "", true},
	}

	for _, tc := range cases {
		format, err := ParseFormat(tc.input)
		if tc.wantErr {
			require.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.expected, format, tc.input)
	}
}

func TestNewQuotaRow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	nowUnix := now.Unix()

	record := core.ClientRecord{
		Requests: []int64{
			nowUnix - 90000, // older than a day, not counted
			nowUnix - 7200,  // daily only
			nowUnix - 1800,  // hourly and daily
			nowUnix - 60,
		},
		LastRequest: nowUnix - 60,
	}

	row := NewQuotaRow("10.0.0.1", record, now)
	require.Equal(t, "10.0.0.1", row.ClientID)
	require.Equal(t, 2, row.HourlyUsed)
	require.Equal(t, 3, row.DailyUsed)
	require.Equal(t, time.Unix(nowUnix-60, 0).UTC(), row.LastRequest)
}

func TestNewQuotaRowNeverRequested(t *testing.T) {
	row := NewQuotaRow("10.0.0.2", core.ClientRecord{}, time.Now())
	require.Zero(t, row.HourlyUsed)
	require.Zero(t, row.DailyUsed)
	require.True(t, row.LastRequest.IsZero())
}

func TestNewCacheRow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := core.CachedSummary{
		Key:       strings.Repeat("ab", 32),
		URL:       "https://example.com/article",
		Summary:   "short summary",
		CreatedAt: now.Add(-90 * time.Minute),
	}

	row := NewCacheRow(entry, now)
	require.Equal(t, entry.Key, row.Key)
	require.Equal(t, "1h30m0s", row.Age)
	require.Equal(t, len(entry.Summary), row.Size)
}

func TestTableFormatterQuotaList(t *testing.T) {
	f := &TableFormatter{}
	rendered, err := f.FormatQuotaList([]QuotaRow{
		{ClientID: "203.0.113.9", HourlyUsed: 3, DailyUsed: 7, LastRequest: time.Date(2025, 6, 1, 11, 58, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Contains(t, rendered, "203.0.113.9")
	require.Contains(t, rendered, "2025-06-01 11:58:00")
	require.Contains(t, rendered, "1 clients")
}

func TestTableFormatterCacheListTruncatesKey(t *testing.T) {
	f := &TableFormatter{}
	key := strings.Repeat("ab", 32)
	rendered, err := f.FormatCacheList([]CacheRow{
		{Key: key, URL: "https://example.com", Age: "2h0m0s", Size: 128},
	})
	require.NoError(t, err)
	require.Contains(t, rendered, key[:12]+"…")
	require.NotContains(t, rendered, key)
}

func TestTableFormatterSummaryIncludesUsage(t *testing.T) {
	f := &TableFormatter{}
	rendered, err := f.FormatSummary(&core.SummaryResult{
		Status:  core.StatusSuccess,
		URL:     "https://example.com",
		Summary: "a summary",
		Message: "a summary with footer",
		RateLimit: &core.RateLimitResult{
			Allowed: true,
			Stats:   core.UsageStats{HourlyUsed: 1, HourlyLimit: 10, DailyUsed: 2, DailyLimit: 25},
		},
	})
	require.NoError(t, err)
	require.Contains(t, rendered, "1/10")
	require.Contains(t, rendered, "2/25")
	require.Contains(t, rendered, "a summary with footer")
}

func TestJSONFormatterSummaryRoundTrips(t *testing.T) {
	f := &JSONFormatter{Indent: true}
	rendered, err := f.FormatSummary(&core.SummaryResult{
		Status:  core.StatusDenied,
		URL:     "https://example.com",
		Message: "denied",
		RateLimit: &core.RateLimitResult{
			Allowed: false,
			Kind:    core.LimitHourly,
		},
	})
	require.NoError(t, err)

	var decoded core.SummaryResult
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	require.Equal(t, core.StatusDenied, decoded.Status)
	require.Equal(t, core.LimitHourly, decoded.RateLimit.Kind)
}

func TestMarkdownFormatterSummaryPassesMessageThrough(t *testing.T) {
	f := &MarkdownFormatter{}
	rendered, err := f.FormatSummary(&core.SummaryResult{
		Status:  core.StatusCached,
		Message: "**Cached Result** \n\nthe summary",
	})
	require.NoError(t, err)
	require.Equal(t, "**Cached Result** \n\nthe summary", rendered)
}

func TestMarkdownFormatterEscapesCells(t *testing.T) {
	f := &MarkdownFormatter{}
	rendered, err := f.FormatCacheList([]CacheRow{
		{Key: "abc", URL: "https://example.com/a|b", Age: "1s", Size: 1},
	})
	require.NoError(t, err)
	require.Contains(t, rendered, `https://example.com/a\|b`)
}

func TestDenialMessage(t *testing.T) {
	stats := core.UsageStats{
		HourlyUsed: 10, HourlyLimit: 10, HourlyRemaining: 0,
		DailyUsed: 12, DailyLimit: 25, DailyRemaining: 13,
	}

	t.Run("Cooldown", func(t *testing.T) {
		msg := DenialMessage(core.RateLimitResult{
			Kind:              core.LimitCooldown,
			RemainingCooldown: 42,
			Stats:             stats,
		})
		require.True(t, strings.HasPrefix(msg, "⏰ Please wait 42 seconds between requests"))
		require.Contains(t, msg, "- Hourly: 10/10 (remaining: 0)")
		require.Contains(t, msg, "- Daily: 12/25 (remaining: 13)")
		require.Contains(t, msg, "don't count against your limit!")
	})

	t.Run("Hourly", func(t *testing.T) {
		msg := DenialMessage(core.RateLimitResult{
			Kind:      core.LimitHourly,
			NextReset: 37,
			Stats:     stats,
		})
		require.True(t, strings.HasPrefix(msg, "Hourly limit reached. Try again in 37 minutes."))
	})

	t.Run("Daily", func(t *testing.T) {
		msg := DenialMessage(core.RateLimitResult{
			Kind:      core.LimitDaily,
			NextReset: 5,
			Stats:     stats,
		})
		require.True(t, strings.HasPrefix(msg, "Daily limit reached. Try again in 5 hours."))
	})
}

func TestSummaryWithUsage(t *testing.T) {
	msg := SummaryWithUsage("the summary", core.UsageStats{
		HourlyUsed: 3, HourlyLimit: 10,
		DailyUsed: 8, DailyLimit: 25,
	})
	require.Equal(t, "the summary\n\n---\n*📊 Usage: 3/10 hourly, 8/25 daily*", msg)
}

func TestProcessingError(t *testing.T) {
	msg := ProcessingError(errors.New("connection refused"))
	require.Equal(t, "Error processing URL: connection refused", msg)
}
