package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders summaries and admin listings.
type Formatter interface {
	FormatSummary(result *core.SummaryResult) (string, error)
	FormatQuotaList(rows []QuotaRow) (string, error)
	FormatCacheList(rows []CacheRow) (string, error)
}

// QuotaRow is a display-ready rate limit record.
type QuotaRow struct {
	ClientID    string    `json:"client_id"`
	HourlyUsed  int       `json:"hourly_used"`
	DailyUsed   int       `json:"daily_used"`
	LastRequest time.Time `json:"last_request"`
}

// CacheRow is a display-ready summary cache entry.
type CacheRow struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Age       string    `json:"age"`
	Size      int       `json:"size"`
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// NewQuotaRow derives display counts from a persisted record.
func NewQuotaRow(clientID string, record core.ClientRecord, now time.Time) QuotaRow {
	nowUnix := now.UTC().Unix()

	var hourly, daily int
	for _, ts := range record.Requests {
		if ts > nowUnix-86400 {
			daily++
			if ts > nowUnix-3600 {
				hourly++
			}
		}
	}

	row := QuotaRow{
		ClientID:   clientID,
		HourlyUsed: hourly,
		DailyUsed:  daily,
	}
	if record.LastRequest > 0 {
		row.LastRequest = time.Unix(record.LastRequest, 0).UTC()
	}
	return row
}

// NewCacheRow derives a display row from a cached summary.
func NewCacheRow(entry core.CachedSummary, now time.Time) CacheRow {
	return CacheRow{
		Key:       entry.Key,
		URL:       entry.URL,
		CreatedAt: entry.CreatedAt,
		Age:       now.UTC().Sub(entry.CreatedAt).Round(time.Second).String(),
		Size:      len(entry.Summary),
	}
}
