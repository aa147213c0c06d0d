package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pagelens/pagelens/internal/core"
)

// TableFormatter renders results as ASCII tables.
type TableFormatter struct{}

// FormatSummary renders a summarize outcome for terminal display. The
// message is already markdown; the table wraps just the structured parts.
func (f *TableFormatter) FormatSummary(result *core.SummaryResult) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"URL", result.URL})
	t.AppendRow(table.Row{"Status", string(result.Status)})

	if result.RateLimit != nil {
		stats := result.RateLimit.Stats
		t.AppendRow(table.Row{"Hourly", fmt.Sprintf("%d/%d", stats.HourlyUsed, stats.HourlyLimit)})
		t.AppendRow(table.Row{"Daily", fmt.Sprintf("%d/%d", stats.DailyUsed, stats.DailyLimit)})
	}

	rendered := t.Render()
	if result.Message != "" {
		rendered += "\n\n" + result.Message
	}
	return rendered, nil
}

// FormatQuotaList renders client quota records as a table.
func (f *TableFormatter) FormatQuotaList(rows []QuotaRow) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Client", "Hourly", "Daily", "Last Request"})

	for _, row := range rows {
		last := "-"
		if !row.LastRequest.IsZero() {
			last = row.LastRequest.Format("2006-01-02 15:04:05")
		}
		t.AppendRow(table.Row{row.ClientID, row.HourlyUsed, row.DailyUsed, last})
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d clients", len(rows)), "", "", ""})
	return t.Render(), nil
}

// FormatCacheList renders summary cache entries as a table.
func (f *TableFormatter) FormatCacheList(rows []CacheRow) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Key", "URL", "Age", "Size"})

	for _, row := range rows {
		t.AppendRow(table.Row{shortKey(row.Key), row.URL, row.Age, row.Size})
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d entries", len(rows)), "", "", ""})
	return t.Render(), nil
}

// shortKey truncates a sha256 hex digest for display.
func shortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12] + "…"
}
