package output

import (
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/core"
)

// MarkdownFormatter renders results as markdown.
type MarkdownFormatter struct{}

// FormatSummary renders a summarize outcome as markdown. The message is
// already markdown, so it passes through verbatim.
func (f *MarkdownFormatter) FormatSummary(result *core.SummaryResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return result.Message, nil
}

// FormatQuotaList renders quota records as a markdown table.
func (f *MarkdownFormatter) FormatQuotaList(rows []QuotaRow) (string, error) {
	var sb strings.Builder
	sb.WriteString("| Client | Hourly | Daily | Last Request |\n")
	sb.WriteString("|--------|--------|-------|--------------|\n")

	for _, row := range rows {
		last := "-"
		if !row.LastRequest.IsZero() {
			last = row.LastRequest.Format("2006-01-02 15:04:05")
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n",
			escapeMarkdownCell(row.ClientID),
			row.HourlyUsed,
			row.DailyUsed,
			last,
		))
	}

	return sb.String(), nil
}

// FormatCacheList renders cache entries as a markdown table.
func (f *MarkdownFormatter) FormatCacheList(rows []CacheRow) (string, error) {
	var sb strings.Builder
	sb.WriteString("| Key | URL | Age | Size |\n")
	sb.WriteString("|-----|-----|-----|------|\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
			shortKey(row.Key),
			escapeMarkdownCell(row.URL),
			row.Age,
			row.Size,
		))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
