package output

import (
	"fmt"

	"github.com/pagelens/pagelens/internal/core"
)

const cacheTip = "*💡 Tip: Repeated requests to the same URL use cached results and don't count against your limit!*"

// DenialMessage renders the full markdown block shown to a rate-limited
// client: the limit headline, their current usage, and the cache tip.
func DenialMessage(result core.RateLimitResult) string {
	var headline string
	switch result.Kind {
	case core.LimitCooldown:
		headline = fmt.Sprintf("⏰ Please wait %d seconds between requests", result.RemainingCooldown)
	case core.LimitHourly:
		headline = fmt.Sprintf("Hourly limit reached. Try again in %d minutes.", result.NextReset)
	case core.LimitDaily:
		headline = fmt.Sprintf("Daily limit reached. Try again in %d hours.", result.NextReset)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", headline, UsageBlock(result.Stats), cacheTip)
}

// UsageBlock renders the current-usage section of a denial message.
func UsageBlock(stats core.UsageStats) string {
	return fmt.Sprintf("**Your current usage:**\n"+
		"- Hourly: %d/%d (remaining: %d)\n"+
		"- Daily: %d/%d (remaining: %d)",
		stats.HourlyUsed, stats.HourlyLimit, stats.HourlyRemaining,
		stats.DailyUsed, stats.DailyLimit, stats.DailyRemaining)
}

// SummaryWithUsage appends the usage footer to a fresh summary.
func SummaryWithUsage(summary string, stats core.UsageStats) string {
	return fmt.Sprintf("%s\n\n---\n*📊 Usage: %d/%d hourly, %d/%d daily*",
		summary,
		stats.HourlyUsed, stats.HourlyLimit,
		stats.DailyUsed, stats.DailyLimit)
}

// CachedResult marks a summary as served from cache.
func CachedResult(summary string) string {
	return fmt.Sprintf("**Cached Result** \n\n%s", summary)
}

// ProcessingError renders a fetch or summarization failure.
func ProcessingError(err error) string {
	return fmt.Sprintf("Error processing URL: %s", err.Error())
}
