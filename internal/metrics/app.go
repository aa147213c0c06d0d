package metrics

import (
	"time"

	"github.com/pagelens/pagelens/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Summarize pipeline metrics
	SummarizeTotal    = "app_summarize_total"
	SummarizeDuration = "app_summarize_duration_ms"

	// Summary cache metrics
	CacheLookupsTotal = "app_cache_lookups_total"

	// Rate limiter metrics
	RateLimitDeniedTotal = "app_rate_limit_denied_total"

	// Crawler metrics
	FetchTotal    = "app_fetch_total"
	FetchDuration = "app_fetch_duration_ms"

	// Connection metrics
	ActiveConnections = "app_active_connections"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordSummarize records a summarize request with its terminal status
// (success, cached, denied, error) and total processing duration.
func RecordSummarize(status string, duration time.Duration) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			SummarizeTotal,
			1,
			map[string]string{
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			SummarizeDuration,
			duration,
			map[string]string{
				"status": status,
			},
		)
	}
}

// RecordCacheLookup records a summary cache lookup outcome
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			CacheLookupsTotal,
			1,
			map[string]string{
				"result": result,
			},
		)
	}
}

// RecordRateLimitDenied records a rate limit denial by kind
// (cooldown, hourly, daily)
func RecordRateLimitDenied(kind string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RateLimitDeniedTotal,
			1,
			map[string]string{
				"kind": kind,
			},
		)
	}
}

// RecordFetch records a webpage fetch attempt with status
func RecordFetch(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			FetchTotal,
			1,
			map[string]string{
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			FetchDuration,
			duration,
			map[string]string{
				"status": status,
			},
		)
	}
}

// SetActiveConnections sets the current number of active connections
func SetActiveConnections(count int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ActiveConnections,
			float64(count),
			nil,
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
