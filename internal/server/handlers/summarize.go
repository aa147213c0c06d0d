package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/core"
	apperrors "github.com/pagelens/pagelens/internal/errors"
	"github.com/pagelens/pagelens/internal/metrics"
	"github.com/pagelens/pagelens/internal/server/middleware"
)

// Summarizer resolves a summarize request to a terminal outcome.
type Summarizer interface {
	Summarize(ctx context.Context, rawURL, clientID string) core.SummaryResult
}

var summarizer Summarizer

// SetSummarizer injects the summarize pipeline used by SummarizeHandler.
func SetSummarizer(s Summarizer) {
	summarizer = s
}

// SummarizeRequest is the POST /summarize request body.
type SummarizeRequest struct {
	URL string `json:"url"`
}

// SummarizeHandler handles summarize requests. The response body is always
// the full outcome; the HTTP status reflects its terminal state:
// 200 for fresh and cached summaries, 429 for rate limit denials, and
// 502 when the fetch or generation failed.
func SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	if summarizer == nil {
		respondWithError(w, r, apperrors.NewInternalError("summarizer not initialized"))
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body must be JSON with a url field"))
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("url is required"))
		return
	}

	clientID := middleware.ClientIP(r)

	start := time.Now()
	result := summarizer.Summarize(r.Context(), req.URL, clientID)
	metrics.RecordSummarize(string(result.Status), time.Since(start))

	statusCode := http.StatusOK
	switch result.Status {
	case core.StatusDenied:
		statusCode = http.StatusTooManyRequests
		if result.RateLimit != nil && result.RateLimit.Kind != "" {
			metrics.RecordRateLimitDenied(string(result.RateLimit.Kind))
		}
	case core.StatusError:
		statusCode = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(result)
}
