package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/core"
)

type stubSummarizer struct {
	result       core.SummaryResult
	lastURL      string
	lastClientID string
}

func (s *stubSummarizer) Summarize(_ context.Context, rawURL, clientID string) core.SummaryResult {
	s.lastURL = rawURL
	s.lastClientID = clientID
	return s.result
}

func withSummarizer(t *testing.T, stub *stubSummarizer) {
	t.Helper()
	SetSummarizer(stub)
	t.Cleanup(func() { SetSummarizer(nil) })
}

func postSummarize(body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func TestSummarizeHandlerSuccess(t *testing.T) {
	stub := &stubSummarizer{result: core.SummaryResult{
		Status:  core.StatusSuccess,
		URL:     "https://example.com",
		Summary: "a summary",
		Message: "a summary\n\n---\n*📊 Usage: 0/10 hourly, 0/25 daily*",
	}}
	withSummarizer(t, stub)

	rec, req := postSummarize(`{"url":"https://example.com"}`)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")

	SummarizeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://example.com", stub.lastURL)
	require.Equal(t, "203.0.113.9", stub.lastClientID)

	var result core.SummaryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, core.StatusSuccess, result.Status)
	require.Equal(t, "a summary", result.Summary)
}

func TestSummarizeHandlerDenied(t *testing.T) {
	stub := &stubSummarizer{result: core.SummaryResult{
		Status:  core.StatusDenied,
		URL:     "https://example.com",
		Message: "Hourly limit reached. Try again in 42 minutes.",
		RateLimit: &core.RateLimitResult{
			Allowed:   false,
			Kind:      core.LimitHourly,
			NextReset: 42,
		},
	}}
	withSummarizer(t, stub)

	rec, req := postSummarize(`{"url":"https://example.com"}`)
	SummarizeHandler(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var result core.SummaryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, core.StatusDenied, result.Status)
	require.Equal(t, core.LimitHourly, result.RateLimit.Kind)
}

func TestSummarizeHandlerProcessingError(t *testing.T) {
	stub := &stubSummarizer{result: core.SummaryResult{
		Status:  core.StatusError,
		URL:     "https://example.com",
		Message: "Error processing URL: connection refused",
	}}
	withSummarizer(t, stub)

	rec, req := postSummarize(`{"url":"https://example.com"}`)
	SummarizeHandler(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSummarizeHandlerRejectsMissingURL(t *testing.T) {
	withSummarizer(t, &stubSummarizer{})

	rec, req := postSummarize(`{"url":"  "}`)
	SummarizeHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummarizeHandlerRejectsMalformedBody(t *testing.T) {
	withSummarizer(t, &stubSummarizer{})

	rec, req := postSummarize(`{not json`)
	SummarizeHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummarizeHandlerWithoutSummarizer(t *testing.T) {
	SetSummarizer(nil)

	rec, req := postSummarize(`{"url":"https://example.com"}`)
	SummarizeHandler(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
