package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/core"
	"github.com/pagelens/pagelens/internal/output"
)

// Fetcher retrieves a webpage and extracts its readable content.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*core.Page, error)
}

// Generator produces a summary of an extracted page.
type Generator interface {
	Summarize(ctx context.Context, page *core.Page) (string, error)
}

// Summarizer coordinates one summarize request: cache lookup, quota
// reservation, fetch, generation, and cache fill. Every request resolves to
// a SummaryResult; collaborator failures become "error" outcomes rather
// than returned errors.
//
// Cache hits bypass the limiter entirely and consume no quota. A quota slot
// is reserved before the fetch, so a failed fetch or generation still
// counts against the client.
type Summarizer struct {
	Cache     *Cache
	Limiter   *Limiter
	Fetcher   Fetcher
	Generator Generator
	Logger    *logging.Logger
}

// Summarize resolves one request for the given client.
func (s *Summarizer) Summarize(ctx context.Context, rawURL, clientID string) core.SummaryResult {
	if ctx == nil {
		ctx = context.Background()
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		err := fmt.Errorf("url is required")
		return core.SummaryResult{
			Status:  core.StatusError,
			Message: output.ProcessingError(err),
		}
	}

	if summary, ok := s.Cache.Get(ctx, rawURL); ok {
		return core.SummaryResult{
			Status:  core.StatusCached,
			URL:     rawURL,
			Summary: summary,
			Message: output.CachedResult(summary),
		}
	}

	decision := s.Limiter.Reserve(ctx, clientID)
	if !decision.Allowed {
		return core.SummaryResult{
			Status:    core.StatusDenied,
			URL:       rawURL,
			Message:   output.DenialMessage(decision),
			RateLimit: &decision,
		}
	}

	page, err := s.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("Page fetch failed",
				zap.String("url", rawURL),
				zap.Error(err))
		}
		return core.SummaryResult{
			Status:    core.StatusError,
			URL:       rawURL,
			Message:   output.ProcessingError(err),
			RateLimit: &decision,
		}
	}

	summary, err := s.Generator.Summarize(ctx, page)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("Summary generation failed",
				zap.String("url", rawURL),
				zap.Error(err))
		}
		return core.SummaryResult{
			Status:    core.StatusError,
			URL:       rawURL,
			Message:   output.ProcessingError(err),
			RateLimit: &decision,
		}
	}

	s.Cache.Set(ctx, rawURL, summary)

	return core.SummaryResult{
		Status:    core.StatusSuccess,
		URL:       rawURL,
		Summary:   summary,
		Message:   output.SummaryWithUsage(summary, decision.Stats),
		RateLimit: &decision,
	}
}
