package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/logging"

	"github.com/pagelens/pagelens/internal/ailink"
	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/core"
	"github.com/pagelens/pagelens/internal/core/crawler"
	"github.com/pagelens/pagelens/internal/core/engine"
	"github.com/pagelens/pagelens/internal/core/store"
)

// ailinkGenerator adapts the AILink service to the engine's Generator
// interface, carrying the configured role, prompt, and model override.
type ailinkGenerator struct {
	service *ailink.Service
	role    string
	prompt  string
	model   string
}

func (g *ailinkGenerator) Summarize(ctx context.Context, page *core.Page) (string, error) {
	if page == nil {
		return "", fmt.Errorf("page is required")
	}

	resp, err := g.service.Summarize(ctx, ailink.SummarizeRequest{
		Role:       g.role,
		PromptSlug: g.prompt,
		Model:      g.model,
		Variables: map[string]string{
			"title": page.Title,
			"body":  page.Body,
			"url":   page.URL,
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// buildSummarizer assembles the full summarize pipeline: quota limiter and
// summary cache over the store, the crawler as fetcher, and the AILink
// service as generator.
func buildSummarizer(cfg *config.Config, db *store.Store, logger *logging.Logger) (*engine.Summarizer, error) {
	promptRegistry, err := buildPromptRegistry(cfg)
	if err != nil {
		return nil, err
	}

	limits := engine.DefaultLimits
	if cfg.Limits.HourlyLimit > 0 {
		limits.Hourly = cfg.Limits.HourlyLimit
	}
	if cfg.Limits.DailyLimit > 0 {
		limits.Daily = cfg.Limits.DailyLimit
	}
	if cfg.Limits.CooldownSeconds > 0 {
		limits.Cooldown = time.Duration(cfg.Limits.CooldownSeconds) * time.Second
	}

	return &engine.Summarizer{
		Cache: &engine.Cache{
			Store:  db,
			TTL:    cfg.Cache.TTL,
			Logger: logger,
		},
		Limiter: &engine.Limiter{
			Store:  db,
			Limits: limits,
			Logger: logger,
		},
		Fetcher: &crawler.Crawler{
			UserAgent: cfg.Crawler.UserAgent,
			Timeout:   cfg.Crawler.Timeout,
		},
		Generator: &ailinkGenerator{
			service: &ailink.Service{
				Providers: ailink.NewRegistry(cfg.AILink),
				Registry:  promptRegistry,
			},
			role:   cfg.Summarizer.Role,
			prompt: cfg.Summarizer.Prompt,
			model:  cfg.Summarizer.Model,
		},
		Logger: logger,
	}, nil
}
