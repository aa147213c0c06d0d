package ailink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/ailink/content"
	"github.com/pagelens/pagelens/internal/ailink/driver"
	"github.com/pagelens/pagelens/internal/ailink/prompt"
)

const (
	defaultPromptSlug = "webpage-summarizer"
	defaultTimeout    = 60 * time.Second
	maxTimeout        = 5 * time.Minute
)

// Service coordinates prompt loading, provider selection, and driver execution.
type Service struct {
	Providers *Registry
	Registry  prompt.Registry
}

// Summarize renders the summarizer prompt with the request variables and runs
// it against the role-selected provider. The response is the model's markdown
// text, unparsed.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if s == nil || s.Providers == nil {
		return nil, errors.New("ailink provider registry not configured")
	}
	if s.Registry == nil {
		return nil, errors.New("ailink prompt registry not configured")
	}

	slug := strings.TrimSpace(req.PromptSlug)
	if slug == "" {
		slug = defaultPromptSlug
	}

	promptDef, err := s.Registry.Get(slug)
	if err != nil {
		return nil, err
	}

	for _, required := range promptDef.Config.Input.RequiredVariables {
		if val, ok := req.Variables[required]; !ok || strings.TrimSpace(val) == "" {
			return nil, fmt.Errorf("required variable %q not provided", required)
		}
	}

	systemPrompt, userPrompt, err := renderPrompt(promptDef, req.Variables)
	if err != nil {
		return nil, err
	}

	messages := []content.Message{
		{Role: "system", Content: []content.ContentBlock{{Type: content.ContentTypeText, Text: systemPrompt}}},
		{Role: "user", Content: []content.ContentBlock{{Type: content.ContentTypeText, Text: userPrompt}}},
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = slug
	}

	resolved, err := s.Providers.Resolve(role, promptDef, req.Model)
	if err != nil {
		return nil, err
	}

	driverReq := &driver.Request{
		Model:          resolved.Model,
		Messages:       messages,
		ResponseFormat: &driver.ResponseFormat{Type: "text"},
		PromptSlug:     promptDef.Config.Slug,
	}

	duration := s.Providers.cfg.DefaultTimeout
	if duration <= 0 {
		duration = defaultTimeout
	}
	if req.TimeoutSec > 0 {
		duration = time.Duration(req.TimeoutSec) * time.Second
	}
	if duration > maxTimeout {
		duration = maxTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	resp, err := resolved.Driver.Complete(ctx, driverReq)
	if err != nil {
		return nil, err
	}

	text := extractContent(resp)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty response content")
	}

	result := &SummarizeResponse{
		Text:       text,
		Model:      resolved.Model,
		ProviderID: resolved.ProviderID,
	}
	if resp.Usage != nil {
		result.Tokens = resp.Usage.TotalTokens
	}
	return result, nil
}

func renderPrompt(def *prompt.Prompt, vars map[string]string) (string, string, error) {
	if def == nil {
		return "", "", errors.New("prompt is required")
	}

	system := applyVars(def.Config.SystemTemplate, vars)
	user := def.Config.UserTemplate
	if user == "" {
		user = "{{body}}"
	}
	user = applyVars(user, vars)

	if strings.TrimSpace(system) == "" {
		return "", "", errors.New("system prompt is required")
	}
	return system, user, nil
}

func applyVars(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

func extractContent(resp *driver.Response) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.Content))
	for _, block := range resp.Content {
		if block.Type == content.ContentTypeText && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
