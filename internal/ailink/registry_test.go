package ailink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/ailink/prompt"
)

func testConfig() Config {
	return Config{
		DefaultProvider: "primary",
		DefaultTimeout:  30 * time.Second,
		Providers: map[string]ProviderInstanceConfig{
			"primary": {
				Enabled:    true,
				AIProvider: "openai",
				Models:     map[string]string{"default": "gpt-4o-mini"},
				Roles:      []string{"summarizer"},
				Credentials: []CredentialConfig{
					{Enabled: true, Label: "main", APIKey: "sk-test", Priority: 10},
				},
			},
			"backup": {
				Enabled:    true,
				AIProvider: "xai",
				Models:     map[string]string{"default": "grok-3-mini"},
				Credentials: []CredentialConfig{
					{Enabled: true, Label: "main", APIKey: "xai-test", Priority: 10},
				},
			},
		},
		Routing: map[string]string{"fallback": "backup"},
	}
}

func TestResolveByRoleMembership(t *testing.T) {
	reg := NewRegistry(testConfig())

	resolved, err := reg.Resolve("summarizer", nil, "")
	require.NoError(t, err)
	require.Equal(t, "primary", resolved.ProviderID)
	require.Equal(t, "openai", resolved.Driver.Name())
	require.Equal(t, "gpt-4o-mini", resolved.Model)
}

func TestResolveByRouting(t *testing.T) {
	reg := NewRegistry(testConfig())

	resolved, err := reg.Resolve("fallback", nil, "")
	require.NoError(t, err)
	require.Equal(t, "backup", resolved.ProviderID)
	require.Equal(t, "xai", resolved.Driver.Name())
}

func TestResolveDefaultProvider(t *testing.T) {
	reg := NewRegistry(testConfig())

	resolved, err := reg.Resolve("", nil, "")
	require.NoError(t, err)
	require.Equal(t, "primary", resolved.ProviderID)
}

func TestResolveModelOverride(t *testing.T) {
	reg := NewRegistry(testConfig())

	resolved, err := reg.Resolve("summarizer", nil, "gpt-4o")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", resolved.Model)
}

func TestResolvePromptPreferredModel(t *testing.T) {
	reg := NewRegistry(testConfig())
	promptDef := &prompt.Prompt{Config: prompt.Config{
		Slug:           "webpage-summarizer",
		SystemTemplate: "x",
		ProviderHints:  map[string]any{"preferred_models": []any{"gpt-4.1-mini"}},
	}}

	resolved, err := reg.Resolve("summarizer", promptDef, "")
	require.NoError(t, err)
	require.Equal(t, "gpt-4.1-mini", resolved.Model)
}

func TestResolveUnknownProviderType(t *testing.T) {
	cfg := testConfig()
	p := cfg.Providers["primary"]
	p.AIProvider = "mystery"
	cfg.Providers["primary"] = p

	reg := NewRegistry(cfg)
	_, err := reg.Resolve("summarizer", nil, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported ai_provider")
}

func TestSelectCredentialPriority(t *testing.T) {
	cfg := ProviderInstanceConfig{Credentials: []CredentialConfig{
		{Enabled: true, Label: "low", APIKey: "k1", Priority: 1},
		{Enabled: true, Label: "high", APIKey: "k2", Priority: 9},
	}}

	cred, key, err := selectCredential(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, "high", key)
	require.Equal(t, "k2", cred.APIKey)
}

func TestSelectCredentialRoundRobin(t *testing.T) {
	cfg := ProviderInstanceConfig{
		SelectionPolicy: "round_robin",
		Credentials: []CredentialConfig{
			{Enabled: true, Label: "a", APIKey: "ka", Priority: 5},
			{Enabled: true, Label: "b", APIKey: "kb", Priority: 5},
		},
	}

	next := 0
	rr := func(groupKey string, n int) int {
		idx := next % n
		next++
		return idx
	}

	first, _, err := selectCredential(cfg, rr)
	require.NoError(t, err)
	second, _, err := selectCredential(cfg, rr)
	require.NoError(t, err)
	require.NotEqual(t, first.Label, second.Label)
}

func TestSelectCredentialSkipsDisabledAndEmpty(t *testing.T) {
	cfg := ProviderInstanceConfig{Credentials: []CredentialConfig{
		{Enabled: false, Label: "off", APIKey: "k1", Priority: 9},
		{Enabled: true, Label: "blank", APIKey: "", Priority: 9},
		{Enabled: true, Label: "live", APIKey: "k3", Priority: 1},
	}}

	cred, key, err := selectCredential(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, "live", key)
	require.Equal(t, "k3", cred.APIKey)
}
