package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyAILinkProviderOverride(t *testing.T) {
	t.Run("Enabled", func(t *testing.T) {
		overrides := map[string]any{}
		applyAILinkProviderOverride(overrides, "PRIMARY_ENABLED", "true")

		provider := providerMap(t, overrides, "primary")
		require.Equal(t, true, provider["enabled"])
	})

	t.Run("AIProvider", func(t *testing.T) {
		overrides := map[string]any{}
		applyAILinkProviderOverride(overrides, "PRIMARY_AI_PROVIDER", "OpenAI")

		provider := providerMap(t, overrides, "primary")
		require.Equal(t, "openai", provider["ai_provider"])
	})

	t.Run("BaseURL", func(t *testing.T) {
		overrides := map[string]any{}
		applyAILinkProviderOverride(overrides, "PRIMARY_BASE_URL", "https://api.example.com/v1")

		provider := providerMap(t, overrides, "primary")
		require.Equal(t, "https://api.example.com/v1", provider["base_url"])
	})

	t.Run("Models", func(t *testing.T) {
		overrides := map[string]any{}
		applyAILinkProviderOverride(overrides, "PRIMARY_MODELS_DEFAULT", "gpt-4o-mini")

		provider := providerMap(t, overrides, "primary")
		models, ok := provider["models"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "gpt-4o-mini", models["default"])
	})

	t.Run("CredentialFields", func(t *testing.T) {
		overrides := map[string]any{}
		applyAILinkProviderOverride(overrides, "PRIMARY_CREDENTIALS_0_API_KEY", "sk-test")
		applyAILinkProviderOverride(overrides, "PRIMARY_CREDENTIALS_0_ENABLED", "true")
		applyAILinkProviderOverride(overrides, "PRIMARY_CREDENTIALS_0_PRIORITY", "9")

		provider := providerMap(t, overrides, "primary")
		creds, ok := provider["credentials"].([]any)
		require.True(t, ok)
		require.Len(t, creds, 1)
		cred, ok := creds[0].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "sk-test", cred["api_key"])
		require.Equal(t, true, cred["enabled"])
		require.Equal(t, 9, cred["priority"])
	})

	t.Run("MultiWordProviderID", func(t *testing.T) {
		overrides := map[string]any{}
		applyAILinkProviderOverride(overrides, "PAGELENS_OPENAI_ENABLED", "true")

		provider := providerMap(t, overrides, "pagelens-openai")
		require.Equal(t, true, provider["enabled"])
	})
}

func TestApplyAILinkRoutingOverride(t *testing.T) {
	overrides := map[string]any{}
	applyAILinkRoutingOverride(overrides, "SUMMARIZER", "primary")

	ailinkMap, ok := overrides["ailink"].(map[string]any)
	require.True(t, ok)
	routing, ok := ailinkMap["routing"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "primary", routing["summarizer"])
}

func TestToSlug(t *testing.T) {
	require.Equal(t, "summarizer", toSlug("SUMMARIZER"))
	require.Equal(t, "web-summarizer", toSlug("WEB_SUMMARIZER"))
	require.Equal(t, "", toSlug("__"))
}

func providerMap(t *testing.T, overrides map[string]any, id string) map[string]any {
	t.Helper()

	ailinkMap, ok := overrides["ailink"].(map[string]any)
	require.True(t, ok)
	providers, ok := ailinkMap["providers"].(map[string]any)
	require.True(t, ok)
	provider, ok := providers[id].(map[string]any)
	require.True(t, ok)
	return provider
}
