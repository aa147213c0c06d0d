package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFrontmatterPrompt(t *testing.T) {
	data := []byte(`---
slug: test-prompt
name: Test Prompt
input:
  required_variables:
    - title
user_template: "Title: {{title}}"
---
You are a test assistant.`)

	p, err := Load("test.md", data)
	require.NoError(t, err)
	require.Equal(t, "test-prompt", p.Config.Slug)
	require.Equal(t, "You are a test assistant.", p.Config.SystemTemplate)
	require.Equal(t, "Title: {{title}}", p.Config.UserTemplate)
	require.Equal(t, []string{"title"}, p.Config.Input.RequiredVariables)
}

func TestLoadMissingSlug(t *testing.T) {
	data := []byte(`---
name: No Slug
---
body text`)

	_, err := Load("broken.md", data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing slug")
}

func TestLoadMissingSystemTemplate(t *testing.T) {
	data := []byte(`---
slug: empty-body
---
`)

	_, err := Load("empty.md", data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing system_template")
}

func TestLoadDefaultsIncludesSummarizer(t *testing.T) {
	prompts, err := LoadDefaults()
	require.NoError(t, err)
	require.NotEmpty(t, prompts)

	reg, err := NewRegistry(prompts)
	require.NoError(t, err)

	p, err := reg.Get("webpage-summarizer")
	require.NoError(t, err)
	require.Contains(t, p.Config.SystemTemplate, "web page summarizer")
	require.Contains(t, p.Config.UserTemplate, "{{title}}")
	require.Contains(t, p.Config.UserTemplate, "{{body}}")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	a := &Prompt{Config: Config{Slug: "dup", SystemTemplate: "x"}}
	b := &Prompt{Config: Config{Slug: "dup", SystemTemplate: "y"}}

	_, err := NewRegistry([]*Prompt{a, b})
	require.Error(t, err)
}
