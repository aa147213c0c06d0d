package ailink

// SummarizeRequest is the high-level request for a page summary.
type SummarizeRequest struct {
	Role       string
	PromptSlug string
	Model      string
	TimeoutSec int

	// Variables feed the prompt templates. The summarizer prompt requires
	// "title" and "body"; "url" is optional.
	Variables map[string]string
}

// SummarizeResponse carries the generated summary text.
type SummarizeResponse struct {
	Text       string `json:"text"`
	Model      string `json:"model,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	Tokens     int    `json:"tokens,omitempty"`
}
