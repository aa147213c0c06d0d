package output

import (
	"encoding/json"

	"github.com/pagelens/pagelens/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatSummary renders a summarize outcome as JSON.
func (f *JSONFormatter) FormatSummary(result *core.SummaryResult) (string, error) {
	if result == nil {
		return "", nil
	}
	return f.marshal(result)
}

// FormatQuotaList renders quota records as JSON.
func (f *JSONFormatter) FormatQuotaList(rows []QuotaRow) (string, error) {
	return f.marshal(rows)
}

// FormatCacheList renders cache entries as JSON.
func (f *JSONFormatter) FormatCacheList(rows []CacheRow) (string, error) {
	return f.marshal(rows)
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
