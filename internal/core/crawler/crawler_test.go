package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>  Example Article  </title></head>
<body>
	<h1>Heading</h1>
	<script>console.log("ignore me")</script>
	<style>.hidden { display: none }</style>
	<p>First paragraph.</p>
	<img src="/pic.png" alt="pic">
	<input type="text" value="field">
	<div>Second <b>bold</b> paragraph.</div>
	<a href="/relative">rel</a>
	<a href="https://other.example/page">abs</a>
	<a>no href</a>
</body>
</html>`

func TestFetchExtractsContent(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := &Crawler{}
	page, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Equal(t, srv.URL, page.URL)
	require.Equal(t, "Example Article", page.Title)
	require.Equal(t, "Heading\nFirst paragraph.\nSecond\nbold\nparagraph.\nrel\nabs\nno href", page.Body)
	require.Equal(t, []string{"/relative", "https://other.example/page"}, page.Links)
	require.Contains(t, gotUserAgent, "Mozilla/5.0")
}

func TestFetchMissingTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>hello</p></body></html>`))
	}))
	defer srv.Close()

	page, err := (&Crawler{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "No title found", page.Title)
	require.Equal(t, "hello", page.Body)
}

func TestFetchMissingBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(""))
	}))
	defer srv.Close()

	page, err := (&Crawler{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "No title found", page.Title)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := (&Crawler{}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 404")
}

func TestFetchRejectsBadURLs(t *testing.T) {
	c := &Crawler{}

	_, err := c.Fetch(context.Background(), "")
	require.Error(t, err)

	_, err = c.Fetch(context.Background(), "ftp://example.com/file")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported url scheme")
}
