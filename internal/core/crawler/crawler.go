package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pagelens/pagelens/internal/core"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"
	defaultTimeout   = 10 * time.Second

	noTitleFound = "No title found"
)

// Crawler fetches webpages and extracts their readable content: the title,
// the body text with scripts, styles, images, and inputs stripped, and the
// link targets found on the page.
type Crawler struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

// Fetch retrieves a page and extracts its content.
func (c *Crawler) Fetch(ctx context.Context, rawURL string) (*core.Page, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return &core.Page{
		URL:   rawURL,
		Title: pageTitle(doc),
		Body:  pageBody(doc),
		Links: pageLinks(doc),
	}, nil
}

func pageTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return noTitleFound
	}
	return title
}

// pageBody extracts the visible body text, one text run per line, after
// removing non-content elements.
func pageBody(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}

	body.Find("script, style, img, input").Remove()

	var lines []string
	for _, node := range body.Nodes {
		collectText(node, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(node *html.Node, lines *[]string) {
	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			*lines = append(*lines, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, lines)
	}
}

func pageLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

func (c *Crawler) client() *http.Client {
	if c != nil && c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: c.timeout()}
}

func (c *Crawler) timeout() time.Duration {
	if c != nil && c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c *Crawler) userAgent() string {
	if c != nil && c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}
