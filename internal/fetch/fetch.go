// Package fetch retrieves job description and company pages and reduces
// them to plain text. It centralizes the HTTP fetching and HTML-to-text
// logic used by the HR stage.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; InterviewAgent/1.0)"

// Page holds the raw and processed content retrieved from a URL.
type Page struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error represents a failure to retrieve or read a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool
}

// DefaultOptions returns sensible fetch defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch retrieves the content at urlStr. file:// URLs read the local path,
// which keeps fixtures and offline runs cheap.
func Fetch(ctx context.Context, urlStr string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	if parsed.Scheme == "file" {
		return fetchFile(urlStr, parsed)
	}
	if parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL"}
	}

	client := &http.Client{Timeout: opts.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

func fetchFile(urlStr string, parsed *url.URL) (*Page, error) {
	path := parsed.Path
	if parsed.Host != "" && parsed.Host != "localhost" {
		path = parsed.Host + path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read file", Cause: err}
	}
	return &Page{
		URL:        urlStr,
		HTML:       string(data),
		Text:       string(data),
		StatusCode: http.StatusOK,
	}, nil
}

// Text fetches a URL and reduces it to plain text, rendering through a
// headless browser when the static fetch comes back too thin and browser
// use is enabled. Plain files pass through untouched.
func Text(ctx context.Context, urlStr string, selectors []string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	page, err := Fetch(ctx, urlStr, opts)
	if err != nil {
		return "", err
	}
	if page.Text != "" && !strings.Contains(page.HTML, "<") {
		return page.Text, nil
	}

	text, err := ExtractMainText(page.HTML, selectors)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if opts.UseBrowser && ShouldUseBrowser(text) {
		html, browserErr := WithBrowser(ctx, urlStr, opts.Timeout)
		if browserErr == nil {
			if rendered, exErr := ExtractMainText(html, selectors); exErr == nil && len(rendered) > len(text) {
				text = rendered
			}
		}
	}
	return text, nil
}

// ExtractMainText parses HTML and returns the main body text, preferring the
// first matching content selector and falling back to the body element.
func ExtractMainText(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Drop script/style and obvious page chrome before extracting.
	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

// JobPostingSelectors returns selectors optimized for job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		".posting-content",
		".job-details",
		"main",
		"article",
		".content",
		"#content",
	}
}

// CompanyPageSelectors returns selectors for company about/culture pages.
func CompanyPageSelectors() []string {
	return []string{
		"main",
		"article",
		".about-content",
		".culture-content",
		".content",
		"#content",
	}
}

// cleanWhitespace trims lines and drops blank ones.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
