// Package ingestion acquires candidate CV text from its various sources:
// raw text, a URL pointing at a PDF or HTML page, or a local PDF file.
package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/interview-agents/internal/fetch"
)

// PDFParseError indicates a CV document could not be read as a PDF.
type PDFParseError struct {
	Source string
	Cause  error
}

func (e *PDFParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse PDF %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("failed to parse PDF %s", e.Source)
}

func (e *PDFParseError) Unwrap() error {
	return e.Cause
}

// FromURL fetches a CV from a URL and returns its plain text. PDF content
// is detected by content type or extension; anything else is treated as an
// HTML or text page.
func FromURL(ctx context.Context, urlStr string, opts *fetch.Options) (string, error) {
	page, err := fetch.Fetch(ctx, urlStr, opts)
	if err != nil {
		return "", err
	}

	if isPDF(page) {
		return FromPDF(urlStr, []byte(page.HTML))
	}
	if !strings.Contains(page.HTML, "<") {
		return page.HTML, nil
	}

	text, err := fetch.ExtractMainText(page.HTML, nil)
	if err != nil {
		return "", err
	}
	return text, nil
}

// FromPDF extracts plain text from PDF bytes.
func FromPDF(source string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &PDFParseError{Source: source, Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &PDFParseError{Source: source, Cause: err}
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return "", &PDFParseError{Source: source, Cause: err}
	}
	return string(text), nil
}

func isPDF(page *fetch.Page) bool {
	if strings.Contains(page.ContentType, "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(strings.SplitN(page.URL, "?", 2)[0]), ".pdf")
}
