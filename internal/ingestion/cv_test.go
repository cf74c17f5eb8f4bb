package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agents/internal/fetch"
)

func TestFromURLPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\nSkills\nGo"), 0o600))

	text, err := FromURL(context.Background(), "file://"+path, nil)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills\nGo", text)
}

func TestFromURLExtractsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>Jane Doe, Platform Engineer</p></body></html>"))
	}))
	defer srv.Close()

	text, err := FromURL(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe, Platform Engineer", text)
}

func TestFromPDFRejectsGarbage(t *testing.T) {
	_, err := FromPDF("cv.pdf", []byte("this is not a pdf"))

	var parseErr *PDFParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "cv.pdf", parseErr.Source)
}

func TestIsPDFByContentType(t *testing.T) {
	page := &fetch.Page{URL: "http://example.com/cv", ContentType: "application/pdf"}

	assert.True(t, isPDF(page))
}

func TestIsPDFByExtension(t *testing.T) {
	assert.True(t, isPDF(&fetch.Page{URL: "http://example.com/resume.PDF?download=1"}))
	assert.False(t, isPDF(&fetch.Page{URL: "http://example.com/resume.html", ContentType: "text/html"}))
}
