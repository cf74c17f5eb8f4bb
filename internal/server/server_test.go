package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agents/internal/agents"
	"github.com/jonathan/interview-agents/internal/pipeline"
	"github.com/jonathan/interview-agents/internal/search"
	"github.com/jonathan/interview-agents/internal/types"
)

// fakeRunner returns a canned pipeline result or error and records the
// request it received.
type fakeRunner struct {
	result *pipeline.Result
	err    error
	req    pipeline.Request
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestServer(runner Runner) *Server {
	return New(Config{Addr: ":0"}, runner)
}

func TestStartInterviewReturnsReports(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		Status: "success",
		Reports: []types.StageReport{
			{Agent: agents.HRAgentName, Response: "agenda ready"},
			{Agent: agents.InterviewerAgentName, Response: "interview done"},
			{Agent: agents.SupervisorAgentName, Response: "hire"},
		},
	}}
	srv := newTestServer(runner)

	body := `{"cv_text":"Jane Doe","job_description_url":"http://example.com/job"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/start-interview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com/job", runner.req.JobDescriptionURL)

	var reports []types.StageReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 3)
	assert.Equal(t, agents.HRAgentName, reports[0].Agent)
}

func TestStartInterviewValidationErrorIs400(t *testing.T) {
	runner := &fakeRunner{err: &pipeline.ValidationError{Cause: errors.New("missing CV")}}
	srv := newTestServer(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/start-interview", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "invalid interview request")
}

func TestStartInterviewStageFailureIs500(t *testing.T) {
	runner := &fakeRunner{err: &pipeline.StageFailure{
		Stage: agents.HRAgentName,
		Cause: errors.New("gateway down"),
	}}
	srv := newTestServer(runner)

	body := `{"cv_text":"Jane","job_description_url":"http://example.com/job"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/start-interview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStartInterviewRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/start-interview", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadCVTextFile(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Jane Doe\nSkills\nGo"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cv.txt", resp["filename"])
	assert.Equal(t, "uploaded", resp["status"])
	assert.Equal(t, "Jane Doe\nSkills\nGo", resp["text"])
}

func TestUploadCVMissingFileField(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("notes", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadCVInvalidPDF(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not a pdf"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInterviewsWithoutStore(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/start-interview", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestDeleteInterviewWithoutStore(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/interviews/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCandidateHistoryWithoutSearch(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+uuid.NewString()+"/history", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

// stubSearchServer fakes the OpenSearch endpoints the history handler needs.
func stubSearchServer(t *testing.T, searchResult string) *search.VectorStore {
	t.Helper()
	cluster := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(searchResult))
	}))
	t.Cleanup(cluster.Close)

	parsed, err := url.Parse(cluster.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	vs, err := search.New(context.Background(), parsed.Hostname(), port)
	require.NoError(t, err)
	return vs
}

func TestCandidateHistoryReturnsHits(t *testing.T) {
	vs := stubSearchServer(t, `{"hits":{"hits":[
		{"_score":1.0,"_source":{"text":"prior interview","metadata":{"type":"interview","candidate_id":"c-1"}}}
	]}}`)
	srv := New(Config{Addr: ":0"}, &fakeRunner{}, WithSearch(vs))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+uuid.NewString()+"/history", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var hits []search.Hit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "prior interview", hits[0].Text)
}

func TestCandidateHistoryRejectsBadID(t *testing.T) {
	vs := stubSearchServer(t, `{"hits":{"hits":[]}}`)
	srv := New(Config{Addr: ":0"}, &fakeRunner{}, WithSearch(vs))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/not-a-uuid/history", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
