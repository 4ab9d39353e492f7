package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"job-agent/internal/ai"
	"job-agent/internal/cache"
	"job-agent/internal/results"
	"job-agent/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAnalyzer struct {
	analysis *ai.FitAnalysis
	err      error
	calls    int
}

func (s *stubAnalyzer) AnalyzeFit(_ context.Context, _ string, _ *ai.JobPosting) (*ai.FitAnalysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

type stubLetterWriter struct {
	letter *ai.CoverLetter
	err    error
}

func (s *stubLetterWriter) GenerateLetter(_ context.Context, _ string, req *ai.LetterRequest) (*ai.CoverLetter, error) {
	if s.err != nil {
		return nil, s.err
	}
	letter := *s.letter
	letter.JobTitle = req.JobTitle
	letter.Company = req.Company
	return &letter, nil
}

type testServer struct {
	*Server
	analyzer *stubAnalyzer
	writer   *stubLetterWriter
	store    *results.Store
	dir      string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	analyzer := &stubAnalyzer{analysis: &ai.FitAnalysis{
		OverallScore: 82,
		Priority:     "high",
		ShouldApply:  true,
	}}
	writer := &stubLetterWriter{letter: &ai.CoverLetter{
		CoverLetter: "Madame, Monsieur, je postule.",
		GeneratedAt: "2026-08-30T12:00:00Z",
		WordCount:   5,
		Language:    "fr",
	}}

	dir := t.TempDir()
	store := results.NewStore(filepath.Join(dir, "job_results.json"), zap.NewNop())
	scorer := scoring.New(analyzer, cache.New(), "the cv", zap.NewNop())

	srv := New(zap.NewNop(), scorer, writer, store, filepath.Join(dir, "letters"), "the cv")

	return &testServer{Server: srv, analyzer: analyzer, writer: writer, store: store, dir: dir}
}

func (ts *testServer) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	ts.Router().ServeHTTP(recorder, req)

	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalyzeFit(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/analyze-fit",
		`{"job_title": "Data Scientist", "company": "Acme", "job_description": "Build models"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, 82.0, body["overall_score"])
	assert.Equal(t, true, body["should_apply"])
}

func TestAnalyzeFitMissingField(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/analyze-fit",
		`{"company": "Acme", "job_description": "Build models"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "Missing required field: job_title", body["error"])
	assert.Equal(t, 0, ts.analyzer.calls)
}

func TestAnalyzeFitInvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/analyze-fit", "{not json")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAnalyzeFitParseError(t *testing.T) {
	ts := newTestServer(t)
	ts.analyzer.err = &ai.ParseError{Raw: "I refuse.", Err: assert.AnError}

	recorder := ts.request(t, http.MethodPost, "/analyze-fit",
		`{"job_title": "t", "company": "c", "job_description": "d"}`)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "Failed to parse AI response", body["error"])
	assert.Contains(t, body, "details")
}

func TestTestEndpointUsesSampleJob(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, ts.analyzer.calls)
}

func TestAnalyzeFitCached(t *testing.T) {
	ts := newTestServer(t)

	payload := `{"job_title": "Data Scientist", "company": "Acme", "job_description": "Build models"}`
	require.Equal(t, http.StatusOK, ts.request(t, http.MethodPost, "/analyze-fit", payload).Code)
	require.Equal(t, http.StatusOK, ts.request(t, http.MethodPost, "/analyze-fit", payload).Code)

	assert.Equal(t, 1, ts.analyzer.calls)
}

func TestSaveResults(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/save-results",
		`[{"data": [{"overall_score": 80}, {"overall_score": 60}]}]`)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Saved 2 jobs", body["message"])
	assert.Equal(t, ts.store.Path(), body["filepath"])
}

func TestGenerateCoverLetter(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/generate-cover-letter",
		`{"job_title": "Data Scientist", "company": "Acme", "language": "fr"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "Madame, Monsieur, je postule.", body["cover_letter"])
	assert.NotContains(t, body, "filepath")
}

func TestGenerateCoverLetterWithSave(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodPost, "/generate-cover-letter",
		`{"job_title": "Data Scientist", "company": "Acme", "save": true}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	path, ok := body["filepath"].(string)
	require.True(t, ok, "expected a filepath in the response")

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestGenerateCoverLetterFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.writer.err = assert.AnError

	recorder := ts.request(t, http.MethodPost, "/generate-cover-letter",
		`{"job_title": "t", "company": "c"}`)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "Failed to generate cover letter", body["error"])
}

func TestDashboardCoverLetter(t *testing.T) {
	ts := newTestServer(t)

	overall := 82.0
	require.NoError(t, ts.store.SaveJobs([]results.Job{
		{Title: "Data Scientist", Company: "Acme", OverallScore: &overall, MissingSkills: []string{"AWS"}},
	}))

	recorder := ts.request(t, http.MethodGet, "/dashboard/generate-cover-letter/0?language=en", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, "Data Scientist", body["job_title"])
	assert.Contains(t, body, "filepath")
}

func TestDashboardCoverLetterNotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		path string
	}{
		{"empty store", "/dashboard/generate-cover-letter/0"},
		{"negative index", "/dashboard/generate-cover-letter/-1"},
		{"not a number", "/dashboard/generate-cover-letter/abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)

			recorder := ts.request(t, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusNotFound, recorder.Code)

			body := decode(t, recorder)
			assert.Equal(t, "Job not found", body["error"])
		})
	}
}

func TestAPIJobsEmpty(t *testing.T) {
	ts := newTestServer(t)

	recorder := ts.request(t, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "[]", strings.TrimSpace(recorder.Body.String()))
}

func TestAPIStats(t *testing.T) {
	ts := newTestServer(t)

	overall := 80.0
	require.NoError(t, ts.store.SaveJobs([]results.Job{
		{Title: "Data Scientist", OverallScore: &overall, SkillsMatchScore: 32},
	}))

	recorder := ts.request(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decode(t, recorder)
	assert.Equal(t, 1.0, body["total_jobs"])
	assert.Equal(t, 80.0, body["avg_score"])
}

func TestDashboardRenders(t *testing.T) {
	ts := newTestServer(t)

	overall := 90.0
	require.NoError(t, ts.store.SaveJobs([]results.Job{
		{Title: "Data Scientist", Company: "Acme", OverallScore: &overall, MissingSkills: []string{"AWS"}},
	}))

	recorder := ts.request(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	html := recorder.Body.String()
	assert.Contains(t, html, "Job Agent Dashboard")
	assert.Contains(t, html, "Data Scientist")
	assert.Contains(t, html, "AWS")
}
