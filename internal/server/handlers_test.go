package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/llm"
)

// mockClient implements llm.Client with a canned response.
type mockClient struct {
	resp       *llm.Response
	err        error
	calls      int
	lastPrompt string
}

func (m *mockClient) Complete(_ context.Context, prompt string, _ llm.ModelTier) (*llm.Response, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.resp, m.err
}

func (m *mockClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *mockClient) Close() error { return nil }

// mockFetcher implements Fetcher and counts invocations.
type mockFetcher struct {
	result *fetch.Result
	err    error
	calls  int
}

func (m *mockFetcher) Document(_ context.Context, _ string) (*fetch.Result, error) {
	m.calls++
	return m.result, m.err
}

func newTestServer(client *mockClient, fetcher *mockFetcher) *Server {
	return &Server{
		client:  client,
		fetcher: fetcher,
		logger:  zap.NewNop(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func resumeHTML() *fetch.Result {
	return &fetch.Result{
		Bytes:       []byte(`<html><body><main>5 years experience, React, Node</main></body></html>`),
		ContentType: "text/html",
		StatusCode:  http.StatusOK,
	}
}

func fencedEvaluation() *llm.Response {
	return &llm.Response{Candidates: []llm.Candidate{{
		Content: &llm.Content{Parts: []llm.Part{{
			Text: "```json\n{\"score\": 82, \"explanation\": \"Good match\"}\n```",
		}}},
	}}}
}

func TestHandleEvaluate_MissingResumeURL(t *testing.T) {
	client := &mockClient{}
	fetcher := &mockFetcher{}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate, `{"skills": "React, Node"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fetcher.calls, "fetcher must not be invoked on invalid input")
	assert.Equal(t, 0, client.calls, "completion must not be invoked on invalid input")
}

func TestHandleEvaluate_MissingSkills(t *testing.T) {
	client := &mockClient{}
	fetcher := &mockFetcher{}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate, `{"resumeUrl": "https://example.com/resume.pdf"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fetcher.calls)
}

func TestHandleEvaluate_Success(t *testing.T) {
	client := &mockClient{resp: fencedEvaluation()}
	fetcher := &mockFetcher{result: resumeHTML()}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.pdf", "skills": "React, Node, 3+ years"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Result struct {
			Score       float64 `json:"score"`
			Explanation string  `json:"explanation"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 82.0, body.Result.Score)
	assert.Equal(t, "Good match", body.Result.Explanation)

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, client.lastPrompt, "5 years experience, React, Node")
	assert.Contains(t, client.lastPrompt, "React, Node, 3+ years")
}

func TestHandleEvaluate_FetchFailure(t *testing.T) {
	client := &mockClient{}
	fetcher := &mockFetcher{err: &fetch.Error{URL: "https://example.com/resume.pdf", Status: 404, Message: "HTTP status 404"}}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.pdf", "skills": "React"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fetch_failed", body["error"])
	assert.Contains(t, body["details"], "404")
	assert.Equal(t, 0, client.calls, "completion must not run after a fetch failure")
}

func TestHandleEvaluate_ExtractionFailure(t *testing.T) {
	client := &mockClient{}
	fetcher := &mockFetcher{result: &fetch.Result{
		Bytes:       []byte{0x89, 0x50, 0x4e, 0x47},
		ContentType: "image/png",
		StatusCode:  http.StatusOK,
	}}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.png", "skills": "React"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "extraction_failed", body["error"])
	assert.Equal(t, 0, client.calls)
}

func TestHandleEvaluate_ProseResponse(t *testing.T) {
	prose := "The candidate seems like a strong fit overall."
	client := &mockClient{resp: &llm.Response{Text: prose}}
	fetcher := &mockFetcher{result: resumeHTML()}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.pdf", "skills": "React"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "malformed_json", body["error"])
	assert.Equal(t, prose, body["raw"], "raw must carry the cleaned text unmodified")
}

func TestHandleEvaluate_InvalidShape(t *testing.T) {
	payload := `{"score": 182, "explanation": "out of range"}`
	client := &mockClient{resp: &llm.Response{Text: payload}}
	fetcher := &mockFetcher{result: resumeHTML()}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.pdf", "skills": "React"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_evaluation_shape", body["error"])
	assert.Equal(t, payload, body["raw"])
}

func TestHandleEvaluate_EmptyCompletion(t *testing.T) {
	client := &mockClient{resp: &llm.Response{}}
	fetcher := &mockFetcher{result: resumeHTML()}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.pdf", "skills": "React"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "empty_completion", body["error"])
}

func TestHandleEvaluate_CompletionFailure(t *testing.T) {
	client := &mockClient{err: &llm.UpstreamError{Cause: errors.New("connection reset")}}
	fetcher := &mockFetcher{result: resumeHTML()}
	s := newTestServer(client, fetcher)

	w := postJSON(t, s.handleEvaluate,
		`{"resumeUrl": "https://example.com/resume.pdf", "skills": "React"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "completion_failed", body["error"])
}

func TestHandleComplete_MissingPrompt(t *testing.T) {
	client := &mockClient{}
	s := newTestServer(client, &mockFetcher{})

	for _, body := range []string{`{}`, `{"prompt": ""}`, `{"prompt": "   "}`} {
		w := postJSON(t, s.handleComplete, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	assert.Equal(t, 0, client.calls)
}

func TestHandleComplete_Success(t *testing.T) {
	client := &mockClient{resp: &llm.Response{Text: "A helpful answer."}}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleComplete, `{"prompt": "say something helpful"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "A helpful answer.", body["response"])
}

func TestHandleComplete_UpstreamFailure(t *testing.T) {
	client := &mockClient{err: &llm.UpstreamError{Cause: errors.New("boom")}}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleComplete, `{"prompt": "hello"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleSummary_BlankPrompt(t *testing.T) {
	client := &mockClient{}
	s := newTestServer(client, &mockFetcher{})

	for _, body := range []string{`{}`, `{"prompt": ""}`, `{"prompt": "  "}`} {
		w := postJSON(t, s.handleSummary, body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["success"])
	}
	assert.Equal(t, 0, client.calls)
}

func TestHandleSummary_MalformedBody(t *testing.T) {
	client := &mockClient{}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleSummary, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])
	assert.Equal(t, 0, client.calls)
}

func TestHandleSummary_Success(t *testing.T) {
	summary := "Seasoned engineer.<br><br>Ships reliable systems.<br><br>Leads by example."
	client := &mockClient{resp: &llm.Response{Text: summary}}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleSummary, `{"prompt": "I am an engineer with 5 years of experience"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, summary, body.Summary)
	assert.Contains(t, client.lastPrompt, "I am an engineer with 5 years of experience")
}

func TestHandleSummary_CompletionFailure(t *testing.T) {
	client := &mockClient{err: &llm.AuthError{}}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleSummary, `{"prompt": "a draft"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestHandleProjectDescription_MissingFields(t *testing.T) {
	client := &mockClient{}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleProjectDescription, `{"projectName": "screener"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, client.calls)
}

func TestHandleProjectDescription_Success(t *testing.T) {
	client := &mockClient{resp: &llm.Response{Text: "Screens resumes automatically.<br><br>Built with Go."}}
	s := newTestServer(client, &mockFetcher{})

	w := postJSON(t, s.handleProjectDescription,
		`{"projectName": "screener", "technologies": "Go, Gemini", "repositoryUrl": "https://example.com/repo"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success     bool   `json:"success"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Contains(t, body.Description, "Screens resumes")
	assert.Contains(t, client.lastPrompt, "screener")
	assert.Contains(t, client.lastPrompt, "Go, Gemini")
	assert.Contains(t, client.lastPrompt, "https://example.com/repo")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&mockClient{}, &mockFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "ok"))
}
