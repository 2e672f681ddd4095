package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ionut-t/nlsql/internal/metrics"
	"github.com/ionut-t/nlsql/pkg/llm"
	"github.com/ionut-t/nlsql/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRunner struct {
	result   pipeline.Result
	question string
	table    string
	calls    int
}

func (f *fakeRunner) Run(_ context.Context, question, table string) pipeline.Result {
	f.calls++
	f.question = question
	f.table = table
	return f.result
}

type generatorFunc func(ctx context.Context, messages []llm.Message) (string, error)

func (f generatorFunc) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	return f(ctx, messages)
}

func (f generatorFunc) Model() string { return "fake" }

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestChatValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "empty object", body: `{}`, expected: "No prompt part in the request"},
		{name: "missing table", body: `{"prompt": "q"}`, expected: "No table part in the request"},
		{name: "missing table with empty prompt", body: `{"prompt": ""}`, expected: "No table part in the request"},
		{name: "empty prompt", body: `{"prompt": "", "table": "x"}`, expected: "No prompt provided"},
		{name: "null prompt", body: `{"prompt": null, "table": "x"}`, expected: "No prompt provided"},
		{name: "empty table", body: `{"prompt": "q", "table": ""}`, expected: "No table provided"},
		{name: "non string prompt", body: `{"prompt": 5, "table": "x"}`, expected: "Field prompt must be a string"},
		{name: "invalid json", body: `{"prompt":`, expected: "Invalid JSON body"},
		{name: "array body", body: `[]`, expected: "Invalid JSON body"},
		{name: "empty body", body: ``, expected: "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{}
			srv := New(runner, zaptest.NewLogger(t), nil)

			rec := post(t, srv.Handler(), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.expected, errorMessage(t, rec))
			assert.Zero(t, runner.calls)
		})
	}
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: pipeline.Result{Kind: pipeline.KindQuery, Query: "SELECT name FROM drawing;"}}
	srv := New(runner, nil, metrics.New())

	rec := post(t, srv.Handler(), `{"prompt": "名前を表示", "table": "name TEXT"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SELECT name FROM drawing;", rec.Body.String())
	assert.Equal(t, "名前を表示", runner.question)
	assert.Equal(t, "name TEXT", runner.table)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestChatFailureIsStillOK(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: pipeline.Result{Kind: pipeline.KindFailure, Err: errors.New("connection refused")}}
	srv := New(runner, nil, nil)

	rec := post(t, srv.Handler(), `{"prompt": "q", "table": "t"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Error: connection refused", rec.Body.String())
}

func TestChatEndToEndSentinel(t *testing.T) {
	t.Parallel()

	gen := generatorFunc(func(context.Context, []llm.Message) (string, error) {
		return " Error \n", nil
	})
	srv := New(pipeline.New(gen), nil, nil)

	rec := post(t, srv.Handler(), `{"prompt": "What is the weather today?", "table": "drawing_number TEXT"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Error", rec.Body.String())
}

func TestRequestIDIsPropagated(t *testing.T) {
	t.Parallel()

	srv := New(&fakeRunner{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "version")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	srv := New(&fakeRunner{result: pipeline.Result{Kind: pipeline.KindSentinel}}, nil, m)

	post(t, srv.Handler(), `{"prompt": "q", "table": "t"}`)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nlsql_http_requests_total{method="POST",path="/chat",status="200"} 1`)
}

func TestMetricsEndpointDisabled(t *testing.T) {
	t.Parallel()

	srv := New(&fakeRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := New(&fakeRunner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
