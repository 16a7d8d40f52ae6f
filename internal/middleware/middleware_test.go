package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
)

func chain(h http.Handler) http.Handler {
	return Tracing(Logging(Recovery(h)))
}

func TestTracingKeepsIncomingRequestID(t *testing.T) {
	var seen string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestTracingGeneratesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	chain(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "ledger-api", "info", "production"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	logs := captureLogs(t)
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/payments", nil)
	req.Header.Set("X-Request-ID", "req-7")
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() { h.ServeHTTP(rec, req) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "an unexpected error occurred", body["error"])
	assert.Equal(t, "req-7", body["requestId"])

	var entry map[string]any
	line, _, _ := bytes.Cut(logs.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "handler panicked", entry["msg"])
	assert.Equal(t, "boom", entry["panic"])
	assert.Equal(t, http.MethodPost, entry["method"])
	assert.Equal(t, "/payments", entry["path"])
	assert.Equal(t, "req-7", entry["request_id"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecoveryReraisesAbortHandler(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	})
}

func TestTracingRejectsUnloggableRequestIDs(t *testing.T) {
	tests := []struct {
		name string
		id   string
		keep bool
	}{
		{name: "plain", id: "req-42", keep: true},
		{name: "uuid", id: "0b6f4f6c-7f0e-4a57-9a11-3f8f5b7c2d10", keep: true},
		{name: "newline", id: "req\nforged=1"},
		{name: "space", id: "req 42"},
		{name: "non ascii", id: "req-४२"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.keep, loggableTraceID(tc.id))
		})
	}
}

func TestTracingReplacesOversizedRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("a", 500))
	rec := httptest.NewRecorder()
	chain(http.NotFoundHandler()).ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxTraceIDLen)
}
