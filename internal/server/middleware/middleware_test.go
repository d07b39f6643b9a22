package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		header     string
		query      string
		wantStatus int
	}{
		{
			name:       "empty token disables the check",
			token:      "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "token scheme accepted",
			token:      "s3cret",
			header:     "token s3cret",
			wantStatus: http.StatusOK,
		},
		{
			name:       "bearer scheme accepted",
			token:      "s3cret",
			header:     "Bearer s3cret",
			wantStatus: http.StatusOK,
		},
		{
			name:       "query parameter accepted",
			token:      "s3cret",
			query:      "?token=s3cret",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing credential rejected",
			token:      "s3cret",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong token rejected",
			token:      "s3cret",
			header:     "token nope",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown scheme is not bypassed by query parameter",
			token:      "s3cret",
			header:     "Basic s3cret",
			query:      "?token=s3cret",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(tt.token)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "token", rec.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"status":"error","message":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_ClientSuppliedKept(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/pot")
	assert.Contains(t, out, "status=418")
}
