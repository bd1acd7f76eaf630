package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"price-chart/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/data-generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouter_OptionalRoutes(t *testing.T) {
	h := newTestHandler()
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	})
	router := NewRouter(h, nil, page, "*", h.log)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "page", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws/series", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCorsMiddleware_Headers(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := corsMiddleware(inner, "https://chart.example.com")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/data-generate", nil))

	assert.Equal(t, "https://chart.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestCorsMiddleware_DefaultOrigin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	rr := httptest.NewRecorder()
	corsMiddleware(inner, "").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called for OPTIONS")
	})

	rr := httptest.NewRecorder()
	corsMiddleware(inner, "*").ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/data-generate", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	})

	rr := httptest.NewRecorder()
	requestIDMiddleware(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rr.Header().Get(requestIDHeader))
}

func TestRequestIDMiddleware_PropagatesIncoming(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	requestIDMiddleware(inner).ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestRequestID_Outside(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestServer_StartAndShutdown(t *testing.T) {
	h := newTestHandler()
	srv := NewServer(config.Default().Server, "127.0.0.1:0", h, nil, nil, nil)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.ErrorIs(t, <-errc, http.ErrServerClosed)
}
