package api

import (
	"context"
	"net/http"
	"time"

	"price-chart/config"
	"price-chart/logging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

type ctxKey struct{}

type Server struct {
	httpServer *http.Server
	log        *logrus.Entry
}

// NewServer wires the routes. ws and page may be nil, in which case their
// routes are not registered.
func NewServer(cfg config.Server, addr string, h *Handler, ws http.HandlerFunc, page http.Handler, logger logrus.FieldLogger) *Server {
	log := logging.Component(logger, "http")

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(h, ws, page, cfg.CORSAllowOrigin, log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

func NewRouter(h *Handler, ws http.HandlerFunc, page http.Handler, corsOrigin string, log *logrus.Entry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/data-generate", h.DataGenerate)
	mux.HandleFunc("GET /api/periods", h.GetPeriods)
	mux.HandleFunc("GET /api/chart.png", h.GetChart)
	mux.HandleFunc("GET /health", h.HealthCheck)
	if ws != nil {
		mux.HandleFunc("GET /ws/series", ws)
	}
	if page != nil {
		mux.Handle("GET /{$}", page)
	}

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(mux, corsOrigin), log))
}

func (s *Server) Start() error {
	s.log.Infof("Starting server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// RequestID returns the id assigned to the request, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler, log *logrus.Entry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// gorilla needs the raw writer to hijack the connection
		if r.URL.Path == "/ws/series" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  RequestID(r.Context()),
		}).Info("Request handled")
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
