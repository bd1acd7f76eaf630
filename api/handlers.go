package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"price-chart/chart"
	"price-chart/config"
	"price-chart/logging"
	"price-chart/models"
	"price-chart/series"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	generator *series.Generator
	resolver  *series.Resolver
	version   string
	started   time.Time
	log       *logrus.Entry
}

func NewHandler(gen *series.Generator, resolver *series.Resolver, version string, logger logrus.FieldLogger) *Handler {
	return &Handler{
		generator: gen,
		resolver:  resolver,
		version:   version,
		started:   time.Now(),
		log:       logging.Component(logger, "api"),
	}
}

// DataGenerate serves a synthetic series as a JSON array. Bad or missing
// parameters fall back to defaults instead of failing.
func (h *Handler) DataGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := h.resolver.Days(q.Get("days"))
	seed := h.resolver.Seed(q.Get("seed"))

	data := h.generator.Generate(days, seed)

	h.log.WithFields(logrus.Fields{
		"days":       days,
		"seed":       seed,
		"request_id": RequestID(r.Context()),
	}).Debug("Generated series")

	writeJSON(w, http.StatusOK, data)
}

// GetPeriods lists the chart periods and their day counts, shortest first.
func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.Periods())
}

// GetChart renders the series for period (or days) and seed as a PNG, with
// the seed+1 comparison overlay when compare is set.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := q.Get("period")
	days := h.resolver.PeriodDays(period, q.Get("days"))
	seed := h.resolver.Seed(q.Get("seed"))
	compare, _ := strconv.ParseBool(q.Get("compare"))
	width, _ := strconv.Atoi(q.Get("width"))
	height, _ := strconv.Atoi(q.Get("height"))

	var primary, comparison models.Series
	if compare {
		primary, comparison = h.generator.Compare(days, seed)
	} else {
		primary = h.generator.Generate(days, seed)
	}

	title := "BTC / USD"
	if period != "" {
		title += " • " + strings.ToUpper(period)
	}

	img, err := chart.Render(primary, comparison, chart.Options{
		Title:  title,
		Width:  clampDimension(width),
		Height: clampDimension(height),
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to render chart")
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	})
}

const maxDimension = 2000

// clampDimension keeps requested image sizes within bounds; zero selects the default.
func clampDimension(v int) int {
	if v <= 0 {
		return 0
	}
	if v > maxDimension {
		return maxDimension
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
