package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/trogers1052/finviz-tracker/internal/database"
	"github.com/trogers1052/finviz-tracker/internal/models"
)

const defaultNewsLimit = 50

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db *database.DB
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB) *Handler {
	return &Handler{db: db}
}

// TrackerResponse is the body of GET /tracker
type TrackerResponse struct {
	Total        int                  `json:"total"`
	Todo         int                  `json:"todo"`
	Distribution []models.StatusCount `json:"distribution"`
}

// GetTracker handles GET /tracker
func (h *Handler) GetTracker(w http.ResponseWriter, r *http.Request) {
	dist, err := h.db.TrackerDistribution(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	resp := TrackerResponse{Distribution: dist}
	for _, sc := range dist {
		resp.Total += sc.Count
		if sc.Value == string(models.StatusTodo) {
			resp.Todo = sc.Count
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetCompany handles GET /companies/{ticker}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	company, err := h.db.GetCompany(r.Context(), ticker)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, company)
}

// GetCompanyNews handles GET /companies/{ticker}/news?limit=n
func (h *Handler) GetCompanyNews(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	limit := defaultNewsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	news, err := h.db.GetNewsByTicker(r.Context(), ticker, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, news)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
