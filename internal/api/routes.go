package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/tracker", handler.GetTracker).Methods("GET")
	api.HandleFunc("/companies/{ticker}", handler.GetCompany).Methods("GET")
	api.HandleFunc("/companies/{ticker}/news", handler.GetCompanyNews).Methods("GET")

	return r
}
