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

	// Auth routes
	api.HandleFunc("/auth/signup", handler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", handler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", handler.RequireAuth(handler.Logout)).Methods("POST")

	// Journal routes
	api.HandleFunc("/trades", handler.RequireAuth(handler.ListTrades)).Methods("GET")
	api.HandleFunc("/trades", handler.RequireAuth(handler.CreateTrade)).Methods("POST")
	api.HandleFunc("/trades/{id}", handler.RequireAuth(handler.GetTrade)).Methods("GET")
	api.HandleFunc("/trades/{id}", handler.RequireAuth(handler.DeleteTrade)).Methods("DELETE")
	api.HandleFunc("/options", handler.RequireAuth(handler.GetOptions)).Methods("GET")

	// Dashboard routes
	api.HandleFunc("/dashboard/equity-curve", handler.RequireAuth(handler.GetEquityCurve)).Methods("GET")
	api.HandleFunc("/dashboard/cumulative-rate", handler.RequireAuth(handler.GetCumulativeRate)).Methods("GET")
	api.HandleFunc("/dashboard/monthly-win-rate", handler.RequireAuth(handler.GetMonthlyWinRate)).Methods("GET")
	api.HandleFunc("/dashboard/risk", handler.RequireAuth(handler.GetRisk)).Methods("GET")

	return r
}
