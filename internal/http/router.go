package http

import (
	"net/http"

	"pdv-backend/internal/handlers"
	"pdv-backend/internal/metrics"
	"pdv-backend/internal/middleware"
	"pdv-backend/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the route handlers.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Activities *handlers.ActivityHandler
	Customers  *handlers.CustomerHandler
	External   *handlers.ExternalHandler
	Health     *handlers.HealthHandler
}

// Options carries the cross-cutting pieces the routes are wrapped with.
type Options struct {
	Auth            *middleware.AuthMiddleware
	ExternalAPIKey  string
	LoginLimiter    *middleware.RateLimiter
	ExternalLimiter *middleware.RateLimiter
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
}

func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery, middleware.RequestLogger)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusNotFound, "Route non trouvée")
	})

	// Operational endpoints
	r.HandleFunc("/health", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/live", h.Health.BasicHealth).Methods("GET")
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Public API routes - Authentication
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	if opts.LoginLimiter != nil {
		authAPI.Use(opts.LoginLimiter.Handler)
	}
	authAPI.HandleFunc("/login", h.Auth.Login).Methods("POST")

	// Protected API routes - Activities (meta routes before {id})
	activitiesAPI := r.PathPrefix("/api/activities").Subrouter()
	activitiesAPI.Use(opts.Auth.Authenticate)
	activitiesAPI.HandleFunc("", h.Activities.ListActivities).Methods("GET")
	activitiesAPI.HandleFunc("", h.Activities.CreateActivity).Methods("POST")
	activitiesAPI.HandleFunc("/meta/points-vente", h.Activities.ListPointsVente).Methods("GET")
	activitiesAPI.HandleFunc("/meta/responsables", h.Activities.ListResponsables).Methods("GET")
	activitiesAPI.HandleFunc("/{id:[0-9]+}", h.Activities.GetActivity).Methods("GET")
	activitiesAPI.HandleFunc("/{id:[0-9]+}", h.Activities.UpdateActivity).Methods("PUT")
	activitiesAPI.HandleFunc("/{id:[0-9]+}", h.Activities.DeleteActivity).Methods("DELETE")

	// Protected API routes - Customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(opts.Auth.Authenticate)
	customersAPI.HandleFunc("", h.Customers.ListCustomers).Methods("GET")
	customersAPI.HandleFunc("", h.Customers.CreateCustomer).Methods("POST")
	customersAPI.HandleFunc("/all", h.Customers.ListAllCustomers).Methods("GET")
	customersAPI.HandleFunc("/stats", h.Customers.GetStats).Methods("GET")
	customersAPI.HandleFunc("/check-phone", h.Customers.CheckPhone).Methods("GET")
	customersAPI.HandleFunc("/export", h.Customers.ExportCustomers).Methods("GET")
	customersAPI.HandleFunc("/{id:[0-9]+}", h.Customers.GetCustomer).Methods("GET")
	customersAPI.HandleFunc("/{id:[0-9]+}", h.Customers.UpdateCustomer).Methods("PUT")
	customersAPI.HandleFunc("/{id:[0-9]+}", h.Customers.DeleteCustomer).Methods("DELETE")

	// Partner API routes - shared API key
	externalAPI := r.PathPrefix("/api/external").Subrouter()
	if opts.ExternalLimiter != nil {
		externalAPI.Use(opts.ExternalLimiter.Handler)
	}
	externalAPI.Use(middleware.APIKey(opts.ExternalAPIKey))
	externalAPI.HandleFunc("/point-vente/status", h.External.PointVenteStatus).Methods("GET")
	externalAPI.HandleFunc("/point-vente/sentiment", h.External.PointVenteSentiment).Methods("GET")

	return r
}
