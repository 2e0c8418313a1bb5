package http

import (
	"net/http"

	"medguide/internal/delivery/http/handler"
	"medguide/internal/delivery/http/middleware"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	bookingHandler    *handler.BookingHandler
	predictionHandler *handler.PredictionHandler
	assistantHandler  *handler.AssistantHandler
	authHandler       *handler.AuthHandler
	dashboardHandler  *handler.DashboardHandler
	exportHandler     *handler.ExportHandler
	auditLogHandler   *handler.AuditLogHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
	metricsHandler    http.Handler
}

func NewRouter(
	bookingHandler *handler.BookingHandler,
	predictionHandler *handler.PredictionHandler,
	assistantHandler *handler.AssistantHandler,
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
	exportHandler *handler.ExportHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		bookingHandler:    bookingHandler,
		predictionHandler: predictionHandler,
		assistantHandler:  assistantHandler,
		authHandler:       authHandler,
		dashboardHandler:  dashboardHandler,
		exportHandler:     exportHandler,
		auditLogHandler:   auditLogHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		metricsMiddleware: metricsMiddleware,
		metricsHandler:    metricsHandler,
	}
}

func (r *Router) Setup() http.Handler {
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patient-facing routes (public)
	api.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/predictions", r.predictionHandler.Predict).Methods(http.MethodPost)
	api.HandleFunc("/predictions/model", r.predictionHandler.GetModelInfo).Methods(http.MethodGet)
	api.HandleFunc("/assistant/chat", r.assistantHandler.Chat).Methods(http.MethodPost)
	api.HandleFunc("/translate", r.assistantHandler.Translate).Methods(http.MethodPost)

	// Admin login (public)
	api.HandleFunc("/admin/login", r.authHandler.AdminLogin).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Stored records
	admin.HandleFunc("/bookings", r.bookingHandler.GetAllBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id:[0-9]+}", r.bookingHandler.DeleteBooking).Methods(http.MethodDelete)
	admin.HandleFunc("/predictions", r.predictionHandler.GetAllPredictions).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)

	// Dashboards
	admin.HandleFunc("/dashboard/bookings", r.dashboardHandler.GetBookingDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/predictions", r.dashboardHandler.GetPredictionDashboard).Methods(http.MethodGet)

	// Exports
	admin.HandleFunc("/export/{kind}", r.exportHandler.ExportCSV).Methods(http.MethodGet)
	admin.HandleFunc("/export/{kind}/archive", r.exportHandler.ArchiveExport).Methods(http.MethodPost)

	r.router.Use(r.metricsMiddleware.Handle)

	// CORS wraps the router so preflight requests are answered before method matching.
	sentryHandler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return sentryHandler.Handle(r.corsMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
