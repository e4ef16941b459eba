package http

import (
	"net/http"

	"clinic-queue/internal/delivery/http/handler"
	"clinic-queue/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	queueHandler      *handler.QueueHandler
	adminQueueHandler *handler.AdminQueueHandler
	settingsHandler   *handler.SettingsHandler
	activityHandler   *handler.ActivityHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	queueHandler *handler.QueueHandler,
	adminQueueHandler *handler.AdminQueueHandler,
	settingsHandler *handler.SettingsHandler,
	activityHandler *handler.ActivityHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		queueHandler:      queueHandler,
		adminQueueHandler: adminQueueHandler,
		settingsHandler:   settingsHandler,
		activityHandler:   activityHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Queue routes (protected - any authenticated user)
	queues := api.PathPrefix("/queues").Subrouter()
	queues.Use(r.authMiddleware.Authenticate)
	queues.HandleFunc("/available-slots", r.queueHandler.GetAvailableSlots).Methods(http.MethodGet)
	queues.HandleFunc("/current", r.queueHandler.GetCurrentQueue).Methods(http.MethodGet)

	// Queue routes (protected - patient only)
	patientQueues := api.PathPrefix("/queues").Subrouter()
	patientQueues.Use(r.authMiddleware.Authenticate)
	patientQueues.Use(middleware.RequirePatient)
	patientQueues.HandleFunc("", r.queueHandler.BookQueue).Methods(http.MethodPost)
	patientQueues.HandleFunc("/my", r.queueHandler.GetMyQueues).Methods(http.MethodGet)
	patientQueues.HandleFunc("/{id}/cancel", r.queueHandler.CancelQueue).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Queue management (admin)
	admin.HandleFunc("/queues", r.adminQueueHandler.GetQueuesByDate).Methods(http.MethodGet)
	admin.HandleFunc("/queues/call-next", r.adminQueueHandler.CallNext).Methods(http.MethodPost)
	admin.HandleFunc("/queues/{id}/complete", r.adminQueueHandler.CompleteQueue).Methods(http.MethodPatch)
	admin.HandleFunc("/queues/{id}/status", r.adminQueueHandler.UpdateQueueStatus).Methods(http.MethodPatch)

	// Practice settings (admin)
	admin.HandleFunc("/settings", r.settingsHandler.GetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", r.settingsHandler.UpdateSettings).Methods(http.MethodPut)

	// Activity log (admin)
	admin.HandleFunc("/activities", r.activityHandler.GetRecentActivities).Methods(http.MethodGet)
	admin.HandleFunc("/activities/stats", r.activityHandler.GetActivityStats).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
