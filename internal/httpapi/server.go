// Package httpapi exposes the list and task services as a JSON API under /api.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"checklists/internal/service"
)

// Server holds the services the handlers call.
type Server struct {
	lists   *service.ListService
	tasks   *service.TaskService
	auth    *service.AuthService
	origins []string
	log     zerolog.Logger
}

// NewServer builds the API. origins lists the browser origins allowed to
// call it; "*" allows any.
func NewServer(lists *service.ListService, tasks *service.TaskService, auth *service.AuthService, origins []string, log zerolog.Logger) *Server {
	return &Server{
		lists:   lists,
		tasks:   tasks,
		auth:    auth,
		origins: origins,
		log:     log.With().Str("component", "http").Logger(),
	}
}

// Router builds the route table with CORS, access logging and bearer auth.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(
		hlog.NewHandler(s.log),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		}),
	)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Auth routes
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	// Todo routes
	todos := api.PathPrefix("/todos").Subrouter()
	todos.Use(requireUser(s.auth))
	todos.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	todos.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	todos.HandleFunc("/deleted", s.handleListTrashedTasks).Methods(http.MethodGet)
	todos.HandleFunc("/reorder", s.handleReorderTasks).Methods(http.MethodPost)
	todos.HandleFunc("/{id}", s.handleGetTask).Methods(http.MethodGet)
	todos.HandleFunc("/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	todos.HandleFunc("/{id}", s.handleSoftDeleteTask).Methods(http.MethodDelete)
	todos.HandleFunc("/{id}/restore", s.handleRestoreTask).Methods(http.MethodPut)
	todos.HandleFunc("/{id}/permanent", s.handlePurgeTask).Methods(http.MethodDelete)

	// Todo list routes
	lists := api.PathPrefix("/todolists").Subrouter()
	lists.Use(requireUser(s.auth))
	lists.HandleFunc("", s.handleListLists).Methods(http.MethodGet)
	lists.HandleFunc("", s.handleCreateList).Methods(http.MethodPost)
	lists.HandleFunc("/deleted", s.handleListTrashedLists).Methods(http.MethodGet)
	lists.HandleFunc("/{id}", s.handleGetList).Methods(http.MethodGet)
	lists.HandleFunc("/{id}", s.handleUpdateList).Methods(http.MethodPut)
	lists.HandleFunc("/{id}", s.handleSoftDeleteList).Methods(http.MethodDelete)
	lists.HandleFunc("/{id}/restore", s.handleRestoreList).Methods(http.MethodPut)
	lists.HandleFunc("/{id}/permanent", s.handlePurgeList).Methods(http.MethodDelete)

	// Preflight requests never reach the router; its routes are method-bound.
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Request-Id"}),
		handlers.ExposedHeaders([]string{"X-Request-Id"}),
	)
	return cors(router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
