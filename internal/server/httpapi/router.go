package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// routes builds the full route table and wraps it with CORS.
func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/forgot", s.handleForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/google/start", s.handleGoogleStart).Methods(http.MethodPost)

	// Separate subrouter so the auth middleware only guards these routes.
	profile := r.PathPrefix("/auth").Subrouter()
	profile.Use(s.authMiddleware)
	profile.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	profile.HandleFunc("/change-password", s.handleChangePassword).Methods(http.MethodPost)

	tasks := r.PathPrefix("/tasks").Subrouter()
	tasks.Use(s.authMiddleware)
	tasks.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", s.handleGetTask).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", s.handlePatchTask).Methods(http.MethodPatch)
	tasks.HandleFunc("/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	return s.cors()(r)
}

func (s *Server) cors() func(http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	}
	if len(s.corsOrigins) != 1 || s.corsOrigins[0] != "*" {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}
