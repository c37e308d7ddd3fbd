// Package api exposes the inventory stores over HTTP.
package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/safar/inventory-api/internal/auth"
	"github.com/safar/inventory-api/internal/database"
)

type Server struct {
	db     *sql.DB
	auth   *auth.Service
	logger *slog.Logger
}

func NewServer(db *sql.DB, authService *auth.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{db: db, auth: authService, logger: logger}
}

// Handler returns the routed handler wrapped in recovery and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/token", s.handleToken)
	mux.Handle("GET /auth/me", s.requireUser(s.handleMe))

	mux.HandleFunc("/products", s.routeProducts)
	mux.HandleFunc("/products/", s.routeProducts)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, http.StatusNotFound, "Not Found")
	})

	return s.recoverPanics(s.logRequests(mux))
}

type methodHandlers map[string]http.HandlerFunc

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, handlers methodHandlers) {
	if h, ok := handlers[r.Method]; ok {
		h(w, r)
		return
	}

	allowed := make([]string, 0, len(handlers))
	for method := range handlers {
		allowed = append(allowed, method)
	}
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	s.respondStatus(w, http.StatusMethodNotAllowed, methodNotAllowedMessage(r.Method))
}

// routeProducts resolves the /products subtree by segment. Category routes
// live under the same prefix as product ids, so ServeMux patterns alone
// would overlap here.
func (s *Server) routeProducts(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/products"), "/")
	var parts []string
	if rest != "" {
		parts = strings.Split(rest, "/")
	}

	switch {
	case len(parts) == 0:
		s.dispatch(w, r, methodHandlers{
			http.MethodGet:  s.handleListProducts,
			http.MethodPost: s.requireUser(s.handleCreateProduct),
		})

	case parts[0] == "categories" && len(parts) == 1:
		s.dispatch(w, r, methodHandlers{
			http.MethodGet:  s.handleListCategories,
			http.MethodPost: s.requireUser(s.handleCreateCategory),
		})

	case parts[0] == "categories" && len(parts) == 2:
		r.SetPathValue("id", parts[1])
		s.dispatch(w, r, methodHandlers{
			http.MethodGet:    s.handleGetCategory,
			http.MethodPut:    s.requireUser(s.handleUpdateCategory),
			http.MethodDelete: s.requireUser(s.handleDeleteCategory),
		})

	case len(parts) == 1:
		r.SetPathValue("id", parts[0])
		s.dispatch(w, r, methodHandlers{
			http.MethodGet:    s.handleGetProduct,
			http.MethodPut:    s.requireUser(s.handleUpdateProduct),
			http.MethodDelete: s.requireUser(s.handleDeleteProduct),
		})

	case len(parts) == 2 && parts[1] == "transactions":
		r.SetPathValue("id", parts[0])
		s.dispatch(w, r, methodHandlers{
			http.MethodGet:  s.handleListTransactions,
			http.MethodPost: s.requireUser(s.handleRecordTransaction),
		})

	case len(parts) == 3 && parts[1] == "transactions":
		r.SetPathValue("id", parts[0])
		r.SetPathValue("tid", parts[2])
		s.dispatch(w, r, methodHandlers{
			http.MethodGet: s.handleGetTransaction,
		})

	default:
		s.respondStatus(w, http.StatusNotFound, "Not Found")
	}
}

// requireUser gates h behind a valid bearer token.
func (s *Server) requireUser(h http.HandlerFunc) http.HandlerFunc {
	return s.auth.Middleware(s.respondError)(h).ServeHTTP
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(r.Context(), s.db); err != nil {
		s.logger.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
		s.respondStatus(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
