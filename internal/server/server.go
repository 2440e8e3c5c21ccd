package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/auth"
	"github.com/hongminglow/taskboard/internal/config"
	"github.com/hongminglow/taskboard/internal/http/handlers"
	"github.com/hongminglow/taskboard/internal/http/respond"
	"github.com/hongminglow/taskboard/internal/middleware"
	"github.com/hongminglow/taskboard/internal/service"
	"github.com/hongminglow/taskboard/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log *zap.Logger) (*Server, error) {
	handler, err := NewHandler(cfg, store, log)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// NewHandler builds the full router on top of store.
func NewHandler(cfg config.Config, store storage.Store, log *zap.Logger) (http.Handler, error) {
	enforcer, err := auth.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("init role enforcer: %w", err)
	}

	rw := respond.NewWriter(log, !cfg.IsProduction())
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authSvc := service.NewAuthService(store, tokens, auth.NewHasher(cfg.BcryptCost), log)
	taskSvc := service.NewTaskService(store, log)

	health := handlers.NewHealthHandler(time.Now(), rw)
	authH := handlers.NewAuthHandler(authSvc, rw, handlers.CookieOptions{Secure: cfg.IsProduction(), MaxAge: cfg.JWTTTL})
	taskH := handlers.NewTaskHandler(taskSvc, rw)
	adminH := handlers.NewAdminHandler(taskSvc, authSvc, rw)

	authn := middleware.Authenticate(authSvc, rw)
	guard := func(obj string) func(http.Handler) http.Handler {
		authz := middleware.Authorize(enforcer, rw, obj)
		return func(next http.Handler) http.Handler { return authn(authz(next)) }
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, middleware.Logging(log), chimw.Recoverer, middleware.CORS(cfg.CORSOrigins))
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		rw.Error(w, http.StatusNotFound, fmt.Sprintf("Route %s %s not found", req.Method, req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		rw.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", health.Root)
	r.Route("/api/v1", func(r chi.Router) {
		health.Routes(r)
		r.Route("/auth", func(r chi.Router) {
			authH.Routes(r, guard(auth.ObjectProfile))
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Use(guard(auth.ObjectTasks))
			taskH.Routes(r)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(guard(auth.ObjectAdmin))
			adminH.Routes(r)
		})
	})

	return r, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
