package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

// CategoryLister serves the category registry.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
}

// Pinger reports storage liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the JSON API onto an http.Server. All /api routes except
// auth and categories require a bearer token.
type Server struct {
	http.Server

	users        *services.UserService
	transactions *services.TransactionService
	budgets      *services.BudgetService
	reports      *services.ReportService
	authSvc      *auth.Service
	categories   CategoryLister
	pinger       Pinger

	rateLimiter   *rateLimiter
	allowedOrigin string
}

func NewServer(addr, allowedOrigin string,
	users *services.UserService,
	transactions *services.TransactionService,
	budgets *services.BudgetService,
	reports *services.ReportService,
	authSvc *auth.Service,
	categories CategoryLister,
	pinger Pinger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		users:         users,
		transactions:  transactions,
		budgets:       budgets,
		reports:       reports,
		authSvc:       authSvc,
		categories:    categories,
		pinger:        pinger,
		rateLimiter:   newRateLimiter(),
		allowedOrigin: allowedOrigin,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.wrap(s.withAuth(s.handleMe)))

	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))

	mux.HandleFunc("GET /api/transactions", s.wrap(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.wrap(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.wrap(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.wrap(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/budgets", s.wrap(s.withAuth(s.handleListBudgets)))
	mux.HandleFunc("POST /api/budgets", s.wrap(s.withAuth(s.handleCreateBudget)))
	mux.HandleFunc("PUT /api/budgets/{id}", s.wrap(s.withAuth(s.handleUpdateBudget)))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.wrap(s.withAuth(s.handleDeleteBudget)))

	mux.HandleFunc("GET /api/reports/summary", s.wrap(s.withAuth(s.handleSummary)))
	mux.HandleFunc("GET /api/reports/trend", s.wrap(s.withAuth(s.handleTrend)))

	mux.HandleFunc("OPTIONS /api/", s.handleCORSPreflight)

	return s
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

// wrap adds request ID, logging, security headers, CORS and rate limiting.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeMessage(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		s.setCORSHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	if s.allowedOrigin == "" {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
}

func (s *Server) handleCORSPreflight(w http.ResponseWriter, r *http.Request) {
	s.setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

type requestIDKey struct{}
type ownerKey struct{}

// withAuth resolves the bearer token into an owner id. Anything short of a
// live session gets 401 with the contract's wording.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		owner, err := s.authSvc.Authenticate(r.Context(), token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), ownerKey{}, owner)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return "", false
	}
	return h[len(prefix):], true
}

func ownerFrom(r *http.Request) int64 {
	owner, _ := r.Context().Value(ownerKey{}).(int64)
	return owner
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// handleReady reports ready only when the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ready")
}
