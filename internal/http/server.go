// Package http exposes the budget, learning, profile and market operations
// as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/identity"
	"github.com/Maxerns/moneymentor-sub000/internal/learning"
	"github.com/Maxerns/moneymentor-sub000/internal/ledger"
	applog "github.com/Maxerns/moneymentor-sub000/internal/log"
	"github.com/Maxerns/moneymentor-sub000/internal/market"
	"github.com/Maxerns/moneymentor-sub000/internal/middleware/ratelimit"
	"github.com/Maxerns/moneymentor-sub000/internal/profile"
)

type Server struct {
	http.Server

	ledger   *ledger.Service
	learning *learning.Tracker
	profiles *profile.Service
	market   *market.Client
	verifier identity.Verifier

	rateLimiter *ratelimit.Limiter
}

// Options carries optional server collaborators. Market and Verifier may be
// nil; the matching endpoints then answer 404 and all callers are guests.
type Options struct {
	Market            *market.Client
	Verifier          identity.Verifier
	Logger            *applog.Logger
	RequestsPerMinute int
}

func NewServer(addr string, ledgerSvc *ledger.Service, tracker *learning.Tracker, profiles *profile.Service, opts Options) *Server {
	mux := http.NewServeMux()

	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	handler := applog.Middleware(logger)(applog.RequestLogger(logger)(mux))

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: handler,
		},
		ledger:   ledgerSvc,
		learning: tracker,
		profiles: profiles,
		market:   opts.Market,
		verifier: opts.Verifier,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
		}),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/budget", s.withSecurityHeaders(s.handleBudget))
	mux.HandleFunc("/api/budget/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/api/budget/income", s.withSecurityHeaders(s.handleIncome))
	mux.HandleFunc("/api/budget/categories", s.withSecurityHeaders(s.handleCategories))

	mux.HandleFunc("/api/learning/progress", s.withSecurityHeaders(s.handleProgress))
	mux.HandleFunc("/api/learning/path", s.withSecurityHeaders(s.handleSelectPath))
	mux.HandleFunc("/api/learning/sections", s.withSecurityHeaders(s.handleCompleteSection))
	mux.HandleFunc("/api/learning/paths", s.withSecurityHeaders(s.handleListPaths))

	mux.HandleFunc("/api/profile", s.withSecurityHeaders(s.handleProfile))
	mux.HandleFunc("/api/profile/financials", s.withSecurityHeaders(s.handleFinancials))
	mux.HandleFunc("/api/profile/theme", s.withSecurityHeaders(s.handleTheme))
	mux.HandleFunc("/api/profile/bank", s.withSecurityHeaders(s.handleBank))
	mux.HandleFunc("/api/profile/account", s.withSecurityHeaders(s.handleAccount))

	mux.HandleFunc("/api/market/quotes", s.withSecurityHeaders(s.handleQuotes))

	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ready")
}

// Shutdown stops background helpers before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}

// withSecurityHeaders adds security headers, a request ID and rate limiting
// around each handler. Completion logging lives in the outer middleware.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.Allow(clientIP) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		next(w, r)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// currentUser resolves the caller from the Authorization header. No header
// means guest (empty UID). With no verifier wired, the bearer token is
// trusted as the UID directly; local development only.
func (s *Server) currentUser(r *http.Request) (identity.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return identity.User{}, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return identity.User{}, fmt.Errorf("malformed authorization header: %w", core.ErrNotAuthenticated)
	}
	if s.verifier == nil {
		return identity.User{UID: token}, nil
	}
	return s.verifier.Verify(r.Context(), token)
}

// requireUser is currentUser for mutating endpoints: guests are rejected.
func (s *Server) requireUser(r *http.Request) (identity.User, error) {
	user, err := s.currentUser(r)
	if err != nil {
		return identity.User{}, err
	}
	if user.UID == "" {
		return identity.User{}, core.ErrNotAuthenticated
	}
	return user, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps domain errors to HTTP statuses: validation failures are
// 422, missing things 404, missing identity 401, persistence trouble 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		status, code = http.StatusUnprocessableEntity, "invalid_amount"
	case errors.Is(err, core.ErrMissingDescription):
		status, code = http.StatusUnprocessableEntity, "missing_description"
	case errors.Is(err, core.ErrUnknownCategory):
		status, code = http.StatusUnprocessableEntity, "unknown_category"
	case errors.Is(err, core.ErrCategoryExists):
		status, code = http.StatusConflict, "category_exists"
	case errors.Is(err, core.ErrCategoryInUse):
		status, code = http.StatusConflict, "category_in_use"
	case errors.Is(err, core.ErrUnknownPath):
		status, code = http.StatusUnprocessableEntity, "unknown_path"
	case errors.Is(err, core.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, core.ErrNotAuthenticated):
		status, code = http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, core.ErrPersistence):
		status, code = http.StatusInternalServerError, "persistence_error"
	default:
		status, code = http.StatusBadRequest, "bad_request"
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"url", r.URL.Path)
		writeJSON(w, status, errorResponse{Error: "internal error", Code: code})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
