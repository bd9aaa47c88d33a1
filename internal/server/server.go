// Package server provides the HTTP JSON API for the professional network and
// its CV pages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samlatif/network/internal/config"
	"github.com/samlatif/network/internal/cvdata"
	"github.com/samlatif/network/internal/cvfilter"
	"github.com/samlatif/network/internal/logger"
	"github.com/samlatif/network/internal/server/middleware"
	"github.com/samlatif/network/internal/server/ratelimit"
	"github.com/samlatif/network/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	config      *config.Config
	cv          *cvdata.Assembler
	engine      *cvfilter.Engine
	sessions    *sessionCodec
	rateLimiter *ratelimit.Limiter
	log         *zap.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithRateLimiter replaces the limiter loaded from RATE_LIMIT_* variables.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.rateLimiter = l }
}

// New creates a server over store. shared is the dataset CV payloads fall back
// to; its rule tables drive the filtering engine.
func New(cfg *config.Config, store Store, shared *types.CVData, log *zap.Logger, opts ...Option) *Server {
	log = logger.OrNop(log)
	if shared == nil {
		shared = &types.CVData{}
	}

	s := &Server{
		store:    store,
		config:   cfg,
		engine:   cvfilter.NewEngine(cvfilter.RulesFrom(shared)),
		sessions: newSessionCodec(cfg.Session),
		log:      log,
		cv: &cvdata.Assembler{
			Store:            store,
			Shared:           shared,
			FeaturedUsername: cfg.FeaturedUser,
			Logger:           log,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Session
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)

	// Feed
	mux.HandleFunc("GET /api/feed", s.handleFeed)
	mux.HandleFunc("POST /api/posts", s.handleCreatePost)

	// Profiles and CV editors
	mux.HandleFunc("GET /api/profiles", s.handleListProfiles)
	mux.HandleFunc("GET /api/profiles/{username}", s.handleGetProfile)
	mux.HandleFunc("PATCH /api/profiles/{username}/tech-rows", s.handleUpdateTechRows)
	mux.HandleFunc("PATCH /api/profiles/{username}/overview-stats", s.handleUpdateOverviewStats)
	mux.HandleFunc("PATCH /api/profiles/{username}/education", s.handleUpdateEducation)

	// Connections
	mux.HandleFunc("GET /api/connections", s.handleListConnections)
	mux.HandleFunc("POST /api/connections", s.handleCreateConnection)
	mux.HandleFunc("PATCH /api/connections", s.handleUpdateConnection)

	// Messages
	mux.HandleFunc("GET /api/messages", s.handleListConversations)
	mux.HandleFunc("POST /api/messages", s.handleSendMessage)

	// CV payload and filtering
	mux.HandleFunc("GET /api/cv/{username}", s.handleCV)
	mux.HandleFunc("GET /api/cv/{username}/filter", s.handleCVFilter)

	session := middleware.CurrentUser(s.sessions, cfg.DemoUser)
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(session(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()

	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers. Allow-listed origins are echoed back; any other
// caller gets the wildcard.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowOrigin := "*"
		if origin := r.Header.Get("Origin"); origin != "" && s.config.IsAllowedOrigin(origin) {
			allowOrigin = origin
		}

		methods := "GET,POST,PATCH,OPTIONS"
		if strings.HasPrefix(r.URL.Path, "/api/cv/") {
			methods = "GET,OPTIONS"
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String(logger.FieldPath, r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code. Unexpected errors are logged and
// reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String(logger.FieldPath, r.URL.Path),
			zap.Error(err),
		)
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON decodes a request body into dst and runs its validation.
func decodeJSON[T interface{ Validate() error }](w http.ResponseWriter, r *http.Request, dst T) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Message: "Invalid JSON body."}
	}
	if err := dst.Validate(); err != nil {
		return newValidationError(err)
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["resetAt"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retryAfter"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.String("method", r.Method),
		zap.String(logger.FieldPath, r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
