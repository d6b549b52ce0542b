// Package http exposes the farm records JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"farmbook/internal/advisory"
	"farmbook/internal/amqp"
	"farmbook/internal/backup"
	applog "farmbook/internal/log"
	"farmbook/internal/sheets"
	"farmbook/internal/store"
)

// Deps carries the server's collaborators. Only Store is required; the rest
// degrade to 503 or are skipped when absent.
type Deps struct {
	Store   store.Store
	Events  *amqp.Client
	Reports sheets.ReportWriter
	Advisor advisory.Advisor
	Backups *backup.Manager
}

type Server struct {
	http.Server
	store   store.Store
	events  *amqp.Client
	reports sheets.ReportWriter
	advisor advisory.Advisor
	backups *backup.Manager

	rateLimiter *rateLimiter
	metrics     securityMetrics
	logs        *applog.StructuredLogger

	// Dashboard aggregates are cached briefly and purged on every mutation.
	dashCache *lruCache[dashboardResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            deps.Store,
		events:           deps.Events,
		reports:          deps.Reports,
		advisor:          deps.Advisor,
		backups:          deps.Backups,
		rateLimiter:      newRateLimiter(),
		logs:             applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),
		dashCache:        newLRUCache[dashboardResponse](32, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/transactions", s.withSecurity(s.handleTransactions))
	mux.HandleFunc("/api/transactions/{id}", s.withSecurity(s.handleTransactionByID))

	mux.HandleFunc("/api/crops", s.withSecurity(s.handleCrops))
	mux.HandleFunc("/api/crops/{id}", s.withSecurity(s.handleCropByID))
	mux.HandleFunc("/api/crops/{id}/profit", s.withSecurity(s.handleCropProfit))

	mux.HandleFunc("/api/equipment", s.withSecurity(s.handleEquipment))
	mux.HandleFunc("/api/equipment/{id}", s.withSecurity(s.handleEquipmentByID))
	mux.HandleFunc("/api/equipment/{id}/logs", s.withSecurity(s.handleMaintenanceLogs))
	mux.HandleFunc("/api/equipment/{id}/logs/{logID}", s.withSecurity(s.handleMaintenanceLogByID))

	mux.HandleFunc("/api/todos", s.withSecurity(s.handleTodos))
	mux.HandleFunc("/api/todos/{id}", s.withSecurity(s.handleTodoByID))
	mux.HandleFunc("/api/todos/{id}/toggle", s.withSecurity(s.handleTodoToggle))

	mux.HandleFunc("/api/notifications", s.withSecurity(s.handleNotifications))
	mux.HandleFunc("/api/notifications/seen", s.withSecurity(s.handleNotificationsSeen))
	mux.HandleFunc("/api/notifications/{id}", s.withSecurity(s.handleNotificationByID))
	mux.HandleFunc("/api/notifications/{id}/read", s.withSecurity(s.handleNotificationRead))

	mux.HandleFunc("/api/settings", s.withSecurity(s.handleSettings))

	mux.HandleFunc("/api/dashboard", s.withSecurity(s.handleDashboard))

	mux.HandleFunc("/api/export/csv", s.withSecurity(s.handleExportCSV))
	mux.HandleFunc("/api/export/document", s.withSecurity(s.handleExportDocument))
	mux.HandleFunc("/api/export/sheets", s.withSecurity(s.handleExportSheets))

	mux.HandleFunc("/api/advisory", s.withSecurity(s.handleAdvisory))

	mux.HandleFunc("/api/backup", s.withSecurity(s.handleBackup))
	mux.HandleFunc("/api/restore", s.withSecurity(s.handleRestore))

	return s
}

// startCacheCleanup drops expired dashboard entries periodically.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.dashCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurity adds security headers, rate limiting and request logging.
func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, &s.metrics) {
			slog.WarnContext(ctx, "Suspicious request",
				"request_id", requestID, "client_ip", clientIP, "url", r.URL.Path)
		}

		s.logs.LogHTTPStart(ctx, r, clientIP)

		// Rate limit mutations only; reads stay cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			TooManyRequestsError().Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logs.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// publishEvent emits a record-changed event when AMQP is configured. Publish
// failures are logged, never surfaced to the API caller.
func (s *Server) publishEvent(ctx context.Context, entity, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, amqp.NewEventMessage(entity, action, id)); err != nil {
		slog.WarnContext(ctx, "Event publish failed",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}
