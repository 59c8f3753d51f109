// Package api serves the read and resolve interface over HTTP, a websocket
// status feed and the Prometheus scrape endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mfreeman451/meshmon/pkg/db"
	httpx "github.com/mfreeman451/meshmon/pkg/http"
	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultHours      = 24
	maxHours          = 24 * 90
	defaultLimit      = 50
	maxLimit          = 1000
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type Server struct {
	store        db.Service
	router       *mux.Router
	logger       *slog.Logger
	pushInterval time.Duration
	upgrader     websocket.Upgrader
	now          func() time.Time

	// feeds ends hijacked websocket connections, which Shutdown does not track.
	feeds      context.Context
	closeFeeds context.CancelFunc
}

func NewServer(store db.Service, pushInterval time.Duration, logger *slog.Logger) *Server {
	s := &Server{
		store:        store,
		router:       mux.NewRouter(),
		logger:       logger,
		pushInterval: pushInterval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now: time.Now,
	}

	s.feeds, s.closeFeeds = context.WithCancel(context.Background())

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware)
	s.router.Use(httpx.LoggingMiddleware(s.logger))

	s.router.HandleFunc("/api/status", s.getStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/api/nodes", s.getNodes).Methods(http.MethodGet)
	s.router.HandleFunc("/api/nodes/{hostname}", s.getNode).Methods(http.MethodGet)
	s.router.HandleFunc("/api/metrics/{hostname}", s.getMetricHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/api/alerts", s.getAlerts).Methods(http.MethodGet)
	s.router.HandleFunc("/api/alerts/{id}/resolve", s.resolveAlert).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/api/topology", s.getTopology).Methods(http.MethodGet)
	s.router.HandleFunc("/api/ws", s.statusFeed).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	srv.RegisterOnShutdown(s.closeFeeds)

	errCh := make(chan error, 1)

	go func() {
		s.logger.InfoContext(ctx, "api listening", slog.String("addr", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}

	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, db.ErrNodeNotFound), errors.Is(err, db.ErrAlertNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errInvalidParam), errors.Is(err, errInvalidID):
		status = http.StatusBadRequest
	default:
		s.logger.ErrorContext(r.Context(), "api request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	s.writeJSON(w, status, errorResponse{Error: msg})
}

func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be an integer in [%d, %d]", errInvalidParam, name, lo, hi)
	}

	return v, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", errInvalidParam, name)
	}

	return v, nil
}

func statusFrom(sum *models.Summary) StatusResponse {
	var resp StatusResponse

	resp.Nodes.Total = sum.TotalNodes
	resp.Nodes.Online = sum.OnlineNodes
	resp.Nodes.Offline = sum.OfflineNodes
	resp.Alerts.Critical = sum.CriticalAlerts
	resp.Alerts.Warning = sum.WarningAlerts

	return resp
}
