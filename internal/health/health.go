// Package health содержит health check сервер.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server представляет health check сервер
type Server struct {
	server  *http.Server
	db      Pinger
	proxies ProxyCounter
	stats   StatsSource
	logger  *zap.Logger
}

// NewServer создает новый health check сервер
func NewServer(port string, logger *zap.Logger, db Pinger, proxies ProxyCounter, stats StatsSource) *Server {
	mux := http.NewServeMux()

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	healthServer := &Server{
		server:  server,
		db:      db,
		proxies: proxies,
		stats:   stats,
		logger:  logger,
	}

	// Регистрируем маршруты
	mux.HandleFunc("/health", healthServer.healthHandler)
	mux.HandleFunc("/ready", healthServer.readyHandler)
	mux.HandleFunc("/live", healthServer.liveHandler)
	mux.HandleFunc("/stats", healthServer.statsHandler)

	return healthServer
}

// Start запускает health check сервер
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop останавливает health check сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

// healthHandler обрабатывает запросы /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if err := s.checkDatabase(r.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		s.logger.Error("Health check failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, status, time.Now().Format(time.RFC3339))
}

// readyHandler обрабатывает запросы /ready.
// Сервис готов, когда база отвечает и в пуле есть хотя бы один свободный прокси.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK

	if err := s.checkReadiness(r.Context()); err != nil {
		status = "not ready"
		code = http.StatusServiceUnavailable
		s.logger.Error("Readiness check failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, status, time.Now().Format(time.RFC3339))
}

// liveHandler обрабатывает запросы /live
func (s *Server) liveHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"alive","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// statsHandler обрабатывает запросы /stats
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.stats == nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"stats are not available"}`)
		return
	}

	if err := json.NewEncoder(w).Encode(s.stats.GetStats()); err != nil {
		s.logger.Error("Failed to encode stats", zap.Error(err))
	}
}

// checkDatabase проверяет подключение к базе данных
func (s *Server) checkDatabase(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// checkReadiness проверяет готовность к работе
func (s *Server) checkReadiness(ctx context.Context) error {
	if err := s.checkDatabase(ctx); err != nil {
		return fmt.Errorf("database is not ready: %w", err)
	}

	if s.proxies != nil {
		free, err := s.proxies.FreeCount()
		if err != nil {
			return fmt.Errorf("failed to count free proxies: %w", err)
		}
		if free == 0 {
			return fmt.Errorf("proxy pool is exhausted")
		}
	}

	return nil
}
