// Package server exposes the booking engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/parceldesk/courier/internal/booking"
	"github.com/parceldesk/courier/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the booking engine.
type Server struct {
	port      int
	engine    *booking.Engine
	shipments store.ShipmentStore
	logger    *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, engine *booking.Engine, shipments store.ShipmentStore, logger *otelzap.Logger) *Server {
	return &Server{
		port:      cfg.Port,
		engine:    engine,
		shipments: shipments,
		logger:    logger,
	}
}

// Handler builds the route table. Exposed so tests can drive the handlers
// without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Booking engine
	mux.HandleFunc("POST /api/shipments/book", s.handleBook)
	mux.HandleFunc("POST /api/shipments/bulk/validate", s.handleBulkValidate)
	mux.HandleFunc("POST /api/shipments/bulk", s.handleBulkShip)
	mux.HandleFunc("POST /api/shipments/{id}/cancel", s.handleCancel)
	mux.HandleFunc("GET /api/shipments", s.handleList)
	mux.HandleFunc("POST /api/weights", s.handleWeights)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // bulk runs are sequential and slow
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
