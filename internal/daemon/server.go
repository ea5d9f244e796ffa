package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/chatlens/internal/config"
	"github.com/matheus3301/chatlens/internal/httpapi"
)

// Server manages the dashboard HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the HTTP server bound to the configured listen address.
// The flag override wins over the config file.
func NewServer(p Params, cfg *config.Config, h *httpapi.Handlers, logger *zap.Logger) *Server {
	addr := p.Addr
	if addr == "" {
		addr = cfg.ListenAddr
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(h),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins serving HTTP requests. Blocks until stopped.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop performs a graceful shutdown bounded by ctx.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("http server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
}
