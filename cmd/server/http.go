package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/JaimeStill/label-manager/internal/config"
	"github.com/JaimeStill/label-manager/pkg/lifecycle"
)

type httpServer struct {
	srv    *http.Server
	logger *slog.Logger
	cfg    *config.ServerConfig
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger: logger.With("system", "http"),
		cfg:    cfg,
	}
}

// Start binds the listener before returning and serves in the background
// until the lifecycle shuts down.
func (h *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		h.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("http server failed", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		h.logger.Info("shutting down http server")

		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.ShutdownTimeoutDuration())
		defer cancel()

		if err := h.srv.Shutdown(ctx); err != nil {
			h.logger.Error("http server shutdown failed", "error", err)
		}
	})

	return nil
}
