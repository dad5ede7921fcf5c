// Package server exposes a device registry over the Alpaca HTTP API: the
// per-device action routes under /api/v1 and the management endpoints under
// /management. All protocol semantics live in the alpaca package; this
// package only adapts them to HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"alpaca-hub/alpaca"
)

// Server is the Alpaca HTTP API server for one device registry.
type Server struct {
	registry   *alpaca.Registry
	dispatcher *alpaca.Dispatcher
	desc       alpaca.ServerDescription
	log        zerolog.Logger

	counter alpaca.Counter
}

// New creates a Server over a finished registry. desc is reported verbatim
// by the management description endpoint.
func New(reg *alpaca.Registry, desc alpaca.ServerDescription, log zerolog.Logger) *Server {
	return &Server{
		registry:   reg,
		dispatcher: alpaca.NewDispatcher(reg, log),
		desc:       desc,
		log:        log,
	}
}

// Routes builds the HTTP handler: the wildcard device API plus the
// management endpoints.
func (s *Server) Routes() http.Handler {
	r := httprouter.New()
	r.GET("/", s.handleRoot)
	r.GET("/management/apiversions", s.handleAPIVersions)
	r.GET("/management/v1/description", s.handleDescription)
	r.GET("/management/v1/configureddevices", s.handleConfiguredDevices)
	r.GET("/api/v1/:device_type/:device_number/:action", s.deviceHandler(alpaca.MethodGet))
	r.PUT("/api/v1/:device_type/:device_number/:action", s.deviceHandler(alpaca.MethodPut))
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Routes(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn().Err(err).Msg("shutdown incomplete, closing")
			_ = srv.Close()
		}
	}()
	s.log.Info().Str("addr", addr).Int("devices", s.registry.Len()).Msg("alpaca API server listening")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// Wait for in-flight requests to drain.
		<-done
		return ctx.Err()
	}
	return err
}
