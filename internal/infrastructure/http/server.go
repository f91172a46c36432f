package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Server runs one Echo instance on one address.
type Server struct {
	name string
	addr string
	echo *echo.Echo
	log  zerolog.Logger
}

func NewServer(name, addr string, e *echo.Echo, log zerolog.Logger) *Server {
	return &Server{
		name: name,
		addr: addr,
		echo: e,
		log:  log.With().Str("listener", name).Logger(),
	}
}

// Start serves until the listener is closed. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.echo.Server.ReadHeaderTimeout = 5 * time.Second
	s.log.Info().Str("addr", s.addr).Msg("http server listening")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.echo.Shutdown(ctx)
}
