package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	Host    string
	Port    int
	Handler http.Handler
	Logger  applogger.Logger
}

// Run serves until ctx is done, then waits for running requests.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(s.Host, strconv.Itoa(s.Port)))
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	s.Logger.Info(fmt.Sprintf("GitLab webhooks server is starting on %v...", listener.Addr()))

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	s.Logger.Info("GitLab webhooks server is shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "failed to shutdown server")
	}
	err = <-serveErr
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
