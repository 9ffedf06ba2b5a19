package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Listener runs a router on a local address until shut down.
type Listener struct {
	server   *http.Server
	listener net.Listener
	errs     chan error
	logger   *log.Logger
}

// Listen binds addr and starts serving handler in the background.
//
// Binding happens before Listen returns, so an address already in use is reported here.
func Listen(addr string, handler http.Handler, logger *log.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	l := &Listener{
		server:   &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		listener: ln,
		errs:     make(chan error, 1),
		logger:   logger,
	}

	go func() {
		logger.Info("starting redirect listener", "addr", l.Addr())
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errs <- err
		}
		close(l.errs)
	}()

	return l, nil
}

// Addr returns the bound address, useful when addr used port 0.
func (l *Listener) Addr() string {
	return l.listener.Addr().String()
}

// URL returns the root URL the backend should redirect to.
func (l *Listener) URL() string {
	return "http://" + l.Addr() + "/"
}

// Errors receives a serve failure, and is closed once the server stops.
func (l *Listener) Errors() <-chan error {
	return l.errs
}

// Shutdown stops the server, waiting up to five seconds for in-flight requests.
func (l *Listener) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := l.server.Shutdown(ctx); err != nil {
		l.logger.Warn("error shutting down listener", "error", err)
		return err
	}
	return nil
}

// NewRedirectRouter wires the token handler behind the request logger and cache headers.
func NewRedirectRouter(tokens *TokenHandler, logger *log.Logger) *BasicRouter {
	tokens.SetLogger(logger)

	router := NewBasicRouter()
	router.Use(RequestLogger(logger), NoStore)
	router.Handler(tokens)
	router.Handle(http.MethodGet, "/favicon.ico", http.NotFoundHandler())
	return router
}
