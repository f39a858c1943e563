package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrNotReachable is returned when a started server does not answer before
// the start timeout.
var ErrNotReachable = errors.New("embedded server not reachable")

// Embedded runs a fiber application on a single TCP listener. An Embedded is
// single use: once stopped, build a new one with a fresh app.
type Embedded struct {
	cfg    Config
	app    *fiber.App
	logger *zap.Logger

	mu      sync.Mutex
	port    int
	served  chan error
	running bool
}

// NewEmbedded prepares a server for app on port. Port 0 binds an ephemeral port.
func NewEmbedded(cfg Config, port int, app *fiber.App, logger *zap.Logger) *Embedded {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedded{cfg: cfg, app: app, port: port, logger: logger}
}

// Start binds the listener, serves the app in the background and blocks until
// the base URI answers, ctx is done or the start timeout expires.
func (e *Embedded) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	addr := net.JoinHostPort(e.cfg.BindHost(), strconv.Itoa(e.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	e.port = ln.Addr().(*net.TCPAddr).Port

	e.served = make(chan error, 1)
	go func() {
		e.served <- e.app.Listener(ln)
	}()

	if err := e.waitReady(ctx); err != nil {
		_ = e.app.ShutdownWithTimeout(time.Second)
		_ = ln.Close()
		return err
	}

	e.running = true
	e.logger.Info("Embedded server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("base_uri", e.baseURI()))
	return nil
}

func (e *Embedded) waitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.StartTimeout())
	defer cancel()

	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	target := e.baseURI()
	for {
		select {
		case err := <-e.served:
			if err == nil {
				err = errors.New("listener closed")
			}
			return fmt.Errorf("embedded server exited during start: %w", err)
		default:
		}

		// Any HTTP answer counts, including 401 from basic auth.
		_, _, errs := fiber.Get(target).Timeout(e.cfg.ProbeTimeout()).Bytes()
		if len(errs) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w at %s after %s: %v", ErrNotReachable, target, e.cfg.StartTimeout(), errs[0])
		case <-ticker.C:
		}
	}
}

// Stop shuts the app down gracefully and waits for the listener goroutine.
// The listener is closed before open connections are awaited, so the server
// no longer counts as running once shutdown was attempted, even when Stop
// returns an error.
func (e *Embedded) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false

	if err := e.app.ShutdownWithContext(ctx); err != nil {
		e.logger.Warn("Embedded server left connections open", zap.Int("port", e.port), zap.Error(err))
		return fmt.Errorf("failed to shut down embedded server: %w", err)
	}

	select {
	case err := <-e.served:
		if err != nil {
			e.logger.Warn("Listener returned error on shutdown", zap.Error(err))
		}
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for listener to close: %w", ctx.Err())
	}

	e.logger.Info("Embedded server stopped", zap.Int("port", e.port))
	return nil
}

// Running reports whether the server is serving.
func (e *Embedded) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Port returns the bound port (the requested one before Start).
func (e *Embedded) Port() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.port
}

// BaseURI returns http://host:port/<context>/.
func (e *Embedded) BaseURI() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseURI()
}

func (e *Embedded) baseURI() string {
	return BaseURI(e.cfg, e.port)
}

// BaseURI builds the base URI for a server bound to port.
func BaseURI(cfg Config, port int) string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(cfg.DialHost(), strconv.Itoa(port)), cfg.NormalizedContextPath())
}

// CMISURI builds the browser binding endpoint URI for a server bound to port.
func CMISURI(cfg Config, port int) string {
	return BaseURI(cfg, port) + BrowserBindingPath
}
