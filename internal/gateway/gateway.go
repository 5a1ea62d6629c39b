// ABOUTME: Gateway owns the HTTP server that channel connectors post activities to
// ABOUTME: Manages listener lifecycle, health endpoints and graceful shutdown

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/auth"
	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/dedupe"
)

// TurnHandler runs one conversational turn. *bot.Bot satisfies it.
type TurnHandler interface {
	OnTurn(ctx context.Context, msg activity.Message) ([]activity.Activity, error)
}

// Gateway serves the messages endpoint and serializes turns per conversation.
type Gateway struct {
	config     *config.Config
	turns      TurnHandler
	dedupe     *dedupe.Cache[[]activity.Activity]
	locks      *conversationLocks
	httpServer *http.Server
	logger     *slog.Logger

	// draining is set once shutdown starts so readiness probes fail first
	draining atomic.Bool
}

// New creates a Gateway. It does not start listening until Run.
func New(cfg *config.Config, turns TurnHandler, logger *slog.Logger) (*Gateway, error) {
	if turns == nil {
		return nil, errors.New("turn handler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{
		config: cfg,
		turns:  turns,
		dedupe: dedupe.New[[]activity.Activity](cfg.Dedupe.TTL, cfg.Dedupe.MaxEntries),
		locks:  newConversationLocks(),
		logger: logger.With("component", "gateway"),
	}

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("GET /health", g.handleHealth)
	mux.HandleFunc("GET /health/ready", g.handleReady)

	var messages http.Handler = http.HandlerFunc(g.handleMessages)
	if cfg.Auth.JWTSecret != "" {
		verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		messages = auth.Middleware(verifier, logger)(messages)
	} else {
		g.logger.Warn("auth.jwt_secret not set, messages endpoint is unauthenticated")
	}
	mux.Handle("POST /api/messages", messages)

	g.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return g, nil
}

// Handler returns the HTTP handler, for mounting in tests.
func (g *Gateway) Handler() http.Handler {
	return g.httpServer.Handler
}

// Run listens on the configured address and blocks until ctx is canceled or
// the server fails. Returns nil on graceful shutdown.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}
	return g.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (g *Gateway) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since the caller's is already canceled.
func (g *Gateway) gracefulShutdown() error {
	timeout := g.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops accepting requests and waits for in-flight turns.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")
	g.draining.Store(true)

	err := g.httpServer.Shutdown(ctx)
	g.dedupe.Close()
	if err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 503 once shutdown has begun.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	if g.draining.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("shutting down"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d conversations active)", g.locks.active())
}
