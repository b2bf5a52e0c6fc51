// Command serve exposes the scout reasoning loop over HTTP.
//
// Endpoints:
//
//	GET    /health             - liveness check
//	POST   /api/research       - stream a question's events as AG-UI SSE
//	POST   /api/ask            - answer a question, returning JSON
//	DELETE /api/session/{id}   - forget a session and close its tool connection
//
// Each session ID owns one tool backend connection and one agent, so a
// session's questions run one at a time and share conversation history.
// Configuration is read from the environment (see internal/config).
//
// Usage:
//
//	SCOUT_PROVIDER=google GEMINI_API_KEY=... go run ./cmd/serve
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/scout/client"
	"github.com/spetersoncode/scout/internal/config"
)

// sessionIdle is how long an unused session is kept.
const sessionIdle = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	r, err := client.New(ctx, client.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.Model,
		Project:  cfg.VertexProject,
		Location: cfg.VertexLocation,
		Logger:   logger,
	}, client.WithDefaultTemperature(cfg.Temperature), client.WithDefaultMaxTokens(cfg.MaxTokens))
	if err != nil {
		return fmt.Errorf("create reasoner: %w", err)
	}

	sessions := newSessionManager(r, cfg, logger)
	defer sessions.Close()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(newMux(sessions, logger)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			"addr", server.Addr,
			"provider", r.Provider(),
			"model", r.Model(),
			"tool_backend", cfg.MCPServerURL,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(sessionIdle / 6)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Evict(sessionIdle); n > 0 {
					logger.Info("evicted idle sessions", "count", n)
				}
			}
		}
	})

	return g.Wait()
}
