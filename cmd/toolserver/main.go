// Command toolserver is a demo MCP tool backend served over SSE.
//
// It exposes three tools (echo, time, calculate) so the scout commands can
// be run locally without an external backend.
//
// Usage:
//
//	go run ./cmd/toolserver -addr :3000
//	MCP_SERVER_URL=http://localhost:3000 go run ./cmd/scout "What is 12 times 7?"
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spetersoncode/scout/internal/config"
	"github.com/spetersoncode/scout/mcp"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":3000", "listen address")
	baseURL := flag.String("base-url", "", "public base URL announced to clients (default http://localhost<addr>)")
	flag.Parse()

	logger := config.NewLogger(os.Getenv("SCOUT_LOG_LEVEL"), os.Getenv("SCOUT_LOG_FORMAT"))
	slog.SetDefault(logger)

	url := *baseURL
	if url == "" {
		url = "http://localhost" + *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tools := demoTools()
	logger.Info("tool backend starting", "addr", *addr, "sse", url+"/sse", "tools", len(tools))

	if err := mcp.ServeSSE(ctx, *addr, tools,
		mcp.WithName("scout-demo-tools"),
		mcp.WithVersion("1.0.0"),
		mcp.WithBaseURL(url),
	); err != nil {
		logger.Error("tool backend failed", "error", err)
		os.Exit(1)
	}
	logger.Info("tool backend stopped")
}
