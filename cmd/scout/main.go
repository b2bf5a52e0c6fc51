// Command scout answers questions with a tool-augmented reasoning loop.
//
// Each question gets its own tool backend session and agent. Progress is
// printed as it happens; with -parallel the questions run concurrently and
// each transcript is printed when its question finishes.
//
// Configuration is read from the environment (see internal/config):
//
//	SCOUT_PROVIDER       - anthropic, openai, google (default), or vertex
//	GEMINI_API_KEY       - Gemini API key (or GOOGLE_API_KEY)
//	MCP_SERVER_URL       - tool backend base URL (default http://localhost:3000)
//	SCOUT_MAX_ITERATIONS - tool calls per question (default 10)
//
// Usage:
//
//	scout "What time is it?" "What is 12 times 7?"
//	scout -parallel "question one" "question two"
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/scout/agent"
	"github.com/spetersoncode/scout/client"
	"github.com/spetersoncode/scout/event"
	"github.com/spetersoncode/scout/internal/config"
	"github.com/spetersoncode/scout/mcp"
)

func main() {
	parallel := flag.Bool("parallel", false, "run questions concurrently")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: scout [-parallel] question...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	questions := flag.Args()
	if len(questions) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := client.New(ctx, client.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.Model,
		Project:  cfg.VertexProject,
		Location: cfg.VertexLocation,
		Logger:   logger,
	}, client.WithDefaultTemperature(cfg.Temperature), client.WithDefaultMaxTokens(cfg.MaxTokens))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create reasoner: %v\n", err)
		os.Exit(1)
	}

	app := &app{cfg: cfg, reasoner: r, log: logger}
	if *parallel {
		err = app.runParallel(ctx, questions, os.Stdout)
	} else {
		err = app.runSequential(ctx, questions, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	reasoner *client.Client
	log      *slog.Logger
}

// ask runs one question on a fresh tool session, rendering events to w.
func (a *app) ask(ctx context.Context, question string, w io.Writer) error {
	tools := mcp.NewClient(a.cfg.MCPServerURL, mcp.WithLogger(a.log))
	defer tools.Close()

	if err := tools.Connect(ctx); err != nil {
		return err
	}

	ag := agent.New(a.reasoner, tools,
		agent.WithMaxIterations(a.cfg.MaxIterations),
		agent.WithTimeout(a.cfg.Timeout),
		agent.WithLogger(a.log.With("session_id", tools.SessionID())),
	)

	fmt.Fprintf(w, "❓ %s\n", question)
	var failed error
	for e := range ag.Research(ctx, question) {
		fmt.Fprintln(w, render(e))
		if e.Type == event.Error {
			failed = fmt.Errorf("question %q failed", question)
		}
	}
	return failed
}

func (a *app) runSequential(ctx context.Context, questions []string, w io.Writer) error {
	var failures int
	for i, q := range questions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := a.ask(ctx, q, w); err != nil {
			a.log.Warn("question failed", "question", q, "error", err)
			failures++
		}
	}
	return failureSummary(failures, len(questions))
}

func (a *app) runParallel(ctx context.Context, questions []string, w io.Writer) error {
	var (
		mu       sync.Mutex
		failures int
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, q := range questions {
		g.Go(func() error {
			var buf bytes.Buffer
			err := a.ask(ctx, q, &buf)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.log.Warn("question failed", "question", q, "error", err)
				failures++
			}
			_, werr := io.Copy(w, &buf)
			fmt.Fprintln(w)
			return werr
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return failureSummary(failures, len(questions))
}

func failureSummary(failures, total int) error {
	if failures == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d %s failed", failures, total, plural(total, "question", "questions"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
