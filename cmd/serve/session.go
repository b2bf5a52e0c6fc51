package main

import (
	"log/slog"

	"github.com/google/uuid"

	ai "github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/agent"
	"github.com/spetersoncode/scout/internal/config"
	"github.com/spetersoncode/scout/internal/store"
	"github.com/spetersoncode/scout/mcp"
)

// session is one caller's tool connection and agent.
type session struct {
	id    string
	tools *mcp.Client
	agent *agent.Agent
}

// sessionManager creates sessions on first use and closes their tool
// connections when they are removed.
type sessionManager struct {
	*store.Sessions[*session]
}

func newSessionManager(r ai.Reasoner, cfg *config.Config, logger *slog.Logger) *sessionManager {
	create := func(id string) (*session, error) {
		log := logger.With("session_id", id)
		// The tool client connects on first use.
		tools := mcp.NewClient(cfg.MCPServerURL, mcp.WithLogger(log))
		log.Info("session created")
		return &session{
			id:    id,
			tools: tools,
			agent: agent.New(r, tools,
				agent.WithMaxIterations(cfg.MaxIterations),
				agent.WithTimeout(cfg.Timeout),
				agent.WithLogger(log),
			),
		}, nil
	}
	release := func(s *session) {
		if err := s.tools.Close(); err != nil {
			logger.Warn("closing tool connection", "session_id", s.id, "error", err)
		}
		logger.Info("session closed", "session_id", s.id)
	}
	return &sessionManager{store.NewSessions(create, release)}
}

// resolve returns the session for id, generating a new ID when id is empty.
// The session is not evicted until done is called.
func (m *sessionManager) resolve(id string) (*session, func(), error) {
	if id == "" {
		id = uuid.NewString()
	}
	return m.Acquire(id)
}
