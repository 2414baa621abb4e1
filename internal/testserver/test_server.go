// Package testserver runs the full HTTP stack against an in-memory database
// and a scripted completion backend.
package testserver

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/mcp"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/prompt"
	"github.com/rpggio/dossier/internal/sqlite"
	"github.com/rpggio/dossier/internal/transport"
)

// ScriptedLLM replays queued replies and records every call.
type ScriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   [][]prompt.Message
	params  []completion.Params
}

// Reply queues a successful reply.
func (s *ScriptedLLM) Reply(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, text)
	s.errs = append(s.errs, nil)
}

// Fail queues a failure.
func (s *ScriptedLLM) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, "")
	s.errs = append(s.errs, err)
}

// Complete implements completion.Client.
func (s *ScriptedLLM) Complete(_ context.Context, messages []prompt.Message, params completion.Params) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]prompt.Message(nil), messages...))
	s.params = append(s.params, params)
	if len(s.replies) == 0 {
		return completion.Unconfigured{Provider: "scripted"}.Complete(context.Background(), nil, params)
	}
	reply, err := s.replies[0], s.errs[0]
	s.replies, s.errs = s.replies[1:], s.errs[1:]
	return reply, err
}

// Calls returns the message sequences sent so far.
func (s *ScriptedLLM) Calls() [][]prompt.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]prompt.Message(nil), s.calls...)
}

// LastParams returns the parameters of the latest call.
func (s *ScriptedLLM) LastParams() completion.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.params) == 0 {
		return completion.Params{}
	}
	return s.params[len(s.params)-1]
}

// TestServer is a running HTTP server with REST under /api and MCP at /mcp.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Token  string
	LLM    *ScriptedLLM

	Projects *project.Service
	Chat     *chat.Service
	Activity *activity.Service
}

// New starts a server. A non-empty token enables bearer auth and registers
// the token as an API key.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	llm := &ScriptedLLM{}
	registry := persona.DefaultRegistry()

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	projectRepo := sqlite.NewProjectRepository(db)
	projectSvc := project.NewService(projectRepo, activitySvc, nil)
	chatSvc := chat.NewService(projectRepo, sqlite.NewMessageRepository(db), activitySvc, llm, registry, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{Projects: projectSvc, Chat: chatSvc, Activity: activitySvc},
		Personas: registry,
	})

	opts := transport.Options{MCP: newMCPHandler(mcpServer)}
	if token != "" {
		keys := sqlite.NewAPIKeyRepository(db)
		require.NoError(t, keys.Insert(context.Background(), token, "test"))
		opts.Auth = transport.AuthMiddleware(keys)
	}

	server := httptest.NewServer(transport.NewServer(transport.Services{
		Projects: projectSvc,
		Chat:     chatSvc,
		Activity: activitySvc,
	}, opts))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		LLM:      llm,
		Projects: projectSvc,
		Chat:     chatSvc,
		Activity: activitySvc,
	}
}
