package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/persona"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, archived bool) ([]project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	UpdateCaseFile(ctx context.Context, id string, edit project.CaseFileEdit) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// ChatService defines conversation operations needed by MCP.
type ChatService interface {
	ListMessages(ctx context.Context, projectID string, agent *string) ([]chat.Message, error)
	Send(ctx context.Context, req chat.SendRequest) (*chat.Exchange, error)
	Summarize(ctx context.Context, req chat.SummarizeRequest) (*chat.SummaryResult, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// PersonaCatalog exposes persona prompts as read-only resources.
type PersonaCatalog interface {
	RoleDescription(p persona.Persona) string
	SummaryInstructions(p persona.Persona) string
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Chat     ChatService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Personas PersonaCatalog
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "dossier",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)
	if cfg.Personas != nil {
		registerPersonaResources(server, cfg.Personas)
	}

	server.AddReceivingMiddleware(trafficLogger(cfg.Logger))

	registerTools(server, cfg.Services)

	return server
}
