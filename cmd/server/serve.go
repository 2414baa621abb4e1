package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/config"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/mcp"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/sqlite"
	"github.com/rpggio/dossier/internal/transport"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST and MCP server",
	Long: `Run the server. In http mode REST is served under /api and MCP under /mcp.
In stdio mode MCP is served over stdin/stdout and logs go to stderr.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	registry := persona.DefaultRegistry()
	if cfg.Personas.Path != "" {
		registry, err = persona.LoadRegistry(cfg.Personas.Path)
		if err != nil {
			logger.Error("failed to load personas", "path", cfg.Personas.Path, "error", err)
			return err
		}
	}

	llm, err := completion.New(ctx, completion.Config{
		Provider: completion.Provider(cfg.LLM.Provider),
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey(),
	})
	if err != nil {
		logger.Error("failed to create completion client", "error", err)
		return err
	}
	if _, ok := llm.(completion.Unconfigured); ok {
		logger.Warn("no completion API key configured; chat and summary requests will fail", "provider", cfg.LLM.Provider)
	}
	llm = completion.WithLogging(llm, logger)

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	projectRepo := sqlite.NewProjectRepository(db)
	projectSvc := project.NewService(projectRepo, activitySvc, logger)
	chatSvc := chat.NewService(projectRepo, sqlite.NewMessageRepository(db), activitySvc, llm, registry, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Chat:     chatSvc,
			Activity: activitySvc,
		},
		Personas: registry,
		Version:  version,
		Logger:   logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(sqlite.NewAPIKeyRepository(db))
	}
	router := transport.NewServer(transport.Services{
		Projects: projectSvc,
		Chat:     chatSvc,
		Activity: activitySvc,
	}, transport.Options{
		Auth:   auth,
		MCP:    newMCPHandler(mcpServer),
		Logger: logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return runHTTPMode(ctx, logger, &http.Server{Addr: addr, Handler: router}, cfg.Auth.Enabled)
}

func newMCPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or the context is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, server *http.Server, authEnabled bool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr, "auth", authEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}

// newLogger builds the process logger. Stdio mode keeps stdout clean for
// JSON-RPC; a configured log file takes precedence over both streams.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	out := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		out = os.Stderr
	}

	closeFn := func() {}
	if cfg.Log.Path != "" {
		writer, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			out = writer
			closeFn = func() { _ = writer.Close() }
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeFn
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
