package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
)

// ProjectService defines project operations needed by the REST API.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, archived bool) ([]project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	UpdateCaseFile(ctx context.Context, id string, edit project.CaseFileEdit) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// ChatService defines conversation operations needed by the REST API.
type ChatService interface {
	ListMessages(ctx context.Context, projectID string, agent *string) ([]chat.Message, error)
	Send(ctx context.Context, req chat.SendRequest) (*chat.Exchange, error)
	Summarize(ctx context.Context, req chat.SummarizeRequest) (*chat.SummaryResult, error)
}

// ActivityService defines activity operations needed by the REST API.
type ActivityService interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains the domain services behind the REST API.
type Services struct {
	Projects ProjectService
	Chat     ChatService
	Activity ActivityService
}

// Options configures the router.
type Options struct {
	// Auth guards /api and /mcp when set. /health is always public.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	logger   *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(services Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{services: services, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", srv.handleHealth)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", srv.handleListProjects)
				r.Post("/", srv.handleCreateProject)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", srv.handleGetProject)
					r.Patch("/", srv.handleUpdateProject)
					r.Delete("/", srv.handleDeleteProject)
					r.Patch("/agent-summary", srv.handleUpdateCaseFile)
					r.Get("/messages", srv.handleListMessages)
					r.Post("/messages", srv.handleSendMessage)
					r.Post("/summary", srv.handleSummarize)
					r.Get("/activity", srv.handleListActivity)
				})
			})
		})

		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, code, err.Error())
}

func (s *Server) badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "INVALID_INPUT", message)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	archived := false
	if raw := r.URL.Query().Get("archived"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.badRequest(w, "archived must be a boolean")
			return
		}
		archived = v
	}

	projects, err := s.services.Projects.List(r.Context(), archived)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectList(projects))
}

type createProjectBody struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	proj, err := s.services.Projects.Create(r.Context(), project.CreateRequest{Title: body.Title})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse{proj})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.services.Projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{proj})
}

type updateProjectBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Archived    *bool   `json:"archived"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	proj, err := s.services.Projects.Update(r.Context(), chi.URLParam(r, "projectID"), project.UpdateRequest{
		Title:       body.Title,
		Description: body.Description,
		Archived:    body.Archived,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{proj})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Projects.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type caseFileBody struct {
	Agent            string  `json:"agent"`
	Summary          *string `json:"summary"`
	ProblemStatement *string `json:"problem_statement"`
	Assumptions      *string `json:"assumptions"`
}

func (s *Server) handleUpdateCaseFile(w http.ResponseWriter, r *http.Request) {
	var body caseFileBody
	if err := decodeJSON(r, &body); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	proj, err := s.services.Projects.UpdateCaseFile(r.Context(), chi.URLParam(r, "projectID"), project.CaseFileEdit{
		Agent:            body.Agent,
		Summary:          body.Summary,
		ProblemStatement: body.ProblemStatement,
		Assumptions:      body.Assumptions,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{proj})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	var agent *string
	if raw := r.URL.Query().Get("agent"); raw != "" {
		agent = &raw
	}

	messages, err := s.services.Chat.ListMessages(r.Context(), chi.URLParam(r, "projectID"), agent)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

type sendMessageBody struct {
	Agent   string `json:"agent"`
	Content string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body sendMessageBody
	if err := decodeJSON(r, &body); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	exchange, err := s.services.Chat.Send(r.Context(), chat.SendRequest{
		ProjectID: chi.URLParam(r, "projectID"),
		Agent:     body.Agent,
		Content:   body.Content,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

type summarizeBody struct {
	Agent string `json:"agent"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeBody
	if err := decodeJSON(r, &body); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	result, err := s.services.Chat.Summarize(r.Context(), chat.SummarizeRequest{
		ProjectID: chi.URLParam(r, "projectID"),
		Agent:     body.Agent,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(result))
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.services.Projects.Get(r.Context(), projectID); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := activity.ListOptions{ProjectID: projectID}
	query := r.URL.Query()
	if raw := query.Get("agent"); raw != "" {
		opts.Agent = &raw
	}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.badRequest(w, name+" must be a non-negative integer")
			return
		}
		*dst = n
	}

	entries, err := s.services.Activity.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
