package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/prompt"
	"github.com/rpggio/dossier/internal/repository"
)

var (
	// ChatParams are used for conversational turns.
	ChatParams = completion.Params{MaxTokens: 1024, Temperature: 0.7}
	// SummaryParams are used for summarization calls.
	SummaryParams = completion.Params{MaxTokens: 768, Temperature: 0.4}
)

// Service handles chat turns and summarization.
type Service struct {
	projects    ProjectStore
	messages    Repository
	activity    ActivityRecorder
	llm         completion.Client
	registry    prompt.Registry
	assembler   *prompt.Assembler
	synthesizer *prompt.Synthesizer
	logger      *slog.Logger
}

// NewService creates a chat service. recorder and logger may be nil.
func NewService(projects ProjectStore, messages Repository, recorder ActivityRecorder, llm completion.Client, registry prompt.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		projects:    projects,
		messages:    messages,
		activity:    recorder,
		llm:         llm,
		registry:    registry,
		synthesizer: prompt.NewSynthesizer(registry),
		logger:      logger,
	}
	s.assembler = prompt.NewAssembler(registry, s.traceMessages)
	return s
}

func (s *Service) traceMessages(messages []prompt.Message) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.logger.Debug("messages sent to completion", "count", len(messages), "trace", "\n"+prompt.FormatTrace(messages))
}

// ListMessages returns a project's messages, optionally only those tagged
// with agent.
func (s *Service) ListMessages(ctx context.Context, projectID string, agent *string) ([]Message, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}
	var tag *string
	if agent != nil {
		t := agentTag(*agent)
		tag = &t
	}
	msgs, err := s.messages.List(ctx, projectID, tag)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}

// SendRequest is one user turn addressed to a persona.
type SendRequest struct {
	ProjectID string
	Agent     string
	Content   string
}

// Send runs a chat turn. Both rows are written only after the completion
// service has replied; a failed call leaves the history untouched.
func (s *Service) Send(ctx context.Context, req SendRequest) (*Exchange, error) {
	tag := agentTag(req.Agent)
	if tag == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidInput
	}

	proj, err := s.getProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	history, err := s.messages.List(ctx, proj.ID, &tag)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	p := persona.Parse(tag)
	sequence := s.assembler.Assemble(p, promptProject(proj), toPrompt(history), req.Content)

	reply, err := s.llm.Complete(ctx, sequence, ChatParams)
	if err != nil {
		return nil, fmt.Errorf("chat with %s: %w", tag, err)
	}

	now := time.Now().UTC()
	user := Message{ID: uuid.NewString(), ProjectID: proj.ID, Agent: &tag, Role: prompt.RoleUser, Content: req.Content, CreatedAt: now}
	assistant := Message{ID: uuid.NewString(), ProjectID: proj.ID, Agent: &tag, Role: prompt.RoleAssistant, Content: reply, CreatedAt: now}
	if err := s.messages.AppendExchange(ctx, &user, &assistant); err != nil {
		return nil, fmt.Errorf("saving messages: %w", err)
	}

	s.record(ctx, proj.ID, tag, activity.KindMessageExchanged, "chatted with "+tag, map[string]int{
		"history":     len(history),
		"reply_chars": len(reply),
	})
	return &Exchange{UserMessage: user, AssistantMessage: assistant}, nil
}

// SummarizeRequest asks for a persona's case-file summary.
type SummarizeRequest struct {
	ProjectID string
	Agent     string
}

// Summarize condenses one persona's transcript into its case-file fields.
// The fields are overwritten only when the reply parses; unknown personas get
// the summary back without anything being stored.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (*SummaryResult, error) {
	proj, err := s.getProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	tag := agentTag(req.Agent)
	history, err := s.messages.List(ctx, proj.ID, &tag)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	p := persona.Parse(tag)
	request := s.synthesizer.Build(p, promptProject(proj), toPrompt(history), proj.CaseFile.DetailSummaries())
	sequence := []prompt.Message{
		{Role: prompt.RoleSystem, Content: s.registry.BasePrompt()},
		{Role: prompt.RoleUser, Content: request},
	}

	raw, err := s.llm.Complete(ctx, sequence, SummaryParams)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", tag, err)
	}

	summary, err := prompt.ParseSummaryReply(raw)
	if err != nil {
		s.logger.Warn("summary reply rejected", "project_id", proj.ID, "agent", tag, "error", err)
		return nil, fmt.Errorf("summarize %s: %w", tag, err)
	}

	result := &SummaryResult{Agent: tag, Summary: summary}
	if !p.Known() {
		s.logger.Debug("not storing summary for unknown persona", "project_id", proj.ID, "agent", tag)
		return result, nil
	}

	fields := project.Fields{
		Summary:          &summary.Summary,
		ProblemStatement: &summary.ProblemStatement,
		Assumptions:      &summary.Assumptions,
		DetailSummary:    &summary.DetailSummary,
	}
	if err := s.projects.UpdateCaseFile(ctx, proj.ID, p, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("storing summary: %w", err)
	}
	result.Stored = true

	s.record(ctx, proj.ID, tag, activity.KindCaseFileSummarized, "summarized "+tag+" conversation", map[string]int{
		"messages": len(history),
	})
	return result, nil
}

func (s *Service) getProject(ctx context.Context, id string) (*project.Project, error) {
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, project.ErrProjectNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

func (s *Service) record(ctx context.Context, projectID, agent string, kind activity.Kind, summary string, details any) {
	if s.activity == nil {
		return
	}
	entry, err := activity.NewEntry(projectID, &agent, kind, summary, details)
	if err == nil {
		err = s.activity.Record(ctx, entry)
	}
	if err != nil {
		s.logger.Warn("failed to record activity", "project_id", projectID, "kind", kind, "error", err)
	}
}

// agentTag normalizes an agent identifier for storage: known personas use
// their canonical name, anything else is kept lower-cased.
func agentTag(agent string) string {
	if p := persona.Parse(agent); p.Known() {
		return p.String()
	}
	return strings.ToLower(strings.TrimSpace(agent))
}

func promptProject(proj *project.Project) prompt.Project {
	pp := prompt.Project{Title: proj.Title}
	if proj.Description != nil {
		pp.Description = *proj.Description
	}
	return pp
}

func toPrompt(history []Message) []prompt.Message {
	out := make([]prompt.Message, 0, len(history))
	for _, m := range history {
		out = append(out, prompt.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
