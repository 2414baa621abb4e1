package mcp

import (
	"time"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
)

type CreateProjectParams struct {
	Title string `json:"title" jsonschema:"project title"`
}

type ListProjectsParams struct {
	Archived bool `json:"archived,omitempty" jsonschema:"list archived projects instead of active ones"`
}

type ProjectIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type UpdateProjectParams struct {
	ProjectID   string  `json:"project_id" jsonschema:"project ID"`
	Title       *string `json:"title,omitempty" jsonschema:"new title"`
	Description *string `json:"description,omitempty" jsonschema:"new description"`
	Archived    *bool   `json:"archived,omitempty" jsonschema:"archive or restore the project"`
}

type ListMessagesParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Agent     string `json:"agent,omitempty" jsonschema:"only messages for this persona: strategy, research, concept or present"`
}

type SendMessageParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Agent     string `json:"agent" jsonschema:"persona to talk to: strategy, research, concept or present"`
	Content   string `json:"content" jsonschema:"the user message"`
}

type SummarizeAgentParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Agent     string `json:"agent" jsonschema:"persona whose conversation is summarized"`
}

type UpdateCaseFileParams struct {
	ProjectID        string  `json:"project_id" jsonschema:"project ID"`
	Agent            string  `json:"agent" jsonschema:"persona whose case file is edited"`
	Summary          *string `json:"summary,omitempty"`
	ProblemStatement *string `json:"problem_statement,omitempty"`
	Assumptions      *string `json:"assumptions,omitempty"`
}

type GetActivityParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Agent     string `json:"agent,omitempty" jsonschema:"only activity for this persona"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset    int    `json:"offset,omitempty"`
}

// FieldsResponse is one persona's case file.
type FieldsResponse struct {
	Summary          string `json:"summary,omitempty"`
	ProblemStatement string `json:"problem_statement,omitempty"`
	Assumptions      string `json:"assumptions,omitempty"`
	DetailSummary    string `json:"detail_summary,omitempty"`
}

type CaseFileResponse struct {
	Strategy FieldsResponse `json:"strategy"`
	Research FieldsResponse `json:"research"`
	Concept  FieldsResponse `json:"concept"`
	Present  FieldsResponse `json:"present"`
}

type ProjectResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	Archived       bool             `json:"archived"`
	ThumbnailIndex int              `json:"thumbnail_index"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
	CaseFile       CaseFileResponse `json:"case_file"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type DeleteProjectResponse struct {
	Deleted bool `json:"deleted"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Agent     string `json:"agent,omitempty"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type ExchangeResponse struct {
	UserMessage      MessageResponse `json:"user_message"`
	AssistantMessage MessageResponse `json:"assistant_message"`
}

// SummaryResponse keeps the summary wire keys, including problem_statment.
type SummaryResponse struct {
	Agent            string `json:"agent"`
	Stored           bool   `json:"stored"`
	Summary          string `json:"summary"`
	ProblemStatement string `json:"problem_statment"`
	Assumptions      string `json:"assumptions"`
	DetailSummary    string `json:"detail_summary"`
}

type ActivityResponse struct {
	ID        int64  `json:"id"`
	Agent     string `json:"agent,omitempty"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ActivityListResponse struct {
	Entries []ActivityResponse `json:"entries"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toFieldsResponse(f project.Fields) FieldsResponse {
	return FieldsResponse{
		Summary:          deref(f.Summary),
		ProblemStatement: deref(f.ProblemStatement),
		Assumptions:      deref(f.Assumptions),
		DetailSummary:    deref(f.DetailSummary),
	}
}

func toProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    deref(p.Description),
		Archived:       p.Archived,
		ThumbnailIndex: p.ThumbnailIndex,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
		CaseFile: CaseFileResponse{
			Strategy: toFieldsResponse(p.CaseFile.Strategy),
			Research: toFieldsResponse(p.CaseFile.Research),
			Concept:  toFieldsResponse(p.CaseFile.Concept),
			Present:  toFieldsResponse(p.CaseFile.Present),
		},
	}
}

func toMessageResponse(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Agent:     deref(m.Agent),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: formatTime(m.CreatedAt),
	}
}

func toActivityResponse(e activity.Entry) ActivityResponse {
	return ActivityResponse{
		ID:        e.ID,
		Agent:     deref(e.Agent),
		Type:      string(e.Kind),
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: formatTime(e.CreatedAt),
	}
}
