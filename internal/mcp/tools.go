package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
)

type tools struct {
	services Services
}

func registerTools(server *sdkmcp.Server, services Services) {
	t := &tools{services: services}

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new design project with an empty case file",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List active projects, newest first, or archived ones when archived is true",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project including every persona's case file",
	}, t.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Change a project's title, description or archived flag; omitted fields are kept",
	}, t.updateProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project together with its messages and activity",
	}, t.deleteProject)

	// Conversations
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_messages",
		Description: "List a project's messages in conversation order, optionally for one persona",
	}, t.listMessages)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_message",
		Description: "Send a message to a persona and get its reply; the persona sees its own history and the project context",
	}, t.sendMessage)

	// Case file
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "summarize_agent",
		Description: "Summarize a persona's conversation into its case file (summary, problem statement, assumptions, detail summary)",
	}, t.summarizeAgent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_case_file",
		Description: "Manually edit a persona's summary, problem statement or assumptions; omitted fields are kept",
	}, t.updateCaseFile)

	// Activity
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_activity",
		Description: "Get recent activity for a project, newest first",
	}, t.getActivity)
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	proj, err := t.services.Projects.Create(ctx, project.CreateRequest{Title: in.Title})
	if err != nil {
		return nil, ProjectResponse{}, MapError(err)
	}
	return nil, toProjectResponse(proj), nil
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, ProjectListResponse, error) {
	projects, err := t.services.Projects.List(ctx, in.Archived)
	if err != nil {
		return nil, ProjectListResponse{}, MapError(err)
	}
	resp := ProjectListResponse{Projects: make([]ProjectResponse, 0, len(projects))}
	for i := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(&projects[i]))
	}
	return nil, resp, nil
}

func (t *tools) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	proj, err := t.services.Projects.Get(ctx, in.ProjectID)
	if err != nil {
		return nil, ProjectResponse{}, MapError(err)
	}
	return nil, toProjectResponse(proj), nil
}

func (t *tools) updateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	proj, err := t.services.Projects.Update(ctx, in.ProjectID, project.UpdateRequest{
		Title:       in.Title,
		Description: in.Description,
		Archived:    in.Archived,
	})
	if err != nil {
		return nil, ProjectResponse{}, MapError(err)
	}
	return nil, toProjectResponse(proj), nil
}

func (t *tools) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, DeleteProjectResponse, error) {
	if err := t.services.Projects.Delete(ctx, in.ProjectID); err != nil {
		return nil, DeleteProjectResponse{}, MapError(err)
	}
	return nil, DeleteProjectResponse{Deleted: true}, nil
}

func (t *tools) listMessages(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListMessagesParams) (*sdkmcp.CallToolResult, MessageListResponse, error) {
	var agent *string
	if in.Agent != "" {
		agent = &in.Agent
	}
	messages, err := t.services.Chat.ListMessages(ctx, in.ProjectID, agent)
	if err != nil {
		return nil, MessageListResponse{}, MapError(err)
	}
	resp := MessageListResponse{Messages: make([]MessageResponse, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}
	return nil, resp, nil
}

func (t *tools) sendMessage(ctx context.Context, _ *sdkmcp.CallToolRequest, in SendMessageParams) (*sdkmcp.CallToolResult, ExchangeResponse, error) {
	exchange, err := t.services.Chat.Send(ctx, chat.SendRequest{
		ProjectID: in.ProjectID,
		Agent:     in.Agent,
		Content:   in.Content,
	})
	if err != nil {
		return nil, ExchangeResponse{}, MapError(err)
	}
	return nil, ExchangeResponse{
		UserMessage:      toMessageResponse(exchange.UserMessage),
		AssistantMessage: toMessageResponse(exchange.AssistantMessage),
	}, nil
}

func (t *tools) summarizeAgent(ctx context.Context, _ *sdkmcp.CallToolRequest, in SummarizeAgentParams) (*sdkmcp.CallToolResult, SummaryResponse, error) {
	result, err := t.services.Chat.Summarize(ctx, chat.SummarizeRequest{
		ProjectID: in.ProjectID,
		Agent:     in.Agent,
	})
	if err != nil {
		return nil, SummaryResponse{}, MapError(err)
	}
	return nil, SummaryResponse{
		Agent:            result.Agent,
		Stored:           result.Stored,
		Summary:          result.Summary.Summary,
		ProblemStatement: result.Summary.ProblemStatement,
		Assumptions:      result.Summary.Assumptions,
		DetailSummary:    result.Summary.DetailSummary,
	}, nil
}

func (t *tools) updateCaseFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateCaseFileParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	proj, err := t.services.Projects.UpdateCaseFile(ctx, in.ProjectID, project.CaseFileEdit{
		Agent:            in.Agent,
		Summary:          in.Summary,
		ProblemStatement: in.ProblemStatement,
		Assumptions:      in.Assumptions,
	})
	if err != nil {
		return nil, ProjectResponse{}, MapError(err)
	}
	return nil, toProjectResponse(proj), nil
}

func (t *tools) getActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetActivityParams) (*sdkmcp.CallToolResult, ActivityListResponse, error) {
	if _, err := t.services.Projects.Get(ctx, in.ProjectID); err != nil {
		return nil, ActivityListResponse{}, MapError(err)
	}
	opts := activity.ListOptions{
		ProjectID: in.ProjectID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Agent != "" {
		opts.Agent = &in.Agent
	}
	entries, err := t.services.Activity.List(ctx, opts)
	if err != nil {
		return nil, ActivityListResponse{}, MapError(err)
	}
	resp := ActivityListResponse{Entries: make([]ActivityResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toActivityResponse(e))
	}
	return nil, resp, nil
}
