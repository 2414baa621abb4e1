package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/prompt"
)

type stubProjects struct {
	projects map[string]*project.Project
	edits    []project.CaseFileEdit
	archived *bool
}

func (s *stubProjects) Create(_ context.Context, req project.CreateRequest) (*project.Project, error) {
	if req.Title == "" {
		return nil, project.ErrInvalidInput
	}
	proj := &project.Project{ID: "new", Title: req.Title}
	s.projects[proj.ID] = proj
	return proj, nil
}

func (s *stubProjects) Get(_ context.Context, id string) (*project.Project, error) {
	proj, ok := s.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return proj, nil
}

func (s *stubProjects) List(_ context.Context, archived bool) ([]project.Project, error) {
	s.archived = &archived
	var out []project.Project
	for _, p := range s.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProjects) Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		proj.Title = *req.Title
	}
	return proj, nil
}

func (s *stubProjects) UpdateCaseFile(ctx context.Context, id string, edit project.CaseFileEdit) (*project.Project, error) {
	s.edits = append(s.edits, edit)
	return s.Get(ctx, id)
}

func (s *stubProjects) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	delete(s.projects, id)
	return nil
}

type stubChat struct {
	sendErr      error
	summarizeErr error
	listAgent    *string
}

func (s *stubChat) ListMessages(_ context.Context, projectID string, agent *string) ([]chat.Message, error) {
	s.listAgent = agent
	return []chat.Message{{ID: "m1", ProjectID: projectID, Role: prompt.RoleUser, Content: "hi"}}, nil
}

func (s *stubChat) Send(_ context.Context, req chat.SendRequest) (*chat.Exchange, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &chat.Exchange{
		UserMessage:      chat.Message{Role: prompt.RoleUser, Content: req.Content},
		AssistantMessage: chat.Message{Role: prompt.RoleAssistant, Content: "reply"},
	}, nil
}

func (s *stubChat) Summarize(_ context.Context, req chat.SummarizeRequest) (*chat.SummaryResult, error) {
	if s.summarizeErr != nil {
		return nil, s.summarizeErr
	}
	return &chat.SummaryResult{Agent: req.Agent, Summary: prompt.Summary{Summary: "S", ProblemStatement: "P"}, Stored: true}, nil
}

type stubActivity struct {
	opts activity.ListOptions
}

func (s *stubActivity) List(_ context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	s.opts = opts
	return []activity.Entry{}, nil
}

type fixture struct {
	projects *stubProjects
	chat     *stubChat
	activity *stubActivity
	server   *httptest.Server
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		projects: &stubProjects{projects: map[string]*project.Project{"p1": {ID: "p1", Title: "Kiosk"}}},
		chat:     &stubChat{},
		activity: &stubActivity{},
	}
	f.server = httptest.NewServer(NewServer(Services{Projects: f.projects, Chat: f.chat, Activity: f.activity}, opts))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	detail, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error body: %v", body)
	return detail["code"].(string)
}

func TestHTTPServer_Health(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestHTTPServer_ProjectCRUD(t *testing.T) {
	f := newFixture(t, Options{})

	resp, body := f.do(t, http.MethodPost, "/api/projects", `{"title":"Untitled"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Untitled", body["title"])

	resp, body = f.do(t, http.MethodPost, "/api/projects", `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_INPUT", errorCode(t, body))

	resp, _ = f.do(t, http.MethodPost, "/api/projects", `{not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, http.MethodPatch, "/api/projects/p1", `{"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Renamed", body["title"])

	resp, body = f.do(t, http.MethodGet, "/api/projects/missing", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "PROJECT_NOT_FOUND", errorCode(t, body))

	resp, _ = f.do(t, http.MethodDelete, "/api/projects/p1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHTTPServer_ListProjectsArchivedFlag(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := http.Get(f.server.URL + "/api/projects?archived=true")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, *f.projects.archived)

	resp, err = http.Get(f.server.URL + "/api/projects?archived=maybe")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_AgentSummaryEdit(t *testing.T) {
	f := newFixture(t, Options{})

	resp, _ := f.do(t, http.MethodPatch, "/api/projects/p1/agent-summary", `{"agent":"research","problem_statement":"why"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, f.projects.edits, 1)
	edit := f.projects.edits[0]
	require.Equal(t, "research", edit.Agent)
	require.Nil(t, edit.Summary)
	require.Equal(t, "why", *edit.ProblemStatement)
}

func TestHTTPServer_Messages(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := http.Get(f.server.URL + "/api/projects/p1/messages?agent=concept")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "concept", *f.chat.listAgent)

	resp, body := f.do(t, http.MethodPost, "/api/projects/p1/messages", `{"agent":"concept","content":"sketch it"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assistant := body["assistant_message"].(map[string]any)
	require.Equal(t, "reply", assistant["content"])
}

func TestHTTPServer_SummaryUsesWireKeys(t *testing.T) {
	f := newFixture(t, Options{})

	resp, body := f.do(t, http.MethodPost, "/api/projects/p1/summary", `{"agent":"strategy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "S", body["summary"])
	require.Equal(t, "P", body["problem_statment"])
	require.Equal(t, "", body["assumptions"])
	require.Equal(t, "", body["detail_summary"])
	require.Equal(t, "strategy", body["agent"])
	require.Equal(t, true, body["stored"])
	require.NotContains(t, body, "problem_statement")
}

func TestHTTPServer_ProjectIncludesFlatCaseFileColumns(t *testing.T) {
	f := newFixture(t, Options{})
	problem := "Queues are long"
	f.projects.projects["p1"].CaseFile.Research.ProblemStatement = &problem

	resp, body := f.do(t, http.MethodGet, "/api/projects/p1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Queues are long", body["research_problem_statement"])
	for _, per := range []string{"strategy", "research", "concept", "present"} {
		for _, field := range []string{"summary", "problem_statement", "assumptions", "detail_summary"} {
			require.Contains(t, body, per+"_"+field)
		}
	}
	require.Nil(t, body["strategy_summary"])

	caseFile := body["case_file"].(map[string]any)
	research := caseFile["research"].(map[string]any)
	require.Equal(t, "Queues are long", research["problem_statement"])
	require.Equal(t, "p1", body["id"])
	require.Equal(t, "Kiosk", body["title"])
}

func TestHTTPServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("wrap: %w", project.ErrProjectNotFound), http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"invalid", chat.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"unavailable", fmt.Errorf("%w: boom", completion.ErrUnavailable), http.StatusBadGateway, "SERVICE_UNAVAILABLE"},
		{"unconfigured", fmt.Errorf("%w: %w", completion.ErrUnavailable, completion.ErrNotConfigured), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"malformed", fmt.Errorf("%w: not json", prompt.ErrMalformedSummary), http.StatusBadGateway, "MALFORMED_SUMMARY"},
		{"other", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.chat.sendErr = tt.err
			f.chat.summarizeErr = tt.err

			resp, body := f.do(t, http.MethodPost, "/api/projects/p1/messages", `{"agent":"strategy","content":"hi"}`)
			require.Equal(t, tt.status, resp.StatusCode)
			require.Equal(t, tt.code, errorCode(t, body))

			resp, body = f.do(t, http.MethodPost, "/api/projects/p1/summary", `{"agent":"strategy"}`)
			require.Equal(t, tt.status, resp.StatusCode)
			require.Equal(t, tt.code, errorCode(t, body))
		})
	}
}

func TestHTTPServer_Activity(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := http.Get(f.server.URL + "/api/projects/p1/activity?limit=5&agent=present")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "p1", f.activity.opts.ProjectID)
	require.Equal(t, 5, f.activity.opts.Limit)
	require.Equal(t, "present", *f.activity.opts.Agent)

	resp, err = http.Get(f.server.URL + "/api/projects/p1/activity?limit=-1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(f.server.URL + "/api/projects/missing/activity")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_AuthGuardsAPIAndMCP(t *testing.T) {
	mcpHits := 0
	f := newFixture(t, Options{
		Auth: AuthMiddleware(&testVerifier{tokens: map[string]bool{"token": true}}),
		MCP: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mcpHits++
			w.WriteHeader(http.StatusOK)
		}),
	})

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(f.server.URL + "/api/projects")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, mcpHits)
}
