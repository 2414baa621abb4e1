package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()
	return newStdioSessionWithEnv(t, nil)
}

func newStdioSessionWithEnv(t *testing.T, extraEnv []string) *stdioSession {
	t.Helper()

	binaryPath := "./bin/dossier"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/dossier"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Build cmd/server into bin/dossier first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath, "serve")
	cmd.Env = append(os.Environ(),
		"DOSSIER_TRANSPORT_MODE=stdio",
		"DOSSIER_DB_PATH=:memory:",
		"DOSSIER_AUTH_ENABLED=false",
		"DOSSIER_CONFIG_PATH=",
		"OPENAI_API_KEY=",
		"GEMINI_API_KEY=",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	transport := &sdkmcp.CommandTransport{Command: cmd}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	return result
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := s.call(t, name, args)
	require.False(t, result.IsError, "Tool %s returned error: %s", name, textOf(result))
	text := textOf(result)
	require.NotEmpty(t, text, "Tool %s returned no text content", name)
	return json.RawMessage(text)
}

func textOf(result *sdkmcp.CallToolResult) string {
	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return textContent.Text
		}
	}
	return ""
}

func TestStdioFunctional_MCPProtocolCompliance(t *testing.T) {
	s := newStdioSession(t)

	initResult := s.session.InitializeResult()
	require.NotNil(t, initResult)
	require.NotNil(t, initResult.ServerInfo)
	require.Equal(t, "dossier", initResult.ServerInfo.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := s.session.ListTools(ctx, nil)
	require.NoError(t, err)

	toolMap := make(map[string]*sdkmcp.Tool)
	for _, tool := range tools.Tools {
		toolMap[tool.Name] = tool
	}
	for _, name := range []string{
		"create_project", "list_projects", "get_project", "update_project", "delete_project",
		"list_messages", "send_message", "summarize_agent", "update_case_file", "get_activity",
	} {
		require.Contains(t, toolMap, name)
		require.NotEmpty(t, toolMap[name].Description)
	}
}

func TestStdioFunctional_ProjectLifecycle(t *testing.T) {
	s := newStdioSession(t)

	createResp := s.callTool(t, "create_project", map[string]any{"title": "Kiosk redesign"})
	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(createResp, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Kiosk redesign", created.Title)

	_ = s.callTool(t, "update_case_file", map[string]any{
		"project_id": created.ID,
		"agent":      "research",
		"summary":    "Interviewed five operators",
	})

	getResp := s.callTool(t, "get_project", map[string]any{"project_id": created.ID})
	require.Contains(t, string(getResp), "Interviewed five operators")

	listResp := s.callTool(t, "list_projects", nil)
	require.Contains(t, string(listResp), created.ID)

	activity := s.callTool(t, "get_activity", map[string]any{"project_id": created.ID})
	require.Contains(t, string(activity), "case_file_edited")
	require.Contains(t, string(activity), "project_created")

	_ = s.callTool(t, "delete_project", map[string]any{"project_id": created.ID})

	missing := s.call(t, "get_project", map[string]any{"project_id": created.ID})
	require.True(t, missing.IsError)
	require.Contains(t, textOf(missing), "PROJECT_NOT_FOUND")
}

func TestStdioFunctional_SendWithoutProvider(t *testing.T) {
	s := newStdioSession(t)

	createResp := s.callTool(t, "create_project", map[string]any{"title": "Offline"})
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(createResp, &created))

	result := s.call(t, "send_message", map[string]any{
		"project_id": created.ID,
		"agent":      "strategy",
		"content":    "Where do we start?",
	})
	require.True(t, result.IsError)
	require.Contains(t, textOf(result), "SERVICE_UNAVAILABLE")

	messages := s.callTool(t, "list_messages", map[string]any{"project_id": created.ID})
	require.NotContains(t, string(messages), "Where do we start?")
}

func TestStdioFunctional_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dossier.log")
	s := newStdioSessionWithEnv(t, []string{
		"DOSSIER_LOG_PATH=" + logPath,
		"DOSSIER_LOG_LEVEL=debug",
	})

	_ = s.callTool(t, "list_projects", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp traffic"`) &&
			strings.Contains(text, "stage=request") &&
			strings.Contains(text, "stage=response")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestStdioFunctional_Resources(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)

	uris := make(map[string]*sdkmcp.Resource, len(resources.Resources))
	for _, r := range resources.Resources {
		uris[r.URI] = r
	}

	expected := []string{
		"dossier://docs/case-file",
		"dossier://personas/strategy",
		"dossier://personas/research",
		"dossier://personas/concept",
		"dossier://personas/present",
	}
	for _, uri := range expected {
		r, ok := uris[uri]
		require.True(t, ok, "missing expected resource: %s", uri)
		require.Equal(t, "text/markdown", r.MIMEType)

		read, err := s.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: uri})
		require.NoError(t, err)
		require.NotEmpty(t, read.Contents)
		require.NotEmpty(t, read.Contents[0].Text)
	}
}
