package completion

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/rpggio/dossier/internal/prompt"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	model    string
	generate generateFunc
}

// NewGemini creates a Gemini client.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newGeminiClient(model, client.Models.GenerateContent), nil
}

func newGeminiClient(model string, generate generateFunc) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{model: model, generate: generate}
}

// Complete implements Client. System messages become the system instruction.
func (c *GeminiClient) Complete(ctx context.Context, messages []prompt.Message, params Params) (string, error) {
	system, contents := toGemini(messages)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(params.Temperature)),
	}
	if params.MaxTokens > 0 {
		config.MaxOutputTokens = int32(params.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.generate(ctx, c.model, contents, config)
	if err != nil {
		return "", unavailable(ProviderGemini, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", unavailable(ProviderGemini, fmt.Errorf("empty response"))
	}
	return resp.Text(), nil
}

func toGemini(messages []prompt.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			system = append(system, m.Content)
		case prompt.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
