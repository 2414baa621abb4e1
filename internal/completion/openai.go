package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rpggio/dossier/internal/prompt"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// LangChainClient adapts a langchaingo model to Client.
type LangChainClient struct {
	llm      llms.Model
	provider Provider
}

// NewOpenAI creates an OpenAI chat client.
func NewOpenAI(apiKey, model string) (*LangChainClient, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return NewLangChain(llm, ProviderOpenAI), nil
}

// NewLangChain wraps any langchaingo model.
func NewLangChain(llm llms.Model, provider Provider) *LangChainClient {
	return &LangChainClient{llm: llm, provider: provider}
}

// Complete implements Client.
func (c *LangChainClient) Complete(ctx context.Context, messages []prompt.Message, params Params) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(params.Temperature)}
	if params.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, toLangChain(messages), opts...)
	if err != nil {
		return "", unavailable(c.provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", unavailable(c.provider, errors.New("empty response"))
	}
	return resp.Choices[0].Content, nil
}

func toLangChain(messages []prompt.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role llms.ChatMessageType
		switch m.Role {
		case prompt.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case prompt.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}
