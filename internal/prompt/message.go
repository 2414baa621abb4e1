// Package prompt builds the message sequences and summarization requests sent
// to the completion service, and parses the structured summaries it returns.
package prompt

import "github.com/rpggio/dossier/internal/persona"

// Role is the speaker of a message in a completion request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Project is the ambient project context injected into prompts.
type Project struct {
	Title       string
	Description string
}

// Registry supplies the prompt templates for each persona.
type Registry interface {
	BasePrompt() string
	RoleDescription(p persona.Persona) string
	SummaryInstructions(p persona.Persona) string
}
