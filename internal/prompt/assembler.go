package prompt

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rpggio/dossier/internal/persona"
)

// TraceWidth is the number of characters of each message kept in a trace.
const TraceWidth = 120

// Observer receives every sequence the Assembler produces. It must not
// modify the slice.
type Observer func(messages []Message)

// Assembler turns a persona's stored history and a new user message into the
// ordered sequence submitted to the completion service.
type Assembler struct {
	registry Registry
	observer Observer
}

// NewAssembler creates an Assembler. observer may be nil.
func NewAssembler(registry Registry, observer Observer) *Assembler {
	return &Assembler{registry: registry, observer: observer}
}

// SystemPrompt is the base prompt, then the project context when present,
// then the persona's role description when the persona is known.
func (a *Assembler) SystemPrompt(p persona.Persona, project Project) string {
	var b strings.Builder
	b.WriteString(a.registry.BasePrompt())
	if lines := ProjectContextLines(project); len(lines) > 0 {
		b.WriteString("\n\n" + projectContextHeading + "\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	if role := a.registry.RoleDescription(p); role != "" {
		b.WriteString("\n\n")
		b.WriteString(role)
	}
	return b.String()
}

// Assemble returns one system message, the history in its original order,
// and finally the new user message.
func (a *Assembler) Assemble(p persona.Persona, project Project, history []Message, newMessage string) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: a.SystemPrompt(p, project)})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: newMessage})

	if a.observer != nil {
		a.observer(slices.Clone(messages))
	}
	return messages
}

// FormatTrace renders messages one per line, each cut to TraceWidth
// characters with an ellipsis when longer.
func FormatTrace(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, "  ["+strings.ToUpper(string(m.Role))+"] "+truncate(m.Content, TraceWidth))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width]) + "…"
}
