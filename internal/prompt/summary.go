package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/dossier/internal/persona"
)

// ErrMalformedSummary is returned when a summarization reply is not a JSON
// object.
var ErrMalformedSummary = errors.New("malformed summary reply")

// Wire keys of a summarization reply. "problem_statment" is spelled the way
// existing clients expect it.
const (
	keySummary          = "summary"
	keyProblemStatement = "problem_statment"
	keyAssumptions      = "assumptions"
	keyDetailSummary    = "detail_summary"
)

// Summary is the structured case-file update produced for one persona.
type Summary struct {
	Summary          string `json:"summary"`
	ProblemStatement string `json:"problem_statment"`
	Assumptions      string `json:"assumptions"`
	DetailSummary    string `json:"detail_summary"`
}

const summaryInstructions = `
You are going to summarize the conversation for this one agent.

1. Read the project context.
2. Read the current agent's conversation transcript.
3. Consider any detail summaries from the other agents as additional context.
4. Produce a **compact but information-dense** JSON object capturing the essentials.

CRITICAL:
- Respond with **only valid JSON**.
- Do not wrap in markdown.
- Do not add comments or extra keys.

JSON shape (keys must match exactly):
{
  "summary": string,
  "problem_statment": string,
  "assumptions": string,
  "detail_summary": string
}

Keep ` + "`summary`, `problem_statment`, and `assumptions`" + ` short enough for UI fields.
Use ` + "`detail_summary`" + ` for a fuller, cross-agent readable description.
`

// Synthesizer builds the summarization request for one persona.
type Synthesizer struct {
	registry Registry
}

// NewSynthesizer creates a Synthesizer backed by registry.
func NewSynthesizer(registry Registry) *Synthesizer {
	return &Synthesizer{registry: registry}
}

// Build composes the summarization prompt: the persona header, the project
// context, every persona's stored detail summary, the persona's transcript,
// and the closing JSON instructions.
func (s *Synthesizer) Build(p persona.Persona, project Project, history []Message, details map[persona.Persona]string) string {
	var b strings.Builder
	b.WriteString(s.registry.SummaryInstructions(p))
	b.WriteString("\n\n" + projectContextHeading + "\n")
	b.WriteString(ProjectContextBlock(project))
	b.WriteString("\n\nOther agents' detail summaries (may be empty):\n")
	b.WriteString(DetailSummariesBlock(details))
	b.WriteString("\n\nCurrent agent conversation transcript (most recent last):\n")
	b.WriteString(transcript(history))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(summaryInstructions))
	b.WriteString("\n")
	return b.String()
}

func transcript(history []Message) string {
	if len(history) == 0 {
		return noTranscript
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, "["+strings.ToUpper(string(m.Role))+"] "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// ParseSummaryReply decodes a summarization reply. Missing or non-string
// values become empty strings and every value is trimmed.
func ParseSummaryReply(raw string) (Summary, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrMalformedSummary, err)
	}
	if fields == nil {
		return Summary{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedSummary)
	}
	return Summary{
		Summary:          stringField(fields, keySummary),
		ProblemStatement: stringField(fields, keyProblemStatement),
		Assumptions:      stringField(fields, keyAssumptions),
		DetailSummary:    stringField(fields, keyDetailSummary),
	}, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}
