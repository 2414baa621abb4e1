package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/prompt"
)

func TestSynthesizer_Build(t *testing.T) {
	syn := prompt.NewSynthesizer(fakeRegistry{})
	history := []prompt.Message{
		{Role: prompt.RoleUser, Content: "Who is the audience?"},
		{Role: prompt.RoleAssistant, Content: "Families with young kids."},
	}
	details := map[persona.Persona]string{
		persona.Strategy: "Grow membership",
		persona.Concept:  "Playful modular grid",
	}

	got := syn.Build(persona.Research, prompt.Project{Title: "Museum"}, history, details)

	require.True(t, strings.HasPrefix(got, "HEADER:RESEARCH\n\nProject context:\nProject title: Museum\n\n"))
	require.Contains(t, got, "Other agents' detail summaries (may be empty):\n[STRATEGY DETAIL]\nGrow membership\n\n[CONCEPT DETAIL]\nPlayful modular grid\n")
	require.NotContains(t, got, "[RESEARCH DETAIL]")
	require.NotContains(t, got, "[PRESENT DETAIL]")
	require.Contains(t, got, "Current agent conversation transcript (most recent last):\n[USER] Who is the audience?\n[ASSISTANT] Families with young kids.\n\n")
	require.Contains(t, got, `"problem_statment": string`)
	require.True(t, strings.HasSuffix(got, "cross-agent readable description.\n"))

	userAt := strings.Index(got, "[USER]")
	assistantAt := strings.Index(got, "[ASSISTANT]")
	require.Less(t, userAt, assistantAt)
}

func TestSynthesizer_BuildPlaceholders(t *testing.T) {
	syn := prompt.NewSynthesizer(fakeRegistry{})
	got := syn.Build(persona.Present, prompt.Project{Title: "untitled"}, nil, map[persona.Persona]string{persona.Research: ""})

	require.Contains(t, got, "Project context:\n(no additional project context)\n")
	require.Contains(t, got, "(no detail summaries from other agents yet)")
	require.Contains(t, got, "(no prior conversation for this agent)")
	require.NotContains(t, got, "DETAIL]")
}

func TestSynthesizer_UnknownPersonaUsesStrategyHeader(t *testing.T) {
	reg := persona.DefaultRegistry()
	syn := prompt.NewSynthesizer(reg)

	got := syn.Build(persona.Parse("zzz"), prompt.Project{}, nil, nil)
	require.True(t, strings.HasPrefix(got, reg.SummaryInstructions(persona.Strategy)))
}

func TestParseSummaryReply(t *testing.T) {
	got, err := prompt.ParseSummaryReply(`{"summary":"S","problem_statment":"P","assumptions":"A","detail_summary":"D"}`)
	require.NoError(t, err)
	require.Equal(t, prompt.Summary{Summary: "S", ProblemStatement: "P", Assumptions: "A", DetailSummary: "D"}, got)
}

func TestParseSummaryReply_Trims(t *testing.T) {
	got, err := prompt.ParseSummaryReply(`{"summary":"  S \n","problem_statment":"\tP","assumptions":"A  ","detail_summary":" D "}`)
	require.NoError(t, err)
	require.Equal(t, prompt.Summary{Summary: "S", ProblemStatement: "P", Assumptions: "A", DetailSummary: "D"}, got)
}

func TestParseSummaryReply_Coercion(t *testing.T) {
	got, err := prompt.ParseSummaryReply(`{"summary":"S","problem_statment":"P","detail_summary":"D","extra":"ignored"}`)
	require.NoError(t, err)
	require.Equal(t, "", got.Assumptions)
	require.Equal(t, "S", got.Summary)
	require.Equal(t, "P", got.ProblemStatement)
	require.Equal(t, "D", got.DetailSummary)

	got, err = prompt.ParseSummaryReply(`{"summary":42,"problem_statment":null,"assumptions":["a"],"detail_summary":{"x":1}}`)
	require.NoError(t, err)
	require.Equal(t, prompt.Summary{}, got)
}

func TestParseSummaryReply_CorrectlySpelledKeyIgnored(t *testing.T) {
	got, err := prompt.ParseSummaryReply(`{"problem_statement":"P"}`)
	require.NoError(t, err)
	require.Empty(t, got.ProblemStatement)
}

func TestParseSummaryReply_Malformed(t *testing.T) {
	for _, raw := range []string{"not json", "", "null", `["summary"]`, `"summary"`, "```json\n{}\n```"} {
		got, err := prompt.ParseSummaryReply(raw)
		require.ErrorIs(t, err, prompt.ErrMalformedSummary, "input %q", raw)
		require.Equal(t, prompt.Summary{}, got)
	}
}
