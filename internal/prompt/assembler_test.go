package prompt_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/prompt"
)

func sampleHistories() [][]prompt.Message {
	return [][]prompt.Message{
		nil,
		{{Role: prompt.RoleUser, Content: "hi"}},
		{
			{Role: prompt.RoleUser, Content: "what about a grid?"},
			{Role: prompt.RoleAssistant, Content: "Which grid?"},
			{Role: prompt.RoleUser, Content: "twelve columns"},
			{Role: prompt.RoleUser, Content: "twelve columns"},
			{Role: prompt.RoleAssistant, Content: "Why twelve?"},
		},
	}
}

func TestAssemble_Shape(t *testing.T) {
	asm := prompt.NewAssembler(fakeRegistry{}, nil)
	for i, history := range sampleHistories() {
		t.Run(fmt.Sprintf("history-%d", i), func(t *testing.T) {
			got := asm.Assemble(persona.Research, prompt.Project{Title: "Museum"}, history, "next")

			require.Len(t, got, len(history)+2)
			require.Equal(t, prompt.RoleSystem, got[0].Role)
			require.Equal(t, prompt.Message{Role: prompt.RoleUser, Content: "next"}, got[len(got)-1])
			if diff := cmp.Diff(history, got[1:len(got)-1], cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
			for _, m := range got[1:] {
				require.NotEqual(t, prompt.RoleSystem, m.Role)
			}
		})
	}
}

func TestAssemble_SystemPromptLayout(t *testing.T) {
	asm := prompt.NewAssembler(fakeRegistry{}, nil)

	got := asm.Assemble(persona.Strategy, prompt.Project{Title: "Museum", Description: "Wayfinding"}, nil, "go")
	require.Equal(t, "BASE\n\nProject context:\nProject title: Museum\nProject description: Wayfinding\n\nROLE:STRATEGY", got[0].Content)

	got = asm.Assemble(persona.Strategy, prompt.Project{Title: "untitled"}, nil, "go")
	require.Equal(t, "BASE\n\nROLE:STRATEGY", got[0].Content)

	got = asm.Assemble(persona.Parse("zzz"), prompt.Project{}, nil, "go")
	require.Equal(t, "BASE", got[0].Content)
}

func TestAssemble_RoleDescriptions(t *testing.T) {
	reg := persona.DefaultRegistry()
	asm := prompt.NewAssembler(reg, nil)

	for _, p := range persona.All {
		system := asm.Assemble(p, prompt.Project{}, nil, "x")[0].Content
		require.Contains(t, system, reg.RoleDescription(p))
		require.True(t, strings.HasPrefix(system, reg.BasePrompt()))
	}

	for _, id := range []string{"zzz", "", "director"} {
		system := asm.Assemble(persona.Parse(id), prompt.Project{}, nil, "x")[0].Content
		for _, p := range persona.All {
			require.NotContains(t, system, reg.RoleDescription(p))
		}
	}
}

func TestAssemble_UntitledConceptScenario(t *testing.T) {
	reg := persona.DefaultRegistry()
	asm := prompt.NewAssembler(reg, nil)

	got := asm.Assemble(persona.Parse("concept"), prompt.Project{Title: "Untitled"}, nil, "let's explore grid systems")

	require.Len(t, got, 2)
	require.Equal(t, prompt.RoleSystem, got[0].Role)
	require.Contains(t, got[0].Content, reg.RoleDescription(persona.Concept))
	require.NotContains(t, got[0].Content, "Project context:")
	require.Equal(t, prompt.Message{Role: prompt.RoleUser, Content: "let's explore grid systems"}, got[1])
}

func TestAssemble_Observer(t *testing.T) {
	var observed []prompt.Message
	calls := 0
	asm := prompt.NewAssembler(fakeRegistry{}, func(messages []prompt.Message) {
		calls++
		observed = messages
		messages[0].Content = "tampered"
	})

	got := asm.Assemble(persona.Present, prompt.Project{}, sampleHistories()[1], "again")
	require.Equal(t, 1, calls)
	require.Len(t, observed, 3)
	require.Equal(t, "BASE\n\nROLE:PRESENT", got[0].Content)
}

func TestFormatTrace(t *testing.T) {
	long := strings.Repeat("é", prompt.TraceWidth+5)
	trace := prompt.FormatTrace([]prompt.Message{
		{Role: prompt.RoleSystem, Content: "short"},
		{Role: prompt.RoleUser, Content: long},
		{Role: prompt.RoleAssistant, Content: strings.Repeat("a", prompt.TraceWidth)},
	})

	lines := strings.Split(trace, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "  [SYSTEM] short", lines[0])
	require.Equal(t, "  [USER] "+strings.Repeat("é", prompt.TraceWidth)+"…", lines[1])
	require.Equal(t, "  [ASSISTANT] "+strings.Repeat("a", prompt.TraceWidth), lines[2])
}
