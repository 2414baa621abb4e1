package prompt_test

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/rpggio/dossier/internal/persona"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRegistry is a fixed template table keyed by persona.
type fakeRegistry struct{}

func (fakeRegistry) BasePrompt() string { return "BASE" }

func (fakeRegistry) RoleDescription(p persona.Persona) string {
	if !p.Known() {
		return ""
	}
	return "ROLE:" + p.Label()
}

func (fakeRegistry) SummaryInstructions(p persona.Persona) string {
	if !p.Known() {
		p = persona.Strategy
	}
	return "HEADER:" + p.Label()
}
