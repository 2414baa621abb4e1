package persona

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrIncompleteTemplates is returned when a registry is built without a
// template for every known persona.
var ErrIncompleteTemplates = errors.New("incomplete persona templates")

// Templates is the raw prompt material a Registry is built from.
type Templates struct {
	Base      string
	Roles     map[Persona]string
	Summaries map[Persona]string
}

// Registry is an immutable lookup table from persona to prompt templates.
// It is built once at start-up and shared by every request.
type Registry struct {
	base      string
	roles     map[Persona]string
	summaries map[Persona]string
}

// NewRegistry validates t and copies it into a Registry.
func NewRegistry(t Templates) (*Registry, error) {
	if strings.TrimSpace(t.Base) == "" {
		return nil, fmt.Errorf("%w: base prompt is empty", ErrIncompleteTemplates)
	}
	r := &Registry{
		base:      t.Base,
		roles:     make(map[Persona]string, len(All)),
		summaries: make(map[Persona]string, len(All)),
	}
	for _, p := range All {
		role, ok := t.Roles[p]
		if !ok || strings.TrimSpace(role) == "" {
			return nil, fmt.Errorf("%w: missing role for %s", ErrIncompleteTemplates, p)
		}
		summary, ok := t.Summaries[p]
		if !ok || strings.TrimSpace(summary) == "" {
			return nil, fmt.Errorf("%w: missing summary instructions for %s", ErrIncompleteTemplates, p)
		}
		r.roles[p] = role
		r.summaries[p] = summary
	}
	return r, nil
}

// DefaultRegistry returns the built-in design director templates.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultTemplates())
	if err != nil {
		panic(err)
	}
	return r
}

// BasePrompt is the role description shared by every persona.
func (r *Registry) BasePrompt() string {
	return r.base
}

// RoleDescription returns the persona-specific augmentation of the system
// prompt. Unknown personas get none.
func (r *Registry) RoleDescription(p Persona) string {
	if !p.Known() {
		return ""
	}
	return r.roles[p]
}

// SummaryInstructions returns the summarization header for p. Unknown
// personas fall back to the Strategy header.
func (r *Registry) SummaryInstructions(p Persona) string {
	if !p.Known() {
		return r.summaries[Strategy]
	}
	return r.summaries[p]
}

// Lookup resolves a raw identifier to its role description and summary
// instructions.
func (r *Registry) Lookup(id string) (role, summary string) {
	p := Parse(id)
	return r.RoleDescription(p), r.SummaryInstructions(p)
}

type fileTemplate struct {
	Role    string `yaml:"role"`
	Summary string `yaml:"summary"`
}

type fileTemplates struct {
	Base     string                  `yaml:"base"`
	Personas map[string]fileTemplate `yaml:"personas"`
}

// LoadRegistry reads template overrides from a YAML file. Anything the file
// leaves out keeps its built-in value.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}
	var file fileTemplates
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse persona file: %w", err)
	}

	t := defaultTemplates()
	if strings.TrimSpace(file.Base) != "" {
		t.Base = strings.TrimSpace(file.Base)
	}
	for id, override := range file.Personas {
		p := Parse(id)
		if !p.Known() {
			return nil, fmt.Errorf("parse persona file: unknown persona %q", id)
		}
		if s := strings.TrimSpace(override.Role); s != "" {
			t.Roles[p] = s
		}
		if s := strings.TrimSpace(override.Summary); s != "" {
			t.Summaries[p] = s
		}
	}
	return NewRegistry(t)
}
