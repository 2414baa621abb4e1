// Package persona defines the closed set of conversational personas attached
// to a project and the prompt templates each of them uses.
package persona

import "strings"

// Persona identifies one of the four case-file agents.
type Persona int

const (
	// Unknown is any identifier outside the four known personas.
	Unknown Persona = iota
	Strategy
	Research
	Concept
	Present
)

// All lists the known personas in case-file order.
var All = []Persona{Strategy, Research, Concept, Present}

// Parse maps an identifier to a Persona. Matching is case-insensitive and
// ignores surrounding whitespace; anything else is Unknown.
func Parse(id string) Persona {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "strategy":
		return Strategy
	case "research":
		return Research
	case "concept":
		return Concept
	case "present":
		return Present
	default:
		return Unknown
	}
}

// String returns the lower-case identifier used in storage and on the wire.
func (p Persona) String() string {
	switch p {
	case Strategy:
		return "strategy"
	case Research:
		return "research"
	case Concept:
		return "concept"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// Known reports whether p is one of the four case-file personas.
func (p Persona) Known() bool {
	switch p {
	case Strategy, Research, Concept, Present:
		return true
	default:
		return false
	}
}

// Label is the upper-case tag used when rendering blocks for p.
func (p Persona) Label() string {
	return strings.ToUpper(p.String())
}
