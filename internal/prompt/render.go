package prompt

import (
	"strings"

	"github.com/rpggio/dossier/internal/persona"
)

const (
	placeholderTitle         = "untitled"
	noProjectContext         = "(no additional project context)"
	noDetailSummaries        = "(no detail summaries from other agents yet)"
	noTranscript             = "(no prior conversation for this agent)"
	projectContextHeading    = "Project context:"
	projectTitlePrefix       = "Project title: "
	projectDescriptionPrefix = "Project description: "
)

// ProjectContextLines renders the labelled title and description lines. The
// title is skipped when blank or still the "untitled" placeholder.
func ProjectContextLines(p Project) []string {
	var lines []string
	title := strings.TrimSpace(p.Title)
	if title != "" && !strings.EqualFold(title, placeholderTitle) {
		lines = append(lines, projectTitlePrefix+title)
	}
	if description := strings.TrimSpace(p.Description); description != "" {
		lines = append(lines, projectDescriptionPrefix+description)
	}
	return lines
}

// ProjectContextBlock joins the context lines, or returns a placeholder when
// there are none.
func ProjectContextBlock(p Project) string {
	lines := ProjectContextLines(p)
	if len(lines) == 0 {
		return noProjectContext
	}
	return strings.Join(lines, "\n")
}

// DetailSummariesBlock renders one labelled block per persona with a stored
// detail summary, in case-file order. Personas without one are left out.
func DetailSummariesBlock(details map[persona.Persona]string) string {
	var blocks []string
	for _, p := range persona.All {
		detail := details[p]
		if strings.TrimSpace(detail) == "" {
			continue
		}
		blocks = append(blocks, "["+p.Label()+" DETAIL]\n"+detail+"\n")
	}
	if len(blocks) == 0 {
		return noDetailSummaries
	}
	return strings.Join(blocks, "\n")
}
