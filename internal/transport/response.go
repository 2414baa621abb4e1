package transport

import (
	"encoding/json"

	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/prompt"
)

// summaryResponse keeps the four summary keys at the top level, where
// existing clients read them.
type summaryResponse struct {
	prompt.Summary
	Agent  string `json:"agent"`
	Stored bool   `json:"stored"`
}

func newSummaryResponse(result *chat.SummaryResult) summaryResponse {
	return summaryResponse{Summary: result.Summary, Agent: result.Agent, Stored: result.Stored}
}

// projectResponse renders a project with both the nested case_file object
// and the flat <persona>_<field> columns.
type projectResponse struct {
	*project.Project
}

func (p projectResponse) MarshalJSON() ([]byte, error) {
	type plain project.Project
	data, err := json.Marshal((*plain)(p.Project))
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for _, per := range persona.All {
		f, _ := p.CaseFile.For(per)
		prefix := per.String() + "_"
		out[prefix+"summary"] = f.Summary
		out[prefix+"problem_statement"] = f.ProblemStatement
		out[prefix+"assumptions"] = f.Assumptions
		out[prefix+"detail_summary"] = f.DetailSummary
	}
	return json.Marshal(out)
}

func newProjectList(projects []project.Project) []projectResponse {
	out := make([]projectResponse, len(projects))
	for i := range projects {
		out[i] = projectResponse{&projects[i]}
	}
	return out
}
