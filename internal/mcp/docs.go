package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/dossier/internal/persona"
)

const serverInstructions = `dossier keeps design projects and four persona conversations per project.

Personas: strategy, research, concept, present. Each persona has its own message history.

Workflow:
1) Pick a project: list_projects or create_project.
2) Talk to a persona with send_message. The persona sees its own history and the project title and
   description.
3) When a conversation has moved on, call summarize_agent for that persona. The summary is written with
   every persona's stored detail summary in view and overwrites only that persona's case file
   (summary, problem statement, assumptions, detail summary).
4) Fix wording by hand with update_case_file. The detail summary is only written by summarize_agent.

Errors carry a code: PROJECT_NOT_FOUND, INVALID_INPUT, SERVICE_UNAVAILABLE, MALFORMED_SUMMARY.

Docs:
- dossier://docs/case-file
- dossier://personas/{strategy,research,concept,present}
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "dossier://docs/case-file",
		Name:        "docs_case_file",
		Title:       "Case file guide",
		Description: "What the four case-file fields hold and how summaries flow between personas.",
		Content: `# Case file

Every project stores four fields per persona:

- summary: a short recap of where the conversation stands.
- problem_statement: the problem as this persona currently frames it.
- assumptions: what the persona is taking for granted.
- detail_summary: a denser record meant for the other personas.

## Cross-agent memory

Detail summaries are the only thing personas share. Summarizing any persona includes every stored
detail summary, labelled by persona, so Research findings shape the Concept case file without
replaying transcripts.

## Summarization

summarize_agent sends the persona's transcript and the other detail summaries to the model and expects a
JSON object back. The summary key for the problem statement is spelled ` + "`problem_statment`" + `.
If the reply is not a JSON object nothing is stored and MALFORMED_SUMMARY is returned.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		addMarkdownResource(server, doc)
	}
}

// registerPersonaResources publishes each persona's role and summary header.
func registerPersonaResources(server *sdkmcp.Server, catalog PersonaCatalog) {
	for _, p := range persona.All {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s persona\n\n## Role\n\n%s\n\n## Summarization header\n\n%s\n",
			p.Label(), catalog.RoleDescription(p), catalog.SummaryInstructions(p))

		addMarkdownResource(server, docResource{
			URI:         "dossier://personas/" + p.String(),
			Name:        "persona_" + p.String(),
			Title:       p.Label() + " persona",
			Description: "Role description and summarization header for the " + p.String() + " persona.",
			Content:     b.String(),
		})
	}
}

func addMarkdownResource(server *sdkmcp.Server, doc docResource) {
	server.AddResource(&sdkmcp.Resource{
		URI:         doc.URI,
		Name:        doc.Name,
		Title:       doc.Title,
		Description: doc.Description,
		MIMEType:    "text/markdown",
		Size:        int64(len(doc.Content)),
	}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		uri := doc.URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     doc.Content,
			}},
		}, nil
	})
}
