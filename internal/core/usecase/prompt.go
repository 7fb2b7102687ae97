package usecase

import (
	_ "embed"
	"strings"
)

//go:embed prompts/rfp_structure.md
var rfpStructurePrompt string

//go:embed prompts/proposal_parse.md
var proposalParsePrompt string

//go:embed prompts/comparison.md
var comparisonPrompt string

// renderPrompt substitutes {{name}} placeholders in a template.
func renderPrompt(template string, variables map[string]string) string {
	out := template
	for name, value := range variables {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}
