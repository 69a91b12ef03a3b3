package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/specialist"
)

const (
	toolAskSpecialist = "ask_specialist"
	toolCrossCheck    = "cross_check"
)

var roleEnum = []string{"meteorology", "history", "safety", "news"}

// toolDefs declares the consultation operations exposed to the synthesis
// call. The model decides when and whether to invoke them.
func toolDefs() []openrouter.Tool {
	return []openrouter.Tool{
		{
			Type: "function",
			Function: openrouter.ToolFunction{
				Name:        toolAskSpecialist,
				Description: "Ask one specialist a directed follow-up question about their analysis.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"role":     map[string]any{"type": "string", "enum": roleEnum},
						"question": map[string]any{"type": "string"},
					},
					"required": []string{"role", "question"},
				},
			},
		},
		{
			Type: "function",
			Function: openrouter.ToolFunction{
				Name:        toolCrossCheck,
				Description: "Have the first named specialist critique their analysis against the other named specialists' analyses.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"roles": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string", "enum": roleEnum},
							"minItems": 2,
						},
						"question": map[string]any{"type": "string"},
					},
					"required": []string{"roles", "question"},
				},
			},
		},
	}
}

// askSpecialist re-queries one specialist with a follow-up question and that
// specialist's own earlier analysis attached.
func (c *Coordinator) askSpecialist(ctx context.Context, cctx ConsultationContext, roleName, question string) (string, error) {
	role, err := specialist.ParseRole(roleName)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf("Your earlier analysis:\n%s\n\nQuestion: %s", cctx.Analyses.RenderJSON(role), question)
	return c.inv.Consult(ctx, role, cctx.Models[role], specialist.ConsultPrompt(role), prompt)
}

// crossCheck re-queries the first named specialist with every named
// specialist's analysis attached for critique. At least two roles required.
func (c *Coordinator) crossCheck(ctx context.Context, cctx ConsultationContext, roleNames []string, question string) (string, error) {
	if len(roleNames) < 2 {
		return "", fmt.Errorf("coordinator: cross_check needs at least 2 roles, got %d", len(roleNames))
	}
	roles := make([]specialist.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := specialist.ParseRole(name)
		if err != nil {
			return "", err
		}
		roles = append(roles, role)
	}

	var sb strings.Builder
	for _, role := range roles {
		fmt.Fprintf(&sb, "=== %s analysis ===\n%s\n\n", role, cctx.Analyses.RenderJSON(role))
	}
	fmt.Fprintf(&sb, "Question: %s", question)

	lead := roles[0]
	return c.inv.Consult(ctx, lead, cctx.Models[lead], specialist.CrossCheckPrompt(lead), sb.String())
}
