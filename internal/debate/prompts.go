package debate

import (
	"fmt"
	"strings"

	"github.com/closurecast/closurecast/internal/contract"
	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/specialist"
)

const positionSchema = `{"probability": 0-100, "confidence": 0-100, "rationale": "...", "key_factors": ["..."],
"challenges": [{"target": "meteorology|history|safety|news", "challenge": "...", "impact": "high|medium|low"}]}`

// PositionContract constrains one debate position returned by a specialist.
var PositionContract = contract.Contract{
	Name: "debate_position",
	Fields: []contract.Field{
		{Name: "probability", Kind: contract.Number, Min: 0, Max: 100},
		{Name: "confidence", Kind: contract.Number, Min: 0, Max: 100},
		{Name: "rationale", Kind: contract.String},
		{Name: "key_factors", Kind: contract.StringList},
		{Name: "challenges", Kind: contract.ObjectList, Optional: true, Fields: []contract.Field{
			{Name: "target", Kind: contract.String, Enum: []string{"meteorology", "history", "safety", "news"}},
			{Name: "challenge", Kind: contract.String},
			{Name: "impact", Kind: contract.String, Enum: []string{ImpactHigh, ImpactMedium, ImpactLow}},
		}},
	},
}

func positionSystemPrompt(role specialist.Role, roundNumber int) string {
	base := fmt.Sprintf("You are the %s specialist in a panel debating the probability (0-100) that school closes. "+
		"State your position given your own analysis, the other specialists' analyses", role)
	if roundNumber > 1 {
		base += ", and the positions taken in the previous round. Move toward positions you find convincing; challenge those you do not"
	} else {
		base += ". Challenge any specialist whose analysis you find unconvincing"
	}
	return base + ".\nReturn ONLY valid JSON in this exact format:\n" + positionSchema +
		"\nDo NOT include any other text, explanation, or markdown formatting."
}

func positionUserPrompt(role specialist.Role, roundNumber int, fctx *forecast.Context, analyses *specialist.Set, prior []Position) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Shared forecast context:\n%s\n", fctx.Rendered)
	fmt.Fprintf(&sb, "Your own analysis (%s):\n%s\n\n", role, analyses.RenderJSON(role))
	fmt.Fprintf(&sb, "All specialist analyses:\n%s", analyses.RenderAllJSON())
	if roundNumber > 1 && len(prior) > 0 {
		fmt.Fprintf(&sb, "Positions from round %d:\n%s", roundNumber-1, RenderPositions(prior))
	}
	fmt.Fprintf(&sb, "\nIt is round %d. State your position.", roundNumber)
	return sb.String()
}

// RenderPositions renders positions as plain text for prompt embedding.
func RenderPositions(positions []Position) string {
	var sb strings.Builder
	for _, p := range positions {
		fmt.Fprintf(&sb, "- %s: probability %.0f, confidence %.0f. %s\n", p.Specialist, p.Probability, p.Confidence, p.Rationale)
		for _, c := range p.Challenges {
			fmt.Fprintf(&sb, "    challenges %s (%s impact): %s\n", c.Target, c.Impact, c.Challenge)
		}
	}
	return sb.String()
}
