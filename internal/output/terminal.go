package output

import (
	"fmt"

	"github.com/closurecast/closurecast/internal/debate"
	"github.com/closurecast/closurecast/internal/decision"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// Colorize wraps s with an ANSI color code and reset.
func Colorize(color, s string) string { return color + s + ansiReset }

// Bold wraps s with ANSI bold and reset.
func Bold(s string) string { return ansiBold + s + ansiReset }

// PrintRound prints a completed debate round to stdout.
func PrintRound(round debate.Round) {
	fmt.Printf("\n%s spread %.0f\n", Colorize(ansiYellow, fmt.Sprintf("[Round %d]", round.Number)), round.Spread)
	for _, p := range round.Positions {
		marker := ""
		if p.Fallback {
			marker = Colorize(ansiRed, " (fallback)")
		}
		fmt.Printf("  %s: %.0f%% (confidence %.0f)%s\n", Bold(p.Specialist), p.Probability, p.Confidence, marker)
	}
	if round.ConsensusReached {
		fmt.Printf("  %s\n", Colorize(ansiGreen, "consensus reached"))
	}
}

// PrintDecision prints the final decision summary.
func PrintDecision(d decision.FinalDecision) {
	color := ansiGreen
	if d.Probability >= 70 {
		color = ansiRed
	} else if d.Probability >= 40 {
		color = ansiYellow
	}
	fmt.Printf("\n%s\n", Colorize(ansiBold+ansiCyan, "=== Closure Forecast ==="))
	fmt.Printf("Probability: %s\n", Colorize(ansiBold+color, fmt.Sprintf("%.0f%%", d.Probability)))
	fmt.Printf("Confidence: %s\n", d.ConfidenceLevel)
	for _, f := range d.PrimaryFactors {
		fmt.Printf("  - %s\n", f)
	}
	fmt.Printf("Rationale: %s\n", d.Rationale)
	if d.UpdatesNeeded {
		fmt.Printf("%s next evaluation: %s\n", Colorize(ansiYellow, "Updates needed;"), d.NextEvaluationTime)
	}
}
