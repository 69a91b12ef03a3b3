package decision

import (
	"strings"

	"github.com/closurecast/closurecast/internal/specialist"
)

// Objective temperature thresholds, Fahrenheit.
const (
	extremeFeelsLikeF    = -20
	extremeOvernightLowF = -15
	dangerousFeelsLikeF  = -15
	dangerousOvernightF  = -10

	extremeFloor   = 95
	dangerousFloor = 50
)

const (
	extremeColdFactor   = "Extreme cold: life-threatening wind chill or overnight temperatures"
	dangerousColdFactor = "Dangerous cold: severe wind chill or overnight temperatures"
)

// ApplyColdFloor enforces minimum probabilities from objective
// temperature-derived signals, independent of anything the specialists or
// coordinator argued. Pure and idempotent; never lowers the probability.
func ApplyColdFloor(d FinalDecision, m specialist.MeteorologyAnalysis) FinalDecision {
	t := m.Temperature

	extremeCold := t.ExtremeCold ||
		t.MorningFeelsLikeF <= extremeFeelsLikeF ||
		t.WindChillF <= extremeFeelsLikeF ||
		t.OvernightLowF <= extremeOvernightLowF

	dangerousCold := t.MorningFeelsLikeF <= dangerousFeelsLikeF ||
		t.WindChillF <= dangerousFeelsLikeF ||
		t.OvernightLowF <= dangerousOvernightF

	switch {
	case extremeCold && d.Probability < extremeFloor:
		d.Probability = extremeFloor
		d.PrimaryFactors = prependFactor(d.PrimaryFactors, extremeColdFactor)
	case !extremeCold && dangerousCold && d.Probability < dangerousFloor:
		d.Probability = dangerousFloor
		d.PrimaryFactors = prependFactor(d.PrimaryFactors, dangerousColdFactor)
	}
	return d
}

// prependFactor puts factor first, dropping any earlier cold-override factor
// so repeated application cannot stack duplicates.
func prependFactor(factors []string, factor string) []string {
	out := make([]string, 0, len(factors)+1)
	out = append(out, factor)
	for _, f := range factors {
		if strings.HasPrefix(f, "Extreme cold:") || strings.HasPrefix(f, "Dangerous cold:") {
			continue
		}
		out = append(out, f)
	}
	return out
}
