package debate

import (
	"fmt"

	"github.com/closurecast/closurecast/internal/specialist"
)

// fallbackConfidence is the fixed confidence assigned to positions derived
// from fixed extraction rules rather than a live specialist call.
const fallbackConfidence = 40

// FallbackPosition synthesizes a position for a specialist whose debate call
// failed, using only that specialist's own analysis. Deterministic: the same
// analysis always yields the same position.
func FallbackPosition(role specialist.Role, analyses *specialist.Set) Position {
	var prob float64
	var rationale string

	switch role {
	case specialist.Meteorology:
		m := analyses.Meteorology
		prob = clamp(0.7*m.Precipitation.SnowProbabilityPct + 5*m.Precipitation.ExpectedSnowfallIn)
		if prob > 95 {
			prob = 95
		}
		rationale = fmt.Sprintf("Derived from snow probability %.0f%% and expected snowfall %.1f in.",
			m.Precipitation.SnowProbabilityPct, m.Precipitation.ExpectedSnowfallIn)
	case specialist.History:
		h := analyses.History
		prob = clamp(h.ClosureRatePct)
		rationale = fmt.Sprintf("Derived from historical closure rate %.0f%% across %d similar days.",
			h.ClosureRatePct, h.SimilarDayCount)
	case specialist.Safety:
		s := analyses.Safety
		prob = riskProbability(s.OverallRisk)
		rationale = fmt.Sprintf("Derived from overall safety risk level %q.", s.OverallRisk)
	case specialist.News:
		n := analyses.News
		prob = sentimentProbability(n.Sentiment) + 5*float64(n.NeighboringClosures)
		if prob > 95 {
			prob = 95
		}
		rationale = fmt.Sprintf("Derived from sentiment %q and %d neighboring closures.",
			n.Sentiment, n.NeighboringClosures)
	}

	return Position{
		Specialist:  string(role),
		Probability: clamp(prob),
		Confidence:  fallbackConfidence,
		Rationale:   rationale,
		KeyFactors:  []string{"fallback estimate from own analysis"},
		Fallback:    true,
	}
}

func riskProbability(risk string) float64 {
	switch risk {
	case specialist.RiskLow:
		return 15
	case specialist.RiskModerate:
		return 40
	case specialist.RiskHigh:
		return 70
	case specialist.RiskExtreme:
		return 90
	}
	return 40
}

func sentimentProbability(sentiment string) float64 {
	switch sentiment {
	case specialist.SentimentStronglyClosure:
		return 80
	case specialist.SentimentLeaningClosure:
		return 60
	case specialist.SentimentNeutral:
		return 40
	case specialist.SentimentLeaningOpen:
		return 25
	case specialist.SentimentStronglyOpen:
		return 10
	}
	return 40
}
