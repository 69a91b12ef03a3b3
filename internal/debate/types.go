// Package debate runs the bounded collaborative debate between specialists
// and detects consensus.
package debate

import "fmt"

// Impact grades how strongly a challenge bears on the final probability.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Challenge is one specialist questioning another's position.
type Challenge struct {
	Target    string `json:"target"`
	Challenge string `json:"challenge"`
	Impact    string `json:"impact"`
}

// Position is one specialist's stance in one round. Probability and
// confidence are always within [0,100]; a failed call is replaced by a
// deterministic fallback, never by a missing position.
type Position struct {
	Specialist  string      `json:"specialist"`
	Probability float64     `json:"probability"`
	Confidence  float64     `json:"confidence"`
	Rationale   string      `json:"rationale"`
	KeyFactors  []string    `json:"key_factors"`
	Challenges  []Challenge `json:"challenges,omitempty"`
	Fallback    bool        `json:"fallback,omitempty"`
}

// Record is a challenge lifted out of a position into the round's debate
// log. No automated resolution exists, so Status is always "unresolved".
type Record struct {
	Round      int    `json:"round"`
	Challenger string `json:"challenger"`
	Target     string `json:"target"`
	Challenge  string `json:"challenge"`
	Impact     string `json:"impact"`
	Status     string `json:"status"`
}

// Round is one completed debate round. Rounds are append-only.
type Round struct {
	Number           int        `json:"round"`
	Positions        []Position `json:"positions"`
	Spread           float64    `json:"spread"`
	ConsensusReached bool       `json:"consensus_reached"`
	Debates          []Record   `json:"debates"`
	Summary          string     `json:"summary"`
}

// Exit reasons for a debate session.
const (
	ExitConsensus = "consensus"
	ExitMaxRounds = "max_rounds"
	ExitError     = "error"
)

// Journey tracks one specialist's probability from first to last round.
type Journey struct {
	Specialist string  `json:"specialist"`
	Initial    float64 `json:"initial"`
	Final      float64 `json:"final"`
	Shift      float64 `json:"shift"`
}

// Collaboration is the aggregate audit record of a debate session.
type Collaboration struct {
	TotalRounds        int       `json:"total_rounds"`
	MaxRoundsAllowed   int       `json:"max_rounds_allowed"`
	ConsensusThreshold float64   `json:"consensus_threshold"`
	FinalConsensus     bool      `json:"final_consensus"`
	ExitReason         string    `json:"exit_reason"`
	Rounds             []Round   `json:"rounds"`
	ConfidenceJourney  []Journey `json:"confidence_journey"`
	KeyDisagreements   []Record  `json:"key_disagreements"`
	Summary            string    `json:"summary"`
}

// EngineError is an unexpected failure inside the debate loop that is not
// attributable to one specialist's recoverable call.
type EngineError struct {
	Round int
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("debate: round %d: %v", e.Round, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// clamp bounds a probability or confidence to [0,100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// spread returns max - min of the positions' probabilities.
func spread(positions []Position) float64 {
	if len(positions) == 0 {
		return 0
	}
	lo, hi := positions[0].Probability, positions[0].Probability
	for _, p := range positions[1:] {
		if p.Probability < lo {
			lo = p.Probability
		}
		if p.Probability > hi {
			hi = p.Probability
		}
	}
	return hi - lo
}
