package debate

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/specialist"
)

// RoundEngine produces one round of positions from all four specialists.
type RoundEngine struct {
	inv    *specialist.Invoker
	models map[specialist.Role]string
	log    *logrus.Logger
}

// NewRoundEngine creates a RoundEngine.
func NewRoundEngine(inv *specialist.Invoker, models map[specialist.Role]string, log *logrus.Logger) *RoundEngine {
	if log == nil {
		log = logrus.New()
	}
	return &RoundEngine{inv: inv, models: models, log: log}
}

// positionPayload is the wire shape of one position before the specialist
// id is stamped on.
type positionPayload struct {
	Probability float64     `json:"probability"`
	Confidence  float64     `json:"confidence"`
	Rationale   string      `json:"rationale"`
	KeyFactors  []string    `json:"key_factors"`
	Challenges  []Challenge `json:"challenges"`
}

// Run executes one debate round: four concurrent position calls, each
// masked by the deterministic fallback on failure, so the round always
// completes with exactly four positions.
func (e *RoundEngine) Run(ctx context.Context, roundNumber int, prior []Position, fctx *forecast.Context, analyses *specialist.Set) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, &EngineError{Round: roundNumber, Err: err}
	}
	positions := make([]Position, len(specialist.Roles))

	var wg sync.WaitGroup
	for i, role := range specialist.Roles {
		i, role := i, role
		wg.Add(1)
		go func() {
			defer wg.Done()
			positions[i] = e.takePosition(ctx, role, roundNumber, prior, fctx, analyses)
		}()
	}
	wg.Wait()

	round := Round{
		Number:    roundNumber,
		Positions: positions,
		Spread:    spread(positions),
	}
	for _, p := range positions {
		for _, c := range p.Challenges {
			round.Debates = append(round.Debates, Record{
				Round:      roundNumber,
				Challenger: p.Specialist,
				Target:     c.Target,
				Challenge:  c.Challenge,
				Impact:     c.Impact,
				Status:     "unresolved",
			})
		}
	}
	round.Summary = fmt.Sprintf("Round %d: spread %.0f points, %d challenges raised.",
		roundNumber, round.Spread, len(round.Debates))
	return round, nil
}

func (e *RoundEngine) takePosition(ctx context.Context, role specialist.Role, roundNumber int, prior []Position, fctx *forecast.Context, analyses *specialist.Set) Position {
	var payload positionPayload
	err := e.inv.Invoke(ctx, specialist.Request{
		Role:     role,
		Model:    e.models[role],
		System:   positionSystemPrompt(role, roundNumber),
		User:     positionUserPrompt(role, roundNumber, fctx, analyses, prior),
		Contract: PositionContract,
	}, &payload)
	if err != nil {
		e.log.WithFields(logrus.Fields{"stage": "debate", "round": roundNumber, "specialist": role}).
			WithError(err).Warn("position call failed, using deterministic fallback")
		return FallbackPosition(role, analyses)
	}
	return Position{
		Specialist:  string(role),
		Probability: clamp(payload.Probability),
		Confidence:  clamp(payload.Confidence),
		Rationale:   payload.Rationale,
		KeyFactors:  payload.KeyFactors,
		Challenges:  payload.Challenges,
	}
}
