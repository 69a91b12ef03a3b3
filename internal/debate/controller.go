package debate

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/specialist"
)

const maxKeyDisagreements = 5

// Rounder runs one debate round. Implemented by *RoundEngine; mocked in
// tests.
type Rounder interface {
	Run(ctx context.Context, roundNumber int, prior []Position, fctx *forecast.Context, analyses *specialist.Set) (Round, error)
}

// Controller drives the debate session: sequential rounds up to a cap,
// terminating early on consensus. An engine-level failure ends the session
// with whatever rounds completed; it never fails the run.
type Controller struct {
	engine    Rounder
	maxRounds int
	threshold float64
	log       *logrus.Logger
	OnRound   func(Round)
}

// NewController creates a Controller. threshold is in percentage points;
// consensus is reached when the round spread is at most twice the threshold.
func NewController(engine Rounder, maxRounds int, threshold float64, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
	}
	return &Controller{engine: engine, maxRounds: maxRounds, threshold: threshold, log: log}
}

// Run executes the debate session and builds its aggregate audit record.
func (c *Controller) Run(ctx context.Context, fctx *forecast.Context, analyses *specialist.Set) *Collaboration {
	collab := &Collaboration{
		MaxRoundsAllowed:   c.maxRounds,
		ConsensusThreshold: c.threshold,
		ExitReason:         ExitMaxRounds,
	}

	var prior []Position
	for roundNumber := 1; roundNumber <= c.maxRounds; roundNumber++ {
		round, err := c.engine.Run(ctx, roundNumber, prior, fctx, analyses)
		if err != nil {
			c.log.WithFields(logrus.Fields{"stage": "debate", "round": roundNumber}).
				WithError(err).Error("debate halted early")
			collab.ExitReason = ExitError
			break
		}
		round.ConsensusReached = round.Spread <= 2*c.threshold
		collab.Rounds = append(collab.Rounds, round)
		if c.OnRound != nil {
			c.OnRound(round)
		}
		c.log.WithFields(logrus.Fields{
			"stage":     "debate",
			"round":     roundNumber,
			"spread":    round.Spread,
			"consensus": round.ConsensusReached,
		}).Info("round complete")

		prior = round.Positions
		if round.ConsensusReached {
			collab.FinalConsensus = true
			collab.ExitReason = ExitConsensus
			break
		}
	}

	collab.TotalRounds = len(collab.Rounds)
	collab.ConfidenceJourney = buildJourney(collab.Rounds)
	collab.KeyDisagreements = selectDisagreements(collab.Rounds)
	collab.Summary = summarize(collab)
	return collab
}

// buildJourney maps each specialist's first-round probability to its last
// completed round's probability.
func buildJourney(rounds []Round) []Journey {
	if len(rounds) == 0 {
		return nil
	}
	first, last := rounds[0], rounds[len(rounds)-1]
	finals := make(map[string]float64, len(last.Positions))
	for _, p := range last.Positions {
		finals[p.Specialist] = p.Probability
	}
	journeys := make([]Journey, 0, len(first.Positions))
	for _, p := range first.Positions {
		final := finals[p.Specialist]
		journeys = append(journeys, Journey{
			Specialist: p.Specialist,
			Initial:    p.Probability,
			Final:      final,
			Shift:      final - p.Probability,
		})
	}
	return journeys
}

var impactRank = map[string]int{ImpactHigh: 0, ImpactMedium: 1, ImpactLow: 2}

// selectDisagreements picks the top unresolved challenges, highest impact
// first, earliest round breaking ties.
func selectDisagreements(rounds []Round) []Record {
	var all []Record
	for _, r := range rounds {
		all = append(all, r.Debates...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := impactRank[all[i].Impact], impactRank[all[j].Impact]
		if ri != rj {
			return ri < rj
		}
		return all[i].Round < all[j].Round
	})
	if len(all) > maxKeyDisagreements {
		all = all[:maxKeyDisagreements]
	}
	return all
}

func summarize(c *Collaboration) string {
	switch c.ExitReason {
	case ExitConsensus:
		last := c.Rounds[len(c.Rounds)-1]
		return fmt.Sprintf("Consensus after %d round(s): spread narrowed to %.0f points (threshold %.0f).",
			c.TotalRounds, last.Spread, 2*c.ConsensusThreshold)
	case ExitError:
		return fmt.Sprintf("Debate halted by an engine failure after %d completed round(s); no consensus.", c.TotalRounds)
	default:
		spreadText := "no rounds completed"
		if c.TotalRounds > 0 {
			spreadText = fmt.Sprintf("final spread %.0f points", c.Rounds[c.TotalRounds-1].Spread)
		}
		return fmt.Sprintf("No consensus after the maximum %d round(s); %s.", c.MaxRoundsAllowed, spreadText)
	}
}
