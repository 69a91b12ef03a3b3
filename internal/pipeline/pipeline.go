// Package pipeline runs one full forecast: specialist analysis, optional
// debate, coordination, validation, and the deterministic cold-floor
// override.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/closurecast/closurecast/internal/coordinator"
	"github.com/closurecast/closurecast/internal/debate"
	"github.com/closurecast/closurecast/internal/decision"
	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/specialist"
)

// Options configures one run.
type Options struct {
	MaxRounds          int
	ConsensusThreshold float64
	DebateEnabled      bool
	SpecialistModels   map[specialist.Role]string
	CoordinatorModel   string
}

// Result is the run's externally visible product, handed to the caller for
// persistence. Nothing is written on a fatal failure.
type Result struct {
	RunID         uuid.UUID              `json:"run_id"`
	StartedAt     time.Time              `json:"started_at"`
	FinishedAt    time.Time              `json:"finished_at"`
	Decision      decision.FinalDecision `json:"decision"`
	Collaboration *debate.Collaboration  `json:"collaboration,omitempty"`
	Analyses      *specialist.Set        `json:"analyses"`
}

// Pipeline wires the stages over one generation service.
type Pipeline struct {
	llm  specialist.Generator
	opts Options
	log  *logrus.Logger

	// OnRound, when set, observes each completed debate round.
	OnRound func(debate.Round)
}

// New creates a Pipeline.
func New(llm specialist.Generator, opts Options, log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{llm: llm, opts: opts, log: log}
}

// Run executes the strictly ordered stages for one context. A specialist
// failure during analysis aborts the whole run; debate failures degrade; a
// confirmed contract violation after the corrective retry is fatal.
func (p *Pipeline) Run(ctx context.Context, fctx *forecast.Context) (*Result, error) {
	runID := uuid.New()
	log := p.log.WithField("run_id", runID)
	started := time.Now()

	inv := specialist.NewInvoker(p.llm)

	log.WithField("stage", "analysis").Info("running specialist analyses")
	stage := specialist.NewStage(inv, p.opts.SpecialistModels, p.log)
	analyses, err := stage.Analyze(ctx, fctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: analysis stage: %w", err)
	}

	var collab *debate.Collaboration
	if p.opts.DebateEnabled {
		log.WithField("stage", "debate").Info("running collaborative debate")
		engine := debate.NewRoundEngine(inv, p.opts.SpecialistModels, p.log)
		controller := debate.NewController(engine, p.opts.MaxRounds, p.opts.ConsensusThreshold, p.log)
		controller.OnRound = p.OnRound
		collab = controller.Run(ctx, fctx, analyses)
		log.WithFields(logrus.Fields{
			"stage":       "debate",
			"rounds":      collab.TotalRounds,
			"exit_reason": collab.ExitReason,
		}).Info("debate finished")
	}

	log.WithField("stage", "coordination").Info("synthesizing final decision")
	cctx := coordinator.ConsultationContext{
		Forecast: fctx,
		Analyses: analyses,
		Models:   p.opts.SpecialistModels,
	}
	coord := coordinator.New(p.llm, inv, p.opts.CoordinatorModel, p.log)
	candidate, err := coord.Synthesize(ctx, cctx, collab)
	if err != nil {
		return nil, fmt.Errorf("pipeline: coordination stage: %w", err)
	}

	validator := coordinator.NewValidator(coord, p.log)
	dec, err := validator.Validate(ctx, cctx, collab, candidate)
	if err != nil {
		return nil, fmt.Errorf("pipeline: validation stage: %w", err)
	}

	dec = decision.ApplyColdFloor(dec, analyses.Meteorology)

	log.WithFields(logrus.Fields{
		"stage":       "complete",
		"probability": dec.Probability,
		"confidence":  dec.ConfidenceLevel,
	}).Info("run complete")

	return &Result{
		RunID:         runID,
		StartedAt:     started,
		FinishedAt:    time.Now(),
		Decision:      dec,
		Collaboration: collab,
		Analyses:      analyses,
	}, nil
}
