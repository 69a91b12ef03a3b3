package specialist

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/closurecast/closurecast/internal/forecast"
)

// Stage runs the four specialist analyses concurrently over one context.
type Stage struct {
	inv    *Invoker
	models map[Role]string
	log    *logrus.Logger
}

// NewStage creates a Stage. models maps each role to the model it runs on.
func NewStage(inv *Invoker, models map[Role]string, log *logrus.Logger) *Stage {
	if log == nil {
		log = logrus.New()
	}
	return &Stage{inv: inv, models: models, log: log}
}

// Analyze fans out all four specialists against the same context and joins
// on completion. Any single failure cancels the rest and fails the stage;
// a partial set is never returned.
func (s *Stage) Analyze(ctx context.Context, fctx *forecast.Context) (*Set, error) {
	set := &Set{}
	userPrompt := fmt.Sprintf("Analyze the following forecast and produce your structured assessment.\n\n%s", fctx.Rendered)

	g, gctx := errgroup.WithContext(ctx)
	for _, role := range Roles {
		role := role
		g.Go(func() error {
			s.log.WithFields(logrus.Fields{"stage": "analysis", "specialist": role}).Debug("invoking specialist")
			req := Request{
				Role:     role,
				Model:    s.models[role],
				System:   SystemPrompt(role),
				User:     userPrompt,
				Contract: ContractFor(role),
			}
			var err error
			switch role {
			case Meteorology:
				err = s.inv.Invoke(gctx, req, &set.Meteorology)
			case History:
				err = s.inv.Invoke(gctx, req, &set.History)
			case Safety:
				err = s.inv.Invoke(gctx, req, &set.Safety)
			case News:
				err = s.inv.Invoke(gctx, req, &set.News)
			}
			if err != nil {
				s.log.WithFields(logrus.Fields{"stage": "analysis", "specialist": role}).WithError(err).Error("specialist failed")
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
