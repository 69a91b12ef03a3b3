package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/closurecast/closurecast/internal/contract"
	"github.com/closurecast/closurecast/internal/debate"
	"github.com/closurecast/closurecast/internal/decision"
)

// ContractViolationError reports a coordinator output that still broke the
// decision contract after the one corrective retry. Unrecoverable; the
// caller must re-run.
type ContractViolationError struct {
	Mismatches []contract.Mismatch
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("coordinator: decision contract violated after retry: %v", e.Mismatches)
}

// Fields unique to the meteorology contract. Their presence in a decision
// candidate means the coordinator echoed a specialist schema. This is a
// documented heuristic, not a guaranteed classifier.
var meteorologyMarkers = []string{"temperature_analysis", "precipitation_analysis"}

// Validator turns a raw coordinator candidate into a FinalDecision:
// conforming candidates pass through unchanged, schema confusion earns one
// corrective retry, and anything else degrades to best-effort defaults.
type Validator struct {
	coord *Coordinator
	log   *logrus.Logger
}

// NewValidator creates a Validator that retries through coord.
func NewValidator(coord *Coordinator, log *logrus.Logger) *Validator {
	if log == nil {
		log = logrus.New()
	}
	return &Validator{coord: coord, log: log}
}

// Validate resolves a candidate to a decision. Only the schema-confusion
// path can fail, with *ContractViolationError; every other invalid candidate
// degrades gracefully.
func (v *Validator) Validate(ctx context.Context, cctx ConsultationContext, collab *debate.Collaboration, cand Candidate) (decision.FinalDecision, error) {
	mismatches := decision.Contract.Validate(cand.Object)
	if len(mismatches) == 0 {
		return decode(cand)
	}

	if looksLikeSpecialistSchema(cand.Object) {
		v.log.WithField("stage", "validation").Warn("coordinator echoed a specialist schema, issuing one corrective retry")
		retried, err := v.coord.Retry(ctx, cctx, collab)
		if err != nil {
			return decision.FinalDecision{}, err
		}
		retryMismatches := decision.Contract.Validate(retried.Object)
		if len(retryMismatches) == 0 {
			return decode(retried)
		}
		return decision.FinalDecision{}, &ContractViolationError{Mismatches: retryMismatches}
	}

	v.log.WithFields(logrus.Fields{
		"stage":      "validation",
		"mismatches": len(mismatches),
	}).Warn("coordinator output invalid, applying best-effort defaults")
	return bestEffort(cand.Object), nil
}

func looksLikeSpecialistSchema(obj map[string]any) bool {
	for _, marker := range meteorologyMarkers {
		if _, ok := obj[marker]; ok {
			return true
		}
	}
	return false
}

func decode(cand Candidate) (decision.FinalDecision, error) {
	var d decision.FinalDecision
	if err := json.Unmarshal([]byte(cand.Raw), &d); err != nil {
		return decision.FinalDecision{}, fmt.Errorf("coordinator: decoding validated decision: %w", err)
	}
	return d, nil
}

// bestEffort builds a decision from whatever valid fields the candidate has,
// substituting explicit defaults for the rest. updates_needed is forced on
// so a follow-up run gets scheduled.
func bestEffort(obj map[string]any) decision.FinalDecision {
	d := decision.FinalDecision{
		Probability:        getNumber(obj, "probability", 0),
		ConfidenceLevel:    decision.ConfidenceLow,
		PrimaryFactors:     getStringList(obj, "primary_factors"),
		Rationale:          getString(obj, "rationale", ""),
		UpdatesNeeded:      true,
		NextEvaluationTime: getString(obj, "next_evaluation_time", "as soon as possible"),
	}
	if d.Probability < 0 || d.Probability > 100 {
		d.Probability = 0
	}
	if lvl := getString(obj, "confidence_level", ""); isConfidence(lvl) {
		d.ConfidenceLevel = lvl
	}
	if tl, ok := obj["timeline"].(map[string]any); ok {
		d.Timeline = decision.Timeline{
			Start:   getString(tl, "start", ""),
			Peak:    getString(tl, "peak", ""),
			Improve: getString(tl, "improve", ""),
		}
	}
	if recs, ok := obj["recommendations"].(map[string]any); ok {
		d.Recommendations = decision.Recommendations{
			ForDistrict:    getStringList(recs, "for_district"),
			ForFamilies:    getStringList(recs, "for_families"),
			ForAuthorities: getStringList(recs, "for_authorities"),
		}
	}
	if d.Rationale == "" {
		d.Rationale = "Coordinator output did not satisfy the decision contract; this decision was assembled from the usable fields with defaults for the rest."
	} else {
		d.Rationale += " (Assembled with defaults: coordinator output did not fully satisfy the decision contract.)"
	}
	return d
}

func isConfidence(s string) bool {
	switch s {
	case decision.ConfidenceVeryLow, decision.ConfidenceLow, decision.ConfidenceModerate, decision.ConfidenceHigh, decision.ConfidenceVeryHigh:
		return true
	}
	return false
}

func getString(obj map[string]any, key, def string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return def
}

func getNumber(obj map[string]any, key string, def float64) float64 {
	if n, ok := obj[key].(float64); ok {
		return n
	}
	return def
}

func getStringList(obj map[string]any, key string) []string {
	items, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
