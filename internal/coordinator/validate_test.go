package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/closurecast/closurecast/internal/decision"
)

func candidateFrom(t *testing.T, raw string) Candidate {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return Candidate{Object: obj, Raw: raw}
}

func TestValidateConformingPassesThroughUnchanged(t *testing.T) {
	llm := &coordLLM{finals: []string{validDecisionJSON}}
	coord := New(llm, nil, "coord-model", nil)
	v := NewValidator(coord, nil)

	got, err := v.Validate(context.Background(), consultContext(), nil, candidateFrom(t, validDecisionJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var want decision.FinalDecision
	if err := json.Unmarshal([]byte(validDecisionJSON), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decision changed through validation:\ngot  %+v\nwant %+v", got, want)
	}
	if llm.coordCalls != 0 {
		t.Errorf("coordinator calls = %d, want 0 for a conforming candidate", llm.coordCalls)
	}
}

func TestValidateSchemaConfusionRetriesOnceThenSucceeds(t *testing.T) {
	// Candidate echoes the meteorology schema; retry returns a proper decision.
	llm := &coordLLM{finals: []string{validDecisionJSON}}
	coord := New(llm, nil, "coord-model", nil)
	v := NewValidator(coord, nil)

	confused := candidateFrom(t, `{
		"temperature_analysis": {"high_f": 28},
		"precipitation_analysis": {"snow_probability_pct": 85},
		"summary": "looks like a specialist answer"
	}`)

	got, err := v.Validate(context.Background(), consultContext(), nil, confused)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Probability != 72 {
		t.Errorf("probability = %g, want 72 from the retried decision", got.Probability)
	}
	if llm.coordCalls != 1 {
		t.Errorf("coordinator calls = %d, want exactly 1 corrective retry", llm.coordCalls)
	}
}

func TestValidateSchemaConfusionRetryFailureIsFatal(t *testing.T) {
	// The retry also returns a specialist-shaped payload.
	llm := &coordLLM{finals: []string{`{"temperature_analysis": {"high_f": 28}}`}}
	coord := New(llm, nil, "coord-model", nil)
	v := NewValidator(coord, nil)

	confused := candidateFrom(t, `{"temperature_analysis": {"high_f": 28}}`)
	_, err := v.Validate(context.Background(), consultContext(), nil, confused)
	var cv *ContractViolationError
	if !errors.As(err, &cv) {
		t.Fatalf("expected *ContractViolationError, got %v", err)
	}
	if llm.coordCalls != 1 {
		t.Errorf("coordinator calls = %d, want exactly 1 retry before failing", llm.coordCalls)
	}
}

func TestValidateBestEffortDefaults(t *testing.T) {
	llm := &coordLLM{finals: []string{validDecisionJSON}}
	coord := New(llm, nil, "coord-model", nil)
	v := NewValidator(coord, nil)

	// Wrong shape, but not specialist-shaped: keep the usable fields.
	partial := candidateFrom(t, `{
		"probability": 55,
		"primary_factors": ["snow totals uncertain"],
		"confidence_level": "certainly"
	}`)

	got, err := v.Validate(context.Background(), consultContext(), nil, partial)
	if err != nil {
		t.Fatalf("best-effort path must not fail: %v", err)
	}
	if got.Probability != 55 {
		t.Errorf("probability = %g, want preserved 55", got.Probability)
	}
	if got.ConfidenceLevel != decision.ConfidenceLow {
		t.Errorf("confidence = %q, want default low for invalid level", got.ConfidenceLevel)
	}
	if !got.UpdatesNeeded {
		t.Error("updates_needed must be set whenever defaulting occurs")
	}
	if got.Rationale == "" {
		t.Error("expected a rationale explaining the fallback")
	}
	if len(got.PrimaryFactors) != 1 || got.PrimaryFactors[0] != "snow totals uncertain" {
		t.Errorf("primary factors = %v", got.PrimaryFactors)
	}
	if llm.coordCalls != 0 {
		t.Errorf("coordinator calls = %d, want 0 on the defaulting path", llm.coordCalls)
	}
}

func TestValidateBestEffortEmptyCandidate(t *testing.T) {
	llm := &coordLLM{finals: []string{validDecisionJSON}}
	coord := New(llm, nil, "coord-model", nil)
	v := NewValidator(coord, nil)

	got, err := v.Validate(context.Background(), consultContext(), nil, Candidate{Object: map[string]any{}, Raw: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Probability != 0 {
		t.Errorf("probability = %g, want default 0", got.Probability)
	}
	if !got.UpdatesNeeded {
		t.Error("updates_needed must be set")
	}
}

func TestLooksLikeSpecialistSchema(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`{"temperature_analysis": {}}`, true},
		{`{"precipitation_analysis": {}}`, true},
		{`{"probability": 50}`, false},
		{`{"sentiment": "neutral"}`, false},
	}
	for _, tc := range cases {
		var obj map[string]any
		if err := json.Unmarshal([]byte(tc.raw), &obj); err != nil {
			t.Fatal(err)
		}
		if got := looksLikeSpecialistSchema(obj); got != tc.want {
			t.Errorf("looksLikeSpecialistSchema(%s) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
