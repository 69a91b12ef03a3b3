// Package decision defines the final forecast decision, its output
// contract, and the deterministic cold-weather override.
package decision

import "github.com/closurecast/closurecast/internal/contract"

// Confidence levels for the final decision.
const (
	ConfidenceVeryLow  = "very_low"
	ConfidenceLow      = "low"
	ConfidenceModerate = "moderate"
	ConfidenceHigh     = "high"
	ConfidenceVeryHigh = "very_high"
)

var confidenceEnum = []string{ConfidenceVeryLow, ConfidenceLow, ConfidenceModerate, ConfidenceHigh, ConfidenceVeryHigh}

// Timeline marks when conditions begin, peak, and improve.
type Timeline struct {
	Start   string `json:"start"`
	Peak    string `json:"peak"`
	Improve string `json:"improve"`
}

// Scenario is one alternative outcome the coordinator considered.
type Scenario struct {
	Scenario    string  `json:"scenario"`
	Probability float64 `json:"probability"`
	Impact      string  `json:"impact"`
}

// Recommendations groups advice by audience.
type Recommendations struct {
	ForDistrict    []string `json:"for_district"`
	ForFamilies    []string `json:"for_families"`
	ForAuthorities []string `json:"for_authorities"`
}

// FinalDecision is the coordinator's synthesized forecast. Exactly one per
// run reaches the ledger.
type FinalDecision struct {
	Probability          float64         `json:"probability"`
	ConfidenceLevel      string          `json:"confidence_level"`
	PrimaryFactors       []string        `json:"primary_factors"`
	Timeline             Timeline        `json:"timeline"`
	Rationale            string          `json:"rationale"`
	AlternativeScenarios []Scenario      `json:"alternative_scenarios"`
	Recommendations      Recommendations `json:"recommendations"`
	UpdatesNeeded        bool            `json:"updates_needed"`
	NextEvaluationTime   string          `json:"next_evaluation_time"`
}

// Contract constrains the coordinator's final output.
var Contract = contract.Contract{
	Name: "final_decision",
	Fields: []contract.Field{
		{Name: "probability", Kind: contract.Number, Min: 0, Max: 100},
		{Name: "confidence_level", Kind: contract.String, Enum: confidenceEnum},
		{Name: "primary_factors", Kind: contract.StringList},
		{Name: "timeline", Kind: contract.Object, Fields: []contract.Field{
			{Name: "start", Kind: contract.String},
			{Name: "peak", Kind: contract.String},
			{Name: "improve", Kind: contract.String},
		}},
		{Name: "rationale", Kind: contract.String},
		{Name: "alternative_scenarios", Kind: contract.ObjectList, Fields: []contract.Field{
			{Name: "scenario", Kind: contract.String},
			{Name: "probability", Kind: contract.Number, Min: 0, Max: 100},
			{Name: "impact", Kind: contract.String},
		}},
		{Name: "recommendations", Kind: contract.Object, Fields: []contract.Field{
			{Name: "for_district", Kind: contract.StringList},
			{Name: "for_families", Kind: contract.StringList},
			{Name: "for_authorities", Kind: contract.StringList},
		}},
		{Name: "updates_needed", Kind: contract.Bool},
		{Name: "next_evaluation_time", Kind: contract.String},
	},
}

// Schema is the JSON shape reminder embedded in coordinator prompts.
const Schema = `{"probability": 0-100, "confidence_level": "very_low|low|moderate|high|very_high",
"primary_factors": ["..."], "timeline": {"start": "...", "peak": "...", "improve": "..."},
"rationale": "...", "alternative_scenarios": [{"scenario": "...", "probability": 0-100, "impact": "..."}],
"recommendations": {"for_district": ["..."], "for_families": ["..."], "for_authorities": ["..."]},
"updates_needed": bool, "next_evaluation_time": "..."}`
