// Package specialist defines the four domain analysts, their output
// schemas, and the invoker that turns one generation call into one typed
// analysis.
package specialist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/closurecast/closurecast/internal/openrouter"
)

// Role identifies one of the four specialists.
type Role string

const (
	Meteorology Role = "meteorology"
	History     Role = "history"
	Safety      Role = "safety"
	News        Role = "news"
)

// Roles lists all specialists in canonical order.
var Roles = []Role{Meteorology, History, Safety, News}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case Meteorology, History, Safety, News:
		return Role(s), nil
	}
	return "", fmt.Errorf("specialist: unknown role %q", s)
}

// Generator is the outbound text-generation service. Satisfied by
// *openrouter.Client; mocked in tests.
type Generator interface {
	Complete(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error)
}

// TemperatureDetail is the temperature sub-object of a meteorology analysis.
type TemperatureDetail struct {
	HighF             float64 `json:"high_f"`
	LowF              float64 `json:"low_f"`
	MorningFeelsLikeF float64 `json:"morning_feels_like_f"`
	OvernightLowF     float64 `json:"overnight_low_f"`
	WindChillF        float64 `json:"wind_chill_f"`
	ExtremeCold       bool    `json:"extreme_cold"`
}

// PrecipitationDetail is the precipitation sub-object.
type PrecipitationDetail struct {
	SnowProbabilityPct float64 `json:"snow_probability_pct"`
	ExpectedSnowfallIn float64 `json:"expected_snowfall_in"`
	Timing             string  `json:"timing"`
	PrecipType         string  `json:"precip_type"`
}

// WindDetail is the wind sub-object.
type WindDetail struct {
	SustainedMPH    float64 `json:"sustained_mph"`
	GustMPH         float64 `json:"gust_mph"`
	BlowingSnowRisk string  `json:"blowing_snow_risk"`
}

// VisibilityDetail is the visibility sub-object.
type VisibilityDetail struct {
	Miles   float64 `json:"miles"`
	Concern string  `json:"concern"`
}

// MeteorologyAnalysis is the meteorology specialist's structured result.
type MeteorologyAnalysis struct {
	Temperature   TemperatureDetail   `json:"temperature_analysis"`
	Precipitation PrecipitationDetail `json:"precipitation_analysis"`
	Wind          WindDetail          `json:"wind_analysis"`
	Visibility    VisibilityDetail    `json:"visibility_analysis"`
	Alerts        []string            `json:"alerts"`
	Summary       string              `json:"summary"`
}

// HistoryAnalysis is the historical-precedent specialist's result.
type HistoryAnalysis struct {
	SimilarDayCount  int      `json:"similar_day_count"`
	ClosureRatePct   float64  `json:"closure_rate_pct"`
	Precedents       []string `json:"precedents"`
	DistrictTendency string   `json:"district_tendency"`
	Summary          string   `json:"summary"`
}

// SafetyAnalysis is the transportation-safety specialist's result.
type SafetyAnalysis struct {
	RoadRisk    string   `json:"road_risk"`
	BusRisk     string   `json:"bus_risk"`
	WalkRisk    string   `json:"walk_risk"`
	OverallRisk string   `json:"overall_risk"`
	Concerns    []string `json:"concerns"`
	Summary     string   `json:"summary"`
}

// NewsAnalysis is the local-news specialist's result.
type NewsAnalysis struct {
	Sentiment           string   `json:"sentiment"`
	NeighboringClosures int      `json:"neighboring_closures"`
	Reports             []string `json:"reports"`
	Summary             string   `json:"summary"`
}

// Risk levels used by the safety contract.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
	RiskExtreme  = "extreme"
)

// Sentiment values used by the news contract.
const (
	SentimentStronglyClosure = "strongly_closure"
	SentimentLeaningClosure  = "leaning_closure"
	SentimentNeutral         = "neutral"
	SentimentLeaningOpen     = "leaning_open"
	SentimentStronglyOpen    = "strongly_open"
)

// Set holds the four analyses of one run. Produced once by the analysis
// stage; read-only afterward.
type Set struct {
	Meteorology MeteorologyAnalysis
	History     HistoryAnalysis
	Safety      SafetyAnalysis
	News        NewsAnalysis
}

// ByRole returns the analysis for one role as a marshalable value.
func (s *Set) ByRole(role Role) any {
	switch role {
	case Meteorology:
		return s.Meteorology
	case History:
		return s.History
	case Safety:
		return s.Safety
	case News:
		return s.News
	}
	return nil
}

// RenderJSON renders one role's analysis as indented JSON for embedding in
// prompts.
func (s *Set) RenderJSON(role Role) string {
	b, err := json.MarshalIndent(s.ByRole(role), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// RenderAllJSON renders all four analyses as one labeled block.
func (s *Set) RenderAllJSON() string {
	out := ""
	for _, role := range Roles {
		out += fmt.Sprintf("=== %s analysis ===\n%s\n\n", role, s.RenderJSON(role))
	}
	return out
}
