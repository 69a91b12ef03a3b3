package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/closurecast/closurecast/internal/debate"
	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/output"
	"github.com/closurecast/closurecast/internal/pipeline"
	"github.com/closurecast/closurecast/internal/specialist"
	"github.com/closurecast/closurecast/internal/weather"
)

const meteorologyJSON = `{
	"temperature_analysis": {"high_f": 28, "low_f": 12, "morning_feels_like_f": 5, "overnight_low_f": 10, "wind_chill_f": 2, "extreme_cold": false},
	"precipitation_analysis": {"snow_probability_pct": 85, "expected_snowfall_in": 6.5, "timing": "overnight into morning", "precip_type": "snow"},
	"wind_analysis": {"sustained_mph": 15, "gust_mph": 30, "blowing_snow_risk": "moderate"},
	"visibility_analysis": {"miles": 0.5, "concern": "heavy snow bands"},
	"alerts": ["Winter Storm Warning"],
	"summary": "Significant snow event through the morning commute."
}`

const historyJSON = `{
	"similar_day_count": 12,
	"closure_rate_pct": 75,
	"precedents": ["closed on comparable 6-inch event last winter"],
	"district_tendency": "cautious",
	"summary": "District closes on most comparable days."
}`

const safetyJSON = `{
	"road_risk": "high",
	"bus_risk": "high",
	"walk_risk": "extreme",
	"overall_risk": "high",
	"concerns": ["untreated side streets"],
	"summary": "Morning travel hazardous."
}`

const newsJSON = `{
	"sentiment": "leaning_closure",
	"neighboring_closures": 3,
	"reports": ["two neighboring districts announced closures"],
	"summary": "Community expects a closure."
}`

const decisionJSON = `{
	"probability": 72,
	"confidence_level": "high",
	"primary_factors": ["6+ inches of snow through the morning commute"],
	"timeline": {"start": "9pm", "peak": "5am", "improve": "noon"},
	"rationale": "Heavy snow, hazardous roads, and strong historical precedent.",
	"alternative_scenarios": [{"scenario": "two-hour delay instead of closure", "probability": 20, "impact": "reduced instruction time"}],
	"recommendations": {"for_district": ["decide by 5:30am"], "for_families": ["plan for childcare"], "for_authorities": ["pretreat bus routes"]},
	"updates_needed": false,
	"next_evaluation_time": "5am"
}`

func positionJSON(probability float64) string {
	return fmt.Sprintf(`{"probability": %g, "confidence": 80, "rationale": "converging estimate", "key_factors": ["snow totals"]}`, probability)
}

// mockOpenRouter answers every chat completion by routing on the system
// prompt, the same way the real panel of models would see it.
func mockOpenRouter(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key-123" {
			t.Errorf("bad auth header: %s", auth)
		}

		var req openrouter.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		system := req.Messages[0].Content

		var content string
		switch {
		case strings.Contains(system, "in a panel"):
			switch {
			case strings.Contains(system, "the meteorology specialist"):
				content = positionJSON(75)
			case strings.Contains(system, "the history specialist"):
				content = positionJSON(70)
			case strings.Contains(system, "the safety specialist"):
				content = positionJSON(72)
			default:
				content = positionJSON(68)
			}
		case strings.Contains(system, "follow-up"), strings.Contains(system, "cross-checking"):
			content = "The morning window stays below 10F with steady snow."
		case strings.Contains(system, "meteorologist"):
			content = meteorologyJSON
		case strings.Contains(system, "historian"):
			content = historyJSON
		case strings.Contains(system, "safety analyst"):
			content = safetyJSON
		case strings.Contains(system, "news analyst"):
			content = newsJSON
		case strings.Contains(system, "decision coordinator"):
			content = decisionJSON
		default:
			t.Errorf("unrecognized system prompt: %.80s", system)
			content = "{}"
		}

		resp := openrouter.ChatResponse{
			Choices: []openrouter.Choice{{Message: openrouter.Message{Role: "assistant", Content: content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testOptions() pipeline.Options {
	return pipeline.Options{
		MaxRounds:          5,
		ConsensusThreshold: 10,
		DebateEnabled:      true,
		SpecialistModels: map[specialist.Role]string{
			specialist.Meteorology: "model-a",
			specialist.History:     "model-b",
			specialist.Safety:      "model-c",
			specialist.News:        "model-d",
		},
		CoordinatorModel: "model-e",
	}
}

func testForecast() *forecast.Context {
	return forecast.NewContext("2026-01-15", "Rochester, NY", "Rochester City SD", &weather.Payload{
		Daily: weather.Daily{HighF: 28, LowF: 12, OvernightLowF: 10, TotalSnowfallIn: 6.5},
	})
}

func TestE2EFullRunWithMockServer(t *testing.T) {
	server := mockOpenRouter(t)
	defer server.Close()

	client := openrouter.NewClientWithBaseURL("test-key-123", server.URL)
	p := pipeline.New(client, testOptions(), nil)

	var observed []debate.Round
	p.OnRound = func(r debate.Round) { observed = append(observed, r) }

	result, err := p.Run(context.Background(), testForecast())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Decision.Probability != 72 {
		t.Errorf("probability = %g, want 72", result.Decision.Probability)
	}
	if result.Decision.ConfidenceLevel != "high" {
		t.Errorf("confidence = %q, want high", result.Decision.ConfidenceLevel)
	}

	if result.Analyses == nil || result.Analyses.Meteorology.Precipitation.SnowProbabilityPct != 85 {
		t.Error("specialist analyses not carried into the result")
	}

	c := result.Collaboration
	if c == nil {
		t.Fatal("expected a collaboration record when debate is enabled")
	}
	if c.TotalRounds != 1 {
		t.Errorf("rounds = %d, want 1 (positions within threshold)", c.TotalRounds)
	}
	if c.ExitReason != debate.ExitConsensus {
		t.Errorf("exit reason = %q, want %q", c.ExitReason, debate.ExitConsensus)
	}
	if c.Rounds[0].Spread != 7 {
		t.Errorf("spread = %g, want 7", c.Rounds[0].Spread)
	}
	for _, pos := range c.Rounds[0].Positions {
		if pos.Fallback {
			t.Errorf("position for %s fell back to the deterministic estimate", pos.Specialist)
		}
	}
	if len(observed) != 1 {
		t.Errorf("OnRound observed %d rounds, want 1", len(observed))
	}

	// Persist the run the way the CLI does and check the artifacts.
	dir := t.TempDir()
	w := output.NewWriter(dir)
	w.Log("run complete")
	if err := w.WriteResult(result); err != nil {
		t.Fatalf("WriteResult() error = %v", err)
	}
	if err := w.WriteLog(); err != nil {
		t.Fatalf("WriteLog() error = %v", err)
	}
	for _, name := range []string{"decision.json", "collaboration.json", "run.json", "forecast.md", "run.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestE2EDebateDisabled(t *testing.T) {
	server := mockOpenRouter(t)
	defer server.Close()

	client := openrouter.NewClientWithBaseURL("test-key-123", server.URL)
	opts := testOptions()
	opts.DebateEnabled = false
	p := pipeline.New(client, opts, nil)

	result, err := p.Run(context.Background(), testForecast())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Collaboration != nil {
		t.Error("collaboration record must be absent when debate is disabled")
	}
	if result.Decision.Probability != 72 {
		t.Errorf("probability = %g, want 72", result.Decision.Probability)
	}
}

func TestE2ESpecialistFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model offline"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := openrouter.NewClientWithBaseURL("test-key-123", server.URL)
	p := pipeline.New(client, testOptions(), nil)

	if _, err := p.Run(context.Background(), testForecast()); err == nil {
		t.Fatal("expected the run to abort when a specialist analysis fails")
	}
}
