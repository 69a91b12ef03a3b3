package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const forecastJSON = `{
	"hourly": {
		"time": ["2026-01-15T05:00", "2026-01-15T07:00", "2026-01-15T12:00"],
		"temperature_2m": [10, 12, 20],
		"apparent_temperature": [-2, 1, 12],
		"snowfall": [0.4, 0.6, 0.1],
		"precipitation_probability": [90, 95, 40],
		"wind_speed_10m": [15, 18, 10],
		"wind_gusts_10m": [28, 32, 20],
		"visibility": [2640, 1320, 26400],
		"weather_code": [73, 75, 3]
	},
	"daily": {
		"time": ["2026-01-15"],
		"temperature_2m_max": [22],
		"temperature_2m_min": [8],
		"snowfall_sum": [6.5],
		"wind_speed_10m_max": [18]
	}
}`

func TestFetchBuildsPayload(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastJSON))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	p, err := c.Fetch(context.Background(), "Rochester, NY", 43.16, -77.61, "2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery["temperature_unit"]; len(got) != 1 || got[0] != "fahrenheit" {
		t.Errorf("temperature_unit = %v, want fahrenheit", got)
	}
	if got := gotQuery["start_date"]; len(got) != 1 || got[0] != "2026-01-15" {
		t.Errorf("start_date = %v", got)
	}

	if p.Location != "Rochester, NY" || p.TargetDate != "2026-01-15" {
		t.Errorf("payload identity = %q %q", p.Location, p.TargetDate)
	}
	if p.Daily.HighF != 22 || p.Daily.TotalSnowfallIn != 6.5 {
		t.Errorf("daily = %+v", p.Daily)
	}
	if len(p.Hourly) != 3 {
		t.Fatalf("hourly points = %d, want 3", len(p.Hourly))
	}

	h := p.Hourly[0]
	if h.FeelsLikeF != -2 || h.WindChillF != -2 {
		t.Errorf("wind chill must mirror apparent temperature, got feels %g chill %g", h.FeelsLikeF, h.WindChillF)
	}
	if h.VisibilityMi != 0.5 {
		t.Errorf("visibility = %g mi, want 0.5 (2640 ft)", h.VisibilityMi)
	}
	if h.Condition != "snow" {
		t.Errorf("condition = %q, want snow for code 73", h.Condition)
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	if _, err := c.Fetch(context.Background(), "X", 0, 0, "2026-01-15"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestMorningHours(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastJSON))
	}))
	defer server.Close()

	c := NewClientWithBaseURL(server.URL)
	p, err := c.Fetch(context.Background(), "X", 0, 0, "2026-01-15")
	if err != nil {
		t.Fatal(err)
	}

	morning := p.MorningHours()
	if len(morning) != 2 {
		t.Fatalf("morning hours = %d, want 2 (5am and 7am, not noon)", len(morning))
	}
	if morning[1].Time.Hour() != 7 {
		t.Errorf("second morning hour = %d, want 7", morning[1].Time.Hour())
	}
}
