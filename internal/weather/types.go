// Package weather fetches and models the observational forecast payload the
// pipeline analyzes. The pipeline treats the payload as read-only input.
package weather

import "time"

// Hour is a single hourly forecast point. Temperatures are Fahrenheit,
// snowfall is inches, wind is mph, visibility is miles.
type Hour struct {
	Time            time.Time `json:"time"`
	TempF           float64   `json:"temp_f"`
	FeelsLikeF      float64   `json:"feels_like_f"`
	WindChillF      float64   `json:"wind_chill_f"`
	SnowfallIn      float64   `json:"snowfall_in"`
	PrecipChancePct float64   `json:"precip_chance_pct"`
	WindMPH         float64   `json:"wind_mph"`
	GustMPH         float64   `json:"gust_mph"`
	VisibilityMi    float64   `json:"visibility_mi"`
	Condition       string    `json:"condition"`
}

// Daily summarizes the target date.
type Daily struct {
	HighF           float64 `json:"high_f"`
	LowF            float64 `json:"low_f"`
	OvernightLowF   float64 `json:"overnight_low_f"`
	TotalSnowfallIn float64 `json:"total_snowfall_in"`
	MaxWindMPH      float64 `json:"max_wind_mph"`
	Condition       string  `json:"condition"`
}

// Alert is an active weather advisory for the location.
type Alert struct {
	Event       string    `json:"event"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Expires     time.Time `json:"expires"`
}

// Payload is the full provider response for one location and target date.
type Payload struct {
	Location   string    `json:"location"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	TargetDate string    `json:"target_date"`
	FetchedAt  time.Time `json:"fetched_at"`
	Daily      Daily     `json:"daily"`
	Hourly     []Hour    `json:"hourly"`
	Alerts     []Alert   `json:"alerts"`
}

// MorningHours returns the hours in the school-decision window, 5am-9am local.
func (p *Payload) MorningHours() []Hour {
	var out []Hour
	for _, h := range p.Hourly {
		hr := h.Time.Hour()
		if hr >= 5 && hr <= 9 {
			out = append(out, h)
		}
	}
	return out
}
