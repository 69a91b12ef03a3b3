package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches forecast payloads from an Open-Meteo-compatible endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client against the public Open-Meteo API.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.open-meteo.com/v1",
	}
}

// NewClientWithBaseURL creates a Client with a custom base URL (for testing).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

type forecastResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		ApparentTemp  []float64 `json:"apparent_temperature"`
		Snowfall      []float64 `json:"snowfall"`
		PrecipChance  []float64 `json:"precipitation_probability"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		WindGusts     []float64 `json:"wind_gusts_10m"`
		Visibility    []float64 `json:"visibility"`
		WeatherCode   []int     `json:"weather_code"`
	} `json:"hourly"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		SnowfallSum []float64 `json:"snowfall_sum"`
		WindMax     []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Fetch retrieves the forecast for one location and target date.
func (c *Client) Fetch(ctx context.Context, location string, lat, lon float64, targetDate string) (*Payload, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("hourly", "temperature_2m,apparent_temperature,snowfall,precipitation_probability,wind_speed_10m,wind_gusts_10m,visibility,weather_code")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,snowfall_sum,wind_speed_10m_max")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")
	q.Set("timezone", "auto")
	q.Set("start_date", targetDate)
	q.Set("end_date", targetDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}

	return buildPayload(location, lat, lon, targetDate, &fr), nil
}

func buildPayload(location string, lat, lon float64, targetDate string, fr *forecastResponse) *Payload {
	p := &Payload{
		Location:   location,
		Latitude:   lat,
		Longitude:  lon,
		TargetDate: targetDate,
		FetchedAt:  time.Now(),
	}

	for i, ts := range fr.Hourly.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		h := Hour{Time: t}
		h.TempF = at(fr.Hourly.Temperature, i)
		h.FeelsLikeF = at(fr.Hourly.ApparentTemp, i)
		// Open-Meteo folds wind chill into apparent temperature.
		h.WindChillF = h.FeelsLikeF
		h.SnowfallIn = at(fr.Hourly.Snowfall, i)
		h.PrecipChancePct = at(fr.Hourly.PrecipChance, i)
		h.WindMPH = at(fr.Hourly.WindSpeed, i)
		h.GustMPH = at(fr.Hourly.WindGusts, i)
		if v := at(fr.Hourly.Visibility, i); v > 0 {
			h.VisibilityMi = v / 5280.0
		}
		if i < len(fr.Hourly.WeatherCode) {
			h.Condition = describeWeatherCode(fr.Hourly.WeatherCode[i])
		}
		p.Hourly = append(p.Hourly, h)
	}

	if len(fr.Daily.Time) > 0 {
		p.Daily = Daily{
			HighF:           at(fr.Daily.TempMax, 0),
			LowF:            at(fr.Daily.TempMin, 0),
			OvernightLowF:   at(fr.Daily.TempMin, 0),
			TotalSnowfallIn: at(fr.Daily.SnowfallSum, 0),
			MaxWindMPH:      at(fr.Daily.WindMax, 0),
		}
	}
	return p
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
