// Package forecast builds the immutable analysis context shared by every
// specialist and coordinator call in a run.
package forecast

import (
	"fmt"
	"strings"

	"github.com/closurecast/closurecast/internal/weather"
)

// Context is the read-only input bundle for one run. Built once, then shared
// by value with every stage.
type Context struct {
	TargetDate string
	Location   string
	District   string
	Payload    *weather.Payload
	Rendered   string
}

// NewContext assembles a Context, rendering the payload into the shared
// natural-language block every specialist prompt embeds.
func NewContext(targetDate, location, district string, payload *weather.Payload) *Context {
	return &Context{
		TargetDate: targetDate,
		Location:   location,
		District:   district,
		Payload:    payload,
		Rendered:   render(targetDate, location, district, payload),
	}
}

func render(targetDate, location, district string, p *weather.Payload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target date: %s\n", targetDate)
	fmt.Fprintf(&sb, "Location: %s\n", location)
	if district != "" {
		fmt.Fprintf(&sb, "School district: %s\n", district)
	}
	if p == nil {
		sb.WriteString("No forecast payload available.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nDaily outlook: high %.0fF, low %.0fF, overnight low %.0fF, total snowfall %.1f in, max wind %.0f mph",
		p.Daily.HighF, p.Daily.LowF, p.Daily.OvernightLowF, p.Daily.TotalSnowfallIn, p.Daily.MaxWindMPH)
	if p.Daily.Condition != "" {
		fmt.Fprintf(&sb, ", conditions: %s", p.Daily.Condition)
	}
	sb.WriteString("\n")

	if morning := p.MorningHours(); len(morning) > 0 {
		sb.WriteString("\nMorning decision window (5am-9am):\n")
		for _, h := range morning {
			fmt.Fprintf(&sb, "  %s: %.0fF (feels like %.0fF), snow %.2f in/hr, precip %.0f%%, wind %.0f mph gusting %.0f, visibility %.1f mi, %s\n",
				h.Time.Format("15:04"), h.TempF, h.FeelsLikeF, h.SnowfallIn, h.PrecipChancePct, h.WindMPH, h.GustMPH, h.VisibilityMi, h.Condition)
		}
	}

	if len(p.Alerts) > 0 {
		sb.WriteString("\nActive alerts:\n")
		for _, a := range p.Alerts {
			fmt.Fprintf(&sb, "  [%s] %s: %s\n", a.Severity, a.Event, a.Description)
		}
	}

	return sb.String()
}
