package specialist

import "fmt"

const meteorologySchema = `{"temperature_analysis": {"high_f": number, "low_f": number, "morning_feels_like_f": number, "overnight_low_f": number, "wind_chill_f": number, "extreme_cold": bool},
"precipitation_analysis": {"snow_probability_pct": 0-100, "expected_snowfall_in": number, "timing": "...", "precip_type": "..."},
"wind_analysis": {"sustained_mph": number, "gust_mph": number, "blowing_snow_risk": "..."},
"visibility_analysis": {"miles": number, "concern": "..."},
"alerts": ["..."], "summary": "..."}`

const historySchema = `{"similar_day_count": number, "closure_rate_pct": 0-100, "precedents": ["..."], "district_tendency": "...", "summary": "..."}`

const safetySchema = `{"road_risk": "low|moderate|high|extreme", "bus_risk": "low|moderate|high|extreme", "walk_risk": "low|moderate|high|extreme", "overall_risk": "low|moderate|high|extreme", "concerns": ["..."], "summary": "..."}`

const newsSchema = `{"sentiment": "strongly_closure|leaning_closure|neutral|leaning_open|strongly_open", "neighboring_closures": number, "reports": ["..."], "summary": "..."}`

const jsonOnly = "Return ONLY valid JSON in this exact format:\n%s\nDo NOT include any other text, explanation, or markdown formatting."

// SystemPrompt returns the role prompt for one specialist's analysis call.
func SystemPrompt(role Role) string {
	switch role {
	case Meteorology:
		return fmt.Sprintf("You are a meteorologist analyzing whether weather conditions justify a school closure. "+
			"Study the forecast carefully: temperatures, wind chill, snowfall amounts and timing, wind, and visibility. "+
			jsonOnly, meteorologySchema)
	case History:
		return fmt.Sprintf("You are a school-district historian. Assess how often this district has closed on days with "+
			"comparable forecasts, and whether its decision-making leans cautious or reluctant. "+
			jsonOnly, historySchema)
	case Safety:
		return fmt.Sprintf("You are a transportation safety analyst. Assess road conditions, bus operability, and walking "+
			"conditions for students during the morning decision window. "+
			jsonOnly, safetySchema)
	case News:
		return fmt.Sprintf("You are a local news analyst. Using only public reporting, gauge community sentiment about a "+
			"closure and count neighboring districts that have already announced closures or delays. "+
			jsonOnly, newsSchema)
	}
	return ""
}

// ConsultPrompt returns the system prompt for an on-demand consultation
// call. Consultations answer in prose, not JSON.
func ConsultPrompt(role Role) string {
	return fmt.Sprintf("You are the %s specialist for a school-closure forecast. The decision coordinator has a follow-up "+
		"question about your earlier analysis. Answer directly and concisely in plain text.", role)
}

// CrossCheckPrompt returns the system prompt for a cross-check consultation,
// where one specialist critiques its position against named peers.
func CrossCheckPrompt(role Role) string {
	return fmt.Sprintf("You are the %s specialist for a school-closure forecast. The coordinator is cross-checking your "+
		"analysis against other specialists' findings, attached below. Point out agreements, contradictions, and anything "+
		"you would revise. Answer in plain text.", role)
}
