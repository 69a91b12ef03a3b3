package specialist

import "github.com/closurecast/closurecast/internal/contract"

var riskEnum = []string{RiskLow, RiskModerate, RiskHigh, RiskExtreme}

var sentimentEnum = []string{
	SentimentStronglyClosure,
	SentimentLeaningClosure,
	SentimentNeutral,
	SentimentLeaningOpen,
	SentimentStronglyOpen,
}

// MeteorologyContract constrains the meteorology specialist's output. The
// temperature_analysis and precipitation_analysis field names are unique to
// this contract; the validation layer relies on that to detect a coordinator
// that echoed a specialist schema.
var MeteorologyContract = contract.Contract{
	Name: "meteorology_analysis",
	Fields: []contract.Field{
		{Name: "temperature_analysis", Kind: contract.Object, Fields: []contract.Field{
			{Name: "high_f", Kind: contract.Number},
			{Name: "low_f", Kind: contract.Number},
			{Name: "morning_feels_like_f", Kind: contract.Number},
			{Name: "overnight_low_f", Kind: contract.Number},
			{Name: "wind_chill_f", Kind: contract.Number},
			{Name: "extreme_cold", Kind: contract.Bool},
		}},
		{Name: "precipitation_analysis", Kind: contract.Object, Fields: []contract.Field{
			{Name: "snow_probability_pct", Kind: contract.Number, Min: 0, Max: 100},
			{Name: "expected_snowfall_in", Kind: contract.Number},
			{Name: "timing", Kind: contract.String},
			{Name: "precip_type", Kind: contract.String},
		}},
		{Name: "wind_analysis", Kind: contract.Object, Fields: []contract.Field{
			{Name: "sustained_mph", Kind: contract.Number},
			{Name: "gust_mph", Kind: contract.Number},
			{Name: "blowing_snow_risk", Kind: contract.String},
		}},
		{Name: "visibility_analysis", Kind: contract.Object, Fields: []contract.Field{
			{Name: "miles", Kind: contract.Number},
			{Name: "concern", Kind: contract.String},
		}},
		{Name: "alerts", Kind: contract.StringList},
		{Name: "summary", Kind: contract.String},
	},
}

// HistoryContract constrains the history specialist's output.
var HistoryContract = contract.Contract{
	Name: "history_analysis",
	Fields: []contract.Field{
		{Name: "similar_day_count", Kind: contract.Number},
		{Name: "closure_rate_pct", Kind: contract.Number, Min: 0, Max: 100},
		{Name: "precedents", Kind: contract.StringList},
		{Name: "district_tendency", Kind: contract.String},
		{Name: "summary", Kind: contract.String},
	},
}

// SafetyContract constrains the safety specialist's output.
var SafetyContract = contract.Contract{
	Name: "safety_analysis",
	Fields: []contract.Field{
		{Name: "road_risk", Kind: contract.String, Enum: riskEnum},
		{Name: "bus_risk", Kind: contract.String, Enum: riskEnum},
		{Name: "walk_risk", Kind: contract.String, Enum: riskEnum},
		{Name: "overall_risk", Kind: contract.String, Enum: riskEnum},
		{Name: "concerns", Kind: contract.StringList},
		{Name: "summary", Kind: contract.String},
	},
}

// NewsContract constrains the news specialist's output.
var NewsContract = contract.Contract{
	Name: "news_analysis",
	Fields: []contract.Field{
		{Name: "sentiment", Kind: contract.String, Enum: sentimentEnum},
		{Name: "neighboring_closures", Kind: contract.Number, Min: 0, Max: 1000},
		{Name: "reports", Kind: contract.StringList},
		{Name: "summary", Kind: contract.String},
	},
}

// ContractFor returns the output contract for a role.
func ContractFor(role Role) contract.Contract {
	switch role {
	case Meteorology:
		return MeteorologyContract
	case History:
		return HistoryContract
	case Safety:
		return SafetyContract
	case News:
		return NewsContract
	}
	return contract.Contract{}
}
