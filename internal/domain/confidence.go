package domain

import "math"

const (
	signalBonus       = 0.05
	localePenalty     = 0.2
	unconfirmedCeil   = 0.5
	maxConfidenceCeil = 1.0
)

// Signals records which structured fields a provider result carried.
type Signals struct {
	Formatted bool
	Locality  bool
	City      bool
}

// ScoreConfidence combines a provider base confidence with structured-data
// bonuses and the locale penalty. The result is always within [0, 1].
func ScoreConfidence(base float64, s Signals, inTargetCountry bool) float64 {
	c := base
	for _, present := range []bool{s.Formatted, s.Locality, s.City} {
		if present {
			c += signalBonus
		}
	}
	c = math.Min(c, maxConfidenceCeil)

	if !inTargetCountry {
		c = math.Min(c-localePenalty, unconfirmedCeil)
	}
	return clamp01(c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	// Round away float noise such as 0.8999999999999999.
	return math.Round(v*1000) / 1000
}
