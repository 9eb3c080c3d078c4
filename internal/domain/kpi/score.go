package kpi

import "math"

// Normalization anchors, in minutes. Detection beyond two hours or
// resolution beyond four hours scores zero on that axis.
const (
	mttdWorstMinutes = 120
	mttrWorstMinutes = 240
)

// Score computes the composite maturity score from the window's metrics.
// A window with no alerts has no score. A metric that is itself absent
// contributes a neutral 0.5 so a window with alerts but no resolutions
// yet is not unfairly penalized.
func Score(mttd, mttr, falseAlarmRate MetricValue, totalAlerts int) MetricValue {
	if totalAlerts == 0 {
		return NoValue()
	}

	normMTTD := 0.5
	if mttd.Found {
		normMTTD = clamp01(1 - mttd.Val/mttdWorstMinutes)
	}
	normMTTR := 0.5
	if mttr.Found {
		normMTTR = clamp01(1 - mttr.Val/mttrWorstMinutes)
	}
	normFAR := 0.5
	if falseAlarmRate.Found {
		normFAR = clamp01(1 - falseAlarmRate.Val)
	}
	normVolume := clamp01(math.Log10(float64(totalAlerts)+1) / 2)

	score := math.Round(30*normMTTD + 30*normMTTR + 25*normFAR + 15*normVolume)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Value(score)
}

// MapScoreToLevel classifies a composite score into a maturity level.
// Threshold upper bounds are inclusive.
func MapScoreToLevel(score MetricValue) MaturityLevel {
	if !score.Found {
		return LevelUnknown
	}
	switch {
	case score.Val <= 20:
		return LevelInitial
	case score.Val <= 40:
		return LevelManaged
	case score.Val <= 60:
		return LevelDefined
	case score.Val <= 80:
		return LevelQuantitativelyManaged
	default:
		return LevelOptimizing
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
