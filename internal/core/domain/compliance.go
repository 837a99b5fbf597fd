package domain

import "math"

const (
	DefaultTargetKcal = 2000.0

	// WithinTolerance is the fraction of target a day may deviate and still
	// meet the goal. Streaks and compliance use this band only.
	WithinTolerance = 0.05
	// NearTolerance bounds the "near miss" band used for day classification.
	NearTolerance = 0.10

	// absorbs float rounding at the inclusive boundary, e.g. 1.05*t - t > 0.05*t
	toleranceEpsilon = 1e-9
)

type DayStatus string

const (
	DayStatusEmpty  DayStatus = "empty"
	DayStatusWithin DayStatus = "within"
	DayStatusNear   DayStatus = "near"
	DayStatusOff    DayStatus = "off"
)

type ProgressStatus string

const (
	ProgressOK       ProgressStatus = "ok"
	ProgressNear     ProgressStatus = "near"
	ProgressExceeded ProgressStatus = "exceeded"
)

// ResolveTarget substitutes DefaultTargetKcal for an absent, non-positive or
// non-finite target. Callers resolve once and pass the result down.
func ResolveTarget(targetKcal float64) float64 {
	if math.IsNaN(targetKcal) || math.IsInf(targetKcal, 0) || targetKcal <= 0 {
		return DefaultTargetKcal
	}
	return targetKcal
}

func withinBand(totalKcal, targetKcal, tolerance float64) bool {
	band := targetKcal * tolerance
	return math.Abs(totalKcal-targetKcal) <= band+band*toleranceEpsilon
}

// IsWithinTarget reports whether totalKcal is inside the inclusive 5% band.
func IsWithinTarget(totalKcal, targetKcal float64) bool {
	return withinBand(totalKcal, ResolveTarget(targetKcal), WithinTolerance)
}

// IsNearTarget reports a deviation above 5% but not above 10%.
func IsNearTarget(totalKcal, targetKcal float64) bool {
	target := ResolveTarget(targetKcal)
	return !withinBand(totalKcal, target, WithinTolerance) &&
		withinBand(totalKcal, target, NearTolerance)
}

// MeetsGoal is the streak predicate: something was logged and it is within target.
func MeetsGoal(totalKcal, targetKcal float64) bool {
	return totalKcal > 0 && IsWithinTarget(totalKcal, targetKcal)
}

func DayStatusFor(totalKcal, targetKcal float64) DayStatus {
	switch {
	case totalKcal <= 0:
		return DayStatusEmpty
	case IsWithinTarget(totalKcal, targetKcal):
		return DayStatusWithin
	case IsNearTarget(totalKcal, targetKcal):
		return DayStatusNear
	default:
		return DayStatusOff
	}
}

// ProgressStatusFor classifies intake so far against the target: above 105%
// is exceeded, from 95% it is near.
func ProgressStatusFor(consumedKcal, targetKcal float64) ProgressStatus {
	pct := consumedKcal / ResolveTarget(targetKcal) * 100
	switch {
	case pct > 105:
		return ProgressExceeded
	case pct >= 95:
		return ProgressNear
	default:
		return ProgressOK
	}
}
