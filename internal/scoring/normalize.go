package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scale bounds for ratings and gaps.
const (
	ScoreMin  = 1.0
	ScoreMax  = 5.0
	GapMax    = ScoreMax - ScoreMin
	ScoreStep = 0.5
)

// RoundToStep rounds value to the nearest multiple of step, half away from zero.
func RoundToStep(value, step float64) float64 {
	if step <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded := math.Round(value/step) * step
	// beyond 1e15 the snap below would overflow and float spacing exceeds 1e-9 anyway
	if math.Abs(rounded) > 1e15 {
		return rounded
	}
	// snap away binary noise such as 0.30000000000000004
	return math.Round(rounded*1e9) / 1e9
}

func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NormalizeScore coerces any input onto the rating scale {1.0, 1.5, ..., 5.0}.
func NormalizeScore(value float64) float64 {
	if math.IsNaN(value) {
		return ScoreMin
	}
	return Clamp(RoundToStep(value, ScoreStep), ScoreMin, ScoreMax)
}

// NormalizeGap coerces a gap onto {0.0, 0.5, ..., 4.0}.
func NormalizeGap(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return Clamp(RoundToStep(value, ScoreStep), 0, GapMax)
}

// ClampedGap is the scoring gap: overperformance collapses to exactly zero.
func ClampedGap(target, current float64) float64 {
	return NormalizeGap(math.Max(0, target-current))
}

// SignedGap keeps the sign of target-current. Used for trend display only.
func SignedGap(target, current float64) float64 {
	return target - current
}

// FormatGap renders a gap with one decimal. Negative zero prints as "0.0".
func FormatGap(value float64) string {
	s := fmt.Sprintf("%.1f", value)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

// ParseScore parses a raw rating, falling back to the given default when the
// input is not a number.
func ParseScore(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return NormalizeScore(fallback)
	}
	return NormalizeScore(v)
}
