package upstream

import (
	"math"
	"math/rand"
	"strconv"
)

// Upstream sources frequently ship entries without a usable score. The
// product decision is to synthesize one in the 8.5-9.8 band instead of
// rendering an empty rating. Synthesis is isolated behind RatingSource so
// tests can pin it to a constant.

// RatingSource produces a synthesized rating for an entry with no score.
type RatingSource func() float64

// randomRating returns a source drawing uniformly from [base, base+spread).
func randomRating(base, spread float64) RatingSource {
	return func() float64 {
		return base + rand.Float64()*spread
	}
}

// hotCodeRating maps a popularity signal onto the synthesized band: the hot
// code is clamped to [0, 1000] and scaled into [8.5, 9.8]. Deterministic,
// unlike the random fallback.
func hotCodeRating(hot string) float64 {
	v, err := strconv.ParseFloat(hot, 64)
	if err != nil || v < 0 {
		v = 0
	}
	if v > 1000 {
		v = 1000
	}
	return 8.5 + (v/1000)*1.3
}

// round1 rounds to one decimal place, matching how ratings are displayed.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
