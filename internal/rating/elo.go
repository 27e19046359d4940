// Package rating implements the Elo update applied once per completed ranked
// match.
package rating

import "math"

// KFactor controls the volatility of the update.
const KFactor = 32

// Expected returns the logistic expected score for a player rated ratingA
// against an opponent rated ratingB.
func Expected(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
}

// Delta returns the signed rating change for player A. actual is 1 if A won,
// 0 otherwise. Player B's change is exactly -Delta.
func Delta(ratingA, ratingB int, aWon bool) int {
	actual := 0.0
	if aWon {
		actual = 1.0
	}
	return int(math.Round(KFactor * (actual - Expected(ratingA, ratingB))))
}

// Update applies a match result between two ratings and returns both updated
// values plus the winner-side delta.
func Update(ratingA, ratingB int, aWon bool) (newA, newB, delta int) {
	delta = Delta(ratingA, ratingB, aWon)
	return ratingA + delta, ratingB - delta, delta
}
