// Package leveling holds the pure XP/level math. No I/O, no state:
// given the same xp the functions always return the same result.
package leveling

import "math"

// XPPerNite is the experience granted per Nitecoin spent.
const XPPerNite = 10

// XPForSpend returns the experience gained by spending amount Nitecoin.
func XPForSpend(amount int64) int64 {
	return amount * XPPerNite
}

// Level maps accumulated experience to a level:
//
//	level = floor(sqrt(xp) * 0.1) + 1
//
// Never called with negative xp; level 1 is the floor.
func Level(xp int64) int64 {
	if xp <= 0 {
		return 1
	}
	return int64(math.Sqrt(float64(xp))*0.1) + 1
}
