package crate

import "math"

// DefaultPriceFloor is the minimum play cost in gp.
const DefaultPriceFloor = 35

// Price computes the play cost from the generated crates' values:
//
//	cost = round(max(0.9*max, min(1.1*avg, max), floor))
//
// The cost never exceeds the most valuable crate, never drops below
// 90% of it, and never drops below the floor. An earlier build used
// round((avg+max)/2) with a floor of 50; this is the guarded formula
// that replaced it.
func Price(values []int, floor int) int {
	if len(values) == 0 {
		return floor
	}

	sum := 0
	max := 0
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
	}
	avg := float64(sum) / float64(len(values))

	cost := math.Min(1.1*avg, float64(max))
	cost = math.Max(0.9*float64(max), cost)
	cost = math.Max(cost, float64(floor))
	return int(math.Round(cost))
}
