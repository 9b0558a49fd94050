package crate

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/zarabot/crates/pkg/item"
)

// ErrOutOfStock is returned when the remaining weight across the
// whole snapshot reaches zero before a draw can finish.
var ErrOutOfStock = errors.New("no stock available")

// DefaultWeightDecay is the base of the exponential price decay in
// the per-item selection weight. Values below 1 favor cheap items:
// a 1 gp item weighs ~0.99 per unit, a 500 gp item nearly nothing.
const DefaultWeightDecay = 0.99

// Sampler draws value-bounded item bundles from an inventory
// snapshot by roulette-wheel selection.
type Sampler struct {
	Catalog *item.Catalog

	// WeightDecay is the exponential decay base applied to intended
	// value. Zero means DefaultWeightDecay.
	WeightDecay float64
}

// weight computes the selection weight of one stock line for a single
// draw iteration. Unknown items, depleted items, and items without a
// positive intended value all weigh zero and can never be selected.
//
// Quantity scales linearly. An earlier build used sqrt(quantity);
// linear is the variant the tests pin.
func (s *Sampler) weight(st Stock) float64 {
	info, ok := s.Catalog.Lookup(st.Item)
	if !ok || st.Quantity <= 0 || info.ValueGP <= 0 {
		return 0
	}
	decay := s.WeightDecay
	if decay == 0 {
		decay = DefaultWeightDecay
	}
	priceFactor := math.Pow(decay, float64(info.ValueGP))
	return math.Max(0, priceFactor*float64(st.Quantity))
}

// Draw builds a single crate whose total value meets or exceeds
// target, stopping early when the crate holds itemCap distinct items.
// The given snapshot is not mutated; Draw returns a reduced copy with
// the drawn quantities subtracted, so the caller can thread depletion
// through consecutive draws.
//
// If total weight reaches zero before the target is met, Draw returns
// ErrOutOfStock along with whatever was drawn so far; the caller
// decides whether a partial crate is usable.
func (s *Sampler) Draw(rng *rand.Rand, snap Snapshot, target, itemCap int) (Crate, Snapshot, error) {
	remaining := snap.Clone()
	counts := make(map[string]int)
	totalValue := 0

	weights := make([]float64, len(remaining))
	for totalValue < target && len(counts) < itemCap {
		totalWeight := 0.0
		for i := range remaining {
			weights[i] = s.weight(remaining[i])
			totalWeight += weights[i]
		}
		if totalWeight == 0 {
			return s.finish(counts, remaining), remaining, ErrOutOfStock
		}

		roll := rng.Float64() * totalWeight
		accumulated := 0.0
		for i := range remaining {
			accumulated += weights[i]
			if roll <= accumulated {
				st := &remaining[i]
				counts[st.Item]++
				st.Quantity--
				totalValue += s.Catalog.Value(st.Item)
				break
			}
		}
	}

	return s.finish(counts, remaining), remaining, nil
}

// finish converts draw counts into an ordered crate. Entries start in
// snapshot order so the sort input is deterministic.
func (s *Sampler) finish(counts map[string]int, remaining Snapshot) Crate {
	crate := make(Crate, 0, len(counts))
	for i := range remaining {
		if qty, ok := counts[remaining[i].Item]; ok && qty > 0 {
			crate = append(crate, Entry{Item: remaining[i].Item, Quantity: qty})
		}
	}
	crate.sortByValue(s.Catalog)
	return crate
}
