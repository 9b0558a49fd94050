package crate

import (
	"math"
	"math/rand/v2"

	"github.com/zarabot/crates/pkg/item"
)

const (
	// DefaultCrateCount is how many crates a session offers.
	DefaultCrateCount = 3

	// DefaultItemCap bounds the distinct items per crate.
	DefaultItemCap = 10
)

// Default target-value constants. target = A*u^p1 + B*u^p2 + C with
// u uniform in [0,1). p1 >> p2 skews the distribution hard toward
// the low end, so most crates land near C and the occasional outlier
// approaches A+B+C. An earlier build ran {200, 200, 100}.
const (
	DefaultSizeA = 60
	DefaultSizeB = 60
	DefaultSizeC = 20

	sizeExpHigh = 50
	sizeExpLow  = 2
)

// Generator builds a session's worth of crates from one snapshot.
// Items drawn into an earlier crate are not returned to the pool
// before the next one, so a session can never promise the same unit
// twice.
type Generator struct {
	Catalog *item.Catalog
	Sampler *Sampler

	// Allowed restricts sampling to the named items. Nil means any
	// catalog-known tradable item.
	Allowed map[string]bool

	CrateCount int
	ItemCap    int

	// Target-value constants; when all three are zero, TargetValue
	// uses the defaults, matching the Sampler's WeightDecay behavior.
	SizeA, SizeB, SizeC float64
}

// NewGenerator returns a generator with default tuning.
func NewGenerator(catalog *item.Catalog) *Generator {
	return &Generator{
		Catalog:    catalog,
		Sampler:    &Sampler{Catalog: catalog},
		CrateCount: DefaultCrateCount,
		ItemCap:    DefaultItemCap,
		SizeA:      DefaultSizeA,
		SizeB:      DefaultSizeB,
		SizeC:      DefaultSizeC,
	}
}

// TargetValue draws a random crate value target.
func (g *Generator) TargetValue(rng *rand.Rand) int {
	a, b, c := g.SizeA, g.SizeB, g.SizeC
	if a == 0 && b == 0 && c == 0 {
		a, b, c = DefaultSizeA, DefaultSizeB, DefaultSizeC
	}
	u := rng.Float64()
	return int(math.Floor(a*math.Pow(u, sizeExpHigh) + b*math.Pow(u, sizeExpLow) + c))
}

// Generate builds the session's crates. The snapshot is filtered to
// catalog-known tradable items (and the allow-list, when set) before
// sampling begins. If stock runs dry before any crate is complete the
// whole generation fails with ErrOutOfStock; partial crates are never
// offered.
func (g *Generator) Generate(rng *rand.Rand, snap Snapshot) ([]Crate, error) {
	pool := g.filter(snap)

	crates := make([]Crate, 0, g.CrateCount)
	for i := 0; i < g.CrateCount; i++ {
		target := g.TargetValue(rng)
		crate, reduced, err := g.Sampler.Draw(rng, pool, target, g.ItemCap)
		if err != nil {
			return nil, err
		}
		crates = append(crates, crate)
		pool = reduced
	}
	return crates, nil
}

// filter keeps stock lines the game is willing to hand out.
func (g *Generator) filter(snap Snapshot) Snapshot {
	pool := make(Snapshot, 0, len(snap))
	for _, st := range snap {
		info, ok := g.Catalog.Lookup(st.Item)
		if !ok || !info.IsTradable() {
			continue
		}
		if g.Allowed != nil && !g.Allowed[st.Item] {
			continue
		}
		pool = append(pool, st)
	}
	return pool
}
