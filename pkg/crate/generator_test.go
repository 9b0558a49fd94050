package crate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorTargetValueBounds(t *testing.T) {
	g := NewGenerator(testCatalog())
	rng := testRNG()

	for i := 0; i < 1000; i++ {
		target := g.TargetValue(rng)
		assert.GreaterOrEqual(t, target, DefaultSizeC)
		assert.Less(t, target, DefaultSizeA+DefaultSizeB+DefaultSizeC)
	}
}

func TestGeneratorTargetValueZeroValueDefaults(t *testing.T) {
	// A zero-valued Generator draws with the default constants
	// instead of emitting target 0.
	g := &Generator{}
	rng := testRNG()

	for i := 0; i < 1000; i++ {
		target := g.TargetValue(rng)
		assert.GreaterOrEqual(t, target, DefaultSizeC)
		assert.Less(t, target, DefaultSizeA+DefaultSizeB+DefaultSizeC)
	}
}

func TestGeneratorTargetValueSkewsLow(t *testing.T) {
	g := NewGenerator(testCatalog())
	rng := testRNG()

	// u^50 + u^2 keeps most draws near the constant term. With the
	// default {60, 60, 20}, well over half the mass sits below 40 gp.
	low := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if g.TargetValue(rng) < 40 {
			low++
		}
	}
	assert.Greater(t, low, n/2)
}

func TestGeneratorGenerate(t *testing.T) {
	catalog := testCatalog()
	g := NewGenerator(catalog)

	snap := Snapshot{
		{Item: "Rock", Quantity: 500},
		{Item: "Apple", Quantity: 500},
		{Item: "Iron", Quantity: 100},
		{Item: "Diamond", Quantity: 20},
	}

	crates, err := g.Generate(testRNG(), snap)
	require.NoError(t, err)
	require.Len(t, crates, DefaultCrateCount)

	for i, c := range crates {
		assert.NotEmpty(t, c, "crate %d", i)
		assert.LessOrEqual(t, c.Size(), DefaultItemCap, "crate %d", i)
	}

	// Depletion threads through the session: the three crates
	// combined never draw more of an item than the snapshot held.
	for _, st := range snap {
		total := 0
		for _, c := range crates {
			total += c.Quantity(st.Item)
		}
		assert.LessOrEqual(t, total, st.Quantity, st.Item)
	}
}

func TestGeneratorFiltersPool(t *testing.T) {
	catalog := testCatalog()
	g := NewGenerator(catalog)
	g.Allowed = map[string]bool{"Apple": true, "Iron": true}

	snap := Snapshot{
		{Item: "Rock", Quantity: 100},        // not on the allow-list
		{Item: "Cursed Idol", Quantity: 100}, // untradable
		{Item: "Mystery Box", Quantity: 100}, // not in the catalog
		{Item: "Apple", Quantity: 500},
		{Item: "Iron", Quantity: 500},
	}

	crates, err := g.Generate(testRNG(), snap)
	require.NoError(t, err)

	for _, c := range crates {
		for _, e := range c {
			assert.Contains(t, []string{"Apple", "Iron"}, e.Item)
		}
	}
}

func TestGeneratorOutOfStock(t *testing.T) {
	catalog := testCatalog()
	g := NewGenerator(catalog)

	// Nothing sampleable at all: fail fast, no partial result.
	crates, err := g.Generate(testRNG(), Snapshot{{Item: "Cursed Idol", Quantity: 5}})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Nil(t, crates)

	// Stock that dries up mid-session fails the whole generation too.
	crates, err = g.Generate(testRNG(), Snapshot{{Item: "Diamond", Quantity: 1}})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Nil(t, crates)
}

func TestGeneratorDeterministic(t *testing.T) {
	catalog := testCatalog()
	g := NewGenerator(catalog)

	snap := Snapshot{
		{Item: "Rock", Quantity: 500},
		{Item: "Apple", Quantity: 500},
		{Item: "Iron", Quantity: 100},
	}

	a, err := g.Generate(rand.New(rand.NewPCG(3, 9)), snap)
	require.NoError(t, err)
	b, err := g.Generate(rand.New(rand.NewPCG(3, 9)), snap)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
