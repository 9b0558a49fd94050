package crate

import (
	"sort"

	"github.com/zarabot/crates/pkg/item"
)

// Entry is one line of a crate: an item and how many units were drawn.
type Entry struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Crate is a generated bundle of items offered as one selectable
// option. Entries are ordered by descending contributed value
// (quantity x intended value); the order is established when the
// draw completes and is part of the contract, since narrative
// generation and rendering both consume entries in order.
type Crate []Entry

// Value returns the total intended gp value of the crate's contents.
func (c Crate) Value(catalog *item.Catalog) int {
	total := 0
	for _, e := range c {
		total += catalog.Value(e.Item) * e.Quantity
	}
	return total
}

// Size returns the number of distinct items in the crate.
func (c Crate) Size() int {
	return len(c)
}

// Quantity returns the drawn quantity of an item, or 0 if absent.
func (c Crate) Quantity(name string) int {
	for _, e := range c {
		if e.Item == name {
			return e.Quantity
		}
	}
	return 0
}

// sortByValue orders entries by descending contributed value. Ties
// keep their draw order (stable sort), so output stays deterministic.
func (c Crate) sortByValue(catalog *item.Catalog) {
	sort.SliceStable(c, func(i, j int) bool {
		vi := catalog.Value(c[i].Item) * c[i].Quantity
		vj := catalog.Value(c[j].Item) * c[j].Quantity
		return vi > vj
	})
}

// Values maps crates to their total values, in order.
func Values(crates []Crate, catalog *item.Catalog) []int {
	values := make([]int, len(crates))
	for i, c := range crates {
		values[i] = c.Value(catalog)
	}
	return values
}
