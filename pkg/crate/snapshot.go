package crate

// Stock is one line of a holder's inventory: an item name, how many
// units are available, and the backing instance ID in the inventory
// service.
type Stock struct {
	Item     string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Instance int    `json:"instanceId,omitempty"`
}

// Snapshot is a point-in-time read of a holder's available stock.
// Order is significant: weighted selection walks the snapshot in
// order, so a given seed always reproduces the same draws.
type Snapshot []Stock

// Clone returns an independent copy of the snapshot. Draw works on a
// clone so the caller's snapshot is never mutated.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Quantity returns the remaining quantity of an item, or 0 if the
// item is not present.
func (s Snapshot) Quantity(item string) int {
	for i := range s {
		if s[i].Item == item {
			return s[i].Quantity
		}
	}
	return 0
}
