package services

import (
	"context"

	"github.com/zarabot/crates/pkg/crate"
)

// Decline reasons reported by the inventory service when a charge
// offer does not go through.
const (
	ChargeReasonDeclined     = "user_declined"
	ChargeReasonInsufficient = "target_insufficient_items"
)

// ItemQuantity names an item and a count for a transfer.
type ItemQuantity struct {
	Item     string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// ChargeResult is the outcome of asking a user to pay.
type ChargeResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Inventory defines the interface to the external inventory service
// that owns all item state. The bot itself persists nothing.
type Inventory interface {
	// GetSnapshot returns the holder's current stock
	GetSnapshot(ctx context.Context, holder string, availableOnly bool) (crate.Snapshot, error)

	// GiveItems transfers items from the bot's account to the
	// receiver. Returns false when the bot no longer holds enough
	// of the listed items.
	GiveItems(ctx context.Context, receiver string, items []ItemQuantity) (bool, error)

	// ChargeUser offers the user a payment for the given amount of
	// gp and reports whether they accepted
	ChargeUser(ctx context.Context, user string, amount int) (*ChargeResult, error)
}
