package session

import (
	"fmt"
	"strings"

	"github.com/zarabot/crates/pkg/crate"
	"github.com/zarabot/crates/pkg/item"
)

// Zara's lines. Narration is wrapped in _underscores_; spoken words
// are plain.
const (
	msgOutOfStock = "_Zara looks at you apologetically._ I'm sorry, it seems I don't have any trinkets to offer you today."

	msgOffer = "_Zara eyes you with a sly smile, her green hat tilting slightly._ Curiosity comes at a price. _Her voice is almost a whisper._ A few coins, and the game is yours."

	msgLoading = "_Zara shuffles off to rummage through her collection..._"

	msgSelect = "_Zara looks at you, expression unreadable._ So, explorer, which crate will you choose?"

	msgClosing = "_Zara smiles, satisfied._ I do hope you return again soon."

	contextOutOfStock = "Please let the operator know that Zara is out of stock."

	contextStockRace = "The items originally selected for you are no longer available, someone else must have taken them."

	contextInvalidSelection = "That wasn't one of the crates on offer, so Zara returned your gp."

	contextRefundFailed = "Zara doesn't have enough gp to refund you, either. This shouldn't happen. Please let the operator know."
)

func msgReveal(index int) string {
	return fmt.Sprintf("_Zara nods, her eyes twinkling._ A wise choice. _She hands you the %s crate. You open it, and inside you find..._", ordinal(index))
}

func msgStockRace(index, cost int) string {
	return fmt.Sprintf("_One by one, the items in the %s crate inexplicably vanish. Zara raises an eyebrow._ Interesting. _Zara hands you your %d gp back._", ordinal(index), cost)
}

func msgInvalidSelection(cost int) string {
	return fmt.Sprintf("_Zara squints at you, puzzled._ That is not one of my crates. _She hands you your %d gp back._", cost)
}

func msgRefundFailed(cost int) string {
	return fmt.Sprintf("_Zara looks at you apologetically._ I'm sorry, I couldn't return your %d gp.", cost)
}

func ordinal(index int) string {
	ordinals := []string{"first", "second", "third"}
	if index < 0 || index >= len(ordinals) {
		return fmt.Sprintf("%dth", index+1)
	}
	return ordinals[index]
}

// renderCrate lists a crate's contents with per-item values, in the
// crate's established order, ending with the total.
func renderCrate(c crate.Crate, catalog *item.Catalog) string {
	var sb strings.Builder
	for _, e := range c {
		value := catalog.Value(e.Item)
		if e.Quantity != 1 {
			fmt.Fprintf(&sb, "%dx %s, _worth about %d gp each_\n", e.Quantity, e.Item, value)
		} else {
			fmt.Fprintf(&sb, "%s, _worth about %d gp_\n", e.Item, value)
		}
	}
	fmt.Fprintf(&sb, "Total value: %d gp", c.Value(catalog))
	return sb.String()
}
