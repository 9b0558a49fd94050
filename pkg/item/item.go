package item

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Info is the static reference data for a single stocked item,
// as published in the shop's item manifest. The manifest is loaded
// once per process and treated as immutable.
type Info struct {
	Name          string  `yaml:"name" json:"name"`
	Artist        string  `yaml:"artist" json:"artist,omitempty"`
	Description   string  `yaml:"description" json:"description,omitempty"`
	Tag           string  `yaml:"tag" json:"tag,omitempty"`
	Tradable      *bool   `yaml:"tradable" json:"tradable,omitempty"`
	ValueAtus     int     `yaml:"intended_value_atus" json:"intended_value_atus,omitempty"`
	ValueGP       int     `yaml:"intended_value_gp" json:"intended_value_gp,omitempty"`
	SellPrice     int     `yaml:"genstore_sell_to_player_price" json:"genstore_sell_to_player_price,omitempty"`
	BuyPrice      int     `yaml:"genstore_buy_from_player_price" json:"genstore_buy_from_player_price,omitempty"`
	PriceVariance float64 `yaml:"genstore_price_variance" json:"genstore_price_variance,omitempty"`
	Frequency     *int    `yaml:"frequency" json:"frequency,omitempty"`
}

// IsTradable reports whether the item may change hands. The manifest
// omits the flag for most items, which means tradable.
func (i *Info) IsTradable() bool {
	return i.Tradable == nil || *i.Tradable
}

// Catalog is an immutable, name-keyed view over the item manifest.
type Catalog struct {
	items  []Info
	byName map[string]*Info
}

// NewCatalog builds a catalog from manifest entries. Later entries with
// a duplicate name are ignored; the manifest is expected not to have any.
func NewCatalog(items []Info) *Catalog {
	c := &Catalog{
		items:  items,
		byName: make(map[string]*Info, len(items)),
	}
	for i := range c.items {
		info := &c.items[i]
		if _, exists := c.byName[info.Name]; !exists {
			c.byName[info.Name] = info
		}
	}
	return c
}

// ParseManifest decodes the YAML item manifest.
func ParseManifest(data []byte) ([]Info, error) {
	var items []Info
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item manifest: %w", err)
	}
	return items, nil
}

// Lookup returns the catalog entry for an item name.
func (c *Catalog) Lookup(name string) (*Info, bool) {
	info, ok := c.byName[name]
	return info, ok
}

// Value returns the intended gp value of an item, or 0 if unknown.
func (c *Catalog) Value(name string) int {
	if info, ok := c.byName[name]; ok {
		return info.ValueGP
	}
	return 0
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.items)
}
