package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zarabot/crates/pkg/crate"
	"github.com/zarabot/crates/pkg/item"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <manifest.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &ManifestValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Item manifest is valid!")
}

type ManifestValidator struct {
	errors []string
}

func (v *ManifestValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".yaml") && !strings.HasSuffix(baseName, ".yml") {
		return fmt.Errorf("manifest file must have .yaml or .yml extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	items, err := item.ParseManifest(data)
	if err != nil {
		return fmt.Errorf("file %s failed to parse: %w", filename, err)
	}
	if len(items) == 0 {
		return fmt.Errorf("file %s contains no items", filename)
	}

	v.validateItems(items)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	fmt.Printf("%d items checked\n", len(items))
	return nil
}

func (v *ManifestValidator) validateItems(items []item.Info) {
	seen := make(map[string]bool, len(items))
	for i := range items {
		info := &items[i]

		if info.Name == "" {
			v.addError(fmt.Sprintf("item at index %d has no name", i))
			continue
		}
		if seen[info.Name] {
			v.addError(fmt.Sprintf("duplicate item name '%s'", info.Name))
		}
		seen[info.Name] = true

		if info.ValueGP < 0 {
			v.addError(fmt.Sprintf("item '%s' has negative intended_value_gp %d", info.Name, info.ValueGP))
		}
		if info.ValueAtus < 0 {
			v.addError(fmt.Sprintf("item '%s' has negative intended_value_atus %d", info.Name, info.ValueAtus))
		}
	}

	// Items the game wants to offer must exist and be worth drawing.
	catalog := item.NewCatalog(items)
	for _, name := range crate.DefaultAllowList {
		info, ok := catalog.Lookup(name)
		if !ok {
			v.addError(fmt.Sprintf("allow-listed item '%s' is missing from the manifest", name))
			continue
		}
		if info.ValueGP == 0 && info.IsTradable() {
			v.addError(fmt.Sprintf("allow-listed item '%s' has zero intended_value_gp and will never be drawn", name))
		}
	}
}

func (v *ManifestValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
