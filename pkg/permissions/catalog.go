package permissions

import (
	"fmt"
	"strings"
)

// Permission is one entry in the canonical capability catalog.
type Permission struct {
	Code  string `yaml:"code"`  // machine codename, globally unique (products.create)
	Label string `yaml:"label"` // human label ("Create products")
}

// Catalog is the ordered canonical permission list. Codes are unique and
// immutable once defined; the catalog is append-only in practice.
type Catalog []Permission

// Default returns the built-in catalog seeded at startup.
func Default() Catalog {
	return Catalog{
		{Code: "products.view", Label: "View products"},
		{Code: "products.create", Label: "Create products"},
		{Code: "products.update", Label: "Update products"},
		{Code: "products.delete", Label: "Delete products"},
		{Code: "collections.view", Label: "View collections"},
		{Code: "collections.create", Label: "Create collections"},
		{Code: "collections.update", Label: "Update collections"},
		{Code: "collections.delete", Label: "Delete collections"},
		{Code: "variants.create", Label: "Create product variants"},
		{Code: "variants.update", Label: "Update product variants"},
		{Code: "variants.delete", Label: "Delete product variants"},
		{Code: "stores.update_settings", Label: "Update store settings"},
		{Code: "staff.manage", Label: "Manage staff members and grants"},
	}
}

// Validate rejects empty or duplicate codes.
func (c Catalog) Validate() error {
	seen := map[string]struct{}{}
	for i, p := range c {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			return fmt.Errorf("catalog entry %d: empty code", i)
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("catalog entry %d: duplicate code %q", i, code)
		}
		seen[code] = struct{}{}
	}
	return nil
}

// Contains reports whether code is part of the catalog.
func (c Catalog) Contains(code string) bool {
	for _, p := range c {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the codename list in catalog order.
func (c Catalog) Codes() []string {
	out := make([]string, 0, len(c))
	for _, p := range c {
		out = append(out, p.Code)
	}
	return out
}
