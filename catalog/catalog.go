package catalog

import "fmt"

// RateBounds is the closed interval a robot draws a product's daily
// consumption rate from.
type RateBounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Product is a static catalog entry. Products are never mutated after the
// catalog is built; every robot reads the same values.
type Product struct {
	ID          string     `json:"id"          yaml:"id"`
	Name        string     `json:"name"        yaml:"name"`
	Category    string     `json:"category"    yaml:"category"`
	BaseStock   int        `json:"base_stock"  yaml:"base_stock"`
	Consumption RateBounds `json:"consumption" yaml:"consumption"`
}

// HasRate reports whether robots should simulate consumption for the product.
func (p Product) HasRate() bool {
	return p.Consumption.Max > 0
}

// Catalog is the ordered product list shared by the whole fleet.
type Catalog []Product

// Lookup returns the product with the given ID.
func (c Catalog) Lookup(id string) (Product, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// IDs returns the product IDs in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c))
	for i, p := range c {
		ids[i] = p.ID
	}
	return ids
}

// Validate rejects catalogs robots cannot scan: empty, duplicate or blank
// IDs, negative stock, or inverted rate bounds.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]bool, len(c))
	for i, p := range c {
		if p.ID == "" {
			return fmt.Errorf("catalog[%d]: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("catalog: duplicate id %s", p.ID)
		}
		seen[p.ID] = true
		if p.BaseStock < 0 {
			return fmt.Errorf("catalog %s: negative base stock %d", p.ID, p.BaseStock)
		}
		if p.Consumption.Min < 0 || p.Consumption.Min > p.Consumption.Max {
			return fmt.Errorf("catalog %s: invalid consumption bounds [%g, %g]", p.ID, p.Consumption.Min, p.Consumption.Max)
		}
	}
	return nil
}

// Default returns the built-in five product catalog.
func Default() Catalog {
	return Catalog{
		{ID: "TEL-4567", Name: "Router RT-AC68U", Category: "network", BaseStock: 85, Consumption: RateBounds{2, 5}},
		{ID: "TEL-8901", Name: "Modem DSL-2640U", Category: "network", BaseStock: 45, Consumption: RateBounds{1, 3}},
		{ID: "TEL-2345", Name: "Switch SG-108", Category: "network", BaseStock: 72, Consumption: RateBounds{3, 6}},
		{ID: "TEL-6789", Name: "IP Phone T46S", Category: "voip", BaseStock: 110, Consumption: RateBounds{4, 7}},
		{ID: "TEL-3456", Name: "UTP Cable Cat6", Category: "cables", BaseStock: 180, Consumption: RateBounds{5, 10}},
	}
}
