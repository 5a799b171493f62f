package sim

import (
	"math/rand/v2"

	"scanfleet/catalog"
)

const (
	// TicksPerDay converts a daily consumption rate into a per-tick decrement.
	TicksPerDay = 24.0

	// ReplenishFloor is the level below which a product is restocked.
	ReplenishFloor = 5.0

	// ReplenishSpread bounds the random offset applied to base stock on restock.
	ReplenishSpread = 10

	consumptionJitterMin = 0.8
	consumptionJitterMax = 1.2
)

// Replenishment records one restock event produced by StockModel.Tick.
type Replenishment struct {
	ProductID string  `json:"product_id"`
	Level     float64 `json:"level"`
}

// StockModel holds one robot's private view of stock: a consumption rate
// and a current level per product. It is not safe for concurrent use and is
// never shared between robots.
type StockModel struct {
	catalog catalog.Catalog
	rng     *rand.Rand
	rates   map[string]float64
	levels  map[string]float64
}

// NewStockModel draws a consumption rate for every product that has rate
// bounds and starts every level at the product's base stock.
func NewStockModel(cat catalog.Catalog, rng *rand.Rand) *StockModel {
	m := &StockModel{
		catalog: cat,
		rng:     rng,
		rates:   make(map[string]float64, len(cat)),
		levels:  make(map[string]float64, len(cat)),
	}
	for _, p := range cat {
		m.levels[p.ID] = float64(p.BaseStock)
		if p.HasRate() {
			m.rates[p.ID] = uniform(rng, p.Consumption.Min, p.Consumption.Max)
		}
	}
	return m
}

// Tick applies one hour of consumption to every rated product and restocks
// any product that falls under ReplenishFloor. Restocking happens at most
// once per product per tick and the new level is not re-checked, so a
// restock can land below the floor.
func (m *StockModel) Tick() []Replenishment {
	var out []Replenishment
	// Catalog order keeps the draw sequence reproducible for a given seed.
	for _, p := range m.catalog {
		rate, ok := m.rates[p.ID]
		if !ok {
			continue
		}
		m.levels[p.ID] -= rate * uniform(m.rng, consumptionJitterMin, consumptionJitterMax) / TicksPerDay

		if m.levels[p.ID] < ReplenishFloor {
			offset := uniformInt(m.rng, -ReplenishSpread, ReplenishSpread)
			m.levels[p.ID] = float64(p.BaseStock + offset)
			out = append(out, Replenishment{ProductID: p.ID, Level: m.levels[p.ID]})
		}
	}
	return out
}

// Level returns the current raw level for a product.
func (m *StockModel) Level(productID string) float64 {
	return m.levels[productID]
}

// Rate returns the daily consumption rate for a product and whether one is configured.
func (m *StockModel) Rate(productID string) (float64, bool) {
	r, ok := m.rates[productID]
	return r, ok
}

// Levels returns a copy of all current levels.
func (m *StockModel) Levels() map[string]float64 {
	cp := make(map[string]float64, len(m.levels))
	for k, v := range m.levels {
		cp[k] = v
	}
	return cp
}
