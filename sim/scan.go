package sim

import (
	"math"
	"math/rand/v2"

	"scanfleet/catalog"
)

// Status classifies an observed quantity.
type Status string

const (
	StatusOK       Status = "OK"
	StatusLowStock Status = "LOW_STOCK"
	StatusCritical Status = "CRITICAL"
)

const (
	// OKAbove is the exclusive lower bound for StatusOK.
	OKAbove = 50
	// LowStockAbove is the exclusive lower bound for StatusLowStock.
	LowStockAbove = 20

	// MaxScansPerReport caps how many products one report covers.
	MaxScansPerReport = 3

	countNoise = 2.0
)

// ScanResult is one product reading inside a report.
type ScanResult struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Status      Status `json:"status"`
}

// Classify maps a quantity to its status: above 50 is OK, 21..50 is
// LOW_STOCK, 20 and below is CRITICAL.
func Classify(quantity int) Status {
	switch {
	case quantity > OKAbove:
		return StatusOK
	case quantity > LowStockAbove:
		return StatusLowStock
	default:
		return StatusCritical
	}
}

// ObservedQuantity applies counting noise to a stock level and clamps the
// result at zero.
func ObservedQuantity(level, noise float64) int {
	q := int(math.Round(level + noise))
	if q < 0 {
		return 0
	}
	return q
}

// Scanner samples a few products per report and reads them with noise.
type Scanner struct {
	catalog catalog.Catalog
	rng     *rand.Rand
}

// NewScanner returns a Scanner over the shared catalog using the robot's
// own random source.
func NewScanner(cat catalog.Catalog, rng *rand.Rand) *Scanner {
	return &Scanner{catalog: cat, rng: rng}
}

// Scan ticks the stock model once, then reads 1 to 3 distinct products in
// random sample order. Restocks triggered by the tick are returned alongside.
func (s *Scanner) Scan(stock *StockModel) ([]ScanResult, []Replenishment) {
	replenished := stock.Tick()
	if len(s.catalog) == 0 {
		return nil, replenished
	}

	k := 1 + s.rng.IntN(MaxScansPerReport)
	if k > len(s.catalog) {
		k = len(s.catalog)
	}

	results := make([]ScanResult, 0, k)
	for _, idx := range s.sample(k) {
		p := s.catalog[idx]
		q := ObservedQuantity(stock.Level(p.ID), uniform(s.rng, -countNoise, countNoise))
		results = append(results, ScanResult{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    q,
			Status:      Classify(q),
		})
	}
	return results, replenished
}

// sample picks k distinct catalog indices with a partial Fisher-Yates shuffle.
func (s *Scanner) sample(k int) []int {
	idx := make([]int, len(s.catalog))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
