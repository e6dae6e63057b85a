package sales

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	// TopProductsPerMonth caps each month's product table.
	TopProductsPerMonth = 30
)

// ConcentrationThresholds are the top-N cut-offs of the revenue concentration summary.
var ConcentrationThresholds = []int{5, 10, 15, 20, 25, 30, 50}

// ProductRevenue is a product's position in the overall revenue ranking.
type ProductRevenue struct {
	Rank    int
	Product string
	Revenue decimal.Decimal
	// SharePct is unrounded; round at presentation.
	SharePct decimal.Decimal
}

// ProductAmount pairs a product with the revenue it made in some bucket.
type ProductAmount struct {
	Product string
	Revenue decimal.Decimal
}

// MonthlyTopProducts is the ranked product list of a single month.
type MonthlyTopProducts struct {
	Month    Month
	Products []ProductAmount
}

// Concentration answers "what share of revenue comes from the top N products".
type Concentration struct {
	TopN     int
	SharePct decimal.Decimal
}

// revenueTally sums revenue per product while remembering first appearance order.
type revenueTally struct {
	order   []string
	revenue map[string]decimal.Decimal
}

func newRevenueTally() *revenueTally {
	return &revenueTally{revenue: make(map[string]decimal.Decimal)}
}

func (t *revenueTally) add(product string, value decimal.Decimal) {
	current, ok := t.revenue[product]
	if !ok {
		t.order = append(t.order, product)
	}
	t.revenue[product] = current.Add(value)
}

// ranked returns the products by descending revenue; ties keep first appearance order.
func (t *revenueTally) ranked() []ProductAmount {
	out := make([]ProductAmount, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, ProductAmount{Product: p, Revenue: t.revenue[p]})
	}
	slices.SortStableFunc(out, func(a, b ProductAmount) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return out
}

func rankProducts(txs []Transaction) ([]ProductRevenue, decimal.Decimal) {
	tally := newRevenueTally()
	total := decimal.Zero
	for _, tx := range txs {
		tally.add(tx.Product, tx.Value)
		total = total.Add(tx.Value)
	}

	hundred := decimal.NewFromInt(100)
	ranked := tally.ranked()
	out := make([]ProductRevenue, len(ranked))
	for i, pa := range ranked {
		share := decimal.Zero
		if total.IsPositive() {
			share = pa.Revenue.Mul(hundred).Div(total)
		}
		out[i] = ProductRevenue{
			Rank:     i + 1,
			Product:  pa.Product,
			Revenue:  pa.Revenue,
			SharePct: share,
		}
	}
	return out, total
}

func concentration(products []ProductRevenue) []Concentration {
	out := make([]Concentration, 0, len(ConcentrationThresholds))
	for _, n := range ConcentrationThresholds {
		sum := decimal.Zero
		for _, p := range products[:min(n, len(products))] {
			sum = sum.Add(p.SharePct)
		}
		out = append(out, Concentration{TopN: n, SharePct: sum.Round(2)})
	}
	return out
}

func topProductsByMonth(txs []Transaction) []MonthlyTopProducts {
	tallies := make(map[Month]*revenueTally)
	for _, tx := range txs {
		m := MonthOf(tx.Timestamp)
		t, ok := tallies[m]
		if !ok {
			t = newRevenueTally()
			tallies[m] = t
		}
		t.add(tx.Product, tx.Value)
	}

	months := make([]Month, 0, len(tallies))
	for m := range tallies {
		months = append(months, m)
	}
	slices.SortFunc(months, Month.Compare)

	out := make([]MonthlyTopProducts, 0, len(months))
	for _, m := range months {
		ranked := tallies[m].ranked()
		if len(ranked) > TopProductsPerMonth {
			ranked = ranked[:TopProductsPerMonth]
		}
		out = append(out, MonthlyTopProducts{Month: m, Products: ranked})
	}
	return out
}
