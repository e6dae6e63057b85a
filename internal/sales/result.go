package sales

import (
	"github.com/shopspring/decimal"
)

// Result is the complete sales report model. It is built once by Analyze and
// must be treated as read-only by renderers and stores.
type Result struct {
	// Range is the filter requested by the caller; zero when unfiltered.
	Range DateRange
	// FirstDay and LastDay bound the days actually present.
	FirstDay Day
	LastDay  Day

	TotalRevenue      decimal.Decimal
	TotalTransactions int
	TotalOrders       int
	Months            int

	Daily              []DailySummary
	Monthly            []MonthlySummary
	TransactionsPerDay Series[Day, int]
	HourlyAverage      Series[int, float64]

	Products      []ProductRevenue
	Concentration []Concentration
	TopByMonth    []MonthlyTopProducts
	CoPurchases   []CoPurchaseSet
}

// Analyze validates tbl and runs every aggregation stage over the surviving transactions.
func Analyze(tbl Table, rng DateRange, opts ParseOptions) (*Result, error) {
	txs, err := Validate(tbl, rng, opts)
	if err != nil {
		return nil, err
	}
	return Build(txs, rng), nil
}

// Build assembles the report from already validated transactions. txs must be non-empty.
func Build(txs []Transaction, rng DateRange) *Result {
	tmp := aggregateTemporal(txs)
	products, total := rankProducts(txs)

	orders := make(map[string]struct{})
	for _, tx := range txs {
		orders[tx.OrderID] = struct{}{}
	}

	res := &Result{
		Range:              rng,
		TotalRevenue:       total,
		TotalTransactions:  len(txs),
		TotalOrders:        len(orders),
		Months:             len(tmp.monthly),
		Daily:              tmp.daily,
		Monthly:            tmp.monthly,
		TransactionsPerDay: tmp.perDay,
		HourlyAverage:      tmp.perHour,
		Products:           products,
		Concentration:      concentration(products),
		TopByMonth:         topProductsByMonth(txs),
		CoPurchases:        coPurchaseSets(txs, products),
	}
	if n := len(tmp.daily); n > 0 {
		res.FirstDay = tmp.daily[0].Day
		res.LastDay = tmp.daily[n-1].Day
	}
	return res
}

// TopProducts returns at most n entries of the overall ranking.
func (r *Result) TopProducts(n int) []ProductRevenue {
	return r.Products[:min(n, len(r.Products))]
}
