package sales

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DailySummary is one row of the per-day report table.
type DailySummary struct {
	Day          Day
	Transactions int
	// SharePct is the day's share of all transactions in the period, rounded to two decimals.
	SharePct  decimal.Decimal
	Revenue   decimal.Decimal
	AvgTicket decimal.Decimal
	Customers int
}

// MonthlySummary is one row of the per-month report table.
type MonthlySummary struct {
	Month        Month
	Transactions int
	Revenue      decimal.Decimal
	AvgTicket    decimal.Decimal
	Customers    int
}

type bucketAcc struct {
	count   int
	revenue decimal.Decimal
	orders  map[string]struct{}
}

func (b *bucketAcc) add(tx Transaction) {
	b.count++
	b.revenue = b.revenue.Add(tx.Value)
	b.orders[tx.OrderID] = struct{}{}
}

func (b *bucketAcc) mean() decimal.Decimal {
	if b.count == 0 {
		return decimal.Zero
	}
	return b.revenue.Div(decimal.NewFromInt(int64(b.count)))
}

type temporal struct {
	daily   []DailySummary
	monthly []MonthlySummary
	perDay  Series[Day, int]
	perHour Series[int, float64]
}

func aggregateTemporal(txs []Transaction) temporal {
	days := make(map[Day]*bucketAcc)
	months := make(map[Month]*bucketAcc)
	var hours [24]int

	for _, tx := range txs {
		d := DayOf(tx.Timestamp)
		acc, ok := days[d]
		if !ok {
			acc = &bucketAcc{orders: make(map[string]struct{})}
			days[d] = acc
		}
		acc.add(tx)

		m := MonthOf(tx.Timestamp)
		macc, ok := months[m]
		if !ok {
			macc = &bucketAcc{orders: make(map[string]struct{})}
			months[m] = macc
		}
		macc.add(tx)

		hours[HourOf(tx.Timestamp)]++
	}

	dayKeys := make([]Day, 0, len(days))
	for d := range days {
		dayKeys = append(dayKeys, d)
	}
	slices.SortFunc(dayKeys, Day.Compare)

	monthKeys := make([]Month, 0, len(months))
	for m := range months {
		monthKeys = append(monthKeys, m)
	}
	slices.SortFunc(monthKeys, Month.Compare)

	out := temporal{
		daily:   make([]DailySummary, 0, len(dayKeys)),
		monthly: make([]MonthlySummary, 0, len(monthKeys)),
		perDay:  make(Series[Day, int], 0, len(dayKeys)),
	}

	total := decimal.NewFromInt(int64(len(txs)))
	hundred := decimal.NewFromInt(100)
	for _, d := range dayKeys {
		acc := days[d]
		share := decimal.Zero
		if !total.IsZero() {
			share = decimal.NewFromInt(int64(acc.count)).Mul(hundred).Div(total).Round(2)
		}
		out.daily = append(out.daily, DailySummary{
			Day:          d,
			Transactions: acc.count,
			SharePct:     share,
			Revenue:      acc.revenue,
			AvgTicket:    acc.mean(),
			Customers:    len(acc.orders),
		})
		out.perDay = append(out.perDay, Point[Day, int]{Key: d, Value: acc.count})
	}

	for _, m := range monthKeys {
		acc := months[m]
		out.monthly = append(out.monthly, MonthlySummary{
			Month:        m,
			Transactions: acc.count,
			Revenue:      acc.revenue,
			AvgTicket:    acc.mean(),
			Customers:    len(acc.orders),
		})
	}

	// Hourly counts are averaged over the distinct months present, giving a
	// typical-day profile rather than raw totals.
	if n := len(monthKeys); n > 0 {
		for h, count := range hours {
			if count == 0 {
				continue
			}
			out.perHour = append(out.perHour, Point[int, float64]{Key: h, Value: float64(count) / float64(n)})
		}
	}

	return out
}
