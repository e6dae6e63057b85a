package sales

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(ts, value, order, product string) []string {
	return []string{ts, value, order, product}
}

func table(rows ...[]string) Table {
	return Table{Columns: []string{ColumnTimestamp, ColumnValue, ColumnOrderID, ColumnProduct}, Rows: rows}
}

func TestAnalyzeWorkedExample(t *testing.T) {
	tbl := table(
		row("2024-03-05T10:15:00-03:00", "10", "A", "Product X"),
		row("2024-03-05T10:15:00-03:00", "5", "A", "Product Y"),
		row("2024-03-05T16:40:00-03:00", "10", "B", "Product X"),
	)

	res, err := Analyze(tbl, DateRange{}, ParseOptions{})
	require.NoError(t, err)

	require.Len(t, res.Daily, 1)
	day := res.Daily[0]
	assert.Equal(t, Day{2024, time.March, 5}, day.Day)
	assert.Equal(t, 3, day.Transactions)
	assert.Equal(t, 2, day.Customers)
	assert.Equal(t, "100", day.SharePct.String())
	assert.Equal(t, "8.33", day.AvgTicket.StringFixed(2))

	assert.Equal(t, "25", res.TotalRevenue.String())
	assert.Equal(t, 3, res.TotalTransactions)
	assert.Equal(t, 2, res.TotalOrders)

	require.Len(t, res.Products, 2)
	assert.Equal(t, "Product X", res.Products[0].Product)
	assert.Equal(t, "20", res.Products[0].Revenue.String())
	assert.Equal(t, "80", res.Products[0].SharePct.String())
	assert.Equal(t, "20", res.Products[1].SharePct.String())

	require.Len(t, res.CoPurchases, 2)
	assert.Equal(t, "Product X", res.CoPurchases[0].Anchor)
	assert.Equal(t, []CoOccurrence{{Product: "Product Y", Count: 1}}, res.CoPurchases[0].Items)
}

func TestValidateMissingFieldReportedFirst(t *testing.T) {
	tbl := Table{
		Columns: []string{ColumnTimestamp, ColumnValue, ColumnOrderID},
		Rows:    [][]string{{"not a date", "x", ""}},
	}

	_, err := Validate(tbl, DateRange{}, ParseOptions{})

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ColumnProduct, missing.Field)
}

func TestValidateMissingFieldNamesFirstAbsent(t *testing.T) {
	tbl := Table{Columns: []string{"foo", ColumnProduct}}

	_, err := Validate(tbl, DateRange{}, ParseOptions{})

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ColumnTimestamp, missing.Field)
}

func TestValidateHeaderWhitespaceAndColumnOrder(t *testing.T) {
	tbl := Table{
		Columns: []string{" xProd ", "extra", "Chave_de_Acesso", "vProd", "dhEmi"},
		Rows:    [][]string{{"Café", "ignored", "K1", "3,50", "2024-01-02 08:00:00"}},
	}

	txs, err := Validate(tbl, DateRange{}, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Café", txs[0].Product)
	assert.Equal(t, "3.5", txs[0].Value.String())
	assert.Equal(t, 2, txs[0].Row)
}

func TestValidateMalformedTimestamp(t *testing.T) {
	tbl := table(
		row("2024-01-02 08:00:00", "1", "A", "P"),
		row("yesterday", "1", "B", "P"),
	)

	_, err := Validate(tbl, DateRange{}, ParseOptions{})

	var malformed *MalformedTimestampError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 3, malformed.Row)
	assert.Equal(t, "yesterday", malformed.Value)
}

func TestValidateInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		row   []string
		field string
	}{
		{"negative value", row("2024-01-02", "-1", "A", "P"), ColumnValue},
		{"garbage value", row("2024-01-02", "abc", "A", "P"), ColumnValue},
		{"empty value", row("2024-01-02", "", "A", "P"), ColumnValue},
		{"empty order", row("2024-01-02", "1", " ", "P"), ColumnOrderID},
		{"empty product", row("2024-01-02", "1", "A", ""), ColumnProduct},
		{"short row", []string{"2024-01-02", "1"}, ColumnOrderID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(table(tc.row), DateRange{}, ParseOptions{})
			var invalid *InvalidValueError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestValidateParsesValueFormats(t *testing.T) {
	for raw, want := range map[string]string{
		"12.5":     "12.5",
		"12,50":    "12.5",
		"1.234,56": "1234.56",
		"0":        "0",
	} {
		got, err := parseValue(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got.String(), raw)
	}
}

func TestValidateZonelessTimestampsUseLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	txs, err := Validate(table(row("2024-01-02 23:30:00", "1", "A", "P")), DateRange{}, ParseOptions{Location: loc})
	require.NoError(t, err)

	assert.Equal(t, loc, txs[0].Timestamp.Location())
	assert.Equal(t, 23, HourOf(txs[0].Timestamp))
	assert.Equal(t, Day{2024, time.January, 2}, DayOf(txs[0].Timestamp))
}

func TestValidateDateRangeInclusive(t *testing.T) {
	tbl := table(
		row("2024-01-31 23:59:59", "1", "A", "P"),
		row("2024-02-01 00:00:00", "1", "B", "P"),
		row("2024-02-10 23:59:59", "1", "C", "P"),
		row("2024-02-11 00:00:00", "1", "D", "P"),
	)
	rng, err := ParseDateRange("01/02/2024", "10/02/2024")
	require.NoError(t, err)

	txs, err := Validate(tbl, rng, ParseOptions{})
	require.NoError(t, err)

	require.Len(t, txs, 2)
	for _, tx := range txs {
		assert.True(t, rng.Contains(DayOf(tx.Timestamp)))
	}
	assert.Equal(t, "B", txs[0].OrderID)
	assert.Equal(t, "C", txs[1].OrderID)
}

func TestValidateEmptyRange(t *testing.T) {
	tbl := table(row("2024-01-31 10:00:00", "1", "A", "P"))
	rng, err := ParseDateRange("01/03/2024", "31/03/2024")
	require.NoError(t, err)

	_, err = Validate(tbl, rng, ParseOptions{})

	var empty *EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, rng, empty.Range)
}

func TestValidateRejectsHalfRange(t *testing.T) {
	rng := DateRange{Start: Day{2024, time.January, 1}}
	_, err := Validate(table(row("2024-01-01", "1", "A", "P")), rng, ParseOptions{})
	assert.ErrorIs(t, err, ErrIncompleteRange)
}

func TestParseDateRange(t *testing.T) {
	rng, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, rng.IsZero())

	_, err = ParseDateRange("01/01/2024", "")
	assert.ErrorIs(t, err, ErrIncompleteRange)

	_, err = ParseDateRange("2024-01-01", "02/01/2024")
	assert.ErrorIs(t, err, ErrMalformedDate)

	_, err = ParseDateRange("05/01/2024", "02/01/2024")
	assert.ErrorIs(t, err, ErrInvertedRange)

	rng, err = ParseDateRange("02/01/2024", "05/01/2024")
	require.NoError(t, err)
	assert.Equal(t, Day{2024, time.January, 2}, rng.Start)
	assert.Equal(t, Day{2024, time.January, 5}, rng.End)
}

func TestHourlyAverageDividesByDistinctMonths(t *testing.T) {
	tbl := table(
		row("2023-01-10 09:00:00", "1", "A", "P"),
		row("2023-01-11 09:30:00", "1", "B", "P"),
		row("2024-01-10 09:10:00", "1", "C", "P"),
		row("2024-01-10 14:00:00", "1", "D", "P"),
	)

	res, err := Analyze(tbl, DateRange{}, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Months)
	assert.Equal(t, Series[int, float64]{{Key: 9, Value: 1.5}, {Key: 14, Value: 0.5}}, res.HourlyAverage)
	assert.Equal(t, []Month{{2023, time.January}, {2024, time.January}}, monthsOf(res.Monthly))
}

func monthsOf(rows []MonthlySummary) []Month {
	out := make([]Month, len(rows))
	for i, r := range rows {
		out[i] = r.Month
	}
	return out
}

func TestDailySeriesSortedAndSparse(t *testing.T) {
	tbl := table(
		row("2024-02-03 09:00:00", "2", "A", "P"),
		row("2024-01-30 09:00:00", "4", "B", "P"),
		row("2024-02-03 10:00:00", "6", "C", "P"),
	)

	res, err := Analyze(tbl, DateRange{}, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []Day{{2024, time.January, 30}, {2024, time.February, 3}}, res.TransactionsPerDay.Keys())
	assert.Equal(t, []int{1, 2}, res.TransactionsPerDay.Values())
	assert.Equal(t, "33.33", res.Daily[0].SharePct.String())
	assert.Equal(t, "66.67", res.Daily[1].SharePct.String())
	assert.Equal(t, "4", res.Daily[1].AvgTicket.String())
	assert.Equal(t, Day{2024, time.January, 30}, res.FirstDay)
	assert.Equal(t, Day{2024, time.February, 3}, res.LastDay)

	require.Len(t, res.Monthly, 2)
	assert.Equal(t, "4", res.Monthly[1].AvgTicket.String())
	assert.Equal(t, 2, res.Monthly[1].Customers)
}

func TestRankingTiesKeepFirstAppearance(t *testing.T) {
	tbl := table(
		row("2024-01-01", "5", "A", "Zeta"),
		row("2024-01-01", "5", "B", "Alpha"),
		row("2024-01-01", "9", "C", "Mid"),
	)

	res, err := Analyze(tbl, DateRange{}, ParseOptions{})
	require.NoError(t, err)

	names := make([]string, len(res.Products))
	for i, p := range res.Products {
		names[i] = p.Product
		assert.Equal(t, i+1, p.Rank)
	}
	assert.Equal(t, []string{"Mid", "Zeta", "Alpha"}, names)
}

func manyProducts(n int) Table {
	var rows [][]string
	for i := 0; i < n; i++ {
		rows = append(rows, row("2024-05-01 12:00:00", fmt.Sprintf("%d.37", i+1), fmt.Sprintf("O%d", i%7), fmt.Sprintf("P%02d", i)))
	}
	return table(rows...)
}

func TestSharesSumToHundred(t *testing.T) {
	res, err := Analyze(manyProducts(57), DateRange{}, ParseOptions{})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, p := range res.Products {
		sum = sum.Add(p.SharePct)
	}
	assert.True(t, sum.Sub(decimal.NewFromInt(100)).Abs().LessThan(decimal.RequireFromString("0.01")), "sum=%s", sum)
}

func TestConcentrationMonotonic(t *testing.T) {
	res, err := Analyze(manyProducts(57), DateRange{}, ParseOptions{})
	require.NoError(t, err)

	require.Len(t, res.Concentration, len(ConcentrationThresholds))
	for i := 1; i < len(res.Concentration); i++ {
		prev, cur := res.Concentration[i-1], res.Concentration[i]
		assert.True(t, cur.SharePct.GreaterThanOrEqual(prev.SharePct), "top %d < top %d", cur.TopN, prev.TopN)
	}
	assert.Equal(t, 50, res.Concentration[len(res.Concentration)-1].TopN)
}

func TestConcentrationWithFewProducts(t *testing.T) {
	res, err := Analyze(manyProducts(3), DateRange{}, ParseOptions{})
	require.NoError(t, err)

	for _, c := range res.Concentration {
		assert.Equal(t, "100", c.SharePct.String())
	}
}

func TestTopByMonthCappedAndSorted(t *testing.T) {
	res, err := Analyze(manyProducts(35), DateRange{}, ParseOptions{})
	require.NoError(t, err)

	require.Len(t, res.TopByMonth, 1)
	list := res.TopByMonth[0].Products
	require.Len(t, list, TopProductsPerMonth)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].Revenue.GreaterThanOrEqual(list[i].Revenue))
	}
	assert.Equal(t, "P34", list[0].Product)
}

func TestCoPurchaseExcludesAnchorAndCountsOrdersOnce(t *testing.T) {
	tbl := table(
		row("2024-01-01", "100", "O1", "Anchor"),
		row("2024-01-01", "1", "O1", "Bread"),
		row("2024-01-01", "1", "O1", "Bread"),
		row("2024-01-01", "1", "O1", "Milk"),
		row("2024-01-01", "100", "O2", "Anchor"),
		row("2024-01-01", "1", "O2", "Milk"),
		row("2024-01-01", "1", "O3", "Eggs"),
		row("2024-01-01", "100", "O3", "Anchor"),
		row("2024-01-01", "1", "O4", "Cheese"),
	)

	res, err := Analyze(tbl, DateRange{}, ParseOptions{})
	require.NoError(t, err)

	anchor := res.CoPurchases[0]
	assert.Equal(t, "Anchor", anchor.Anchor)
	assert.Equal(t, []CoOccurrence{
		{Product: "Milk", Count: 2},
		{Product: "Bread", Count: 1},
		{Product: "Eggs", Count: 1},
	}, anchor.Items)
}

func TestCoPurchaseBoundedToLimit(t *testing.T) {
	var rows [][]string
	rows = append(rows, row("2024-01-01", "1000", "O1", "Anchor"))
	for i := 0; i < 15; i++ {
		rows = append(rows, row("2024-01-01", "1", "O1", fmt.Sprintf("Item%02d", i)))
	}

	res, err := Analyze(table(rows...), DateRange{}, ParseOptions{})
	require.NoError(t, err)

	require.Len(t, res.CoPurchases, CoPurchaseAnchors)
	items := res.CoPurchases[0].Items
	require.Len(t, items, CoPurchaseLimit)
	assert.Equal(t, "Item00", items[0].Product)
	for i, it := range items {
		assert.NotEqual(t, "Anchor", it.Product)
		if i > 0 {
			assert.GreaterOrEqual(t, items[i-1].Count, it.Count)
		}
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	tbl := manyProducts(40)
	rng, err := ParseDateRange("01/05/2024", "31/05/2024")
	require.NoError(t, err)

	first, err := Analyze(tbl, rng, ParseOptions{})
	require.NoError(t, err)
	second, err := Analyze(tbl, rng, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmptyTableIsEmptyResult(t *testing.T) {
	_, err := Analyze(table(), DateRange{}, ParseOptions{})
	var empty *EmptyResultError
	assert.True(t, errors.As(err, &empty))
}
