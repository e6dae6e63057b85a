package sales

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayouts are tried in order when parsing the timestamp column.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// ParseOptions tune how raw cells become transactions.
type ParseOptions struct {
	// Location applies to timestamps without an explicit offset. Nil means UTC.
	Location *time.Location
}

// Validate checks the table contract and converts its rows into transactions,
// keeping only those whose day falls inside rng.
func Validate(tbl Table, rng DateRange, opts ParseOptions) ([]Transaction, error) {
	if err := checkRange(rng); err != nil {
		return nil, err
	}

	idx, err := columnIndex(tbl.Columns)
	if err != nil {
		return nil, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	// Timestamps are checked for every row before any other field so a broken
	// date column is reported as such even if other cells are also bad.
	stamps := make([]time.Time, len(tbl.Rows))
	for i, row := range tbl.Rows {
		raw := cell(row, idx[ColumnTimestamp])
		ts, ok := parseTimestamp(raw, loc)
		if !ok {
			return nil, &MalformedTimestampError{Row: rowNumber(i), Value: raw}
		}
		stamps[i] = ts
	}

	txs := make([]Transaction, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		tx, err := buildTransaction(row, rowNumber(i), stamps[i], idx)
		if err != nil {
			return nil, err
		}
		if !rng.Contains(DayOf(tx.Timestamp)) {
			continue
		}
		txs = append(txs, tx)
	}

	if len(txs) == 0 {
		return nil, &EmptyResultError{Range: rng}
	}
	return txs, nil
}

func checkRange(rng DateRange) error {
	if rng.Start.IsZero() != rng.End.IsZero() {
		return ErrIncompleteRange
	}
	if rng.Start.Compare(rng.End) > 0 {
		return ErrInvertedRange
	}
	return nil
}

func columnIndex(columns []string) (map[string]int, error) {
	positions := make(map[string]int, len(columns))
	for i, name := range columns {
		name = strings.TrimSpace(name)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	idx := make(map[string]int, len(RequiredColumns))
	for _, required := range RequiredColumns {
		pos, ok := positions[required]
		if !ok {
			return nil, &MissingFieldError{Field: required}
		}
		idx[required] = pos
	}
	return idx, nil
}

func buildTransaction(row []string, rowNum int, ts time.Time, idx map[string]int) (Transaction, error) {
	rawValue := cell(row, idx[ColumnValue])
	value, err := parseValue(rawValue)
	if err != nil {
		return Transaction{}, &InvalidValueError{Row: rowNum, Field: ColumnValue, Value: rawValue, Reason: err.Error(), Err: err}
	}

	orderID := cell(row, idx[ColumnOrderID])
	if orderID == "" {
		return Transaction{}, &InvalidValueError{Row: rowNum, Field: ColumnOrderID, Reason: "empty"}
	}

	product := cell(row, idx[ColumnProduct])
	if product == "" {
		return Transaction{}, &InvalidValueError{Row: rowNum, Field: ColumnProduct, Reason: "empty"}
	}

	return Transaction{
		Row:       rowNum,
		Timestamp: ts,
		Value:     value,
		OrderID:   orderID,
		Product:   product,
	}, nil
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range TimestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

var (
	errEmptyValue    = errors.New("empty")
	errNegativeValue = errors.New("negative")
)

// parseValue accepts plain decimals as well as comma-decimal inputs such as "1.234,56".
func parseValue(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errEmptyValue
	}

	normalized := raw
	if strings.Contains(normalized, ",") {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, err
	}
	if value.IsNegative() {
		return decimal.Zero, errNegativeValue
	}
	return value, nil
}

func cell(row []string, pos int) string {
	if pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// rowNumber maps a zero-based data row index to its 1-based sheet row, header included.
func rowNumber(i int) int {
	return i + 2
}
