package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source column identifiers. They are fixed by the fiscal export format.
const (
	ColumnTimestamp = "dhEmi"
	ColumnValue     = "vProd"
	ColumnOrderID   = "Chave_de_Acesso"
	ColumnProduct   = "xProd"
)

// RequiredColumns lists the columns every input table must carry, in check order.
var RequiredColumns = []string{ColumnTimestamp, ColumnValue, ColumnOrderID, ColumnProduct}

// Table is a raw tabular dataset as handed over by a loader: a header row plus string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Transaction is one validated sale line.
type Transaction struct {
	Row       int
	Timestamp time.Time
	Value     decimal.Decimal
	OrderID   string
	Product   string
}

// Point is a single bucket of a Series.
type Point[K any, V any] struct {
	Key   K
	Value V
}

// Series is an ordered, sparse mapping from bucket key to aggregate.
type Series[K any, V any] []Point[K, V]

// Keys returns the bucket keys in series order.
func (s Series[K, V]) Keys() []K {
	keys := make([]K, len(s))
	for i, p := range s {
		keys[i] = p.Key
	}
	return keys
}

// Values returns the aggregates in series order.
func (s Series[K, V]) Values() []V {
	values := make([]V, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}
