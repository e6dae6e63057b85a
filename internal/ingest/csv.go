package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"salesreport/internal/sales"
)

// saleRecord maps the columns of a CSV export onto the fields the pipeline needs.
type saleRecord struct {
	Timestamp string `csv:"dhEmi"`
	Value     string `csv:"vProd"`
	OrderID   string `csv:"Chave_de_Acesso"`
	Product   string `csv:"xProd"`
}

func (r *saleRecord) field(column string) string {
	switch column {
	case sales.ColumnTimestamp:
		return r.Timestamp
	case sales.ColumnValue:
		return r.Value
	case sales.ColumnOrderID:
		return r.OrderID
	case sales.ColumnProduct:
		return r.Product
	}
	return ""
}

// headerReader hands records to gocsv while keeping a cleaned copy of the header,
// which the validator needs to report missing columns.
type headerReader struct {
	r      *csv.Reader
	header []string
}

func (h *headerReader) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil {
		return nil, err
	}
	if h.header == nil {
		rec = h.clean(rec)
	}
	return rec, nil
}

func (h *headerReader) ReadAll() ([][]string, error) {
	recs, err := h.r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 && h.header == nil {
		recs[0] = h.clean(recs[0])
	}
	return recs, nil
}

func (h *headerReader) clean(rec []string) []string {
	h.header = make([]string, len(rec))
	for i, c := range rec {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		h.header[i] = strings.TrimSpace(c)
	}
	return h.header
}

// CSV loads transactions from a delimited text export.
type CSV struct {
	delimiter rune
	logger    zerolog.Logger
}

// NewCSV constructs a csv loader; a zero delimiter means ','.
func NewCSV(delimiter rune, logger zerolog.Logger) *CSV {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSV{delimiter: delimiter, logger: logger.With().Str("component", "csv_loader").Logger()}
}

func (c *CSV) Load(ctx context.Context, path string) (sales.Table, error) {
	if err := ctx.Err(); err != nil {
		return sales.Table{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return sales.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			c.logger.Warn().Err(cerr).Msg("close csv")
		}
	}()

	r := csv.NewReader(file)
	r.Comma = c.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	hr := &headerReader{r: r}

	var records []*saleRecord
	if err := gocsv.UnmarshalCSV(hr, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			c.logger.Warn().Str("file", path).Msg("csv file is empty")
			return sales.Table{}, nil
		}
		return sales.Table{}, fmt.Errorf("parse csv: %w", err)
	}

	tbl := sales.Table{Rows: make([][]string, 0, len(records))}
	for _, col := range sales.RequiredColumns {
		if columnPosition(hr.header, col) >= 0 {
			tbl.Columns = append(tbl.Columns, col)
		}
	}
	for _, rec := range records {
		row := make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			row[i] = rec.field(col)
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	c.logger.Info().Str("file", path).Int("rows", len(tbl.Rows)).Msg("csv loaded")
	return tbl, nil
}

var _ Loader = (*CSV)(nil)
