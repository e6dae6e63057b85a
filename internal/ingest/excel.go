package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"salesreport/internal/sales"
)

// excelTimestampLayout is how converted serial dates are handed to the validator.
const excelTimestampLayout = "2006-01-02T15:04:05"

// Excel loads transactions from an xlsx workbook.
type Excel struct {
	sheet  string
	logger zerolog.Logger
}

// NewExcel constructs an xlsx loader reading sheet, or the first sheet when empty.
func NewExcel(sheet string, logger zerolog.Logger) *Excel {
	return &Excel{sheet: sheet, logger: logger.With().Str("component", "excel_loader").Logger()}
}

// Load reads raw cell values so numeric and date cells are not re-formatted by the
// workbook's number formats.
func (e *Excel) Load(ctx context.Context, path string) (sales.Table, error) {
	if err := ctx.Err(); err != nil {
		return sales.Table{}, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return sales.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn().Err(cerr).Msg("close workbook")
		}
	}()

	sheet := e.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return sales.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		e.logger.Warn().Str("sheet", sheet).Msg("worksheet is empty")
		return sales.Table{}, nil
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	tbl := sales.Table{Columns: rows[0], Rows: rows[1:]}
	if col := columnPosition(tbl.Columns, sales.ColumnTimestamp); col >= 0 {
		for _, r := range tbl.Rows {
			if col < len(r) {
				r[col] = serialToTimestamp(r[col], date1904)
			}
		}
	}

	e.logger.Info().Str("file", path).Str("sheet", sheet).Int("rows", len(tbl.Rows)).Msg("workbook loaded")
	return tbl, nil
}

// serialToTimestamp converts an Excel serial date into a timestamp string, leaving
// any other content untouched for the validator to judge.
func serialToTimestamp(raw string, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return raw
	}
	ts, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return raw
	}
	return ts.Format(excelTimestampLayout)
}

func columnPosition(columns []string, name string) int {
	for i, c := range columns {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}

var _ Loader = (*Excel)(nil)
