package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"salesreport/internal/sales"
)

// DailyRow is one record of daily_summary.parquet.
type DailyRow struct {
	Day          string  `parquet:"day,snappy"`
	Transactions int64   `parquet:"transactions,snappy"`
	SharePct     float64 `parquet:"share_pct,snappy"`
	Revenue      float64 `parquet:"revenue,snappy"`
	AvgTicket    float64 `parquet:"avg_ticket,snappy"`
	Customers    int64   `parquet:"customers,snappy"`
}

// ProductRow is one record of product_revenue.parquet.
type ProductRow struct {
	Rank     int32   `parquet:"rank,snappy"`
	Product  string  `parquet:"product,snappy"`
	Revenue  float64 `parquet:"revenue,snappy"`
	SharePct float64 `parquet:"share_pct,snappy"`
}

// ParquetRenderer exports the daily summary and product ranking as Parquet files.
type ParquetRenderer struct {
	dir    string
	logger zerolog.Logger
}

func NewParquetRenderer(dir string, logger zerolog.Logger) *ParquetRenderer {
	return &ParquetRenderer{dir: dir, logger: logger.With().Str("component", "report_parquet").Logger()}
}

func (p *ParquetRenderer) Name() string { return FormatParquet }

func (p *ParquetRenderer) Render(ctx context.Context, res *sales.Result) error {
	if err := ensureDir(p.dir); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	daily := make([]DailyRow, 0, len(res.Daily))
	for _, d := range res.Daily {
		daily = append(daily, DailyRow{
			Day:          d.Day.String(),
			Transactions: int64(d.Transactions),
			SharePct:     d.SharePct.InexactFloat64(),
			Revenue:      d.Revenue.InexactFloat64(),
			AvgTicket:    d.AvgTicket.InexactFloat64(),
			Customers:    int64(d.Customers),
		})
	}
	if err := writeParquet(filepath.Join(p.dir, DailyParquetFile), daily); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	products := make([]ProductRow, 0, len(res.Products))
	for _, pr := range res.Products {
		products = append(products, ProductRow{
			Rank:     int32(pr.Rank),
			Product:  pr.Product,
			Revenue:  pr.Revenue.InexactFloat64(),
			SharePct: pr.SharePct.Round(4).InexactFloat64(),
		})
	}
	if err := writeParquet(filepath.Join(p.dir, ProductsParquetFile), products); err != nil {
		return err
	}

	p.logger.Info().Int("days", len(daily)).Int("products", len(products)).Msg("parquet export written")
	return nil
}

func writeParquet[T any](path string, rows []T) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ Renderer = (*ParquetRenderer)(nil)
