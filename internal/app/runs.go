package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"salesreport/internal/storage"
)

// Runs prints recently stored analysis runs, or the product ranking of one run.
func (a *App) Runs(ctx context.Context, opts RunsOptions) error {
	if opts.Limit <= 0 {
		return errors.New("limit must be greater than zero")
	}

	var runID uuid.UUID
	if opts.RunID != "" {
		id, err := uuid.Parse(opts.RunID)
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}
		runID = id
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot list runs")
	}
	defer closeStore()

	if runID != uuid.Nil {
		products, err := store.ListRunProducts(ctx, runID, opts.Limit)
		if err != nil {
			return err
		}
		return a.printRunProducts(products)
	}

	runs, err := store.ListRecentRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}
	return a.printRuns(runs)
}

func (a *App) printRuns(runs []storage.RunRecord) error {
	if len(runs) == 0 {
		fmt.Fprintln(a.Stdout, "no runs found")
		return nil
	}

	table := tablewriter.NewWriter(a.Stdout)
	table.Header([]string{"ID", "Created (UTC)", "Source", "Period", "Transactions", "Orders", "Products", "Revenue"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(runs))
	for _, run := range runs {
		data = append(data, []string{
			run.ID.String(),
			run.CreatedAt.UTC().Format(time.RFC3339),
			run.Source,
			fmt.Sprintf("%s..%s", run.FirstDay.Format(time.DateOnly), run.LastDay.Format(time.DateOnly)),
			strconv.Itoa(run.Transactions),
			strconv.Itoa(run.Orders),
			strconv.Itoa(run.Products),
			run.TotalRevenue.StringFixed(2),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func (a *App) printRunProducts(products []storage.ProductRecord) error {
	if len(products) == 0 {
		fmt.Fprintln(a.Stdout, "no products stored for run")
		return nil
	}

	table := tablewriter.NewWriter(a.Stdout)
	table.Header([]string{"Rank", "Produto", "Valor", "Percentual"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(products))
	for _, p := range products {
		data = append(data, []string{
			strconv.Itoa(p.Rank),
			p.Product,
			p.Revenue.StringFixed(2),
			p.SharePct.StringFixed(2) + "%",
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
