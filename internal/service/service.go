package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"salesreport/internal/ingest"
	"salesreport/internal/report"
	"salesreport/internal/sales"
	"salesreport/internal/storage"
)

// RunSaver persists run summaries. It is satisfied by *storage.Store.
type RunSaver interface {
	SaveRun(ctx context.Context, run storage.RunRecord, products []storage.ProductRecord) (storage.RunRecord, error)
}

// Request describes one analysis run.
type Request struct {
	Input     string
	Range     sales.DateRange
	OutputDir string
}

// Outcome is what a successful run produced.
type Outcome struct {
	RunID  uuid.UUID
	Result *sales.Result
	// Stored is false when persistence is disabled or failed.
	Stored   bool
	Duration time.Duration
}

// Service orchestrates loading, analysis, rendering, and persistence.
type Service struct {
	loader    ingest.Loader
	renderers []report.Renderer
	store     RunSaver
	parse     sales.ParseOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// New constructs the pipeline. store may be nil to skip persistence.
func New(loader ingest.Loader, renderers []report.Renderer, store RunSaver, parse sales.ParseOptions, logger zerolog.Logger) *Service {
	return &Service{
		loader:    loader,
		renderers: renderers,
		store:     store,
		parse:     parse,
		logger:    logger.With().Str("component", "service").Logger(),
		now:       time.Now,
	}
}

// Analyze runs the full pipeline for req. Renderers run concurrently over the same
// read-only result; the first failure cancels the rest.
func (s *Service) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	started := s.now()
	runID := uuid.New()
	logger := s.logger.With().Str("run_id", runID.String()).Str("input", req.Input).Logger()

	tbl, err := s.loader.Load(ctx, req.Input)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", req.Input, err)
	}
	logger.Debug().Int("rows", len(tbl.Rows)).Strs("columns", tbl.Columns).Msg("table loaded")

	res, err := sales.Analyze(tbl, req.Range, s.parse)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("transactions", res.TotalTransactions).
		Int("orders", res.TotalOrders).
		Int("products", len(res.Products)).
		Str("revenue", res.TotalRevenue.StringFixed(2)).
		Msg("analysis complete")

	if err := s.render(ctx, res, logger); err != nil {
		return nil, err
	}

	out := &Outcome{RunID: runID, Result: res}
	if s.store != nil {
		run, products := records(runID, req, res)
		if _, err := s.store.SaveRun(ctx, run, products); err != nil {
			logger.Error().Err(err).Msg("failed to persist run")
		} else {
			out.Stored = true
		}
	}

	out.Duration = s.now().Sub(started)
	logger.Info().Dur("duration", out.Duration).Bool("stored", out.Stored).Msg("run finished")
	return out, nil
}

func (s *Service) render(ctx context.Context, res *sales.Result, logger zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range s.renderers {
		g.Go(func() error {
			if err := r.Render(gctx, res); err != nil {
				return fmt.Errorf("render %s: %w", r.Name(), err)
			}
			logger.Debug().Str("renderer", r.Name()).Msg("renderer done")
			return nil
		})
	}
	return g.Wait()
}

func records(id uuid.UUID, req Request, res *sales.Result) (storage.RunRecord, []storage.ProductRecord) {
	run := storage.RunRecord{
		ID:           id,
		Source:       req.Input,
		FirstDay:     res.FirstDay.Time(),
		LastDay:      res.LastDay.Time(),
		TotalRevenue: res.TotalRevenue,
		Transactions: res.TotalTransactions,
		Orders:       res.TotalOrders,
		Products:     len(res.Products),
		OutputDir:    req.OutputDir,
	}
	if !req.Range.IsZero() {
		start, end := req.Range.Start.Time(), req.Range.End.Time()
		run.RangeStart, run.RangeEnd = &start, &end
	}

	products := make([]storage.ProductRecord, 0, len(res.Products))
	for _, p := range res.Products {
		products = append(products, storage.ProductRecord{
			RunID:    id,
			Rank:     p.Rank,
			Product:  p.Product,
			Revenue:  p.Revenue,
			SharePct: p.SharePct,
		})
	}
	return run, products
}
