package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

// schemaLockKey serialises concurrent schema creation across processes.
const schemaLockKey int64 = 0x5a1e5

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS analysis_runs (
        id            UUID PRIMARY KEY,
        source        TEXT        NOT NULL,
        range_start   DATE        NULL,
        range_end     DATE        NULL,
        first_day     DATE        NOT NULL,
        last_day      DATE        NOT NULL,
        total_revenue NUMERIC     NOT NULL,
        transactions  INTEGER     NOT NULL,
        orders        INTEGER     NOT NULL,
        products      INTEGER     NOT NULL,
        output_dir    TEXT        NOT NULL,
        created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    );
    CREATE TABLE IF NOT EXISTS run_products (
        run_id    UUID    NOT NULL REFERENCES analysis_runs (id) ON DELETE CASCADE,
        rank      INTEGER NOT NULL,
        product   TEXT    NOT NULL,
        revenue   NUMERIC NOT NULL,
        share_pct NUMERIC NOT NULL,
        PRIMARY KEY (run_id, rank)
    );
    CREATE INDEX IF NOT EXISTS analysis_runs_created_at_idx ON analysis_runs (created_at DESC);`

	advisoryXactLockSQL = `SELECT pg_advisory_xact_lock($1);`

	insertRunSQL = `INSERT INTO analysis_runs (
        id,
        source,
        range_start,
        range_end,
        first_day,
        last_day,
        total_revenue,
        transactions,
        orders,
        products,
        output_dir
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
    )
    RETURNING created_at;`

	listRecentRunsSQL = `SELECT
        id,
        source,
        range_start,
        range_end,
        first_day,
        last_day,
        total_revenue::text,
        transactions,
        orders,
        products,
        output_dir,
        created_at
    FROM analysis_runs
    ORDER BY created_at DESC
    LIMIT $1;`

	listRunProductsSQL = `SELECT
        run_id,
        rank,
        product,
        revenue::text,
        share_pct::text
    FROM run_products
    WHERE run_id = $1
    ORDER BY rank
    LIMIT $2;`
)

var runProductColumns = []string{"run_id", "rank", "product", "revenue", "share_pct"}

// RunStore defines persistence of analysis runs.
type RunStore interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord, products []ProductRecord) (RunRecord, error)
	ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	ListRunProducts(ctx context.Context, runID uuid.UUID, limit int) ([]ProductRecord, error)
}

// Store persists analysis runs in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// EnsureSchema creates the run tables when missing. An advisory lock held for the
// transaction keeps concurrent invocations from racing on the catalog.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, advisoryXactLockSQL, schemaLockKey); err != nil {
			return fmt.Errorf("acquire schema lock: %w", err)
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	})
}

// SaveRun inserts the run summary and bulk-copies its product ranking in one transaction.
func (s *Store) SaveRun(ctx context.Context, run RunRecord, products []ProductRecord) (RunRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return RunRecord{}, err
	}
	if run.ID == uuid.Nil {
		return RunRecord{}, errors.New("storage: run id is required")
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, insertRunSQL,
			run.ID,
			run.Source,
			run.RangeStart,
			run.RangeEnd,
			run.FirstDay,
			run.LastDay,
			run.TotalRevenue.String(),
			run.Transactions,
			run.Orders,
			run.Products,
			run.OutputDir,
		)
		if err := row.Scan(&run.CreatedAt); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		if len(products) == 0 {
			return nil
		}
		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{"run_products"},
			runProductColumns,
			pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
				p := products[i]
				return []any{run.ID, p.Rank, p.Product, toNumeric(p.Revenue), toNumeric(p.SharePct)}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy run products: %w", err)
		}
		if copied != int64(len(products)) {
			return fmt.Errorf("copy run products: wrote %d of %d rows", copied, len(products))
		}
		return nil
	})
	if err != nil {
		return RunRecord{}, err
	}
	return run, nil
}

// ListRecentRuns lists the most recent runs ordered by descending creation time.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRunsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent runs: %w", queryErr)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0, limit)
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return runs, nil
}

// ListRunProducts lists the first limit entries of a run's product ranking.
func (s *Store) ListRunProducts(ctx context.Context, runID uuid.UUID, limit int) ([]ProductRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRunProductsSQL, runID, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list run products: %w", queryErr)
	}
	defer rows.Close()

	products := make([]ProductRecord, 0, limit)
	for rows.Next() {
		var (
			rec        ProductRecord
			revenueStr string
			shareStr   string
		)
		if err := rows.Scan(&rec.RunID, &rec.Rank, &rec.Product, &revenueStr, &shareStr); err != nil {
			return nil, err
		}
		if rec.Revenue, err = decimal.NewFromString(revenueStr); err != nil {
			return nil, fmt.Errorf("parse revenue: %w", err)
		}
		if rec.SharePct, err = decimal.NewFromString(shareStr); err != nil {
			return nil, fmt.Errorf("parse share pct: %w", err)
		}
		products = append(products, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return products, nil
}

func scanRun(rows pgx.Rows) (RunRecord, error) {
	var (
		run        RunRecord
		revenueStr string
	)
	if err := rows.Scan(
		&run.ID,
		&run.Source,
		&run.RangeStart,
		&run.RangeEnd,
		&run.FirstDay,
		&run.LastDay,
		&revenueStr,
		&run.Transactions,
		&run.Orders,
		&run.Products,
		&run.OutputDir,
		&run.CreatedAt,
	); err != nil {
		return RunRecord{}, err
	}

	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse total revenue: %w", err)
	}
	run.TotalRevenue = revenue
	return run, nil
}

// toNumeric converts a decimal into the binary-encodable pgtype used by COPY.
func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

var _ RunStore = (*Store)(nil)
