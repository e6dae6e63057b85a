package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunRecord summarises one persisted analysis run.
type RunRecord struct {
	ID     uuid.UUID
	Source string
	// RangeStart and RangeEnd are nil when the run was not date-filtered.
	RangeStart   *time.Time
	RangeEnd     *time.Time
	FirstDay     time.Time
	LastDay      time.Time
	TotalRevenue decimal.Decimal
	Transactions int
	Orders       int
	Products     int
	OutputDir    string
	CreatedAt    time.Time
}

// ProductRecord is one line of a run's overall product ranking.
type ProductRecord struct {
	RunID    uuid.UUID
	Rank     int
	Product  string
	Revenue  decimal.Decimal
	SharePct decimal.Decimal
}
