package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salesreport/internal/config"
)

func TestNewPoolRequiresDSN(t *testing.T) {
	if _, err := NewPool(context.Background(), config.DatabaseConfig{}); err == nil {
		t.Fatal("empty dsn should be rejected")
	}
}

func TestNewPoolRejectsMalformedDSN(t *testing.T) {
	if _, err := NewPool(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz"}); err == nil {
		t.Fatal("malformed dsn should be rejected")
	}
}

func TestNilStoreNotConfigured(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if err := s.EnsureSchema(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("EnsureSchema: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.SaveRun(ctx, RunRecord{ID: uuid.New()}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("SaveRun: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.ListRecentRuns(ctx, 5); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("ListRecentRuns: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.ListRunProducts(ctx, uuid.New(), 5); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("ListRunProducts: expected ErrNotConfigured, got %v", err)
	}
	s.Close()
}

func TestEmptyStoreNotConfigured(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.ListRecentRuns(context.Background(), 1); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestToNumeric(t *testing.T) {
	d := decimal.RequireFromString("1234.5600")
	n := toNumeric(d)
	if !n.Valid {
		t.Fatal("numeric should be valid")
	}
	got := decimal.NewFromBigInt(n.Int, n.Exp)
	if !got.Equal(d) {
		t.Fatalf("round trip mismatch: %s != %s", got, d)
	}
}
