package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"salesreport/internal/sales"
)

// ErrUnsupportedFormat is returned for input files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Loader reads a transaction table from a file.
type Loader interface {
	Load(ctx context.Context, path string) (sales.Table, error)
}

// Options parameterise loader construction.
type Options struct {
	// Sheet selects the worksheet of xlsx inputs; empty means the first sheet.
	Sheet string
	// Delimiter is the field separator of csv inputs; zero means ','.
	Delimiter rune
}

// ForPath picks a loader from the file extension.
func ForPath(path string, opts Options, logger zerolog.Logger) (Loader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return NewExcel(opts.Sheet, logger), nil
	case ".csv":
		return NewCSV(opts.Delimiter, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
