package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"salesreport/internal/sales"
)

// Output formats understood by New.
const (
	FormatConsole  = "console"
	FormatMarkdown = "markdown"
	FormatChart    = "chart"
	FormatParquet  = "parquet"
)

// Formats lists every supported output format in rendering order.
var Formats = []string{FormatConsole, FormatMarkdown, FormatChart, FormatParquet}

// File names written inside the run folder.
const (
	DailyChartFile      = "vendas_por_dia.png"
	HourlyChartFile     = "vendas_por_hora.png"
	SummaryFile         = "resumo_vendas.md"
	DailyParquetFile    = "daily_summary.parquet"
	ProductsParquetFile = "product_revenue.parquet"
)

// Renderer turns a finished report into one output artifact.
type Renderer interface {
	Name() string
	Render(ctx context.Context, res *sales.Result) error
}

// Options configure the renderer set of one run.
type Options struct {
	// Dir is the run folder receiving file artifacts.
	Dir         string
	ChartWidth  int
	ChartHeight int
	// Stdout receives the console tables; nil means os.Stdout.
	Stdout io.Writer
}

// FolderFor returns the run folder for input: a directory under outputDir named
// after the input file without its extension.
func FolderFor(outputDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// New builds the renderers for formats, in the order given.
func New(formats []string, opts Options, logger zerolog.Logger) ([]Renderer, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	charts := false
	for _, f := range formats {
		if f == FormatChart {
			charts = true
		}
	}

	out := make([]Renderer, 0, len(formats))
	for _, f := range formats {
		switch f {
		case FormatConsole:
			out = append(out, NewConsoleRenderer(opts.Stdout))
		case FormatMarkdown:
			out = append(out, NewMarkdownRenderer(opts.Dir, charts, logger))
		case FormatChart:
			out = append(out, NewChartRenderer(opts.Dir, opts.ChartWidth, opts.ChartHeight, logger))
		case FormatParquet:
			out = append(out, NewParquetRenderer(opts.Dir, logger))
		default:
			return nil, fmt.Errorf("unknown report format %q", f)
		}
	}
	return out, nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
