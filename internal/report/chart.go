package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	chart "github.com/wcharczuk/go-chart/v2"

	"salesreport/internal/sales"
)

const (
	defaultChartWidth  = 1200
	defaultChartHeight = 600
	barWidth           = 20
	barSpacing         = 10
)

// ChartRenderer draws the per-day and per-hour bar charts as PNG files.
type ChartRenderer struct {
	dir    string
	width  int
	height int
	logger zerolog.Logger
}

func NewChartRenderer(dir string, width, height int, logger zerolog.Logger) *ChartRenderer {
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	return &ChartRenderer{
		dir:    dir,
		width:  width,
		height: height,
		logger: logger.With().Str("component", "report_chart").Logger(),
	}
}

func (c *ChartRenderer) Name() string { return FormatChart }

func (c *ChartRenderer) Render(ctx context.Context, res *sales.Result) error {
	if err := ensureDir(c.dir); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	days := make([]chart.Value, 0, len(res.TransactionsPerDay))
	for _, p := range res.TransactionsPerDay {
		days = append(days, chart.Value{Label: p.Key.String(), Value: float64(p.Value)})
	}
	if err := c.writeBars(filepath.Join(c.dir, DailyChartFile), "Vendas por Dia", "Número de Vendas", days, 45); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	hours := make([]chart.Value, 0, len(res.HourlyAverage))
	for _, p := range res.HourlyAverage {
		hours = append(hours, chart.Value{Label: strconv.Itoa(p.Key), Value: p.Value})
	}
	return c.writeBars(filepath.Join(c.dir, HourlyChartFile), "Vendas por Hora (Média Mensal)", "Número Médio de Vendas", hours, 0)
}

func (c *ChartRenderer) writeBars(path, title, yName string, bars []chart.Value, rotation float64) error {
	if len(bars) == 0 {
		return errors.New("no data to plot for " + title)
	}

	maxValue := 0.0
	for _, b := range bars {
		maxValue = max(maxValue, b.Value)
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      max(c.width, len(bars)*(barWidth+barSpacing)+160),
		Height:     c.height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.Style{
			TextRotationDegrees: rotation,
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.1f")
			},
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	c.logger.Info().Str("path", path).Int("bars", len(bars)).Msg("chart written")
	return nil
}

var _ Renderer = (*ChartRenderer)(nil)
