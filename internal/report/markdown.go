package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"

	"salesreport/internal/sales"
)

// MarkdownRenderer writes the summary document resumo_vendas.md.
type MarkdownRenderer struct {
	dir    string
	charts bool
	logger zerolog.Logger
}

// NewMarkdownRenderer writes into dir; charts controls whether the chart images are linked.
func NewMarkdownRenderer(dir string, charts bool, logger zerolog.Logger) *MarkdownRenderer {
	return &MarkdownRenderer{
		dir:    dir,
		charts: charts,
		logger: logger.With().Str("component", "report_markdown").Logger(),
	}
}

func (m *MarkdownRenderer) Name() string { return FormatMarkdown }

func (m *MarkdownRenderer) Path() string { return filepath.Join(m.dir, SummaryFile) }

func (m *MarkdownRenderer) Render(ctx context.Context, res *sales.Result) error {
	var buf bytes.Buffer
	if err := m.write(ctx, &buf, res); err != nil {
		return err
	}
	if err := ensureDir(m.dir); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(m.Path(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write markdown summary: %w", err)
	}
	m.logger.Info().Str("path", m.Path()).Msg("markdown summary written")
	return nil
}

func (m *MarkdownRenderer) write(ctx context.Context, buf *bytes.Buffer, res *sales.Result) error {
	buf.WriteString("# Resumo das Vendas\n\n")
	buf.WriteString(periodLine(res) + "\n\n")

	if m.charts {
		buf.WriteString("## Gráficos\n\n")
		fmt.Fprintf(buf, "![Vendas por Dia](%s)\n", DailyChartFile)
		fmt.Fprintf(buf, "![Vendas por Hora](%s)\n\n", HourlyChartFile)
	}

	buf.WriteString("## Tabela Resumo por Dia\n\n")
	if err := markdownTable(buf, dailySection(res)); err != nil {
		return err
	}
	buf.WriteString("\n## Tabela Resumo por Mês\n\n")
	if err := markdownTable(buf, monthlySection(res)); err != nil {
		return err
	}

	fmt.Fprintf(buf, "\n## Top %d Produtos Mais Vendidos por Mês\n", sales.TopProductsPerMonth)
	for _, s := range topByMonthSections(res) {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(buf, "\n### %s\n\n", s.Title)
		if err := markdownTable(buf, s); err != nil {
			return err
		}
	}

	buf.WriteString("\n## Percentual do Faturamento dos Produtos Mais Vendidos\n\n")
	for _, line := range concentrationLines(res) {
		fmt.Fprintf(buf, "- %s\n", line)
	}

	fmt.Fprintf(buf, "\n## Produtos Comprados Juntos com os %d Itens Mais Vendidos\n", sales.CoPurchaseAnchors)
	for _, s := range coPurchaseSections(res) {
		fmt.Fprintf(buf, "\n### %s\n\n", s.Title)
		if len(s.Rows) == 0 {
			buf.WriteString("_Nenhum produto comprado em conjunto._\n")
			continue
		}
		if err := markdownTable(buf, s); err != nil {
			return err
		}
	}
	return nil
}

func markdownTable(buf *bytes.Buffer, s section) error {
	table := tablewriter.NewTable(buf,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(s.Header)
	if err := table.Bulk(s.Rows); err != nil {
		return err
	}
	return table.Render()
}

var _ Renderer = (*MarkdownRenderer)(nil)
