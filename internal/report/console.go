package report

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"salesreport/internal/sales"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.FgYellow)
	shareColor   = color.New(color.FgGreen).SprintFunc()
)

// ConsoleRenderer prints the report tables to a terminal.
type ConsoleRenderer struct {
	w io.Writer
}

func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{w: w}
}

func (c *ConsoleRenderer) Name() string { return FormatConsole }

func (c *ConsoleRenderer) Render(ctx context.Context, res *sales.Result) error {
	if _, err := fmt.Fprintln(c.w, periodLine(res)); err != nil {
		return err
	}

	if err := c.section(dailySection(res), headingColor); err != nil {
		return err
	}
	if err := c.section(monthlySection(res), headingColor); err != nil {
		return err
	}

	c.heading(fmt.Sprintf("Top %d Produtos Mais Vendidos por Mês", sales.TopProductsPerMonth))
	for _, s := range topByMonthSections(res) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.section(s, titleColor); err != nil {
			return err
		}
	}

	c.heading("Percentual do Faturamento dos Produtos Mais Vendidos")
	for _, line := range concentrationLines(res) {
		fmt.Fprintln(c.w, shareColor(line))
	}

	c.heading(fmt.Sprintf("Produtos Comprados Juntos com os %d Itens Mais Vendidos", sales.CoPurchaseAnchors))
	for _, s := range coPurchaseSections(res) {
		if err := c.section(s, titleColor); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConsoleRenderer) heading(text string) {
	fmt.Fprintln(c.w)
	headingColor.Fprintln(c.w, text)
}

func (c *ConsoleRenderer) section(s section, title *color.Color) error {
	fmt.Fprintln(c.w)
	title.Fprintln(c.w, s.Title)

	table := tablewriter.NewWriter(c.w)
	table.Header(s.Header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(s.Rows); err != nil {
		return err
	}
	return table.Render()
}

var _ Renderer = (*ConsoleRenderer)(nil)
