package report

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"salesreport/internal/sales"
)

// section is a titled table shared by the console and markdown outputs.
type section struct {
	Title  string
	Header []string
	Rows   [][]string
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func dailySection(res *sales.Result) section {
	s := section{
		Title:  "Resumo das Vendas por Dia",
		Header: []string{"Data", "Número de Vendas", "Percentual", "Faturamento", "Ticket Médio", "Quantidade de Clientes"},
	}
	for _, d := range res.Daily {
		s.Rows = append(s.Rows, []string{
			d.Day.String(),
			strconv.Itoa(d.Transactions),
			percent(d.SharePct),
			money(d.Revenue),
			money(d.AvgTicket),
			strconv.Itoa(d.Customers),
		})
	}
	return s
}

func monthlySection(res *sales.Result) section {
	s := section{
		Title:  "Resumo das Vendas por Mês",
		Header: []string{"Mês", "Número de Vendas", "Faturamento", "Ticket Médio", "Quantidade de Clientes"},
	}
	for _, m := range res.Monthly {
		s.Rows = append(s.Rows, []string{
			m.Month.String(),
			strconv.Itoa(m.Transactions),
			money(m.Revenue),
			money(m.AvgTicket),
			strconv.Itoa(m.Customers),
		})
	}
	return s
}

func topByMonthSections(res *sales.Result) []section {
	out := make([]section, 0, len(res.TopByMonth))
	for _, m := range res.TopByMonth {
		s := section{
			Title:  "Mês: " + m.Month.String(),
			Header: []string{"Produto", "Valor"},
		}
		for _, p := range m.Products {
			s.Rows = append(s.Rows, []string{p.Product, money(p.Revenue)})
		}
		out = append(out, s)
	}
	return out
}

func coPurchaseSections(res *sales.Result) []section {
	out := make([]section, 0, len(res.CoPurchases))
	for _, set := range res.CoPurchases {
		s := section{
			Title:  "Produto: " + set.Anchor,
			Header: []string{"Produto", "Quantidade"},
		}
		for _, it := range set.Items {
			s.Rows = append(s.Rows, []string{it.Product, strconv.Itoa(it.Count)})
		}
		out = append(out, s)
	}
	return out
}

func concentrationLines(res *sales.Result) []string {
	out := make([]string, 0, len(res.Concentration))
	for _, c := range res.Concentration {
		out = append(out, fmt.Sprintf("Top %d Produtos: %s", c.TopN, percent(c.SharePct)))
	}
	return out
}

func periodLine(res *sales.Result) string {
	return fmt.Sprintf("Período: %s a %s | Vendas: %d | Pedidos: %d | Faturamento: %s",
		res.FirstDay, res.LastDay, res.TotalTransactions, res.TotalOrders, money(res.TotalRevenue))
}
