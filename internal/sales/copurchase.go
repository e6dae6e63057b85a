package sales

import (
	"cmp"
	"slices"
)

const (
	// CoPurchaseAnchors is how many top-revenue products get a co-purchase table.
	CoPurchaseAnchors = 10
	// CoPurchaseLimit caps each co-purchase table.
	CoPurchaseLimit = 10
)

// CoOccurrence counts the distinct orders in which Product was bought with the anchor.
type CoOccurrence struct {
	Product string
	Count   int
}

// CoPurchaseSet lists the products most often bought together with Anchor.
type CoPurchaseSet struct {
	Anchor string
	Items  []CoOccurrence
}

type orderLine struct {
	product string
	// first is the position of the product's first line within the order, in input order.
	first int
}

// orderIndex maps each order to its distinct products and each product to the
// orders containing it. It is built once per run and shared by all anchors.
type orderIndex struct {
	lines  map[string][]orderLine
	orders map[string][]string
}

func buildOrderIndex(txs []Transaction) *orderIndex {
	ix := &orderIndex{
		lines:  make(map[string][]orderLine),
		orders: make(map[string][]string),
	}
	seen := make(map[[2]string]struct{}, len(txs))
	for i, tx := range txs {
		key := [2]string{tx.OrderID, tx.Product}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ix.lines[tx.OrderID] = append(ix.lines[tx.OrderID], orderLine{product: tx.Product, first: i})
		ix.orders[tx.Product] = append(ix.orders[tx.Product], tx.OrderID)
	}
	return ix
}

type coCount struct {
	product string
	count   int
	first   int
}

// coPurchases returns up to limit products sharing orders with anchor, most
// frequent first; ties go to the product encountered first in the input.
func (ix *orderIndex) coPurchases(anchor string, limit int) []CoOccurrence {
	counts := make(map[string]*coCount)
	for _, order := range ix.orders[anchor] {
		for _, line := range ix.lines[order] {
			if line.product == anchor {
				continue
			}
			c, ok := counts[line.product]
			if !ok {
				c = &coCount{product: line.product, first: line.first}
				counts[line.product] = c
			}
			c.count++
			c.first = min(c.first, line.first)
		}
	}

	ranked := make([]*coCount, 0, len(counts))
	for _, c := range counts {
		ranked = append(ranked, c)
	}
	slices.SortFunc(ranked, func(a, b *coCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]CoOccurrence, len(ranked))
	for i, c := range ranked {
		out[i] = CoOccurrence{Product: c.product, Count: c.count}
	}
	return out
}

func coPurchaseSets(txs []Transaction, products []ProductRevenue) []CoPurchaseSet {
	ix := buildOrderIndex(txs)
	anchors := products[:min(CoPurchaseAnchors, len(products))]
	out := make([]CoPurchaseSet, 0, len(anchors))
	for _, p := range anchors {
		out = append(out, CoPurchaseSet{
			Anchor: p.Product,
			Items:  ix.coPurchases(p.Product, CoPurchaseLimit),
		})
	}
	return out
}
