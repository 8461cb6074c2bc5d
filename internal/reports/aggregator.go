package reports

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Totals are the raw sums for one window, before derived fields are computed.
type Totals struct {
	SalesRevenue decimal.Decimal
	SalesRefunds decimal.Decimal
	GrossProfit  decimal.Decimal
	ExpenseLines []ExpenseLine
}

// Aggregator computes Totals by reading the ledger.
type Aggregator struct {
	ledger Ledger
}

// NewAggregator creates an Aggregator over ledger.
func NewAggregator(ledger Ledger) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// Aggregate runs the four independent reads in parallel. The first failure
// cancels the rest and fails the whole aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, w Window) (Totals, error) {
	completed := true
	var t Totals

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		t.SalesRevenue, err = a.ledger.SumSales(gctx, SalesQuery{
			Window: w, Field: FieldTotalAmount, Completed: &completed, Refunded: false,
		})
		return err
	})
	g.Go(func() error {
		var err error
		t.SalesRefunds, err = a.ledger.SumSales(gctx, SalesQuery{
			Window: w, Field: FieldTotalAmount, Refunded: true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		t.GrossProfit, err = a.ledger.SumSales(gctx, SalesQuery{
			Window: w, Field: FieldProfit, Completed: &completed, Refunded: false,
		})
		return err
	})
	g.Go(func() error {
		rows, err := a.ledger.ExpenditureRows(gctx, w)
		if err != nil {
			return err
		}
		t.ExpenseLines = groupExpenses(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Totals{}, err
	}
	return t, nil
}

type categoryKey struct {
	id   string
	name string
}

// groupExpenses sums rows per (category id, category name), keeping first-seen order.
func groupExpenses(rows []ExpenditureRow) []ExpenseLine {
	index := make(map[categoryKey]int, len(rows))
	lines := make([]ExpenseLine, 0, len(rows))

	for _, r := range rows {
		key := categoryKey{id: r.CategoryID, name: r.CategoryName}
		if i, ok := index[key]; ok {
			lines[i].Amount = lines[i].Amount.Add(r.Amount)
			continue
		}
		index[key] = len(lines)
		lines = append(lines, ExpenseLine{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Amount:       r.Amount,
		})
	}
	return lines
}
