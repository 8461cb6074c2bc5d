package reports

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseLine is the operating expense total of one category.
type ExpenseLine struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
}

// IncomeStatement is a simplified period profit and loss. It is computed per
// request and never stored.
type IncomeStatement struct {
	PeriodStart              time.Time       `json:"period_start"`
	PeriodEnd                time.Time       `json:"period_end"`
	AsOf                     time.Time       `json:"as_of"`
	SalesRevenue             decimal.Decimal `json:"sales_revenue"`
	SalesRefunds             decimal.Decimal `json:"sales_refunds"`
	NetSalesRevenue          decimal.Decimal `json:"net_sales_revenue"`
	GrossProfit              decimal.Decimal `json:"gross_profit"`
	CostOfGoodsSoldEstimated decimal.Decimal `json:"cost_of_goods_sold_estimated"`
	OperatingExpensesTotal   decimal.Decimal `json:"operating_expenses_total"`
	ExpenseLines             []ExpenseLine   `json:"expense_lines"`
	NetIncomeEstimated       decimal.Decimal `json:"net_income_estimated"`
}

// Assemble derives the statement from the window totals.
// COGS is the residual net revenue - gross profit and may be negative.
func Assemble(w Window, asOf time.Time, t Totals) IncomeStatement {
	lines := slices.Clone(t.ExpenseLines)
	if lines == nil {
		lines = []ExpenseLine{}
	}
	sortExpenseLines(lines)

	opex := decimal.Zero
	for _, l := range lines {
		opex = opex.Add(l.Amount)
	}

	netSales := t.SalesRevenue.Sub(t.SalesRefunds)

	return IncomeStatement{
		PeriodStart:              w.Start,
		PeriodEnd:                w.End,
		AsOf:                     asOf,
		SalesRevenue:             t.SalesRevenue,
		SalesRefunds:             t.SalesRefunds,
		NetSalesRevenue:          netSales,
		GrossProfit:              t.GrossProfit,
		CostOfGoodsSoldEstimated: netSales.Sub(t.GrossProfit),
		OperatingExpensesTotal:   opex,
		ExpenseLines:             lines,
		NetIncomeEstimated:       t.GrossProfit.Sub(opex),
	}
}

// sortExpenseLines orders by amount descending, then name ascending (byte-wise).
// Category id breaks the last tie so output never depends on input order.
func sortExpenseLines(lines []ExpenseLine) {
	slices.SortFunc(lines, func(a, b ExpenseLine) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		if c := strings.Compare(a.CategoryName, b.CategoryName); c != 0 {
			return c
		}
		return strings.Compare(a.CategoryID, b.CategoryID)
	})
}
