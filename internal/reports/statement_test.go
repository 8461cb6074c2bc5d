package reports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testWindow() Window {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

func TestAssemble_WorkedExample(t *testing.T) {
	w := testWindow()
	asOf := w.Start.Add(12 * time.Hour)

	st := Assemble(w, asOf, Totals{
		SalesRevenue: dec("1000"),
		SalesRefunds: dec("100"),
		GrossProfit:  dec("400"),
		ExpenseLines: []ExpenseLine{
			{CategoryID: "c-rent", CategoryName: "Rent", Amount: dec("150")},
			{CategoryID: "c-wages", CategoryName: "Wages", Amount: dec("200")},
		},
	})

	assert.Equal(t, w.Start, st.PeriodStart)
	assert.Equal(t, w.End, st.PeriodEnd)
	assert.Equal(t, asOf, st.AsOf)
	assert.True(t, st.NetSalesRevenue.Equal(dec("900")))
	assert.True(t, st.CostOfGoodsSoldEstimated.Equal(dec("500")))
	assert.True(t, st.OperatingExpensesTotal.Equal(dec("350")))
	assert.True(t, st.NetIncomeEstimated.Equal(dec("50")))
	require.Len(t, st.ExpenseLines, 2)
	assert.Equal(t, "Wages", st.ExpenseLines[0].CategoryName)
	assert.Equal(t, "Rent", st.ExpenseLines[1].CategoryName)
}

func TestAssemble_Empty(t *testing.T) {
	st := Assemble(testWindow(), time.Now(), Totals{})

	assert.True(t, st.SalesRevenue.IsZero())
	assert.True(t, st.NetSalesRevenue.IsZero())
	assert.True(t, st.CostOfGoodsSoldEstimated.IsZero())
	assert.True(t, st.OperatingExpensesTotal.IsZero())
	assert.True(t, st.NetIncomeEstimated.IsZero())
	assert.NotNil(t, st.ExpenseLines)
	assert.Empty(t, st.ExpenseLines)
}

func TestAssemble_NegativeResiduals(t *testing.T) {
	// All revenue refunded while the refunded sale's profit is gone too.
	st := Assemble(testWindow(), time.Now(), Totals{
		SalesRevenue: dec("50"),
		SalesRefunds: dec("80"),
		GrossProfit:  dec("20"),
		ExpenseLines: []ExpenseLine{{CategoryID: "c1", CategoryName: "Rent", Amount: dec("30")}},
	})

	assert.True(t, st.NetSalesRevenue.Equal(dec("-30")))
	assert.True(t, st.CostOfGoodsSoldEstimated.Equal(dec("-50")))
	assert.True(t, st.NetIncomeEstimated.Equal(dec("-10")))
}

func TestAssemble_Identities(t *testing.T) {
	totals := Totals{
		SalesRevenue: dec("1234.56"),
		SalesRefunds: dec("34.56"),
		GrossProfit:  dec("600.10"),
		ExpenseLines: []ExpenseLine{
			{CategoryID: "a", CategoryName: "Utilities", Amount: dec("99.99")},
			{CategoryID: "b", CategoryName: "Rent", Amount: dec("500.01")},
			{CategoryID: "c", CategoryName: "Ads", Amount: dec("0.10")},
		},
	}

	st := Assemble(testWindow(), time.Now(), totals)

	assert.True(t, st.NetSalesRevenue.Equal(st.SalesRevenue.Sub(st.SalesRefunds)))
	assert.True(t, st.CostOfGoodsSoldEstimated.Equal(st.NetSalesRevenue.Sub(st.GrossProfit)))
	assert.True(t, st.NetIncomeEstimated.Equal(st.GrossProfit.Sub(st.OperatingExpensesTotal)))

	sum := decimal.Zero
	for _, l := range st.ExpenseLines {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, st.OperatingExpensesTotal.Equal(sum))
	assert.True(t, st.OperatingExpensesTotal.Equal(dec("600.10")))
}

func TestAssemble_SortOrder(t *testing.T) {
	lines := []ExpenseLine{
		{CategoryID: "4", CategoryName: "beta", Amount: dec("10")},
		{CategoryID: "3", CategoryName: "Zeta", Amount: dec("10")},
		{CategoryID: "1", CategoryName: "Alpha", Amount: dec("5")},
		{CategoryID: "2", CategoryName: "Alpha", Amount: dec("10")},
		{CategoryID: "0", CategoryName: "Alpha", Amount: dec("10")},
		{CategoryID: "5", CategoryName: "Omega", Amount: dec("20")},
	}

	st := Assemble(testWindow(), time.Now(), Totals{ExpenseLines: lines})

	got := make([]string, 0, len(st.ExpenseLines))
	for _, l := range st.ExpenseLines {
		got = append(got, l.CategoryID)
	}
	// Uppercase sorts before lowercase in byte order.
	assert.Equal(t, []string{"5", "0", "2", "3", "4", "1"}, got)
	// Input is not reordered.
	assert.Equal(t, "4", lines[0].CategoryID)
}

func TestIncomeStatement_JSON(t *testing.T) {
	w := testWindow()
	st := Assemble(w, w.Start, Totals{SalesRevenue: dec("10.5")})

	raw, err := json.Marshal(st)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	for _, key := range []string{
		"period_start", "period_end", "as_of", "sales_revenue", "sales_refunds",
		"net_sales_revenue", "gross_profit", "cost_of_goods_sold_estimated",
		"operating_expenses_total", "expense_lines", "net_income_estimated",
	} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "10.5", body["sales_revenue"])
	assert.Equal(t, []any{}, body["expense_lines"])
	assert.Equal(t, "2024-01-01T00:00:00Z", body["period_start"])
}
