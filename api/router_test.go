package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"api_inventory/internal/database"
	"api_inventory/internal/expenditures"
	"api_inventory/internal/logger"
	"api_inventory/internal/reports"
	"api_inventory/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	models := append([]any{&sales.Sale{}}, expenditures.Models()...)
	db, err := database.OpenInMemory(models...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zaptest.NewLogger(t)
	return NewRouter(Dependencies{
		Sales:          sales.NewService(sales.NewGormStorage(db.DB), log),
		Expenditures:   expenditures.NewService(expenditures.NewGormStorage(db.DB), log),
		Reports:        reports.NewService(reports.NewGormLedger(db.DB), log),
		Logger:         log,
		RequestTimeout: 5 * time.Second,
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
}

// TestIncomeStatement_FullFlow records sales and expenses over HTTP and reads them back
// as an income statement.
func TestIncomeStatement_FullFlow(t *testing.T) {
	router := newTestRouter(t)
	var saleID, refundedID, categoryID string

	t.Run("POST_CreateSale", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/sales", map[string]any{
			"sale_date":    "2024-01-01T10:00:00Z",
			"total_amount": "150.75",
			"profit":       "50.25",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		created := decode[saleView](t, w)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, sales.StatusPending, created.Status)
		assert.Equal(t, 1, created.Version)
		assert.True(t, created.TotalAmount.Equal(decimal.RequireFromString("150.75")))
		saleID = created.ID
	})
	require.NotEmpty(t, saleID)

	t.Run("PATCH_CompleteSale", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/sales/"+saleID, map[string]string{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		updated := decode[saleView](t, w)
		assert.Equal(t, saleID, updated.ID)
		assert.Equal(t, sales.StatusCompleted, updated.Status)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("POST_RefundedSale", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/sales", map[string]any{
			"sale_date":    "2024-01-01T11:00:00Z",
			"total_amount": 100,
			"profit":       30,
			"completed":    true,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		refundedID = decode[saleView](t, w).ID

		w = doJSON(t, router, http.MethodPatch, "/sales/"+refundedID, map[string]string{"status": "refunded"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("GET_SearchSaleByStatus", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/sales?status=completed", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode[struct {
			Results  []saleView          `json:"results"`
			Metadata sales.SalesMetadata `json:"metadata"`
		}](t, w)
		require.Len(t, response.Results, 1)
		assert.Equal(t, saleID, response.Results[0].ID)
		assert.Equal(t, 1, response.Metadata.Quantity)
		assert.Equal(t, 1, response.Metadata.Completed)
		assert.True(t, response.Metadata.TotalAmount.Equal(decimal.RequireFromString("150.75")))
	})

	t.Run("POST_CategoryAndExpenditure", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/expenditure-categories", map[string]string{"name": "Rent"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		categoryID = decode[expenditures.Category](t, w).ID

		w = doJSON(t, router, http.MethodPost, "/expenditures", map[string]any{
			"expenditure_category_id": categoryID,
			"amount":                  "40.5",
			"added_at":                "2024-01-01T12:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = doJSON(t, router, http.MethodGet, "/expenditures", nil)
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[struct {
			Results []expenditures.Expenditure `json:"results"`
		}](t, w)
		assert.Len(t, list.Results, 1)
	})

	t.Run("GET_IncomeStatement", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet,
			"/reports/income-statement?start_utc=2024-01-01T00:00:00Z&end_utc=2024-01-02T00:00:00Z", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		st := decode[reports.IncomeStatement](t, w)
		assert.True(t, st.SalesRevenue.Equal(decimal.RequireFromString("150.75")), "revenue %s", st.SalesRevenue)
		assert.True(t, st.SalesRefunds.Equal(decimal.RequireFromString("100")))
		assert.True(t, st.NetSalesRevenue.Equal(decimal.RequireFromString("50.75")))
		assert.True(t, st.GrossProfit.Equal(decimal.RequireFromString("50.25")))
		assert.True(t, st.CostOfGoodsSoldEstimated.Equal(decimal.RequireFromString("0.5")))
		assert.True(t, st.OperatingExpensesTotal.Equal(decimal.RequireFromString("40.5")))
		assert.True(t, st.NetIncomeEstimated.Equal(decimal.RequireFromString("9.75")))
		require.Len(t, st.ExpenseLines, 1)
		assert.Equal(t, categoryID, st.ExpenseLines[0].CategoryID)
		assert.Equal(t, "Rent", st.ExpenseLines[0].CategoryName)
	})
}

func TestIncomeStatementToday(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/reports/income-statement/today", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	st := decode[reports.IncomeStatement](t, w)
	assert.Equal(t, 24*time.Hour, st.PeriodEnd.Sub(st.PeriodStart))
	assert.True(t, st.SalesRevenue.IsZero())
	assert.NotNil(t, st.ExpenseLines)
}

func TestIncomeStatementRange_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{name: "no parameters", query: "", code: "MISSING_PARAMETER"},
		{name: "missing end", query: "start_utc=2024-01-01T00:00:00Z", code: "MISSING_PARAMETER"},
		{name: "missing beats unparseable", query: "start_utc=yesterday", code: "MISSING_PARAMETER"},
		{name: "unparseable start", query: "start_utc=yesterday&end_utc=2024-01-01T00:00:00Z", code: "INVALID_TIMESTAMP"},
		{name: "zero time", query: "start_utc=0001-01-01T00:00:00Z&end_utc=2024-01-01T00:00:00Z", code: "INVALID_TIMESTAMP"},
		{name: "end equals start", query: "start_utc=2024-01-01T00:00:00Z&end_utc=2024-01-01T00:00:00Z", code: "INVALID_RANGE"},
		{name: "end before start", query: "start_utc=2024-01-02T00:00:00Z&end_utc=2024-01-01T00:00:00Z", code: "INVALID_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/reports/income-statement?"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decode[errorBody](t, w).Code)
		})
	}
}

// stalledLedger never answers before the caller gives up.
type stalledLedger struct{}

func (stalledLedger) SumSales(ctx context.Context, _ reports.SalesQuery) (decimal.Decimal, error) {
	<-ctx.Done()
	return decimal.Zero, ctx.Err()
}

func (stalledLedger) ExpenditureRows(ctx context.Context, _ reports.Window) ([]reports.ExpenditureRow, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestIncomeStatement_Timeout(t *testing.T) {
	log := zaptest.NewLogger(t)
	router := NewRouter(Dependencies{
		Reports:        reports.NewService(stalledLedger{}, log),
		Logger:         log,
		RequestTimeout: 20 * time.Millisecond,
	})

	w := doJSON(t, router, http.MethodGet, "/reports/income-statement/today", nil)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "TIMEOUT", decode[errorBody](t, w).Code)
}

func TestSales_Errors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/sales", map[string]any{"total_amount": 0, "profit": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/sales/does-not-exist", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, codeNotFound, decode[errorBody](t, w).Code)

	w = doJSON(t, router, http.MethodPost, "/sales", map[string]any{"total_amount": 10, "profit": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[saleView](t, w).ID

	w = doJSON(t, router, http.MethodPatch, "/sales/"+id, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/sales/"+id, map[string]string{"status": "refunded"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/sales/"+id, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/sales?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenditures_Errors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/expenditures", map[string]any{
		"expenditure_category_id": "missing",
		"amount":                  "10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", decode[errorBody](t, w).Code)

	w = doJSON(t, router, http.MethodPost, "/expenditure-categories", map[string]string{"name": "Travel"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := decode[expenditures.Category](t, w).ID

	w = doJSON(t, router, http.MethodPost, "/expenditure-categories", map[string]string{"name": "Travel"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_CATEGORY", decode[errorBody](t, w).Code)

	w = doJSON(t, router, http.MethodPost, "/expenditures", map[string]any{
		"expenditure_category_id": categoryID,
		"amount":                  "-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/expenditures", map[string]any{
		"expenditure_category_id": categoryID,
		"amount":                  "12.5",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	expID := decode[expenditures.Expenditure](t, w).ID

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/expenditures/%s/restore", expID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/expenditures/"+expID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/expenditures/"+expID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/expenditures/%s/restore", expID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/expenditure-categories/"+categoryID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/expenditure-categories/%s/restore", categoryID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
