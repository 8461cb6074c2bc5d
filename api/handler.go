package api

import (
	"errors"
	"net/http"
	"time"

	"api_inventory/internal/logger"
	"api_inventory/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stable error codes returned next to the error message.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeConflict       = "CONFLICT"
	codeInternal       = "INTERNAL"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// saleView adds the derived status to the stored sale.
type saleView struct {
	*sales.Sale
	Status string `json:"status"`
}

func newSaleView(s *sales.Sale) saleView {
	return saleView{Sale: s, Status: s.Status()}
}

// handleCreateSale handles the POST /sales endpoint.
func (h *salesHandler) handleCreateSale(c *gin.Context) {
	var req struct {
		SaleDate    *time.Time      `json:"sale_date"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		Profit      decimal.Decimal `json:"profit"`
		Completed   bool            `json:"completed"`
	}
	log := logger.FromGin(c, h.logger)

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("failed to bind JSON request", zap.Error(err))
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request payload")
		return
	}

	sale, err := h.salesService.CreateSale(c.Request.Context(), sales.CreateSaleInput{
		SaleDate:    req.SaleDate,
		TotalAmount: req.TotalAmount,
		Profit:      req.Profit,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, sales.ErrInvalidAmount) {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		log.Error("failed to create sale", zap.Error(err), zap.Stringer("total_amount", req.TotalAmount))
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to create sale")
		return
	}

	c.JSON(http.StatusCreated, newSaleView(sale))
}

// handlePatchSale handles PATCH /sales/:id.
func (h *salesHandler) handlePatchSale(c *gin.Context) {
	saleID := c.Param("id")
	var req struct {
		Status string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	updated, err := h.salesService.UpdateSaleStatus(c.Request.Context(), saleID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrNotFound), errors.Is(err, sales.ErrEmptyID):
			respondError(c, http.StatusNotFound, codeNotFound, "sale not found")
		case errors.Is(err, sales.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid status value")
		case errors.Is(err, sales.ErrInvalidTransition):
			respondError(c, http.StatusConflict, codeConflict, "invalid status transition")
		default:
			logger.FromGin(c, h.logger).Error("failed to update sale", zap.String("sale_id", saleID), zap.Error(err))
			respondError(c, http.StatusInternalServerError, codeInternal, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, newSaleView(updated))
}

// handleSearchSales handles GET /sales?status=.
func (h *salesHandler) handleSearchSales(c *gin.Context) {
	status := c.Query("status")

	results, metadata, err := h.salesService.SearchSale(c.Request.Context(), status)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidStatus) {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		logger.FromGin(c, h.logger).Error("error searching sales", zap.String("status_filter", status), zap.Error(err))
		respondError(c, http.StatusInternalServerError, codeInternal, "failed to search sales")
		return
	}

	views := make([]saleView, 0, len(results))
	for _, s := range results {
		views = append(views, newSaleView(s))
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "metadata": metadata})
}
