package api

import (
	"errors"
	"net/http"
	"time"

	"api_inventory/internal/expenditures"
	"api_inventory/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type expendituresHandler struct {
	service *expenditures.Service
	logger  *zap.Logger
}

// NewExpendituresHandler creates the handler for categories and expenditures.
func NewExpendituresHandler(service *expenditures.Service, logger *zap.Logger) *expendituresHandler {
	return &expendituresHandler{service: service, logger: logger}
}

// writeError maps expenditure errors to status codes.
func (h *expendituresHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, expenditures.ErrInvalidInput), errors.Is(err, expenditures.ErrInvalidAmount):
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
	case errors.Is(err, expenditures.ErrNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, expenditures.ErrCategoryNotFound):
		respondError(c, http.StatusUnprocessableEntity, "CATEGORY_NOT_FOUND", err.Error())
	case errors.Is(err, expenditures.ErrDuplicateCategory):
		respondError(c, http.StatusConflict, "DUPLICATE_CATEGORY", err.Error())
	case errors.Is(err, expenditures.ErrNotDeleted):
		respondError(c, http.StatusConflict, codeConflict, err.Error())
	default:
		logger.FromGin(c, h.logger).Error("expenditure request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func (h *expendituresHandler) handleCreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request payload")
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), expenditures.CategoryInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *expendituresHandler) handleDeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *expendituresHandler) handleRestoreCategory(c *gin.Context) {
	if err := h.service.RestoreCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *expendituresHandler) handleCreateExpenditure(c *gin.Context) {
	var req struct {
		CategoryID  string          `json:"expenditure_category_id"`
		Amount      decimal.Decimal `json:"amount"`
		AddedAt     *time.Time      `json:"added_at"`
		Description string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request payload")
		return
	}

	e, err := h.service.CreateExpenditure(c.Request.Context(), expenditures.ExpenditureInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		AddedAt:     req.AddedAt,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *expendituresHandler) handleListExpenditures(c *gin.Context) {
	list, err := h.service.ListExpenditures(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []*expenditures.Expenditure{}
	}
	c.JSON(http.StatusOK, gin.H{"results": list})
}

func (h *expendituresHandler) handleDeleteExpenditure(c *gin.Context) {
	if err := h.service.DeleteExpenditure(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *expendituresHandler) handleRestoreExpenditure(c *gin.Context) {
	if err := h.service.RestoreExpenditure(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
