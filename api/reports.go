package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"api_inventory/internal/logger"
	"api_inventory/internal/reports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type reportsHandler struct {
	service *reports.Service
	logger  *zap.Logger
	timeout time.Duration
}

// NewReportsHandler creates the income statement handler. A zero timeout
// leaves the request context as is.
func NewReportsHandler(service *reports.Service, logger *zap.Logger, timeout time.Duration) *reportsHandler {
	return &reportsHandler{service: service, logger: logger, timeout: timeout}
}

func (h *reportsHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *reportsHandler) handleToday(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	st, err := h.service.TodayStatement(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// handleRange serves GET /reports/income-statement?start_utc=&end_utc=.
// A missing bound is reported before an unparseable one.
func (h *reportsHandler) handleRange(c *gin.Context) {
	start, startErr := parseTimestamp(c, "start_utc")
	end, endErr := parseTimestamp(c, "end_utc")
	if start != nil && end != nil {
		if err := errors.Join(startErr, endErr); err != nil {
			h.writeError(c, err)
			return
		}
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	st, err := h.service.RangeStatement(ctx, start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// parseTimestamp reads an RFC 3339 query parameter. It returns nil for an
// absent or empty parameter; an unparseable value is still present.
func parseTimestamp(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return &time.Time{}, fmt.Errorf("%w: %s %q is not RFC 3339", reports.ErrInvalidTimestamp, name, raw)
	}
	return &t, nil
}

func (h *reportsHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reports.ErrMissingParameter):
		respondError(c, http.StatusBadRequest, "MISSING_PARAMETER", err.Error())
	case errors.Is(err, reports.ErrInvalidTimestamp):
		respondError(c, http.StatusBadRequest, "INVALID_TIMESTAMP", err.Error())
	case errors.Is(err, reports.ErrInvalidRange):
		respondError(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.FromGin(c, h.logger).Error("income statement timed out", zap.Error(err))
		respondError(c, http.StatusGatewayTimeout, "TIMEOUT", "report timed out")
	default:
		logger.FromGin(c, h.logger).Error("income statement failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
