package api

import (
	"net/http"
	"time"

	"api_inventory/internal/expenditures"
	"api_inventory/internal/logger"
	"api_inventory/internal/reports"
	"api_inventory/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the services the HTTP layer serves.
type Dependencies struct {
	Sales          *sales.Service
	Expenditures   *expenditures.Service
	Reports        *reports.Service
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

// NewRouter builds a gin engine with request id, logging and recovery middleware
// and every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	e := gin.New()
	e.Use(logger.RequestID(), logger.GinMiddleware(deps.Logger), logger.Recovery(deps.Logger))
	InitRoutes(e, deps)
	return e
}

// InitRoutes binds each HTTP method and path to its handler.
func InitRoutes(e *gin.Engine, deps Dependencies) {
	salesHandler := NewSalesHandler(deps.Sales, deps.Logger)
	e.POST("/sales", salesHandler.handleCreateSale)
	e.PATCH("/sales/:id", salesHandler.handlePatchSale)
	e.GET("/sales", salesHandler.handleSearchSales)

	exp := NewExpendituresHandler(deps.Expenditures, deps.Logger)
	e.POST("/expenditure-categories", exp.handleCreateCategory)
	e.DELETE("/expenditure-categories/:id", exp.handleDeleteCategory)
	e.POST("/expenditure-categories/:id/restore", exp.handleRestoreCategory)
	e.POST("/expenditures", exp.handleCreateExpenditure)
	e.GET("/expenditures", exp.handleListExpenditures)
	e.DELETE("/expenditures/:id", exp.handleDeleteExpenditure)
	e.POST("/expenditures/:id/restore", exp.handleRestoreExpenditure)

	rep := NewReportsHandler(deps.Reports, deps.Logger, deps.RequestTimeout)
	e.GET("/reports/income-statement/today", rep.handleToday)
	e.GET("/reports/income-statement", rep.handleRange)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
