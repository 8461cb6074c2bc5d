package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidTransition is returned when a status change is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInvalidStatus is returned for unknown status values.
var ErrInvalidStatus = errors.New("invalid status value")

// ErrInvalidAmount is returned when a sale total is not positive.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
}

// SalesMetadata summarizes a search result.
type SalesMetadata struct {
	Quantity    int             `json:"quantity"`
	Pending     int             `json:"pending"`
	Completed   int             `json:"completed"`
	Refunded    int             `json:"refunded"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CreateSaleInput carries the fields of a new sale. A nil SaleDate means now.
type CreateSaleInput struct {
	SaleDate    *time.Time
	TotalAmount decimal.Decimal
	Profit      decimal.Decimal
	Completed   bool
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateSale records a new sale. Profit is taken as given and not checked against the total.
func (s *Service) CreateSale(ctx context.Context, in CreateSaleInput) (*Sale, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := s.now().UTC()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = in.SaleDate.UTC()
	}

	sale := &Sale{
		ID:          uuid.NewString(),
		SaleDate:    saleDate,
		TotalAmount: in.TotalAmount,
		Profit:      in.Profit,
		IsCompleted: in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	if err := s.storage.Set(ctx, sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID),
		zap.Time("sale_date", sale.SaleDate),
		zap.Stringer("total_amount", sale.TotalAmount),
		zap.Bool("completed", sale.IsCompleted),
	)
	return sale, nil
}

// SearchSale lists sales, optionally filtered by status, with summary metadata.
func (s *Service) SearchSale(ctx context.Context, status string) ([]*Sale, SalesMetadata, error) {
	switch status {
	case "", StatusPending, StatusCompleted, StatusRefunded:
	default:
		s.logger.Warn("Invalid status filter provided", zap.String("statusFilter", status))
		return nil, SalesMetadata{}, fmt.Errorf("%w: '%s'", ErrInvalidStatus, status)
	}

	allSales, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get all sales from storage", zap.Error(err))
		return nil, SalesMetadata{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	filtered := make([]*Sale, 0, len(allSales))
	metadata := SalesMetadata{TotalAmount: decimal.Zero}

	for _, sale := range allSales {
		saleStatus := sale.Status()
		if status != "" && saleStatus != status {
			continue
		}

		filtered = append(filtered, sale)
		metadata.Quantity++
		metadata.TotalAmount = metadata.TotalAmount.Add(sale.TotalAmount)
		switch saleStatus {
		case StatusPending:
			metadata.Pending++
		case StatusCompleted:
			metadata.Completed++
		case StatusRefunded:
			metadata.Refunded++
		}
	}

	s.logger.Info("Sales search completed",
		zap.String("status_filter", status),
		zap.Int("results_count", len(filtered)),
	)

	return filtered, metadata, nil
}

// UpdateSaleStatus moves a sale to completed or refunded.
// pending -> completed, pending|completed -> refunded; refunded is final.
func (s *Service) UpdateSaleStatus(ctx context.Context, saleID, newStatus string) (*Sale, error) {
	if newStatus != StatusCompleted && newStatus != StatusRefunded {
		return nil, ErrInvalidStatus
	}

	sale, err := s.storage.Read(ctx, saleID)
	if err != nil {
		return nil, err
	}

	switch {
	case sale.IsRefunded:
		return nil, ErrInvalidTransition
	case newStatus == StatusCompleted && sale.IsCompleted:
		return nil, ErrInvalidTransition
	case newStatus == StatusCompleted:
		sale.IsCompleted = true
	case newStatus == StatusRefunded:
		sale.IsRefunded = true
	}

	sale.UpdatedAt = s.now().UTC()
	sale.Version++

	if err := s.storage.Set(ctx, sale); err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale status updated", zap.String("sale_id", sale.ID), zap.String("status", newStatus))
	return sale, nil
}
