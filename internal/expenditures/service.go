package expenditures

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a category or expenditure does not exist (or is deleted).
	ErrNotFound = errors.New("not found")
	// ErrNotDeleted is returned when restoring a row that is not deleted.
	ErrNotDeleted = errors.New("not deleted")
	// ErrCategoryNotFound is returned when an expenditure references a missing or deleted category.
	ErrCategoryNotFound = errors.New("expenditure category not found")
	// ErrDuplicateCategory is returned when a live category already uses the name.
	ErrDuplicateCategory = errors.New("expenditure category name already in use")
	// ErrInvalidAmount is returned when an expenditure amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidInput wraps field validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// CategoryInput describes a new category.
type CategoryInput struct {
	Name string `validate:"required,max=100"`
	Type string `validate:"max=50"`
}

// ExpenditureInput describes a new expenditure. A nil AddedAt means now.
type ExpenditureInput struct {
	CategoryID  string `validate:"required"`
	Amount      decimal.Decimal
	AddedAt     *time.Time
	Description string `validate:"max=500"`
}

// Service manages expenditure categories and the expenditure ledger.
type Service struct {
	storage  Storage
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		storage:  storage,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// CreateCategory adds a category whose name is not used by any live category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	taken, err := s.storage.CategoryNameTaken(ctx, in.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateCategory, in.Name)
	}

	c := &Category{ID: uuid.NewString(), Name: in.Name, Type: in.Type}
	if err := s.storage.CreateCategory(ctx, c); err != nil {
		s.logger.Error("failed to create category", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("expenditure category created", zap.String("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// DeleteCategory soft-deletes a category. Its expenditures stay in reports under its name.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expenditure category deleted", zap.String("category_id", id))
	return nil
}

// RestoreCategory undoes DeleteCategory unless another live category took the name meanwhile.
func (s *Service) RestoreCategory(ctx context.Context, id string) error {
	if err := s.storage.RestoreCategory(ctx, id); err != nil {
		return err
	}

	restored, err := s.storage.FindCategory(ctx, id)
	if err != nil {
		return err
	}
	taken, err := s.storage.CategoryNameTaken(ctx, restored.Name, restored.ID)
	if err != nil {
		return err
	}
	if taken {
		if delErr := s.storage.DeleteCategory(ctx, id); delErr != nil {
			return delErr
		}
		return fmt.Errorf("%w: '%s'", ErrDuplicateCategory, restored.Name)
	}

	s.logger.Info("expenditure category restored", zap.String("category_id", id))
	return nil
}

// CreateExpenditure records an expense against a live category.
func (s *Service) CreateExpenditure(ctx context.Context, in ExpenditureInput) (*Expenditure, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if _, err := s.storage.FindCategory(ctx, in.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrCategoryNotFound, in.CategoryID)
		}
		return nil, err
	}

	addedAt := s.now().UTC()
	if in.AddedAt != nil {
		addedAt = in.AddedAt.UTC()
	}

	e := &Expenditure{
		ID:                    uuid.NewString(),
		AddedAt:               addedAt,
		Amount:                in.Amount,
		ExpenditureCategoryID: in.CategoryID,
		Description:           in.Description,
	}
	if err := s.storage.CreateExpenditure(ctx, e); err != nil {
		s.logger.Error("failed to create expenditure", zap.String("category_id", in.CategoryID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("expenditure created",
		zap.String("expenditure_id", e.ID),
		zap.String("category_id", e.ExpenditureCategoryID),
		zap.Stringer("amount", e.Amount),
	)
	return e, nil
}

// ListExpenditures returns all live expenditures, newest first.
func (s *Service) ListExpenditures(ctx context.Context) ([]*Expenditure, error) {
	return s.storage.ListExpenditures(ctx)
}

// DeleteExpenditure soft-deletes an expenditure, removing it from every report.
func (s *Service) DeleteExpenditure(ctx context.Context, id string) error {
	if err := s.storage.DeleteExpenditure(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expenditure deleted", zap.String("expenditure_id", id))
	return nil
}

// RestoreExpenditure brings a soft-deleted expenditure back into reports.
func (s *Service) RestoreExpenditure(ctx context.Context, id string) error {
	if err := s.storage.RestoreExpenditure(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expenditure restored", zap.String("expenditure_id", id))
	return nil
}
