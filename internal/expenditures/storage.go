package expenditures

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Storage persists categories and expenditures with soft-delete semantics.
// Reads only see non-deleted rows unless stated otherwise.
type Storage interface {
	CreateCategory(ctx context.Context, c *Category) error
	FindCategory(ctx context.Context, id string) (*Category, error)
	CategoryNameTaken(ctx context.Context, name, exceptID string) (bool, error)
	DeleteCategory(ctx context.Context, id string) error
	RestoreCategory(ctx context.Context, id string) error

	CreateExpenditure(ctx context.Context, e *Expenditure) error
	FindExpenditure(ctx context.Context, id string) (*Expenditure, error)
	ListExpenditures(ctx context.Context) ([]*Expenditure, error)
	DeleteExpenditure(ctx context.Context, id string) error
	RestoreExpenditure(ctx context.Context, id string) error
}

// GormStorage implements Storage with gorm's soft-delete scope.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a GormStorage over db.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (g *GormStorage) CreateCategory(ctx context.Context, c *Category) error {
	if err := g.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (g *GormStorage) FindCategory(ctx context.Context, id string) (*Category, error) {
	var c Category
	if err := g.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find category "+id)
	}
	return &c, nil
}

// CategoryNameTaken reports whether a live category other than exceptID uses name.
func (g *GormStorage) CategoryNameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&Category{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return count > 0, nil
}

func (g *GormStorage) DeleteCategory(ctx context.Context, id string) error {
	return softDelete(g.db.WithContext(ctx), &Category{}, id)
}

func (g *GormStorage) RestoreCategory(ctx context.Context, id string) error {
	return restore(g.db.WithContext(ctx), &Category{}, id)
}

func (g *GormStorage) CreateExpenditure(ctx context.Context, e *Expenditure) error {
	if err := g.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create expenditure: %w", err)
	}
	return nil
}

func (g *GormStorage) FindExpenditure(ctx context.Context, id string) (*Expenditure, error) {
	var e Expenditure
	if err := g.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find expenditure "+id)
	}
	return &e, nil
}

func (g *GormStorage) ListExpenditures(ctx context.Context) ([]*Expenditure, error) {
	var list []*Expenditure
	if err := g.db.WithContext(ctx).Order("added_at DESC, id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list expenditures: %w", err)
	}
	return list, nil
}

func (g *GormStorage) DeleteExpenditure(ctx context.Context, id string) error {
	return softDelete(g.db.WithContext(ctx), &Expenditure{}, id)
}

func (g *GormStorage) RestoreExpenditure(ctx context.Context, id string) error {
	return restore(g.db.WithContext(ctx), &Expenditure{}, id)
}

func softDelete(db *gorm.DB, model any, id string) error {
	res := db.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// restore clears deleted_at. ErrNotFound when the row does not exist at all,
// ErrNotDeleted when it exists but is live.
func restore(db *gorm.DB, model any, id string) error {
	res := db.Unscoped().Model(model).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Unscoped().Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("restore %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotDeleted
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
