package sales

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// Storage is the main interface for our sales storage layer.
type Storage interface {
	Set(ctx context.Context, sale *Sale) error
	Read(ctx context.Context, id string) (*Sale, error)
	GetAll(ctx context.Context) ([]*Sale, error)
}

// GormStorage stores sales in the relational ledger.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a GormStorage over db.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Set inserts or updates a sale.
// Returns ErrEmptyID if the sale has an empty ID.
func (g *GormStorage) Set(ctx context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	if err := g.db.WithContext(ctx).Save(sale).Error; err != nil {
		return fmt.Errorf("save sale %s: %w", sale.ID, err)
	}
	return nil
}

// Read retrieves a sale by ID.
// Returns ErrNotFound if the sale is not found.
func (g *GormStorage) Read(ctx context.Context, id string) (*Sale, error) {
	var sale Sale
	err := g.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read sale %s: %w", id, err)
	}
	return &sale, nil
}

// GetAll retrieves every sale, most recent first.
func (g *GormStorage) GetAll(ctx context.Context) ([]*Sale, error) {
	var sales []*Sale
	if err := g.db.WithContext(ctx).Order("sale_date DESC, id").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
