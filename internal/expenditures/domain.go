package expenditures

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups expenditures for reporting. Names are unique among non-deleted categories.
type Category struct {
	ID        string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;index"`
	Type      string         `json:"type" gorm:"type:varchar(50);not null;default:''"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (Category) TableName() string {
	return "expenditure_categories"
}

// Expenditure is a single operating expense. Soft-deleted rows keep DeletedAt set.
type Expenditure struct {
	ID                    string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	AddedAt               time.Time       `json:"added_at" gorm:"not null;index"`
	Amount                decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null"`
	ExpenditureCategoryID string          `json:"expenditure_category_id" gorm:"type:varchar(36);not null;index"`
	Description           string          `json:"description" gorm:"type:varchar(500);not null;default:''"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

func (Expenditure) TableName() string {
	return "expenditures"
}

// Models lists the gorm models of this package for AutoMigrate.
func Models() []any {
	return []any{&Category{}, &Expenditure{}}
}
