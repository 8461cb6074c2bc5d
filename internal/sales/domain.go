package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale status values accepted by the API. They are derived from the two ledger flags.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
)

// Sale represents a sales transaction in the ledger.
type Sale struct {
	ID          string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	SaleDate    time.Time       `json:"sale_date" gorm:"not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,4);not null"`
	Profit      decimal.Decimal `json:"profit" gorm:"type:decimal(18,4);not null"`
	IsCompleted bool            `json:"is_completed" gorm:"not null;default:false"`
	IsRefunded  bool            `json:"is_refunded" gorm:"not null;default:false"`
	Version     int             `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName pins the table the report engine reads from.
func (Sale) TableName() string {
	return "sales"
}

// Status reports the sale's lifecycle state.
func (s *Sale) Status() string {
	switch {
	case s.IsRefunded:
		return StatusRefunded
	case s.IsCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}
