package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleField names the summable sale columns.
type SaleField string

const (
	FieldTotalAmount SaleField = "total_amount"
	FieldProfit      SaleField = "profit"
)

// SalesQuery selects sales in a window by their ledger flags.
// A nil Completed matches any completion state.
type SalesQuery struct {
	Window    Window
	Field     SaleField
	Completed *bool
	Refunded  bool
}

// ExpenditureRow is one live expenditure joined to its category.
type ExpenditureRow struct {
	CategoryID   string
	CategoryName string
	Amount       decimal.Decimal
}

// Ledger is the read side of the sales and expenditure ledgers.
type Ledger interface {
	// SumSales returns the sum of q.Field over matching sales, zero when none match.
	SumSales(ctx context.Context, q SalesQuery) (decimal.Decimal, error)
	// ExpenditureRows returns non-deleted expenditures added inside w. Categories are
	// joined whether or not they are deleted.
	ExpenditureRows(ctx context.Context, w Window) ([]ExpenditureRow, error)
}

// GormLedger reads the ledgers from the relational store.
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a GormLedger over db.
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// SumSales sums server-side on postgres, where NUMERIC addition is exact;
// COALESCE keeps empty windows at zero. sqlite stores decimal columns with
// NUMERIC affinity and would add them as floats, so there the matching values
// are fetched and added as decimals.
func (l *GormLedger) SumSales(ctx context.Context, q SalesQuery) (decimal.Decimal, error) {
	var column string
	switch q.Field {
	case FieldTotalAmount, FieldProfit:
		column = string(q.Field)
	default:
		return decimal.Zero, fmt.Errorf("unknown sale field %q", q.Field)
	}

	query := l.db.WithContext(ctx).
		Table("sales").
		Where("sale_date >= ? AND sale_date < ?", q.Window.Start, q.Window.End).
		Where("is_refunded = ?", q.Refunded)
	if q.Completed != nil {
		query = query.Where("is_completed = ?", *q.Completed)
	}

	if l.db.Dialector.Name() == "sqlite" {
		total, err := sumRows(query.Select(column))
		if err != nil {
			return decimal.Zero, fmt.Errorf("sum sales %s: %w", column, err)
		}
		return total, nil
	}

	total := decimal.Zero
	if err := query.Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum sales %s: %w", column, err)
	}
	return total, nil
}

// sumRows adds the single selected column of every row.
func sumRows(query *gorm.DB) (decimal.Decimal, error) {
	rows, err := query.Rows()
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var v decimal.Decimal
		if err := rows.Scan(&v); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, rows.Err()
}

// ExpenditureRows returns joined rows; grouping happens in the aggregator.
func (l *GormLedger) ExpenditureRows(ctx context.Context, w Window) ([]ExpenditureRow, error) {
	var rows []ExpenditureRow
	err := l.db.WithContext(ctx).
		Table("expenditures AS e").
		Select("e.expenditure_category_id AS category_id, c.name AS category_name, e.amount AS amount").
		Joins("JOIN expenditure_categories AS c ON c.id = e.expenditure_category_id").
		Where("e.added_at >= ? AND e.added_at < ?", w.Start, w.End).
		Where("e.deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list expenditures: %w", err)
	}
	return rows, nil
}
