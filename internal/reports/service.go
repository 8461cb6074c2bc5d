package reports

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service produces income statements for today or an arbitrary range.
type Service struct {
	aggregator *Aggregator
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a Service reading from ledger.
func NewService(ledger Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		aggregator: NewAggregator(ledger),
		logger:     logger,
		now:        time.Now,
	}
}

// TodayStatement covers the current UTC day.
func (s *Service) TodayStatement(ctx context.Context) (*IncomeStatement, error) {
	asOf := s.now().UTC()
	return s.statement(ctx, TodayWindow(asOf), asOf)
}

// RangeStatement covers [start, end). See NewRangeWindow for the validation rules.
func (s *Service) RangeStatement(ctx context.Context, start, end *time.Time) (*IncomeStatement, error) {
	w, err := NewRangeWindow(start, end)
	if err != nil {
		s.logger.Warn("rejected statement range", zap.Error(err))
		return nil, err
	}
	return s.statement(ctx, w, s.now().UTC())
}

func (s *Service) statement(ctx context.Context, w Window, asOf time.Time) (*IncomeStatement, error) {
	totals, err := s.aggregator.Aggregate(ctx, w)
	if err != nil {
		s.logger.Error("failed to aggregate ledgers",
			zap.Time("period_start", w.Start),
			zap.Time("period_end", w.End),
			zap.Error(err),
		)
		return nil, err
	}

	st := Assemble(w, asOf, totals)

	s.logger.Info("income statement computed",
		zap.Time("period_start", st.PeriodStart),
		zap.Time("period_end", st.PeriodEnd),
		zap.Time("as_of", st.AsOf),
		zap.Stringer("net_income_estimated", st.NetIncomeEstimated),
		zap.Int("expense_lines", len(st.ExpenseLines)),
	)
	return &st, nil
}
