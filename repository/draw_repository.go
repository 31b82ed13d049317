package repository

import (
	"context"
	"fmt"

	"lotto/domain/entities"
)

// DrawRepository implements draw-period data access against a unit of work's
// working state.
type DrawRepository struct {
	state *ledgerState
}

func newDrawRepository(state *ledgerState) *DrawRepository {
	return &DrawRepository{state: state}
}

// CurrentPeriod returns the period the next draw will complete.
func (r *DrawRepository) CurrentPeriod(ctx context.Context) (int64, error) {
	return r.state.currentPeriod, nil
}

// Record stores a completed draw for the current period and advances the
// period counter. A period's record is immutable once written.
func (r *DrawRepository) Record(ctx context.Context, draw *entities.Draw) error {
	if draw.Period != r.state.currentPeriod {
		return fmt.Errorf("draw period %d does not match current period %d", draw.Period, r.state.currentPeriod)
	}
	if _, exists := r.state.winningNumbersByPeriod[draw.Period]; exists {
		return fmt.Errorf("period %d already has winning numbers", draw.Period)
	}
	if err := entities.ValidateNumbers(draw.Numbers); err != nil {
		return fmt.Errorf("refusing to record invalid winning numbers: %w", err)
	}

	r.state.winningNumbersByPeriod[draw.Period] = entities.CopyNumbers(draw.Numbers)
	r.state.drawDateByPeriod[draw.Period] = draw.DrawnAt
	r.state.currentPeriod++
	return nil
}

// ByPeriod returns the draw recorded for a period, or nil when the period has
// no record.
func (r *DrawRepository) ByPeriod(ctx context.Context, period int64) (*entities.Draw, error) {
	numbers, ok := r.state.winningNumbersByPeriod[period]
	if !ok {
		return nil, nil
	}
	return &entities.Draw{
		Period:  period,
		Numbers: entities.CopyNumbers(numbers),
		DrawnAt: r.state.drawDateByPeriod[period],
	}, nil
}

// Latest returns the most recently completed draw, or nil when no draw has
// happened yet.
func (r *DrawRepository) Latest(ctx context.Context) (*entities.Draw, error) {
	if r.state.currentPeriod == 0 {
		return nil, nil
	}
	return r.ByPeriod(ctx, r.state.currentPeriod-1)
}
