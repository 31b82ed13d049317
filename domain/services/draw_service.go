package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// maxSlotRetries caps the rejection-sampling loop per slot. With 49 values
// and at most 5 already placed, the worst-case collision chance per attempt
// is ~10%, so 64 retries failing in sequence means the entropy is degenerate.
const maxSlotRetries = 64

// drawService implements the draw engine and its read surface.
type drawService struct {
	draws          interfaces.DrawRepository
	eventPublisher interfaces.EventPublisher
	adminID        int64

	// sample turns entropy into winning numbers. Defaults to drawNumbers.
	sample func(entropy []byte) ([]int64, error)
}

// NewDrawService creates a new draw service bound to one unit of work's
// repositories.
func NewDrawService(
	draws interfaces.DrawRepository,
	eventPublisher interfaces.EventPublisher,
	adminID int64,
) interfaces.DrawService {
	return &drawService{
		draws:          draws,
		eventPublisher: eventPublisher,
		adminID:        adminID,
		sample:         drawNumbers,
	}
}

// ConductDraw produces the current period's winning numbers from the supplied
// entropy, records them and advances the period. Administrator only.
//
// The entropy value is treated as opaque and weakly unpredictable; the draw
// is fully deterministic given the same entropy. This is not a secure
// randomness source - a deployment that needs one should feed the output of a
// VRF or commit-reveal scheme in here.
func (s *drawService) ConductDraw(ctx context.Context, callerID int64, entropy []byte) (*entities.Draw, error) {
	if callerID != s.adminID {
		return nil, entities.ErrNotAdministrator
	}

	numbers, err := s.sample(entropy)
	if err != nil {
		return nil, err
	}

	period, err := s.draws.CurrentPeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current period: %w", err)
	}

	draw := &entities.Draw{
		Period:  period,
		Numbers: numbers,
		DrawnAt: time.Now().UTC(),
	}
	if err := s.draws.Record(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	if err := s.eventPublisher.Publish(events.NumbersDrawnEvent{
		Period:  draw.Period,
		Numbers: draw.Numbers,
		DrawnAt: draw.DrawnAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish draw event: %w", err)
	}

	log.WithFields(log.Fields{
		"period":  draw.Period,
		"numbers": draw.Numbers,
	}).Info("winning numbers drawn")

	return draw, nil
}

// GetDrawHistory returns the draw recorded for a period.
func (s *drawService) GetDrawHistory(ctx context.Context, period int64) (*entities.Draw, error) {
	draw, err := s.draws.ByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for period %d: %w", period, err)
	}
	if draw == nil {
		return nil, entities.ErrNoSuchPeriod
	}
	return draw, nil
}

// GetCurrentWinningNumbers returns the most recently completed draw.
func (s *drawService) GetCurrentWinningNumbers(ctx context.Context) (*entities.Draw, error) {
	draw, err := s.draws.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}
	if draw == nil {
		return nil, entities.ErrNoCompletedDraw
	}
	return draw, nil
}

// drawNumbers runs the seeded rejection-sampling loop over a SHA-256 chain
// derived from the entropy.
func drawNumbers(entropy []byte) ([]int64, error) {
	return pickDistinct(newSeedChain(entropy))
}

// numberSource yields one candidate number in [MinNumber, MaxNumber] per call.
type numberSource func() int64

// newSeedChain builds a deterministic source from opaque entropy: a running
// SHA-256 seed is rehashed with a monotonically increasing counter and mapped
// into range by modulo. The counter keeps increasing across calls so a
// rejected sample never repeats.
func newSeedChain(entropy []byte) numberSource {
	seed := sha256.Sum256(entropy)
	counter := uint64(0)
	return func() int64 {
		var buf [sha256.Size + 8]byte
		copy(buf[:], seed[:])
		binary.BigEndian.PutUint64(buf[sha256.Size:], counter)
		seed = sha256.Sum256(buf[:])
		counter++

		span := uint64(entities.MaxNumber - entities.MinNumber + 1)
		return int64(binary.BigEndian.Uint64(seed[:8])%span) + entities.MinNumber
	}
}

// pickDistinct draws PickCount distinct numbers from the source, re-drawing a
// slot while the value duplicates an earlier one. A slot that exhausts its
// retry cap fails the whole draw: the source is degenerate.
func pickDistinct(next numberSource) ([]int64, error) {
	numbers := make([]int64, 0, entities.PickCount)
	var used [entities.MaxNumber + 1]bool

	for slot := 0; slot < entities.PickCount; slot++ {
		placed := false
		for attempt := 0; attempt < maxSlotRetries; attempt++ {
			n := next()
			if !used[n] {
				used[n] = true
				numbers = append(numbers, n)
				placed = true
				break
			}
		}
		if !placed {
			return nil, entities.ErrDrawFailed
		}
	}

	return numbers, nil
}
