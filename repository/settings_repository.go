package repository

import (
	"context"
	"fmt"

	"lotto/domain/entities"
)

// SettingsRepository implements access to the administrator-controlled ledger
// configuration against a unit of work's working state.
type SettingsRepository struct {
	state *ledgerState
}

func newSettingsRepository(state *ledgerState) *SettingsRepository {
	return &SettingsRepository{state: state}
}

// Get returns a copy of the current settings.
func (r *SettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	settings := r.state.settings
	return &settings, nil
}

// Update replaces the settings after validation.
func (r *SettingsRepository) Update(ctx context.Context, settings *entities.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	r.state.settings = *settings
	return nil
}
