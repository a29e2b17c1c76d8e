package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
)

// PreferenceRepository persists notification preferences as JSON.
type PreferenceRepository struct {
	store KeyValueStore
}

func NewPreferenceRepository(store KeyValueStore) *PreferenceRepository {
	return &PreferenceRepository{store: store}
}

// Load returns the stored preferences merged over the defaults. A missing or
// malformed record yields the defaults with a nil error; a read failure
// yields the defaults together with the error.
func (r *PreferenceRepository) Load(ctx context.Context) (models.Preferences, error) {
	defaults := models.DefaultPreferences()

	raw, found, err := r.store.GetItem(ctx, PreferencesKey)
	if err != nil {
		return defaults, fmt.Errorf("failed to load preferences: %w", err)
	}
	if !found || raw == "" {
		return defaults, nil
	}

	var stored models.PreferencesPatch
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Log.WithError(err).Warn("Stored notification preferences are malformed, using defaults")
		return defaults, nil
	}
	return models.MergePreferences(defaults, stored), nil
}

// Save writes the complete preferences record.
func (r *PreferenceRepository) Save(ctx context.Context, prefs models.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := r.store.SetItem(ctx, PreferencesKey, string(data)); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
