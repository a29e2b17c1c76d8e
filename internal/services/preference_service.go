package services

import (
	"context"
	"sync"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
)

// PreferenceService holds the in-memory preferences and keeps storage in sync.
type PreferenceService struct {
	repo     *repository.PreferenceRepository
	strict   bool
	mu       sync.RWMutex
	current  models.Preferences
	onChange func(ctx context.Context, prefs models.Preferences)
}

// NewPreferenceService starts from the defaults until Load is called. When
// strict is set, Save reports storage failures to the caller.
func NewPreferenceService(repo *repository.PreferenceRepository, strict bool) *PreferenceService {
	return &PreferenceService{
		repo:    repo,
		strict:  strict,
		current: models.DefaultPreferences(),
	}
}

// OnChange registers the hook run after every Save.
func (s *PreferenceService) OnChange(fn func(ctx context.Context, prefs models.Preferences)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load reads preferences from storage. It never fails: on a read error the
// defaults are used for this session.
func (s *PreferenceService) Load(ctx context.Context) models.Preferences {
	prefs, err := s.repo.Load(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("Using default notification preferences")
	}

	s.mu.Lock()
	s.current = prefs
	s.mu.Unlock()
	return prefs.Clone()
}

// Current returns a copy of the in-memory preferences.
func (s *PreferenceService) Current() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Save merges patch into the current preferences, persists the full result
// and runs the change hook. The in-memory update survives a storage failure.
func (s *PreferenceService) Save(ctx context.Context, patch models.PreferencesPatch) (models.Preferences, error) {
	s.mu.Lock()
	merged := models.MergePreferences(s.current, patch)
	s.current = merged
	hook := s.onChange
	s.mu.Unlock()

	err := s.repo.Save(ctx, merged)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to persist notification preferences")
	}

	if hook != nil {
		hook(ctx, merged.Clone())
	}

	if err != nil && s.strict {
		return merged.Clone(), err
	}
	return merged.Clone(), nil
}
