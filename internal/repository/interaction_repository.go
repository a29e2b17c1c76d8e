package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
)

// MaxInteractionEntries caps the persisted interaction log.
const MaxInteractionEntries = 1000

// InteractionRepository stores the interaction log as a single JSON array,
// trimmed to the newest MaxInteractionEntries on every write.
type InteractionRepository struct {
	store KeyValueStore
	mu    sync.Mutex
}

func NewInteractionRepository(store KeyValueStore) *InteractionRepository {
	return &InteractionRepository{store: store}
}

// Append adds entry to the end of the log, evicting the oldest entries when
// the cap is exceeded.
func (r *InteractionRepository) Append(ctx context.Context, entry models.InteractionLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.list(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > MaxInteractionEntries {
		entries = entries[len(entries)-MaxInteractionEntries:]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode interactions: %w", err)
	}
	if err := r.store.SetItem(ctx, InteractionsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save interactions: %w", err)
	}
	return nil
}

// List returns the whole log, oldest first.
func (r *InteractionRepository) List(ctx context.Context) ([]models.InteractionLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx)
}

func (r *InteractionRepository) list(ctx context.Context) ([]models.InteractionLogEntry, error) {
	raw, found, err := r.store.GetItem(ctx, InteractionsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var entries []models.InteractionLogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Log.WithError(err).Warn("Stored interaction log is malformed, starting a new one")
		return nil, nil
	}
	return entries, nil
}
