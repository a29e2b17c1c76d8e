package services

import (
	"context"
	"sync"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/platform"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
)

// ChannelFor returns the delivery channel bound to c.
func ChannelFor(c models.Category) models.Channel {
	switch c {
	case models.CategoryMoodReminder:
		return models.Channel{
			ID:          "mood-reminders",
			DisplayName: "Mood Check-ins",
			Description: "Gentle reminders to check in with how you are feeling",
			Importance:  models.ImportanceDefault,
			Sound:       "gentle_chime",
		}
	case models.CategoryTherapySession:
		return models.Channel{
			ID:          "therapy-sessions",
			DisplayName: "Therapy Sessions",
			Description: "Reminders before and after your therapy sessions",
			Importance:  models.ImportanceHigh,
			Sound:       "default",
		}
	case models.CategoryWellnessTip:
		return models.Channel{
			ID:          "wellness-tips",
			DisplayName: "Wellness Tips",
			Description: "Daily ideas for looking after your wellbeing",
			Importance:  models.ImportanceLow,
			Sound:       "", // silent
		}
	case models.CategoryCrisisSupport:
		return models.Channel{
			ID:          "crisis-support",
			DisplayName: "Crisis Support",
			Description: "Check-ins and safety plan reminders",
			Importance:  models.ImportanceCritical,
			Sound:       "urgent",
		}
	case models.CategoryProgressCelebration:
		return models.Channel{
			ID:          "progress-celebrations",
			DisplayName: "Progress Celebrations",
			Description: "Celebrating your milestones, streaks and achievements",
			Importance:  models.ImportanceDefault,
			Sound:       "celebration",
		}
	}
	return models.Channel{}
}

// ChannelRegistry registers one platform channel per category.
type ChannelRegistry struct {
	platform   platform.NotificationService
	mu         sync.Mutex
	registered bool
}

func NewChannelRegistry(p platform.NotificationService) *ChannelRegistry {
	return &ChannelRegistry{platform: p}
}

// RegisterChannels creates the channels once. Later calls are no-ops. A
// channel that fails to register is logged and skipped; it only affects how
// the notification looks, not whether it is delivered. Returns whether every
// channel is in place.
func (r *ChannelRegistry) RegisterChannels(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered {
		return true
	}
	if !r.platform.SupportsChannels() {
		r.registered = true
		return true
	}

	ok := true
	for _, c := range models.AllCategories() {
		ch := ChannelFor(c)
		if err := r.platform.SetChannel(ctx, ch); err != nil {
			logger.Log.WithError(err).WithField("channel_id", ch.ID).Warn("Failed to register notification channel")
			ok = false
		}
	}
	// Only a clean pass is final; a partial one is retried on the next call.
	r.registered = ok
	return ok
}
