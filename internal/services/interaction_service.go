package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Route actions returned to the app.
const (
	RouteActionNavigate = "navigate"
	RouteActionNone     = "none"
)

// InteractionService records what users do with delivered notifications and
// decides where the app should go next.
type InteractionService struct {
	repo *repository.InteractionRepository
	now  func() time.Time
}

func NewInteractionService(repo *repository.InteractionRepository) *InteractionService {
	return &InteractionService{repo: repo, now: time.Now}
}

// RecordInteraction appends entry to the capped interaction log. A zero
// timestamp is replaced with the current time.
func (s *InteractionService) RecordInteraction(ctx context.Context, entry models.InteractionLogEntry) error {
	if !entry.ActionType.Valid() {
		return fmt.Errorf("invalid action type %q", entry.ActionType)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		logger.Log.WithError(err).WithField("notification_id", entry.NotificationID).Error("Failed to record notification interaction")
		return err
	}
	return nil
}

// HandleNotificationInteraction logs the interaction and returns the screen
// the app should open. Logging failures do not change the route.
func (s *InteractionService) HandleNotificationInteraction(ctx context.Context, n models.ScheduledNotification, action models.ActionType) models.InteractionRoute {
	entry := models.InteractionLogEntry{
		NotificationID: n.Identifier,
		Category:       n.Category,
		ActionType:     action,
		Title:          n.Title,
	}
	if !n.Trigger.FireAt.IsZero() {
		scheduled := n.Trigger.FireAt
		entry.ScheduledTime = &scheduled
	}
	_ = s.RecordInteraction(ctx, entry)

	route := routeFor(n, action)
	logger.Log.WithFields(logrus.Fields{
		"notification_id": n.Identifier,
		"category":        n.Category,
		"action":          action,
		"screen":          route.Screen,
	}).Info("Notification interaction handled")
	return route
}

func routeFor(n models.ScheduledNotification, action models.ActionType) models.InteractionRoute {
	if action == models.ActionDismissed {
		return models.InteractionRoute{Action: RouteActionNone}
	}

	switch n.Category {
	case models.CategoryMoodReminder:
		return models.InteractionRoute{Action: RouteActionNavigate, Screen: "MoodCheckIn"}
	case models.CategoryTherapySession:
		route := models.InteractionRoute{Action: RouteActionNavigate, Screen: "TherapySession"}
		if id, ok := n.Payload[payloadKeySessionID].(string); ok && id != "" {
			route.Params = map[string]string{"sessionId": id}
		}
		return route
	case models.CategoryWellnessTip:
		return models.InteractionRoute{Action: RouteActionNavigate, Screen: "WellnessTips"}
	case models.CategoryCrisisSupport:
		return models.InteractionRoute{Action: RouteActionNavigate, Screen: "CrisisSupport"}
	case models.CategoryProgressCelebration:
		return models.InteractionRoute{Action: RouteActionNavigate, Screen: "Progress"}
	}
	return models.InteractionRoute{Action: RouteActionNavigate, Screen: "Home"}
}
