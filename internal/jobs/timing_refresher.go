package jobs

import (
	"context"
	"fmt"

	"github.com/Dias221467/Solace_Notifications/internal/services"
	"github.com/sirupsen/logrus"
)

// TimingRefresher re-derives recurring schedules so adaptive reminder times
// follow the user's latest mood logging pattern.
type TimingRefresher struct {
	NotificationService *services.NotificationService
}

func NewTimingRefresher(notifService *services.NotificationService) *TimingRefresher {
	return &TimingRefresher{NotificationService: notifService}
}

// RunDailyRefresh rebuilds the recurring notifications. It is a no-op error
// until the notification service has been initialized.
func (t *TimingRefresher) RunDailyRefresh(ctx context.Context) error {
	if err := t.NotificationService.RefreshSchedules(ctx); err != nil {
		return fmt.Errorf("failed to refresh schedules: %w", err)
	}

	prefs := t.NotificationService.Preferences()
	logrus.WithFields(logrus.Fields{
		"frequency": prefs.MoodReminders.Frequency,
		"adaptive":  prefs.Adaptive.Enabled && prefs.MoodReminders.AdaptiveFrequency,
	}).Info("Daily schedule refresh completed")
	return nil
}
