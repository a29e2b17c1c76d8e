package cron

import (
	"context"
	"errors"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/jobs"
	"github.com/Dias221467/Solace_Notifications/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const refreshTimeout = time.Minute

// HistoryPruner drops delivery records past their retention.
type HistoryPruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartNotificationCronJobs starts the maintenance jobs and returns the
// running scheduler so the caller can stop it on shutdown. history may be nil
// when the store keeps no delivery history.
func StartNotificationCronJobs(notificationService *services.NotificationService, history HistoryPruner) (*cron.Cron, error) {
	c := cron.New()
	refresher := jobs.NewTimingRefresher(notificationService)

	// Adaptive reminder times follow the latest mood history
	_, err := c.AddFunc("5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		err := refresher.RunDailyRefresh(ctx)
		if errors.Is(err, services.ErrNotInitialized) {
			logrus.Debug("Skipping schedule refresh, notifications not initialized")
			return
		}
		if err != nil {
			logrus.WithError(err).Error("RunDailyRefresh failed")
		}
	})
	if err != nil {
		return nil, err
	}

	if history != nil {
		_, err = c.AddFunc("@hourly", func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if _, err := history.DeleteExpired(ctx); err != nil {
				logrus.WithError(err).Error("DeleteExpired failed")
			}
		})
		if err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}
