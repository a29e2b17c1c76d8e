package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/pkg/email"
	"github.com/sirupsen/logrus"
)

// NotificationService is the platform notification registry the engine
// schedules against.
type NotificationService interface {
	RequestPermission(ctx context.Context) (bool, error)
	// Schedule registers n and returns its identifier.
	Schedule(ctx context.Context, n models.ScheduledNotification) (string, error)
	Cancel(ctx context.Context, id string) error
	GetAllScheduled(ctx context.Context) ([]models.ScheduledNotification, error)
	CancelAll(ctx context.Context) error
	SetChannel(ctx context.Context, ch models.Channel) error
	// SupportsChannels is false on platforms without a channel concept.
	SupportsChannels() bool
}

// DeviceInfo describes the host the app runs on.
type DeviceInfo interface {
	IsPhysicalDevice() bool
}

// StaticDevice is a DeviceInfo fixed at construction.
type StaticDevice bool

func (d StaticDevice) IsPhysicalDevice() bool { return bool(d) }

// Dispatcher hands a fired notification to the user.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.ScheduledNotification) error
}

// MultiDispatcher fans a notification out to every dispatcher. A failing
// dispatcher is logged and does not stop the others.
type MultiDispatcher []Dispatcher

func (m MultiDispatcher) Dispatch(ctx context.Context, n models.ScheduledNotification) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, n); err != nil {
			logrus.WithError(err).WithField("notification_id", n.Identifier).Warn("Dispatcher failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogDispatcher only records deliveries in the log.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, n models.ScheduledNotification) error {
	logrus.WithFields(logrus.Fields{
		"notification_id": n.Identifier,
		"category":        n.Category,
		"title":           n.Title,
	}).Info("Notification delivered")
	return nil
}

// EmailDispatcher mails a copy of each delivered notification.
type EmailDispatcher struct {
	To   string
	Send func(to, subject, body string) error
}

func NewEmailDispatcher(to string) *EmailDispatcher {
	return &EmailDispatcher{To: to, Send: email.SendEmail}
}

func (d *EmailDispatcher) Dispatch(_ context.Context, n models.ScheduledNotification) error {
	if err := d.Send(d.To, n.Title, n.Body); err != nil {
		return fmt.Errorf("failed to email notification %s: %w", n.Identifier, err)
	}
	return nil
}
