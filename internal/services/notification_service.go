package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/platform"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
)

var ErrNotInitialized = errors.New("notification service is not initialized")

// NotificationService is the engine's entry point for the rest of the app.
// It is built once by the composition root and shared by reference.
// Failures from the platform or storage are logged here and never surfaced
// as errors; only misuse (not initialized, invalid input) is returned.
type NotificationService struct {
	platform     platform.NotificationService
	device       platform.DeviceInfo
	channels     *ChannelRegistry
	prefs        *PreferenceService
	scheduler    *Scheduler
	interactions *InteractionService
	analytics    *AnalyticsService

	mu          sync.Mutex
	initialized bool
	result      models.InitResult
}

func NewNotificationService(
	p platform.NotificationService,
	device platform.DeviceInfo,
	channels *ChannelRegistry,
	prefs *PreferenceService,
	scheduler *Scheduler,
	interactions *InteractionService,
	analytics *AnalyticsService,
) *NotificationService {
	s := &NotificationService{
		platform:     p,
		device:       device,
		channels:     channels,
		prefs:        prefs,
		scheduler:    scheduler,
		interactions: interactions,
		analytics:    analytics,
	}
	prefs.OnChange(s.preferencesChanged)
	return s
}

// Initialize requests permission, registers channels, loads preferences and
// schedules the recurring set. A successful result is cached; a failed one
// (permission denied, simulator) can be retried.
func (s *NotificationService) Initialize(ctx context.Context) models.InitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return s.result
	}

	result := models.InitResult{PhysicalDevice: s.device.IsPhysicalDevice()}
	if !result.PhysicalDevice {
		logger.Log.Warn("Notifications require a physical device, skipping permission request")
		return result
	}

	granted, err := s.platform.RequestPermission(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to request notification permission")
	}
	result.PermissionGranted = granted
	if !granted {
		logger.Log.Warn("Notification permission not granted")
		return result
	}

	result.ChannelsRegistered = s.channels.RegisterChannels(ctx)
	s.prefs.Load(ctx)
	if err := s.scheduler.RescheduleAll(ctx); err != nil {
		logger.Log.WithError(err).Warn("Some notifications could not be scheduled during initialization")
	}

	result.Ready = true
	s.result = result
	s.initialized = true
	logger.Log.WithField("channels_registered", result.ChannelsRegistered).Info("Notification service initialized")
	return result
}

func (s *NotificationService) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *NotificationService) preferencesChanged(ctx context.Context, _ models.Preferences) {
	if !s.isInitialized() {
		return
	}
	if err := s.scheduler.RescheduleAll(ctx); err != nil {
		logger.Log.WithError(err).Warn("Failed to reschedule after preference change")
	}
}

// Preferences returns the current preferences.
func (s *NotificationService) Preferences() models.Preferences {
	return s.prefs.Current()
}

// SavePreferences merges patch into the preferences and reschedules. The
// error is only non-nil in strict persistence mode.
func (s *NotificationService) SavePreferences(ctx context.Context, patch models.PreferencesPatch) (models.Preferences, error) {
	return s.prefs.Save(ctx, patch)
}

// ScheduleTherapySessionReminder returns how many reminders were registered.
func (s *NotificationService) ScheduleTherapySessionReminder(ctx context.Context, sessionTime time.Time, details models.SessionDetails) (int, error) {
	if !s.isInitialized() {
		return 0, ErrNotInitialized
	}
	n, err := s.scheduler.ScheduleTherapySessionReminder(ctx, sessionTime, details)
	if err != nil {
		logger.Log.WithError(err).WithField("session_id", details.ID).Warn("Some therapy session reminders failed")
	}
	return n, nil
}

func (s *NotificationService) ScheduleCrisisCheckIn(ctx context.Context, crisisTime time.Time) (bool, error) {
	if !s.isInitialized() {
		return false, ErrNotInitialized
	}
	ok, err := s.scheduler.ScheduleCrisisCheckIn(ctx, crisisTime)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to schedule crisis check-in")
	}
	return ok, nil
}

func (s *NotificationService) ScheduleProgressCelebration(ctx context.Context, m models.Milestone) (bool, error) {
	if !s.isInitialized() {
		return false, ErrNotInitialized
	}
	ok, err := s.scheduler.ScheduleProgressCelebration(ctx, m)
	if err != nil {
		logger.Log.WithError(err).WithField("milestone", m.Title).Warn("Failed to schedule progress celebration")
	}
	return ok, nil
}

// HandleNotificationInteraction records the interaction and returns the
// routing decision for the app.
func (s *NotificationService) HandleNotificationInteraction(ctx context.Context, n models.ScheduledNotification, action models.ActionType) (models.InteractionRoute, error) {
	if !n.Category.Valid() {
		return models.InteractionRoute{}, models.ErrInvalidCategory
	}
	if !action.Valid() {
		return models.InteractionRoute{}, errors.New("invalid action type")
	}
	return s.interactions.HandleNotificationInteraction(ctx, n, action), nil
}

// GetNotificationAnalytics summarises the trailing windowDays days. Storage
// failures yield an empty report.
func (s *NotificationService) GetNotificationAnalytics(ctx context.Context, windowDays int) models.AnalyticsReport {
	report, err := s.analytics.ComputeAnalytics(ctx, windowDays)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to compute notification analytics")
	}
	return report
}

// ScheduledNotifications lists everything pending on the platform.
func (s *NotificationService) ScheduledNotifications(ctx context.Context) ([]models.ScheduledNotification, error) {
	return s.platform.GetAllScheduled(ctx)
}

// RefreshSchedules rebuilds recurring notifications so adaptive times follow
// the latest mood history. Pending one-off reminders are kept.
func (s *NotificationService) RefreshSchedules(ctx context.Context) error {
	if !s.isInitialized() {
		return ErrNotInitialized
	}
	if err := s.scheduler.RefreshRecurring(ctx); err != nil {
		logger.Log.WithError(err).Warn("Schedule refresh completed with errors")
	}
	logger.Log.Debug("Notification schedules refreshed")
	return nil
}
