package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/platform"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	moodHistoryLimit     = 500
	celebrationDelay     = 2 * time.Second
	safetyPlanReviewDay  = time.Sunday
	payloadKeyCategory   = "category"
	payloadKeyKind       = "kind"
	payloadKeySessionID  = "session_id"
	payloadKeyCrisisTime = "crisis_time"
)

var (
	morningReminderTime  = models.MustTimeOfDay("09:00")
	safetyPlanReviewTime = models.MustTimeOfDay("19:00")
)

// PreferenceProvider exposes the current preferences to the scheduler.
type PreferenceProvider interface {
	Current() models.Preferences
}

// Scheduler turns preferences and app events into platform registrations.
// Every registration is tagged with its category so a category can be
// cancelled before it is scheduled again.
type Scheduler struct {
	platform platform.NotificationService
	prefs    PreferenceProvider
	moods    repository.MoodHistorySource
	now      func() time.Time
}

// NewScheduler creates a scheduler. moods may be nil, in which case adaptive
// timing always uses the configured time.
func NewScheduler(p platform.NotificationService, prefs PreferenceProvider, moods repository.MoodHistorySource) *Scheduler {
	return &Scheduler{
		platform: p,
		prefs:    prefs,
		moods:    moods,
		now:      time.Now,
	}
}

// WithClock replaces the scheduler's time source.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// ScheduleRecurring replaces the recurring notifications of category with a
// fresh set derived from the current preferences. Pending one-off entries of
// the category are kept. Categories without a recurring rule (therapy
// sessions, celebrations) are left untouched.
func (s *Scheduler) ScheduleRecurring(ctx context.Context, category models.Category) error {
	prefs := s.prefs.Current()

	var plan []plannedReminder
	switch category {
	case models.CategoryMoodReminder:
		plan = s.planMoodReminders(ctx, prefs)
	case models.CategoryWellnessTip:
		plan = s.planWellnessTips(prefs)
	case models.CategoryCrisisSupport:
		plan = s.planSafetyPlanReminders(prefs)
	case models.CategoryTherapySession, models.CategoryProgressCelebration:
		return nil
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
	}

	if _, err := s.cancelMatching(ctx, category, true); err != nil {
		return fmt.Errorf("failed to clear %s before rescheduling: %w", category, err)
	}
	if !prefs.Enabled(category) {
		return nil
	}

	quiet := prefs.MoodReminders.QuietHours
	now := s.now()
	var errs []error
	for _, r := range plan {
		at := r.at
		if r.respectQuiet {
			at = outsideQuietHours(at, quiet)
		}
		var trigger models.Trigger
		if r.weekly {
			trigger = models.WeeklyTrigger(r.weekday, at, now)
		} else {
			trigger = models.DailyTrigger(at, now)
		}
		n := s.newNotification(category, r.msg, trigger, map[string]interface{}{payloadKeyKind: r.kind})
		if _, err := s.platform.Schedule(ctx, n); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"category": category,
				"time":     at.String(),
			}).Warn("Failed to schedule recurring notification")
			errs = append(errs, err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"category":  category,
		"scheduled": len(plan) - len(errs),
	}).Info("Recurring notifications scheduled")
	return errors.Join(errs...)
}

type plannedReminder struct {
	at      models.TimeOfDay
	msg     Message
	kind    string
	weekly  bool
	weekday time.Weekday

	// respectQuiet moves a user-configured mood time out of quiet hours.
	respectQuiet bool
}

func (s *Scheduler) planMoodReminders(ctx context.Context, prefs models.Preferences) []plannedReminder {
	mood := prefs.MoodReminders
	evening := mood.Time
	adaptive := s.adaptiveTiming(prefs)
	if adaptive {
		evening = s.OptimalReminderTime(ctx, mood.Time)
	}

	var plan []plannedReminder
	// A learned time follows the user's own habit and is not moved out of
	// quiet hours.
	add := func(t models.TimeOfDay, learned bool) {
		plan = append(plan, plannedReminder{
			at:           t,
			msg:          rotatingMessage(models.CategoryMoodReminder, len(plan)),
			kind:         "mood_check_in",
			respectQuiet: !learned,
		})
	}

	switch mood.Frequency {
	case models.FrequencyTwiceDaily:
		add(morningReminderTime, false)
		add(evening, adaptive)
	case models.FrequencyCustom:
		for _, t := range mood.CustomTimes {
			add(t, false)
		}
	default:
		add(evening, adaptive)
	}
	return plan
}

func (s *Scheduler) planWellnessTips(prefs models.Preferences) []plannedReminder {
	return []plannedReminder{{
		at:   prefs.WellnessTips.Time,
		msg:  rotatingMessage(models.CategoryWellnessTip, s.now().YearDay()),
		kind: "wellness_tip",
	}}
}

func (s *Scheduler) planSafetyPlanReminders(prefs models.Preferences) []plannedReminder {
	if !prefs.CrisisSupport.SafetyPlanReminders {
		return nil
	}
	return []plannedReminder{{
		at:      safetyPlanReviewTime,
		msg:     crisisMessages[1],
		kind:    "safety_plan_review",
		weekly:  true,
		weekday: safetyPlanReviewDay,
	}}
}

func (s *Scheduler) adaptiveTiming(prefs models.Preferences) bool {
	return prefs.Adaptive.Enabled && prefs.Adaptive.LearnFromUsage && prefs.MoodReminders.AdaptiveFrequency
}

// OptimalReminderTime estimates the reminder time from mood history, falling
// back to fallback when history is unavailable or too short.
func (s *Scheduler) OptimalReminderTime(ctx context.Context, fallback models.TimeOfDay) models.TimeOfDay {
	if s.moods == nil {
		return fallback
	}
	history, err := s.moods.RecentMoods(ctx, moodHistoryLimit)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to load mood history, using configured reminder time")
		return fallback
	}
	return EstimateOptimalTime(history, fallback, s.now().Location())
}

// ScheduleOneOff registers a single notification at at. Instants that are not
// strictly in the future are skipped without touching the platform; the
// returned bool reports whether anything was registered.
func (s *Scheduler) ScheduleOneOff(ctx context.Context, category models.Category, at time.Time, msg Message, payload map[string]interface{}) (bool, error) {
	if !category.Valid() {
		return false, fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
	}
	if !at.After(s.now()) {
		logger.Log.WithFields(logrus.Fields{
			"category": category,
			"at":       at,
		}).Debug("Skipping one-off notification in the past")
		return false, nil
	}

	n := s.newNotification(category, msg, models.DateTrigger(at), payload)
	if _, err := s.platform.Schedule(ctx, n); err != nil {
		logger.Log.WithError(err).WithField("category", category).Warn("Failed to schedule one-off notification")
		return false, fmt.Errorf("failed to schedule %s notification: %w", category, err)
	}
	return true, nil
}

// ScheduleTherapySessionReminder registers a reminder for every configured
// lead time and a follow-up after the session. Returns how many were registered.
func (s *Scheduler) ScheduleTherapySessionReminder(ctx context.Context, sessionTime time.Time, details models.SessionDetails) (int, error) {
	prefs := s.prefs.Current().TherapySessions
	if !prefs.Enabled {
		return 0, nil
	}

	scheduled := 0
	var errs []error
	for _, lead := range prefs.ReminderBeforeMinutes {
		if lead <= 0 {
			continue
		}
		msg := Message{
			Title: therapyMessages[0].Title,
			Body:  fmt.Sprintf("%s starts in %s. %s", sessionName(details), leadTimeText(lead), therapyMessages[0].Body),
		}
		payload := map[string]interface{}{payloadKeyKind: "session_reminder", payloadKeySessionID: details.ID}
		ok, err := s.ScheduleOneOff(ctx, models.CategoryTherapySession, sessionTime.Add(-time.Duration(lead)*time.Minute), msg, payload)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			scheduled++
		}
	}

	if prefs.FollowUpAfterMinutes > 0 {
		payload := map[string]interface{}{payloadKeyKind: "session_follow_up", payloadKeySessionID: details.ID}
		ok, err := s.ScheduleOneOff(ctx, models.CategoryTherapySession, sessionTime.Add(time.Duration(prefs.FollowUpAfterMinutes)*time.Minute), therapyMessages[1], payload)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			scheduled++
		}
	}

	return scheduled, errors.Join(errs...)
}

// ScheduleCrisisCheckIn registers a check-in checkInAfterHours after crisisTime.
func (s *Scheduler) ScheduleCrisisCheckIn(ctx context.Context, crisisTime time.Time) (bool, error) {
	prefs := s.prefs.Current().CrisisSupport
	if !prefs.Enabled {
		return false, nil
	}
	at := crisisTime.Add(time.Duration(prefs.CheckInAfterHours) * time.Hour)
	payload := map[string]interface{}{
		payloadKeyKind:       "crisis_check_in",
		payloadKeyCrisisTime: crisisTime.Format(time.RFC3339),
	}
	return s.ScheduleOneOff(ctx, models.CategoryCrisisSupport, at, crisisMessages[0], payload)
}

// ScheduleProgressCelebration fires a celebration a couple of seconds from
// now, subject to the toggle matching the milestone type.
func (s *Scheduler) ScheduleProgressCelebration(ctx context.Context, m models.Milestone) (bool, error) {
	prefs := s.prefs.Current().ProgressCelebrations
	if !prefs.Enabled {
		return false, nil
	}

	idx := 0
	switch m.Type {
	case models.MilestoneStreak:
		if !prefs.Streaks {
			return false, nil
		}
		idx = 1
	case models.MilestoneAchievement:
		if !prefs.Achievements {
			return false, nil
		}
		idx = 2
	default:
		if !prefs.Milestones {
			return false, nil
		}
	}

	msg := celebrationMessages[idx]
	if m.Title != "" {
		msg.Title = m.Title
	}
	if m.Description != "" {
		msg.Body = m.Description
	}
	payload := map[string]interface{}{payloadKeyKind: string(m.Type)}
	return s.ScheduleOneOff(ctx, models.CategoryProgressCelebration, s.now().Add(celebrationDelay), msg, payload)
}

// CancelCategory cancels every pending notification tagged with category and
// returns how many were cancelled.
func (s *Scheduler) CancelCategory(ctx context.Context, category models.Category) (int, error) {
	return s.cancelMatching(ctx, category, false)
}

// cancelMatching cancels the pending entries of category, only the repeating
// ones when recurringOnly is set.
func (s *Scheduler) cancelMatching(ctx context.Context, category models.Category, recurringOnly bool) (int, error) {
	pending, err := s.platform.GetAllScheduled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list scheduled notifications: %w", err)
	}

	cancelled := 0
	var errs []error
	for _, n := range pending {
		if n.Category != category || (recurringOnly && !n.Trigger.Repeats) {
			continue
		}
		if err := s.platform.Cancel(ctx, n.Identifier); err != nil {
			logger.Log.WithError(err).WithField("notification_id", n.Identifier).Warn("Failed to cancel notification")
			errs = append(errs, err)
			continue
		}
		cancelled++
	}
	return cancelled, errors.Join(errs...)
}

// RescheduleAll cancels everything and rebuilds the recurring set. Each
// category is scheduled independently; a failure in one does not stop the rest.
func (s *Scheduler) RescheduleAll(ctx context.Context) error {
	var errs []error
	if err := s.platform.CancelAll(ctx); err != nil {
		logger.Log.WithError(err).Warn("Failed to cancel all notifications, continuing per category")
		errs = append(errs, err)
	}

	for _, c := range models.AllCategories() {
		if err := s.ScheduleRecurring(ctx, c); err != nil {
			logger.Log.WithError(err).WithField("category", c).Error("Failed to schedule category")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshRecurring rebuilds the recurring set without the system-wide cancel,
// so pending one-off reminders survive.
func (s *Scheduler) RefreshRecurring(ctx context.Context) error {
	var errs []error
	for _, c := range models.AllCategories() {
		if err := s.ScheduleRecurring(ctx, c); err != nil {
			logger.Log.WithError(err).WithField("category", c).Error("Failed to refresh category")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) newNotification(category models.Category, msg Message, trigger models.Trigger, payload map[string]interface{}) models.ScheduledNotification {
	data := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		data[k] = v
	}
	data[payloadKeyCategory] = string(category)

	return models.ScheduledNotification{
		Identifier: fmt.Sprintf("%s-%s", category, uuid.NewString()),
		Category:   category,
		ChannelID:  ChannelFor(category).ID,
		Title:      msg.Title,
		Body:       msg.Body,
		Trigger:    trigger,
		Payload:    data,
	}
}

func sessionName(d models.SessionDetails) string {
	name := "Your therapy session"
	if d.Title != "" {
		name = d.Title
	}
	if d.Therapist != "" {
		name += " with " + d.Therapist
	}
	return name
}

func leadTimeText(minutes int) string {
	switch {
	case minutes%(24*60) == 0:
		return pluralize(minutes/(24*60), "day")
	case minutes%60 == 0:
		return pluralize(minutes/60, "hour")
	}
	return pluralize(minutes, "minute")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
