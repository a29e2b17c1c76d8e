package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
)

// fakePlatform records every call made against the notification registry.
type fakePlatform struct {
	mu            sync.Mutex
	scheduled     map[string]models.ScheduledNotification
	scheduleCalls int
	cancelCalls   []string
	cancelAll     int
	channels      []models.Channel
	permission    bool
	noChannels    bool
	failSchedule  map[models.Category]bool
	failChannel   map[string]bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		scheduled:    make(map[string]models.ScheduledNotification),
		permission:   true,
		failSchedule: make(map[models.Category]bool),
		failChannel:  make(map[string]bool),
	}
}

func (f *fakePlatform) RequestPermission(context.Context) (bool, error) {
	return f.permission, nil
}

func (f *fakePlatform) Schedule(_ context.Context, n models.ScheduledNotification) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduleCalls++
	if f.failSchedule[n.Category] {
		return "", fmt.Errorf("platform rejected %s", n.Category)
	}
	f.scheduled[n.Identifier] = n
	return n.Identifier, nil
}

func (f *fakePlatform) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls = append(f.cancelCalls, id)
	delete(f.scheduled, id)
	return nil
}

func (f *fakePlatform) GetAllScheduled(context.Context) ([]models.ScheduledNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ScheduledNotification, 0, len(f.scheduled))
	for _, n := range f.scheduled {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger.FireAt.Before(out[j].Trigger.FireAt) })
	return out, nil
}

func (f *fakePlatform) CancelAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelAll++
	f.scheduled = make(map[string]models.ScheduledNotification)
	return nil
}

func (f *fakePlatform) SetChannel(_ context.Context, ch models.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failChannel[ch.ID] {
		return errors.New("channel rejected")
	}
	f.channels = append(f.channels, ch)
	return nil
}

func (f *fakePlatform) SupportsChannels() bool { return !f.noChannels }

func (f *fakePlatform) byCategory(c models.Category) []models.ScheduledNotification {
	all, _ := f.GetAllScheduled(context.Background())
	var out []models.ScheduledNotification
	for _, n := range all {
		if n.Category == c {
			out = append(out, n)
		}
	}
	return out
}

// staticPrefs is a PreferenceProvider with fixed preferences.
type staticPrefs struct {
	prefs models.Preferences
}

func (s *staticPrefs) Current() models.Preferences { return s.prefs.Clone() }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// moodsAtHour builds n mood entries logged at hour on consecutive days.
func moodsAtHour(n, hour int) []models.MoodHistoryEntry {
	base := time.Date(2026, 2, 1, hour, 20, 0, 0, time.UTC)
	out := make([]models.MoodHistoryEntry, n)
	for i := range out {
		out[i] = models.MoodHistoryEntry{Mood: "calm", Timestamp: base.AddDate(0, 0, i), Intensity: 5}
	}
	return out
}

var _ repository.MoodHistorySource = (*repository.StaticMoodSource)(nil)
