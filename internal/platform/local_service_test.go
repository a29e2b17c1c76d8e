package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanDispatcher chan models.ScheduledNotification

func (c chanDispatcher) Dispatch(_ context.Context, n models.ScheduledNotification) error {
	c <- n
	return nil
}

func newTestService(t *testing.T) (*LocalNotificationService, chanDispatcher) {
	t.Helper()
	delivered := make(chanDispatcher, 8)
	s := NewLocalNotificationService(delivered, time.UTC)
	s.Start()
	t.Cleanup(func() { s.Stop() })
	return s, delivered
}

func TestLocalService_OneOffFiresAndIsRemoved(t *testing.T) {
	s, delivered := newTestService(t)
	ctx := context.Background()

	id, err := s.Schedule(ctx, models.ScheduledNotification{
		Identifier: "crisis-1",
		Category:   models.CategoryCrisisSupport,
		Title:      "Checking in",
		Trigger:    models.DateTrigger(time.Now().Add(-time.Second)),
	})
	require.NoError(t, err)
	assert.Equal(t, "crisis-1", id)

	select {
	case n := <-delivered:
		assert.Equal(t, "crisis-1", n.Identifier)
		assert.Equal(t, "Checking in", n.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	assert.Eventually(t, func() bool {
		pending, _ := s.GetAllScheduled(ctx)
		return len(pending) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestLocalService_CancelPreventsDelivery(t *testing.T) {
	s, delivered := newTestService(t)
	ctx := context.Background()

	id, err := s.Schedule(ctx, models.ScheduledNotification{
		Category: models.CategoryTherapySession,
		Trigger:  models.DateTrigger(time.Now().Add(200 * time.Millisecond)),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, s.Cancel(ctx, id))
	require.NoError(t, s.Cancel(ctx, "unknown"))

	select {
	case n := <-delivered:
		t.Fatalf("cancelled notification %s was delivered", n.Identifier)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestLocalService_RecurringListingAndCancelAll(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	daily := models.DailyTrigger(models.TimeOfDay{Hour: 20}, now)
	weekly := models.WeeklyTrigger(time.Sunday, models.TimeOfDay{Hour: 19}, now)
	oneOff := models.DateTrigger(now.Add(time.Hour))

	for id, trig := range map[string]models.Trigger{"daily": daily, "weekly": weekly, "once": oneOff} {
		_, err := s.Schedule(ctx, models.ScheduledNotification{Identifier: id, Trigger: trig})
		require.NoError(t, err)
	}
	assert.Len(t, s.cron.Entries(), 2)

	pending, err := s.GetAllScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for i := 1; i < len(pending); i++ {
		assert.False(t, pending[i].Trigger.FireAt.Before(pending[i-1].Trigger.FireAt))
	}

	require.NoError(t, s.CancelAll(ctx))
	pending, err = s.GetAllScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, s.cron.Entries())
}

func TestLocalService_RescheduleSameIdentifierReplaces(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	n := models.ScheduledNotification{Identifier: "mood", Trigger: models.DailyTrigger(models.TimeOfDay{Hour: 9}, time.Now())}

	_, err := s.Schedule(ctx, n)
	require.NoError(t, err)
	_, err = s.Schedule(ctx, n)
	require.NoError(t, err)

	pending, err := s.GetAllScheduled(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestLocalService_RejectsUnknownTrigger(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Schedule(context.Background(), models.ScheduledNotification{Trigger: models.Trigger{Type: "hourly"}})
	assert.Error(t, err)
}

func TestLocalService_Channels(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	assert.True(t, s.SupportsChannels())
	assert.Error(t, s.SetChannel(ctx, models.Channel{}))
	require.NoError(t, s.SetChannel(ctx, models.Channel{ID: "mood-reminders", DisplayName: "Mood"}))
	assert.Contains(t, s.Channels(), "mood-reminders")

	s.SetPermission(false)
	granted, err := s.RequestPermission(ctx)
	require.NoError(t, err)
	assert.False(t, granted)
}

type failingDispatcher struct{ calls int }

func (f *failingDispatcher) Dispatch(context.Context, models.ScheduledNotification) error {
	f.calls++
	return errors.New("offline")
}

func TestMultiDispatcher_ContinuesAfterFailure(t *testing.T) {
	failing := &failingDispatcher{}
	delivered := make(chanDispatcher, 1)
	var sent []string
	mail := &EmailDispatcher{To: "me@example.com", Send: func(to, subject, _ string) error {
		sent = append(sent, to+":"+subject)
		return nil
	}}

	err := MultiDispatcher{failing, delivered, mail, LogDispatcher{}}.Dispatch(context.Background(),
		models.ScheduledNotification{Identifier: "n1", Title: "Wellness tip"})

	assert.Error(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Len(t, delivered, 1)
	assert.Equal(t, []string{"me@example.com:Wellness tip"}, sent)
}

func TestLocalService_ListingReportsNextRecurringRun(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	_, err := s.Schedule(ctx, models.ScheduledNotification{
		Identifier: "mood",
		Trigger: models.Trigger{
			Type:    models.TriggerDaily,
			Hour:    20,
			FireAt:  now.Add(-48 * time.Hour),
			Repeats: true,
		},
	})
	require.NoError(t, err)

	pending, err := s.GetAllScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	fireAt := pending[0].Trigger.FireAt
	assert.True(t, fireAt.After(now))
	assert.Equal(t, 20, fireAt.In(time.UTC).Hour())
	assert.Zero(t, fireAt.Minute())
}
