package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalytics(t *testing.T, entries ...models.InteractionLogEntry) *AnalyticsService {
	t.Helper()
	repo := repository.NewInteractionRepository(repository.NewMemoryKVStore())
	for _, e := range entries {
		require.NoError(t, repo.Append(context.Background(), e))
	}
	svc := NewAnalyticsService(repo)
	svc.now = fixedClock(testNow)
	return svc
}

func interactions(c models.Category, n, opened int, at time.Time) []models.InteractionLogEntry {
	out := make([]models.InteractionLogEntry, n)
	for i := range out {
		action := models.ActionDismissed
		if i < opened {
			action = models.ActionOpened
		}
		out[i] = models.InteractionLogEntry{
			Timestamp:      at,
			NotificationID: fmt.Sprintf("%s-%d", c, i),
			Category:       c,
			ActionType:     action,
		}
	}
	return out
}

func TestComputeAnalytics_NoHistory(t *testing.T) {
	report, err := newTestAnalytics(t).ComputeAnalytics(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultAnalyticsWindowDays, report.WindowDays)
	assert.Zero(t, report.TotalInteractions)
	assert.Zero(t, report.EngagementRate)
	assert.Equal(t, []string{recommendationNoHistory}, report.Recommendations)
}

func TestComputeAnalytics_HighEngagement(t *testing.T) {
	at := testNow.Add(-2 * time.Hour)
	svc := newTestAnalytics(t, interactions(models.CategoryMoodReminder, 10, 8, at)...)

	report, err := svc.ComputeAnalytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalInteractions)
	assert.InDelta(t, 0.8, report.EngagementRate, 1e-9)
	assert.Equal(t, 10, report.TypeDistribution[models.CategoryMoodReminder])
	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "mood_reminder")
	assert.Contains(t, report.Recommendations[0], "80%")
	assert.Contains(t, report.Recommendations[0], "performing well")

	hour := report.TimeEffectiveness[at.Hour()]
	require.NotNil(t, hour)
	assert.Equal(t, models.HourStats{Sent: 10, Opened: 8}, *hour)
}

func TestComputeAnalytics_LowEngagement(t *testing.T) {
	svc := newTestAnalytics(t, interactions(models.CategoryWellnessTip, 6, 1, testNow.Add(-time.Hour))...)

	report, err := svc.ComputeAnalytics(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "wellness_tip")
	assert.Contains(t, report.Recommendations[0], "17%")
	assert.Contains(t, report.Recommendations[0], "low engagement")
}

func TestComputeAnalytics_ActionTakenIsNotAnOpen(t *testing.T) {
	entries := interactions(models.CategoryCrisisSupport, 5, 0, testNow.Add(-time.Hour))
	for i := range entries {
		entries[i].ActionType = models.ActionActionTaken
	}
	report, err := newTestAnalytics(t, entries...).ComputeAnalytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Zero(t, report.EngagementRate)
	assert.Contains(t, report.Recommendations[0], "low engagement")
}

func TestComputeAnalytics_MiddlingOrSparseDataIsFine(t *testing.T) {
	entries := interactions(models.CategoryMoodReminder, 10, 5, testNow.Add(-time.Hour))
	entries = append(entries, interactions(models.CategoryTherapySession, 3, 0, testNow.Add(-time.Hour))...)

	report, err := newTestAnalytics(t, entries...).ComputeAnalytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, []string{recommendationAllGood}, report.Recommendations)
}

func TestComputeAnalytics_WindowFilter(t *testing.T) {
	entries := interactions(models.CategoryMoodReminder, 4, 4, testNow.AddDate(0, 0, -40))
	entries = append(entries, interactions(models.CategoryWellnessTip, 2, 1, testNow.AddDate(0, 0, -3))...)

	report, err := newTestAnalytics(t, entries...).ComputeAnalytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalInteractions)
	assert.Equal(t, map[models.Category]int{models.CategoryWellnessTip: 2}, report.TypeDistribution)
	assert.InDelta(t, 0.5, report.EngagementRate, 1e-9)
}

func TestComputeAnalytics_StorageFailure(t *testing.T) {
	store := repository.NewMemoryKVStore()
	store.ReadErr = errors.New("unavailable")
	svc := NewAnalyticsService(repository.NewInteractionRepository(store))

	report, err := svc.ComputeAnalytics(context.Background(), 30)
	assert.Error(t, err)
	assert.Zero(t, report.TotalInteractions)
	assert.Equal(t, []string{recommendationNoHistory}, report.Recommendations)
}
