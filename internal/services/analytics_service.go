package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/internal/repository"
)

const (
	DefaultAnalyticsWindowDays = 30

	highEngagementRate      = 0.7
	lowEngagementRate       = 0.3
	minInteractionsToJudge  = 5
	recommendationNoHistory = "Start with daily mood reminders to build a gentle check-in habit."
	recommendationAllGood   = "Your notification settings are working well. Keep going!"
)

// AnalyticsService summarises the interaction log.
type AnalyticsService struct {
	repo *repository.InteractionRepository
	now  func() time.Time
}

func NewAnalyticsService(repo *repository.InteractionRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// ComputeAnalytics reports engagement over the trailing windowDays days.
// windowDays <= 0 uses DefaultAnalyticsWindowDays.
func (s *AnalyticsService) ComputeAnalytics(ctx context.Context, windowDays int) (models.AnalyticsReport, error) {
	if windowDays <= 0 {
		windowDays = DefaultAnalyticsWindowDays
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return emptyReport(windowDays), fmt.Errorf("failed to compute analytics: %w", err)
	}

	now := s.now()
	return buildReport(entries, now.AddDate(0, 0, -windowDays), now.Location(), windowDays), nil
}

func emptyReport(windowDays int) models.AnalyticsReport {
	return models.AnalyticsReport{
		WindowDays:        windowDays,
		TypeDistribution:  map[models.Category]int{},
		TimeEffectiveness: map[int]*models.HourStats{},
		Recommendations:   []string{recommendationNoHistory},
	}
}

type categoryTally struct {
	total  int
	opened int
}

func buildReport(entries []models.InteractionLogEntry, since time.Time, loc *time.Location, windowDays int) models.AnalyticsReport {
	report := emptyReport(windowDays)
	report.Recommendations = nil

	tallies := make(map[models.Category]*categoryTally)
	opened := 0
	for _, e := range entries {
		if e.Timestamp.Before(since) {
			continue
		}
		report.TotalInteractions++
		report.TypeDistribution[e.Category]++

		t, ok := tallies[e.Category]
		if !ok {
			t = &categoryTally{}
			tallies[e.Category] = t
		}
		t.total++

		hour := e.Timestamp.In(loc).Hour()
		hs, ok := report.TimeEffectiveness[hour]
		if !ok {
			hs = &models.HourStats{}
			report.TimeEffectiveness[hour] = hs
		}
		hs.Sent++

		if e.ActionType == models.ActionOpened {
			opened++
			t.opened++
			hs.Opened++
		}
	}

	if report.TotalInteractions > 0 {
		report.EngagementRate = float64(opened) / float64(report.TotalInteractions)
	}
	report.Recommendations = recommendations(report.TotalInteractions, tallies)
	return report
}

func recommendations(total int, tallies map[models.Category]*categoryTally) []string {
	if total == 0 {
		return []string{recommendationNoHistory}
	}

	var recs []string
	for _, c := range models.AllCategories() {
		t, ok := tallies[c]
		if !ok || t.total < minInteractionsToJudge {
			continue
		}
		rate := float64(t.opened) / float64(t.total)
		pct := int(math.Round(rate * 100))
		switch {
		case rate > highEngagementRate:
			recs = append(recs, fmt.Sprintf("%s notifications are performing well (%d%% engagement). Keep this schedule.", c, pct))
		case rate < lowEngagementRate:
			recs = append(recs, fmt.Sprintf("%s notifications have low engagement (%d%%). Try adjusting their timing or content.", c, pct))
		}
	}

	if len(recs) == 0 {
		return []string{recommendationAllGood}
	}
	return recs
}
