package services

import (
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
)

const (
	// MinAdaptiveHistory is the number of mood logs needed before the logging
	// pattern is trusted.
	MinAdaptiveHistory   = 10
	earliestReminderHour = 8
)

// EstimateOptimalTime suggests a reminder time one hour before the hour the
// user most often logs their mood, never earlier than 08:00. Ties go to the
// earliest hour. With too little history the fallback is returned unchanged.
// Timestamps are bucketed by their hour in loc (nil means time.Local).
func EstimateOptimalTime(history []models.MoodHistoryEntry, fallback models.TimeOfDay, loc *time.Location) models.TimeOfDay {
	if len(history) < MinAdaptiveHistory {
		return fallback
	}
	if loc == nil {
		loc = time.Local
	}

	var counts [24]int
	for _, e := range history {
		counts[e.Timestamp.In(loc).Hour()]++
	}

	best := 0
	for h := 1; h < 24; h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}

	return models.TimeOfDay{Hour: max(earliestReminderHour, best-1), Minute: 0}
}

// IsWithinQuietHours reports whether t falls inside the quiet window,
// including windows that cross midnight.
func IsWithinQuietHours(t models.TimeOfDay, quiet models.QuietHours) bool {
	return quiet.Contains(t)
}

// outsideQuietHours moves t to the end of the quiet window when it falls
// inside it.
func outsideQuietHours(t models.TimeOfDay, quiet models.QuietHours) models.TimeOfDay {
	if quiet.Contains(t) {
		return quiet.End
	}
	return t
}
