package services

import (
	"testing"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEstimateOptimalTime(t *testing.T) {
	fallback := models.MustTimeOfDay("20:00")

	tests := []struct {
		name    string
		history []models.MoodHistoryEntry
		want    models.TimeOfDay
	}{
		{"no history", nil, fallback},
		{"too little history", moodsAtHour(9, 14), fallback},
		{"afternoon logger", moodsAtHour(10, 14), models.MustTimeOfDay("13:00")},
		{"early logger is floored", moodsAtHour(12, 6), models.MustTimeOfDay("08:00")},
		{"nine o'clock logger is floored", moodsAtHour(12, 9), models.MustTimeOfDay("08:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateOptimalTime(tt.history, fallback, time.UTC))
		})
	}
}

func TestEstimateOptimalTime_TieGoesToEarliestHour(t *testing.T) {
	history := append(moodsAtHour(5, 19), moodsAtHour(5, 12)...)

	got := EstimateOptimalTime(history, models.MustTimeOfDay("20:00"), time.UTC)
	assert.Equal(t, models.MustTimeOfDay("11:00"), got)
}

func TestEstimateOptimalTime_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	// 14:20 UTC is 17:20 in loc
	got := EstimateOptimalTime(moodsAtHour(10, 14), models.MustTimeOfDay("20:00"), loc)
	assert.Equal(t, models.MustTimeOfDay("16:00"), got)
}

func TestIsWithinQuietHours(t *testing.T) {
	quiet := models.QuietHours{Start: models.MustTimeOfDay("22:00"), End: models.MustTimeOfDay("08:00")}

	assert.True(t, IsWithinQuietHours(models.MustTimeOfDay("23:30"), quiet))
	assert.True(t, IsWithinQuietHours(models.MustTimeOfDay("05:00"), quiet))
	assert.False(t, IsWithinQuietHours(models.MustTimeOfDay("12:00"), quiet))
}

func TestOutsideQuietHours(t *testing.T) {
	quiet := models.QuietHours{Start: models.MustTimeOfDay("22:00"), End: models.MustTimeOfDay("08:00")}

	assert.Equal(t, models.MustTimeOfDay("08:00"), outsideQuietHours(models.MustTimeOfDay("23:00"), quiet))
	assert.Equal(t, models.MustTimeOfDay("20:00"), outsideQuietHours(models.MustTimeOfDay("20:00"), quiet))
}
