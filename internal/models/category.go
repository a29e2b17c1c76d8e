package models

import (
	"errors"
	"fmt"
)

// Category identifies the therapeutic purpose of a notification.
type Category string

const (
	CategoryMoodReminder        Category = "mood_reminder"
	CategoryTherapySession      Category = "therapy_session"
	CategoryWellnessTip         Category = "wellness_tip"
	CategoryCrisisSupport       Category = "crisis_support"
	CategoryProgressCelebration Category = "progress_celebration"
)

var ErrInvalidCategory = errors.New("invalid notification category")

// AllCategories returns every category in registration order.
func AllCategories() []Category {
	return []Category{
		CategoryMoodReminder,
		CategoryTherapySession,
		CategoryWellnessTip,
		CategoryCrisisSupport,
		CategoryProgressCelebration,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryMoodReminder, CategoryTherapySession, CategoryWellnessTip,
		CategoryCrisisSupport, CategoryProgressCelebration:
		return true
	}
	return false
}

// ParseCategory validates a raw category name coming from the API or storage.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
	}
	return c, nil
}

// Importance mirrors the platform's channel importance levels.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceDefault  Importance = "default"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// Channel is the delivery configuration bound to a category. Channels are
// built once at startup and never modified.
type Channel struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description"`
	Importance  Importance `json:"importance"`
	Sound       string     `json:"sound"`
}
