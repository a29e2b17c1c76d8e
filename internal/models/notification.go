package models

import "time"

// TriggerType describes when a scheduled notification fires.
type TriggerType string

const (
	TriggerDaily  TriggerType = "daily"
	TriggerWeekly TriggerType = "weekly"
	TriggerDate   TriggerType = "date"
)

// Trigger is either a recurring time-of-day rule or a single instant.
// For recurring triggers FireAt holds the first occurrence, which is never in
// the past at scheduling time.
type Trigger struct {
	Type    TriggerType  `json:"type"`
	Hour    int          `json:"hour,omitempty"`
	Minute  int          `json:"minute,omitempty"`
	Weekday time.Weekday `json:"weekday,omitempty"`
	FireAt  time.Time    `json:"fire_at"`
	Repeats bool         `json:"repeats"`
}

// DailyTrigger repeats every day at t, starting at the next occurrence after now.
func DailyTrigger(t TimeOfDay, now time.Time) Trigger {
	return Trigger{
		Type:    TriggerDaily,
		Hour:    t.Hour,
		Minute:  t.Minute,
		FireAt:  t.NextAfter(now),
		Repeats: true,
	}
}

// WeeklyTrigger repeats every week on day at t.
func WeeklyTrigger(day time.Weekday, t TimeOfDay, now time.Time) Trigger {
	first := t.NextAfter(now)
	for first.Weekday() != day {
		first = first.AddDate(0, 0, 1)
	}
	return Trigger{
		Type:    TriggerWeekly,
		Hour:    t.Hour,
		Minute:  t.Minute,
		Weekday: day,
		FireAt:  first,
		Repeats: true,
	}
}

// DateTrigger fires once at at.
func DateTrigger(at time.Time) Trigger {
	return Trigger{Type: TriggerDate, FireAt: at}
}

// ScheduledNotification is a notification registered with the platform
// notification service.
type ScheduledNotification struct {
	Identifier string                 `json:"identifier"`
	Category   Category               `json:"category"`
	ChannelID  string                 `json:"channel_id"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	Trigger    Trigger                `json:"trigger"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// SessionDetails describes a therapy session a reminder is attached to.
type SessionDetails struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Therapist string `json:"therapist,omitempty"`
}

// MilestoneType selects which progress toggle governs a celebration.
type MilestoneType string

const (
	MilestoneGeneric     MilestoneType = "milestone"
	MilestoneStreak      MilestoneType = "streak"
	MilestoneAchievement MilestoneType = "achievement"
)

// Milestone is a just-completed accomplishment worth celebrating.
type Milestone struct {
	Type        MilestoneType `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
}

// MoodHistoryEntry is a single mood log owned by the mood tracker. The
// notification engine only reads these.
type MoodHistoryEntry struct {
	Mood      string    `bson:"mood" json:"mood"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Intensity int       `bson:"intensity" json:"intensity"`
}

// InitResult reports the outcome of engine initialization.
type InitResult struct {
	Ready              bool `json:"ready"`
	PermissionGranted  bool `json:"permission_granted"`
	PhysicalDevice     bool `json:"physical_device"`
	ChannelsRegistered bool `json:"channels_registered"`
}
