package models

import "time"

// ActionType is what the user did with a delivered notification.
type ActionType string

const (
	ActionOpened      ActionType = "opened"
	ActionDismissed   ActionType = "dismissed"
	ActionActionTaken ActionType = "action_taken"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionOpened, ActionDismissed, ActionActionTaken:
		return true
	}
	return false
}

type InteractionLogEntry struct {
	Timestamp      time.Time  `json:"timestamp"`
	NotificationID string     `json:"notification_id"`
	Category       Category   `json:"category"`
	ActionType     ActionType `json:"action_type"`
	Title          string     `json:"title"`
	ScheduledTime  *time.Time `json:"scheduled_time,omitempty"`
}

// InteractionRoute is where the app should take the user after an
// interaction. It is a decision only; the client performs the navigation.
type InteractionRoute struct {
	Action string            `json:"action"`
	Screen string            `json:"screen,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// HourStats tallies notifications and opens for one hour of the day.
type HourStats struct {
	Sent   int `json:"sent"`
	Opened int `json:"opened"`
}

type AnalyticsReport struct {
	WindowDays        int                `json:"window_days"`
	TotalInteractions int                `json:"total_interactions"`
	EngagementRate    float64            `json:"engagement_rate"`
	TypeDistribution  map[Category]int   `json:"type_distribution"`
	TimeEffectiveness map[int]*HourStats `json:"time_effectiveness"`
	Recommendations   []string           `json:"recommendations"`
}
