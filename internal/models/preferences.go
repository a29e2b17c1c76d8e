package models

// Frequency controls how often mood reminders recur.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyTwiceDaily Frequency = "twice_daily"
	FrequencyCustom     Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyCustom:
		return true
	}
	return false
}

// Preferences is the complete per-user notification configuration.
type Preferences struct {
	MoodReminders        MoodReminderPrefs   `json:"mood_reminders"`
	TherapySessions      TherapySessionPrefs `json:"therapy_sessions"`
	WellnessTips         WellnessTipPrefs    `json:"wellness_tips"`
	CrisisSupport        CrisisSupportPrefs  `json:"crisis_support"`
	ProgressCelebrations ProgressPrefs       `json:"progress_celebrations"`
	Adaptive             AdaptivePrefs       `json:"adaptive"`
}

type MoodReminderPrefs struct {
	Enabled           bool        `json:"enabled"`
	Frequency         Frequency   `json:"frequency"`
	Time              TimeOfDay   `json:"time"`
	CustomTimes       []TimeOfDay `json:"custom_times"`
	QuietHours        QuietHours  `json:"quiet_hours"`
	AdaptiveFrequency bool        `json:"adaptive_frequency"`
}

type TherapySessionPrefs struct {
	Enabled               bool  `json:"enabled"`
	ReminderBeforeMinutes []int `json:"reminder_before_minutes"`
	FollowUpAfterMinutes  int   `json:"follow_up_after_minutes"`
}

type WellnessTipPrefs struct {
	Enabled    bool      `json:"enabled"`
	Time       TimeOfDay `json:"time"`
	Categories []string  `json:"categories"`
}

type CrisisSupportPrefs struct {
	Enabled             bool `json:"enabled"`
	CheckInAfterHours   int  `json:"check_in_after_hours"`
	SafetyPlanReminders bool `json:"safety_plan_reminders"`
}

type ProgressPrefs struct {
	Enabled      bool `json:"enabled"`
	Milestones   bool `json:"milestones"`
	Streaks      bool `json:"streaks"`
	Achievements bool `json:"achievements"`
}

type AdaptivePrefs struct {
	Enabled             bool `json:"enabled"`
	LearnFromUsage      bool `json:"learn_from_usage"`
	RespectMoodPatterns bool `json:"respect_mood_patterns"`
	AvoidLowMoodTimes   bool `json:"avoid_low_mood_times"`
}

// DefaultPreferences returns the configuration used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		MoodReminders: MoodReminderPrefs{
			Enabled:   true,
			Frequency: FrequencyDaily,
			Time:      MustTimeOfDay("20:00"),
			CustomTimes: []TimeOfDay{
				MustTimeOfDay("09:00"),
				MustTimeOfDay("14:00"),
				MustTimeOfDay("20:00"),
			},
			QuietHours: QuietHours{
				Start: MustTimeOfDay("22:00"),
				End:   MustTimeOfDay("08:00"),
			},
			AdaptiveFrequency: true,
		},
		TherapySessions: TherapySessionPrefs{
			Enabled:               true,
			ReminderBeforeMinutes: []int{60, 15},
			FollowUpAfterMinutes:  30,
		},
		WellnessTips: WellnessTipPrefs{
			Enabled:    true,
			Time:       MustTimeOfDay("10:00"),
			Categories: []string{"mindfulness", "sleep", "stress", "gratitude"},
		},
		CrisisSupport: CrisisSupportPrefs{
			Enabled:             true,
			CheckInAfterHours:   24,
			SafetyPlanReminders: true,
		},
		ProgressCelebrations: ProgressPrefs{
			Enabled:      true,
			Milestones:   true,
			Streaks:      true,
			Achievements: true,
		},
		Adaptive: AdaptivePrefs{
			Enabled:             true,
			LearnFromUsage:      true,
			RespectMoodPatterns: true,
			AvoidLowMoodTimes:   false,
		},
	}
}

// Enabled reports whether notifications of category c are switched on.
func (p Preferences) Enabled(c Category) bool {
	switch c {
	case CategoryMoodReminder:
		return p.MoodReminders.Enabled
	case CategoryTherapySession:
		return p.TherapySessions.Enabled
	case CategoryWellnessTip:
		return p.WellnessTips.Enabled
	case CategoryCrisisSupport:
		return p.CrisisSupport.Enabled
	case CategoryProgressCelebration:
		return p.ProgressCelebrations.Enabled
	}
	return false
}

// Clone returns a deep copy so callers cannot alias the slices of a shared value.
func (p Preferences) Clone() Preferences {
	out := p
	out.MoodReminders.CustomTimes = append([]TimeOfDay(nil), p.MoodReminders.CustomTimes...)
	out.TherapySessions.ReminderBeforeMinutes = append([]int(nil), p.TherapySessions.ReminderBeforeMinutes...)
	out.WellnessTips.Categories = append([]string(nil), p.WellnessTips.Categories...)
	return out
}
