package models

// PreferencesPatch is a partial Preferences. Every field is optional: a nil
// pointer (or nil slice) leaves the base value untouched. It is both the shape
// accepted by the preferences API and the shape read back from storage, so a
// stored record written by an older build with fewer fields still resolves to
// a complete Preferences.
type PreferencesPatch struct {
	MoodReminders        *MoodReminderPatch   `json:"mood_reminders,omitempty"`
	TherapySessions      *TherapySessionPatch `json:"therapy_sessions,omitempty"`
	WellnessTips         *WellnessTipPatch    `json:"wellness_tips,omitempty"`
	CrisisSupport        *CrisisSupportPatch  `json:"crisis_support,omitempty"`
	ProgressCelebrations *ProgressPatch       `json:"progress_celebrations,omitempty"`
	Adaptive             *AdaptivePatch       `json:"adaptive,omitempty"`
}

type MoodReminderPatch struct {
	Enabled           *bool            `json:"enabled,omitempty"`
	Frequency         *Frequency       `json:"frequency,omitempty"`
	Time              *TimeOfDay       `json:"time,omitempty"`
	CustomTimes       []TimeOfDay      `json:"custom_times,omitempty"`
	QuietHours        *QuietHoursPatch `json:"quiet_hours,omitempty"`
	AdaptiveFrequency *bool            `json:"adaptive_frequency,omitempty"`
}

type QuietHoursPatch struct {
	Start *TimeOfDay `json:"start,omitempty"`
	End   *TimeOfDay `json:"end,omitempty"`
}

type TherapySessionPatch struct {
	Enabled               *bool `json:"enabled,omitempty"`
	ReminderBeforeMinutes []int `json:"reminder_before_minutes,omitempty"`
	FollowUpAfterMinutes  *int  `json:"follow_up_after_minutes,omitempty"`
}

type WellnessTipPatch struct {
	Enabled    *bool      `json:"enabled,omitempty"`
	Time       *TimeOfDay `json:"time,omitempty"`
	Categories []string   `json:"categories,omitempty"`
}

type CrisisSupportPatch struct {
	Enabled             *bool `json:"enabled,omitempty"`
	CheckInAfterHours   *int  `json:"check_in_after_hours,omitempty"`
	SafetyPlanReminders *bool `json:"safety_plan_reminders,omitempty"`
}

type ProgressPatch struct {
	Enabled      *bool `json:"enabled,omitempty"`
	Milestones   *bool `json:"milestones,omitempty"`
	Streaks      *bool `json:"streaks,omitempty"`
	Achievements *bool `json:"achievements,omitempty"`
}

type AdaptivePatch struct {
	Enabled             *bool `json:"enabled,omitempty"`
	LearnFromUsage      *bool `json:"learn_from_usage,omitempty"`
	RespectMoodPatterns *bool `json:"respect_mood_patterns,omitempty"`
	AvoidLowMoodTimes   *bool `json:"avoid_low_mood_times,omitempty"`
}

// MergePreferences applies patch over base field by field and returns the
// result. base is not modified. Invalid values in the patch (unknown
// frequency, negative durations) are ignored so the result stays usable.
//
// Overridable fields:
//   - mood_reminders: enabled, frequency, time, custom_times (replaced as a
//     whole when non-empty), quiet_hours.start/end, adaptive_frequency
//   - therapy_sessions: enabled, reminder_before_minutes (replaced as a
//     whole), follow_up_after_minutes (>= 0)
//   - wellness_tips: enabled, time, categories (replaced as a whole)
//   - crisis_support: enabled, check_in_after_hours (> 0), safety_plan_reminders
//   - progress_celebrations: enabled, milestones, streaks, achievements
//   - adaptive: enabled, learn_from_usage, respect_mood_patterns, avoid_low_mood_times
func MergePreferences(base Preferences, patch PreferencesPatch) Preferences {
	out := base.Clone()

	if m := patch.MoodReminders; m != nil {
		setBool(&out.MoodReminders.Enabled, m.Enabled)
		if m.Frequency != nil && m.Frequency.Valid() {
			out.MoodReminders.Frequency = *m.Frequency
		}
		if m.Time != nil {
			out.MoodReminders.Time = *m.Time
		}
		if len(m.CustomTimes) > 0 {
			out.MoodReminders.CustomTimes = append([]TimeOfDay(nil), m.CustomTimes...)
		}
		if q := m.QuietHours; q != nil {
			if q.Start != nil {
				out.MoodReminders.QuietHours.Start = *q.Start
			}
			if q.End != nil {
				out.MoodReminders.QuietHours.End = *q.End
			}
		}
		setBool(&out.MoodReminders.AdaptiveFrequency, m.AdaptiveFrequency)
	}

	if t := patch.TherapySessions; t != nil {
		setBool(&out.TherapySessions.Enabled, t.Enabled)
		if len(t.ReminderBeforeMinutes) > 0 {
			out.TherapySessions.ReminderBeforeMinutes = append([]int(nil), t.ReminderBeforeMinutes...)
		}
		if t.FollowUpAfterMinutes != nil && *t.FollowUpAfterMinutes >= 0 {
			out.TherapySessions.FollowUpAfterMinutes = *t.FollowUpAfterMinutes
		}
	}

	if w := patch.WellnessTips; w != nil {
		setBool(&out.WellnessTips.Enabled, w.Enabled)
		if w.Time != nil {
			out.WellnessTips.Time = *w.Time
		}
		if len(w.Categories) > 0 {
			out.WellnessTips.Categories = append([]string(nil), w.Categories...)
		}
	}

	if c := patch.CrisisSupport; c != nil {
		setBool(&out.CrisisSupport.Enabled, c.Enabled)
		if c.CheckInAfterHours != nil && *c.CheckInAfterHours > 0 {
			out.CrisisSupport.CheckInAfterHours = *c.CheckInAfterHours
		}
		setBool(&out.CrisisSupport.SafetyPlanReminders, c.SafetyPlanReminders)
	}

	if p := patch.ProgressCelebrations; p != nil {
		setBool(&out.ProgressCelebrations.Enabled, p.Enabled)
		setBool(&out.ProgressCelebrations.Milestones, p.Milestones)
		setBool(&out.ProgressCelebrations.Streaks, p.Streaks)
		setBool(&out.ProgressCelebrations.Achievements, p.Achievements)
	}

	if a := patch.Adaptive; a != nil {
		setBool(&out.Adaptive.Enabled, a.Enabled)
		setBool(&out.Adaptive.LearnFromUsage, a.LearnFromUsage)
		setBool(&out.Adaptive.RespectMoodPatterns, a.RespectMoodPatterns)
		setBool(&out.Adaptive.AvoidLowMoodTimes, a.AvoidLowMoodTimes)
	}

	return out
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
