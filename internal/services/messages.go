package services

import "github.com/Dias221467/Solace_Notifications/internal/models"

// Message is a title/body pair used for a notification.
type Message struct {
	Title string
	Body  string
}

var (
	moodMessages = []Message{
		{"How are you feeling?", "Take a moment to check in with yourself. Your feelings matter."},
		{"Time for a mood check-in", "A quick check-in can help you notice patterns in how you feel."},
		{"Pause and reflect", "How has your day been so far? Log your mood when you are ready."},
		{"A gentle reminder", "Noticing your emotions is a small act of self-care."},
	}

	wellnessMessages = []Message{
		{"Wellness tip", "Try three slow breaths: in for four, hold for four, out for six."},
		{"Wellness tip", "A short walk outside can lift your mood and clear your mind."},
		{"Wellness tip", "Write down one thing you are grateful for today."},
		{"Wellness tip", "Keeping a regular bedtime helps your mind rest and recover."},
		{"Wellness tip", "Drink a glass of water and stretch for a minute."},
	}

	crisisMessages = []Message{
		{"Checking in on you", "We are thinking of you. How are you doing right now? Support is always available."},
		{"Review your safety plan", "Take a few minutes to look over your safety plan and trusted contacts."},
	}

	therapyMessages = []Message{
		{"Upcoming therapy session", "Your session starts soon. Take a moment to think about what you want to talk about."},
		{"How was your session?", "Take a moment to reflect on your therapy session and note any insights."},
	}

	celebrationMessages = []Message{
		{"Congratulations!", "You reached a new milestone. Every step counts."},
		{"Keep it up!", "Your streak is growing. Consistency builds resilience."},
		{"Achievement unlocked", "You earned a new achievement. Be proud of your progress."},
	}
)

// messagePool returns the message pool for c.
func messagePool(c models.Category) []Message {
	switch c {
	case models.CategoryMoodReminder:
		return moodMessages
	case models.CategoryTherapySession:
		return therapyMessages
	case models.CategoryWellnessTip:
		return wellnessMessages
	case models.CategoryCrisisSupport:
		return crisisMessages
	case models.CategoryProgressCelebration:
		return celebrationMessages
	}
	return nil
}

// rotatingMessage picks pool[index % len(pool)].
func rotatingMessage(c models.Category, index int) Message {
	pool := messagePool(c)
	if len(pool) == 0 {
		return Message{}
	}
	if index < 0 {
		index = -index
	}
	return pool[index%len(pool)]
}
