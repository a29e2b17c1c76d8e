package platform

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const dispatchTimeout = 15 * time.Second

// LocalNotificationService is an in-process notification registry. Recurring
// triggers run as cron entries, one-off triggers as timers. Fired
// notifications are handed to the dispatcher.
type LocalNotificationService struct {
	mu         sync.Mutex
	cron       *cron.Cron
	entries    map[string]*localEntry
	channels   map[string]models.Channel
	dispatcher Dispatcher
	permission bool
	now        func() time.Time
}

type localEntry struct {
	notification models.ScheduledNotification
	cronID       cron.EntryID
	timer        *time.Timer
}

// NewLocalNotificationService creates a stopped service. Call Start to begin
// firing recurring entries.
func NewLocalNotificationService(dispatcher Dispatcher, loc *time.Location) *LocalNotificationService {
	if loc == nil {
		loc = time.Local
	}
	return &LocalNotificationService{
		cron:       cron.New(cron.WithLocation(loc)),
		entries:    make(map[string]*localEntry),
		channels:   make(map[string]models.Channel),
		dispatcher: dispatcher,
		permission: true,
		now:        time.Now,
	}
}

func (s *LocalNotificationService) Start() {
	s.cron.Start()
}

// Stop halts the cron runner and all pending timers.
func (s *LocalNotificationService) Stop() context.Context {
	s.mu.Lock()
	for _, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	s.mu.Unlock()
	return s.cron.Stop()
}

// SetPermission controls what RequestPermission reports.
func (s *LocalNotificationService) SetPermission(granted bool) {
	s.mu.Lock()
	s.permission = granted
	s.mu.Unlock()
}

func (s *LocalNotificationService) RequestPermission(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission, nil
}

func (s *LocalNotificationService) SupportsChannels() bool { return true }

func (s *LocalNotificationService) SetChannel(_ context.Context, ch models.Channel) error {
	if ch.ID == "" {
		return fmt.Errorf("channel id is required")
	}
	s.mu.Lock()
	s.channels[ch.ID] = ch
	s.mu.Unlock()
	return nil
}

// Channels returns the registered channels keyed by id.
func (s *LocalNotificationService) Channels() map[string]models.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.Channel, len(s.channels))
	for k, v := range s.channels {
		out[k] = v
	}
	return out
}

func (s *LocalNotificationService) Schedule(_ context.Context, n models.ScheduledNotification) (string, error) {
	if n.Identifier == "" {
		n.Identifier = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[n.Identifier]; ok {
		s.removeLocked(old)
	}

	entry := &localEntry{notification: n}
	id := n.Identifier

	switch n.Trigger.Type {
	case models.TriggerDaily:
		spec := fmt.Sprintf("%d %d * * *", n.Trigger.Minute, n.Trigger.Hour)
		cronID, err := s.cron.AddFunc(spec, func() { s.fire(id) })
		if err != nil {
			return "", fmt.Errorf("failed to schedule daily trigger: %w", err)
		}
		entry.cronID = cronID
	case models.TriggerWeekly:
		spec := fmt.Sprintf("%d %d * * %d", n.Trigger.Minute, n.Trigger.Hour, int(n.Trigger.Weekday))
		cronID, err := s.cron.AddFunc(spec, func() { s.fire(id) })
		if err != nil {
			return "", fmt.Errorf("failed to schedule weekly trigger: %w", err)
		}
		entry.cronID = cronID
	case models.TriggerDate:
		delay := n.Trigger.FireAt.Sub(s.now())
		if delay < 0 {
			delay = 0
		}
		entry.timer = time.AfterFunc(delay, func() { s.fire(id) })
	default:
		return "", fmt.Errorf("unsupported trigger type %q", n.Trigger.Type)
	}

	s.entries[id] = entry
	return id, nil
}

func (s *LocalNotificationService) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		s.removeLocked(e)
	}
	return nil
}

func (s *LocalNotificationService) CancelAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		s.removeLocked(e)
	}
	return nil
}

// GetAllScheduled returns pending notifications ordered by next fire time.
// Recurring entries report their upcoming run once the cron runner is started.
func (s *LocalNotificationService) GetAllScheduled(_ context.Context) ([]models.ScheduledNotification, error) {
	next := make(map[cron.EntryID]time.Time)
	for _, ce := range s.cron.Entries() {
		next[ce.ID] = ce.Next
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ScheduledNotification, 0, len(s.entries))
	for _, e := range s.entries {
		n := e.notification
		if at, ok := next[e.cronID]; ok && !at.IsZero() {
			n.Trigger.FireAt = at
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Trigger.FireAt.Before(out[j].Trigger.FireAt)
	})
	return out, nil
}

func (s *LocalNotificationService) removeLocked(e *localEntry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	if e.cronID != 0 {
		s.cron.Remove(e.cronID)
	}
	delete(s.entries, e.notification.Identifier)
}

func (s *LocalNotificationService) fire(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	n := e.notification
	if !n.Trigger.Repeats {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		logrus.WithError(err).WithField("notification_id", id).Warn("Failed to dispatch notification")
	}
}
