// Package scheduler runs the 30-second reminder tick. Each tick
// evaluates every live event against the 30-minute, 15-minute, and
// start windows, fires each at most once, and purges events past the
// retention threshold. Every window is twice the tick period wide so a
// delayed tick still lands inside it without double-firing.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"zonebot/internal/format"
	"zonebot/internal/platform"
	"zonebot/internal/store"
)

const (
	tickSpec  = "@every 30s"
	window    = 30 * time.Second // half-width of each gate window
	remind30  = 30 * time.Minute
	remind15  = 15 * time.Minute
	retention = time.Hour
)

// Service is the reminder state machine driver.
type Service struct {
	store *store.Store
	gw    platform.Gateway
	cron  *cron.Cron
	now   func() time.Time
}

func New(st *store.Store, gw platform.Gateway) (*Service, error) {
	s := &Service{
		store: st,
		gw:    gw,
		now:   time.Now,
	}
	// SkipIfStillRunning: a slow delivery must delay the next tick
	// rather than let ticks pile up and race on the same events.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))
	if _, err := c.AddFunc(tickSpec, s.tick); err != nil {
		return nil, fmt.Errorf("register tick: %w", err)
	}
	s.cron = c
	return s, nil
}

// Start begins periodic ticking.
func (s *Service) Start() {
	s.cron.Start()
}

// Stop halts the tick. In-flight deliveries are abandoned.
func (s *Service) Stop() {
	s.cron.Stop()
}

// TriggerNow runs a single tick synchronously.
func (s *Service) TriggerNow() {
	s.tick()
}

func (s *Service) tick() {
	now := s.now()
	var tc store.TickChanges

	for _, ev := range s.store.Events() {
		start := ev.Start()
		delta := start.Sub(now)
		dest := platform.Destination{GuildID: ev.GuildID, ChannelID: ev.ChannelID}

		if !ev.Fired30 && inWindow(delta, remind30) {
			if s.remind(dest, ev, start, 30) {
				tc.MarkFired(ev.ID, store.Gate30)
			}
		}
		if !ev.Fired15 && inWindow(delta, remind15) {
			if s.remind(dest, ev, start, 15) {
				tc.MarkFired(ev.ID, store.Gate15)
			}
		}
		if !ev.FiredStart && inWindow(delta, 0) {
			s.fireStart(dest, ev, start, &tc)
		}
		if now.Sub(start) > retention {
			tc.Remove(ev.ID)
		}
	}

	s.store.ApplyTick(tc)
}

// inWindow reports whether delta lies within the gate window centered
// on offset before start.
func inWindow(delta, offset time.Duration) bool {
	return delta >= offset-window && delta <= offset+window
}

// remind delivers one lead-time reminder. Returns false on delivery
// failure so the gate stays open for the next tick inside the window.
func (s *Service) remind(dest platform.Destination, ev store.Event, start time.Time, minutes int) bool {
	text := fmt.Sprintf("Reminder: **%s** starts in %d minutes (%s).",
		ev.Name, minutes, format.Tag(start, format.Relative))
	if _, err := s.gw.SendText(dest, text); err != nil {
		slog.Warn("scheduler: reminder delivery failed",
			"event", ev.ID, "minutes", minutes, "error", err)
		return false
	}
	return true
}

// fireStart delivers the start notification and, when the event has no
// thread yet and the channel allows it, tries to create one anchored on
// that notification. Thread creation is advisory: failure is logged and
// never retried.
func (s *Service) fireStart(dest platform.Destination, ev store.Event, start time.Time, tc *store.TickChanges) {
	text := fmt.Sprintf("**%s** is starting now %s!", ev.Name, format.Tag(start, format.ShortTime))
	msg, err := s.gw.SendText(dest, text)
	if err != nil {
		slog.Warn("scheduler: start notification failed", "event", ev.ID, "error", err)
		return
	}
	if ev.ThreadID == "" && s.gw.PermissionsFor(dest).CanThread {
		threadID, err := s.gw.CreateThread(dest, ev.Name, msg)
		if err != nil {
			slog.Debug("scheduler: thread creation failed", "event", ev.ID, "error", err)
		} else {
			tc.SetThread(ev.ID, threadID)
		}
	}
	tc.MarkFired(ev.ID, store.GateStart)
}

// cronLogger adapts robfig/cron's logger onto slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	slog.Debug("scheduler: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	slog.Error("scheduler: "+msg, append(kv, "error", err)...)
}
