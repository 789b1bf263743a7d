// Package store owns the durable collection of scheduled events. Every
// mutation goes through one mutex and is persisted to a flat JSON file;
// a missing or corrupt file degrades to an empty store so the bot
// always comes up.
package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("not allowed to cancel this event")
)

// Event is one scheduled event with its three one-shot reminder flags.
// The JSON tags are the persisted layout; do not rename them.
type Event struct {
	ID              int64   `json:"id"`
	GuildID         string  `json:"guildId"`
	ChannelID       string  `json:"channelId"`
	CreatorID       string  `json:"creatorId"`
	Name            string  `json:"name"`
	StartUTC        float64 `json:"startUtc"` // epoch seconds
	OriginMessageID string  `json:"originMessageId"`
	ThreadID        string  `json:"threadId"`
	Fired30         bool    `json:"fired30"`
	Fired15         bool    `json:"fired15"`
	FiredStart      bool    `json:"firedStart"`
}

// Start returns the event start as a UTC time.
func (e Event) Start() time.Time {
	return time.UnixMilli(int64(e.StartUTC * 1000)).UTC()
}

// Origin identifies where an event was created.
type Origin struct {
	GuildID   string
	ChannelID string
	CreatorID string
}

// Store is the process-wide event collection plus its next-id counter.
type Store struct {
	path string

	mu     sync.Mutex
	events []Event
	nextID int64
}

func New(path string) *Store {
	return &Store{path: path, nextID: 1}
}

// Load restores the persisted collection. A missing or unreadable file
// yields an empty store with the counter reset to 1. A damaged file is
// salvaged record by record: gjson walks whatever array structure is
// still recognizable, each element is decoded on its own, and only the
// unreadable ones are dropped. One mangled record (or a truncated tail)
// must not take the rest of the collection with it.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
	s.nextID = 1

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		slog.Warn("store: read failed, starting empty", "path", s.path, "error", err)
		return
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		slog.Warn("store: payload is not an event array, starting empty", "path", s.path)
		return
	}
	dropped := 0
	parsed.ForEach(func(_, record gjson.Result) bool {
		var ev Event
		if err := json.Unmarshal([]byte(record.Raw), &ev); err != nil || ev.ID < 1 {
			dropped++
			return true
		}
		s.events = append(s.events, ev)
		return true
	})
	if dropped > 0 {
		slog.Warn("store: dropped unreadable records", "path", s.path, "dropped", dropped)
	}
	for _, e := range s.events {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
}

// Register creates a new event, persists it, and returns a copy. The
// name is trimmed and defaults to "Event" when blank.
func (s *Store) Register(origin Origin, name string, start time.Time, originMessageID string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Event"
	}
	ev := Event{
		ID:              s.nextID,
		GuildID:         origin.GuildID,
		ChannelID:       origin.ChannelID,
		CreatorID:       origin.CreatorID,
		Name:            name,
		StartUTC:        epochSeconds(start),
		OriginMessageID: originMessageID,
	}
	s.nextID++
	s.events = append(s.events, ev)
	s.save()
	return ev
}

// Cancel removes an event. Only the creator, or a requester with the
// override privilege, may remove it.
func (s *Store) Cancel(id int64, requesterID string, override bool) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Event{}, ErrNotFound
	}
	ev := s.events[idx]
	if ev.CreatorID != requesterID && !override {
		return Event{}, ErrForbidden
	}
	s.events = append(s.events[:idx], s.events[idx+1:]...)
	s.save()
	return ev, nil
}

// Upcoming returns live events starting no earlier than a minute ago,
// soonest first.
func (s *Store) Upcoming(now time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := epochSeconds(now) - 60
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if e.StartUTC >= cutoff {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartUTC < out[j].StartUTC })
	return out
}

// Events returns a snapshot of every live event in insertion order.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// SetThreadID backfills the thread created for an event. The id sticks
// on first write; later calls are ignored.
func (s *Store) SetThreadID(id int64, threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 || threadID == "" || s.events[idx].ThreadID != "" {
		return
	}
	s.events[idx].ThreadID = threadID
	s.save()
}

// indexOf returns the position of id in events, or -1. Caller holds mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

// save persists the whole collection. Failures are logged, never
// propagated: a full disk must not take the scheduler down with it.
// Caller holds mu.
func (s *Store) save() {
	events := s.events
	if events == nil {
		events = []Event{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		slog.Error("store: marshal failed", "error", err)
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("store: create directory failed", "dir", dir, "error", err)
			return
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		slog.Error("store: persist failed", "path", s.path, "error", err)
	}
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}
