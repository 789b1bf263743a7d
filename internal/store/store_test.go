package store

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "events.json"))
}

func origin() Origin {
	return Origin{GuildID: "g1", ChannelID: "c1", CreatorID: "alice"}
}

func TestRegisterAndUpcoming(t *testing.T) {
	st := testStore(t)
	start := time.Now().Add(time.Hour)

	ev := st.Register(origin(), "Scrims", start, "m1")
	if ev.ID != 1 {
		t.Errorf("first id = %d, want 1", ev.ID)
	}
	if ev.Fired30 || ev.Fired15 || ev.FiredStart {
		t.Error("new event must have all fired flags false")
	}
	if ev.ThreadID != "" {
		t.Errorf("new event thread id = %q, want empty", ev.ThreadID)
	}

	up := st.Upcoming(time.Now())
	if len(up) != 1 {
		t.Fatalf("expected 1 upcoming event, got %d", len(up))
	}
	if diff := math.Abs(up[0].StartUTC - float64(start.UnixMilli())/1000); diff > 1 {
		t.Errorf("startUtc off by %.3fs", diff)
	}
}

func TestRegisterNameDefaults(t *testing.T) {
	st := testStore(t)
	tests := []struct {
		in, want string
	}{
		{"  Valorant scrims  ", "Valorant scrims"},
		{"   ", "Event"},
		{"", "Event"},
	}
	for _, tc := range tests {
		ev := st.Register(origin(), tc.in, time.Now().Add(time.Hour), "")
		if ev.Name != tc.want {
			t.Errorf("Register(%q) name = %q, want %q", tc.in, ev.Name, tc.want)
		}
	}
}

func TestPersistenceReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	start := time.Now().Add(2 * time.Hour)

	st1 := New(path)
	st1.Register(origin(), "one", start, "m1")
	st1.Register(origin(), "two", start.Add(time.Hour), "m2")

	st2 := New(path)
	st2.Load()
	events := st2.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 restored events, got %d", len(events))
	}
	if events[0].Name != "one" || events[1].Name != "two" {
		t.Errorf("restored names %q, %q", events[0].Name, events[1].Name)
	}
	if ev := st2.Register(origin(), "three", start, ""); ev.ID != 3 {
		t.Errorf("id after reload = %d, want 3", ev.ID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	st := testStore(t)
	st.Load()
	if len(st.Events()) != 0 {
		t.Error("missing file should load as empty store")
	}
	if ev := st.Register(origin(), "x", time.Now(), ""); ev.ID != 1 {
		t.Errorf("id = %d, want 1", ev.ID)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"truncated json", `[{"id": 1, "name": "x"`},
		{"not json at all", "definitely not json"},
		{"wrong shape", `{"jobs": []}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "events.json")
			if err := os.WriteFile(path, []byte(tc.payload), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			st := New(path)
			st.Load()
			if len(st.Events()) != 0 {
				t.Error("corrupt file should load as empty store")
			}
			if ev := st.Register(origin(), "fresh", time.Now(), ""); ev.ID != 1 {
				t.Errorf("id after corrupt load = %d, want 1", ev.ID)
			}
		})
	}
}

func TestLoadSalvagesReadableRecords(t *testing.T) {
	payload := `[
  {"id": 3, "guildId": "g1", "channelId": "c1", "creatorId": "alice", "name": "kept", "startUtc": 1700000000},
  {"id": "bad", "name": 42},
  {"id": 5, "guildId": "g1", "channelId": "c1", "creatorId": "alice", "name": "also kept", "startUtc": 1700000100}
]`
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	st := New(path)
	st.Load()

	events := st.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 salvaged events, got %d", len(events))
	}
	if events[0].Name != "kept" || events[1].Name != "also kept" {
		t.Errorf("salvaged names %q, %q", events[0].Name, events[1].Name)
	}
	if ev := st.Register(origin(), "next", time.Now(), ""); ev.ID != 6 {
		t.Errorf("id after salvage = %d, want 6", ev.ID)
	}
}

func TestLoadSalvagesTruncatedTail(t *testing.T) {
	payload := `[{"id": 1, "name": "first", "startUtc": 1700000000}, {"id": 2, "name": "seco`
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	st := New(path)
	st.Load()

	events := st.Events()
	if len(events) != 1 || events[0].Name != "first" {
		t.Fatalf("expected only the intact record, got %+v", events)
	}
	if ev := st.Register(origin(), "next", time.Now(), ""); ev.ID != 2 {
		t.Errorf("id after salvage = %d, want 2", ev.ID)
	}
}

func TestCancelPermissions(t *testing.T) {
	st := testStore(t)
	ev := st.Register(origin(), "party", time.Now().Add(time.Hour), "")

	if _, err := st.Cancel(99, "alice", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancel unknown id: err = %v, want ErrNotFound", err)
	}
	if _, err := st.Cancel(ev.ID, "bob", false); !errors.Is(err, ErrForbidden) {
		t.Errorf("cancel by stranger: err = %v, want ErrForbidden", err)
	}
	if got, err := st.Cancel(ev.ID, "alice", false); err != nil || got.Name != "party" {
		t.Errorf("cancel by creator: (%+v, %v)", got, err)
	}
	if len(st.Upcoming(time.Now())) != 0 {
		t.Error("cancelled event still listed")
	}

	ev2 := st.Register(origin(), "raid", time.Now().Add(time.Hour), "")
	if _, err := st.Cancel(ev2.ID, "bob", true); err != nil {
		t.Errorf("cancel with override: %v", err)
	}
}

func TestUpcomingFilterAndOrder(t *testing.T) {
	st := testStore(t)
	now := time.Now()

	st.Register(origin(), "later", now.Add(2*time.Hour), "")
	st.Register(origin(), "old", now.Add(-2*time.Hour), "")
	st.Register(origin(), "soon", now.Add(time.Hour), "")
	st.Register(origin(), "just started", now.Add(-30*time.Second), "")

	up := st.Upcoming(now)
	if len(up) != 3 {
		t.Fatalf("expected 3 upcoming events, got %d", len(up))
	}
	want := []string{"just started", "soon", "later"}
	for i, name := range want {
		if up[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, up[i].Name, name)
		}
	}
}

func TestSetThreadIDOnce(t *testing.T) {
	st := testStore(t)
	ev := st.Register(origin(), "x", time.Now().Add(time.Hour), "")

	st.SetThreadID(ev.ID, "t1")
	st.SetThreadID(ev.ID, "t2") // ignored: already set
	st.SetThreadID(99, "t3")    // ignored: no such event

	if got := st.Events()[0].ThreadID; got != "t1" {
		t.Errorf("thread id = %q, want t1", got)
	}
}

func TestApplyTickFlagsAndRemoval(t *testing.T) {
	st := testStore(t)
	ev := st.Register(origin(), "x", time.Now().Add(30*time.Minute), "")

	var tc TickChanges
	tc.MarkFired(ev.ID, Gate30)
	tc.SetThread(ev.ID, "th1")
	st.ApplyTick(tc)

	got := st.Events()[0]
	if !got.Fired30 || got.Fired15 || got.FiredStart {
		t.Errorf("flags after tick: %+v", got)
	}
	if got.ThreadID != "th1" {
		t.Errorf("thread id = %q, want th1", got.ThreadID)
	}

	// Applying the same transition again is a no-op, never a reset.
	var tc2 TickChanges
	tc2.MarkFired(ev.ID, Gate30)
	tc2.MarkFired(ev.ID, Gate15)
	st.ApplyTick(tc2)
	got = st.Events()[0]
	if !got.Fired30 || !got.Fired15 {
		t.Errorf("flags after second tick: %+v", got)
	}

	var tc3 TickChanges
	tc3.Remove(ev.ID)
	tc3.MarkFired(99, GateStart) // unknown ids are dropped silently
	st.ApplyTick(tc3)
	if len(st.Events()) != 0 {
		t.Error("event not removed")
	}
}

func TestApplyTickPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	st := New(path)
	ev := st.Register(origin(), "x", time.Now(), "")

	var tc TickChanges
	tc.MarkFired(ev.ID, GateStart)
	st.ApplyTick(tc)

	st2 := New(path)
	st2.Load()
	events := st2.Events()
	if len(events) != 1 || !events[0].FiredStart {
		t.Errorf("fired flag not persisted: %+v", events)
	}
}

func TestEventStartRoundTrip(t *testing.T) {
	st := testStore(t)
	start := time.Date(2025, 8, 24, 19, 0, 0, 0, time.UTC)
	ev := st.Register(origin(), "x", start, "")
	if got := ev.Start(); !got.Equal(start) {
		t.Errorf("Start() = %v, want %v", got, start)
	}
}
