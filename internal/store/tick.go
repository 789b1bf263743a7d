package store

// Gate identifies one of the three one-shot reminder flags on an event.
type Gate int

const (
	Gate30 Gate = iota
	Gate15
	GateStart
)

// TickChanges collects one scheduler pass worth of mutations so the
// store persists them in a single write instead of once per event.
// The zero value is ready to use.
type TickChanges struct {
	fired   map[int64][]Gate
	threads map[int64]string
	removed []int64
}

// MarkFired records a gate transition for an event.
func (tc *TickChanges) MarkFired(id int64, g Gate) {
	if tc.fired == nil {
		tc.fired = make(map[int64][]Gate)
	}
	tc.fired[id] = append(tc.fired[id], g)
}

// SetThread records a thread-id backfill for an event.
func (tc *TickChanges) SetThread(id int64, threadID string) {
	if tc.threads == nil {
		tc.threads = make(map[int64]string)
	}
	tc.threads[id] = threadID
}

// Remove records an event for retention removal.
func (tc *TickChanges) Remove(id int64) {
	tc.removed = append(tc.removed, id)
}

// Empty reports whether the tick produced no mutations.
func (tc *TickChanges) Empty() bool {
	return len(tc.fired) == 0 && len(tc.threads) == 0 && len(tc.removed) == 0
}

// ApplyTick applies a batch of scheduler mutations under one lock and
// persists once if anything actually changed. Fired flags only ever
// move false to true; changes referencing an event that was cancelled
// mid-tick are dropped silently.
func (s *Store) ApplyTick(tc TickChanges) {
	if tc.Empty() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for id, gates := range tc.fired {
		idx := s.indexOf(id)
		if idx < 0 {
			continue
		}
		ev := &s.events[idx]
		for _, g := range gates {
			switch g {
			case Gate30:
				if !ev.Fired30 {
					ev.Fired30 = true
					changed = true
				}
			case Gate15:
				if !ev.Fired15 {
					ev.Fired15 = true
					changed = true
				}
			case GateStart:
				if !ev.FiredStart {
					ev.FiredStart = true
					changed = true
				}
			}
		}
	}
	for id, threadID := range tc.threads {
		idx := s.indexOf(id)
		if idx >= 0 && threadID != "" && s.events[idx].ThreadID == "" {
			s.events[idx].ThreadID = threadID
			changed = true
		}
	}
	for _, id := range tc.removed {
		if idx := s.indexOf(id); idx >= 0 {
			s.events = append(s.events[:idx], s.events[idx+1:]...)
			changed = true
		}
	}
	if changed {
		s.save()
	}
}
