package scheduler

import (
	"sync"
	"time"
)

// Manual is a deterministic scheduler for tests. Nothing fires until Advance
// is called; callbacks run on the caller's goroutine.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

var _ Scheduler = (*Manual)(nil)

type manualTimer struct {
	m       *Manual
	seq     int
	due     time.Duration
	period  time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.stopped = true
}

// NewManual returns a scheduler whose clock starts at zero
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) add(d, period time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, seq: m.seq, due: m.now + d, period: period, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Every schedules fn at now+d, now+2d, ...
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	return m.add(d, d, fn)
}

// After schedules fn once at now+d
func (m *Manual) After(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

// Now returns the elapsed fake time
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing due timers in time order.
// Timers scheduled by callbacks fire within the same call if they fall due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.stopped = true
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest live timer due at or before target and
// prunes stopped ones. Ties go to the timer created first.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	var best *manualTimer
	live := m.timers[:0]
	for _, t := range m.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
	return best
}

// Pending returns the number of timers that have not been stopped or fired
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
