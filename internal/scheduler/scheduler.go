// Package scheduler provides cancellable repeating and one-shot timers.
package scheduler

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback. Stop is idempotent and safe to
// call from inside the callback.
type Timer interface {
	Stop()
}

// Scheduler starts timers
type Scheduler interface {
	// Every runs fn every d until stopped
	Every(d time.Duration, fn func()) Timer
	// After runs fn once after d unless stopped first
	After(d time.Duration, fn func()) Timer
}

// Real is the wall-clock scheduler
type Real struct{}

var _ Scheduler = Real{}

// NewReal returns a wall-clock scheduler
func NewReal() Real {
	return Real{}
}

type tickerTimer struct {
	once sync.Once
	done chan struct{}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() { close(t.done) })
}

// Every starts a goroutine driven by a time.Ticker
func (Real) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				// a stop that raced with the tick wins
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

type afterTimer struct {
	t *time.Timer
}

func (a afterTimer) Stop() {
	a.t.Stop()
}

// After wraps time.AfterFunc
func (Real) After(d time.Duration, fn func()) Timer {
	return afterTimer{t: time.AfterFunc(d, fn)}
}
