package services

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/snailderby/internal/logger"
	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/race"
	"github.com/abrezinsky/snailderby/internal/scheduler"
)

type sentMessage struct {
	client  string
	msgType string
	payload interface{}
}

// recorder is a Messenger that keeps everything it is asked to send
type recorder struct {
	mu   sync.Mutex
	msgs []sentMessage
}

func (r *recorder) Send(clientID, msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, sentMessage{client: clientID, msgType: msgType, payload: payload})
}

// to returns the payloads of msgType delivered to client, oldest first
func (r *recorder) to(client, msgType string) []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []interface{}
	for _, m := range r.msgs {
		if m.client == client && m.msgType == msgType {
			out = append(out, m.payload)
		}
	}
	return out
}

func (r *recorder) last(client, msgType string) interface{} {
	all := r.to(client, msgType)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

// constRand always returns the same values, making every frame identical
type constRand struct {
	f float64
	n int
}

func (c constRand) Float64() float64 { return c.f }
func (c constRand) IntN(n int) int   { return c.n % n }

// quietOptions disables bursts, events and intimidation. With constRand{f: 0.5}
// every snail moves 1.0 per frame except Bullet, which moves 1.5 until 30.
func quietOptions() Options {
	opts := DefaultOptions()
	opts.Tuning.EventChance = 0
	opts.Tuning.BurstChance = 0
	opts.Tuning.IntimidateChance = 0
	return opts
}

type fixture struct {
	svc   *RoomService
	sched *scheduler.Manual
	rec   *recorder
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	sched := scheduler.NewManual()
	log := logger.NewWithOptions(logger.Options{Writer: io.Discard})
	svc := NewRoomService(log, models.DefaultEntrants, sched, constRand{f: 0.5}, opts)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("room-%d", n)
	}
	rec := &recorder{}
	svc.SetMessenger(rec)
	return &fixture{svc: svc, sched: sched, rec: rec}
}

func (f *fixture) room(t *testing.T, id string) *Room {
	t.Helper()
	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	room, ok := f.svc.rooms[id]
	require.True(t, ok, "room %s should exist", id)
	return room
}

func (f *fixture) status(t *testing.T, id string) race.Status {
	t.Helper()
	return f.room(t, id).race.Status
}

// toRacing advances from room creation through the countdown to the first frame
func (f *fixture) toRacing() {
	f.sched.Advance(16 * time.Second)
}

// toCountdown advances to the first slow tick, opening the betting window
func (f *fixture) toCountdown() {
	f.sched.Advance(time.Second)
}

// untilFinished advances frame by frame until the race settles
func (f *fixture) untilFinished(t *testing.T, id string) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if f.status(t, id) == race.StatusFinished {
			return
		}
		f.sched.Advance(100 * time.Millisecond)
	}
	t.Fatalf("race in %s never finished", id)
}
