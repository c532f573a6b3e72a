package services

import (
	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/race"
)

// lifecycleTick runs on the slow timer and drives WAITING and COUNTDOWN
func (s *RoomService) lifecycleTick(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}
	st := room.race

	switch st.Status {
	case race.StatusWaiting:
		st.Prepare()
		s.broadcast(room, models.MsgRacePrepare, models.RacePrepare{
			Weather:   st.Weather,
			Countdown: st.Countdown,
		})
		s.broadcastOdds(room)
	case race.StatusCountdown:
		remaining, started, _ := st.CountDown()
		s.broadcast(room, models.MsgRaceCountdown, remaining)
		if started {
			s.broadcast(room, models.MsgRaceStart, nil)
			room.log.Info("Race started", "weather", st.Weather)
		}
	}
}

// raceTick runs on the fast timer and advances a racing room by one frame
func (s *RoomService) raceTick(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}
	st := room.race

	res := s.sim.Advance(st)
	if !res.Ran {
		return
	}

	if res.Triggered != nil {
		s.broadcast(room, models.MsgRaceEvent, *res.Triggered)
		room.log.Debug("Race event", "event", res.Triggered.Name)
		s.schedule(room, s.opts.EventDuration, func() { s.clearEvent(roomID, st) })
	}

	effects := make([]models.EffectView, 0, len(res.Effects))
	for _, e := range res.Effects {
		effects = append(effects, models.EffectView{Index: e.Entrant, Type: e.Type})
	}
	positions := make([]float64, len(st.Positions))
	copy(positions, st.Positions)
	s.broadcast(room, models.MsgRaceUpdate, models.RaceUpdate{
		Positions: positions,
		Ranks:     s.rankViews(st.Ranks),
		Effects:   effects,
	})

	if res.Finished {
		s.finishRace(room)
	}
}

// clearEvent ends the active event unless the race it belonged to is gone
func (s *RoomService) clearEvent(roomID string, st *race.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok || room.race != st {
		return
	}
	st.Event = nil
}
