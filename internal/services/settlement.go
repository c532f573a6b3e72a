package services

import (
	"fmt"

	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/race"
)

// finishRace settles the room's race once. Later calls for the same race are no-ops.
func (s *RoomService) finishRace(room *Room) {
	st := room.race
	if !st.Finish() {
		return
	}
	roomID := room.ID

	winner, ok := st.Winner()
	if !ok {
		room.log.Warn("Race finished without a winner, skipping payout")
		s.schedule(room, s.opts.ResetDelay, func() { s.resetRace(roomID, st) })
		return
	}

	s.settle(room, winner)
	s.schedule(room, s.opts.LeaderboardDelay, func() { s.sendLeaderboard(roomID, st) })
	s.schedule(room, s.opts.ResetDelay, func() { s.resetRace(roomID, st) })
}

// settle announces the result and pays every current member holding a stake on the winner
func (s *RoomService) settle(room *Room, winner race.Rank) {
	st := room.race
	name := s.entrants[winner.Entrant].Name
	s.broadcast(room, models.MsgRaceFinish, models.RaceFinish{
		Ranks:  s.rankViews(st.Ranks),
		Winner: name,
	})
	room.log.Info("Race finished", "winner", name)

	multiplier := st.OddsFor(winner.Entrant)
	for _, id := range room.order {
		stake := st.Bets.Stake(winner.Entrant, id)
		if stake == 0 {
			continue
		}
		p := room.participants[id]
		payout := race.Payout(stake, multiplier)
		p.Points += payout
		s.messenger.Send(id, models.MsgPointsUpdate, p.Points)
		s.messenger.Send(id, models.MsgAlert, fmt.Sprintf("Your bet on %s won! +%dP", name, payout))
		room.log.Debug("Payout", "client", id, "stake", stake, "payout", payout)
	}
}

func (s *RoomService) sendLeaderboard(roomID string, st *race.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok || room.race != st {
		return
	}
	s.broadcast(room, models.MsgLeaderboardUpdate, s.leaderboard(room))
}

// resetRace installs a fresh race; the next slow tick starts its countdown
func (s *RoomService) resetRace(roomID string, st *race.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok || room.race != st {
		return
	}
	for _, t := range room.pending {
		t.Stop()
	}
	room.pending = nil
	room.race = race.NewState(len(s.entrants), s.opts.Tuning, s.rng)
	room.log.Debug("Race reset", "weather", room.race.Weather)
}
