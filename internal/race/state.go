package race

import (
	"github.com/abrezinsky/snailderby/internal/models"
)

// Status is the race lifecycle state
//
//	WAITING → COUNTDOWN → RACING → FINISHED → (fresh State) → WAITING
type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusCountdown Status = "COUNTDOWN"
	StatusRacing    Status = "RACING"
	StatusFinished  Status = "FINISHED"
)

// Rank is a finishing position; Entrant is the catalog index
type Rank struct {
	Entrant int
	Rank    int
}

// State is the per-room race. A room replaces it wholesale after settlement.
type State struct {
	Status    Status
	Countdown int
	Weather   models.Weather

	Positions     []float64
	Ranks         []Rank
	FinishedCount int

	Bets BetBook
	// Odds is indexed by entrant; nil until first computed
	Odds []float64

	Event          *models.RaceEvent
	EventTriggered bool
}

// NewState builds a fresh race for n entrants
func NewState(n int, t Tuning, rng Rand) *State {
	return &State{
		Status:    StatusWaiting,
		Countdown: t.CountdownSeconds,
		Weather:   models.Weathers[rng.IntN(len(models.Weathers))],
		Positions: make([]float64, n),
		Ranks:     []Rank{},
		Bets:      NewBetBook(n),
	}
}

// Entrants returns the number of entrants in the race
func (s *State) Entrants() int {
	return len(s.Positions)
}

// Prepare moves WAITING to COUNTDOWN. It reports false in any other state.
func (s *State) Prepare() bool {
	if s.Status != StatusWaiting {
		return false
	}
	s.Status = StatusCountdown
	return true
}

// CountDown decrements the countdown and starts the race at zero.
// ok is false when the race is not counting down.
func (s *State) CountDown() (remaining int, started bool, ok bool) {
	if s.Status != StatusCountdown {
		return 0, false, false
	}
	s.Countdown--
	if s.Countdown <= 0 {
		s.Status = StatusRacing
		return s.Countdown, true, true
	}
	return s.Countdown, false, true
}

// Finish marks the race finished. It is a no-op returning false when already finished.
func (s *State) Finish() bool {
	if s.Status == StatusFinished {
		return false
	}
	s.Status = StatusFinished
	return true
}

// Winner returns the rank-1 entry
func (s *State) Winner() (Rank, bool) {
	for _, r := range s.Ranks {
		if r.Rank == 1 {
			return r, true
		}
	}
	return Rank{}, false
}

// Ranked reports whether entrant already crossed the line
func (s *State) Ranked(entrant int) bool {
	for _, r := range s.Ranks {
		if r.Entrant == entrant {
			return true
		}
	}
	return false
}

// OddsFor returns the multiplier for entrant, or 1 when odds were never computed
func (s *State) OddsFor(entrant int) float64 {
	if entrant < 0 || entrant >= len(s.Odds) {
		return 1
	}
	return s.Odds[entrant]
}

// RecomputeOdds replaces Odds from the current bet book
func (s *State) RecomputeOdds() []float64 {
	s.Odds = ComputeOdds(s.Bets)
	return s.Odds
}
