package race

import (
	"math"

	"github.com/abrezinsky/snailderby/internal/models"
)

// Effect marks an entrant touched by the active event during one frame
type Effect struct {
	Entrant int
	Type    models.EventEffect
}

// FrameResult describes what a single tick did
type FrameResult struct {
	// Ran is false when the state was not racing and nothing moved
	Ran bool
	// Triggered is the event that fired on this tick, if any
	Triggered *models.RaceEvent
	Effects   []Effect
	// Finished reports that every entrant has crossed the line
	Finished bool
}

// Simulator advances race positions. It holds no per-room state.
type Simulator struct {
	entrants []models.Entrant
	tuning   Tuning
	rng      Rand
}

// NewSimulator creates a simulator for the given catalog
func NewSimulator(entrants []models.Entrant, t Tuning, rng Rand) *Simulator {
	return &Simulator{entrants: entrants, tuning: t, rng: rng}
}

// Advance runs one frame against st
func (sim *Simulator) Advance(st *State) FrameResult {
	if st.Status != StatusRacing {
		return FrameResult{}
	}
	res := FrameResult{Ran: true}
	t := sim.tuning

	if !st.EventTriggered && sim.rng.Float64() < t.EventChance {
		ev := models.RaceEvents[sim.rng.IntN(len(models.RaceEvents))]
		st.EventTriggered = true
		st.Event = &ev
		res.Triggered = &ev
	}

	leader := LeaderIndex(st.Positions, t.RaceDistance)
	last := LastPlaceIndex(st.Positions, t.RaceDistance)

	for i, entrant := range sim.entrants {
		if i >= len(st.Positions) || st.Positions[i] >= t.RaceDistance {
			continue
		}

		speed := t.SpeedMin + sim.rng.Float64()*(t.SpeedMax-t.SpeedMin)
		if sim.rng.Float64() < t.BurstChance {
			speed *= t.BurstMultiplier
		}
		speed = sim.applyTrait(st, i, entrant.Trait, speed)

		if st.Event != nil {
			var hit bool
			speed, hit = sim.applyEvent(st.Event.Effect, i, entrant.Trait, leader, last, speed)
			if hit {
				res.Effects = append(res.Effects, Effect{Entrant: i, Type: st.Event.Effect})
			}
		}

		st.Positions[i] = math.Max(0, st.Positions[i]+speed)

		if st.Positions[i] >= t.RaceDistance && !st.Ranked(i) {
			st.FinishedCount++
			st.Ranks = append(st.Ranks, Rank{Entrant: i, Rank: st.FinishedCount})
		}
	}

	res.Finished = st.FinishedCount == st.Entrants()
	return res
}

func (sim *Simulator) applyTrait(st *State, i int, trait models.Trait, speed float64) float64 {
	t := sim.tuning
	switch trait {
	case models.TraitSteady:
		return (speed + t.SteadyBaseline) / 2
	case models.TraitSprinter:
		if st.Positions[i] < t.SprinterThreshold {
			return speed + t.SprinterBonus
		}
	case models.TraitRainLover:
		if st.Weather == models.WeatherRain {
			return speed + t.RainBonus
		}
	case models.TraitIntimidator:
		if sim.rng.Float64() < t.IntimidateChance {
			for j := range st.Positions {
				if j == i || st.Ranked(j) {
					continue
				}
				st.Positions[j] = math.Max(0, st.Positions[j]-t.IntimidatePenalty)
			}
		}
	}
	return speed
}

func (sim *Simulator) applyEvent(effect models.EventEffect, i int, trait models.Trait, leader, last int, speed float64) (float64, bool) {
	t := sim.tuning
	lucky := trait == models.TraitLucky
	switch effect {
	case models.EffectSpeedAll:
		if lucky {
			return speed * t.LuckySpeedAll, true
		}
		return speed * t.SpeedAllMultiplier, true
	case models.EffectSlowLeader:
		if i != leader {
			return speed, false
		}
		if lucky {
			return speed * t.LuckySlowLeader, true
		}
		return speed * t.SlowLeaderMultiplier, true
	case models.EffectBoostLast:
		if i != last {
			return speed, false
		}
		return speed * t.BoostLastMultiplier, true
	case models.EffectConfusion:
		return speed * t.ConfusionMultiplier, true
	}
	return speed, false
}

// LeaderIndex returns the unfinished entrant furthest ahead, or -1 when all finished.
// The lowest index wins ties.
func LeaderIndex(positions []float64, distance float64) int {
	idx := -1
	for i, p := range positions {
		if p >= distance {
			continue
		}
		if idx == -1 || p > positions[idx] {
			idx = i
		}
	}
	return idx
}

// LastPlaceIndex returns the unfinished entrant furthest behind, or -1 when all finished.
// The lowest index wins ties.
func LastPlaceIndex(positions []float64, distance float64) int {
	idx := -1
	for i, p := range positions {
		if p >= distance {
			continue
		}
		if idx == -1 || p < positions[idx] {
			idx = i
		}
	}
	return idx
}
