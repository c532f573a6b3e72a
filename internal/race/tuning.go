package race

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the randomness source used by the factory and the simulator.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a Rand seeded with seed, or a randomly seeded one when seed is 0
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Tuning holds every constant of the race model. Traits only nudge speed,
// randomness still dominates.
type Tuning struct {
	RaceDistance     float64 `yaml:"race_distance"`
	CountdownSeconds int     `yaml:"countdown_seconds"`

	SpeedMin        float64 `yaml:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max"`
	BurstChance     float64 `yaml:"burst_chance"`
	BurstMultiplier float64 `yaml:"burst_multiplier"`

	SteadyBaseline    float64 `yaml:"steady_baseline"`
	SprinterThreshold float64 `yaml:"sprinter_threshold"`
	SprinterBonus     float64 `yaml:"sprinter_bonus"`
	RainBonus         float64 `yaml:"rain_bonus"`
	IntimidateChance  float64 `yaml:"intimidate_chance"`
	IntimidatePenalty float64 `yaml:"intimidate_penalty"`

	EventChance          float64 `yaml:"event_chance"`
	SpeedAllMultiplier   float64 `yaml:"speed_all_multiplier"`
	LuckySpeedAll        float64 `yaml:"lucky_speed_all_multiplier"`
	SlowLeaderMultiplier float64 `yaml:"slow_leader_multiplier"`
	LuckySlowLeader      float64 `yaml:"lucky_slow_leader_multiplier"`
	BoostLastMultiplier  float64 `yaml:"boost_last_multiplier"`
	ConfusionMultiplier  float64 `yaml:"confusion_multiplier"`
}

// DefaultTuning returns the production race constants
func DefaultTuning() Tuning {
	return Tuning{
		RaceDistance:     100,
		CountdownSeconds: 15,

		SpeedMin:        0.2,
		SpeedMax:        1.8,
		BurstChance:     0.04,
		BurstMultiplier: 2.0,

		SteadyBaseline:    1.0,
		SprinterThreshold: 30,
		SprinterBonus:     0.5,
		RainBonus:         0.4,
		IntimidateChance:  0.08,
		IntimidatePenalty: 0.05,

		EventChance:          0.015,
		SpeedAllMultiplier:   1.4,
		LuckySpeedAll:        1.8,
		SlowLeaderMultiplier: 0.3,
		LuckySlowLeader:      1.0,
		BoostLastMultiplier:  2.8,
		ConfusionMultiplier:  0.7,
	}
}

// Validate rejects tunings that would break the race loop
func (t Tuning) Validate() error {
	if t.RaceDistance <= 0 {
		return fmt.Errorf("race_distance must be positive, got %v", t.RaceDistance)
	}
	if t.CountdownSeconds < 1 {
		return fmt.Errorf("countdown_seconds must be at least 1, got %d", t.CountdownSeconds)
	}
	if t.SpeedMin <= 0 || t.SpeedMax < t.SpeedMin {
		return fmt.Errorf("speed range [%v, %v] is invalid", t.SpeedMin, t.SpeedMax)
	}
	for name, p := range map[string]float64{
		"burst_chance":      t.BurstChance,
		"intimidate_chance": t.IntimidateChance,
		"event_chance":      t.EventChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, p)
		}
	}
	return nil
}
