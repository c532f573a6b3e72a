package models

// Trait is the behavioral modifier attached to an entrant
type Trait string

const (
	TraitSteady      Trait = "STEADY"
	TraitSprinter    Trait = "SPRINTER"
	TraitRainLover   Trait = "RAIN_LOVER"
	TraitIntimidator Trait = "INTIMIDATOR"
	TraitLucky       Trait = "LUCKY"
)

// Valid reports whether t is one of the known traits
func (t Trait) Valid() bool {
	switch t {
	case TraitSteady, TraitSprinter, TraitRainLover, TraitIntimidator, TraitLucky:
		return true
	}
	return false
}

// Entrant represents a racing snail. The ID is its index in the catalog.
type Entrant struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Trait       Trait  `json:"trait"`
	Description string `json:"description"`
}

// Weather is fixed for the duration of a race
type Weather string

const (
	WeatherClear Weather = "CLEAR"
	WeatherRain  Weather = "RAIN"
)

// Weathers lists every weather a race can be assigned
var Weathers = []Weather{WeatherClear, WeatherRain}

// EventEffect identifies how a race event alters movement
type EventEffect string

const (
	EffectSpeedAll   EventEffect = "SPEED_ALL"
	EffectSlowLeader EventEffect = "SLOW_LEADER"
	EffectBoostLast  EventEffect = "BOOST_LAST"
	EffectConfusion  EventEffect = "CONFUSION"
)

// RaceEvent is a transient event that can fire once per race
type RaceEvent struct {
	Name    string      `json:"name"`
	Message string      `json:"message"`
	Effect  EventEffect `json:"effect"`
}

// RaceEvents is the fixed event catalog
var RaceEvents = []RaceEvent{
	{Name: "Breeze", Message: "💨 A gentle breeze speeds every snail up for a moment!", Effect: EffectSpeedAll},
	{Name: "Slippery Patch", Message: "💧 The leader just hit a slippery patch!", Effect: EffectSlowLeader},
	{Name: "Awakening", Message: "⚡️ The snail in last place suddenly wakes up and bolts!", Effect: EffectBoostLast},
	{Name: "Thick Fog", Message: "🌫️ A thick fog rolls in and everyone loses their way!", Effect: EffectConfusion},
}

// DefaultEntrants is the catalog seeded into an empty entrant store
var DefaultEntrants = []Entrant{
	{ID: 0, Name: "Pebble", Trait: TraitSteady, Description: "Steady: small speed variance, very consistent."},
	{ID: 1, Name: "Bullet", Trait: TraitSprinter, Description: "Sprinter: very quick over the first 30% of the track."},
	{ID: 2, Name: "Gooey", Trait: TraitRainLover, Description: "Mudder: strong when it rains."},
	{ID: 3, Name: "Overlord", Trait: TraitIntimidator, Description: "Intimidator: now and then slows every snail around it."},
	{ID: 4, Name: "Clover", Trait: TraitLucky, Description: "Lucky: tends to get the good side of race events."},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
