package models

// Inbound message types (client -> server)
const (
	MsgCreateRoom  = "lobby:createRoom"
	MsgJoinRoom    = "lobby:joinRoom"
	MsgLeaveRoom   = "lobby:leaveRoom"
	MsgSetNickname = "user:setNickname"
	MsgPlaceBet    = "race:bet"
)

// Outbound message types (server -> client)
const (
	MsgInitialData       = "initial:data"
	MsgLobbyList         = "lobby:list"
	MsgRoomJoined        = "room:joined"
	MsgRoomLeft          = "room:left"
	MsgRacePrepare       = "race:prepare"
	MsgRaceCountdown     = "race:countdown"
	MsgRaceStart         = "race:start"
	MsgRaceUpdate        = "race:update"
	MsgRaceEvent         = "race:event"
	MsgRaceFinish        = "race:finish"
	MsgOddsUpdate        = "update:odds"
	MsgPointsUpdate      = "update:points"
	MsgLeaderboardUpdate = "update:leaderboard"
	MsgAlert             = "alert"
)

// MsgChat is used in both directions
const MsgChat = "chat:message"

// InitialData is sent once per connection
type InitialData struct {
	Snails []Entrant `json:"snails"`
}

// RoomSummary is a lobby list entry
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
}

// ParticipantView is the client-facing view of a room member
type ParticipantView struct {
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
}

// ChatMessage is a chat line, also kept in room history
type ChatMessage struct {
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
}

// RankView is a finishing position with the entrant resolved to its name
type RankView struct {
	Snail string `json:"snail"`
	Rank  int    `json:"rank"`
}

// BetView is the client-facing bet book entry for one entrant
type BetView struct {
	Total   int            `json:"total"`
	Bettors map[string]int `json:"bettors"`
}

// EffectView marks an entrant affected by the active event on one frame
type EffectView struct {
	Index int         `json:"index"`
	Type  EventEffect `json:"type"`
}

// RaceView is the serializable race state
type RaceView struct {
	Status         string             `json:"status"`
	Countdown      int                `json:"countdown"`
	Weather        Weather            `json:"weather"`
	Positions      []float64          `json:"positions"`
	Ranks          []RankView         `json:"ranks"`
	FinishedCount  int                `json:"finishedCount"`
	Bets           map[string]BetView `json:"bets"`
	Odds           map[string]float64 `json:"odds"`
	Event          *RaceEvent         `json:"event"`
	EventTriggered bool               `json:"eventTriggered"`
}

// RoomSnapshot is what a client receives on joining. It never carries timer handles.
type RoomSnapshot struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Users       map[string]ParticipantView `json:"users"`
	RaceState   RaceView                   `json:"raceState"`
	ChatHistory []ChatMessage              `json:"chatHistory"`
}

// RacePrepare announces the countdown
type RacePrepare struct {
	Weather   Weather `json:"weather"`
	Countdown int     `json:"countdown"`
}

// RaceUpdate is one simulation frame
type RaceUpdate struct {
	Positions []float64    `json:"positions"`
	Ranks     []RankView   `json:"ranks"`
	Effects   []EffectView `json:"effects"`
}

// RaceFinish announces the result
type RaceFinish struct {
	Ranks  []RankView `json:"ranks"`
	Winner string     `json:"winner"`
}
