package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abrezinsky/snailderby/internal/logger"
	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/race"
	"github.com/abrezinsky/snailderby/internal/scheduler"
)

// Options tunes room capacity and timing
type Options struct {
	Capacity       int
	StartingPoints int
	ChatHistory    int
	MaxChatLength  int

	SlowTick         time.Duration
	FastTick         time.Duration
	EventDuration    time.Duration
	LeaderboardDelay time.Duration
	ResetDelay       time.Duration

	Tuning race.Tuning
}

// DefaultOptions returns the production settings
func DefaultOptions() Options {
	return Options{
		Capacity:       10,
		StartingPoints: 1000,
		ChatHistory:    30,
		MaxChatLength:  200,

		SlowTick:         time.Second,
		FastTick:         100 * time.Millisecond,
		EventDuration:    4 * time.Second,
		LeaderboardDelay: 100 * time.Millisecond,
		ResetDelay:       8 * time.Second,

		Tuning: race.DefaultTuning(),
	}
}

const (
	minNameLength = 2
	maxNameLength = 10
	systemName    = "System"
)

// Participant is a room member and their wallet
type Participant struct {
	ID       string
	Nickname string
	Points   int
}

// Room is one betting room. It is only touched while RoomService.mu is held.
type Room struct {
	ID   string
	Name string

	participants map[string]*Participant
	order        []string
	chat         []models.ChatMessage
	race         *race.State

	slow    scheduler.Timer
	fast    scheduler.Timer
	pending []scheduler.Timer

	log logger.Logger
}

// RoomService owns every room and serializes all actions and timer callbacks
type RoomService struct {
	mu sync.Mutex

	log       logger.Logger
	messenger Messenger
	sched     scheduler.Scheduler
	rng       race.Rand
	sim       *race.Simulator
	entrants  []models.Entrant
	byName    map[string]int
	opts      Options
	newID     func() string

	rooms map[string]*Room
	order []string
	// clients maps a connection to its room id, "" while in the lobby
	clients map[string]string
}

type discardMessenger struct{}

func (discardMessenger) Send(string, string, interface{}) {}

// NewRoomService creates a RoomService racing the given entrants
func NewRoomService(log logger.Logger, entrants []models.Entrant, sched scheduler.Scheduler, rng race.Rand, opts Options) *RoomService {
	byName := make(map[string]int, len(entrants))
	for i, e := range entrants {
		byName[e.Name] = i
	}
	return &RoomService{
		log:       log,
		messenger: discardMessenger{},
		sched:     sched,
		rng:       rng,
		sim:       race.NewSimulator(entrants, opts.Tuning, rng),
		entrants:  entrants,
		byName:    byName,
		opts:      opts,
		newID:     uuid.NewString,
		rooms:     make(map[string]*Room),
		clients:   make(map[string]string),
	}
}

// SetMessenger sets where outbound events are delivered
func (s *RoomService) SetMessenger(m Messenger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messenger = m
}

// Entrants returns the entrant catalog
func (s *RoomService) Entrants() []models.Entrant {
	out := make([]models.Entrant, len(s.entrants))
	copy(out, s.entrants)
	return out
}

// Connect registers a client in the lobby and sends it the catalog and room list.
// A client already placed in a room keeps its membership and gets no lobby list.
func (s *RoomService) Connect(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID, known := s.clients[clientID]
	if !known {
		s.clients[clientID] = ""
	}
	s.messenger.Send(clientID, models.MsgInitialData, models.InitialData{Snails: s.entrants})
	if roomID == "" {
		s.messenger.Send(clientID, models.MsgLobbyList, s.listRoomsLocked())
	}
	s.log.Debug("Client connected", "client", clientID)
}

// Disconnect removes the client from its room, if any, and forgets it
func (s *RoomService) Disconnect(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := s.leaveLocked(clientID)
	delete(s.clients, clientID)
	if left {
		s.broadcastLobby()
	}
	s.log.Debug("Client disconnected", "client", clientID)
}

// CreateRoom opens a new room with the client as its first member
func (s *RoomService) CreateRoom(ctx context.Context, clientID, name string) (*models.RoomSnapshot, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return nil, ErrRoomNameLength
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaveLocked(clientID)
	room := s.newRoomLocked(name)
	s.addParticipant(room, clientID)

	snap := s.snapshot(room)
	s.messenger.Send(clientID, models.MsgRoomJoined, snap)
	s.broadcastLobby()
	return snap, nil
}

// JoinRoom adds the client to an existing room, leaving its current room first
func (s *RoomService) JoinRoom(ctx context.Context, clientID, roomID string) (*models.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if _, member := room.participants[clientID]; member {
		snap := s.snapshot(room)
		s.messenger.Send(clientID, models.MsgRoomJoined, snap)
		return snap, nil
	}
	if len(room.participants) >= s.opts.Capacity {
		return nil, ErrRoomFull
	}

	s.leaveLocked(clientID)
	s.addParticipant(room, clientID)

	snap := s.snapshot(room)
	s.messenger.Send(clientID, models.MsgRoomJoined, snap)
	s.broadcast(room, models.MsgLeaderboardUpdate, s.leaderboard(room))
	s.broadcastLobby()
	return snap, nil
}

// LeaveRoom returns the client to the lobby
func (s *RoomService) LeaveRoom(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.leaveLocked(clientID) {
		return ErrNotInRoom
	}
	s.messenger.Send(clientID, models.MsgRoomLeft, nil)
	s.broadcastLobby()
	return nil
}

// ListRooms returns every live room in creation order
func (s *RoomService) ListRooms(ctx context.Context) []models.RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRoomsLocked()
}

// RoomDetail returns the snapshot a joining client would receive
func (s *RoomService) RoomDetail(ctx context.Context, roomID string) (*models.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return s.snapshot(room), nil
}

// CloseRoom sends every member back to the lobby and tears the room down
func (s *RoomService) CloseRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	for _, id := range room.order {
		if _, connected := s.clients[id]; connected {
			s.clients[id] = ""
		}
		s.messenger.Send(id, models.MsgRoomLeft, nil)
	}
	room.participants = map[string]*Participant{}
	room.order = nil
	s.destroyRoomLocked(room)
	s.broadcastLobby()
	return nil
}

// Shutdown stops every room's timers. Members are not notified; it is meant for process exit.
func (s *RoomService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range append([]string(nil), s.order...) {
		s.destroyRoomLocked(s.rooms[id])
	}
	s.log.Info("Room service stopped")
}

func (s *RoomService) newRoomLocked(name string) *Room {
	id := s.newID()
	room := &Room{
		ID:           id,
		Name:         name,
		participants: make(map[string]*Participant),
		chat:         []models.ChatMessage{},
		race:         race.NewState(len(s.entrants), s.opts.Tuning, s.rng),
		log:          s.log.With("room", id),
	}
	room.slow = s.sched.Every(s.opts.SlowTick, func() { s.lifecycleTick(id) })
	room.fast = s.sched.Every(s.opts.FastTick, func() { s.raceTick(id) })

	s.rooms[id] = room
	s.order = append(s.order, id)
	room.log.Info("Room created", "name", name)
	return room
}

func (s *RoomService) addParticipant(room *Room, clientID string) {
	room.participants[clientID] = &Participant{
		ID:       clientID,
		Nickname: uniqueNickname(room, defaultNickname(clientID)),
		Points:   s.opts.StartingPoints,
	}
	room.order = append(room.order, clientID)
	s.clients[clientID] = room.ID
}

// leaveLocked removes clientID from its room and reports whether it was in one.
// The last member leaving destroys the room.
func (s *RoomService) leaveLocked(clientID string) bool {
	room, ok := s.rooms[s.clients[clientID]]
	if !ok {
		return false
	}
	if _, member := room.participants[clientID]; !member {
		return false
	}

	delete(room.participants, clientID)
	for i, id := range room.order {
		if id == clientID {
			room.order = append(room.order[:i], room.order[i+1:]...)
			break
		}
	}
	if _, connected := s.clients[clientID]; connected {
		s.clients[clientID] = ""
	}

	if len(room.participants) == 0 {
		s.destroyRoomLocked(room)
	} else {
		s.broadcast(room, models.MsgLeaderboardUpdate, s.leaderboard(room))
	}
	return true
}

func (s *RoomService) destroyRoomLocked(room *Room) {
	room.slow.Stop()
	room.fast.Stop()
	for _, t := range room.pending {
		t.Stop()
	}
	room.pending = nil

	delete(s.rooms, room.ID)
	for i, id := range s.order {
		if id == room.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	room.log.Info("Room closed")
}

// schedule runs fn once after d; the handle is stopped if the room is torn down first
func (s *RoomService) schedule(room *Room, d time.Duration, fn func()) {
	room.pending = append(room.pending, s.sched.After(d, fn))
}

func (s *RoomService) member(clientID string) (*Room, *Participant, error) {
	room, ok := s.rooms[s.clients[clientID]]
	if !ok {
		return nil, nil, ErrNotInRoom
	}
	p, ok := room.participants[clientID]
	if !ok {
		return nil, nil, ErrNotInRoom
	}
	return room, p, nil
}

func (s *RoomService) broadcast(room *Room, msgType string, payload interface{}) {
	for _, id := range room.order {
		s.messenger.Send(id, msgType, payload)
	}
}

// broadcastLobby sends the room list to every client not in a room
func (s *RoomService) broadcastLobby() {
	list := s.listRoomsLocked()
	for id, roomID := range s.clients {
		if roomID == "" {
			s.messenger.Send(id, models.MsgLobbyList, list)
		}
	}
}

func (s *RoomService) broadcastOdds(room *Room) {
	s.broadcast(room, models.MsgOddsUpdate, s.oddsByName(room.race.RecomputeOdds()))
}

func (s *RoomService) listRoomsLocked() []models.RoomSummary {
	list := make([]models.RoomSummary, 0, len(s.order))
	for _, id := range s.order {
		room := s.rooms[id]
		list = append(list, models.RoomSummary{
			ID:          room.ID,
			Name:        room.Name,
			PlayerCount: len(room.participants),
		})
	}
	return list
}

// leaderboard sorts members by points, highest first; join order breaks ties
func (s *RoomService) leaderboard(room *Room) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(room.order))
	for _, id := range room.order {
		p := room.participants[id]
		entries = append(entries, models.LeaderboardEntry{Nickname: p.Nickname, Points: p.Points})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries
}

func (s *RoomService) snapshot(room *Room) *models.RoomSnapshot {
	users := make(map[string]models.ParticipantView, len(room.participants))
	for id, p := range room.participants {
		users[id] = models.ParticipantView{Nickname: p.Nickname, Points: p.Points}
	}
	chat := make([]models.ChatMessage, len(room.chat))
	copy(chat, room.chat)

	return &models.RoomSnapshot{
		ID:          room.ID,
		Name:        room.Name,
		Users:       users,
		RaceState:   s.raceView(room.race),
		ChatHistory: chat,
	}
}

func (s *RoomService) raceView(st *race.State) models.RaceView {
	positions := make([]float64, len(st.Positions))
	copy(positions, st.Positions)

	bets := make(map[string]models.BetView, len(st.Bets))
	for i, entry := range st.Bets {
		bettors := make(map[string]int, len(entry.Bettors))
		for id, amount := range entry.Bettors {
			bettors[id] = amount
		}
		bets[s.entrants[i].Name] = models.BetView{Total: entry.Total, Bettors: bettors}
	}

	var event *models.RaceEvent
	if st.Event != nil {
		ev := *st.Event
		event = &ev
	}

	return models.RaceView{
		Status:         string(st.Status),
		Countdown:      st.Countdown,
		Weather:        st.Weather,
		Positions:      positions,
		Ranks:          s.rankViews(st.Ranks),
		FinishedCount:  st.FinishedCount,
		Bets:           bets,
		Odds:           s.oddsByName(st.Odds),
		Event:          event,
		EventTriggered: st.EventTriggered,
	}
}

func (s *RoomService) rankViews(ranks []race.Rank) []models.RankView {
	views := make([]models.RankView, len(ranks))
	for i, r := range ranks {
		views[i] = models.RankView{Snail: s.entrants[r.Entrant].Name, Rank: r.Rank}
	}
	return views
}

func (s *RoomService) oddsByName(odds []float64) map[string]float64 {
	out := make(map[string]float64, len(odds))
	for i, o := range odds {
		out[s.entrants[i].Name] = o
	}
	return out
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= minNameLength && n <= maxNameLength
}

func defaultNickname(clientID string) string {
	prefix := []rune(clientID)
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return "Anon_" + string(prefix)
}

// uniqueNickname appends 2, 3, ... to base until no member of room uses it
func uniqueNickname(room *Room, base string) string {
	name := base
	for n := 2; nicknameTaken(room, name); n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	return name
}

func nicknameTaken(room *Room, nickname string) bool {
	for _, p := range room.participants {
		if p.Nickname == nickname {
			return true
		}
	}
	return false
}
