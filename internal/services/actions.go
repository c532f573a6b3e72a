package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/race"
)

// PlaceBet stakes amount points on the named entrant. Bets are only taken during the countdown.
func (s *RoomService) PlaceBet(ctx context.Context, clientID, entrant string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, p, err := s.member(clientID)
	if err != nil {
		return err
	}
	st := room.race
	if st.Status != race.StatusCountdown {
		return ErrBettingClosed
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	idx, ok := s.byName[entrant]
	if !ok {
		return ErrUnknownEntrant
	}
	if amount > p.Points {
		return ErrInsufficientPoints
	}

	p.Points -= amount
	st.Bets.Place(idx, clientID, amount)

	s.messenger.Send(clientID, models.MsgPointsUpdate, p.Points)
	s.broadcast(room, models.MsgLeaderboardUpdate, s.leaderboard(room))
	s.broadcastOdds(room)
	s.messenger.Send(clientID, models.MsgAlert, fmt.Sprintf("Bet %dP on %s.", amount, entrant))
	room.log.Debug("Bet placed", "client", clientID, "snail", entrant, "amount", amount)
	return nil
}

// SetNickname renames the client within its room. Nicknames are unique per room.
func (s *RoomService) SetNickname(ctx context.Context, clientID, nickname string) error {
	nickname = strings.TrimSpace(nickname)

	s.mu.Lock()
	defer s.mu.Unlock()

	room, p, err := s.member(clientID)
	if err != nil {
		return err
	}
	if !validName(nickname) {
		return ErrNicknameLength
	}
	if nicknameTaken(room, nickname) {
		return ErrNicknameTaken
	}

	p.Nickname = nickname
	s.broadcast(room, models.MsgLeaderboardUpdate, s.leaderboard(room))
	s.messenger.Send(clientID, models.MsgChat, models.ChatMessage{
		Nickname: systemName,
		Message:  fmt.Sprintf("Your nickname is now [%s].", nickname),
	})
	return nil
}

// SendChat broadcasts a chat line to the room and keeps it in the bounded history
func (s *RoomService) SendChat(ctx context.Context, clientID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, p, err := s.member(clientID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyChat
	}
	if utf8.RuneCountInString(text) > s.opts.MaxChatLength {
		return ErrChatTooLong
	}

	msg := models.ChatMessage{Nickname: p.Nickname, Message: text}
	s.broadcast(room, models.MsgChat, msg)

	room.chat = append(room.chat, msg)
	if over := len(room.chat) - s.opts.ChatHistory; over > 0 {
		room.chat = append(room.chat[:0:0], room.chat[over:]...)
	}
	return nil
}
