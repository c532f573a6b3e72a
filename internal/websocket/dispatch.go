package websocket

import (
	"context"
	"encoding/json"
	"math"

	"github.com/abrezinsky/snailderby/internal/errors"
	"github.com/abrezinsky/snailderby/internal/models"
	"github.com/abrezinsky/snailderby/internal/services"
)

var (
	errMalformed   = errors.Validation("malformed message")
	errUnknownType = errors.Validation("unknown message type")
)

// inbound is the client envelope; the payload is decoded per type
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type betRequest struct {
	Snail  string      `json:"snail"`
	Amount json.Number `json:"amount"`
}

// dispatch decodes one client message and runs the matching room action
func (h *Hub) dispatch(ctx context.Context, clientID string, raw []byte) error {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errMalformed
	}
	h.log.Debug("Received message", "client", clientID, "type", msg.Type)

	switch msg.Type {
	case models.MsgCreateRoom:
		name, err := decodeString(msg.Payload)
		if err != nil {
			return err
		}
		_, err = h.rooms.CreateRoom(ctx, clientID, name)
		return err

	case models.MsgJoinRoom:
		roomID, err := decodeString(msg.Payload)
		if err != nil {
			return err
		}
		_, err = h.rooms.JoinRoom(ctx, clientID, roomID)
		return err

	case models.MsgLeaveRoom:
		return h.rooms.LeaveRoom(ctx, clientID)

	case models.MsgSetNickname:
		nickname, err := decodeString(msg.Payload)
		if err != nil {
			return err
		}
		return h.rooms.SetNickname(ctx, clientID, nickname)

	case models.MsgChat:
		text, err := decodeString(msg.Payload)
		if err != nil {
			return err
		}
		return h.rooms.SendChat(ctx, clientID, text)

	case models.MsgPlaceBet:
		var bet betRequest
		if err := json.Unmarshal(msg.Payload, &bet); err != nil {
			return services.ErrInvalidAmount
		}
		amount, err := bet.Amount.Int64()
		if err != nil || amount > math.MaxInt32 || amount < math.MinInt32 {
			return services.ErrInvalidAmount
		}
		return h.rooms.PlaceBet(ctx, clientID, bet.Snail, int(amount))
	}

	return errUnknownType
}

func decodeString(payload json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(payload, &s); err != nil {
		return "", errMalformed
	}
	return s, nil
}
