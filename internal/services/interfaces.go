package services

import (
	"context"

	"github.com/abrezinsky/snailderby/internal/models"
)

// Messenger delivers one event to one connected client. Implementations must not block.
type Messenger interface {
	Send(clientID, msgType string, payload interface{})
}

// RoomServicer defines the operations exposed to the transport and HTTP layers
type RoomServicer interface {
	Connect(clientID string)
	Disconnect(clientID string)

	CreateRoom(ctx context.Context, clientID, name string) (*models.RoomSnapshot, error)
	JoinRoom(ctx context.Context, clientID, roomID string) (*models.RoomSnapshot, error)
	LeaveRoom(ctx context.Context, clientID string) error
	ListRooms(ctx context.Context) []models.RoomSummary

	PlaceBet(ctx context.Context, clientID, entrant string, amount int) error
	SetNickname(ctx context.Context, clientID, nickname string) error
	SendChat(ctx context.Context, clientID, text string) error

	Entrants() []models.Entrant
	RoomDetail(ctx context.Context, roomID string) (*models.RoomSnapshot, error)
	CloseRoom(ctx context.Context, roomID string) error
}

// Ensure concrete types implement interfaces
var (
	_ RoomServicer   = (*RoomService)(nil)
	_ InviteServicer = (*InviteService)(nil)
)
