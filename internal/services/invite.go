package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/snailderby/internal/errors"
	"github.com/abrezinsky/snailderby/internal/logger"
)

// InviteServicer builds shareable links into rooms
type InviteServicer interface {
	InviteURL(ctx context.Context, roomID string) (string, error)
	GenerateQRImage(ctx context.Context, roomID string) ([]byte, error)
}

// InviteService turns a room id into a join link and a QR code for it
type InviteService struct {
	log     logger.Logger
	rooms   RoomServicer
	baseURL string
}

// NewInviteService creates an invite service. baseURL is what phones on the LAN should open.
func NewInviteService(log logger.Logger, rooms RoomServicer, baseURL string) *InviteService {
	return &InviteService{log: log, rooms: rooms, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// InviteURL returns <baseURL>/?room=<id> for an existing room
func (s *InviteService) InviteURL(ctx context.Context, roomID string) (string, error) {
	if _, err := s.rooms.RoomDetail(ctx, roomID); err != nil {
		return "", err
	}
	if s.baseURL == "" {
		return "", errors.State("base url not configured")
	}
	return fmt.Sprintf("%s/?room=%s", s.baseURL, url.QueryEscape(roomID)), nil
}

// GenerateQRImage returns a PNG QR code for the room's invite link
func (s *InviteService) GenerateQRImage(ctx context.Context, roomID string) ([]byte, error) {
	link, err := s.InviteURL(ctx, roomID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		s.log.Error("qr encode failed", "room", roomID, "error", err)
		return nil, errors.Internal(err)
	}
	return png, nil
}
