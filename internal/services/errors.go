package services

import (
	"github.com/abrezinsky/snailderby/internal/errors"
)

// Service errors. Each is matched with errors.Is and classified by its Kind.
var (
	ErrRoomNotFound   = errors.NotFound("room does not exist")
	ErrRoomFull       = errors.State("room is full")
	ErrNotInRoom      = errors.State("not in a room")
	ErrBettingClosed  = errors.State("betting is only open during the countdown")
	ErrInvalidAmount  = errors.Validation("bet amount must be a positive whole number")
	ErrUnknownEntrant = errors.Validation("no such snail")
	// ErrInsufficientPoints never changes the wallet
	ErrInsufficientPoints = errors.Resource("not enough points for that bet")

	ErrNicknameLength = errors.Validation("nickname must be 2 to 10 characters")
	ErrNicknameTaken  = errors.Validation("nickname is already in use")
	ErrRoomNameLength = errors.Validation("room name must be 2 to 10 characters")
	ErrEmptyChat      = errors.Validation("message is empty")
	ErrChatTooLong    = errors.Validation("message is too long")
)
