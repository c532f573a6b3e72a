package handlers

import (
	"errors"
	"net/http"

	"github.com/abrezinsky/snailderby/internal/services"
)

func (h *Handlers) handleAdminListRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summaries := h.Rooms.ListRooms(ctx)

	rooms := make([]AdminRoomResponse, 0, len(summaries))
	for _, s := range summaries {
		snap, err := h.Rooms.RoomDetail(ctx, s.ID)
		if errors.Is(err, services.ErrRoomNotFound) {
			// closed between the two calls
			continue
		}
		if err != nil {
			respondError(w, err)
			return
		}
		pool := 0
		for _, b := range snap.RaceState.Bets {
			pool += b.Total
		}
		rooms = append(rooms, AdminRoomResponse{
			ID:          s.ID,
			Name:        s.Name,
			PlayerCount: s.PlayerCount,
			Status:      snap.RaceState.Status,
			Countdown:   snap.RaceState.Countdown,
			Weather:     string(snap.RaceState.Weather),
			TotalPool:   pool,
		})
	}
	respondOK(w, rooms)
}

func (h *Handlers) handleAdminCloseRoom(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Rooms.CloseRoom(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
