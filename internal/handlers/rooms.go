package handlers

import (
	"net/http"
)

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Rooms: len(h.Rooms.ListRooms(r.Context()))}
	if h.Hub != nil {
		resp.Clients = h.Hub.ClientCount()
	}
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			respondError(w, NewAPIError(http.StatusServiceUnavailable, ErrCodeUnavailable, "Catalog store unavailable"))
			return
		}
	}
	respondOK(w, resp)
}

func (h *Handlers) handleGetEntrants(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Rooms.Entrants())
}

func (h *Handlers) handleListRooms(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Rooms.ListRooms(r.Context()))
}

func (h *Handlers) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	snap, err := h.Rooms.RoomDetail(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, snap)
}

func (h *Handlers) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	link, err := h.Invites.InviteURL(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, InviteResponse{RoomID: id, URL: link})
}

func (h *Handlers) handleGetQRImage(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Invites.GenerateQRImage(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
