package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abrezinsky/snailderby/internal/handlers"
)

func TestAdminRoutes_RequireAuth(t *testing.T) {
	setup := newTestSetup(t)
	id := setup.createRoom(t, "alice", "Garden")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/rooms"},
		{http.MethodDelete, "/api/admin/rooms/" + id},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := setup.do(httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
		})
	}

	// the room must survive the unauthenticated delete
	if len(setup.rooms.ListRooms(t.Context())) != 1 {
		t.Error("expected room to still exist")
	}
}

func TestHandleAdminListRooms(t *testing.T) {
	setup := newTestSetup(t)
	id := setup.createRoom(t, "alice", "Garden")
	setup.sched.Advance(time.Second) // opens the countdown

	if err := setup.rooms.PlaceBet(t.Context(), "alice", "Bullet", 100); err != nil {
		t.Fatalf("failed to place bet: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)
	req.AddCookie(setup.authCookie)
	rec := setup.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var rooms []handlers.AdminRoomResponse
	decodeBody(t, rec, &rooms)
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
	got := rooms[0]
	if got.ID != id || got.PlayerCount != 1 {
		t.Errorf("unexpected room: %+v", got)
	}
	if got.Status != "COUNTDOWN" {
		t.Errorf("expected COUNTDOWN, got %q", got.Status)
	}
	if got.TotalPool != 100 {
		t.Errorf("expected pool 100, got %d", got.TotalPool)
	}
}

func TestHandleAdminCloseRoom(t *testing.T) {
	setup := newTestSetup(t)
	id := setup.createRoom(t, "alice", "Garden")

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/rooms/"+id, nil)
	req.AddCookie(setup.authCookie)
	rec := setup.do(req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if n := len(setup.rooms.ListRooms(t.Context())); n != 0 {
		t.Errorf("expected no rooms, got %d", n)
	}
	if p := setup.sched.Pending(); p != 0 {
		t.Errorf("expected timers to be stopped, %d pending", p)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/rooms/"+id, nil)
	req.AddCookie(setup.authCookie)
	rec = setup.do(req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second close, got %d", rec.Code)
	}
}
