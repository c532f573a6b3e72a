package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/abrezinsky/snailderby/internal/auth"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestHandleLogin_JSON(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"test-password"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := setup.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	if !setup.handlers.Auth.ValidateSession(cookie.Value) {
		t.Error("expected cookie to carry a valid session")
	}
}

func TestHandleLogin_Form(t *testing.T) {
	setup := newTestSetup(t)

	form := url.Values{"password": {"test-password"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := setup.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if sessionCookie(rec) == nil {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleLogin_InvalidPassword(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := setup.do(req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Error("expected no session cookie")
	}
}

func TestHandleLogin_MalformedJSON(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":`))
	req.Header.Set("Content-Type", "application/json")
	rec := setup.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleLogout(t *testing.T) {
	setup := newTestSetup(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(setup.authCookie)
	rec := setup.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if setup.handlers.Auth.ValidateSession(setup.authCookie.Value) {
		t.Error("expected session to be invalidated")
	}
	cleared := sessionCookie(rec)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Error("expected session cookie to be cleared")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)
	req.AddCookie(setup.authCookie)
	if rec := setup.do(req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 after logout, got %d", rec.Code)
	}
}

func TestHandleLogout_WithoutSession(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}
