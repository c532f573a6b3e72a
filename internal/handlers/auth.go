package handlers

import (
	"net/http"
	"strings"

	"github.com/abrezinsky/snailderby/internal/auth"
)

// handleLogin accepts either a JSON body or a form post
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var password string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		password = req.Password
	} else {
		password = r.FormValue("password")
	}

	token, ok := h.Auth.Login(password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondSuccess(w, "Logged in")
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}
