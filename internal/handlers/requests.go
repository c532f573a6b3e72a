package handlers

// LoginRequest is the JSON body for POST /admin/login
type LoginRequest struct {
	Password string `json:"password"`
}
