package handlers

// HealthResponse is the response for /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Rooms   int    `json:"rooms"`
	Clients int    `json:"clients"`
}

// InviteResponse carries a room's join link
type InviteResponse struct {
	RoomID string `json:"room_id"`
	URL    string `json:"url"`
}

// AdminRoomResponse is one row of the operator room list
type AdminRoomResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	Status      string `json:"status"`
	Countdown   int    `json:"countdown"`
	Weather     string `json:"weather"`
	TotalPool   int    `json:"total_pool"`
}
