package dto

type ToggleOnlineRequest struct {
	IsOnline *bool `json:"isOnline"`
}

type RushHourRequest struct {
	IsRushHour *bool `json:"isRushHour"`
}
