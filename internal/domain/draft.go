package domain

import "time"

// Draft wraps a candidate entity that has been offered but not yet committed.
// Drafts live only in memory and never appear in the committed collections.
type Draft[T any] struct {
	ID        string    `json:"id"`
	Payload   T         `json:"payload"`
	OfferedAt time.Time `json:"offeredAt"`
}

type PendingBooking struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	PartySize int      `json:"partySize"`
	Tables    []string `json:"tables"`
}
