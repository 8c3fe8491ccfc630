package dto

import (
	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
)

type CreateTableRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
}

type CreateTableSeriesRequest struct {
	Prefix   string `json:"prefix"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
}

type UpdateTableRequest struct {
	Name     *string             `json:"name"`
	Capacity *int                `json:"capacity"`
	Type     *string             `json:"type"`
	Status   *domain.TableStatus `json:"status"`
}

func (r UpdateTableRequest) ToPatch() domain.TablePatch {
	return domain.TablePatch{
		Name:     r.Name,
		Capacity: r.Capacity,
		Type:     r.Type,
		Status:   r.Status,
	}
}

type TablesResponse struct {
	Tables    []domain.Table        `json:"tables"`
	Occupancy domain.TableOccupancy `json:"occupancy"`
}

type HoldBookingRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	PartySize int      `json:"partySize"`
	Tables    []string `json:"tables"`
}

func (r HoldBookingRequest) ToDomain() domain.PendingBooking {
	return domain.PendingBooking{
		Name:      r.Name,
		Phone:     r.Phone,
		Date:      r.Date,
		Time:      r.Time,
		PartySize: r.PartySize,
		Tables:    r.Tables,
	}
}

type ConfirmBookingRequest struct {
	Fee decimal.Decimal `json:"fee"`
}

type PendingBookingsResponse struct {
	Drafts []domain.Draft[domain.PendingBooking] `json:"drafts"`
}
