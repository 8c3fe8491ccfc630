package branch

import "restauranthub/internal/domain"

// APIBranch is a branch as the platform API returns it. Older records carry only _id.
type APIBranch struct {
	BranchID     string `json:"branchId"`
	MongoID      string `json:"_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Manager      string `json:"manager"`
	ManagerPhone string `json:"managerPhone"`
	IsOnline     bool   `json:"isOnline"`
	IsRushHour   bool   `json:"isRushHour"`
	RestaurantID string `json:"restaurantId"`
}

func (b APIBranch) ToDomain() domain.Branch {
	id := b.BranchID
	if id == "" {
		id = b.MongoID
	}
	return domain.Branch{
		ID:           id,
		Name:         b.Name,
		Address:      b.Address,
		City:         b.City,
		State:        b.State,
		Pincode:      b.Pincode,
		Manager:      b.Manager,
		ManagerPhone: b.ManagerPhone,
		IsOnline:     b.IsOnline,
		IsRushHour:   b.IsRushHour,
		RestaurantID: b.RestaurantID,
	}
}

type onlineToggle struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsOnline bool   `json:"isOnline"`
}

type rushHourToggle struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsRushHour bool   `json:"isRushHour"`
}
