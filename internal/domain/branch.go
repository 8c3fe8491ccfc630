package domain

type Branch struct {
	ID           string `json:"id"`
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

// RestaurantStatus is the dashboard header state derived from the primary branch.
type RestaurantStatus struct {
	BranchID           string `json:"branchId"`
	IsRestaurantOnline bool   `json:"isRestaurantOnline"`
	IsRushHour         bool   `json:"isRushHour"`
}
