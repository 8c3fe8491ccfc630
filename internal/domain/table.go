package domain

type TableStatus string

const (
	TableStatusAvailable TableStatus = "Available"
	TableStatusOccupied  TableStatus = "Occupied"
)

func (s TableStatus) Valid() bool {
	return s == TableStatusAvailable || s == TableStatusOccupied
}

type Table struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Capacity int         `json:"capacity"`
	Type     string      `json:"type"`
	Status   TableStatus `json:"status"`
}

// TablePatch carries the fields of an update; nil fields are left untouched.
type TablePatch struct {
	Name     *string
	Capacity *int
	Type     *string
	Status   *TableStatus
}

type TableOccupancy struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}
