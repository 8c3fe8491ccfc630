package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDelivery OrderType = "Delivery"
	OrderTypeTakeaway OrderType = "Takeaway"
	OrderTypeDineIn   OrderType = "Dine-in"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDelivery, OrderTypeTakeaway, OrderTypeDineIn:
		return true
	}
	return false
}

// OrderKind separates table bookings from regular orders without inspecting line items.
type OrderKind string

const (
	OrderKindRegular OrderKind = "Regular"
	OrderKindBooking OrderKind = "Booking"
)

type OrderSource string

const (
	OrderSourceOnline  OrderSource = "Online"
	OrderSourceOffline OrderSource = "Offline"
)

const CategoryBooking = "Booking"

type CustomerDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Payment struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

type Order struct {
	ID              string          `json:"id"`
	Customer        string          `json:"customer"`
	CustomerDetails CustomerDetails `json:"customerDetails"`
	Items           []OrderItem     `json:"items"`
	Type            OrderType       `json:"type"`
	Kind            OrderKind       `json:"kind"`
	Status          OrderStatus     `json:"status"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	PrepTime        string          `json:"prepTime"`
	Total           decimal.Decimal `json:"total"`
	Payment         Payment         `json:"payment"`
	Source          OrderSource     `json:"source"`
	Tables          []string        `json:"tables,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ItemsTotal returns the sum of price * quantity over all items.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (o Order) IsBooking() bool {
	return o.Kind == OrderKindBooking
}

func (o Order) IsOffline() bool {
	return o.Source == OrderSourceOffline
}

// IsActive reports whether the order still holds resources such as tables.
func (o Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

func (o Order) UsesTable(tableID string) bool {
	for _, id := range o.Tables {
		if id == tableID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices with the store.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = append([]OrderItem(nil), o.Items...)
	}
	if o.Tables != nil {
		c.Tables = append([]string(nil), o.Tables...)
	}
	return c
}
