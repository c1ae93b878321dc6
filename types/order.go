package types

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the backend's closed set of order states
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out-for-delivery"
	StatusDelivered      OrderStatus = "delivered"
)

// OrderStatuses lists every status in lifecycle order
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// ParseOrderStatus validates a status string
func ParseOrderStatus(raw string) (OrderStatus, error) {
	v := OrderStatus(strings.TrimSpace(strings.ToLower(raw)))
	for _, s := range OrderStatuses {
		if v == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q; expected pending|preparing|ready|out-for-delivery|delivered", raw)
}

// Next returns the following status, wrapping delivered back to pending
// so the admin picker can cycle.
func (s OrderStatus) Next() OrderStatus {
	for i, v := range OrderStatuses {
		if v == s {
			return OrderStatuses[(i+1)%len(OrderStatuses)]
		}
	}
	return StatusPending
}

// Label returns the admin panel wording for the status
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPreparing:
		return "Preparing"
	case StatusReady:
		return "Ready for Pickup"
	case StatusOutForDelivery:
		return "Out for Delivery"
	case StatusDelivered:
		return "Delivered"
	default:
		return string(s)
	}
}

// OrderLine is one entry of an order
type OrderLine struct {
	ID       ItemID  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is an order as returned by the backend
type Order struct {
	id            string
	customerName  string
	customerEmail string
	customerPhone string
	lines         []OrderLine
	total         float64
	status        OrderStatus
	createdAt     time.Time
}

// NewOrder creates an Order
func NewOrder(id, customerName, customerEmail, customerPhone string, lines []OrderLine, total float64, status OrderStatus, createdAt time.Time) Order {
	return Order{
		id:            id,
		customerName:  customerName,
		customerEmail: customerEmail,
		customerPhone: customerPhone,
		lines:         lines,
		total:         total,
		status:        status,
		createdAt:     createdAt,
	}
}

// Getters for Order fields
func (o Order) ID() string            { return o.id }
func (o Order) CustomerName() string  { return o.customerName }
func (o Order) CustomerEmail() string { return o.customerEmail }
func (o Order) CustomerPhone() string { return o.customerPhone }
func (o Order) Lines() []OrderLine    { return o.lines }
func (o Order) Total() float64        { return o.total }
func (o Order) Status() OrderStatus   { return o.status }
func (o Order) CreatedAt() time.Time  { return o.createdAt }

// ItemsSummary renders lines as "Name (xN), Name (xN)"
func (o Order) ItemsSummary() string {
	parts := make([]string, 0, len(o.lines))
	for _, l := range o.lines {
		parts = append(parts, fmt.Sprintf("%s (x%d)", l.Name, l.Quantity))
	}
	return strings.Join(parts, ", ")
}

// OrderRequest is the payload of POST /orders. Only single-item orders are
// placed from the front end but the wire format carries a list.
type OrderRequest struct {
	CustomerName  string      `json:"customer_name" validate:"required"`
	CustomerEmail string      `json:"customer_email" validate:"required,email"`
	CustomerPhone string      `json:"customer_phone" validate:"required"`
	Items         []OrderLine `json:"items" validate:"required,min=1,dive"`
	TotalAmount   float64     `json:"total_amount" validate:"gte=0"`
}

// NewSingleItemOrder builds the request for quantity units of item.
// Quantities below one count as one.
func NewSingleItemOrder(item MenuItem, quantity int, name, email, phone string) OrderRequest {
	if quantity < 1 {
		quantity = 1
	}
	return OrderRequest{
		CustomerName:  strings.TrimSpace(name),
		CustomerEmail: strings.TrimSpace(email),
		CustomerPhone: strings.TrimSpace(phone),
		Items: []OrderLine{{
			ID:       item.ID(),
			Name:     item.Name(),
			Price:    item.Price(),
			Quantity: quantity,
		}},
		TotalAmount: item.Price() * float64(quantity),
	}
}

// Reservation is the payload of POST /reservations
type Reservation struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
	Guests int    `json:"guests" validate:"min=1,max=50"`
}

// ContactMessage is the payload of POST /contact
type ContactMessage struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}
