package dto

type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderLine `json:"items"`
	Summary       string      `json:"summary"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	StatusLabel   string      `json:"status_label"`
	PlacedAt      string      `json:"placed_at,omitempty"`
	PlacedAgo     string      `json:"placed_ago,omitempty"`
}

type OrderLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Reservation struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Guests int    `json:"guests"`
}
