package dto

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	PriceLabel  string  `json:"price_label"`
	ImageURL    string  `json:"image_url,omitempty"`
	Category    string  `json:"category"`
}

type Offer struct {
	MenuItem
	OfferID       string  `json:"offer_id,omitempty"`
	OriginalPrice float64 `json:"original_price"`
	Savings       float64 `json:"savings"`
	Note          string  `json:"note,omitempty"`
}

type GalleryImage struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Visible bool   `json:"visible"`
}
