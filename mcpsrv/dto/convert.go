package dto

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/qyinm/savorytui/types"
)

func FromMenuItem(m types.MenuItem) MenuItem {
	return MenuItem{
		ID:          m.ID().String(),
		Name:        m.Name(),
		Description: m.Description(),
		Price:       m.Price(),
		PriceLabel:  m.FormattedPrice(),
		ImageURL:    m.Image(),
		Category:    string(m.Category()),
	}
}

func FromMenuItems(items []types.MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, m := range items {
		out = append(out, FromMenuItem(m))
	}
	return out
}

// FromOffer presents o as an orderable item priced at the discount.
func FromOffer(o types.SpecialOffer) Offer {
	return Offer{
		MenuItem:      FromMenuItem(o.AsMenuItem()),
		OfferID:       o.ID(),
		OriginalPrice: o.OriginalPrice(),
		Savings:       roundCents(o.OriginalPrice() - o.DiscountPrice()),
		Note:          o.Description(),
	}
}

func FromOffers(offers []types.SpecialOffer) []Offer {
	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		out = append(out, FromOffer(o))
	}
	return out
}

func FromGalleryImages(images []types.GalleryImage) []GalleryImage {
	out := make([]GalleryImage, 0, len(images))
	for _, g := range images {
		out = append(out, GalleryImage{ID: g.ID(), URL: g.URL(), Caption: g.Caption(), Visible: g.IsActive()})
	}
	return out
}

// FromOrder converts o; now anchors the relative placed_ago field.
func FromOrder(o types.Order, now time.Time) Order {
	lines := make([]OrderLine, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLine{ID: l.ID.String(), Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}

	placedAt, placedAgo := "", ""
	if !o.CreatedAt().IsZero() {
		placedAt = o.CreatedAt().UTC().Format(time.RFC3339)
		placedAgo = humanize.RelTime(o.CreatedAt(), now, "ago", "from now")
	}

	return Order{
		ID:            o.ID(),
		CustomerName:  o.CustomerName(),
		CustomerEmail: o.CustomerEmail(),
		Items:         lines,
		Summary:       o.ItemsSummary(),
		Total:         o.Total(),
		Status:        string(o.Status()),
		StatusLabel:   o.Status().Label(),
		PlacedAt:      placedAt,
		PlacedAgo:     placedAgo,
	}
}

func FromOrders(orders []types.Order, now time.Time) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o, now))
	}
	return out
}

func FromReservations(rs []types.Reservation) []Reservation {
	out := make([]Reservation, 0, len(rs))
	for _, r := range rs {
		out = append(out, Reservation{ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, Date: r.Date, Time: r.Time, Guests: r.Guests})
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
