package api

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/qyinm/savorytui/types"
	"github.com/segmentio/encoding/json"
)

// placeholderLine stands in for an order whose items field cannot be parsed.
var placeholderLine = types.OrderLine{Name: "Error parsing items", Quantity: 1}

// flexID accepts both numeric and string ids.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexFloat accepts numbers and numeric strings; the backend serializes
// DECIMAL columns as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid number %q", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexBool accepts true/false, 0/1 and "true"/"false".
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(s) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return errors.Errorf("invalid boolean %s", string(b))
	}
	return nil
}

type wireMenuItem struct {
	ID          flexID    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       flexFloat `json:"price"`
	Image       string    `json:"image"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
}

type wireOffer struct {
	ID              flexID    `json:"id"`
	MenuItemID      flexID    `json:"menu_item_id"`
	ItemName        string    `json:"item_name"`
	ItemImage       string    `json:"item_image"`
	ItemDescription string    `json:"item_description"`
	OriginalPrice   flexFloat `json:"original_price"`
	DiscountPrice   flexFloat `json:"discount_price"`
	Description     string    `json:"description"`
	IsActive        *flexBool `json:"is_active"`
}

type wireGalleryImage struct {
	ID       flexID    `json:"id"`
	ImageURL string    `json:"image_url"`
	URL      string    `json:"url"`
	Caption  string    `json:"caption"`
	Title    string    `json:"title"`
	IsActive *flexBool `json:"is_active"`
}

type wireOrder struct {
	ID            flexID          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Items         json.RawMessage `json:"items"`
	TotalAmount   flexFloat       `json:"total_amount"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

type wireOrderLine struct {
	ID       flexID    `json:"id"`
	Name     string    `json:"name"`
	Price    flexFloat `json:"price"`
	Quantity flexFloat `json:"quantity"`
}

type wireReservation struct {
	ID     flexID    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"`
	Date   string    `json:"date"`
	Time   string    `json:"time"`
	Guests flexFloat `json:"guests"`
}

type wireContact struct {
	ID      flexID `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type mutationResult struct {
	Success  *bool  `json:"success"`
	Error    string `json:"error"`
	ID       flexID `json:"id"`
	ImageURL string `json:"image_url"`
}

// ParseMenu decodes a JSON array of menu items. Markup in descriptions is
// reduced to plain text.
func ParseMenu(reader io.Reader) ([]types.MenuItem, error) {
	var wire []wireMenuItem
	if err := json.NewDecoder(reader).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "decode menu")
	}

	items := make([]types.MenuItem, 0, len(wire))
	for _, w := range wire {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		image := w.Image
		if image == "" {
			image = w.ImageURL
		}
		category, err := types.ParseCategory(w.Category)
		if err != nil || category == types.CategoryAll {
			category = types.Uncategorized
		}
		items = append(items, types.NewMenuItem(
			types.ItemID(w.ID),
			name,
			PlainText(w.Description),
			float64(w.Price),
			strings.TrimSpace(image),
			category,
		))
	}
	return items, nil
}

// ParseOffers decodes a JSON array of special offers.
func ParseOffers(reader io.Reader) ([]types.SpecialOffer, error) {
	var wire []wireOffer
	if err := json.NewDecoder(reader).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "decode special offers")
	}

	offers := make([]types.SpecialOffer, 0, len(wire))
	for _, w := range wire {
		active := true
		if w.IsActive != nil {
			active = bool(*w.IsActive)
		}
		offers = append(offers, types.NewSpecialOffer(
			string(w.ID),
			types.ItemID(w.MenuItemID),
			strings.TrimSpace(w.ItemName),
			strings.TrimSpace(w.ItemImage),
			PlainText(w.ItemDescription),
			float64(w.OriginalPrice),
			float64(w.DiscountPrice),
			PlainText(w.Description),
			active,
		))
	}
	return offers, nil
}

// ParseGallery decodes a JSON array of gallery images.
func ParseGallery(reader io.Reader) ([]types.GalleryImage, error) {
	var wire []wireGalleryImage
	if err := json.NewDecoder(reader).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "decode gallery")
	}

	images := make([]types.GalleryImage, 0, len(wire))
	for _, w := range wire {
		u := w.ImageURL
		if u == "" {
			u = w.URL
		}
		if strings.TrimSpace(u) == "" {
			continue
		}
		caption := w.Caption
		if caption == "" {
			caption = w.Title
		}
		active := true
		if w.IsActive != nil {
			active = bool(*w.IsActive)
		}
		images = append(images, types.NewGalleryImage(string(w.ID), strings.TrimSpace(u), caption, active))
	}
	return images, nil
}

// ParseOrders decodes a JSON array of orders. The items field may be a JSON
// array or a string holding one; an unparsable value becomes a single
// placeholder line instead of failing the whole list.
func ParseOrders(reader io.Reader) ([]types.Order, error) {
	var wire []wireOrder
	if err := json.NewDecoder(reader).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}

	orders := make([]types.Order, 0, len(wire))
	for _, w := range wire {
		status, err := types.ParseOrderStatus(w.Status)
		if err != nil {
			status = types.StatusPending
		}
		orders = append(orders, types.NewOrder(
			string(w.ID),
			w.CustomerName,
			w.CustomerEmail,
			w.CustomerPhone,
			parseOrderLines(w.Items),
			float64(w.TotalAmount),
			status,
			parseTimestamp(w.CreatedAt),
		))
	}
	return orders, nil
}

func parseOrderLines(raw json.RawMessage) []types.OrderLine {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return []types.OrderLine{placeholderLine}
		}
		raw = []byte(s)
	}

	var wire []wireOrderLine
	if err := json.Unmarshal(raw, &wire); err != nil {
		return []types.OrderLine{placeholderLine}
	}
	lines := make([]types.OrderLine, 0, len(wire))
	for _, w := range wire {
		qty := int(w.Quantity)
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, types.OrderLine{
			ID:       types.ItemID(w.ID),
			Name:     w.Name,
			Price:    float64(w.Price),
			Quantity: qty,
		})
	}
	return lines
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseTimestamp(raw string) time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseReservations decodes the admin reservation list.
func ParseReservations(reader io.Reader) ([]types.Reservation, error) {
	var wire []wireReservation
	if err := json.NewDecoder(reader).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "decode reservations")
	}
	out := make([]types.Reservation, 0, len(wire))
	for _, w := range wire {
		out = append(out, types.Reservation{
			ID:     string(w.ID),
			Name:   w.Name,
			Email:  w.Email,
			Phone:  w.Phone,
			Date:   w.Date,
			Time:   w.Time,
			Guests: int(w.Guests),
		})
	}
	return out, nil
}

// ParseContacts decodes the admin contact message list.
func ParseContacts(reader io.Reader) ([]types.ContactMessage, error) {
	var wire []wireContact
	if err := json.NewDecoder(reader).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "decode contacts")
	}
	out := make([]types.ContactMessage, 0, len(wire))
	for _, w := range wire {
		out = append(out, types.ContactMessage{
			ID:      string(w.ID),
			Name:    w.Name,
			Email:   w.Email,
			Message: w.Message,
		})
	}
	return out, nil
}

// parseMutation interprets a write response. An empty body or one without a
// success flag counts as success; {"success": false} becomes ErrRejected.
func parseMutation(body []byte) (mutationResult, error) {
	var res mutationResult
	if len(bytes.TrimSpace(body)) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return res, errors.Wrap(err, "decode response")
	}
	if res.Success != nil && !*res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return res, errors.Wrap(ErrRejected, msg)
	}
	return res, nil
}

// FilterOrdersByEmail keeps the orders whose customer email equals email,
// ignoring case and surrounding space.
func FilterOrdersByEmail(orders []types.Order, email string) []types.Order {
	want := types.Fold(strings.TrimSpace(email))
	out := make([]types.Order, 0)
	if want == "" {
		return out
	}
	for _, o := range orders {
		if types.Fold(strings.TrimSpace(o.CustomerEmail())) == want {
			out = append(out, o)
		}
	}
	return out
}
