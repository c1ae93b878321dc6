package types

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"golang.org/x/text/cases"
)

// ItemID identifies a menu item. The backend sends numeric ids while forms
// and order payloads carry strings, so ids are normalized to their text form.
type ItemID string

// String returns the id as text
func (id ItemID) String() string { return string(id) }

// Category is the menu section a dish belongs to
type Category string

const (
	CategoryAll   Category = "all"
	Appetizers    Category = "appetizers"
	MainCourse    Category = "main"
	Beverages     Category = "beverages"
	Desserts      Category = "desserts"
	Uncategorized Category = ""
)

// AllCategories lists the selectable menu sections in display order
var AllCategories = []Category{Appetizers, MainCourse, Beverages, Desserts}

// ParseCategory maps user or wire input onto a known category.
// An empty string maps to CategoryAll.
func ParseCategory(raw string) (Category, error) {
	v := Category(strings.TrimSpace(strings.ToLower(raw)))
	switch v {
	case "", CategoryAll:
		return CategoryAll, nil
	case Appetizers, MainCourse, Beverages, Desserts:
		return v, nil
	case "mains", "main-course":
		return MainCourse, nil
	default:
		return CategoryAll, fmt.Errorf("invalid category %q; expected all|appetizers|main|beverages|desserts", raw)
	}
}

// Label returns a human readable category name
func (c Category) Label() string {
	switch c {
	case CategoryAll:
		return "All"
	case Appetizers:
		return "Appetizers"
	case MainCourse:
		return "Main Course"
	case Beverages:
		return "Beverages"
	case Desserts:
		return "Desserts"
	case Uncategorized:
		return "Uncategorized"
	default:
		return string(c)
	}
}

// Fold case-folds s for case-insensitive comparisons.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// MenuItem represents one orderable dish
type MenuItem struct {
	id          ItemID
	name        string
	description string
	price       float64
	image       string
	category    Category
}

// NewMenuItem creates a MenuItem. Negative prices are clamped to zero.
func NewMenuItem(id ItemID, name, description string, price float64, image string, category Category) MenuItem {
	if price < 0 {
		price = 0
	}
	return MenuItem{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		image:       image,
		category:    category,
	}
}

// Getters for MenuItem fields
func (m MenuItem) ID() ItemID          { return m.id }
func (m MenuItem) Name() string        { return m.name }
func (m MenuItem) Description() string { return m.description }
func (m MenuItem) Price() float64      { return m.price }
func (m MenuItem) Image() string       { return m.image }
func (m MenuItem) Category() Category  { return m.category }

// FormattedPrice returns the price as printed on the menu
func (m MenuItem) FormattedPrice() string { return FormatPrice(m.price) }

// list.Item interface implementation
func (m MenuItem) Title() string       { return m.name }
func (m MenuItem) FilterValue() string { return m.name }

// Compile-time check that MenuItem implements list.Item
var _ list.Item = MenuItem{}

// Matches reports whether the already folded term occurs in the item's
// name, description or category.
func (m MenuItem) Matches(foldedTerm string) bool {
	if foldedTerm == "" {
		return true
	}
	return strings.Contains(Fold(m.name), foldedTerm) ||
		strings.Contains(Fold(m.description), foldedTerm) ||
		strings.Contains(Fold(string(m.category)), foldedTerm)
}

// FormatPrice renders an amount the way the restaurant prints prices (M24.99)
func FormatPrice(amount float64) string {
	return fmt.Sprintf("M%.2f", amount)
}

// SpecialOffer is a discounted presentation of a MenuItem
type SpecialOffer struct {
	id              string
	menuItemID      ItemID
	itemName        string
	itemImage       string
	itemDescription string
	originalPrice   float64
	discountPrice   float64
	description     string
	active          bool
}

// NewSpecialOffer creates a SpecialOffer keeping 0 <= discount <= original.
func NewSpecialOffer(id string, menuItemID ItemID, itemName, itemImage, itemDescription string, originalPrice, discountPrice float64, description string, active bool) SpecialOffer {
	if originalPrice < 0 {
		originalPrice = 0
	}
	if discountPrice < 0 {
		discountPrice = 0
	}
	if discountPrice > originalPrice {
		discountPrice = originalPrice
	}
	return SpecialOffer{
		id:              id,
		menuItemID:      menuItemID,
		itemName:        itemName,
		itemImage:       itemImage,
		itemDescription: itemDescription,
		originalPrice:   originalPrice,
		discountPrice:   discountPrice,
		description:     description,
		active:          active,
	}
}

// SyntheticOffer presents a regular item as an offer when the backend has
// none: the item price becomes the discount price and price*markup the
// struck-through original.
func SyntheticOffer(item MenuItem, markup float64) SpecialOffer {
	return NewSpecialOffer(
		"",
		item.ID(),
		item.Name(),
		item.Image(),
		item.Description(),
		item.Price()*markup,
		item.Price(),
		"",
		true,
	)
}

// Getters for SpecialOffer fields
func (o SpecialOffer) ID() string              { return o.id }
func (o SpecialOffer) MenuItemID() ItemID      { return o.menuItemID }
func (o SpecialOffer) ItemName() string        { return o.itemName }
func (o SpecialOffer) ItemImage() string       { return o.itemImage }
func (o SpecialOffer) ItemDescription() string { return o.itemDescription }
func (o SpecialOffer) OriginalPrice() float64  { return o.originalPrice }
func (o SpecialOffer) DiscountPrice() float64  { return o.discountPrice }
func (o SpecialOffer) Description() string     { return o.description }
func (o SpecialOffer) IsActive() bool          { return o.active }

// AsMenuItem merges the offer into an orderable entry priced at the discount
func (o SpecialOffer) AsMenuItem() MenuItem {
	desc := o.itemDescription
	if desc == "" {
		desc = o.description
	}
	return NewMenuItem(o.menuItemID, o.itemName, desc, o.discountPrice, o.itemImage, Uncategorized)
}

// GalleryImage is a photo shown in the gallery overlay
type GalleryImage struct {
	id      string
	url     string
	caption string
	active  bool
}

// NewGalleryImage creates a GalleryImage
func NewGalleryImage(id, url, caption string, active bool) GalleryImage {
	return GalleryImage{id: id, url: url, caption: caption, active: active}
}

// Getters for GalleryImage fields
func (g GalleryImage) ID() string      { return g.id }
func (g GalleryImage) URL() string     { return g.url }
func (g GalleryImage) Caption() string { return g.caption }
func (g GalleryImage) IsActive() bool  { return g.active }

// CatalogSource is the read side of the restaurant API.
// No bubbletea dependency; the TUI, MCP server and tests all call it directly.
type CatalogSource interface {
	GetMenu(ctx context.Context) ([]MenuItem, error)
	GetMenuByCategory(ctx context.Context, category Category) ([]MenuItem, error)
	GetSpecialOffers(ctx context.Context) ([]SpecialOffer, error)
	GetGallery(ctx context.Context) ([]GalleryImage, error)
	GetOrders(ctx context.Context) ([]Order, error)
}

// OrderService covers the customer-facing write operations.
type OrderService interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (Order, error)
	SubmitReservation(ctx context.Context, r Reservation) error
	SendContact(ctx context.Context, msg ContactMessage) error
}
