package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/savorytui/types"
)

type formKind int

const (
	formOrder formKind = iota
	formReservation
	formContact
	formTrack
	formLogin
	formMenuItem
	formOffer
	formGallery
)

type fieldSpec struct {
	key         string
	label       string
	placeholder string
	value       string
	password    bool
	limit       int
}

type formField struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs. It knows nothing about what the
// values mean; the model turns them into payloads on submit.
type form struct {
	kind   formKind
	title  string
	fields []formField
	focus  int
	err    string

	item   types.MenuItem // dish being ordered
	editID string         // admin record being edited, empty for new
}

func newForm(kind formKind, title string, specs ...fieldSpec) form {
	f := form{kind: kind, title: title}
	for _, s := range specs {
		in := textinput.New()
		in.Placeholder = s.placeholder
		in.Prompt = ""
		in.CharLimit = 200
		if s.limit > 0 {
			in.CharLimit = s.limit
		}
		if s.password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(s.value)
		f.fields = append(f.fields, formField{key: s.key, label: s.label, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f form) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.input.Value())
		}
	}
	return ""
}

func (f form) onLastField() bool {
	return f.focus == len(f.fields)-1
}

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Blur()
	f.focus = i
	return f.fields[f.focus].input.Focus()
}

// Update moves focus on tab/shift+tab/up/down and feeds everything else to
// the focused input.
func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1)
		}
	}
	if len(f.fields) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

// View renders the form inside a box of the given width.
func (f form) View(width int) string {
	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, fld := range f.fields {
		label := FormLabelStyle.Render(fld.label)
		if i == f.focus {
			label = FormFocusedLabelStyle.Render(fld.label)
		}
		b.WriteString(label + fld.input.View() + "\n")
	}
	if footer := f.footer(); footer != "" {
		b.WriteString("\n" + footer + "\n")
	}
	if f.err != "" {
		b.WriteString("\n" + ErrorStyle.Render(f.err) + "\n")
	}
	b.WriteString("\n" + StatusBarStyle.Render("enter next/submit • tab move • ctrl+s submit • esc cancel"))

	boxWidth := min(max(width-4, 30), 72)
	return FormBoxStyle.Width(boxWidth).Render(b.String())
}

// footer shows derived information, such as the running total of an order.
func (f form) footer() string {
	if f.kind != formOrder {
		return ""
	}
	qty, err := strconv.Atoi(f.value("quantity"))
	if err != nil || qty < 1 {
		qty = 1
	}
	total := f.item.Price() * float64(qty)
	return DetailLabelStyle.Render("Total: ") + PriceStyle.Render(types.FormatPrice(total))
}

func newOrderForm(item types.MenuItem) form {
	f := newForm(formOrder, "Order "+item.Name()+" ("+item.FormattedPrice()+")",
		fieldSpec{key: "name", label: "Name", placeholder: "Your name"},
		fieldSpec{key: "email", label: "Email", placeholder: "you@example.com"},
		fieldSpec{key: "phone", label: "Phone", placeholder: "+266 5555 0100"},
		fieldSpec{key: "quantity", label: "Quantity", value: "1", limit: 3},
	)
	f.item = item
	return f
}

func newReservationForm() form {
	return newForm(formReservation, "Book a table",
		fieldSpec{key: "name", label: "Name"},
		fieldSpec{key: "email", label: "Email"},
		fieldSpec{key: "phone", label: "Phone"},
		fieldSpec{key: "date", label: "Date", placeholder: "2006-01-02", limit: 10},
		fieldSpec{key: "time", label: "Time", placeholder: "19:30", limit: 5},
		fieldSpec{key: "guests", label: "Guests", value: "2", limit: 2},
	)
}

func newContactForm() form {
	return newForm(formContact, "Contact us",
		fieldSpec{key: "name", label: "Name"},
		fieldSpec{key: "email", label: "Email"},
		fieldSpec{key: "message", label: "Message", limit: 1000},
	)
}

func newTrackForm() form {
	return newForm(formTrack, "Track your order",
		fieldSpec{key: "email", label: "Email", placeholder: "Email used for the order"},
	)
}

func newLoginForm() form {
	return newForm(formLogin, "Admin access",
		fieldSpec{key: "password", label: "Password", password: true},
	)
}

func newMenuItemForm(item *types.MenuItem) form {
	var specs []fieldSpec
	title := "New menu item"
	if item != nil {
		title = "Edit " + item.Name()
		specs = []fieldSpec{
			{key: "name", label: "Name", value: item.Name()},
			{key: "description", label: "Description", value: item.Description(), limit: 500},
			{key: "price", label: "Price", value: strconv.FormatFloat(item.Price(), 'f', 2, 64)},
			{key: "image", label: "Image URL", value: item.Image(), limit: 500},
			{key: "category", label: "Category", value: string(item.Category())},
		}
	} else {
		specs = []fieldSpec{
			{key: "name", label: "Name"},
			{key: "description", label: "Description", limit: 500},
			{key: "price", label: "Price", placeholder: "0.00"},
			{key: "image", label: "Image URL", limit: 500},
			{key: "category", label: "Category", placeholder: "appetizers|main|beverages|desserts"},
		}
	}
	f := newForm(formMenuItem, title, specs...)
	if item != nil {
		f.editID = item.ID().String()
	}
	return f
}

func newOfferForm(offer *types.SpecialOffer) form {
	title := "New special offer"
	specs := []fieldSpec{
		{key: "menu_item_id", label: "Menu item ID"},
		{key: "original_price", label: "Original price"},
		{key: "discount_price", label: "Discount price"},
		{key: "description", label: "Description", limit: 500},
	}
	if offer != nil {
		title = "Edit offer for " + offer.ItemName()
		specs[0].value = offer.MenuItemID().String()
		specs[1].value = strconv.FormatFloat(offer.OriginalPrice(), 'f', 2, 64)
		specs[2].value = strconv.FormatFloat(offer.DiscountPrice(), 'f', 2, 64)
		specs[3].value = offer.Description()
	}
	f := newForm(formOffer, title, specs...)
	if offer != nil {
		f.editID = offer.ID()
	}
	return f
}

func newGalleryForm() form {
	return newForm(formGallery, "Add gallery image",
		fieldSpec{key: "image_url", label: "Image URL", limit: 500},
		fieldSpec{key: "caption", label: "Caption"},
	)
}

// Payload builders. Number parsing errors are reported with the same
// wording as validation errors.

func (f form) orderRequest() (types.OrderRequest, error) {
	qty, err := strconv.Atoi(f.value("quantity"))
	if err != nil || qty < 1 {
		return types.OrderRequest{}, &types.ValidationError{Fields: []string{"Quantity must be a whole number of at least 1"}}
	}
	req := types.NewSingleItemOrder(f.item, qty, f.value("name"), f.value("email"), f.value("phone"))
	return req, types.Validate(req)
}

func (f form) reservation() (types.Reservation, error) {
	guests, err := strconv.Atoi(f.value("guests"))
	if err != nil {
		return types.Reservation{}, &types.ValidationError{Fields: []string{"Guests must be a number"}}
	}
	r := types.Reservation{
		Name:   f.value("name"),
		Email:  f.value("email"),
		Phone:  f.value("phone"),
		Date:   f.value("date"),
		Time:   f.value("time"),
		Guests: guests,
	}
	return r, types.Validate(r)
}

func (f form) contactMessage() (types.ContactMessage, error) {
	msg := types.ContactMessage{
		Name:    f.value("name"),
		Email:   f.value("email"),
		Message: f.value("message"),
	}
	return msg, types.Validate(msg)
}

func (f form) menuItemInput() (types.MenuItemInput, error) {
	price, err := strconv.ParseFloat(f.value("price"), 64)
	if err != nil {
		return types.MenuItemInput{}, &types.ValidationError{Fields: []string{"Price must be a number"}}
	}
	in := types.MenuItemInput{
		Name:        f.value("name"),
		Description: f.value("description"),
		Price:       price,
		Image:       f.value("image"),
		Category:    types.Category(strings.ToLower(f.value("category"))),
	}
	return in, types.Validate(in)
}

func (f form) offerInput() (types.SpecialOfferInput, error) {
	var fields []string
	id, err := strconv.Atoi(f.value("menu_item_id"))
	if err != nil {
		fields = append(fields, "Menu item ID must be a number")
	}
	original, err := strconv.ParseFloat(f.value("original_price"), 64)
	if err != nil {
		fields = append(fields, "Original price must be a number")
	}
	discount, err := strconv.ParseFloat(f.value("discount_price"), 64)
	if err != nil {
		fields = append(fields, "Discount price must be a number")
	}
	if len(fields) > 0 {
		return types.SpecialOfferInput{}, &types.ValidationError{Fields: fields}
	}
	in := types.SpecialOfferInput{
		MenuItemID:    id,
		OriginalPrice: original,
		DiscountPrice: discount,
		Description:   f.value("description"),
	}
	return in, types.Validate(in)
}

func (f form) galleryInput() (types.GalleryImageInput, error) {
	in := types.GalleryImageInput{ImageURL: f.value("image_url"), Caption: f.value("caption")}
	return in, types.Validate(in)
}

// formError renders a payload error for the inline message line.
func formError(err error) string {
	if ve, ok := err.(*types.ValidationError); ok {
		return strings.Join(ve.Fields, "\n")
	}
	return err.Error()
}
