package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Search      key.Binding
	Enter       key.Binding
	Back        key.Binding
	Tab         key.Binding
	CategoryAll key.Binding
	Appetizers  key.Binding
	MainCourse  key.Binding
	Beverages   key.Binding
	Desserts    key.Binding
	Offers      key.Binding
	Gallery     key.Binding
	Order       key.Binding
	Reserve     key.Binding
	Contact     key.Binding
	Track       key.Binding
	Location    key.Binding
	Copy        key.Binding
	Theme       key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevPage:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/←", "prev page")),
	NextPage:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/→", "next page")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
	CategoryAll: key.NewBinding(key.WithKeys("0"), key.WithHelp("0-4", "category")),
	Appetizers:  key.NewBinding(key.WithKeys("1")),
	MainCourse:  key.NewBinding(key.WithKeys("2")),
	Beverages:   key.NewBinding(key.WithKeys("3")),
	Desserts:    key.NewBinding(key.WithKeys("4")),
	Offers:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "offers")),
	Gallery:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gallery")),
	Order:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
	Reserve:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "book table")),
	Contact:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "contact")),
	Track:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "track order")),
	Location:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "location")),
	Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	Theme:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark mode")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Enter, k.CategoryAll, k.Offers, k.Gallery, k.Back, k.Help, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.Enter, k.Back},
		{k.Search, k.Tab, k.CategoryAll, k.Offers, k.Gallery},
		{k.Order, k.Reserve, k.Contact, k.Track, k.Location},
		{k.Copy, k.Theme, k.Refresh, k.Help, k.Quit},
	}
}

// adminKeyMap is active inside the back office.
type adminKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	PrevTab key.Binding
	NextTab key.Binding
	Status  key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Back    key.Binding
}

var adminKeys = adminKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("h/←", "prev tab")),
	NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("l/→", "next tab")),
	Status:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next status")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
	Toggle:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show/hide")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}

func (k adminKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Status, k.New, k.Edit, k.Delete, k.Toggle, k.Logout, k.Back}
}

func (k adminKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Up, k.Down, k.PrevTab, k.Refresh}}
}
