package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/savorytui/auth"
	"github.com/qyinm/savorytui/catalog"
	"github.com/qyinm/savorytui/prefs"
	"github.com/qyinm/savorytui/types"
	"go.uber.org/zap"
)

// screen is the view currently occupying the body
type screen int

const (
	screenMenu screen = iota
	screenDetail
	screenForm
	screenTracking
	screenLocation
	screenAdmin
)

// OrderTracker looks up a customer's orders by email.
type OrderTracker interface {
	TrackOrders(ctx context.Context, email string) ([]types.Order, error)
}

// AdminService is the back-office surface of the API client.
type AdminService interface {
	AdminMenu(ctx context.Context) ([]types.MenuItem, error)
	AdminMenuItem(ctx context.Context, id types.ItemID) (types.MenuItem, error)
	CreateMenuItem(ctx context.Context, in types.MenuItemInput) (types.ItemID, error)
	UpdateMenuItem(ctx context.Context, id types.ItemID, in types.MenuItemInput) error
	DeleteMenuItem(ctx context.Context, id types.ItemID) error
	AdminSpecialOffers(ctx context.Context) ([]types.SpecialOffer, error)
	CreateSpecialOffer(ctx context.Context, in types.SpecialOfferInput) (string, error)
	UpdateSpecialOffer(ctx context.Context, id string, in types.SpecialOfferInput) error
	DeleteSpecialOffer(ctx context.Context, id string) error
	AdminOrders(ctx context.Context) ([]types.Order, error)
	SetOrderStatus(ctx context.Context, id string, status types.OrderStatus) error
	AdminReservations(ctx context.Context) ([]types.Reservation, error)
	AdminContacts(ctx context.Context) ([]types.ContactMessage, error)
	AdminGallery(ctx context.Context) ([]types.GalleryImage, error)
	AddGalleryImage(ctx context.Context, in types.GalleryImageInput) (string, error)
	ToggleGalleryImage(ctx context.Context, id string) error
	DeleteGalleryImage(ctx context.Context, id string) error
}

// Backend is everything the TUI sends to the restaurant API besides
// catalog reads, which go through the controller.
type Backend interface {
	types.OrderService
	OrderTracker
	AdminService
}

// ThemeStore persists the dark mode choice.
type ThemeStore interface {
	Load() (prefs.Prefs, error)
	Update(fn func(*prefs.Prefs)) error
}

// Deps wires the model to the rest of the program.
type Deps struct {
	Controller *catalog.Controller
	Loader     catalog.Loader
	Backend    Backend
	Gate       *auth.Gate
	Prefs      ThemeStore
	Log        *zap.SugaredLogger
	Clipboard  func(string) error
	Now        func() time.Time
}

// eventQueue collects controller events raised during one Update call.
// It is shared by every copy of the Model.
type eventQueue struct {
	events []catalog.Event
}

func (q *eventQueue) push(e catalog.Event) { q.events = append(q.events, e) }

func (q *eventQueue) drain() []catalog.Event {
	out := q.events
	q.events = nil
	return out
}

// Model is the main TUI model
type Model struct {
	ctrl    *catalog.Controller
	loader  catalog.Loader
	backend Backend
	gate    *auth.Gate
	themes  ThemeStore
	log     *zap.SugaredLogger
	copy    func(string) error
	now     func() time.Time
	events  *eventQueue

	list     list.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	pager    paginator.Model
	search   textinput.Model
	keys     keyMap

	screen     screen
	prevScreen screen
	form       form
	admin      adminPanel
	detail     types.MenuItem

	searching  bool
	debounceID int
	pending    int
	busy       bool

	tracked   []types.Order
	trackedBy string
	trackID   int
	lastOrder string

	width     int
	height    int
	dark      bool
	statusMsg string
	statusErr bool
	statusID  int
}

// NewModel creates the model. The first menu load is started by Init.
func NewModel(d Deps) Model {
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	l := list.New([]list.Item{}, MenuItemDelegate{}, 0, 0)
	l.Title = "Savory Delights"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle

	s := spinner.New()
	s.Spinner = spinner.Dot

	si := textinput.New()
	si.Placeholder = "Search dishes…"
	si.Prompt = "/ "
	si.CharLimit = 64

	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = ActiveDotStyle.Render("•")
	p.InactiveDot = InactiveDotStyle.Render("•")

	var dark bool
	if d.Prefs != nil {
		if saved, err := d.Prefs.Load(); err == nil {
			dark = saved.DarkMode
		}
	}
	applyTheme(dark)

	m := Model{
		ctrl:     d.Controller,
		loader:   d.Loader,
		backend:  d.Backend,
		gate:     d.Gate,
		themes:   d.Prefs,
		log:      d.Log,
		copy:     d.Clipboard,
		now:      d.Now,
		events:   &eventQueue{},
		list:     l,
		viewport: viewport.New(0, 0),
		spinner:  s,
		help:     help.New(),
		pager:    p,
		search:   si,
		keys:     keys,
		admin:    newAdminPanel(d.Now),
		dark:     dark,
	}
	m.ctrl.Subscribe(m.events.push)
	return m
}

// Init starts the spinner and the initial menu fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return loadRequestMsg{} })
}

// loadRequestMsg asks the update loop to begin a menu load. Init cannot
// mutate the model, so the first load is started from Update.
type loadRequestMsg struct{}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		m.refreshList()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadRequestMsg:
		return m, m.startLoad()

	case resourceMsg:
		return m, m.applyResource(msg)

	case searchDebounceMsg:
		if msg.id != m.debounceID {
			return m, nil
		}
		return m, m.runSearch(msg.query)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil

	case orderPlacedMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Warnw("order failed", "error", msg.err)
			m.form.err = "Could not place order: " + msg.err.Error()
			return m, nil
		}
		m.lastOrder = msg.order.ID()
		m.closeForm()
		return m, tea.Batch(
			m.setStatus(fmt.Sprintf("Order #%s placed", msg.order.ID()), false),
			copyCmd(m.copy, fmt.Sprintf("Order #%s placed; number", msg.order.ID()), msg.order.ID()),
		)

	case submittedMsg:
		m.busy = false
		if msg.err != nil {
			m.form.err = msg.what + " failed: " + msg.err.Error()
			return m, nil
		}
		m.closeForm()
		return m, m.setStatus(msg.what+" sent. Thank you!", false)

	case trackResultMsg:
		if msg.requestID != m.trackID {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.form.err = "Could not look up orders: " + msg.err.Error()
			return m, nil
		}
		m.tracked = msg.orders
		m.trackedBy = msg.email
		m.screen = screenTracking
		m.viewport.SetContent(m.trackingContent())
		m.viewport.GotoTop()
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			return m, m.setStatus("Clipboard unavailable: "+msg.err.Error(), true)
		}
		return m, m.setStatus(msg.what+" copied to clipboard", false)

	case adminDataMsg, adminActionMsg, adminLookupMsg:
		return m.updateAdminData(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenForm:
		return m.updateForm(msg)
	case screenAdmin:
		return m.updateAdmin(msg)
	}

	if m.searching {
		return m.updateSearch(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePanes()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()
	case key.Matches(msg, m.keys.Reserve):
		return m, m.openForm(newReservationForm())
	case key.Matches(msg, m.keys.Contact):
		return m, m.openForm(newContactForm())
	case key.Matches(msg, m.keys.Track):
		return m, m.openForm(newTrackForm())
	case key.Matches(msg, m.keys.Location):
		m.screen = screenLocation
		return m, nil
	}

	switch m.screen {
	case screenDetail:
		return m.updateDetail(msg)
	case screenTracking:
		if key.Matches(msg, m.keys.Back) {
			m.screen = screenMenu
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case screenLocation:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.screen = screenMenu
		case key.Matches(msg, m.keys.Copy):
			return m, copyCmd(m.copy, "Directions link", directionsURL)
		}
		return m, nil
	}
	return m.updateMenu(msg)
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.ctrl.Mode().Term)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Back):
		switch {
		case m.ctrl.Mode().Kind == catalog.Searched:
			m.search.SetValue("")
			m.debounceID++
			return m, m.runSearch("")
		case m.ctrl.Overlay() != catalog.OverlayNone || m.ctrl.Mode().Kind != catalog.Browse:
			m.ctrl.ExitOverlay()
			return m, m.drainEvents()
		}
		return m, nil
	case key.Matches(msg, m.keys.CategoryAll):
		return m, m.selectCategory(types.CategoryAll)
	case key.Matches(msg, m.keys.Appetizers):
		return m, m.selectCategory(types.Appetizers)
	case key.Matches(msg, m.keys.MainCourse):
		return m, m.selectCategory(types.MainCourse)
	case key.Matches(msg, m.keys.Beverages):
		return m, m.selectCategory(types.Beverages)
	case key.Matches(msg, m.keys.Desserts):
		return m, m.selectCategory(types.Desserts)
	case key.Matches(msg, m.keys.Tab):
		return m, m.selectCategory(m.nextCategory())
	case key.Matches(msg, m.keys.Offers):
		t := m.ctrl.BeginOffers()
		m.pending++
		return m, tea.Batch(m.drainEvents(), fetchResource(m.loader, t))
	case key.Matches(msg, m.keys.Gallery):
		t := m.ctrl.BeginGallery()
		m.pending++
		return m, tea.Batch(m.drainEvents(), fetchResource(m.loader, t))
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startLoad()
	case key.Matches(msg, m.keys.Copy):
		if m.lastOrder == "" {
			return m, m.setStatus("No order placed yet", true)
		}
		return m, copyCmd(m.copy, "Order number", m.lastOrder)
	}

	if m.ctrl.Overlay() == catalog.OverlayGallery {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.PrevPage):
		m.ctrl.PrevPage()
		return m, m.drainEvents()
	case key.Matches(msg, m.keys.NextPage):
		m.ctrl.NextPage()
		return m, m.drainEvents()
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok {
			m.openDetail(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.Order):
		if item, ok := m.selectedItem(); ok {
			return m, m.openForm(newOrderForm(item))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenMenu
		return m, nil
	case key.Matches(msg, m.keys.Order):
		return m, m.openForm(newOrderForm(m.detail))
	case key.Matches(msg, m.keys.Copy):
		if m.detail.Image() == "" {
			return m, m.setStatus("This dish has no photo", true)
		}
		return m, copyCmd(m.copy, "Photo link", m.detail.Image())
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateSearch feeds keystrokes to the search box. Every change schedules a
// debounced search; only the latest tick is acted on.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.debounceID++
		return m, m.runSearch("")
	case "enter":
		m.searching = false
		m.search.Blur()
		m.debounceID++
		return m, m.runSearch(m.search.Value())
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.debounceID++
	return m, tea.Batch(cmd, searchDebounceCmd(m.debounceID, m.search.Value(), m.ctrl.Config().SearchDebounce))
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.onLastField() {
			return m.submitForm()
		}
		return m, m.form.setFocus(m.form.focus + 1)
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submitForm validates the form and starts the matching request.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.form.err = ""
	switch m.form.kind {
	case formOrder:
		req, err := m.form.orderRequest()
		if err != nil {
			m.form.err = formError(err)
			return m, nil
		}
		m.busy = true
		return m, placeOrderCmd(m.backend, req)
	case formReservation:
		r, err := m.form.reservation()
		if err != nil {
			m.form.err = formError(err)
			return m, nil
		}
		m.busy = true
		return m, reserveCmd(m.backend, r)
	case formContact:
		c, err := m.form.contactMessage()
		if err != nil {
			m.form.err = formError(err)
			return m, nil
		}
		m.busy = true
		return m, contactCmd(m.backend, c)
	case formTrack:
		email := m.form.value("email")
		if email == "" {
			m.form.err = "Email is required"
			return m, nil
		}
		m.busy = true
		m.trackID++
		return m, trackOrdersCmd(m.backend, email, m.trackID)
	case formLogin:
		if err := m.gate.Login(m.form.value("password")); err != nil {
			m.form.err = "Incorrect password"
			return m, nil
		}
		return m, m.enterAdmin()
	default:
		return m.submitAdminForm()
	}
}

// startLoad begins a (re)load of the full menu
func (m *Model) startLoad() tea.Cmd {
	t := m.ctrl.BeginLoad()
	m.pending++
	return fetchResource(m.loader, t)
}

func (m *Model) selectCategory(c types.Category) tea.Cmd {
	t, fetch := m.ctrl.BeginCategory(c)
	cmd := m.drainEvents()
	if !fetch {
		return cmd
	}
	m.pending++
	return tea.Batch(cmd, fetchResource(m.loader, t))
}

// nextCategory cycles All → Appetizers → … → Desserts → All.
func (m Model) nextCategory() types.Category {
	order := append([]types.Category{types.CategoryAll}, types.AllCategories...)
	current := types.CategoryAll
	if mode := m.ctrl.Mode(); mode.Kind == catalog.CategoryFiltered {
		current = mode.Category
	}
	for i, c := range order {
		if c == current {
			return order[(i+1)%len(order)]
		}
	}
	return types.CategoryAll
}

// applyResource hands a finished fetch to the controller. Stale tickets are
// dropped by the controller itself.
func (m *Model) applyResource(msg resourceMsg) tea.Cmd {
	m.pending = max(m.pending-1, 0)
	switch msg.ticket.Resource.Kind {
	case catalog.ResourceMenu:
		m.ctrl.ApplyLoad(msg.ticket, msg.result)
	case catalog.ResourceMenuByCategory:
		m.ctrl.ApplyCategory(msg.ticket, msg.result)
	case catalog.ResourceSpecialOffers:
		m.ctrl.ApplyOffers(msg.ticket, msg.result)
	case catalog.ResourceGallery:
		m.ctrl.ApplyGallery(msg.ticket, msg.result)
	}
	return m.drainEvents()
}

func (m *Model) runSearch(query string) tea.Cmd {
	m.ctrl.Search(query)
	return m.drainEvents()
}

// drainEvents reacts to everything the controller emitted since the last
// call.
func (m *Model) drainEvents() tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range m.events.drain() {
		switch ev.Kind {
		case catalog.EventChanged:
			m.refreshList()
		case catalog.EventNotice:
			cmds = append(cmds, m.setStatus(ev.Message, true))
		case catalog.EventAdminRequested:
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			cmds = append(cmds, m.enterAdmin())
		}
	}
	return tea.Batch(cmds...)
}

// refreshList copies the controller's current page into the list widget.
func (m *Model) refreshList() {
	pageItems := m.ctrl.CurrentPageItems()
	items := make([]list.Item, len(pageItems))
	for i, it := range pageItems {
		items[i] = it
	}

	d := MenuItemDelegate{}
	mode := m.ctrl.Mode()
	if mode.Kind == catalog.Searched {
		d.highlight = strings.TrimSpace(mode.Term)
	}
	d.offers = m.ctrl.CurrentPageOffers()
	m.list.SetDelegate(d)
	m.list.SetItems(items)
	m.list.ResetSelected()
	m.list.Title = m.listTitle()

	m.pager.PerPage = 1
	m.pager.SetTotalPages(m.ctrl.TotalPages())
	m.pager.Page = m.ctrl.Page() - 1

	if m.ctrl.Overlay() == catalog.OverlayGallery && m.screen == screenMenu {
		m.viewport.SetContent(m.galleryContent())
		m.viewport.GotoTop()
	}
}

func (m Model) listTitle() string {
	mode := m.ctrl.Mode()
	switch mode.Kind {
	case catalog.CategoryFiltered:
		return mode.Category.Label()
	case catalog.Searched:
		return fmt.Sprintf("Results for %q", mode.Term)
	case catalog.OfferListing:
		return "Special Offers"
	default:
		return "Savory Delights"
	}
}

func (m Model) selectedItem() (types.MenuItem, bool) {
	item, ok := m.list.SelectedItem().(types.MenuItem)
	return item, ok
}

func (m *Model) openDetail(item types.MenuItem) {
	m.detail = item
	m.screen = screenDetail
	m.viewport.SetContent(m.detailContent(item))
	m.viewport.GotoTop()
}

func (m *Model) openForm(f form) tea.Cmd {
	if m.screen != screenForm {
		m.prevScreen = m.screen
	}
	m.form = f
	m.screen = screenForm
	if len(f.fields) == 0 {
		return nil
	}
	return textinput.Blink
}

func (m *Model) closeForm() {
	m.busy = false
	m.screen = m.prevScreen
	if m.screen == screenForm {
		m.screen = screenMenu
	}
}

// enterAdmin shows the back office, asking for the secret first unless the
// flag from an earlier session is still set.
func (m *Model) enterAdmin() tea.Cmd {
	if m.gate == nil {
		return m.setStatus("Admin access is not configured", true)
	}
	if !m.gate.Authenticated() {
		return m.openForm(newLoginForm())
	}
	m.screen = screenAdmin
	m.admin.resize(m.width, m.bodyHeight())
	return m.loadAdminTab()
}

func (m *Model) toggleTheme() tea.Cmd {
	m.dark = !m.dark
	applyTheme(m.dark)
	m.refreshList()
	label := "Light mode"
	if m.dark {
		label = "Dark mode"
	}
	if m.themes != nil {
		dark := m.dark
		if err := m.themes.Update(func(p *prefs.Prefs) { p.DarkMode = dark }); err != nil {
			m.log.Warnw("could not save theme", "error", err)
			return m.setStatus(label+" (not saved)", true)
		}
	}
	return m.setStatus(label, false)
}

// setStatus shows a transient message in the status bar
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusMsg = text
	m.statusErr = isErr
	m.statusID++
	after := statusDuration
	if isErr {
		after = errorDuration
	}
	return clearStatusCmd(m.statusID, after)
}

// bodyHeight is what is left after header, search, pager, status and help.
func (m Model) bodyHeight() int {
	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = len(m.keys.FullHelp())
	}
	return max(m.height-helpHeight-4, 0)
}

// resizePanes adjusts the dimensions of list and viewport based on window size
func (m *Model) resizePanes() {
	h := m.bodyHeight()
	m.list.SetSize(m.width, h)
	m.viewport.Width = m.width
	m.viewport.Height = h
	m.help.Width = m.width
	m.search.Width = max(m.width-4, 10)
	m.admin.resize(m.width, h)
}
