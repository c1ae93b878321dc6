package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/qyinm/savorytui/api"
	"github.com/qyinm/savorytui/types"
)

type adminTab int

const (
	tabOrders adminTab = iota
	tabReservations
	tabContacts
	tabMenu
	tabOffers
	tabGallery
)

var adminTabNames = []string{"Orders", "Reservations", "Contacts", "Menu", "Offers", "Gallery"}

func (t adminTab) String() string { return adminTabNames[t] }

// adminDataMsg carries one tab's records. Only the field for tab is set.
type adminDataMsg struct {
	requestID    int
	tab          adminTab
	orders       []types.Order
	reservations []types.Reservation
	contacts     []types.ContactMessage
	menu         []types.MenuItem
	offers       []types.SpecialOffer
	gallery      []types.GalleryImage
	err          error
}

// adminActionMsg reports a finished mutation. Menu and offer changes also
// invalidate the customer-facing catalog.
type adminActionMsg struct {
	what         string
	catalogDirty bool
	err          error
}

// adminLookupMsg answers an edit request with the item's current record.
type adminLookupMsg struct {
	item types.MenuItem
	err  error
}

// adminPanel is the tabbed back office.
type adminPanel struct {
	tab       adminTab
	table     table.Model
	requestID int
	loading   bool
	err       string
	confirm   string
	now       func() time.Time

	orders       []types.Order
	reservations []types.Reservation
	contacts     []types.ContactMessage
	menu         []types.MenuItem
	offers       []types.SpecialOffer
	gallery      []types.GalleryImage

	width  int
	height int
}

func newAdminPanel(now func() time.Time) adminPanel {
	t := table.New(table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(DraculaComment).
		BorderBottom(true).
		Foreground(DraculaCyan).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(DraculaPink).
		Bold(true)
	t.SetStyles(s)
	return adminPanel{table: t, now: now}
}

func (p *adminPanel) resize(width, height int) {
	p.width = width
	p.height = height
	p.table.SetWidth(width)
	p.table.SetHeight(max(height-4, 3))
	p.render()
}

// apply stores freshly loaded records and redraws the table.
func (p *adminPanel) apply(msg adminDataMsg) {
	p.loading = false
	p.confirm = ""
	if msg.err != nil {
		p.err = msg.err.Error()
		return
	}
	p.err = ""
	switch msg.tab {
	case tabOrders:
		p.orders = msg.orders
	case tabReservations:
		p.reservations = msg.reservations
	case tabContacts:
		p.contacts = msg.contacts
	case tabMenu:
		p.menu = msg.menu
	case tabOffers:
		p.offers = msg.offers
	case tabGallery:
		p.gallery = msg.gallery
	}
	p.render()
}

// render rebuilds columns and rows for the active tab. Rows are cleared
// first so the table never draws old rows against new columns.
func (p *adminPanel) render() {
	cols, rows := p.tableData()
	p.table.SetRows(nil)
	p.table.SetColumns(cols)
	p.table.SetRows(rows)
	if len(rows) == 0 {
		return
	}
	// an empty table leaves the cursor at -1
	if c := p.table.Cursor(); c < 0 || c >= len(rows) {
		p.table.SetCursor(min(max(c, 0), len(rows)-1))
	}
}

// selected returns the cursor row when it indexes one of n records.
func (p adminPanel) selected(n int) (int, bool) {
	i := p.table.Cursor()
	return i, i >= 0 && i < n
}

func (p adminPanel) flex(fixed int) int {
	return max(p.width-fixed-2, 12)
}

func (p adminPanel) tableData() ([]table.Column, []table.Row) {
	var rows []table.Row
	switch p.tab {
	case tabOrders:
		now := p.now()
		for _, o := range p.orders {
			placed := ""
			if !o.CreatedAt().IsZero() {
				placed = humanize.RelTime(o.CreatedAt(), now, "ago", "from now")
			}
			rows = append(rows, table.Row{o.ID(), o.CustomerName(), o.CustomerEmail(), o.ItemsSummary(), types.FormatPrice(o.Total()), o.Status().Label(), placed})
		}
		return []table.Column{
			{Title: "ID", Width: 6}, {Title: "Customer", Width: 16}, {Title: "Email", Width: 22},
			{Title: "Items", Width: p.flex(6 + 16 + 22 + 10 + 16 + 14 + 14)}, {Title: "Total", Width: 10},
			{Title: "Status", Width: 16}, {Title: "Placed", Width: 14},
		}, rows
	case tabReservations:
		for _, r := range p.reservations {
			rows = append(rows, table.Row{r.ID, r.Name, r.Email, r.Phone, r.Date, r.Time, strconv.Itoa(r.Guests)})
		}
		return []table.Column{
			{Title: "ID", Width: 6}, {Title: "Name", Width: 16}, {Title: "Email", Width: p.flex(6 + 16 + 14 + 10 + 6 + 6 + 12)},
			{Title: "Phone", Width: 14}, {Title: "Date", Width: 10}, {Title: "Time", Width: 6}, {Title: "Guests", Width: 6},
		}, rows
	case tabContacts:
		for _, c := range p.contacts {
			rows = append(rows, table.Row{c.ID, c.Name, c.Email, strings.ReplaceAll(c.Message, "\n", " ")})
		}
		return []table.Column{
			{Title: "ID", Width: 6}, {Title: "Name", Width: 16}, {Title: "Email", Width: 24},
			{Title: "Message", Width: p.flex(6 + 16 + 24 + 8)},
		}, rows
	case tabMenu:
		for _, it := range p.menu {
			rows = append(rows, table.Row{it.ID().String(), it.Name(), it.Category().Label(), it.FormattedPrice(), it.Description()})
		}
		return []table.Column{
			{Title: "ID", Width: 6}, {Title: "Name", Width: 22}, {Title: "Category", Width: 14},
			{Title: "Price", Width: 10}, {Title: "Description", Width: p.flex(6 + 22 + 14 + 10 + 10)},
		}, rows
	case tabOffers:
		for _, o := range p.offers {
			rows = append(rows, table.Row{o.ID(), o.ItemName(), types.FormatPrice(o.OriginalPrice()), types.FormatPrice(o.DiscountPrice()), yesNo(o.IsActive()), o.Description()})
		}
		return []table.Column{
			{Title: "ID", Width: 6}, {Title: "Item", Width: 22}, {Title: "Original", Width: 10},
			{Title: "Offer", Width: 10}, {Title: "Active", Width: 6}, {Title: "Description", Width: p.flex(6 + 22 + 10 + 10 + 6 + 12)},
		}, rows
	default:
		for _, g := range p.gallery {
			rows = append(rows, table.Row{g.ID(), g.Caption(), yesNo(g.IsActive()), g.URL()})
		}
		return []table.Column{
			{Title: "ID", Width: 6}, {Title: "Caption", Width: 24}, {Title: "Visible", Width: 7},
			{Title: "URL", Width: p.flex(6 + 24 + 7 + 8)},
		}, rows
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// View renders the tab strip and the table
func (p adminPanel) View() string {
	tabs := make([]string, len(adminTabNames))
	for i, name := range adminTabNames {
		if adminTab(i) == p.tab {
			tabs[i] = ActiveTabStyle.Render(name)
		} else {
			tabs[i] = InactiveTabStyle.Render(name)
		}
	}
	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")
	switch {
	case p.loading:
		b.WriteString(StatusBarStyle.Render("  Loading " + strings.ToLower(p.tab.String()) + "…"))
	case p.err != "":
		b.WriteString(ErrorStyle.Render("  " + p.err))
	case len(p.table.Rows()) == 0:
		b.WriteString(StatusBarStyle.Render("  Nothing here yet"))
	default:
		b.WriteString(p.table.View())
	}
	return b.String()
}

func loadAdminCmd(svc AdminService, tab adminTab, requestID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg := adminDataMsg{requestID: requestID, tab: tab}
		switch tab {
		case tabOrders:
			msg.orders, msg.err = svc.AdminOrders(ctx)
		case tabReservations:
			msg.reservations, msg.err = svc.AdminReservations(ctx)
		case tabContacts:
			msg.contacts, msg.err = svc.AdminContacts(ctx)
		case tabMenu:
			msg.menu, msg.err = svc.AdminMenu(ctx)
		case tabOffers:
			msg.offers, msg.err = svc.AdminSpecialOffers(ctx)
		case tabGallery:
			msg.gallery, msg.err = svc.AdminGallery(ctx)
		}
		return msg
	}
}

func adminActionCmd(what string, catalogDirty bool, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return adminActionMsg{what: what, catalogDirty: catalogDirty, err: fn(ctx)}
	}
}

func adminLookupCmd(svc AdminService, id types.ItemID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		item, err := svc.AdminMenuItem(ctx, id)
		return adminLookupMsg{item: item, err: err}
	}
}

func (m *Model) loadAdminTab() tea.Cmd {
	m.admin.requestID++
	m.admin.loading = true
	return loadAdminCmd(m.backend, m.admin.tab, m.admin.requestID)
}

func (m Model) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.admin
	switch {
	case key.Matches(msg, adminKeys.Back):
		m.screen = screenMenu
		return m, nil
	case key.Matches(msg, adminKeys.Logout):
		m.gate.Logout()
		m.screen = screenMenu
		return m, m.setStatus("Logged out of admin", false)
	case key.Matches(msg, adminKeys.NextTab):
		p.tab = (p.tab + 1) % adminTab(len(adminTabNames))
		p.table.SetCursor(0)
		p.render()
		return m, m.loadAdminTab()
	case key.Matches(msg, adminKeys.PrevTab):
		p.tab = (p.tab + adminTab(len(adminTabNames)) - 1) % adminTab(len(adminTabNames))
		p.table.SetCursor(0)
		p.render()
		return m, m.loadAdminTab()
	case key.Matches(msg, adminKeys.Refresh):
		return m, m.loadAdminTab()
	case key.Matches(msg, adminKeys.New):
		switch p.tab {
		case tabMenu:
			return m, m.openForm(newMenuItemForm(nil))
		case tabOffers:
			return m, m.openForm(newOfferForm(nil))
		case tabGallery:
			return m, m.openForm(newGalleryForm())
		}
		return m, nil
	case key.Matches(msg, adminKeys.Edit):
		return m, m.adminEdit()
	case key.Matches(msg, adminKeys.Status):
		return m, m.adminAdvanceStatus()
	case key.Matches(msg, adminKeys.Toggle):
		return m, m.adminToggle()
	case key.Matches(msg, adminKeys.Delete):
		return m, m.adminDelete()
	}

	p.confirm = ""
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return m, cmd
}

func (m *Model) adminEdit() tea.Cmd {
	switch m.admin.tab {
	case tabMenu:
		if i, ok := m.admin.selected(len(m.admin.menu)); ok {
			return adminLookupCmd(m.backend, m.admin.menu[i].ID())
		}
	case tabOffers:
		if i, ok := m.admin.selected(len(m.admin.offers)); ok {
			o := m.admin.offers[i]
			return m.openForm(newOfferForm(&o))
		}
	}
	return nil
}

func (m *Model) adminAdvanceStatus() tea.Cmd {
	svc := m.backend
	i, ok := m.admin.selected(len(m.admin.orders))
	if m.admin.tab != tabOrders || !ok {
		return nil
	}
	o := m.admin.orders[i]
	next := o.Status().Next()
	return adminActionCmd(fmt.Sprintf("Order #%s is now %s", o.ID(), next.Label()), false, func(ctx context.Context) error {
		return svc.SetOrderStatus(ctx, o.ID(), next)
	})
}

func (m *Model) adminToggle() tea.Cmd {
	svc := m.backend
	i, ok := m.admin.selected(len(m.admin.gallery))
	if m.admin.tab != tabGallery || !ok {
		return nil
	}
	g := m.admin.gallery[i]
	return adminActionCmd("Gallery image updated", false, func(ctx context.Context) error {
		return svc.ToggleGalleryImage(ctx, g.ID())
	})
}

// adminDelete asks for a second press on the same row before deleting.
func (m *Model) adminDelete() tea.Cmd {
	svc := m.backend
	p := &m.admin
	i := p.table.Cursor()
	if i < 0 {
		return nil
	}

	var target, label string
	var run func(ctx context.Context) error
	catalogDirty := false
	switch {
	case p.tab == tabMenu && i < len(p.menu):
		it := p.menu[i]
		target, label, catalogDirty = "menu:"+it.ID().String(), it.Name(), true
		run = func(ctx context.Context) error { return svc.DeleteMenuItem(ctx, it.ID()) }
	case p.tab == tabOffers && i < len(p.offers):
		o := p.offers[i]
		target, label, catalogDirty = "offer:"+o.ID(), "offer for "+o.ItemName(), true
		run = func(ctx context.Context) error { return svc.DeleteSpecialOffer(ctx, o.ID()) }
	case p.tab == tabGallery && i < len(p.gallery):
		g := p.gallery[i]
		target, label = "gallery:"+g.ID(), "image "+g.ID()
		run = func(ctx context.Context) error { return svc.DeleteGalleryImage(ctx, g.ID()) }
	default:
		return nil
	}

	if p.confirm != target {
		p.confirm = target
		return m.setStatus("Press x again to delete "+label, true)
	}
	p.confirm = ""
	return adminActionCmd("Deleted "+label, catalogDirty, run)
}

// submitAdminForm validates an admin form and starts the create or update.
func (m Model) submitAdminForm() (tea.Model, tea.Cmd) {
	svc := m.backend
	editID := m.form.editID
	switch m.form.kind {
	case formMenuItem:
		in, err := m.form.menuItemInput()
		if err != nil {
			m.form.err = formError(err)
			return m, nil
		}
		m.busy = true
		if editID == "" {
			return m, adminActionCmd("Menu item added", true, func(ctx context.Context) error {
				_, err := svc.CreateMenuItem(ctx, in)
				return err
			})
		}
		return m, adminActionCmd("Menu item updated", true, func(ctx context.Context) error {
			return svc.UpdateMenuItem(ctx, types.ItemID(editID), in)
		})
	case formOffer:
		in, err := m.form.offerInput()
		if err != nil {
			m.form.err = formError(err)
			return m, nil
		}
		m.busy = true
		if editID == "" {
			return m, adminActionCmd("Special offer added", true, func(ctx context.Context) error {
				_, err := svc.CreateSpecialOffer(ctx, in)
				return err
			})
		}
		return m, adminActionCmd("Special offer updated", true, func(ctx context.Context) error {
			return svc.UpdateSpecialOffer(ctx, editID, in)
		})
	case formGallery:
		in, err := m.form.galleryInput()
		if err != nil {
			m.form.err = formError(err)
			return m, nil
		}
		m.busy = true
		return m, adminActionCmd("Gallery image added", false, func(ctx context.Context) error {
			_, err := svc.AddGalleryImage(ctx, in)
			return err
		})
	}
	return m, nil
}

func (m Model) updateAdminData(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case adminDataMsg:
		if msg.requestID != m.admin.requestID {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warnw("admin load failed", "tab", msg.tab.String(), "error", msg.err)
		}
		m.admin.apply(msg)
		return m, nil

	case adminActionMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Warnw("admin action failed", "action", msg.what, "error", msg.err)
			if m.screen == screenForm {
				m.form.err = msg.err.Error()
				return m, nil
			}
			return m, m.setStatus(msg.err.Error(), true)
		}
		if m.screen == screenForm {
			m.closeForm()
		}
		cmds := []tea.Cmd{m.setStatus(msg.what, false), m.loadAdminTab()}
		if msg.catalogDirty {
			cmds = append(cmds, m.startLoad())
		}
		return m, tea.Batch(cmds...)

	case adminLookupMsg:
		if errors.Is(msg.err, api.ErrNotFound) {
			return m, tea.Batch(m.setStatus("Menu item not found", true), m.loadAdminTab())
		}
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		item := msg.item
		return m, m.openForm(newMenuItemForm(&item))
	}
	return m, nil
}
