package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/qyinm/savorytui/catalog"
	"github.com/qyinm/savorytui/types"
)

const (
	restaurantName    = "Savory Delights"
	restaurantAddress = "123 Gourmet Street, Foodville"
	directionsURL     = "https://www.google.com/maps/dir/?api=1&destination=123+Gourmet+Street+Foodville"
)

// View renders the current view
func (m Model) View() string {
	if m.width == 0 {
		return m.spinner.View() + " Loading…"
	}

	var body string
	switch m.screen {
	case screenDetail, screenTracking:
		body = m.viewport.View()
	case screenForm:
		body = m.formView()
	case screenLocation:
		body = m.locationView()
	case screenAdmin:
		body = m.admin.View()
	default:
		body = m.menuView()
	}
	body = lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(body)

	var helpView string
	if m.screen == screenAdmin {
		helpView = m.help.View(adminKeys)
	} else {
		helpView = m.help.View(m.keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tabsView(),
		m.searchView(),
		body,
		m.pagerView(),
		m.statusView(),
		helpView,
	)
}

// tabsView renders the category bar with the active mode highlighted.
func (m Model) tabsView() string {
	mode := m.ctrl.Mode()
	overlay := m.ctrl.Overlay()

	active := ""
	switch {
	case m.screen == screenAdmin:
		active = "admin"
	case overlay == catalog.OverlayGallery:
		active = "gallery"
	case mode.Kind == catalog.OfferListing:
		active = "offers"
	case mode.Kind == catalog.CategoryFiltered:
		active = string(mode.Category)
	case mode.Kind == catalog.Browse:
		active = string(types.CategoryAll)
	}

	tab := func(id, label string) string {
		if id == active {
			return ActiveTabStyle.Render(label)
		}
		return InactiveTabStyle.Render(label)
	}

	parts := []string{TitleStyle.Render(restaurantName), tab(string(types.CategoryAll), "All")}
	for _, c := range types.AllCategories {
		parts = append(parts, tab(string(c), c.Label()))
	}
	parts = append(parts, tab("offers", "Offers"), tab("gallery", "Gallery"))
	if m.gate != nil && m.gate.Authenticated() {
		parts = append(parts, tab("admin", "Admin"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) searchView() string {
	if m.searching {
		return m.search.View()
	}
	if mode := m.ctrl.Mode(); mode.Kind == catalog.Searched {
		return StatusBarStyle.Render(fmt.Sprintf("/ %s  (esc to clear)", mode.Term))
	}
	return ""
}

func (m Model) menuView() string {
	if m.ctrl.Overlay() == catalog.OverlayGallery {
		if m.pending > 0 && len(m.ctrl.Images()) == 0 {
			return m.spinner.View() + " Loading gallery…"
		}
		return m.viewport.View()
	}
	if len(m.list.Items()) > 0 {
		return m.list.View()
	}
	if m.pending > 0 {
		return "\n  " + m.spinner.View() + " Loading menu…"
	}

	mode := m.ctrl.Mode()
	if mode.Kind != catalog.Searched {
		return "\n  " + StatusBarStyle.Render("No items found")
	}
	lines := []string{"", "  " + StatusBarStyle.Render(fmt.Sprintf("No dishes match %q", mode.Term))}
	if hints := m.ctrl.Suggest(mode.Term, 3); len(hints) > 0 {
		lines = append(lines, "  "+DetailLabelStyle.Render("Did you mean: ")+DetailTaglineStyle.Render(strings.Join(hints, ", ")))
	}
	return strings.Join(lines, "\n")
}

// pagerView renders page dots, hidden when everything fits on one page.
func (m Model) pagerView() string {
	if m.screen != screenMenu || m.ctrl.Overlay() == catalog.OverlayGallery || !m.ctrl.ControlsVisible() {
		return ""
	}
	return "  " + m.pager.View() + StatusBarStyle.Render(fmt.Sprintf("  page %d/%d", m.ctrl.Page(), m.ctrl.TotalPages()))
}

func (m Model) statusView() string {
	switch {
	case m.busy:
		return m.spinner.View() + " Sending…"
	case m.statusMsg != "" && m.statusErr:
		return ErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		return SuccessStyle.Render(m.statusMsg)
	case m.pending > 0:
		return m.spinner.View() + StatusBarStyle.Render(" Fetching…")
	}
	return StatusBarStyle.Render(fmt.Sprintf("%d dishes • %s", len(m.ctrl.Derived()), m.ctrl.Mode()))
}

func (m Model) formView() string {
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.form.View(m.width))
}

func (m Model) locationView() string {
	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render("Find us") + "\n\n")
	b.WriteString(DetailLabelStyle.Render("Address  ") + restaurantAddress + "\n")
	b.WriteString(DetailLabelStyle.Render("Route    ") + DetailTaglineStyle.Render(directionsURL) + "\n\n")
	b.WriteString(StatusBarStyle.Render("y copy directions link • esc back"))
	return FormBoxStyle.Render(b.String())
}

// detailContent renders the full card of one dish for the viewport.
func (m Model) detailContent(item types.MenuItem) string {
	width := max(m.width-4, 20)
	var b strings.Builder

	b.WriteString(DetailTitleStyle.Render(item.Name()) + "  " + PriceStyle.Render(item.FormattedPrice()) + "\n")
	if item.Category() != types.Uncategorized {
		b.WriteString(DetailTaglineStyle.Render(item.Category().Label()) + "\n")
	}
	b.WriteString("\n")
	if item.Description() != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(item.Description()) + "\n\n")
	}
	if item.Image() != "" {
		b.WriteString(DetailLabelStyle.Render("Photo: ") + item.Image() + "\n\n")
	}
	b.WriteString(StatusBarStyle.Render("o order • y copy photo link • esc back"))
	return b.String()
}

func (m Model) galleryContent() string {
	images := m.ctrl.Images()
	if len(images) == 0 {
		return StatusBarStyle.Render("The gallery is empty")
	}
	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render("Gallery") + "\n\n")
	for i, img := range images {
		caption := img.Caption()
		if caption == "" {
			caption = "Untitled"
		}
		fmt.Fprintf(&b, "%s %s\n   %s\n", DetailLabelStyle.Render(fmt.Sprintf("%2d.", i+1)), caption, DetailTaglineStyle.Render(img.URL()))
	}
	b.WriteString("\n" + StatusBarStyle.Render("esc back to menu"))
	return b.String()
}

// trackingContent lists the orders found for the tracked email, newest
// first as the backend returns them.
func (m Model) trackingContent() string {
	var b strings.Builder
	b.WriteString(DetailTitleStyle.Render("Orders for "+m.trackedBy) + "\n\n")
	if len(m.tracked) == 0 {
		b.WriteString(StatusBarStyle.Render("No orders found for this email"))
		return b.String()
	}
	now := m.now()
	for _, o := range m.tracked {
		placed := "unknown time"
		if !o.CreatedAt().IsZero() {
			placed = humanize.RelTime(o.CreatedAt(), now, "ago", "from now")
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			DetailTitleStyle.Render("#"+o.ID()),
			statusStyle(o.Status()).Render(o.Status().Label()),
			PriceStyle.Render(types.FormatPrice(o.Total())),
			DetailLabelStyle.Render(placed),
		)
		b.WriteString("   " + o.ItemsSummary() + "\n\n")
	}
	b.WriteString(StatusBarStyle.Render("esc back"))
	return b.String()
}

func statusStyle(s types.OrderStatus) lipgloss.Style {
	switch s {
	case types.StatusDelivered:
		return SuccessStyle
	case types.StatusPending:
		return lipgloss.NewStyle().Foreground(DraculaOrange)
	default:
		return lipgloss.NewStyle().Foreground(DraculaCyan)
	}
}
