package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/qyinm/savorytui/types"
)

// MenuItemDelegate renders menu items as three-line cards. In offer listings
// the struck-through original price is shown next to the discount, and in
// search results the matched term is highlighted.
type MenuItemDelegate struct {
	// parallel to the list items; the same dish may be offered twice
	offers    []types.SpecialOffer
	highlight string
}

// Height returns the height of a list item (3 lines)
func (d MenuItemDelegate) Height() int {
	return 3
}

// Spacing returns the spacing between list items
func (d MenuItemDelegate) Spacing() int {
	return 0
}

// Update handles updates for the delegate (no-op for menu items)
func (d MenuItemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single menu item
func (d MenuItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	dish, ok := item.(types.MenuItem)
	if !ok {
		return
	}
	isSelected := index == m.Index()

	// Line 1: Name + Price, with the original price struck through for offers
	priceDisplay := PriceStyle.Render(dish.FormattedPrice())
	priceWidth := len(dish.FormattedPrice())
	if offer, ok := d.offerAt(index); ok && offer.OriginalPrice() > offer.DiscountPrice() {
		original := types.FormatPrice(offer.OriginalPrice())
		priceDisplay = OriginalPriceStyle.Render(original) + " " + priceDisplay
		priceWidth += len(original) + 1
	}

	indent := "  "
	availableForName := max(m.Width()-len(indent)-priceWidth-1, 1)
	name := truncate(dish.Name(), availableForName)
	padding := strings.Repeat(" ", max(availableForName-lipgloss.Width(name), 0))

	nameStyle := lipgloss.NewStyle().Foreground(DraculaCyan)
	if isSelected {
		nameStyle = lipgloss.NewStyle().Foreground(DraculaPink).Bold(true)
		indent = lipgloss.NewStyle().Foreground(DraculaPink).Render("▌ ")
	}
	line1 := indent + d.mark(name, nameStyle) + padding + " " + priceDisplay

	// Line 2: Description (indented)
	descIndent := "    "
	description := truncate(dish.Description(), max(m.Width()-len(descIndent), 1))
	line2 := descIndent + d.mark(description, lipgloss.NewStyle().Foreground(DraculaForeground))

	// Line 3: Category (indented, dimmed)
	label := ""
	if dish.Category() != types.Uncategorized {
		label = dish.Category().Label()
	}
	if offer, ok := d.offerAt(index); ok && offer.Description() != "" {
		label = strings.TrimSpace(label + " • " + offer.Description())
		label = strings.TrimPrefix(label, "• ")
	}
	line3 := descIndent + lipgloss.NewStyle().Foreground(DraculaComment).Render(truncate(label, max(m.Width()-len(descIndent), 1)))

	fmt.Fprint(w, line1+"\n"+line2+"\n"+line3)
}

func (d MenuItemDelegate) offerAt(index int) (types.SpecialOffer, bool) {
	if index < 0 || index >= len(d.offers) {
		return types.SpecialOffer{}, false
	}
	return d.offers[index], true
}

// mark renders s with style, highlighting every case-insensitive occurrence
// of the delegate's search term.
func (d MenuItemDelegate) mark(s string, style lipgloss.Style) string {
	if d.highlight == "" || s == "" {
		return style.Render(s)
	}
	lower := strings.ToLower(s)
	term := strings.ToLower(d.highlight)
	if len(lower) != len(s) {
		// case mapping changed byte offsets, fall back to no highlight
		return style.Render(s)
	}

	var b strings.Builder
	rest := 0
	for {
		i := strings.Index(lower[rest:], term)
		if i < 0 {
			break
		}
		start := rest + i
		end := start + len(term)
		b.WriteString(style.Render(s[rest:start]))
		b.WriteString(HighlightStyle.Render(s[start:end]))
		rest = end
	}
	b.WriteString(style.Render(s[rest:]))
	return b.String()
}

// truncate shortens s to at most width runes, ending with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
