package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/savorytui/catalog"
	"github.com/qyinm/savorytui/types"
)

const (
	requestTimeout = 15 * time.Second
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Message types for async operations

// resourceMsg carries a catalog fetch back to the update loop, where the
// controller decides whether the ticket is still current.
type resourceMsg struct {
	ticket catalog.Ticket
	result catalog.Result
}

type searchDebounceMsg struct {
	id    int
	query string
}

type clearStatusMsg struct {
	id int
}

type orderPlacedMsg struct {
	order types.Order
	err   error
}

type submittedMsg struct {
	what string
	err  error
}

type trackResultMsg struct {
	requestID int
	email     string
	orders    []types.Order
	err       error
}

type clipboardMsg struct {
	what string
	err  error
}

// fetchResource returns a tea.Cmd that loads the ticket's resource asynchronously
func fetchResource(loader catalog.Loader, ticket catalog.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return resourceMsg{ticket: ticket, result: loader.Load(ctx, ticket.Resource)}
	}
}

func searchDebounceCmd(id int, query string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return searchDebounceMsg{id: id, query: query}
	})
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func placeOrderCmd(svc types.OrderService, req types.OrderRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		order, err := svc.PlaceOrder(ctx, req)
		return orderPlacedMsg{order: order, err: err}
	}
}

func reserveCmd(svc types.OrderService, r types.Reservation) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return submittedMsg{what: "Reservation", err: svc.SubmitReservation(ctx, r)}
	}
}

func contactCmd(svc types.OrderService, msg types.ContactMessage) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return submittedMsg{what: "Message", err: svc.SendContact(ctx, msg)}
	}
}

func trackOrdersCmd(tracker OrderTracker, email string, requestID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		orders, err := tracker.TrackOrders(ctx, email)
		return trackResultMsg{requestID: requestID, email: email, orders: orders, err: err}
	}
}

func copyCmd(write func(string) error, what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: write(text)}
	}
}
