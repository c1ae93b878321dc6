package catalog

import "errors"

var errUnknownResource = errors.New("unknown resource")

// EventKind classifies controller notifications.
type EventKind int

const (
	// EventChanged means the derived collection, page or mode changed.
	EventChanged EventKind = iota
	// EventNotice carries a user-facing message, usually about a fallback.
	EventNotice
	// EventAdminRequested asks the presentation layer to prompt for the
	// admin secret.
	EventAdminRequested
)

// Event is delivered synchronously to every subscriber.
type Event struct {
	Kind    EventKind
	Message string
}

// Listener receives controller events.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}
