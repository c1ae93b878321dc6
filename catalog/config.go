package catalog

import "time"

// Config holds the tunables of the view controller.
type Config struct {
	// PageSize is the number of items per page.
	PageSize int
	// OfferThreshold is the price below which an item is shown as an offer
	// when the backend has none.
	OfferThreshold float64
	// OfferMarkup derives the struck-through price of a fallback offer.
	OfferMarkup float64
	// SearchDebounce is how long the UI waits after the last keystroke
	// before searching.
	SearchDebounce time.Duration
}

// DefaultConfig returns the values the restaurant site ships with.
func DefaultConfig() Config {
	return Config{
		PageSize:       6,
		OfferThreshold: 20,
		OfferMarkup:    1.2,
		SearchDebounce: 275 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.OfferThreshold <= 0 {
		c.OfferThreshold = d.OfferThreshold
	}
	if c.OfferMarkup < 1 {
		c.OfferMarkup = d.OfferMarkup
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = d.SearchDebounce
	}
	return c
}
