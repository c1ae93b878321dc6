package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/qyinm/savorytui/types"
	"go.uber.org/zap"
)

// ModeKind is the rule that produces the derived collection.
type ModeKind int

const (
	Browse ModeKind = iota
	CategoryFiltered
	Searched
	OfferListing
)

// Mode is the active view mode. Category is set for CategoryFiltered and
// Term for Searched.
type Mode struct {
	Kind     ModeKind
	Category types.Category
	Term     string
}

func (m Mode) String() string {
	switch m.Kind {
	case Browse:
		return "browse"
	case CategoryFiltered:
		return "category:" + string(m.Category)
	case Searched:
		return "search:" + m.Term
	case OfferListing:
		return "offers"
	default:
		return "unknown"
	}
}

// Overlay is the presentation that temporarily replaces the menu grid.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlaySearchResults
	OverlayOffers
	OverlayGallery
)

// SearchOutcome tells the caller what Search did with the term.
type SearchOutcome int

const (
	// SearchApplied means the derived collection now holds the matches.
	SearchApplied SearchOutcome = iota
	// SearchCleared means an empty term restored the previous mode.
	SearchCleared
	// AdminRequested means the term was the admin keyword. Nothing changed;
	// the caller should clear the query and prompt for the secret.
	AdminRequested
)

// AdminKeyword typed into search opens the admin prompt.
const AdminKeyword = "admin"

// Ticket identifies an in-flight fetch started by one of the Begin methods.
type Ticket struct {
	Resource Resource
	Seq      uint64
	mode     Mode
	overlay  Overlay
}

// State is a read-only snapshot of the controller.
type State struct {
	All        []types.MenuItem
	Derived    []types.MenuItem
	Offers     []types.SpecialOffer
	Images     []types.GalleryImage
	Mode       Mode
	Overlay    Overlay
	Page       int
	TotalPages int
	PageSize   int
}

// Controller owns the catalog view state: which items are shown, in which
// mode, on which page. It is not safe for concurrent use; the UI drives it
// from its update loop and performs fetches elsewhere through the Begin and
// Apply pairs.
type Controller struct {
	cfg    Config
	loader Loader
	log    *zap.SugaredLogger

	store   *Store
	mode    Mode
	overlay Overlay
	offers  []types.SpecialOffer
	images  []types.GalleryImage

	// mode and derived collection to return to when search is cleared
	base        Mode
	baseDerived []types.MenuItem

	seq      uint64
	inflight map[string]uint64

	subs    []subscription
	nextSub uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a controller in Browse mode with nothing loaded.
func New(cfg Config, loader Loader, opts ...Option) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		cfg:      cfg,
		loader:   loader,
		log:      zap.NewNop().Sugar(),
		store:    NewStore(cfg.PageSize),
		inflight: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// Subscribe registers fn for every event and returns a function that
// removes it.
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		// emit may be ranging over the old slice, so never edit it in place
		next := make([]subscription, 0, len(c.subs))
		for _, s := range c.subs {
			if s.id != id {
				next = append(next, s)
			}
		}
		c.subs = next
	}
}

func (c *Controller) emit(kind EventKind, msg string) {
	ev := Event{Kind: kind, Message: msg}
	for _, s := range c.subs {
		s.fn(ev)
	}
}

func (c *Controller) changed() { c.emit(EventChanged, "") }

func (c *Controller) notice(format string, args ...any) {
	c.emit(EventNotice, fmt.Sprintf(format, args...))
}

// Read accessors; slices are copies.
func (c *Controller) Mode() Mode                         { return c.mode }
func (c *Controller) Overlay() Overlay                   { return c.overlay }
func (c *Controller) All() []types.MenuItem              { return c.store.All() }
func (c *Controller) Derived() []types.MenuItem          { return c.store.Derived() }
func (c *Controller) Images() []types.GalleryImage       { return clone(c.images) }
func (c *Controller) Page() int                          { return c.store.Paginator().Page() }
func (c *Controller) TotalPages() int                    { return c.store.Paginator().TotalPages() }
func (c *Controller) ControlsVisible() bool              { return c.store.Paginator().ControlsVisible() }
func (c *Controller) CurrentPageItems() []types.MenuItem { return c.store.Paginator().CurrentPageItems() }

// Suggest proposes item names close to term for an empty search result.
func (c *Controller) Suggest(term string, limit int) []string {
	return Suggest(c.store.all, term, limit)
}

// CurrentPageOffers returns the offers matching CurrentPageItems while in
// OfferListing mode, and nil otherwise.
func (c *Controller) CurrentPageOffers() []types.SpecialOffer {
	if c.mode.Kind != OfferListing {
		return nil
	}
	start, end := c.store.Paginator().Bounds()
	if end > len(c.offers) {
		return nil
	}
	return clone(c.offers[start:end])
}

// State returns a snapshot of everything the view needs.
func (c *Controller) State() State {
	p := c.store.Paginator()
	return State{
		All:        c.store.All(),
		Derived:    c.store.Derived(),
		Offers:     clone(c.offers),
		Images:     clone(c.images),
		Mode:       c.mode,
		Overlay:    c.overlay,
		Page:       p.Page(),
		TotalPages: p.TotalPages(),
		PageSize:   p.PageSize(),
	}
}

// ChangePage moves to page n; out of range requests change nothing.
func (c *Controller) ChangePage(n int) bool {
	if !c.store.Paginator().ChangePage(n) {
		return false
	}
	c.changed()
	return true
}

// NextPage advances one page if there is one.
func (c *Controller) NextPage() bool { return c.ChangePage(c.Page() + 1) }

// PrevPage goes back one page if there is one.
func (c *Controller) PrevPage() bool { return c.ChangePage(c.Page() - 1) }

// teardown removes every overlay and its data. Every mode entry starts here
// so no two overlays are ever visible together.
func (c *Controller) teardown() {
	c.overlay = OverlayNone
	c.offers = nil
	c.images = nil
	c.base = Mode{}
	c.baseDerived = nil
}

func (c *Controller) enterBrowse() {
	c.teardown()
	c.mode = Mode{Kind: Browse}
	c.store.SetDerived(c.store.all)
}

func (c *Controller) begin(r Resource) Ticket {
	c.seq++
	c.inflight[r.Key()] = c.seq
	return Ticket{Resource: r, Seq: c.seq, mode: c.mode, overlay: c.overlay}
}

// current reports whether t is the latest request for its resource and the
// view it was started for is still showing.
func (c *Controller) current(t Ticket) bool {
	if c.inflight[t.Resource.Key()] != t.Seq {
		c.log.Debugw("dropping superseded result", "resource", t.Resource.String(), "seq", t.Seq)
		return false
	}
	delete(c.inflight, t.Resource.Key())
	if c.mode != t.mode || c.overlay != t.overlay {
		c.log.Debugw("dropping result for inactive view", "resource", t.Resource.String(), "mode", c.mode.String())
		return false
	}
	return true
}

// BeginLoad starts a menu fetch.
func (c *Controller) BeginLoad() Ticket {
	return c.begin(Resource{Kind: ResourceMenu})
}

// ApplyLoad installs the fetched menu and returns to Browse. When the menu
// is unavailable and nothing has been loaded yet, the sample menu is used
// instead; a failed reload keeps what is already there. If the user moved
// to another view while the menu was loading, that view stays and is
// rebuilt from the new collection.
func (c *Controller) ApplyLoad(t Ticket, res Result) bool {
	if c.inflight[t.Resource.Key()] != t.Seq {
		return false
	}
	delete(c.inflight, t.Resource.Key())

	switch {
	case !res.Unavailable:
		c.store.SetAll(res.Items)
	case len(c.store.all) == 0:
		c.store.SetAll(SampleMenu())
		c.notice("Menu is unavailable, showing sample dishes")
	default:
		c.notice("Could not refresh the menu")
	}
	if c.mode != t.mode || c.overlay != t.overlay {
		c.rederive()
	} else {
		c.enterBrowse()
	}
	c.changed()
	return true
}

// rederive rebuilds the visible collection of the current mode from the
// full collection. Overlays and their data are kept.
func (c *Controller) rederive() {
	all := c.store.all
	switch c.mode.Kind {
	case CategoryFiltered:
		c.store.SetDerived(inCategory(all, c.mode.Category))
	case Searched:
		if c.base.Kind == CategoryFiltered {
			c.baseDerived = inCategory(all, c.base.Category)
		} else {
			c.baseDerived = clone(all)
		}
		c.store.SetDerived(matching(all, c.mode.Term))
	case OfferListing:
		if c.offers == nil {
			return
		}
		items := make([]types.MenuItem, 0, len(c.offers))
		for _, o := range c.offers {
			items = append(items, mergeOffer(o, all))
		}
		c.store.SetDerived(items)
	default:
		c.store.SetDerived(all)
	}
}

func inCategory(all []types.MenuItem, category types.Category) []types.MenuItem {
	out := make([]types.MenuItem, 0)
	for _, item := range all {
		if item.Category() == category {
			out = append(out, item)
		}
	}
	return out
}

func matching(all []types.MenuItem, term string) []types.MenuItem {
	folded := types.Fold(term)
	out := make([]types.MenuItem, 0)
	for _, item := range all {
		if item.Matches(folded) {
			out = append(out, item)
		}
	}
	return out
}

// Load fetches the menu and enters Browse.
func (c *Controller) Load(ctx context.Context) {
	t := c.BeginLoad()
	c.ApplyLoad(t, c.loader.Load(ctx, t.Resource))
}

// Reload is Load for an already populated controller.
func (c *Controller) Reload(ctx context.Context) { c.Load(ctx) }

// BeginCategory switches to category immediately using a local filter.
// It returns a ticket and true when a server fetch should refine the
// result; CategoryAll returns to Browse without fetching.
func (c *Controller) BeginCategory(category types.Category) (Ticket, bool) {
	if category == types.CategoryAll {
		c.enterBrowse()
		c.changed()
		return Ticket{}, false
	}

	c.teardown()
	c.mode = Mode{Kind: CategoryFiltered, Category: category}
	c.store.SetDerived(inCategory(c.store.all, category))
	c.changed()
	return c.begin(Resource{Kind: ResourceMenuByCategory, Category: category}), true
}

// ApplyCategory replaces the local filter with the server's answer, in
// server order, keeping only items present in the full collection.
func (c *Controller) ApplyCategory(t Ticket, res Result) bool {
	if !c.current(t) {
		return false
	}
	if res.Unavailable {
		c.notice("Could not load %s from the server, showing local results", t.Resource.Category.Label())
		return false
	}

	known := make(map[types.ItemID]struct{}, len(c.store.all))
	for _, item := range c.store.all {
		known[item.ID()] = struct{}{}
	}
	items := make([]types.MenuItem, 0, len(res.Items))
	for _, item := range res.Items {
		if _, ok := known[item.ID()]; ok {
			items = append(items, item)
		}
	}
	c.store.SetDerived(items)
	c.changed()
	return true
}

// SelectCategory filters by category, refining with a server fetch.
func (c *Controller) SelectCategory(ctx context.Context, category types.Category) {
	t, fetch := c.BeginCategory(category)
	if !fetch {
		return
	}
	c.ApplyCategory(t, c.loader.Load(ctx, t.Resource))
}

// Search filters the full collection by term. An empty term restores the
// mode that was active before searching; the admin keyword changes nothing
// and asks for the admin prompt instead.
func (c *Controller) Search(term string) SearchOutcome {
	term = strings.TrimSpace(term)
	if types.Fold(term) == AdminKeyword {
		c.emit(EventAdminRequested, "")
		return AdminRequested
	}

	if term == "" {
		if c.mode.Kind != Searched {
			return SearchCleared
		}
		base, derived := c.base, c.baseDerived
		c.teardown()
		c.mode = base
		c.store.SetDerived(derived)
		c.changed()
		return SearchCleared
	}

	if c.mode.Kind != Searched {
		base, derived := c.mode, c.store.Derived()
		if base.Kind == OfferListing {
			base, derived = Mode{Kind: Browse}, c.store.All()
		}
		c.teardown()
		c.base, c.baseDerived = base, derived
	}
	c.mode = Mode{Kind: Searched, Term: term}
	c.overlay = OverlaySearchResults

	c.store.SetDerived(matching(c.store.all, term))
	c.changed()
	return SearchApplied
}

// BeginOffers enters OfferListing with an empty list until ApplyOffers.
func (c *Controller) BeginOffers() Ticket {
	c.teardown()
	c.mode = Mode{Kind: OfferListing}
	c.overlay = OverlayOffers
	c.store.SetDerived(nil)
	c.changed()
	return c.begin(Resource{Kind: ResourceSpecialOffers})
}

// ApplyOffers shows the active offers. With none available, items cheaper
// than the offer threshold are shown as synthetic offers.
func (c *Controller) ApplyOffers(t Ticket, res Result) bool {
	if !c.current(t) {
		return false
	}

	offers := make([]types.SpecialOffer, 0, len(res.Offers))
	for _, o := range res.Offers {
		if o.IsActive() {
			offers = append(offers, o)
		}
	}
	if res.Unavailable || len(offers) == 0 {
		if res.Unavailable {
			c.notice("Special offers are unavailable, showing dishes under %s", types.FormatPrice(c.cfg.OfferThreshold))
		}
		offers = offers[:0]
		for _, item := range c.store.all {
			if item.Price() < c.cfg.OfferThreshold {
				offers = append(offers, types.SyntheticOffer(item, c.cfg.OfferMarkup))
			}
		}
	}

	items := make([]types.MenuItem, 0, len(offers))
	for _, o := range offers {
		items = append(items, mergeOffer(o, c.store.all))
	}
	c.offers = offers
	c.store.SetDerived(items)
	c.changed()
	return true
}

// mergeOffer prefers the catalog entry for the offered item so that the
// merged entry keeps its category and description.
func mergeOffer(o types.SpecialOffer, all []types.MenuItem) types.MenuItem {
	merged := o.AsMenuItem()
	for _, item := range all {
		if item.ID() != o.MenuItemID() {
			continue
		}
		name, image, desc := merged.Name(), merged.Image(), merged.Description()
		if name == "" {
			name = item.Name()
		}
		if image == "" {
			image = item.Image()
		}
		if desc == "" {
			desc = item.Description()
		}
		return types.NewMenuItem(item.ID(), name, desc, o.DiscountPrice(), image, item.Category())
	}
	return merged
}

// ShowOffers enters OfferListing and fills it.
func (c *Controller) ShowOffers(ctx context.Context) {
	t := c.BeginOffers()
	c.ApplyOffers(t, c.loader.Load(ctx, t.Resource))
}

// BeginGallery opens the gallery overlay over Browse.
func (c *Controller) BeginGallery() Ticket {
	c.enterBrowse()
	c.overlay = OverlayGallery
	c.changed()
	return c.begin(Resource{Kind: ResourceGallery})
}

// ApplyGallery shows the active gallery images, or the built-in photos and
// dish images when the gallery is unavailable or empty.
func (c *Controller) ApplyGallery(t Ticket, res Result) bool {
	if !c.current(t) {
		return false
	}
	images := make([]types.GalleryImage, 0, len(res.Images))
	for _, img := range res.Images {
		if img.IsActive() {
			images = append(images, img)
		}
	}
	if res.Unavailable || len(images) == 0 {
		if res.Unavailable {
			c.notice("Gallery is unavailable, showing restaurant photos")
		}
		images = FallbackGallery(c.store.all)
	}
	c.images = images
	c.changed()
	return true
}

// ShowGallery opens and fills the gallery overlay.
func (c *Controller) ShowGallery(ctx context.Context) {
	t := c.BeginGallery()
	c.ApplyGallery(t, c.loader.Load(ctx, t.Resource))
}

// ExitOverlay closes any overlay and returns to Browse. It does not return
// to a previously selected category.
func (c *Controller) ExitOverlay() {
	c.enterBrowse()
	c.changed()
}
