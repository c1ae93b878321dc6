package catalog

import (
	"context"

	"github.com/qyinm/savorytui/types"
	"go.uber.org/zap"
)

// ResourceKind names a remote collection.
type ResourceKind int

const (
	ResourceMenu ResourceKind = iota
	ResourceMenuByCategory
	ResourceSpecialOffers
	ResourceGallery
	ResourceAdminOrders
)

// String returns the path-like name of the resource kind
func (k ResourceKind) String() string {
	switch k {
	case ResourceMenu:
		return "menu"
	case ResourceMenuByCategory:
		return "menu-by-category"
	case ResourceSpecialOffers:
		return "special-offers"
	case ResourceGallery:
		return "gallery"
	case ResourceAdminOrders:
		return "admin-orders"
	default:
		return "unknown"
	}
}

// Resource describes one fetch.
type Resource struct {
	Kind     ResourceKind
	Category types.Category
}

// Key identifies requests that supersede each other. All category fetches
// share a key so that picking a new category abandons the previous fetch.
func (r Resource) Key() string {
	return r.Kind.String()
}

// String includes the category for logging.
func (r Resource) String() string {
	if r.Kind == ResourceMenuByCategory {
		return r.Kind.String() + "/" + string(r.Category)
	}
	return r.Kind.String()
}

// Result is the outcome of a fetch. Exactly one payload field is set for an
// available result; Unavailable replaces any error.
type Result struct {
	Items       []types.MenuItem
	Offers      []types.SpecialOffer
	Images      []types.GalleryImage
	Orders      []types.Order
	Unavailable bool
	Cause       error
}

// Loader fetches a resource. Implementations never fail; problems are
// reported as an unavailable Result.
type Loader interface {
	Load(ctx context.Context, r Resource) Result
}

// Gateway adapts a types.CatalogSource into a Loader. It is safe for
// concurrent use as long as the source is.
type Gateway struct {
	source types.CatalogSource
	log    *zap.SugaredLogger
}

var _ Loader = (*Gateway)(nil)

// NewGateway wraps source. A nil logger discards output.
func NewGateway(source types.CatalogSource, log *zap.SugaredLogger) *Gateway {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Gateway{source: source, log: log}
}

// Load performs exactly one attempt against the source.
func (g *Gateway) Load(ctx context.Context, r Resource) Result {
	var (
		res Result
		err error
	)
	switch r.Kind {
	case ResourceMenu:
		res.Items, err = g.source.GetMenu(ctx)
	case ResourceMenuByCategory:
		res.Items, err = g.source.GetMenuByCategory(ctx, r.Category)
	case ResourceSpecialOffers:
		res.Offers, err = g.source.GetSpecialOffers(ctx)
	case ResourceGallery:
		res.Images, err = g.source.GetGallery(ctx)
	case ResourceAdminOrders:
		res.Orders, err = g.source.GetOrders(ctx)
	default:
		err = errUnknownResource
	}
	if err != nil {
		g.log.Warnw("resource unavailable", "resource", r.String(), "error", err)
		return Result{Unavailable: true, Cause: err}
	}
	g.log.Debugw("resource loaded", "resource", r.String(),
		"items", len(res.Items), "offers", len(res.Offers), "images", len(res.Images), "orders", len(res.Orders))
	return res
}
