package mcpsrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/qyinm/savorytui/catalog"
	"github.com/qyinm/savorytui/mcpsrv/dto"
	"github.com/qyinm/savorytui/types"
	"go.uber.org/zap"
)

type menuBrowseArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Optional category: all, appetizers, main, beverages, desserts"`
	Query    string `json:"query,omitempty" jsonschema:"Optional search term matched against name, description and category"`
	Page     int    `json:"page,omitempty" jsonschema:"Page number starting at 1"`
}

type menuSuggestArgs struct {
	Query string `json:"query" jsonschema:"Possibly misspelled dish name"`
	Limit int    `json:"limit,omitempty" jsonschema:"Optional maximum number of suggestions"`
}

type offersListArgs struct {
	Page int `json:"page,omitempty" jsonschema:"Page number starting at 1"`
}

type orderPlaceArgs struct {
	ItemID   string `json:"item_id" jsonschema:"Menu item id"`
	Quantity int    `json:"quantity,omitempty" jsonschema:"Number of portions, default 1"`
	Name     string `json:"name" jsonschema:"Customer name"`
	Email    string `json:"email" jsonschema:"Customer email"`
	Phone    string `json:"phone" jsonschema:"Customer phone"`
}

type orderTrackArgs struct {
	Email string `json:"email" jsonschema:"Email the orders were placed with"`
}

type reservationCreateArgs struct {
	Name   string `json:"name" jsonschema:"Guest name"`
	Email  string `json:"email" jsonschema:"Guest email"`
	Phone  string `json:"phone" jsonschema:"Guest phone"`
	Date   string `json:"date" jsonschema:"Date in YYYY-MM-DD"`
	Time   string `json:"time" jsonschema:"Time in HH:MM"`
	Guests int    `json:"guests" jsonschema:"Party size"`
}

type contactSendArgs struct {
	Name    string `json:"name" jsonschema:"Sender name"`
	Email   string `json:"email" jsonschema:"Sender email"`
	Message string `json:"message" jsonschema:"Message text"`
}

type orderSetStatusArgs struct {
	ID     string `json:"id" jsonschema:"Order id"`
	Status string `json:"status" jsonschema:"pending, preparing, ready, out-for-delivery or delivered"`
}

type menuBrowseOutput struct {
	Mode       string         `json:"mode"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
	Items      []dto.MenuItem `json:"items"`
	Notices    []string       `json:"notices,omitempty"`
}

type menuSuggestOutput struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type offersListOutput struct {
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Total      int         `json:"total"`
	Items      []dto.Offer `json:"items"`
	Notices    []string    `json:"notices,omitempty"`
}

type galleryListOutput struct {
	Total   int                `json:"total"`
	Items   []dto.GalleryImage `json:"items"`
	Notices []string           `json:"notices,omitempty"`
}

type orderOutput struct {
	Item dto.Order `json:"item"`
}

type ordersOutput struct {
	Email string      `json:"email,omitempty"`
	Total int         `json:"total"`
	Items []dto.Order `json:"items"`
}

type reservationsOutput struct {
	Total int               `json:"total"`
	Items []dto.Reservation `json:"items"`
}

type statusOutput struct {
	Status string `json:"status"`
}

// Backend is the part of the restaurant API the tools call.
type Backend interface {
	types.CatalogSource
	types.OrderService
	TrackOrders(ctx context.Context, email string) ([]types.Order, error)
	SetOrderStatus(ctx context.Context, id string, status types.OrderStatus) error
	AdminReservations(ctx context.Context) ([]types.Reservation, error)
	ClearCache()
}

type ServerOptions struct {
	EnableAdmin bool
	APIKey      string
	Catalog     catalog.Config
	Log         *zap.SugaredLogger
	Now         func() time.Time
}

// withDefaults returns a filled-in copy of o; o itself is never modified.
func (o *ServerOptions) withDefaults() *ServerOptions {
	out := ServerOptions{}
	if o != nil {
		out = *o
	}
	if out.Log == nil {
		out.Log = zap.NewNop().Sugar()
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.Catalog.PageSize <= 0 {
		out.Catalog = catalog.DefaultConfig()
	}
	return &out
}

func NewServer(backend Backend, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	opts = opts.withDefaults()

	server := mcp.NewServer(&mcp.Implementation{Name: "savorytui", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "menu_browse",
		Description: "Browse the menu by category or search term, one page at a time.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args menuBrowseArgs) (*mcp.CallToolResult, menuBrowseOutput, error) {
		return menuBrowseHandler(ctx, req, args, backend, opts)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "menu_suggest",
		Description: "Suggest dish names close to a possibly misspelled query.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args menuSuggestArgs) (*mcp.CallToolResult, menuSuggestOutput, error) {
		return menuSuggestHandler(ctx, req, args, backend, opts)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "special_offers_list",
		Description: "List current special offers with original and discounted prices.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args offersListArgs) (*mcp.CallToolResult, offersListOutput, error) {
		return offersListHandler(ctx, req, args, backend, opts)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "gallery_list",
		Description: "List restaurant gallery photos.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, galleryListOutput, error) {
		return galleryListHandler(ctx, req, backend, opts)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "order_place",
		Description: "Order one menu item for pickup or delivery.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args orderPlaceArgs) (*mcp.CallToolResult, orderOutput, error) {
		return orderPlaceHandler(ctx, req, args, backend, opts)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "order_track",
		Description: "Look up orders placed with an email address.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args orderTrackArgs) (*mcp.CallToolResult, ordersOutput, error) {
		return orderTrackHandler(ctx, req, args, backend, opts)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reservation_create",
		Description: "Book a table.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reservationCreateArgs) (*mcp.CallToolResult, statusOutput, error) {
		return reservationCreateHandler(ctx, req, args, backend)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "contact_send",
		Description: "Send a message to the restaurant.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args contactSendArgs) (*mcp.CallToolResult, statusOutput, error) {
		return contactSendHandler(ctx, req, args, backend)
	})

	if opts.EnableAdmin && strings.TrimSpace(opts.APIKey) != "" {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "order_set_status",
			Description: "Change an order's status (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, args orderSetStatusArgs) (*mcp.CallToolResult, statusOutput, error) {
			return orderSetStatusHandler(ctx, req, args, backend)
		})

		mcp.AddTool(server, &mcp.Tool{
			Name:        "orders_list",
			Description: "List every order (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ordersOutput, error) {
			return ordersListHandler(ctx, req, backend, opts)
		})

		mcp.AddTool(server, &mcp.Tool{
			Name:        "reservations_list",
			Description: "List table reservations (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, reservationsOutput, error) {
			return reservationsListHandler(ctx, req, backend)
		})

		mcp.AddTool(server, &mcp.Tool{
			Name:        "cache_clear",
			Description: "Clear the API response cache (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, statusOutput, error) {
			backend.ClearCache()
			return nil, statusOutput{Status: "ok"}, nil
		})
	}

	return server
}

// browser is a per-call catalog controller. Controllers are not safe for
// concurrent use, so every tool call gets its own.
type browser struct {
	ctrl    *catalog.Controller
	notices []string
}

func openBrowser(ctx context.Context, backend Backend, opts *ServerOptions) *browser {
	b := &browser{}
	b.ctrl = catalog.New(opts.Catalog, catalog.NewGateway(backend, opts.Log), catalog.WithLogger(opts.Log))
	b.ctrl.Subscribe(func(ev catalog.Event) {
		if ev.Kind == catalog.EventNotice {
			b.notices = append(b.notices, ev.Message)
		}
	})
	b.ctrl.Load(ctx)
	return b
}

// turnTo moves to page, where 0 means the first page.
func (b *browser) turnTo(page int) error {
	if page == 0 {
		page = 1
	}
	if !b.ctrl.ChangePage(page) {
		return fmt.Errorf("page must be between 1 and %d", b.ctrl.TotalPages())
	}
	return nil
}

func menuBrowseHandler(ctx context.Context, _ *mcp.CallToolRequest, args menuBrowseArgs, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, menuBrowseOutput, error) {
	opts = opts.withDefaults()
	category, err := types.ParseCategory(args.Category)
	if err != nil {
		return errorToolResult(err.Error()), menuBrowseOutput{}, nil
	}

	b := openBrowser(ctx, backend, opts)
	if category != types.CategoryAll {
		b.ctrl.SelectCategory(ctx, category)
	}
	if query := strings.TrimSpace(args.Query); query != "" {
		if b.ctrl.Search(query) == catalog.AdminRequested {
			return errorToolResult("query is reserved"), menuBrowseOutput{}, nil
		}
	}
	if err := b.turnTo(args.Page); err != nil {
		return errorToolResult(err.Error()), menuBrowseOutput{}, nil
	}

	return nil, menuBrowseOutput{
		Mode:       b.ctrl.Mode().String(),
		Page:       b.ctrl.Page(),
		TotalPages: b.ctrl.TotalPages(),
		Total:      len(b.ctrl.Derived()),
		Items:      dto.FromMenuItems(b.ctrl.CurrentPageItems()),
		Notices:    b.notices,
	}, nil
}

func menuSuggestHandler(ctx context.Context, _ *mcp.CallToolRequest, args menuSuggestArgs, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, menuSuggestOutput, error) {
	opts = opts.withDefaults()
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errorToolResult("query is required"), menuSuggestOutput{}, nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 3
	}
	if limit > 10 {
		limit = 10
	}

	b := openBrowser(ctx, backend, opts)
	suggestions := b.ctrl.Suggest(query, limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	return nil, menuSuggestOutput{Query: query, Suggestions: suggestions}, nil
}

func offersListHandler(ctx context.Context, _ *mcp.CallToolRequest, args offersListArgs, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, offersListOutput, error) {
	opts = opts.withDefaults()
	b := openBrowser(ctx, backend, opts)
	b.ctrl.ShowOffers(ctx)
	if err := b.turnTo(args.Page); err != nil {
		return errorToolResult(err.Error()), offersListOutput{}, nil
	}

	return nil, offersListOutput{
		Page:       b.ctrl.Page(),
		TotalPages: b.ctrl.TotalPages(),
		Total:      len(b.ctrl.Derived()),
		Items:      dto.FromOffers(b.ctrl.CurrentPageOffers()),
		Notices:    b.notices,
	}, nil
}

func galleryListHandler(ctx context.Context, _ *mcp.CallToolRequest, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, galleryListOutput, error) {
	opts = opts.withDefaults()
	b := openBrowser(ctx, backend, opts)
	b.ctrl.ShowGallery(ctx)
	images := b.ctrl.Images()
	return nil, galleryListOutput{
		Total:   len(images),
		Items:   dto.FromGalleryImages(images),
		Notices: b.notices,
	}, nil
}

func orderPlaceHandler(ctx context.Context, _ *mcp.CallToolRequest, args orderPlaceArgs, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, orderOutput, error) {
	opts = opts.withDefaults()
	id := types.ItemID(strings.TrimSpace(args.ItemID))
	if id == "" {
		return errorToolResult("item_id is required"), orderOutput{}, nil
	}
	if args.Quantity < 0 {
		return errorToolResult("quantity must be at least 1"), orderOutput{}, nil
	}

	b := openBrowser(ctx, backend, opts)
	var item types.MenuItem
	found := false
	for _, it := range b.ctrl.All() {
		if it.ID() == id {
			item, found = it, true
			break
		}
	}
	if !found {
		return errorToolResult(fmt.Sprintf("menu item %q not found", id)), orderOutput{}, nil
	}

	req := types.NewSingleItemOrder(item, args.Quantity, args.Name, args.Email, args.Phone)
	if err := types.Validate(req); err != nil {
		return errorToolResult(err.Error()), orderOutput{}, nil
	}
	order, err := backend.PlaceOrder(ctx, req)
	if err != nil {
		opts.Log.Warnw("place order failed", "item", id, "error", err)
		return errorToolResult("place order failed"), orderOutput{}, nil
	}
	return nil, orderOutput{Item: dto.FromOrder(order, opts.Now())}, nil
}

func orderTrackHandler(ctx context.Context, _ *mcp.CallToolRequest, args orderTrackArgs, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, ordersOutput, error) {
	opts = opts.withDefaults()
	email := strings.TrimSpace(args.Email)
	if email == "" {
		return errorToolResult("email is required"), ordersOutput{}, nil
	}
	orders, err := backend.TrackOrders(ctx, email)
	if err != nil {
		return errorToolResult("order lookup failed"), ordersOutput{}, nil
	}
	return nil, ordersOutput{Email: email, Total: len(orders), Items: dto.FromOrders(orders, opts.Now())}, nil
}

func reservationCreateHandler(ctx context.Context, _ *mcp.CallToolRequest, args reservationCreateArgs, backend Backend) (*mcp.CallToolResult, statusOutput, error) {
	r := types.Reservation{
		Name:   strings.TrimSpace(args.Name),
		Email:  strings.TrimSpace(args.Email),
		Phone:  strings.TrimSpace(args.Phone),
		Date:   strings.TrimSpace(args.Date),
		Time:   strings.TrimSpace(args.Time),
		Guests: args.Guests,
	}
	if err := types.Validate(r); err != nil {
		return errorToolResult(err.Error()), statusOutput{}, nil
	}
	if err := backend.SubmitReservation(ctx, r); err != nil {
		return errorToolResult("reservation failed"), statusOutput{}, nil
	}
	return nil, statusOutput{Status: "ok"}, nil
}

func contactSendHandler(ctx context.Context, _ *mcp.CallToolRequest, args contactSendArgs, backend Backend) (*mcp.CallToolResult, statusOutput, error) {
	msg := types.ContactMessage{
		Name:    strings.TrimSpace(args.Name),
		Email:   strings.TrimSpace(args.Email),
		Message: strings.TrimSpace(args.Message),
	}
	if err := types.Validate(msg); err != nil {
		return errorToolResult(err.Error()), statusOutput{}, nil
	}
	if err := backend.SendContact(ctx, msg); err != nil {
		return errorToolResult("sending message failed"), statusOutput{}, nil
	}
	return nil, statusOutput{Status: "ok"}, nil
}

func orderSetStatusHandler(ctx context.Context, _ *mcp.CallToolRequest, args orderSetStatusArgs, backend Backend) (*mcp.CallToolResult, statusOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return errorToolResult("id is required"), statusOutput{}, nil
	}
	status, err := types.ParseOrderStatus(args.Status)
	if err != nil {
		return errorToolResult(err.Error()), statusOutput{}, nil
	}
	if err := backend.SetOrderStatus(ctx, id, status); err != nil {
		return errorToolResult(errors.Wrap(err, "update order status").Error()), statusOutput{}, nil
	}
	return nil, statusOutput{Status: string(status)}, nil
}

func ordersListHandler(ctx context.Context, _ *mcp.CallToolRequest, backend Backend, opts *ServerOptions) (*mcp.CallToolResult, ordersOutput, error) {
	opts = opts.withDefaults()
	orders, err := backend.GetOrders(ctx)
	if err != nil {
		return errorToolResult("fetch orders failed"), ordersOutput{}, nil
	}
	return nil, ordersOutput{Total: len(orders), Items: dto.FromOrders(orders, opts.Now())}, nil
}

func reservationsListHandler(ctx context.Context, _ *mcp.CallToolRequest, backend Backend) (*mcp.CallToolResult, reservationsOutput, error) {
	rs, err := backend.AdminReservations(ctx)
	if err != nil {
		return errorToolResult("fetch reservations failed"), reservationsOutput{}, nil
	}
	return nil, reservationsOutput{Total: len(rs), Items: dto.FromReservations(rs)}, nil
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
