package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/qyinm/savorytui/types"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://res-site-backend.onrender.com/api"
	userAgent      = "savorytui/1.0 (+https://github.com/qyinm/savorytui)"
	maxErrorBody   = 512
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrNotFound is returned for 404 responses and missing records.
	ErrNotFound = errors.New("not found")
	// ErrRejected is returned when the backend answers {"success": false}.
	ErrRejected = errors.New("request rejected")
)

// Client implements types.CatalogSource and types.OrderService against the
// restaurant REST API, with an in-memory cache for GET requests.
type Client struct {
	client        *http.Client
	baseURL       string
	adminPassword string
	cacheTTL      time.Duration
	log           *zap.SugaredLogger
	now           func() time.Time

	cache map[string]cachedResult
	mu    sync.Mutex
}

type cachedResult struct {
	value     any
	timestamp time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.client.Timeout = d
		}
	}
}

// WithAdminPassword sets the shared secret sent on admin requests.
func WithAdminPassword(password string) Option {
	return func(cl *Client) { cl.adminPassword = password }
}

// WithCacheTTL sets how long GET results are served from memory.
// Zero disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(cl *Client) { cl.cacheTTL = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(cl *Client) {
		if log != nil {
			cl.log = log
		}
	}
}

// Compile-time interface checks
var (
	_ types.CatalogSource = (*Client)(nil)
	_ types.OrderService  = (*Client)(nil)
)

// New creates a Client for baseURL with an empty cache.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheTTL: 30 * time.Second,
		log:      zap.NewNop().Sugar(),
		now:      time.Now,
		cache:    make(map[string]cachedResult),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// GetMenu fetches the full menu.
func (c *Client) GetMenu(ctx context.Context) ([]types.MenuItem, error) {
	return cachedGet(ctx, c, "/menu", ParseMenu)
}

// GetMenuByCategory fetches the server-side filtered menu for category.
func (c *Client) GetMenuByCategory(ctx context.Context, category types.Category) ([]types.MenuItem, error) {
	if category == types.CategoryAll || category == types.Uncategorized {
		return c.GetMenu(ctx)
	}
	return cachedGet(ctx, c, "/menu/"+url.PathEscape(string(category)), ParseMenu)
}

// GetSpecialOffers fetches the offers joined with their menu items.
func (c *Client) GetSpecialOffers(ctx context.Context) ([]types.SpecialOffer, error) {
	return cachedGet(ctx, c, "/special-offers", ParseOffers)
}

// GetGallery fetches the public gallery.
func (c *Client) GetGallery(ctx context.Context) ([]types.GalleryImage, error) {
	return cachedGet(ctx, c, "/gallery", ParseGallery)
}

// GetOrders fetches the order list the site uses for order tracking.
// It is never cached so status changes show up immediately.
func (c *Client) GetOrders(ctx context.Context) ([]types.Order, error) {
	body, err := c.do(ctx, http.MethodGet, "/admin/orders", nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch orders")
	}
	orders, err := ParseOrders(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse orders")
	}
	return orders, nil
}

// TrackOrders returns the orders placed with email, compared case-insensitively.
func (c *Client) TrackOrders(ctx context.Context, email string) ([]types.Order, error) {
	orders, err := c.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrdersByEmail(orders, email), nil
}

// PlaceOrder submits a new order and returns it with the backend id.
func (c *Client) PlaceOrder(ctx context.Context, req types.OrderRequest) (types.Order, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders", nil, req)
	if err != nil {
		return types.Order{}, errors.Wrap(err, "place order")
	}
	res, err := parseMutation(body)
	if err != nil {
		return types.Order{}, errors.Wrap(err, "place order")
	}
	return types.NewOrder(
		string(res.ID),
		req.CustomerName,
		req.CustomerEmail,
		req.CustomerPhone,
		req.Items,
		req.TotalAmount,
		types.StatusPending,
		c.now(),
	), nil
}

// UpdateOrderStatus sets the status of order id.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status types.OrderStatus) error {
	payload := map[string]string{"status": string(status)}
	body, err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", nil, payload)
	if err != nil {
		return errors.Wrapf(err, "update order %s", id)
	}
	if _, err := parseMutation(body); err != nil {
		return errors.Wrapf(err, "update order %s", id)
	}
	return nil
}

// SubmitReservation books a table.
func (c *Client) SubmitReservation(ctx context.Context, r types.Reservation) error {
	body, err := c.do(ctx, http.MethodPost, "/reservations", nil, r)
	if err != nil {
		return errors.Wrap(err, "submit reservation")
	}
	if _, err := parseMutation(body); err != nil {
		return errors.Wrap(err, "submit reservation")
	}
	return nil
}

// SendContact posts a contact message.
func (c *Client) SendContact(ctx context.Context, msg types.ContactMessage) error {
	body, err := c.do(ctx, http.MethodPost, "/contact", nil, msg)
	if err != nil {
		return errors.Wrap(err, "send contact message")
	}
	if _, err := parseMutation(body); err != nil {
		return errors.Wrap(err, "send contact message")
	}
	return nil
}

// ClearCache clears the in-memory cache.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedResult)
}

func cachedGet[T any](ctx context.Context, c *Client, path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	key := c.baseURL + path

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok && c.cacheTTL > 0 && c.now().Sub(cached.timestamp) < c.cacheTTL {
		c.mu.Unlock()
		if v, ok := cached.value.(T); ok {
			return v, nil
		}
	} else {
		c.mu.Unlock()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return zero, errors.Wrapf(err, "fetch %s", path)
	}
	v, err := parse(bytes.NewReader(body))
	if err != nil {
		return zero, errors.Wrapf(err, "parse %s", path)
	}

	if c.cacheTTL > 0 {
		c.mu.Lock()
		c.cache[key] = cachedResult{value: v, timestamp: c.now()}
		c.mu.Unlock()
	}
	return v, nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debugw("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	c.log.Debugw("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", c.now().Sub(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "%s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, errors.Wrapf(ErrUnexpectedStatus, "status %d, body: %s", resp.StatusCode, snippet)
	}
	return body, nil
}
