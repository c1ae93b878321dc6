package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/qyinm/savorytui/types"
)

// Admin calls authenticate with the shared secret in the password query
// parameter and are never cached. Every successful mutation drops the GET
// cache so the public views pick the change up.

func (c *Client) adminQuery() url.Values {
	return url.Values{"password": []string{c.adminPassword}}
}

func adminList[T any](ctx context.Context, c *Client, path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	body, err := c.do(ctx, http.MethodGet, "/admin"+path, c.adminQuery(), nil)
	if err != nil {
		return zero, errors.Wrapf(err, "fetch admin %s", path)
	}
	v, err := parse(bytes.NewReader(body))
	if err != nil {
		return zero, errors.Wrapf(err, "parse admin %s", path)
	}
	return v, nil
}

func (c *Client) adminMutate(ctx context.Context, method, path string, payload any) (mutationResult, error) {
	body, err := c.do(ctx, method, "/admin"+path, c.adminQuery(), payload)
	if err != nil {
		return mutationResult{}, err
	}
	res, err := parseMutation(body)
	if err != nil {
		return res, err
	}
	c.ClearCache()
	return res, nil
}

// AdminMenu lists every menu item, including uncategorized ones.
func (c *Client) AdminMenu(ctx context.Context) ([]types.MenuItem, error) {
	return adminList(ctx, c, "/menu", ParseMenu)
}

// AdminMenuItem looks one item up by id. A vanished id yields ErrNotFound.
func (c *Client) AdminMenuItem(ctx context.Context, id types.ItemID) (types.MenuItem, error) {
	items, err := c.AdminMenu(ctx)
	if err != nil {
		return types.MenuItem{}, err
	}
	for _, item := range items {
		if item.ID() == id {
			return item, nil
		}
	}
	return types.MenuItem{}, errors.Wrapf(ErrNotFound, "menu item %s", id)
}

// CreateMenuItem adds a dish and returns its new id.
func (c *Client) CreateMenuItem(ctx context.Context, in types.MenuItemInput) (types.ItemID, error) {
	if err := types.Validate(in); err != nil {
		return "", err
	}
	res, err := c.adminMutate(ctx, http.MethodPost, "/menu", in)
	if err != nil {
		return "", errors.Wrap(err, "create menu item")
	}
	return types.ItemID(res.ID), nil
}

// UpdateMenuItem replaces the dish with the given id.
func (c *Client) UpdateMenuItem(ctx context.Context, id types.ItemID, in types.MenuItemInput) error {
	if err := types.Validate(in); err != nil {
		return err
	}
	if _, err := c.adminMutate(ctx, http.MethodPut, "/menu/"+url.PathEscape(id.String()), in); err != nil {
		return errors.Wrapf(err, "update menu item %s", id)
	}
	return nil
}

// DeleteMenuItem removes the dish with the given id.
func (c *Client) DeleteMenuItem(ctx context.Context, id types.ItemID) error {
	if _, err := c.adminMutate(ctx, http.MethodDelete, "/menu/"+url.PathEscape(id.String()), nil); err != nil {
		return errors.Wrapf(err, "delete menu item %s", id)
	}
	return nil
}

// AdminSpecialOffers lists every offer, active or not.
func (c *Client) AdminSpecialOffers(ctx context.Context) ([]types.SpecialOffer, error) {
	return adminList(ctx, c, "/special-offers", ParseOffers)
}

// CreateSpecialOffer adds an offer after checking the required fields.
func (c *Client) CreateSpecialOffer(ctx context.Context, in types.SpecialOfferInput) (string, error) {
	if err := types.Validate(in); err != nil {
		return "", err
	}
	res, err := c.adminMutate(ctx, http.MethodPost, "/special-offers", in)
	if err != nil {
		return "", errors.Wrap(err, "create special offer")
	}
	return string(res.ID), nil
}

// UpdateSpecialOffer replaces the offer with the given id.
func (c *Client) UpdateSpecialOffer(ctx context.Context, id string, in types.SpecialOfferInput) error {
	if err := types.Validate(in); err != nil {
		return err
	}
	if _, err := c.adminMutate(ctx, http.MethodPut, "/special-offers/"+url.PathEscape(id), in); err != nil {
		return errors.Wrapf(err, "update special offer %s", id)
	}
	return nil
}

// DeleteSpecialOffer removes the offer with the given id.
func (c *Client) DeleteSpecialOffer(ctx context.Context, id string) error {
	if _, err := c.adminMutate(ctx, http.MethodDelete, "/special-offers/"+url.PathEscape(id), nil); err != nil {
		return errors.Wrapf(err, "delete special offer %s", id)
	}
	return nil
}

// AdminOrders lists all orders.
func (c *Client) AdminOrders(ctx context.Context) ([]types.Order, error) {
	return adminList(ctx, c, "/orders", ParseOrders)
}

// SetOrderStatus changes an order's status from the back office.
func (c *Client) SetOrderStatus(ctx context.Context, id string, status types.OrderStatus) error {
	payload := map[string]string{"status": string(status)}
	if _, err := c.adminMutate(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), payload); err != nil {
		return errors.Wrapf(err, "set status of order %s", id)
	}
	return nil
}

// AdminReservations lists table bookings.
func (c *Client) AdminReservations(ctx context.Context) ([]types.Reservation, error) {
	return adminList(ctx, c, "/reservations", ParseReservations)
}

// AdminContacts lists contact messages.
func (c *Client) AdminContacts(ctx context.Context) ([]types.ContactMessage, error) {
	return adminList(ctx, c, "/contacts", ParseContacts)
}

// AdminGallery lists every gallery image, including hidden ones.
func (c *Client) AdminGallery(ctx context.Context) ([]types.GalleryImage, error) {
	return adminList(ctx, c, "/gallery", ParseGallery)
}

// AddGalleryImage registers an image by URL.
func (c *Client) AddGalleryImage(ctx context.Context, in types.GalleryImageInput) (string, error) {
	if err := types.Validate(in); err != nil {
		return "", err
	}
	res, err := c.adminMutate(ctx, http.MethodPost, "/gallery", in)
	if err != nil {
		return "", errors.Wrap(err, "add gallery image")
	}
	return string(res.ID), nil
}

// ToggleGalleryImage flips the visibility of an image.
func (c *Client) ToggleGalleryImage(ctx context.Context, id string) error {
	if _, err := c.adminMutate(ctx, http.MethodPut, "/gallery/"+url.PathEscape(id)+"/toggle", nil); err != nil {
		return errors.Wrapf(err, "toggle gallery image %s", id)
	}
	return nil
}

// DeleteGalleryImage removes an image.
func (c *Client) DeleteGalleryImage(ctx context.Context, id string) error {
	if _, err := c.adminMutate(ctx, http.MethodDelete, "/gallery/"+url.PathEscape(id), nil); err != nil {
		return errors.Wrapf(err, "delete gallery image %s", id)
	}
	return nil
}
