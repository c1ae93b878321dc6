package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/qyinm/savorytui/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource returns canned data or err for every call.
type mockSource struct {
	menu     []types.MenuItem
	offers   []types.SpecialOffer
	gallery  []types.GalleryImage
	orders   []types.Order
	err      error
	category types.Category
}

func (m *mockSource) GetMenu(context.Context) ([]types.MenuItem, error) {
	return m.menu, m.err
}

func (m *mockSource) GetMenuByCategory(_ context.Context, c types.Category) ([]types.MenuItem, error) {
	m.category = c
	return m.menu, m.err
}

func (m *mockSource) GetSpecialOffers(context.Context) ([]types.SpecialOffer, error) {
	return m.offers, m.err
}

func (m *mockSource) GetGallery(context.Context) ([]types.GalleryImage, error) {
	return m.gallery, m.err
}

func (m *mockSource) GetOrders(context.Context) ([]types.Order, error) {
	return m.orders, m.err
}

func TestGatewayLoad(t *testing.T) {
	src := &mockSource{
		menu:    SampleMenu(),
		gallery: []types.GalleryImage{types.NewGalleryImage("1", "a.jpg", "", true)},
	}
	gw := NewGateway(src, nil)

	res := gw.Load(context.Background(), Resource{Kind: ResourceMenu})
	assert.False(t, res.Unavailable)
	assert.Len(t, res.Items, 10)

	res = gw.Load(context.Background(), Resource{Kind: ResourceMenuByCategory, Category: types.Desserts})
	assert.False(t, res.Unavailable)
	assert.Equal(t, types.Desserts, src.category)

	res = gw.Load(context.Background(), Resource{Kind: ResourceGallery})
	assert.Len(t, res.Images, 1)
}

func TestGatewayConvertsErrorsToUnavailable(t *testing.T) {
	cause := errors.New("connection reset")
	gw := NewGateway(&mockSource{err: cause}, nil)

	for _, kind := range []ResourceKind{ResourceMenu, ResourceMenuByCategory, ResourceSpecialOffers, ResourceGallery, ResourceAdminOrders} {
		res := gw.Load(context.Background(), Resource{Kind: kind})
		require.True(t, res.Unavailable, kind.String())
		assert.ErrorIs(t, res.Cause, cause)
	}

	res := gw.Load(context.Background(), Resource{Kind: ResourceKind(42)})
	assert.True(t, res.Unavailable)
}

func TestResourceKeyGroupsCategories(t *testing.T) {
	a := Resource{Kind: ResourceMenuByCategory, Category: types.Desserts}
	b := Resource{Kind: ResourceMenuByCategory, Category: types.Beverages}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Resource{Kind: ResourceMenu}.Key())
	assert.Equal(t, "menu-by-category/desserts", a.String())
}
