package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/qyinm/savorytui/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader answers each resource kind with a canned result.
type fakeLoader struct {
	results map[ResourceKind]Result
	calls   []Resource
}

func (f *fakeLoader) Load(_ context.Context, r Resource) Result {
	f.calls = append(f.calls, r)
	if res, ok := f.results[r.Kind]; ok {
		return res
	}
	return Result{Unavailable: true, Cause: errors.New("no fixture")}
}

func newLoaded(t *testing.T, results map[ResourceKind]Result) (*Controller, *fakeLoader, *[]Event) {
	t.Helper()
	if results == nil {
		results = map[ResourceKind]Result{}
	}
	if _, ok := results[ResourceMenu]; !ok {
		results[ResourceMenu] = Result{Items: SampleMenu()}
	}
	loader := &fakeLoader{results: results}
	c := New(DefaultConfig(), loader)
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })
	c.Load(context.Background())
	return c, loader, &events
}

func ids(items []types.MenuItem) []types.ItemID {
	out := make([]types.ItemID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID())
	}
	return out
}

func TestScenarioTwoPages(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	require.Len(t, c.All(), 10)
	assert.Equal(t, 2, c.TotalPages())
	assert.True(t, c.ControlsVisible())
	assert.Len(t, c.CurrentPageItems(), 6)

	require.True(t, c.ChangePage(2))
	assert.Len(t, c.CurrentPageItems(), 4)
}

func TestChangePageOutOfRangeIsIgnored(t *testing.T) {
	c, _, events := newLoaded(t, nil)
	require.True(t, c.ChangePage(2))
	before := c.CurrentPageItems()
	n := len(*events)

	for _, page := range []int{-1, 0, 3, 100} {
		assert.False(t, c.ChangePage(page), "page %d", page)
		assert.Equal(t, 2, c.Page())
		assert.Equal(t, before, c.CurrentPageItems())
	}
	assert.Len(t, *events, n, "ignored page changes must not emit")
}

func TestPageLengthLaw(t *testing.T) {
	for size := 1; size <= 12; size++ {
		loader := &fakeLoader{results: map[ResourceKind]Result{ResourceMenu: {Items: SampleMenu()}}}
		c := New(Config{PageSize: size}, loader)
		c.Load(context.Background())

		derived := len(c.Derived())
		for page := 1; page <= c.TotalPages(); page++ {
			require.True(t, c.ChangePage(page))
			want := min(size, derived-(page-1)*size)
			assert.Len(t, c.CurrentPageItems(), want, "size %d page %d", size, page)
		}
	}
}

func TestSelectAllIsIdempotent(t *testing.T) {
	c, loader, _ := newLoaded(t, nil)

	c.SelectCategory(context.Background(), types.CategoryAll)
	once := c.Derived()
	c.SelectCategory(context.Background(), types.CategoryAll)

	assert.Equal(t, once, c.Derived())
	assert.Equal(t, c.All(), once)
	assert.Equal(t, Browse, c.Mode().Kind)
	assert.Len(t, loader.calls, 1, "all must not fetch")
}

func TestSelectCategoryUsesServerOrderWithinKnownItems(t *testing.T) {
	server := []types.MenuItem{
		types.NewMenuItem("9", "Beef Burger", "", 14.99, "", types.MainCourse),
		types.NewMenuItem("99", "Unknown Dish", "", 5, "", types.MainCourse),
		types.NewMenuItem("1", "Grilled Salmon", "", 24.99, "", types.MainCourse),
	}
	c, _, _ := newLoaded(t, map[ResourceKind]Result{
		ResourceMenuByCategory: {Items: server},
	})

	c.SelectCategory(context.Background(), types.MainCourse)

	assert.Equal(t, Mode{Kind: CategoryFiltered, Category: types.MainCourse}, c.Mode())
	assert.Equal(t, []types.ItemID{"9", "1"}, ids(c.Derived()))
	assert.Equal(t, 1, c.Page())
}

func TestSelectCategoryFailureKeepsLocalFilter(t *testing.T) {
	c, _, events := newLoaded(t, nil)

	c.SelectCategory(context.Background(), types.Desserts)

	assert.Equal(t, []types.ItemID{"7"}, ids(c.Derived()))
	last := (*events)[len(*events)-1]
	assert.Equal(t, EventNotice, last.Kind)
	assert.Contains(t, last.Message, "Desserts")
}

func TestScenarioCaseInsensitiveSearch(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	assert.Equal(t, SearchApplied, c.Search("salmon"))
	lower := c.Derived()
	require.Len(t, lower, 1)
	assert.Equal(t, "Grilled Salmon", lower[0].Name())
	assert.InDelta(t, 24.99, lower[0].Price(), 1e-9)
	assert.Equal(t, OverlaySearchResults, c.Overlay())

	c.Search("SALMON")
	assert.Equal(t, lower, c.Derived())
}

func TestSearchRoundTripRestoresPreviousMode(t *testing.T) {
	server := []types.MenuItem{
		types.NewMenuItem("10", "Margherita Pizza", "", 16.99, "", types.MainCourse),
		types.NewMenuItem("2", "Filet Mignon", "", 32.99, "", types.MainCourse),
	}
	c, _, _ := newLoaded(t, map[ResourceKind]Result{
		ResourceMenuByCategory: {Items: server},
	})

	c.SelectCategory(context.Background(), types.MainCourse)
	mode, derived := c.Mode(), c.Derived()

	c.Search("cake")
	c.Search("chocolate cake")
	assert.Equal(t, Searched, c.Mode().Kind)

	assert.Equal(t, SearchCleared, c.Search("   "))
	assert.Equal(t, mode, c.Mode())
	assert.Equal(t, derived, c.Derived())
	assert.Equal(t, OverlayNone, c.Overlay())
}

func TestSearchFromBrowseRoundTrip(t *testing.T) {
	c, _, _ := newLoaded(t, nil)
	before := c.Derived()

	c.Search("pizza")
	c.Search("")

	assert.Equal(t, Mode{Kind: Browse}, c.Mode())
	assert.Equal(t, before, c.Derived())
}

func TestSearchWithoutMatches(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	c.Search("sushi")
	assert.Empty(t, c.Derived())
	assert.Equal(t, 1, c.TotalPages())
	assert.False(t, c.ControlsVisible())
	assert.Empty(t, c.CurrentPageItems())
}

func TestScenarioAdminKeyword(t *testing.T) {
	c, _, events := newLoaded(t, nil)
	require.True(t, c.ChangePage(2))
	mode, derived, n := c.Mode(), c.Derived(), len(*events)

	assert.Equal(t, AdminRequested, c.Search(" ADMIN "))

	assert.Equal(t, mode, c.Mode())
	assert.Equal(t, derived, c.Derived())
	assert.Equal(t, 2, c.Page())
	require.Len(t, *events, n+1)
	assert.Equal(t, EventAdminRequested, (*events)[n].Kind)
}

func TestScenarioMenuUnavailableUsesSample(t *testing.T) {
	loader := &fakeLoader{results: map[ResourceKind]Result{
		ResourceMenu: {Unavailable: true, Cause: errors.New("dial tcp: refused")},
	}}
	c := New(DefaultConfig(), loader)
	var notices []string
	c.Subscribe(func(ev Event) {
		if ev.Kind == EventNotice {
			notices = append(notices, ev.Message)
		}
	})

	c.Load(context.Background())

	assert.Equal(t, ids(SampleMenu()), ids(c.All()))
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, Browse, c.Mode().Kind)
	assert.Len(t, notices, 1)
}

func TestReloadFailureKeepsLoadedMenu(t *testing.T) {
	menu := SampleMenu()[:3]
	c, loader, _ := newLoaded(t, map[ResourceKind]Result{ResourceMenu: {Items: menu}})

	loader.results[ResourceMenu] = Result{Unavailable: true}
	c.Reload(context.Background())

	assert.Equal(t, ids(menu), ids(c.All()))
}

func TestScenarioOffersFallbackToCheapItems(t *testing.T) {
	c, _, _ := newLoaded(t, map[ResourceKind]Result{
		ResourceSpecialOffers: {Offers: []types.SpecialOffer{}},
	})

	c.ShowOffers(context.Background())

	var want []types.MenuItem
	for _, item := range c.All() {
		if item.Price() < 20 {
			want = append(want, item)
		}
	}
	assert.Equal(t, OfferListing, c.Mode().Kind)
	assert.Equal(t, OverlayOffers, c.Overlay())
	assert.Equal(t, want, c.Derived())

	offers := c.CurrentPageOffers()
	require.Len(t, offers, len(c.CurrentPageItems()))
	assert.InDelta(t, offers[0].DiscountPrice()*1.2, offers[0].OriginalPrice(), 1e-9)
}

func TestOffersFromBackend(t *testing.T) {
	c, _, _ := newLoaded(t, map[ResourceKind]Result{
		ResourceSpecialOffers: {Offers: []types.SpecialOffer{
			types.NewSpecialOffer("1", "3", "Mushroom Risotto", "", "", 18.99, 14.99, "Tuesday deal", true),
			types.NewSpecialOffer("2", "5", "Seafood Platter", "", "", 35.99, 29.99, "", false),
		}},
	})

	c.ShowOffers(context.Background())

	derived := c.Derived()
	require.Len(t, derived, 1)
	assert.Equal(t, types.ItemID("3"), derived[0].ID())
	assert.InDelta(t, 14.99, derived[0].Price(), 1e-9)
	assert.Equal(t, types.MainCourse, derived[0].Category())
	assert.NotEmpty(t, derived[0].Image())
}

func TestExitOverlayReturnsToBrowseNotCategory(t *testing.T) {
	c, _, _ := newLoaded(t, nil)
	c.SelectCategory(context.Background(), types.Desserts)
	c.ShowGallery(context.Background())

	assert.Equal(t, OverlayGallery, c.Overlay())
	assert.NotEmpty(t, c.Images())

	c.ExitOverlay()
	assert.Equal(t, Mode{Kind: Browse}, c.Mode())
	assert.Equal(t, OverlayNone, c.Overlay())
	assert.Equal(t, c.All(), c.Derived())
	assert.Empty(t, c.Images())
}

func TestEnteringModeTearsDownOtherOverlays(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	c.ShowGallery(context.Background())
	c.ShowOffers(context.Background())
	assert.Equal(t, OverlayOffers, c.Overlay())
	assert.Empty(t, c.Images())

	c.Search("pasta")
	assert.Equal(t, OverlaySearchResults, c.Overlay())
	assert.Nil(t, c.CurrentPageOffers())

	c.Search("")
	assert.Equal(t, Mode{Kind: Browse}, c.Mode())
	assert.Equal(t, c.All(), c.Derived())
}

func TestGalleryFallback(t *testing.T) {
	c, _, _ := newLoaded(t, nil)
	c.ShowGallery(context.Background())

	images := c.Images()
	assert.Len(t, images, len(restaurantPhotos)+len(c.All()))
}

func TestStaleCategoryResultIsIgnored(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	first, ok := c.BeginCategory(types.Desserts)
	require.True(t, ok)
	second, ok := c.BeginCategory(types.Appetizers)
	require.True(t, ok)

	assert.False(t, c.ApplyCategory(first, Result{Items: SampleMenu()}))
	assert.Equal(t, []types.ItemID{"8"}, ids(c.Derived()))

	assert.True(t, c.ApplyCategory(second, Result{Items: SampleMenu()[7:8]}))
}

func TestResultForInactiveModeIsIgnored(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	ticket, ok := c.BeginCategory(types.MainCourse)
	require.True(t, ok)
	c.Search("cake")

	assert.False(t, c.ApplyCategory(ticket, Result{Items: SampleMenu()}))
	assert.Equal(t, Searched, c.Mode().Kind)
	assert.Equal(t, []types.ItemID{"7"}, ids(c.Derived()))

	offers := c.BeginOffers()
	c.ExitOverlay()
	assert.False(t, c.ApplyOffers(offers, Result{}))
	assert.Equal(t, c.All(), c.Derived())
}

func TestSetDerivedResetsPage(t *testing.T) {
	c, _, _ := newLoaded(t, nil)
	require.True(t, c.ChangePage(2))

	c.Search("e")
	assert.Equal(t, 1, c.Page())
}

func TestUnsubscribe(t *testing.T) {
	c := New(DefaultConfig(), &fakeLoader{})
	var count int
	stop := c.Subscribe(func(Event) { count++ })
	c.ExitOverlay()
	stop()
	c.ExitOverlay()
	assert.Equal(t, 1, count)
}

func TestSuggest(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	got := c.Suggest("slmn", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Grilled Salmon", got[0])
	assert.Nil(t, c.Suggest("", 3))
}

func TestLoadFinishingUnderAnotherViewKeepsThatView(t *testing.T) {
	c, _, _ := newLoaded(t, nil)

	load := c.BeginLoad()
	category, ok := c.BeginCategory(types.Desserts)
	require.True(t, ok)

	menu := append(SampleMenu(), types.NewMenuItem("11", "Tiramisu", "", 7.5, "", types.Desserts))
	require.True(t, c.ApplyLoad(load, Result{Items: menu}))
	assert.Equal(t, Mode{Kind: CategoryFiltered, Category: types.Desserts}, c.Mode())
	assert.Equal(t, []types.ItemID{"7", "11"}, ids(c.Derived()))
	assert.Len(t, c.All(), len(menu))

	assert.True(t, c.ApplyCategory(category, Result{Items: menu[len(menu)-1:]}))
	assert.Equal(t, []types.ItemID{"11"}, ids(c.Derived()))

	load = c.BeginLoad()
	c.Search("tiramisu")
	require.True(t, c.ApplyLoad(load, Result{Items: SampleMenu()}))
	assert.Equal(t, Mode{Kind: Searched, Term: "tiramisu"}, c.Mode())
	assert.Empty(t, c.Derived())

	c.Search("")
	assert.Equal(t, Mode{Kind: CategoryFiltered, Category: types.Desserts}, c.Mode())
	assert.Equal(t, []types.ItemID{"7"}, ids(c.Derived()))
}

func TestLoadUnderOffersKeepsOffers(t *testing.T) {
	offer := types.NewSpecialOffer("3", "7", "", "", "", 11.99, 9.59, "Weekend deal", true)
	c, _, _ := newLoaded(t, map[ResourceKind]Result{
		ResourceSpecialOffers: {Offers: []types.SpecialOffer{offer}},
	})

	load := c.BeginLoad()
	c.ShowOffers(context.Background())
	require.True(t, c.ApplyLoad(load, Result{Items: SampleMenu()}))

	assert.Equal(t, OfferListing, c.Mode().Kind)
	assert.Equal(t, OverlayOffers, c.Overlay())
	require.Len(t, c.CurrentPageOffers(), 1)
	assert.Equal(t, []types.ItemID{"7"}, ids(c.Derived()))
}

func TestUnsubscribeDuringEmit(t *testing.T) {
	c := New(DefaultConfig(), &fakeLoader{})
	var calls []string
	var stopA func()
	stopA = c.Subscribe(func(Event) {
		calls = append(calls, "a")
		stopA()
	})
	c.Subscribe(func(Event) { calls = append(calls, "b") })
	c.Subscribe(func(Event) { calls = append(calls, "c") })

	c.ExitOverlay()
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	calls = nil
	c.ExitOverlay()
	assert.Equal(t, []string{"b", "c"}, calls)
}
