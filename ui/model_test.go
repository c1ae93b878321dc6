package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/savorytui/api"
	"github.com/qyinm/savorytui/auth"
	"github.com/qyinm/savorytui/catalog"
	"github.com/qyinm/savorytui/prefs"
	"github.com/qyinm/savorytui/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	results map[catalog.ResourceKind]catalog.Result
}

func (s stubLoader) Load(_ context.Context, r catalog.Resource) catalog.Result {
	if res, ok := s.results[r.Kind]; ok {
		return res
	}
	return catalog.Result{Unavailable: true, Cause: errors.New("offline")}
}

// stubBackend implements only what the tests exercise; anything else
// panics through the nil embedded interface.
type stubBackend struct {
	Backend
	placed []types.OrderRequest
}

func (s *stubBackend) PlaceOrder(_ context.Context, req types.OrderRequest) (types.Order, error) {
	s.placed = append(s.placed, req)
	return types.NewOrder("91", req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.Items, req.TotalAmount, types.StatusPending, testNow()), nil
}

type memThemes struct {
	p prefs.Prefs
}

func (t *memThemes) Load() (prefs.Prefs, error) { return t.p, nil }

func (t *memThemes) Update(fn func(*prefs.Prefs)) error {
	fn(&t.p)
	return nil
}

func newTestModel(t *testing.T) (Model, *catalog.Controller, *stubBackend) {
	t.Helper()
	loader := stubLoader{results: map[catalog.ResourceKind]catalog.Result{
		catalog.ResourceMenu: {Items: catalog.SampleMenu()},
	}}
	ctrl := catalog.New(catalog.DefaultConfig(), loader)
	backend := &stubBackend{}
	m := NewModel(Deps{
		Controller: ctrl,
		Loader:     loader,
		Backend:    backend,
		Gate:       auth.NewGate("1234", nil, nil),
		Prefs:      &memThemes{},
		Clipboard:  func(string) error { return nil },
		Now:        testNow,
	})
	ctrl.Load(context.Background())
	m.drainEvents()
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ctrl, backend
}

func testNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

// findResource runs cmd and returns the catalog fetch it carries.
func findResource(t *testing.T, cmd tea.Cmd) resourceMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case resourceMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if res, ok := c().(resourceMsg); ok {
				return res
			}
		}
	}
	t.Fatal("command carried no catalog fetch")
	return resourceMsg{}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialLoadFillsFirstPage(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	assert.Len(t, m.list.Items(), 6)
	assert.Equal(t, 2, ctrl.TotalPages())
	assert.Equal(t, 2, m.pager.TotalPages)
	assert.Equal(t, 0, m.pager.Page)
}

func TestPageKeysMoveThroughPages(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = update(t, m, runes("l"))
	assert.Equal(t, 2, ctrl.Page())
	assert.Len(t, m.list.Items(), 4)
	assert.Equal(t, 1, m.pager.Page)

	// past the last page nothing changes
	m = update(t, m, runes("l"))
	assert.Equal(t, 2, ctrl.Page())

	m = update(t, m, runes("h"))
	assert.Equal(t, 1, ctrl.Page())
	assert.Len(t, m.list.Items(), 6)
}

func TestSearchDebounceIgnoresStaleTicks(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = update(t, m, runes("/"))
	require.True(t, m.searching)
	m = update(t, m, runes("s"))
	m = update(t, m, runes("a"))
	require.Equal(t, "sa", m.search.Value())
	require.Equal(t, 2, m.debounceID)

	m = update(t, m, searchDebounceMsg{id: 1, query: "s"})
	assert.Equal(t, catalog.Browse, ctrl.Mode().Kind)

	m = update(t, m, searchDebounceMsg{id: 2, query: "sa"})
	assert.Equal(t, catalog.Searched, ctrl.Mode().Kind)
	assert.Equal(t, "sa", ctrl.Mode().Term)
	for _, it := range m.list.Items() {
		assert.True(t, it.(types.MenuItem).Matches("sa"))
	}
}

func TestEscapeClearsSearch(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m = update(t, m, searchDebounceMsg{id: 0, query: "salmon"})
	require.Equal(t, catalog.Searched, ctrl.Mode().Kind)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, catalog.Browse, ctrl.Mode().Kind)
	assert.Len(t, m.list.Items(), 6)
}

func TestAdminKeywordOpensLogin(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m.search.SetValue("admin")

	m = update(t, m, searchDebounceMsg{id: 0, query: "  Admin "})

	assert.Equal(t, catalog.Browse, ctrl.Mode().Kind)
	assert.Equal(t, screenForm, m.screen)
	assert.Equal(t, formLogin, m.form.kind)
	assert.Empty(t, m.search.Value())
}

func TestLoginWithWrongPasswordStaysOnForm(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, searchDebounceMsg{id: 0, query: "admin"})
	require.Equal(t, formLogin, m.form.kind)

	m.form.fields[0].input.SetValue("nope")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, screenForm, m.screen)
	assert.Equal(t, "Incorrect password", m.form.err)

	m.form.fields[0].input.SetValue("1234")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, screenAdmin, m.screen)
	assert.True(t, m.gate.Authenticated())
	assert.True(t, m.admin.loading)
}

func TestStaleClearStatusKeepsNewerMessage(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.setStatus("first", false)
	m.setStatus("second", true)

	m = update(t, m, clearStatusMsg{id: 1})
	assert.Equal(t, "second", m.statusMsg)

	m = update(t, m, clearStatusMsg{id: 2})
	assert.Empty(t, m.statusMsg)
	assert.False(t, m.statusErr)
}

func TestCategoryFallbackShowsNotice(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	next, cmd := m.Update(runes("4"))
	m = next.(Model)
	require.Equal(t, catalog.CategoryFiltered, ctrl.Mode().Kind)
	require.Equal(t, 1, m.pending)
	require.Len(t, m.list.Items(), 1)

	m = update(t, m, findResource(t, cmd))

	assert.Equal(t, 0, m.pending)
	assert.Contains(t, m.statusMsg, "Desserts")
	assert.True(t, m.statusErr)
	assert.Len(t, m.list.Items(), 1)
}

func TestStaleCatalogResultIgnored(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	_, first := m.Update(runes("s"))
	stale := findResource(t, first)
	next, _ := m.Update(runes("0"))
	m = next.(Model)

	m = update(t, m, stale)
	assert.Equal(t, catalog.Browse, ctrl.Mode().Kind)
	assert.Empty(t, m.statusMsg)
}

func TestOrderFormValidatesBeforeSending(t *testing.T) {
	m, _, backend := newTestModel(t)

	m = update(t, m, runes("o"))
	require.Equal(t, screenForm, m.screen)
	require.Equal(t, formOrder, m.form.kind)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.form.err, "is required")
	assert.Empty(t, backend.placed)
}

func TestOrderPlacedReturnsToMenu(t *testing.T) {
	m, _, backend := newTestModel(t)
	m = update(t, m, runes("o"))
	item := m.form.item

	for i, v := range []string{"Ann", "ann@example.com", "555-0100", "2"} {
		m.form.fields[i].input.SetValue(v)
	}
	assert.Contains(t, m.form.footer(), types.FormatPrice(item.Price()*2))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(Model)
	require.NotNil(t, cmd)
	require.True(t, m.busy)

	m = update(t, m, cmd())
	require.Len(t, backend.placed, 1)
	assert.Equal(t, 2, backend.placed[0].Items[0].Quantity)
	assert.Equal(t, screenMenu, m.screen)
	assert.Equal(t, "91", m.lastOrder)
	assert.Contains(t, m.statusMsg, "#91")
	assert.False(t, m.busy)
}

func TestStaleTrackingResultIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.trackID = 2

	m = update(t, m, trackResultMsg{requestID: 1, email: "a@b.c"})
	assert.Equal(t, screenMenu, m.screen)

	m = update(t, m, trackResultMsg{requestID: 2, email: "a@b.c"})
	assert.Equal(t, screenTracking, m.screen)
	assert.Contains(t, m.trackingContent(), "No orders found")
}

func TestEditOfVanishedItemReportsNotFound(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.screen = screenAdmin

	m = update(t, m, adminLookupMsg{err: api.ErrNotFound})
	assert.Equal(t, screenAdmin, m.screen)
	assert.Equal(t, "Menu item not found", m.statusMsg)
}

func TestThemeTogglePersists(t *testing.T) {
	m, _, _ := newTestModel(t)
	themes := m.themes.(*memThemes)
	start := m.dark

	m = update(t, m, runes("d"))
	assert.Equal(t, !start, m.dark)
	assert.Equal(t, !start, themes.p.DarkMode)
}

func TestAdminDeleteNeedsConfirmation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.screen = screenAdmin
	m.admin.tab = tabMenu
	m.admin.apply(adminDataMsg{tab: tabMenu, menu: catalog.SampleMenu()})

	next, cmd := m.Update(runes("x"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Contains(t, m.statusMsg, "Press x again")
	assert.NotEmpty(t, m.admin.confirm)

	next, _ = m.Update(runes("x"))
	m = next.(Model)
	assert.Empty(t, m.admin.confirm)
}

func TestAdminRowActionsAfterEmptyTable(t *testing.T) {
	m, _, _ := newTestModel(t)
	require.NoError(t, m.gate.Login("1234"))
	cmd := m.enterAdmin()
	require.NotNil(t, cmd)
	require.Equal(t, screenAdmin, m.screen)

	// nothing to act on yet
	_, cmd = m.Update(runes("s"))
	assert.Nil(t, cmd)

	order := types.NewOrder("91", "Ann", "ann@example.com", "555-0100", nil, 8.99, types.StatusPending, testNow())
	m = update(t, m, adminDataMsg{requestID: m.admin.requestID, tab: tabOrders, orders: []types.Order{order}})
	require.Equal(t, 0, m.admin.table.Cursor())

	_, cmd = m.Update(runes("s"))
	assert.NotNil(t, cmd)
}
