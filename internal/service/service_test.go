package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/altazaj/internal/config"
	"github.com/Skotchmaster/altazaj/internal/db"
	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/repo"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

type recorder struct {
	mu     sync.Mutex
	orders []transport.OrderEvent
	menu   []transport.MenuEvent
	live   []transport.OrderEvent
}

func (r *recorder) PublishOrderEvent(_ context.Context, ev transport.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, ev)
	return nil
}

func (r *recorder) PublishMenuEvent(_ context.Context, ev transport.MenuEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menu = append(r.menu, ev)
	return nil
}

func (r *recorder) Notify(ev transport.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live = append(r.live, ev)
}

type failingIndex struct{}

func (failingIndex) Index(context.Context, models.MenuItem) error { return errors.New("index down") }
func (failingIndex) Remove(context.Context, uuid.UUID) error      { return errors.New("index down") }
func (failingIndex) Search(context.Context, string, int) ([]models.MenuItem, error) {
	return nil, errors.New("index down")
}

type testEnv struct {
	Repo   *repo.GormRepo
	Menu   *MenuService
	Orders *OrderService
	Events *recorder
}

func newTestEnv(t *testing.T, pricing string) *testEnv {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	ev := &recorder{}
	return &testEnv{
		Repo:   r,
		Events: ev,
		Menu:   &MenuService{Store: r, Events: ev},
		Orders: &OrderService{Store: r, Events: ev, Notifier: ev, Pricing: pricing},
	}
}

func menuReq(name string, price float64, category string) transport.MenuItemRequest {
	return transport.MenuItemRequest{Name: name, Price: transport.Float(price), Category: category}
}

func TestMenuService_CreateValidation(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()

	item, err := env.Menu.Create(ctx, menuReq("Burger", 50, "Sandwiches"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)

	tests := []struct {
		name string
		req  transport.MenuItemRequest
	}{
		{name: "missing price", req: transport.MenuItemRequest{Name: "Tea", Category: "Drinks"}},
		{name: "missing name", req: menuReq(" ", 5, "Drinks")},
		{name: "missing category", req: menuReq("Tea", 5, "")},
		{name: "negative price", req: menuReq("Tea", -1, "Drinks")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Menu.Create(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	require.Len(t, env.Events.menu, 1)
	assert.Equal(t, transport.EventMenuItemCreated, env.Events.menu[0].Type)
}

func TestMenuService_ZeroPriceIsAccepted(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)

	item, err := env.Menu.Create(context.Background(), menuReq("Water", 0, "Drinks"))
	require.NoError(t, err)
	assert.Zero(t, item.Price)
}

func TestMenuService_ReplaceAndDeleteUnknown(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()

	_, err := env.Menu.Replace(ctx, uuid.New(), menuReq("Tea", 5, "Drinks"))
	assert.ErrorIs(t, err, ErrNotFound)

	item, err := env.Menu.Create(ctx, menuReq("Tea", 5, "Drinks"))
	require.NoError(t, err)

	require.NoError(t, env.Menu.Delete(ctx, item.ID))
	err = env.Menu.Delete(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, MsgMenuItemNotFound, err.Error())
}

func TestMenuService_BulkIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()

	_, err := env.Menu.CreateBulk(ctx, []transport.MenuItemRequest{
		menuReq("Pizza", 100, "Mains"),
		{Name: "Broken", Category: "Mains"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "item 1")

	items, err := env.Menu.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = env.Menu.CreateBulk(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)

	created, err := env.Menu.CreateBulk(ctx, []transport.MenuItemRequest{
		menuReq("Pizza", 100, "Mains"),
		menuReq("Cola", 10, "Drinks"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	items, err = env.Menu.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestMenuService_SearchFallsBackToStore(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	env.Menu.Index = failingIndex{}
	ctx := context.Background()

	_, err := env.Menu.Create(ctx, menuReq("Falafel Wrap", 25, "Sandwiches"))
	require.NoError(t, err)

	found, err := env.Menu.Search(ctx, "falafel", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Falafel Wrap", found[0].Name)

	_, err = env.Menu.Search(ctx, "  ", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	env.Orders.Now = func() time.Time { return fixed }

	order, err := env.Orders.Create(ctx, transport.CreateOrderRequest{
		Name:       "Ali",
		Phone:      "0100000000",
		Items:      []transport.OrderItemRequest{{Name: "Pizza", Quantity: 2}},
		TotalPrice: 100,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)

	got, err := env.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.EqualValues(t, 100, got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Pizza", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, fixed.Equal(got.CreatedAt))

	require.Len(t, env.Events.orders, 1)
	assert.Equal(t, transport.EventOrderCreated, env.Events.orders[0].Type)
	require.Len(t, env.Events.live, 1)
}

func TestOrderService_CreateValidation(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()
	items := []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}}

	tests := []struct {
		name string
		req  transport.CreateOrderRequest
	}{
		{name: "missing name", req: transport.CreateOrderRequest{Phone: "1", Items: items}},
		{name: "missing phone", req: transport.CreateOrderRequest{Name: "Ali", Items: items}},
		{name: "no items", req: transport.CreateOrderRequest{Name: "Ali", Phone: "1"}},
		{name: "zero quantity", req: transport.CreateOrderRequest{Name: "Ali", Phone: "1", Items: []transport.OrderItemRequest{{Name: "Burger"}}}},
		{name: "blank item name", req: transport.CreateOrderRequest{Name: "Ali", Phone: "1", Items: []transport.OrderItemRequest{{Name: " ", Quantity: 1}}}},
		{name: "negative total", req: transport.CreateOrderRequest{Name: "Ali", Phone: "1", Items: items, TotalPrice: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Orders.Create(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestOrderService_ServerPricing(t *testing.T) {
	env := newTestEnv(t, config.PricingServer)
	ctx := context.Background()

	_, err := env.Menu.Create(ctx, menuReq("Burger", 45.5, "Sandwiches"))
	require.NoError(t, err)
	_, err = env.Menu.Create(ctx, menuReq("Cola", 10, "Drinks"))
	require.NoError(t, err)

	order, err := env.Orders.Create(ctx, transport.CreateOrderRequest{
		Name:  "Ali",
		Phone: "0100000000",
		Items: []transport.OrderItemRequest{
			{Name: "Burger", Quantity: 2},
			{Name: "Cola", Quantity: 1},
		},
		TotalPrice: 1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 101, order.TotalPrice, 0.0001)

	_, err = env.Orders.Create(ctx, transport.CreateOrderRequest{
		Name:  "Ali",
		Phone: "0100000000",
		Items: []transport.OrderItemRequest{{Name: "Shawarma", Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderService_ClientPricingKeepsSubmittedTotal(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()

	_, err := env.Menu.Create(ctx, menuReq("Burger", 50, "Sandwiches"))
	require.NoError(t, err)

	order, err := env.Orders.Create(ctx, transport.CreateOrderRequest{
		Name:       "Ali",
		Phone:      "0100000000",
		Items:      []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}},
		TotalPrice: 40,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 40, order.TotalPrice)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()

	order, err := env.Orders.Create(ctx, transport.CreateOrderRequest{
		Name:       "Ali",
		Phone:      "0100000000",
		Items:      []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}},
		TotalPrice: 50,
	})
	require.NoError(t, err)

	_, err = env.Orders.UpdateStatus(ctx, order.ID, "Shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, MsgInvalidStatus, err.Error())

	got, err := env.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	_, err = env.Orders.UpdateStatus(ctx, order.ID, "Delivered")
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := env.Orders.UpdateStatus(ctx, order.ID, "Preparing")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, updated.Status)

	same, err := env.Orders.UpdateStatus(ctx, order.ID, "Preparing")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, same.Status)

	updated, err = env.Orders.UpdateStatus(ctx, order.ID, "Delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	_, err = env.Orders.UpdateStatus(ctx, order.ID, "Cancelled")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.Orders.UpdateStatus(ctx, uuid.New(), "Preparing")
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := env.Orders.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusPreparing, history[0].ToStatus)
	assert.Equal(t, domain.StatusDelivered, history[1].ToStatus)

	require.Len(t, env.Events.orders, 3)
	assert.Equal(t, transport.EventOrderStatusChanged, env.Events.orders[2].Type)
}

func TestOrderService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t, config.PricingClient)
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env.Orders.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, name := range []string{"a", "b", "c"} {
		_, err := env.Orders.Create(ctx, transport.CreateOrderRequest{
			Name:  name,
			Phone: "1",
			Items: []transport.OrderItemRequest{{Name: "Tea", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	orders, err := env.Orders.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.True(t, orders[i-1].CreatedAt.After(orders[i].CreatedAt))
	}
	assert.Equal(t, "c", orders[0].Name)
}

func TestQuote(t *testing.T) {
	items := []models.OrderItem{{Name: "A", Quantity: 2}, {Name: "B", Quantity: 3}, {Name: "C", Quantity: 1}}

	total, missing := Quote(items, map[string]float64{"A": 1.1, "B": 2})
	assert.InDelta(t, 8.2, total, 0.0001)
	assert.Equal(t, "C", missing)

	total, missing = Quote(items[:2], map[string]float64{"A": 1.1, "B": 2})
	assert.InDelta(t, 8.2, total, 0.0001)
	assert.Empty(t, missing)
}
