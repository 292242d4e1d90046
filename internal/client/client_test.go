package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/testutil"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

func TestClient_MenuLifecycle(t *testing.T) {
	api := testutil.NewAPI(t, nil)
	c := New(api.URL())
	ctx := context.Background()

	item, err := c.CreateMenuItem(ctx, transport.MenuItemRequest{Name: "Tea", Price: transport.Float(5), Category: "Drinks"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, item.ID)

	_, err = c.CreateMenuItem(ctx, transport.MenuItemRequest{Name: "Soup", Category: "Starters"})
	require.ErrorIs(t, err, ErrValidation)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "price is required", apiErr.Message)

	updated, err := c.UpdateMenuItem(ctx, item.ID, transport.MenuItemRequest{Name: "Green Tea", Price: transport.Float(6), Category: "Drinks"})
	require.NoError(t, err)
	require.Equal(t, "Green Tea", updated.Name)

	bulk, err := c.CreateMenuItems(ctx, []transport.MenuItemRequest{
		{Name: "Cake", Price: transport.Float(10), Category: "Desserts"},
		{Name: "Pie", Price: transport.Float(9), Category: "Desserts"},
	})
	require.NoError(t, err)
	require.Len(t, bulk, 2)

	menu, err := c.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 3)

	found, err := c.SearchMenu(ctx, "cake", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, c.DeleteMenuItem(ctx, item.ID))
	require.ErrorIs(t, c.DeleteMenuItem(ctx, item.ID), ErrNotFound)
}

func TestClient_OrderLifecycle(t *testing.T) {
	api := testutil.NewAPI(t, nil)
	c := New(api.URL())
	ctx := context.Background()

	order, err := c.CreateOrder(ctx, transport.CreateOrderRequest{
		Name:       "Ali",
		Phone:      "0100000000",
		Items:      []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}},
		TotalPrice: 50,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, order.Status)

	got, err := c.Order(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	_, err = c.Order(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)

	moved, err := c.UpdateOrderStatus(ctx, order.ID, domain.StatusPreparing)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPreparing, moved.Status)

	_, err = c.UpdateOrderStatus(ctx, order.ID, domain.StatusPending)
	require.ErrorIs(t, err, ErrConflict)

	_, err = c.UpdateOrderStatus(ctx, order.ID, domain.Status("Shipped"))
	require.ErrorIs(t, err, ErrValidation)

	history, err := c.OrderHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	orders, err := c.Orders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestClient_LoginSetsToken(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	api := testutil.NewAPI(t, &auth.Service{Secret: []byte("k"), Username: "admin", PasswordHash: hash})
	c := New(api.URL())
	ctx := context.Background()

	_, err = c.Orders(ctx, 0)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Login(ctx, "admin", "bad")
	require.ErrorIs(t, err, ErrUnauthorized)

	resp, err := c.Login(ctx, "admin", "pw")
	require.NoError(t, err)
	require.Equal(t, resp.AccessToken, c.Token())

	_, err = c.Orders(ctx, 0)
	require.NoError(t, err)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Menu(context.Background())
	require.ErrorIs(t, err, ErrServer)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "boom", apiErr.Message)
}

func TestClient_FollowOrder(t *testing.T) {
	api := testutil.NewAPI(t, nil)
	c := New(api.URL())

	order, err := c.CreateOrder(context.Background(), transport.CreateOrderRequest{
		Name: "Sara", Phone: "1",
		Items:      []transport.OrderItemRequest{{Name: "Tea", Quantity: 2}},
		TotalPrice: 10,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var seen []transport.OrderEvent
	done := make(chan error, 1)
	go func() {
		done <- c.FollowOrder(ctx, order.ID, func(ev transport.OrderEvent) {
			mu.Lock()
			seen = append(seen, ev)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 3*time.Second, 10*time.Millisecond)

	_, err = c.UpdateOrderStatus(context.Background(), order.ID, domain.StatusPreparing)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, transport.EventOrderSnapshot, seen[0].Type)
	require.Equal(t, domain.StatusPending, seen[0].Order.Status)
	require.Equal(t, transport.EventOrderStatusChanged, seen[1].Type)
	require.Equal(t, domain.StatusPreparing, seen[1].Order.Status)
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "", UserMessage(nil))
	require.Equal(t, "Please check your input: price is required",
		UserMessage(&APIError{Status: 400, Message: "price is required", Kind: ErrValidation}))
	require.Contains(t, UserMessage(&APIError{Status: 404, Kind: ErrNotFound}), "Not found")
	require.Contains(t, UserMessage(&APIError{Status: 500, Kind: ErrServer}), "server")
	require.Contains(t, UserMessage(errors.New("dial tcp: refused")), "connection")
}
