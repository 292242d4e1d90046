package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/altazaj/internal/db"
	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return New(gdb)
}

func TestMenuItems_CRUD(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	item := &models.MenuItem{Name: "Burger", Price: 50, Category: "Sandwiches"}
	require.NoError(t, r.CreateMenuItem(ctx, item))
	require.NotEqual(t, uuid.Nil, item.ID)

	got, err := r.GetMenuItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", got.Name)

	updated, err := r.ReplaceMenuItem(ctx, item.ID, models.MenuItem{Name: "Cheese Burger", Price: 60, Category: "Sandwiches"})
	require.NoError(t, err)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, "Cheese Burger", updated.Name)
	assert.EqualValues(t, 60, updated.Price)

	require.NoError(t, r.DeleteMenuItem(ctx, item.ID))
	err = r.DeleteMenuItem(ctx, item.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = r.ReplaceMenuItem(ctx, uuid.New(), models.MenuItem{Name: "x", Category: "y"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMenuItems_BulkAndFilter(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	batch := []models.MenuItem{
		{Name: "Pizza", Price: 100, Category: "Mains"},
		{Name: "Cola", Price: 10, Category: "Drinks"},
	}
	require.NoError(t, r.CreateMenuItems(ctx, batch))
	for _, it := range batch {
		assert.NotEqual(t, uuid.Nil, it.ID)
	}

	all, err := r.ListMenuItems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drinks, err := r.ListMenuItems(ctx, "Drinks")
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, "Cola", drinks[0].Name)

	found, err := r.SearchMenuItems(ctx, "PIZ", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pizza", found[0].Name)

	prices, err := r.MenuPrices(ctx, []string{"Pizza", "Tea"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Pizza": 100}, prices)
}

func TestMenuPrices_LatestDuplicateWins(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	newer := &models.MenuItem{Name: "Burger", Price: 65, Category: "Mains", CreatedAt: base.Add(time.Hour)}
	older := &models.MenuItem{Name: "Burger", Price: 50, Category: "Mains", CreatedAt: base}
	require.NoError(t, r.CreateMenuItem(ctx, newer))
	require.NoError(t, r.CreateMenuItem(ctx, older))

	for i := 0; i < 3; i++ {
		prices, err := r.MenuPrices(ctx, []string{"Burger"})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"Burger": 65}, prices)
	}
}

func TestOrders_ListNewestFirstWithItemsInOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		o := &models.Order{
			Name:      name,
			Phone:     "0100000000",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Items: []models.OrderItem{
				{Position: 0, Name: "Burger", Quantity: 1},
				{Position: 1, Name: "Cola", Quantity: 2},
			},
		}
		require.NoError(t, r.CreateOrder(ctx, o))
		assert.Equal(t, domain.StatusPending, o.Status)
	}

	orders, err := r.ListOrders(ctx, 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "third", orders[0].Name)
	assert.Equal(t, "second", orders[1].Name)
	assert.Equal(t, "first", orders[2].Name)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, "Burger", orders[0].Items[0].Name)
	assert.Equal(t, "Cola", orders[0].Items[1].Name)

	limited, err := r.ListOrders(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOrders_UpdateStatusGuarded(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	o := &models.Order{Name: "Ali", Phone: "0100000000", Items: []models.OrderItem{{Name: "Burger", Quantity: 1}}}
	require.NoError(t, r.CreateOrder(ctx, o))

	at := time.Now().UTC()
	updated, err := r.UpdateOrderStatus(ctx, o.ID, domain.StatusPending, domain.StatusPreparing, at)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, updated.Status)
	require.Len(t, updated.Items, 1)

	_, err = r.UpdateOrderStatus(ctx, o.ID, domain.StatusPending, domain.StatusCancelled, at)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStaleStatus))

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, got.Status)

	history, err := r.OrderHistory(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusPending, history[0].FromStatus)
	assert.Equal(t, domain.StatusPreparing, history[0].ToStatus)
}

func TestOrders_GetMissing(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetOrder(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
