package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

const DefaultRefreshInterval = 5 * time.Second

var ErrNoAction = errors.New("no action available for this order")

type API interface {
	Orders(ctx context.Context, limit int) ([]models.Order, error)
	Menu(ctx context.Context) ([]models.MenuItem, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Order, error)
	CreateMenuItem(ctx context.Context, req transport.MenuItemRequest) (*models.MenuItem, error)
	CreateMenuItems(ctx context.Context, reqs []transport.MenuItemRequest) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, req transport.MenuItemRequest) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// Board is the admin view of orders and menu. Its snapshot is replaced as a
// whole on every successful refresh.
type Board struct {
	API API

	mu          sync.RWMutex
	orders      []models.Order
	menu        []models.MenuItem
	refreshedAt time.Time
}

func NewBoard(api API) *Board {
	return &Board{API: api}
}

func (b *Board) Refresh(ctx context.Context) error {
	var orders []models.Order
	var menu []models.MenuItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = b.API.Orders(gctx, 0)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		menu, err = b.API.Menu(gctx)
		if err != nil {
			return fmt.Errorf("load menu: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	b.mu.Lock()
	b.orders, b.menu, b.refreshedAt = orders, menu, time.Now()
	b.mu.Unlock()
	return nil
}

func (b *Board) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Order(nil), b.orders...)
}

func (b *Board) Menu() []models.MenuItem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.MenuItem(nil), b.menu...)
}

func (b *Board) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}

// Watch refreshes right away and then every interval until ctx ends. fn sees
// every refresh outcome; a failed refresh keeps the previous snapshot.
func (b *Board) Watch(ctx context.Context, interval time.Duration, fn func(error)) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	l := logging.FromContext(ctx).With("component", "admin.board")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := b.Refresh(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			l.Warn("board_refresh_error", "error", err)
		}
		fn(err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Advance moves the order one step forward in the normal flow.
func (b *Board) Advance(ctx context.Context, order models.Order) (*models.Order, error) {
	next, ok := domain.Next(order.Status)
	if !ok {
		return nil, ErrNoAction
	}
	return b.setStatus(ctx, order.ID, next)
}

func (b *Board) Cancel(ctx context.Context, order models.Order) (*models.Order, error) {
	if order.Status.Terminal() || !order.Status.Valid() {
		return nil, ErrNoAction
	}
	return b.setStatus(ctx, order.ID, domain.StatusCancelled)
}

func (b *Board) setStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Order, error) {
	updated, err := b.API.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	for i := range b.orders {
		if b.orders[i].ID == id {
			b.orders[i] = *updated
		}
	}
	b.mu.Unlock()
	return updated, nil
}

func (b *Board) AddMenuItem(ctx context.Context, req transport.MenuItemRequest) (*models.MenuItem, error) {
	return b.API.CreateMenuItem(ctx, req)
}

func (b *Board) EditMenuItem(ctx context.Context, id uuid.UUID, req transport.MenuItemRequest) (*models.MenuItem, error) {
	return b.API.UpdateMenuItem(ctx, id, req)
}

func (b *Board) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return b.API.DeleteMenuItem(ctx, id)
}
