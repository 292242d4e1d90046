package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

type MenuStore interface {
	ListMenuItems(ctx context.Context, category string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	CreateMenuItems(ctx context.Context, items []models.MenuItem) error
	ReplaceMenuItem(ctx context.Context, id uuid.UUID, item models.MenuItem) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	SearchMenuItems(ctx context.Context, q string, limit int) ([]models.MenuItem, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, limit int) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, at time.Time) (*models.Order, error)
	OrderHistory(ctx context.Context, id uuid.UUID) ([]models.OrderStatusLog, error)
	MenuPrices(ctx context.Context, names []string) (map[string]float64, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev transport.OrderEvent) error
	PublishMenuEvent(ctx context.Context, ev transport.MenuEvent) error
}

// Notifier receives order changes for live subscribers.
type Notifier interface {
	Notify(ev transport.OrderEvent)
}

type MenuIndex interface {
	Index(ctx context.Context, item models.MenuItem) error
	Remove(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, limit int) ([]models.MenuItem, error)
}
