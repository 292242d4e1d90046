package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/config"
	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/repo"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

type OrderService struct {
	Store    OrderStore
	Events   EventPublisher
	Notifier Notifier
	// Pricing is config.PricingClient or config.PricingServer.
	Pricing string
	Now     func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, validationf("name and phone are required")
	}
	if len(req.Items) == 0 {
		return nil, validationf("order must contain at least one item")
	}
	if req.TotalPrice < 0 || math.IsNaN(req.TotalPrice) || math.IsInf(req.TotalPrice, 0) {
		return nil, validationf("totalPrice must be a non-negative number")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		itemName := strings.TrimSpace(it.Name)
		if itemName == "" {
			return nil, validationf("item %d: name is required", i)
		}
		if it.Quantity < 1 {
			return nil, validationf("item %d: quantity must be a positive integer", i)
		}
		items = append(items, models.OrderItem{Position: i, Name: itemName, Quantity: it.Quantity})
	}

	total, err := s.price(ctx, items, req.TotalPrice)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		Name:       name,
		Phone:      phone,
		Address:    strings.TrimSpace(req.Address),
		Items:      items,
		TotalPrice: total,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.CreateOrder(ctx, order); err != nil {
		return nil, storeErr(err, MsgOrderNotFound)
	}

	l.Info("order_created", "order_id", order.ID, "items", len(items), "total", order.TotalPrice)
	s.emit(ctx, transport.OrderEvent{Type: transport.EventOrderCreated, Order: *order})
	return order, nil
}

func (s *OrderService) List(ctx context.Context, limit int) ([]models.Order, error) {
	orders, err := s.Store.ListOrders(ctx, limit)
	if err != nil {
		return nil, storeErr(err, MsgOrderNotFound)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr(err, MsgOrderNotFound)
	}
	return order, nil
}

func (s *OrderService) History(ctx context.Context, id uuid.UUID) ([]models.OrderStatusLog, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.Store.OrderHistory(ctx, id)
	if err != nil {
		return nil, storeErr(err, MsgOrderNotFound)
	}
	return logs, nil
}

// UpdateStatus validates the requested status, then applies it if the
// transition table allows the move from the order's current status.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*models.Order, error) {
	status, ok := domain.ParseStatus(strings.TrimSpace(raw))
	if !ok {
		return nil, validationf(MsgInvalidStatus)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}
	if !domain.CanTransition(order.Status, status) {
		return nil, conflictf("cannot change order status from %s to %s", order.Status, status)
	}

	updated, err := s.Store.UpdateOrderStatus(ctx, id, order.Status, status, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrStaleStatus) {
			return nil, conflictf("order status was changed by another request")
		}
		return nil, storeErr(err, MsgOrderNotFound)
	}

	logging.FromContext(ctx).Info("order_status_changed", "order_id", id, "from", order.Status, "to", status)
	s.emit(ctx, transport.OrderEvent{Type: transport.EventOrderStatusChanged, Order: *updated})
	return updated, nil
}

func (s *OrderService) emit(ctx context.Context, ev transport.OrderEvent) {
	if s.Notifier != nil {
		s.Notifier.Notify(ev)
	}
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishOrderEvent(pubCtx, ev); err != nil {
		logging.FromContext(ctx).Error("order_event_publish_error", "type", ev.Type, "order_id", ev.Order.ID, "error", err)
	}
}

// price returns the total to store. Server pricing recomputes it from the
// menu; client pricing keeps the submitted value and only reports drift.
func (s *OrderService) price(ctx context.Context, items []models.OrderItem, submitted float64) (float64, error) {
	l := logging.FromContext(ctx)

	prices, err := s.Store.MenuPrices(ctx, itemNames(items))
	if err != nil {
		if s.Pricing == config.PricingServer {
			return 0, storeErr(err, MsgMenuItemNotFound)
		}
		l.Warn("order_quote_error", "reason", "cannot load menu prices", "error", err)
		return submitted, nil
	}

	quote, missing := Quote(items, prices)

	if s.Pricing == config.PricingServer {
		if missing != "" {
			return 0, validationf("item %q is not on the menu", missing)
		}
		return quote, nil
	}

	if missing == "" && math.Abs(quote-submitted) > 0.005 {
		l.Warn("order_total_mismatch", "submitted", submitted, "menu_total", quote)
	}
	return submitted, nil
}

// Quote sums price times quantity. missing names the first item without a
// price, in which case the returned total is incomplete.
func Quote(items []models.OrderItem, prices map[string]float64) (total float64, missing string) {
	for _, it := range items {
		p, ok := prices[it.Name]
		if !ok {
			if missing == "" {
				missing = it.Name
			}
			continue
		}
		total += p * float64(it.Quantity)
	}
	return math.Round(total*100) / 100, missing
}

func itemNames(items []models.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		names = append(names, it.Name)
	}
	return names
}
