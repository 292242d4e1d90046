package storefront

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/models"
)

const DefaultPollInterval = 5 * time.Second

type OrderGetter interface {
	Order(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Update is one poll result. Exactly one of Order and Err is set.
type Update struct {
	Order *models.Order
	Err   error
}

type Tracker struct {
	API      OrderGetter
	Interval time.Duration
}

// Track polls the order right away and then every Interval, handing each
// result to fn. A failed poll is reported and retried on the next tick.
// Track returns nil once the order is Delivered or Cancelled and ctx.Err()
// when ctx ends first.
func (t *Tracker) Track(ctx context.Context, id uuid.UUID, fn func(Update)) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		order, err := t.API.Order(ctx, id)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			fn(Update{Err: err})
		} else {
			fn(Update{Order: order})
			if order.Status.Terminal() {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
