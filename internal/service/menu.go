package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

const DefaultSearchLimit = 20

type MenuService struct {
	Store  MenuStore
	Index  MenuIndex
	Events EventPublisher
}

func (s *MenuService) List(ctx context.Context, category string) ([]models.MenuItem, error) {
	items, err := s.Store.ListMenuItems(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, storeErr(err, MsgMenuItemNotFound)
	}
	return items, nil
}

func (s *MenuService) Create(ctx context.Context, req transport.MenuItemRequest) (*models.MenuItem, error) {
	item, err := menuItemFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.Store.CreateMenuItem(ctx, &item); err != nil {
		return nil, storeErr(err, MsgMenuItemNotFound)
	}

	s.index(ctx, item)
	s.publish(ctx, transport.MenuEvent{Type: transport.EventMenuItemCreated, ItemID: item.ID, Item: &item})
	return &item, nil
}

// CreateBulk validates every element before anything is written; one bad
// element rejects the whole batch.
func (s *MenuService) CreateBulk(ctx context.Context, reqs []transport.MenuItemRequest) ([]models.MenuItem, error) {
	if len(reqs) == 0 {
		return nil, validationf("Request body must be a non-empty array of menu items.")
	}

	items := make([]models.MenuItem, 0, len(reqs))
	for i, req := range reqs {
		item, err := menuItemFromRequest(req)
		if err != nil {
			return nil, validationf("item %d: %s", i, err.Error())
		}
		items = append(items, item)
	}

	if err := s.Store.CreateMenuItems(ctx, items); err != nil {
		return nil, storeErr(err, MsgMenuItemNotFound)
	}

	for i := range items {
		s.index(ctx, items[i])
		s.publish(ctx, transport.MenuEvent{Type: transport.EventMenuItemCreated, ItemID: items[i].ID, Item: &items[i]})
	}
	return items, nil
}

func (s *MenuService) Replace(ctx context.Context, id uuid.UUID, req transport.MenuItemRequest) (*models.MenuItem, error) {
	in, err := menuItemFromRequest(req)
	if err != nil {
		return nil, err
	}

	item, err := s.Store.ReplaceMenuItem(ctx, id, in)
	if err != nil {
		return nil, storeErr(err, MsgMenuItemNotFound)
	}

	s.index(ctx, *item)
	s.publish(ctx, transport.MenuEvent{Type: transport.EventMenuItemUpdated, ItemID: item.ID, Item: item})
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteMenuItem(ctx, id); err != nil {
		return storeErr(err, MsgMenuItemNotFound)
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("menu_index_remove_error", "item_id", id, "error", err)
		}
	}
	s.publish(ctx, transport.MenuEvent{Type: transport.EventMenuItemDeleted, ItemID: id})
	return nil
}

// Search queries the search index and falls back to the store when no index
// is configured or the index call fails.
func (s *MenuService) Search(ctx context.Context, q string, limit int) ([]models.MenuItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationf("query parameter q is required")
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultSearchLimit
	}

	if s.Index != nil {
		items, err := s.Index.Search(ctx, q, limit)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("menu_search_index_error", "reason", "falling back to store", "error", err)
	}

	items, err := s.Store.SearchMenuItems(ctx, q, limit)
	if err != nil {
		return nil, storeErr(err, MsgMenuItemNotFound)
	}
	return items, nil
}

func (s *MenuService) index(ctx context.Context, item models.MenuItem) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("menu_index_error", "item_id", item.ID, "error", err)
	}
}

func (s *MenuService) publish(ctx context.Context, ev transport.MenuEvent) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishMenuEvent(ctx, ev); err != nil {
		logging.FromContext(ctx).Error("menu_event_publish_error", "type", ev.Type, "item_id", ev.ItemID, "error", err)
	}
}

func menuItemFromRequest(req transport.MenuItemRequest) (models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)

	switch {
	case name == "":
		return models.MenuItem{}, validationf("name is required")
	case category == "":
		return models.MenuItem{}, validationf("category is required")
	case req.Price == nil:
		return models.MenuItem{}, validationf("price is required")
	case *req.Price < 0 || math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0):
		return models.MenuItem{}, validationf("price must be a non-negative number")
	}

	return models.MenuItem{
		Name:     name,
		Price:    *req.Price,
		Category: category,
		Image:    strings.TrimSpace(req.Image),
	}, nil
}
