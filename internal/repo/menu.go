package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/altazaj/internal/models"
)

func (r *GormRepo) ListMenuItems(ctx context.Context, category string) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.MenuItem{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	items := make([]models.MenuItem, 0)
	if err := q.Order("created_at ASC").Order("name ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "get menu item")
	}
	return &item, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(item).Error, "create menu item")
}

// CreateMenuItems inserts the whole batch in one transaction.
func (r *GormRepo) CreateMenuItems(ctx context.Context, items []models.MenuItem) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&items, 100).Error
	})
	return errors.Wrap(err, "bulk create menu items")
}

func (r *GormRepo) ReplaceMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItem) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "find menu item")
	}

	item.Name = in.Name
	item.Price = in.Price
	item.Category = in.Category
	item.Image = in.Image

	if err := r.DB.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, errors.Wrap(err, "save menu item")
	}
	return &item, nil
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete menu item")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(gorm.ErrRecordNotFound, "delete menu item")
	}
	return nil
}

// SearchMenuItems is a case-insensitive substring match on name and category.
func (r *GormRepo) SearchMenuItems(ctx context.Context, q string, limit int) ([]models.MenuItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"

	items := make([]models.MenuItem, 0)
	err := r.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "search menu items")
	}
	return items, nil
}

// MenuPrices maps item name to its current price for the given names. Names
// not on the menu are absent from the result. When several items share a
// name the most recently created one wins.
func (r *GormRepo) MenuPrices(ctx context.Context, names []string) (map[string]float64, error) {
	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).
		Select("name", "price").
		Where("name IN ?", names).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "menu prices")
	}

	prices := make(map[string]float64, len(items))
	for _, it := range items {
		prices[it.Name] = it.Price
	}
	return prices, nil
}
