package storefront

import "github.com/Skotchmaster/altazaj/internal/models"

type Category struct {
	Name  string
	Items []models.MenuItem
}

// GroupByCategory keeps categories in the order they first appear.
func GroupByCategory(items []models.MenuItem) []Category {
	index := make(map[string]int)
	var out []Category
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, Category{Name: it.Category})
		}
		out[i].Items = append(out[i].Items, it)
	}
	return out
}

// FindItem looks an item up by its exact name.
func FindItem(items []models.MenuItem, name string) (models.MenuItem, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return models.MenuItem{}, false
}
