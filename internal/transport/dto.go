package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/models"
)

// MenuItemRequest is the body of create and full-replace calls. Price is a
// pointer so that a missing price can be told apart from a zero price.
type MenuItemRequest struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Category string   `json:"category"`
	Image    string   `json:"image,omitempty"`
}

type OrderItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Name       string             `json:"name"`
	Phone      string             `json:"phone"`
	Address    string             `json:"address,omitempty"`
	Items      []OrderItemRequest `json:"items"`
	TotalPrice float64            `json:"totalPrice"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type OrderEvent struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

type MenuEvent struct {
	Type   string           `json:"type"`
	ItemID uuid.UUID        `json:"itemId"`
	Item   *models.MenuItem `json:"item,omitempty"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderSnapshot      = "order_snapshot"
	EventMenuItemCreated    = "menu_item_created"
	EventMenuItemUpdated    = "menu_item_updated"
	EventMenuItemDeleted    = "menu_item_deleted"
)

func Float(v float64) *float64 { return &v }
