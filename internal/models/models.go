package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/altazaj/internal/domain"
)

type MenuItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"not null"              json:"name"`
	Price     float64   `gorm:"not null"              json:"price"`
	Category  string    `gorm:"not null;index"        json:"category"`
	Image     string    `                             json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index"                 json:"-"`
}

type Order struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"                     json:"id"`
	Name       string        `gorm:"not null"                                 json:"name"`
	Phone      string        `gorm:"not null"                                 json:"phone"`
	Address    string        `                                                json:"address,omitempty"`
	Items      []OrderItem   `gorm:"constraint:OnDelete:CASCADE"              json:"items"`
	TotalPrice float64       `gorm:"not null"                                 json:"totalPrice"`
	Status     domain.Status `gorm:"type:varchar(16);not null;default:Pending;index" json:"status"`
	CreatedAt  time.Time     `gorm:"index"                                    json:"createdAt"`
	UpdatedAt  time.Time     `                                                json:"updatedAt"`
}

// OrderItem is a snapshot of a menu item name taken when the order was
// placed. It does not reference MenuItem.
type OrderItem struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"  json:"-"`
	OrderID  uuid.UUID `gorm:"type:uuid;index;not null"  json:"-"`
	Position int       `gorm:"not null"                  json:"-"`
	Name     string    `gorm:"not null"                  json:"name"`
	Quantity int       `gorm:"not null"                  json:"quantity"`
}

type OrderStatusLog struct {
	ID         uint          `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID    uuid.UUID     `gorm:"type:uuid;index;not null"  json:"orderId"`
	FromStatus domain.Status `gorm:"type:varchar(16);not null" json:"fromStatus"`
	ToStatus   domain.Status `gorm:"type:varchar(16);not null" json:"toStatus"`
	CreatedAt  time.Time     `                                 json:"createdAt"`
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = domain.StatusPending
	}
	return nil
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{&MenuItem{}, &Order{}, &OrderItem{}, &OrderStatusLog{}}
}
