package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

var (
	ErrMissingCustomer = errors.New("please enter your name and phone number")
	ErrEmptyCart       = errors.New("your cart is empty")
)

type API interface {
	Menu(ctx context.Context) ([]models.MenuItem, error)
	CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error)
	Order(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type Customer struct {
	Name    string
	Phone   string
	Address string
}

type Storefront struct {
	API       API
	Cart      *Cart
	Customer  Customer
	LastOrder *LastOrderStore
}

func New(api API, last *LastOrderStore) *Storefront {
	return &Storefront{API: api, Cart: NewCart(), LastOrder: last}
}

func (s *Storefront) Menu(ctx context.Context) ([]Category, error) {
	items, err := s.API.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(items), nil
}

// Submit places the cart as an order. Nothing is sent when the customer or
// cart is incomplete. On success the cart and customer are reset and the
// order id is remembered.
func (s *Storefront) Submit(ctx context.Context) (*models.Order, error) {
	if strings.TrimSpace(s.Customer.Name) == "" || strings.TrimSpace(s.Customer.Phone) == "" {
		return nil, ErrMissingCustomer
	}
	if s.Cart.Empty() {
		return nil, ErrEmptyCart
	}

	order, err := s.API.CreateOrder(ctx, transport.CreateOrderRequest{
		Name:       strings.TrimSpace(s.Customer.Name),
		Phone:      strings.TrimSpace(s.Customer.Phone),
		Address:    strings.TrimSpace(s.Customer.Address),
		Items:      s.Cart.OrderItems(),
		TotalPrice: s.Cart.Total(),
	})
	if err != nil {
		return nil, err
	}

	s.Cart.Clear()
	s.Customer = Customer{}
	if s.LastOrder != nil {
		if err := s.LastOrder.Save(order.ID); err != nil {
			return order, err
		}
	}
	return order, nil
}
