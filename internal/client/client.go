package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx answer. Kind is one of the package sentinels so
// callers can branch with errors.Is.
type APIError struct {
	Status  int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error { return e.Kind }

func kindFor(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrValidation
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrServer
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetToken makes every later request carry the admin bearer token.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg transport.MessageResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &msg) != nil || msg.Message == "" {
			msg.Message = strings.TrimSpace(string(raw))
			if msg.Message == "" {
				msg.Message = http.StatusText(resp.StatusCode)
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg.Message, Kind: kindFor(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) SearchMenu(ctx context.Context, q string, limit int) ([]models.MenuItem, error) {
	v := url.Values{"q": {q}}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var items []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu-items/search?"+v.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, req transport.MenuItemRequest) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := c.do(ctx, http.MethodPost, "/menu-items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateMenuItems(ctx context.Context, reqs []transport.MenuItemRequest) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.do(ctx, http.MethodPost, "/menu-items/bulk", reqs, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id uuid.UUID, req transport.MenuItemRequest) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := c.do(ctx, http.MethodPut, "/menu-items/"+id.String(), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/menu-items/"+id.String(), nil, nil)
}

func (c *Client) Orders(ctx context.Context, limit int) ([]models.Order, error) {
	path := "/orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Order(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+id.String(), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) OrderHistory(ctx context.Context, id uuid.UUID) ([]models.OrderStatusLog, error) {
	var logs []models.OrderStatusLog
	if err := c.do(ctx, http.MethodGet, "/orders/"+id.String()+"/history", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Order, error) {
	var order models.Order
	body := transport.UpdateStatusRequest{Status: status.String()}
	if err := c.do(ctx, http.MethodPut, "/orders/"+id.String()+"/status", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Login exchanges admin credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*transport.LoginResponse, error) {
	var out transport.LoginResponse
	body := transport.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.AccessToken
	return &out, nil
}

// UserMessage turns an error from this package into a short text fit for an
// end user.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation) && errors.As(err, &apiErr):
		return "Please check your input: " + apiErr.Message
	case errors.Is(err, ErrNotFound):
		return "Not found. It may have been removed."
	case errors.Is(err, ErrConflict) && errors.As(err, &apiErr):
		return "Could not apply the change: " + apiErr.Message
	case errors.Is(err, ErrUnauthorized):
		return "You need to log in as admin first."
	case errors.Is(err, ErrServer):
		return "The server had a problem. Please try again."
	default:
		return "Cannot reach the server. Check your connection and try again."
	}
}
