package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Skotchmaster/altazaj/internal/transport"
)

// FollowOrder reads the order's websocket stream and calls fn for every
// event until ctx is done or the server closes the stream.
func (c *Client) FollowOrder(ctx context.Context, id uuid.UUID, fn func(transport.OrderEvent)) error {
	return c.follow(ctx, "/orders/"+id.String()+"/stream", fn)
}

// FollowOrders reads every order event. It needs an admin token when the
// server has auth enabled.
func (c *Client) FollowOrders(ctx context.Context, fn func(transport.OrderEvent)) error {
	return c.follow(ctx, "/orders/stream", fn)
}

func (c *Client) follow(ctx context.Context, path string, fn func(transport.OrderEvent)) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode, Message: "stream refused", Kind: kindFor(resp.StatusCode)}
		}
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var ev transport.OrderEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}
		fn(ev)
	}
}
