// Package testutil starts a complete API backed by in-memory sqlite for
// client side tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/config"
	"github.com/Skotchmaster/altazaj/internal/db"
	"github.com/Skotchmaster/altazaj/internal/httpserver"
	"github.com/Skotchmaster/altazaj/internal/repo"
	"github.com/Skotchmaster/altazaj/internal/service"
	"github.com/Skotchmaster/altazaj/internal/stream"
)

type API struct {
	Server *httptest.Server
	Repo   *repo.GormRepo
	Hub    *stream.Hub
}

func (a *API) URL() string { return a.Server.URL }

// NewAPI serves the full route table. A nil authSvc leaves admin routes open.
func NewAPI(t *testing.T, authSvc *auth.Service) *API {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	if authSvc == nil {
		authSvc = &auth.Service{}
	}

	r := repo.New(gdb)
	hub := stream.NewHub()

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		MenuHandler:  &httpserver.MenuHTTP{Svc: &service.MenuService{Store: r}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Store: r, Notifier: hub, Pricing: config.PricingClient}, Hub: hub},
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc},
		Auth:         authSvc,
		Ready:        func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		_ = db.Close(gdb)
	})
	return &API{Server: srv, Repo: r, Hub: hub}
}
