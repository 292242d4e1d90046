package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/storefront"
	"github.com/Skotchmaster/altazaj/internal/testutil"
)

type cli struct {
	api *testutil.API
	dir string
}

func newCLI(t *testing.T, authSvc *auth.Service) *cli {
	return &cli{api: testutil.NewAPI(t, authSvc), dir: t.TempDir()}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--api", c.api.URL(), "--config-dir", c.dir}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseItem(t *testing.T) {
	name, qty, err := parseItem("Burger=2")
	require.NoError(t, err)
	require.Equal(t, "Burger", name)
	require.Equal(t, 2, qty)

	name, qty, err = parseItem("Cola")
	require.NoError(t, err)
	require.Equal(t, "Cola", name)
	require.Equal(t, 1, qty)

	for _, bad := range []string{"=2", "Tea=0", "Tea=x"} {
		_, _, err := parseItem(bad)
		require.Error(t, err, bad)
	}
}

func TestProgressBar(t *testing.T) {
	require.Equal(t, "["+strings.Repeat("-", barWidth)+"]", progressBar(domain.StatusCancelled))
	require.Equal(t, "["+strings.Repeat("#", barWidth)+"]", progressBar(domain.StatusDelivered))
	require.Equal(t, 8, strings.Count(progressBar(domain.StatusPending), "#"))
}

func TestCLI_OrderFlow(t *testing.T) {
	c := newCLI(t, nil)

	_, err := c.run(t, "admin", "menu", "add", "--name", "Burger", "--price", "50", "--category", "Mains")
	require.NoError(t, err)
	_, err = c.run(t, "admin", "menu", "add", "--name", "Cola", "--price", "0", "--category", "Drinks")
	require.NoError(t, err)

	out, err := c.run(t, "menu")
	require.NoError(t, err)
	require.Contains(t, out, "Mains")
	require.Contains(t, out, "Burger")
	require.Contains(t, out, "50.00")

	_, err = c.run(t, "admin", "menu", "add", "--name", "Soup", "--category", "Starters")
	require.Error(t, err)
	require.Contains(t, explain(err), "price is required")

	out, err = c.run(t, "order", "--item", "Burger=2")
	require.ErrorIs(t, err, storefront.ErrMissingCustomer)
	require.NotContains(t, out, "Order placed")

	_, err = c.run(t, "order", "--name", "Ali", "--phone", "0100000000", "--item", "Pizza")
	require.Error(t, err)

	out, err = c.run(t, "order", "--name", "Ali", "--phone", "0100000000", "--item", "Burger=2", "--item", "Cola")
	require.NoError(t, err)
	require.Contains(t, out, "Total: 100.00")
	require.Contains(t, out, "Order placed")

	out, err = c.run(t, "track")
	require.NoError(t, err)
	require.Contains(t, out, "Pending")
	require.Contains(t, out, "2 x Burger")

	id, err := (&storefront.LastOrderStore{Path: filepath.Join(c.dir, "last_order.json")}).Load()
	require.NoError(t, err)

	out, err = c.run(t, "admin", "advance", id.String())
	require.NoError(t, err)
	require.Contains(t, out, "Preparing")

	out, err = c.run(t, "admin", "orders")
	require.NoError(t, err)
	require.Contains(t, out, id.String())
	require.Contains(t, out, "Preparing")

	out, err = c.run(t, "admin", "advance", id.String())
	require.NoError(t, err)
	require.Contains(t, out, "Delivered")

	_, err = c.run(t, "admin", "cancel", id.String())
	require.Error(t, err)

	out, err = c.run(t, "track", id.String(), "--follow", "--interval", "10ms")
	require.NoError(t, err)
	require.Contains(t, out, "Delivered")

	out, err = c.run(t, "history")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(out, "->"))
}

func TestCLI_Upload(t *testing.T) {
	c := newCLI(t, nil)

	bad := filepath.Join(c.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name":"Tea"}`), 0o600))
	_, err := c.run(t, "admin", "upload", bad)
	require.Error(t, err)

	good := filepath.Join(c.dir, "menu.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"name":"Tea","price":5,"category":"Drinks"},{"name":"Cake","price":9,"category":"Desserts"}]`), 0o600))
	out, err := c.run(t, "admin", "upload", good)
	require.NoError(t, err)
	require.Contains(t, out, "Uploaded 2 menu items")

	out, err = c.run(t, "menu", "--category", "desserts")
	require.NoError(t, err)
	require.Contains(t, out, "Cake")
	require.NotContains(t, out, "Tea")
}

func TestCLI_LoginStoresToken(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	c := newCLI(t, &auth.Service{Secret: []byte("k"), Username: "admin", PasswordHash: hash})

	_, err = c.run(t, "admin", "orders")
	require.Error(t, err)
	require.Contains(t, explain(err), "log in")

	_, err = c.run(t, "admin", "login", "--password", "pw")
	require.NoError(t, err)

	out, err := c.run(t, "admin", "orders")
	require.NoError(t, err)
	require.Contains(t, out, "No orders yet.")

	out, err = c.run(t, "admin", "hash-password", "secret")
	require.NoError(t, err)
	require.True(t, auth.CheckPassword(strings.TrimSpace(out), "secret"))
}
