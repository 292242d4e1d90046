package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/altazaj/internal/client"
	"github.com/Skotchmaster/altazaj/internal/storefront"
)

type env struct {
	APIURL    string `envconfig:"RESTO_API_URL" default:"http://localhost:8080"`
	Token     string `envconfig:"RESTO_TOKEN"`
	ConfigDir string `envconfig:"RESTO_CONFIG_DIR"`
}

type app struct {
	apiURL    string
	token     string
	configDir string
	timeout   time.Duration
}

func (a *app) client() *client.Client {
	c := client.New(a.apiURL)
	token := a.token
	if token == "" {
		token, _ = a.tokens().Load()
	}
	if token != "" {
		c.SetToken(token)
	}
	return c
}

func (a *app) dir() string {
	if a.configDir != "" {
		return a.configDir
	}
	if p, err := storefront.DefaultLastOrderPath(); err == nil {
		return filepath.Dir(p)
	}
	return "."
}

func (a *app) lastOrder() *storefront.LastOrderStore {
	return &storefront.LastOrderStore{Path: filepath.Join(a.dir(), "last_order.json")}
}

func (a *app) tokens() *tokenFile {
	return &tokenFile{Path: filepath.Join(a.dir(), "token")}
}

// ctx bounds one request round. Long running commands use cmd.Context().
func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func newRootCmd() *cobra.Command {
	var e env
	if err := envconfig.Process("", &e); err != nil {
		e.APIURL = "http://localhost:8080"
	}
	a := &app{}

	root := &cobra.Command{
		Use:   "restoctl",
		Short: "Order food and run the restaurant from the terminal",
		Long: `restoctl talks to the restaurant ordering API.

Customers browse the menu, place orders and track them.
Staff manage orders and the menu under "restoctl admin".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", e.APIURL, "API base URL (or set RESTO_API_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", e.Token, "admin access token (or set RESTO_TOKEN)")
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", e.ConfigDir, "where the last order id and token are kept")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "per request timeout")

	root.AddCommand(menuCmd(a), orderCmd(a), trackCmd(a), historyCmd(a), adminCmd(a))
	return root
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", explain(err))
		os.Exit(1)
	}
}

// explain prefers the user facing text for API errors.
func explain(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return client.UserMessage(err)
	}
	return err.Error()
}
