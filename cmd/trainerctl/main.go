// trainerctl is the command-line front end for TrainerHub.
//
// It prepares a working directory (setup), signs a trainer in and keeps the
// token in a credentials file, then drives the same dashboard actions a
// browser would: every command runs one or more dashboard operations against
// the API and prints the resulting store slice as YAML.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trainerhub/backend/internal/apiclient"
	"github.com/trainerhub/backend/internal/config"
	"github.com/trainerhub/backend/internal/dashboard"
	"github.com/trainerhub/backend/internal/logging"
	"github.com/trainerhub/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app holds the flag values and the objects built from them once the
// configuration has been loaded.
type app struct {
	configPath  string
	apiURL      string
	credentials string
	verbose     bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "trainerctl",
		Short:        "Manage a TrainerHub trainer account from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("TRAINERHUB_CONFIG"), "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL (overrides the config)")
	root.PersistentFlags().StringVar(&a.credentials, "credentials", "", "credentials file (overrides the config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every dashboard action")

	root.AddCommand(
		a.setupCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.dashboardCmd(),
		a.clientsCmd(),
		a.scheduleCmd(),
		a.revenueCmd(),
		a.reviewsCmd(),
		a.couponsCmd(),
		a.unreadCmd(),
		a.profileCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.Client.APIURL = a.apiURL
	}
	if a.credentials != "" {
		cfg.Client.Credentials = a.credentials
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.New(cmd.ErrOrStderr(), level, nil)
	return nil
}

// client returns an API client carrying the saved token.
func (a *app) client() (*apiclient.Client, error) {
	creds, err := apiclient.LoadCredentials(a.cfg.Client.Credentials)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("not logged in; run `trainerctl login` first")
	}
	if err != nil {
		return nil, err
	}
	base := creds.BaseURL
	if a.apiURL != "" || base == "" {
		base = a.cfg.Client.APIURL
	}
	return apiclient.New(base,
		apiclient.WithToken(creds.Token),
		apiclient.WithTimeout(a.cfg.Client.Timeout),
	), nil
}

// withDashboard runs fn against a fresh store. The store is closed when fn
// returns.
func (a *app) withDashboard(fn func(d *dashboard.Dashboard) error) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	st := store.New(store.Initial())
	defer st.Close()

	opts := []dashboard.Option{dashboard.WithLogger(a.logger)}
	if a.cfg.Client.Fallback {
		opts = append(opts, dashboard.WithFallback(dashboard.DemoFallback(time.Now())))
	}
	return fn(dashboard.New(c, st, opts...))
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
