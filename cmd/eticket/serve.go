package main

import (
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-eticket/internal/config"
	"github.com/goliatone/go-eticket/internal/metrics"
	"github.com/goliatone/go-eticket/internal/server"
	"github.com/goliatone/go-eticket/internal/store"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the declaration wizard over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	config.BindFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, vanilla.WithStylesheet("/assets/"+vanilla.StylesheetName))
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()
	cfg := a.cfg

	drafts, err := store.Open(cfg.Store.Driver, cfg.Store.RedisURL,
		store.WithTTL(cfg.Store.TTL),
		store.WithPrefix(cfg.Store.Prefix),
	)
	if err != nil {
		return err
	}
	defer func() { _ = drafts.Close() }()

	secret := cfg.Session.Secret
	if secret == "" {
		secret = string(securecookie.GenerateRandomKey(config.MinSecretLength))
		a.logger.Warn("no session secret configured, sessions end when the process restarts")
	}

	var m *metrics.Metrics
	if cfg.Metrics {
		m = metrics.New()
	}

	var assets map[string]fs.FS
	if a.theme != nil && a.theme.Manifest.Assets.Prefix != "" {
		assets = map[string]fs.FS{a.theme.Manifest.Assets.Prefix: os.DirFS(a.theme.AssetsDir)}
	}

	srv, err := server.New(server.Config{
		Addr:            cfg.Addr,
		Orchestrator:    a.orch,
		Store:           drafts,
		Logger:          a.logger,
		Metrics:         m,
		Travelers:       cfg.Travelers,
		ShutdownTimeout: cfg.ShutdownTimeout,
		SessionName:     cfg.Session.Name,
		SessionSecret:   secret,
		SessionMaxAge:   cfg.Session.MaxAge,
		SecureCookie:    cfg.Session.Secure,
		ThemeName:       cfg.Theme.Name,
		ThemeVariant:    cfg.Theme.Variant,
		Assets:          assets,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store.Driver),
		zap.Int("travelers", cfg.Travelers),
	)
	return srv.Serve(ctx)
}
