package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-eticket/internal/config"
	"github.com/goliatone/go-eticket/pkg/orchestrator"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/render/template/gotemplate"
	"github.com/goliatone/go-eticket/pkg/renderers/jsonstep"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
	"github.com/goliatone/go-eticket/pkg/requirements"
	"github.com/goliatone/go-eticket/pkg/steps"
)

// app holds what every command resolves from configuration.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *steps.Catalog
	orch    *orchestrator.Orchestrator
	theme   *loadedManifest
}

func newApp(cmd *cobra.Command, htmlOptions ...vanilla.Option) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("configuration loaded", zap.String("file", cfg.File))
	}

	registry := requirements.Default()
	if cfg.Requirements != "" {
		registry, err = requirements.Load(os.DirFS(filepath.Dir(cfg.Requirements)), filepath.Base(cfg.Requirements))
		if err != nil {
			return nil, err
		}
		logger.Debug("requirements loaded", zap.String("file", cfg.Requirements), zap.Int("paths", len(registry.Paths())))
	}
	catalog := steps.New(steps.WithRegistry(registry))
	htmlOptions = append([]vanilla.Option{vanilla.WithBoolMapping(catalog.BoolMapping())}, htmlOptions...)

	options := []orchestrator.Option{orchestrator.WithCatalog(catalog)}

	if cfg.Presets != "" {
		presets, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(cfg.Presets)), filepath.Base(cfg.Presets))
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(presets))
	}

	var manifest *loadedManifest
	if cfg.Theme.Manifest != "" {
		manifest, err = loadManifest(cfg.Theme.Manifest)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithThemeManifests(cfg.Theme.Name, cfg.Theme.Variant, manifest.Manifest))

		// Manifest partials resolve next to the manifest before the
		// embedded bundle.
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(manifest.Dir),
			gotemplate.WithFS(vanilla.TemplatesFS()),
		)
		if err != nil {
			return nil, err
		}
		htmlOptions = append(htmlOptions, vanilla.WithTemplateRenderer(engine))
		logger.Debug("theme manifest loaded", zap.String("theme", manifest.Manifest.Name), zap.String("file", cfg.Theme.Manifest))
	}

	renderers := render.NewRegistry()
	html, err := vanilla.New(htmlOptions...)
	if err != nil {
		return nil, err
	}
	renderers.MustRegister(html)
	renderers.MustRegister(jsonstep.New(jsonstep.WithIndent("  "), jsonstep.WithBoolMapping(catalog.BoolMapping())))
	options = append(options, orchestrator.WithRegistry(renderers))

	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		orch:    orchestrator.New(options...),
		theme:   manifest,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel
	return cfg.Build()
}

// bindCatalogFlags registers the configuration flags shared by the offline
// commands. serve registers the full set through config.BindFlags.
func bindCatalogFlags(fs *pflag.FlagSet) {
	fs.String("requirements", "", "YAML file overriding the field requirement registry")
	fs.String("presets", "", "JSON file with step copy overrides")
	fs.String("theme", "", "theme name")
	fs.String("theme-variant", "", "theme variant")
	fs.String("theme-manifest", "", "YAML theme manifest")
}
