package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-eticket/pkg/orchestrator"
	"github.com/goliatone/go-eticket/pkg/renderers/jsonstep"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render STEP",
		Short: "Render one declaration step as HTML or JSON",
		Example: `  eticket render contact-info
  eticket render personal-info --traveler 1 --format json
  eticket render customs --values answers.json -o customs.html`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
	flags := cmd.Flags()
	bindCatalogFlags(flags)
	flags.Int("traveler", 0, "traveler slot for per-traveler steps")
	flags.String("format", "html", "output format (html, json)")
	flags.String("values", "", "JSON file with values used to pre-fill the step")
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, vanilla.WithDefaultStyles())
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	flags := cmd.Flags()
	traveler, _ := flags.GetInt("traveler")
	format, _ := flags.GetString("format")

	renderer := vanilla.Name
	switch format {
	case "html":
	case "json":
		renderer = jsonstep.Name
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	var values map[string]any
	if path, _ := flags.GetString("values"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read values: %w", err)
		}
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("decode values %s: %w", path, err)
		}
	}

	out, err := a.orch.Generate(cmd.Context(), orchestrator.Request{
		StepID:       args[0],
		Traveler:     traveler,
		Renderer:     renderer,
		Values:       values,
		ThemeName:    a.cfg.Theme.Name,
		ThemeVariant: a.cfg.Theme.Variant,
	})
	if err != nil {
		return err
	}

	if path, _ := flags.GetString("output"); path != "" {
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "step %s written to %s\n", args[0], path)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
