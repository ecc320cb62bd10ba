package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/renderers/tui"
	"github.com/goliatone/go-eticket/pkg/steps"
	"github.com/goliatone/go-eticket/pkg/visibility/expr"
	"github.com/goliatone/go-eticket/pkg/wizard"
)

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a declaration interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runFill,
	}
	flags := cmd.Flags()
	bindCatalogFlags(flags)
	flags.Int("travelers", 1, "number of travelers in the declaration")
	flags.StringP("output", "o", "", "write the declaration JSON to this file")
	flags.String("style", "dark", "glamour style for the summary (dark, light, notty, ascii)")
	flags.Int("width", 80, "summary word wrap width")
	return cmd
}

func runFill(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	out := cmd.OutOrStdout()
	prompts, err := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(out)),
		tui.WithRules(a.catalog.Rules()),
		tui.WithBoolMapping(a.catalog.BoolMapping()),
	)
	if err != nil {
		return err
	}

	nav, err := fillDeclaration(cmd.Context(), a.catalog, a.cfg.Travelers, prompts, cmd.ErrOrStderr())
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "declaration abandoned")
		return nil
	}
	if err != nil {
		return err
	}
	values := nav.Form().Values()
	a.logger.Debug("declaration collected", zap.Int("steps", len(nav.Wizard().Steps)))

	style, _ := cmd.Flags().GetString("style")
	width, _ := cmd.Flags().GetInt("width")
	summary, err := tui.RenderMarkdown(tui.Markdown(nav.Wizard().Steps, values, a.catalog.BoolMapping()), style, width)
	if err != nil {
		return err
	}
	fmt.Fprint(out, summary)

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return nil
	}
	return writeDeclaration(path, nav.Form())
}

// fillDeclaration walks the wizard with the prompt renderer until the last
// step validates. A step that fails navigation is prompted again with its
// failures written to report.
func fillDeclaration(ctx context.Context, catalog *steps.Catalog, travelers int, prompts *tui.Renderer, report io.Writer) (*wizard.Navigator, error) {
	wiz, err := catalog.Wizard(travelers)
	if err != nil {
		return nil, err
	}
	form := formstate.New(formstate.WithRules(catalog.Rules()))
	nav, err := wizard.New(wiz, form,
		wizard.WithRules(catalog.Rules()),
		wizard.WithEvaluator(expr.New(expr.WithMapping(catalog.BoolMapping()))),
	)
	if err != nil {
		return nil, err
	}

	for {
		if err := prompts.Collect(ctx, nav.Current(), form); err != nil {
			return nil, err
		}
		err := nav.Next()
		var invalid *wizard.ValidationError
		switch {
		case errors.As(err, &invalid):
			for _, path := range formstate.SortedKeys(invalid.Failures) {
				fmt.Fprintf(report, "  %s: %s\n", path, invalid.Failures[path])
			}
			continue
		case errors.Is(err, wizard.ErrLastStep):
			return nav, nil
		case err != nil:
			return nil, err
		}
	}
}

// writeDeclaration stores the typed declaration decoded from form as JSON.
func writeDeclaration(path string, form *formstate.Form) error {
	decl, err := steps.DecodeDeclaration(form)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write declaration: %w", err)
	}
	if err := encodeJSON(f, decl); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode declaration: %w", err)
	}
	return nil
}
