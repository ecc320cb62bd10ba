package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRequirementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "List the field requirement registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			requiredOnly, _ := cmd.Flags().GetBool("required")
			registry := a.catalog.Registry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tREQUIRED")
			for _, path := range registry.Paths() {
				required := registry.IsRequired(path)
				if requiredOnly && !required {
					continue
				}
				fmt.Fprintf(w, "%s\t%t\n", path, required)
			}
			return w.Flush()
		},
	}
	bindCatalogFlags(cmd.Flags())
	cmd.Flags().Bool("required", false, "only list required fields")
	return cmd
}
