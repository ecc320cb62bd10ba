package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eticket",
		Short: "Electronic travel declaration wizard",
		Long: `eticket renders the multi-step immigration and customs declaration as
server-side HTML forms, as terminal prompts or as JSON step documents.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "configuration file (defaults to ./eticket.yaml when present)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newFillCmd(),
		newRenderCmd(),
		newRequirementsCmd(),
	)
	return root
}
