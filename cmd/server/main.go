package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Embedded zone database so the calendar timezone resolves on hosts
	// without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// Version is overridden at link time.
var Version = "dev"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "prodsched",
		Short: "Production schedule server",
		Long: `prodsched keeps a shared production schedule: projects with start,
end and due dates, a working-day calendar with holidays, progress tracking
and spreadsheet import. It serves a JSON API and an MCP endpoint.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				return os.Setenv("PRODSCHED_CONFIG_PATH", configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), "")
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides PRODSCHED_CONFIG_PATH)")

	cmd.AddCommand(serveCmd(), importCmd(), migrateLegacyCmd(), versionCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var transportMode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API or the stdio MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), transportMode)
		},
	}
	cmd.Flags().StringVar(&transportMode, "transport", "", "http or stdio (overrides config)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Append the rows of a spreadsheet to the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func migrateLegacyCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "migrate-legacy <database.json>",
		Short: "Load a legacy JSON project file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateLegacy(cmd.Context(), cmd.OutOrStdout(), args[0], force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace a non-empty schedule")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prodsched %s\n", Version)
		},
	}
}
