package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "spacedesk",
		Short:         "Administration backend for a co-working space operator",
		Long:          "spacedesk serves the admin REST API and an MCP tool server over one SQLite store.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("SPACEDESK_CONFIG_PATH", configPath)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides SPACEDESK_CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd, mcpCmd, apikeyCmd, statsCmd)
	apikeyCmd.AddCommand(apikeyCreateCmd)
	statsCmd.AddCommand(statsVerifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
