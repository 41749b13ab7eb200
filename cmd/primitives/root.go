package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/primitives/config"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "primitives",
	Short: "Bank API built on self-describing domain primitives",
	Long: `primitives serves a small bank API whose request and response fields
are domain primitives. Each primitive validates itself and publishes its
wire format to the generated OpenAPI and JSON Schema documents.

Quick start:
  primitives serve                     # Start the HTTP server
  primitives schemas                   # Print the discovered wire formats
  primitives check IBAN GB82WEST12345698765432`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "primitives.yaml", "config file path")
}

// loadConfig reads the config file when present, else the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}
