package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/primitives/bootstrap"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the bank API server.

The server will:
  - Load configuration from primitives.yaml (or --config)
  - Or load configuration from PRIMITIVES_* environment variables
  - Discover the primitive modules and build the schema registry
  - Serve the API, /openapi.json, /swagger/, /schemas and /metrics

Environment variables:
  PRIMITIVES_SERVER_PORT           - Server port (default: 8080)
  PRIMITIVES_DATABASE_DRIVER       - memory or sqlite (default: memory)
  PRIMITIVES_DATABASE_DSN          - SQLite path (default: primitives.db)
  PRIMITIVES_OPENAPI_TRANSFORMER   - fragments or underlying
  PRIMITIVES_LOG_LEVEL             - debug, info, warn, error

Examples:
  primitives serve
  primitives serve --config /etc/primitives/config.yaml
  primitives serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "reload the config file on change or SIGHUP")
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := bootstrap.Options{Version: version}

	var (
		app *bootstrap.App
		err error
	)
	if _, statErr := os.Stat(cfgFile); statErr == nil && hotReload {
		app, err = bootstrap.NewWithHotReload(cfgFile, opts)
	} else {
		cfg, loadErr := loadConfig()
		if loadErr != nil {
			return loadErr
		}
		app, err = bootstrap.New(cfg, opts)
	}
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
