package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/primitives/adapters/sqlite"
	"github.com/artpar/primitives/config"
)

var validateCheckDatabase bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the configuration file.

Checks:
  - YAML syntax is valid
  - Every setting is in range
  - The primitive modules can be discovered
  - Database is writable (optional)

Examples:
  primitives validate
  primitives validate --config /etc/primitives/config.yaml --check-database`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckDatabase, "check-database", false, "check if the sqlite database is writable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", cfgFile)

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Fprintf(out, "  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Fprintf(out, "  %s Config file exists\n", checkMark)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)
	fmt.Fprintf(out, "  %s Listen: %s\n", checkMark, cfg.Server.Addr())
	fmt.Fprintf(out, "  %s Database: %s %s\n", checkMark, cfg.Database.Driver, cfg.Database.DSN)
	fmt.Fprintf(out, "  %s Transformer: %s\n", checkMark, cfg.OpenAPI.Transformer)

	reg, _, err := discover(cmd)
	if err != nil {
		fmt.Fprintf(out, "  %s Primitive discovery\n", crossMark)
		return err
	}
	fmt.Fprintf(out, "  %s Primitive discovery: %d fragments\n", checkMark, reg.Len())

	if validateCheckDatabase && cfg.Database.Driver == config.DriverSQLite {
		if err := checkDatabaseWritable(cfg.Database.DSN); err != nil {
			fmt.Fprintf(out, "  %s Database writable\n", crossMark)
			fmt.Fprintf(out, "      Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "  %s Database writable\n", checkMark)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func checkDatabaseWritable(dsn string) error {
	db, err := sqlite.Open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Migrate()
}
