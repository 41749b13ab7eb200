package main

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/core/formatter"
	"github.com/artpar/primitives/core/registry"
	"github.com/artpar/primitives/core/schema"
)

var (
	schemasFormat string
	modulesFormat string
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Print the wire format registered for each primitive",
	Long: `Scan the primitive modules named in the configuration and print the
resulting registry, keyed by fully qualified type name.

Examples:
  primitives schemas
  primitives schemas --format json
  primitives schemas --format table`,
	RunE: runSchemas,
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Print the module discovery order",
	Long: `Print the modules visited by the discovery scan in traversal order.
Modules that carry the primitives marker are flagged with '*'.`,
	RunE: runModules,
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(modulesCmd)

	schemasCmd.Flags().StringVarP(&schemasFormat, "format", "f", "yaml", "output format: yaml, json or table")
	modulesCmd.Flags().StringVarP(&modulesFormat, "format", "f", "table", "output format: table, json or yaml")
}

// discover builds the process-wide registry with the configured scan settings.
func discover(cmd *cobra.Command) (*registry.Registry, discovery.Report, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, discovery.Report{}, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	discovery.Configure(discovery.Config{
		Policy:         cfg.DiscoveryPolicy(),
		SystemPrefixes: cfg.Discovery.SystemPrefixes,
		Logger:         logger,
	})
	if len(cfg.Discovery.Roots) > 0 {
		discovery.SetRoots(cfg.Discovery.Roots...)
	}

	reg, err := discovery.Registry()
	if err != nil {
		return nil, discovery.Report{}, fmt.Errorf("discover primitives: %w", err)
	}
	return reg, discovery.LastReport(), nil
}

func runSchemas(cmd *cobra.Command, args []string) error {
	f, err := formatter.Lookup(schemasFormat)
	if err != nil {
		return err
	}
	reg, _, err := discover(cmd)
	if err != nil {
		return err
	}
	return f.Format(cmd.OutOrStdout(), schemasOutput(reg), formatter.Options{MaxWidth: 60})
}

// schemasOutput keys fragments by fully qualified type name.
func schemasOutput(reg *registry.Registry) formatter.Output {
	all := reg.All()
	byName := make(map[string]schema.Fragment, len(all))
	out := formatter.Output{
		Value:   byName,
		Columns: []string{"type", "kind", "format", "pattern"},
	}
	for _, t := range reg.Types() {
		f := all[t]
		name := registry.TypeName(t)
		byName[name] = f
		out.Rows = append(out.Rows, []string{name, f.Kind.String(), f.Format, f.Pattern})
	}
	return out
}

// modulesReport is the structured form of the modules output.
type modulesReport struct {
	Modules []moduleEntry `json:"modules" yaml:"modules"`
	Skipped []string      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type moduleEntry struct {
	Name   string `json:"name" yaml:"name"`
	Marked bool   `json:"marked" yaml:"marked"`
}

func runModules(cmd *cobra.Command, args []string) error {
	f, err := formatter.Lookup(modulesFormat)
	if err != nil {
		return err
	}
	_, report, err := discover(cmd)
	if err != nil {
		return err
	}
	return f.Format(cmd.OutOrStdout(), modulesOutput(report), formatter.Options{})
}

// modulesOutput lists modules in traversal order, marked ones flagged with '*'.
func modulesOutput(report discovery.Report) formatter.Output {
	var value modulesReport
	out := formatter.Output{Columns: []string{"", "module"}}
	for _, name := range report.Order {
		marked := slices.Contains(report.Marked, name)
		value.Modules = append(value.Modules, moduleEntry{Name: name, Marked: marked})

		mark := " "
		if marked {
			mark = "*"
		}
		out.Rows = append(out.Rows, []string{mark, name})
	}
	for _, problem := range report.Skipped {
		value.Skipped = append(value.Skipped, problem.Error())
		out.Rows = append(out.Rows, []string{"!", "skipped: " + problem.Error()})
	}
	out.Value = value
	return out
}
