package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/primitives/domain/bank"
)

var errRejected = errors.New("value rejected")

var checkCmd = &cobra.Command{
	Use:   "check <primitive> <value>",
	Short: "Validate a value against a primitive",
	Long: `Parse and validate a textual value with the named primitive's rule.

Examples:
  primitives check IBAN GB82WEST12345698765432
  primitives check CompactDate 20240115
  primitives check PositiveAmount -- -5`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	name, value := args[0], args[1]

	d, ok := bank.Lookup(name)
	if !ok {
		var names []string
		for _, p := range bank.Primitives() {
			names = append(names, p.Name())
		}
		return fmt.Errorf("unknown primitive %q, known: %s", name, strings.Join(names, ", "))
	}

	out := cmd.OutOrStdout()
	if r := d.CheckText(value); !r.Valid {
		fmt.Fprintf(out, "%s %s rejected %q: %s\n", crossMark, d.Name(), value, r.Reason)
		return errRejected
	}
	fmt.Fprintf(out, "%s %s accepts %q\n", checkMark, d.Name(), value)
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
