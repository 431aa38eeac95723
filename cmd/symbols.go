package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/slangc/internal/compiler"
	"github.com/arnavsurve/slangc/internal/report"
)

// symbols: print the symbol table of one file
func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols FILE",
		Short: "Print the symbol table of a slang source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			unit, err := compiler.CompileFile(cmd.Context(), args[0], compileOptions(cmd, cfg))
			if err != nil {
				return err
			}
			if err := report.RenderDiagnostics(cmd.ErrOrStderr(), unit.Path, unit.Diagnostics); err != nil {
				return err
			}
			if unit.Global == nil {
				return fmt.Errorf("%w: %s has syntax errors", ErrCheckFailed, unit.Path)
			}

			if err := report.RenderSymbols(cmd.OutOrStdout(), report.Collect(unit.Global), cfg.Output); err != nil {
				return err
			}
			if unit.HasErrors() {
				return fmt.Errorf("%w: %s", ErrCheckFailed, unit.Path)
			}
			return nil
		},
	}
}
