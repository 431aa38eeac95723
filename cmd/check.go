package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/slangc/internal/compiler"
	"github.com/arnavsurve/slangc/internal/report"
)

// check: parse and analyze, print diagnostics
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Parse and analyze slang source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			units, err := compiler.CompileFiles(cmd.Context(), args, compileOptions(cmd, cfg))
			if err != nil {
				return err
			}

			failed := 0
			for _, unit := range units {
				if err := report.RenderDiagnostics(cmd.ErrOrStderr(), unit.Path, unit.Diagnostics); err != nil {
					return err
				}
				if unit.HasErrors() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files have errors", ErrCheckFailed, failed, len(units))
			}

			if cfg.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %d files ok\n", len(units))
			}
			return nil
		},
	}
}
