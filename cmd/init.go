package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/slangc/internal/config"
	"github.com/arnavsurve/slangc/internal/logging"
)

var ErrExists = errors.New("file already exists")

const mainTemplate = `// Entry point for a new slang project.
let greeting = "hello";

fn greet(name: string): string {
  return greeting + ", " + name;
}

let message = greet("world");
`

// init: scaffold a new project
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new slang project (slangc.yaml and main.sl)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			log := logging.FromContext(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "↪ scaffolding slang project in %q ...\n", dir)

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}

			cfgData, err := config.Default().Marshal()
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			files := []struct {
				name string
				data []byte
			}{
				{config.FileNames[0], cfgData},
				{"main" + config.DefaultSourceExt, []byte(mainTemplate)},
			}

			for _, f := range files {
				path := filepath.Join(dir, f.name)
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
				}
			}
			for _, f := range files {
				path := filepath.Join(dir, f.name)
				if err := os.WriteFile(path, f.data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				log.Debug("wrote file", "path", path)
				fmt.Fprintf(cmd.OutOrStdout(), "  created %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
