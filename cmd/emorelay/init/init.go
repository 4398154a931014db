// Package initcmder provides the init command for initializing a local
// .emorelay directory with a starter config.toml.
package initcmder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/emorelay/pkg/cliui"
	"github.com/papercomputeco/emorelay/pkg/config"
	"github.com/papercomputeco/emorelay/pkg/dotdir"
)

const initLongDesc string = `Initialize a new .emorelay/ directory in the current working directory.

Creates a local .emorelay/ directory that takes precedence over the default
~/.emorelay/ directory and writes a starter config.toml for the chosen
provider preset. API keys are not written; set them with
"emorelay config set" or through the provider environment variables
(OPENAI_API_KEY, AZURE_OPENAI_API_KEY, OPENROUTER_API_KEY).

Examples:
  emorelay init
  emorelay init --preset azure
  emorelay init --preset openrouter --force`

const initShortDesc string = "Initialize a local .emorelay/ directory"

type initCommander struct {
	preset string
	force  bool
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "openai",
		fmt.Sprintf("Provider preset (%s)", strings.Join(config.ValidPresetNames(), ", ")))
	cmd.Flags().BoolVar(&cmder.force, "force", false, "Overwrite an existing config.toml")

	return cmd
}

func (c *initCommander) run(w io.Writer) error {
	cfg, err := config.PresetConfig(c.preset)
	if err != nil {
		return err
	}

	dir, err := dotdir.NewManager().Local()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil && !c.force {
		fmt.Fprintf(w, "Already initialized: %s\n", path)
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .emorelay directory: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return err
	}

	err = cliui.Step(w, fmt.Sprintf("Writing %s preset", c.preset), func() error {
		return cfger.SaveConfig(cfg)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s %s\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(path))
	return nil
}
