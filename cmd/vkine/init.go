package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/vkine/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a server config file",
	Long: `Write a vkined config file. By default the commented template is written and
values such as the MongoDB URI are read from the environment when the server starts.

With --from, an existing config is loaded with environment references and
defaults resolved, validated, and written out as the effective configuration.

Examples:
  vkine init
  vkine init --path /etc/vkine/config.toml --force
  vkine init --from config.toml --path /tmp/effective.toml`,
	Args: cobra.NoArgs,
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("path", "", "Config path (default: XDG config dir)")
	initCmd.Flags().String("from", "", "Resolve this config instead of writing the template")
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("path")
	from, _ := cmd.Flags().GetString("from")
	force, _ := cmd.Flags().GetBool("force")
	if path == "" {
		path = config.DefaultPath()
	}
	return writeConfig(cmd.OutOrStdout(), path, from, force)
}

func writeConfig(out io.Writer, path, from string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if from == "" {
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil
	}

	cfg, err := config.Load(from)
	if err != nil {
		return err
	}
	if err := cfg.Write(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s (resolved from %s)\n", path, from)
	return nil
}
