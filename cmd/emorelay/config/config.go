// Package configcmder provides the config command for managing persistent
// emorelay configuration stored in the .emorelay/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/emorelay/pkg/config"
)

const configLongDesc string = `Manage persistent emorelay configuration.

Configuration is stored as config.toml in the .emorelay/ directory and provides
default values for command flags. Environment variables override the file and
CLI flags override both.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.port, server.static_dir, server.mcp,
  chat.provider, chat.model,
  providers.openai.api_key, providers.openai.base_url,
  providers.azure.api_key, providers.azure.endpoint,
  providers.azure.deployment, providers.azure.api_version,
  providers.openrouter.api_key, providers.openrouter.base_url,
  providers.openrouter.site_url, providers.openrouter.app_name,
  network.proxy_url, rag.target, emotion.lexicon_path, client.target

Use subcommands to get, set, or list configuration values:
  emorelay config set <key> <value>    Set a configuration value
  emorelay config get <key>            Get a configuration value
  emorelay config list                 List all configuration values

Examples:
  emorelay config set chat.provider openrouter
  emorelay config set providers.azure.deployment gpt-35-turbo
  emorelay config get chat.model
  emorelay config list`

const configShortDesc string = "Manage persistent emorelay configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// completeKeys offers config keys for the first positional argument.
func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
