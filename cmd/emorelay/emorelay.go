// Package emorelaycmder is the root emorelay command.
package emorelaycmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/emorelay/cmd/emorelay/chat"
	classifycmder "github.com/papercomputeco/emorelay/cmd/emorelay/classify"
	configcmder "github.com/papercomputeco/emorelay/cmd/emorelay/config"
	initcmder "github.com/papercomputeco/emorelay/cmd/emorelay/init"
	servecmder "github.com/papercomputeco/emorelay/cmd/emorelay/serve"
	versioncmder "github.com/papercomputeco/emorelay/cmd/version"
)

const emorelayLongDesc string = `emorelay is a small chat relay that tags conversations with emotions.

Run the server and talk to it:
  emorelay init               Write a starter .emorelay/config.toml
  emorelay serve              Run the API server
  emorelay chat               Chat with a running server
  emorelay classify "text"    Tag text with the local emotion lexicon`

const emorelayShortDesc string = "emorelay - emotion-aware chat relay"

func NewEmorelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "emorelay",
		Short:        emorelayShortDesc,
		Long:         emorelayLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .emorelay/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(classifycmder.NewClassifyCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
