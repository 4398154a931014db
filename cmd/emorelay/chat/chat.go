// Package chatcmder provides the chat command, an interactive terminal client
// for a running emorelay server.
package chatcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/emorelay/pkg/config"
	"github.com/papercomputeco/emorelay/pkg/emotion"
	"github.com/papercomputeco/emorelay/pkg/logger"
)

type chatCommander struct {
	target      string
	provider    string
	model       string
	lexiconPath string
	emotionMode bool
	debug       bool
}

const chatLongDesc string = `Start an interactive chat session against a running emorelay server.

Each message is sent to /api/chat along with the conversation so far. With
--emotion, messages go to /api/emotion-chat instead: only the current message
is sent and the reply is prefixed with the emotion the RAG backend detected.

The line under the transcript tags what you are typing with the local emotion
lexicon. Type /clear to reset the conversation and /exit or Ctrl+C to quit.

Examples:
  emorelay chat
  emorelay chat --provider openrouter --model openai/gpt-4o-mini
  emorelay chat --emotion --target http://localhost:3000`

const chatShortDesc string = "Interactive chat against an emorelay server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagTarget,
				config.FlagLexicon,
			})

			cmder.target = v.GetString("client.target")
			cmder.lexiconPath = v.GetString("emotion.lexicon_path")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagLexicon, &cmder.lexiconPath)
	cmd.Flags().StringVarP(&cmder.provider, "provider", "p", "", "Provider to request (server default when empty)")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model to request (server default when empty)")
	cmd.Flags().BoolVarP(&cmder.emotionMode, "emotion", "e", false, "Route messages through the RAG emotion chat")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	// Debug logs would tear the alt screen, so they go to stderr only when
	// stderr is redirected away from the terminal.
	log := logger.Nop()
	if c.debug && !term.IsTerminal(int(os.Stderr.Fd())) {
		log = logger.New(logger.WithDebug(true), logger.WithJSON(true), logger.WithWriter(os.Stderr))
	}

	classifier := emotion.NewClassifier(nil)
	if c.lexiconPath != "" {
		lex, err := emotion.LoadLexicon(c.lexiconPath)
		if err != nil {
			return err
		}
		classifier = emotion.NewClassifier(lex)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		// Force TrueColor, lipgloss misdetects some terminals.
		// See: https://github.com/charmbracelet/lipgloss/issues/439
		renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
		renderer.SetColorProfile(termenv.TrueColor)
		lipgloss.SetDefaultRenderer(renderer)
	}

	client := newRelayClient(c.target, c.provider, c.model, log)
	model := newChatModel(ctx, client, classifier, c.emotionMode, c.label())

	program := bubbletea.NewProgram(model, bubbletea.WithAltScreen(), bubbletea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}

// label summarizes the session target for the header.
func (c *chatCommander) label() string {
	label := c.target
	if c.provider != "" {
		label += " · " + c.provider
	}
	if c.model != "" {
		label += "/" + c.model
	}
	return label
}

