// Package classifycmder provides the classify command for tagging text with
// the local lexicon-based emotion classifier.
package classifycmder

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/emorelay/pkg/cliui"
	"github.com/papercomputeco/emorelay/pkg/config"
	"github.com/papercomputeco/emorelay/pkg/emotion"
)

const classifyLongDesc string = `Classify text with the local emotion lexicon.

Text is taken from the arguments, joined by spaces, or from stdin when no
arguments are given. The output is the emotion emoji, label and polarity
score. Nothing is printed for empty or whitespace-only input.

No server or network access is needed.

Examples:
  emorelay classify "我很开心，谢谢你"
  echo "this is good and great" | emorelay classify
  emorelay classify --json bad but wow
  emorelay classify --lexicon ./lexicon.toml "what a storm"`

const classifyShortDesc string = "Classify text with the local emotion lexicon"

type classifyCommander struct {
	lexiconPath string
	json        bool
}

var classifyFlags = []string{config.FlagLexicon}

func NewClassifyCmd() *cobra.Command {
	cmder := &classifyCommander{}

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: classifyShortDesc,
		Long:  classifyLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, classifyFlags)
			cmder.lexiconPath = v.GetString("emotion.lexicon_path")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			}
			return cmder.run(cmd.OutOrStdout(), text)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagLexicon, &cmder.lexiconPath)
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print the result as JSON")

	return cmd
}

func (c *classifyCommander) run(w io.Writer, text string) error {
	classifier, err := newClassifier(c.lexiconPath)
	if err != nil {
		return err
	}

	res, ok := classifier.Classify(text)
	if !ok {
		return nil
	}

	if c.json {
		enc := json.NewEncoder(w)
		return enc.Encode(struct {
			emotion.Result
			Emoji string `json:"emoji"`
		}{res, res.Label.Emoji()})
	}

	fmt.Fprintln(w, cliui.EmotionBadge(res))
	return nil
}

func newClassifier(lexiconPath string) (*emotion.Classifier, error) {
	if lexiconPath == "" {
		return emotion.NewClassifier(nil), nil
	}

	lex, err := emotion.LoadLexicon(lexiconPath)
	if err != nil {
		return nil, err
	}
	return emotion.NewClassifier(lex), nil
}
