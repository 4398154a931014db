package emotion

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Label is an emotion category.
type Label string

const (
	Joy      Label = "joy"
	Anger    Label = "anger"
	Sadness  Label = "sadness"
	Fear     Label = "fear"
	Surprise Label = "surprise"
	Love     Label = "love"
	Neutral  Label = "neutral"
)

var emoji = map[Label]string{
	Joy:      "😊",
	Anger:    "😠",
	Sadness:  "😢",
	Fear:     "😨",
	Surprise: "😮",
	Love:     "😍",
	Neutral:  "😐",
}

// Labels returns every label, the non-neutral categories first in their
// default declaration order.
func Labels() []Label {
	return []Label{Joy, Anger, Sadness, Fear, Surprise, Love, Neutral}
}

// Valid reports whether l is a known label.
func (l Label) Valid() bool {
	_, ok := emoji[l]
	return ok
}

// Emoji returns the display glyph for l, falling back to the neutral face.
func (l Label) Emoji() string {
	if e, ok := emoji[l]; ok {
		return e
	}
	return emoji[Neutral]
}

// PolarityEntry is a signed sentiment weight for a token.
type PolarityEntry struct {
	Token  string `toml:"token"`
	Weight int    `toml:"weight"`
}

// Category lists the trigger phrases for one label.
type Category struct {
	Label   Label    `toml:"label"`
	Phrases []string `toml:"phrases"`
}

// Lexicon holds the polarity table and the category table. Category order is
// significant: on equal counts the category declared first wins.
type Lexicon struct {
	Polarity   []PolarityEntry `toml:"polarity"`
	Categories []Category      `toml:"category"`
}

// DefaultLexicon returns the built-in mixed Chinese/English lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Polarity: []PolarityEntry{
			{"good", 2}, {"great", 3}, {"awesome", 3}, {"happy", 2}, {"love", 3}, {"like", 1},
			{"满意", 2}, {"开心", 2},
			{"bad", -2}, {"terrible", -3}, {"hate", -3}, {"angry", -2},
			{"垃圾", -3}, {"失望", -2},
		},
		Categories: []Category{
			{Joy, []string{"开心", "高兴", "棒", "太好了", "赞", "快乐", "喜欢", "满意", "兴奋", "happy", "great", "awesome", "good", "yay", "love"}},
			{Anger, []string{"生气", "愤怒", "气死", "怒", "烂", "垃圾", "讨厌", "气愤", "angry", "mad", "furious", "hate"}},
			{Sadness, []string{"伤心", "难过", "难受", "沮丧", "失望", "sad", "unhappy", "depressed"}},
			{Fear, []string{"害怕", "恐惧", "担心", "不安", "怕", "worry", "afraid", "scared"}},
			{Surprise, []string{"惊讶", "惊喜", "震惊", "哇", "居然", "wow", "surprised", "shocked"}},
			{Love, []string{"爱", "热爱", "喜欢你", "感谢", "感激", "谢谢", "love", "adore", "kudos"}},
		},
	}
}

// LoadLexicon reads a lexicon from a TOML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon parses and validates a TOML lexicon:
//
//	[[polarity]]
//	token = "good"
//	weight = 2
//
//	[[category]]
//	label = "joy"
//	phrases = ["happy", "开心"]
func ParseLexicon(data []byte) (*Lexicon, error) {
	lex := &Lexicon{}
	if err := toml.Unmarshal(data, lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon TOML: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// Validate checks that every entry is usable.
func (l *Lexicon) Validate() error {
	var errs []error

	for i, p := range l.Polarity {
		if strings.TrimSpace(p.Token) == "" {
			errs = append(errs, fmt.Errorf("polarity entry %d: empty token", i))
		}
	}

	seen := make(map[Label]bool, len(l.Categories))
	for i, c := range l.Categories {
		switch {
		case !c.Label.Valid():
			errs = append(errs, fmt.Errorf("category %d: unknown label %q", i, c.Label))
		case c.Label == Neutral:
			errs = append(errs, fmt.Errorf("category %d: neutral cannot have trigger phrases", i))
		case seen[c.Label]:
			errs = append(errs, fmt.Errorf("category %d: duplicate label %q", i, c.Label))
		}
		seen[c.Label] = true

		for j, phrase := range c.Phrases {
			if strings.TrimSpace(phrase) == "" {
				errs = append(errs, fmt.Errorf("category %q phrase %d: empty phrase", c.Label, j))
			}
		}
	}

	return errors.Join(errs...)
}
