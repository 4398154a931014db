// Package emotion tags text with an emotion label and a polarity score using
// two lexicons: per-category trigger phrases and signed token weights.
//
// Matching is plain substring containment, not word-boundary matching, so
// "good" also matches inside "goodbye". Category hits take precedence over
// polarity; polarity only refines the neutral fallback.
package emotion

import "strings"

// Result is the outcome of a classification.
type Result struct {
	Label Label `json:"label"`
	Score int   `json:"score"`
}

type polarityToken struct {
	token  string
	lower  string
	weight int
}

type categoryPhrases struct {
	label   Label
	phrases []string // lowercased
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	polarity   []polarityToken
	categories []categoryPhrases
}

// NewClassifier prepares lex for classification. A nil lexicon means the
// default one.
func NewClassifier(lex *Lexicon) *Classifier {
	if lex == nil {
		lex = DefaultLexicon()
	}

	c := &Classifier{
		polarity:   make([]polarityToken, 0, len(lex.Polarity)),
		categories: make([]categoryPhrases, 0, len(lex.Categories)),
	}
	for _, p := range lex.Polarity {
		c.polarity = append(c.polarity, polarityToken{
			token:  p.Token,
			lower:  strings.ToLower(p.Token),
			weight: p.Weight,
		})
	}
	for _, cat := range lex.Categories {
		phrases := make([]string, len(cat.Phrases))
		for i, phrase := range cat.Phrases {
			phrases[i] = strings.ToLower(phrase)
		}
		c.categories = append(c.categories, categoryPhrases{label: cat.Label, phrases: phrases})
	}
	return c
}

var defaultClassifier = NewClassifier(DefaultLexicon())

// Classify runs the default classifier.
func Classify(text string) (Result, bool) {
	return defaultClassifier.Classify(text)
}

// Classify returns the label and polarity score of text. The boolean is false
// for empty or whitespace-only text: there is nothing to show, which is not
// the same as neutral.
func (c *Classifier) Classify(text string) (Result, bool) {
	if strings.TrimSpace(text) == "" {
		return Result{}, false
	}

	lower := strings.ToLower(text)

	// Each polarity entry counts at most once. The raw text is checked too so
	// tokens whose lowercase form differs still match as written.
	score := 0
	for _, p := range c.polarity {
		if strings.Contains(lower, p.lower) || strings.Contains(text, p.token) {
			score += p.weight
		}
	}

	label := Neutral
	best := 0
	for _, cat := range c.categories {
		count := 0
		for _, phrase := range cat.phrases {
			if strings.Contains(lower, phrase) {
				count++
			}
		}
		// strictly greater: the first category to reach the max keeps it
		if count > best {
			best = count
			label = cat.label
		}
	}

	if label == Neutral {
		switch {
		case score > 1:
			label = Joy
		case score < -1:
			label = Anger
		}
	}

	return Result{Label: label, Score: score}, true
}
