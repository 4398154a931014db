package emotion_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/emorelay/pkg/emotion"
)

var _ = Describe("Classify", func() {
	It("returns no result for empty input", func() {
		_, ok := emotion.Classify("")
		Expect(ok).To(BeFalse())
	})

	It("returns no result for whitespace-only input", func() {
		_, ok := emotion.Classify("   \n\t")
		Expect(ok).To(BeFalse())
	})

	DescribeTable("default lexicon",
		func(text string, label emotion.Label, score int) {
			res, ok := emotion.Classify(text)
			Expect(ok).To(BeTrue())
			Expect(res.Label).To(Equal(label))
			Expect(res.Score).To(Equal(score))
		},
		Entry("joy and love tie, joy declared first", "我很开心，谢谢你", emotion.Joy, 2),
		Entry("two positive tokens", "this is good and great", emotion.Joy, 5),
		Entry("love hits joy and love, joy wins", "I love you", emotion.Joy, 3),
		Entry("category beats negative polarity", "bad but wow", emotion.Surprise, -2),
		Entry("case-insensitive", "I am SO HAPPY", emotion.Joy, 2),
		Entry("substring match", "goodbye", emotion.Joy, 2),
		Entry("weak polarity stays neutral", "I like it", emotion.Neutral, 1),
		Entry("negative polarity falls back to anger", "that was terrible", emotion.Anger, -3),
		Entry("nothing matches", "the sky is blue", emotion.Neutral, 0),
		Entry("chinese sadness", "我很难过", emotion.Sadness, 0),
		Entry("fear", "I'm scared and afraid", emotion.Fear, 0),
	)

	It("counts each polarity entry once", func() {
		res, ok := emotion.Classify("good good good")
		Expect(ok).To(BeTrue())
		Expect(res.Score).To(Equal(2))
	})

	It("is deterministic", func() {
		a, _ := emotion.Classify("wow I hate this, 垃圾")
		b, _ := emotion.Classify("wow I hate this, 垃圾")
		Expect(a).To(Equal(b))
	})
})

var _ = Describe("Classifier", func() {
	It("uses the default lexicon when given nil", func() {
		res, ok := emotion.NewClassifier(nil).Classify("awesome")
		Expect(ok).To(BeTrue())
		Expect(res).To(Equal(emotion.Result{Label: emotion.Joy, Score: 3}))
	})

	It("honors category order of a custom lexicon", func() {
		c := emotion.NewClassifier(&emotion.Lexicon{
			Categories: []emotion.Category{
				{Label: emotion.Fear, Phrases: []string{"storm"}},
				{Label: emotion.Surprise, Phrases: []string{"storm"}},
			},
		})
		res, ok := c.Classify("A STORM")
		Expect(ok).To(BeTrue())
		Expect(res.Label).To(Equal(emotion.Fear))
	})
})

var _ = Describe("Label", func() {
	It("maps every label to an emoji", func() {
		for _, l := range emotion.Labels() {
			Expect(l.Emoji()).NotTo(BeEmpty())
		}
		Expect(emotion.Joy.Emoji()).To(Equal("😊"))
		Expect(emotion.Neutral.Emoji()).To(Equal("😐"))
	})

	It("falls back to neutral for unknown labels", func() {
		Expect(emotion.Label("bored").Emoji()).To(Equal("😐"))
		Expect(emotion.Label("bored").Valid()).To(BeFalse())
	})
})

var _ = Describe("Lexicon", func() {
	It("validates the default lexicon", func() {
		Expect(emotion.DefaultLexicon().Validate()).To(Succeed())
	})

	It("parses TOML", func() {
		lex, err := emotion.ParseLexicon([]byte(`
[[polarity]]
token = "meh"
weight = -1

[[category]]
label = "sadness"
phrases = ["meh", "blah"]
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(lex.Polarity).To(Equal([]emotion.PolarityEntry{{Token: "meh", Weight: -1}}))
		Expect(lex.Categories).To(HaveLen(1))

		res, ok := emotion.NewClassifier(lex).Classify("Meh.")
		Expect(ok).To(BeTrue())
		Expect(res).To(Equal(emotion.Result{Label: emotion.Sadness, Score: -1}))
	})

	It("rejects unknown labels", func() {
		_, err := emotion.ParseLexicon([]byte(`
[[category]]
label = "bored"
phrases = ["zzz"]
`))
		Expect(err).To(MatchError(ContainSubstring(`unknown label "bored"`)))
	})

	It("rejects neutral and duplicate categories and empty phrases", func() {
		_, err := emotion.ParseLexicon([]byte(`
[[category]]
label = "neutral"
phrases = ["ok"]

[[category]]
label = "joy"
phrases = ["yay"]

[[category]]
label = "joy"
phrases = [" "]
`))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("neutral cannot have trigger phrases"))
		Expect(err.Error()).To(ContainSubstring(`duplicate label "joy"`))
		Expect(err.Error()).To(ContainSubstring("empty phrase"))
	})

	It("rejects malformed TOML", func() {
		_, err := emotion.ParseLexicon([]byte("[[polarity"))
		Expect(err).To(MatchError(ContainSubstring("parsing lexicon TOML")))
	})

	It("loads from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "lexicon.toml")
		Expect(os.WriteFile(path, []byte("[[polarity]]\ntoken = \"zen\"\nweight = 2\n"), 0o600)).To(Succeed())

		lex, err := emotion.LoadLexicon(path)
		Expect(err).NotTo(HaveOccurred())
		res, _ := emotion.NewClassifier(lex).Classify("zen")
		Expect(res).To(Equal(emotion.Result{Label: emotion.Joy, Score: 2}))
	})

	It("reports a missing file", func() {
		_, err := emotion.LoadLexicon(filepath.Join(GinkgoT().TempDir(), "nope.toml"))
		Expect(err).To(MatchError(ContainSubstring("reading lexicon")))
	})
})
