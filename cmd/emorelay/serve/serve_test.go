package servecmder_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/papercomputeco/emorelay/cmd/emorelay/serve"
	"github.com/papercomputeco/emorelay/pkg/config"
	"github.com/papercomputeco/emorelay/pkg/logger"
)

var _ = Describe("NewServeCmd", func() {
	It("registers the server flags", func() {
		cmd := servecmder.NewServeCmd()
		for _, name := range []string{"listen", "static-dir", "mcp", "provider", "model", "rag-target", "lexicon", "proxy-url", "log-file", "log-json"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("rejects positional arguments", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("NewServer", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.NewDefaultConfig()
	})

	It("builds a server from the default config", func() {
		server, err := servecmder.NewServer(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
	})

	It("rejects an unsupported default provider", func() {
		cfg.Chat.Provider = "anthropic"
		_, err := servecmder.NewServer(cfg, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("unsupported default provider")))
	})

	It("accepts a default provider in any case", func() {
		cfg.Chat.Provider = "OpenRouter"
		server, err := servecmder.NewServer(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
	})

	It("rejects an invalid RAG target", func() {
		cfg.RAG.Target = "not a url"
		_, err := servecmder.NewServer(cfg, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("rag client")))
	})

	It("fails when the lexicon file is missing", func() {
		cfg.Emotion.LexiconPath = filepath.Join(GinkgoT().TempDir(), "missing.toml")
		_, err := servecmder.NewServer(cfg, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("reading lexicon")))
	})

	It("loads a custom lexicon file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "lexicon.toml")
		Expect(os.WriteFile(path, []byte(`
[[polarity]]
token = "yay"
weight = 2

[[category]]
label = "joy"
phrases = ["yay"]
`), 0o600)).To(Succeed())
		cfg.Emotion.LexiconPath = path

		server, err := servecmder.NewServer(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(server).NotTo(BeNil())
	})
})
