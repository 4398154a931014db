// Package servecmder provides the serve command that runs the emorelay API
// server.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/emorelay/api"
	"github.com/papercomputeco/emorelay/pkg/config"
	"github.com/papercomputeco/emorelay/pkg/dispatch"
	"github.com/papercomputeco/emorelay/pkg/emotion"
	"github.com/papercomputeco/emorelay/pkg/llm/provider"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/azure"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openai"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openrouter"
	"github.com/papercomputeco/emorelay/pkg/logger"
	"github.com/papercomputeco/emorelay/pkg/rag"
)

type serveCommander struct {
	listen      string
	staticDir   string
	mcp         bool
	provider    string
	model       string
	ragTarget   string
	lexiconPath string
	proxyURL    string
	logFile     string
	logJSON     bool
	debug       bool

	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the emorelay API server.

The server relays chat turns to an OpenAI-compatible provider (openai, azure,
openrouter), relays single messages to the RAG backend, tags text with the
local emotion lexicon, and serves MCP tools at /mcp.

Routes:
  POST /api/chat           {messages, model?, provider?, temperature?, max_tokens?}
  POST /api/emotion-chat   {message}  -> RAG backend JSON
  POST /api/emotion        {text}     -> {label, score, emoji}
  GET  /api/providers      supported providers and whether each is configured
  GET  /health             {ok: true}

Provider credentials come from config.toml or the usual environment variables
(OPENAI_API_KEY, AZURE_OPENAI_*, OPENROUTER_*). PORT overrides the listen port.

Examples:
  emorelay serve
  emorelay serve --listen :8080 --provider openrouter
  emorelay serve --static-dir ./public --rag-target http://127.0.0.1:8000`

const serveShortDesc string = "Run the emorelay API server"

var serveFlags = []string{
	config.FlagListen,
	config.FlagStaticDir,
	config.FlagMCP,
	config.FlagProvider,
	config.FlagModel,
	config.FlagRAGTarget,
	config.FlagLexicon,
	config.FlagProxyURL,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagStaticDir, &cmder.staticDir)
	config.AddBoolFlag(cmd, config.Flags, config.FlagMCP, &cmder.mcp)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagRAGTarget, &cmder.ragTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagLexicon, &cmder.lexiconPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagProxyURL, &cmder.proxyURL)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().BoolVar(&cmder.logJSON, "log-json", false, "Write JSON logs to stdout even on a terminal")

	return cmd
}

func (c *serveCommander) run() error {
	var closeLog func()
	var err error
	c.logger, closeLog, err = c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	server, err := NewServer(c.cfg, c.logger)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

// newLogger logs pretty to a terminal and JSON otherwise, optionally teeing
// JSON records into --log-file.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	pretty := !c.logJSON && term.IsTerminal(int(os.Stdout.Fd()))
	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(pretty),
		logger.WithJSON(!pretty),
	)

	if c.logFile == "" {
		return console, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), func() { _ = f.Close() }, nil
}

// NewServer wires the resolver, dispatcher, RAG client and classifier from
// cfg into an API server.
func NewServer(cfg *config.Config, log *slog.Logger) (*api.Server, error) {
	resolver := provider.NewResolver(provider.Config{
		OpenAI: openai.Config{
			APIKey:  cfg.Providers.OpenAI.APIKey,
			BaseURL: cfg.Providers.OpenAI.BaseURL,
		},
		Azure: azure.Config{
			APIKey:     cfg.Providers.Azure.APIKey,
			Endpoint:   cfg.Providers.Azure.Endpoint,
			Deployment: cfg.Providers.Azure.Deployment,
			APIVersion: cfg.Providers.Azure.APIVersion,
		},
		OpenRouter: openrouter.Config{
			APIKey:  cfg.Providers.OpenRouter.APIKey,
			BaseURL: cfg.Providers.OpenRouter.BaseURL,
			SiteURL: cfg.Providers.OpenRouter.SiteURL,
			AppName: cfg.Providers.OpenRouter.AppName,
		},
	})

	if !provider.IsSupported(cfg.Chat.Provider) {
		return nil, fmt.Errorf("unsupported default provider %q (available: %v)",
			cfg.Chat.Provider, provider.SupportedProviders())
	}

	d, err := dispatch.New(dispatch.Config{
		Resolver:        resolver,
		DefaultProvider: cfg.Chat.Provider,
		DefaultModel:    cfg.Chat.Model,
		ProxyURL:        cfg.Network.ProxyURL,
		Logger:          log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	ragClient, err := rag.New(rag.Config{
		Target: cfg.RAG.Target,
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating rag client: %w", err)
	}

	classifier := emotion.NewClassifier(nil)
	if path := cfg.Emotion.LexiconPath; path != "" {
		lex, err := emotion.LoadLexicon(path)
		if err != nil {
			return nil, err
		}
		classifier = emotion.NewClassifier(lex)
		log.Info("loaded emotion lexicon", "path", path)
	}

	for _, name := range provider.SupportedProviders() {
		if !resolver.Configured(name) {
			log.Debug("provider not configured", "provider", name)
		}
	}

	return api.NewServer(api.Config{
		ListenAddr: cfg.Server.ListenAddr(),
		StaticDir:  cfg.Server.StaticDir,
		MCP:        cfg.Server.MCPEnabled(),
		Dispatcher: d,
		RAG:        ragClient,
		Providers:  resolver,
		Classifier: classifier,
	}, log)
}
