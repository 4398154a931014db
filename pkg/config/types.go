package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent emorelay configuration stored as
// config.toml in the .emorelay/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Server    ServerConfig    `toml:"server"`
	Chat      ChatConfig      `toml:"chat"`
	Providers ProvidersConfig `toml:"providers"`
	Network   NetworkConfig   `toml:"network"`
	RAG       RAGConfig       `toml:"rag"`
	Emotion   EmotionConfig   `toml:"emotion"`
	Client    ClientConfig    `toml:"client"`
}

// ServerConfig holds settings for "emorelay serve".
type ServerConfig struct {
	Listen    string `toml:"listen,omitempty"`
	Port      string `toml:"port,omitempty"`
	StaticDir string `toml:"static_dir,omitempty"`
	MCP       *bool  `toml:"mcp,omitempty"`
}

// ChatConfig holds the dispatch defaults applied when a request leaves
// provider or model unset.
type ChatConfig struct {
	Provider string `toml:"provider,omitempty"`
	Model    string `toml:"model,omitempty"`
}

// ProvidersConfig holds per-provider credentials and endpoints.
type ProvidersConfig struct {
	OpenAI     OpenAIConfig     `toml:"openai"`
	Azure      AzureConfig      `toml:"azure"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
}

type OpenAIConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

type AzureConfig struct {
	APIKey     string `toml:"api_key,omitempty"`
	Endpoint   string `toml:"endpoint,omitempty"`
	Deployment string `toml:"deployment,omitempty"`
	APIVersion string `toml:"api_version,omitempty"`
}

type OpenRouterConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
	SiteURL string `toml:"site_url,omitempty"`
	AppName string `toml:"app_name,omitempty"`
}

// NetworkConfig holds outbound network settings.
type NetworkConfig struct {
	ProxyURL string `toml:"proxy_url,omitempty"`
}

// RAGConfig holds the retrieval backend address.
type RAGConfig struct {
	Target string `toml:"target,omitempty"`
}

// EmotionConfig holds classifier settings. An empty LexiconPath selects the
// built-in lexicon.
type EmotionConfig struct {
	LexiconPath string `toml:"lexicon_path,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// emorelay server (e.g. emorelay chat). Values are full URLs.
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
// Secret values are masked by "config list".
type configKeyInfo struct {
	get    func(c *Config) string
	set    func(c *Config, v string) error
	secret bool
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.port": {
		get: func(c *Config) string { return c.Server.Port },
		set: func(c *Config, v string) error {
			if v != "" {
				n, err := strconv.ParseUint(v, 10, 16)
				if err != nil || n == 0 {
					return fmt.Errorf("invalid value for server.port: %q", v)
				}
			}
			c.Server.Port = v
			return nil
		},
	},
	"server.static_dir": {
		get: func(c *Config) string { return c.Server.StaticDir },
		set: func(c *Config, v string) error { c.Server.StaticDir = v; return nil },
	},
	"server.mcp": {
		get: func(c *Config) string {
			if c.Server.MCP == nil {
				return ""
			}
			return strconv.FormatBool(*c.Server.MCP)
		},
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for server.mcp: %w", err)
			}
			c.Server.MCP = &b
			return nil
		},
	},
	"chat.provider": {
		get: func(c *Config) string { return c.Chat.Provider },
		set: func(c *Config, v string) error { c.Chat.Provider = v; return nil },
	},
	"chat.model": {
		get: func(c *Config) string { return c.Chat.Model },
		set: func(c *Config, v string) error { c.Chat.Model = v; return nil },
	},
	"providers.openai.api_key": {
		get:    func(c *Config) string { return c.Providers.OpenAI.APIKey },
		set:    func(c *Config, v string) error { c.Providers.OpenAI.APIKey = v; return nil },
		secret: true,
	},
	"providers.openai.base_url": {
		get: func(c *Config) string { return c.Providers.OpenAI.BaseURL },
		set: func(c *Config, v string) error { c.Providers.OpenAI.BaseURL = v; return nil },
	},
	"providers.azure.api_key": {
		get:    func(c *Config) string { return c.Providers.Azure.APIKey },
		set:    func(c *Config, v string) error { c.Providers.Azure.APIKey = v; return nil },
		secret: true,
	},
	"providers.azure.endpoint": {
		get: func(c *Config) string { return c.Providers.Azure.Endpoint },
		set: func(c *Config, v string) error { c.Providers.Azure.Endpoint = v; return nil },
	},
	"providers.azure.deployment": {
		get: func(c *Config) string { return c.Providers.Azure.Deployment },
		set: func(c *Config, v string) error { c.Providers.Azure.Deployment = v; return nil },
	},
	"providers.azure.api_version": {
		get: func(c *Config) string { return c.Providers.Azure.APIVersion },
		set: func(c *Config, v string) error { c.Providers.Azure.APIVersion = v; return nil },
	},
	"providers.openrouter.api_key": {
		get:    func(c *Config) string { return c.Providers.OpenRouter.APIKey },
		set:    func(c *Config, v string) error { c.Providers.OpenRouter.APIKey = v; return nil },
		secret: true,
	},
	"providers.openrouter.base_url": {
		get: func(c *Config) string { return c.Providers.OpenRouter.BaseURL },
		set: func(c *Config, v string) error { c.Providers.OpenRouter.BaseURL = v; return nil },
	},
	"providers.openrouter.site_url": {
		get: func(c *Config) string { return c.Providers.OpenRouter.SiteURL },
		set: func(c *Config, v string) error { c.Providers.OpenRouter.SiteURL = v; return nil },
	},
	"providers.openrouter.app_name": {
		get: func(c *Config) string { return c.Providers.OpenRouter.AppName },
		set: func(c *Config, v string) error { c.Providers.OpenRouter.AppName = v; return nil },
	},
	"network.proxy_url": {
		get: func(c *Config) string { return c.Network.ProxyURL },
		set: func(c *Config, v string) error { c.Network.ProxyURL = v; return nil },
	},
	"rag.target": {
		get: func(c *Config) string { return c.RAG.Target },
		set: func(c *Config, v string) error { c.RAG.Target = v; return nil },
	},
	"emotion.lexicon_path": {
		get: func(c *Config) string { return c.Emotion.LexiconPath },
		set: func(c *Config, v string) error { c.Emotion.LexiconPath = v; return nil },
	},
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
}
